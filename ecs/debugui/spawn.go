package debugui

import "github.com/plus3/physync/ecs"

type debugWindows struct {
	*EntityBrowserComponent
	*ComponentInspectorComponent
	*EventLogViewerComponent
	*PerformanceStatsComponent
}

// SpawnDebugUI creates the inspection windows as one entity and an ImguiItem
// that renders them. stats may be nil when no scheduler is available.
func SpawnDebugUI(storage *ecs.Storage, stats func() *ecs.SchedulerStats) ecs.EntityId {
	id := storage.Spawn(
		NewEntityBrowserComponent(100),
		NewComponentInspectorComponent(),
		NewEventLogViewerComponent(),
		NewPerformanceStatsComponent(120),
	)

	view := ecs.NewView[debugWindows](storage)
	timer := NewFrameTimer()

	storage.Spawn(ImguiItem{Render: func() {
		windows := view.Get(id)
		if windows == nil {
			return
		}

		var schedule *ecs.SchedulerStats
		if stats != nil {
			schedule = stats()
		}

		windows.EventLogViewerComponent.Render(storage)
		windows.EntityBrowserComponent.Render(storage, windows.EventLogViewerComponent.SelectedType())
		windows.ComponentInspectorComponent.Render(storage, windows.EntityBrowserComponent.GetSelectedEntity())
		windows.PerformanceStatsComponent.Render(storage, schedule, timer.GetDeltaTime())
	}})

	return id
}

func RegisterDebugUIComponents(registry *ecs.ComponentRegistry) {
	ecs.RegisterComponent[ImguiItem](registry)
	ecs.RegisterComponent[EntityBrowserComponent](registry)
	ecs.RegisterComponent[ComponentInspectorComponent](registry)
	ecs.RegisterComponent[EventLogViewerComponent](registry)
	ecs.RegisterComponent[PerformanceStatsComponent](registry)
}

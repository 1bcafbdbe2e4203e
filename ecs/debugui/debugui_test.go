package debugui

import (
	"runtime"
	"testing"

	"github.com/plus3/physync/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type position struct{ X, Y float32 }

type label string

func newTestStorage() *ecs.Storage {
	registry := ecs.NewComponentRegistry()
	ecs.RegisterComponent[position](registry)
	ecs.RegisterComponent[label](registry)
	RegisterDebugUIComponents(registry)
	return ecs.NewStorage(registry)
}

func TestEntityBrowserFilters(t *testing.T) {
	storage := newTestStorage()
	a := storage.Spawn(position{X: 1})
	b := storage.Spawn(position{X: 2}, label("player"))
	c := storage.Spawn(label("wall"))

	browser := NewEntityBrowserComponent(10)
	browser.Rebuild(storage)

	ids := func(infos []EntityInfo) []ecs.EntityId {
		var out []ecs.EntityId
		for _, info := range infos {
			out = append(out, info.ID)
		}
		return out
	}

	assert.Equal(t, []ecs.EntityId{a, b, c}, ids(browser.FilteredEntities()))

	browser.SetFilterComponent("debugui.label")
	assert.Equal(t, []ecs.EntityId{b, c}, ids(browser.FilteredEntities()))

	browser.SetFilterComponent("")
	browser.SetFilterText("POSITION")
	assert.Equal(t, []ecs.EntityId{a, b}, ids(browser.FilteredEntities()))
}

func TestEntityBrowserRebuildsOnEntityCountChange(t *testing.T) {
	storage := newTestStorage()
	storage.Spawn(position{})

	browser := NewEntityBrowserComponent(10)
	browser.rebuildCacheIfNeeded(storage)
	require.Len(t, browser.FilteredEntities(), 1)

	dead := storage.Spawn(position{})
	storage.Delete(dead)
	browser.rebuildCacheIfNeeded(storage)
	assert.Len(t, browser.FilteredEntities(), 1)

	reused := storage.Spawn(position{})
	browser.rebuildCacheIfNeeded(storage)
	infos := browser.FilteredEntities()
	require.Len(t, infos, 2)
	assert.Equal(t, reused, infos[1].ID)
	assert.Equal(t, uint32(2), infos[1].Generation)
}

func TestEventLogViewerRows(t *testing.T) {
	storage := newTestStorage()
	reader := ecs.RegisterReader[position](storage)
	defer runtime.KeepAlive(reader)
	storage.Spawn(position{})
	storage.Spawn(position{}, label("x"))

	viewer := NewEventLogViewerComponent()
	viewer.Refresh(storage)

	rows := map[string]EventLogRow{}
	for _, row := range viewer.Rows() {
		rows[row.Type] = row
	}
	assert.Equal(t, EventLogRow{Type: "debugui.position", EntityCount: 2, RetainedEvents: 2, LiveReaders: 1, HeadSequence: 2}, rows["debugui.position"])
	assert.Equal(t, 1, rows["debugui.label"].EntityCount)
	assert.Equal(t, 0, rows["debugui.label"].LiveReaders)

	viewer.SetSort(eventLogColumnEntities, false)
	assert.Equal(t, "debugui.position", viewer.Rows()[0].Type)

	viewer.SetSort(eventLogColumnType, true)
	for i := 1; i < len(viewer.Rows()); i++ {
		assert.Less(t, viewer.Rows()[i-1].Type, viewer.Rows()[i].Type)
	}
}

func TestPerformanceStatsHistory(t *testing.T) {
	stats := NewPerformanceStatsComponent(4)
	for _, dt := range []float32{0.01, 0.02, 0.03, 0.04, 0.05} {
		stats.Record(dt)
	}

	// The first sample has been overwritten by the fifth
	assert.InDelta(t, 35.0, stats.AverageFrameTime(), 0.001)
}

func TestReflectionCacheSkipsUnexported(t *testing.T) {
	type sample struct {
		Visible float32
		hidden  int
		Next    *position
	}

	fields := NewReflectionCache().GetFields(ecs.TypeOf[sample]())
	require.Len(t, fields, 2)
	assert.Equal(t, "Visible", fields[0].Name)
	assert.True(t, fields[1].IsPointer)
	assert.True(t, fields[1].IsStruct)
}

func TestReflectionCacheSkipsFuncs(t *testing.T) {
	cache := NewReflectionCache()
	assert.Empty(t, cache.GetFields(ecs.TypeOf[ImguiItem]()))
	assert.Empty(t, cache.GetFields(ecs.TypeOf[label]()))
}

package debugui

import (
	"fmt"
	"sort"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/physync/ecs"
)

// EventLogRow is one component storage as shown by the event log viewer.
type EventLogRow struct {
	Type           string
	EntityCount    int
	RetainedEvents int
	LiveReaders    int
	HeadSequence   uint64
}

const (
	eventLogColumnType = iota
	eventLogColumnEntities
	eventLogColumnRetained
	eventLogColumnReaders
	eventLogColumnHead
)

func NewEventLogViewerComponent() EventLogViewerComponent {
	return EventLogViewerComponent{sortAscending: true}
}

// Refresh rebuilds the rows from the storage's current statistics.
func (v *EventLogViewerComponent) Refresh(storage *ecs.Storage) {
	breakdown := storage.CollectStats().ComponentBreakdown
	v.rows = v.rows[:0]
	for _, c := range breakdown {
		v.rows = append(v.rows, EventLogRow(c))
	}
	v.sortRows()
}

// Rows returns the rows in display order.
func (v *EventLogViewerComponent) Rows() []EventLogRow {
	return v.rows
}

// SelectedType is the component type last clicked in the table, or "".
func (v *EventLogViewerComponent) SelectedType() string {
	return v.selectedType
}

// SetSort changes the sort column and direction.
func (v *EventLogViewerComponent) SetSort(column int, ascending bool) {
	v.sortColumn = column
	v.sortAscending = ascending
	v.sortRows()
}

func (v *EventLogViewerComponent) sortRows() {
	sort.SliceStable(v.rows, func(i, j int) bool {
		if v.sortAscending {
			return v.less(v.rows[i], v.rows[j])
		}
		return v.less(v.rows[j], v.rows[i])
	})
}

func (v *EventLogViewerComponent) less(a, b EventLogRow) bool {
	switch v.sortColumn {
	case eventLogColumnEntities:
		return a.EntityCount < b.EntityCount
	case eventLogColumnRetained:
		return a.RetainedEvents < b.RetainedEvents
	case eventLogColumnReaders:
		return a.LiveReaders < b.LiveReaders
	case eventLogColumnHead:
		return a.HeadSequence < b.HeadSequence
	default:
		return a.Type < b.Type
	}
}

func (v *EventLogViewerComponent) Render(storage *ecs.Storage) {
	if !imgui.BeginV("Event Logs", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	v.Refresh(storage)

	const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg | imgui.TableFlagsSortable | imgui.TableFlagsScrollY
	if imgui.BeginTableV("EventLogTable", 5, tableFlags, imgui.NewVec2(0, 0), 0) {
		imgui.TableSetupColumn("Component")
		imgui.TableSetupColumn("Entities")
		imgui.TableSetupColumn("Retained")
		imgui.TableSetupColumn("Readers")
		imgui.TableSetupColumn("Head")
		imgui.TableHeadersRow()

		sortSpecs := imgui.TableGetSortSpecs()
		if sortSpecs.SpecsDirty() && sortSpecs.SpecsCount() > 0 {
			spec := sortSpecs.Specs()
			v.SetSort(int(spec.ColumnIndex()), spec.SortDirection() == imgui.SortDirectionAscending)
			sortSpecs.SetSpecsDirty(false)
		}

		for _, row := range v.rows {
			imgui.TableNextRow()
			imgui.TableNextColumn()
			if imgui.SelectableBoolV(row.Type, v.selectedType == row.Type, imgui.SelectableFlagsSpanAllColumns, imgui.NewVec2(0, 0)) {
				v.selectedType = row.Type
			}
			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%d", row.EntityCount))
			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%d", row.RetainedEvents))
			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%d", row.LiveReaders))
			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%d", row.HeadSequence))
		}

		imgui.EndTable()
	}

	imgui.End()
}

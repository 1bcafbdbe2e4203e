// Package debugui provides immediate-mode GUI integration for ECS applications using Dear ImGui.
// Windows are entities carrying an ImguiItem; ImguiSystem renders them once the frame's systems finish.
package debugui

import (
	"reflect"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/physync/ecs"
)

// ImguiItem is a component that holds a Dear ImGui render function.
type ImguiItem struct {
	Render func()
}

// ImguiInputState is a singleton mirroring whether ImGui consumes mouse or keyboard input.
// Game input handling should check it before reacting to keys.
type ImguiInputState struct {
	WantCaptureMouse    bool
	WantCaptureKeyboard bool
}

// ImguiSystem updates ImguiInputState and defers every ImguiItem render function
// to the end of the frame.
type ImguiSystem struct {
	Items      ecs.Query[struct{ *ImguiItem }]
	InputState ecs.Singleton[ImguiInputState]
}

// Access declares a read of ImguiItem. Rendering happens in the command
// flush, after every batch has finished.
func (i *ImguiSystem) Access() ecs.Access {
	return ecs.Access{Reads: []reflect.Type{ecs.TypeOf[ImguiItem]()}}
}

func (i *ImguiSystem) Execute(frame *ecs.UpdateFrame) {
	if state := i.InputState.Get(); state != nil {
		io := imgui.CurrentIO()
		state.WantCaptureMouse = io.WantCaptureMouse()
		state.WantCaptureKeyboard = io.WantCaptureKeyboard()
	}

	renders := make([]func(), 0, i.Items.Len())
	for item := range i.Items.Values() {
		if item.Render != nil {
			renders = append(renders, item.Render)
		}
	}

	frame.Commands.Defer(func() {
		for _, render := range renders {
			render()
		}
	})
}

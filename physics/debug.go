package physics

import (
	"reflect"
	"sync"

	"github.com/plus3/physync/ecs"
)

// DebugLine is a colored segment in world space.
type DebugLine struct {
	Start Vector3
	End   Vector3
	Color Color
	Width float64
}

// DebugLines is an append-only buffer of segments filled during a frame and
// drained by a renderer.
type DebugLines struct {
	mu    sync.Mutex
	lines []DebugLine
}

// NewDebugLines returns an empty line buffer.
func NewDebugLines() *DebugLines {
	return &DebugLines{}
}

// DrawLine queues one segment.
func (d *DebugLines) DrawLine(start, end Vector3, color Color, width float64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.lines = append(d.lines, DebugLine{Start: start, End: end, Color: color, Width: width})
}

// Len returns the number of queued segments.
func (d *DebugLines) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.lines)
}

// Lines returns a copy of the buffered segments.
func (d *DebugLines) Lines() []DebugLine {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]DebugLine, len(d.lines))
	copy(out, d.lines)
	return out
}

// Drain returns the buffered segments and empties the buffer.
func (d *DebugLines) Drain() []DebugLine {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := d.lines
	d.lines = nil
	return out
}

// DebugSystem outlines every collider at its presentation transform.
// Rectangles are drawn as four segments; other shapes are skipped.
type DebugSystem struct {
	Entities ecs.Query[struct {
		*Transform
		*Collider
	}]

	lines       *DebugLines
	width       float64
	sensorColor Color
	solidColor  Color
}

// NewDebugSystem draws collider outlines into lines using the colors in cfg.
func NewDebugSystem(lines *DebugLines, cfg Config) *DebugSystem {
	return &DebugSystem{
		lines:       lines,
		width:       cfg.LineWidth,
		sensorColor: cfg.SensorColor,
		solidColor:  cfg.SolidColor,
	}
}

func (s *DebugSystem) Access() ecs.Access {
	return ecs.Access{
		Reads: []reflect.Type{ecs.TypeOf[Transform](), ecs.TypeOf[Collider]()},
	}
}

func (s *DebugSystem) Execute(frame *ecs.UpdateFrame) {
	for entity := range s.Entities.Values() {
		s.drawCollider(entity.Transform.Translation, entity.Collider)
	}
}

func (s *DebugSystem) drawCollider(center Vector3, collider *Collider) {
	width, height, _, ok := collider.Shape.Rectangle()
	if !ok {
		return
	}

	color := s.solidColor
	if collider.Sensor {
		color = s.sensorColor
	}

	hw, hh := width/2, height/2
	x, y, z := center.X, center.Y, center.Z

	topLeft := Vector3{x - hw, y + hh, z}
	topRight := Vector3{x + hw, y + hh, z}
	bottomRight := Vector3{x + hw, y - hh, z}
	bottomLeft := Vector3{x - hw, y - hh, z}

	s.lines.DrawLine(topLeft, topRight, color, s.width)
	s.lines.DrawLine(topRight, bottomRight, color, s.width)
	s.lines.DrawLine(bottomRight, bottomLeft, color, s.width)
	s.lines.DrawLine(bottomLeft, topLeft, color, s.width)
}

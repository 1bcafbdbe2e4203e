package kinematic

import (
	"sync"

	"github.com/plus3/physync/ecs"
	"github.com/plus3/physync/physics"
)

// BodyStatus selects how a body moves.
type BodyStatus uint8

const (
	// Dynamic bodies are moved by velocity and gravity and blocked by static solids.
	Dynamic BodyStatus = iota
	// Static bodies never move.
	Static
	// Kinematic bodies are moved by velocity only and pass through everything.
	Kinematic
)

func (s BodyStatus) String() string {
	switch s {
	case Dynamic:
		return "dynamic"
	case Static:
		return "static"
	case Kinematic:
		return "kinematic"
	default:
		return "unknown"
	}
}

// Body marks an entity as simulated by the kinematic backend.
type Body struct {
	Status   BodyStatus
	Velocity physics.Vector3
}

// Config holds the world settings of the kinematic backend.
type Config struct {
	Gravity physics.Vector3 `yaml:"gravity"`
}

// Contact records a moving body overlapping a sensor during the last step.
type Contact struct {
	Sensor ecs.EntityId
	Other  ecs.EntityId
}

// Contacts holds the sensor overlaps found by the most recent step.
type Contacts struct {
	mu    sync.Mutex
	pairs []Contact
}

// All returns a copy of the contacts.
func (c *Contacts) All() []Contact {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Contact, len(c.pairs))
	copy(out, c.pairs)
	return out
}

func (c *Contacts) replace(pairs []Contact) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pairs = pairs
}

// RegisterComponents registers Body.
func RegisterComponents(registry *ecs.ComponentRegistry) {
	ecs.RegisterComponent[Body](registry)
}

type box struct {
	minX, minY, maxX, maxY float64
}

// boxOf returns the XY bounds of a rectangle shape centered on position.
func boxOf(position physics.Vector3, shape physics.Shape) (box, bool) {
	width, height, _, ok := shape.Rectangle()
	if !ok {
		return box{}, false
	}
	hw, hh := width/2, height/2
	return box{
		minX: position.X - hw,
		minY: position.Y - hh,
		maxX: position.X + hw,
		maxY: position.Y + hh,
	}, true
}

// overlaps reports whether two boxes intersect. Touching edges do not count.
func (b box) overlaps(o box) bool {
	return b.minX < o.maxX && b.maxX > o.minX && b.minY < o.maxY && b.maxY > o.minY
}

package kinematic

import (
	"reflect"

	"github.com/plus3/physync/ecs"
	"github.com/plus3/physync/physics"
	"go.uber.org/zap"
)

const StepSystemName = "physics_stepper_system"

type bodyView struct {
	ecs.EntityId
	*physics.PhysicsTransform
	*Body
	Collider *physics.Collider `ecs:"optional"`
}

// StepSystem integrates body velocities into physics transforms.
//
// Movement is resolved one axis at a time: a dynamic solid body keeps its
// previous coordinate on any axis where moving would overlap a static solid
// rectangle. After moving, every sensor rectangle records the bodies it
// overlaps.
type StepSystem struct {
	Bodies  ecs.Query[bodyView]
	Sensors ecs.Query[struct {
		ecs.EntityId
		*physics.PhysicsTransform
		*physics.Collider
	}]

	storage  *ecs.Storage
	config   Config
	contacts *Contacts
	logger   *zap.Logger
}

// NewStepSystem stores contacts found during each step into contacts.
func NewStepSystem(storage *ecs.Storage, cfg Config, contacts *Contacts, logger *zap.Logger) *StepSystem {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StepSystem{
		storage:  storage,
		config:   cfg,
		contacts: contacts,
		logger:   logger.With(zap.String("system", StepSystemName)),
	}
}

func (s *StepSystem) Access() ecs.Access {
	return ecs.Access{
		Reads:  []reflect.Type{ecs.TypeOf[physics.Collider]()},
		Writes: []reflect.Type{ecs.TypeOf[physics.PhysicsTransform](), ecs.TypeOf[Body]()},
	}
}

func (s *StepSystem) Execute(frame *ecs.UpdateFrame) {
	dt := frame.DeltaTime

	var obstacles []box
	for body := range s.Bodies.Values() {
		if body.Status != Static || !solid(body.Collider) {
			continue
		}
		if b, ok := boxOf(body.Translation(), body.Collider.Shape); ok {
			obstacles = append(obstacles, b)
		}
	}

	for body := range s.Bodies.Values() {
		s.move(body, dt, obstacles)
	}

	s.contacts.replace(s.findContacts())
}

func (s *StepSystem) move(body bodyView, dt float64, obstacles []box) {
	switch body.Status {
	case Static:
		return
	case Dynamic:
		body.Velocity = body.Velocity.Add(s.config.Gravity.Scale(dt))
	}
	if body.Velocity.IsZero() {
		return
	}

	current := body.Translation()
	blockable := body.Status == Dynamic && solid(body.Collider)
	delta := body.Velocity.Scale(dt)

	next := current
	for axis := 0; axis < 3; axis++ {
		candidate := next
		setAxis(&candidate, axis, axisOf(next, axis)+axisOf(delta, axis))
		if candidate == next {
			continue
		}
		if blockable && blocked(candidate, body.Collider.Shape, obstacles) {
			s.logger.Debug("body blocked",
				zap.Uint64("entity", uint64(body.EntityId)),
				zap.Int("axis", axis),
			)
			continue
		}
		next = candidate
	}

	if next == current {
		return
	}
	body.SetPosition(next.X, next.Y, next.Z)
	s.storage.MarkModified(body.EntityId, ecs.TypeOf[physics.PhysicsTransform]())
}

func (s *StepSystem) findContacts() []Contact {
	var contacts []Contact
	for sensor := range s.Sensors.Values() {
		if !sensor.Sensor {
			continue
		}
		area, ok := boxOf(sensor.Translation(), sensor.Shape)
		if !ok {
			continue
		}

		for body := range s.Bodies.Values() {
			if body.EntityId == sensor.EntityId || body.Status == Static || body.Collider == nil {
				continue
			}
			if b, ok := boxOf(body.Translation(), body.Collider.Shape); ok && area.overlaps(b) {
				contacts = append(contacts, Contact{Sensor: sensor.EntityId, Other: body.EntityId})
			}
		}
	}
	return contacts
}

func solid(collider *physics.Collider) bool {
	return collider != nil && !collider.Sensor
}

func blocked(position physics.Vector3, shape physics.Shape, obstacles []box) bool {
	b, ok := boxOf(position, shape)
	if !ok {
		return false
	}
	for _, obstacle := range obstacles {
		if b.overlaps(obstacle) {
			return true
		}
	}
	return false
}

func axisOf(v physics.Vector3, axis int) float64 {
	switch axis {
	case 0:
		return v.X
	case 1:
		return v.Y
	default:
		return v.Z
	}
}

func setAxis(v *physics.Vector3, axis int, value float64) {
	switch axis {
	case 0:
		v.X = value
	case 1:
		v.Y = value
	default:
		v.Z = value
	}
}

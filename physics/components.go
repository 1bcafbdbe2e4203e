package physics

import "github.com/plus3/physync/ecs"

// Vector3 is a point or offset in world units.
type Vector3 struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	Z float64 `yaml:"z"`
}

// Add returns the component-wise sum.
func (v Vector3) Add(o Vector3) Vector3 {
	return Vector3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

// Scale multiplies every component by f.
func (v Vector3) Scale(f float64) Vector3 {
	return Vector3{v.X * f, v.Y * f, v.Z * f}
}

// IsZero reports whether all components are zero.
func (v Vector3) IsZero() bool {
	return v == Vector3{}
}

// Quaternion is a rotation.
type Quaternion struct {
	W, X, Y, Z float64
}

// IdentityRotation is the quaternion of no rotation.
var IdentityRotation = Quaternion{W: 1}

// Transform is the presentation-side spatial state read by rendering and game logic.
type Transform struct {
	Translation Vector3
	Rotation    Quaternion
	Scale       Vector3
}

// NewTransform returns a transform at the given translation with no rotation and unit scale.
func NewTransform(translation Vector3) Transform {
	return Transform{
		Translation: translation,
		Rotation:    IdentityRotation,
		Scale:       Vector3{1, 1, 1},
	}
}

// SetTranslationXYZ moves the transform, leaving rotation and scale alone.
func (t *Transform) SetTranslationXYZ(x, y, z float64) {
	t.Translation = Vector3{x, y, z}
}

// Positioner is the capability a physics backend needs from a simulation transform.
type Positioner interface {
	Position() (x, y, z float64)
	SetPosition(x, y, z float64)
}

// PhysicsTransform is the simulation-side position owned by the physics backend.
type PhysicsTransform struct {
	position Vector3
}

var _ Positioner = (*PhysicsTransform)(nil)

// NewPhysicsTransform returns a simulation transform at position.
func NewPhysicsTransform(position Vector3) PhysicsTransform {
	return PhysicsTransform{position: position}
}

// Position returns the simulated position.
func (p *PhysicsTransform) Position() (x, y, z float64) {
	return p.position.X, p.position.Y, p.position.Z
}

// SetPosition moves the simulated body.
func (p *PhysicsTransform) SetPosition(x, y, z float64) {
	p.position = Vector3{x, y, z}
}

// Translation returns the position as a vector.
func (p *PhysicsTransform) Translation() Vector3 {
	return p.position
}

// RegisterComponents registers every component type this package reads or writes.
func RegisterComponents(registry *ecs.ComponentRegistry) {
	ecs.RegisterComponent[Transform](registry)
	ecs.RegisterComponent[PhysicsTransform](registry)
	ecs.RegisterComponent[Collider](registry)
}

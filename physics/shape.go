package physics

// ShapeKind discriminates the variants of Shape.
type ShapeKind uint8

const (
	ShapeKindUnsupported ShapeKind = iota
	ShapeKindRectangle
	ShapeKindCircle
	ShapeKindCapsule
)

func (k ShapeKind) String() string {
	switch k {
	case ShapeKindRectangle:
		return "rectangle"
	case ShapeKindCircle:
		return "circle"
	case ShapeKindCapsule:
		return "capsule"
	default:
		return "unsupported"
	}
}

// Shape is a closed set of collision shapes. The zero value is the
// unsupported shape, which consumers must treat as a no-op.
// Only the fields of the active variant are meaningful.
type Shape struct {
	Kind       ShapeKind
	Width      float64
	Height     float64
	Depth      float64
	Radius     float64
	HalfHeight float64
}

// ShapeRectangle returns a box centered on its entity's position.
func ShapeRectangle(width, height, depth float64) Shape {
	return Shape{Kind: ShapeKindRectangle, Width: width, Height: height, Depth: depth}
}

// ShapeCircle returns a circle of the given radius.
func ShapeCircle(radius float64) Shape {
	return Shape{Kind: ShapeKindCircle, Radius: radius}
}

// ShapeCapsule returns a vertical capsule.
func ShapeCapsule(halfHeight, radius float64) Shape {
	return Shape{Kind: ShapeKindCapsule, HalfHeight: halfHeight, Radius: radius}
}

// ShapeUnsupported returns the zero shape.
func ShapeUnsupported() Shape {
	return Shape{}
}

// Rectangle returns the rectangle extents, or ok=false for any other variant.
func (s Shape) Rectangle() (width, height, depth float64, ok bool) {
	if s.Kind != ShapeKindRectangle {
		return 0, 0, 0, false
	}
	return s.Width, s.Height, s.Depth, true
}

// Collider attaches a collision shape to an entity. A sensor detects
// overlap without blocking movement.
type Collider struct {
	Shape  Shape
	Sensor bool
}

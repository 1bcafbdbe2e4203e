package physics_test

import (
	"sync"
	"testing"

	"github.com/plus3/physync/ecs"
	"github.com/plus3/physync/physics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runDebugSystem(storage *ecs.Storage, cfg physics.Config) *physics.DebugLines {
	lines := physics.NewDebugLines()
	scheduler := ecs.NewScheduler(storage)
	scheduler.Add(physics.NewDebugSystem(lines, cfg), physics.DebugSystemName)
	scheduler.Once(0)
	return lines
}

func TestDebugSystemRectangle(t *testing.T) {
	storage := newStorage()
	cfg := physics.DefaultConfig()

	storage.Spawn(
		physics.NewTransform(physics.Vector3{X: 25, Y: 50, Z: 2}),
		physics.Collider{Shape: physics.ShapeRectangle(16, 22, 1)},
	)

	lines := runDebugSystem(storage, cfg).Lines()
	require.Len(t, lines, 4)

	expected := [][2]physics.Vector3{
		{{X: 17, Y: 61, Z: 2}, {X: 33, Y: 61, Z: 2}},
		{{X: 33, Y: 61, Z: 2}, {X: 33, Y: 39, Z: 2}},
		{{X: 33, Y: 39, Z: 2}, {X: 17, Y: 39, Z: 2}},
		{{X: 17, Y: 39, Z: 2}, {X: 17, Y: 61, Z: 2}},
	}
	for i, line := range lines {
		assert.Equal(t, expected[i][0], line.Start, "line %d start", i)
		assert.Equal(t, expected[i][1], line.End, "line %d end", i)
		assert.Equal(t, cfg.SolidColor, line.Color)
		assert.Equal(t, 1.0, line.Width)
	}
}

func TestDebugSystemSensorColor(t *testing.T) {
	storage := newStorage()
	cfg := physics.DefaultConfig()

	storage.Spawn(
		physics.NewTransform(physics.Vector3{}),
		physics.Collider{Shape: physics.ShapeRectangle(1, 1, 1), Sensor: true},
	)

	for _, line := range runDebugSystem(storage, cfg).Lines() {
		assert.Equal(t, cfg.SensorColor, line.Color)
	}
}

func TestDebugSystemSkipsOtherShapes(t *testing.T) {
	for _, shape := range []physics.Shape{
		physics.ShapeUnsupported(),
		physics.ShapeCircle(4),
		physics.ShapeCapsule(2, 1),
	} {
		t.Run(shape.Kind.String(), func(t *testing.T) {
			storage := newStorage()
			storage.Spawn(physics.NewTransform(physics.Vector3{}), physics.Collider{Shape: shape})

			assert.Equal(t, 0, runDebugSystem(storage, physics.DefaultConfig()).Len())
		})
	}
}

func TestDebugSystemNeedsTransform(t *testing.T) {
	storage := newStorage()
	storage.Spawn(physics.Collider{Shape: physics.ShapeRectangle(1, 1, 1)})

	assert.Equal(t, 0, runDebugSystem(storage, physics.DefaultConfig()).Len())
}

func TestDebugSystemDoesNotWrite(t *testing.T) {
	storage := newStorage()
	transforms := ecs.RegisterReader[physics.Transform](storage)
	colliders := ecs.RegisterReader[physics.Collider](storage)

	storage.Spawn(physics.NewTransform(physics.Vector3{}), physics.Collider{Shape: physics.ShapeRectangle(1, 1, 1)})
	ecs.Diff[physics.Transform](storage, transforms)
	ecs.Diff[physics.Collider](storage, colliders)

	runDebugSystem(storage, physics.DefaultConfig())

	assert.True(t, ecs.Diff[physics.Transform](storage, transforms).Empty())
	assert.True(t, ecs.Diff[physics.Collider](storage, colliders).Empty())
}

func TestDebugLinesDrain(t *testing.T) {
	lines := physics.NewDebugLines()

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 25; j++ {
				lines.DrawLine(physics.Vector3{}, physics.Vector3{X: 1}, physics.Color{A: 1}, 1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 100, lines.Len())
	assert.Len(t, lines.Drain(), 100)
	assert.Equal(t, 0, lines.Len())
	assert.Empty(t, lines.Drain())
}

func TestShapeRectangle(t *testing.T) {
	w, h, d, ok := physics.ShapeRectangle(15, 22, 1).Rectangle()
	assert.True(t, ok)
	assert.Equal(t, [3]float64{15, 22, 1}, [3]float64{w, h, d})

	_, _, _, ok = physics.ShapeCircle(1).Rectangle()
	assert.False(t, ok)

	var zero physics.Shape
	assert.Equal(t, physics.ShapeKindUnsupported, zero.Kind)
	assert.Equal(t, "unsupported", zero.Kind.String())
}

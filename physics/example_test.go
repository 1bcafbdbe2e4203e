package physics_test

import (
	"fmt"

	"github.com/plus3/physync/ecs"
	"github.com/plus3/physync/physics"
	"github.com/plus3/physync/physics/kinematic"
)

// ExampleBundle wires the sync pipeline around the kinematic backend.
// Spawning a Transform is enough to get a simulated body; the simulated
// position flows back into the Transform each frame.
func ExampleBundle() {
	registry := ecs.NewComponentRegistry()
	physics.RegisterComponents(registry)
	kinematic.RegisterComponents(registry)
	storage := ecs.NewStorage(registry)

	cfg := physics.DefaultConfig()
	cfg.DebugLines = true
	lines := physics.NewDebugLines()

	scheduler := ecs.NewScheduler(storage)
	bundle := physics.NewBundle(storage,
		physics.WithBackend(kinematic.NewBackend(storage, kinematic.Config{}, nil)),
		physics.WithDebugLines(lines),
		physics.WithConfig(cfg),
	)
	if err := bundle.Build(scheduler); err != nil {
		panic(err)
	}

	schedule, err := scheduler.Build()
	if err != nil {
		panic(err)
	}
	fmt.Println(schedule.Order())

	player := storage.Spawn(
		physics.NewTransform(physics.Vector3{X: 25, Y: 50}),
		physics.Collider{Shape: physics.ShapeRectangle(15, 22, 1)},
		kinematic.Body{Status: kinematic.Dynamic, Velocity: physics.Vector3{X: 10}},
	)

	for i := 0; i < 3; i++ {
		schedule.Once(1)
	}

	t := ecs.ReadComponent[physics.Transform](storage, player).Translation
	fmt.Printf("player at (%.0f, %.0f)\n", t.X, t.Y)
	fmt.Println("debug lines:", len(lines.Drain()))

	// Output:
	// [sync_transforms_to_physics_system physics_stepper_system sync_transforms_from_physics_system debug_system]
	// player at (55, 50)
	// debug lines: 12
}

package main

import (
	"github.com/plus3/physync/ecs"
	"github.com/plus3/physync/physics"
	"github.com/plus3/physync/physics/kinematic"
)

type scene struct {
	player   ecs.EntityId
	obstacle ecs.EntityId
	zone     ecs.EntityId
}

// spawnScene places a dynamic player left of a static obstacle, with a
// sensor zone above the player.
func spawnScene(storage *ecs.Storage) scene {
	return scene{
		player: storage.Spawn(
			physics.NewTransform(physics.Vector3{X: 25, Y: 50}),
			physics.Collider{Shape: physics.ShapeRectangle(15, 22, 1)},
			kinematic.Body{Status: kinematic.Dynamic},
		),
		obstacle: storage.Spawn(
			physics.NewTransform(physics.Vector3{X: 75, Y: 50}),
			physics.Collider{Shape: physics.ShapeRectangle(15, 16, 1)},
			kinematic.Body{Status: kinematic.Static},
		),
		zone: storage.Spawn(
			physics.NewTransform(physics.Vector3{X: 25, Y: 100}),
			physics.Collider{Shape: physics.ShapeRectangle(30, 30, 1), Sensor: true},
			kinematic.Body{Status: kinematic.Static},
		),
	}
}

// steer sets the player's velocity from a direction whose components are -1, 0 or 1.
func steer(storage *ecs.Storage, player ecs.EntityId, dx, dy, speed float64) {
	body := ecs.WriteComponent[kinematic.Body](storage, player)
	if body == nil {
		return
	}
	body.Velocity = physics.Vector3{X: dx * speed, Y: dy * speed}
}

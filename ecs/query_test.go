package ecs_test

import (
	"testing"

	"github.com/plus3/physync/ecs"
	"github.com/stretchr/testify/assert"
)

func TestQuerySnapshot(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	query := ecs.NewQuery[struct{ *Position }](storage)

	storage.Spawn(Position{X: 1})
	storage.Spawn(Position{X: 2})

	query.Execute()
	assert.Equal(t, 2, query.Len())

	// Entities spawned after Execute are invisible until the next Execute
	storage.Spawn(Position{X: 3})
	count := 0
	for range query.Values() {
		count++
	}
	assert.Equal(t, 2, count)

	query.Execute()
	assert.Equal(t, 3, query.Len())
}

func TestQueryBeforeExecutePanics(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	query := ecs.NewQuery[struct{ *Position }](storage)

	assert.Panics(t, func() { query.Iter() })
	assert.Panics(t, func() { query.Values() })
}

func TestQueryInit(t *testing.T) {
	first := ecs.NewStorage(newTestRegistry())
	second := ecs.NewStorage(newTestRegistry())
	first.Spawn(Position{})

	var query ecs.Query[struct{ *Position }]
	query.Init(first)
	query.Execute()
	assert.Equal(t, 1, query.Len())

	query.Init(second)
	assert.Panics(t, func() { query.Iter() }, "re-initializing invalidates the snapshot")
	query.Execute()
	assert.Equal(t, 0, query.Len())
}

func TestQueryIterMutation(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	query := ecs.NewQuery[struct {
		*Position
		*Velocity
	}](storage)

	id := storage.Spawn(Position{X: 0}, Velocity{DX: 2})
	query.Execute()

	for entity, item := range query.Iter() {
		assert.Equal(t, id, entity)
		item.Position.X += item.Velocity.DX
	}
	assert.Equal(t, float32(2), ecs.ReadComponent[Position](storage, id).X)
}

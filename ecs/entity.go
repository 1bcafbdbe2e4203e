package ecs

import "iter"

// EntityId encodes both the slot generation (upper 32 bits) and the slot index (lower 32 bits).
// Generations start at 1, so the zero EntityId never refers to a live entity.
type EntityId uint64

// NewEntityId creates an EntityId from a generation and slot index
func NewEntityId(generation uint32, index uint32) EntityId {
	return EntityId(uint64(generation)<<32 | uint64(index))
}

// Generation extracts the slot generation from the entity ID
func (e EntityId) Generation() uint32 {
	return uint32(e >> 32)
}

// Index extracts the slot index from the entity ID
func (e EntityId) Index() uint32 {
	return uint32(e & 0xFFFFFFFF)
}

// entityAllocator hands out generational entity IDs.
// A deleted slot is reused with a bumped generation, so a stale ID never
// aliases the entity that later occupies the same slot.
type entityAllocator struct {
	generations []uint32
	alive       []bool
	free        []uint32
	count       int
}

func newEntityAllocator() *entityAllocator {
	return &entityAllocator{}
}

func (a *entityAllocator) create() EntityId {
	a.count++

	if len(a.free) > 0 {
		index := a.free[len(a.free)-1]
		a.free = a.free[:len(a.free)-1]
		a.alive[index] = true
		return NewEntityId(a.generations[index], index)
	}

	index := uint32(len(a.generations))
	a.generations = append(a.generations, 1)
	a.alive = append(a.alive, true)
	return NewEntityId(1, index)
}

func (a *entityAllocator) isAlive(id EntityId) bool {
	index := id.Index()
	if int(index) >= len(a.generations) {
		return false
	}
	return a.alive[index] && a.generations[index] == id.Generation()
}

func (a *entityAllocator) destroy(id EntityId) bool {
	if !a.isAlive(id) {
		return false
	}

	index := id.Index()
	a.alive[index] = false
	a.generations[index]++
	if a.generations[index] == 0 {
		a.generations[index] = 1
	}
	a.free = append(a.free, index)
	a.count--
	return true
}

func (a *entityAllocator) iter() iter.Seq[EntityId] {
	return func(yield func(EntityId) bool) {
		for index, alive := range a.alive {
			if !alive {
				continue
			}
			if !yield(NewEntityId(a.generations[index], uint32(index))) {
				return
			}
		}
	}
}

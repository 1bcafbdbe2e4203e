package ecs

import (
	"iter"
	"reflect"

	"github.com/kamstrup/intmap"
)

// ComponentRegistry manages component type registration for an ECS instance.
// Each Storage instance has its own ComponentRegistry, allowing multiple
// independent ECS systems to coexist without interference.
type ComponentRegistry struct {
	factories map[reflect.Type]func() iComponentStorage
}

// NewComponentRegistry creates a new component registry.
func NewComponentRegistry() *ComponentRegistry {
	return &ComponentRegistry{
		factories: make(map[reflect.Type]func() iComponentStorage),
	}
}

// RegisterComponent registers a new component type with the given registry.
// This must be called for each component type before it can be used.
func RegisterComponent[T any](r *ComponentRegistry) {
	t := reflect.TypeFor[T]()
	r.factories[t] = func() iComponentStorage {
		return newGenericComponentStorage[T]()
	}
}

// getFactory returns the factory function for a given component type.
// Returns nil if the type is not registered.
func (r *ComponentRegistry) getFactory(t reflect.Type) func() iComponentStorage {
	return r.factories[t]
}

const (
	genericBlockSize = 64
)

// genericComponentStorage is a generic implementation of iComponentStorage.
// It stores components of a specific type `T` in blocks, with a sparse
// entity to slot index. Every write is recorded in the storage's EventLog.
// Blocks are heap-allocated individually so component pointers stay valid
// while the storage grows.
type genericComponentStorage[T any] struct {
	blocks    []*[genericBlockSize]T
	owners    [][genericBlockSize]EntityId
	index     *intmap.Map[EntityId, int]
	freeSlots []int
	nextIndex int
	events    *EventLog
}

func newGenericComponentStorage[T any]() *genericComponentStorage[T] {
	return &genericComponentStorage[T]{
		index:  intmap.New[EntityId, int](genericBlockSize),
		events: newEventLog(),
	}
}

func (cs *genericComponentStorage[T]) Type() reflect.Type {
	return reflect.TypeFor[T]()
}

func (cs *genericComponentStorage[T]) Events() *EventLog {
	return cs.events
}

// Insert stores the component for the entity. Inserting over an existing
// component overwrites it and is recorded as a modification.
// Returns false if the item is not a T.
func (cs *genericComponentStorage[T]) Insert(id EntityId, item any) bool {
	var concreteItem T
	if ptr, ok := item.(*T); ok {
		concreteItem = *ptr
	} else if val, ok := item.(T); ok {
		concreteItem = val
	} else {
		return false
	}

	if slot, ok := cs.index.Get(id); ok {
		cs.blocks[slot/genericBlockSize][slot%genericBlockSize] = concreteItem
		cs.events.Append(EventModified, id)
		return true
	}

	slot := cs.allocSlot()
	blockIdx := slot / genericBlockSize
	slotIdx := slot % genericBlockSize

	cs.blocks[blockIdx][slotIdx] = concreteItem
	cs.owners[blockIdx][slotIdx] = id
	cs.index.Put(id, slot)
	cs.events.Append(EventInserted, id)
	return true
}

func (cs *genericComponentStorage[T]) allocSlot() int {
	if len(cs.freeSlots) > 0 {
		slot := cs.freeSlots[len(cs.freeSlots)-1]
		cs.freeSlots = cs.freeSlots[:len(cs.freeSlots)-1]
		return slot
	}

	slot := cs.nextIndex
	cs.nextIndex++

	if slot/genericBlockSize >= len(cs.blocks) {
		cs.blocks = append(cs.blocks, new([genericBlockSize]T))
		cs.owners = append(cs.owners, [genericBlockSize]EntityId{})
	}
	return slot
}

// Get returns a pointer to the entity's component, or nil.
func (cs *genericComponentStorage[T]) Get(id EntityId) any {
	slot, ok := cs.index.Get(id)
	if !ok {
		return nil
	}
	return &cs.blocks[slot/genericBlockSize][slot%genericBlockSize]
}

func (cs *genericComponentStorage[T]) get(id EntityId) *T {
	slot, ok := cs.index.Get(id)
	if !ok {
		return nil
	}
	return &cs.blocks[slot/genericBlockSize][slot%genericBlockSize]
}

// Remove deletes the entity's component and records the removal.
func (cs *genericComponentStorage[T]) Remove(id EntityId) bool {
	slot, ok := cs.index.Get(id)
	if !ok {
		return false
	}

	blockIdx := slot / genericBlockSize
	slotIdx := slot % genericBlockSize

	var zero T
	cs.blocks[blockIdx][slotIdx] = zero // Zero out the value
	cs.owners[blockIdx][slotIdx] = 0
	cs.index.Del(id)
	cs.freeSlots = append(cs.freeSlots, slot)
	cs.events.Append(EventRemoved, id)
	return true
}

// Has checks if the entity has a component in this storage.
func (cs *genericComponentStorage[T]) Has(id EntityId) bool {
	return cs.index.Has(id)
}

// MarkModified records a modification for an entity that has the component.
func (cs *genericComponentStorage[T]) MarkModified(id EntityId) bool {
	if !cs.index.Has(id) {
		return false
	}
	cs.events.Append(EventModified, id)
	return true
}

func (cs *genericComponentStorage[T]) Len() int {
	return cs.index.Len()
}

// Compact reorganizes component storage to remove empty slots.
// Entity IDs are unaffected; only the internal slot index is rewritten.
func (cs *genericComponentStorage[T]) Compact() {
	totalComponents := cs.index.Len()
	if totalComponents == 0 {
		// Reset to a single block if empty
		cs.blocks = []*[genericBlockSize]T{new([genericBlockSize]T)}
		cs.owners = make([][genericBlockSize]EntityId, 1)
		cs.freeSlots = nil
		cs.nextIndex = 0
		return
	}

	numNewBlocks := (totalComponents + genericBlockSize - 1) / genericBlockSize
	newBlocks := make([]*[genericBlockSize]T, numNewBlocks)
	for i := range newBlocks {
		newBlocks[i] = new([genericBlockSize]T)
	}
	newOwners := make([][genericBlockSize]EntityId, numNewBlocks)

	writePos := 0
	for readIdx := 0; readIdx < cs.nextIndex; readIdx++ {
		readBlockIdx := readIdx / genericBlockSize
		readSlotIdx := readIdx % genericBlockSize

		owner := cs.owners[readBlockIdx][readSlotIdx]
		if owner == 0 {
			continue
		}

		writeBlockIdx := writePos / genericBlockSize
		writeSlotIdx := writePos % genericBlockSize

		newBlocks[writeBlockIdx][writeSlotIdx] = cs.blocks[readBlockIdx][readSlotIdx]
		newOwners[writeBlockIdx][writeSlotIdx] = owner
		cs.index.Put(owner, writePos)

		writePos++
	}

	cs.blocks = newBlocks
	cs.owners = newOwners
	cs.freeSlots = nil
	cs.nextIndex = writePos
}

// Iter yields the owning entity of every occupied slot in slot order.
func (cs *genericComponentStorage[T]) Iter() iter.Seq[EntityId] {
	return func(yield func(EntityId) bool) {
		for i := 0; i < cs.nextIndex; i++ {
			blockIdx := i / genericBlockSize
			slotIdx := i % genericBlockSize

			if blockIdx >= len(cs.owners) {
				continue
			}

			if owner := cs.owners[blockIdx][slotIdx]; owner != 0 {
				if !yield(owner) {
					return
				}
			}
		}
	}
}

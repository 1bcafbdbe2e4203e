package ecs

import (
	"iter"
	"reflect"
	"slices"

	"github.com/kamstrup/intmap"
)

// EntitySet is an unordered set of entity IDs.
type EntitySet struct {
	set *intmap.Set[EntityId]
}

// NewEntitySet creates an empty set sized for the given capacity.
func NewEntitySet(capacity int) *EntitySet {
	return &EntitySet{set: intmap.NewSet[EntityId](capacity)}
}

// Add inserts an entity into the set.
func (s *EntitySet) Add(id EntityId) {
	s.set.Add(id)
}

// Has reports whether the entity is in the set.
func (s *EntitySet) Has(id EntityId) bool {
	if s == nil {
		return false
	}
	return s.set.Has(id)
}

// Len returns the number of entities in the set.
func (s *EntitySet) Len() int {
	if s == nil {
		return 0
	}
	return s.set.Len()
}

// All iterates the set in no particular order.
func (s *EntitySet) All() iter.Seq[EntityId] {
	if s == nil {
		return func(yield func(EntityId) bool) {}
	}
	return s.set.All()
}

// Sorted returns the entities in ascending ID order.
func (s *EntitySet) Sorted() []EntityId {
	out := make([]EntityId, 0, s.Len())
	for id := range s.All() {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}

// ComponentChanges partitions the events read from a component log by kind.
type ComponentChanges struct {
	Inserted *EntitySet
	Modified *EntitySet
	Removed  *EntitySet
}

// Empty reports whether no entity changed.
func (c ComponentChanges) Empty() bool {
	return c.Inserted.Len() == 0 && c.Modified.Len() == 0 && c.Removed.Len() == 0
}

// Union returns every entity that appears in any of the three sets.
func (c ComponentChanges) Union() *EntitySet {
	union := NewEntitySet(c.Inserted.Len() + c.Modified.Len() + c.Removed.Len())
	for _, set := range []*EntitySet{c.Inserted, c.Modified, c.Removed} {
		for id := range set.All() {
			union.Add(id)
		}
	}
	return union
}

// DiffEvents partitions a batch of events into per-kind entity sets.
// Repeated events of one kind for the same entity collapse into one entry.
func DiffEvents(events []ComponentEvent) ComponentChanges {
	changes := ComponentChanges{
		Inserted: NewEntitySet(len(events)),
		Modified: NewEntitySet(len(events)),
		Removed:  NewEntitySet(len(events)),
	}

	for _, event := range events {
		switch event.Kind {
		case EventInserted:
			changes.Inserted.Add(event.Entity)
		case EventModified:
			changes.Modified.Add(event.Entity)
		case EventRemoved:
			changes.Removed.Add(event.Entity)
		}
	}
	return changes
}

// Diff consumes every event on T's storage that the reader has not seen yet
// and returns the entities inserted, modified and removed since its last read.
// Component values are never read.
func Diff[T any](storage *Storage, reader *ReaderId) ComponentChanges {
	return storage.Diff(reflect.TypeFor[T](), reader)
}

// Diff is the untyped form of the package-level Diff.
func (s *Storage) Diff(compType reflect.Type, reader *ReaderId) ComponentChanges {
	log := s.EventLog(compType)
	if log == nil {
		panic("component type " + compType.String() + " not registered")
	}
	return DiffEvents(log.Read(reader))
}

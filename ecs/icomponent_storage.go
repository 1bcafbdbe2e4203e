package ecs

import (
	"iter"
	"reflect"
)

// iComponentStorage is an interface for a type-erased, entity-keyed component storage.
type iComponentStorage interface {
	Type() reflect.Type
	Insert(id EntityId, item any) bool
	Remove(id EntityId) bool
	Get(id EntityId) any
	Has(id EntityId) bool
	MarkModified(id EntityId) bool
	Len() int
	Compact()
	Iter() iter.Seq[EntityId]
	Events() *EventLog
}

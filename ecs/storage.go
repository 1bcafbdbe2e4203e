package ecs

import (
	"errors"
	"fmt"
	"iter"
	"reflect"
	"unsafe"
)

var (
	// ErrEntityNotAlive is returned when writing to an entity that was deleted or never existed.
	ErrEntityNotAlive = errors.New("entity is not alive")
	// ErrComponentNotRegistered is returned when a component type has no storage.
	ErrComponentNotRegistered = errors.New("component type not registered")
)

// Storage is the main ECS storage interface
type Storage struct {
	entities   *entityAllocator
	components map[reflect.Type]iComponentStorage
	singletons map[reflect.Type]*singletonEntry
	registry   *ComponentRegistry
}

type singletonEntry struct {
	dataPtr unsafe.Pointer
	typ     reflect.Type
}

// NewStorage creates a new ECS storage system with the given component registry.
// One storage and one event log are created per registered component type.
func NewStorage(registry *ComponentRegistry) *Storage {
	s := &Storage{
		entities:   newEntityAllocator(),
		components: make(map[reflect.Type]iComponentStorage, len(registry.factories)),
		singletons: make(map[reflect.Type]*singletonEntry),
		registry:   registry,
	}
	for typ, factory := range registry.factories {
		s.components[typ] = factory()
	}
	return s
}

// Spawn creates a new entity with the provided components
func (s *Storage) Spawn(components ...any) EntityId {
	if len(components) == 0 {
		panic("cannot spawn entity without components")
	}

	for _, comp := range components {
		if s.storageFor(componentType(comp)) == nil {
			panic("component type " + componentType(comp).String() + " not registered")
		}
	}

	id := s.entities.create()
	for _, comp := range components {
		s.storageFor(componentType(comp)).Insert(id, comp)
	}
	return id
}

// CreateEntity allocates an entity without any components.
func (s *Storage) CreateEntity() EntityId {
	return s.entities.create()
}

// Alive reports whether the entity exists.
func (s *Storage) Alive(id EntityId) bool {
	return s.entities.isAlive(id)
}

// Delete removes every component of the entity and frees its ID.
func (s *Storage) Delete(id EntityId) {
	if !s.entities.isAlive(id) {
		return
	}

	for _, storage := range s.components {
		storage.Remove(id)
	}
	s.entities.destroy(id)
}

// AddComponent inserts the component for the entity, overwriting an existing one of the same type.
func (s *Storage) AddComponent(id EntityId, component any) error {
	compType := componentType(component)
	storage := s.storageFor(compType)
	if storage == nil {
		return fmt.Errorf("add %s to entity %d: %w", compType, id, ErrComponentNotRegistered)
	}
	if !s.entities.isAlive(id) {
		return fmt.Errorf("add %s to entity %d: %w", compType, id, ErrEntityNotAlive)
	}

	storage.Insert(id, component)
	return nil
}

// RemoveComponent removes the component of the given type, reporting whether it was present.
func (s *Storage) RemoveComponent(id EntityId, compType reflect.Type) bool {
	storage := s.storageFor(compType)
	if storage == nil {
		return false
	}
	return storage.Remove(id)
}

// GetComponent returns the component for the given entity ID and component type.
// Writing through the returned pointer is not recorded; use MarkModified or WriteComponent.
func (s *Storage) GetComponent(id EntityId, compType reflect.Type) any {
	storage := s.storageFor(compType)
	if storage == nil {
		return nil
	}
	return storage.Get(id)
}

// HasComponent checks if an entity has a specific component type
func (s *Storage) HasComponent(id EntityId, compType reflect.Type) bool {
	storage := s.storageFor(compType)
	if storage == nil {
		return false
	}
	return storage.Has(id)
}

// MarkModified records a modification of the entity's component.
func (s *Storage) MarkModified(id EntityId, compType reflect.Type) bool {
	storage := s.storageFor(compType)
	if storage == nil {
		return false
	}
	return storage.MarkModified(id)
}

// ComponentCount returns how many entities carry the component type.
func (s *Storage) ComponentCount(compType reflect.Type) int {
	storage := s.storageFor(compType)
	if storage == nil {
		return 0
	}
	return storage.Len()
}

// EntityCount returns the number of live entities.
func (s *Storage) EntityCount() int {
	return s.entities.count
}

// Entities iterates all live entities.
func (s *Storage) Entities() iter.Seq[EntityId] {
	return s.entities.iter()
}

// ComponentTypes returns the types of every component the entity carries.
func (s *Storage) ComponentTypes(id EntityId) []reflect.Type {
	types := make([]reflect.Type, 0, 4)
	for typ, storage := range s.components {
		if storage.Has(id) {
			types = append(types, typ)
		}
	}
	return sortedTypes(types)
}

// EventLog returns the change log of a component type, or nil if unregistered.
func (s *Storage) EventLog(compType reflect.Type) *EventLog {
	storage := s.storageFor(compType)
	if storage == nil {
		return nil
	}
	return storage.Events()
}

// RegisterReader creates a cursor on the change log of the given component type.
func (s *Storage) RegisterReader(compType reflect.Type) *ReaderId {
	log := s.EventLog(compType)
	if log == nil {
		panic("component type " + compType.String() + " not registered")
	}
	return log.RegisterReader()
}

// Compact reorganizes every component storage to eliminate empty slots.
func (s *Storage) Compact() {
	for _, storage := range s.components {
		storage.Compact()
	}
}

// AddSingleton stores a value not associated with any entity, replacing any previous one of the same type.
func (s *Storage) AddSingleton(value any) {
	typ := reflect.TypeOf(value)
	ptr := reflect.New(typ)
	ptr.Elem().Set(reflect.ValueOf(value))

	s.singletons[typ] = &singletonEntry{
		dataPtr: ptr.UnsafePointer(),
		typ:     typ,
	}
}

// ReadSingleton sets *target to the stored singleton of the pointed-to type.
// target must be a pointer to a pointer, e.g. `var cfg *Config; storage.ReadSingleton(&cfg)`.
func (s *Storage) ReadSingleton(target any) bool {
	rv := reflect.ValueOf(target)
	if rv.Kind() != reflect.Ptr || rv.Elem().Kind() != reflect.Ptr {
		panic("ReadSingleton target must be a pointer to a pointer")
	}

	typ := rv.Elem().Type().Elem()
	entry := s.getSingletonEntry(typ)
	if entry == nil {
		return false
	}
	rv.Elem().Set(reflect.NewAt(typ, entry.dataPtr))
	return true
}

func (s *Storage) getSingletonEntry(typ reflect.Type) *singletonEntry {
	return s.singletons[typ]
}

func (s *Storage) storageFor(compType reflect.Type) iComponentStorage {
	if compType == nil {
		return nil
	}
	return s.components[compType]
}

// componentType returns the component type of a value, unwrapping one pointer level.
func componentType(component any) reflect.Type {
	compType := reflect.TypeOf(component)
	if compType == nil {
		return nil
	}

	if compType.Kind() == reflect.Ptr {
		compType = compType.Elem()
	}

	// Components can be structs or primitives (int, string, etc.)
	// But not pointers, maps, channels, or functions (those aren't value types)
	if compType.Kind() == reflect.Ptr || compType.Kind() == reflect.Map ||
		compType.Kind() == reflect.Chan || compType.Kind() == reflect.Func {
		panic("components cannot be pointers, maps, channels, or functions")
	}
	return compType
}

type ComponentReader interface {
	GetComponent(EntityId, reflect.Type) any
}

// ReadComponent returns the entity's component, or nil if it has none.
func ReadComponent[T any](reader ComponentReader, entityId EntityId) *T {
	comp, _ := reader.GetComponent(entityId, reflect.TypeFor[T]()).(*T)
	return comp
}

// WriteComponent returns the entity's component and records a modification, or nil if it has none.
func WriteComponent[T any](storage *Storage, entityId EntityId) *T {
	typed, ok := storage.storageFor(reflect.TypeFor[T]()).(*genericComponentStorage[T])
	if !ok {
		return nil
	}

	comp := typed.get(entityId)
	if comp != nil {
		typed.events.Append(EventModified, entityId)
	}
	return comp
}

// RegisterReader creates a cursor on T's change log.
func RegisterReader[T any](storage *Storage) *ReaderId {
	return storage.RegisterReader(reflect.TypeFor[T]())
}

// HasComponent reports whether the entity carries a T.
func HasComponent[T any](storage *Storage, entityId EntityId) bool {
	return storage.HasComponent(entityId, reflect.TypeFor[T]())
}

// RemoveComponent removes the entity's T, reporting whether it was present.
func RemoveComponent[T any](storage *Storage, entityId EntityId) bool {
	return storage.RemoveComponent(entityId, reflect.TypeFor[T]())
}

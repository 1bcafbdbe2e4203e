package ecs

import "reflect"

// System represents a behavior that operates on entities with specific components.
// User-defined systems should implement this interface and can include Query fields
// for accessing entities, as well as custom state fields that persist between frames.
type System interface {
	Execute(frame *UpdateFrame)
}

// Access lists the component storages a system reads and writes.
type Access struct {
	Reads  []reflect.Type
	Writes []reflect.Type
}

// AccessDeclarer is implemented by systems that declare their storage access.
// Only systems that declare access may share a parallel batch; the scheduler
// never runs a writer of a storage alongside another reader or writer of it.
type AccessDeclarer interface {
	Access() Access
}

// ConflictsWith reports whether two systems must not run at the same time.
func (a Access) ConflictsWith(b Access) bool {
	for _, w := range a.Writes {
		if containsType(b.Reads, w) || containsType(b.Writes, w) {
			return true
		}
	}
	for _, w := range b.Writes {
		if containsType(a.Reads, w) {
			return true
		}
	}
	return false
}

func containsType(types []reflect.Type, t reflect.Type) bool {
	for _, typ := range types {
		if typ == t {
			return true
		}
	}
	return false
}

package ecs

import (
	"reflect"
	"sort"
)

type byTypeName []reflect.Type

func (a byTypeName) Len() int           { return len(a) }
func (a byTypeName) Swap(i, j int)      { a[i], a[j] = a[j], a[i] }
func (a byTypeName) Less(i, j int) bool { return a[i].String() < a[j].String() }

func sortedTypes(types []reflect.Type) []reflect.Type {
	sort.Sort(byTypeName(types))
	return types
}

// TypeOf returns the component type of T, for use in Access declarations.
func TypeOf[T any]() reflect.Type {
	return reflect.TypeFor[T]()
}

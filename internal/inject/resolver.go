package inject

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
)

// UnknownDependencyError reports a dependency that could not be resolved.
//
// Identifier is the name or type that was looked up. For failures during
// function invocation, Param carries the position or field that needed the
// dependency.
type UnknownDependencyError struct {
	Identifier any
	Param      string
}

// Error implements the error interface.
func (e *UnknownDependencyError) Error() string {
	if e.Param != "" {
		return fmt.Sprintf("unknown dependency %v (needed by %s)", e.Identifier, e.Param)
	}
	return fmt.Sprintf("unknown dependency %v", e.Identifier)
}

// IsUnknownDependency reports whether err is an UnknownDependencyError.
// Uses errors.As to handle wrapped errors.
func IsUnknownDependency(err error) bool {
	var ue *UnknownDependencyError
	return errors.As(err, &ue)
}

// Entry is a single identifier/value pair for registration or overlay.
type Entry struct {
	id    any
	value any
	typed bool // also register under the value's dynamic type
}

// Named binds value under name and under the value's dynamic type.
func Named(name string, value any) Entry {
	return Entry{id: name, value: value, typed: true}
}

// NamedOnly binds value under name without a type binding.
// Use when several entries of the same type must coexist.
func NamedOnly(name string, value any) Entry {
	return Entry{id: name, value: value}
}

// Typed binds value under its dynamic type only.
func Typed(value any) Entry {
	return Entry{id: reflect.TypeOf(value), value: value}
}

// As binds value under the type T, which is typically an interface the
// value implements but does not match dynamically.
func As[T any](value T) Entry {
	return Entry{id: reflect.TypeOf((*T)(nil)).Elem(), value: value}
}

// Resolver is a name/type-keyed dependency store with overlay semantics.
//
// The zero value is not usable; construct with New or Overlay. A Resolver's
// own entry map is mutable via Register (the sanctioned mutation point for
// scope-local dependencies); the parent chain is read-only from the child's
// point of view.
type Resolver struct {
	parent  *Resolver
	entries map[any]any
}

// New builds a root resolver from the given entries.
func New(entries ...Entry) *Resolver {
	r := &Resolver{entries: make(map[any]any)}
	for _, e := range entries {
		r.register(e)
	}
	return r
}

// Overlay derives a child resolver. The child sees all parent entries plus
// its own; its own entries shadow the parent's. The parent is never mutated.
func (r *Resolver) Overlay(entries ...Entry) *Resolver {
	child := &Resolver{parent: r, entries: make(map[any]any)}
	for _, e := range entries {
		child.register(e)
	}
	return child
}

// Register adds or replaces an entry on this resolver layer.
// The identifier must be a string name or a reflect.Type.
func (r *Resolver) Register(identifier, value any) {
	r.entries[identifier] = value
}

// Provide registers value under name and under its dynamic type.
func (r *Resolver) Provide(name string, value any) {
	r.register(Named(name, value))
}

func (r *Resolver) register(e Entry) {
	r.entries[e.id] = e.value
	if e.typed && e.value != nil {
		r.entries[reflect.TypeOf(e.value)] = e.value
	}
}

// Resolve returns the value bound to identifier, consulting this layer first
// and then the parent chain. Fails with *UnknownDependencyError if absent.
func (r *Resolver) Resolve(identifier any) (any, error) {
	for cur := r; cur != nil; cur = cur.parent {
		if v, ok := cur.entries[identifier]; ok {
			return v, nil
		}
	}
	return nil, &UnknownDependencyError{Identifier: identifier}
}

// Has reports whether identifier is resolvable.
func (r *Resolver) Has(identifier any) bool {
	_, err := r.Resolve(identifier)
	return err == nil
}

// Identifiers returns every resolvable identifier, shadowed entries included
// once. Intended for diagnostics; order is deterministic.
func (r *Resolver) Identifiers() []string {
	seen := make(map[any]bool)
	var ids []string
	for cur := r; cur != nil; cur = cur.parent {
		for id := range cur.entries {
			if seen[id] {
				continue
			}
			seen[id] = true
			ids = append(ids, fmt.Sprint(id))
		}
	}
	sort.Strings(ids)
	return ids
}

// TypeOf returns the reflect.Type identifier for T.
// Works for interface types, unlike reflect.TypeOf on a value.
func TypeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// ResolveAs resolves the dependency bound to the type T.
func ResolveAs[T any](r *Resolver) (T, error) {
	var zero T
	v, err := r.Resolve(TypeOf[T]())
	if err != nil {
		return zero, err
	}
	t, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("dependency for %v has unexpected type %T", TypeOf[T](), v)
	}
	return t, nil
}

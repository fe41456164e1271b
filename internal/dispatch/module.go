package dispatch

import (
	"fmt"
	"reflect"

	"github.com/roach88/switchboard/internal/inject"
	"github.com/roach88/switchboard/internal/message"
)

// binding is a single (key, handler) pair owned by a module.
type binding struct {
	fn   any
	name string
}

// resolvedHandler is a binding paired with its owning module, as returned by
// a registry walk.
type resolvedHandler struct {
	module  string
	handler string
	fn      any
}

// Module owns a set of handler bindings keyed by alias or message type and
// composes into a strict acyclic tree of submodules.
//
// Cardinality: at most one binding per command/query key per module; any
// number per event key. Two different modules may each bind the same command.
//
// Modules are not safe for concurrent mutation; register everything at
// construction time, before dispatching.
type Module struct {
	name       string
	bindings   map[any][]binding
	submodules []*Module
}

// NewModule creates an empty module with the given name.
// The name keys per-module results in Execute composition and Publish maps.
func NewModule(name string) *Module {
	return &Module{
		name:     name,
		bindings: make(map[any][]binding),
	}
}

// Name returns the module name.
func (m *Module) Name() string { return m.name }

// Handle binds fn to key. Key is either a string alias or a message payload
// prototype (its concrete type becomes the key).
//
// For aliases, commands and queries a second binding on the same key in this
// module fails with *DuplicateHandlerError. Event keys append; On is the
// clearer spelling for those.
func (m *Module) Handle(key any, fn any) error {
	k, kind, err := m.keyOf(key)
	if err != nil {
		return err
	}
	if reflect.ValueOf(fn).Kind() != reflect.Func {
		return fmt.Errorf("module %s: handler for %s is not a function: %T", m.name, keyLabel(k), fn)
	}

	b := binding{fn: fn, name: inject.FuncName(fn)}
	if kind != message.KindEvent && len(m.bindings[k]) > 0 {
		return &DuplicateHandlerError{Module: m.name, Key: keyLabel(k)}
	}
	m.bindings[k] = append(m.bindings[k], b)
	return nil
}

// On binds an event handler. The key must be an event payload prototype.
func (m *Module) On(event message.Message, fn any) error {
	if event.MessageKind() != message.KindEvent {
		return fmt.Errorf("module %s: On requires an event, got %s %s",
			m.name, event.MessageKind(), message.Name(event))
	}
	return m.Handle(event, fn)
}

// MustHandle is Handle that panics on error; for wiring code where a
// registration failure is a programming bug.
func (m *Module) MustHandle(key any, fn any) {
	if err := m.Handle(key, fn); err != nil {
		panic(err)
	}
}

// MustOn is On that panics on error.
func (m *Module) MustOn(event message.Message, fn any) {
	if err := m.On(event, fn); err != nil {
		panic(err)
	}
}

// Include adds sub to this module's tree. The tree is strictly acyclic:
// including a module as its own ancestor or descendant is rejected, as is
// including the same module twice.
func (m *Module) Include(sub *Module) error {
	if sub == nil {
		return fmt.Errorf("module %s: cannot include nil module", m.name)
	}
	if sub == m || sub.contains(m) {
		return fmt.Errorf("module %s: including %s would create a cycle", m.name, sub.name)
	}
	for _, existing := range m.submodules {
		if existing == sub {
			return fmt.Errorf("module %s: module %s already included", m.name, sub.name)
		}
	}
	m.submodules = append(m.submodules, sub)
	return nil
}

// MustInclude is Include that panics on error.
func (m *Module) MustInclude(sub *Module) {
	if err := m.Include(sub); err != nil {
		panic(err)
	}
}

func (m *Module) contains(target *Module) bool {
	for _, sub := range m.submodules {
		if sub == target || sub.contains(target) {
			return true
		}
	}
	return false
}

// resolveHandlers walks the tree and returns every binding for k: this
// module's own bindings first, then each submodule depth-first in inclusion
// order. This is the fan-out order guarantee for Execute and Publish.
func (m *Module) resolveHandlers(k any) []resolvedHandler {
	var out []resolvedHandler
	for _, b := range m.bindings[k] {
		out = append(out, resolvedHandler{module: m.name, handler: b.name, fn: b.fn})
	}
	for _, sub := range m.submodules {
		out = append(out, sub.resolveHandlers(k)...)
	}
	return out
}

// keyOf canonicalizes a registration or dispatch key.
// String keys are normalized aliases and behave like commands for
// cardinality. Message keys use the payload's concrete type and its kind.
func (m *Module) keyOf(key any) (any, message.Kind, error) {
	switch k := key.(type) {
	case string:
		alias, err := message.NormalizeAlias(k)
		if err != nil {
			return nil, 0, fmt.Errorf("module %s: %w", m.name, err)
		}
		return alias, message.KindCommand, nil
	case message.Message:
		return message.TypeOf(k), k.MessageKind(), nil
	default:
		return nil, 0, fmt.Errorf("module %s: key must be a string alias or message, got %T", m.name, key)
	}
}

// keyLabel renders a canonical key for error messages and traces.
func keyLabel(k any) string {
	switch v := k.(type) {
	case string:
		return v
	case reflect.Type:
		return v.String()
	default:
		return fmt.Sprint(k)
	}
}

package dispatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/switchboard/internal/message"
)

type createThing struct {
	message.Command
	ID   int
	Name string
}

type listThings struct {
	message.Query
}

type thingCompleted struct {
	message.Event
	ID int
}

func TestModule_Handle_DuplicateCommandRejected(t *testing.T) {
	m := NewModule("things")
	require.NoError(t, m.Handle(createThing{}, func(c createThing) {}))

	err := m.Handle(createThing{}, func(c createThing) {})
	require.Error(t, err)
	assert.True(t, IsDuplicateHandler(err))
	assert.Contains(t, err.Error(), "things")
}

func TestModule_Handle_SameCommandInTwoModules(t *testing.T) {
	a := NewModule("a")
	b := NewModule("b")

	require.NoError(t, a.Handle(createThing{}, func(c createThing) {}))
	require.NoError(t, b.Handle(createThing{}, func(c createThing) {}))

	root := NewModule("root")
	require.NoError(t, root.Include(a))
	require.NoError(t, root.Include(b))

	handlers := root.resolveHandlers(message.TypeOf(createThing{}))
	require.Len(t, handlers, 2)
	assert.Equal(t, "a", handlers[0].module)
	assert.Equal(t, "b", handlers[1].module)
}

func TestModule_Handle_DuplicateAliasRejected(t *testing.T) {
	m := NewModule("m")
	require.NoError(t, m.Handle("add", func() {}))

	err := m.Handle("add", func() {})
	assert.True(t, IsDuplicateHandler(err))
}

func TestModule_On_MultipleEventHandlersPerModule(t *testing.T) {
	m := NewModule("m")
	require.NoError(t, m.On(thingCompleted{}, func(e thingCompleted) {}))
	require.NoError(t, m.On(thingCompleted{}, func(e thingCompleted) {}))

	handlers := m.resolveHandlers(message.TypeOf(thingCompleted{}))
	assert.Len(t, handlers, 2)
}

func TestModule_On_RejectsNonEvent(t *testing.T) {
	m := NewModule("m")
	err := m.On(createThing{}, func(c createThing) {})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "requires an event")
}

func TestModule_Handle_RejectsNonFunction(t *testing.T) {
	m := NewModule("m")
	err := m.Handle(createThing{}, 42)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a function")
}

func TestModule_Handle_RejectsInvalidKey(t *testing.T) {
	m := NewModule("m")
	err := m.Handle(42, func() {})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "key must be")
}

func TestModule_Handle_EmptyAliasRejected(t *testing.T) {
	m := NewModule("m")
	err := m.Handle("  ", func() {})
	require.Error(t, err)
}

func TestModule_Include_RejectsSelf(t *testing.T) {
	m := NewModule("m")
	err := m.Include(m)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cycle")
}

func TestModule_Include_RejectsDescendantCycle(t *testing.T) {
	parent := NewModule("parent")
	child := NewModule("child")
	require.NoError(t, parent.Include(child))

	err := child.Include(parent)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cycle")
}

func TestModule_Include_RejectsDuplicate(t *testing.T) {
	parent := NewModule("parent")
	child := NewModule("child")
	require.NoError(t, parent.Include(child))

	err := parent.Include(child)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already included")
}

func TestModule_Include_RejectsNil(t *testing.T) {
	m := NewModule("m")
	require.Error(t, m.Include(nil))
}

func TestModule_ResolveHandlers_TreeOrder(t *testing.T) {
	// root's own binding first, then submodules depth-first in inclusion order.
	root := NewModule("root")
	first := NewModule("first")
	nested := NewModule("nested")
	second := NewModule("second")

	require.NoError(t, first.Include(nested))
	require.NoError(t, root.Include(first))
	require.NoError(t, root.Include(second))

	require.NoError(t, root.On(thingCompleted{}, func(e thingCompleted) {}))
	require.NoError(t, first.On(thingCompleted{}, func(e thingCompleted) {}))
	require.NoError(t, nested.On(thingCompleted{}, func(e thingCompleted) {}))
	require.NoError(t, second.On(thingCompleted{}, func(e thingCompleted) {}))

	handlers := root.resolveHandlers(message.TypeOf(thingCompleted{}))
	require.Len(t, handlers, 4)

	var order []string
	for _, h := range handlers {
		order = append(order, h.module)
	}
	assert.Equal(t, []string{"root", "first", "nested", "second"}, order)
}

func TestModule_ResolveHandlers_NoMatch(t *testing.T) {
	m := NewModule("m")
	assert.Empty(t, m.resolveHandlers(message.TypeOf(createThing{})))
}

func TestModule_MustHandle_PanicsOnError(t *testing.T) {
	m := NewModule("m")
	m.MustHandle(createThing{}, func(c createThing) {})
	assert.Panics(t, func() { m.MustHandle(createThing{}, func(c createThing) {}) })
}

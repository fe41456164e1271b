package inject

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fooService struct{ label string }

type barService struct{ label string }

type runner interface{ Run() string }

type realRunner struct{}

func (realRunner) Run() string { return "real" }

func TestResolver_ResolveByName(t *testing.T) {
	r := New(Named("foo", &fooService{label: "a"}))

	v, err := r.Resolve("foo")
	require.NoError(t, err)
	assert.Equal(t, "a", v.(*fooService).label)
}

func TestResolver_NamedAlsoBindsType(t *testing.T) {
	foo := &fooService{label: "a"}
	r := New(Named("foo", foo))

	v, err := r.Resolve(TypeOf[*fooService]())
	require.NoError(t, err)
	assert.Same(t, foo, v)
}

func TestResolver_NamedOnly_SkipsTypeBinding(t *testing.T) {
	r := New(NamedOnly("foo", &fooService{}))

	assert.True(t, r.Has("foo"))
	assert.False(t, r.Has(TypeOf[*fooService]()))
}

func TestResolver_As_BindsInterfaceType(t *testing.T) {
	r := New(As[runner](realRunner{}))

	v, err := ResolveAs[runner](r)
	require.NoError(t, err)
	assert.Equal(t, "real", v.Run())
}

func TestResolver_UnknownDependency(t *testing.T) {
	r := New()

	_, err := r.Resolve("missing")
	require.Error(t, err)
	assert.True(t, IsUnknownDependency(err))
	assert.Contains(t, err.Error(), "missing")
}

func TestResolver_Overlay_ShadowsWithoutMutatingParent(t *testing.T) {
	parent := New(Named("svc", &fooService{label: "parent"}))
	child := parent.Overlay(Named("svc", &fooService{label: "child"}))

	got, err := child.Resolve("svc")
	require.NoError(t, err)
	assert.Equal(t, "child", got.(*fooService).label)

	// Parent resolved independently still yields its original value.
	got, err = parent.Resolve("svc")
	require.NoError(t, err)
	assert.Equal(t, "parent", got.(*fooService).label)
}

func TestResolver_Overlay_SeesParentEntries(t *testing.T) {
	parent := New(Named("foo", &fooService{label: "p"}))
	child := parent.Overlay(Named("bar", &barService{label: "c"}))

	v, err := child.Resolve("foo")
	require.NoError(t, err)
	assert.Equal(t, "p", v.(*fooService).label)

	assert.False(t, parent.Has("bar"), "overlay must not leak into parent")
}

func TestResolver_Register_MutatesOnlyOwnLayer(t *testing.T) {
	parent := New()
	child := parent.Overlay()

	child.Register("x", 1)

	assert.True(t, child.Has("x"))
	assert.False(t, parent.Has("x"))
}

func TestResolver_Provide(t *testing.T) {
	r := New()
	r.Provide("foo", &fooService{label: "f"})

	assert.True(t, r.Has("foo"))
	assert.True(t, r.Has(TypeOf[*fooService]()))
}

func TestResolver_Identifiers(t *testing.T) {
	parent := New(NamedOnly("a", 1))
	child := parent.Overlay(NamedOnly("b", 2), NamedOnly("a", 3))

	ids := child.Identifiers()
	assert.Equal(t, []string{"a", "b"}, ids)
}

func TestResolveAs_TypeMismatch(t *testing.T) {
	r := New()
	r.Register(TypeOf[runner](), "not a runner")

	_, err := ResolveAs[runner](r)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected type")
}

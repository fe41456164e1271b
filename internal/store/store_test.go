package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStore_AddAndList(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Add(ctx, "t-1", "write docs"))
	require.NoError(t, s.Add(ctx, "t-2", "ship release"))

	todos, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, todos, 2)
	assert.Equal(t, "t-1", todos[0].ID)
	assert.Equal(t, "write docs", todos[0].Title)
	assert.False(t, todos[0].Completed)
	assert.Nil(t, todos[0].CompletedAt)
}

func TestStore_Add_DuplicateIDFails(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Add(ctx, "t-1", "first"))
	assert.Error(t, s.Add(ctx, "t-1", "second"))
}

func TestStore_Complete(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Add(ctx, "t-1", "task"))
	require.NoError(t, s.Complete(ctx, "t-1"))

	todos, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, todos, 1)
	assert.True(t, todos[0].Completed)
	require.NotNil(t, todos[0].CompletedAt)
}

func TestStore_Complete_NotFound(t *testing.T) {
	s := openTestStore(t)

	err := s.Complete(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_Complete_Twice(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Add(ctx, "t-1", "task"))
	require.NoError(t, s.Complete(ctx, "t-1"))

	err := s.Complete(ctx, "t-1")
	assert.ErrorIs(t, err, ErrAlreadyCompleted)
}

func TestStore_CountCompleted(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Add(ctx, "t-1", "a"))
	require.NoError(t, s.Add(ctx, "t-2", "b"))
	require.NoError(t, s.Complete(ctx, "t-1"))

	n, err := s.CountCompleted(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestStore_Open_Idempotent(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/todos.db"

	s1, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s1.Add(context.Background(), "t-1", "persisted"))
	require.NoError(t, s1.Close())

	s2, err := Open(path)
	require.NoError(t, err)
	defer s2.Close()

	todos, err := s2.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, todos, 1)
}

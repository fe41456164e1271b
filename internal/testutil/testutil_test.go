package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeterministicClock_Sequence(t *testing.T) {
	c := NewDeterministicClock()

	assert.Equal(t, int64(0), c.Current())
	assert.Equal(t, int64(1), c.Next())
	assert.Equal(t, int64(2), c.Next())
	assert.Equal(t, int64(2), c.Current())

	c.Reset()
	assert.Equal(t, int64(1), c.Next())
}

func TestSeqIDGenerator(t *testing.T) {
	g := NewSeqIDGenerator("msg")

	assert.Equal(t, "msg-000001", g.Generate())
	assert.Equal(t, "msg-000002", g.Generate())

	g.Reset()
	assert.Equal(t, "msg-000001", g.Generate())
}

func TestSeqIDGenerator_DefaultPrefix(t *testing.T) {
	g := NewSeqIDGenerator("")
	assert.Equal(t, "msg-000001", g.Generate())
}

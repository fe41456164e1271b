package testutil

import "fmt"

// SeqIDGenerator mints sequential message IDs like "msg-000001".
//
// It implements message.IDGenerator and, unlike a fixed list, never runs out,
// which suits scenarios that dispatch an unknown number of messages.
type SeqIDGenerator struct {
	prefix string
	clock  *DeterministicClock
}

// NewSeqIDGenerator creates a generator with the given ID prefix.
// An empty prefix defaults to "msg".
func NewSeqIDGenerator(prefix string) *SeqIDGenerator {
	if prefix == "" {
		prefix = "msg"
	}
	return &SeqIDGenerator{prefix: prefix, clock: NewDeterministicClock()}
}

// Generate returns the next sequential ID.
func (g *SeqIDGenerator) Generate() string {
	return fmt.Sprintf("%s-%06d", g.prefix, g.clock.Next())
}

// Reset restarts the sequence at 1.
func (g *SeqIDGenerator) Reset() {
	g.clock.Reset()
}

package message

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// IDGenerator produces unique message IDs.
// Implemented by UUIDv7Generator (production) and FixedGenerator (tests).
type IDGenerator interface {
	Generate() string
}

// UUIDv7Generator generates time-sortable UUIDv7 message IDs.
//
// UUIDv7 embeds a timestamp in the most significant bits, so IDs sort by
// creation time. Helpful when reading dispatch traces.
//
// Stateless and safe for concurrent use.
type UUIDv7Generator struct{}

// Generate returns a new UUIDv7 as a hyphenated string.
// Panics if UUID generation fails (should never happen in practice).
func (UUIDv7Generator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}

// FixedGenerator returns predetermined IDs for deterministic tests.
//
// Safe for concurrent use via internal mutex.
type FixedGenerator struct {
	mu  sync.Mutex
	ids []string
	idx int
}

// NewFixedGenerator creates a generator that returns the given IDs in order.
// Once the list is exhausted, Generate panics; this is a fail-fast guard
// against tests creating more messages than they declared.
func NewFixedGenerator(ids ...string) *FixedGenerator {
	return &FixedGenerator{ids: ids}
}

// Generate returns the next predetermined ID.
func (g *FixedGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.idx >= len(g.ids) {
		panic("FixedGenerator: all ids exhausted")
	}
	id := g.ids[g.idx]
	g.idx++
	return id
}

// Envelope is the immutable carrier of a dispatched message.
// The ID is assigned once, when the envelope is built.
type Envelope struct {
	ID  string
	At  time.Time
	Msg Message
}

// NewEnvelope wraps a message payload with a generated ID and timestamp.
func NewEnvelope(m Message, gen IDGenerator) Envelope {
	return Envelope{
		ID:  gen.Generate(),
		At:  time.Now().UTC(),
		Msg: m,
	}
}

// Kind returns the kind of the wrapped payload.
func (e Envelope) Kind() Kind { return e.Msg.MessageKind() }

// Name returns the payload's type name.
func (e Envelope) Name() string { return Name(e.Msg) }

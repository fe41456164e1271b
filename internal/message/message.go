package message

import (
	"fmt"
	"reflect"
)

// Kind is the variant tag of a message: Command, Query, or Event.
type Kind int

const (
	// KindCommand marks a request message that changes state.
	KindCommand Kind = iota + 1

	// KindQuery marks a request message that reads state.
	KindQuery

	// KindEvent marks a notification message.
	KindEvent
)

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	switch k {
	case KindCommand:
		return "command"
	case KindQuery:
		return "query"
	case KindEvent:
		return "event"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Message is implemented by any struct embedding one of the kind markers.
type Message interface {
	MessageKind() Kind
}

// Command is the embeddable marker for command payloads.
type Command struct{}

// MessageKind returns KindCommand.
func (Command) MessageKind() Kind { return KindCommand }

// Query is the embeddable marker for query payloads.
type Query struct{}

// MessageKind returns KindQuery.
func (Query) MessageKind() Kind { return KindQuery }

// Event is the embeddable marker for event payloads.
type Event struct{}

// MessageKind returns KindEvent.
func (Event) MessageKind() Kind { return KindEvent }

// TypeOf returns the dispatch key type for a message payload.
//
// Pointer payloads are unwrapped so that m and &m dispatch to the same
// handlers.
func TypeOf(m Message) reflect.Type {
	t := reflect.TypeOf(m)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t
}

// Name returns a short human-readable name for a message payload,
// e.g. "todo.CreateTodo". Used in traces and error messages.
func Name(m Message) string {
	return TypeOf(m).String()
}

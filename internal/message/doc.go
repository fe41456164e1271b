// Package message defines the message model for the switchboard dispatch runtime.
//
// Messages come in three kinds:
//
//   - Command: a request that changes state. At most one handler per module.
//   - Query: a request that reads state. Same cardinality rule as Command.
//   - Event: a notification. Any number of handlers per module. By convention
//     events are named in past tense (TodoCompleted), though this is not enforced.
//
// A message payload is a plain struct that embeds one of the kind markers:
//
//	type CreateTodo struct {
//	    message.Command
//	    ID    string
//	    Title string
//	}
//
// The embedded marker tags the struct with its kind; dispatch is keyed on the
// payload's concrete type, not on an inheritance hierarchy.
//
// Every dispatched message travels inside an Envelope carrying a generated
// unique ID and a creation timestamp. Envelopes are immutable once built.
package message

package dispatch

import (
	"errors"
	"fmt"
)

// DuplicateHandlerError reports a second command/query binding for a key
// already owned by the same module. Raised at registration time, never at
// dispatch time.
type DuplicateHandlerError struct {
	Module string
	Key    string
}

// Error implements the error interface.
func (e *DuplicateHandlerError) Error() string {
	return fmt.Sprintf("duplicate handler for %s in module %s", e.Key, e.Module)
}

// HandlerNotFoundError reports a call/execute dispatch for which no module
// binds the key. Never raised for events; publishing with zero handlers is a
// no-op.
type HandlerNotFoundError struct {
	Key string
}

// Error implements the error interface.
func (e *HandlerNotFoundError) Error() string {
	return fmt.Sprintf("no handler found for %s", e.Key)
}

// ExecutionModeError reports a context-requiring handler reached through a
// non-context entry point. Surfaced immediately at invocation time; the
// runtime never substitutes a background context silently.
type ExecutionModeError struct {
	Handler string
}

// Error implements the error interface.
func (e *ExecutionModeError) Error() string {
	return fmt.Sprintf("handler %s requires context.Context: use a *Context dispatch entry point", e.Handler)
}

// ComposeError reports per-module results the default composer could not
// merge into one value.
type ComposeError struct {
	Key string
}

// Error implements the error interface.
func (e *ComposeError) Error() string {
	return fmt.Sprintf("cannot compose results for %s: mixed non-mergeable result types", e.Key)
}

// IsDuplicateHandler reports whether err is a DuplicateHandlerError.
func IsDuplicateHandler(err error) bool {
	var de *DuplicateHandlerError
	return errors.As(err, &de)
}

// IsHandlerNotFound reports whether err is a HandlerNotFoundError.
func IsHandlerNotFound(err error) bool {
	var he *HandlerNotFoundError
	return errors.As(err, &he)
}

// IsExecutionMode reports whether err is an ExecutionModeError.
func IsExecutionMode(err error) bool {
	var me *ExecutionModeError
	return errors.As(err, &me)
}

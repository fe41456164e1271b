// Package dispatch implements the switchboard message-dispatch runtime.
//
// The runtime routes commands, queries and events from callers to handler
// functions registered on a tree of modules, resolves each handler's
// non-message parameters from an inject.Resolver, and wraps every dispatch in
// a middleware chain with enter/exit lifecycle hooks.
//
// ARCHITECTURE:
//
// Module tree:
// Handlers are owned by modules. A module enforces at most one binding per
// command/query key; event keys accept any number. Modules compose bottom-up
// into a strict acyclic tree via Include. Two different modules may each bind
// the same command, and both fire on Execute.
//
// Transaction scope:
// Every top-level Call/Execute/Publish creates a TransactionScope: a resolver
// overlay on top of the application's dependencies, a middleware chain, and
// an action trail. Enter hooks run first and may mutate the scope's overlay
// (the only sanctioned mutation point for scope-local dependencies). Exit
// hooks run unconditionally, in reverse registration order, receiving the
// captured error if a handler failed. Handlers receive the scope by type
// injection and may dispatch again on it; nested dispatches share the overlay
// and appear as additional trail entries.
//
// Ordering guarantees:
// Handlers for one dispatch run strictly one after another: a module's own
// binding first, then submodules in inclusion order, depth-first. Middleware
// nests in registration order (first registered is outermost). If handler k
// of N fails, handlers k+1..N do not run; the error propagates to the caller
// after exit hooks complete. Nothing is retried and nothing is swallowed.
//
// Context dispatch:
// Handlers that declare a context.Context parameter must be dispatched
// through the *Context entry points; routing one through a non-context entry
// point fails immediately with *ExecutionModeError rather than silently
// substituting a background context.
package dispatch

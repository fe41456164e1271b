package dispatch

import (
	"context"
	"log/slog"
	"reflect"

	"github.com/roach88/switchboard/internal/inject"
	"github.com/roach88/switchboard/internal/message"
)

// Application is the root of a module tree plus everything a dispatch needs:
// the application-scoped dependency resolver, the middleware chain, the
// lifecycle hooks and the composer registrations.
//
// Configure an application fully before dispatching; registration methods are
// not safe to call concurrently with dispatch. Dispatch entry points are safe
// for concurrent use, since every top-level dispatch gets its own scope.
type Application struct {
	*Module

	resolver  *inject.Resolver
	mws       []Middleware
	enter     []EnterHook
	exit      []ExitHook
	composers map[reflect.Type]Composer
	logger    *slog.Logger
	ids       message.IDGenerator
}

// New creates an application with the given name and application-scoped
// dependencies.
func New(name string, entries ...inject.Entry) *Application {
	return &Application{
		Module:    NewModule(name),
		resolver:  inject.New(entries...),
		composers: make(map[reflect.Type]Composer),
		logger:    slog.Default(),
		ids:       message.UUIDv7Generator{},
	}
}

// SetLogger replaces the application logger (default slog.Default).
func (a *Application) SetLogger(logger *slog.Logger) { a.logger = logger }

// SetIDGenerator replaces the envelope ID generator (default UUIDv7).
// Tests use message.NewFixedGenerator for deterministic traces.
func (a *Application) SetIDGenerator(gen message.IDGenerator) { a.ids = gen }

// Provide registers an application-scoped dependency under a name and its
// dynamic type.
func (a *Application) Provide(name string, value any) {
	a.resolver.Provide(name, value)
}

// Dependency resolves an application-scoped dependency.
func (a *Application) Dependency(identifier any) (any, error) {
	return a.resolver.Resolve(identifier)
}

// Use appends a middleware. The first middleware registered becomes the
// outermost wrapper: entry order equals registration order, exit order is the
// reverse.
func (a *Application) Use(mw Middleware) {
	a.mws = append(a.mws, mw)
}

// OnEnterScope registers an enter hook, run in registration order when a
// scope begins.
func (a *Application) OnEnterScope(hook EnterHook) {
	a.enter = append(a.enter, hook)
}

// OnExitScope registers an exit hook, run in reverse registration order when
// a scope ends, on success and on failure alike.
func (a *Application) OnExitScope(hook ExitHook) {
	a.exit = append(a.exit, hook)
}

// ComposeWith registers a composer for the message type of prototype,
// replacing the default composer for that type's Execute fan-out.
func (a *Application) ComposeWith(prototype message.Message, c Composer) {
	a.composers[message.TypeOf(prototype)] = c
}

// Scope creates a transaction scope for a non-context dispatch. The scope's
// resolver overlays the application resolver with the given entries plus the
// scope itself (by type), so handlers can request nested dispatch.
func (a *Application) Scope(entries ...inject.Entry) *TransactionScope {
	return a.newScope(nil, entries)
}

// ScopeContext creates a transaction scope bound to ctx. The context is also
// registered in the overlay so handlers can declare a context.Context
// parameter.
func (a *Application) ScopeContext(ctx context.Context, entries ...inject.Entry) *TransactionScope {
	return a.newScope(ctx, entries)
}

func (a *Application) newScope(ctx context.Context, entries []inject.Entry) *TransactionScope {
	s := &TransactionScope{
		resolver:  a.resolver.Overlay(entries...),
		mws:       a.mws,
		enter:     a.enter,
		exit:      a.exit,
		root:      a.Module,
		composers: a.composers,
		logger:    a.logger,
		ids:       a.ids,
		ctx:       ctx,
	}
	s.resolver.Register(inject.TypeOf[*TransactionScope](), s)
	if ctx != nil {
		s.resolver.Register(inject.TypeOf[context.Context](), ctx)
	}
	return s
}

// Call invokes a single function or alias inside a fresh scope.
func (a *Application) Call(target any, args ...any) (any, error) {
	return a.dispatch(a.Scope(), func(s *TransactionScope) (any, error) {
		return s.Call(target, args...)
	})
}

// CallContext is Call for context-capable handlers.
func (a *Application) CallContext(ctx context.Context, target any, args ...any) (any, error) {
	return a.dispatch(a.ScopeContext(ctx), func(s *TransactionScope) (any, error) {
		return s.Call(target, args...)
	})
}

// Execute dispatches a command or query inside a fresh scope and returns the
// composed result.
func (a *Application) Execute(msg message.Message) (any, error) {
	return a.dispatch(a.Scope(), func(s *TransactionScope) (any, error) {
		return s.Execute(msg)
	})
}

// ExecuteContext is Execute for context-capable handlers.
func (a *Application) ExecuteContext(ctx context.Context, msg message.Message) (any, error) {
	return a.dispatch(a.ScopeContext(ctx), func(s *TransactionScope) (any, error) {
		return s.Execute(msg)
	})
}

// Publish dispatches an event inside a fresh scope and returns module name
// to raw result. Zero handlers is a silent no-op.
func (a *Application) Publish(msg message.Message) (map[string]any, error) {
	result, err := a.dispatch(a.Scope(), func(s *TransactionScope) (any, error) {
		return s.Publish(msg)
	})
	if err != nil {
		return nil, err
	}
	return result.(map[string]any), nil
}

// PublishContext is Publish for context-capable handlers.
func (a *Application) PublishContext(ctx context.Context, msg message.Message) (map[string]any, error) {
	result, err := a.dispatch(a.ScopeContext(ctx), func(s *TransactionScope) (any, error) {
		return s.Publish(msg)
	})
	if err != nil {
		return nil, err
	}
	return result.(map[string]any), nil
}

// dispatch runs fn inside the scope's begin/end lifecycle. Exit hooks run on
// every path, receiving the error that is then propagated to the caller.
func (a *Application) dispatch(s *TransactionScope, fn func(*TransactionScope) (any, error)) (any, error) {
	if err := s.Begin(); err != nil {
		return nil, s.End(err)
	}
	result, err := fn(s)
	if err := s.End(err); err != nil {
		return nil, err
	}
	return result, nil
}

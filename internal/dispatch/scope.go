package dispatch

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"

	"github.com/roach88/switchboard/internal/inject"
	"github.com/roach88/switchboard/internal/message"
)

// Next invokes the rest of the middleware chain and returns its result.
// The innermost Next invokes the handler itself.
type Next func() (any, error)

// Middleware wraps a handler invocation. It may inspect or mutate the scope
// before calling next, transform the result after, short-circuit by not
// calling next, or translate errors. The first middleware registered on the
// application is the outermost wrapper.
type Middleware func(s *TransactionScope, next Next) (any, error)

// EnterHook runs when a scope begins, in registration order. Enter hooks may
// mutate the scope's resolver overlay; this is the sanctioned place to inject
// per-transaction dependencies. An enter hook error aborts the dispatch.
type EnterHook func(s *TransactionScope) error

// ExitHook runs when a scope ends, in reverse registration order, receiving
// the captured error (nil on success). Exit hooks run unconditionally.
type ExitHook func(s *TransactionScope, err error)

// Action is one entry of a scope's trail: the handler currently running and
// the envelope that reached it. Middleware introspects the trail's top entry
// to learn which action is active.
type Action struct {
	Envelope message.Envelope
	Module   string
	Handler  string
}

// TransactionScope is the execution context of one logical transaction.
//
// It owns a resolver overlay (transaction-scoped dependencies layered over
// the application's), the middleware chain, and the action trail. A scope is
// created per top-level dispatch and torn down after exit hooks; handlers
// that want nested dispatch receive the scope by type injection and call
// Execute/Publish on it directly, which reuses the same overlay and trail.
//
// Scopes are single-threaded by construction: one logical thread of control
// per scope, no locking. Independent top-level dispatches get independent
// scopes.
type TransactionScope struct {
	resolver  *inject.Resolver
	mws       []Middleware
	enter     []EnterHook
	exit      []ExitHook
	root      *Module
	composers map[reflect.Type]Composer
	logger    *slog.Logger
	ids       message.IDGenerator
	ctx       context.Context

	trail   []Action
	failure error
	begun   bool
	ended   bool
}

// Begin runs every enter hook in registration order. The first hook error
// aborts and is returned; the dispatch must not proceed.
func (s *TransactionScope) Begin() error {
	if s.begun {
		return fmt.Errorf("transaction scope already begun")
	}
	s.begun = true
	for _, hook := range s.enter {
		if err := hook(s); err != nil {
			return fmt.Errorf("enter hook: %w", err)
		}
	}
	return nil
}

// End runs every exit hook in reverse registration order, passing err (nil on
// success). End is idempotent and returns err unchanged so callers can
// propagate it after teardown.
func (s *TransactionScope) End(err error) error {
	if s.ended {
		return err
	}
	s.ended = true
	if err != nil {
		s.failure = err
	}
	for i := len(s.exit) - 1; i >= 0; i-- {
		s.exit[i](s, err)
	}
	return err
}

// Context returns the dispatch context, or context.Background for scopes
// created by non-context entry points. Handlers that require a context
// parameter are rejected on those paths before this default would matter.
func (s *TransactionScope) Context() context.Context {
	if s.ctx != nil {
		return s.ctx
	}
	return context.Background()
}

// Resolver exposes the scope's dependency overlay.
func (s *TransactionScope) Resolver() *inject.Resolver { return s.resolver }

// Dependency resolves a dependency from the scope's overlay.
func (s *TransactionScope) Dependency(identifier any) (any, error) {
	return s.resolver.Resolve(identifier)
}

// SetDependency registers a scope-local dependency. Intended for enter hooks
// and middleware; the application's base resolver is never touched.
func (s *TransactionScope) SetDependency(identifier, value any) {
	s.resolver.Register(identifier, value)
}

// Trail returns a copy of the action trail, outermost action first.
func (s *TransactionScope) Trail() []Action {
	out := make([]Action, len(s.trail))
	copy(out, s.trail)
	return out
}

// CurrentAction returns the innermost active action, if any.
func (s *TransactionScope) CurrentAction() (Action, bool) {
	if len(s.trail) == 0 {
		return Action{}, false
	}
	return s.trail[len(s.trail)-1], true
}

// Err returns the captured error, if a handler has failed in this scope.
func (s *TransactionScope) Err() error { return s.failure }

// Call invokes a single function through the middleware chain. Target is
// either a function value or a registered alias; an alias resolves to the
// first matching binding in tree order and fails with *HandlerNotFoundError
// when nothing matches. No fan-out, no composition.
func (s *TransactionScope) Call(target any, args ...any) (any, error) {
	act := Action{}
	var fn any

	switch t := target.(type) {
	case string:
		alias, err := message.NormalizeAlias(t)
		if err != nil {
			return nil, err
		}
		handlers := s.root.resolveHandlers(alias)
		if len(handlers) == 0 {
			return nil, &HandlerNotFoundError{Key: alias}
		}
		fn = handlers[0].fn
		act.Module = handlers[0].module
		act.Handler = handlers[0].handler
	default:
		if reflect.ValueOf(target).Kind() != reflect.Func {
			return nil, fmt.Errorf("call target must be a function or alias string, got %T", target)
		}
		fn = target
		act.Handler = inject.FuncName(target)
	}

	return s.invoke(act, fn, args...)
}

// Execute dispatches a command or query to every module binding its type, at
// most one handler per module, sequentially in tree order, and composes the
// per-module results. Zero matches fail with *HandlerNotFoundError.
func (s *TransactionScope) Execute(msg message.Message) (any, error) {
	if msg.MessageKind() == message.KindEvent {
		return nil, fmt.Errorf("execute requires a command or query, got event %s: use Publish", message.Name(msg))
	}

	key := message.TypeOf(msg)
	handlers := s.root.resolveHandlers(key)
	if len(handlers) == 0 {
		return nil, &HandlerNotFoundError{Key: keyLabel(key)}
	}

	env := message.NewEnvelope(msg, s.ids)
	s.logger.Debug("executing message",
		"kind", env.Kind().String(), "message", env.Name(), "id", env.ID, "handlers", len(handlers))

	ordered := make([]moduleResult, 0, len(handlers))
	for _, h := range handlers {
		result, err := s.invoke(Action{Envelope: env, Module: h.module, Handler: h.handler}, h.fn, msg)
		if err != nil {
			return nil, err
		}
		ordered = append(ordered, moduleResult{module: h.module, value: result})
	}

	if composer, ok := s.composers[key]; ok {
		byModule := make(map[string]any, len(ordered))
		for _, r := range ordered {
			byModule[r.module] = r.value
		}
		return composer(byModule)
	}
	return composeDefault(keyLabel(key), ordered)
}

// Publish dispatches an event to every matching handler across all modules,
// sequentially in tree order, and returns module name to raw result (a
// module's last handler wins the map entry; every handler still runs). Zero
// matches is a no-op with an empty map.
func (s *TransactionScope) Publish(msg message.Message) (map[string]any, error) {
	if msg.MessageKind() != message.KindEvent {
		return nil, fmt.Errorf("publish requires an event, got %s %s: use Execute",
			msg.MessageKind(), message.Name(msg))
	}

	key := message.TypeOf(msg)
	handlers := s.root.resolveHandlers(key)
	results := make(map[string]any, len(handlers))
	if len(handlers) == 0 {
		return results, nil
	}

	env := message.NewEnvelope(msg, s.ids)
	s.logger.Debug("publishing event", "event", env.Name(), "id", env.ID, "handlers", len(handlers))

	for _, h := range handlers {
		result, err := s.invoke(Action{Envelope: env, Module: h.module, Handler: h.handler}, h.fn, msg)
		if err != nil {
			return nil, err
		}
		results[h.module] = result
	}
	return results, nil
}

// invoke runs one handler inside the middleware chain, pushing the action
// onto the trail for the duration of the call.
func (s *TransactionScope) invoke(act Action, fn any, args ...any) (any, error) {
	if s.ctx == nil && inject.RequiresContext(fn) {
		return nil, &ExecutionModeError{Handler: act.Handler}
	}

	s.trail = append(s.trail, act)
	defer func() { s.trail = s.trail[:len(s.trail)-1] }()

	chain := Next(func() (any, error) {
		return inject.Call(s.resolver, fn, args...)
	})
	for i := len(s.mws) - 1; i >= 0; i-- {
		mw, next := s.mws[i], chain
		chain = func() (any, error) { return mw(s, next) }
	}

	result, err := chain()
	if err != nil {
		s.failure = err
		s.logger.Error("handler failed", "handler", act.Handler, "module", act.Module, "error", err)
	}
	return result, err
}

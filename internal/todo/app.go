package todo

import (
	"log/slog"

	"github.com/roach88/switchboard/internal/dispatch"
	"github.com/roach88/switchboard/internal/inject"
	"github.com/roach88/switchboard/internal/store"
)

// NewApp assembles the todo application: three modules, the shared
// dependencies, a logging middleware and the transaction lifecycle hooks.
func NewApp(st *store.Store, analytics *Analytics, notifier Notifier, logger *slog.Logger) *dispatch.Application {
	app := dispatch.New("todo-app",
		inject.Typed(st),
		inject.Typed(analytics),
		inject.As[Notifier](notifier),
	)
	app.SetLogger(logger)

	app.MustInclude(NewTodosModule())
	app.MustInclude(NewAnalyticsModule())
	app.MustInclude(NewNotificationsModule())

	app.Use(func(s *dispatch.TransactionScope, next dispatch.Next) (any, error) {
		act, _ := s.CurrentAction()
		logger.Debug("handling", "module", act.Module, "handler", act.Handler)
		result, err := next()
		if err != nil {
			logger.Debug("handler error", "module", act.Module, "error", err)
		}
		return result, err
	})

	app.OnEnterScope(func(s *dispatch.TransactionScope) error {
		logger.Debug("transaction started")
		return nil
	})
	app.OnExitScope(func(s *dispatch.TransactionScope, err error) {
		if err != nil {
			logger.Debug("transaction failed", "error", err)
			return
		}
		logger.Debug("transaction committed")
	})

	return app
}

package todo

import (
	"context"
	"fmt"

	"github.com/roach88/switchboard/internal/dispatch"
	"github.com/roach88/switchboard/internal/store"
)

// NewTodosModule builds the module owning the todo lifecycle. Handlers
// declare a context.Context, so this module needs the context-capable entry
// points; reaching it through Execute fails with *ExecutionModeError.
func NewTodosModule() *dispatch.Module {
	m := dispatch.NewModule("todos")

	m.MustHandle(CreateTodo{}, func(cmd CreateTodo, ctx context.Context, st *store.Store) error {
		return st.Add(ctx, cmd.ID, cmd.Title)
	})

	m.MustHandle(CompleteTodo{}, func(cmd CompleteTodo, ctx context.Context, st *store.Store, scope *dispatch.TransactionScope) error {
		if err := st.Complete(ctx, cmd.ID); err != nil {
			return err
		}
		_, err := scope.Publish(TodoCompleted{ID: cmd.ID})
		return err
	})

	m.MustHandle(ListTodos{}, func(q ListTodos, ctx context.Context, st *store.Store) (map[string]any, error) {
		todos, err := st.List(ctx)
		if err != nil {
			return nil, err
		}
		items := make([]any, 0, len(todos))
		for _, t := range todos {
			items = append(items, map[string]any{
				"id":        t.ID,
				"title":     t.Title,
				"completed": t.Completed,
			})
		}
		return map[string]any{"todos": items}, nil
	})

	return m
}

// NewAnalyticsModule builds the stats module. It binds the same CompleteTodo
// command as the todos module, so completing a todo fans out to both, and it
// answers ListTodos with a stats map that merges into the todos module's
// result.
func NewAnalyticsModule() *dispatch.Module {
	m := dispatch.NewModule("analytics")

	m.MustHandle(CompleteTodo{}, func(cmd CompleteTodo, a *Analytics) {
		a.RecordCompletion()
	})

	m.MustHandle(ListTodos{}, func(q ListTodos, a *Analytics) map[string]any {
		return map[string]any{
			"stats": map[string]any{"completed": a.Completions()},
		}
	})

	return m
}

// NewNotificationsModule builds the module reacting to completion events.
func NewNotificationsModule() *dispatch.Module {
	m := dispatch.NewModule("notifications")

	m.MustOn(TodoCompleted{}, func(e TodoCompleted, n Notifier) {
		n.Notify(fmt.Sprintf("todo %s completed", e.ID))
	})

	return m
}

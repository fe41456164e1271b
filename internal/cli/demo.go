package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/switchboard/internal/store"
	"github.com/roach88/switchboard/internal/todo"
)

// DemoOptions holds flags for the demo command.
type DemoOptions struct {
	*RootOptions
	Database string
}

// NewDemoCommand creates the demo command, which runs a small built-in todo
// flow and prints the composed results.
func NewDemoCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DemoOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Run the built-in todo demo",
		Long: `Run a built-in flow against the example todo application:
create two todos, complete one, and list them with completion stats.

Example:
  switchboard demo
  switchboard demo --db ./todos.db --verbose`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDemo(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", ":memory:", "path to SQLite database")
	return cmd
}

func runDemo(opts *DemoOptions, cmd *cobra.Command) error {
	logLevel := slog.LevelInfo
	if opts.Verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
		Level: logLevel,
	}))

	st, err := store.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			logger.Error("closing database", "error", closeErr)
		}
	}()

	notifier := &todo.MemoryNotifier{}
	app := todo.NewApp(st, &todo.Analytics{}, notifier, logger)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	dispatches := []struct {
		label string
		run   func() (any, error)
	}{
		{"create t-1", func() (any, error) {
			return app.ExecuteContext(ctx, todo.CreateTodo{ID: "t-1", Title: "write the docs"})
		}},
		{"create t-2", func() (any, error) {
			return app.ExecuteContext(ctx, todo.CreateTodo{ID: "t-2", Title: "ship it"})
		}},
		{"complete t-1", func() (any, error) {
			return app.ExecuteContext(ctx, todo.CompleteTodo{ID: "t-1"})
		}},
	}
	for _, d := range dispatches {
		if _, err := d.run(); err != nil {
			return WrapExitError(ExitFailure, fmt.Sprintf("demo step %s failed", d.label), err)
		}
	}

	list, err := app.ExecuteContext(ctx, todo.ListTodos{})
	if err != nil {
		return WrapExitError(ExitFailure, "demo list failed", err)
	}

	f := &OutputFormatter{
		Format:  opts.Format,
		Writer:  cmd.OutOrStdout(),
		Verbose: opts.Verbose,
	}
	if f.Format == "json" {
		return f.Success(map[string]any{
			"list":          list,
			"notifications": notifier.Messages(),
		})
	}
	return writeDemo(f, list, notifier.Messages())
}

func writeDemo(f *OutputFormatter, list any, notifications []string) error {
	m, ok := list.(map[string]any)
	if !ok {
		return fmt.Errorf("unexpected list result type %T", list)
	}

	fmt.Fprintln(f.Writer, "Todos:")
	if items, ok := m["todos"].([]any); ok {
		for _, item := range items {
			entry, ok := item.(map[string]any)
			if !ok {
				continue
			}
			mark := " "
			if done, _ := entry["completed"].(bool); done {
				mark = "x"
			}
			fmt.Fprintf(f.Writer, "  [%s] %v  %v\n", mark, entry["id"], entry["title"])
		}
	}
	if stats, ok := m["stats"].(map[string]any); ok {
		fmt.Fprintf(f.Writer, "Completed: %v\n", stats["completed"])
	}

	fmt.Fprintln(f.Writer, "Notifications:")
	for _, n := range notifications {
		fmt.Fprintf(f.Writer, "  - %s\n", n)
	}
	return nil
}

package harness

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/roach88/switchboard/internal/dispatch"
	"github.com/roach88/switchboard/internal/message"
	"github.com/roach88/switchboard/internal/store"
	"github.com/roach88/switchboard/internal/testutil"
	"github.com/roach88/switchboard/internal/todo"
)

// TraceEvent records one handler invocation, in execution order.
// Depth is the trail depth: 1 for top-level dispatch, 2 for a message
// dispatched from inside a handler, and so on.
type TraceEvent struct {
	Seq       int64  `json:"seq"`
	MessageID string `json:"message_id"`
	Message   string `json:"message"`
	Kind      string `json:"kind"`
	Module    string `json:"module"`
	Handler   string `json:"handler"`
	Depth     int    `json:"depth"`
}

// StepResult records the outcome of one scenario step.
type StepResult struct {
	Dispatch string         `json:"dispatch"`
	Args     map[string]any `json:"args,omitempty"`
	Result   any            `json:"result"`
	Error    string         `json:"error,omitempty"`
}

// Result is the full outcome of a scenario run.
type Result struct {
	Scenario string       `json:"scenario"`
	Steps    []StepResult `json:"steps"`
	Trace    []TraceEvent `json:"trace"`
}

// Run executes a scenario against a fresh todo application.
//
// Every run gets its own in-memory database, analytics counter, notifier and
// sequential ID generator, so runs are isolated and reproducible. A failed
// expectation or an unexpected step error aborts the run.
func Run(scenario *Scenario) (*Result, error) {
	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	app := todo.NewApp(st, &todo.Analytics{}, &todo.MemoryNotifier{}, logger)
	app.SetIDGenerator(testutil.NewSeqIDGenerator("msg"))

	result := &Result{Scenario: scenario.Name}
	clock := testutil.NewDeterministicClock()
	app.Use(func(s *dispatch.TransactionScope, next dispatch.Next) (any, error) {
		if act, ok := s.CurrentAction(); ok && act.Module != "" {
			result.Trace = append(result.Trace, TraceEvent{
				Seq:       clock.Next(),
				MessageID: act.Envelope.ID,
				Message:   act.Envelope.Name(),
				Kind:      act.Envelope.Kind().String(),
				Module:    act.Module,
				Handler:   act.Handler,
				Depth:     len(s.Trail()),
			})
		}
		return next()
	})

	ctx := context.Background()
	for i, step := range scenario.Steps {
		msg, err := buildMessage(step)
		if err != nil {
			return nil, fmt.Errorf("steps[%d]: %w", i, err)
		}

		var value any
		if msg.MessageKind() == message.KindEvent {
			value, err = app.PublishContext(ctx, msg)
		} else {
			value, err = app.ExecuteContext(ctx, msg)
		}

		sr := StepResult{Dispatch: step.Dispatch, Args: step.Args, Result: value}
		if err != nil {
			sr.Error = err.Error()
		}
		result.Steps = append(result.Steps, sr)

		if err := checkExpect(i, step.Expect, value, err); err != nil {
			return nil, err
		}
	}
	return result, nil
}

func checkExpect(i int, expect *Expect, value any, err error) error {
	if expect == nil || expect.Error == "" {
		if err != nil {
			return fmt.Errorf("steps[%d]: unexpected error: %w", i, err)
		}
	} else {
		if err == nil {
			return fmt.Errorf("steps[%d]: expected error containing %q, got none", i, expect.Error)
		}
		if !strings.Contains(err.Error(), expect.Error) {
			return fmt.Errorf("steps[%d]: expected error containing %q, got %q", i, expect.Error, err)
		}
	}

	if expect != nil && expect.Result != nil {
		want, got := canonicalJSON(expect.Result), canonicalJSON(value)
		if want != got {
			return fmt.Errorf("steps[%d]: result mismatch\nwant: %s\ngot:  %s", i, want, got)
		}
	}
	return nil
}

// canonicalJSON renders a value with sorted map keys for structural
// comparison across YAML-decoded and handler-produced values.
func canonicalJSON(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("!marshal error: %v", err)
	}
	return string(data)
}

func buildMessage(step Step) (message.Message, error) {
	switch step.Dispatch {
	case "CreateTodo":
		id, err := stringArg(step, "id")
		if err != nil {
			return nil, err
		}
		title, err := stringArg(step, "title")
		if err != nil {
			return nil, err
		}
		return todo.CreateTodo{ID: id, Title: title}, nil
	case "CompleteTodo":
		id, err := stringArg(step, "id")
		if err != nil {
			return nil, err
		}
		return todo.CompleteTodo{ID: id}, nil
	case "ListTodos":
		return todo.ListTodos{}, nil
	case "TodoCompleted":
		id, err := stringArg(step, "id")
		if err != nil {
			return nil, err
		}
		return todo.TodoCompleted{ID: id}, nil
	default:
		return nil, fmt.Errorf("unknown dispatch %q", step.Dispatch)
	}
}

func stringArg(step Step, key string) (string, error) {
	v, ok := step.Args[key]
	if !ok {
		return "", fmt.Errorf("%s requires arg %q", step.Dispatch, key)
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%s arg %q must be a string, got %T", step.Dispatch, key, v)
	}
	return s, nil
}

package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Scenario is an ordered list of dispatches with expectations.
type Scenario struct {
	// Name identifies the scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what the scenario exercises.
	Description string `yaml:"description"`

	// Steps are dispatched in order. A step failure without a matching
	// expectation aborts the run.
	Steps []Step `yaml:"steps"`
}

// Step dispatches one message.
type Step struct {
	// Dispatch is the message name: CreateTodo, CompleteTodo, ListTodos or
	// TodoCompleted. Events are published, everything else is executed.
	Dispatch string `yaml:"dispatch"`

	// Args carries the message fields, e.g. id and title for CreateTodo.
	Args map[string]any `yaml:"args,omitempty"`

	// Expect optionally validates the step outcome.
	Expect *Expect `yaml:"expect,omitempty"`
}

// Expect validates a step's outcome. Result and Error are mutually
// exclusive: a step either succeeds with a value or fails.
type Expect struct {
	// Result is the expected composed result, compared structurally.
	Result any `yaml:"result,omitempty"`

	// Error is a substring the step's error must contain.
	Error string `yaml:"error,omitempty"`
}

// knownDispatches lists the message names a step may dispatch.
var knownDispatches = map[string]bool{
	"CreateTodo":    true,
	"CompleteTodo":  true,
	"ListTodos":     true,
	"TodoCompleted": true,
}

// LoadScenario reads and parses a scenario YAML file. Unknown fields are
// rejected so typos fail loudly instead of silently skipping expectations.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}

	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario %s: %w", path, err)
	}
	return &scenario, nil
}

func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	for i, step := range s.Steps {
		if step.Dispatch == "" {
			return fmt.Errorf("steps[%d]: dispatch is required", i)
		}
		if !knownDispatches[step.Dispatch] {
			return fmt.Errorf("steps[%d]: unknown dispatch %q", i, step.Dispatch)
		}
		if step.Expect != nil && step.Expect.Error != "" && step.Expect.Result != nil {
			return fmt.Errorf("steps[%d]: expect.result and expect.error are mutually exclusive", i)
		}
	}
	return nil
}

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/switchboard/internal/harness"
)

// NewRunCommand creates the run command, which executes a scenario file
// against a fresh todo application.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <scenario.yaml>",
		Short: "Run a dispatch scenario",
		Long: `Run a YAML scenario against the todo application.

Each scenario gets a fresh in-memory database and a sequential message ID
generator, so repeated runs produce identical traces.

Example:
  switchboard run scenarios/basic_flow.yaml
  switchboard run scenarios/basic_flow.yaml --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			scenario, err := harness.LoadScenario(args[0])
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to load scenario", err)
			}

			result, err := harness.Run(scenario)
			if err != nil {
				return WrapExitError(ExitFailure, "scenario failed", err)
			}

			f := &OutputFormatter{
				Format:  rootOpts.Format,
				Writer:  cmd.OutOrStdout(),
				Verbose: rootOpts.Verbose,
			}
			return writeResult(f, result)
		},
	}
	return cmd
}

// writeResult renders a scenario result: the JSON form is the full result,
// the text form is a step summary plus the trace.
func writeResult(f *OutputFormatter, result *harness.Result) error {
	if f.Format == "json" {
		return f.Success(result)
	}

	fmt.Fprintf(f.Writer, "Scenario: %s\n", result.Scenario)
	for i, step := range result.Steps {
		status := "ok"
		if step.Error != "" {
			status = fmt.Sprintf("error: %s", step.Error)
		}
		fmt.Fprintf(f.Writer, "  %d. %s %s\n", i+1, step.Dispatch, status)
	}

	fmt.Fprintln(f.Writer, "Trace:")
	for _, ev := range result.Trace {
		fmt.Fprintf(f.Writer, "  %3d %s %s -> %s/%s\n",
			ev.Seq, ev.MessageID, ev.Message, ev.Module, ev.Handler)
	}
	return nil
}

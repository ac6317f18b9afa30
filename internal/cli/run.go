// Package cli provides the command-line interface for droidtask.
package cli

import (
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/taskpilot/droidtask/internal/domain"
	"github.com/taskpilot/droidtask/internal/errors"
	"github.com/taskpilot/droidtask/internal/signal"
	"github.com/taskpilot/droidtask/internal/tui"
)

// AddRunCommand adds the "run" subcommand, which dispatches a single task
// utterance end-to-end and reports the result.
func AddRunCommand(rootCmd *cobra.Command, flags *GlobalFlags, deps Dependencies) {
	cmd := &cobra.Command{
		Use:   "run [task]",
		Short: "Run a single task",
		Long: `Dispatch a single task utterance: classify it, select a handler and
workflow, and drive the device through the resulting steps.`,
		Args:                  cobra.MinimumNArgs(1),
		DisableFlagsInUseLine: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			task := strings.Join(args, " ")

			sigHandler := signal.NewHandler(cmd.Context())
			defer sigHandler.Stop()

			result, dispatchErr := deps.Runner.Dispatch(sigHandler.Context(), task)

			select {
			case <-sigHandler.Interrupted():
				dispatchErr = markCanceled(&result, dispatchErr)
			default:
			}

			out := tui.NewOutput(cmd.OutOrStdout(), flags.Output)
			notifier := tui.NewNotifier(bellEnabled(deps), flags.Quiet)
			defer notifier.Bell()

			if flags.Output == OutputJSON {
				if encErr := out.JSON(result); encErr != nil {
					return encErr
				}
				if dispatchErr != nil {
					return stderrors.Join(dispatchErr, errors.ErrJSONErrorOutput)
				}
				return nil
			}

			printTaskResult(cmd, out, result)
			return dispatchErr
		},
	}

	rootCmd.AddCommand(cmd)
}

// bellEnabled reports whether the terminal bell should fire on task
// completion. deps.Config is nil in a handful of command-wiring tests that
// never load a real configuration.
func bellEnabled(deps Dependencies) bool {
	return deps.Config != nil && deps.Config.Notifications.Bell
}

// markCanceled overrides a dispatch result to reflect a SIGINT/SIGTERM
// interruption. Dispatch itself already returned (the canceled context
// unwound the executor's step loop and its best-effort reset ran against
// that same canceled context), so this only replaces the reported
// status/error with the cancellation-specific ones.
func markCanceled(result *domain.TaskResult, dispatchErr error) error {
	result.Status = domain.TaskStatusAborted
	result.ErrorKind = "UserCanceled"
	result.Error = errors.ErrUserCanceled.Error()
	return stderrors.Join(errors.ErrUserCanceled, dispatchErr)
}

// printTaskResult renders a dispatch result: a styled headline through out
// (success/aborted/error, matching TTYOutput's color coding) followed by
// the plain detail lines a human reads to diagnose a failure.
func printTaskResult(cmd *cobra.Command, out tui.Output, result domain.TaskResult) {
	switch result.Status {
	case domain.TaskStatusSuccess:
		out.Success(fmt.Sprintf("task %s completed via %s", result.TaskID, result.HandlerName))
	case domain.TaskStatusAborted:
		out.Warning(fmt.Sprintf("task %s aborted: %s", result.TaskID, result.Error))
	default:
		if result.Error != "" {
			out.Error(fmt.Errorf("task %s: %s (%s)", result.TaskID, result.Error, result.ErrorKind))
		}
	}

	w := cmd.OutOrStdout()
	_ = tui.NewStatusTable([]tui.StatusRow{statusRow(result)}).Render(w)

	if result.Summary != "" {
		fmt.Fprintf(w, "summary: %s\n", result.Summary)
	}
	if result.Error != "" {
		fmt.Fprintf(w, "error:   %s (%s)\n", result.Error, result.ErrorKind)
	}
	if len(result.MissingParams) > 0 {
		fmt.Fprintf(w, "missing: %s\n", strings.Join(result.MissingParams, ", "))
	}
}

// statusRow adapts a dispatch result into the single row rendered for it;
// run/interactive dispatch one task at a time, so the status table here
// always has exactly one row.
func statusRow(result domain.TaskResult) tui.StatusRow {
	step := len(result.Steps)
	stepName := ""
	if step > 0 {
		stepName = result.Steps[step-1].Action
	}

	action := ""
	if result.Status == domain.TaskStatusFailed {
		action = "retry"
	}

	return tui.StatusRow{
		TaskID:      result.TaskID,
		Handler:     result.HandlerName,
		Status:      result.Status,
		CurrentStep: step,
		TotalSteps:  step,
		StepName:    stepName,
		Action:      action,
	}
}

// Package cli provides the command-line interface for droidtask.
package cli

import (
	stderrors "errors"
	"fmt"

	"github.com/spf13/cobra"

	droidtaskerrors "github.com/taskpilot/droidtask/internal/errors"
	"github.com/taskpilot/droidtask/internal/signal"
	"github.com/taskpilot/droidtask/internal/tui"
)

// interactive menu entries, re-offered on an empty task line and whenever
// classification fails mid-task.
const (
	modeFastForm    = "fast_form"
	modeNaturalLang = "natural_language"
)

// AddInteractiveCommand adds the "interactive" subcommand: a two-item menu
// (fast-form vs natural-language) that accepts tasks in the chosen mode
// until an empty line, re-offering the menu on each empty line or on a
// ClassificationFailed result.
func AddInteractiveCommand(rootCmd *cobra.Command, flags *GlobalFlags, deps Dependencies) {
	cmd := &cobra.Command{
		Use:                   "interactive",
		Short:                 "Enter interactive task entry mode",
		Long:                  `Present a menu of fast-form vs natural-language task entry, accepting tasks in the chosen mode until an empty line returns to the menu.`,
		DisableFlagsInUseLine: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInteractive(cmd, flags, deps)
		},
	}

	rootCmd.AddCommand(cmd)
}

func runInteractive(cmd *cobra.Command, flags *GlobalFlags, deps Dependencies) error {
	w := cmd.OutOrStdout()
	out := tui.NewOutput(w, flags.Output)
	notifier := tui.NewNotifier(bellEnabled(deps), flags.Quiet)

	sigHandler := signal.NewHandler(cmd.Context())
	defer sigHandler.Stop()

	for {
		mode, err := tui.Select("Choose task entry mode", []tui.Option{
			{Label: "Fast-form", Description: "type: recipient: content", Value: modeFastForm},
			{Label: "Natural language", Description: "free-form task description", Value: modeNaturalLang},
		})
		if err != nil {
			if stderrors.Is(err, tui.ErrMenuCanceled) {
				return nil
			}
			return fmt.Errorf("menu: %w", err)
		}

		prompt := "task"
		if mode == modeFastForm {
			prompt = "type: recipient: content"
		}

		for {
			task, err := tui.Input(prompt, "")
			if err != nil {
				if stderrors.Is(err, tui.ErrMenuCanceled) {
					return nil
				}
				return fmt.Errorf("input: %w", err)
			}
			if task == "" {
				break
			}

			result, dispatchErr := deps.Runner.Dispatch(sigHandler.Context(), task)

			select {
			case <-sigHandler.Interrupted():
				dispatchErr = markCanceled(&result, dispatchErr)
				printTaskResult(cmd, out, result)
				notifier.Bell()
				return dispatchErr
			default:
			}

			printTaskResult(cmd, out, result)
			notifier.Bell()

			if dispatchErr != nil && stderrors.Is(dispatchErr, droidtaskerrors.ErrClassificationFailed) {
				out.Warning("classification failed, returning to menu")
				break
			}
			if dispatchErr != nil {
				out.Error(dispatchErr)
			}
		}
	}
}

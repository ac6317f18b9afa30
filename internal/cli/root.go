// Package cli provides the command-line interface for droidtask.
package cli

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/taskpilot/droidtask/internal/config"
	"github.com/taskpilot/droidtask/internal/domain"
	"github.com/taskpilot/droidtask/internal/errors"
)

// BuildInfo contains version information set at build time via ldflags.
type BuildInfo struct {
	// Version is the semantic version (e.g., "1.0.0").
	Version string
	// Commit is the git commit hash.
	Commit string
	// Date is the build date.
	Date string
}

// globalLogger stores the initialized logger for use by subcommands.
// This is set during PersistentPreRunE and should be accessed via GetLogger.
// This is a necessary global for CLI logger access across command handlers.
// Access is protected by globalLoggerMu for thread safety.
var (
	globalLogger   zerolog.Logger //nolint:gochecknoglobals // CLI logger requires global access
	globalLoggerMu sync.RWMutex   //nolint:gochecknoglobals // Protects globalLogger
)

// GetLogger returns the initialized logger for use by subcommands.
//
// IMPORTANT: This function MUST only be called after the root command's
// PersistentPreRunE has executed. Calling it before initialization will
// return a zero-value logger that discards all log output.
//
// This function is safe for concurrent use.
//
// Typical usage is within a subcommand's Run/RunE function:
//
//	RunE: func(cmd *cobra.Command, args []string) error {
//	    logger := cli.GetLogger()
//	    logger.Info().Msg("executing command")
//	    ...
//	}
func GetLogger() zerolog.Logger {
	globalLoggerMu.RLock()
	defer globalLoggerMu.RUnlock()
	return globalLogger
}

// TaskDispatcher dispatches one task utterance end-to-end: classification,
// workflow selection, and step execution (C8).
type TaskDispatcher interface {
	Dispatch(ctx context.Context, task string) (domain.TaskResult, error)
}

// ModuleLister reports the handlers discovered at startup (C4), for the
// modules command's listing.
type ModuleLister interface {
	List() []domain.ModuleInfo
}

// DeviceInspector is the device-level subset the screenshot command needs:
// connecting to capture one frame outside of any workflow.
type DeviceInspector interface {
	Connect(ctx context.Context) error
	Disconnect(ctx context.Context) error
	Screenshot(ctx context.Context) (domain.Screenshot, error)
}

// Dependencies holds the constructed components a subcommand needs to
// dispatch tasks, wired once in cmd/droidtask/main.go and threaded through
// to newRootCmd so command RunE closures never reach for package globals.
type Dependencies struct {
	// Runner dispatches one task utterance end-to-end (C8).
	Runner TaskDispatcher
	// Modules lists the discovered handlers (C4) for the modules command.
	Modules ModuleLister
	// Device is the Device Surface (C1), used by the screenshot command.
	Device DeviceInspector
	// Config is the loaded configuration, used by the devices command to
	// enumerate bridge + mock bindings and by the screenshot command to
	// look up per-handler capture-readiness waits.
	Config *config.Config
}

// newRootCmd creates and returns the root command for the droidtask CLI.
// This function-based approach avoids package-level globals, making the
// code more testable and avoiding gochecknoglobals linter warnings.
func newRootCmd(flags *GlobalFlags, info BuildInfo, deps Dependencies) *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "droidtask",
		Short: "droidtask - Android task orchestration from natural-language utterances",
		Long: `droidtask turns a natural-language task description into a sequence of
Android device actions: classifying the task, locating on-screen targets,
and driving a workflow of taps, swipes, and text entry to completion.

Features:
  • Task classification via fixed-form prefix, model, or keyword routing
  • Hybrid on-screen locating (template match, small model, remote model)
  • Per-app workflow handlers with screen-detection and recovery
  • Interactive shell for iterative task entry`,
		Version: formatVersion(info),
		// Run displays help when the root command is invoked without subcommands.
		// This ensures PersistentPreRunE is called for flag validation.
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Bind flags to Viper
			if err := BindGlobalFlags(v, cmd); err != nil {
				return fmt.Errorf("failed to bind flags: %w", err)
			}

			// Validate output format
			if !IsValidOutputFormat(flags.Output) {
				return fmt.Errorf("%w: %q must be one of %v", errors.ErrInvalidOutputFormat, flags.Output, ValidOutputFormats())
			}

			// Initialize logger based on flags (protected by mutex for thread safety)
			globalLoggerMu.Lock()
			globalLogger = InitLogger(flags.Verbose, flags.Quiet)
			globalLoggerMu.Unlock()

			return nil
		},
		// SilenceUsage prevents printing usage on error
		// (we handle our own error messages)
		SilenceUsage: true,
	}

	// Add global flags
	AddGlobalFlags(cmd, flags)

	// Add subcommands
	AddDevicesCommand(cmd, flags, deps)
	AddModulesCommand(cmd, flags, deps)
	AddScreenshotCommand(cmd, flags, deps)
	AddRunCommand(cmd, flags, deps)
	AddInteractiveCommand(cmd, flags, deps)
	AddCompletionCommand(cmd)

	return cmd
}

// formatVersion creates the version string from build info.
func formatVersion(info BuildInfo) string {
	if info.Version == "" {
		info.Version = "dev"
	}
	if info.Commit == "" {
		info.Commit = "none"
	}
	if info.Date == "" {
		info.Date = "unknown"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", info.Version, info.Commit, info.Date)
}

// Execute runs the root command with the provided context, build info, and
// wired dependencies.
func Execute(ctx context.Context, info BuildInfo, deps Dependencies) error {
	flags := &GlobalFlags{}
	//nolint:contextcheck // Cobra command pattern uses cmd.Context() internally
	cmd := newRootCmd(flags, info, deps)
	return cmd.ExecuteContext(ctx)
}

// Package errors provides centralized error handling for the orchestrator.
//
// This package defines sentinel errors used for programmatic error categorization.
// All error kinds can be checked using errors.Is().
//
// IMPORTANT: This package MUST NOT import any other internal packages.
// Only standard library imports are allowed.
package errors

import "errors"

// Sentinel errors, one per error kind recognized by the task runner and
// executor. Callers check these with errors.Is(); exit-code mapping lives
// in ExitCode2Error and ExitCodeFor below.
var (
	// ErrInvalidInput indicates the classifier returned "invalid" or a handler
	// matched no workflow for the task. The shell shows guidance and never invokes the executor.
	ErrInvalidInput = errors.New("invalid input")

	// ErrClassificationFailed indicates both the fast-form and model classifiers
	// returned nothing actionable. The shell re-prompts mode selection; this
	// never falls through to keyword routing.
	ErrClassificationFailed = errors.New("classification failed")

	// ErrDeviceUnavailable indicates a device command timed out or the device
	// binding could not be established. Terminal at any point.
	ErrDeviceUnavailable = errors.New("device unavailable")

	// ErrDeviceCommandFailed indicates a device command returned a non-zero
	// result; stderr text is carried via Wrap for diagnostics.
	ErrDeviceCommandFailed = errors.New("device command failed")

	// ErrLocateFailed indicates all locator stages were exhausted for a step.
	// Recoverable locally via navigate-to-home plus retry or replan.
	ErrLocateFailed = errors.New("locate failed")

	// ErrStepFailed indicates a step exhausted its retry budget. May carry
	// ErrLocateFailed as a wrapped cause. Terminal for the task after one replan.
	ErrStepFailed = errors.New("step failed")

	// ErrUnableToReachHome indicates the ensure-home loop exhausted its
	// attempt budget. Terminal in preset; logged-only in reset.
	ErrUnableToReachHome = errors.New("unable to reach home")

	// ErrParamsMissing indicates required workflow parameters could not be
	// extracted from the parsed task or user input.
	ErrParamsMissing = errors.New("required parameters missing")

	// ErrPlannerFailed indicates the remote planner or model returned
	// unparseable content.
	ErrPlannerFailed = errors.New("planner failed")

	// ErrHandlerNotFound indicates the module registry produced no handler
	// and no default handler is registered.
	ErrHandlerNotFound = errors.New("handler not found")

	// ErrWorkflowNotFound indicates a named workflow does not exist in a
	// handler's workflow table.
	ErrWorkflowNotFound = errors.New("workflow not found")

	// ErrAssetNotFound indicates a reference name resolved to no image path.
	ErrAssetNotFound = errors.New("asset not found")

	// ErrConfigInvalid indicates a configuration value failed validation.
	ErrConfigInvalid = errors.New("invalid configuration")

	// ErrMenuCanceled indicates the user canceled the interactive menu.
	ErrMenuCanceled = errors.New("menu canceled by user")

	// ErrNoMenuOptions indicates a Select menu was built with zero options.
	ErrNoMenuOptions = errors.New("menu has no options")

	// ErrNonInteractiveInput indicates interactive input was required but
	// stdin is not a TTY and no fallback was supplied.
	ErrNonInteractiveInput = errors.New("interactive input required")

	// ErrJSONErrorOutput indicates an error has already been printed as JSON;
	// commands should silence cobra's default error printing when returning this.
	ErrJSONErrorOutput = errors.New("error output as JSON")

	// ErrInvalidOutputFormat indicates --output was given a value other than
	// "text" or "json".
	ErrInvalidOutputFormat = errors.New("invalid output format")

	// ErrUserCanceled indicates the run or interactive command was
	// interrupted by SIGINT/SIGTERM before the task completed. The executor
	// still attempts its reset phase against the canceled context; this
	// sentinel only governs the reported status and exit code.
	ErrUserCanceled = errors.New("canceled by user")

	// ErrDeviceLocked indicates another process already holds the exclusive
	// lock on this device binding (§5: at most one task runs at a time
	// through one device binding).
	ErrDeviceLocked = errors.New("device already in use by another process")
)

// ExitCode2Error wraps an error to force exit code 2 (configuration or
// device-unavailable class failures), per the shell's exit code contract.
type ExitCode2Error struct {
	Err error
}

// NewExitCode2Error wraps err to indicate exit code 2 should be used.
func NewExitCode2Error(err error) *ExitCode2Error {
	return &ExitCode2Error{Err: err}
}

// Error implements the error interface.
func (e *ExitCode2Error) Error() string { return e.Err.Error() }

// Unwrap returns the underlying error.
func (e *ExitCode2Error) Unwrap() error { return e.Err }

// IsExitCode2Error reports whether err should result in exit code 2.
func IsExitCode2Error(err error) bool {
	var e *ExitCode2Error
	return errors.As(err, &e)
}

// ExitCodeFor maps an error to the shell exit code contract: 0 success
// (err == nil), 1 task failure or user cancel, 2 configuration/device-unavailable.
func ExitCodeFor(err error) int {
	if err == nil {
		return 0
	}
	if IsExitCode2Error(err) {
		return 2
	}
	if errors.Is(err, ErrDeviceUnavailable) || errors.Is(err, ErrConfigInvalid) || errors.Is(err, ErrDeviceLocked) {
		return 2
	}
	return 1
}

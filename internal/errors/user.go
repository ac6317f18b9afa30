package errors

import "errors"

// ErrorInfo holds a user-facing message and suggested action for an error.
type ErrorInfo struct {
	// Message is the user-friendly error description.
	Message string
	// Action is a suggested retry path (empty if none).
	Action string
}

type errorEntry struct {
	err  error
	info ErrorInfo
}

// errorInfoEntries is the single source of truth mapping sentinel errors to
// user-facing guidance. A slice, not a map, because errors.Is() needs chain
// traversal for wrapped errors.
//
//nolint:gochecknoglobals // pre-built mapping, read-only after init
var errorInfoEntries = []errorEntry{
	{
		err: ErrInvalidInput,
		info: ErrorInfo{
			Message: "Could not understand that as a task.",
			Action:  `Try: "ss:msg:alice:hello there", "ss:pyq:good morning!", or a plain sentence like "send hello to alice".`,
		},
	},
	{
		err: ErrClassificationFailed,
		info: ErrorInfo{
			Message: "Classification failed for both fixed-form and natural-language parsing.",
			Action:  "Returning to mode selection. Pick fast-form or natural-language and try again.",
		},
	},
	{
		err: ErrDeviceUnavailable,
		info: ErrorInfo{
			Message: "The device is unavailable or did not respond in time.",
			Action:  "Check the device connection, or set DEBUG_MODE=true to use the mock device.",
		},
	},
	{
		err: ErrDeviceCommandFailed,
		info: ErrorInfo{
			Message: "A device command failed.",
			Action:  "Check that the device is unlocked and the bridge is authorized.",
		},
	},
	{
		err: ErrLocateFailed,
		info: ErrorInfo{
			Message: "Could not locate the target on screen.",
			Action:  "The screen may have changed layout; retry, or update the reference images.",
		},
	},
	{
		err: ErrStepFailed,
		info: ErrorInfo{
			Message: "A workflow step exhausted its retry budget.",
			Action:  "Check the step trace for the failing action and target.",
		},
	},
	{
		err: ErrUnableToReachHome,
		info: ErrorInfo{
			Message: "Could not navigate back to the home screen.",
			Action:  "The app may be showing an unexpected dialog; intervene manually and retry.",
		},
	},
	{
		err: ErrParamsMissing,
		info: ErrorInfo{
			Message: "Required parameters could not be extracted from the task.",
			Action:  "Provide recipient/content explicitly, e.g. \"ss:msg:alice:hello\".",
		},
	},
	{
		err: ErrPlannerFailed,
		info: ErrorInfo{
			Message: "The remote planner returned content that could not be parsed.",
			Action:  "Retry; if this persists, check the model provider configuration.",
		},
	},
	{
		err: ErrHandlerNotFound,
		info: ErrorInfo{
			Message: "No handler matched this task and no default handler is registered.",
			Action:  "Check that the system handler manifest is present under apps/.",
		},
	},
	{
		err: ErrWorkflowNotFound,
		info: ErrorInfo{
			Message: "The named workflow does not exist for this handler.",
			Action:  "Check the handler's workflow table for the available names.",
		},
	},
	{
		err: ErrAssetNotFound,
		info: ErrorInfo{
			Message: "The reference image could not be resolved.",
			Action:  "Check the alias table and the images directory for the expected file.",
		},
	},
	{
		err: ErrConfigInvalid,
		info: ErrorInfo{
			Message: "Configuration is invalid.",
			Action:  "Check environment variables against the documented defaults.",
		},
	},
	{
		err: ErrMenuCanceled,
		info: ErrorInfo{
			Message: "Menu selection was canceled.",
			Action:  "",
		},
	},
	{
		err: ErrNonInteractiveInput,
		info: ErrorInfo{
			Message: "This operation requires an interactive terminal.",
			Action:  "Run from a TTY, or pass the task as a command-line argument.",
		},
	},
	{
		err: ErrInvalidOutputFormat,
		info: ErrorInfo{
			Message: "Unsupported --output value.",
			Action:  `Use "text" or "json".`,
		},
	},
	{
		err: ErrUserCanceled,
		info: ErrorInfo{
			Message: "Task was canceled by the user.",
			Action:  "The executor's reset phase was attempted; verify the device is back at its home screen before retrying.",
		},
	},
	{
		err: ErrDeviceLocked,
		info: ErrorInfo{
			Message: "Another droidtask process is already using this device.",
			Action:  "Wait for the other process to finish, or target a different device.",
		},
	},
}

//nolint:gochecknoglobals // built once at init for O(1) direct lookups
var errorInfoMap = buildErrorInfoMap()

func buildErrorInfoMap() map[error]ErrorInfo {
	m := make(map[error]ErrorInfo, len(errorInfoEntries))
	for _, entry := range errorInfoEntries {
		m[entry.err] = entry.info
	}
	return m
}

func getErrorInfo(err error) ErrorInfo {
	if info, ok := errorInfoMap[err]; ok {
		return info
	}
	for _, entry := range errorInfoEntries {
		if errors.Is(err, entry.err) {
			return entry.info
		}
	}
	return ErrorInfo{Message: err.Error()}
}

// UserMessage returns a user-friendly message for a recognized error, or the
// error's own message when unrecognized.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	return getErrorInfo(err).Message
}

// Actionable returns a user-facing message and suggested retry path.
func Actionable(err error) (message, action string) {
	if err == nil {
		return "", ""
	}
	info := getErrorInfo(err)
	return info.Message, info.Action
}

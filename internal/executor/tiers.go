package executor

import (
	"strings"

	"github.com/taskpilot/droidtask/internal/constants"
	"github.com/taskpilot/droidtask/internal/domain"
)

// fireAndForgetActions run with no capture and no verification (§4.7
// Execution strategy tiers). launch_app and call have no dedicated
// WorkflowStep action name in this model (they are expressed via
// nav_to_home/start-app-adjacent sub_workflow steps), so this set covers
// the action kinds that exist here.
//
//nolint:gochecknoglobals // static lookup set
var fireAndForgetActions = map[string]bool{
	constants.ActionWait:       true,
	constants.ActionNavToHome:  true,
	constants.ActionPressKey:   true,
	constants.ActionKeyevent:   true,
	constants.ActionScreenshot: true,
}

// executionTier classifies a step into the four tiers of §4.7, deciding
// whether to capture/locate/verify.
func executionTier(step domain.WorkflowStep) string {
	if fireAndForgetActions[step.Action] {
		return constants.TierFireAndForget
	}
	if step.Action == constants.ActionSwipe {
		return constants.TierQuickVerify
	}
	if isDynamicTarget(step.Target) {
		return constants.TierFullAI
	}
	return constants.TierLocateAndExec
}

// verificationTier maps a step to its verification tier (§4.7
// "Verification tiers"), independent of executionTier.
func verificationTier(step domain.WorkflowStep) string {
	if step.Params["verify_ref"] != "" || step.Params["success_condition"] != "" {
		return constants.VerifyPrecise
	}
	switch step.Action {
	case constants.ActionWait, constants.ActionPressKey, constants.ActionKeyevent, constants.ActionNavToHome:
		return constants.VerifySkip
	case constants.ActionInputURL:
		return constants.VerifyLenient
	case constants.ActionTap, constants.ActionLongPress, constants.ActionSwipe, constants.ActionInputText:
		return constants.VerifyStandard
	default:
		return constants.VerifyStandard
	}
}

// isDynamicTarget reports whether target carries the "dynamic:" sentinel
// prefix (§9 "Dynamic: overloading").
func isDynamicTarget(target string) bool {
	return strings.HasPrefix(target, constants.DynamicTargetPrefix)
}

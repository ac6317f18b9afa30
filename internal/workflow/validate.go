package workflow

import (
	"fmt"
	"regexp"

	"github.com/taskpilot/droidtask/internal/constants"
	"github.com/taskpilot/droidtask/internal/domain"
	atlaserrors "github.com/taskpilot/droidtask/internal/errors"
)

// placeholderPattern matches a "{name}" parameter placeholder.
var placeholderPattern = regexp.MustCompile(`\{[A-Za-z_][A-Za-z0-9_]*\}`)

// noTargetActions are steps that never locate anything, so an empty Target
// is expected rather than an authoring mistake.
//
//nolint:gochecknoglobals // static lookup set
var noTargetActions = map[string]bool{
	constants.ActionWait:        true,
	constants.ActionNavToHome:   true,
	constants.ActionKeyevent:    true,
	constants.ActionPressKey:    true,
	constants.ActionConditional: true,
	constants.ActionSubWorkflow: true,
}

// Validate checks one workflow's declared author contracts (§4.6):
// non-empty validStartScreens (including home unless navToStart), every
// step has either a locatable target or is a no-target action kind, and
// sub_workflow steps name a child via params.
func Validate(wf domain.Workflow) error {
	if len(wf.ValidStartScreens) == 0 {
		return fmt.Errorf("%w: validStartScreens must be non-empty", atlaserrors.ErrConfigInvalid)
	}
	if !wf.NavToStart && !containsScreen(wf.ValidStartScreens, constants.ScreenHome) {
		return fmt.Errorf("%w: validStartScreens must include home unless navToStart", atlaserrors.ErrConfigInvalid)
	}
	if len(wf.Steps) == 0 {
		return fmt.Errorf("%w: steps must be non-empty", atlaserrors.ErrConfigInvalid)
	}

	for i, step := range wf.Steps {
		if err := validateStep(step); err != nil {
			return fmt.Errorf("step %d: %w", i, err)
		}
	}

	return nil
}

func validateStep(step domain.WorkflowStep) error {
	if step.Action == "" {
		return fmt.Errorf("%w: action is required", atlaserrors.ErrConfigInvalid)
	}

	if step.Target == "" && !noTargetActions[step.Action] {
		return fmt.Errorf("%w: action %q requires a target", atlaserrors.ErrConfigInvalid, step.Action)
	}

	if step.Action == constants.ActionSubWorkflow {
		if step.Params["workflow"] == "" {
			return fmt.Errorf("%w: sub_workflow step requires params.workflow", atlaserrors.ErrConfigInvalid)
		}
	}

	if step.Action == constants.ActionConditional {
		if len(step.Steps) == 0 {
			return fmt.Errorf("%w: conditional step requires nested steps", atlaserrors.ErrConfigInvalid)
		}
		for branch, nested := range step.Steps {
			for i, n := range nested {
				if err := validateStep(n); err != nil {
					return fmt.Errorf("branch %q step %d: %w", branch, i, err)
				}
			}
		}
	}

	return nil
}

func containsScreen(screens []domain.ScreenState, target domain.ScreenState) bool {
	for _, s := range screens {
		if s == target {
			return true
		}
	}
	return false
}

// Placeholders returns every "{name}" placeholder referenced in s's Target,
// params.text and Description, per §4.6's substitution contract.
func Placeholders(s domain.WorkflowStep) []string {
	var names []string
	for _, field := range []string{s.Target, s.Params["text"], s.Description} {
		for _, m := range placeholderPattern.FindAllString(field, -1) {
			names = append(names, m[1:len(m)-1])
		}
	}
	return names
}

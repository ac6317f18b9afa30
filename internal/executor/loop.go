package executor

import (
	"context"
	"fmt"

	"github.com/taskpilot/droidtask/internal/constants"
	"github.com/taskpilot/droidtask/internal/ctxutil"
	"github.com/taskpilot/droidtask/internal/domain"
	atlaserrors "github.com/taskpilot/droidtask/internal/errors"
	"github.com/taskpilot/droidtask/internal/workflow"
)

// runMainLoop verifies the workflow's starting screen, navigating to home
// first when required, then runs its step list (§4.7 "Main loop").
func (e *Executor) runMainLoop(ctx context.Context, wf domain.Workflow, params map[string]string, result *domain.TaskResult) ([]domain.StepResult, error) {
	if !wf.NavToStart {
		screen, err := e.detectScreen(ctx)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", atlaserrors.ErrDeviceUnavailable, err)
		}
		if e.needsHomeNav(wf, screen) {
			if err := e.ensureHome(ctx); err != nil {
				return nil, err
			}
		}
	}

	var trace []domain.StepResult
	if err := e.runSteps(ctx, wf.Steps, params, &trace, result); err != nil {
		return trace, err
	}

	if wf.EndScreen != "" {
		screen, err := e.detectScreen(ctx)
		if err == nil && screen != wf.EndScreen {
			e.logger.Warn().Str("component", "executor").Str("expected", string(wf.EndScreen)).Str("actual", string(screen)).Msg("workflow ended off its declared end screen")
		}
	}

	return trace, nil
}

// needsHomeNav reports whether the current screen requires a forced
// navigate-to-home before the step loop begins: either the screen is not a
// declared valid start, or it is a valid non-home start while home is also
// declared valid (§4.7's parenthetical on preferring a deterministic home
// start when available).
func (e *Executor) needsHomeNav(wf domain.Workflow, screen domain.ScreenState) bool {
	homeValid := false
	screenValid := false
	for _, s := range wf.ValidStartScreens {
		if s == constants.ScreenHome {
			homeValid = true
		}
		if s == screen {
			screenValid = true
		}
	}
	if !screenValid {
		return true
	}
	return homeValid && screen != constants.ScreenHome
}

// runSteps executes steps in order, substituting placeholders, retrying
// each step up to MaxStepRetries, and invoking recovery on exhaustion.
// Conditional and sub_workflow actions recurse into nested step lists
// without re-running preset/reset.
func (e *Executor) runSteps(ctx context.Context, steps []domain.WorkflowStep, params map[string]string, trace *[]domain.StepResult, result *domain.TaskResult) error {
	remaining := steps

	for i := 0; i < len(remaining); i++ {
		if err := ctxutil.Canceled(ctx); err != nil {
			return err
		}

		step, err := workflow.Substitute(remaining[i], params)
		if err != nil {
			*trace = append(*trace, domain.StepResult{Index: len(*trace), Action: remaining[i].Action, Target: remaining[i].Target, Success: false, Error: err.Error()})
			return fmt.Errorf("%w: %w", atlaserrors.ErrStepFailed, err)
		}

		switch step.Action {
		case constants.ActionConditional:
			if err := e.runConditional(ctx, step, params, trace, result); err != nil {
				return err
			}
			continue
		case constants.ActionSubWorkflow:
			if err := e.runSubWorkflow(ctx, step, params, trace, result); err != nil {
				return err
			}
			continue
		}

		replanTail, err := e.runStepWithRecovery(ctx, step, trace)
		if err != nil {
			return err
		}
		if replanTail != nil {
			remaining = append(append([]domain.WorkflowStep{}, remaining[:i+1]...), replanTail...)
		}
	}
	return nil
}

func (e *Executor) runConditional(ctx context.Context, step domain.WorkflowStep, params map[string]string, trace *[]domain.StepResult, result *domain.TaskResult) error {
	value := params[step.Params["predicate"]]
	branch := "else"
	if value != "" && value != "false" {
		branch = "then"
	}
	return e.runSteps(ctx, step.Steps[branch], params, trace, result)
}

func (e *Executor) runSubWorkflow(ctx context.Context, step domain.WorkflowStep, params map[string]string, trace *[]domain.StepResult, result *domain.TaskResult) error {
	childName := step.Params["workflow"]
	child, ok := e.table.Get(childName)
	if !ok {
		return fmt.Errorf("%w: sub_workflow %q", atlaserrors.ErrWorkflowNotFound, childName)
	}

	merged := make(map[string]string, len(params)+len(step.Params))
	for k, v := range params {
		merged[k] = v
	}
	for k, v := range step.Params {
		if k != "workflow" {
			merged[k] = v
		}
	}

	if missing := child.MissingParams(merged); len(missing) > 0 {
		result.MissingParams = append(result.MissingParams, missing...)
		return fmt.Errorf("%w: sub_workflow %q: %v", atlaserrors.ErrParamsMissing, childName, missing)
	}

	return e.runSteps(ctx, child.Steps, merged, trace, result)
}

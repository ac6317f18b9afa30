package executor

import (
	"context"
	"fmt"

	"github.com/taskpilot/droidtask/internal/ai"
	"github.com/taskpilot/droidtask/internal/constants"
	"github.com/taskpilot/droidtask/internal/domain"
	atlaserrors "github.com/taskpilot/droidtask/internal/errors"
)

// replanSystemPrompt asks the remote model for a replacement step list
// after a local recovery failure, per §4.7 "Optional remote-model replan."
const replanSystemPrompt = "output only JSON: {\"steps\": [...]} with the same step schema as a workflow definition, replacing the remaining steps needed to complete the task from the current screen"

// runStepWithRecovery runs step up to MaxStepRetries attempts, appending a
// StepResult to trace and invoking recovery on exhaustion. A non-nil
// returned slice is a replan-produced replacement for the remaining steps,
// to be spliced in by the caller; nil means either success or a terminal
// failure (in which case err is non-nil).
func (e *Executor) runStepWithRecovery(ctx context.Context, step domain.WorkflowStep, trace *[]domain.StepResult) ([]domain.WorkflowStep, error) {
	maxRetries := e.cfg.MaxStepRetries
	if maxRetries < 1 {
		maxRetries = constants.DefaultStepRetries
	}

	started := e.clk.Now()
	var lastErr error
	var lastLoc *domain.LocateResult
	attempts := 0

	for attempt := 1; attempt <= maxRetries; attempt++ {
		attempts = attempt
		loc, err := e.runAction(ctx, step)
		lastLoc = loc

		verifiable := executionTier(step) != constants.TierFireAndForget && verificationTier(step) != constants.VerifySkip
		if err == nil && step.ExpectScreen != "" && verifiable {
			screen, derr := e.detectScreen(ctx)
			if derr != nil {
				err = derr
			} else if screen != domain.ScreenState(step.ExpectScreen) {
				err = fmt.Errorf("%w: expected screen %q, got %q", atlaserrors.ErrStepFailed, step.ExpectScreen, screen)
			}
		}

		if err == nil {
			*trace = append(*trace, domain.StepResult{
				Index: len(*trace), Action: step.Action, Target: step.Target,
				Success: true, Attempts: attempts, Locate: loc,
				Duration: e.clk.Now().Sub(started), StartedAt: started,
			})
			return nil, nil
		}

		lastErr = err
		if attempt < maxRetries {
			sleep(ctx, constants.DefaultOperationDelay)
		}
	}

	*trace = append(*trace, domain.StepResult{
		Index: len(*trace), Action: step.Action, Target: step.Target,
		Success: false, Attempts: attempts, Error: lastErr.Error(), Locate: lastLoc,
		Duration: e.clk.Now().Sub(started), StartedAt: started,
	})

	return e.recover(ctx, step, lastErr)
}

// recover implements §4.7's recovery procedure: navigate to home, and if
// that succeeds, try a bounded number of remote-model replans before
// surfacing StepFailed.
func (e *Executor) recover(ctx context.Context, step domain.WorkflowStep, cause error) ([]domain.WorkflowStep, error) {
	navErr := e.ensureHome(ctx)
	if navErr != nil {
		return nil, fmt.Errorf("%w: recovery navigation failed: %w", atlaserrors.ErrStepFailed, cause)
	}

	screen, err := e.detectScreen(ctx)
	if err != nil || screen != constants.ScreenHome {
		return nil, fmt.Errorf("%w: %w", atlaserrors.ErrStepFailed, cause)
	}

	if e.planner == nil {
		return nil, fmt.Errorf("%w: %w", atlaserrors.ErrStepFailed, cause)
	}

	for i := 0; i < constants.DefaultReplanAttempts; i++ {
		tail, err := e.replan(ctx, step, cause)
		if err == nil && len(tail) > 0 {
			return tail, nil
		}
	}

	return nil, fmt.Errorf("%w: %w", atlaserrors.ErrStepFailed, cause)
}

func (e *Executor) replan(ctx context.Context, step domain.WorkflowStep, cause error) ([]domain.WorkflowStep, error) {
	result, err := e.planner.Run(ctx, &ai.Request{
		SystemPrompt: replanSystemPrompt,
		UserPrompt:   fmt.Sprintf("failed step: action=%s target=%s cause=%s", step.Action, step.Target, cause.Error()),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", atlaserrors.ErrPlannerFailed, err)
	}

	plan, err := ai.ParseJSON[domain.TaskPlan]([]byte(result.Text), atlaserrors.ErrPlannerFailed)
	if err != nil {
		return nil, err
	}
	if len(plan.Steps) == 0 {
		return nil, fmt.Errorf("%w: empty replan", atlaserrors.ErrPlannerFailed)
	}
	return plan.Steps, nil
}

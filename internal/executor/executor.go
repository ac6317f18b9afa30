// Package executor implements the Workflow Executor (C7): preset,
// screen-detection, the step main loop, recovery, and the mandatory
// reset macro described in §4.7.
package executor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/taskpilot/droidtask/internal/ai"
	"github.com/taskpilot/droidtask/internal/clock"
	"github.com/taskpilot/droidtask/internal/config"
	"github.com/taskpilot/droidtask/internal/contracts"
	"github.com/taskpilot/droidtask/internal/domain"
	atlaserrors "github.com/taskpilot/droidtask/internal/errors"
)

// WorkflowSource is the narrow slice of workflow.Table the executor needs,
// letting tests substitute a fake without pulling in the yaml-backed loader.
type WorkflowSource interface {
	Get(name string) (domain.Workflow, bool)
	Detector() domain.ScreenDetector
}

// Executor runs one handler's workflows against a Device + Locator + Asset
// Store, per §4.7. Constructed once per handler at startup.
type Executor struct {
	device      contracts.Device
	locator     contracts.Locator
	assets      contracts.AssetResolver
	table       WorkflowSource
	packageID   string
	handlerName string
	cfg         config.WorkflowConfig
	screenWait  time.Duration
	planner     ai.Runner // optional; nil disables remote-model replan
	clk         clock.Clock
	logger      zerolog.Logger
}

// New constructs an Executor for one handler.
func New(
	device contracts.Device,
	locator contracts.Locator,
	assets contracts.AssetResolver,
	table WorkflowSource,
	packageID, handlerName string,
	cfg config.WorkflowConfig,
	screenWait time.Duration,
	planner ai.Runner,
	clk clock.Clock,
	logger zerolog.Logger,
) *Executor {
	return &Executor{
		device: device, locator: locator, assets: assets, table: table,
		packageID: packageID, handlerName: handlerName, cfg: cfg,
		screenWait: screenWait, planner: planner, clk: clk, logger: logger,
	}
}

// Compile-time check that Executor implements contracts.Executor.
var _ contracts.Executor = (*Executor)(nil)

// ExecuteWorkflow runs workflowName with params, wrapping the body in the
// mandatory preset/reset discipline of §4.7: reset always runs on every
// return path, and never overrides a successful body result (§9 Open
// Questions resolves the ambiguity this way).
func (e *Executor) ExecuteWorkflow(ctx context.Context, workflowName string, params map[string]string) (domain.TaskResult, error) {
	result := domain.TaskResult{
		TaskID:       uuid.NewString(),
		HandlerName:  e.handlerName,
		WorkflowName: workflowName,
		StartedAt:    e.clk.Now(),
	}

	defer func() {
		result.FinishedAt = e.clk.Now()
		if resetErr := e.reset(ctx); resetErr != nil {
			e.logger.Warn().Str("component", "executor").Err(resetErr).Msg("reset failed, status unaffected")
		}
	}()

	wf, ok := e.table.Get(workflowName)
	if !ok {
		result.Status = domain.TaskStatusFailed
		result.Error = fmt.Sprintf("workflow %q not found", workflowName)
		result.ErrorKind = "WorkflowNotFound"
		return result, fmt.Errorf("%w: %s", atlaserrors.ErrWorkflowNotFound, workflowName)
	}

	if missing := wf.MissingParams(params); len(missing) > 0 {
		result.Status = domain.TaskStatusFailed
		result.MissingParams = missing
		result.ErrorKind = "ParamsMissing"
		result.Error = "required parameters missing: " + strings.Join(missing, ", ")
		return result, atlaserrors.ErrParamsMissing
	}

	if err := e.preset(ctx); err != nil {
		result.Status = domain.TaskStatusFailed
		result.ErrorKind = "UnableToReachHome"
		result.Error = err.Error()
		return result, err
	}

	steps, err := e.runMainLoop(ctx, wf, params, &result)
	result.Steps = steps
	if err != nil {
		result.Status = domain.TaskStatusFailed
		result.Error = err.Error()
		result.ErrorKind = errorKind(err)
		return result, err
	}

	result.Status = domain.TaskStatusSuccess
	result.Summary = fmt.Sprintf("%s completed in %d step(s)", wf.Name, len(steps))
	return result, nil
}

func errorKind(err error) string {
	switch {
	case errors.Is(err, atlaserrors.ErrStepFailed):
		return "StepFailed"
	case errors.Is(err, atlaserrors.ErrLocateFailed):
		return "LocateFailed"
	case errors.Is(err, atlaserrors.ErrUnableToReachHome):
		return "UnableToReachHome"
	case errors.Is(err, atlaserrors.ErrDeviceUnavailable):
		return "DeviceUnavailable"
	case errors.Is(err, atlaserrors.ErrParamsMissing):
		return "ParamsMissing"
	default:
		return "PlannerFailed"
	}
}

// Package runner implements the Task Runner (C8): the top-level dispatch
// algorithm of §4.8, routing an utterance to a handler via the fixed-form
// fast path, the model path, or keyword routing, and delegating to the
// chosen handler's workflow-backed execution.
package runner

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/taskpilot/droidtask/internal/classifier"
	"github.com/taskpilot/droidtask/internal/clock"
	"github.com/taskpilot/droidtask/internal/constants"
	"github.com/taskpilot/droidtask/internal/contracts"
	"github.com/taskpilot/droidtask/internal/domain"
	atlaserrors "github.com/taskpilot/droidtask/internal/errors"
	"github.com/taskpilot/droidtask/internal/registry"
)

// HandlerSource resolves a registry directory name to a constructed
// Handler, letting tests substitute fakes without building real C9
// handlers backed by a device.
type HandlerSource interface {
	Handler(dirName string) (contracts.Handler, bool)
}

// StaticHandlers is a HandlerSource backed by a fixed map, the shape every
// real wiring (cmd/droidtask) uses: one Handler instance per discovered
// app directory, built once at startup.
type StaticHandlers map[string]contracts.Handler

// Handler implements HandlerSource.
func (h StaticHandlers) Handler(dirName string) (contracts.Handler, bool) {
	handler, ok := h[dirName]
	return handler, ok
}

// Runner is the Task Runner (C8). Constructed once per process.
type Runner struct {
	registry   *registry.Registry
	classifier *classifier.Classifier
	handlers   HandlerSource
	clk        clock.Clock
	logger     zerolog.Logger
}

// New constructs a Runner.
func New(reg *registry.Registry, cls *classifier.Classifier, handlers HandlerSource, clk clock.Clock, logger zerolog.Logger) *Runner {
	return &Runner{registry: reg, classifier: cls, handlers: handlers, clk: clk, logger: logger}
}

// Dispatch runs §4.8's top-level algorithm for one utterance.
func (r *Runner) Dispatch(ctx context.Context, task string) (domain.TaskResult, error) {
	if classifier.HasFixedPrefix(task) {
		return r.dispatchFixedForm(ctx, task)
	}

	// No "ss:" prefix: skip the classifier entirely and route by keyword
	// (§4.8 step 6). The chosen handler classifies locally per §4.9 if it
	// needs to.
	return r.routeByKeyword(ctx, task)
}

func (r *Runner) dispatchFixedForm(ctx context.Context, task string) (domain.TaskResult, error) {
	if parsed, ok := r.classifier.FastPath(task); ok {
		return r.routeByType(ctx, task, parsed)
	}

	stripped := classifier.StripFixedPrefix(task)
	parsed, err := r.classifier.Model(ctx, stripped)
	if err != nil {
		return r.fail(atlaserrors.ErrClassificationFailed, "ClassificationFailed", err)
	}

	if parsed.Type == constants.TaskTypeInvalid {
		return r.fail(atlaserrors.ErrInvalidInput, "InvalidInput", nil)
	}

	return r.routeByType(ctx, task, parsed)
}

// routeByType maps a classified type to a handler directly (§4.8 steps 2-3),
// bypassing keyword scoring.
func (r *Runner) routeByType(ctx context.Context, task string, parsed domain.ParsedTask) (domain.TaskResult, error) {
	dirName, found := r.registry.ByType(parsed.Type)
	if !found {
		dirName = constants.DefaultHandlerName
	}

	handler, ok := r.handlers.Handler(dirName)
	if !ok {
		return r.fail(atlaserrors.ErrHandlerNotFound, "HandlerNotFound", fmt.Errorf("handler %q", dirName))
	}

	r.logger.Info().Str("component", "runner").Str("handler", dirName).Str("type", parsed.Type).Msg("routed by classified type")
	return handler.ExecuteTaskWithWorkflow(ctx, task, &parsed)
}

// routeByKeyword delegates to C4's scored routing, defaulting to the
// system handler below the routing threshold (§4.8 step 6).
func (r *Runner) routeByKeyword(ctx context.Context, task string) (domain.TaskResult, error) {
	dirName := r.registry.Route(task)

	handler, ok := r.handlers.Handler(dirName)
	if !ok {
		return r.fail(atlaserrors.ErrHandlerNotFound, "HandlerNotFound", fmt.Errorf("handler %q", dirName))
	}

	r.logger.Info().Str("component", "runner").Str("handler", dirName).Msg("routed by keyword score")
	return handler.ExecuteTaskWithWorkflow(ctx, task, nil)
}

// fail builds a failed TaskResult for a dispatch-level error: one the
// runner produces itself without ever invoking a handler or executor
// (ClassificationFailed, InvalidInput, HandlerNotFound).
func (r *Runner) fail(sentinel error, kind string, cause error) (domain.TaskResult, error) {
	now := r.clk.Now()
	err := sentinel
	if cause != nil {
		err = fmt.Errorf("%w: %w", sentinel, cause)
	}
	return domain.TaskResult{
		TaskID:     uuid.NewString(),
		Status:     domain.TaskStatusFailed,
		Error:      err.Error(),
		ErrorKind:  kind,
		StartedAt:  now,
		FinishedAt: now,
	}, err
}

// Package system implements the default fallback Reference Handler (C9):
// the handler the Task Runner routes to when keyword routing clears no
// handler's threshold (§4.8 step 6) and when type-based routing finds no
// declaring handler (§4.4 C4.ByType). It declares a small set of
// device-level workflows rather than app-specific ones.
package system

import (
	"context"
	"regexp"

	"github.com/rs/zerolog"

	"github.com/taskpilot/droidtask/internal/contracts"
	"github.com/taskpilot/droidtask/internal/domain"
	atlaserrors "github.com/taskpilot/droidtask/internal/errors"
	"github.com/taskpilot/droidtask/internal/workflow"
)

// goHomePatterns recognizes the one task this handler can always satisfy
// locally, with no remote model involved: returning to the home screen.
//
//nolint:gochecknoglobals // static pattern table
var goHomePatterns = []*regexp.Regexp{
	regexp.MustCompile(`回到主页`),
	regexp.MustCompile(`返回桌面`),
	regexp.MustCompile(`回桌面`),
	regexp.MustCompile(`(?i)go\s*home`),
	regexp.MustCompile(`(?i)home\s*screen`),
}

// Handler is the default/system Reference Handler.
type Handler struct {
	dirName  string
	info     domain.ModuleInfo
	table    *workflow.Table
	executor contracts.Executor
	logger   zerolog.Logger
}

// New constructs the system handler.
func New(dirName string, info domain.ModuleInfo, table *workflow.Table, executor contracts.Executor, logger zerolog.Logger) *Handler {
	return &Handler{dirName: dirName, info: info, table: table, executor: executor, logger: logger}
}

func (h *Handler) Name() string            { return h.dirName }
func (h *Handler) Info() domain.ModuleInfo { return h.info }

// ExecuteTaskWithWorkflow recognizes the device-level tasks this handler
// declares (currently just "go home") and otherwise reports invalid input:
// this handler has no classifier-recognized types of its own, so a parsed
// record routed here never maps to anything (§4.9 step 1's unknown-type
// case is terminal, not a fallback).
func (h *Handler) ExecuteTaskWithWorkflow(ctx context.Context, task string, parsed *domain.ParsedTask) (domain.TaskResult, error) {
	if parsed != nil && parsed.IsActionable() {
		return h.invalidInput(task), nil
	}

	if !matchesAny(goHomePatterns, task) {
		return h.invalidInput(task), nil
	}

	if _, ok := h.table.Get("go_home"); !ok {
		return domain.TaskResult{
			Status:      domain.TaskStatusFailed,
			HandlerName: h.dirName,
			Error:       atlaserrors.ErrWorkflowNotFound.Error(),
			ErrorKind:   "WorkflowNotFound",
		}, nil
	}

	return h.executor.ExecuteWorkflow(ctx, "go_home", nil)
}

func (h *Handler) invalidInput(task string) domain.TaskResult {
	h.logger.Info().Str("component", "handler").Str("handler", h.dirName).Str("task", task).Msg("no local workflow matched, reporting invalid input")
	return domain.TaskResult{
		Status:      domain.TaskStatusFailed,
		HandlerName: h.dirName,
		Error:       atlaserrors.ErrInvalidInput.Error(),
		ErrorKind:   "InvalidInput",
	}
}

func matchesAny(patterns []*regexp.Regexp, task string) bool {
	for _, p := range patterns {
		if p.MatchString(task) {
			return true
		}
	}
	return false
}

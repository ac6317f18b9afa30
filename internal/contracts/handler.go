package contracts

import (
	"context"

	"github.com/taskpilot/droidtask/internal/domain"
)

// Handler is a Reference Handler (C9): given a task utterance and an
// optional pre-parsed record, it resolves a workflow name and parameters
// and delegates execution to an Executor.
type Handler interface {
	Name() string
	Info() domain.ModuleInfo
	ExecuteTaskWithWorkflow(ctx context.Context, task string, parsed *domain.ParsedTask) (domain.TaskResult, error)
}

// Executor is the Workflow Executor (C7) surface a Handler delegates to.
type Executor interface {
	ExecuteWorkflow(ctx context.Context, workflowName string, params map[string]string) (domain.TaskResult, error)
}

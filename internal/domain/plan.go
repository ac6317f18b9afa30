package domain

import "time"

// TaskStatus is the lifecycle state of a TaskResult.
type TaskStatus string

// Statuses a TaskResult may carry.
const (
	TaskStatusPending TaskStatus = "pending"
	TaskStatusRunning TaskStatus = "running"
	TaskStatusSuccess TaskStatus = "success"
	TaskStatusFailed  TaskStatus = "failed"
	TaskStatusAborted TaskStatus = "aborted"
)

// TaskPlan is a model-produced step list used when the executor falls back
// to remote planning (initial complex-task planning, or mid-task replan).
type TaskPlan struct {
	WorkflowName string            `json:"workflow_name,omitempty"`
	Steps        []WorkflowStep    `json:"steps"`
	Params       map[string]string `json:"params,omitempty"`
}

// StepResult records the outcome of one executed WorkflowStep, accumulated
// into a TaskResult's step trace.
type StepResult struct {
	Index       int           `json:"index"`
	Action      string        `json:"action"`
	Target      string        `json:"target,omitempty"`
	Success     bool          `json:"success"`
	Error       string        `json:"error,omitempty"`
	Attempts    int           `json:"attempts"`
	Locate      *LocateResult `json:"locate,omitempty"`
	Duration    time.Duration `json:"duration"`
	StartedAt   time.Time     `json:"started_at"`
}

// TaskResult is the final outcome of one execute_workflow call (or of the
// task runner's top-level dispatch), carrying the full step trace.
type TaskResult struct {
	TaskID      string       `json:"task_id"`
	HandlerName string       `json:"handler_name,omitempty"`
	WorkflowName string      `json:"workflow_name,omitempty"`
	Status      TaskStatus   `json:"status"`
	Steps       []StepResult `json:"steps"`
	Summary     string       `json:"summary,omitempty"`
	Error       string       `json:"error,omitempty"`
	ErrorKind   string       `json:"error_kind,omitempty"`
	StartedAt   time.Time    `json:"started_at"`
	FinishedAt  time.Time    `json:"finished_at"`

	// MissingParams is populated when Status is failed due to ParamsMissing.
	MissingParams []string `json:"missing_params,omitempty"`
}

// Elapsed returns the wall-clock duration between StartedAt and FinishedAt.
func (r TaskResult) Elapsed() time.Duration {
	if r.FinishedAt.IsZero() || r.StartedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// Succeeded reports whether the task completed successfully.
func (r TaskResult) Succeeded() bool {
	return r.Status == TaskStatusSuccess
}

// Package wechat implements the Reference Handler (C9) for the WeChat
// module: type-to-workflow mapping for already-classified tasks, a local
// classify-then-match path for unprefixed utterances, a remote planner for
// complex multi-step tasks, and a regex pattern-table fallback for simple
// tasks the classifier leaves unparsed.
package wechat

import (
	"context"
	"regexp"

	"github.com/rs/zerolog"

	"github.com/taskpilot/droidtask/internal/ai"
	"github.com/taskpilot/droidtask/internal/classifier"
	"github.com/taskpilot/droidtask/internal/constants"
	"github.com/taskpilot/droidtask/internal/contracts"
	"github.com/taskpilot/droidtask/internal/domain"
	atlaserrors "github.com/taskpilot/droidtask/internal/errors"
	"github.com/taskpilot/droidtask/internal/workflow"
)

// typeToWorkflow maps a classifier task type to this handler's workflow
// name (§4.9 step 1).
//
//nolint:gochecknoglobals // static lookup table
var typeToWorkflow = map[string]string{
	constants.TaskTypeSendMsg:    "send_message",
	constants.TaskTypePostMoment: "post_moments",
	"search_contact":             "search_contact",
	"add_friend":                 "add_friend_by_name",
}

// plannerSystemPrompt is the remote planner's fixed contract (§4.9 step 2):
// choose among the handler's declared workflows and emit params as JSON.
const plannerSystemPrompt = "output only JSON. fields: workflow_name, params (object)."

// plannerResponse is the planner's expected JSON shape.
type plannerResponse struct {
	WorkflowName string            `json:"workflow_name"`
	Params       map[string]string `json:"params"`
}

var plannerJSONPattern = regexp.MustCompile(`(?s)\{.*\}`)

// Handler is the WeChat Reference Handler.
type Handler struct {
	dirName    string
	info       domain.ModuleInfo
	table      *workflow.Table
	executor   contracts.Executor
	classifier *classifier.Classifier
	planner    ai.Runner // optional; nil disables the complex-task planner path
	logger     zerolog.Logger
}

// New constructs the WeChat handler. table supplies the handler's declared
// workflows (loaded from workflows.yaml by C6); executor is the C7 instance
// bound to this handler's device/locator/asset store.
func New(
	dirName string,
	info domain.ModuleInfo,
	table *workflow.Table,
	executor contracts.Executor,
	cls *classifier.Classifier,
	planner ai.Runner,
	logger zerolog.Logger,
) *Handler {
	return &Handler{dirName: dirName, info: info, table: table, executor: executor, classifier: cls, planner: planner, logger: logger}
}

func (h *Handler) Name() string            { return h.dirName }
func (h *Handler) Info() domain.ModuleInfo { return h.info }

// ExecuteTaskWithWorkflow runs §4.9's algorithm: resolve a workflow name and
// params, validate required params, then delegate to C7.
func (h *Handler) ExecuteTaskWithWorkflow(ctx context.Context, task string, parsed *domain.ParsedTask) (domain.TaskResult, error) {
	workflowName, params, failure := h.resolve(ctx, task, parsed)
	if failure != nil {
		return *failure, nil
	}
	if workflowName == "" {
		return h.invalidInput(task), nil
	}

	wf, ok := h.table.Get(workflowName)
	if !ok {
		return domain.TaskResult{
			Status:       domain.TaskStatusFailed,
			HandlerName:  h.dirName,
			WorkflowName: workflowName,
			Error:        atlaserrors.ErrWorkflowNotFound.Error(),
			ErrorKind:    "WorkflowNotFound",
		}, nil
	}

	if missing := wf.MissingParams(params); len(missing) > 0 {
		h.logger.Info().Str("component", "handler").Str("handler", h.dirName).Strs("missing", missing).Msg("required params missing, returning to caller")
		return domain.TaskResult{
			Status:        domain.TaskStatusFailed,
			HandlerName:   h.dirName,
			WorkflowName:  workflowName,
			Error:         atlaserrors.ErrParamsMissing.Error(),
			ErrorKind:     "ParamsMissing",
			MissingParams: missing,
		}, nil
	}

	return h.executor.ExecuteWorkflow(ctx, workflowName, params)
}

// resolve implements §4.9 steps 1-2, returning either a (workflowName,
// params) pair to validate and run, or a terminal failure result when the
// task is explicitly invalid.
func (h *Handler) resolve(ctx context.Context, task string, parsed *domain.ParsedTask) (string, map[string]string, *domain.TaskResult) {
	if parsed != nil && parsed.IsActionable() {
		name := typeToWorkflow[parsed.Type]
		return name, paramsForParsedTask(name, *parsed), nil
	}

	local, class := h.classifier.Classify(ctx, task)
	if class == domain.ClassInvalid {
		result := h.invalidInput(task)
		return "", nil, &result
	}

	// Only a type present in our direct table counts here; "others" (the
	// complex-task marker) falls through to the planner below rather than
	// being treated as actionable, per §4.9 step 1 vs step 2.
	if name, ok := typeToWorkflow[local.Type]; ok {
		return name, paramsForParsedTask(name, local), nil
	}

	if class == domain.ClassComplex && h.planner != nil {
		if name, params, ok := h.askPlanner(ctx, task); ok {
			return name, params, nil
		}
	}

	if match, ok := matchSimplePattern(task); ok {
		return match.workflowName, match.params, nil
	}

	return "", nil, nil
}

// askPlanner asks the remote planner to choose among the handler's declared
// workflows for a complex task (§4.9 step 2).
func (h *Handler) askPlanner(ctx context.Context, task string) (string, map[string]string, bool) {
	result, err := h.planner.Run(ctx, &ai.Request{
		SystemPrompt: plannerSystemPrompt,
		UserPrompt:   workflowDescriptions(h.table) + "\n\n任务: " + task,
	})
	if err != nil {
		h.logger.Warn().Str("component", "handler").Err(err).Msg("planner call failed")
		return "", nil, false
	}

	match := plannerJSONPattern.FindString(result.Text)
	if match == "" {
		return "", nil, false
	}

	resp, err := ai.ParseJSON[plannerResponse]([]byte(match), atlaserrors.ErrPlannerFailed)
	if err != nil || resp.WorkflowName == "" {
		return "", nil, false
	}
	if _, ok := h.table.Get(resp.WorkflowName); !ok {
		return "", nil, false
	}

	return resp.WorkflowName, resp.Params, true
}

func (h *Handler) invalidInput(task string) domain.TaskResult {
	h.logger.Info().Str("component", "handler").Str("handler", h.dirName).Str("task", task).Msg("invalid input, no workflow matched")
	return domain.TaskResult{
		Status:      domain.TaskStatusFailed,
		HandlerName: h.dirName,
		Error:       atlaserrors.ErrInvalidInput.Error(),
		ErrorKind:   "InvalidInput",
	}
}

// workflowDescriptions renders every declared workflow's name, description
// and required params, the planner prompt context (§4.9 step 2).
func workflowDescriptions(table *workflow.Table) string {
	desc := ""
	for _, name := range table.Names() {
		wf, _ := table.Get(name)
		desc += "- " + wf.Name + ": " + wf.Description + " (required: "
		for i, p := range wf.RequiredParams {
			if i > 0 {
				desc += ", "
			}
			desc += p
		}
		desc += ")\n"
	}
	return desc
}

// paramsForParsedTask maps a ParsedTask onto the target workflow's expected
// parameter names (§4.9 step 1).
func paramsForParsedTask(workflowName string, parsed domain.ParsedTask) map[string]string {
	switch workflowName {
	case "send_message":
		return map[string]string{"contact": parsed.Recipient, "message": parsed.Content}
	case "post_moments":
		return map[string]string{"content": parsed.Content, "postAction": constants.ActionLongPress}
	case "search_contact":
		keyword := parsed.Recipient
		if keyword == "" {
			keyword = parsed.Content
		}
		return map[string]string{"keyword": keyword}
	case "add_friend_by_name":
		wechatID := parsed.Recipient
		if wechatID == "" {
			wechatID = parsed.Content
		}
		return map[string]string{"wechat_id": wechatID}
	default:
		params := map[string]string{}
		if parsed.Recipient != "" {
			params["contact"] = parsed.Recipient
			params["recipient"] = parsed.Recipient
		}
		if parsed.Content != "" {
			params["message"] = parsed.Content
			params["content"] = parsed.Content
		}
		return params
	}
}

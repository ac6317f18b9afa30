package wechat

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskpilot/droidtask/internal/ai"
	"github.com/taskpilot/droidtask/internal/classifier"
	"github.com/taskpilot/droidtask/internal/config"
	"github.com/taskpilot/droidtask/internal/domain"
	atlaserrors "github.com/taskpilot/droidtask/internal/errors"
	"github.com/taskpilot/droidtask/internal/workflow"
)

type fakeExecutor struct {
	lastWorkflow string
	lastParams   map[string]string
	result       domain.TaskResult
	err          error
}

func (f *fakeExecutor) ExecuteWorkflow(_ context.Context, workflowName string, params map[string]string) (domain.TaskResult, error) {
	f.lastWorkflow = workflowName
	f.lastParams = params
	return f.result, f.err
}

type fakeRunner struct {
	text string
	err  error
}

func (f *fakeRunner) Run(context.Context, *ai.Request) (*ai.Result, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &ai.Result{Text: f.text}, nil
}

func testTable(t *testing.T) *workflow.Table {
	t.Helper()
	dir := t.TempDir()
	path := dir + "/workflows.yaml"
	data := `
workflows:
  - name: send_message
    description: send a chat message
    validStartScreens: [home, chat]
    steps:
      - action: tap
        target: "{contact}"
    requiredParams: [contact, message]
  - name: post_moments
    description: post a text-only moment
    validStartScreens: [home]
    steps:
      - action: tap
        target: wechat_moments_entry
    requiredParams: [content]
  - name: search_contact
    description: search for a contact
    validStartScreens: [home]
    steps:
      - action: tap
        target: wechat_search_button
    requiredParams: [keyword]
  - name: add_friend_by_name
    description: add a new contact
    validStartScreens: [home]
    steps:
      - action: tap
        target: wechat_add_button
    requiredParams: [wechat_id]
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
	table, err := workflow.Load(path)
	require.NoError(t, err)
	return table
}

func TestHandler_ParsedTypeRoutesDirectlyToWorkflow(t *testing.T) {
	executor := &fakeExecutor{result: domain.TaskResult{Status: domain.TaskStatusSuccess}}
	cls := classifier.New(&config.ClassifierConfig{}, &fakeRunner{err: errors.New("should not be called")}, nil, zerolog.Nop())
	h := New("wechat", domain.ModuleInfo{Name: "WeChat"}, testTable(t), executor, cls, nil, zerolog.Nop())

	parsed := &domain.ParsedTask{Type: "send_msg", Recipient: "zhang", Content: "hello"}
	result, err := h.ExecuteTaskWithWorkflow(context.Background(), "ss:msg:zhang:hello", parsed)
	require.NoError(t, err)
	assert.Equal(t, domain.TaskStatusSuccess, result.Status)
	assert.Equal(t, "send_message", executor.lastWorkflow)
	assert.Equal(t, "zhang", executor.lastParams["contact"])
	assert.Equal(t, "hello", executor.lastParams["message"])
}

func TestHandler_MissingRequiredParamFailsFast(t *testing.T) {
	executor := &fakeExecutor{result: domain.TaskResult{Status: domain.TaskStatusSuccess}}
	cls := classifier.New(&config.ClassifierConfig{}, &fakeRunner{err: errors.New("should not be called")}, nil, zerolog.Nop())
	h := New("wechat", domain.ModuleInfo{Name: "WeChat"}, testTable(t), executor, cls, nil, zerolog.Nop())

	parsed := &domain.ParsedTask{Type: "send_msg", Recipient: "", Content: "hello"}
	result, err := h.ExecuteTaskWithWorkflow(context.Background(), "ss:msg::hello", parsed)
	require.NoError(t, err)
	assert.Equal(t, domain.TaskStatusFailed, result.Status)
	assert.Equal(t, "ParamsMissing", result.ErrorKind)
	assert.Contains(t, result.MissingParams, "contact")
	assert.Empty(t, executor.lastWorkflow, "executor must not run when required params are missing")
}

func TestHandler_NoParsedFallsBackToRegexPattern(t *testing.T) {
	executor := &fakeExecutor{result: domain.TaskResult{Status: domain.TaskStatusSuccess}}
	cls := classifier.New(&config.ClassifierConfig{Mode: "regex"}, &fakeRunner{err: errors.New("should not be called")}, nil, zerolog.Nop())
	h := New("wechat", domain.ModuleInfo{Name: "WeChat"}, testTable(t), executor, cls, nil, zerolog.Nop())

	result, err := h.ExecuteTaskWithWorkflow(context.Background(), "给张三发消息：你好", nil)
	require.NoError(t, err)
	assert.Equal(t, domain.TaskStatusSuccess, result.Status)
	assert.Equal(t, "send_message", executor.lastWorkflow)
	assert.Equal(t, "张三", executor.lastParams["contact"])
	assert.Equal(t, "你好", executor.lastParams["message"])
}

func TestHandler_ComplexTaskAsksPlanner(t *testing.T) {
	executor := &fakeExecutor{result: domain.TaskResult{Status: domain.TaskStatusSuccess}}
	cls := classifier.New(&config.ClassifierConfig{Mode: "regex"}, &fakeRunner{err: errors.New("should not be called")}, nil, zerolog.Nop())
	planner := &fakeRunner{text: `{"workflow_name":"search_contact","params":{"keyword":"zhang"}}`}
	h := New("wechat", domain.ModuleInfo{Name: "WeChat"}, testTable(t), executor, cls, planner, zerolog.Nop())

	result, err := h.ExecuteTaskWithWorkflow(context.Background(), "先搜索张三然后再添加好友", nil)
	require.NoError(t, err)
	assert.Equal(t, domain.TaskStatusSuccess, result.Status)
	assert.Equal(t, "search_contact", executor.lastWorkflow)
	assert.Equal(t, "zhang", executor.lastParams["keyword"])
}

func TestHandler_NoMatchReturnsInvalidInput(t *testing.T) {
	executor := &fakeExecutor{}
	cls := classifier.New(&config.ClassifierConfig{Mode: "regex"}, &fakeRunner{err: errors.New("should not be called")}, nil, zerolog.Nop())
	h := New("wechat", domain.ModuleInfo{Name: "WeChat"}, testTable(t), executor, cls, nil, zerolog.Nop())

	result, err := h.ExecuteTaskWithWorkflow(context.Background(), "random unrelated gibberish", nil)
	require.NoError(t, err)
	assert.Equal(t, domain.TaskStatusFailed, result.Status)
	assert.Equal(t, "InvalidInput", result.ErrorKind)
	assert.Equal(t, atlaserrors.ErrInvalidInput.Error(), result.Error)
	assert.Empty(t, executor.lastWorkflow)
}

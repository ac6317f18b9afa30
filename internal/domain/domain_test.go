package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeriveClass(t *testing.T) {
	tests := []struct {
		name     string
		taskType string
		expected TaskClass
	}{
		{name: "send_msg is simple", taskType: "send_msg", expected: ClassSimple},
		{name: "post_moment_only_text is simple", taskType: "post_moment_only_text", expected: ClassSimple},
		{name: "others is complex", taskType: "others", expected: ClassComplex},
		{name: "invalid is invalid", taskType: "invalid", expected: ClassInvalid},
		{name: "unrecognized type defaults to complex", taskType: "unknown_future_type", expected: ClassComplex},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DeriveClass(tt.taskType))
		})
	}
}

func TestParsedTask_IsActionable(t *testing.T) {
	assert.True(t, ParsedTask{Type: "send_msg"}.IsActionable())
	assert.False(t, ParsedTask{Type: "invalid"}.IsActionable())
	assert.False(t, ParsedTask{}.IsActionable())
}

func TestWorkflow_MissingParams(t *testing.T) {
	wf := Workflow{RequiredParams: []string{"contact", "message"}}

	assert.Equal(t, []string{"contact", "message"}, wf.MissingParams(nil))
	assert.Equal(t, []string{"message"}, wf.MissingParams(map[string]string{"contact": "alice"}))
	assert.Empty(t, wf.MissingParams(map[string]string{"contact": "alice", "message": "hi"}))
}

func TestTaskResult_Elapsed(t *testing.T) {
	var r TaskResult
	assert.Zero(t, r.Elapsed())
}

func TestTaskResult_Succeeded(t *testing.T) {
	assert.True(t, TaskResult{Status: TaskStatusSuccess}.Succeeded())
	assert.False(t, TaskResult{Status: TaskStatusFailed}.Succeeded())
}

package tui

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	droiderrors "github.com/taskpilot/droidtask/internal/errors"
)

func TestOutputInterface_TTYOutput(t *testing.T) {
	var buf bytes.Buffer
	var out Output = NewTTYOutput(&buf)
	assert.NotNil(t, out)
}

func TestOutputInterface_JSONOutput(t *testing.T) {
	var buf bytes.Buffer
	var out Output = NewJSONOutput(&buf)
	assert.NotNil(t, out)
}

func TestTTYOutput_Success(t *testing.T) {
	var buf bytes.Buffer
	out := NewTTYOutput(&buf)
	out.Success("test message")
	output := buf.String()
	assert.Contains(t, output, "✓")
	assert.Contains(t, output, "test message")
}

func TestTTYOutput_Error(t *testing.T) {
	var buf bytes.Buffer
	out := NewTTYOutput(&buf)
	out.Error(droiderrors.ErrWorkflowNotFound)
	output := buf.String()
	assert.Contains(t, output, "✗")
	assert.Contains(t, output, "not found")
}

func TestTTYOutput_Warning(t *testing.T) {
	var buf bytes.Buffer
	out := NewTTYOutput(&buf)
	out.Warning("test warning")
	output := buf.String()
	assert.Contains(t, output, "⚠")
	assert.Contains(t, output, "test warning")
}

func TestTTYOutput_Info(t *testing.T) {
	var buf bytes.Buffer
	out := NewTTYOutput(&buf)
	out.Info("test info")
	output := buf.String()
	assert.Contains(t, output, "test info")
}

func TestTTYOutput_JSON(t *testing.T) {
	var buf bytes.Buffer
	out := NewTTYOutput(&buf)
	err := out.JSON(map[string]string{"key": "value"})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "key")
	assert.Contains(t, buf.String(), "value")
}

func TestJSONOutput_Success(t *testing.T) {
	var buf bytes.Buffer
	out := NewJSONOutput(&buf)
	out.Success("test message")
	assert.Empty(t, buf.String())
}

func TestJSONOutput_Error(t *testing.T) {
	var buf bytes.Buffer
	out := NewJSONOutput(&buf)
	out.Error(droiderrors.ErrWorkflowNotFound)
	output := buf.String()
	assert.Contains(t, output, `"error"`)
	assert.Contains(t, output, "not found")
}

func TestJSONOutput_WrappedError(t *testing.T) {
	var buf bytes.Buffer
	out := NewJSONOutput(&buf)
	out.Error(fmt.Errorf("operation failed: %w", droiderrors.ErrWorkflowNotFound))
	assert.Contains(t, buf.String(), "operation failed")
}

func TestJSONOutput_Warning(t *testing.T) {
	var buf bytes.Buffer
	out := NewJSONOutput(&buf)
	out.Warning("test warning")
	assert.Empty(t, buf.String())
}

func TestJSONOutput_Info(t *testing.T) {
	var buf bytes.Buffer
	out := NewJSONOutput(&buf)
	out.Info("test info")
	assert.Empty(t, buf.String())
}

func TestJSONOutput_JSON(t *testing.T) {
	var buf bytes.Buffer
	out := NewJSONOutput(&buf)

	data := map[string]interface{}{
		"name":  "test",
		"count": 42,
	}
	err := out.JSON(data)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "test")
}

func TestNewOutput_FormatSelection(t *testing.T) {
	t.Run("json format returns JSONOutput", func(t *testing.T) {
		var buf bytes.Buffer
		out := NewOutput(&buf, "json")
		_, ok := out.(*JSONOutput)
		assert.True(t, ok)
	})

	t.Run("text format returns TTYOutput", func(t *testing.T) {
		var buf bytes.Buffer
		out := NewOutput(&buf, "text")
		_, ok := out.(*TTYOutput)
		assert.True(t, ok)
	})

	t.Run("unrecognized format defaults to TTYOutput", func(t *testing.T) {
		var buf bytes.Buffer
		out := NewOutput(&buf, "")
		_, ok := out.(*TTYOutput)
		assert.True(t, ok)
	})
}

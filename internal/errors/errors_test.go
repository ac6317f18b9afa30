package errors

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExitCodeFor(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{name: "nil error is success", err: nil, expected: 0},
		{name: "step failed is task failure", err: ErrStepFailed, expected: 1},
		{name: "invalid input is task failure", err: ErrInvalidInput, expected: 1},
		{name: "device unavailable is config/device class", err: ErrDeviceUnavailable, expected: 2},
		{name: "config invalid is config/device class", err: ErrConfigInvalid, expected: 2},
		{name: "explicit exit code 2 wrapper wins", err: NewExitCode2Error(ErrStepFailed), expected: 2},
		{name: "wrapped device unavailable still maps to 2", err: Wrap(ErrDeviceUnavailable, "connect"), expected: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ExitCodeFor(tt.err))
		})
	}
}

func TestIsExitCode2Error(t *testing.T) {
	assert.True(t, IsExitCode2Error(NewExitCode2Error(ErrDeviceUnavailable)))
	assert.False(t, IsExitCode2Error(ErrDeviceUnavailable))
	assert.False(t, IsExitCode2Error(nil))
}

func TestExitCode2Error_Unwrap(t *testing.T) {
	wrapped := NewExitCode2Error(ErrDeviceUnavailable)
	require.ErrorIs(t, wrapped, ErrDeviceUnavailable)
	assert.Equal(t, ErrDeviceUnavailable.Error(), wrapped.Error())
}

func TestWrap(t *testing.T) {
	assert.Nil(t, Wrap(nil, "context"))

	wrapped := Wrap(ErrStepFailed, "tap contact avatar")
	require.Error(t, wrapped)
	assert.ErrorIs(t, wrapped, ErrStepFailed)
	assert.Contains(t, wrapped.Error(), "tap contact avatar")
}

func TestWrapf(t *testing.T) {
	assert.Nil(t, Wrapf(nil, "step %d", 3))

	wrapped := Wrapf(ErrLocateFailed, "step %d of %d", 2, 5)
	require.Error(t, wrapped)
	assert.ErrorIs(t, wrapped, ErrLocateFailed)
	assert.Contains(t, wrapped.Error(), "step 2 of 5")
}

func TestUserMessageAndActionable(t *testing.T) {
	assert.Empty(t, UserMessage(nil))

	msg, action := Actionable(ErrInvalidInput)
	assert.NotEmpty(t, msg)
	assert.NotEmpty(t, action)

	msg, action = Actionable(ErrMenuCanceled)
	assert.NotEmpty(t, msg)
	assert.Empty(t, action)

	unknown := stderrors.New("something unrecognized happened")
	assert.Equal(t, unknown.Error(), UserMessage(unknown))
}

func TestUserMessage_WrappedErrorStillResolves(t *testing.T) {
	wrapped := Wrap(ErrDeviceUnavailable, "bind device")
	assert.NotEqual(t, wrapped.Error(), UserMessage(wrapped))
	assert.NotEmpty(t, UserMessage(wrapped))
}

func TestExitCodeFor_ContextCanceledIsTaskFailure(t *testing.T) {
	assert.Equal(t, 1, ExitCodeFor(context.Canceled))
}

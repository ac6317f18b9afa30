package ai

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskpilot/droidtask/internal/config"
)

var errTestTransient = errors.New("connection reset by peer")

func TestBaseRunner_ResolveTimeout(t *testing.T) {
	t.Run("request timeout takes precedence", func(t *testing.T) {
		b := NewBaseRunner(&config.LLMConfig{Timeout: 5 * time.Second}, nil, zerolog.Nop())
		req := &Request{Timeout: 10 * time.Second}
		assert.Equal(t, 10*time.Second, b.ResolveTimeout(req))
	})

	t.Run("config timeout used when request has none", func(t *testing.T) {
		b := NewBaseRunner(&config.LLMConfig{Timeout: 5 * time.Second}, nil, zerolog.Nop())
		assert.Equal(t, 5*time.Second, b.ResolveTimeout(&Request{}))
	})

	t.Run("falls back to package default", func(t *testing.T) {
		b := NewBaseRunner(&config.LLMConfig{}, nil, zerolog.Nop())
		assert.Equal(t, 60*time.Second, b.ResolveTimeout(&Request{}))
	})
}

func TestBaseRunner_RunWithRetry_SucceedsAfterTransientFailure(t *testing.T) {
	b := NewBaseRunner(&config.LLMConfig{}, nil, zerolog.Nop())
	b.backoff = time.Millisecond

	calls := 0
	execute := func(_ context.Context, _ *Request) (*Result, error) {
		calls++
		if calls < 2 {
			return nil, errTestTransient
		}
		return &Result{Text: "ok"}, nil
	}

	result, err := b.RunWithRetry(context.Background(), &Request{}, execute)
	require.NoError(t, err)
	assert.Equal(t, "ok", result.Text)
	assert.Equal(t, 2, calls)
}

func TestBaseRunner_RunWithRetry_NonRetryableFailsImmediately(t *testing.T) {
	b := NewBaseRunner(&config.LLMConfig{}, nil, zerolog.Nop())
	b.backoff = time.Millisecond

	calls := 0
	execute := func(_ context.Context, _ *Request) (*Result, error) {
		calls++
		return nil, errors.New("invalid api key: authentication failed")
	}

	_, err := b.RunWithRetry(context.Background(), &Request{}, execute)
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestBaseRunner_RunWithRetry_ExhaustsAttempts(t *testing.T) {
	b := NewBaseRunner(&config.LLMConfig{}, nil, zerolog.Nop())
	b.backoff = time.Millisecond
	b.maxAttempts = 2

	calls := 0
	execute := func(_ context.Context, _ *Request) (*Result, error) {
		calls++
		return nil, errTestTransient
	}

	_, err := b.RunWithRetry(context.Background(), &Request{}, execute)
	require.Error(t, err)
	assert.Equal(t, 2, calls)
}

func TestBaseRunner_RunWithRetry_ContextCanceledUpfront(t *testing.T) {
	b := NewBaseRunner(&config.LLMConfig{}, nil, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := b.RunWithRetry(ctx, &Request{}, func(_ context.Context, _ *Request) (*Result, error) {
		t.Fatal("execute should not be called with an already-canceled context")
		return nil, nil
	})
	assert.ErrorIs(t, err, context.Canceled)
}

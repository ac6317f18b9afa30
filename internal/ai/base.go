package ai

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/taskpilot/droidtask/internal/config"
	atlaserrors "github.com/taskpilot/droidtask/internal/errors"
)

// executeFunc is the provider-specific call: build the HTTP request body,
// issue it, and decode the response into a Result.
type executeFunc func(ctx context.Context, req *Request) (*Result, error)

// BaseRunner provides shared timeout and retry handling around a
// provider-specific executeFunc. Embed this in provider runners (OpenAI,
// Anthropic, Gemini-compatible HTTP endpoints) to avoid re-implementing
// backoff.
type BaseRunner struct {
	Config  *config.LLMConfig
	Logger  zerolog.Logger
	ErrType error // provider-specific sentinel used to wrap exhausted retries

	maxAttempts int
	backoff     time.Duration
}

// NewBaseRunner constructs a BaseRunner with the given provider config and
// error sentinel, defaulting to 3 attempts with a 1s initial backoff.
func NewBaseRunner(cfg *config.LLMConfig, errType error, logger zerolog.Logger) *BaseRunner {
	return &BaseRunner{
		Config:      cfg,
		ErrType:     errType,
		Logger:      logger,
		maxAttempts: 3,
		backoff:     1 * time.Second,
	}
}

// ResolveTimeout picks the request timeout: request override > config
// default > package default.
func (b *BaseRunner) ResolveTimeout(req *Request) time.Duration {
	if req.Timeout > 0 {
		return req.Timeout
	}
	if b.Config != nil && b.Config.Timeout > 0 {
		return b.Config.Timeout
	}
	return 60 * time.Second
}

// RunWithRetry runs execute under a timeout derived from ResolveTimeout,
// retrying transient failures with exponential backoff.
func (b *BaseRunner) RunWithRetry(ctx context.Context, req *Request, execute executeFunc) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	runCtx, cancel := context.WithTimeout(ctx, b.ResolveTimeout(req))
	defer cancel()

	var lastErr error
	backoff := b.backoff
	attempts := b.maxAttempts
	if attempts < 1 {
		attempts = 1
	}

	for attempt := 1; attempt <= attempts; attempt++ {
		result, err := execute(runCtx, req)
		if err == nil {
			return result, nil
		}

		if !isRetryable(err) {
			return nil, err
		}

		lastErr = err
		if attempt < attempts {
			b.Logger.Warn().
				Err(err).
				Int("attempt", attempt).
				Int("max_attempts", attempts).
				Dur("backoff", backoff).
				Msg("model call failed, retrying after backoff")

			select {
			case <-runCtx.Done():
				return nil, runCtx.Err()
			case <-timeSleep(backoff):
				backoff *= 2
			}
		}
	}

	errType := b.ErrType
	if errType == nil {
		errType = atlaserrors.ErrPlannerFailed
	}
	return nil, fmt.Errorf("%w: max retries exceeded: %w", errType, lastErr)
}

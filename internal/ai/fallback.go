package ai

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	atlaserrors "github.com/taskpilot/droidtask/internal/errors"
)

// FallbackRunner tries a primary provider and, when that call fails with
// any error other than context cancellation or deadline expiry, moves to a
// configured secondary provider.
type FallbackRunner struct {
	registry  *RunnerRegistry
	primary   string
	secondary string
	logger    zerolog.Logger
}

// NewFallbackRunner builds a FallbackRunner over registry, trying primary
// first and falling back to secondary when primary fails. secondary may be
// empty, in which case no fallback is attempted.
func NewFallbackRunner(registry *RunnerRegistry, primary, secondary string, logger zerolog.Logger) *FallbackRunner {
	return &FallbackRunner{registry: registry, primary: primary, secondary: secondary, logger: logger}
}

// Run tries the primary provider, then the secondary provider (if
// configured) when the primary call fails.
func (r *FallbackRunner) Run(ctx context.Context, req *Request) (*Result, error) {
	primaryRunner, err := r.registry.Get(r.primary)
	if err != nil {
		return nil, err
	}

	result, err := primaryRunner.Run(ctx, req)
	if err == nil {
		return result, nil
	}

	if r.secondary == "" || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil, err
	}

	secondaryRunner, regErr := r.registry.Get(r.secondary)
	if regErr != nil {
		return nil, fmt.Errorf("%w: primary failed (%v) and no secondary available", atlaserrors.ErrPlannerFailed, err)
	}

	r.logger.Warn().
		Err(err).
		Str("primary", r.primary).
		Str("secondary", r.secondary).
		Msg("primary model call failed, falling back to secondary provider")

	return secondaryRunner.Run(ctx, req)
}

// Compile-time check that FallbackRunner implements Runner.
var _ Runner = (*FallbackRunner)(nil)

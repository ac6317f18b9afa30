// Package ai provides a provider-agnostic remote model abstraction: a
// Runner interface, a timeout+retry BaseRunner, a RunnerRegistry keyed by
// provider name, and a FallbackRunner that moves to a secondary provider
// when the primary call fails. Used by the Task Classifier's model path,
// the Hybrid Locator's small/remote-model stages, and the Workflow
// Executor's replanner.
//
// IMPORTANT: This package may import internal/constants, internal/errors,
// and internal/config. It MUST NOT import internal/executor, internal/workflow,
// or internal/cli.
package ai

import "time"

// Request is a single remote-model call: a system prompt, a user prompt,
// and optionally one or more images (for the locator's vision stages).
type Request struct {
	// Provider selects which configured backend to use. Empty means "use
	// whatever the Runner was constructed for" — callers that need
	// provider routing go through a RunnerRegistry instead.
	Provider string

	SystemPrompt string
	UserPrompt   string

	// Images carries raw image bytes for vision-capable calls (reference
	// image + screenshot for the remote locator stage).
	Images [][]byte

	// MaxTokens and Temperature override the provider's configured
	// defaults when non-zero.
	MaxTokens   int
	Temperature float64

	// Timeout overrides the provider's configured default when non-zero.
	Timeout time.Duration
}

// Result is a remote-model call's outcome.
type Result struct {
	// Text is the raw response body (expected to be JSON per the caller's
	// prompt contract; parsing is the caller's responsibility).
	Text string

	// DurationMs is how long the call took.
	DurationMs int64
}

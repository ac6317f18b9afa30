package ai

import (
	"context"
	"errors"
	"strings"
	"time"
)

//nolint:gochecknoglobals // overridable in tests
var timeSleep = func(d time.Duration) <-chan time.Time {
	return time.After(d)
}

// isRetryable reports whether err represents a transient failure worth
// retrying (network errors, timeouts, rate limits) as opposed to a
// permanent one (bad auth, malformed request, unparseable response).
func isRetryable(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	errStr := strings.ToLower(err.Error())

	if strings.Contains(errStr, "unauthorized") ||
		strings.Contains(errStr, "authentication") ||
		strings.Contains(errStr, "api key") ||
		strings.Contains(errStr, "forbidden") {
		return false
	}

	if strings.Contains(errStr, "invalid json") ||
		strings.Contains(errStr, "failed to parse") ||
		strings.Contains(errStr, "unexpected end of json") {
		return false
	}

	// Network errors, rate limits (429/503), and timeouts are transient.
	return true
}

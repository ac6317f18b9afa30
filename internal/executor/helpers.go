package executor

import (
	"context"
	"time"
)

// sleep pauses for d or until ctx is done, whichever comes first, matching
// the operation-delay pattern used between device input operations (§6
// OPERATION_DELAY) and the per-action post-waits of §4.7.
func sleep(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}

package executor

import (
	"context"

	"github.com/taskpilot/droidtask/internal/constants"
	"github.com/taskpilot/droidtask/internal/domain"
)

// detectScreen captures a fresh screenshot and walks the handler's screen
// detector in priority order, trying each screen's primary indicator then
// any fallback indicators with the opencv_first strategy. First success
// wins; all misses return ScreenUnknown, per §4.7 "Screen detection."
func (e *Executor) detectScreen(ctx context.Context) (domain.ScreenState, error) {
	shot, err := e.device.Screenshot(ctx)
	if err != nil {
		return constants.ScreenUnknown, err
	}

	detector := e.table.Detector()
	for _, screen := range detector.Order {
		for _, indicator := range detector.Indicators[screen] {
			variants, err := e.assets.Resolve(indicator.ReferenceName)
			if err != nil || len(variants) == 0 {
				continue
			}

			result, err := e.locator.Locate(ctx, domain.LocateRequest{
				Screenshot:     shot.Data,
				Target:         indicator.ReferenceName,
				CandidatePaths: variants,
				Strategy:       constants.LocatorStrategyOpenCVFirst,
			})
			if err == nil && result.Success {
				return screen, nil
			}
		}
	}

	return constants.ScreenUnknown, nil
}

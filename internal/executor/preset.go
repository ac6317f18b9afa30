package executor

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/taskpilot/droidtask/internal/constants"
	"github.com/taskpilot/droidtask/internal/domain"
	atlaserrors "github.com/taskpilot/droidtask/internal/errors"
)

// homeIndicatorName, cancelIndicatorName and backIndicatorName are the
// fixed reference names ensure-home probes every iteration, per §4.7.
const (
	homeIndicatorName   = "system/home_indicator"
	cancelIndicatorName = "system/cancel_button"
	backIndicatorName   = "system/back_button"
)

// preset is the mandatory entry procedure (§4.7): launch the app if it
// isn't foreground, then ensure at home.
func (e *Executor) preset(ctx context.Context) error {
	fg, err := e.device.ForegroundApp(ctx)
	if err != nil || fg != e.packageID {
		if startErr := e.device.StartApp(ctx, e.packageID); startErr != nil {
			return fmt.Errorf("%w: launch %s: %w", atlaserrors.ErrDeviceUnavailable, e.packageID, startErr)
		}
	}

	return e.ensureHome(ctx)
}

// reset is the mandatory exit procedure (§4.7): the same ensure-home loop,
// invoked on every return path regardless of body outcome. Errors are
// logged by the caller, never propagated into the task's status.
func (e *Executor) reset(ctx context.Context) error {
	return e.ensureHome(ctx)
}

// ensureHome loops up to HomeMaxAttempts: capture a screenshot, locate the
// home/cancel/back candidates in parallel, and act on whichever is found
// first in that priority order, falling back to the device back key.
func (e *Executor) ensureHome(ctx context.Context) error {
	attempts := e.cfg.HomeMaxAttempts
	if attempts < 1 {
		attempts = constants.DefaultHomeMaxAttempts
	}

	for attempt := 1; attempt <= attempts; attempt++ {
		screen, err := e.detectScreen(ctx)
		if err == nil && screen == constants.ScreenHome {
			return nil
		}

		shot, err := e.device.Screenshot(ctx)
		if err != nil {
			return fmt.Errorf("%w: screenshot during ensure-home: %w", atlaserrors.ErrDeviceUnavailable, err)
		}

		results, err := e.locateHomeCandidates(ctx, shot.Data)
		if err != nil {
			return err
		}

		switch {
		case results[homeIndicatorName].Success:
			loc := results[homeIndicatorName]
			if tapErr := e.device.Tap(ctx, loc.X, loc.Y+shot.CropOffset.Top); tapErr != nil {
				return fmt.Errorf("%w: %w", atlaserrors.ErrDeviceUnavailable, tapErr)
			}
			return nil
		case results[cancelIndicatorName].Success:
			loc := results[cancelIndicatorName]
			_ = e.device.Tap(ctx, loc.X, loc.Y+shot.CropOffset.Top)
		case results[backIndicatorName].Success:
			loc := results[backIndicatorName]
			_ = e.device.Tap(ctx, loc.X, loc.Y+shot.CropOffset.Top)
		default:
			_ = e.device.PressBack(ctx)
		}

		sleep(ctx, constants.DefaultOperationDelay)
	}

	return atlaserrors.ErrUnableToReachHome
}

func (e *Executor) locateHomeCandidates(ctx context.Context, screenshot []byte) (map[string]domain.LocateResult, error) {
	names := []string{homeIndicatorName, cancelIndicatorName, backIndicatorName}
	reqs := make(map[string]domain.LocateRequest, len(names))

	var g errgroup.Group
	resolved := make(map[string]domain.ImageVariants, len(names))
	var mu sync.Mutex
	for _, name := range names {
		g.Go(func() error {
			variants, err := e.assets.Resolve(name)
			if err != nil {
				return nil // missing indicator is not an error, just unusable
			}
			mu.Lock()
			resolved[name] = variants
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, name := range names {
		if len(resolved[name]) == 0 {
			continue
		}
		reqs[name] = domain.LocateRequest{
			Screenshot:     screenshot,
			Target:         name,
			CandidatePaths: resolved[name],
			Strategy:       constants.LocatorStrategyOpenCVFirst,
		}
	}

	return e.locator.LocateMany(ctx, reqs)
}

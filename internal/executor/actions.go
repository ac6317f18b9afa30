package executor

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/taskpilot/droidtask/internal/constants"
	"github.com/taskpilot/droidtask/internal/domain"
	atlaserrors "github.com/taskpilot/droidtask/internal/errors"
)

// runAction executes one step's action semantics (§4.7 "Action semantics")
// and returns the LocateResult it located against, when applicable, for the
// step trace.
func (e *Executor) runAction(ctx context.Context, step domain.WorkflowStep) (*domain.LocateResult, error) {
	switch step.Action {
	case constants.ActionTap:
		return e.runTapLike(ctx, step, false)
	case constants.ActionLongPress:
		return e.runTapLike(ctx, step, true)
	case constants.ActionSwipe:
		return nil, e.runSwipe(ctx, step)
	case constants.ActionInputText:
		return e.runInputText(ctx, step, step.Params["text"])
	case constants.ActionInputURL:
		return e.runInputText(ctx, step, normalizeURL(step.Params["text"]))
	case constants.ActionPressKey, constants.ActionKeyevent:
		return nil, e.runPressKey(ctx, step)
	case constants.ActionWait:
		sleep(ctx, durationMs(step.Params["duration"]))
		return nil, nil
	case constants.ActionCheck:
		return nil, e.runCheck(ctx, step)
	case constants.ActionFindOrSearch:
		return e.runFindOrSearch(ctx, step)
	case constants.ActionScreenshot:
		return nil, e.runScreenshotAction(ctx, step)
	case constants.ActionNavToHome:
		return nil, e.ensureHome(ctx)
	default:
		return nil, fmt.Errorf("%w: unrecognized action %q", atlaserrors.ErrStepFailed, step.Action)
	}
}

func (e *Executor) runTapLike(ctx context.Context, step domain.WorkflowStep, long bool) (*domain.LocateResult, error) {
	loc, crop, err := e.locateTarget(ctx, step.Target)
	if err != nil {
		return nil, err
	}
	if !loc.Success {
		return &loc, fmt.Errorf("%w: target %q", atlaserrors.ErrLocateFailed, step.Target)
	}

	x, y := loc.X, loc.Y+crop.Top
	if long {
		duration := 800
		if v, ok := step.Params["duration"]; ok {
			if parsed, perr := strconv.Atoi(v); perr == nil {
				duration = parsed
			}
		}
		err = e.device.LongPress(ctx, x, y, duration)
	} else {
		err = e.device.Tap(ctx, x, y)
	}
	if err != nil {
		return &loc, fmt.Errorf("%w: %w", atlaserrors.ErrDeviceCommandFailed, err)
	}
	sleep(ctx, constants.DefaultTapPostWait)
	return &loc, nil
}

func (e *Executor) runSwipe(ctx context.Context, step domain.WorkflowStep) error {
	size, err := e.device.ScreenSize(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", atlaserrors.ErrDeviceUnavailable, err)
	}

	x1, y1, x2, y2 := swipeCoordinates(step.Params["direction"], size)
	duration := 300
	if v, ok := step.Params["duration"]; ok {
		if parsed, perr := strconv.Atoi(v); perr == nil {
			duration = parsed
		}
	}
	if err := e.device.Swipe(ctx, x1, y1, x2, y2, duration); err != nil {
		return fmt.Errorf("%w: %w", atlaserrors.ErrDeviceCommandFailed, err)
	}
	return nil
}

// swipeCoordinates maps a named direction to safe fractions of the screen
// (§4.7 swipe semantics), swiping within the middle 20%-80% band.
func swipeCoordinates(direction string, size domain.ScreenSize) (x1, y1, x2, y2 int) {
	midX, midY := size.Width/2, size.Height/2
	top, bottom := size.Height/5, size.Height*4/5
	left, right := size.Width/5, size.Width*4/5

	switch direction {
	case "up":
		return midX, bottom, midX, top
	case "down":
		return midX, top, midX, bottom
	case "left":
		return right, midY, left, midY
	case "right":
		return left, midY, right, midY
	default:
		return midX, bottom, midX, top
	}
}

func (e *Executor) runInputText(ctx context.Context, step domain.WorkflowStep, text string) (*domain.LocateResult, error) {
	loc, crop, err := e.locateTarget(ctx, step.Target)
	if err != nil {
		return nil, err
	}
	if !loc.Success {
		return &loc, fmt.Errorf("%w: target %q", atlaserrors.ErrLocateFailed, step.Target)
	}

	if err := e.device.Tap(ctx, loc.X, loc.Y+crop.Top); err != nil {
		return &loc, fmt.Errorf("%w: focus field: %w", atlaserrors.ErrDeviceCommandFailed, err)
	}
	sleep(ctx, constants.DefaultTapPostWait)

	if err := e.device.InputText(ctx, text); err != nil {
		return &loc, fmt.Errorf("%w: %w", atlaserrors.ErrDeviceCommandFailed, err)
	}
	return &loc, nil
}

func (e *Executor) runPressKey(ctx context.Context, step domain.WorkflowStep) error {
	code, err := strconv.Atoi(step.Params["keycode"])
	if err != nil {
		return fmt.Errorf("%w: invalid keycode %q", atlaserrors.ErrStepFailed, step.Params["keycode"])
	}
	if err := e.device.PressKey(ctx, code); err != nil {
		return fmt.Errorf("%w: %w", atlaserrors.ErrDeviceCommandFailed, err)
	}
	return nil
}

func (e *Executor) runCheck(ctx context.Context, step domain.WorkflowStep) error {
	screen, err := e.detectScreen(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", atlaserrors.ErrDeviceUnavailable, err)
	}
	if step.ExpectScreen != "" && screen != domain.ScreenState(step.ExpectScreen) {
		return fmt.Errorf("%w: expected screen %q, got %q", atlaserrors.ErrStepFailed, step.ExpectScreen, screen)
	}
	return nil
}

// runFindOrSearch tries to locate target directly; on a miss, it enters the
// app's search surface (if declared as a "search" workflow step target) and
// types target as a query, per §4.7's find_or_search semantics. Concrete
// search-surface navigation is handler-specific and supplied via
// step.Params["search_target"]/["result_target"].
func (e *Executor) runFindOrSearch(ctx context.Context, step domain.WorkflowStep) (*domain.LocateResult, error) {
	loc, crop, err := e.locateTarget(ctx, step.Target)
	if err == nil && loc.Success {
		if tapErr := e.device.Tap(ctx, loc.X, loc.Y+crop.Top); tapErr != nil {
			return &loc, fmt.Errorf("%w: %w", atlaserrors.ErrDeviceCommandFailed, tapErr)
		}
		return &loc, nil
	}

	searchTarget := step.Params["search_target"]
	resultTarget := step.Params["result_target"]
	if searchTarget == "" || resultTarget == "" {
		return nil, fmt.Errorf("%w: find_or_search miss with no search surface declared for %q", atlaserrors.ErrLocateFailed, step.Target)
	}

	searchLoc, searchCrop, err := e.locateTarget(ctx, searchTarget)
	if err != nil || !searchLoc.Success {
		return &searchLoc, fmt.Errorf("%w: search surface %q", atlaserrors.ErrLocateFailed, searchTarget)
	}
	if err := e.device.Tap(ctx, searchLoc.X, searchLoc.Y+searchCrop.Top); err != nil {
		return &searchLoc, fmt.Errorf("%w: %w", atlaserrors.ErrDeviceCommandFailed, err)
	}
	sleep(ctx, constants.DefaultTapPostWait)

	if err := e.device.InputText(ctx, step.Target); err != nil {
		return nil, fmt.Errorf("%w: %w", atlaserrors.ErrDeviceCommandFailed, err)
	}
	sleep(ctx, e.screenWait)

	resultLoc, resultCrop, err := e.locateTarget(ctx, resultTarget)
	if err != nil || !resultLoc.Success {
		return &resultLoc, fmt.Errorf("%w: search result %q", atlaserrors.ErrLocateFailed, resultTarget)
	}
	if err := e.device.Tap(ctx, resultLoc.X, resultLoc.Y+resultCrop.Top); err != nil {
		return &resultLoc, fmt.Errorf("%w: %w", atlaserrors.ErrDeviceCommandFailed, err)
	}
	return &resultLoc, nil
}

func (e *Executor) runScreenshotAction(ctx context.Context, step domain.WorkflowStep) error {
	path := step.Params["path"]
	if path == "" {
		return fmt.Errorf("%w: screenshot requires \"path\"", atlaserrors.ErrParamsMissing)
	}

	shot, err := e.device.Screenshot(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", atlaserrors.ErrDeviceUnavailable, err)
	}

	if err := os.WriteFile(path, shot.Data, 0o600); err != nil {
		return fmt.Errorf("%w: save screenshot to %q: %w", atlaserrors.ErrStepFailed, path, err)
	}
	return nil
}

// locateTarget captures a fresh screenshot, resolves target's candidate
// image variants (skipped for "dynamic:" targets), and runs the locator.
func (e *Executor) locateTarget(ctx context.Context, target string) (domain.LocateResult, domain.CropOffset, error) {
	shot, err := e.device.Screenshot(ctx)
	if err != nil {
		return domain.LocateResult{}, domain.CropOffset{}, fmt.Errorf("%w: %w", atlaserrors.ErrDeviceUnavailable, err)
	}

	var candidates domain.ImageVariants
	if !isDynamicTarget(target) {
		candidates, err = e.assets.Resolve(target)
		if err != nil {
			return domain.LocateResult{}, shot.CropOffset, fmt.Errorf("%w: %w", atlaserrors.ErrAssetNotFound, err)
		}
	}

	result, err := e.locator.Locate(ctx, domain.LocateRequest{
		Screenshot:     shot.Data,
		Target:         target,
		CandidatePaths: candidates,
	})
	return result, shot.CropOffset, err
}

func normalizeURL(raw string) string {
	if raw == "" {
		return raw
	}
	if _, err := url.ParseRequestURI(raw); err == nil && strings.Contains(raw, "://") {
		return raw
	}
	return "https://" + raw
}

func durationMs(raw string) time.Duration {
	ms, err := strconv.Atoi(raw)
	if err != nil || ms < 0 {
		return 0
	}
	return time.Duration(ms) * time.Millisecond
}

// Package contracts defines narrow interfaces shared across component
// packages to avoid import cycles between device/locator/assets/executor.
package contracts

import (
	"context"

	"github.com/taskpilot/droidtask/internal/domain"
)

// Device is the synchronous command set exposed by the Device Surface (C1).
// Implemented by both the real shell-bridge device and the mock variant;
// callers must treat the two identically.
type Device interface {
	Connect(ctx context.Context) error
	Disconnect(ctx context.Context) error

	ScreenSize(ctx context.Context) (domain.ScreenSize, error)
	ScreenInsets(ctx context.Context) (domain.ScreenInsets, error)
	Screenshot(ctx context.Context) (domain.Screenshot, error)

	Tap(ctx context.Context, x, y int) error
	LongPress(ctx context.Context, x, y int, durationMs int) error
	Swipe(ctx context.Context, x1, y1, x2, y2 int, durationMs int) error

	InputText(ctx context.Context, text string) error
	PressKey(ctx context.Context, keycode int) error
	GoHome(ctx context.Context) error
	PressBack(ctx context.Context) error

	StartApp(ctx context.Context, packageID string) error
	StopApp(ctx context.Context, packageID string) error
	ForegroundApp(ctx context.Context) (string, error)
}

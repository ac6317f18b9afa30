package device

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/taskpilot/droidtask/internal/config"
	"github.com/taskpilot/droidtask/internal/contracts"
	"github.com/taskpilot/droidtask/internal/domain"
)

// perCharSleep approximates the settle cost of typing, scaled by payload
// size, so a mock run's pacing is representative without talking to a bridge.
const perCharSleep = 2 * time.Millisecond

// MockDevice satisfies contracts.Device without a physical device attached:
// connection, input and app operations are logged, input operations sleep a
// short settle time (proportional to the duration or text length where the
// operation has one), and Screenshot produces a synthetic placeholder image at the configured
// resolution. The core treats it identically to ADBDevice.
type MockDevice struct {
	mu sync.Mutex

	name           string
	size           domain.ScreenSize
	logger         zerolog.Logger
	foregroundApp  string
	runningApps    map[string]bool
}

// NewMockDevice constructs a MockDevice from the DEBUG_* configuration.
func NewMockDevice(cfg *config.DebugConfig, logger zerolog.Logger) *MockDevice {
	return &MockDevice{
		name: cfg.DeviceName,
		size: domain.ScreenSize{
			Width:  cfg.ScreenWidth,
			Height: cfg.ScreenHeight,
		},
		logger:        logger,
		foregroundApp: "",
		runningApps:   make(map[string]bool),
	}
}

// Compile-time check that MockDevice implements contracts.Device.
var _ contracts.Device = (*MockDevice)(nil)

func (m *MockDevice) log(op string, fields map[string]any) {
	event := m.logger.Debug().Str("component", "mock-device").Str("op", op)
	for k, v := range fields {
		event = event.Interface(k, v)
	}
	event.Msg("mock device operation")
}

// Connect is a no-op that always succeeds.
func (m *MockDevice) Connect(_ context.Context) error {
	m.log("connect", map[string]any{"name": m.name})
	return nil
}

// Disconnect is a no-op that always succeeds.
func (m *MockDevice) Disconnect(_ context.Context) error {
	m.log("disconnect", map[string]any{"name": m.name})
	return nil
}

// ScreenSize returns the configured mock resolution.
func (m *MockDevice) ScreenSize(_ context.Context) (domain.ScreenSize, error) {
	return m.size, nil
}

// ScreenInsets returns a fixed, representative inset pair.
func (m *MockDevice) ScreenInsets(_ context.Context) (domain.ScreenInsets, error) {
	return domain.ScreenInsets{StatusBar: 80, NavigationBar: 100}, nil
}

// Screenshot produces a solid-color placeholder PNG of the configured
// resolution; its pixel content carries no locate-relevant information.
func (m *MockDevice) Screenshot(_ context.Context) (domain.Screenshot, error) {
	time.Sleep(20 * time.Millisecond)

	img := image.NewRGBA(image.Rect(0, 0, m.size.Width, m.size.Height))
	placeholder := color.RGBA{R: 32, G: 32, B: 32, A: 255}
	for y := 0; y < m.size.Height; y++ {
		for x := 0; x < m.size.Width; x++ {
			img.Set(x, y, placeholder)
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return domain.Screenshot{}, err
	}

	m.log("screenshot", map[string]any{"width": m.size.Width, "height": m.size.Height})

	return domain.Screenshot{
		Data:       buf.Bytes(),
		CropOffset: domain.CropOffset{Top: 80, Bottom: 100},
		Size:       m.size,
	}, nil
}

// Tap logs and sleeps a fixed settle duration.
func (m *MockDevice) Tap(_ context.Context, x, y int) error {
	m.log("tap", map[string]any{"x": x, "y": y})
	time.Sleep(10 * time.Millisecond)
	return nil
}

// LongPress logs and sleeps proportional to durationMs.
func (m *MockDevice) LongPress(_ context.Context, x, y int, durationMs int) error {
	m.log("long_press", map[string]any{"x": x, "y": y, "duration_ms": durationMs})
	time.Sleep(time.Duration(durationMs) * time.Millisecond)
	return nil
}

// Swipe logs and sleeps proportional to durationMs.
func (m *MockDevice) Swipe(_ context.Context, x1, y1, x2, y2 int, durationMs int) error {
	m.log("swipe", map[string]any{"x1": x1, "y1": y1, "x2": x2, "y2": y2, "duration_ms": durationMs})
	time.Sleep(time.Duration(durationMs) * time.Millisecond)
	return nil
}

// InputText logs and sleeps proportional to the text length.
func (m *MockDevice) InputText(_ context.Context, text string) error {
	m.log("input_text", map[string]any{"length": len(text)})
	time.Sleep(time.Duration(len(text)) * perCharSleep)
	return nil
}

// PressKey logs and sleeps a fixed settle duration.
func (m *MockDevice) PressKey(_ context.Context, keycode int) error {
	m.log("press_key", map[string]any{"keycode": keycode})
	time.Sleep(10 * time.Millisecond)
	return nil
}

// GoHome logs a single go_home operation and clears the tracked foreground app.
func (m *MockDevice) GoHome(_ context.Context) error {
	m.mu.Lock()
	m.foregroundApp = ""
	m.mu.Unlock()
	m.log("go_home", nil)
	time.Sleep(20 * time.Millisecond)
	return nil
}

// PressBack logs a back-key press.
func (m *MockDevice) PressBack(_ context.Context) error {
	m.log("press_back", nil)
	time.Sleep(10 * time.Millisecond)
	return nil
}

// StartApp records packageID as the foreground app.
func (m *MockDevice) StartApp(_ context.Context, packageID string) error {
	m.mu.Lock()
	m.runningApps[packageID] = true
	m.foregroundApp = packageID
	m.mu.Unlock()
	m.log("start_app", map[string]any{"package": packageID})
	time.Sleep(50 * time.Millisecond)
	return nil
}

// StopApp clears packageID from the running set.
func (m *MockDevice) StopApp(_ context.Context, packageID string) error {
	m.mu.Lock()
	delete(m.runningApps, packageID)
	if m.foregroundApp == packageID {
		m.foregroundApp = ""
	}
	m.mu.Unlock()
	m.log("stop_app", map[string]any{"package": packageID})
	return nil
}

// ForegroundApp returns the package most recently started or home-cleared.
func (m *MockDevice) ForegroundApp(_ context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.foregroundApp, nil
}

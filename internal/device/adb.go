package device

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/taskpilot/droidtask/internal/config"
	"github.com/taskpilot/droidtask/internal/constants"
	"github.com/taskpilot/droidtask/internal/contracts"
	"github.com/taskpilot/droidtask/internal/domain"
	atlaserrors "github.com/taskpilot/droidtask/internal/errors"
)

// appLaunchWait is the settle pause after issuing a launch intent, before
// the caller can expect the app's first screen to have rendered.
const appLaunchWait = 1 * time.Second

var (
	overrideSizePattern = regexp.MustCompile(`Override size:\s*(\d+)x(\d+)`)
	physicalSizePattern = regexp.MustCompile(`Physical size:\s*(\d+)x(\d+)`)
	anySizePattern      = regexp.MustCompile(`(\d+)x(\d+)`)

	appBoundsPattern = regexp.MustCompile(`mAppBounds=Rect\((\d+),\s*(\d+)\s*-\s*(\d+),\s*(\d+)\)`)
	statusBarPattern = regexp.MustCompile(`(?s)StatusBar\}:.*?Requested w=\d+ h=(\d+)`)
	navBarPattern    = regexp.MustCompile(`(?s)NavigationBar\d*\}:.*?Requested w=\d+ h=(\d+)`)

	foregroundActivityPatterns = []*regexp.Regexp{
		regexp.MustCompile(`mResumedActivity.*?(\S+)/`),
		regexp.MustCompile(`topResumedActivity.*?(\S+)/`),
		regexp.MustCompile(`ResumedActivity.*?(\S+)/`),
		regexp.MustCompile(`mFocusedApp.*?(\S+)/`),
	}
	foregroundWindowPatterns = []*regexp.Regexp{
		regexp.MustCompile(`mCurrentFocus.*?(\S+)/`),
		regexp.MustCompile(`mFocusedApp.*?(\S+)/`),
	}
)

// ADBDevice drives a device through a shell-bridge binary (adb or
// compatible), mirroring the command constructions of a bare adb-shell
// controller: wm size / dumpsys window for geometry, input tap/swipe/text
// for interaction, screencap+pull for capture.
type ADBDevice struct {
	serial     string
	bridgePath string
	executor   CommandExecutor
	logger     zerolog.Logger

	operationDelay    time.Duration
	commandTimeout    time.Duration
	screenshotTimeout time.Duration

	cachedSize *domain.ScreenSize
}

// NewADBDevice constructs an ADBDevice bound to cfg.Default. If executor is
// nil, a DefaultExecutor is used.
func NewADBDevice(cfg *config.DeviceConfig, executor CommandExecutor, logger zerolog.Logger) *ADBDevice {
	if executor == nil {
		executor = &DefaultExecutor{}
	}
	bridgePath := cfg.BridgePath
	if bridgePath == "" {
		bridgePath = "adb"
	}
	return &ADBDevice{
		serial:            cfg.Default,
		bridgePath:        bridgePath,
		executor:          executor,
		logger:            logger,
		operationDelay:    cfg.OperationDelay,
		commandTimeout:    cfg.CommandTimeout,
		screenshotTimeout: cfg.ScreenshotTimeout,
	}
}

// Compile-time check that ADBDevice implements contracts.Device.
var _ contracts.Device = (*ADBDevice)(nil)

func (d *ADBDevice) runRaw(ctx context.Context, timeout time.Duration, args ...string) (string, string, error) {
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, d.bridgePath, args...)
	stdout, stderr, err := d.executor.Execute(runCtx, cmd)
	if runCtx.Err() != nil {
		return "", "", fmt.Errorf("%w: bridge command timed out: %s", atlaserrors.ErrDeviceUnavailable, strings.Join(args, " "))
	}
	if err != nil {
		return string(stdout), string(stderr), fmt.Errorf("%w: %s: %s", atlaserrors.ErrDeviceCommandFailed, strings.Join(args, " "), strings.TrimSpace(string(stderr)))
	}
	return string(stdout), string(stderr), nil
}

// runShell runs `adb -s <serial> shell <args...>`.
func (d *ADBDevice) runShell(ctx context.Context, args ...string) (string, error) {
	full := append([]string{"-s", d.serial, "shell"}, args...)
	stdout, _, err := d.runRaw(ctx, d.commandTimeout, full...)
	return stdout, err
}

func (d *ADBDevice) settle() {
	time.Sleep(d.operationDelay)
}

// Connect establishes the bridge connection, per adb's network-address
// connect semantics (a no-op success for USB-attached serials, which report
// "already connected").
func (d *ADBDevice) Connect(ctx context.Context) error {
	stdout, _, err := d.runRaw(ctx, d.commandTimeout, "connect", d.serial)
	if err != nil {
		return err
	}
	if !strings.Contains(strings.ToLower(stdout), "connected") {
		return fmt.Errorf("%w: bridge did not report a connection for %s", atlaserrors.ErrDeviceUnavailable, d.serial)
	}
	return nil
}

// Disconnect tears down the bridge connection.
func (d *ADBDevice) Disconnect(ctx context.Context) error {
	_, _, err := d.runRaw(ctx, d.commandTimeout, "disconnect", d.serial)
	return err
}

// ScreenSize returns the device's display resolution, preferring an
// override size (set by `wm size <w>x<h>`) over the physical size.
func (d *ADBDevice) ScreenSize(ctx context.Context) (domain.ScreenSize, error) {
	if d.cachedSize != nil {
		return *d.cachedSize, nil
	}

	stdout, err := d.runShell(ctx, "wm", "size")
	if err != nil {
		return domain.ScreenSize{}, err
	}

	size, err := parseScreenSize(stdout)
	if err != nil {
		return domain.ScreenSize{}, err
	}
	d.cachedSize = &size
	return size, nil
}

func parseScreenSize(output string) (domain.ScreenSize, error) {
	for _, pattern := range []*regexp.Regexp{overrideSizePattern, physicalSizePattern, anySizePattern} {
		if m := pattern.FindStringSubmatch(output); m != nil {
			w, _ := strconv.Atoi(m[1])
			h, _ := strconv.Atoi(m[2])
			return domain.ScreenSize{Width: w, Height: h}, nil
		}
	}
	return domain.ScreenSize{}, fmt.Errorf("%w: could not parse screen size from %q", atlaserrors.ErrDeviceCommandFailed, output)
}

// ScreenInsets returns the status bar and navigation bar heights, preferring
// the app content bounds (most reliable) over the per-window Requested
// height fallback.
func (d *ADBDevice) ScreenInsets(ctx context.Context) (domain.ScreenInsets, error) {
	stdout, err := d.runShell(ctx, "dumpsys", "window", "windows")
	if err != nil {
		return domain.ScreenInsets{}, err
	}

	size, err := d.ScreenSize(ctx)
	if err != nil {
		return domain.ScreenInsets{}, err
	}

	return parseScreenInsets(stdout, size.Height), nil
}

func parseScreenInsets(output string, screenHeight int) domain.ScreenInsets {
	if m := appBoundsPattern.FindStringSubmatch(output); m != nil {
		top, _ := strconv.Atoi(m[2])
		bottomY, _ := strconv.Atoi(m[4])
		return domain.ScreenInsets{StatusBar: top, NavigationBar: screenHeight - bottomY}
	}

	var insets domain.ScreenInsets
	if m := statusBarPattern.FindStringSubmatch(output); m != nil {
		insets.StatusBar, _ = strconv.Atoi(m[1])
	}
	if m := navBarPattern.FindStringSubmatch(output); m != nil {
		insets.NavigationBar, _ = strconv.Atoi(m[1])
	}
	return insets
}

// Screenshot captures the display and pulls it to a local temporary file,
// returning the raw bytes plus the crop offset a caller should apply to
// translate locate coordinates back into full-display space.
func (d *ADBDevice) Screenshot(ctx context.Context) (domain.Screenshot, error) {
	captureCtx, cancel := context.WithTimeout(ctx, d.screenshotTimeout)
	defer cancel()

	const remotePath = "/sdcard/droidtask_screenshot_tmp.png"
	if _, err := d.runShell(captureCtx, "screencap", "-p", remotePath); err != nil {
		return domain.Screenshot{}, err
	}
	defer func() {
		_, _ = d.runShell(ctx, "rm", remotePath)
	}()

	localFile, err := os.CreateTemp("", "droidtask-screenshot-*.png")
	if err != nil {
		return domain.Screenshot{}, fmt.Errorf("%w: create temp file: %w", atlaserrors.ErrDeviceCommandFailed, err)
	}
	localPath := localFile.Name()
	_ = localFile.Close()
	defer func() { _ = os.Remove(localPath) }()

	if _, _, err := d.runRaw(captureCtx, d.screenshotTimeout, "-s", d.serial, "pull", remotePath, localPath); err != nil {
		return domain.Screenshot{}, err
	}

	data, err := os.ReadFile(localPath)
	if err != nil {
		return domain.Screenshot{}, fmt.Errorf("%w: read pulled screenshot: %w", atlaserrors.ErrDeviceCommandFailed, err)
	}

	size, err := d.ScreenSize(ctx)
	if err != nil {
		return domain.Screenshot{}, err
	}
	insets, err := d.ScreenInsets(ctx)
	if err != nil {
		return domain.Screenshot{}, err
	}

	return domain.Screenshot{
		Data: data,
		CropOffset: domain.CropOffset{
			Top:    insets.StatusBar,
			Bottom: insets.NavigationBar,
		},
		Size: size,
	}, nil
}

// Tap issues a single tap at (x, y).
func (d *ADBDevice) Tap(ctx context.Context, x, y int) error {
	_, err := d.runShell(ctx, "input", "tap", strconv.Itoa(x), strconv.Itoa(y))
	d.settle()
	return err
}

// LongPress holds a press at (x, y) for durationMs, implemented as a
// zero-distance swipe per input's event model.
func (d *ADBDevice) LongPress(ctx context.Context, x, y int, durationMs int) error {
	coords := []string{strconv.Itoa(x), strconv.Itoa(y), strconv.Itoa(x), strconv.Itoa(y), strconv.Itoa(durationMs)}
	_, err := d.runShell(ctx, append([]string{"input", "swipe"}, coords...)...)
	d.settle()
	return err
}

// Swipe drags from (x1, y1) to (x2, y2) over durationMs.
func (d *ADBDevice) Swipe(ctx context.Context, x1, y1, x2, y2 int, durationMs int) error {
	coords := []string{strconv.Itoa(x1), strconv.Itoa(y1), strconv.Itoa(x2), strconv.Itoa(y2), strconv.Itoa(durationMs)}
	_, err := d.runShell(ctx, append([]string{"input", "swipe"}, coords...)...)
	d.settle()
	return err
}

// InputText enters text into the currently focused field. ASCII text goes
// through `input text` with shell-metacharacter escaping; text containing
// non-ASCII runes is tried as a base64 broadcast first, then a raw
// broadcast, then a \uXXXX-escaped `input text` as a last resort.
func (d *ADBDevice) InputText(ctx context.Context, text string) error {
	defer d.settle()

	if isASCII(text) {
		escaped := escapeInputText(text)
		_, err := d.runShell(ctx, "input", "text", escaped)
		return err
	}

	encoded := base64.StdEncoding.EncodeToString([]byte(text))
	if stdout, err := d.runShell(ctx, "am", "broadcast", "-a", "ADB_INPUT_B64", "--es", "msg", encoded); err == nil && strings.Contains(stdout, "Broadcast completed") {
		return nil
	}

	if stdout, err := d.runShell(ctx, "am", "broadcast", "-a", "ADB_INPUT_TEXT", "--es", "msg", text); err == nil && strings.Contains(stdout, "Broadcast completed") {
		return nil
	}

	_, err := d.runShell(ctx, "input", "text", unicodeEscape(text))
	return err
}

func isASCII(s string) bool {
	for _, r := range s {
		if r > 127 {
			return false
		}
	}
	return true
}

func escapeInputText(text string) string {
	replacer := strings.NewReplacer(
		" ", "%s",
		"&", "\\&",
		"<", "\\<",
		">", "\\>",
	)
	return replacer.Replace(text)
}

func unicodeEscape(text string) string {
	var b strings.Builder
	for _, r := range text {
		if r > 127 {
			fmt.Fprintf(&b, "\\u%04x", r)
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// PressKey sends a raw Android keycode event.
func (d *ADBDevice) PressKey(ctx context.Context, keycode int) error {
	_, err := d.runShell(ctx, "input", "keyevent", strconv.Itoa(keycode))
	d.settle()
	return err
}

// GoHome presses the home key twice with a brief interval, since a single
// press may only back out to an app's own root rather than the launcher.
func (d *ADBDevice) GoHome(ctx context.Context) error {
	const homeKeycode = 3
	if err := d.PressKey(ctx, homeKeycode); err != nil {
		return err
	}
	time.Sleep(constants.HomeKeyPressInterval)
	return d.PressKey(ctx, homeKeycode)
}

// PressBack sends the back key.
func (d *ADBDevice) PressBack(ctx context.Context) error {
	const backKeycode = 4
	return d.PressKey(ctx, backKeycode)
}

// StartApp launches packageID via the launcher category intent, since no
// specific activity name is known to the orchestrator.
func (d *ADBDevice) StartApp(ctx context.Context, packageID string) error {
	_, err := d.runShell(ctx, "monkey", "-p", packageID, "-c", "android.intent.category.LAUNCHER", "1")
	time.Sleep(appLaunchWait)
	return err
}

// StopApp force-stops packageID.
func (d *ADBDevice) StopApp(ctx context.Context, packageID string) error {
	_, err := d.runShell(ctx, "am", "force-stop", packageID)
	return err
}

// ForegroundApp returns the package name of the currently focused activity,
// trying the activities dump first and falling back to the window dump.
func (d *ADBDevice) ForegroundApp(ctx context.Context) (string, error) {
	stdout, err := d.runShell(ctx, "dumpsys", "activity", "activities")
	if err == nil {
		for _, pattern := range foregroundActivityPatterns {
			if m := pattern.FindStringSubmatch(stdout); m != nil {
				return m[1], nil
			}
		}
	}

	stdout, err = d.runShell(ctx, "dumpsys", "window", "windows")
	if err != nil {
		return "", err
	}
	for _, pattern := range foregroundWindowPatterns {
		if m := pattern.FindStringSubmatch(stdout); m != nil {
			return m[1], nil
		}
	}

	return "", fmt.Errorf("%w: no foreground app in dumpsys output", atlaserrors.ErrDeviceCommandFailed)
}

// BridgeDevice describes one entry reported by the shell bridge's device
// enumeration command.
type BridgeDevice struct {
	Serial string
	State  string
}

var deviceLinePattern = regexp.MustCompile(`^(\S+)\s+(\S+)`)

// ListBridgeDevices runs `<bridge> devices` and parses the attached-device
// table, for the shell surface's "devices" subcommand. Unlike ADBDevice's
// other methods this isn't bound to a single serial, so it takes the
// bridge path directly rather than living on a *ADBDevice value.
func ListBridgeDevices(ctx context.Context, bridgePath string, executor CommandExecutor, timeout time.Duration) ([]BridgeDevice, error) {
	if bridgePath == "" {
		bridgePath = "adb"
	}
	if executor == nil {
		executor = &DefaultExecutor{}
	}

	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, bridgePath, "devices")
	stdout, _, err := executor.Execute(runCtx, cmd)
	if runCtx.Err() != nil {
		return nil, fmt.Errorf("%w: bridge device enumeration timed out", atlaserrors.ErrDeviceUnavailable)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: devices: %s", atlaserrors.ErrDeviceCommandFailed, err)
	}

	var devices []BridgeDevice
	lines := strings.Split(string(stdout), "\n")
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "List of devices") {
			continue
		}
		m := deviceLinePattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		devices = append(devices, BridgeDevice{Serial: m[1], State: m[2]})
	}
	return devices, nil
}

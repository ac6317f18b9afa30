package device

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/taskpilot/droidtask/internal/constants"
	atlaserrors "github.com/taskpilot/droidtask/internal/errors"
	"github.com/taskpilot/droidtask/internal/flock"
)

const (
	lockFilePerm = 0o600
	lockDirPerm  = 0o750
)

// Lock holds the exclusive file lock binding a droidtask process to one
// device serial (§5: "at most one task runs at a time through one device
// binding"). The zero value is a no-op lock, used for the mock device,
// which is process-local and never contended.
type Lock struct {
	f *os.File
}

// AcquireLock opens (creating if needed) a lock file keyed on serial under
// ~/.droidtask/locks and blocks, retrying on a short interval, until it
// either acquires an exclusive non-blocking flock, the context is
// canceled, or constants.DeviceLockTimeout elapses. An empty serial (no
// fixed bridge target configured) still locks under a shared placeholder
// name, since "adb -s ''" resolves to whatever single device is attached.
func AcquireLock(ctx context.Context, serial string) (*Lock, error) {
	path, err := lockFilePath(serial)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(filepath.Dir(path), lockDirPerm); err != nil {
		return nil, fmt.Errorf("create lock directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, lockFilePerm) //#nosec G304 -- path is built from a config-supplied serial, not user input
	if err != nil {
		return nil, fmt.Errorf("open lock file: %w", err)
	}

	deadline := time.Now().Add(constants.DeviceLockTimeout)
	for {
		select {
		case <-ctx.Done():
			_ = f.Close()
			return nil, ctx.Err()
		default:
		}

		if err := flock.Exclusive(f.Fd()); err == nil {
			return &Lock{f: f}, nil
		}

		if time.Now().After(deadline) {
			_ = f.Close()
			return nil, fmt.Errorf("%w: %s", atlaserrors.ErrDeviceLocked, serial)
		}

		time.Sleep(50 * time.Millisecond)
	}
}

// Release unlocks and closes the lock file. Safe to call on a nil Lock or
// a Lock acquired for the mock device.
func (l *Lock) Release() error {
	if l == nil || l.f == nil {
		return nil
	}
	if err := flock.Unlock(l.f.Fd()); err != nil {
		_ = l.f.Close()
		return fmt.Errorf("release lock: %w", err)
	}
	return l.f.Close()
}

// lockFilePath maps a device serial to its lock file path, sanitizing the
// serial (adb serials may contain ':' for network targets, e.g.
// "192.168.1.5:5555") so it is safe as a single path component.
func lockFilePath(serial string) (string, error) {
	home, err := appHome()
	if err != nil {
		return "", err
	}

	name := serial
	if name == "" {
		name = "default"
	}
	name = strings.NewReplacer(":", "_", "/", "_", "\\", "_").Replace(name)

	return filepath.Join(home, constants.LocksDir, name+".lock"), nil
}

// appHome returns the droidtask home directory. DROIDTASK_HOME overrides
// the default of ~/.droidtask, mirroring cli.getAppHome's resolution so
// the lock directory and the log directory sit side by side.
func appHome() (string, error) {
	if home := os.Getenv("DROIDTASK_HOME"); home != "" {
		return home, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get user home directory: %w", err)
	}

	return filepath.Join(home, constants.AppHome), nil
}

package device

import (
	"github.com/rs/zerolog"

	"github.com/taskpilot/droidtask/internal/config"
	"github.com/taskpilot/droidtask/internal/contracts"
)

// New returns the device binding selected by cfg.Debug.Mode: the mock
// device when set, otherwise a real shell-bridge device bound to
// cfg.Device.Default. Callers must treat both identically.
func New(cfg *config.Config, logger zerolog.Logger) contracts.Device {
	if cfg.Debug.Mode {
		return NewMockDevice(&cfg.Debug, logger)
	}
	return NewADBDevice(&cfg.Device, nil, logger)
}

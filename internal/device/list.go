package device

import (
	"context"
	"os/exec"
	"strings"

	"github.com/taskpilot/droidtask/internal/config"
	"github.com/taskpilot/droidtask/internal/domain"
)

// ListDevices enumerates the device bindings available to the "devices"
// shell subcommand: every serial reported by the bridge's "devices -l"
// query, plus the mock device descriptor when cfg.Debug.Mode is set.
func ListDevices(ctx context.Context, cfg *config.Config) ([]domain.DeviceDescriptor, error) {
	var descriptors []domain.DeviceDescriptor

	bridgePath := cfg.Device.BridgePath
	if bridgePath == "" {
		bridgePath = "adb"
	}

	if serials, err := bridgeDevices(ctx, bridgePath); err == nil {
		for _, serial := range serials {
			descriptors = append(descriptors, domain.DeviceDescriptor{Serial: serial})
		}
	}

	if cfg.Debug.Mode {
		descriptors = append(descriptors, domain.DeviceDescriptor{
			Serial: cfg.Debug.DeviceName,
			Mock:   true,
		})
	}

	return descriptors, nil
}

// bridgeDevices shells out to "<bridge> devices" and parses attached
// serials, skipping the header line and any non-"device" state entries
// (offline, unauthorized).
func bridgeDevices(ctx context.Context, bridgePath string) ([]string, error) {
	//nolint:gosec // bridgePath is operator-configured, same trust level as the rest of the device package
	cmd := exec.CommandContext(ctx, bridgePath, "devices")
	out, err := cmd.Output()
	if err != nil {
		return nil, err
	}

	return parseDeviceList(string(out)), nil
}

// parseDeviceList extracts attached serials from "adb devices" output,
// skipping the header line and any non-"device" state entries (offline,
// unauthorized).
func parseDeviceList(output string) []string {
	var serials []string
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "List of devices") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) >= 2 && fields[1] == "device" {
			serials = append(serials, fields[0])
		}
	}
	return serials
}

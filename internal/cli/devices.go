// Package cli provides the command-line interface for droidtask.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/taskpilot/droidtask/internal/device"
	"github.com/taskpilot/droidtask/internal/tui"
)

// AddDevicesCommand adds the "devices" subcommand, which lists every
// available device binding: bridge-attached serials plus the mock device
// when debug mode is configured.
func AddDevicesCommand(rootCmd *cobra.Command, flags *GlobalFlags, deps Dependencies) {
	cmd := &cobra.Command{
		Use:   "devices",
		Short: "List available device bindings",
		Long: `List the device bindings droidtask can drive: serials reported by the
shell bridge plus the mock device, when debug mode is enabled.`,
		DisableFlagsInUseLine: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			descriptors, err := device.ListDevices(cmd.Context(), deps.Config)
			if err != nil {
				return fmt.Errorf("list devices: %w", err)
			}

			out := tui.NewOutput(cmd.OutOrStdout(), flags.Output)

			if flags.Output == OutputJSON {
				return out.JSON(descriptors)
			}

			if len(descriptors) == 0 {
				out.Info("no devices found")
				return nil
			}

			for _, d := range descriptors {
				if d.Mock {
					out.Info(fmt.Sprintf("%s\t(mock)", d.Serial))
					continue
				}
				out.Info(d.Serial)
			}
			return nil
		},
	}

	rootCmd.AddCommand(cmd)
}

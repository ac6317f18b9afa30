// Package cli provides the command-line interface for droidtask.
package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/taskpilot/droidtask/internal/tui"
)

// AddScreenshotCommand adds the "screenshot" subcommand, which captures one
// frame from the connected device and writes it to a file.
func AddScreenshotCommand(rootCmd *cobra.Command, flags *GlobalFlags, deps Dependencies) {
	var outPath string
	var waitForHandler string

	cmd := &cobra.Command{
		Use:   "screenshot",
		Short: "Capture one screenshot to a file",
		Long: `Capture a single screenshot from the connected device and write the raw
image bytes to the given path.`,
		DisableFlagsInUseLine: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			if err := deps.Device.Connect(ctx); err != nil {
				return fmt.Errorf("connect device: %w", err)
			}
			defer func() { _ = deps.Device.Disconnect(ctx) }()

			if waitForHandler != "" && deps.Config != nil {
				wait := deps.Config.Screenshot.WaitFor(waitForHandler)
				if wait > 0 {
					time.Sleep(wait)
				}
			}

			shot, err := deps.Device.Screenshot(ctx)
			if err != nil {
				return fmt.Errorf("capture screenshot: %w", err)
			}

			if err := os.WriteFile(outPath, shot.Data, 0o600); err != nil {
				return fmt.Errorf("write screenshot: %w", err)
			}

			out := tui.NewOutput(cmd.OutOrStdout(), flags.Output)
			if flags.Output == OutputJSON {
				return out.JSON(struct {
					Path   string `json:"path"`
					Width  int    `json:"width"`
					Height int    `json:"height"`
				}{Path: outPath, Width: shot.Size.Width, Height: shot.Size.Height})
			}

			out.Success(fmt.Sprintf("wrote %s (%dx%d)", outPath, shot.Size.Width, shot.Size.Height))
			return nil
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "f", "screenshot.png", "output file path")
	cmd.Flags().StringVar(&waitForHandler, "wait-for", "", "apply the named handler's capture-readiness wait before capturing")

	rootCmd.AddCommand(cmd)
}

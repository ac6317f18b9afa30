// Package cli provides the command-line interface for droidtask.
package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/taskpilot/droidtask/internal/tui"
)

// AddModulesCommand adds the "modules" subcommand, which lists the handlers
// discovered at startup from the module registry (C4).
func AddModulesCommand(rootCmd *cobra.Command, flags *GlobalFlags, deps Dependencies) {
	cmd := &cobra.Command{
		Use:                   "modules",
		Short:                 "List discovered app handlers",
		Long:                  `List the app handlers droidtask discovered under its apps directory, one per loaded manifest.`,
		DisableFlagsInUseLine: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			modules := deps.Modules.List()

			out := tui.NewOutput(cmd.OutOrStdout(), flags.Output)

			if flags.Output == OutputJSON {
				return out.JSON(modules)
			}

			if len(modules) == 0 {
				out.Info("no modules discovered")
				return nil
			}

			for _, m := range modules {
				line := fmt.Sprintf("%s\t%s\t%s", m.Name, m.PackageID, m.Description)
				if len(m.Keywords) > 0 {
					line += "\n\tkeywords: " + strings.Join(m.Keywords, ", ")
				}
				out.Info(line)
			}
			return nil
		},
	}

	rootCmd.AddCommand(cmd)
}

// Package cmd provides Cobra CLI commands for dockwork.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bnema/dockwork/internal/cli"
	"github.com/bnema/dockwork/internal/domain/build"
)

var (
	app       *cli.App
	buildInfo build.Info
	rootCmd   = &cobra.Command{
		Use:   "dockwork",
		Short: "A magnetic docking workspace engine",
		Long: `Dockwork - a workspace layout engine with magnetic window docking.

Windows are arranged in binary split trees per workspace. Dragging a
window near another window's edge snaps it into a split; dropping it on
the window's center stacks them as tabs. Workspace state is saved to a
local SQLite database and can be inspected and restored from the CLI.

Use the subcommands to inspect saved layouts, browse persisted states,
or emit the configuration schema.`,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Skip initialization for commands that don't need app context
			switch cmd.Name() {
			case "help", "completion", "version", "schema":
				return nil
			}

			var err error
			app, err = cli.NewApp()
			if err != nil {
				return fmt.Errorf("initialize app: %w", err)
			}
			app.BuildInfo = buildInfo
			return nil
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if app != nil {
				_ = app.Close()
			}
		},
	}
)

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// GetApp returns the initialized app (for use by subcommands).
func GetApp() *cli.App {
	return app
}

// SetBuildInfo sets the build information (called from main.go before Execute).
func SetBuildInfo(info build.Info) {
	buildInfo = info
}

package cmd

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bnema/dockwork/internal/cli"
	"github.com/bnema/dockwork/internal/domain/entity"
	"github.com/bnema/dockwork/internal/infrastructure/snapshot"
	"github.com/bnema/dockwork/internal/logging"
	"github.com/bnema/dockwork/internal/workspace"
)

var (
	runStateID string
	runWidth   float64
	runHeight  float64
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run an interactive docking session",
	Long: `Start an interactive session against a workspace state.

Commands mutate the in-memory collection and changes are persisted
automatically on the configured save interval. Docking settings follow the
config file: edits take effect without restarting. Type "help" at the
prompt for the command list.`,
	RunE: runSession,
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringVar(&runStateID, "state", snapshot.DefaultStateID, "state to load and persist")
	runCmd.Flags().Float64Var(&runWidth, "width", 1920, "surface width in pixels")
	runCmd.Flags().Float64Var(&runHeight, "height", 1080, "surface height in pixels")
}

func runSession(cobraCmd *cobra.Command, _ []string) error {
	app := GetApp()
	if app == nil {
		return fmt.Errorf("app not initialized")
	}
	ctx := app.Ctx()
	log := logging.FromContext(ctx)

	var mgr *workspace.Manager
	if app.Config.Snapshot.AutoRestore {
		snap, err := app.States.GetSnapshot(ctx, runStateID)
		if err != nil {
			return fmt.Errorf("load state %q: %w", runStateID, err)
		}
		if snap != nil {
			mgr, err = workspace.ManagerFromSnapshot(*snap)
			if err != nil {
				return fmt.Errorf("restore state %q: %w", runStateID, err)
			}
			log.Info().
				Str("state_id", runStateID).
				Int("workspaces", len(snap.Workspaces)).
				Msg("state restored")
		}
	}
	if mgr == nil {
		var err error
		mgr, err = workspace.NewManager(nil, "")
		if err != nil {
			return err
		}
	}

	surface := entity.Rect{Width: runWidth, Height: runHeight}
	sess := cli.NewSession(mgr, app.States, app.Config, runStateID, surface)
	sess.Start(ctx)

	if app.ConfigMgr != nil {
		app.ConfigMgr.OnConfigChange(sess.ApplyConfig)
		if err := app.ConfigMgr.Watch(); err != nil {
			log.Warn().Err(err).Msg("config watch unavailable")
		}
	}

	in := bufio.NewScanner(cobraCmd.InOrStdin())
	out := cobraCmd.OutOrStdout()
	fmt.Fprint(out, "> ")
	for in.Scan() {
		line := strings.TrimSpace(in.Text())
		if line == "quit" || line == "exit" {
			break
		}
		if line != "" {
			result, err := sess.Execute(ctx, line)
			switch {
			case err != nil:
				fmt.Fprintln(out, "error:", err)
			case result != "":
				fmt.Fprintln(out, result)
			}
		}
		fmt.Fprint(out, "> ")
	}
	fmt.Fprintln(out)

	return sess.Stop(ctx)
}

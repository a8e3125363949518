package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/bnema/dockwork/internal/domain/entity"
	"github.com/bnema/dockwork/internal/infrastructure/snapshot"
	"github.com/bnema/dockwork/internal/workspace"
)

var (
	layoutWorkspaceID string
	layoutWidth       float64
	layoutHeight      float64
	layoutJSON        bool
)

var layoutCmd = &cobra.Command{
	Use:   "layout [state-id]",
	Short: "Show the computed window layout of a saved state",
	Long: `Compute and display window placements for a saved workspace state.

The docking tree of the selected workspace is resolved against the given
surface dimensions and each window's pixel rectangle is printed.

Examples:
  dockwork layout                          # active workspace of the current state
  dockwork layout --workspace ws-2         # a specific workspace
  dockwork layout autosave --json          # a named state, as JSON`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLayout,
}

func init() {
	rootCmd.AddCommand(layoutCmd)
	layoutCmd.Flags().StringVar(&layoutWorkspaceID, "workspace", "", "workspace to resolve (default: active workspace)")
	layoutCmd.Flags().Float64Var(&layoutWidth, "width", 1920, "surface width in pixels")
	layoutCmd.Flags().Float64Var(&layoutHeight, "height", 1080, "surface height in pixels")
	layoutCmd.Flags().BoolVar(&layoutJSON, "json", false, "output as JSON")
}

func runLayout(_ *cobra.Command, args []string) error {
	app := GetApp()
	if app == nil {
		return fmt.Errorf("app not initialized")
	}

	stateID := snapshot.DefaultStateID
	if len(args) > 0 {
		stateID = args[0]
	}

	snap, err := app.States.GetSnapshot(app.Ctx(), stateID)
	if err != nil {
		return fmt.Errorf("load state %q: %w", stateID, err)
	}
	if snap == nil {
		return fmt.Errorf("no saved state %q", stateID)
	}

	mgr, err := workspace.ManagerFromSnapshot(*snap)
	if err != nil {
		return fmt.Errorf("restore state %q: %w", stateID, err)
	}

	wsID := layoutWorkspaceID
	if wsID == "" {
		wsID = mgr.ActiveWorkspaceID()
	}
	ws, ok := mgr.Workspace(wsID)
	if !ok {
		return fmt.Errorf("no workspace %q in state %q", wsID, stateID)
	}

	placements := ws.ComputePlacements(entity.Rect{Width: layoutWidth, Height: layoutHeight})

	if layoutJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(placements)
	}

	return outputLayoutTable(ws, placements)
}

func outputLayoutTable(ws *workspace.Workspace, placements []entity.Placement) error {
	if len(placements) == 0 {
		fmt.Printf("Workspace %q has no docked windows.\n", ws.ID())
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "WINDOW\tTITLE\tX\tY\tWIDTH\tHEIGHT")

	for _, p := range placements {
		title := ""
		if win, ok := ws.Window(p.ID); ok {
			title = win.Title
		}
		marker := ""
		if p.ID == ws.ActiveWindowID() {
			marker = " ●"
		}
		_, _ = fmt.Fprintf(w, "%s%s\t%s\t%.0f\t%.0f\t%.0f\t%.0f\n",
			p.ID, marker, title, p.Bounds.X, p.Bounds.Y, p.Bounds.Width, p.Bounds.Height)
	}

	return w.Flush()
}

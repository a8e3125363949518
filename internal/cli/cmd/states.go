package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/bnema/dockwork/internal/cli"
	"github.com/bnema/dockwork/internal/cli/model"
	"github.com/bnema/dockwork/internal/domain/repository"
	"github.com/bnema/dockwork/internal/infrastructure/snapshot"
)

var (
	statesJSON     bool
	statesImportID string
)

var statesCmd = &cobra.Command{
	Use:   "states",
	Short: "Manage saved workspace states",
	Long: `View and manage persisted workspace states.

States are saved automatically while the engine runs. Run without
arguments to open the interactive state browser.`,
	RunE: runStates,
}

func init() {
	rootCmd.AddCommand(statesCmd)
}

func runStates(_ *cobra.Command, _ []string) error {
	app := GetApp()
	if app == nil {
		return fmt.Errorf("app not initialized")
	}

	m := model.NewStatesModel(app.Ctx(), app.Theme, app.States)
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// states list
var statesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved workspace states",
	RunE:  runStatesList,
}

func init() {
	statesCmd.AddCommand(statesListCmd)
	statesListCmd.Flags().BoolVar(&statesJSON, "json", false, "output as JSON")
}

func runStatesList(_ *cobra.Command, _ []string) error {
	app := GetApp()
	if app == nil {
		return fmt.Errorf("app not initialized")
	}

	states, err := app.States.ListStates(app.Ctx())
	if err != nil {
		return fmt.Errorf("list states: %w", err)
	}

	if statesJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(states)
	}

	return outputStatesTable(states)
}

func outputStatesTable(states []repository.StateInfo) error {
	if len(states) == 0 {
		fmt.Println("No saved states found.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "STATE ID\tWORKSPACES\tWINDOWS\tLAST UPDATED")

	for _, info := range states {
		_, _ = fmt.Fprintf(w, "%s\t%d\t%d\t%s\n",
			info.ID,
			info.WorkspaceCount,
			info.WindowCount,
			relativeTime(info.UpdatedAt),
		)
	}

	return w.Flush()
}

// states import
var statesImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import a workspace state from a snapshot file",
	Long: `Validate a JSON workspace snapshot and persist it as a named state.

The snapshot is rebuilt through the docking engine before being written,
so malformed layouts are rejected instead of stored.`,
	Args: cobra.ExactArgs(1),
	RunE: runStatesImport,
}

func init() {
	statesCmd.AddCommand(statesImportCmd)
	statesImportCmd.Flags().StringVar(&statesImportID, "id", snapshot.DefaultStateID, "state id to save under")
}

func runStatesImport(_ *cobra.Command, args []string) error {
	app := GetApp()
	if app == nil {
		return fmt.Errorf("app not initialized")
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read snapshot file: %w", err)
	}

	snap, err := cli.ImportState(app.Ctx(), app.States, statesImportID, data)
	if err != nil {
		return fmt.Errorf("import state: %w", err)
	}
	fmt.Printf("Imported state %q (%d workspaces, %d windows).\n",
		statesImportID, len(snap.Workspaces), snap.WindowCount())
	return nil
}

// states delete
var statesDeleteCmd = &cobra.Command{
	Use:   "delete <state-id>",
	Short: "Delete a saved workspace state",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil {
			return fmt.Errorf("app not initialized")
		}

		if err := app.States.DeleteSnapshot(app.Ctx(), args[0]); err != nil {
			return fmt.Errorf("delete state %q: %w", args[0], err)
		}
		fmt.Printf("Deleted state %q.\n", args[0])
		return nil
	},
}

func init() {
	statesCmd.AddCommand(statesDeleteCmd)
}

func relativeTime(t time.Time) string {
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return t.Format("2006-01-02 15:04")
	}
}

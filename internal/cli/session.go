package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"text/tabwriter"
	"time"

	"github.com/bnema/dockwork/internal/domain/entity"
	"github.com/bnema/dockwork/internal/domain/repository"
	"github.com/bnema/dockwork/internal/infrastructure/config"
	"github.com/bnema/dockwork/internal/infrastructure/snapshot"
	"github.com/bnema/dockwork/internal/workspace"
)

const sessionHelp = `Commands:
  add <window-id> [target-id]                       add a window
  dock <window-id> <target-id> <direction> [ratio]  dock onto a window (left|right|top|bottom|tab)
  magnet <window-id> <x> <y> <width> <height>       dock by dragged bounds
  remove <window-id>                                remove a window
  focus <window-id>                                 set the active window
  ws [list] | ws new <id> [name] | ws use <id> | ws rm <id>
  layout                                            print computed placements
  save                                              persist state now
  quit                                              save and exit`

// Session drives a workspace collection interactively: commands mutate the
// manager, the snapshot service persists the result, and docking defaults
// track the live configuration.
type Session struct {
	manager *workspace.Manager
	service *snapshot.Service
	surface entity.Rect

	mu        sync.Mutex
	threshold float64
	ratio     float64
}

// NewSession wires a manager to its persistence service. The snapshot
// section of cfg sets the save cadence; the docking section seeds the
// magnetic threshold and the ratio used when a dock command omits one.
func NewSession(manager *workspace.Manager, repo repository.StateRepository, cfg *config.Config, stateID string, surface entity.Rect) *Session {
	interval := time.Duration(cfg.Snapshot.SaveIntervalMs) * time.Millisecond
	return &Session{
		manager:   manager,
		service:   snapshot.NewService(manager, repo, stateID, interval),
		surface:   surface,
		threshold: cfg.Docking.MagneticThreshold,
		ratio:     cfg.Docking.DefaultSplitRatio,
	}
}

// Start begins observing the manager for persistence.
func (s *Session) Start(ctx context.Context) {
	s.service.Start(ctx)
}

// Stop flushes pending state and shuts the persistence service down.
func (s *Session) Stop(ctx context.Context) error {
	return s.service.Stop(ctx)
}

// ApplyConfig adopts reloaded docking settings. Registered as a config
// change callback so edits to the config file take effect mid-session.
func (s *Session) ApplyConfig(cfg *config.Config) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.threshold = cfg.Docking.MagneticThreshold
	s.ratio = cfg.Docking.DefaultSplitRatio
}

func (s *Session) defaults() (threshold, ratio float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.threshold, s.ratio
}

// Execute parses and runs a single session command, returning its output.
func (s *Session) Execute(ctx context.Context, line string) (string, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "", nil
	}

	cmd, args := fields[0], fields[1:]
	switch cmd {
	case "add":
		return s.addWindow(ctx, args)
	case "dock":
		return s.dock(ctx, args)
	case "magnet":
		return s.magnet(ctx, args)
	case "remove":
		return s.removeWindow(ctx, args)
	case "focus":
		return s.focus(ctx, args)
	case "ws":
		return s.workspaceCommand(ctx, args)
	case "layout":
		return s.layout()
	case "save":
		if err := s.service.SaveNow(ctx); err != nil {
			return "", err
		}
		return "state saved", nil
	case "help":
		return sessionHelp, nil
	default:
		return "", fmt.Errorf("unknown command %q (try \"help\")", cmd)
	}
}

// activeWorkspace resolves the manager's active workspace for window
// commands.
func (s *Session) activeWorkspace() (*workspace.Workspace, error) {
	ws := s.manager.ActiveWorkspace()
	if ws == nil {
		return nil, fmt.Errorf("no active workspace (try \"ws new <id>\")")
	}
	return ws, nil
}

// windowState reuses an existing registration so a moved window keeps its
// title.
func windowState(ws *workspace.Workspace, id string) entity.WindowState {
	if win, ok := ws.Window(id); ok {
		return win
	}
	return entity.WindowState{ID: id, Title: id}
}

func (s *Session) addWindow(ctx context.Context, args []string) (string, error) {
	if len(args) < 1 || len(args) > 2 {
		return "", fmt.Errorf("usage: add <window-id> [target-id]")
	}
	ws, err := s.activeWorkspace()
	if err != nil {
		return "", err
	}

	target := ""
	if len(args) == 2 {
		target = args[1]
	}
	if err := ws.AddWindow(ctx, entity.WindowState{ID: args[0], Title: args[0]}, target); err != nil {
		return "", err
	}
	return fmt.Sprintf("added %q to workspace %q", args[0], ws.ID()), nil
}

func (s *Session) dock(ctx context.Context, args []string) (string, error) {
	if len(args) < 3 || len(args) > 4 {
		return "", fmt.Errorf("usage: dock <window-id> <target-id> <direction> [ratio]")
	}
	ws, err := s.activeWorkspace()
	if err != nil {
		return "", err
	}

	_, ratio := s.defaults()
	if len(args) == 4 {
		ratio, err = strconv.ParseFloat(args[3], 64)
		if err != nil {
			return "", fmt.Errorf("invalid ratio %q: %w", args[3], err)
		}
	}

	req := workspace.DockRequest{
		Window:         windowState(ws, args[0]),
		TargetWindowID: args[1],
		Direction:      entity.DockDirection(args[2]),
		Ratio:          ratio,
	}
	if err := ws.Dock(ctx, req); err != nil {
		return "", err
	}
	return fmt.Sprintf("docked %q %s of %q", args[0], args[2], args[1]), nil
}

func (s *Session) magnet(ctx context.Context, args []string) (string, error) {
	if len(args) != 5 {
		return "", fmt.Errorf("usage: magnet <window-id> <x> <y> <width> <height>")
	}
	ws, err := s.activeWorkspace()
	if err != nil {
		return "", err
	}

	var coords [4]float64
	for i, arg := range args[1:] {
		coords[i], err = strconv.ParseFloat(arg, 64)
		if err != nil {
			return "", fmt.Errorf("invalid bounds value %q: %w", arg, err)
		}
	}

	threshold, _ := s.defaults()
	req := workspace.MagneticDockRequest{
		Window:    windowState(ws, args[0]),
		Bounds:    entity.Rect{X: coords[0], Y: coords[1], Width: coords[2], Height: coords[3]},
		Surface:   s.surface,
		Threshold: threshold,
	}
	if err := ws.DockMagnetically(ctx, req); err != nil {
		return "", err
	}
	return fmt.Sprintf("docked %q magnetically", args[0]), nil
}

func (s *Session) removeWindow(ctx context.Context, args []string) (string, error) {
	if len(args) != 1 {
		return "", fmt.Errorf("usage: remove <window-id>")
	}
	ws, err := s.activeWorkspace()
	if err != nil {
		return "", err
	}
	if err := ws.RemoveWindow(ctx, args[0]); err != nil {
		return "", err
	}
	return fmt.Sprintf("removed %q", args[0]), nil
}

func (s *Session) focus(ctx context.Context, args []string) (string, error) {
	if len(args) != 1 {
		return "", fmt.Errorf("usage: focus <window-id>")
	}
	ws, err := s.activeWorkspace()
	if err != nil {
		return "", err
	}
	if err := ws.SetActiveWindow(ctx, args[0]); err != nil {
		return "", err
	}
	return fmt.Sprintf("focused %q", args[0]), nil
}

func (s *Session) workspaceCommand(ctx context.Context, args []string) (string, error) {
	if len(args) == 0 {
		args = []string{"list"}
	}

	switch args[0] {
	case "list":
		return s.listWorkspaces()
	case "new":
		if len(args) < 2 {
			return "", fmt.Errorf("usage: ws new <id> [name]")
		}
		name := args[1]
		if len(args) > 2 {
			name = strings.Join(args[2:], " ")
		}
		ws, err := workspace.New(args[1], name, nil, nil)
		if err != nil {
			return "", err
		}
		if err := s.manager.AddWorkspace(ctx, ws, true); err != nil {
			return "", err
		}
		return fmt.Sprintf("workspace %q created and activated", args[1]), nil
	case "use":
		if len(args) != 2 {
			return "", fmt.Errorf("usage: ws use <id>")
		}
		if err := s.manager.SetActiveWorkspace(ctx, args[1]); err != nil {
			return "", err
		}
		return fmt.Sprintf("workspace %q activated", args[1]), nil
	case "rm":
		if len(args) != 2 {
			return "", fmt.Errorf("usage: ws rm <id>")
		}
		if err := s.manager.RemoveWorkspace(ctx, args[1]); err != nil {
			return "", err
		}
		return fmt.Sprintf("workspace %q removed", args[1]), nil
	default:
		return "", fmt.Errorf("unknown ws command %q", args[0])
	}
}

func (s *Session) listWorkspaces() (string, error) {
	var b strings.Builder
	w := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "WORKSPACE\tNAME\tWINDOWS")
	for _, ws := range s.manager.Workspaces() {
		marker := ""
		if ws.ID() == s.manager.ActiveWorkspaceID() {
			marker = " ●"
		}
		_, _ = fmt.Fprintf(w, "%s%s\t%s\t%d\n", ws.ID(), marker, ws.Name(), len(ws.Windows()))
	}
	if err := w.Flush(); err != nil {
		return "", err
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

func (s *Session) layout() (string, error) {
	ws, err := s.activeWorkspace()
	if err != nil {
		return "", err
	}

	placements := ws.ComputePlacements(s.surface)
	if len(placements) == 0 {
		return "workspace is empty", nil
	}

	var b strings.Builder
	w := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "WINDOW\tX\tY\tWIDTH\tHEIGHT")
	for _, p := range placements {
		marker := ""
		if p.ID == ws.ActiveWindowID() {
			marker = " ●"
		}
		_, _ = fmt.Fprintf(w, "%s%s\t%.0f\t%.0f\t%.0f\t%.0f\n",
			p.ID, marker, p.Bounds.X, p.Bounds.Y, p.Bounds.Width, p.Bounds.Height)
	}
	if err := w.Flush(); err != nil {
		return "", err
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

// ImportState validates a serialized workspace collection and persists it
// under stateID. The payload is rebuilt through the workspace layer first,
// so only states the engine can restore are ever written.
func ImportState(ctx context.Context, repo repository.StateRepository, stateID string, data []byte) (entity.CollectionSnapshot, error) {
	var snap entity.CollectionSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return entity.CollectionSnapshot{}, fmt.Errorf("%w: %v", entity.ErrInvalidSnapshot, err)
	}

	mgr, err := workspace.ManagerFromSnapshot(snap)
	if err != nil {
		return entity.CollectionSnapshot{}, err
	}

	canonical := mgr.Snapshot()
	if err := repo.SaveSnapshot(ctx, stateID, &canonical); err != nil {
		return entity.CollectionSnapshot{}, fmt.Errorf("save state %q: %w", stateID, err)
	}
	return canonical, nil
}

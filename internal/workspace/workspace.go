// Package workspace provides the Workspace and Manager aggregates built on
// top of the docking tree engine. A Workspace owns one tree, a window
// registry, an active-window pointer and a relationship set; every mutation
// builds a new tree and swaps the reference only on full success, so a
// failed operation leaves no partial state behind.
//
// All operations are synchronous and lock-free; callers integrating from
// multiple goroutines must serialize access themselves.
package workspace

import (
	"context"
	"fmt"

	"github.com/bnema/dockwork/internal/domain/dock"
	"github.com/bnema/dockwork/internal/domain/entity"
	"github.com/bnema/dockwork/internal/logging"
)

// Workspace aggregates one docking tree, a window registry, an optional
// active window and the docking relationships recorded so far.
type Workspace struct {
	id   string
	name string

	root           *entity.DockNode
	windowOrder    []string
	windows        map[string]entity.WindowState
	activeWindowID string
	relationships  *entity.RelationshipSet

	listeners []Listener
}

// New creates a workspace with an initial layout and window list.
// Window ids must be unique; the active window starts unset.
func New(id, name string, layout *entity.DockNode, windows []entity.WindowState) (*Workspace, error) {
	ws := &Workspace{
		id:            id,
		name:          name,
		root:          layout,
		windows:       make(map[string]entity.WindowState, len(windows)),
		relationships: entity.NewRelationshipSet(),
	}
	for _, win := range windows {
		if _, ok := ws.windows[win.ID]; ok {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateWindow, win.ID)
		}
		ws.windows[win.ID] = win
		ws.windowOrder = append(ws.windowOrder, win.ID)
	}
	return ws, nil
}

// ID returns the workspace id.
func (w *Workspace) ID() string { return w.id }

// Name returns the workspace display name.
func (w *Workspace) Name() string { return w.name }

// Root returns the current tree root. May be nil for an empty workspace.
func (w *Workspace) Root() *entity.DockNode { return w.root }

// ActiveWindowID returns the active window id, or "" when none is active.
func (w *Workspace) ActiveWindowID() string { return w.activeWindowID }

// Window returns the registered window state for id.
func (w *Workspace) Window(id string) (entity.WindowState, bool) {
	win, ok := w.windows[id]
	return win, ok
}

// Windows returns all registered windows in insertion order.
func (w *Workspace) Windows() []entity.WindowState {
	out := make([]entity.WindowState, 0, len(w.windowOrder))
	for _, id := range w.windowOrder {
		out = append(out, w.windows[id])
	}
	return out
}

// Relationships returns the recorded docking relationships in insertion
// order.
func (w *Workspace) Relationships() []entity.DockingRelationship {
	return w.relationships.All()
}

// Subscribe registers a listener for this workspace's change events.
func (w *Workspace) Subscribe(fn Listener) {
	w.listeners = append(w.listeners, fn)
}

func (w *Workspace) emit(e Event) {
	for _, fn := range w.listeners {
		fn(e)
	}
}

// ComputePlacements computes the rectangle placement of every window in the
// current layout over the given viewport bounds.
func (w *Workspace) ComputePlacements(bounds entity.Rect) []entity.Placement {
	if w.root == nil {
		return nil
	}
	return w.root.ComputePlacements(bounds)
}

// AddWindow registers a window. With no target the window becomes a new
// floating root: a horizontal 50/50 split wrapping the current layout, the
// new window on the second side. With a target it is inserted to the right
// of the target leaf without recording a relationship. If the workspace had
// no active window, the new window becomes active.
func (w *Workspace) AddWindow(ctx context.Context, win entity.WindowState, targetID string) error {
	log := logging.FromContext(logging.WithWorkspaceID(ctx, w.id))

	if _, ok := w.windows[win.ID]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateWindow, win.ID)
	}

	var newRoot *entity.DockNode
	switch {
	case targetID == "" && w.root == nil:
		newRoot = entity.NewLeaf(win.ID)
	case targetID == "":
		newRoot = entity.NewSplit(entity.SplitHorizontal, 0.5, w.root, entity.NewLeaf(win.ID))
	default:
		if _, ok := w.windows[targetID]; !ok {
			return fmt.Errorf("%w: %q", ErrUnknownWindow, targetID)
		}
		inserted, ok := dock.Insert(w.root, targetID, win.ID, entity.DockRight, 0.5)
		if !ok {
			return fmt.Errorf("%w: target leaf %q not in layout", ErrDockFailed, targetID)
		}
		newRoot = inserted
	}

	w.root = newRoot
	w.registerWindow(win)

	log.Debug().
		Str("window_id", win.ID).
		Str("target_id", targetID).
		Msg("window added")
	w.emit(Event{Type: EventWindowAdded, WorkspaceID: w.id, WindowID: win.ID})

	if w.activeWindowID == "" {
		w.setActive(win.ID)
	}
	return nil
}

// DockRequest describes a dock operation: attach Window next to the target
// in the given direction. A Ratio <= 0 selects the 0.5 default.
type DockRequest struct {
	Window         entity.WindowState
	TargetWindowID string
	Direction      entity.DockDirection
	Ratio          float64
}

// Dock inserts the request's window relative to an existing one, records
// the relationship and swaps the tree. The window is registered if new; a
// window whose leaf is already in the layout is moved, not duplicated (its
// old leaf is pruned before the insert). Fails without side effects when
// the target window is unknown or its leaf cannot be located in the layout.
func (w *Workspace) Dock(ctx context.Context, req DockRequest) error {
	log := logging.FromContext(logging.WithWorkspaceID(ctx, w.id))

	if !req.Direction.IsValid() {
		return fmt.Errorf("%w: invalid direction %q", ErrDockFailed, req.Direction)
	}
	if req.Window.ID == req.TargetWindowID {
		return fmt.Errorf("%w: window %q cannot dock onto itself", ErrDockFailed, req.Window.ID)
	}
	if _, ok := w.windows[req.TargetWindowID]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownWindow, req.TargetWindowID)
	}

	ratio := req.Ratio
	if ratio <= 0 {
		ratio = 0.5
	}

	// Each window id occupies at most one leaf. Re-docking a window whose
	// leaf already exists moves it: the old leaf is pruned from a scratch
	// root, so a failed insert still leaves the workspace untouched.
	root := w.root
	if req.Direction != entity.DockTab && root.FindLeaf(req.Window.ID) != nil {
		root, _ = dock.Prune(root, req.Window.ID)
	}

	newRoot, ok := dock.Insert(root, req.TargetWindowID, req.Window.ID, req.Direction, ratio)
	if !ok {
		return fmt.Errorf("%w: target leaf %q not in layout", ErrDockFailed, req.TargetWindowID)
	}

	if _, registered := w.windows[req.Window.ID]; !registered {
		w.registerWindow(req.Window)
	}
	w.relationships.Add(entity.DockingRelationship{
		SourceWindowID: req.Window.ID,
		TargetWindowID: req.TargetWindowID,
		Direction:      req.Direction,
	})
	w.root = newRoot

	log.Debug().
		Str("window_id", req.Window.ID).
		Str("target_id", req.TargetWindowID).
		Str("direction", string(req.Direction)).
		Float64("ratio", ratio).
		Msg("window docked")
	w.emit(Event{Type: EventWindowDocked, WorkspaceID: w.id, WindowID: req.Window.ID})
	return nil
}

// MagneticDockRequest describes a magnetic dock: Bounds is the dragged
// window's rectangle and Surface the viewport the current layout is
// projected onto. A Threshold <= 0 selects the default snap distance.
type MagneticDockRequest struct {
	Window    entity.WindowState
	Bounds    entity.Rect
	Surface   entity.Rect
	Threshold float64
}

// DockMagnetically projects the current layout onto the request surface,
// resolves a docking intent against every placed window and docks onto the
// best candidate with a size-derived split ratio. Fails when no candidate
// qualifies.
func (w *Workspace) DockMagnetically(ctx context.Context, req MagneticDockRequest) error {
	log := logging.FromContext(logging.WithWorkspaceID(ctx, w.id))

	var (
		best       dock.Intent
		bestTarget entity.Placement
		found      bool
	)
	for _, placement := range w.ComputePlacements(req.Surface) {
		if placement.ID == req.Window.ID {
			continue
		}
		intent, ok := dock.ResolveIntent(req.Bounds, placement.Bounds, req.Threshold)
		if !ok {
			continue
		}
		if !found || intent.Distance < best.Distance ||
			(intent.Distance == best.Distance && intent.Overlap > best.Overlap) {
			best = intent
			bestTarget = placement
			found = true
		}
	}
	if !found {
		return fmt.Errorf("%w: no magnetic candidate within threshold", ErrDockFailed)
	}

	log.Debug().
		Str("window_id", req.Window.ID).
		Str("target_id", bestTarget.ID).
		Str("direction", string(best.Direction)).
		Float64("distance", best.Distance).
		Float64("overlap", best.Overlap).
		Msg("magnetic intent resolved")

	return w.Dock(ctx, DockRequest{
		Window:         req.Window,
		TargetWindowID: bestTarget.ID,
		Direction:      best.Direction,
		Ratio:          dock.SplitRatio(best.Direction, req.Bounds, bestTarget.Bounds),
	})
}

// RemoveWindow deregisters a window, prunes its leaf, purges every
// relationship involving it and reassigns the active window when needed.
// Removing an unknown id is a no-op.
func (w *Workspace) RemoveWindow(ctx context.Context, id string) error {
	log := logging.FromContext(logging.WithWorkspaceID(ctx, w.id))

	if _, ok := w.windows[id]; !ok {
		return nil
	}

	newRoot, _ := dock.Prune(w.root, id)
	w.root = newRoot

	delete(w.windows, id)
	for i, windowID := range w.windowOrder {
		if windowID == id {
			w.windowOrder = append(w.windowOrder[:i], w.windowOrder[i+1:]...)
			break
		}
	}
	purged := w.relationships.PurgeWindow(id)

	log.Debug().
		Str("window_id", id).
		Int("purged_relationships", purged).
		Msg("window removed")
	w.emit(Event{Type: EventWindowRemoved, WorkspaceID: w.id, WindowID: id})

	if w.activeWindowID == id {
		next := ""
		if len(w.windowOrder) > 0 {
			next = w.windowOrder[0]
		}
		w.setActive(next)
	}
	return nil
}

// SetActiveWindow focuses the given window, or clears the active window
// when id is empty. Fails when a non-empty id is not registered.
func (w *Workspace) SetActiveWindow(_ context.Context, id string) error {
	if id != "" {
		if _, ok := w.windows[id]; !ok {
			return fmt.Errorf("%w: %q", ErrUnknownWindow, id)
		}
	}
	w.setActive(id)
	return nil
}

func (w *Workspace) setActive(id string) {
	if w.activeWindowID == id {
		return
	}
	w.activeWindowID = id
	w.emit(Event{Type: EventActiveWindowChanged, WorkspaceID: w.id, WindowID: id})
}

func (w *Workspace) registerWindow(win entity.WindowState) {
	w.windows[win.ID] = win
	w.windowOrder = append(w.windowOrder, win.ID)
}

// Snapshot captures the full persistable state of the workspace.
func (w *Workspace) Snapshot() entity.WorkspaceSnapshot {
	return entity.WorkspaceSnapshot{
		ID:             w.id,
		Name:           w.name,
		Layout:         w.root,
		Windows:        w.Windows(),
		ActiveWindowID: w.activeWindowID,
		Relationships:  w.relationships.All(),
	}
}

// FromSnapshot reconstructs a workspace from its persisted state. Duplicate
// window ids or an active id that references no registered window are
// rejected as invalid snapshots.
func FromSnapshot(snap entity.WorkspaceSnapshot) (*Workspace, error) {
	ws, err := New(snap.ID, snap.Name, snap.Layout, snap.Windows)
	if err != nil {
		return nil, fmt.Errorf("%w: workspace %q: %v", entity.ErrInvalidSnapshot, snap.ID, err)
	}
	if snap.ActiveWindowID != "" {
		if _, ok := ws.windows[snap.ActiveWindowID]; !ok {
			return nil, fmt.Errorf("%w: workspace %q: active window %q not registered",
				entity.ErrInvalidSnapshot, snap.ID, snap.ActiveWindowID)
		}
		ws.activeWindowID = snap.ActiveWindowID
	}
	for _, rel := range snap.Relationships {
		ws.relationships.Add(rel)
	}
	return ws, nil
}

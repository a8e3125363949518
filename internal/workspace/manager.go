package workspace

import (
	"context"
	"fmt"

	"github.com/bnema/dockwork/internal/domain/entity"
	"github.com/bnema/dockwork/internal/logging"
)

// Manager is a registry of workspaces keyed by id. It tracks the active
// workspace and forwards every registered workspace's events to its own
// listeners, giving collaborators a single change stream to observe.
type Manager struct {
	order      []string
	workspaces map[string]*Workspace
	activeID   string

	// attached records workspaces that already carry a forwarding
	// subscription. Workspace subscriptions cannot be removed, so a
	// workspace that is removed and re-added must not be subscribed twice.
	attached map[*Workspace]struct{}

	listeners []Listener
}

// NewManager creates a manager from an initial workspace list. Workspace ids
// must be unique. The active id must name one of the initial workspaces; when
// empty the first workspace becomes active.
func NewManager(initial []*Workspace, activeID string) (*Manager, error) {
	m := &Manager{
		workspaces: make(map[string]*Workspace, len(initial)),
		attached:   make(map[*Workspace]struct{}, len(initial)),
	}
	for _, ws := range initial {
		if _, ok := m.workspaces[ws.ID()]; ok {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateWorkspace, ws.ID())
		}
		m.workspaces[ws.ID()] = ws
		m.order = append(m.order, ws.ID())
		m.attach(ws)
	}
	switch {
	case activeID != "":
		if _, ok := m.workspaces[activeID]; !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownWorkspace, activeID)
		}
		m.activeID = activeID
	case len(m.order) > 0:
		m.activeID = m.order[0]
	}
	return m, nil
}

// Subscribe registers a listener for manager events and for the events of
// every registered workspace.
func (m *Manager) Subscribe(fn Listener) {
	m.listeners = append(m.listeners, fn)
}

func (m *Manager) emit(e Event) {
	for _, fn := range m.listeners {
		fn(e)
	}
}

// attach forwards a workspace's events to the manager's listeners for as
// long as the workspace stays registered. The subscription survives removal
// (it simply stops matching the registry guard) and is reused when the same
// workspace is registered again.
func (m *Manager) attach(ws *Workspace) {
	if _, ok := m.attached[ws]; ok {
		return
	}
	m.attached[ws] = struct{}{}
	ws.Subscribe(func(e Event) {
		if m.workspaces[e.WorkspaceID] == ws {
			m.emit(e)
		}
	})
}

// Workspace returns the workspace registered under id.
func (m *Manager) Workspace(id string) (*Workspace, bool) {
	ws, ok := m.workspaces[id]
	return ws, ok
}

// Workspaces returns all workspaces in registration order.
func (m *Manager) Workspaces() []*Workspace {
	out := make([]*Workspace, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.workspaces[id])
	}
	return out
}

// ActiveWorkspaceID returns the active workspace id, or "" when none.
func (m *Manager) ActiveWorkspaceID() string { return m.activeID }

// ActiveWorkspace returns the active workspace, or nil when none.
func (m *Manager) ActiveWorkspace() *Workspace {
	if m.activeID == "" {
		return nil
	}
	return m.workspaces[m.activeID]
}

// AddWorkspace registers a workspace. It becomes active when activate is
// set, or automatically when no workspace was active.
func (m *Manager) AddWorkspace(ctx context.Context, ws *Workspace, activate bool) error {
	log := logging.FromContext(ctx)

	if _, ok := m.workspaces[ws.ID()]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateWorkspace, ws.ID())
	}
	m.workspaces[ws.ID()] = ws
	m.order = append(m.order, ws.ID())
	m.attach(ws)

	log.Debug().Str("workspace_id", ws.ID()).Msg("workspace added")
	m.emit(Event{Type: EventWorkspaceAdded, WorkspaceID: ws.ID()})

	if activate || m.activeID == "" {
		m.setActive(ws.ID())
	}
	return nil
}

// RemoveWorkspace deregisters a workspace; unknown ids are a no-op. When the
// removed workspace was active, the first remaining workspace in
// registration order becomes active (or none).
func (m *Manager) RemoveWorkspace(ctx context.Context, id string) error {
	log := logging.FromContext(ctx)

	if _, ok := m.workspaces[id]; !ok {
		return nil
	}
	delete(m.workspaces, id)
	for i, wsID := range m.order {
		if wsID == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}

	log.Debug().Str("workspace_id", id).Msg("workspace removed")
	m.emit(Event{Type: EventWorkspaceRemoved, WorkspaceID: id})

	if m.activeID == id {
		next := ""
		if len(m.order) > 0 {
			next = m.order[0]
		}
		m.setActive(next)
	}
	return nil
}

// SetActiveWorkspace activates the given workspace, or clears the active
// workspace when id is empty. Fails when a non-empty id is unknown.
func (m *Manager) SetActiveWorkspace(_ context.Context, id string) error {
	if id != "" {
		if _, ok := m.workspaces[id]; !ok {
			return fmt.Errorf("%w: %q", ErrUnknownWorkspace, id)
		}
	}
	m.setActive(id)
	return nil
}

// setActive swaps the active workspace id, emitting only on actual change.
func (m *Manager) setActive(id string) {
	if m.activeID == id {
		return
	}
	m.activeID = id
	m.emit(Event{Type: EventActiveWorkspaceChanged, WorkspaceID: id})
}

// Snapshot captures the whole collection through each workspace's own
// serializer.
func (m *Manager) Snapshot() entity.CollectionSnapshot {
	snap := entity.CollectionSnapshot{
		ActiveWorkspaceID: m.activeID,
		Workspaces:        make([]entity.WorkspaceSnapshot, 0, len(m.order)),
	}
	for _, id := range m.order {
		snap.Workspaces = append(snap.Workspaces, m.workspaces[id].Snapshot())
	}
	return snap
}

// ManagerFromSnapshot reconstructs the whole collection from its persisted
// state.
func ManagerFromSnapshot(snap entity.CollectionSnapshot) (*Manager, error) {
	workspaces := make([]*Workspace, 0, len(snap.Workspaces))
	for _, wsSnap := range snap.Workspaces {
		ws, err := FromSnapshot(wsSnap)
		if err != nil {
			return nil, err
		}
		workspaces = append(workspaces, ws)
	}
	m, err := NewManager(workspaces, snap.ActiveWorkspaceID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrInvalidSnapshot, err)
	}
	// A collection persisted with no active workspace (cleared via
	// SetActiveWorkspace) stays that way; the first-workspace default is
	// for new collections only, so restore round-trips are identical.
	if snap.ActiveWorkspaceID == "" {
		m.activeID = ""
	}
	return m, nil
}

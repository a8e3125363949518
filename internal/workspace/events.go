package workspace

// EventType identifies a workspace or manager change notification.
type EventType string

const (
	EventWindowAdded            EventType = "window-added"
	EventWindowDocked           EventType = "window-docked"
	EventWindowRemoved          EventType = "window-removed"
	EventActiveWindowChanged    EventType = "active-window-changed"
	EventWorkspaceAdded         EventType = "workspace-added"
	EventWorkspaceRemoved       EventType = "workspace-removed"
	EventActiveWorkspaceChanged EventType = "active-workspace-changed"
)

// Event is a change notification emitted by a Workspace or Manager.
// WindowID is set for window-level events only.
type Event struct {
	Type        EventType
	WorkspaceID string
	WindowID    string
}

// Listener receives events synchronously, on the stack of the mutating
// call, after the mutation has committed. Listeners observe fully
// consistent state and must not block.
type Listener func(Event)

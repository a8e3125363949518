package entity

// WorkspaceSnapshot is the full persistable state of one workspace. The
// field names form a stable wire contract and must not change.
type WorkspaceSnapshot struct {
	ID             string                `json:"id"`
	Name           string                `json:"name"`
	Layout         *DockNode             `json:"layout"`
	Windows        []WindowState         `json:"windows"`
	ActiveWindowID string                `json:"activeWindowId,omitempty"`
	Relationships  []DockingRelationship `json:"relationships"`
}

// CollectionSnapshot is the persistable state of a whole workspace
// collection.
type CollectionSnapshot struct {
	ActiveWorkspaceID string              `json:"activeWorkspaceId,omitempty"`
	Workspaces        []WorkspaceSnapshot `json:"workspaces"`
}

// WindowCount returns the total number of windows across all workspaces.
func (s *CollectionSnapshot) WindowCount() int {
	count := 0
	for _, ws := range s.Workspaces {
		count += len(ws.Windows)
	}
	return count
}

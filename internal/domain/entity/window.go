package entity

// WindowState describes a single window registered in a workspace.
// Metadata is an opaque key/value bag carried through serialization but
// never interpreted by the engine.
type WindowState struct {
	ID       string            `json:"id"`
	Title    string            `json:"title"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

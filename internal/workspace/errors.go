package workspace

import "errors"

var (
	// ErrUnknownWindow is returned by operations referencing a window id
	// that is not registered in the workspace.
	ErrUnknownWindow = errors.New("unknown window")

	// ErrDuplicateWindow is returned when adding a window whose id is
	// already registered.
	ErrDuplicateWindow = errors.New("window already registered")

	// ErrUnknownWorkspace is returned by manager operations on a missing
	// workspace id.
	ErrUnknownWorkspace = errors.New("unknown workspace")

	// ErrDuplicateWorkspace is returned when registering a workspace whose
	// id is already present.
	ErrDuplicateWorkspace = errors.New("workspace already registered")

	// ErrDockFailed is returned when the target leaf cannot be located
	// during a tree insert, or when no magnetic candidate qualifies.
	ErrDockFailed = errors.New("dock failed")
)

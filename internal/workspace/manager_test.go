package workspace_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/dockwork/internal/domain/entity"
	"github.com/bnema/dockwork/internal/workspace"
)

func newWorkspace(t *testing.T, id string) *workspace.Workspace {
	t.Helper()
	ws, err := workspace.New(id, "Workspace "+id, entity.NewLeaf(id+"-win"),
		[]entity.WindowState{{ID: id + "-win", Title: "Main"}})
	require.NoError(t, err)
	return ws
}

func TestNewManager(t *testing.T) {
	a := newWorkspace(t, "a")
	b := newWorkspace(t, "b")

	t.Run("active defaults to first workspace", func(t *testing.T) {
		m, err := workspace.NewManager([]*workspace.Workspace{a, b}, "")
		require.NoError(t, err)
		assert.Equal(t, "a", m.ActiveWorkspaceID())
	})

	t.Run("explicit active id", func(t *testing.T) {
		m, err := workspace.NewManager([]*workspace.Workspace{a, b}, "b")
		require.NoError(t, err)
		assert.Equal(t, "b", m.ActiveWorkspaceID())
	})

	t.Run("unknown active id fails", func(t *testing.T) {
		_, err := workspace.NewManager([]*workspace.Workspace{a}, "zz")
		require.ErrorIs(t, err, workspace.ErrUnknownWorkspace)
	})

	t.Run("duplicate ids fail", func(t *testing.T) {
		_, err := workspace.NewManager([]*workspace.Workspace{a, a}, "")
		require.ErrorIs(t, err, workspace.ErrDuplicateWorkspace)
	})

	t.Run("empty manager has no active workspace", func(t *testing.T) {
		m, err := workspace.NewManager(nil, "")
		require.NoError(t, err)
		assert.Empty(t, m.ActiveWorkspaceID())
		assert.Nil(t, m.ActiveWorkspace())
	})
}

func TestManager_AddWorkspace(t *testing.T) {
	ctx := testCtx()
	m, err := workspace.NewManager(nil, "")
	require.NoError(t, err)

	var events []workspace.Event
	m.Subscribe(func(e workspace.Event) { events = append(events, e) })

	a := newWorkspace(t, "a")
	require.NoError(t, m.AddWorkspace(ctx, a, false))
	// First workspace activates automatically.
	assert.Equal(t, "a", m.ActiveWorkspaceID())
	require.Len(t, events, 2)
	assert.Equal(t, workspace.EventWorkspaceAdded, events[0].Type)
	assert.Equal(t, workspace.EventActiveWorkspaceChanged, events[1].Type)

	b := newWorkspace(t, "b")
	require.NoError(t, m.AddWorkspace(ctx, b, false))
	assert.Equal(t, "a", m.ActiveWorkspaceID(), "adding without activate keeps the current active")

	require.ErrorIs(t, m.AddWorkspace(ctx, newWorkspace(t, "a"), false), workspace.ErrDuplicateWorkspace)

	c := newWorkspace(t, "c")
	require.NoError(t, m.AddWorkspace(ctx, c, true))
	assert.Equal(t, "c", m.ActiveWorkspaceID())
}

func TestManager_RemoveWorkspace_ReactivatesFirstRemaining(t *testing.T) {
	ctx := testCtx()
	a := newWorkspace(t, "a")
	b := newWorkspace(t, "b")
	m, err := workspace.NewManager([]*workspace.Workspace{a, b}, "a")
	require.NoError(t, err)

	var activeChanges int
	m.Subscribe(func(e workspace.Event) {
		if e.Type == workspace.EventActiveWorkspaceChanged {
			activeChanges++
		}
	})

	// Activate B, then remove it: A (first remaining entry) is re-activated
	// and active-workspace-changed fires exactly twice.
	require.NoError(t, m.SetActiveWorkspace(ctx, "b"))
	require.NoError(t, m.RemoveWorkspace(ctx, "b"))

	assert.Equal(t, "a", m.ActiveWorkspaceID())
	assert.Equal(t, 2, activeChanges)
}

func TestManager_RemoveWorkspace(t *testing.T) {
	ctx := testCtx()
	a := newWorkspace(t, "a")
	b := newWorkspace(t, "b")
	m, err := workspace.NewManager([]*workspace.Workspace{a, b}, "a")
	require.NoError(t, err)

	// Removing a non-active workspace keeps the active id.
	require.NoError(t, m.RemoveWorkspace(ctx, "b"))
	assert.Equal(t, "a", m.ActiveWorkspaceID())

	// Unknown id is a no-op.
	require.NoError(t, m.RemoveWorkspace(ctx, "zz"))

	// Removing the last workspace clears the active id.
	require.NoError(t, m.RemoveWorkspace(ctx, "a"))
	assert.Empty(t, m.ActiveWorkspaceID())
	assert.Empty(t, m.Workspaces())
}

func TestManager_SetActiveWorkspace(t *testing.T) {
	ctx := testCtx()
	a := newWorkspace(t, "a")
	m, err := workspace.NewManager([]*workspace.Workspace{a}, "")
	require.NoError(t, err)

	require.ErrorIs(t, m.SetActiveWorkspace(ctx, "zz"), workspace.ErrUnknownWorkspace)
	assert.Equal(t, "a", m.ActiveWorkspaceID())
}

func TestManager_ForwardsWorkspaceEvents(t *testing.T) {
	ctx := testCtx()
	a := newWorkspace(t, "a")
	m, err := workspace.NewManager([]*workspace.Workspace{a}, "")
	require.NoError(t, err)

	var events []workspace.Event
	m.Subscribe(func(e workspace.Event) { events = append(events, e) })

	require.NoError(t, a.AddWindow(ctx, entity.WindowState{ID: "extra", Title: "Extra"}, ""))
	require.NotEmpty(t, events)
	assert.Equal(t, workspace.EventWindowAdded, events[0].Type)
	assert.Equal(t, "a", events[0].WorkspaceID)

	// Events from a removed workspace are no longer forwarded.
	require.NoError(t, m.RemoveWorkspace(ctx, "a"))
	events = nil
	require.NoError(t, a.RemoveWindow(ctx, "extra"))
	assert.Empty(t, events)
}

func TestManager_ReaddedWorkspaceForwardsEventsOnce(t *testing.T) {
	ctx := testCtx()
	a := newWorkspace(t, "a")
	b := newWorkspace(t, "b")
	m, err := workspace.NewManager([]*workspace.Workspace{a, b}, "")
	require.NoError(t, err)

	require.NoError(t, m.RemoveWorkspace(ctx, "a"))
	require.NoError(t, m.AddWorkspace(ctx, a, false))

	var added int
	m.Subscribe(func(e workspace.Event) {
		if e.Type == workspace.EventWindowAdded {
			added++
		}
	})

	require.NoError(t, a.AddWindow(ctx, entity.WindowState{ID: "extra", Title: "Extra"}, ""))
	assert.Equal(t, 1, added, "re-added workspace must not be forwarded twice")
}

func TestManager_SnapshotRoundTrip(t *testing.T) {
	ctx := testCtx()
	a := newWorkspace(t, "a")
	b := newWorkspace(t, "b")
	m, err := workspace.NewManager([]*workspace.Workspace{a, b}, "b")
	require.NoError(t, err)
	require.NoError(t, a.Dock(ctx, workspace.DockRequest{
		Window:         entity.WindowState{ID: "side", Title: "Side"},
		TargetWindowID: "a-win",
		Direction:      entity.DockRight,
		Ratio:          0.6,
	}))

	snap := m.Snapshot()
	data, err := json.Marshal(snap)
	require.NoError(t, err)

	var decoded entity.CollectionSnapshot
	require.NoError(t, json.Unmarshal(data, &decoded))
	restored, err := workspace.ManagerFromSnapshot(decoded)
	require.NoError(t, err)

	again, err := json.Marshal(restored.Snapshot())
	require.NoError(t, err)
	assert.JSONEq(t, string(data), string(again))

	assert.Equal(t, "b", restored.ActiveWorkspaceID())
	require.Len(t, restored.Workspaces(), 2)
	ra, ok := restored.Workspace("a")
	require.True(t, ok)
	assert.Equal(t, 2, ra.Root().LeafCount())
	assert.Len(t, ra.Relationships(), 1)
}

func TestManager_SnapshotRoundTripClearedActive(t *testing.T) {
	ctx := testCtx()
	a := newWorkspace(t, "a")
	b := newWorkspace(t, "b")
	m, err := workspace.NewManager([]*workspace.Workspace{a, b}, "a")
	require.NoError(t, err)
	require.NoError(t, m.SetActiveWorkspace(ctx, ""))

	snap := m.Snapshot()
	data, err := json.Marshal(snap)
	require.NoError(t, err)

	restored, err := workspace.ManagerFromSnapshot(snap)
	require.NoError(t, err)
	assert.Empty(t, restored.ActiveWorkspaceID())

	again, err := json.Marshal(restored.Snapshot())
	require.NoError(t, err)
	assert.JSONEq(t, string(data), string(again))
}

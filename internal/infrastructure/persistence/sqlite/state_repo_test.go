package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/dockwork/internal/domain/entity"
	"github.com/bnema/dockwork/internal/infrastructure/persistence/sqlite"
	"github.com/bnema/dockwork/internal/logging"
)

func testCtx() context.Context {
	logger := logging.NewFromConfigValues("debug", "console")
	return logging.WithContext(context.Background(), logger)
}

func sampleSnapshot() *entity.CollectionSnapshot {
	return &entity.CollectionSnapshot{
		ActiveWorkspaceID: "ws-1",
		Workspaces: []entity.WorkspaceSnapshot{
			{
				ID:   "ws-1",
				Name: "main",
				Layout: entity.NewSplit(entity.SplitHorizontal, 0.5,
					entity.NewLeaf("a"), entity.NewLeaf("b")),
				Windows: []entity.WindowState{
					{ID: "a", Title: "Editor"},
					{ID: "b", Title: "Terminal", Metadata: map[string]string{"shell": "zsh"}},
				},
				ActiveWindowID: "a",
				Relationships: []entity.DockingRelationship{
					{SourceWindowID: "b", TargetWindowID: "a", Direction: entity.DockRight},
				},
			},
		},
	}
}

func TestStateRepository_CRUD(t *testing.T) {
	ctx := testCtx()
	dbPath := filepath.Join(t.TempDir(), "dockwork.db")

	db, err := sqlite.NewConnection(ctx, dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	repo := sqlite.NewStateRepository(db)

	snap := sampleSnapshot()
	require.NoError(t, repo.SaveSnapshot(ctx, "current", snap))

	got, err := repo.GetSnapshot(ctx, "current")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "ws-1", got.ActiveWorkspaceID)
	require.Len(t, got.Workspaces, 1)
	assert.Equal(t, snap.Workspaces[0].Windows, got.Workspaces[0].Windows)
	assert.Equal(t, snap.Workspaces[0].Relationships, got.Workspaces[0].Relationships)
	require.NotNil(t, got.Workspaces[0].Layout)
	assert.Equal(t, 2, got.Workspaces[0].Layout.LeafCount())

	// Upsert replaces the stored snapshot.
	snap.ActiveWorkspaceID = ""
	snap.Workspaces[0].ActiveWindowID = "b"
	require.NoError(t, repo.SaveSnapshot(ctx, "current", snap))

	got2, err := repo.GetSnapshot(ctx, "current")
	require.NoError(t, err)
	require.NotNil(t, got2)
	assert.Empty(t, got2.ActiveWorkspaceID)
	assert.Equal(t, "b", got2.Workspaces[0].ActiveWindowID)

	states, err := repo.ListStates(ctx)
	require.NoError(t, err)
	require.Len(t, states, 1)
	assert.Equal(t, "current", states[0].ID)
	assert.Equal(t, 1, states[0].WorkspaceCount)
	assert.Equal(t, 2, states[0].WindowCount)

	require.NoError(t, repo.DeleteSnapshot(ctx, "current"))
	gone, err := repo.GetSnapshot(ctx, "current")
	require.NoError(t, err)
	assert.Nil(t, gone)

	// Deleting a missing state is a no-op.
	require.NoError(t, repo.DeleteSnapshot(ctx, "missing"))
}

func TestStateRepository_GetSnapshot_Missing(t *testing.T) {
	ctx := testCtx()
	db, err := sqlite.NewConnection(ctx, filepath.Join(t.TempDir(), "dockwork.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	got, err := sqlite.NewStateRepository(db).GetSnapshot(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestStateRepository_GetSnapshot_CorruptRow(t *testing.T) {
	ctx := testCtx()
	db, err := sqlite.NewConnection(ctx, filepath.Join(t.TempDir(), "dockwork.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.ExecContext(ctx, `
		INSERT INTO workspace_states (id, state_json, workspace_count, window_count, updated_at)
		VALUES ('bad', '{"workspaces":[{"id":"x","layout":{"kind":"blob"}}]}', 1, 0, CURRENT_TIMESTAMP)`)
	require.NoError(t, err)

	_, err = sqlite.NewStateRepository(db).GetSnapshot(ctx, "bad")
	require.ErrorIs(t, err, entity.ErrInvalidSnapshot)
}

func TestStateRepository_ListStates_Ordering(t *testing.T) {
	ctx := testCtx()
	db, err := sqlite.NewConnection(ctx, filepath.Join(t.TempDir(), "dockwork.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	repo := sqlite.NewStateRepository(db)
	require.NoError(t, repo.SaveSnapshot(ctx, "older", &entity.CollectionSnapshot{}))
	require.NoError(t, repo.SaveSnapshot(ctx, "newer", &entity.CollectionSnapshot{}))

	// Bump "newer" well past "older" to make the ordering deterministic.
	// Keep the driver's RFC3339 text format so the lexical ORDER BY stays valid.
	_, err = db.ExecContext(ctx,
		`UPDATE workspace_states SET updated_at = strftime('%Y-%m-%dT%H:%M:%fZ', updated_at, '+1 hour') WHERE id = 'newer'`)
	require.NoError(t, err)

	states, err := repo.ListStates(ctx)
	require.NoError(t, err)
	require.Len(t, states, 2)
	assert.Equal(t, "newer", states[0].ID)
	assert.Equal(t, "older", states[1].ID)
}

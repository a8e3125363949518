package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/bnema/dockwork/internal/domain/entity"
	"github.com/bnema/dockwork/internal/domain/repository"
	"github.com/bnema/dockwork/internal/logging"
)

type stateRepo struct {
	db *sql.DB
}

// NewStateRepository creates a workspace state repository backed by db.
func NewStateRepository(db *sql.DB) repository.StateRepository {
	return &stateRepo{db: db}
}

// SaveSnapshot inserts or replaces the snapshot stored under id.
func (r *stateRepo) SaveSnapshot(ctx context.Context, id string, snap *entity.CollectionSnapshot) error {
	log := logging.FromContext(ctx)
	if id == "" {
		return errors.New("state id cannot be empty")
	}
	if snap == nil {
		return errors.New("snapshot cannot be nil")
	}

	stateJSON, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	log.Debug().
		Str("state_id", id).
		Int("workspace_count", len(snap.Workspaces)).
		Int("window_count", snap.WindowCount()).
		Msg("saving workspace state snapshot")

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO workspace_states (id, state_json, workspace_count, window_count, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			state_json = excluded.state_json,
			workspace_count = excluded.workspace_count,
			window_count = excluded.window_count,
			updated_at = excluded.updated_at`,
		id, string(stateJSON), len(snap.Workspaces), snap.WindowCount(), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("upsert workspace state: %w", err)
	}
	return nil
}

// GetSnapshot returns the snapshot stored under id, or nil when absent.
// A row that fails to decode is reported as an invalid snapshot.
func (r *stateRepo) GetSnapshot(ctx context.Context, id string) (*entity.CollectionSnapshot, error) {
	var stateJSON string
	err := r.db.QueryRowContext(ctx,
		`SELECT state_json FROM workspace_states WHERE id = ?`, id).Scan(&stateJSON)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("query workspace state: %w", err)
	}

	var snap entity.CollectionSnapshot
	if err := json.Unmarshal([]byte(stateJSON), &snap); err != nil {
		if errors.Is(err, entity.ErrInvalidSnapshot) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: state %q: %v", entity.ErrInvalidSnapshot, id, err)
	}
	return &snap, nil
}

// ListStates returns summaries of all stored snapshots, most recent first.
func (r *stateRepo) ListStates(ctx context.Context) ([]repository.StateInfo, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, workspace_count, window_count, updated_at
		FROM workspace_states
		ORDER BY updated_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list workspace states: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var states []repository.StateInfo
	for rows.Next() {
		var info repository.StateInfo
		if err := rows.Scan(&info.ID, &info.WorkspaceCount, &info.WindowCount, &info.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan workspace state row: %w", err)
		}
		states = append(states, info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate workspace states: %w", err)
	}
	return states, nil
}

// DeleteSnapshot removes the snapshot stored under id, if any.
func (r *stateRepo) DeleteSnapshot(ctx context.Context, id string) error {
	log := logging.FromContext(ctx)

	result, err := r.db.ExecContext(ctx, `DELETE FROM workspace_states WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete workspace state: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected > 0 {
		log.Debug().Str("state_id", id).Msg("workspace state deleted")
	}
	return nil
}

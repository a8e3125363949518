// Package repository defines persistence interfaces implemented by the
// infrastructure layer.
package repository

import (
	"context"
	"time"

	"github.com/bnema/dockwork/internal/domain/entity"
)

// StateInfo summarizes a persisted workspace collection snapshot.
type StateInfo struct {
	ID             string
	WorkspaceCount int
	WindowCount    int
	UpdatedAt      time.Time
}

// StateRepository persists workspace collection snapshots keyed by state id.
// The default state id is "current"; additional ids allow named layouts.
type StateRepository interface {
	// SaveSnapshot inserts or replaces the snapshot stored under id.
	SaveSnapshot(ctx context.Context, id string, snap *entity.CollectionSnapshot) error

	// GetSnapshot returns the snapshot stored under id, or nil when absent.
	GetSnapshot(ctx context.Context, id string) (*entity.CollectionSnapshot, error)

	// ListStates returns summaries of all stored snapshots, most recently
	// updated first.
	ListStates(ctx context.Context) ([]StateInfo, error)

	// DeleteSnapshot removes the snapshot stored under id, if any.
	DeleteSnapshot(ctx context.Context, id string) error
}

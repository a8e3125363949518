// Package snapshot provides debounced persistence of workspace state.
// It is a collaborator of the core: it observes manager events and writes
// snapshots only after a mutation has fully committed.
package snapshot

import (
	"context"
	"sync"
	"time"

	"github.com/bnema/dockwork/internal/domain/repository"
	"github.com/bnema/dockwork/internal/logging"
	"github.com/bnema/dockwork/internal/workspace"
)

// DefaultStateID is the state key used for the automatically saved layout.
const DefaultStateID = "current"

// Service debounces workspace state snapshots: every observed change marks
// the state dirty and (re)arms a timer; the snapshot is written once the
// changes settle, and once more on Stop.
type Service struct {
	manager  *workspace.Manager
	repo     repository.StateRepository
	stateID  string
	interval time.Duration

	mu     sync.Mutex
	timer  *time.Timer
	dirty  bool
	ctx    context.Context
	cancel context.CancelFunc
}

// NewService creates a snapshot service persisting manager state under
// stateID. A non-positive interval selects the 5 second default.
func NewService(manager *workspace.Manager, repo repository.StateRepository, stateID string, interval time.Duration) *Service {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	if stateID == "" {
		stateID = DefaultStateID
	}
	return &Service{
		manager:  manager,
		repo:     repo,
		stateID:  stateID,
		interval: interval,
	}
}

// Start subscribes to the manager's change stream and begins debouncing.
func (s *Service) Start(ctx context.Context) {
	s.mu.Lock()
	s.ctx, s.cancel = context.WithCancel(logging.WithComponent(ctx, "snapshot"))
	s.mu.Unlock()

	s.manager.Subscribe(func(workspace.Event) { s.MarkDirty() })
	logging.FromContext(ctx).Debug().
		Dur("interval", s.interval).
		Str("state_id", s.stateID).
		Msg("snapshot service started")
}

// MarkDirty signals that state has changed. Saves are debounced to avoid
// excessive writes during bursts of mutations.
func (s *Service) MarkDirty() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.dirty = true

	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.interval, func() {
		s.mu.Lock()
		ctx := s.ctx
		s.mu.Unlock()

		if ctx == nil || ctx.Err() != nil {
			return
		}
		if err := s.save(ctx); err != nil {
			logging.FromContext(ctx).Error().Err(err).Msg("failed to save workspace snapshot")
		}
	})
}

// SaveNow forces an immediate save when dirty.
func (s *Service) SaveNow(ctx context.Context) error {
	s.mu.Lock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	dirty := s.dirty
	s.mu.Unlock()

	if !dirty {
		return nil
	}
	return s.save(ctx)
}

// Stop cancels the debounce timer and writes any pending state.
func (s *Service) Stop(ctx context.Context) error {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.mu.Unlock()

	return s.SaveNow(ctx)
}

func (s *Service) save(ctx context.Context) error {
	snap := s.manager.Snapshot()

	s.mu.Lock()
	s.dirty = false
	s.mu.Unlock()

	if err := s.repo.SaveSnapshot(ctx, s.stateID, &snap); err != nil {
		s.mu.Lock()
		s.dirty = true
		s.mu.Unlock()
		return err
	}
	return nil
}

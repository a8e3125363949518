package snapshot

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/dockwork/internal/domain/entity"
	"github.com/bnema/dockwork/internal/domain/repository"
	"github.com/bnema/dockwork/internal/workspace"
)

type fakeStateRepo struct {
	mu    sync.Mutex
	saves []entity.CollectionSnapshot
	err   error
}

func (f *fakeStateRepo) SaveSnapshot(_ context.Context, _ string, snap *entity.CollectionSnapshot) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.saves = append(f.saves, *snap)
	return nil
}

func (f *fakeStateRepo) GetSnapshot(context.Context, string) (*entity.CollectionSnapshot, error) {
	return nil, nil
}

func (f *fakeStateRepo) ListStates(context.Context) ([]repository.StateInfo, error) {
	return nil, nil
}

func (f *fakeStateRepo) DeleteSnapshot(context.Context, string) error { return nil }

func (f *fakeStateRepo) saveCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.saves)
}

func newTestManager(t *testing.T) *workspace.Manager {
	t.Helper()
	ws, err := workspace.New("ws-1", "main", nil, nil)
	require.NoError(t, err)
	mgr, err := workspace.NewManager([]*workspace.Workspace{ws}, "")
	require.NoError(t, err)
	return mgr
}

func addWindow(t *testing.T, mgr *workspace.Manager, winID string) {
	t.Helper()
	ws, ok := mgr.Workspace("ws-1")
	require.True(t, ok)
	require.NoError(t, ws.AddWindow(context.Background(), entity.WindowState{ID: winID}, ""))
}

func TestService_SaveNowWhenDirty(t *testing.T) {
	mgr := newTestManager(t)
	repo := &fakeStateRepo{}
	svc := NewService(mgr, repo, "current", time.Hour)
	ctx := context.Background()
	svc.Start(ctx)

	addWindow(t, mgr, "win-1")

	require.NoError(t, svc.SaveNow(ctx))
	require.Equal(t, 1, repo.saveCount())
	assert.Equal(t, 1, repo.saves[0].WindowCount())
}

func TestService_SaveNowCleanIsNoop(t *testing.T) {
	mgr := newTestManager(t)
	repo := &fakeStateRepo{}
	svc := NewService(mgr, repo, "current", time.Hour)
	svc.Start(context.Background())

	require.NoError(t, svc.SaveNow(context.Background()))
	assert.Zero(t, repo.saveCount())
}

func TestService_DebouncedSave(t *testing.T) {
	mgr := newTestManager(t)
	repo := &fakeStateRepo{}
	svc := NewService(mgr, repo, "current", 10*time.Millisecond)
	ctx := context.Background()
	svc.Start(ctx)

	// A burst of changes collapses into a single write.
	addWindow(t, mgr, "win-1")
	addWindow(t, mgr, "win-2")

	require.Eventually(t, func() bool {
		return repo.saveCount() == 1
	}, time.Second, 5*time.Millisecond)

	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, 1, repo.saveCount())
}

func TestService_StopFlushesPendingState(t *testing.T) {
	mgr := newTestManager(t)
	repo := &fakeStateRepo{}
	svc := NewService(mgr, repo, "current", time.Hour)
	ctx := context.Background()
	svc.Start(ctx)

	addWindow(t, mgr, "win-1")

	require.NoError(t, svc.Stop(ctx))
	assert.Equal(t, 1, repo.saveCount())
}

func TestService_FailedSaveStaysDirty(t *testing.T) {
	mgr := newTestManager(t)
	repo := &fakeStateRepo{err: assert.AnError}
	svc := NewService(mgr, repo, "current", time.Hour)
	ctx := context.Background()
	svc.Start(ctx)

	addWindow(t, mgr, "win-1")
	require.Error(t, svc.SaveNow(ctx))

	repo.mu.Lock()
	repo.err = nil
	repo.mu.Unlock()

	require.NoError(t, svc.SaveNow(ctx))
	assert.Equal(t, 1, repo.saveCount())
}

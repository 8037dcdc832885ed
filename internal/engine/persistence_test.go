package engine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Qenawi/idle-mining/internal/infra/storage"
	"github.com/Qenawi/idle-mining/internal/platform/logger"
)

func TestLoadFrom_EmptyStartsFresh(t *testing.T) {
	e := newTestEngine(noLuck)
	e.state.Cash = 5

	report := e.LoadFrom(context.Background(), storage.NewMemoryRepository(), time.Now())

	assert.Zero(t, report.Earnings)
	assert.Equal(t, 1000.0, e.Snapshot().Cash)
}

func TestLoadFrom_CorruptSaveStartsFresh(t *testing.T) {
	repo := storage.NewMemoryRepository()
	repo.Put([]byte(`{"schemaVersion": "three"}`), time.Now())
	e := newTestEngine(noLuck)

	report := e.LoadFrom(context.Background(), repo, time.Now())

	assert.Zero(t, report.Earnings)
	assert.Len(t, e.Snapshot().Sites, 1)
}

func TestLoadFrom_MisnumberedSiteStartsFresh(t *testing.T) {
	ctx := context.Background()
	repo := storage.NewMemoryRepository()

	bad := newTestEngine(noLuck)
	bad.state.Sites[0].ID = 3
	bad.state.Sites[0].Accumulated = 500
	require.NoError(t, bad.SaveTo(ctx, repo, time.Now()))

	e := newTestEngine(noLuck)
	e.LoadFrom(ctx, repo, time.Now())

	st := e.Snapshot()
	require.Len(t, st.Sites, 1)
	assert.Equal(t, 0, st.Sites[0].ID)
	assert.Zero(t, st.Sites[0].Accumulated)

	for i := 0; i < 2000; i++ {
		e.Step(0.1)
	}
	assert.Greater(t, e.Snapshot().Cash, 1000.0)
}

func TestSaveThenLoad_CreditsOfflineGap(t *testing.T) {
	ctx := context.Background()
	repo := storage.NewMemoryRepository()
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	first := newTestEngine(noLuck)
	require.NoError(t, first.SaveTo(ctx, repo, at))

	second := newTestEngine(noLuck)
	report := second.LoadFrom(ctx, repo, at.Add(time.Minute))

	assert.Equal(t, time.Minute, report.Elapsed)
	assert.Equal(t, 6000.0, report.Earnings)
	assert.Equal(t, 7000.0, second.Snapshot().Cash)
}

func TestResetSave_ClearsRepository(t *testing.T) {
	ctx := context.Background()
	repo := storage.NewMemoryRepository()
	e := newTestEngine(noLuck)
	e.state.Cash = 1
	require.NoError(t, e.SaveTo(ctx, repo, time.Now()))

	require.NoError(t, e.ResetSave(ctx, repo))

	_, err := repo.Load(ctx)
	assert.ErrorIs(t, err, storage.ErrNoSave)
	assert.Equal(t, 1000.0, e.Snapshot().Cash)
}

func TestSaver_SavesOnShutdown(t *testing.T) {
	repo := storage.NewMemoryRepository()
	e := newTestEngine(noLuck)
	e.state.Cash = 321
	clock := &fakeClock{now: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)}
	saver := NewSaver(e, repo, clock, time.Hour, logger.NewDiscard())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		saver.Start(ctx)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("saver did not stop")
	}

	saved, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 321.0, saved.State.Cash)
	assert.Equal(t, clock.now.UnixMilli(), saved.LastSavedMillis)
}

// Package engine - persistence.go
// Loading at startup and the periodic save side channel.
package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Qenawi/idle-mining/internal/infra/storage"
	"github.com/Qenawi/idle-mining/internal/platform/logger"
	"github.com/Qenawi/idle-mining/internal/platform/metrics"
)

// LoadFrom restores the saved economy and credits the offline gap up to now.
// A missing, unreadable or unmigratable save starts a fresh economy instead.
func (e *Engine) LoadFrom(ctx context.Context, repo storage.SaveRepository, now time.Time) OfflineReport {
	saved, err := repo.Load(ctx)
	if err != nil {
		if !errors.Is(err, storage.ErrNoSave) {
			e.logger.WithError(err).Error("Failed to load saved game, starting fresh")
		} else {
			e.logger.Info("No saved game, starting fresh")
		}
		e.mu.Lock()
		e.state = e.balance.InitialState()
		e.offline = OfflineReport{}
		e.mu.Unlock()
		return OfflineReport{}
	}
	return e.Restore(saved.State, saved.SavedAt(), now)
}

// SaveTo writes a snapshot stamped at now.
func (e *Engine) SaveTo(ctx context.Context, repo storage.SaveRepository, now time.Time) error {
	if err := repo.Save(ctx, e.Snapshot(), now); err != nil {
		return fmt.Errorf("save economy: %w", err)
	}
	return nil
}

// ResetSave returns the economy to its initial state and deletes the save.
func (e *Engine) ResetSave(ctx context.Context, repo storage.SaveRepository) error {
	e.Reset()
	if err := repo.Clear(ctx); err != nil {
		return fmt.Errorf("clear save: %w", err)
	}
	return nil
}

// Saver persists the engine every interval and once more on shutdown.
type Saver struct {
	engine   *Engine
	repo     storage.SaveRepository
	clock    Clock
	interval time.Duration
	logger   *logger.Logger
}

func NewSaver(engine *Engine, repo storage.SaveRepository, clock Clock, interval time.Duration, log *logger.Logger) *Saver {
	if clock == nil {
		clock = RealClock{}
	}
	if interval <= 0 {
		interval = 5 * time.Second
	}
	return &Saver{
		engine:   engine,
		repo:     repo,
		clock:    clock,
		interval: interval,
		logger:   log,
	}
}

// Start saves on every interval until ctx is done, then saves a final time. Call in a goroutine.
func (s *Saver) Start(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			final, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			if err := s.SaveNow(final); err == nil {
				s.logger.Info("Final save written on shutdown")
			}
			cancel()
			return
		case <-ticker.C:
			_ = s.SaveNow(ctx)
		}
	}
}

// SaveNow writes one snapshot. Failures are logged and counted, never fatal.
func (s *Saver) SaveNow(ctx context.Context) error {
	err := s.engine.SaveTo(ctx, s.repo, s.clock.Now())
	metrics.Get().RecordSave(err == nil)
	if err != nil {
		s.logger.WithError(err).Error("Periodic save failed")
	}
	return err
}

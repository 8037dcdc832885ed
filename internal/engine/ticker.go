package engine

import (
	"context"
	"time"

	"github.com/Qenawi/idle-mining/internal/platform/logger"
	"github.com/Qenawi/idle-mining/internal/platform/metrics"
)

// Ticker drives Engine.Step at a fixed period, feeding it the real elapsed time.
type Ticker struct {
	engine   *Engine
	clock    Clock
	interval time.Duration
	logger   *logger.Logger
	last     time.Time
	stopChan chan struct{}
}

// NewTicker creates a ticker stepping engine every interval.
func NewTicker(engine *Engine, clock Clock, interval time.Duration, log *logger.Logger) *Ticker {
	if clock == nil {
		clock = RealClock{}
	}
	if interval <= 0 {
		interval = engine.Balance().TickInterval()
	}
	return &Ticker{
		engine:   engine,
		clock:    clock,
		interval: interval,
		logger:   log,
		stopChan: make(chan struct{}),
	}
}

// Start begins the game loop. Call in a goroutine.
func (t *Ticker) Start(ctx context.Context) {
	t.logger.Info("Engine Ticker started every " + t.interval.String())

	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()
	t.last = t.clock.Now()

	for {
		select {
		case <-ctx.Done():
			t.logger.Info("Engine Ticker stopped by context.")
			return
		case <-t.stopChan:
			t.logger.Info("Engine Ticker stopped manually.")
			return
		case <-ticker.C:
			t.tick()
		}
	}
}

// Stop gracefully stops the ticker.
func (t *Ticker) Stop() {
	close(t.stopChan)
}

// tick steps the engine by the wall time since the previous tick.
func (t *Ticker) tick() {
	now := t.clock.Now()
	dt := now.Sub(t.last).Seconds()
	t.last = now

	start := time.Now()
	t.engine.Step(dt)
	metrics.Get().RecordTick(time.Since(start))
}

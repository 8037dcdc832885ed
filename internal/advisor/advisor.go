// Package advisor turns a read-only economy snapshot into one short strategy tip.
// It never touches the engine: callers hand it a Snapshot and get a string back.
package advisor

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Qenawi/idle-mining/internal/infra/ai"
	"github.com/Qenawi/idle-mining/internal/infra/cache"
	"github.com/Qenawi/idle-mining/internal/platform/logger"
	"github.com/Qenawi/idle-mining/internal/platform/metrics"
)

// ErrAdvisorUnavailable is the user-facing failure for any provider problem.
var ErrAdvisorUnavailable = errors.New("Could not get a tip from the AI advisor. Please try again later.")

// DefaultTimeout bounds a single provider round trip.
const DefaultTimeout = 20 * time.Second

// Advisor asks an LLM provider for tips and remembers recent answers.
type Advisor struct {
	provider ai.LLMProvider
	tips     *cache.TipCache
	logger   *logger.Logger
	timeout  time.Duration
}

// NewAdvisor creates an advisor. tips may be nil to disable caching.
func NewAdvisor(provider ai.LLMProvider, tips *cache.TipCache, log *logger.Logger) *Advisor {
	if log == nil {
		log = logger.NewDiscard()
	}
	return &Advisor{
		provider: provider,
		tips:     tips,
		logger:   log,
		timeout:  DefaultTimeout,
	}
}

// Available reports whether a configured provider is behind the advisor.
func (a *Advisor) Available() bool {
	return a.provider != nil && a.provider.IsAvailable()
}

// Tip returns one trimmed tip for snap, or ErrAdvisorUnavailable.
func (a *Advisor) Tip(ctx context.Context, snap Snapshot) (string, error) {
	summary := snap.Summary()

	if a.tips != nil {
		if tip, ok := a.tips.Get(summary); ok {
			metrics.Get().RecordLLMCacheHit()
			return tip, nil
		}
	}

	if !a.Available() {
		metrics.Get().RecordLLMFailure()
		a.logger.Warn("Advisor requested but no LLM provider is configured")
		return "", ErrAdvisorUnavailable
	}

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	resp, err := a.provider.Complete(ctx, ai.TipRequest(summary))
	if err != nil {
		metrics.Get().RecordLLMFailure()
		a.logger.WithFields(map[string]interface{}{
			"provider": a.provider.Name(),
		}).WithError(err).Error("Advisor request failed")
		return "", ErrAdvisorUnavailable
	}
	metrics.Get().RecordLLMCall(resp.TotalTokens, resp.CostUSD, resp.Latency)

	tip := strings.TrimSpace(resp.Content)
	if tip == "" {
		metrics.Get().RecordLLMFailure()
		a.logger.Warn("Advisor returned an empty tip")
		return "", ErrAdvisorUnavailable
	}

	if a.tips != nil {
		a.tips.Set(summary, tip)
	}
	a.logger.Event("ADVICE", a.provider.Name(), tip)
	return tip, nil
}

// Package cache provides in-process caching for quick advisor reads.
// Tips are keyed by the rendered economy summary and are never the source of truth.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultTipTTL is how long an advisor tip stays fresh.
const DefaultTipTTL = 2 * time.Minute

type tipEntry struct {
	tip      string
	storedAt time.Time
}

// TipCache remembers recent advisor tips per economy summary.
type TipCache struct {
	mu    sync.Mutex
	lru   *lru.Cache[string, tipEntry]
	ttl   time.Duration
	clock func() time.Time
}

// NewTipCache creates a cache holding at most size tips for ttl each.
func NewTipCache(size int, ttl time.Duration) (*TipCache, error) {
	if size <= 0 {
		size = 128
	}
	if ttl <= 0 {
		ttl = DefaultTipTTL
	}
	l, err := lru.New[string, tipEntry](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create tip cache: %w", err)
	}
	return &TipCache{lru: l, ttl: ttl, clock: time.Now}, nil
}

// WithClock swaps the time source.
func (c *TipCache) WithClock(clock func() time.Time) *TipCache {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.clock = clock
	return c
}

// Get returns the cached tip for summary if it is still fresh.
func (c *TipCache) Get(summary string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := tipKey(summary)
	entry, ok := c.lru.Get(key)
	if !ok {
		return "", false
	}
	if c.clock().Sub(entry.storedAt) >= c.ttl {
		c.lru.Remove(key)
		return "", false
	}
	return entry.tip, true
}

// Set stores a tip for summary.
func (c *TipCache) Set(summary, tip string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lru.Add(tipKey(summary), tipEntry{tip: tip, storedAt: c.clock()})
}

// Len returns the number of cached tips, fresh or not.
func (c *TipCache) Len() int {
	return c.lru.Len()
}

// Purge drops every tip.
func (c *TipCache) Purge() {
	c.lru.Purge()
}

// tipKey generates the cache key for a summary.
func tipKey(summary string) string {
	sum := sha256.Sum256([]byte(summary))
	return "tip:" + hex.EncodeToString(sum[:8])
}

// Package metrics provides observability for the mine server.
package metrics

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

// Collector gathers performance and economy metrics.
type Collector struct {
	// Tick metrics
	TickCount      int64
	TickLatencySum int64 // nanoseconds
	TickLatencyMax int64
	LastTickTime   time.Time

	// Persistence metrics
	SavesWritten int64
	SaveErrors   int64

	// Economy metrics
	Sales     int64
	SalesCash float64

	// WebSocket metrics
	WSConnectionsActive int64
	WSMessagesIn        int64
	WSMessagesOut       int64
	WSErrors            int64

	// Advisor metrics
	LLMRequests   int64
	LLMFailures   int64
	LLMCacheHits  int64
	LLMTokensUsed int64
	LLMCostUSD    float64
	LLMLatencySum int64

	// System
	StartTime time.Time
	mu        sync.RWMutex
}

// Global collector instance
var collector = &Collector{
	StartTime: time.Now(),
}

// Get returns the global collector.
func Get() *Collector {
	return collector
}

// RecordTick records a tick cycle completion.
func (c *Collector) RecordTick(latency time.Duration) {
	atomic.AddInt64(&c.TickCount, 1)
	atomic.AddInt64(&c.TickLatencySum, int64(latency))

	// Update max (non-atomic but acceptable for metrics)
	if int64(latency) > atomic.LoadInt64(&c.TickLatencyMax) {
		atomic.StoreInt64(&c.TickLatencyMax, int64(latency))
	}

	c.mu.Lock()
	c.LastTickTime = time.Now()
	c.mu.Unlock()
}

// RecordSave records one save attempt.
func (c *Collector) RecordSave(ok bool) {
	if ok {
		atomic.AddInt64(&c.SavesWritten, 1)
	} else {
		atomic.AddInt64(&c.SaveErrors, 1)
	}
}

// RecordSale records cash credited by the market.
func (c *Collector) RecordSale(cash float64) {
	atomic.AddInt64(&c.Sales, 1)
	c.mu.Lock()
	c.SalesCash += cash
	c.mu.Unlock()
}

// RecordWSConnection records WebSocket connection changes.
func (c *Collector) RecordWSConnection(delta int64) {
	atomic.AddInt64(&c.WSConnectionsActive, delta)
}

// RecordWSMessage records WebSocket messages.
func (c *Collector) RecordWSMessage(incoming bool) {
	if incoming {
		atomic.AddInt64(&c.WSMessagesIn, 1)
	} else {
		atomic.AddInt64(&c.WSMessagesOut, 1)
	}
}

// RecordWSError records a WebSocket error.
func (c *Collector) RecordWSError() {
	atomic.AddInt64(&c.WSErrors, 1)
}

// RecordLLMCall records an LLM API call.
func (c *Collector) RecordLLMCall(tokens int, cost float64, latency time.Duration) {
	atomic.AddInt64(&c.LLMRequests, 1)
	atomic.AddInt64(&c.LLMTokensUsed, int64(tokens))
	atomic.AddInt64(&c.LLMLatencySum, int64(latency))

	c.mu.Lock()
	c.LLMCostUSD += cost
	c.mu.Unlock()
}

// RecordLLMFailure records an advisor request that produced no tip.
func (c *Collector) RecordLLMFailure() {
	atomic.AddInt64(&c.LLMFailures, 1)
}

// RecordLLMCacheHit records a tip served without calling the provider.
func (c *Collector) RecordLLMCacheHit() {
	atomic.AddInt64(&c.LLMCacheHits, 1)
}

// Snapshot returns current metrics as a map.
func (c *Collector) Snapshot() map[string]interface{} {
	c.mu.RLock()
	defer c.mu.RUnlock()

	tickCount := atomic.LoadInt64(&c.TickCount)
	llmRequests := atomic.LoadInt64(&c.LLMRequests)

	// Calculate averages
	var tickAvg, llmAvg float64
	if tickCount > 0 {
		tickAvg = float64(atomic.LoadInt64(&c.TickLatencySum)) / float64(tickCount) / 1e6 // ms
	}
	if llmRequests > 0 {
		llmAvg = float64(atomic.LoadInt64(&c.LLMLatencySum)) / float64(llmRequests) / 1e9 // seconds
	}

	return map[string]interface{}{
		"uptime_seconds": time.Since(c.StartTime).Seconds(),

		"tick": map[string]interface{}{
			"count":          tickCount,
			"avg_latency_ms": tickAvg,
			"max_latency_ms": float64(atomic.LoadInt64(&c.TickLatencyMax)) / 1e6,
			"last_tick":      c.LastTickTime.Format(time.RFC3339),
		},

		"saves": map[string]interface{}{
			"written": atomic.LoadInt64(&c.SavesWritten),
			"errors":  atomic.LoadInt64(&c.SaveErrors),
		},

		"economy": map[string]interface{}{
			"sales":      atomic.LoadInt64(&c.Sales),
			"sales_cash": c.SalesCash,
		},

		"websocket": map[string]interface{}{
			"active_connections": atomic.LoadInt64(&c.WSConnectionsActive),
			"messages_in":        atomic.LoadInt64(&c.WSMessagesIn),
			"messages_out":       atomic.LoadInt64(&c.WSMessagesOut),
			"errors":             atomic.LoadInt64(&c.WSErrors),
		},

		"advisor": map[string]interface{}{
			"requests":        llmRequests,
			"failures":        atomic.LoadInt64(&c.LLMFailures),
			"cache_hits":      atomic.LoadInt64(&c.LLMCacheHits),
			"tokens_used":     atomic.LoadInt64(&c.LLMTokensUsed),
			"cost_usd":        c.LLMCostUSD,
			"avg_latency_sec": llmAvg,
		},
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "no-cache")

		snapshot := collector.Snapshot()
		json.NewEncoder(w).Encode(snapshot)
	}
}

// PrometheusHandler returns metrics in Prometheus format.
func PrometheusHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")

		c := collector

		// Tick metrics
		fmt.Fprintf(w, "# HELP mine_tick_count Total tick cycles\n")
		fmt.Fprintf(w, "# TYPE mine_tick_count counter\n")
		fmt.Fprintf(w, "mine_tick_count %d\n\n", atomic.LoadInt64(&c.TickCount))

		fmt.Fprintf(w, "# HELP mine_tick_latency_max_ms Maximum tick latency\n")
		fmt.Fprintf(w, "# TYPE mine_tick_latency_max_ms gauge\n")
		fmt.Fprintf(w, "mine_tick_latency_max_ms %.2f\n\n", float64(atomic.LoadInt64(&c.TickLatencyMax))/1e6)

		// Persistence metrics
		fmt.Fprintf(w, "# HELP mine_saves_total Save attempts by outcome\n")
		fmt.Fprintf(w, "# TYPE mine_saves_total counter\n")
		fmt.Fprintf(w, "mine_saves_total{outcome=\"ok\"} %d\n", atomic.LoadInt64(&c.SavesWritten))
		fmt.Fprintf(w, "mine_saves_total{outcome=\"error\"} %d\n\n", atomic.LoadInt64(&c.SaveErrors))

		// Economy metrics
		fmt.Fprintf(w, "# HELP mine_sales_total Market deliveries sold\n")
		fmt.Fprintf(w, "# TYPE mine_sales_total counter\n")
		fmt.Fprintf(w, "mine_sales_total %d\n\n", atomic.LoadInt64(&c.Sales))

		// WebSocket metrics
		fmt.Fprintf(w, "# HELP mine_ws_connections Active WebSocket connections\n")
		fmt.Fprintf(w, "# TYPE mine_ws_connections gauge\n")
		fmt.Fprintf(w, "mine_ws_connections %d\n\n", atomic.LoadInt64(&c.WSConnectionsActive))

		fmt.Fprintf(w, "# HELP mine_ws_messages_total Total WebSocket messages\n")
		fmt.Fprintf(w, "# TYPE mine_ws_messages_total counter\n")
		fmt.Fprintf(w, "mine_ws_messages_total{direction=\"in\"} %d\n", atomic.LoadInt64(&c.WSMessagesIn))
		fmt.Fprintf(w, "mine_ws_messages_total{direction=\"out\"} %d\n\n", atomic.LoadInt64(&c.WSMessagesOut))

		// Advisor metrics
		fmt.Fprintf(w, "# HELP mine_advisor_requests Total LLM API requests\n")
		fmt.Fprintf(w, "# TYPE mine_advisor_requests counter\n")
		fmt.Fprintf(w, "mine_advisor_requests %d\n\n", atomic.LoadInt64(&c.LLMRequests))

		fmt.Fprintf(w, "# HELP mine_advisor_cache_hits Tips served from cache\n")
		fmt.Fprintf(w, "# TYPE mine_advisor_cache_hits counter\n")
		fmt.Fprintf(w, "mine_advisor_cache_hits %d\n\n", atomic.LoadInt64(&c.LLMCacheHits))

		fmt.Fprintf(w, "# HELP mine_advisor_tokens_used Total tokens consumed\n")
		fmt.Fprintf(w, "# TYPE mine_advisor_tokens_used counter\n")
		fmt.Fprintf(w, "mine_advisor_tokens_used %d\n\n", atomic.LoadInt64(&c.LLMTokensUsed))

		c.mu.RLock()
		fmt.Fprintf(w, "# HELP mine_sales_cash_total Cash credited by sales\n")
		fmt.Fprintf(w, "# TYPE mine_sales_cash_total counter\n")
		fmt.Fprintf(w, "mine_sales_cash_total %.2f\n\n", c.SalesCash)

		fmt.Fprintf(w, "# HELP mine_advisor_cost_usd Total LLM cost in USD\n")
		fmt.Fprintf(w, "# TYPE mine_advisor_cost_usd counter\n")
		fmt.Fprintf(w, "mine_advisor_cost_usd %.4f\n", c.LLMCostUSD)
		c.mu.RUnlock()
	}
}

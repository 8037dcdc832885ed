// Package optimization provides concurrency tuning for the mine server.
// Channel buffers, connection pools and client rate limits per deployment profile.
package optimization

import (
	"runtime"
	"time"
)

// Config holds tuned parameters for the transport and storage layers.
type Config struct {
	// Channel buffer sizes
	BroadcastChannelBuffer int
	ClientSendBuffer       int

	// Connection pools
	DBMaxOpenConns int
	DBMaxIdleConns int

	// Event fan-out
	EventPollInterval time.Duration

	// Rate limiting
	MaxMessagesPerSecond int
	MaxClients           int
}

// DefaultConfig returns sensible defaults for production.
func DefaultConfig() *Config {
	numCPU := runtime.NumCPU()

	return &Config{
		BroadcastChannelBuffer: 256, // Hub fan-in
		ClientSendBuffer:       64,  // Per WebSocket

		// SQLite serializes writers; extra idle conns only serve reads.
		DBMaxOpenConns: numCPU,
		DBMaxIdleConns: 2,

		EventPollInterval: 200 * time.Millisecond,

		MaxMessagesPerSecond: 20, // Per client
		MaxClients:           200,
	}
}

// StressTestConfig returns aggressive settings for stress testing.
func StressTestConfig() *Config {
	numCPU := runtime.NumCPU()

	return &Config{
		BroadcastChannelBuffer: 1024,
		ClientSendBuffer:       256,

		DBMaxOpenConns: numCPU * 2,
		DBMaxIdleConns: numCPU,

		EventPollInterval: 100 * time.Millisecond,

		MaxMessagesPerSecond: 500,
		MaxClients:           1000,
	}
}

// LowResourceConfig returns minimal settings for development.
func LowResourceConfig() *Config {
	return &Config{
		BroadcastChannelBuffer: 16,
		ClientSendBuffer:       8,

		DBMaxOpenConns: 1,
		DBMaxIdleConns: 1,

		EventPollInterval: 500 * time.Millisecond,

		MaxMessagesPerSecond: 10,
		MaxClients:           20,
	}
}

// ForProfile picks a config by name. Unknown names get the defaults.
func ForProfile(name string) *Config {
	switch name {
	case "stress":
		return StressTestConfig()
	case "low":
		return LowResourceConfig()
	default:
		return DefaultConfig()
	}
}

// Recommendations provides suggestions based on observed metrics.
type Recommendations struct {
	IncreaseBroadcastBuffer bool
	IncreaseDBConnections   bool
	SlowDownPolling         bool
	Notes                   []string
}

// Analyze examines a metrics snapshot and returns optimization recommendations.
func Analyze(metrics map[string]interface{}) *Recommendations {
	rec := &Recommendations{
		Notes: make([]string, 0),
	}

	// Check tick latency
	if tick, ok := metrics["tick"].(map[string]interface{}); ok {
		if maxLat, ok := tick["max_latency_ms"].(float64); ok && maxLat > 50 {
			rec.SlowDownPolling = true
			rec.Notes = append(rec.Notes, "Tick latency exceeds 50ms - poll the event log less often")
		}
	}

	// Check save failures
	if saves, ok := metrics["saves"].(map[string]interface{}); ok {
		if errors, ok := saves["errors"].(int64); ok && errors > 0 {
			rec.IncreaseDBConnections = true
			rec.Notes = append(rec.Notes, "Save errors detected - check DB connection pool")
		}
	}

	// Check WebSocket backpressure
	if ws, ok := metrics["websocket"].(map[string]interface{}); ok {
		if errors, ok := ws["errors"].(int64); ok && errors > 0 {
			rec.IncreaseBroadcastBuffer = true
			rec.Notes = append(rec.Notes, "WebSocket errors detected - increase client send buffer")
		}
	}

	return rec
}

// ApplyRecommendations modifies config based on recommendations.
func ApplyRecommendations(config *Config, rec *Recommendations) *Config {
	if rec.IncreaseBroadcastBuffer {
		config.BroadcastChannelBuffer *= 2
		config.ClientSendBuffer *= 2
	}
	if rec.IncreaseDBConnections {
		config.DBMaxOpenConns = int(float64(config.DBMaxOpenConns)*1.5) + 1
		config.DBMaxIdleConns = int(float64(config.DBMaxIdleConns)*1.5) + 1
	}
	if rec.SlowDownPolling {
		config.EventPollInterval *= 2
	}
	return config
}

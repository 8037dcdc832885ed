// Package main - agitator
// Load generator for the mine server: many concurrent players spamming
// upgrade commands over WebSocket while counting the frames they get back.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Qenawi/idle-mining/internal/domain/mine"
	"github.com/Qenawi/idle-mining/internal/network"
)

// Config for the agitator
type Config struct {
	ServerURL      string
	NumClients     int
	ActionInterval time.Duration
	TestDuration   time.Duration
	MaxSiteID      int
	Output         string
}

// Stats tracks performance metrics
type Stats struct {
	ActionsSent   int64
	SnapshotsRecv int64
	EventsRecv    int64
	Errors        int64
	Latencies     []time.Duration
	mu            sync.Mutex
}

// Commands weighted towards the cheap upgrades a real player spams.
var actionMix = []network.ActionType{
	network.ActionUpgradeSite,
	network.ActionUpgradeSite,
	network.ActionUpgradeSite,
	network.ActionUpgradeElevator,
	network.ActionUpgradeElevator,
	network.ActionUpgradeCart,
	network.ActionUpgradeMarket,
	network.ActionUpgradeSiteManager,
	network.ActionUpgradeElevatorManager,
	network.ActionAddSite,
	network.ActionSetAutoUpgrade,
	network.ActionClearAutoUpgrade,
}

func main() {
	serverURL := flag.String("url", "ws://localhost:8080/ws", "WebSocket server URL")
	numClients := flag.Int("clients", 50, "Number of concurrent clients")
	interval := flag.Duration("interval", 100*time.Millisecond, "Action interval per client")
	duration := flag.Duration("duration", 60*time.Second, "Test duration")
	maxSite := flag.Int("sites", 3, "Highest site index to target")
	output := flag.String("out", "agitator_results.json", "Results file")
	flag.Parse()

	config := Config{
		ServerURL:      *serverURL,
		NumClients:     *numClients,
		ActionInterval: *interval,
		TestDuration:   *duration,
		MaxSiteID:      *maxSite,
		Output:         *output,
	}

	fmt.Println("=========================================")
	fmt.Println("AGITATOR - mine server load test")
	fmt.Println("=========================================")
	fmt.Printf("Server:   %s\n", config.ServerURL)
	fmt.Printf("Clients:  %d\n", config.NumClients)
	fmt.Printf("Interval: %v\n", config.ActionInterval)
	fmt.Printf("Duration: %v\n", config.TestDuration)
	fmt.Println("=========================================")

	ctx, cancel := context.WithTimeout(context.Background(), config.TestDuration)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt)
	go func() {
		<-sigChan
		fmt.Println("\nInterrupt received, stopping...")
		cancel()
	}()

	start := time.Now()
	stats := runLoad(ctx, config)
	printResults(stats, config, time.Since(start))
}

func runLoad(ctx context.Context, config Config) *Stats {
	stats := &Stats{
		Latencies: make([]time.Duration, 0, 10000),
	}

	var wg sync.WaitGroup
	for i := 0; i < config.NumClients; i++ {
		wg.Add(1)
		go func(clientID int) {
			defer wg.Done()
			runClient(ctx, clientID, config, stats)
		}(i)

		// Stagger client starts to avoid thundering herd
		time.Sleep(10 * time.Millisecond)
	}
	fmt.Printf("All %d clients started\n\n", config.NumClients)

	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				fmt.Printf("Progress: sent=%d snapshots=%d events=%d errors=%d\n",
					atomic.LoadInt64(&stats.ActionsSent),
					atomic.LoadInt64(&stats.SnapshotsRecv),
					atomic.LoadInt64(&stats.EventsRecv),
					atomic.LoadInt64(&stats.Errors))
			}
		}
	}()

	wg.Wait()
	return stats
}

func runClient(ctx context.Context, clientID int, config Config, stats *Stats) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, config.ServerURL, nil)
	if err != nil {
		log.Printf("Client %d: connection failed: %v", clientID, err)
		atomic.AddInt64(&stats.Errors, 1)
		return
	}
	defer conn.Close()

	go func() {
		for {
			var frame network.Frame
			if err := conn.ReadJSON(&frame); err != nil {
				return
			}
			switch frame.Type {
			case network.FrameSnapshot:
				atomic.AddInt64(&stats.SnapshotsRecv, 1)
			case network.FrameEvent:
				atomic.AddInt64(&stats.EventsRecv, 1)
			}
		}
	}()

	rng := rand.New(rand.NewSource(time.Now().UnixNano() + int64(clientID)))
	ticker := time.NewTicker(config.ActionInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		case <-ticker.C:
			action := randomAction(rng, config.MaxSiteID)
			start := time.Now()

			if err := conn.WriteJSON(action); err != nil {
				atomic.AddInt64(&stats.Errors, 1)
				return
			}

			atomic.AddInt64(&stats.ActionsSent, 1)
			stats.mu.Lock()
			stats.Latencies = append(stats.Latencies, time.Since(start))
			stats.mu.Unlock()
		}
	}
}

func randomAction(rng *rand.Rand, maxSite int) network.PlayerAction {
	actionType := actionMix[rng.Intn(len(actionMix))]
	payload := map[string]interface{}{}

	switch actionType {
	case network.ActionUpgradeSite, network.ActionUpgradeSiteManager:
		payload["siteId"] = rng.Intn(maxSite + 1)
		payload["amount"] = []int{1, 1, 10, -1}[rng.Intn(4)]
	case network.ActionUpgradeElevator, network.ActionUpgradeCart, network.ActionUpgradeMarket,
		network.ActionUpgradeElevatorManager:
		payload["amount"] = []int{1, 10}[rng.Intn(2)]
	case network.ActionSetAutoUpgrade:
		payload["entity"] = mine.EntitySite
		payload["siteId"] = rng.Intn(maxSite + 1)
		payload["subject"] = mine.SubjectLevel
	}

	raw, _ := json.Marshal(payload)
	return network.PlayerAction{Type: actionType, Payload: raw}
}

func percentile(sorted []time.Duration, p float64) time.Duration {
	if len(sorted) == 0 {
		return 0
	}
	idx := int(float64(len(sorted)-1) * p)
	return sorted[idx]
}

func printResults(stats *Stats, config Config, elapsed time.Duration) {
	fmt.Println("\n=========================================")
	fmt.Println("LOAD TEST RESULTS")
	fmt.Println("=========================================")

	sent := atomic.LoadInt64(&stats.ActionsSent)
	snaps := atomic.LoadInt64(&stats.SnapshotsRecv)
	evts := atomic.LoadInt64(&stats.EventsRecv)
	errs := atomic.LoadInt64(&stats.Errors)
	throughput := float64(sent) / elapsed.Seconds()

	fmt.Printf("Actions Sent:       %d\n", sent)
	fmt.Printf("Snapshots Received: %d\n", snaps)
	fmt.Printf("Events Received:    %d\n", evts)
	fmt.Printf("Errors:             %d\n", errs)
	fmt.Printf("Error Rate:         %.2f%%\n", float64(errs)/float64(sent+1)*100)
	fmt.Printf("Throughput:         %.2f actions/sec\n", throughput)

	stats.mu.Lock()
	sorted := append([]time.Duration(nil), stats.Latencies...)
	stats.mu.Unlock()
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	if len(sorted) > 0 {
		fmt.Printf("\nWrite latency:\n")
		fmt.Printf("  p50: %v\n", percentile(sorted, 0.50))
		fmt.Printf("  p99: %v\n", percentile(sorted, 0.99))
		fmt.Printf("  max: %v\n", sorted[len(sorted)-1])
	}

	fmt.Println("\n-----------------------------------------")
	switch {
	case errs == 0 && snaps > 0:
		fmt.Println("PASSED: server kept up with the load")
	case float64(errs)/float64(sent+1) < 0.05:
		fmt.Println("WARNING: some errors detected")
	default:
		fmt.Println("FAILED: high error rate")
	}
	fmt.Println("=========================================")

	results := map[string]interface{}{
		"actions_sent":       sent,
		"snapshots_received": snaps,
		"events_received":    evts,
		"errors":             errs,
		"throughput_per_sec": throughput,
		"p99_write_latency":  percentile(sorted, 0.99).String(),
		"config": map[string]interface{}{
			"clients":  config.NumClients,
			"interval": config.ActionInterval.String(),
			"duration": config.TestDuration.String(),
		},
	}

	jsonData, _ := json.MarshalIndent(results, "", "  ")
	if err := os.WriteFile(config.Output, jsonData, 0644); err != nil {
		log.Printf("Could not write results: %v", err)
		return
	}
	fmt.Println("\nResults saved to " + config.Output)
}

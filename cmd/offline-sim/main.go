// Package main - offline-sim
// Runs the economy headless for a stretch of simulated time and compares the
// cash actually earned against the closed-form idle income estimate used for
// offline credit.
package main

import (
	"context"
	"flag"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/Qenawi/idle-mining/internal/advisor"
	"github.com/Qenawi/idle-mining/internal/engine"
	"github.com/Qenawi/idle-mining/internal/events"
	"github.com/Qenawi/idle-mining/internal/infra/storage"
	"github.com/Qenawi/idle-mining/internal/platform/config"
	"github.com/Qenawi/idle-mining/internal/platform/logger"
)

func main() {
	configPath := flag.String("config", "", "Config file (defaults to $"+config.EnvPath+")")
	dbPath := flag.String("db", "", "Load the save from this SQLite file instead of starting fresh")
	slot := flag.String("slot", "", "Save slot (defaults to the configured slot)")
	duration := flag.Duration("duration", 10*time.Minute, "Simulated time to run")
	tolerance := flag.Float64("tolerance", 0.25, "Allowed relative gap between simulated and estimated earnings")
	flag.Parse()

	var (
		cfg *config.Config
		err error
	)
	if *configPath != "" {
		cfg, err = config.Load(*configPath)
	} else {
		cfg, err = config.LoadFromEnv()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if *slot == "" {
		*slot = cfg.Storage.Slot
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = 1
	}
	eng := engine.NewEngine(cfg.Balance, engine.NewRandRoller(seed), events.NewEventLog(cfg.EventLog), logger.NewDiscard())

	ctx := context.Background()
	var repo storage.SaveRepository = storage.NewMemoryRepository()
	if *dbPath != "" {
		db, err := storage.InitSQLite(*dbPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
		defer db.Close()
		repo = storage.NewSQLiteSaveRepository(db, *slot)
	}
	// Load without offline credit so the run starts from the saved cash.
	eng.LoadFrom(ctx, repo, time.Time{})

	fmt.Println("=========================================")
	fmt.Println("OFFLINE ESTIMATE CHECK")
	fmt.Println("=========================================")

	start := eng.Projections()
	fmt.Printf("Sites:        %d\n", len(eng.Snapshot().Sites))
	fmt.Printf("Start cash:   $%s\n", advisor.FormatNumber(start.Cash))
	fmt.Printf("Idle income:  $%s/s\n", advisor.FormatNumber(start.IdleIncome))
	fmt.Printf("Simulating:   %v\n", *duration)

	dt := cfg.Balance.TickInterval().Seconds()
	steps := int(duration.Seconds() / dt)
	for i := 0; i < steps; i++ {
		eng.Step(dt)
	}

	simulated := eng.Projections().Cash - start.Cash
	estimated := engine.EstimateOffline(cfg.Balance, eng.Snapshot(), *duration).Earnings

	fmt.Printf("\nSimulated:    $%s\n", advisor.FormatNumber(simulated))
	fmt.Printf("Estimated:    $%s\n", advisor.FormatNumber(estimated))

	gap := 0.0
	if simulated > 0 {
		gap = math.Abs(estimated-simulated) / simulated
	}
	fmt.Printf("Relative gap: %.1f%%\n", gap*100)

	fmt.Println("-----------------------------------------")
	if simulated > 0 && gap <= *tolerance {
		fmt.Println("PASSED: estimate tracks the simulation")
		return
	}
	fmt.Println("FAILED: estimate diverges from the simulation")
	os.Exit(1)
}

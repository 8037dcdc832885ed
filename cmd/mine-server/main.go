// Package main is the entry point for the idle mining server.
// It only handles dependency injection and server initialization.
// NO business logic belongs here.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/Qenawi/idle-mining/internal/advisor"
	"github.com/Qenawi/idle-mining/internal/engine"
	"github.com/Qenawi/idle-mining/internal/events"
	"github.com/Qenawi/idle-mining/internal/infra/ai"
	"github.com/Qenawi/idle-mining/internal/infra/cache"
	"github.com/Qenawi/idle-mining/internal/infra/storage"
	"github.com/Qenawi/idle-mining/internal/network"
	"github.com/Qenawi/idle-mining/internal/platform/config"
	"github.com/Qenawi/idle-mining/internal/platform/logger"
	"github.com/Qenawi/idle-mining/internal/platform/metrics"
	"github.com/Qenawi/idle-mining/internal/platform/optimization"
)

func main() {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		fmt.Fprintln(os.Stderr, "[MINE-SERVER] "+err.Error())
		os.Exit(1)
	}

	appLogger := logger.New(cfg.Log)
	appLogger.Info("Initializing idle mining authoritative server...")

	tuning := optimization.ForProfile(cfg.Server.Profile)

	appLogger.Info("Initializing SQLite database '" + cfg.Storage.Path + "'...")
	db, err := storage.InitSQLite(cfg.Storage.Path)
	if err != nil {
		appLogger.WithError(err).Error("Failed to initialize SQLite")
		os.Exit(1)
	}
	defer db.Close()
	db.SetMaxOpenConns(tuning.DBMaxOpenConns)
	db.SetMaxIdleConns(tuning.DBMaxIdleConns)
	saveRepo := storage.NewSQLiteSaveRepository(db, cfg.Storage.Slot)

	appLogger.Info("Bootstrapping Engine Subsystems...")
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	eventLog := events.NewEventLog(cfg.EventLog)
	gameEngine := engine.NewEngine(cfg.Balance, engine.NewRandRoller(seed), eventLog, appLogger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	gameEngine.LoadFrom(ctx, saveRepo, time.Now())

	var workers sync.WaitGroup
	ticker := engine.NewTicker(gameEngine, engine.RealClock{}, cfg.Balance.TickInterval(), appLogger)
	saver := engine.NewSaver(gameEngine, saveRepo, engine.RealClock{}, cfg.Storage.SaveInterval, appLogger)
	workers.Add(2)
	go func() { defer workers.Done(); ticker.Start(ctx) }()
	go func() { defer workers.Done(); saver.Start(ctx) }()

	appLogger.Info("Bootstrapping WebSocket Hub...")
	hub := network.NewHub(gameEngine, tuning, appLogger)
	go hub.Run(ctx)
	hub.StartEventPoller(ctx, eventLog)
	hub.StartSnapshotBroadcaster(ctx, cfg.Server.BroadcastInterval)

	var adv *advisor.Advisor
	if cfg.Advisor.Enabled {
		appLogger.Info("Bootstrapping AI advisor (" + cfg.Advisor.Provider + ")...")
		budgetGate := ai.NewBudgetGate(cfg.Advisor.DailyBudgetUSD, cfg.Advisor.MonthlyBudgetUSD)
		provider, err := ai.NewProvider(cfg.Advisor.Config, budgetGate)
		if err != nil {
			appLogger.WithError(err).Error("Advisor disabled")
		} else {
			tips, err := cache.NewTipCache(cfg.Advisor.CacheSize, cfg.Advisor.CacheTTL)
			if err != nil {
				appLogger.WithError(err).Warn("Advisor running without a tip cache")
			}
			adv = advisor.NewAdvisor(provider, tips, appLogger)
			if !adv.Available() {
				appLogger.Warn("Advisor has no API key; tips will be unavailable")
			}
		}
	}

	// Tuning report from live metrics
	go func() {
		reportTicker := time.NewTicker(time.Minute)
		defer reportTicker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-reportTicker.C:
				rec := optimization.Analyze(metrics.Get().Snapshot())
				for _, note := range rec.Notes {
					appLogger.Warn("Tuning: " + note)
				}
			}
		}
	}()

	// Setup API Routes
	mux := http.NewServeMux()
	network.NewAPI(gameEngine, saveRepo, adv, hub, appLogger).RegisterRoutes(mux)
	mux.HandleFunc("/metrics", metrics.Handler())
	mux.HandleFunc("/metrics/prometheus", metrics.PrometheusHandler())
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		network.ServeWs(hub, w, r)
	})

	server := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		appLogger.Info("HTTP API & WS Server listening on " + cfg.Server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.WithError(err).Error("Server failed")
			cancel()
		}
	}()

	appLogger.Info("Server running. Press Ctrl+C to exit.")

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case <-ctx.Done():
	}

	appLogger.Info("Shutting down...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		appLogger.WithError(err).Warn("HTTP shutdown incomplete")
	}

	cancel()
	workers.Wait()
	appLogger.Info("Goodbye.")
}

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mirrortrade/backend/internal/api"
	"github.com/mirrortrade/backend/internal/config"
	"github.com/mirrortrade/backend/internal/copier"
	"github.com/mirrortrade/backend/internal/db"
	"github.com/mirrortrade/backend/internal/notifications"
	"github.com/mirrortrade/backend/internal/repository"
	"github.com/mirrortrade/backend/internal/scheduler"
	"github.com/mirrortrade/backend/internal/stats"
)

const banner = `
╔══════════════════════════════════════╗
║     MirrorTrade Backend v0.1         ║
║                                      ║
╚══════════════════════════════════════╝
`

func main() {
	fmt.Print(banner)

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load error: %v\n", err)
		os.Exit(1)
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	cfg.Print()

	// Database
	fmt.Printf("\n[DB] Connecting to %s:%d/%s ...\n", cfg.DBHost, cfg.DBPort, cfg.DBName)
	pool, err := db.Connect(cfg.DSN())
	if err != nil {
		fmt.Fprintf(os.Stderr, "[DB] Connection failed: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		pool.Close()
		fmt.Println("[DB] Connection pool closed")
	}()

	if err := db.TestConnection(pool); err != nil {
		fmt.Fprintf(os.Stderr, "[DB] Test query failed: %v\n", err)
		os.Exit(1)
	}

	// Core services
	engine := copier.NewEngine(repository.NewCopyStore(pool), copier.Options{
		CopyTrialSubscriptions: cfg.CopyTrialSubscriptions,
	})
	aggregator := stats.NewAggregator(repository.NewStatsRepo(pool))

	// Notifications
	notify := notifications.NewSender(cfg.WebhookURL, cfg.AppName)

	// Graceful shutdown context
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 1. API server
	srv := api.NewServer(pool, cfg.APIPort, cfg.APIKey, cfg.CORSAllowOrigin, engine, aggregator, notify)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			fmt.Fprintf(os.Stderr, "[API] Server error: %v\n", err)
			os.Exit(1)
		}
	}()

	// 2. Performance stats scheduler
	var statsSched *scheduler.StatsScheduler
	if cfg.StatsSchedulerEnabled {
		statsSched = scheduler.NewStatsScheduler(aggregator, scheduler.StatsSchedulerConfig{
			Interval: time.Duration(cfg.StatsRefreshMinutes) * time.Minute,
		})
		statsSched.Start()
	} else {
		fmt.Println("[STATS-SCHEDULER] Skipped - disabled by configuration")
	}

	fmt.Println("\nAll services started successfully")

	// Wait for shutdown signal
	<-ctx.Done()
	fmt.Println("\nShutting down gracefully...")

	if statsSched != nil {
		statsSched.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		fmt.Fprintf(os.Stderr, "[API] Shutdown error: %v\n", err)
	}
	fmt.Println("[API] Server closed")
	fmt.Println("Shutdown complete")
}

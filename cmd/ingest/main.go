package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/matchpulse/matchpulse/internal/app"
	"github.com/matchpulse/matchpulse/internal/config"
	"github.com/matchpulse/matchpulse/internal/observability"
	"github.com/matchpulse/matchpulse/internal/platform/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := logging.NewJSON(cfg.LogLevel)
	logging.SetDefault(logger)
	defer func() { _ = logger.Sync() }()

	obs, err := observability.Start(cfg, logger)
	if err != nil {
		logger.Error("start observability", "error", err)
		os.Exit(1)
	}

	a, err := app.New(cfg, logger)
	if err != nil {
		logger.Error("build app", "error", err)
		os.Exit(1)
	}
	defer func() { _ = a.Close() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("ingest service starting",
		"ingest_interval", cfg.IngestInterval,
		"live_interval", cfg.LiveInterval,
	)

	go runEvery(ctx, cfg.IngestInterval, true, func(ctx context.Context) {
		runDay(ctx, a, logger)
	})
	go runEvery(ctx, cfg.LiveInterval, false, func(ctx context.Context) {
		runLive(ctx, a, logger)
	})

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	obs.Stop(shutdownCtx)

	logger.Info("ingest service stopped")
}

// runEvery invokes fn on a fixed interval until the context is cancelled,
// optionally running once up front so a fresh deploy ingests immediately.
func runEvery(ctx context.Context, interval time.Duration, immediate bool, fn func(context.Context)) {
	if immediate {
		fn(ctx)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			fn(ctx)
		}
	}
}

func runDay(ctx context.Context, a *app.App, logger *logging.Logger) {
	report, err := a.Pipeline.RunDay(ctx, time.Now().UTC())
	if err != nil {
		logger.ErrorContext(ctx, "day ingest failed", "day", report.Day, "error", err)
		return
	}

	logger.InfoContext(ctx, "day ingest finished",
		"day", report.Day,
		"events", report.FetchedEvents,
		"matches", report.Persist.Matches,
		"standings_rows", report.StandingsRows,
		"assists_recovered", report.AssistsRecovered,
		"rows_failed", report.Persist.Failed,
		"rows_dropped", report.Persist.Drops.Total(),
		"duration", report.Duration,
	)
}

func runLive(ctx context.Context, a *app.App, logger *logging.Logger) {
	report, err := a.Pipeline.RunLive(ctx, time.Now().UTC())
	if err != nil {
		logger.ErrorContext(ctx, "live refresh failed", "day", report.Day, "error", err)
		return
	}
	if report.FetchedEvents == 0 {
		return
	}

	logger.InfoContext(ctx, "live refresh finished",
		"day", report.Day,
		"events", report.FetchedEvents,
		"snapshots", report.Persist.Snapshots,
		"duration", report.Duration,
	)
}

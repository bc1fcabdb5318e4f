package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MikeSquared-Agency/decoy/internal/api"
	"github.com/MikeSquared-Agency/decoy/internal/archive"
	"github.com/MikeSquared-Agency/decoy/internal/catalog"
	"github.com/MikeSquared-Agency/decoy/internal/config"
	"github.com/MikeSquared-Agency/decoy/internal/events"
	"github.com/MikeSquared-Agency/decoy/internal/honeypot"
	"github.com/MikeSquared-Agency/decoy/internal/report"
	"github.com/MikeSquared-Agency/decoy/internal/score"
	"github.com/MikeSquared-Agency/decoy/internal/session"
)

func main() {
	cfg := config.Load()
	setupLogging(cfg.LogLevel)

	slog.Info("decoy starting", "port", cfg.Port, "catalog_version", catalog.Version)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Case archive (optional — decoy works without Postgres, cases just
	// aren't retained past the process).
	var arch honeypot.CaseWriter
	if cfg.DatabaseURL != "" {
		db, err := archive.New(ctx, cfg.DatabaseURL)
		if err != nil {
			slog.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		arch = db
		slog.Info("case archive connected")
	} else {
		slog.Warn("DATABASE_URL not set — finalized cases will not be archived")
	}

	// Event bus (optional).
	var bus *events.Publisher
	var sink honeypot.EventSink
	if cfg.NatsURL != "" {
		var err error
		bus, err = events.Connect(cfg.NatsURL, cfg.NatsToken, slog.Default())
		if err != nil {
			slog.Error("failed to connect to NATS", "error", err)
			os.Exit(1)
		}
		defer bus.Close()
		sink = bus
		slog.Info("NATS connected", "url", cfg.NatsURL)
	} else {
		slog.Warn("NATS_URL not set — running without swarm events")
	}

	// Evaluation callback (optional).
	var reporter honeypot.Reporter
	if cfg.ReportURL != "" {
		reporter = report.NewClient(cfg.ReportURL, slog.Default())
		slog.Info("report client ready", "url", cfg.ReportURL)
	} else {
		slog.Warn("REPORT_CALLBACK_URL not set — finalized cases will not be delivered")
	}

	if cfg.APIKey == "" {
		slog.Warn("DECOY_API_KEY not set — analyze endpoint is unauthenticated")
	}

	store := session.NewStore()
	scorer := score.New(catalog.Default(), cfg.ScamThreshold)
	agg := honeypot.New(store, scorer, reporter, arch, sink, cfg.ReportTurns, slog.Default())

	srv := api.NewServer(cfg.Port, cfg.APIKey, agg, store)
	go func() {
		if err := srv.Start(); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()

	if bus != nil {
		if err := bus.Publish(events.SubjectRegistered, map[string]any{
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"port":      cfg.Port,
			"catalog":   catalog.Version,
		}); err != nil {
			slog.Warn("failed to publish registration", "error", err)
		}
	}

	slog.Info("decoy ready", "port", cfg.Port)

	// Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	slog.Info("shutting down")
	cancel()
	slog.Info("decoy stopped")
}

func setupLogging(level string) {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})
	slog.SetDefault(slog.New(handler))
}

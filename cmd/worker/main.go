package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pipisou/garage/internal/app"
	"github.com/pipisou/garage/pkg/config"
	"github.com/pipisou/garage/pkg/observability"
)

func main() {
	os.Exit(run())
}

func run() int {
	logger := observability.LoggerFromEnv()
	logger.Info("starting garage worker")

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		return 1
	}

	container, err := app.NewContainer(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize container", "error", err)
		return 1
	}
	defer container.Close()

	processor := container.OutboxProcessor
	logger.Info("starting outbox processor",
		"broker", cfg.EventBroker,
		"poll_interval", cfg.OutboxPollInterval,
		"batch_size", cfg.OutboxBatchSize,
		"max_retries", cfg.OutboxMaxRetries,
	)
	if err := processor.Start(ctx); err != nil {
		logger.Error("failed to start outbox processor", "error", err)
		return 1
	}

	go every(ctx, cfg.OutboxCleanupInterval, func() {
		deleted, err := container.OutboxRepo.DeleteOld(ctx, cfg.OutboxRetentionDays)
		if err != nil {
			logger.Error("outbox cleanup failed", "error", err)
			return
		}
		if deleted > 0 {
			logger.Info("outbox cleanup completed", "deleted", deleted, "retention_days", cfg.OutboxRetentionDays)
		}
	})

	go every(ctx, cfg.OutboxStatsInterval, func() {
		stats := processor.GetStats()
		logger.Info("outbox stats",
			"running", stats.IsRunning,
			"published", stats.PublishedCount,
			"failed", stats.FailedCount,
			"dead", stats.DeadCount,
			"lag_seconds", stats.LagSeconds,
			"oldest_message_at", stats.OldestMessageAt,
			"last_processed_at", stats.LastProcessedAt,
			"last_error_at", stats.LastErrorAt,
			"last_error", stats.LastError,
		)
	})

	if cfg.WorkerHealthAddr != "" {
		srv := &http.Server{
			Addr:              cfg.WorkerHealthAddr,
			Handler:           healthMux(container),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			logger.Info("health server starting", "addr", cfg.WorkerHealthAddr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("health server error", "error", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Warn("health server shutdown error", "error", err)
			}
		}()
	}

	<-ctx.Done()
	logger.Info("shutting down worker")
	processor.Stop()
	logger.Info("worker stopped")
	return 0
}

// healthMux serves liveness, readiness and Prometheus metrics.
func healthMux(c *app.Container) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		stats := c.OutboxProcessor.GetStats()
		writeJSON(w, http.StatusOK, map[string]any{
			"status":            "ok",
			"running":           stats.IsRunning,
			"published":         stats.PublishedCount,
			"failed":            stats.FailedCount,
			"dead":              stats.DeadCount,
			"last_processed_at": stats.LastProcessedAt,
			"last_error_at":     stats.LastErrorAt,
			"last_error":        stats.LastError,
		})
	})

	mux.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		checkCtx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		report := c.Health.Check(checkCtx)
		status := http.StatusOK
		if report.Status != observability.HealthStatusHealthy {
			status = http.StatusServiceUnavailable
		}
		writeJSON(w, status, report)
	})

	mux.Handle("/metrics", c.Metrics.Handler())
	return mux
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func every(ctx context.Context, interval time.Duration, fn func()) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			fn()
		}
	}
}

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"spendlog/internal/config"
	"spendlog/internal/events"
	"spendlog/internal/export"
	applog "spendlog/internal/log"
	"spendlog/internal/storage"
	"spendlog/internal/worker"
)

func main() {
	_ = godotenv.Load()

	applog.Setup("spendlog-worker")
	slog.Info("Starting spendlog-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		slog.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	if cfg.AMQPURL == "" {
		slog.Error("AMQP_URL is required for the export worker")
		os.Exit(1)
	}

	repo, err := storage.NewRepository(cfg.SQLiteDBPath)
	if err != nil {
		slog.Error("Failed to open database", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	appender, err := export.NewSheetAppenderFromEnv(context.Background())
	if err != nil {
		slog.Error("Failed to initialize Google Sheets appender", "error", err)
		os.Exit(1)
	}

	exportWorker := worker.NewExportWorker(repo, appender)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		err := events.ConsumeWithReconnect(ctx, cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, exportWorker.HandleExpenseEvent)
		if err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("event consumption: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		slog.Info("Shutting down worker", "reason", context.Cause(ctx))
		return nil
	})

	if err := g.Wait(); err != nil {
		slog.Error("Worker failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Worker shutdown complete")
}

package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"spendlog/internal/chat"
	"spendlog/internal/classifier"
	"spendlog/internal/config"
	"spendlog/internal/events"
	apphttp "spendlog/internal/http"
	applog "spendlog/internal/log"
	"spendlog/internal/services"
	"spendlog/internal/storage"
)

func main() {
	// .env is for local development; absent in containers.
	_ = godotenv.Load()

	applog.Setup("spendlog")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		slog.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	repo, err := storage.NewRepository(cfg.SQLiteDBPath)
	if err != nil {
		slog.Error("Failed to open database", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	// The classifier trains at startup on its built-in corpus; the
	// fitted model is shared read-only by all requests.
	model := classifier.Train()

	var eventClient *events.Client
	if cfg.AMQPURL != "" {
		eventClient, err = events.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			slog.Error("Failed to connect to AMQP broker", "error", err)
			os.Exit(1)
		}
		defer eventClient.Close()
		slog.Info("Expense event publishing enabled", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	} else {
		slog.Info("Expense event publishing disabled - no AMQP_URL provided")
	}

	expenseService := services.NewExpenseService(repo, model, eventClient)

	srv := apphttp.NewServer(":"+cfg.Port, repo, expenseService, chat.New(), apphttp.Options{
		SessionDuration:    cfg.SessionDuration,
		CacheTTL:           cfg.CacheTTL,
		CacheMaxUsers:      cfg.CacheMaxUsers,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
	})
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		slog.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}
		cancel()
	}()

	slog.Info("Starting spendlog server", "port", cfg.Port)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	slog.Info("Server stopped gracefully")
}

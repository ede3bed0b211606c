package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/petrunov/gs-peachtree-bank/docs"
	"github.com/petrunov/gs-peachtree-bank/internal/config"
	"github.com/petrunov/gs-peachtree-bank/internal/events"
	"github.com/petrunov/gs-peachtree-bank/internal/events/kafka"
	"github.com/petrunov/gs-peachtree-bank/internal/ledger"
	"github.com/petrunov/gs-peachtree-bank/internal/seed"
	"github.com/petrunov/gs-peachtree-bank/internal/server"
	"github.com/petrunov/gs-peachtree-bank/internal/storage/postgres"
)

// @title          Peachtree Bank API
// @version        1.0
// @description    A small banking ledger service storing accounts and money-transfer transactions.
// @host           localhost:8080
// @BasePath       /api
// @schemes        http
func main() {
	seedData := flag.Bool("seed", false, "populate an empty database with development data")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg := config.Load()
	docs.SwaggerInfo.Host = "localhost:" + cfg.Server.Port

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := postgres.Connect(cfg.Database.DSN())
	if err != nil {
		logger.Error("failed to connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer store.Close()
	logger.Info("connected to database")

	if err := store.Migrate(ctx); err != nil {
		logger.Error("failed to run migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if *seedData {
		if err := seed.Run(ctx, store, logger); err != nil {
			logger.Error("failed to seed database", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	var publisher events.Publisher = events.NopPublisher{}
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaPublisher := kafka.NewPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		defer kafkaPublisher.Close()
		publisher = kafkaPublisher
		logger.Info("event publishing enabled", slog.String("topic", cfg.Kafka.Topic))
	}

	ledgerService := ledger.NewLedger(store, publisher, logger)
	handler := server.New(cfg, ledgerService, store, logger)

	httpServer := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: handler,
	}

	go func() {
		logger.Info("starting HTTP server", slog.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server error", slog.String("error", err.Error()))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.String("error", err.Error()))
	}
}

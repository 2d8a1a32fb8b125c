package main

import (
	"context"
	"log" // Use standard log only for initial fatal errors before logger is set up
	"os/signal"
	"syscall"

	"tradingjournal/config"
	"tradingjournal/internal/api"
	"tradingjournal/internal/journal"
	"tradingjournal/internal/ports"
)

func main() {
	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err) // Use standard log before logger is ready
	}

	appLogger, ledger, feed, cleanup, err := buildAdapters(cfg)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize adapters: %v", err)
	}
	defer cleanup()

	// Price Resolver
	resolver, err := journal.NewResolver(journal.ResolverConfig{
		Feed:        feed,
		Logger:      appLogger,
		Timeout:     cfg.PriceTimeout,
		Concurrency: cfg.PriceConcurrency,
	})
	if err != nil {
		appLogger.Error(context.Background(), err, "FATAL: Failed to initialize price resolver")
		log.Fatalf("FATAL: Failed to initialize price resolver: %v", err)
	}

	// Journal Service
	svc, err := journal.NewService(journal.Config{
		Ledger:          ledger,
		Resolver:        resolver,
		Logger:          appLogger,
		AllowedPairs:    cfg.AllowedPairs,
		DefaultLeverage: cfg.DefaultLeverage,
	})
	if err != nil {
		appLogger.Error(context.Background(), err, "FATAL: Failed to initialize journal service")
		log.Fatalf("FATAL: Failed to initialize journal service: %v", err)
	}
	appLogger.Info(context.Background(), "Journal service initialized")

	// HTTP API, shut down on SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	server := api.New(cfg.ListenAddr, svc, appLogger)
	if err := server.Run(ctx); err != nil {
		appLogger.Error(context.Background(), err, "API server exited with error")
		log.Fatalf("FATAL: API server exited with error: %v", err)
	}

	appLogger.Info(context.Background(), "Application finished gracefully.")
}

// buildAdapters assembles the configured ledger and price feed behind their
// ports. The returned cleanup closes whatever the selection opened.
func buildAdapters(cfg *config.Config) (ports.Logger, ports.Ledger, ports.PriceFeed, func(), error) {
	appLogger, ledger, cleanup, err := buildLedger(cfg)
	if err != nil {
		return nil, nil, nil, nil, err
	}

	feed, err := buildFeed(cfg, appLogger)
	if err != nil {
		cleanup()
		return nil, nil, nil, nil, err
	}
	return appLogger, ledger, feed, cleanup, nil
}

package main

import (
	"context"
	"fmt"

	"tradingjournal/config"
	"tradingjournal/internal/adapters/binanceclient"
	"tradingjournal/internal/adapters/bybitclient"
	"tradingjournal/internal/adapters/csvledger"
	"tradingjournal/internal/adapters/logger"
	"tradingjournal/internal/adapters/sqlite"
	"tradingjournal/internal/ports"
)

// buildLedger initializes the logger and the configured ledger backend.
func buildLedger(cfg *config.Config) (ports.Logger, ports.Ledger, func(), error) {
	appLogger := logger.NewStdLogger(cfg.LogLevel)
	appLogger.Info(context.Background(), "Logger initialized", map[string]interface{}{"level": cfg.LogLevel.String()})

	switch cfg.LedgerBackend {
	case config.LedgerSQLite:
		repo, err := sqlite.NewRepository(sqlite.Config{
			DBPath: cfg.DBPath,
			Logger: appLogger,
		})
		if err != nil {
			return nil, nil, nil, fmt.Errorf("failed to initialize SQLite ledger: %w", err)
		}
		cleanup := func() {
			if err := repo.Close(); err != nil {
				appLogger.Error(context.Background(), err, "Error closing SQLite ledger")
			}
		}
		return appLogger, repo, cleanup, nil

	case config.LedgerCSV:
		led, err := csvledger.New(csvledger.Config{
			Path:   cfg.CSVPath,
			Logger: appLogger,
		})
		if err != nil {
			return nil, nil, nil, fmt.Errorf("failed to initialize CSV ledger: %w", err)
		}
		return appLogger, led, func() {}, nil
	}

	return nil, nil, nil, fmt.Errorf("%w: unknown ledger backend %q", ports.ErrConfigurationError, cfg.LedgerBackend)
}

// buildFeed initializes the configured price feed adapter.
func buildFeed(cfg *config.Config, appLogger ports.Logger) (ports.PriceFeed, error) {
	switch cfg.PriceFeed {
	case config.FeedBybit:
		client, err := bybitclient.New(bybitclient.Config{
			BaseURL: cfg.BybitBaseURL,
			Timeout: cfg.PriceTimeout,
			Logger:  appLogger,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Bybit client: %w", err)
		}
		return client, nil

	case config.FeedBinance:
		client, err := binanceclient.New(binanceclient.Config{
			APIKey:     cfg.BinanceAPIKey,
			SecretKey:  cfg.BinanceSecretKey,
			UseTestnet: cfg.BinanceTestnet,
			Logger:     appLogger,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Binance client: %w", err)
		}
		return client, nil
	}

	return nil, fmt.Errorf("%w: unknown price feed %q", ports.ErrConfigurationError, cfg.PriceFeed)
}

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"tradingjournal/internal/adapters/logger" // Import the logger package for LogLevel
)

// Ledger backends and price feeds the composition root knows how to build.
const (
	LedgerSQLite = "sqlite"
	LedgerCSV    = "csv"

	FeedBybit   = "bybit"
	FeedBinance = "binance"
)

// Config holds all application configuration.
type Config struct {
	// Ledger store
	LedgerBackend string // "sqlite" or "csv"
	DBPath        string
	CSVPath       string

	// Price feed
	PriceFeed        string // "bybit" or "binance"
	BybitBaseURL     string
	BinanceAPIKey    string
	BinanceSecretKey string
	BinanceTestnet   bool
	PriceTimeout     time.Duration // Per-symbol lookup timeout
	PriceConcurrency int           // Max in-flight lookups per resolution pass

	// Journal
	AllowedPairs    []string // Empty means any pair is accepted on entry
	DefaultLeverage int

	// HTTP API
	ListenAddr string

	// Logging
	LogLevel logger.LogLevel // Use the LogLevel type from the logger adapter
}

// LoadConfig loads configuration from environment variables (.env file).
func LoadConfig() (*Config, error) {
	// Load .env file, but don't fail if it doesn't exist (allow pure env vars)
	_ = godotenv.Load()

	cfg := &Config{}
	var errs []string // Collect validation errors

	// Ledger store
	cfg.LedgerBackend = strings.ToLower(getEnv("LEDGER_BACKEND", LedgerSQLite))
	if cfg.LedgerBackend != LedgerSQLite && cfg.LedgerBackend != LedgerCSV {
		errs = append(errs, fmt.Sprintf("LEDGER_BACKEND must be %q or %q, got %q", LedgerSQLite, LedgerCSV, cfg.LedgerBackend))
	}
	cfg.DBPath = getEnv("DB_PATH", "./data/journal.db")
	cfg.CSVPath = getEnv("CSV_PATH", "./data/journal.csv")

	// Price feed
	cfg.PriceFeed = strings.ToLower(getEnv("PRICE_FEED", FeedBybit))
	if cfg.PriceFeed != FeedBybit && cfg.PriceFeed != FeedBinance {
		errs = append(errs, fmt.Sprintf("PRICE_FEED must be %q or %q, got %q", FeedBybit, FeedBinance, cfg.PriceFeed))
	}
	cfg.BybitBaseURL = getEnv("BYBIT_BASE_URL", "")
	cfg.BinanceAPIKey = getEnv("BINANCE_API_KEY", "")
	cfg.BinanceSecretKey = getEnv("BINANCE_API_SECRET", "")
	cfg.BinanceTestnet = getEnvAsBool("BINANCE_TESTNET", false)

	priceTimeoutSeconds := getEnvAsInt("PRICE_TIMEOUT_SECONDS", 5)
	if priceTimeoutSeconds <= 0 {
		errs = append(errs, "PRICE_TIMEOUT_SECONDS must be positive")
	}
	cfg.PriceTimeout = time.Duration(priceTimeoutSeconds) * time.Second

	cfg.PriceConcurrency = getEnvAsInt("PRICE_CONCURRENCY", 4)
	if cfg.PriceConcurrency <= 0 {
		errs = append(errs, "PRICE_CONCURRENCY must be positive")
	}

	// Journal
	if pairs := getEnv("PAIRS", ""); pairs != "" {
		for _, p := range strings.Split(pairs, ",") {
			if p = strings.TrimSpace(p); p != "" {
				cfg.AllowedPairs = append(cfg.AllowedPairs, p)
			}
		}
	}
	cfg.DefaultLeverage = getEnvAsInt("DEFAULT_LEVERAGE", 3)
	if cfg.DefaultLeverage < 1 {
		errs = append(errs, "DEFAULT_LEVERAGE must be at least 1")
	}

	// HTTP API
	cfg.ListenAddr = getEnv("LISTEN_ADDR", ":8080")
	if cfg.ListenAddr == "" {
		errs = append(errs, "LISTEN_ADDR must be set")
	}

	// Logging
	logLevelStr := getEnv("LOG_LEVEL", "INFO")
	cfg.LogLevel = logger.ParseLevel(logLevelStr) // Use the parser from the logger package

	// Combine validation errors
	if len(errs) > 0 {
		return nil, fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}

	return cfg, nil
}

// --- Env Var Helpers ---

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

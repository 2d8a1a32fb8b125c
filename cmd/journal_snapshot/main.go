// Command journal_snapshot runs one refresh pass against the configured
// ledger and price feed and prints the portfolio summary. Useful for a
// quick look at the journal without the HTTP API.
package main

import (
	"context"
	"fmt"
	"log"

	"tradingjournal/config"
	"tradingjournal/internal/adapters/bybitclient"
	"tradingjournal/internal/adapters/csvledger"
	"tradingjournal/internal/adapters/logger"
	"tradingjournal/internal/adapters/sqlite"
	"tradingjournal/internal/domain"
	"tradingjournal/internal/journal"
	"tradingjournal/internal/ports"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}
	appLogger := logger.NewStdLogger(logger.LevelWarn) // keep stdout clean for the report

	var ledger ports.Ledger
	if cfg.LedgerBackend == config.LedgerCSV {
		ledger, err = csvledger.New(csvledger.Config{Path: cfg.CSVPath, Logger: appLogger})
	} else {
		var repo *sqlite.Repository
		repo, err = sqlite.NewRepository(sqlite.Config{DBPath: cfg.DBPath, Logger: appLogger})
		if err == nil {
			defer repo.Close()
			ledger = repo
		}
	}
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize ledger: %v", err)
	}

	feed, err := bybitclient.New(bybitclient.Config{
		BaseURL: cfg.BybitBaseURL,
		Timeout: cfg.PriceTimeout,
		Logger:  appLogger,
	})
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize price feed: %v", err)
	}

	resolver, err := journal.NewResolver(journal.ResolverConfig{
		Feed:        feed,
		Logger:      appLogger,
		Timeout:     cfg.PriceTimeout,
		Concurrency: cfg.PriceConcurrency,
	})
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize price resolver: %v", err)
	}

	svc, err := journal.NewService(journal.Config{
		Ledger:          ledger,
		Resolver:        resolver,
		Logger:          appLogger,
		DefaultLeverage: cfg.DefaultLeverage,
	})
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize journal service: %v", err)
	}

	snap := svc.Refresh(context.Background())
	printSnapshot(snap)
}

func printSnapshot(snap *journal.Snapshot) {
	if snap.LedgerDown {
		fmt.Println("ledger unavailable, showing empty journal")
	}
	s := snap.Summary
	fmt.Printf("Total Trades:  %d (%d open, %d closed)\n", s.TotalTrades, s.OpenTrades, s.ClosedTrades)
	fmt.Printf("Win Rate:      %.1f%%\n", s.WinRate)
	fmt.Printf("Closed PnL:    %+.2f\n", s.ClosedPnL)
	fmt.Printf("Open PnL:      %+.2f\n", s.OpenPnL)

	if len(s.QualityPnL) > 0 {
		fmt.Println("\nAvg PnL by setup quality:")
		for _, q := range []string{"A", "B", "C"} {
			if mean, ok := s.QualityPnL[domain.SetupQuality(q)]; ok {
				fmt.Printf("  %s: %+.2f\n", q, mean)
			}
		}
	}

	if len(s.EquityCurve) > 0 {
		fmt.Println("\nEquity curve:")
		for _, p := range s.EquityCurve {
			fmt.Printf("  %s  %+10.2f  =%10.2f\n", p.Time.Format("2006-01-02 15:04"), p.PnL, p.Cumulative)
		}
	}
}

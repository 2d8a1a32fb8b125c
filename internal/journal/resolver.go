package journal

import (
	"context"
	"fmt"
	"sync"
	"time"

	"tradingjournal/internal/ports"
)

// PriceResult is the outcome of one symbol lookup within a resolution pass.
// Err set means the price is unavailable for this pass only.
type PriceResult struct {
	Price float64
	Err   error
}

// PriceMap holds the per-symbol lookup results of one resolution pass.
type PriceMap map[string]PriceResult

// Lookup returns a usable price for the symbol, if the pass produced one.
func (m PriceMap) Lookup(symbol string) (float64, bool) {
	res, ok := m[symbol]
	if !ok || res.Err != nil || res.Price <= 0 {
		return 0, false
	}
	return res.Price, true
}

// Resolver maps a set of instrument symbols to current prices, isolating
// feed failures per symbol. Lookups within a pass run concurrently up to a
// bound, each under its own timeout; no lookup is retried and nothing is
// cached across passes.
type Resolver struct {
	feed        ports.PriceFeed
	logger      ports.Logger
	timeout     time.Duration
	concurrency int
}

// ResolverConfig holds configuration for the price resolver.
type ResolverConfig struct {
	Feed        ports.PriceFeed
	Logger      ports.Logger
	Timeout     time.Duration // Per-symbol lookup timeout
	Concurrency int           // Max in-flight lookups
}

// NewResolver creates a price resolver.
func NewResolver(cfg ResolverConfig) (*Resolver, error) {
	if cfg.Feed == nil {
		return nil, fmt.Errorf("%w: price feed is required", ports.ErrConfigurationError)
	}
	if cfg.Logger == nil {
		return nil, fmt.Errorf("%w: logger is required", ports.ErrConfigurationError)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = 4
	}
	return &Resolver{
		feed:        cfg.Feed,
		logger:      cfg.Logger,
		timeout:     timeout,
		concurrency: concurrency,
	}, nil
}

// Resolve looks up the current price for every distinct symbol in the input.
// Duplicates are queried once. A failure for one symbol never aborts the
// batch; it yields an unavailable result for that symbol only.
func (r *Resolver) Resolve(ctx context.Context, symbols []string) PriceMap {
	distinct := make([]string, 0, len(symbols))
	seen := make(map[string]struct{}, len(symbols))
	for _, s := range symbols {
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		distinct = append(distinct, s)
	}

	prices := make(PriceMap, len(distinct))
	if len(distinct) == 0 {
		return prices
	}

	var (
		mu  sync.Mutex
		wg  sync.WaitGroup
		sem = make(chan struct{}, r.concurrency)
	)
	for _, symbol := range distinct {
		wg.Add(1)
		go func(symbol string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			lookupCtx, cancel := context.WithTimeout(ctx, r.timeout)
			defer cancel()

			price, err := r.feed.LastPrice(lookupCtx, symbol)
			if err != nil {
				// Expected, recoverable: the symbol is simply unpriced this pass.
				r.logger.Warn(ctx, "Price lookup failed", map[string]interface{}{"symbol": symbol, "error": err.Error()})
			}

			mu.Lock()
			prices[symbol] = PriceResult{Price: price, Err: err}
			mu.Unlock()
		}(symbol)
	}
	wg.Wait()

	return prices
}

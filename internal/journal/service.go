package journal

import (
	"context"
	"fmt"
	"time"

	"tradingjournal/internal/domain"
	"tradingjournal/internal/ports"
)

// Snapshot is the result of one full refresh pass, ready for the
// presentation layer to consume read-only.
type Snapshot struct {
	TakenAt time.Time
	Trades  []*ValuedTrade
	Summary *Summary
	Prices  PriceMap
	// LedgerDown is set when reading the store failed entirely; the snapshot
	// then renders the fully-empty state (zero trades, zero metrics).
	LedgerDown bool
}

// Open returns the open trades of the snapshot in ledger order.
func (s *Snapshot) Open() []*ValuedTrade {
	return s.filter(true)
}

// Closed returns the closed trades of the snapshot in ledger order.
func (s *Snapshot) Closed() []*ValuedTrade {
	return s.filter(false)
}

func (s *Snapshot) filter(open bool) []*ValuedTrade {
	out := make([]*ValuedTrade, 0, len(s.Trades))
	for _, t := range s.Trades {
		if t.IsOpen() == open {
			out = append(out, t)
		}
	}
	return out
}

// Service orchestrates the journal's refresh and save paths against the
// injected ledger and price resolver. It holds no state between passes.
type Service struct {
	ledger       ports.Ledger
	resolver     *Resolver
	logger       ports.Logger
	allowedPairs map[string]struct{}
	defLeverage  int
	now          func() time.Time
}

// Config holds configuration for the journal service.
type Config struct {
	Ledger   ports.Ledger
	Resolver *Resolver
	Logger   ports.Logger
	// AllowedPairs restricts trade entry to the listed symbols. Empty means
	// any pair is accepted.
	AllowedPairs []string
	// DefaultLeverage is applied to new trades that omit leverage. Values
	// below 1 fall back to 3, the journal's historical default.
	DefaultLeverage int
}

// NewService creates the journal service.
func NewService(cfg Config) (*Service, error) {
	if cfg.Ledger == nil {
		return nil, fmt.Errorf("%w: ledger is required", ports.ErrConfigurationError)
	}
	if cfg.Resolver == nil {
		return nil, fmt.Errorf("%w: price resolver is required", ports.ErrConfigurationError)
	}
	if cfg.Logger == nil {
		return nil, fmt.Errorf("%w: logger is required", ports.ErrConfigurationError)
	}
	defLeverage := cfg.DefaultLeverage
	if defLeverage < 1 {
		defLeverage = 3
	}
	var allowed map[string]struct{}
	if len(cfg.AllowedPairs) > 0 {
		allowed = make(map[string]struct{}, len(cfg.AllowedPairs))
		for _, p := range cfg.AllowedPairs {
			allowed[p] = struct{}{}
		}
	}
	return &Service{
		ledger:       cfg.Ledger,
		resolver:     cfg.Resolver,
		logger:       cfg.Logger,
		allowedPairs: allowed,
		defLeverage:  defLeverage,
		now:          time.Now,
	}, nil
}

// Refresh performs one full pass: read the ledger, normalize rows, resolve
// prices for the distinct pairs present, value every trade and aggregate.
// A ledger read failure degrades to an empty snapshot instead of an error;
// everything below that is per-row or per-symbol and never aborts the pass.
func (s *Service) Refresh(ctx context.Context) *Snapshot {
	snap := &Snapshot{
		TakenAt: s.now(),
		Trades:  make([]*ValuedTrade, 0),
		Prices:  make(PriceMap),
	}

	rows, err := s.ledger.ReadAll(ctx)
	if err != nil {
		s.logger.Error(ctx, err, "Ledger read failed, rendering empty snapshot")
		snap.LedgerDown = true
		snap.Summary = Aggregate(nil)
		return snap
	}

	trades := make([]*domain.Trade, 0, len(rows))
	symbols := make([]string, 0, len(rows))
	for i, row := range rows {
		t := ParseRow(i, row)
		if len(t.Issues) > 0 {
			s.logger.Warn(ctx, "Ledger row has data quality issues", map[string]interface{}{"row": i, "pair": t.Pair, "issues": t.Issues})
		}
		trades = append(trades, t)
		symbols = append(symbols, t.Pair)
	}

	snap.Prices = s.resolver.Resolve(ctx, symbols)
	snap.Trades = ValueTrades(trades, snap.Prices)
	snap.Summary = Aggregate(snap.Trades)

	s.logger.Debug(ctx, "Refresh pass complete", map[string]interface{}{
		"trades":  snap.Summary.TotalTrades,
		"open":    snap.Summary.OpenTrades,
		"closed":  snap.Summary.ClosedTrades,
		"symbols": len(snap.Prices),
	})
	return snap
}

// SaveTrade validates and appends a new trade to the ledger. The candidate
// is not considered saved unless the append succeeds; append failures are
// surfaced with enough detail for the caller to display.
func (s *Service) SaveTrade(ctx context.Context, in NewTradeInput) (*domain.Trade, error) {
	if in.Leverage == 0 {
		in.Leverage = s.defLeverage
	}

	t, err := NewTrade(in)
	if err != nil {
		return nil, err
	}

	if s.allowedPairs != nil {
		if _, ok := s.allowedPairs[t.Pair]; !ok {
			return nil, fmt.Errorf("%w: pair %q is not in the configured allow-list", ports.ErrInvalidRequest, t.Pair)
		}
	}

	if WrongSideTarget(t.Direction, in.EntryPrice, in.TakeProfit) {
		// Permissive on purpose: the ratio stays as computed, but the
		// inconsistent setup is worth a trace in the log.
		s.logger.Warn(ctx, "Take profit is on the losing side of entry", map[string]interface{}{
			"pair": t.Pair, "direction": t.Direction, "entry": in.EntryPrice, "takeProfit": in.TakeProfit,
		})
	}

	if err := s.ledger.Append(ctx, ToRow(t)); err != nil {
		s.logger.Error(ctx, err, "Trade append failed", map[string]interface{}{"pair": t.Pair})
		return nil, fmt.Errorf("%w: %v", ports.ErrAppendFailed, err)
	}

	rr, _ := t.RiskRewardRatio.Value()
	s.logger.Info(ctx, "Trade saved", map[string]interface{}{
		"pair": t.Pair, "direction": t.Direction, "riskReward": rr,
	})
	return t, nil
}

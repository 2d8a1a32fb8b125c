package journal

import (
	"errors"
	"testing"

	"tradingjournal/internal/domain"
)

var errFeedDown = errors.New("price feed down")

func openTrade(pair string, dir domain.Direction, entry, size float64) *domain.Trade {
	return &domain.Trade{
		Pair:         pair,
		Direction:    dir,
		EntryPrice:   domain.Present(entry),
		PositionSize: domain.Present(size),
		State:        domain.StateOpen,
	}
}

func TestValuePnLClosedPassthrough(t *testing.T) {
	trade := &domain.Trade{
		Pair:      "BTCUSDT",
		Direction: domain.Long,
		PnL:       domain.Present(123.45),
		State:     domain.StateClosed,
	}
	prices := PriceMap{"BTCUSDT": PriceResult{Price: 99999}}

	got := ValuePnL(trade, prices)
	if v, ok := got.Value(); !ok || v != 123.45 {
		t.Errorf("closed trade PnL = %v (ok=%v), want 123.45 passthrough", v, ok)
	}

	// Recorded PnL stays authoritative even against an absurd market price.
	prices["BTCUSDT"] = PriceResult{Price: 1}
	got = ValuePnL(trade, prices)
	if v, _ := got.Value(); v != 123.45 {
		t.Errorf("closed trade PnL changed with market price: %v", v)
	}
}

func TestValuePnLOpenMarkToMarket(t *testing.T) {
	tests := []struct {
		name    string
		dir     domain.Direction
		current float64
		want    float64
	}{
		{name: "long in profit", dir: domain.Long, current: 110, want: 100},
		{name: "long in loss", dir: domain.Long, current: 95, want: -50},
		{name: "short mirrors long", dir: domain.Short, current: 110, want: -100},
		{name: "short in profit", dir: domain.Short, current: 95, want: 50},
		{name: "flat at entry", dir: domain.Long, current: 100, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			trade := openTrade("ETHUSDT", tt.dir, 100, 10)
			prices := PriceMap{"ETHUSDT": PriceResult{Price: tt.current}}

			got := ValuePnL(trade, prices)
			v, ok := got.Value()
			if !ok {
				t.Fatalf("expected a present PnL")
			}
			if v != tt.want {
				t.Errorf("PnL = %v, want %v", v, tt.want)
			}
		})
	}
}

func TestValuePnLOpenWithoutDataIsAbsent(t *testing.T) {
	tests := []struct {
		name   string
		trade  *domain.Trade
		prices PriceMap
	}{
		{
			name:   "no price for pair",
			trade:  openTrade("SOLUSDT", domain.Long, 100, 10),
			prices: PriceMap{},
		},
		{
			name:   "feed error for pair",
			trade:  openTrade("SOLUSDT", domain.Long, 100, 10),
			prices: PriceMap{"SOLUSDT": PriceResult{Err: errFeedDown}},
		},
		{
			name: "malformed entry price",
			trade: &domain.Trade{
				Pair:         "SOLUSDT",
				Direction:    domain.Long,
				EntryPrice:   domain.Malformed("??"),
				PositionSize: domain.Present(10),
				State:        domain.StateOpen,
			},
			prices: PriceMap{"SOLUSDT": PriceResult{Price: 50}},
		},
		{
			name: "absent position size",
			trade: &domain.Trade{
				Pair:       "SOLUSDT",
				Direction:  domain.Long,
				EntryPrice: domain.Present(100),
				State:      domain.StateOpen,
			},
			prices: PriceMap{"SOLUSDT": PriceResult{Price: 50}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ValuePnL(tt.trade, tt.prices)
			if got.State() != domain.FieldAbsent {
				t.Errorf("PnL state = %v, want absent: no data must not read as flat", got.State())
			}
		})
	}
}

func TestValueTrades(t *testing.T) {
	closed := &domain.Trade{
		Pair:      "BTCUSDT",
		Direction: domain.Long,
		PnL:       domain.Present(60),
		State:     domain.StateClosed,
	}
	open := openTrade("BTCUSDT", domain.Long, 100, 10)
	unpriced := openTrade("DOGEUSDT", domain.Short, 0.1, 1000)

	prices := PriceMap{"BTCUSDT": PriceResult{Price: 110}}
	valued := ValueTrades([]*domain.Trade{closed, open, unpriced}, prices)

	if len(valued) != 3 {
		t.Fatalf("got %d valued trades, want 3", len(valued))
	}
	if valued[0].CurrentPrice.IsPresent() || valued[0].CurrentPnL.IsPresent() {
		t.Errorf("closed trade should carry no live valuation")
	}
	if v, _ := valued[0].EffectivePnL().Value(); v != 60 {
		t.Errorf("closed effective PnL = %v, want 60", v)
	}
	if price, ok := valued[1].CurrentPrice.Value(); !ok || price != 110 {
		t.Errorf("open trade current price = %v (ok=%v), want 110", price, ok)
	}
	if v, _ := valued[1].EffectivePnL().Value(); v != 100 {
		t.Errorf("open effective PnL = %v, want 100", v)
	}
	if valued[2].CurrentPnL.State() != domain.FieldAbsent {
		t.Errorf("unpriced open trade should value to absent")
	}
}

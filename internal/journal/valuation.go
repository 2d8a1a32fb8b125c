package journal

import "tradingjournal/internal/domain"

// ValuedTrade pairs a trade with its derived, never-persisted valuation.
type ValuedTrade struct {
	*domain.Trade
	CurrentPrice domain.Field // Last price for the pair this pass; open trades only
	CurrentPnL   domain.Field // Mark-to-market PnL; open trades only
}

// EffectivePnL is the realized PnL for closed trades and the mark-to-market
// PnL for open ones.
func (v *ValuedTrade) EffectivePnL() domain.Field {
	if v.IsOpen() {
		return v.CurrentPnL
	}
	return v.PnL
}

// ValuePnL computes the effective PnL of one trade against the price map.
//
// Closed trades pass through their persisted realized PnL untouched. Open
// trades are marked to market on notional size (leverage excluded):
//
//	LONG:  (current − entry) × size
//	SHORT: (entry − current) × size
//
// An open trade with no usable price, entry price or position size values to
// Absent, never zero: "no data" and "flat" must stay distinguishable.
func ValuePnL(t *domain.Trade, prices PriceMap) domain.Field {
	if !t.IsOpen() {
		return t.PnL
	}

	current, ok := prices.Lookup(t.Pair)
	if !ok {
		return domain.Absent()
	}
	entry, ok := t.EntryPrice.Value()
	if !ok {
		return domain.Absent()
	}
	size, ok := t.PositionSize.Value()
	if !ok {
		return domain.Absent()
	}

	if t.Direction == domain.Short {
		return domain.Present((entry - current) * size)
	}
	return domain.Present((current - entry) * size)
}

// ValueTrades computes the per-trade valuation for the whole ledger against
// an immutable price map. Trades are independent; order is preserved.
func ValueTrades(trades []*domain.Trade, prices PriceMap) []*ValuedTrade {
	valued := make([]*ValuedTrade, 0, len(trades))
	for _, t := range trades {
		v := &ValuedTrade{Trade: t}
		if t.IsOpen() {
			if price, ok := prices.Lookup(t.Pair); ok {
				v.CurrentPrice = domain.Present(price)
			}
			v.CurrentPnL = ValuePnL(t, prices)
		}
		valued = append(valued, v)
	}
	return valued
}

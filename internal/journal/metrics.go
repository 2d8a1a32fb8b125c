package journal

import (
	"sort"
	"time"

	"tradingjournal/internal/domain"
)

// EquityPoint is one step of the cumulative realized PnL series.
type EquityPoint struct {
	Time       time.Time
	PnL        float64 // Realized PnL of the trade closing at this point
	Cumulative float64 // Running sum up to and including this trade
}

// Summary holds the portfolio-level rollups for one refresh pass.
type Summary struct {
	TotalTrades   int     // All rows, open and closed, coercion issues included
	OpenTrades    int     // Trades without a recorded exit
	ClosedTrades  int     // Trades with a recorded (or attempted) exit
	WinningTrades int     // Closed trades with positive realized PnL
	WinRate       float64 // Winners over all trades, as a percentage
	ClosedPnL     float64 // Sum of realized PnL; absent values excluded
	OpenPnL       float64 // Sum of mark-to-market PnL over priceable open trades

	EquityCurve []EquityPoint
	// QualityPnL maps each setup grade present in the ledger to the mean
	// realized PnL of its trades. Open trades contribute nothing here: the
	// rollup characterizes realized outcomes, not live marks.
	QualityPnL map[domain.SetupQuality]float64
}

// Aggregate reduces the valued trade set into portfolio metrics. An empty
// input degrades every metric to zero or empty without error.
func Aggregate(trades []*ValuedTrade) *Summary {
	s := &Summary{
		EquityCurve: make([]EquityPoint, 0),
		QualityPnL:  make(map[domain.SetupQuality]float64),
	}

	var curve []*ValuedTrade
	qualitySums := make(map[domain.SetupQuality]float64)
	qualityCounts := make(map[domain.SetupQuality]int)

	for _, t := range trades {
		s.TotalTrades++
		if t.IsOpen() {
			s.OpenTrades++
			if pnl, ok := t.CurrentPnL.Value(); ok {
				s.OpenPnL += pnl
			}
			continue
		}

		s.ClosedTrades++
		pnl, ok := t.PnL.Value()
		if !ok {
			// Absent or malformed realized PnL: counted above, excluded
			// from every sum rather than treated as zero.
			continue
		}
		if pnl > 0 {
			s.WinningTrades++
		}
		s.ClosedPnL += pnl
		if !t.HasIssue(domain.IssueBadTimestamp) {
			curve = append(curve, t)
		}
		if t.SetupQuality != "" {
			qualitySums[t.SetupQuality] += pnl
			qualityCounts[t.SetupQuality]++
		}
	}

	if s.TotalTrades > 0 {
		s.WinRate = float64(s.WinningTrades) / float64(s.TotalTrades) * 100
	}

	// Equity curve: strictly time-ordered prefix sum over realized PnL.
	// The stable sort keeps ledger order for equal timestamps so the curve
	// is deterministic.
	sort.SliceStable(curve, func(i, j int) bool {
		return curve[i].Timestamp.Before(curve[j].Timestamp)
	})
	var cumulative float64
	for _, t := range curve {
		pnl, _ := t.PnL.Value()
		cumulative += pnl
		s.EquityCurve = append(s.EquityCurve, EquityPoint{
			Time:       t.Timestamp,
			PnL:        pnl,
			Cumulative: cumulative,
		})
	}

	for quality, sum := range qualitySums {
		s.QualityPnL[quality] = sum / float64(qualityCounts[quality])
	}

	return s
}

package journal

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"tradingjournal/internal/domain"
	"tradingjournal/internal/ports"
)

// Timestamp layouts accepted from ledger rows. The first is what the journal
// writes; the rest cover legacy rows.
var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02",
}

// ParseRow normalizes one raw ledger row into a Trade.
//
// Numeric cells coerce forgivingly: empty becomes Absent, unparseable text
// becomes Malformed. A malformed timestamp does not drop the row; it is
// flagged so the row stays in trade totals but out of time-ordered
// aggregates. Open/Closed classification happens after coercion so that an
// unparseable exit price still counts as an attempted exit.
func ParseRow(id int, row domain.Row) *domain.Trade {
	t := &domain.Trade{
		ID:        id,
		Pair:      strings.TrimSpace(row[domain.ColPair]),
		Direction: domain.Direction(strings.TrimSpace(row[domain.ColDirection])),

		EntryPrice:   domain.ParseField(row[domain.ColEntryPrice]),
		StopLoss:     domain.ParseField(row[domain.ColStopLoss]),
		TakeProfit:   domain.ParseField(row[domain.ColTakeProfit]),
		PositionSize: domain.ParseField(row[domain.ColPositionSize]),
		Leverage:     domain.ParseField(row[domain.ColLeverage]),

		ExitPrice:       domain.ParseField(row[domain.ColExitPrice]),
		PnL:             domain.ParseField(row[domain.ColPnL]),
		PnLPercent:      domain.ParseField(row[domain.ColPnLPercent]),
		RiskRewardRatio: domain.ParseField(row[domain.ColRiskRewardRatio]),

		SetupQuality:     domain.SetupQuality(strings.TrimSpace(row[domain.ColSetupQuality])),
		EmotionPreTrade:  row[domain.ColEmotionPreTrade],
		EmotionPostTrade: row[domain.ColEmotionPostTrade],
		LessonLearned:    row[domain.ColLessonLearned],
		Strategy:         row[domain.ColStrategy],
		Timeframe:        row[domain.ColTimeframe],
		Tags:             row[domain.ColTags],
	}

	ts, err := parseTimestamp(row[domain.ColTimestamp])
	if err != nil {
		t.Issues = append(t.Issues, domain.IssueBadTimestamp)
	} else {
		t.Timestamp = ts
	}

	// Classification: any non-empty exit cell means an exit was attempted.
	switch t.ExitPrice.State() {
	case domain.FieldPresent:
		t.State = domain.StateClosed
	case domain.FieldMalformed:
		t.State = domain.StateClosed
		t.Issues = append(t.Issues, domain.IssueBadExitPrice)
	default:
		t.State = domain.StateOpen
	}

	if t.EntryPrice.IsMalformed() {
		t.Issues = append(t.Issues, domain.IssueBadEntryPrice)
	}
	if t.PositionSize.IsMalformed() {
		t.Issues = append(t.Issues, domain.IssueBadPositionSize)
	}

	return t
}

func parseTimestamp(raw string) (time.Time, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable timestamp %q", raw)
}

// NewTradeInput holds the entry-side fields supplied when a trade is created.
type NewTradeInput struct {
	Timestamp       time.Time
	Pair            string
	Direction       domain.Direction
	EntryPrice      float64
	StopLoss        float64
	TakeProfit      float64
	PositionSize    float64
	Leverage        int
	SetupQuality    domain.SetupQuality
	EmotionPreTrade string
	Notes           string
}

// NewTrade validates the entry-side fields and builds an open Trade with its
// risk/reward ratio derived. Exit-side fields stay absent until an external
// process closes the trade.
func NewTrade(in NewTradeInput) (*domain.Trade, error) {
	if strings.TrimSpace(in.Pair) == "" {
		return nil, fmt.Errorf("%w: pair is required", ports.ErrInvalidRequest)
	}
	if !in.Direction.IsValid() {
		return nil, fmt.Errorf("%w: direction must be LONG or SHORT, got %q", ports.ErrInvalidRequest, in.Direction)
	}
	if in.EntryPrice <= 0 {
		return nil, fmt.Errorf("%w: entry price must be positive", ports.ErrInvalidRequest)
	}
	if in.StopLoss < 0 || in.TakeProfit < 0 {
		return nil, fmt.Errorf("%w: stop loss and take profit cannot be negative", ports.ErrInvalidRequest)
	}
	if in.PositionSize < 0 {
		return nil, fmt.Errorf("%w: position size cannot be negative", ports.ErrInvalidRequest)
	}
	if !in.SetupQuality.IsValid() {
		return nil, fmt.Errorf("%w: setup quality must be A, B or C, got %q", ports.ErrInvalidRequest, in.SetupQuality)
	}

	ts := in.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	leverage := in.Leverage
	if leverage < 1 {
		leverage = 1
	}

	t := &domain.Trade{
		Timestamp:       ts,
		Pair:            strings.TrimSpace(in.Pair),
		Direction:       in.Direction,
		EntryPrice:      domain.Present(in.EntryPrice),
		PositionSize:    domain.Present(in.PositionSize),
		Leverage:        domain.Present(float64(leverage)),
		RiskRewardRatio: domain.Present(RiskReward(in.EntryPrice, in.StopLoss, in.TakeProfit)),
		SetupQuality:    in.SetupQuality,
		EmotionPreTrade: in.EmotionPreTrade,
		LessonLearned:   in.Notes,
		State:           domain.StateOpen,
	}
	if in.StopLoss > 0 {
		t.StopLoss = domain.Present(in.StopLoss)
	}
	if in.TakeProfit > 0 {
		t.TakeProfit = domain.Present(in.TakeProfit)
	}
	return t, nil
}

// RiskReward derives |take − entry| / |entry − stop| at trade entry.
// A zero or absent stop, or a stop equal to entry, yields 0 rather than a
// division error.
func RiskReward(entry, stop, take float64) float64 {
	risk := abs(entry - stop)
	if stop == 0 || risk == 0 {
		return 0
	}
	return abs(take-entry) / risk
}

// WrongSideTarget reports whether the take profit sits on the losing side of
// entry for the chosen direction (e.g., a SHORT with take profit above
// entry). The ratio is still stored as computed; callers may warn.
func WrongSideTarget(dir domain.Direction, entry, take float64) bool {
	if take == 0 {
		return false
	}
	switch dir {
	case domain.Long:
		return take < entry
	case domain.Short:
		return take > entry
	}
	return false
}

// ToRow serializes a trade back to the external row schema. Not-yet-known
// cells are written as empty strings, matching ledger expectations.
func ToRow(t *domain.Trade) domain.Row {
	return domain.Row{
		domain.ColTimestamp:        t.Timestamp.Format("2006-01-02 15:04:05"),
		domain.ColPair:             t.Pair,
		domain.ColDirection:        string(t.Direction),
		domain.ColEntryPrice:       t.EntryPrice.Cell(),
		domain.ColStopLoss:         t.StopLoss.Cell(),
		domain.ColTakeProfit:       t.TakeProfit.Cell(),
		domain.ColPositionSize:     t.PositionSize.Cell(),
		domain.ColLeverage:         formatLeverage(t.Leverage),
		domain.ColSetupQuality:     string(t.SetupQuality),
		domain.ColEmotionPreTrade:  t.EmotionPreTrade,
		domain.ColLessonLearned:    t.LessonLearned,
		domain.ColExitPrice:        t.ExitPrice.Cell(),
		domain.ColPnL:              t.PnL.Cell(),
		domain.ColPnLPercent:       t.PnLPercent.Cell(),
		domain.ColRiskRewardRatio:  t.RiskRewardRatio.Cell(),
		domain.ColEmotionPostTrade: t.EmotionPostTrade,
		domain.ColStrategy:         t.Strategy,
		domain.ColTimeframe:        t.Timeframe,
		domain.ColTags:             t.Tags,
	}
}

func formatLeverage(f domain.Field) string {
	if v, ok := f.Value(); ok {
		return strconv.Itoa(int(v))
	}
	return f.Cell()
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

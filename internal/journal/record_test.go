package journal

import (
	"errors"
	"testing"
	"time"

	"tradingjournal/internal/domain"
	"tradingjournal/internal/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func closedRow() domain.Row {
	return domain.Row{
		domain.ColTimestamp:       "2024-03-01 10:30:00",
		domain.ColPair:            "BTCUSDT",
		domain.ColDirection:       "LONG",
		domain.ColEntryPrice:      "50000",
		domain.ColStopLoss:        "48000",
		domain.ColTakeProfit:      "56000",
		domain.ColPositionSize:    "1000",
		domain.ColLeverage:        "3",
		domain.ColSetupQuality:    "A",
		domain.ColExitPrice:       "53000",
		domain.ColPnL:             "60",
		domain.ColPnLPercent:      "6",
		domain.ColRiskRewardRatio: "3",
	}
}

func TestParseRowClassification(t *testing.T) {
	tests := []struct {
		name       string
		mutate     func(domain.Row)
		wantState  domain.TradeState
		wantIssues []domain.Issue
	}{
		{
			name:      "closed trade",
			mutate:    func(r domain.Row) {},
			wantState: domain.StateClosed,
		},
		{
			name:      "open trade",
			mutate:    func(r domain.Row) { r[domain.ColExitPrice] = "" },
			wantState: domain.StateOpen,
		},
		{
			name:       "attempted exit with unparseable price stays closed",
			mutate:     func(r domain.Row) { r[domain.ColExitPrice] = "pending" },
			wantState:  domain.StateClosed,
			wantIssues: []domain.Issue{domain.IssueBadExitPrice},
		},
		{
			name:       "malformed timestamp flagged not dropped",
			mutate:     func(r domain.Row) { r[domain.ColTimestamp] = "yesterday" },
			wantState:  domain.StateClosed,
			wantIssues: []domain.Issue{domain.IssueBadTimestamp},
		},
		{
			name:       "malformed entry price flagged",
			mutate:     func(r domain.Row) { r[domain.ColEntryPrice] = "??" },
			wantState:  domain.StateClosed,
			wantIssues: []domain.Issue{domain.IssueBadEntryPrice},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := closedRow()
			tt.mutate(row)
			trade := ParseRow(0, row)

			assert.Equal(t, tt.wantState, trade.State)
			for _, issue := range tt.wantIssues {
				assert.True(t, trade.HasIssue(issue), "expected issue %s", issue)
			}
			if len(tt.wantIssues) == 0 {
				assert.Empty(t, trade.Issues)
			}
		})
	}
}

func TestParseRowCoercion(t *testing.T) {
	trade := ParseRow(3, closedRow())

	assert.Equal(t, 3, trade.ID)
	assert.Equal(t, "BTCUSDT", trade.Pair)
	assert.Equal(t, domain.Long, trade.Direction)
	assert.Equal(t, domain.QualityA, trade.SetupQuality)
	assert.Equal(t, time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC), trade.Timestamp)

	entry, ok := trade.EntryPrice.Value()
	require.True(t, ok)
	assert.Equal(t, 50000.0, entry)
	pnl, ok := trade.PnL.Value()
	require.True(t, ok)
	assert.Equal(t, 60.0, pnl)
}

func TestParseRowForgivingOnEmptyNumericCells(t *testing.T) {
	row := closedRow()
	row[domain.ColStopLoss] = ""
	row[domain.ColTakeProfit] = ""
	row[domain.ColLeverage] = ""
	trade := ParseRow(0, row)

	assert.Equal(t, domain.FieldAbsent, trade.StopLoss.State())
	assert.Equal(t, domain.FieldAbsent, trade.TakeProfit.State())
	assert.Equal(t, domain.FieldAbsent, trade.Leverage.State())
	assert.Empty(t, trade.Issues, "empty cells are not data quality issues")
}

func TestNewTradeDerivesRiskReward(t *testing.T) {
	trade, err := NewTrade(NewTradeInput{
		Pair:         "BTCUSDT",
		Direction:    domain.Long,
		EntryPrice:   100,
		StopLoss:     90,
		TakeProfit:   130,
		PositionSize: 1000,
		Leverage:     3,
		SetupQuality: domain.QualityA,
	})
	require.NoError(t, err)

	rr, ok := trade.RiskRewardRatio.Value()
	require.True(t, ok)
	assert.Equal(t, 3.0, rr)
	assert.Equal(t, domain.StateOpen, trade.State)
	assert.False(t, trade.ExitPrice.IsPresent())
	assert.False(t, trade.PnL.IsPresent())
	assert.False(t, trade.PnLPercent.IsPresent())
}

func TestNewTradeValidation(t *testing.T) {
	valid := NewTradeInput{
		Pair:         "ETHUSDT",
		Direction:    domain.Short,
		EntryPrice:   2000,
		PositionSize: 500,
		Leverage:     2,
		SetupQuality: domain.QualityB,
	}

	tests := []struct {
		name   string
		mutate func(*NewTradeInput)
	}{
		{name: "missing pair", mutate: func(in *NewTradeInput) { in.Pair = " " }},
		{name: "bad direction", mutate: func(in *NewTradeInput) { in.Direction = "SIDEWAYS" }},
		{name: "zero entry", mutate: func(in *NewTradeInput) { in.EntryPrice = 0 }},
		{name: "negative size", mutate: func(in *NewTradeInput) { in.PositionSize = -1 }},
		{name: "negative stop", mutate: func(in *NewTradeInput) { in.StopLoss = -5 }},
		{name: "bad quality", mutate: func(in *NewTradeInput) { in.SetupQuality = "D" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid
			tt.mutate(&in)
			_, err := NewTrade(in)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ports.ErrInvalidRequest))
		})
	}

	_, err := NewTrade(valid)
	assert.NoError(t, err)
}

func TestRiskReward(t *testing.T) {
	tests := []struct {
		name              string
		entry, stop, take float64
		want              float64
	}{
		{name: "three to one", entry: 100, stop: 90, take: 130, want: 3.0},
		{name: "short setup", entry: 100, stop: 110, take: 70, want: 3.0},
		{name: "absent stop guards division", entry: 100, stop: 0, take: 130, want: 0},
		{name: "stop equal to entry guards division", entry: 100, stop: 100, take: 130, want: 0},
		{name: "wrong side target still positive", entry: 100, stop: 110, take: 120, want: 2.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RiskReward(tt.entry, tt.stop, tt.take))
		})
	}
}

func TestWrongSideTarget(t *testing.T) {
	assert.False(t, WrongSideTarget(domain.Long, 100, 130))
	assert.True(t, WrongSideTarget(domain.Long, 100, 90))
	assert.False(t, WrongSideTarget(domain.Short, 100, 70))
	assert.True(t, WrongSideTarget(domain.Short, 100, 120))
	assert.False(t, WrongSideTarget(domain.Long, 100, 0), "absent target is not wrong-side")
}

func TestToRowWritesEmptyStringsForUnknownCells(t *testing.T) {
	trade, err := NewTrade(NewTradeInput{
		Timestamp:    time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC),
		Pair:         "BTCUSDT",
		Direction:    domain.Long,
		EntryPrice:   100,
		StopLoss:     90,
		TakeProfit:   130,
		PositionSize: 1000,
		Leverage:     3,
		SetupQuality: domain.QualityA,
	})
	require.NoError(t, err)

	row := ToRow(trade)
	assert.Equal(t, "2024-03-01 10:30:00", row[domain.ColTimestamp])
	assert.Equal(t, "100", row[domain.ColEntryPrice])
	assert.Equal(t, "3", row[domain.ColLeverage])
	assert.Equal(t, "3", row[domain.ColRiskRewardRatio])
	for _, col := range []string{
		domain.ColExitPrice, domain.ColPnL, domain.ColPnLPercent,
		domain.ColEmotionPostTrade, domain.ColStrategy, domain.ColTimeframe, domain.ColTags,
	} {
		assert.Equal(t, "", row[col], "column %s should be empty", col)
	}
}

func TestRoundTripNewTradeThroughRow(t *testing.T) {
	trade, err := NewTrade(NewTradeInput{
		Pair:         "BTCUSDT",
		Direction:    domain.Long,
		EntryPrice:   100,
		StopLoss:     90,
		TakeProfit:   130,
		PositionSize: 1000,
		Leverage:     3,
		SetupQuality: domain.QualityB,
	})
	require.NoError(t, err)

	back := ParseRow(0, ToRow(trade))
	assert.Equal(t, domain.StateOpen, back.State)
	rr, ok := back.RiskRewardRatio.Value()
	require.True(t, ok)
	assert.Equal(t, 3.0, rr)
	assert.False(t, back.ExitPrice.IsPresent())
	assert.False(t, back.PnL.IsPresent())
	assert.False(t, back.PnLPercent.IsPresent())
}

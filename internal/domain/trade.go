package domain

import "time"

// Ledger column names, matching the external row schema exactly.
const (
	ColTimestamp        = "timestamp"
	ColPair             = "pair"
	ColDirection        = "direction"
	ColEntryPrice       = "entry_price"
	ColStopLoss         = "stop_loss"
	ColTakeProfit       = "take_profit"
	ColPositionSize     = "position_size"
	ColLeverage         = "leverage"
	ColSetupQuality     = "setup_quality"
	ColEmotionPreTrade  = "emotion_pre_trade"
	ColLessonLearned    = "lesson_learned"
	ColExitPrice        = "exit_price"
	ColPnL              = "pnl"
	ColPnLPercent       = "pnl_percent"
	ColRiskRewardRatio  = "risk_reward_ratio"
	ColEmotionPostTrade = "emotion_post_trade"
	ColStrategy         = "strategy"
	ColTimeframe        = "timeframe"
	ColTags             = "tags"
)

// Columns lists the ledger columns in their canonical row order.
var Columns = []string{
	ColTimestamp, ColPair, ColDirection, ColEntryPrice, ColStopLoss,
	ColTakeProfit, ColPositionSize, ColLeverage, ColSetupQuality,
	ColEmotionPreTrade, ColLessonLearned, ColExitPrice, ColPnL,
	ColPnLPercent, ColRiskRewardRatio, ColEmotionPostTrade, ColStrategy,
	ColTimeframe, ColTags,
}

// Row is one raw ledger row: column name to raw cell text.
type Row map[string]string

// Trade is one normalized ledger row.
//
// Numeric cells are Fields so that "empty", "parsed" and "unparseable" stay
// distinguishable downstream. For closed trades PnL and PnLPercent are the
// ledger's authoritative realized values and are never recomputed here.
type Trade struct {
	ID        int       // Row position in the ledger, used only for ordering
	Timestamp time.Time // When the trade was opened (zero if unparseable)
	Pair      string    // Instrument symbol (e.g., "BTCUSDT")
	Direction Direction // LONG or SHORT

	EntryPrice   Field
	StopLoss     Field
	TakeProfit   Field
	PositionSize Field // Notional size in quote currency
	Leverage     Field // Informational only, excluded from PnL math

	ExitPrice       Field // Present iff the trade is closed
	PnL             Field // Realized PnL, present iff closed
	PnLPercent      Field // Realized PnL over position size, present iff closed
	RiskRewardRatio Field // Derived once at creation, immutable thereafter

	SetupQuality     SetupQuality
	EmotionPreTrade  string
	EmotionPostTrade string
	LessonLearned    string
	Strategy         string
	Timeframe        string
	Tags             string

	State  TradeState // Assigned once at normalization
	Issues []Issue    // Row-level data quality flags
}

// IsOpen reports whether the trade has no recorded exit.
func (t *Trade) IsOpen() bool {
	return t.State == StateOpen
}

// HasIssue reports whether the given data quality flag was raised for the row.
func (t *Trade) HasIssue(issue Issue) bool {
	for _, i := range t.Issues {
		if i == issue {
			return true
		}
	}
	return false
}

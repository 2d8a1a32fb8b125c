package domain

// Direction represents the side of a trade (LONG or SHORT).
type Direction string

const (
	Long  Direction = "LONG"
	Short Direction = "SHORT"
)

// IsValid reports whether the direction is one of the known values.
func (d Direction) IsValid() bool {
	return d == Long || d == Short
}

// TradeState represents whether a trade is still open or has been closed.
// It is derived once, at normalization time, from the presence of an exit
// price in the ledger row; there is no separate status column.
type TradeState string

const (
	StateOpen   TradeState = "open"
	StateClosed TradeState = "closed"
)

// SetupQuality is the subjective grade the trader assigned to the setup.
type SetupQuality string

const (
	QualityA SetupQuality = "A"
	QualityB SetupQuality = "B"
	QualityC SetupQuality = "C"
)

// IsValid reports whether the quality is one of the known grades.
func (q SetupQuality) IsValid() bool {
	return q == QualityA || q == QualityB || q == QualityC
}

// Issue flags a row-level data quality problem found during normalization.
// Issues never abort a refresh pass; affected rows are excluded from the
// aggregates the issue corrupts but still counted in trade totals.
type Issue string

const (
	IssueBadTimestamp    Issue = "bad_timestamp"     // row cannot be ordered or bucketed
	IssueBadExitPrice    Issue = "bad_exit_price"    // attempted exit with an unparseable price
	IssueBadEntryPrice   Issue = "bad_entry_price"   // trade cannot be marked to market
	IssueBadPositionSize Issue = "bad_position_size" // trade cannot be marked to market
)

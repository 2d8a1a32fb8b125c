package ports

import "context"

// PriceFeed defines the interface for a market data source that returns the
// last traded price for one symbol per call.
// Implementations must honor ctx deadlines and wrap failures (network errors,
// non-success envelopes, unparseable payloads) with ErrFeedUnavailable or
// ErrMalformedResponse rather than panicking; a failed lookup for one symbol
// is an expected, recoverable condition.
type PriceFeed interface {
	// LastPrice retrieves the last traded price for the given symbol.
	LastPrice(ctx context.Context, symbol string) (float64, error)
}

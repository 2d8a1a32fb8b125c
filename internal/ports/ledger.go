package ports

import (
	"context"

	"tradingjournal/internal/domain"
)

// Ledger defines the interface for the append-only trade record store.
// Rows are returned in their original ledger order; the engine never updates
// or deletes a row.
type Ledger interface {
	// ReadAll retrieves every raw row in ledger order. A failure means the
	// whole store is unreachable and should be wrapped with ErrLedgerUnavailable.
	ReadAll(ctx context.Context) ([]domain.Row, error)
	// Append adds one row at the end of the ledger. The write is a single
	// external call and may fail partially; failures must be surfaced to the
	// caller, wrapped with ErrAppendFailed.
	Append(ctx context.Context, row domain.Row) error
}

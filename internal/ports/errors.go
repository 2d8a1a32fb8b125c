package ports

import "errors"

// Standard application-level errors.
// Adapters should wrap underlying infrastructure errors with these standard errors.
var (
	// General Errors
	ErrUnknown            = errors.New("unknown error occurred")
	ErrInvalidRequest     = errors.New("invalid request parameters or format")
	ErrNotFound           = errors.New("resource not found")
	ErrTimeout            = errors.New("operation timed out")
	ErrContextCanceled    = errors.New("operation canceled via context")
	ErrConfigurationError = errors.New("invalid or missing configuration")

	// Price Feed Errors
	ErrFeedUnavailable   = errors.New("price feed is unavailable")
	ErrMalformedResponse = errors.New("price feed returned a malformed response")

	// Ledger Errors
	ErrLedgerUnavailable = errors.New("ledger store is unavailable")
	ErrAppendFailed      = errors.New("failed to append trade to the ledger")
)

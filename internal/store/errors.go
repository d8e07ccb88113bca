package store

import "errors"

// Sentinel errors surfaced by the storage layer. Callers classify them with
// errors.Is; the HTTP layer maps them onto response statuses.
var (
	ErrStoreNotFound       = errors.New("store not found")
	ErrProductNotFound     = errors.New("product not found")
	ErrOrderNotFound       = errors.New("order not found")
	ErrExpenseNotFound     = errors.New("expense not found")
	ErrLedgerEntryNotFound = errors.New("ledger entry not found")
	ErrInsufficientStock   = errors.New("insufficient stock")

	// ErrLedgerInconsistent marks an order that exists without its paired
	// ledger entry (or vice versa). It must be surfaced, never swallowed.
	ErrLedgerInconsistent = errors.New("ledger entry does not match source record")
)

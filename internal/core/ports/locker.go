package ports

import "context"

// LedgerLocker grants the single-writer section of a ledger. Posting, closing, locking,
// reopening and period creation run under it so check-then-act sequences cannot interleave.
type LedgerLocker interface {
	// Acquire blocks until the ledger's section is held or ctx ends. The returned release
	// func must be called exactly once.
	Acquire(ctx context.Context, ledgerID string) (release func(), err error)
}

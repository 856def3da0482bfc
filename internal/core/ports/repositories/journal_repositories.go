package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/ledger_core/internal/core/domain"
)

// EntryFilter narrows ListEntries. Zero values match everything.
type EntryFilter struct {
	Status    domain.EntryStatus
	DateRange domain.DateRange
}

// Matches reports whether e passes the filter.
func (f EntryFilter) Matches(e domain.JournalEntry) bool {
	if f.Status != "" && e.Status != f.Status {
		return false
	}
	return f.DateRange.Contains(e.EntryDate)
}

// JournalReader defines read operations for journal data
type JournalReader interface {
	// FindEntryByID retrieves a journal entry with its lines.
	FindEntryByID(ctx context.Context, ledgerID, entryID string) (*domain.JournalEntry, error)

	// ListEntries retrieves entries ordered by (entry date, sequence) using token-based pagination.
	// It returns the entries, a token for the next page, and an error.
	ListEntries(ctx context.Context, ledgerID string, filter EntryFilter, limit int, nextToken *string) ([]domain.JournalEntry, *string, error)

	// LoadEntriesForAccount retrieves entries with ledger effect (POSTED or REVERSED) that have
	// at least one line on accountID and an entry date inside rng, ordered by date and sequence.
	LoadEntriesForAccount(ctx context.Context, ledgerID, accountID string, rng domain.DateRange) ([]domain.JournalEntry, error)

	// SumPostedTotals aggregates debit and credit amounts of lines with ledger effect dated inside rng.
	SumPostedTotals(ctx context.Context, ledgerID string, rng domain.DateRange) ([]domain.Totals, error)

	// SumAccountTotals aggregates per-account debit and credit amounts of lines with ledger effect up to asOf.
	SumAccountTotals(ctx context.Context, ledgerID string, asOf time.Time) (map[string]domain.Totals, error)

	// IsAccountReferenced reports whether any non-draft entry has a line on accountID.
	IsAccountReferenced(ctx context.Context, ledgerID, accountID string) (bool, error)
}

// JournalWriter defines write operations for journal data
type JournalWriter interface {
	// NextEntryNumber reserves the next per-ledger entry sequence.
	NextEntryNumber(ctx context.Context, ledgerID string) (int64, error)

	// SaveDraft inserts or replaces a DRAFT entry. Replacing an entry that is no longer a draft
	// yields apperrors.ErrEntryNotDraft.
	SaveDraft(ctx context.Context, entry domain.JournalEntry) error

	// AppendEntry persists a POSTED entry (inserting it or promoting its draft) and applies the
	// per-account balance changes atomically.
	AppendEntry(ctx context.Context, entry domain.JournalEntry, balanceChanges map[string]domain.Money) error

	// AppendReversal marks the original REVERSED, links it to reversal, persists reversal and
	// applies its balance changes atomically. If the original is no longer POSTED it yields
	// apperrors.ErrAlreadyReversed and changes nothing.
	AppendReversal(ctx context.Context, originalID string, reversal domain.JournalEntry, balanceChanges map[string]domain.Money) error
}

// JournalRepositoryFacade combines all journal-related repository interfaces
type JournalRepositoryFacade interface {
	JournalReader
	JournalWriter
}

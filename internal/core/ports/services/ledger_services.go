package services

import (
	"context"
	"time"

	"github.com/SscSPs/ledger_core/internal/core/domain"
	"github.com/SscSPs/ledger_core/internal/dto"
	"github.com/SscSPs/ledger_core/internal/utils/accounting"
)

// JournalReaderSvc defines read operations for journal data
type JournalReaderSvc interface {
	// GetEntry retrieves a journal entry with its lines.
	GetEntry(ctx context.Context, ledgerID, entryID string) (*domain.JournalEntry, error)

	// ListEntries retrieves a page of journal entries.
	ListEntries(ctx context.Context, ledgerID string, params dto.ListJournalsParams) (*dto.ListJournalsResponse, error)
}

// JournalWriterSvc defines write operations for journal data
type JournalWriterSvc interface {
	// ValidateEntry runs entry validation against the ledger's accounts without posting.
	ValidateEntry(ctx context.Context, ledgerID string, req dto.CreateJournalEntryRequest) (*accounting.ValidatedEntry, error)

	// CreateEntry stores a draft or validates and posts a new entry.
	CreateEntry(ctx context.Context, ledgerID string, req dto.CreateJournalEntryRequest, userID string) (*domain.JournalEntry, error)

	// UpdateDraft replaces a draft's header and lines.
	UpdateDraft(ctx context.Context, ledgerID, entryID string, req dto.UpdateDraftRequest, userID string) (*domain.JournalEntry, error)

	// PostDraft validates and posts a stored draft.
	PostDraft(ctx context.Context, ledgerID, entryID, periodID, userID string) (*domain.JournalEntry, error)

	// Post appends a validated entry. The entry date must fall in an open period.
	Post(ctx context.Context, validated *accounting.ValidatedEntry, periodID, userID string) (*domain.JournalEntry, error)

	// Reverse posts a reversing entry dated now and marks the original REVERSED.
	Reverse(ctx context.Context, ledgerID, entryID, userID string) (*domain.JournalEntry, error)
}

// JournalCalculatorSvc defines aggregate queries over posted lines
type JournalCalculatorSvc interface {
	// BalanceAsOf sums the signed effect of every posted line on the account dated on or before date.
	BalanceAsOf(ctx context.Context, ledgerID, accountID string, date time.Time) (domain.Money, error)

	// PeriodTotals aggregates posted debit and credit per currency over rng.
	PeriodTotals(ctx context.Context, ledgerID string, rng domain.DateRange) ([]domain.Totals, error)
}

// JournalSvcFacade combines all journal-related service interfaces
type JournalSvcFacade interface {
	JournalReaderSvc
	JournalWriterSvc
	JournalCalculatorSvc
}

package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/ledger_core/internal/apperrors"
	"github.com/SscSPs/ledger_core/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_core/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_core/internal/core/ports/services"
	"github.com/SscSPs/ledger_core/internal/dto"
	"github.com/SscSPs/ledger_core/internal/utils/accounting"
	"github.com/SscSPs/ledger_core/internal/utils/pagination"
	"github.com/google/uuid"
)

// ledgerService provides journal entry posting, reversal and balance queries.
type ledgerService struct {
	BaseService
	accountRepo portsrepo.AccountReader
	periodRepo  portsrepo.PeriodReader
	journalRepo portsrepo.JournalRepositoryFacade
}

// NewLedgerService creates a new ledger service with the provided options
func NewLedgerService(accountRepo portsrepo.AccountReader, periodRepo portsrepo.PeriodReader, journalRepo portsrepo.JournalRepositoryFacade, options ...ServiceOption) portssvc.JournalSvcFacade {
	return &ledgerService{
		BaseService: newBaseService(options...),
		accountRepo: accountRepo,
		periodRepo:  periodRepo,
		journalRepo: journalRepo,
	}
}

// Ensure ledgerService implements the portssvc.JournalSvcFacade interface
var _ portssvc.JournalSvcFacade = (*ledgerService)(nil)

func (s *ledgerService) ValidateEntry(ctx context.Context, ledgerID string, req dto.CreateJournalEntryRequest) (*accounting.ValidatedEntry, error) {
	if err := dto.ValidateStruct(req); err != nil {
		return nil, err
	}
	entry, err := req.ToDomain(ledgerID)
	if err != nil {
		return nil, err
	}
	accounts, err := s.accountsByID(ctx, ledgerID)
	if err != nil {
		return nil, err
	}
	validated, err := accounting.ValidateEntry(entry, accounts)
	if err != nil {
		s.LogFailure(ctx, err, "Journal entry failed validation", slog.String("ledger_id", ledgerID))
		return nil, err
	}
	return validated, nil
}

// CreateEntry stores a draft when req.Status is DRAFT and posts immediately otherwise.
func (s *ledgerService) CreateEntry(ctx context.Context, ledgerID string, req dto.CreateJournalEntryRequest, userID string) (*domain.JournalEntry, error) {
	if req.Status == domain.Draft {
		return s.createDraft(ctx, ledgerID, req, userID)
	}
	validated, err := s.ValidateEntry(ctx, ledgerID, req)
	if err != nil {
		return nil, err
	}
	return s.Post(ctx, validated, req.PeriodID, userID)
}

func (s *ledgerService) createDraft(ctx context.Context, ledgerID string, req dto.CreateJournalEntryRequest, userID string) (*domain.JournalEntry, error) {
	if err := dto.ValidateStruct(req); err != nil {
		return nil, err
	}
	entry, err := req.ToDomain(ledgerID)
	if err != nil {
		return nil, err
	}
	if err := accounting.CheckDraft(entry); err != nil {
		s.LogFailure(ctx, err, "Draft entry failed validation", slog.String("ledger_id", ledgerID))
		return nil, err
	}

	seq, err := s.journalRepo.NextEntryNumber(ctx, ledgerID)
	if err != nil {
		s.LogError(ctx, err, "Failed to reserve entry number", slog.String("ledger_id", ledgerID))
		return nil, err
	}
	entry.EntryID = uuid.NewString()
	entry.Sequence = seq
	entry.EntryNumber = domain.FormatEntryNumber(seq)
	entry.Status = domain.Draft
	entry.AuditFields = domain.NewAuditFields(userID, s.Now())
	assignLineIDs(entry.Lines)

	if err := s.journalRepo.SaveDraft(ctx, entry); err != nil {
		s.LogError(ctx, err, "Failed to save draft entry", slog.String("ledger_id", ledgerID))
		return nil, err
	}
	s.LogInfo(ctx, "Draft journal entry created", slog.String("entry_id", entry.EntryID), slog.String("entry_number", entry.EntryNumber))
	return &entry, nil
}

func (s *ledgerService) UpdateDraft(ctx context.Context, ledgerID, entryID string, req dto.UpdateDraftRequest, userID string) (*domain.JournalEntry, error) {
	if err := dto.ValidateStruct(req); err != nil {
		return nil, err
	}
	replacement, err := req.ToDomain(ledgerID)
	if err != nil {
		return nil, err
	}
	if err := accounting.CheckDraft(replacement); err != nil {
		return nil, err
	}

	var updated *domain.JournalEntry
	err = s.WithLedgerLock(ctx, ledgerID, func() error {
		current, err := s.GetEntry(ctx, ledgerID, entryID)
		if err != nil {
			return err
		}
		if current.Status != domain.Draft {
			return fmt.Errorf("%w: %s is %s", apperrors.ErrEntryNotDraft, current.EntryNumber, current.Status)
		}
		replacement.EntryID = current.EntryID
		replacement.Sequence = current.Sequence
		replacement.EntryNumber = current.EntryNumber
		replacement.Status = domain.Draft
		replacement.AuditFields = current.AuditFields
		replacement.Touch(userID, s.Now())
		assignLineIDs(replacement.Lines)
		if err := s.journalRepo.SaveDraft(ctx, replacement); err != nil {
			return err
		}
		updated = &replacement
		return nil
	})
	if err != nil {
		s.LogFailure(ctx, err, "Failed to update draft", slog.String("entry_id", entryID))
		return nil, err
	}
	return updated, nil
}

func (s *ledgerService) PostDraft(ctx context.Context, ledgerID, entryID, periodID, userID string) (*domain.JournalEntry, error) {
	var posted *domain.JournalEntry
	err := s.WithLedgerLock(ctx, ledgerID, func() error {
		draft, err := s.GetEntry(ctx, ledgerID, entryID)
		if err != nil {
			return err
		}
		if draft.Status != domain.Draft {
			return fmt.Errorf("%w: %s is %s", apperrors.ErrEntryNotDraft, draft.EntryNumber, draft.Status)
		}
		posted, err = s.postLocked(ctx, *draft, periodID, userID)
		return err
	})
	if err != nil {
		s.LogFailure(ctx, err, "Failed to post draft", slog.String("entry_id", entryID))
		return nil, err
	}
	s.logPosted(ctx, posted)
	return posted, nil
}

// Post appends a validated entry. The entry is validated again against the accounts read
// inside the ledger lock so that concurrent account changes cannot slip through.
func (s *ledgerService) Post(ctx context.Context, validated *accounting.ValidatedEntry, periodID, userID string) (*domain.JournalEntry, error) {
	if validated == nil {
		return nil, fmt.Errorf("%w: nothing to post", apperrors.ErrInvalidEntry)
	}
	entry := validated.Entry()

	var posted *domain.JournalEntry
	err := s.WithLedgerLock(ctx, entry.LedgerID, func() error {
		var err error
		posted, err = s.postLocked(ctx, entry, periodID, userID)
		return err
	})
	if err != nil {
		s.LogFailure(ctx, err, "Failed to post journal entry", slog.String("ledger_id", entry.LedgerID))
		return nil, err
	}
	s.logPosted(ctx, posted)
	return posted, nil
}

// postLocked must run inside the ledger lock.
func (s *ledgerService) postLocked(ctx context.Context, entry domain.JournalEntry, periodID, userID string) (*domain.JournalEntry, error) {
	accounts, err := s.accountsByID(ctx, entry.LedgerID)
	if err != nil {
		return nil, err
	}
	validated, err := accounting.ValidateEntry(entry, accounts)
	if err != nil {
		return nil, err
	}
	periods, err := s.periodRepo.LoadPeriods(ctx, entry.LedgerID)
	if err != nil {
		return nil, err
	}
	if _, err := assertPostable(periods, periodID, entry.EntryDate); err != nil {
		return nil, err
	}

	now := s.Now()
	if entry.EntryID == "" {
		entry.EntryID = uuid.NewString()
		entry.AuditFields = domain.NewAuditFields(userID, now)
	} else {
		entry.Touch(userID, now)
	}
	if entry.EntryNumber == "" {
		seq, err := s.journalRepo.NextEntryNumber(ctx, entry.LedgerID)
		if err != nil {
			return nil, err
		}
		entry.Sequence = seq
		entry.EntryNumber = domain.FormatEntryNumber(seq)
	}
	assignLineIDs(entry.Lines)
	entry.Status = domain.Posted
	entry.PostedAt = &now
	entry.PostedBy = &userID

	if err := s.journalRepo.AppendEntry(ctx, entry, validated.BalanceChanges()); err != nil {
		return nil, err
	}
	return &entry, nil
}

// Reverse posts a mirror of a posted entry dated today and marks the original REVERSED.
func (s *ledgerService) Reverse(ctx context.Context, ledgerID, entryID, userID string) (*domain.JournalEntry, error) {
	var reversal *domain.JournalEntry
	err := s.WithLedgerLock(ctx, ledgerID, func() error {
		original, err := s.GetEntry(ctx, ledgerID, entryID)
		if err != nil {
			return err
		}
		switch {
		case original.Status == domain.Draft:
			return fmt.Errorf("%w: %s is a draft", apperrors.ErrEntryNotPosted, original.EntryNumber)
		case original.Status == domain.Reversed:
			return fmt.Errorf("%w: %s", apperrors.ErrAlreadyReversed, original.EntryNumber)
		case original.IsReversal():
			return fmt.Errorf("%w: %s reverses %s", apperrors.ErrReverseReversal, original.EntryNumber, *original.ReversesEntryID)
		}

		now := s.Now()
		date := domain.DateOnly(now)
		periods, err := s.periodRepo.LoadPeriods(ctx, ledgerID)
		if err != nil {
			return err
		}
		if _, err := domain.AssertPostable(periods, "", date); err != nil {
			return err
		}

		accounts, err := s.accountsByID(ctx, ledgerID)
		if err != nil {
			return err
		}
		lines := make([]domain.JournalLine, len(original.Lines))
		for i, l := range original.Lines {
			lines[i] = l.Swapped()
			lines[i].LineID = ""
		}
		changes, err := accounting.BalanceChanges(lines, accounts)
		if err != nil {
			return fmt.Errorf("%w: %v", apperrors.ErrInvalidEntry, err)
		}

		seq, err := s.journalRepo.NextEntryNumber(ctx, ledgerID)
		if err != nil {
			return err
		}
		assignLineIDs(lines)
		entry := domain.JournalEntry{
			EntryID:         uuid.NewString(),
			LedgerID:        ledgerID,
			EntryNumber:     domain.FormatEntryNumber(seq),
			Sequence:        seq,
			EntryDate:       date,
			Description:     "Reversal of " + original.EntryNumber,
			Reference:       original.EntryNumber,
			CurrencyCode:    original.CurrencyCode,
			Status:          domain.Posted,
			Lines:           lines,
			ReversesEntryID: &original.EntryID,
			PostedAt:        &now,
			PostedBy:        &userID,
			AuditFields:     domain.NewAuditFields(userID, now),
		}
		if err := s.journalRepo.AppendReversal(ctx, original.EntryID, entry, changes); err != nil {
			return err
		}
		reversal = &entry
		return nil
	})
	if err != nil {
		s.LogFailure(ctx, err, "Failed to reverse journal entry", slog.String("entry_id", entryID))
		return nil, err
	}

	s.LogInfo(ctx, "Journal entry reversed", slog.String("entry_id", entryID), slog.String("reversal_id", reversal.EntryID))
	return reversal, nil
}

func (s *ledgerService) GetEntry(ctx context.Context, ledgerID, entryID string) (*domain.JournalEntry, error) {
	entry, err := s.journalRepo.FindEntryByID(ctx, ledgerID, entryID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrEntryNotFound, entryID)
		}
		s.LogError(ctx, err, "Failed to find journal entry", slog.String("entry_id", entryID))
		return nil, err
	}
	return entry, nil
}

func (s *ledgerService) ListEntries(ctx context.Context, ledgerID string, params dto.ListJournalsParams) (*dto.ListJournalsResponse, error) {
	if params.Limit == 0 {
		params.Limit = 20
	}
	if err := dto.ValidateStruct(params); err != nil {
		return nil, err
	}
	rng, err := params.DateRange()
	if err != nil {
		return nil, err
	}
	if params.NextToken != nil && *params.NextToken != "" {
		if _, err := pagination.DecodeToken(*params.NextToken); err != nil {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
	}

	filter := portsrepo.EntryFilter{Status: params.Status, DateRange: rng}
	entries, nextToken, err := s.journalRepo.ListEntries(ctx, ledgerID, filter, params.Limit, params.NextToken)
	if err != nil {
		s.LogError(ctx, err, "Failed to list journal entries", slog.String("ledger_id", ledgerID))
		return nil, err
	}
	resp := dto.ToListJournalsResponse(entries, nextToken)
	return &resp, nil
}

// BalanceAsOf counts originals and reversals each from their own entry date.
func (s *ledgerService) BalanceAsOf(ctx context.Context, ledgerID, accountID string, date time.Time) (domain.Money, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, ledgerID, accountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return domain.Money{}, fmt.Errorf("%w: %s", apperrors.ErrAccountNotFound, accountID)
		}
		return domain.Money{}, err
	}
	entries, err := s.journalRepo.LoadEntriesForAccount(ctx, ledgerID, accountID, domain.DateRange{To: date})
	if err != nil {
		s.LogError(ctx, err, "Failed to load account entries", slog.String("account_id", accountID))
		return domain.Money{}, err
	}

	balance := domain.Zero(account.CurrencyCode)
	for _, e := range entries {
		if !e.Status.HasLedgerEffect() {
			continue
		}
		for _, l := range e.Lines {
			if l.AccountID != accountID {
				continue
			}
			signed, err := accounting.CalculateSignedAmount(l, account.AccountType)
			if err != nil {
				return domain.Money{}, err
			}
			if balance, err = balance.Add(signed); err != nil {
				return domain.Money{}, fmt.Errorf("entry %s: %w", e.EntryNumber, err)
			}
		}
	}
	return balance, nil
}

func (s *ledgerService) PeriodTotals(ctx context.Context, ledgerID string, rng domain.DateRange) ([]domain.Totals, error) {
	totals, err := s.journalRepo.SumPostedTotals(ctx, ledgerID, rng)
	if err != nil {
		s.LogError(ctx, err, "Failed to sum posted totals", slog.String("ledger_id", ledgerID))
		return nil, err
	}
	return totals, nil
}

func (s *ledgerService) accountsByID(ctx context.Context, ledgerID string) (map[string]domain.Account, error) {
	accounts, err := s.accountRepo.LoadAccounts(ctx, ledgerID)
	if err != nil {
		s.LogError(ctx, err, "Failed to load accounts", slog.String("ledger_id", ledgerID))
		return nil, err
	}
	return domain.AccountsByID(accounts), nil
}

func (s *ledgerService) logPosted(ctx context.Context, e *domain.JournalEntry) {
	s.LogInfo(ctx, "Journal entry posted",
		slog.String("entry_id", e.EntryID),
		slog.String("entry_number", e.EntryNumber),
		slog.String("ledger_id", e.LedgerID))
}

func assignLineIDs(lines []domain.JournalLine) {
	for i := range lines {
		if lines[i].LineID == "" {
			lines[i].LineID = uuid.NewString()
		}
	}
}

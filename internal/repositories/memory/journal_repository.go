package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/SscSPs/ledger_core/internal/apperrors"
	"github.com/SscSPs/ledger_core/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_core/internal/core/ports/repositories"
	"github.com/SscSPs/ledger_core/internal/utils/pagination"
)

// JournalRepository implements portsrepo.JournalRepositoryFacade in memory.
type JournalRepository struct {
	store *Store
}

// NewJournalRepository creates a new JournalRepository.
func NewJournalRepository(store *Store) *JournalRepository {
	return &JournalRepository{store: store}
}

var _ portsrepo.JournalRepositoryFacade = (*JournalRepository)(nil)

func (r *JournalRepository) FindEntryByID(ctx context.Context, ledgerID, entryID string) (*domain.JournalEntry, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	if l := r.store.ledger(ledgerID, false); l != nil {
		if e, ok := l.entries[entryID]; ok {
			c := cloneEntry(e)
			return &c, nil
		}
	}
	return nil, fmt.Errorf("journal entry %s: %w", entryID, apperrors.ErrNotFound)
}

// sortedEntries returns copies of the ledger's entries ordered by (entry date, sequence).
// Callers hold at least the read lock.
func (r *JournalRepository) sortedEntries(ledgerID string, keep func(*domain.JournalEntry) bool) []domain.JournalEntry {
	l := r.store.ledger(ledgerID, false)
	if l == nil {
		return nil
	}
	out := make([]domain.JournalEntry, 0, len(l.entries))
	for _, e := range l.entries {
		if keep(e) {
			out = append(out, cloneEntry(e))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].EntryDate.Equal(out[j].EntryDate) {
			return out[i].Sequence < out[j].Sequence
		}
		return out[i].EntryDate.Before(out[j].EntryDate)
	})
	return out
}

func (r *JournalRepository) ListEntries(ctx context.Context, ledgerID string, filter portsrepo.EntryFilter, limit int, nextToken *string) ([]domain.JournalEntry, *string, error) {
	var cursor *pagination.Cursor
	if nextToken != nil && *nextToken != "" {
		c, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		cursor = &c
	}

	r.store.mu.RLock()
	entries := r.sortedEntries(ledgerID, func(e *domain.JournalEntry) bool {
		return filter.Matches(*e) && (cursor == nil || cursor.After(e.EntryDate, e.Sequence))
	})
	r.store.mu.RUnlock()

	if len(entries) <= limit {
		return entries, nil, nil
	}
	page := entries[:limit]
	last := page[len(page)-1]
	token := pagination.EncodeToken(last.EntryDate, last.Sequence)
	return page, &token, nil
}

func (r *JournalRepository) LoadEntriesForAccount(ctx context.Context, ledgerID, accountID string, rng domain.DateRange) ([]domain.JournalEntry, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	entries := r.sortedEntries(ledgerID, func(e *domain.JournalEntry) bool {
		if !e.Status.HasLedgerEffect() || !rng.Contains(e.EntryDate) {
			return false
		}
		for _, l := range e.Lines {
			if l.AccountID == accountID {
				return true
			}
		}
		return false
	})
	if entries == nil {
		entries = []domain.JournalEntry{}
	}
	return entries, nil
}

func (r *JournalRepository) SumPostedTotals(ctx context.Context, ledgerID string, rng domain.DateRange) ([]domain.Totals, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var acc domain.TotalsAccumulator
	if l := r.store.ledger(ledgerID, false); l != nil {
		for _, e := range l.entries {
			if !e.Status.HasLedgerEffect() || !rng.Contains(e.EntryDate) {
				continue
			}
			for _, line := range e.Lines {
				if err := acc.Add(line.Debit, line.Credit); err != nil {
					return nil, err
				}
			}
		}
	}
	return acc.Result(), nil
}

func (r *JournalRepository) SumAccountTotals(ctx context.Context, ledgerID string, asOf time.Time) (map[string]domain.Totals, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make(map[string]domain.Totals)
	l := r.store.ledger(ledgerID, false)
	if l == nil {
		return out, nil
	}
	rng := domain.DateRange{To: asOf}
	for _, e := range l.entries {
		if !e.Status.HasLedgerEffect() || !rng.Contains(e.EntryDate) {
			continue
		}
		for _, line := range e.Lines {
			t, ok := out[line.AccountID]
			if !ok {
				t = domain.Totals{Currency: e.CurrencyCode, Debit: domain.Zero(e.CurrencyCode), Credit: domain.Zero(e.CurrencyCode)}
			}
			var err error
			if t.Debit, err = t.Debit.Add(line.Debit); err != nil {
				return nil, err
			}
			if t.Credit, err = t.Credit.Add(line.Credit); err != nil {
				return nil, err
			}
			out[line.AccountID] = t
		}
	}
	return out, nil
}

func (r *JournalRepository) IsAccountReferenced(ctx context.Context, ledgerID, accountID string) (bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	l := r.store.ledger(ledgerID, false)
	if l == nil {
		return false, nil
	}
	for _, e := range l.entries {
		if e.Status == domain.Draft {
			continue
		}
		for _, line := range e.Lines {
			if line.AccountID == accountID {
				return true, nil
			}
		}
	}
	return false, nil
}

func (r *JournalRepository) NextEntryNumber(ctx context.Context, ledgerID string) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	l := r.store.ledger(ledgerID, true)
	l.sequence++
	return l.sequence, nil
}

func (r *JournalRepository) SaveDraft(ctx context.Context, entry domain.JournalEntry) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	l := r.store.ledger(entry.LedgerID, true)
	if existing, ok := l.entries[entry.EntryID]; ok && existing.Status != domain.Draft {
		return fmt.Errorf("%w: %s is %s", apperrors.ErrEntryNotDraft, existing.EntryNumber, existing.Status)
	}
	c := cloneEntry(&entry)
	l.entries[entry.EntryID] = &c
	return nil
}

func (r *JournalRepository) AppendEntry(ctx context.Context, entry domain.JournalEntry, balanceChanges map[string]domain.Money) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	l := r.store.ledger(entry.LedgerID, true)
	if existing, ok := l.entries[entry.EntryID]; ok && existing.Status != domain.Draft {
		return fmt.Errorf("%w: %s is %s", apperrors.ErrEntryNotDraft, existing.EntryNumber, existing.Status)
	}
	balances, err := applyChanges(l, balanceChanges)
	if err != nil {
		return err
	}

	c := cloneEntry(&entry)
	l.entries[entry.EntryID] = &c
	commitBalances(l, balances)
	return nil
}

func (r *JournalRepository) AppendReversal(ctx context.Context, originalID string, reversal domain.JournalEntry, balanceChanges map[string]domain.Money) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	l := r.store.ledger(reversal.LedgerID, false)
	if l == nil || l.entries[originalID] == nil {
		return fmt.Errorf("journal entry %s: %w", originalID, apperrors.ErrNotFound)
	}
	original := l.entries[originalID]
	if original.Status != domain.Posted {
		return fmt.Errorf("%w: %s is %s", apperrors.ErrAlreadyReversed, original.EntryNumber, original.Status)
	}
	balances, err := applyChanges(l, balanceChanges)
	if err != nil {
		return err
	}

	original.Status = domain.Reversed
	original.ReversedByEntryID = &reversal.EntryID
	original.ReversedAt = reversal.PostedAt
	original.ReversedBy = reversal.PostedBy
	if reversal.PostedBy != nil && reversal.PostedAt != nil {
		original.Touch(*reversal.PostedBy, *reversal.PostedAt)
	}
	c := cloneEntry(&reversal)
	l.entries[reversal.EntryID] = &c
	commitBalances(l, balances)
	return nil
}

// applyChanges computes new balances without mutating the ledger.
func applyChanges(l *ledgerState, changes map[string]domain.Money) (map[string]domain.Money, error) {
	out := make(map[string]domain.Money, len(changes))
	for accountID, delta := range changes {
		a, ok := l.accounts[accountID]
		if !ok {
			return nil, fmt.Errorf("account %s: %w", accountID, apperrors.ErrNotFound)
		}
		current := a.Balance
		if current.Currency == "" {
			current = domain.Zero(a.CurrencyCode)
		}
		next, err := current.Add(delta)
		if err != nil {
			return nil, fmt.Errorf("account %s balance: %w", a.Code, err)
		}
		out[accountID] = next
	}
	return out, nil
}

func commitBalances(l *ledgerState, balances map[string]domain.Money) {
	for accountID, b := range balances {
		l.accounts[accountID].Balance = b
	}
}

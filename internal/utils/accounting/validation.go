package accounting

import (
	"fmt"
	"maps"

	"github.com/SscSPs/ledger_core/internal/apperrors"
	"github.com/SscSPs/ledger_core/internal/core/domain"
)

// ValidatedEntry is a journal entry that passed ValidateEntry against a specific chart of
// accounts. It can only be produced by ValidateEntry.
type ValidatedEntry struct {
	entry   domain.JournalEntry
	total   domain.Money
	changes map[string]domain.Money
}

// Entry returns a copy of the validated entry.
func (v *ValidatedEntry) Entry() domain.JournalEntry {
	e := v.entry
	e.Lines = append([]domain.JournalLine(nil), v.entry.Lines...)
	return e
}

// Total is the sum of the debit side, equal to the sum of the credit side.
func (v *ValidatedEntry) Total() domain.Money { return v.total }

// BalanceChanges returns each account's signed balance delta under the sign convention.
func (v *ValidatedEntry) BalanceChanges() map[string]domain.Money {
	return maps.Clone(v.changes)
}

// ValidateEntry checks an entry against the ledger's accounts. It is pure.
//
// Checks run in order: header, each line, presence of both sides, balance.
func ValidateEntry(entry domain.JournalEntry, accounts map[string]domain.Account) (*ValidatedEntry, error) {
	if err := CheckHeader(entry); err != nil {
		return nil, err
	}

	for i, line := range entry.Lines {
		if err := CheckLine(i, line, entry.CurrencyCode); err != nil {
			return nil, err
		}
		acc, ok := accounts[line.AccountID]
		if !ok || acc.LedgerID != entry.LedgerID {
			return nil, fmt.Errorf("%w: line %d: unknown account %s", apperrors.ErrInvalidLine, i, line.AccountID)
		}
		if !acc.IsActive {
			return nil, fmt.Errorf("%w: line %d: account %s is inactive", apperrors.ErrInvalidLine, i, acc.Code)
		}
		if acc.CurrencyCode != entry.CurrencyCode {
			return nil, fmt.Errorf("%w: line %d: account %s currency %s does not match entry currency %s",
				apperrors.ErrInvalidLine, i, acc.Code, acc.CurrencyCode, entry.CurrencyCode)
		}
	}

	var debitLines, creditLines int
	for _, line := range entry.Lines {
		if line.Side() == domain.DebitSide {
			debitLines++
		} else {
			creditLines++
		}
	}
	debits, credits, err := entry.Totals()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrInvalidEntry, err)
	}
	if debitLines == 0 || creditLines == 0 || debits.IsZero() || credits.IsZero() {
		return nil, fmt.Errorf("%w: %d debit and %d credit lines", apperrors.ErrEmptyEntry, debitLines, creditLines)
	}

	if debits.Amount != credits.Amount {
		return nil, fmt.Errorf("%w: debits %s, credits %s", apperrors.ErrUnbalanced, debits, credits)
	}

	changes, err := BalanceChanges(entry.Lines, accounts)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrInvalidEntry, err)
	}

	return &ValidatedEntry{entry: entry, total: debits, changes: changes}, nil
}

// CheckHeader verifies the entry carries a date and a currency.
func CheckHeader(entry domain.JournalEntry) error {
	if entry.EntryDate.IsZero() {
		return fmt.Errorf("%w: entry date is required", apperrors.ErrInvalidEntry)
	}
	if !domain.IsValidCurrencyCode(entry.CurrencyCode) {
		return fmt.Errorf("%w: invalid currency code %q", apperrors.ErrInvalidEntry, entry.CurrencyCode)
	}
	return nil
}

// CheckLine verifies a single line's shape: one nonzero, non-negative side in the entry currency.
func CheckLine(i int, line domain.JournalLine, currency string) error {
	if line.AccountID == "" {
		return fmt.Errorf("%w: line %d: account is required", apperrors.ErrInvalidLine, i)
	}
	if line.Debit.IsNegative() || line.Credit.IsNegative() {
		return fmt.Errorf("%w: line %d: amounts must not be negative", apperrors.ErrInvalidLine, i)
	}
	if !line.Debit.IsZero() && !line.Credit.IsZero() {
		return fmt.Errorf("%w: line %d: both debit and credit are set", apperrors.ErrInvalidLine, i)
	}
	if line.Debit.IsZero() && line.Credit.IsZero() {
		return fmt.Errorf("%w: line %d: debit or credit is required", apperrors.ErrInvalidLine, i)
	}
	if line.Amount().Currency != currency {
		return fmt.Errorf("%w: line %d: currency %s does not match entry currency %s",
			apperrors.ErrInvalidLine, i, line.Amount().Currency, currency)
	}
	return nil
}

// CheckDraft applies the structural checks a draft must pass before it is stored.
// Account lookups and balance are deferred until posting.
func CheckDraft(entry domain.JournalEntry) error {
	if err := CheckHeader(entry); err != nil {
		return err
	}
	for i, line := range entry.Lines {
		if err := CheckLine(i, line, entry.CurrencyCode); err != nil {
			return err
		}
	}
	return nil
}

package domain

import (
	"fmt"
	"time"
)

// EntryStatus indicates the state of a journal entry.
type EntryStatus string

const (
	Draft    EntryStatus = "DRAFT"
	Posted   EntryStatus = "POSTED"
	Reversed EntryStatus = "REVERSED"
)

// IsValid reports whether s is a known entry status.
func (s EntryStatus) IsValid() bool {
	return s == Draft || s == Posted || s == Reversed
}

// HasLedgerEffect reports whether lines of an entry in this status count towards balances.
// A reversed entry keeps its effect; the reversal entry cancels it from its own date.
func (s EntryStatus) HasLedgerEffect() bool {
	return s == Posted || s == Reversed
}

// Side is the debit or credit side of a journal line.
type Side string

const (
	DebitSide  Side = "DEBIT"
	CreditSide Side = "CREDIT"
)

// JournalLine is a single debit or credit against one account.
// Exactly one of Debit and Credit is nonzero on a valid line.
type JournalLine struct {
	LineID      string `json:"lineID"`
	AccountID   string `json:"accountID"`
	Debit       Money  `json:"debit"`
	Credit      Money  `json:"credit"`
	Description string `json:"description"`
}

// Side returns the side carrying the line's amount. A line with no amount reports DebitSide.
func (l JournalLine) Side() Side {
	if l.Credit.Amount != 0 {
		return CreditSide
	}
	return DebitSide
}

// Amount returns the nonzero side's amount.
func (l JournalLine) Amount() Money {
	if l.Side() == CreditSide {
		return l.Credit
	}
	return l.Debit
}

// Swapped returns the line with debit and credit exchanged.
func (l JournalLine) Swapped() JournalLine {
	l.Debit, l.Credit = l.Credit, l.Debit
	return l
}

// JournalEntry is a set of debit/credit lines recorded as a single unit.
// Posted entries are append-only; corrections go through reversal entries.
type JournalEntry struct {
	EntryID           string        `json:"entryID"`
	LedgerID          string        `json:"ledgerID"`
	EntryNumber       string        `json:"entryNumber"`
	Sequence          int64         `json:"sequence"` // per-ledger, backs EntryNumber and listing order
	EntryDate         time.Time     `json:"entryDate"`
	Description       string        `json:"description"`
	Reference         string        `json:"reference"`
	CurrencyCode      string        `json:"currencyCode"`
	Status            EntryStatus   `json:"status"`
	Lines             []JournalLine `json:"lines"`
	ReversesEntryID   *string       `json:"reversesEntryID,omitempty"`
	ReversedByEntryID *string       `json:"reversedByEntryID,omitempty"`
	PostedAt          *time.Time    `json:"postedAt,omitempty"`
	PostedBy          *string       `json:"postedBy,omitempty"`
	ReversedAt        *time.Time    `json:"reversedAt,omitempty"`
	ReversedBy        *string       `json:"reversedBy,omitempty"`
	AuditFields
}

// IsReversal reports whether the entry was created to reverse another entry.
func (e JournalEntry) IsReversal() bool {
	return e.ReversesEntryID != nil
}

// Totals returns the debit and credit totals of the entry's lines in the entry currency.
func (e JournalEntry) Totals() (Money, Money, error) {
	debits, credits := Zero(e.CurrencyCode), Zero(e.CurrencyCode)
	for i, l := range e.Lines {
		var err error
		if !l.Debit.IsZero() {
			if debits, err = debits.Add(l.Debit); err != nil {
				return Money{}, Money{}, fmt.Errorf("line %d: %w", i, err)
			}
		}
		if !l.Credit.IsZero() {
			if credits, err = credits.Add(l.Credit); err != nil {
				return Money{}, Money{}, fmt.Errorf("line %d: %w", i, err)
			}
		}
	}
	return debits, credits, nil
}

// FormatEntryNumber renders a per-ledger sequence number, e.g. JE-000042.
func FormatEntryNumber(seq int64) string {
	return fmt.Sprintf("JE-%06d", seq)
}

// DateRange is an inclusive range of calendar dates. A zero bound is open.
type DateRange struct {
	From time.Time
	To   time.Time
}

// Contains reports whether the calendar date of t is inside the range.
func (r DateRange) Contains(t time.Time) bool {
	d := DateOnly(t)
	if !r.From.IsZero() && d.Before(DateOnly(r.From)) {
		return false
	}
	if !r.To.IsZero() && d.After(DateOnly(r.To)) {
		return false
	}
	return true
}

// DateOnly truncates t to midnight UTC of its calendar date.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

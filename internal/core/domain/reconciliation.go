package domain

import "time"

// ReconciliationSide distinguishes internal book records from bank statement lines.
type ReconciliationSide string

const (
	BookSide ReconciliationSide = "BOOK"
	BankSide ReconciliationSide = "BANK"
)

// IsValid reports whether s is BOOK or BANK.
func (s ReconciliationSide) IsValid() bool {
	return s == BookSide || s == BankSide
}

// ReconciliationItem is a single candidate record on either side of a reconciliation.
// Amount is signed: inflows are positive, outflows negative.
type ReconciliationItem struct {
	ItemID       string             `json:"itemID"`
	Side         ReconciliationSide `json:"side"`
	Date         time.Time          `json:"date"`
	Description  string             `json:"description"`
	Reference    string             `json:"reference,omitempty"`
	Amount       Money              `json:"amount"`
	IsMatched    bool               `json:"isMatched"`
	MatchID      *string            `json:"matchID,omitempty"`
	IsAdjustment bool               `json:"isAdjustment,omitempty"`
}

// ReconciliationSummary is a point-in-time view of a session's totals.
type ReconciliationSummary struct {
	BookBalance        Money `json:"bookBalance"`
	BankBalance        Money `json:"bankBalance"`
	UnmatchedBookTotal Money `json:"unmatchedBookTotal"`
	UnmatchedBankTotal Money `json:"unmatchedBankTotal"`
	Difference         Money `json:"difference"`
	UnmatchedBookCount int   `json:"unmatchedBookCount"`
	UnmatchedBankCount int   `json:"unmatchedBankCount"`
	IsReconciled       bool  `json:"isReconciled"`
}

// MatchSuggestion proposes an unmatched bank item for an unmatched book item of equal amount.
type MatchSuggestion struct {
	BookItemID string `json:"bookItemID"`
	BankItemID string `json:"bankItemID"`
	DaysApart  int    `json:"daysApart"`
}

// SessionSnapshot is a consistent copy of a reconciliation session's state.
type SessionSnapshot struct {
	SessionID string
	LedgerID  string
	AccountID string
	Currency  string
	Tolerance int64
	OpenedAt  time.Time
	OpenedBy  string
	BookItems []ReconciliationItem
	BankItems []ReconciliationItem
	Summary   ReconciliationSummary
}

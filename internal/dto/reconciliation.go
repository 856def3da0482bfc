package dto

import (
	"fmt"
	"strings"
	"time"

	"github.com/SscSPs/ledger_core/internal/apperrors"
	"github.com/SscSPs/ledger_core/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ReconciliationItemRequest is a book or bank record in major units. Amount is signed.
type ReconciliationItemRequest struct {
	ItemID      string          `json:"itemID"` // optional; generated when empty
	Date        string          `json:"date" binding:"required,datetime=2006-01-02"`
	Description string          `json:"description" binding:"max=255"`
	Reference   string          `json:"reference" binding:"max=100"`
	Amount      decimal.Decimal `json:"amount" swaggertype:"string" example:"-125.40"`
}

// ToDomain converts the request into an unmatched item on side.
func (r ReconciliationItemRequest) ToDomain(side domain.ReconciliationSide, currency string) (domain.ReconciliationItem, error) {
	date, err := ParseDate(r.Date)
	if err != nil {
		return domain.ReconciliationItem{}, err
	}
	amount, err := domain.MoneyFromDecimal(r.Amount, currency)
	if err != nil {
		return domain.ReconciliationItem{}, fmt.Errorf("%w: item %q: %v", apperrors.ErrInvalidSession, r.ItemID, err)
	}
	return domain.ReconciliationItem{
		ItemID:      r.ItemID,
		Side:        side,
		Date:        date,
		Description: r.Description,
		Reference:   r.Reference,
		Amount:      amount,
	}, nil
}

// OpenSessionRequest starts a reconciliation session. Book items are either supplied or
// derived from the posted lines of AccountID between From and To.
type OpenSessionRequest struct {
	CurrencyCode   string                      `json:"currencyCode" binding:"required,len=3,uppercase"`
	AccountID      string                      `json:"accountID"`
	From           string                      `json:"from" binding:"omitempty,datetime=2006-01-02"`
	To             string                      `json:"to" binding:"omitempty,datetime=2006-01-02"`
	BookItems      []ReconciliationItemRequest `json:"bookItems" binding:"dive"`
	BankItems      []ReconciliationItemRequest `json:"bankItems" binding:"dive"`
	ToleranceMinor *int64                      `json:"toleranceMinor" binding:"omitempty,min=1"`
}

// Items converts the supplied book and bank items.
func (r OpenSessionRequest) Items() ([]domain.ReconciliationItem, []domain.ReconciliationItem, error) {
	currency := strings.ToUpper(r.CurrencyCode)
	book := make([]domain.ReconciliationItem, 0, len(r.BookItems))
	for _, it := range r.BookItems {
		item, err := it.ToDomain(domain.BookSide, currency)
		if err != nil {
			return nil, nil, err
		}
		book = append(book, item)
	}
	bank := make([]domain.ReconciliationItem, 0, len(r.BankItems))
	for _, it := range r.BankItems {
		item, err := it.ToDomain(domain.BankSide, currency)
		if err != nil {
			return nil, nil, err
		}
		bank = append(bank, item)
	}
	return book, bank, nil
}

// DateRange parses From and To.
func (r OpenSessionRequest) DateRange() (domain.DateRange, error) {
	from, err := parseOptionalDate(r.From)
	if err != nil {
		return domain.DateRange{}, err
	}
	to, err := parseOptionalDate(r.To)
	if err != nil {
		return domain.DateRange{}, err
	}
	return domain.DateRange{From: from, To: to}, nil
}

// MatchRequest pairs a book item with a bank item.
type MatchRequest struct {
	BookItemID string `json:"bookItemID" binding:"required"`
	BankItemID string `json:"bankItemID" binding:"required"`
}

// UnmatchRequest clears the pairing held by an item on either side.
type UnmatchRequest struct {
	ItemID string `json:"itemID" binding:"required"`
}

// ReconciliationItemResponse defines the data returned for a reconciliation item.
type ReconciliationItemResponse struct {
	ItemID       string                    `json:"itemID"`
	Side         domain.ReconciliationSide `json:"side"`
	Date         string                    `json:"date"`
	Description  string                    `json:"description"`
	Reference    string                    `json:"reference,omitempty"`
	Amount       MoneyResponse             `json:"amount"`
	IsMatched    bool                      `json:"isMatched"`
	MatchID      *string                   `json:"matchID,omitempty"`
	IsAdjustment bool                      `json:"isAdjustment,omitempty"`
}

// ToReconciliationItemResponse converts a domain.ReconciliationItem.
func ToReconciliationItemResponse(it domain.ReconciliationItem) ReconciliationItemResponse {
	return ReconciliationItemResponse{
		ItemID:       it.ItemID,
		Side:         it.Side,
		Date:         it.Date.Format(time.DateOnly),
		Description:  it.Description,
		Reference:    it.Reference,
		Amount:       ToMoneyResponse(it.Amount),
		IsMatched:    it.IsMatched,
		MatchID:      it.MatchID,
		IsAdjustment: it.IsAdjustment,
	}
}

func toItemResponses(items []domain.ReconciliationItem) []ReconciliationItemResponse {
	out := make([]ReconciliationItemResponse, len(items))
	for i, it := range items {
		out[i] = ToReconciliationItemResponse(it)
	}
	return out
}

// SummaryResponse defines the data returned for a reconciliation summary.
type SummaryResponse struct {
	BookBalance        MoneyResponse `json:"bookBalance"`
	BankBalance        MoneyResponse `json:"bankBalance"`
	UnmatchedBookTotal MoneyResponse `json:"unmatchedBookTotal"`
	UnmatchedBankTotal MoneyResponse `json:"unmatchedBankTotal"`
	Difference         MoneyResponse `json:"difference"`
	UnmatchedBookCount int           `json:"unmatchedBookCount"`
	UnmatchedBankCount int           `json:"unmatchedBankCount"`
	IsReconciled       bool          `json:"isReconciled"`
}

// ToSummaryResponse converts a domain.ReconciliationSummary.
func ToSummaryResponse(s domain.ReconciliationSummary) SummaryResponse {
	return SummaryResponse{
		BookBalance:        ToMoneyResponse(s.BookBalance),
		BankBalance:        ToMoneyResponse(s.BankBalance),
		UnmatchedBookTotal: ToMoneyResponse(s.UnmatchedBookTotal),
		UnmatchedBankTotal: ToMoneyResponse(s.UnmatchedBankTotal),
		Difference:         ToMoneyResponse(s.Difference),
		UnmatchedBookCount: s.UnmatchedBookCount,
		UnmatchedBankCount: s.UnmatchedBankCount,
		IsReconciled:       s.IsReconciled,
	}
}

// SessionResponse defines the data returned for a reconciliation session.
type SessionResponse struct {
	SessionID      string                       `json:"sessionID"`
	LedgerID       string                       `json:"ledgerID"`
	AccountID      string                       `json:"accountID,omitempty"`
	CurrencyCode   string                       `json:"currencyCode"`
	ToleranceMinor int64                        `json:"toleranceMinor"`
	OpenedAt       time.Time                    `json:"openedAt"`
	OpenedBy       string                       `json:"openedBy"`
	BookItems      []ReconciliationItemResponse `json:"bookItems"`
	BankItems      []ReconciliationItemResponse `json:"bankItems"`
	Summary        SummaryResponse              `json:"summary"`
}

// ToSessionResponse converts a snapshot.
func ToSessionResponse(s domain.SessionSnapshot) SessionResponse {
	return SessionResponse{
		SessionID:      s.SessionID,
		LedgerID:       s.LedgerID,
		AccountID:      s.AccountID,
		CurrencyCode:   s.Currency,
		ToleranceMinor: s.Tolerance,
		OpenedAt:       s.OpenedAt,
		OpenedBy:       s.OpenedBy,
		BookItems:      toItemResponses(s.BookItems),
		BankItems:      toItemResponses(s.BankItems),
		Summary:        ToSummaryResponse(s.Summary),
	}
}

// SuggestionsResponse lists candidate pairings.
type SuggestionsResponse struct {
	Suggestions []domain.MatchSuggestion `json:"suggestions"`
}

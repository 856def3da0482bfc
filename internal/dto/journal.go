package dto

import (
	"fmt"
	"strings"
	"time"

	"github.com/SscSPs/ledger_core/internal/apperrors"
	"github.com/SscSPs/ledger_core/internal/core/domain"
	"github.com/shopspring/decimal"
)

// JournalLineRequest is one debit or credit line in major units.
type JournalLineRequest struct {
	AccountID   string          `json:"accountID" binding:"required"`
	Debit       decimal.Decimal `json:"debit" swaggertype:"string" example:"500.00"`
	Credit      decimal.Decimal `json:"credit" swaggertype:"string" example:"0"`
	Description string          `json:"description" binding:"max=255"`
}

// CreateJournalEntryRequest defines the data needed to create a journal entry.
// Status DRAFT stores the entry for later posting; POSTED (the default) posts it immediately.
type CreateJournalEntryRequest struct {
	Date         string               `json:"date" binding:"required,datetime=2006-01-02" example:"2024-01-15"`
	Description  string               `json:"description" binding:"max=500"`
	Reference    string               `json:"reference" binding:"max=100"`
	CurrencyCode string               `json:"currencyCode" binding:"required,len=3,uppercase"`
	Status       domain.EntryStatus   `json:"status" binding:"omitempty,oneof=DRAFT POSTED"`
	PeriodID     string               `json:"periodID"` // optional; must cover Date when given
	Lines        []JournalLineRequest `json:"lines" binding:"required,dive"`
}

// UpdateDraftRequest replaces the header and lines of a draft entry.
type UpdateDraftRequest struct {
	Date         string               `json:"date" binding:"required,datetime=2006-01-02"`
	Description  string               `json:"description" binding:"max=500"`
	Reference    string               `json:"reference" binding:"max=100"`
	CurrencyCode string               `json:"currencyCode" binding:"required,len=3,uppercase"`
	Lines        []JournalLineRequest `json:"lines" binding:"required,dive"`
}

// PostDraftRequest optionally names the period the draft is expected to fall in.
type PostDraftRequest struct {
	PeriodID string `json:"periodID"`
}

// ToDomain converts the request into an unpersisted entry. Amounts are converted to minor
// units of CurrencyCode; amounts with excess precision are rejected as invalid lines.
func (r CreateJournalEntryRequest) ToDomain(ledgerID string) (domain.JournalEntry, error) {
	return buildEntry(ledgerID, r.Date, r.Description, r.Reference, r.CurrencyCode, r.Lines)
}

// ToDomain converts the request into an unpersisted entry.
func (r UpdateDraftRequest) ToDomain(ledgerID string) (domain.JournalEntry, error) {
	return buildEntry(ledgerID, r.Date, r.Description, r.Reference, r.CurrencyCode, r.Lines)
}

func buildEntry(ledgerID, date, description, reference, currency string, lines []JournalLineRequest) (domain.JournalEntry, error) {
	entryDate, err := ParseDate(date)
	if err != nil {
		return domain.JournalEntry{}, fmt.Errorf("%w: %v", apperrors.ErrInvalidEntry, err)
	}
	currency = strings.ToUpper(currency)
	entry := domain.JournalEntry{
		LedgerID:     ledgerID,
		EntryDate:    entryDate,
		Description:  description,
		Reference:    reference,
		CurrencyCode: currency,
		Lines:        make([]domain.JournalLine, len(lines)),
	}
	for i, l := range lines {
		debit, err := domain.MoneyFromDecimal(l.Debit, currency)
		if err != nil {
			return domain.JournalEntry{}, fmt.Errorf("%w: line %d debit: %v", apperrors.ErrInvalidLine, i, err)
		}
		credit, err := domain.MoneyFromDecimal(l.Credit, currency)
		if err != nil {
			return domain.JournalEntry{}, fmt.Errorf("%w: line %d credit: %v", apperrors.ErrInvalidLine, i, err)
		}
		entry.Lines[i] = domain.JournalLine{
			AccountID:   l.AccountID,
			Debit:       debit,
			Credit:      credit,
			Description: l.Description,
		}
	}
	return entry, nil
}

// ListJournalsParams defines query parameters for listing journal entries.
type ListJournalsParams struct {
	Limit     int                `form:"limit,default=20" binding:"min=1,max=100"`
	NextToken *string            `form:"nextToken"`
	Status    domain.EntryStatus `form:"status" binding:"omitempty,oneof=DRAFT POSTED REVERSED"`
	From      string             `form:"from" binding:"omitempty,datetime=2006-01-02"`
	To        string             `form:"to" binding:"omitempty,datetime=2006-01-02"`
}

// DateRange parses From and To.
func (p ListJournalsParams) DateRange() (domain.DateRange, error) {
	from, err := parseOptionalDate(p.From)
	if err != nil {
		return domain.DateRange{}, err
	}
	to, err := parseOptionalDate(p.To)
	if err != nil {
		return domain.DateRange{}, err
	}
	return domain.DateRange{From: from, To: to}, nil
}

// JournalLineResponse defines the data returned for a journal line.
type JournalLineResponse struct {
	LineID      string        `json:"lineID"`
	AccountID   string        `json:"accountID"`
	Debit       MoneyResponse `json:"debit"`
	Credit      MoneyResponse `json:"credit"`
	Description string        `json:"description"`
}

// JournalEntryResponse defines the data returned for a journal entry.
type JournalEntryResponse struct {
	EntryID           string                `json:"entryID"`
	LedgerID          string                `json:"ledgerID"`
	EntryNumber       string                `json:"entryNumber"`
	Date              string                `json:"date"`
	Description       string                `json:"description"`
	Reference         string                `json:"reference"`
	CurrencyCode      string                `json:"currencyCode"`
	Status            domain.EntryStatus    `json:"status"`
	Lines             []JournalLineResponse `json:"lines"`
	ReversesEntryID   *string               `json:"reversesEntryID,omitempty"`
	ReversedByEntryID *string               `json:"reversedByEntryID,omitempty"`
	PostedAt          *time.Time            `json:"postedAt,omitempty"`
	PostedBy          *string               `json:"postedBy,omitempty"`
	CreatedAt         time.Time             `json:"createdAt"`
	CreatedBy         string                `json:"createdBy"`
}

// ToJournalEntryResponse converts a domain.JournalEntry to JournalEntryResponse DTO.
func ToJournalEntryResponse(e *domain.JournalEntry) JournalEntryResponse {
	lines := make([]JournalLineResponse, len(e.Lines))
	for i, l := range e.Lines {
		lines[i] = JournalLineResponse{
			LineID:      l.LineID,
			AccountID:   l.AccountID,
			Debit:       ToMoneyResponse(l.Debit),
			Credit:      ToMoneyResponse(l.Credit),
			Description: l.Description,
		}
	}
	return JournalEntryResponse{
		EntryID:           e.EntryID,
		LedgerID:          e.LedgerID,
		EntryNumber:       e.EntryNumber,
		Date:              e.EntryDate.Format(time.DateOnly),
		Description:       e.Description,
		Reference:         e.Reference,
		CurrencyCode:      e.CurrencyCode,
		Status:            e.Status,
		Lines:             lines,
		ReversesEntryID:   e.ReversesEntryID,
		ReversedByEntryID: e.ReversedByEntryID,
		PostedAt:          e.PostedAt,
		PostedBy:          e.PostedBy,
		CreatedAt:         e.CreatedAt,
		CreatedBy:         e.CreatedBy,
	}
}

// ListJournalsResponse wraps a page of journal entries.
type ListJournalsResponse struct {
	Entries   []JournalEntryResponse `json:"entries"`
	NextToken *string                `json:"nextToken,omitempty"`
}

// ToListJournalsResponse converts a page of entries.
func ToListJournalsResponse(entries []domain.JournalEntry, nextToken *string) ListJournalsResponse {
	res := ListJournalsResponse{Entries: make([]JournalEntryResponse, len(entries)), NextToken: nextToken}
	for i := range entries {
		res.Entries[i] = ToJournalEntryResponse(&entries[i])
	}
	return res
}

// ValidateEntryResponse reports a successful dry-run validation.
type ValidateEntryResponse struct {
	Valid          bool                     `json:"valid"`
	Total          MoneyResponse            `json:"total"`
	BalanceChanges map[string]MoneyResponse `json:"balanceChanges"`
}

package dto

import (
	"time"

	"github.com/SscSPs/ledger_core/internal/core/domain"
)

// CreatePeriodRequest defines the data needed to open a new accounting period.
type CreatePeriodRequest struct {
	Name       string `json:"name" binding:"required,max=100"`
	StartDate  string `json:"startDate" binding:"required,datetime=2006-01-02" example:"2024-01-01"`
	EndDate    string `json:"endDate" binding:"required,datetime=2006-01-02" example:"2024-01-31"`
	FiscalYear int    `json:"fiscalYear" binding:"omitempty,min=1900,max=9999"` // defaults to the start date's year
}

// PostableParams is the query of a postability check.
type PostableParams struct {
	Date     string `form:"date" binding:"required,datetime=2006-01-02"`
	PeriodID string `form:"periodID"`
}

// PeriodResponse defines the data returned for an accounting period.
type PeriodResponse struct {
	PeriodID      string              `json:"periodID"`
	LedgerID      string              `json:"ledgerID"`
	Name          string              `json:"name"`
	StartDate     string              `json:"startDate"`
	EndDate       string              `json:"endDate"`
	FiscalYear    int                 `json:"fiscalYear"`
	Status        domain.PeriodStatus `json:"status"`
	ClosedAt      *time.Time          `json:"closedAt,omitempty"`
	ClosedBy      *string             `json:"closedBy,omitempty"`
	LockedAt      *time.Time          `json:"lockedAt,omitempty"`
	LockedBy      *string             `json:"lockedBy,omitempty"`
	ClosingTotals []TotalsResponse    `json:"closingTotals,omitempty"`
	CreatedAt     time.Time           `json:"createdAt"`
	CreatedBy     string              `json:"createdBy"`
}

// ToPeriodResponse converts a domain.AccountingPeriod to PeriodResponse DTO.
func ToPeriodResponse(p *domain.AccountingPeriod) PeriodResponse {
	resp := PeriodResponse{
		PeriodID:   p.PeriodID,
		LedgerID:   p.LedgerID,
		Name:       p.Name,
		StartDate:  p.StartDate.Format(time.DateOnly),
		EndDate:    p.EndDate.Format(time.DateOnly),
		FiscalYear: p.FiscalYear,
		Status:     p.Status,
		ClosedAt:   p.ClosedAt,
		ClosedBy:   p.ClosedBy,
		LockedAt:   p.LockedAt,
		LockedBy:   p.LockedBy,
		CreatedAt:  p.CreatedAt,
		CreatedBy:  p.CreatedBy,
	}
	if len(p.ClosingTotals) > 0 {
		resp.ClosingTotals = ToTotalsResponses(p.ClosingTotals)
	}
	return resp
}

// ListPeriodsResponse wraps the list of periods.
type ListPeriodsResponse struct {
	Periods []PeriodResponse `json:"periods"`
}

// ToListPeriodsResponse converts a slice of periods.
func ToListPeriodsResponse(periods []domain.AccountingPeriod) ListPeriodsResponse {
	res := ListPeriodsResponse{Periods: make([]PeriodResponse, len(periods))}
	for i := range periods {
		res.Periods[i] = ToPeriodResponse(&periods[i])
	}
	return res
}

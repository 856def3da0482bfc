package domain

import (
	"fmt"
	"time"

	"github.com/SscSPs/ledger_core/internal/apperrors"
)

// PeriodStatus enumerates valid accounting period states.
type PeriodStatus string

const (
	PeriodOpen   PeriodStatus = "OPEN"
	PeriodClosed PeriodStatus = "CLOSED"
	PeriodLocked PeriodStatus = "LOCKED"
)

// periodTransitions is the complete transition table. LOCKED is terminal.
var periodTransitions = map[PeriodStatus][]PeriodStatus{
	PeriodOpen:   {PeriodClosed},
	PeriodClosed: {PeriodLocked, PeriodOpen},
}

// CanTransitionTo reports whether s may move to next.
func (s PeriodStatus) CanTransitionTo(next PeriodStatus) bool {
	for _, allowed := range periodTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// AccountingPeriod is a bounded range of calendar dates [StartDate, EndDate] over which
// entries are grouped for closing. Periods are never deleted, only locked.
type AccountingPeriod struct {
	PeriodID           string       `json:"periodID"`
	LedgerID           string       `json:"ledgerID"`
	Name               string       `json:"name"`
	StartDate          time.Time    `json:"startDate"`
	EndDate            time.Time    `json:"endDate"`
	FiscalYear         int          `json:"fiscalYear"`
	Status             PeriodStatus `json:"status"`
	ClosedAt           *time.Time   `json:"closedAt,omitempty"`
	ClosedBy           *string      `json:"closedBy,omitempty"`
	LockedAt           *time.Time   `json:"lockedAt,omitempty"`
	LockedBy           *string      `json:"lockedBy,omitempty"`
	ClosingTotals      []Totals     `json:"closingTotals,omitempty"` // snapshot taken at close, one row per currency
	AuditFields
}

// Range returns the period's inclusive date range.
func (p AccountingPeriod) Range() DateRange {
	return DateRange{From: p.StartDate, To: p.EndDate}
}

// Covers reports whether the calendar date of t falls inside the period.
func (p AccountingPeriod) Covers(t time.Time) bool {
	return p.Range().Contains(t)
}

// Overlaps reports whether the closed date intervals of p and o intersect.
func (p AccountingPeriod) Overlaps(o AccountingPeriod) bool {
	return !DateOnly(p.EndDate).Before(DateOnly(o.StartDate)) &&
		!DateOnly(o.EndDate).Before(DateOnly(p.StartDate))
}

// ValidateRange fails with ErrInvalidRange unless StartDate < EndDate.
func (p AccountingPeriod) ValidateRange() error {
	if p.StartDate.IsZero() || p.EndDate.IsZero() {
		return fmt.Errorf("%w: start and end dates are required", apperrors.ErrInvalidRange)
	}
	if !DateOnly(p.StartDate).Before(DateOnly(p.EndDate)) {
		return fmt.Errorf("%w: %s is not before %s", apperrors.ErrInvalidRange,
			p.StartDate.Format(time.DateOnly), p.EndDate.Format(time.DateOnly))
	}
	return nil
}

// TransitionTo moves the period to next or fails with ErrInvalidTransition.
func (p *AccountingPeriod) TransitionTo(next PeriodStatus) error {
	if !p.Status.CanTransitionTo(next) {
		return fmt.Errorf("%w: %s -> %s for period %s", apperrors.ErrInvalidTransition, p.Status, next, p.PeriodID)
	}
	p.Status = next
	return nil
}

// FindOverlapping returns the first period in existing whose range intersects candidate.
func FindOverlapping(existing []AccountingPeriod, candidate AccountingPeriod) (*AccountingPeriod, bool) {
	for i := range existing {
		if existing[i].PeriodID == candidate.PeriodID {
			continue
		}
		if existing[i].Overlaps(candidate) {
			return &existing[i], true
		}
	}
	return nil, false
}

// PeriodCovering returns the period containing date.
func PeriodCovering(periods []AccountingPeriod, date time.Time) (*AccountingPeriod, bool) {
	for i := range periods {
		if periods[i].Covers(date) {
			return &periods[i], true
		}
	}
	return nil, false
}

// AssertPostable checks that an entry dated date may be posted given the ledger's periods.
// When periodID is non-empty it must name the period covering date.
func AssertPostable(periods []AccountingPeriod, periodID string, date time.Time) (*AccountingPeriod, error) {
	p, ok := PeriodCovering(periods, date)
	if !ok {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrNoPeriodDefined, date.Format(time.DateOnly))
	}
	if periodID != "" && p.PeriodID != periodID {
		return nil, fmt.Errorf("%w: %s belongs to period %s, not %s", apperrors.ErrPeriodMismatch,
			date.Format(time.DateOnly), p.PeriodID, periodID)
	}
	if p.Status != PeriodOpen {
		return nil, fmt.Errorf("%w: period %s (%s) is %s", apperrors.ErrPeriodNotOpen, p.Name, p.PeriodID, p.Status)
	}
	return p, nil
}

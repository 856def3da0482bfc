package repositories

import (
	"context"

	"github.com/SscSPs/ledger_core/internal/core/domain"
)

// PeriodReader defines read operations for accounting periods
type PeriodReader interface {
	// LoadPeriods retrieves every period of a ledger ordered by start date.
	LoadPeriods(ctx context.Context, ledgerID string) ([]domain.AccountingPeriod, error)

	// FindPeriodByID retrieves a single period.
	FindPeriodByID(ctx context.Context, ledgerID, periodID string) (*domain.AccountingPeriod, error)
}

// PeriodWriter defines write operations for accounting periods
type PeriodWriter interface {
	// SavePeriod persists a new period.
	SavePeriod(ctx context.Context, period domain.AccountingPeriod) error

	// UpdatePeriod persists a status transition together with its stamps and closing snapshot.
	UpdatePeriod(ctx context.Context, period domain.AccountingPeriod) error
}

// PeriodRepositoryFacade combines all period-related repository interfaces
type PeriodRepositoryFacade interface {
	PeriodReader
	PeriodWriter
}

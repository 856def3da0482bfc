package services

import (
	"context"
	"time"

	"github.com/SscSPs/ledger_core/internal/core/domain"
	"github.com/SscSPs/ledger_core/internal/dto"
)

// PeriodReaderSvc defines read operations for accounting periods
type PeriodReaderSvc interface {
	GetPeriod(ctx context.Context, ledgerID, periodID string) (*domain.AccountingPeriod, error)
	ListPeriods(ctx context.Context, ledgerID string) ([]domain.AccountingPeriod, error)

	// AssertPostable returns the open period covering date, or a period error.
	AssertPostable(ctx context.Context, ledgerID, periodID string, date time.Time) (*domain.AccountingPeriod, error)
}

// PeriodLifecycleSvc defines the period state transitions
type PeriodLifecycleSvc interface {
	CreatePeriod(ctx context.Context, ledgerID string, req dto.CreatePeriodRequest, userID string) (*domain.AccountingPeriod, error)
	ClosePeriod(ctx context.Context, ledgerID, periodID, userID string) (*domain.AccountingPeriod, error)
	LockPeriod(ctx context.Context, ledgerID, periodID, userID string) (*domain.AccountingPeriod, error)
	ReopenPeriod(ctx context.Context, ledgerID, periodID, userID string) (*domain.AccountingPeriod, error)
}

// PeriodSvcFacade combines all period-related service interfaces
type PeriodSvcFacade interface {
	PeriodReaderSvc
	PeriodLifecycleSvc
}

package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/ledger_core/internal/apperrors"
	"github.com/SscSPs/ledger_core/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_core/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_core/internal/core/ports/services"
	"github.com/SscSPs/ledger_core/internal/dto"
	"github.com/google/uuid"
)

// periodService implements the PeriodSvcFacade interface
type periodService struct {
	BaseService
	periodRepo  portsrepo.PeriodRepositoryFacade
	journalRepo portsrepo.JournalReader
}

// NewPeriodService creates a new period service with the provided options
func NewPeriodService(periodRepo portsrepo.PeriodRepositoryFacade, journalRepo portsrepo.JournalReader, options ...ServiceOption) portssvc.PeriodSvcFacade {
	return &periodService{
		BaseService: newBaseService(options...),
		periodRepo:  periodRepo,
		journalRepo: journalRepo,
	}
}

var _ portssvc.PeriodSvcFacade = (*periodService)(nil)

func (s *periodService) CreatePeriod(ctx context.Context, ledgerID string, req dto.CreatePeriodRequest, userID string) (*domain.AccountingPeriod, error) {
	if err := dto.ValidateStruct(req); err != nil {
		return nil, err
	}
	start, err := dto.ParseDate(req.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := dto.ParseDate(req.EndDate)
	if err != nil {
		return nil, err
	}

	period := domain.AccountingPeriod{
		PeriodID:    uuid.NewString(),
		LedgerID:    ledgerID,
		Name:        strings.TrimSpace(req.Name),
		StartDate:   domain.DateOnly(start),
		EndDate:     domain.DateOnly(end),
		FiscalYear:  req.FiscalYear,
		Status:      domain.PeriodOpen,
		AuditFields: domain.NewAuditFields(userID, s.Now()),
	}
	if period.FiscalYear == 0 {
		period.FiscalYear = period.StartDate.Year()
	}
	if err := period.ValidateRange(); err != nil {
		s.LogFailure(ctx, err, "Rejected period range", slog.String("ledger_id", ledgerID))
		return nil, err
	}

	err = s.WithLedgerLock(ctx, ledgerID, func() error {
		existing, err := s.periodRepo.LoadPeriods(ctx, ledgerID)
		if err != nil {
			return err
		}
		if other, found := domain.FindOverlapping(existing, period); found {
			return fmt.Errorf("%w: %s overlaps %s (%s to %s)", apperrors.ErrPeriodOverlap, period.Name, other.Name,
				other.StartDate.Format(time.DateOnly), other.EndDate.Format(time.DateOnly))
		}
		return s.periodRepo.SavePeriod(ctx, period)
	})
	if err != nil {
		s.LogFailure(ctx, err, "Failed to create period", slog.String("ledger_id", ledgerID), slog.String("name", period.Name))
		return nil, err
	}

	s.LogInfo(ctx, "Accounting period created", slog.String("period_id", period.PeriodID), slog.String("ledger_id", ledgerID))
	return &period, nil
}

func (s *periodService) GetPeriod(ctx context.Context, ledgerID, periodID string) (*domain.AccountingPeriod, error) {
	period, err := s.periodRepo.FindPeriodByID(ctx, ledgerID, periodID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrPeriodNotFound, periodID)
		}
		s.LogError(ctx, err, "Failed to find period", slog.String("period_id", periodID))
		return nil, err
	}
	return period, nil
}

func (s *periodService) ListPeriods(ctx context.Context, ledgerID string) ([]domain.AccountingPeriod, error) {
	periods, err := s.periodRepo.LoadPeriods(ctx, ledgerID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list periods", slog.String("ledger_id", ledgerID))
		return nil, err
	}
	return periods, nil
}

func (s *periodService) AssertPostable(ctx context.Context, ledgerID, periodID string, date time.Time) (*domain.AccountingPeriod, error) {
	periods, err := s.periodRepo.LoadPeriods(ctx, ledgerID)
	if err != nil {
		return nil, err
	}
	return assertPostable(periods, periodID, date)
}

// assertPostable reports an unknown periodID as not found before checking coverage.
func assertPostable(periods []domain.AccountingPeriod, periodID string, date time.Time) (*domain.AccountingPeriod, error) {
	if periodID != "" {
		known := false
		for _, p := range periods {
			if p.PeriodID == periodID {
				known = true
				break
			}
		}
		if !known {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrPeriodNotFound, periodID)
		}
	}
	return domain.AssertPostable(periods, periodID, date)
}

func (s *periodService) ClosePeriod(ctx context.Context, ledgerID, periodID, userID string) (*domain.AccountingPeriod, error) {
	return s.transition(ctx, ledgerID, periodID, domain.PeriodClosed, func(p *domain.AccountingPeriod, now time.Time) error {
		totals, err := s.journalRepo.SumPostedTotals(ctx, ledgerID, p.Range())
		if err != nil {
			return fmt.Errorf("failed to snapshot period totals: %w", err)
		}
		p.ClosingTotals = totals
		p.ClosedAt = &now
		p.ClosedBy = &userID
		return nil
	}, userID)
}

func (s *periodService) LockPeriod(ctx context.Context, ledgerID, periodID, userID string) (*domain.AccountingPeriod, error) {
	return s.transition(ctx, ledgerID, periodID, domain.PeriodLocked, func(p *domain.AccountingPeriod, now time.Time) error {
		p.LockedAt = &now
		p.LockedBy = &userID
		return nil
	}, userID)
}

func (s *periodService) ReopenPeriod(ctx context.Context, ledgerID, periodID, userID string) (*domain.AccountingPeriod, error) {
	return s.transition(ctx, ledgerID, periodID, domain.PeriodOpen, func(p *domain.AccountingPeriod, _ time.Time) error {
		p.ClosedAt = nil
		p.ClosedBy = nil
		p.ClosingTotals = nil
		return nil
	}, userID)
}

// transition moves a period to next under the ledger lock, applying stamp before persisting.
func (s *periodService) transition(ctx context.Context, ledgerID, periodID string, next domain.PeriodStatus,
	stamp func(p *domain.AccountingPeriod, now time.Time) error, userID string) (*domain.AccountingPeriod, error) {
	var result *domain.AccountingPeriod
	err := s.WithLedgerLock(ctx, ledgerID, func() error {
		period, err := s.GetPeriod(ctx, ledgerID, periodID)
		if err != nil {
			return err
		}
		if err := period.TransitionTo(next); err != nil {
			return err
		}
		now := s.Now()
		if err := stamp(period, now); err != nil {
			return err
		}
		period.Touch(userID, now)
		if err := s.periodRepo.UpdatePeriod(ctx, *period); err != nil {
			return err
		}
		result = period
		return nil
	})
	if err != nil {
		s.LogFailure(ctx, err, "Failed to change period status", slog.String("period_id", periodID), slog.String("target", string(next)))
		return nil, err
	}

	s.LogInfo(ctx, "Accounting period status changed", slog.String("period_id", periodID), slog.String("status", string(next)))
	return result, nil
}

package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/SscSPs/ledger_core/internal/apperrors"
	"github.com/SscSPs/ledger_core/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_core/internal/core/ports/repositories"
)

// PeriodRepository implements portsrepo.PeriodRepositoryFacade in memory.
type PeriodRepository struct {
	store *Store
}

// NewPeriodRepository creates a new PeriodRepository.
func NewPeriodRepository(store *Store) *PeriodRepository {
	return &PeriodRepository{store: store}
}

var _ portsrepo.PeriodRepositoryFacade = (*PeriodRepository)(nil)

func (r *PeriodRepository) LoadPeriods(ctx context.Context, ledgerID string) ([]domain.AccountingPeriod, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	l := r.store.ledger(ledgerID, false)
	if l == nil {
		return []domain.AccountingPeriod{}, nil
	}
	out := make([]domain.AccountingPeriod, 0, len(l.periods))
	for _, p := range l.periods {
		out = append(out, clonePeriod(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartDate.Before(out[j].StartDate) })
	return out, nil
}

func (r *PeriodRepository) FindPeriodByID(ctx context.Context, ledgerID, periodID string) (*domain.AccountingPeriod, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	if l := r.store.ledger(ledgerID, false); l != nil {
		if p, ok := l.periods[periodID]; ok {
			c := clonePeriod(p)
			return &c, nil
		}
	}
	return nil, fmt.Errorf("period %s: %w", periodID, apperrors.ErrNotFound)
}

func (r *PeriodRepository) SavePeriod(ctx context.Context, period domain.AccountingPeriod) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	l := r.store.ledger(period.LedgerID, true)
	if _, ok := l.periods[period.PeriodID]; ok {
		return fmt.Errorf("%w: period %s", apperrors.ErrDuplicate, period.PeriodID)
	}
	c := clonePeriod(&period)
	l.periods[period.PeriodID] = &c
	return nil
}

func (r *PeriodRepository) UpdatePeriod(ctx context.Context, period domain.AccountingPeriod) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	l := r.store.ledger(period.LedgerID, false)
	if l == nil || l.periods[period.PeriodID] == nil {
		return fmt.Errorf("period %s: %w", period.PeriodID, apperrors.ErrNotFound)
	}
	c := clonePeriod(&period)
	l.periods[period.PeriodID] = &c
	return nil
}

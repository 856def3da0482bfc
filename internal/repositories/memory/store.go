// Package memory keeps ledgers in process memory. It is used for single-node deployments
// without PostgreSQL and as the storage behind service tests.
package memory

import (
	"sync"

	"github.com/SscSPs/ledger_core/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_core/internal/core/ports/repositories"
)

// ledgerState is everything stored for one ledger.
type ledgerState struct {
	accounts map[string]*domain.Account
	periods  map[string]*domain.AccountingPeriod
	entries  map[string]*domain.JournalEntry
	sequence int64
}

// Store is the shared state behind the memory repositories. One RWMutex guards all ledgers
// so that an append and its balance updates are applied together.
type Store struct {
	mu      sync.RWMutex
	ledgers map[string]*ledgerState
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{ledgers: make(map[string]*ledgerState)}
}

// ledger returns the state of ledgerID, creating it when create is set. Callers hold mu.
func (s *Store) ledger(ledgerID string, create bool) *ledgerState {
	l, ok := s.ledgers[ledgerID]
	if !ok && create {
		l = &ledgerState{
			accounts: make(map[string]*domain.Account),
			periods:  make(map[string]*domain.AccountingPeriod),
			entries:  make(map[string]*domain.JournalEntry),
		}
		s.ledgers[ledgerID] = l
	}
	return l
}

// NewRepositoryProvider wires the three memory repositories over one store.
func NewRepositoryProvider(store *Store) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		AccountRepo: NewAccountRepository(store),
		PeriodRepo:  NewPeriodRepository(store),
		JournalRepo: NewJournalRepository(store),
	}
}

func cloneEntry(e *domain.JournalEntry) domain.JournalEntry {
	c := *e
	c.Lines = append([]domain.JournalLine(nil), e.Lines...)
	return c
}

func clonePeriod(p *domain.AccountingPeriod) domain.AccountingPeriod {
	c := *p
	c.ClosingTotals = append([]domain.Totals(nil), p.ClosingTotals...)
	return c
}

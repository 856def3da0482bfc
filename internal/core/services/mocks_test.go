package services_test

import (
	"context"
	"time"

	"github.com/SscSPs/ledger_core/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_core/internal/core/ports/repositories"
	"github.com/stretchr/testify/mock"
)

// MockAccountRepository is a mock type for the AccountRepositoryFacade interface
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) LoadAccounts(ctx context.Context, ledgerID string) ([]domain.Account, error) {
	args := m.Called(ctx, ledgerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountByID(ctx context.Context, ledgerID, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, ledgerID, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountByCode(ctx context.Context, ledgerID, code string) (*domain.Account, error) {
	args := m.Called(ctx, ledgerID, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) UpdateAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

// MockJournalReader is a mock type for the JournalReader interface
type MockJournalReader struct {
	mock.Mock
}

func (m *MockJournalReader) FindEntryByID(ctx context.Context, ledgerID, entryID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, ledgerID, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalReader) ListEntries(ctx context.Context, ledgerID string, filter portsrepo.EntryFilter, limit int, nextToken *string) ([]domain.JournalEntry, *string, error) {
	args := m.Called(ctx, ledgerID, filter, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var next *string
	if args.Get(1) != nil {
		next = args.Get(1).(*string)
	}
	return args.Get(0).([]domain.JournalEntry), next, args.Error(2)
}

func (m *MockJournalReader) LoadEntriesForAccount(ctx context.Context, ledgerID, accountID string, rng domain.DateRange) ([]domain.JournalEntry, error) {
	args := m.Called(ctx, ledgerID, accountID, rng)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.JournalEntry), args.Error(1)
}

func (m *MockJournalReader) SumPostedTotals(ctx context.Context, ledgerID string, rng domain.DateRange) ([]domain.Totals, error) {
	args := m.Called(ctx, ledgerID, rng)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Totals), args.Error(1)
}

func (m *MockJournalReader) SumAccountTotals(ctx context.Context, ledgerID string, asOf time.Time) (map[string]domain.Totals, error) {
	args := m.Called(ctx, ledgerID, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Totals), args.Error(1)
}

func (m *MockJournalReader) IsAccountReferenced(ctx context.Context, ledgerID, accountID string) (bool, error) {
	args := m.Called(ctx, ledgerID, accountID)
	return args.Bool(0), args.Error(1)
}

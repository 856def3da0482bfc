package handlers_test

import (
	"context"
	"time"

	"github.com/SscSPs/ledger_core/internal/core/domain"
	portssvc "github.com/SscSPs/ledger_core/internal/core/ports/services"
	"github.com/SscSPs/ledger_core/internal/dto"
	"github.com/SscSPs/ledger_core/internal/utils/accounting"
	"github.com/stretchr/testify/mock"
)

// --- Mock AccountService ---
type MockAccountService struct {
	mock.Mock
}

func (m *MockAccountService) CreateAccount(ctx context.Context, ledgerID string, req dto.CreateAccountRequest, userID string) (*domain.Account, error) {
	args := m.Called(ctx, ledgerID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}
func (m *MockAccountService) GetAccountByID(ctx context.Context, ledgerID, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, ledgerID, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}
func (m *MockAccountService) ListAccounts(ctx context.Context, ledgerID string) ([]domain.Account, error) {
	args := m.Called(ctx, ledgerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}
func (m *MockAccountService) UpdateAccount(ctx context.Context, ledgerID, accountID string, req dto.UpdateAccountRequest, userID string) (*domain.Account, error) {
	args := m.Called(ctx, ledgerID, accountID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

// Ensure mock implements the interface
var _ portssvc.AccountSvcFacade = (*MockAccountService)(nil)

// --- Mock JournalService ---
type MockJournalService struct {
	mock.Mock
}

func (m *MockJournalService) entry(args mock.Arguments) (*domain.JournalEntry, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}
func (m *MockJournalService) GetEntry(ctx context.Context, ledgerID, entryID string) (*domain.JournalEntry, error) {
	return m.entry(m.Called(ctx, ledgerID, entryID))
}
func (m *MockJournalService) ListEntries(ctx context.Context, ledgerID string, params dto.ListJournalsParams) (*dto.ListJournalsResponse, error) {
	args := m.Called(ctx, ledgerID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListJournalsResponse), args.Error(1)
}
func (m *MockJournalService) ValidateEntry(ctx context.Context, ledgerID string, req dto.CreateJournalEntryRequest) (*accounting.ValidatedEntry, error) {
	args := m.Called(ctx, ledgerID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accounting.ValidatedEntry), args.Error(1)
}
func (m *MockJournalService) CreateEntry(ctx context.Context, ledgerID string, req dto.CreateJournalEntryRequest, userID string) (*domain.JournalEntry, error) {
	return m.entry(m.Called(ctx, ledgerID, req, userID))
}
func (m *MockJournalService) UpdateDraft(ctx context.Context, ledgerID, entryID string, req dto.UpdateDraftRequest, userID string) (*domain.JournalEntry, error) {
	return m.entry(m.Called(ctx, ledgerID, entryID, req, userID))
}
func (m *MockJournalService) PostDraft(ctx context.Context, ledgerID, entryID, periodID, userID string) (*domain.JournalEntry, error) {
	return m.entry(m.Called(ctx, ledgerID, entryID, periodID, userID))
}
func (m *MockJournalService) Post(ctx context.Context, validated *accounting.ValidatedEntry, periodID, userID string) (*domain.JournalEntry, error) {
	return m.entry(m.Called(ctx, validated, periodID, userID))
}
func (m *MockJournalService) Reverse(ctx context.Context, ledgerID, entryID, userID string) (*domain.JournalEntry, error) {
	return m.entry(m.Called(ctx, ledgerID, entryID, userID))
}
func (m *MockJournalService) BalanceAsOf(ctx context.Context, ledgerID, accountID string, date time.Time) (domain.Money, error) {
	args := m.Called(ctx, ledgerID, accountID, date)
	return args.Get(0).(domain.Money), args.Error(1)
}
func (m *MockJournalService) PeriodTotals(ctx context.Context, ledgerID string, rng domain.DateRange) ([]domain.Totals, error) {
	args := m.Called(ctx, ledgerID, rng)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Totals), args.Error(1)
}

// Ensure mock implements the interface
var _ portssvc.JournalSvcFacade = (*MockJournalService)(nil)

// --- Mock PeriodService ---
type MockPeriodService struct {
	mock.Mock
}

func (m *MockPeriodService) period(args mock.Arguments) (*domain.AccountingPeriod, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccountingPeriod), args.Error(1)
}
func (m *MockPeriodService) GetPeriod(ctx context.Context, ledgerID, periodID string) (*domain.AccountingPeriod, error) {
	return m.period(m.Called(ctx, ledgerID, periodID))
}
func (m *MockPeriodService) ListPeriods(ctx context.Context, ledgerID string) ([]domain.AccountingPeriod, error) {
	args := m.Called(ctx, ledgerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AccountingPeriod), args.Error(1)
}
func (m *MockPeriodService) AssertPostable(ctx context.Context, ledgerID, periodID string, date time.Time) (*domain.AccountingPeriod, error) {
	return m.period(m.Called(ctx, ledgerID, periodID, date))
}
func (m *MockPeriodService) CreatePeriod(ctx context.Context, ledgerID string, req dto.CreatePeriodRequest, userID string) (*domain.AccountingPeriod, error) {
	return m.period(m.Called(ctx, ledgerID, req, userID))
}
func (m *MockPeriodService) ClosePeriod(ctx context.Context, ledgerID, periodID, userID string) (*domain.AccountingPeriod, error) {
	return m.period(m.Called(ctx, ledgerID, periodID, userID))
}
func (m *MockPeriodService) LockPeriod(ctx context.Context, ledgerID, periodID, userID string) (*domain.AccountingPeriod, error) {
	return m.period(m.Called(ctx, ledgerID, periodID, userID))
}
func (m *MockPeriodService) ReopenPeriod(ctx context.Context, ledgerID, periodID, userID string) (*domain.AccountingPeriod, error) {
	return m.period(m.Called(ctx, ledgerID, periodID, userID))
}

var _ portssvc.PeriodSvcFacade = (*MockPeriodService)(nil)

// --- Mock ReconciliationService ---
type MockReconciliationService struct {
	mock.Mock
}

func (m *MockReconciliationService) snapshot(args mock.Arguments) (*domain.SessionSnapshot, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SessionSnapshot), args.Error(1)
}
func (m *MockReconciliationService) OpenSession(ctx context.Context, ledgerID string, req dto.OpenSessionRequest, userID string) (*domain.SessionSnapshot, error) {
	return m.snapshot(m.Called(ctx, ledgerID, req, userID))
}
func (m *MockReconciliationService) GetSession(ctx context.Context, ledgerID, sessionID string) (*domain.SessionSnapshot, error) {
	return m.snapshot(m.Called(ctx, ledgerID, sessionID))
}
func (m *MockReconciliationService) CloseSession(ctx context.Context, ledgerID, sessionID string) error {
	return m.Called(ctx, ledgerID, sessionID).Error(0)
}
func (m *MockReconciliationService) Match(ctx context.Context, ledgerID, sessionID, bookItemID, bankItemID string) (*domain.SessionSnapshot, error) {
	return m.snapshot(m.Called(ctx, ledgerID, sessionID, bookItemID, bankItemID))
}
func (m *MockReconciliationService) Unmatch(ctx context.Context, ledgerID, sessionID, itemID string) (*domain.SessionSnapshot, error) {
	return m.snapshot(m.Called(ctx, ledgerID, sessionID, itemID))
}
func (m *MockReconciliationService) AddAdjustment(ctx context.Context, ledgerID, sessionID string, req dto.ReconciliationItemRequest) (*domain.SessionSnapshot, error) {
	return m.snapshot(m.Called(ctx, ledgerID, sessionID, req))
}
func (m *MockReconciliationService) Summarize(ctx context.Context, ledgerID, sessionID string) (domain.ReconciliationSummary, error) {
	args := m.Called(ctx, ledgerID, sessionID)
	return args.Get(0).(domain.ReconciliationSummary), args.Error(1)
}
func (m *MockReconciliationService) SuggestMatches(ctx context.Context, ledgerID, sessionID string) ([]domain.MatchSuggestion, error) {
	args := m.Called(ctx, ledgerID, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.MatchSuggestion), args.Error(1)
}

var _ portssvc.ReconciliationSvc = (*MockReconciliationService)(nil)

// --- Mock ReportingService ---
type MockReportingService struct {
	mock.Mock
}

func (m *MockReportingService) TrialBalance(ctx context.Context, ledgerID string, asOf time.Time) (*domain.TrialBalance, error) {
	args := m.Called(ctx, ledgerID, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TrialBalance), args.Error(1)
}
func (m *MockReportingService) ProfitAndLoss(ctx context.Context, ledgerID, currency string, from, to time.Time) (*domain.PAndLReport, error) {
	args := m.Called(ctx, ledgerID, currency, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PAndLReport), args.Error(1)
}
func (m *MockReportingService) BalanceSheet(ctx context.Context, ledgerID, currency string, asOf time.Time) (*domain.BalanceSheetReport, error) {
	args := m.Called(ctx, ledgerID, currency, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BalanceSheetReport), args.Error(1)
}

var _ portssvc.ReportingService = (*MockReportingService)(nil)

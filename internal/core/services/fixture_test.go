package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/SscSPs/ledger_core/internal/clock"
	"github.com/SscSPs/ledger_core/internal/core/domain"
	portssvc "github.com/SscSPs/ledger_core/internal/core/ports/services"
	"github.com/SscSPs/ledger_core/internal/core/services"
	"github.com/SscSPs/ledger_core/internal/dto"
	"github.com/SscSPs/ledger_core/internal/platform/config"
	"github.com/SscSPs/ledger_core/internal/platform/lock"
	"github.com/SscSPs/ledger_core/internal/repositories/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// ledgerFixture is a ledger backed by memory repositories with a chart of accounts and an
// open January 2024 period.
type ledgerFixture struct {
	t        *testing.T
	ctx      context.Context
	clock    *clock.FixedClock
	svc      *portssvc.ServiceContainer
	accounts map[string]*domain.Account // by code
	january  *domain.AccountingPeriod
}

func newLedgerFixture(t *testing.T) *ledgerFixture {
	t.Helper()
	cfg := &config.Config{
		ReconciliationToleranceMinor: 1,
		ReconciliationMaxSessions:    16,
		ReconciliationSessionTTL:     time.Hour,
	}
	f := &ledgerFixture{
		t:        t,
		ctx:      context.Background(),
		clock:    clock.NewFixed(time.Date(2024, time.January, 20, 15, 30, 0, 0, time.UTC)),
		accounts: make(map[string]*domain.Account),
	}
	f.svc = services.NewServiceContainer(cfg, memory.NewRepositoryProvider(memory.NewStore()),
		services.WithClock(f.clock), services.WithLocker(lock.NewMemoryLocker()))

	for _, a := range []dto.CreateAccountRequest{
		{Code: "1000", Name: "Cash", AccountType: domain.Asset, CurrencyCode: "USD"},
		{Code: "2000", Name: "Payables", AccountType: domain.Liability, CurrencyCode: "USD"},
		{Code: "3000", Name: "Owner Equity", AccountType: domain.Equity, CurrencyCode: "USD"},
		{Code: "4000", Name: "Sales", AccountType: domain.Income, CurrencyCode: "USD"},
		{Code: "5000", Name: "Rent", AccountType: domain.Expense, CurrencyCode: "USD"},
		{Code: "1100", Name: "Euro Cash", AccountType: domain.Asset, CurrencyCode: "EUR"},
		{Code: "4100", Name: "Euro Sales", AccountType: domain.Income, CurrencyCode: "EUR"},
	} {
		acc, err := f.svc.Account.CreateAccount(f.ctx, testLedgerID, a, "user-1")
		require.NoError(t, err)
		f.accounts[a.Code] = acc
	}
	f.january = f.createPeriod("January", "2024-01-01", "2024-01-31")
	return f
}

func (f *ledgerFixture) id(code string) string {
	return f.accounts[code].AccountID
}

func (f *ledgerFixture) createPeriod(name, start, end string) *domain.AccountingPeriod {
	f.t.Helper()
	p, err := f.svc.Period.CreatePeriod(f.ctx, testLedgerID, dto.CreatePeriodRequest{Name: name, StartDate: start, EndDate: end}, "user-1")
	require.NoError(f.t, err)
	return p
}

// entryReq builds a two-line USD entry debiting one account and crediting another.
func (f *ledgerFixture) entryReq(date, debitCode, creditCode, amount string) dto.CreateJournalEntryRequest {
	currency := f.accounts[debitCode].CurrencyCode
	return dto.CreateJournalEntryRequest{
		Date:         date,
		Description:  "test entry",
		CurrencyCode: currency,
		Lines: []dto.JournalLineRequest{
			{AccountID: f.id(debitCode), Debit: decimal.RequireFromString(amount)},
			{AccountID: f.id(creditCode), Credit: decimal.RequireFromString(amount)},
		},
	}
}

func (f *ledgerFixture) post(date, debitCode, creditCode, amount string) *domain.JournalEntry {
	f.t.Helper()
	e, err := f.svc.Journal.CreateEntry(f.ctx, testLedgerID, f.entryReq(date, debitCode, creditCode, amount), "user-1")
	require.NoError(f.t, err)
	return e
}

func (f *ledgerFixture) balance(code string, asOf time.Time) int64 {
	f.t.Helper()
	b, err := f.svc.Journal.BalanceAsOf(f.ctx, testLedgerID, f.id(code), asOf)
	require.NoError(f.t, err)
	return b.Amount
}

func jan(d int) time.Time {
	return time.Date(2024, time.January, d, 0, 0, 0, 0, time.UTC)
}

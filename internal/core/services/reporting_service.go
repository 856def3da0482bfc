package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/ledger_core/internal/apperrors"
	"github.com/SscSPs/ledger_core/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_core/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_core/internal/core/ports/services"
)

// reportingService implements the ReportingService interface
type reportingService struct {
	BaseService
	accountRepo portsrepo.AccountReader
	journalRepo portsrepo.JournalReader
}

// NewReportingService creates a new reporting service with the provided options
func NewReportingService(accountRepo portsrepo.AccountReader, journalRepo portsrepo.JournalReader, options ...ServiceOption) portssvc.ReportingService {
	return &reportingService{
		BaseService: newBaseService(options...),
		accountRepo: accountRepo,
		journalRepo: journalRepo,
	}
}

// Ensure reportingService implements the ReportingService interface
var _ portssvc.ReportingService = (*reportingService)(nil)

// TrialBalance generates a trial balance report as of a specific date.
// Each row carries the account's net on its debit or credit side.
func (s *reportingService) TrialBalance(ctx context.Context, ledgerID string, asOf time.Time) (*domain.TrialBalance, error) {
	accounts, totals, err := s.load(ctx, ledgerID, asOf)
	if err != nil {
		return nil, err
	}

	report := &domain.TrialBalance{LedgerID: ledgerID, AsOf: domain.DateOnly(asOf), Rows: []domain.TrialBalanceRow{}}
	var acc domain.TotalsAccumulator
	for _, a := range accounts {
		t, ok := totals[a.AccountID]
		if !ok {
			continue
		}
		net, err := t.Debit.Sub(t.Credit)
		if err != nil {
			return nil, err
		}
		row := domain.TrialBalanceRow{
			AccountID:   a.AccountID,
			AccountCode: a.Code,
			AccountName: a.Name,
			AccountType: a.AccountType,
			Debit:       domain.Zero(a.CurrencyCode),
			Credit:      domain.Zero(a.CurrencyCode),
		}
		if net.IsNegative() {
			row.Credit = net.Neg()
		} else {
			row.Debit = net
		}
		if err := acc.Add(row.Debit, row.Credit); err != nil {
			return nil, err
		}
		report.Rows = append(report.Rows, row)
	}
	report.Totals = acc.Result()

	if !report.IsBalanced() {
		s.LogError(ctx, fmt.Errorf("%w: trial balance does not balance", apperrors.ErrInternal), "Ledger out of balance",
			slog.String("ledger_id", ledgerID), slog.Time("as_of", asOf))
	}
	return report, nil
}

// ProfitAndLoss reports income and expense activity dated inside [from, to].
func (s *reportingService) ProfitAndLoss(ctx context.Context, ledgerID, currency string, from, to time.Time) (*domain.PAndLReport, error) {
	currency = strings.ToUpper(currency)
	if !domain.IsValidCurrencyCode(currency) {
		return nil, fmt.Errorf("%w: invalid currency code %q", apperrors.ErrValidation, currency)
	}
	if !from.IsZero() && domain.DateOnly(to).Before(domain.DateOnly(from)) {
		return nil, fmt.Errorf("%w: from %s is after to %s", apperrors.ErrValidation,
			from.Format(time.DateOnly), to.Format(time.DateOnly))
	}

	accounts, closing, err := s.load(ctx, ledgerID, to)
	if err != nil {
		return nil, err
	}
	opening := map[string]domain.Totals{}
	if !from.IsZero() {
		if opening, err = s.journalRepo.SumAccountTotals(ctx, ledgerID, domain.DateOnly(from).AddDate(0, 0, -1)); err != nil {
			s.LogError(ctx, err, "Failed to sum opening totals", slog.String("ledger_id", ledgerID))
			return nil, err
		}
	}

	report := &domain.PAndLReport{
		Currency:  currency,
		From:      from,
		To:        to,
		Revenue:   []domain.AccountAmount{},
		Expenses:  []domain.AccountAmount{},
		NetProfit: domain.Zero(currency),
	}
	totalRevenue, totalExpenses := domain.Zero(currency), domain.Zero(currency)
	for _, a := range accounts {
		if a.CurrencyCode != currency || (a.AccountType != domain.Income && a.AccountType != domain.Expense) {
			continue
		}
		end, err := normalNet(a, closing[a.AccountID])
		if err != nil {
			return nil, err
		}
		start, err := normalNet(a, opening[a.AccountID])
		if err != nil {
			return nil, err
		}
		net, err := end.Sub(start)
		if err != nil {
			return nil, err
		}
		if net.IsZero() {
			continue
		}
		row := domain.AccountAmount{AccountID: a.AccountID, Code: a.Code, Name: a.Name, NetAmount: net}
		if a.AccountType == domain.Income {
			report.Revenue = append(report.Revenue, row)
			totalRevenue, err = totalRevenue.Add(net)
		} else {
			report.Expenses = append(report.Expenses, row)
			totalExpenses, err = totalExpenses.Add(net)
		}
		if err != nil {
			return nil, err
		}
	}
	if report.NetProfit, err = totalRevenue.Sub(totalExpenses); err != nil {
		return nil, err
	}
	return report, nil
}

// BalanceSheet reports balances as of a date. Income and expense to date are folded into
// RetainedEarnings.
func (s *reportingService) BalanceSheet(ctx context.Context, ledgerID, currency string, asOf time.Time) (*domain.BalanceSheetReport, error) {
	currency = strings.ToUpper(currency)
	if !domain.IsValidCurrencyCode(currency) {
		return nil, fmt.Errorf("%w: invalid currency code %q", apperrors.ErrValidation, currency)
	}
	accounts, totals, err := s.load(ctx, ledgerID, asOf)
	if err != nil {
		return nil, err
	}

	report := &domain.BalanceSheetReport{
		Currency:         currency,
		AsOf:             domain.DateOnly(asOf),
		Assets:           []domain.AccountAmount{},
		Liabilities:      []domain.AccountAmount{},
		Equity:           []domain.AccountAmount{},
		TotalAssets:      domain.Zero(currency),
		TotalLiabilities: domain.Zero(currency),
		TotalEquity:      domain.Zero(currency),
		RetainedEarnings: domain.Zero(currency),
	}
	for _, a := range accounts {
		if a.CurrencyCode != currency {
			continue
		}
		net, err := normalNet(a, totals[a.AccountID])
		if err != nil {
			return nil, err
		}
		row := domain.AccountAmount{AccountID: a.AccountID, Code: a.Code, Name: a.Name, NetAmount: net}
		switch a.AccountType {
		case domain.Asset:
			report.Assets = append(report.Assets, row)
			report.TotalAssets, err = report.TotalAssets.Add(net)
		case domain.Liability:
			report.Liabilities = append(report.Liabilities, row)
			report.TotalLiabilities, err = report.TotalLiabilities.Add(net)
		case domain.Equity:
			report.Equity = append(report.Equity, row)
			report.TotalEquity, err = report.TotalEquity.Add(net)
		case domain.Income:
			report.RetainedEarnings, err = report.RetainedEarnings.Add(net)
		case domain.Expense:
			report.RetainedEarnings, err = report.RetainedEarnings.Sub(net)
		}
		if err != nil {
			return nil, err
		}
	}
	return report, nil
}

func (s *reportingService) load(ctx context.Context, ledgerID string, asOf time.Time) ([]domain.Account, map[string]domain.Totals, error) {
	accounts, err := s.accountRepo.LoadAccounts(ctx, ledgerID)
	if err != nil {
		s.LogError(ctx, err, "Failed to load accounts for report", slog.String("ledger_id", ledgerID))
		return nil, nil, err
	}
	totals, err := s.journalRepo.SumAccountTotals(ctx, ledgerID, asOf)
	if err != nil {
		s.LogError(ctx, err, "Failed to sum account totals", slog.String("ledger_id", ledgerID))
		return nil, nil, err
	}
	return accounts, totals, nil
}

// normalNet returns an account's net in its normal-balance sign. Missing totals are zero.
func normalNet(a domain.Account, t domain.Totals) (domain.Money, error) {
	debit, credit := t.Debit, t.Credit
	if debit.Currency == "" {
		debit = domain.Zero(a.CurrencyCode)
	}
	if credit.Currency == "" {
		credit = domain.Zero(a.CurrencyCode)
	}
	if a.AccountType.NormalBalance() == domain.DebitSide {
		return debit.Sub(credit)
	}
	return credit.Sub(debit)
}

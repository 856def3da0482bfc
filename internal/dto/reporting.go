package dto

import (
	"time"

	"github.com/SscSPs/ledger_core/internal/core/domain"
)

// AsOfParams selects the reporting date. Empty means today.
type AsOfParams struct {
	AsOf string `form:"asOf" binding:"omitempty,datetime=2006-01-02"`
}

// ReportRangeParams selects the currency and date range of a profit and loss report.
type ReportRangeParams struct {
	Currency string `form:"currency" binding:"required,len=3,uppercase"`
	From     string `form:"from" binding:"required,datetime=2006-01-02"`
	To       string `form:"to" binding:"required,datetime=2006-01-02"`
}

// BalanceSheetParams selects the currency and date of a balance sheet.
type BalanceSheetParams struct {
	Currency string `form:"currency" binding:"required,len=3,uppercase"`
	AsOf     string `form:"asOf" binding:"omitempty,datetime=2006-01-02"`
}

// TrialBalanceRowResponse is one account's line of a trial balance.
type TrialBalanceRowResponse struct {
	AccountID   string             `json:"accountID"`
	AccountCode string             `json:"accountCode"`
	AccountName string             `json:"accountName"`
	AccountType domain.AccountType `json:"accountType"`
	Debit       MoneyResponse      `json:"debit"`
	Credit      MoneyResponse      `json:"credit"`
}

// TrialBalanceResponse defines the data returned for a trial balance.
type TrialBalanceResponse struct {
	AsOf       string                    `json:"asOf"`
	Rows       []TrialBalanceRowResponse `json:"rows"`
	Totals     []TotalsResponse          `json:"totals"`
	IsBalanced bool                      `json:"isBalanced"`
}

// ToTrialBalanceResponse converts a domain.TrialBalance.
func ToTrialBalanceResponse(tb *domain.TrialBalance) TrialBalanceResponse {
	rows := make([]TrialBalanceRowResponse, len(tb.Rows))
	for i, r := range tb.Rows {
		rows[i] = TrialBalanceRowResponse{
			AccountID:   r.AccountID,
			AccountCode: r.AccountCode,
			AccountName: r.AccountName,
			AccountType: r.AccountType,
			Debit:       ToMoneyResponse(r.Debit),
			Credit:      ToMoneyResponse(r.Credit),
		}
	}
	return TrialBalanceResponse{
		AsOf:       tb.AsOf.Format(time.DateOnly),
		Rows:       rows,
		Totals:     ToTotalsResponses(tb.Totals),
		IsBalanced: tb.IsBalanced(),
	}
}

// AccountAmountResponse is an account with its net amount.
type AccountAmountResponse struct {
	AccountID string        `json:"accountID"`
	Code      string        `json:"code"`
	Name      string        `json:"name"`
	NetAmount MoneyResponse `json:"netAmount"`
}

func toAccountAmounts(in []domain.AccountAmount) []AccountAmountResponse {
	out := make([]AccountAmountResponse, len(in))
	for i, a := range in {
		out[i] = AccountAmountResponse{AccountID: a.AccountID, Code: a.Code, Name: a.Name, NetAmount: ToMoneyResponse(a.NetAmount)}
	}
	return out
}

// PAndLResponse defines the data returned for a profit and loss report.
type PAndLResponse struct {
	Currency  string                  `json:"currency"`
	From      string                  `json:"from"`
	To        string                  `json:"to"`
	Revenue   []AccountAmountResponse `json:"revenue"`
	Expenses  []AccountAmountResponse `json:"expenses"`
	NetProfit MoneyResponse           `json:"netProfit"`
}

// ToPAndLResponse converts a domain.PAndLReport.
func ToPAndLResponse(r *domain.PAndLReport) PAndLResponse {
	return PAndLResponse{
		Currency:  r.Currency,
		From:      r.From.Format(time.DateOnly),
		To:        r.To.Format(time.DateOnly),
		Revenue:   toAccountAmounts(r.Revenue),
		Expenses:  toAccountAmounts(r.Expenses),
		NetProfit: ToMoneyResponse(r.NetProfit),
	}
}

// BalanceSheetResponse defines the data returned for a balance sheet.
type BalanceSheetResponse struct {
	Currency         string                  `json:"currency"`
	AsOf             string                  `json:"asOf"`
	Assets           []AccountAmountResponse `json:"assets"`
	Liabilities      []AccountAmountResponse `json:"liabilities"`
	Equity           []AccountAmountResponse `json:"equity"`
	TotalAssets      MoneyResponse           `json:"totalAssets"`
	TotalLiabilities MoneyResponse           `json:"totalLiabilities"`
	TotalEquity      MoneyResponse           `json:"totalEquity"`
	RetainedEarnings MoneyResponse           `json:"retainedEarnings"`
}

// ToBalanceSheetResponse converts a domain.BalanceSheetReport.
func ToBalanceSheetResponse(r *domain.BalanceSheetReport) BalanceSheetResponse {
	return BalanceSheetResponse{
		Currency:         r.Currency,
		AsOf:             r.AsOf.Format(time.DateOnly),
		Assets:           toAccountAmounts(r.Assets),
		Liabilities:      toAccountAmounts(r.Liabilities),
		Equity:           toAccountAmounts(r.Equity),
		TotalAssets:      ToMoneyResponse(r.TotalAssets),
		TotalLiabilities: ToMoneyResponse(r.TotalLiabilities),
		TotalEquity:      ToMoneyResponse(r.TotalEquity),
		RetainedEarnings: ToMoneyResponse(r.RetainedEarnings),
	}
}

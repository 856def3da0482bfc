package domain

import (
	"sort"
	"time"
)

// TrialBalanceRow represents a single account's totals in a trial balance report.
type TrialBalanceRow struct {
	AccountID   string      `json:"accountID"`
	AccountCode string      `json:"accountCode"`
	AccountName string      `json:"accountName"`
	AccountType AccountType `json:"accountType"`
	Debit       Money       `json:"debit"`
	Credit      Money       `json:"credit"`
}

// Net returns Debit-Credit.
func (r TrialBalanceRow) Net() (Money, error) {
	return r.Debit.Sub(r.Credit)
}

// TrialBalance lists per-account posted totals up to AsOf, with one total row per currency.
type TrialBalance struct {
	LedgerID string            `json:"ledgerID"`
	AsOf     time.Time         `json:"asOf"`
	Rows     []TrialBalanceRow `json:"rows"`
	Totals   []Totals          `json:"totals"`
}

// IsBalanced reports whether debits equal credits in every currency.
func (t TrialBalance) IsBalanced() bool {
	for _, tot := range t.Totals {
		if !tot.Debit.Equal(tot.Credit) {
			return false
		}
	}
	return true
}

// Totals are aggregate posted debit and credit amounts in a single currency.
type Totals struct {
	Currency string `json:"currency"`
	Debit    Money  `json:"debit"`
	Credit   Money  `json:"credit"`
}

// TotalsAccumulator sums line amounts into per-currency Totals.
type TotalsAccumulator struct {
	order []string
	byCur map[string]*Totals
}

// Add folds a line's debit and credit into its currency's totals.
func (a *TotalsAccumulator) Add(debit, credit Money) error {
	if a.byCur == nil {
		a.byCur = make(map[string]*Totals)
	}
	cur := debit.Currency
	if cur == "" {
		cur = credit.Currency
	}
	t, ok := a.byCur[cur]
	if !ok {
		t = &Totals{Currency: cur, Debit: Zero(cur), Credit: Zero(cur)}
		a.byCur[cur] = t
		a.order = append(a.order, cur)
	}
	var err error
	if !debit.IsZero() {
		if t.Debit, err = t.Debit.Add(debit); err != nil {
			return err
		}
	}
	if !credit.IsZero() {
		if t.Credit, err = t.Credit.Add(credit); err != nil {
			return err
		}
	}
	return nil
}

// Result returns the totals in sorted currency order.
func (a *TotalsAccumulator) Result() []Totals {
	out := make([]Totals, 0, len(a.order))
	for _, cur := range a.order {
		out = append(out, *a.byCur[cur])
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Currency < out[j].Currency })
	return out
}

// AccountAmount is an account with its net amount in the account's normal-balance sign.
type AccountAmount struct {
	AccountID string `json:"accountID"`
	Code      string `json:"code"`
	Name      string `json:"name"`
	NetAmount Money  `json:"netAmount"`
}

// PAndLReport is a profit and loss report for a single currency.
type PAndLReport struct {
	Currency  string          `json:"currency"`
	From      time.Time       `json:"from"`
	To        time.Time       `json:"to"`
	Revenue   []AccountAmount `json:"revenue"`
	Expenses  []AccountAmount `json:"expenses"`
	NetProfit Money           `json:"netProfit"` // total revenue minus total expenses
}

// BalanceSheetReport is a balance sheet for a single currency. Net income to date is
// reported separately as RetainedEarnings so that assets = liabilities + equity + retained.
type BalanceSheetReport struct {
	Currency         string          `json:"currency"`
	AsOf             time.Time       `json:"asOf"`
	Assets           []AccountAmount `json:"assets"`
	Liabilities      []AccountAmount `json:"liabilities"`
	Equity           []AccountAmount `json:"equity"`
	TotalAssets      Money           `json:"totalAssets"`
	TotalLiabilities Money           `json:"totalLiabilities"`
	TotalEquity      Money           `json:"totalEquity"`
	RetainedEarnings Money           `json:"retainedEarnings"`
}

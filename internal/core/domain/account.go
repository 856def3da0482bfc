package domain

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Income    AccountType = "INCOME"
	Expense   AccountType = "EXPENSE"
)

// IsValid reports whether t is one of the five account types.
func (t AccountType) IsValid() bool {
	switch t {
	case Asset, Liability, Equity, Income, Expense:
		return true
	}
	return false
}

// NormalBalance is the side that increases an account of this type.
func (t AccountType) NormalBalance() Side {
	if t == Asset || t == Expense {
		return DebitSide
	}
	return CreditSide
}

// Account is a chart-of-accounts entry within a ledger.
// Code, type and currency are immutable once a posted entry references the account.
type Account struct {
	AccountID    string      `json:"accountID"`
	LedgerID     string      `json:"ledgerID"`
	Code         string      `json:"code"` // unique within the ledger
	Name         string      `json:"name"`
	AccountType  AccountType `json:"accountType"`
	CurrencyCode string      `json:"currencyCode"`
	IsActive     bool        `json:"isActive"`
	Balance      Money       `json:"balance"` // running balance in the account's normal-balance sign
	AuditFields
}

// AccountsByID indexes accounts by their ID.
func AccountsByID(accounts []Account) map[string]Account {
	m := make(map[string]Account, len(accounts))
	for _, a := range accounts {
		m[a.AccountID] = a
	}
	return m
}

package accounting

import (
	"testing"

	"github.com/SscSPs/ledger_core/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func debit(accountID string, minor int64) domain.JournalLine {
	return domain.JournalLine{AccountID: accountID, Debit: domain.NewMoney(minor, "USD"), Credit: domain.Zero("USD")}
}

func credit(accountID string, minor int64) domain.JournalLine {
	return domain.JournalLine{AccountID: accountID, Debit: domain.Zero("USD"), Credit: domain.NewMoney(minor, "USD")}
}

func TestCalculateSignedAmount(t *testing.T) {
	tests := []struct {
		name        string
		line        domain.JournalLine
		accountType domain.AccountType
		want        int64
	}{
		{"debit asset", debit("a", 100), domain.Asset, 100},
		{"credit asset", credit("a", 100), domain.Asset, -100},
		{"debit expense", debit("a", 100), domain.Expense, 100},
		{"debit liability", debit("a", 100), domain.Liability, -100},
		{"credit income", credit("a", 250), domain.Income, 250},
		{"credit equity", credit("a", 1), domain.Equity, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CalculateSignedAmount(tt.line, tt.accountType)
			require.NoError(t, err)
			assert.Equal(t, domain.NewMoney(tt.want, "USD"), got)
		})
	}

	_, err := CalculateSignedAmount(debit("a", 1), domain.AccountType("BOGUS"))
	assert.Error(t, err)
}

func TestBalanceChanges(t *testing.T) {
	accounts := map[string]domain.Account{
		"cash":    {AccountID: "cash", AccountType: domain.Asset},
		"revenue": {AccountID: "revenue", AccountType: domain.Income},
	}
	lines := []domain.JournalLine{debit("cash", 500), credit("revenue", 300), credit("revenue", 200)}

	changes, err := BalanceChanges(lines, accounts)
	require.NoError(t, err)
	assert.Equal(t, domain.NewMoney(500, "USD"), changes["cash"])
	assert.Equal(t, domain.NewMoney(500, "USD"), changes["revenue"])

	_, err = BalanceChanges([]domain.JournalLine{debit("missing", 1)}, accounts)
	assert.Error(t, err)
}

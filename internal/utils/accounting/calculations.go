package accounting

import (
	"fmt"

	"github.com/SscSPs/ledger_core/internal/core/domain"
)

// CalculateSignedAmount applies the correct sign to a line amount based on account type.
// This is used in both services and repositories to ensure consistent accounting logic.
//
//	DEBIT to ASSET/EXPENSE -> +
//	CREDIT to ASSET/EXPENSE -> -
//	DEBIT to LIABILITY/EQUITY/INCOME -> -
//	CREDIT to LIABILITY/EQUITY/INCOME -> +
func CalculateSignedAmount(line domain.JournalLine, accountType domain.AccountType) (domain.Money, error) {
	if !accountType.IsValid() {
		return domain.Money{}, fmt.Errorf("unknown account type '%s' encountered for account ID %s", accountType, line.AccountID)
	}
	amount := line.Amount()
	if line.Side() != accountType.NormalBalance() {
		amount = amount.Neg()
	}
	return amount, nil
}

// BalanceChanges folds the signed effect of every line into a per-account delta.
func BalanceChanges(lines []domain.JournalLine, accounts map[string]domain.Account) (map[string]domain.Money, error) {
	changes := make(map[string]domain.Money, len(lines))
	for i, line := range lines {
		acc, ok := accounts[line.AccountID]
		if !ok {
			return nil, fmt.Errorf("line %d: account %s not found", i, line.AccountID)
		}
		signed, err := CalculateSignedAmount(line, acc.AccountType)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i, err)
		}
		current, ok := changes[line.AccountID]
		if !ok {
			current = domain.Zero(signed.Currency)
		}
		if changes[line.AccountID], err = current.Add(signed); err != nil {
			return nil, fmt.Errorf("line %d: %w", i, err)
		}
	}
	return changes, nil
}

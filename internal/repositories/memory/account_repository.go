package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/SscSPs/ledger_core/internal/apperrors"
	"github.com/SscSPs/ledger_core/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_core/internal/core/ports/repositories"
)

// AccountRepository implements portsrepo.AccountRepositoryFacade in memory.
type AccountRepository struct {
	store *Store
}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository(store *Store) *AccountRepository {
	return &AccountRepository{store: store}
}

var _ portsrepo.AccountRepositoryFacade = (*AccountRepository)(nil)

func (r *AccountRepository) LoadAccounts(ctx context.Context, ledgerID string) ([]domain.Account, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	l := r.store.ledger(ledgerID, false)
	if l == nil {
		return []domain.Account{}, nil
	}
	out := make([]domain.Account, 0, len(l.accounts))
	for _, a := range l.accounts {
		out = append(out, *a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

func (r *AccountRepository) FindAccountByID(ctx context.Context, ledgerID, accountID string) (*domain.Account, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	if l := r.store.ledger(ledgerID, false); l != nil {
		if a, ok := l.accounts[accountID]; ok {
			c := *a
			return &c, nil
		}
	}
	return nil, fmt.Errorf("account %s: %w", accountID, apperrors.ErrNotFound)
}

func (r *AccountRepository) FindAccountByCode(ctx context.Context, ledgerID, code string) (*domain.Account, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	if l := r.store.ledger(ledgerID, false); l != nil {
		for _, a := range l.accounts {
			if a.Code == code {
				c := *a
				return &c, nil
			}
		}
	}
	return nil, fmt.Errorf("account code %s: %w", code, apperrors.ErrNotFound)
}

func (r *AccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	l := r.store.ledger(account.LedgerID, true)
	for _, a := range l.accounts {
		if a.Code == account.Code {
			return fmt.Errorf("%w: account code %s", apperrors.ErrDuplicate, account.Code)
		}
	}
	if _, ok := l.accounts[account.AccountID]; ok {
		return fmt.Errorf("%w: account %s", apperrors.ErrDuplicate, account.AccountID)
	}
	l.accounts[account.AccountID] = &account
	return nil
}

// UpdateAccount keeps the stored running balance; balances change only through appends.
func (r *AccountRepository) UpdateAccount(ctx context.Context, account domain.Account) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	l := r.store.ledger(account.LedgerID, false)
	if l == nil {
		return fmt.Errorf("account %s: %w", account.AccountID, apperrors.ErrNotFound)
	}
	current, ok := l.accounts[account.AccountID]
	if !ok {
		return fmt.Errorf("account %s: %w", account.AccountID, apperrors.ErrNotFound)
	}
	for id, a := range l.accounts {
		if id != account.AccountID && a.Code == account.Code {
			return fmt.Errorf("%w: account code %s", apperrors.ErrDuplicate, account.Code)
		}
	}
	account.Balance = domain.NewMoney(current.Balance.Amount, account.CurrencyCode)
	l.accounts[account.AccountID] = &account
	return nil
}

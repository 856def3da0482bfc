package pgsql

import (
	"context"
	"fmt"

	"github.com/SscSPs/ledger_core/internal/apperrors"
	"github.com/SscSPs/ledger_core/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_core/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxAccountRepository struct {
	BaseRepository
}

// newPgxAccountRepository creates a new repository for account data.
func newPgxAccountRepository(pool *pgxpool.Pool, base BaseRepository) *PgxAccountRepository {
	base.Pool = pool
	return &PgxAccountRepository{BaseRepository: base}
}

// Ensure PgxAccountRepository implements portsrepo.AccountRepositoryFacade
var _ portsrepo.AccountRepositoryFacade = (*PgxAccountRepository)(nil)

const accountColumns = `account_id, ledger_id, code, name, account_type, currency_code, is_active, balance,
	created_at, created_by, last_updated_at, last_updated_by`

func scanAccount(row pgx.Row) (domain.Account, error) {
	var a domain.Account
	var balance int64
	err := row.Scan(
		&a.AccountID,
		&a.LedgerID,
		&a.Code,
		&a.Name,
		&a.AccountType,
		&a.CurrencyCode,
		&a.IsActive,
		&balance,
		&a.CreatedAt,
		&a.CreatedBy,
		&a.LastUpdatedAt,
		&a.LastUpdatedBy,
	)
	a.Balance = domain.NewMoney(balance, a.CurrencyCode)
	return a, err
}

// SaveAccount inserts a new account.
func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	query := `
		INSERT INTO accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err := r.Pool.Exec(ctx, query,
		account.AccountID,
		account.LedgerID,
		account.Code,
		account.Name,
		account.AccountType,
		account.CurrencyCode,
		account.IsActive,
		account.Balance.Amount,
		account.CreatedAt,
		account.CreatedBy,
		account.LastUpdatedAt,
		account.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: account code %s already exists in ledger %s", apperrors.ErrDuplicate, account.Code, account.LedgerID)
		}
		return fmt.Errorf("failed to save account %s: %w", account.AccountID, err)
	}
	return nil
}

// UpdateAccount updates descriptive fields. The balance column is only written by posting.
func (r *PgxAccountRepository) UpdateAccount(ctx context.Context, account domain.Account) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	query := `
		UPDATE accounts
		SET code = $3, name = $4, account_type = $5, currency_code = $6, is_active = $7,
		    last_updated_at = $8, last_updated_by = $9
		WHERE ledger_id = $1 AND account_id = $2;
	`
	tag, err := r.Pool.Exec(ctx, query,
		account.LedgerID,
		account.AccountID,
		account.Code,
		account.Name,
		account.AccountType,
		account.CurrencyCode,
		account.IsActive,
		account.LastUpdatedAt,
		account.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: account code %s already exists in ledger %s", apperrors.ErrDuplicate, account.Code, account.LedgerID)
		}
		return fmt.Errorf("failed to update account %s: %w", account.AccountID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("account %s: %w", account.AccountID, apperrors.ErrNotFound)
	}
	return nil
}

// FindAccountByID retrieves an account by its ID.
func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, ledgerID, accountID string) (*domain.Account, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	query := `SELECT ` + accountColumns + ` FROM accounts WHERE ledger_id = $1 AND account_id = $2;`
	a, err := scanAccount(r.Pool.QueryRow(ctx, query, ledgerID, accountID))
	if err != nil {
		return nil, notFound(err, "account", accountID)
	}
	return &a, nil
}

// FindAccountByCode retrieves an account by its ledger-unique code.
func (r *PgxAccountRepository) FindAccountByCode(ctx context.Context, ledgerID, code string) (*domain.Account, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	query := `SELECT ` + accountColumns + ` FROM accounts WHERE ledger_id = $1 AND code = $2;`
	a, err := scanAccount(r.Pool.QueryRow(ctx, query, ledgerID, code))
	if err != nil {
		return nil, notFound(err, "account code", code)
	}
	return &a, nil
}

// LoadAccounts retrieves the chart of accounts ordered by code.
func (r *PgxAccountRepository) LoadAccounts(ctx context.Context, ledgerID string) ([]domain.Account, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	query := `SELECT ` + accountColumns + ` FROM accounts WHERE ledger_id = $1 ORDER BY code;`
	rows, err := r.Pool.Query(ctx, query, ledgerID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query accounts for ledger "+ledgerID, err)
	}
	defer rows.Close()

	accounts := []domain.Account{}
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan account row", err)
		}
		accounts = append(accounts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating account rows", err)
	}
	return accounts, nil
}

// lockAccountsForUpdate row-locks the given accounts inside tx and returns them keyed by ID.
func lockAccountsForUpdate(ctx context.Context, tx pgx.Tx, ledgerID string, accountIDs []string) (map[string]domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE ledger_id = $1 AND account_id = ANY($2) ORDER BY account_id FOR UPDATE;`
	rows, err := tx.Query(ctx, query, ledgerID, accountIDs)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to lock accounts", err)
	}
	defer rows.Close()

	locked := make(map[string]domain.Account, len(accountIDs))
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan locked account", err)
		}
		locked[a.AccountID] = a
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating locked accounts", err)
	}
	for _, id := range accountIDs {
		if _, ok := locked[id]; !ok {
			return nil, fmt.Errorf("account %s: %w", id, apperrors.ErrNotFound)
		}
	}
	return locked, nil
}

// applyBalanceChanges adds each delta to the locked account's balance within tx.
func applyBalanceChanges(ctx context.Context, tx pgx.Tx, ledgerID string, changes map[string]domain.Money) error {
	if len(changes) == 0 {
		return nil
	}
	ids := make([]string, 0, len(changes))
	for id := range changes {
		ids = append(ids, id)
	}
	locked, err := lockAccountsForUpdate(ctx, tx, ledgerID, ids)
	if err != nil {
		return err
	}

	batch := &pgx.Batch{}
	for id, delta := range changes {
		acc := locked[id]
		next, err := acc.Balance.Add(delta)
		if err != nil {
			return fmt.Errorf("account %s balance: %w", acc.Code, err)
		}
		batch.Queue(`UPDATE accounts SET balance = $3 WHERE ledger_id = $1 AND account_id = $2;`, ledgerID, id, next.Amount)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return apperrors.NewAppError(500, "failed to update account balances", err)
	}
	return nil
}

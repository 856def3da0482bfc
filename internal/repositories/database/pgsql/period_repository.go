package pgsql

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/SscSPs/ledger_core/internal/apperrors"
	"github.com/SscSPs/ledger_core/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_core/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxPeriodRepository struct {
	BaseRepository
}

func newPgxPeriodRepository(pool *pgxpool.Pool, base BaseRepository) *PgxPeriodRepository {
	base.Pool = pool
	return &PgxPeriodRepository{BaseRepository: base}
}

var _ portsrepo.PeriodRepositoryFacade = (*PgxPeriodRepository)(nil)

const periodColumns = `period_id, ledger_id, name, start_date, end_date, fiscal_year, status,
	closed_at, closed_by, locked_at, locked_by, closing_totals,
	created_at, created_by, last_updated_at, last_updated_by`

func scanPeriod(row pgx.Row) (domain.AccountingPeriod, error) {
	var p domain.AccountingPeriod
	var totals []byte
	err := row.Scan(
		&p.PeriodID,
		&p.LedgerID,
		&p.Name,
		&p.StartDate,
		&p.EndDate,
		&p.FiscalYear,
		&p.Status,
		&p.ClosedAt,
		&p.ClosedBy,
		&p.LockedAt,
		&p.LockedBy,
		&totals,
		&p.CreatedAt,
		&p.CreatedBy,
		&p.LastUpdatedAt,
		&p.LastUpdatedBy,
	)
	if err != nil {
		return p, err
	}
	if len(totals) > 0 {
		if err := json.Unmarshal(totals, &p.ClosingTotals); err != nil {
			return p, fmt.Errorf("closing totals of period %s: %w", p.PeriodID, err)
		}
	}
	return p, nil
}

func encodeTotals(ts []domain.Totals) ([]byte, error) {
	if len(ts) == 0 {
		return nil, nil
	}
	return json.Marshal(ts)
}

// SavePeriod inserts a new period.
func (r *PgxPeriodRepository) SavePeriod(ctx context.Context, p domain.AccountingPeriod) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	totals, err := encodeTotals(p.ClosingTotals)
	if err != nil {
		return err
	}
	query := `INSERT INTO accounting_periods (` + periodColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16);`
	_, err = r.Pool.Exec(ctx, query,
		p.PeriodID, p.LedgerID, p.Name, p.StartDate, p.EndDate, p.FiscalYear, p.Status,
		p.ClosedAt, p.ClosedBy, p.LockedAt, p.LockedBy, totals,
		p.CreatedAt, p.CreatedBy, p.LastUpdatedAt, p.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: period %s", apperrors.ErrDuplicate, p.PeriodID)
		}
		return fmt.Errorf("failed to save period %s: %w", p.PeriodID, err)
	}
	return nil
}

// UpdatePeriod persists a status transition with its stamps and closing snapshot.
func (r *PgxPeriodRepository) UpdatePeriod(ctx context.Context, p domain.AccountingPeriod) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	totals, err := encodeTotals(p.ClosingTotals)
	if err != nil {
		return err
	}
	query := `
		UPDATE accounting_periods
		SET status = $3, closed_at = $4, closed_by = $5, locked_at = $6, locked_by = $7,
		    closing_totals = $8, last_updated_at = $9, last_updated_by = $10
		WHERE ledger_id = $1 AND period_id = $2;
	`
	tag, err := r.Pool.Exec(ctx, query,
		p.LedgerID, p.PeriodID, p.Status, p.ClosedAt, p.ClosedBy, p.LockedAt, p.LockedBy,
		totals, p.LastUpdatedAt, p.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update period %s: %w", p.PeriodID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("period %s: %w", p.PeriodID, apperrors.ErrNotFound)
	}
	return nil
}

// FindPeriodByID retrieves a single period.
func (r *PgxPeriodRepository) FindPeriodByID(ctx context.Context, ledgerID, periodID string) (*domain.AccountingPeriod, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	query := `SELECT ` + periodColumns + ` FROM accounting_periods WHERE ledger_id = $1 AND period_id = $2;`
	p, err := scanPeriod(r.Pool.QueryRow(ctx, query, ledgerID, periodID))
	if err != nil {
		return nil, notFound(err, "period", periodID)
	}
	return &p, nil
}

// LoadPeriods retrieves every period of a ledger ordered by start date.
func (r *PgxPeriodRepository) LoadPeriods(ctx context.Context, ledgerID string) ([]domain.AccountingPeriod, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	return loadPeriods(ctx, r.Pool, ledgerID)
}

func loadPeriods(ctx context.Context, q querier, ledgerID string) ([]domain.AccountingPeriod, error) {
	query := `SELECT ` + periodColumns + ` FROM accounting_periods WHERE ledger_id = $1 ORDER BY start_date;`
	rows, err := q.Query(ctx, query, ledgerID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query periods for ledger "+ledgerID, err)
	}
	defer rows.Close()

	periods := []domain.AccountingPeriod{}
	for rows.Next() {
		p, err := scanPeriod(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan period row", err)
		}
		periods = append(periods, p)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating period rows", err)
	}
	return periods, nil
}

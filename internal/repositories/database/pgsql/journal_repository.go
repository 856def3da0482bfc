package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/SscSPs/ledger_core/internal/apperrors"
	"github.com/SscSPs/ledger_core/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_core/internal/core/ports/repositories"
	"github.com/SscSPs/ledger_core/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxJournalRepository struct {
	BaseRepository
}

// newPgxJournalRepository creates a new repository for journal entries and their lines.
func newPgxJournalRepository(pool *pgxpool.Pool, base BaseRepository) *PgxJournalRepository {
	base.Pool = pool
	return &PgxJournalRepository{BaseRepository: base}
}

// Ensure PgxJournalRepository implements portsrepo.JournalRepositoryFacade
var _ portsrepo.JournalRepositoryFacade = (*PgxJournalRepository)(nil)

const entryColumns = `entry_id, ledger_id, entry_number, sequence, entry_date, description, reference,
	currency_code, status, reverses_entry_id, reversed_by_entry_id, posted_at, posted_by, reversed_at, reversed_by,
	created_at, created_by, last_updated_at, last_updated_by`

// effectStatuses are the statuses whose lines count towards balances.
const effectStatuses = `('POSTED', 'REVERSED')`

func scanEntry(row pgx.Row) (domain.JournalEntry, error) {
	var e domain.JournalEntry
	err := row.Scan(
		&e.EntryID,
		&e.LedgerID,
		&e.EntryNumber,
		&e.Sequence,
		&e.EntryDate,
		&e.Description,
		&e.Reference,
		&e.CurrencyCode,
		&e.Status,
		&e.ReversesEntryID,
		&e.ReversedByEntryID,
		&e.PostedAt,
		&e.PostedBy,
		&e.ReversedAt,
		&e.ReversedBy,
		&e.CreatedAt,
		&e.CreatedBy,
		&e.LastUpdatedAt,
		&e.LastUpdatedBy,
	)
	return e, err
}

// loadLines fetches the lines of entries in their original order, keyed by entry ID.
func loadLines(ctx context.Context, q querier, entryIDs []string) (map[string][]domain.JournalLine, error) {
	out := make(map[string][]domain.JournalLine, len(entryIDs))
	if len(entryIDs) == 0 {
		return out, nil
	}
	query := `
		SELECT entry_id, line_id, account_id, debit, credit, currency_code, description
		FROM journal_lines
		WHERE entry_id = ANY($1)
		ORDER BY entry_id, line_no;
	`
	rows, err := q.Query(ctx, query, entryIDs)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query journal lines", err)
	}
	defer rows.Close()

	for rows.Next() {
		var entryID, currency string
		var debit, credit int64
		var l domain.JournalLine
		if err := rows.Scan(&entryID, &l.LineID, &l.AccountID, &debit, &credit, &currency, &l.Description); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan journal line", err)
		}
		l.Debit = domain.NewMoney(debit, currency)
		l.Credit = domain.NewMoney(credit, currency)
		out[entryID] = append(out[entryID], l)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating journal lines", err)
	}
	return out, nil
}

// queryEntries runs a header query and attaches lines to every entry.
func queryEntries(ctx context.Context, q querier, query string, args ...any) ([]domain.JournalEntry, error) {
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query journal entries", err)
	}
	entries := []domain.JournalEntry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			rows.Close()
			return nil, apperrors.NewAppError(500, "failed to scan journal entry", err)
		}
		entries = append(entries, e)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating journal entries", err)
	}

	ids := make([]string, len(entries))
	for i, e := range entries {
		ids[i] = e.EntryID
	}
	lines, err := loadLines(ctx, q, ids)
	if err != nil {
		return nil, err
	}
	for i := range entries {
		entries[i].Lines = lines[entries[i].EntryID]
	}
	return entries, nil
}

// FindEntryByID retrieves a journal entry with its lines.
func (r *PgxJournalRepository) FindEntryByID(ctx context.Context, ledgerID, entryID string) (*domain.JournalEntry, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	entries, err := queryEntries(ctx, r.Pool,
		`SELECT `+entryColumns+` FROM journal_entries WHERE ledger_id = $1 AND entry_id = $2;`, ledgerID, entryID)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("journal entry %s: %w", entryID, apperrors.ErrNotFound)
	}
	return &entries[0], nil
}

// ListEntries pages through entries ordered by (entry_date, sequence) ascending.
func (r *PgxJournalRepository) ListEntries(ctx context.Context, ledgerID string, filter portsrepo.EntryFilter, limit int, nextToken *string) ([]domain.JournalEntry, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	// We fetch one extra item to determine if there's a next page.
	fetchLimit := limit + 1

	conds := []string{"ledger_id = $1"}
	args := []any{ledgerID}
	arg := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}
	if filter.Status != "" {
		conds = append(conds, "status = "+arg(filter.Status))
	}
	if !filter.DateRange.From.IsZero() {
		conds = append(conds, "entry_date >= "+arg(domain.DateOnly(filter.DateRange.From)))
	}
	if !filter.DateRange.To.IsZero() {
		conds = append(conds, "entry_date <= "+arg(domain.DateOnly(filter.DateRange.To)))
	}
	if nextToken != nil && *nextToken != "" {
		cursor, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		// Tuple comparison is concise and efficient in Postgres
		conds = append(conds, "(entry_date, sequence) > ("+arg(cursor.EntryDate)+", "+arg(cursor.Sequence)+")")
	}
	query := `SELECT ` + entryColumns + ` FROM journal_entries WHERE ` + strings.Join(conds, " AND ") +
		` ORDER BY entry_date, sequence LIMIT ` + arg(fetchLimit) + `;`

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	entries, err := queryEntries(ctx, r.Pool, query, args...)
	if err != nil {
		return nil, nil, err
	}
	if len(entries) <= limit {
		return entries, nil, nil
	}
	page := entries[:limit]
	last := page[limit-1]
	token := pagination.EncodeToken(last.EntryDate, last.Sequence)
	return page, &token, nil
}

// LoadEntriesForAccount retrieves entries with ledger effect touching accountID inside rng.
func (r *PgxJournalRepository) LoadEntriesForAccount(ctx context.Context, ledgerID, accountID string, rng domain.DateRange) ([]domain.JournalEntry, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	query := `
		SELECT ` + entryColumns + `
		FROM journal_entries e
		WHERE e.ledger_id = $1
		  AND e.status IN ` + effectStatuses + `
		  AND ($3::date IS NULL OR e.entry_date >= $3)
		  AND ($4::date IS NULL OR e.entry_date <= $4)
		  AND EXISTS (SELECT 1 FROM journal_lines l WHERE l.entry_id = e.entry_id AND l.account_id = $2)
		ORDER BY e.entry_date, e.sequence;
	`
	return queryEntries(ctx, r.Pool, query, ledgerID, accountID, optionalDate(rng.From), optionalDate(rng.To))
}

// SumPostedTotals aggregates posted debits and credits per currency inside rng.
func (r *PgxJournalRepository) SumPostedTotals(ctx context.Context, ledgerID string, rng domain.DateRange) ([]domain.Totals, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	query := `
		SELECT l.currency_code, COALESCE(SUM(l.debit), 0)::BIGINT, COALESCE(SUM(l.credit), 0)::BIGINT
		FROM journal_lines l
		JOIN journal_entries e ON e.entry_id = l.entry_id
		WHERE e.ledger_id = $1
		  AND e.status IN ` + effectStatuses + `
		  AND ($2::date IS NULL OR e.entry_date >= $2)
		  AND ($3::date IS NULL OR e.entry_date <= $3)
		GROUP BY l.currency_code;
	`
	rows, err := r.Pool.Query(ctx, query, ledgerID, optionalDate(rng.From), optionalDate(rng.To))
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to sum posted totals for ledger "+ledgerID, err)
	}
	defer rows.Close()

	var acc domain.TotalsAccumulator
	for rows.Next() {
		var currency string
		var debit, credit int64
		if err := rows.Scan(&currency, &debit, &credit); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan totals row", err)
		}
		if err := acc.Add(domain.NewMoney(debit, currency), domain.NewMoney(credit, currency)); err != nil {
			return nil, err
		}
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating totals rows", err)
	}
	return acc.Result(), nil
}

// SumAccountTotals aggregates per-account posted debits and credits up to asOf.
func (r *PgxJournalRepository) SumAccountTotals(ctx context.Context, ledgerID string, asOf time.Time) (map[string]domain.Totals, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	query := `
		SELECT l.account_id, l.currency_code, COALESCE(SUM(l.debit), 0)::BIGINT, COALESCE(SUM(l.credit), 0)::BIGINT
		FROM journal_lines l
		JOIN journal_entries e ON e.entry_id = l.entry_id
		WHERE e.ledger_id = $1
		  AND e.status IN ` + effectStatuses + `
		  AND ($2::date IS NULL OR e.entry_date <= $2)
		GROUP BY l.account_id, l.currency_code;
	`
	rows, err := r.Pool.Query(ctx, query, ledgerID, optionalDate(asOf))
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to sum account totals for ledger "+ledgerID, err)
	}
	defer rows.Close()

	out := make(map[string]domain.Totals)
	for rows.Next() {
		var accountID, currency string
		var debit, credit int64
		if err := rows.Scan(&accountID, &currency, &debit, &credit); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan account totals row", err)
		}
		out[accountID] = domain.Totals{
			Currency: currency,
			Debit:    domain.NewMoney(debit, currency),
			Credit:   domain.NewMoney(credit, currency),
		}
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating account totals rows", err)
	}
	return out, nil
}

// IsAccountReferenced reports whether any non-draft entry has a line on accountID.
func (r *PgxJournalRepository) IsAccountReferenced(ctx context.Context, ledgerID, accountID string) (bool, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	query := `
		SELECT EXISTS (
			SELECT 1 FROM journal_lines l
			JOIN journal_entries e ON e.entry_id = l.entry_id
			WHERE e.ledger_id = $1 AND l.account_id = $2 AND e.status <> 'DRAFT'
		);
	`
	var referenced bool
	if err := r.Pool.QueryRow(ctx, query, ledgerID, accountID).Scan(&referenced); err != nil {
		return false, apperrors.NewAppError(500, "failed to check account references for "+accountID, err)
	}
	return referenced, nil
}

// NextEntryNumber reserves the next per-ledger sequence.
func (r *PgxJournalRepository) NextEntryNumber(ctx context.Context, ledgerID string) (int64, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	query := `
		INSERT INTO ledger_sequences (ledger_id, last_value) VALUES ($1, 1)
		ON CONFLICT (ledger_id) DO UPDATE SET last_value = ledger_sequences.last_value + 1
		RETURNING last_value;
	`
	var seq int64
	if err := r.Pool.QueryRow(ctx, query, ledgerID).Scan(&seq); err != nil {
		return 0, apperrors.NewAppError(500, "failed to reserve entry number for ledger "+ledgerID, err)
	}
	return seq, nil
}

// SaveDraft inserts or replaces a draft entry and its lines.
func (r *PgxJournalRepository) SaveDraft(ctx context.Context, entry domain.JournalEntry) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	return r.inTx(ctx, func(tx pgx.Tx) error {
		if err := ensureDraftOrAbsent(ctx, tx, entry); err != nil {
			return err
		}
		return writeEntry(ctx, tx, entry)
	})
}

// AppendEntry inserts a posted entry, or promotes its draft, and applies balance changes.
func (r *PgxJournalRepository) AppendEntry(ctx context.Context, entry domain.JournalEntry, balanceChanges map[string]domain.Money) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	return r.inTx(ctx, func(tx pgx.Tx) error {
		if err := ensureDraftOrAbsent(ctx, tx, entry); err != nil {
			return err
		}
		if err := writeEntry(ctx, tx, entry); err != nil {
			return err
		}
		return applyBalanceChanges(ctx, tx, entry.LedgerID, balanceChanges)
	})
}

// AppendReversal persists the reversal and flips the original to REVERSED in one transaction.
// The status guard in the UPDATE makes a concurrent second reversal fail.
func (r *PgxJournalRepository) AppendReversal(ctx context.Context, originalID string, reversal domain.JournalEntry, balanceChanges map[string]domain.Money) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	return r.inTx(ctx, func(tx pgx.Tx) error {
		if err := writeEntry(ctx, tx, reversal); err != nil {
			return err
		}

		query := `
			UPDATE journal_entries
			SET status = 'REVERSED', reversed_by_entry_id = $3, reversed_at = $4, reversed_by = $5,
			    last_updated_at = COALESCE($4, last_updated_at), last_updated_by = COALESCE($5, last_updated_by)
			WHERE ledger_id = $1 AND entry_id = $2 AND status = 'POSTED';
		`
		tag, err := tx.Exec(ctx, query, reversal.LedgerID, originalID, reversal.EntryID, reversal.PostedAt, reversal.PostedBy)
		if err != nil {
			return apperrors.NewAppError(500, "failed to mark journal entry "+originalID+" reversed", err)
		}
		if tag.RowsAffected() == 0 {
			var status domain.EntryStatus
			err := tx.QueryRow(ctx, `SELECT status FROM journal_entries WHERE ledger_id = $1 AND entry_id = $2;`,
				reversal.LedgerID, originalID).Scan(&status)
			if err != nil {
				return notFound(err, "journal entry", originalID)
			}
			return fmt.Errorf("%w: %s is %s", apperrors.ErrAlreadyReversed, originalID, status)
		}
		return applyBalanceChanges(ctx, tx, reversal.LedgerID, balanceChanges)
	})
}

// ensureDraftOrAbsent locks an existing row for entry and fails unless it is still a draft.
func ensureDraftOrAbsent(ctx context.Context, tx pgx.Tx, entry domain.JournalEntry) error {
	var status domain.EntryStatus
	var number string
	err := tx.QueryRow(ctx,
		`SELECT status, entry_number FROM journal_entries WHERE ledger_id = $1 AND entry_id = $2 FOR UPDATE;`,
		entry.LedgerID, entry.EntryID).Scan(&status, &number)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil
	}
	if err != nil {
		return apperrors.NewAppError(500, "failed to lock journal entry "+entry.EntryID, err)
	}
	if status != domain.Draft {
		return fmt.Errorf("%w: %s is %s", apperrors.ErrEntryNotDraft, number, status)
	}
	return nil
}

// writeEntry upserts the header and replaces the lines of entry.
func writeEntry(ctx context.Context, tx pgx.Tx, e domain.JournalEntry) error {
	query := `
		INSERT INTO journal_entries (` + entryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
		ON CONFLICT (entry_id) DO UPDATE SET
			entry_date = EXCLUDED.entry_date, description = EXCLUDED.description, reference = EXCLUDED.reference,
			currency_code = EXCLUDED.currency_code, status = EXCLUDED.status,
			posted_at = EXCLUDED.posted_at, posted_by = EXCLUDED.posted_by,
			last_updated_at = EXCLUDED.last_updated_at, last_updated_by = EXCLUDED.last_updated_by
		WHERE journal_entries.ledger_id = EXCLUDED.ledger_id;
	`
	tag, err := tx.Exec(ctx, query,
		e.EntryID, e.LedgerID, e.EntryNumber, e.Sequence, domain.DateOnly(e.EntryDate), e.Description, e.Reference,
		e.CurrencyCode, e.Status, e.ReversesEntryID, e.ReversedByEntryID, e.PostedAt, e.PostedBy, e.ReversedAt, e.ReversedBy,
		e.CreatedAt, e.CreatedBy, e.LastUpdatedAt, e.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: entry number %s in ledger %s", apperrors.ErrDuplicate, e.EntryNumber, e.LedgerID)
		}
		return apperrors.NewAppError(500, "failed to write journal entry "+e.EntryID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: entry %s belongs to another ledger", apperrors.ErrDuplicate, e.EntryID)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM journal_lines WHERE entry_id = $1;`, e.EntryID); err != nil {
		return apperrors.NewAppError(500, "failed to clear lines of journal entry "+e.EntryID, err)
	}

	batch := &pgx.Batch{}
	lineQuery := `
		INSERT INTO journal_lines (line_id, entry_id, line_no, account_id, debit, credit, currency_code, description)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	for i, l := range e.Lines {
		batch.Queue(lineQuery, l.LineID, e.EntryID, i, l.AccountID, l.Debit.Amount, l.Credit.Amount, e.CurrencyCode, l.Description)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return apperrors.NewAppError(500, "failed to insert lines of journal entry "+e.EntryID, err)
	}
	return nil
}

// optionalDate maps an open range bound to NULL.
func optionalDate(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	d := domain.DateOnly(t)
	return &d
}

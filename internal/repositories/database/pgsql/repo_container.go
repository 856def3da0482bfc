package pgsql

import (
	"time"

	portsrepo "github.com/SscSPs/ledger_core/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositoryProvider builds the Postgres-backed repositories. queryTimeout bounds every call.
func NewRepositoryProvider(dbPool *pgxpool.Pool, queryTimeout time.Duration) portsrepo.RepositoryProvider {
	base := BaseRepository{Timeout: queryTimeout}
	return portsrepo.RepositoryProvider{
		AccountRepo: newPgxAccountRepository(dbPool, base),
		PeriodRepo:  newPgxPeriodRepository(dbPool, base),
		JournalRepo: newPgxJournalRepository(dbPool, base),
	}
}

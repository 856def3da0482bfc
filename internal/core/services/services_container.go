package services

import (
	portsrepo "github.com/SscSPs/ledger_core/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_core/internal/core/ports/services"
	"github.com/SscSPs/ledger_core/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies.
// Every service shares the same clock and ledger locker passed through options.
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, options ...ServiceOption) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Account = NewAccountService(repos.AccountRepo, repos.JournalRepo, options...)
	container.Period = NewPeriodService(repos.PeriodRepo, repos.JournalRepo, options...)
	container.Journal = NewLedgerService(repos.AccountRepo, repos.PeriodRepo, repos.JournalRepo, options...)
	container.Reporting = NewReportingService(repos.AccountRepo, repos.JournalRepo, options...)

	container.Reconciliation = NewReconciliationService(repos.AccountRepo, repos.JournalRepo, ReconciliationSettings{
		DefaultTolerance: cfg.ReconciliationToleranceMinor,
		MaxSessions:      cfg.ReconciliationMaxSessions,
		SessionTTL:       cfg.ReconciliationSessionTTL,
	}, options...)

	return container
}

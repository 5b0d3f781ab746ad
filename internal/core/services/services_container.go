package services

import (
	portsrepo "github.com/SscSPs/finovate_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/finovate_app/internal/core/ports/services"
)

// NewServiceContainer creates a new service container with properly initialized dependencies.
// Every balance-changing service shares one AccountLocker.
func NewServiceContainer(repos portsrepo.RepositoryProvider, options ...ServiceOption) *portssvc.ServiceContainer {
	shared := append([]ServiceOption{WithLocker(NewAccountLocker())}, options...)

	container := &portssvc.ServiceContainer{}
	container.Account = NewAccountService(repos.AccountRepo, repos.LedgerRepo, shared...)
	container.Ledger = NewLedgerService(repos.AccountRepo, repos.LedgerRepo, shared...)
	container.Transfer = NewTransferService(repos.AccountRepo, repos.LedgerRepo, shared...)
	container.Goal = NewGoalService(repos.GoalRepo, shared...)
	container.Export = NewExportService(repos.AccountRepo, repos.LedgerRepo, container.Ledger, shared...)
	container.Reporting = NewReportingService(repos, shared...)

	return container
}

// Helper to check interface implementations at compile time
var (
	_ portssvc.AccountSvcFacade = (*accountService)(nil)
	_ portssvc.LedgerSvcFacade  = (*ledgerService)(nil)
	_ portssvc.TransferSvc      = (*transferService)(nil)
	_ portssvc.GoalSvcFacade    = (*goalService)(nil)
	_ portssvc.ExportSvc        = (*exportService)(nil)
	_ portssvc.ReportingSvc     = (*reportingService)(nil)
)

package services

import (
	portsrepo "github.com/fernbooks/bookkeeping_app/internal/core/ports/repositories"
	portssvc "github.com/fernbooks/bookkeeping_app/internal/core/ports/services"
)

// NewServiceContainer wires every service onto one unit of work.
func NewServiceContainer(uow portsrepo.UnitOfWork) *portssvc.ServiceContainer {
	return &portssvc.ServiceContainer{
		Ledger:    NewLedgerService(uow),
		Posting:   NewPostingService(uow),
		Bank:      NewBankingService(uow),
		Import:    NewImportService(uow),
		Billing:   NewBillingService(uow),
		Reporting: NewReportingService(uow),
	}
}

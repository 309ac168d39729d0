package services

import (
	"time"

	portsrepo "github.com/tallybooks/tallybooks/internal/core/ports/repositories"
	portssvc "github.com/tallybooks/tallybooks/internal/core/ports/services"
)

// NewServiceContainer wires every service facade over the repository container.
func NewServiceContainer(repos *portsrepo.RepositoryContainer, jwtSecret string, jwtExpiry time.Duration, jwtIssuer string) *portssvc.ServiceContainer {
	return &portssvc.ServiceContainer{
		Auth:      NewAuthService(repos.Tenant, repos.User, jwtSecret, jwtExpiry, jwtIssuer),
		Account:   NewAccountService(repos.Account),
		Journal:   NewJournalService(repos.Journal, repos.Account),
		Invoice:   NewInvoiceService(repos.Invoice, repos.Journal, repos.Account),
		Payment:   NewPaymentService(repos.Payment, repos.Invoice, repos.Journal, repos.Account),
		Reporting: NewReportingService(repos.Reporting),
	}
}

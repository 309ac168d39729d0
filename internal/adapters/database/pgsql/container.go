package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/tallybooks/tallybooks/internal/core/ports/repositories"
)

// NewRepositoryContainer wires every pgx-backed repository over one pool.
func NewRepositoryContainer(pool *pgxpool.Pool) *portsrepo.RepositoryContainer {
	return &portsrepo.RepositoryContainer{
		Tenant:    NewPgxTenantRepository(pool),
		User:      NewPgxUserRepository(pool),
		Account:   NewPgxAccountRepository(pool),
		Journal:   NewPgxJournalRepository(pool),
		Invoice:   NewPgxInvoiceRepository(pool),
		Payment:   NewPgxPaymentRepository(pool),
		Reporting: NewPgxReportingRepository(pool),
	}
}

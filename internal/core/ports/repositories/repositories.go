package repositories

// RepositoryContainer groups all repository implementations for injection
// into the service layer.
type RepositoryContainer struct {
	Tenant    TenantRepository
	User      UserRepository
	Account   AccountRepository
	Journal   JournalRepository
	Invoice   InvoiceRepository
	Payment   PaymentRepository
	Reporting ReportingRepository
}

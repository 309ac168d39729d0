package repositories

import (
	"context"
	"time"

	"github.com/tallybooks/tallybooks/internal/core/domain"
)

// ReportingRepository defines the read-only queries behind the reporting engine.
type ReportingRepository interface {
	// GetPostedLines returns every journal entry line whose parent entry
	// belongs to the tenant and falls within the optional inclusive date
	// window. Only AccountID/Debit/Credit are populated.
	GetPostedLines(ctx context.Context, tenantID string, startDate, endDate *time.Time) ([]domain.JournalEntryLine, error)

	// FindAccountsForReport returns the given accounts of the tenant,
	// ordered by code ascending.
	FindAccountsForReport(ctx context.Context, tenantID string, accountIDs []string) ([]domain.Account, error)
}

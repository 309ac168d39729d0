package repositories

import (
	"context"
	"time"

	"github.com/tallybooks/tallybooks/internal/core/domain"
)

// InvoiceRepository defines persistence operations for invoices.
type InvoiceRepository interface {
	// CreateInvoice inserts the invoice and its lines, and, when entry is
	// non-nil, the synthesized journal entry plus its lines and the
	// journal_entry_id back-reference, all within one transaction.
	CreateInvoice(ctx context.Context, invoice domain.Invoice, lines []domain.InvoiceLine, entry *domain.JournalEntry, entryLines []domain.JournalEntryLine) error

	// FindInvoiceByID retrieves a tenant's invoice joined with its lines,
	// payments and journal entry detail.
	FindInvoiceByID(ctx context.Context, tenantID, invoiceID string) (*domain.Invoice, error)

	// FindLastInvoiceNumber returns the lexicographically-greatest invoice
	// number for the tenant sharing the given day prefix, or nil when none.
	FindLastInvoiceNumber(ctx context.Context, tenantID, prefix string) (*string, error)

	// ListInvoices returns a page of a tenant's invoices (lines included)
	// with optional status and inclusive date-window filters, ordered by
	// invoice date descending then creation time descending, plus the total.
	ListInvoices(ctx context.Context, tenantID string, limit, offset int, status *domain.InvoiceStatus, startDate, endDate *time.Time) ([]domain.Invoice, int64, error)

	// UpdateInvoiceStatus persists a caller-driven status change.
	UpdateInvoiceStatus(ctx context.Context, invoiceID string, status domain.InvoiceStatus) error
}

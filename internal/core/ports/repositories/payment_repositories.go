package repositories

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/tallybooks/tallybooks/internal/core/domain"
)

// PaymentRepository defines persistence operations for payments.
type PaymentRepository interface {
	// CreatePayment inserts the payment, its synthesized journal entry and
	// lines, and updates the parent invoice's paidAmount and status, all
	// within one transaction.
	CreatePayment(ctx context.Context, payment domain.Payment, entry domain.JournalEntry, entryLines []domain.JournalEntryLine, newPaidAmount decimal.Decimal, newStatus domain.InvoiceStatus) error

	// FindPaymentByID retrieves a tenant's payment joined with its invoice
	// and journal entry detail.
	FindPaymentByID(ctx context.Context, tenantID, paymentID string) (*domain.Payment, error)

	// ListPayments returns a tenant's payments ordered by payment date
	// descending then creation time descending, with optional invoice and
	// method filters. Each payment carries an invoice summary.
	ListPayments(ctx context.Context, tenantID string, invoiceID, method *string) ([]domain.Payment, error)
}

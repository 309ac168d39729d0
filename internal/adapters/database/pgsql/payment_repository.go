package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/tallybooks/tallybooks/internal/apperrors"
	"github.com/tallybooks/tallybooks/internal/core/domain"
	portsrepo "github.com/tallybooks/tallybooks/internal/core/ports/repositories"
	"github.com/tallybooks/tallybooks/internal/models"
)

type PgxPaymentRepository struct {
	pool        *pgxpool.Pool
	journalRepo *PgxJournalRepository
}

// NewPgxPaymentRepository creates a new repository for payment data.
func NewPgxPaymentRepository(pool *pgxpool.Pool) portsrepo.PaymentRepository {
	return &PgxPaymentRepository{pool: pool, journalRepo: &PgxJournalRepository{pool: pool}}
}

var _ portsrepo.PaymentRepository = (*PgxPaymentRepository)(nil)

func paymentToDomain(m models.Payment) domain.Payment {
	return domain.Payment{
		PaymentID:      m.PaymentID,
		TenantID:       m.TenantID,
		InvoiceID:      m.InvoiceID,
		Amount:         m.Amount,
		PaymentDate:    m.PaymentDate,
		Method:         domain.PaymentMethod(m.Method),
		Reference:      m.Reference,
		JournalEntryID: m.JournalEntryID,
		CreatedAt:      m.CreatedAt,
	}
}

// CreatePayment inserts the payment and its journal entry, and rolls the
// parent invoice's paid amount and status forward, all within one DB
// transaction.
func (r *PgxPaymentRepository) CreatePayment(ctx context.Context, payment domain.Payment, entry domain.JournalEntry, entryLines []domain.JournalEntryLine, newPaidAmount decimal.Decimal, newStatus domain.InvoiceStatus) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	batch := &pgx.Batch{}
	queueEntryInsert(batch, entry, entryLines)
	batch.Queue(`
		INSERT INTO payments (payment_id, tenant_id, invoice_id, amount, payment_date, method, reference, journal_entry_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`,
		payment.PaymentID,
		payment.TenantID,
		payment.InvoiceID,
		payment.Amount,
		payment.PaymentDate,
		string(payment.Method),
		nullable(payment.Reference),
		payment.JournalEntryID,
		payment.CreatedAt,
	)
	batch.Queue(`
		UPDATE invoices SET paid_amount = $2, status = $3 WHERE invoice_id = $1;
	`,
		payment.InvoiceID,
		newPaidAmount,
		string(newStatus),
	)

	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return fmt.Errorf("%w: entry number %s already taken", apperrors.ErrDuplicate, entry.EntryNumber)
		}
		return fmt.Errorf("failed to insert payment %s: %w", payment.PaymentID, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit payment %s: %w", payment.PaymentID, err)
	}
	return nil
}

// FindPaymentByID retrieves a tenant's payment with its invoice and journal
// entry detail.
func (r *PgxPaymentRepository) FindPaymentByID(ctx context.Context, tenantID, paymentID string) (*domain.Payment, error) {
	query := `
		SELECT payment_id, tenant_id, invoice_id, amount, payment_date, method, COALESCE(reference, ''), journal_entry_id, created_at
		FROM payments
		WHERE tenant_id = $1 AND payment_id = $2;
	`
	var m models.Payment
	err := r.pool.QueryRow(ctx, query, tenantID, paymentID).Scan(
		&m.PaymentID,
		&m.TenantID,
		&m.InvoiceID,
		&m.Amount,
		&m.PaymentDate,
		&m.Method,
		&m.Reference,
		&m.JournalEntryID,
		&m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find payment by ID %s: %w", paymentID, err)
	}

	payment := paymentToDomain(m)

	invoiceQuery := `SELECT ` + invoiceColumns + ` FROM invoices WHERE tenant_id = $1 AND invoice_id = $2;`
	inv, err := scanInvoice(r.pool.QueryRow(ctx, invoiceQuery, tenantID, m.InvoiceID))
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("failed to load invoice for payment %s: %w", paymentID, err)
	}
	if inv != nil {
		invoice := invoiceToDomain(*inv)
		payment.Invoice = &invoice
	}

	entry, err := r.journalRepo.FindEntryByID(ctx, m.JournalEntryID)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}
	payment.JournalEntry = entry

	return &payment, nil
}

// ListPayments returns a tenant's payments with invoice summaries, optionally
// filtered by invoice or method.
func (r *PgxPaymentRepository) ListPayments(ctx context.Context, tenantID string, invoiceID, method *string) ([]domain.Payment, error) {
	query := `
		SELECT p.payment_id, p.tenant_id, p.invoice_id, p.amount, p.payment_date, p.method, COALESCE(p.reference, ''), p.journal_entry_id, p.created_at,
		       i.invoice_number, i.customer_name, i.total, i.status
		FROM payments p
		JOIN invoices i ON i.invoice_id = p.invoice_id
		WHERE p.tenant_id = $1
	`
	args := []interface{}{tenantID}
	if invoiceID != nil {
		args = append(args, *invoiceID)
		query += fmt.Sprintf(` AND p.invoice_id = $%d`, len(args))
	}
	if method != nil {
		args = append(args, *method)
		query += fmt.Sprintf(` AND p.method = $%d`, len(args))
	}
	query += ` ORDER BY p.payment_date DESC, p.created_at DESC;`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query payments for tenant %s: %w", tenantID, err)
	}
	defer rows.Close()

	payments := []domain.Payment{}
	for rows.Next() {
		var m models.Payment
		var invoice domain.Invoice
		if err := rows.Scan(
			&m.PaymentID,
			&m.TenantID,
			&m.InvoiceID,
			&m.Amount,
			&m.PaymentDate,
			&m.Method,
			&m.Reference,
			&m.JournalEntryID,
			&m.CreatedAt,
			&invoice.InvoiceNumber,
			&invoice.CustomerName,
			&invoice.Total,
			&invoice.Status,
		); err != nil {
			return nil, fmt.Errorf("failed to scan payment row: %w", err)
		}
		payment := paymentToDomain(m)
		invoice.InvoiceID = m.InvoiceID
		invoice.TenantID = m.TenantID
		payment.Invoice = &invoice
		payments = append(payments, payment)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating payment rows: %w", err)
	}
	return payments, nil
}

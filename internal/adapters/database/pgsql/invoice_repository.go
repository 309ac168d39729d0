package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tallybooks/tallybooks/internal/apperrors"
	"github.com/tallybooks/tallybooks/internal/core/domain"
	portsrepo "github.com/tallybooks/tallybooks/internal/core/ports/repositories"
	"github.com/tallybooks/tallybooks/internal/models"
)

type PgxInvoiceRepository struct {
	pool        *pgxpool.Pool
	journalRepo *PgxJournalRepository
}

// NewPgxInvoiceRepository creates a new repository for invoice data.
func NewPgxInvoiceRepository(pool *pgxpool.Pool) portsrepo.InvoiceRepository {
	return &PgxInvoiceRepository{pool: pool, journalRepo: &PgxJournalRepository{pool: pool}}
}

var _ portsrepo.InvoiceRepository = (*PgxInvoiceRepository)(nil)

const invoiceColumns = `invoice_id, tenant_id, invoice_number, customer_name, customer_id, invoice_date, due_date,
	subtotal, tax, total, status, paid_amount, journal_entry_id, created_at`

func invoiceToDomain(m models.Invoice) domain.Invoice {
	return domain.Invoice{
		InvoiceID:      m.InvoiceID,
		TenantID:       m.TenantID,
		InvoiceNumber:  m.InvoiceNumber,
		CustomerName:   m.CustomerName,
		CustomerID:     m.CustomerID,
		InvoiceDate:    m.InvoiceDate,
		DueDate:        m.DueDate,
		Subtotal:       m.Subtotal,
		Tax:            m.Tax,
		Total:          m.Total,
		Status:         domain.InvoiceStatus(m.Status),
		PaidAmount:     m.PaidAmount,
		JournalEntryID: m.JournalEntryID,
		CreatedAt:      m.CreatedAt,
	}
}

func scanInvoice(row pgx.Row) (*models.Invoice, error) {
	var m models.Invoice
	var customerID, journalEntryID *string
	err := row.Scan(
		&m.InvoiceID,
		&m.TenantID,
		&m.InvoiceNumber,
		&m.CustomerName,
		&customerID,
		&m.InvoiceDate,
		&m.DueDate,
		&m.Subtotal,
		&m.Tax,
		&m.Total,
		&m.Status,
		&m.PaidAmount,
		&journalEntryID,
		&m.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if customerID != nil {
		m.CustomerID = *customerID
	}
	if journalEntryID != nil {
		m.JournalEntryID = *journalEntryID
	}
	return &m, nil
}

// CreateInvoice inserts the invoice, its lines and, when present, the
// mirroring journal entry within one DB transaction. The entry goes in first
// so the invoice row can reference it.
func (r *PgxInvoiceRepository) CreateInvoice(ctx context.Context, invoice domain.Invoice, lines []domain.InvoiceLine, entry *domain.JournalEntry, entryLines []domain.JournalEntryLine) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	batch := &pgx.Batch{}
	if entry != nil {
		queueEntryInsert(batch, *entry, entryLines)
	}

	batch.Queue(`
		INSERT INTO invoices (invoice_id, tenant_id, invoice_number, customer_name, customer_id, invoice_date, due_date,
			subtotal, tax, total, status, paid_amount, journal_entry_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
	`,
		invoice.InvoiceID,
		invoice.TenantID,
		invoice.InvoiceNumber,
		invoice.CustomerName,
		nullable(invoice.CustomerID),
		invoice.InvoiceDate,
		invoice.DueDate,
		invoice.Subtotal,
		invoice.Tax,
		invoice.Total,
		string(invoice.Status),
		invoice.PaidAmount,
		nullable(invoice.JournalEntryID),
		invoice.CreatedAt,
	)
	for _, line := range lines {
		batch.Queue(`
			INSERT INTO invoice_lines (line_id, invoice_id, description, quantity, unit_price, total)
			VALUES ($1, $2, $3, $4, $5, $6);
		`,
			line.LineID,
			line.InvoiceID,
			line.Description,
			line.Quantity,
			line.UnitPrice,
			line.Total,
		)
	}

	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return fmt.Errorf("%w: invoice number %s already taken", apperrors.ErrDuplicate, invoice.InvoiceNumber)
		}
		return fmt.Errorf("failed to insert invoice %s: %w", invoice.InvoiceID, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit invoice %s: %w", invoice.InvoiceID, err)
	}
	return nil
}

// FindInvoiceByID retrieves a tenant's invoice with its lines, payments and
// journal entry detail.
func (r *PgxInvoiceRepository) FindInvoiceByID(ctx context.Context, tenantID, invoiceID string) (*domain.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE tenant_id = $1 AND invoice_id = $2;`
	m, err := scanInvoice(r.pool.QueryRow(ctx, query, tenantID, invoiceID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find invoice by ID %s: %w", invoiceID, err)
	}

	invoice := invoiceToDomain(*m)

	linesByInvoice, err := r.findLinesByInvoiceIDs(ctx, []string{invoiceID})
	if err != nil {
		return nil, err
	}
	invoice.Lines = linesByInvoice[invoiceID]
	if invoice.Lines == nil {
		invoice.Lines = []domain.InvoiceLine{}
	}

	payments, err := r.findPaymentsByInvoiceID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	invoice.Payments = payments

	if invoice.JournalEntryID != "" {
		entry, err := r.journalRepo.FindEntryByID(ctx, invoice.JournalEntryID)
		if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		invoice.JournalEntry = entry
	}

	return &invoice, nil
}

func (r *PgxInvoiceRepository) findLinesByInvoiceIDs(ctx context.Context, invoiceIDs []string) (map[string][]domain.InvoiceLine, error) {
	byInvoice := make(map[string][]domain.InvoiceLine, len(invoiceIDs))
	if len(invoiceIDs) == 0 {
		return byInvoice, nil
	}

	query := `
		SELECT line_id, invoice_id, description, quantity, unit_price, total
		FROM invoice_lines
		WHERE invoice_id = ANY($1)
		ORDER BY line_id;
	`
	rows, err := r.pool.Query(ctx, query, invoiceIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query invoice lines: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var m models.InvoiceLine
		if err := rows.Scan(&m.LineID, &m.InvoiceID, &m.Description, &m.Quantity, &m.UnitPrice, &m.Total); err != nil {
			return nil, fmt.Errorf("failed to scan invoice line row: %w", err)
		}
		byInvoice[m.InvoiceID] = append(byInvoice[m.InvoiceID], domain.InvoiceLine{
			LineID:      m.LineID,
			InvoiceID:   m.InvoiceID,
			Description: m.Description,
			Quantity:    m.Quantity,
			UnitPrice:   m.UnitPrice,
			Total:       m.Total,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating invoice line rows: %w", err)
	}
	return byInvoice, nil
}

func (r *PgxInvoiceRepository) findPaymentsByInvoiceID(ctx context.Context, invoiceID string) ([]domain.Payment, error) {
	query := `
		SELECT payment_id, tenant_id, invoice_id, amount, payment_date, method, COALESCE(reference, ''), journal_entry_id, created_at
		FROM payments
		WHERE invoice_id = $1
		ORDER BY payment_date DESC, created_at DESC;
	`
	rows, err := r.pool.Query(ctx, query, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to query payments for invoice %s: %w", invoiceID, err)
	}
	defer rows.Close()

	payments := []domain.Payment{}
	for rows.Next() {
		var m models.Payment
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
		); err != nil {
			return nil, fmt.Errorf("failed to scan payment row: %w", err)
		}
		payments = append(payments, paymentToDomain(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating payment rows: %w", err)
	}
	return payments, nil
}

// FindLastInvoiceNumber returns the greatest invoice number sharing the day prefix.
func (r *PgxInvoiceRepository) FindLastInvoiceNumber(ctx context.Context, tenantID, prefix string) (*string, error) {
	query := `
		SELECT invoice_number
		FROM invoices
		WHERE tenant_id = $1 AND invoice_number LIKE $2 || '%'
		ORDER BY invoice_number DESC
		LIMIT 1;
	`
	var number string
	err := r.pool.QueryRow(ctx, query, tenantID, prefix).Scan(&number)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find last invoice number for prefix %s: %w", prefix, err)
	}
	return &number, nil
}

// ListInvoices returns a page of a tenant's invoices with their lines, plus
// the total match count.
func (r *PgxInvoiceRepository) ListInvoices(ctx context.Context, tenantID string, limit, offset int, status *domain.InvoiceStatus, startDate, endDate *time.Time) ([]domain.Invoice, int64, error) {
	where := `WHERE tenant_id = $1`
	args := []interface{}{tenantID}
	if status != nil {
		args = append(args, string(*status))
		where += fmt.Sprintf(` AND status = $%d`, len(args))
	}
	if startDate != nil {
		args = append(args, *startDate)
		where += fmt.Sprintf(` AND invoice_date >= $%d`, len(args))
	}
	if endDate != nil {
		args = append(args, *endDate)
		where += fmt.Sprintf(` AND invoice_date <= $%d`, len(args))
	}

	var total int64
	countQuery := `SELECT COUNT(*) FROM invoices ` + where + `;`
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count invoices: %w", err)
	}

	listArgs := append(args, limit, offset)
	listQuery := fmt.Sprintf(`
		SELECT %s
		FROM invoices
		%s
		ORDER BY invoice_date DESC, created_at DESC
		LIMIT $%d OFFSET $%d;
	`, invoiceColumns, where, len(args)+1, len(args)+2)

	rows, err := r.pool.Query(ctx, listQuery, listArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query invoices: %w", err)
	}
	defer rows.Close()

	invoices := []domain.Invoice{}
	invoiceIDs := []string{}
	for rows.Next() {
		m, err := scanInvoice(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan invoice row: %w", err)
		}
		invoices = append(invoices, invoiceToDomain(*m))
		invoiceIDs = append(invoiceIDs, m.InvoiceID)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating invoice rows: %w", err)
	}

	linesByInvoice, err := r.findLinesByInvoiceIDs(ctx, invoiceIDs)
	if err != nil {
		return nil, 0, err
	}
	for i := range invoices {
		invoices[i].Lines = linesByInvoice[invoices[i].InvoiceID]
		if invoices[i].Lines == nil {
			invoices[i].Lines = []domain.InvoiceLine{}
		}
	}
	return invoices, total, nil
}

// UpdateInvoiceStatus persists a caller-driven status change.
func (r *PgxInvoiceRepository) UpdateInvoiceStatus(ctx context.Context, invoiceID string, status domain.InvoiceStatus) error {
	tag, err := r.pool.Exec(ctx, `UPDATE invoices SET status = $2 WHERE invoice_id = $1;`, invoiceID, string(status))
	if err != nil {
		return fmt.Errorf("failed to update status for invoice %s: %w", invoiceID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

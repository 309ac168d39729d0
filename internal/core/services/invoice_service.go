package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tallybooks/tallybooks/internal/apperrors"
	"github.com/tallybooks/tallybooks/internal/core/domain"
	portsrepo "github.com/tallybooks/tallybooks/internal/core/ports/repositories"
	portssvc "github.com/tallybooks/tallybooks/internal/core/ports/services"
	"github.com/tallybooks/tallybooks/internal/dto"
	"github.com/tallybooks/tallybooks/internal/middleware"
	"github.com/tallybooks/tallybooks/internal/utils/pagelist"
	"github.com/tallybooks/tallybooks/internal/utils/sequence"
)

// Well-known chart codes the subledger posts against. Seeded by the default
// chart; tenants that pruned them cannot issue invoices.
const (
	arAccountCode      = "1103"
	revenueAccountCode = "4001"
)

// invoiceService mirrors invoices into the general ledger at issue time.
type invoiceService struct {
	invoiceRepo portsrepo.InvoiceRepository
	journalRepo portsrepo.JournalRepository
	accountRepo portsrepo.AccountRepository
}

// NewInvoiceService creates a new invoice service.
func NewInvoiceService(invoiceRepo portsrepo.InvoiceRepository, journalRepo portsrepo.JournalRepository, accountRepo portsrepo.AccountRepository) portssvc.InvoiceSvcFacade {
	return &invoiceService{invoiceRepo: invoiceRepo, journalRepo: journalRepo, accountRepo: accountRepo}
}

var _ portssvc.InvoiceSvcFacade = (*invoiceService)(nil)

// invoiceTotals computes per-line and invoice totals. Line totals keep the
// raw quantity*unitPrice product; rounding happens once, on the summed
// subtotal and total, so the invoice total always equals the rounded sum of
// raw products. Tax is carried but not yet computed.
func invoiceTotals(lines []dto.InvoiceLineRequest) (lineTotals []decimal.Decimal, subtotal, tax, total decimal.Decimal) {
	raw := decimal.Zero
	lineTotals = make([]decimal.Decimal, 0, len(lines))
	for _, line := range lines {
		lineTotal := line.UnitPrice.Mul(decimal.NewFromInt(line.Quantity))
		lineTotals = append(lineTotals, lineTotal)
		raw = raw.Add(lineTotal)
	}
	subtotal = raw.Round(2)
	tax = decimal.Zero
	total = subtotal.Add(tax).Round(2)
	return lineTotals, subtotal, tax, total
}

// Create issues an invoice in SENT status and, when its total is positive,
// posts the mirroring journal entry (debit accounts receivable, credit sales
// revenue) atomically with it. The invoice number is keyed by creation date,
// the journal entry number by the invoice date.
func (s *invoiceService) Create(ctx context.Context, tenantID string, req dto.CreateInvoiceRequest) (*domain.Invoice, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	invoiceDate, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid invoice date, expected YYYY-MM-DD", apperrors.ErrValidation)
	}
	dueDate, err := time.Parse("2006-01-02", req.DueDate)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid due date, expected YYYY-MM-DD", apperrors.ErrValidation)
	}

	for i, line := range req.Lines {
		if line.UnitPrice.IsNegative() {
			return nil, fmt.Errorf("%w: line %d: unit price cannot be negative", apperrors.ErrValidation, i+1)
		}
	}

	now := time.Now().UTC()
	invoicePrefix := sequence.DatePrefix("INV", now)
	lastNumber, err := s.invoiceRepo.FindLastInvoiceNumber(ctx, tenantID, invoicePrefix)
	if err != nil {
		logger.Error("Failed to look up last invoice number", slog.String("prefix", invoicePrefix), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to determine invoice number: %w", err)
	}
	invoiceNumber := sequence.Next(invoicePrefix, lastNumber)

	lineTotals, subtotal, tax, total := invoiceTotals(req.Lines)

	invoice := domain.Invoice{
		InvoiceID:     uuid.NewString(),
		TenantID:      tenantID,
		InvoiceNumber: invoiceNumber,
		CustomerName:  req.CustomerName,
		CustomerID:    req.CustomerID,
		InvoiceDate:   invoiceDate,
		DueDate:       dueDate,
		Subtotal:      subtotal,
		Tax:           tax,
		Total:         total,
		Status:        domain.InvoiceSent,
		PaidAmount:    decimal.Zero,
		CreatedAt:     now,
	}
	lines := make([]domain.InvoiceLine, 0, len(req.Lines))
	for i, line := range req.Lines {
		lines = append(lines, domain.InvoiceLine{
			LineID:      uuid.NewString(),
			InvoiceID:   invoice.InvoiceID,
			Description: line.Description,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
			Total:       lineTotals[i],
		})
	}

	var entry *domain.JournalEntry
	var entryLines []domain.JournalEntryLine
	if total.IsPositive() {
		entry, entryLines, err = s.buildInvoiceEntry(ctx, tenantID, invoiceNumber, invoiceDate, total, now)
		if err != nil {
			return nil, err
		}
		invoice.JournalEntryID = entry.EntryID
	}

	if err := s.invoiceRepo.CreateInvoice(ctx, invoice, lines, entry, entryLines); err != nil {
		logger.Error("Failed to create invoice", slog.String("invoice_number", invoiceNumber), slog.String("error", err.Error()))
		return nil, err
	}

	logger.Info("Invoice issued",
		slog.String("invoice_id", invoice.InvoiceID),
		slog.String("invoice_number", invoiceNumber),
		slog.String("total", total.String()))

	return s.invoiceRepo.FindInvoiceByID(ctx, tenantID, invoice.InvoiceID)
}

// buildInvoiceEntry synthesizes the AR-debit / revenue-credit journal entry
// that mirrors a positive-total invoice into the ledger.
func (s *invoiceService) buildInvoiceEntry(ctx context.Context, tenantID, invoiceNumber string, invoiceDate time.Time, total decimal.Decimal, now time.Time) (*domain.JournalEntry, []domain.JournalEntryLine, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	arAccount, err := s.requireAccount(ctx, tenantID, arAccountCode)
	if err != nil {
		return nil, nil, err
	}
	revenueAccount, err := s.requireAccount(ctx, tenantID, revenueAccountCode)
	if err != nil {
		return nil, nil, err
	}

	entryPrefix := sequence.DatePrefix("JE", invoiceDate)
	lastEntryNumber, err := s.journalRepo.FindLastEntryNumber(ctx, tenantID, entryPrefix)
	if err != nil {
		logger.Error("Failed to look up last entry number", slog.String("prefix", entryPrefix), slog.String("error", err.Error()))
		return nil, nil, fmt.Errorf("failed to determine entry number: %w", err)
	}

	description := fmt.Sprintf("Invoice #%s", invoiceNumber)
	entry := &domain.JournalEntry{
		EntryID:     uuid.NewString(),
		TenantID:    tenantID,
		EntryNumber: sequence.Next(entryPrefix, lastEntryNumber),
		EntryDate:   invoiceDate,
		Description: description,
		Reference:   invoiceNumber,
		CreatedAt:   now,
	}
	entryLines := []domain.JournalEntryLine{
		{
			LineID:      uuid.NewString(),
			EntryID:     entry.EntryID,
			AccountID:   arAccount.AccountID,
			Debit:       total,
			Credit:      decimal.Zero,
			Description: description,
		},
		{
			LineID:      uuid.NewString(),
			EntryID:     entry.EntryID,
			AccountID:   revenueAccount.AccountID,
			Debit:       decimal.Zero,
			Credit:      total,
			Description: description,
		},
	}
	return entry, entryLines, nil
}

// requireAccount resolves a well-known chart code the subledger depends on.
func (s *invoiceService) requireAccount(ctx context.Context, tenantID, code string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByCode(ctx, tenantID, code)
	if err != nil {
		return nil, fmt.Errorf("%w: chart of accounts is incomplete, account with code %s is required", apperrors.ErrValidation, code)
	}
	return account, nil
}

// FindAll returns a page of the tenant's invoices, newest invoice date first.
func (s *invoiceService) FindAll(ctx context.Context, tenantID string, params dto.ListInvoicesParams) (*dto.InvoiceListResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	page, limit := pagelist.Normalize(params.Page, params.Limit)
	startDate, endDate, err := parseDateWindow(params.StartDate, params.EndDate)
	if err != nil {
		return nil, err
	}

	var status *domain.InvoiceStatus
	if params.Status != "" {
		st := domain.InvoiceStatus(params.Status)
		if !st.IsValid() {
			return nil, fmt.Errorf("%w: unknown invoice status %q", apperrors.ErrValidation, params.Status)
		}
		status = &st
	}

	invoices, total, err := s.invoiceRepo.ListInvoices(ctx, tenantID, limit, pagelist.Offset(page, limit), status, startDate, endDate)
	if err != nil {
		logger.Error("Failed to list invoices", slog.String("tenant_id", tenantID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}

	return &dto.InvoiceListResponse{
		Data:  invoices,
		Total: total,
		Page:  page,
		Limit: limit,
		Pages: pagelist.Pages(total, limit),
	}, nil
}

// FindOne retrieves a tenant's invoice with lines, payments and the mirroring
// journal entry.
func (s *invoiceService) FindOne(ctx context.Context, tenantID, invoiceID string) (*domain.Invoice, error) {
	return s.invoiceRepo.FindInvoiceByID(ctx, tenantID, invoiceID)
}

// UpdateStatus applies a caller-driven status change. Any transition between
// valid statuses is allowed except cancelling an invoice that already
// received money.
func (s *invoiceService) UpdateStatus(ctx context.Context, tenantID, invoiceID string, status domain.InvoiceStatus) (*domain.Invoice, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !status.IsValid() {
		return nil, fmt.Errorf("%w: unknown invoice status %q", apperrors.ErrValidation, status)
	}

	invoice, err := s.invoiceRepo.FindInvoiceByID(ctx, tenantID, invoiceID)
	if err != nil {
		return nil, err
	}

	if status == domain.InvoiceCancelled && invoice.PaidAmount.IsPositive() {
		return nil, fmt.Errorf("%w: cannot cancel an invoice that has recorded payments", apperrors.ErrValidation)
	}

	if err := s.invoiceRepo.UpdateInvoiceStatus(ctx, invoiceID, status); err != nil {
		logger.Error("Failed to update invoice status", slog.String("invoice_id", invoiceID), slog.String("error", err.Error()))
		return nil, err
	}

	logger.Info("Invoice status updated",
		slog.String("invoice_id", invoiceID),
		slog.String("from", string(invoice.Status)),
		slog.String("to", string(status)))

	invoice.Status = status
	return invoice, nil
}

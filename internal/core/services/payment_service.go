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
	"github.com/tallybooks/tallybooks/internal/utils/sequence"
)

// Cash-side chart codes. CASH pays into 1101, every other method into 1102.
const (
	cashAccountCode = "1101"
	bankAccountCode = "1102"
)

// paymentService records settlements against invoices and mirrors each one
// into the ledger (cash-side debit, accounts receivable credit).
type paymentService struct {
	paymentRepo portsrepo.PaymentRepository
	invoiceRepo portsrepo.InvoiceRepository
	journalRepo portsrepo.JournalRepository
	accountRepo portsrepo.AccountRepository
}

// NewPaymentService creates a new payment service.
func NewPaymentService(paymentRepo portsrepo.PaymentRepository, invoiceRepo portsrepo.InvoiceRepository, journalRepo portsrepo.JournalRepository, accountRepo portsrepo.AccountRepository) portssvc.PaymentSvcFacade {
	return &paymentService{
		paymentRepo: paymentRepo,
		invoiceRepo: invoiceRepo,
		journalRepo: journalRepo,
		accountRepo: accountRepo,
	}
}

var _ portssvc.PaymentSvcFacade = (*paymentService)(nil)

// Create records a payment against a non-cancelled invoice. The amount must be
// positive and must not exceed the outstanding balance. The invoice's
// paidAmount and derived status are updated in the same transaction as the
// payment and its journal entry.
func (s *paymentService) Create(ctx context.Context, tenantID string, req dto.CreatePaymentRequest) (*domain.Payment, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	paymentDate, err := time.Parse("2006-01-02", req.PaymentDate)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid payment date, expected YYYY-MM-DD", apperrors.ErrValidation)
	}

	invoice, err := s.invoiceRepo.FindInvoiceByID(ctx, tenantID, req.InvoiceID)
	if err != nil {
		return nil, err
	}
	if invoice.Status == domain.InvoiceCancelled {
		return nil, fmt.Errorf("%w: cannot record a payment against a cancelled invoice", apperrors.ErrValidation)
	}
	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: payment amount must be positive", apperrors.ErrValidation)
	}

	outstanding := invoice.Total.Sub(invoice.PaidAmount)
	if req.Amount.GreaterThan(outstanding) {
		return nil, fmt.Errorf("%w: payment amount (%s) exceeds outstanding balance (%s)",
			apperrors.ErrValidation, req.Amount.String(), outstanding.String())
	}

	cashCode := bankAccountCode
	if req.Method == domain.MethodCash {
		cashCode = cashAccountCode
	}
	cashAccount, err := s.requireAccount(ctx, tenantID, cashCode)
	if err != nil {
		return nil, err
	}
	arAccount, err := s.requireAccount(ctx, tenantID, arAccountCode)
	if err != nil {
		return nil, err
	}

	entryPrefix := sequence.DatePrefix("JE", paymentDate)
	lastEntryNumber, err := s.journalRepo.FindLastEntryNumber(ctx, tenantID, entryPrefix)
	if err != nil {
		logger.Error("Failed to look up last entry number", slog.String("prefix", entryPrefix), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to determine entry number: %w", err)
	}

	now := time.Now().UTC()
	description := fmt.Sprintf("Payment for Invoice #%s", invoice.InvoiceNumber)
	entry := domain.JournalEntry{
		EntryID:     uuid.NewString(),
		TenantID:    tenantID,
		EntryNumber: sequence.Next(entryPrefix, lastEntryNumber),
		EntryDate:   paymentDate,
		Description: description,
		Reference:   invoice.InvoiceNumber,
		CreatedAt:   now,
	}
	entryLines := []domain.JournalEntryLine{
		{
			LineID:      uuid.NewString(),
			EntryID:     entry.EntryID,
			AccountID:   cashAccount.AccountID,
			Debit:       req.Amount,
			Credit:      decimal.Zero,
			Description: description,
		},
		{
			LineID:      uuid.NewString(),
			EntryID:     entry.EntryID,
			AccountID:   arAccount.AccountID,
			Debit:       decimal.Zero,
			Credit:      req.Amount,
			Description: description,
		},
	}

	payment := domain.Payment{
		PaymentID:      uuid.NewString(),
		TenantID:       tenantID,
		InvoiceID:      invoice.InvoiceID,
		Amount:         req.Amount,
		PaymentDate:    paymentDate,
		Method:         req.Method,
		Reference:      req.Reference,
		JournalEntryID: entry.EntryID,
		CreatedAt:      now,
	}

	newPaid := invoice.PaidAmount.Add(req.Amount)
	newStatus := deriveInvoiceStatus(invoice.Total, newPaid)

	if err := s.paymentRepo.CreatePayment(ctx, payment, entry, entryLines, newPaid, newStatus); err != nil {
		logger.Error("Failed to create payment", slog.String("invoice_id", invoice.InvoiceID), slog.String("error", err.Error()))
		return nil, err
	}

	logger.Info("Payment recorded",
		slog.String("payment_id", payment.PaymentID),
		slog.String("invoice_number", invoice.InvoiceNumber),
		slog.String("amount", req.Amount.String()),
		slog.String("invoice_status", string(newStatus)))

	return s.paymentRepo.FindPaymentByID(ctx, tenantID, payment.PaymentID)
}

// deriveInvoiceStatus maps the paid total onto the invoice lifecycle. Paid
// within a cent of the total counts as fully paid.
func deriveInvoiceStatus(total, paid decimal.Decimal) domain.InvoiceStatus {
	if paid.GreaterThanOrEqual(total.Sub(balanceTolerance)) {
		return domain.InvoicePaid
	}
	if paid.IsPositive() {
		return domain.InvoicePartiallyPaid
	}
	return domain.InvoiceSent
}

// requireAccount resolves a well-known chart code the subledger depends on.
func (s *paymentService) requireAccount(ctx context.Context, tenantID, code string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByCode(ctx, tenantID, code)
	if err != nil {
		return nil, fmt.Errorf("%w: chart of accounts is incomplete, account with code %s is required", apperrors.ErrValidation, code)
	}
	return account, nil
}

// FindAll returns a tenant's payments, optionally scoped to one invoice or
// method, newest payment date first.
func (s *paymentService) FindAll(ctx context.Context, tenantID string, params dto.ListPaymentsParams) ([]domain.Payment, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	var invoiceID, method *string
	if params.InvoiceID != "" {
		invoiceID = &params.InvoiceID
	}
	if params.Method != "" {
		method = &params.Method
	}

	payments, err := s.paymentRepo.ListPayments(ctx, tenantID, invoiceID, method)
	if err != nil {
		logger.Error("Failed to list payments", slog.String("tenant_id", tenantID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	return payments, nil
}

// FindOne retrieves a tenant's payment with its invoice and journal entry.
func (s *paymentService) FindOne(ctx context.Context, tenantID, paymentID string) (*domain.Payment, error) {
	return s.paymentRepo.FindPaymentByID(ctx, tenantID, paymentID)
}

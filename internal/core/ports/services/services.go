package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tallybooks/tallybooks/internal/core/domain"
	"github.com/tallybooks/tallybooks/internal/dto"
)

// AuthSvcFacade exposes company registration and login.
type AuthSvcFacade interface {
	RegisterCompany(ctx context.Context, req dto.RegisterCompanyRequest) (*dto.AuthResponse, error)
	Login(ctx context.Context, req dto.LoginRequest) (*dto.AuthResponse, error)
}

// AccountSvcFacade exposes the chart-of-accounts registry.
type AccountSvcFacade interface {
	ListTree(ctx context.Context, tenantID string, typeFilter *domain.AccountType) ([]domain.AccountTreeNode, error)
	GetByID(ctx context.Context, tenantID, accountID string) (*domain.Account, error)
	Create(ctx context.Context, tenantID string, req dto.CreateAccountRequest) (*domain.Account, error)
	Update(ctx context.Context, tenantID, accountID string, req dto.UpdateAccountRequest) (*domain.Account, error)
	Remove(ctx context.Context, tenantID, accountID string) error
	SeedDefaultChart(ctx context.Context, tenantID string) ([]domain.Account, error)
}

// JournalSvcFacade exposes the double-entry ledger engine.
type JournalSvcFacade interface {
	Create(ctx context.Context, tenantID string, req dto.CreateJournalEntryRequest) (*domain.JournalEntry, error)
	FindAll(ctx context.Context, tenantID string, params dto.ListJournalEntriesParams) (*dto.JournalEntryListResponse, error)
	FindOne(ctx context.Context, tenantID, entryID string) (*domain.JournalEntry, error)
	GetAccountBalance(ctx context.Context, tenantID, accountID string, startDate, endDate *time.Time) (decimal.Decimal, error)
}

// InvoiceSvcFacade exposes the invoice side of the subledger.
type InvoiceSvcFacade interface {
	Create(ctx context.Context, tenantID string, req dto.CreateInvoiceRequest) (*domain.Invoice, error)
	FindAll(ctx context.Context, tenantID string, params dto.ListInvoicesParams) (*dto.InvoiceListResponse, error)
	FindOne(ctx context.Context, tenantID, invoiceID string) (*domain.Invoice, error)
	UpdateStatus(ctx context.Context, tenantID, invoiceID string, status domain.InvoiceStatus) (*domain.Invoice, error)
}

// PaymentSvcFacade exposes the payment side of the subledger.
type PaymentSvcFacade interface {
	Create(ctx context.Context, tenantID string, req dto.CreatePaymentRequest) (*domain.Payment, error)
	FindAll(ctx context.Context, tenantID string, params dto.ListPaymentsParams) ([]domain.Payment, error)
	FindOne(ctx context.Context, tenantID, paymentID string) (*domain.Payment, error)
}

// ReportingSvcFacade exposes read-only reports over posted ledger data.
type ReportingSvcFacade interface {
	TrialBalance(ctx context.Context, tenantID string, startDate, endDate *time.Time) (*domain.TrialBalanceReport, error)
}

// ServiceContainer groups all service facades for injection into handlers.
type ServiceContainer struct {
	Auth      AuthSvcFacade
	Account   AccountSvcFacade
	Journal   JournalSvcFacade
	Invoice   InvoiceSvcFacade
	Payment   PaymentSvcFacade
	Reporting ReportingSvcFacade
}

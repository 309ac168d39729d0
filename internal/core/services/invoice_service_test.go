package services_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/tallybooks/tallybooks/internal/apperrors"
	"github.com/tallybooks/tallybooks/internal/core/domain"
	portssvc "github.com/tallybooks/tallybooks/internal/core/ports/services"
	"github.com/tallybooks/tallybooks/internal/core/services"
	"github.com/tallybooks/tallybooks/internal/dto"
)

// MockInvoiceRepository is a mock type for the InvoiceRepository interface
type MockInvoiceRepository struct {
	mock.Mock
}

func (m *MockInvoiceRepository) CreateInvoice(ctx context.Context, invoice domain.Invoice, lines []domain.InvoiceLine, entry *domain.JournalEntry, entryLines []domain.JournalEntryLine) error {
	args := m.Called(ctx, invoice, lines, entry, entryLines)
	return args.Error(0)
}

func (m *MockInvoiceRepository) FindInvoiceByID(ctx context.Context, tenantID, invoiceID string) (*domain.Invoice, error) {
	args := m.Called(ctx, tenantID, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindLastInvoiceNumber(ctx context.Context, tenantID, prefix string) (*string, error) {
	args := m.Called(ctx, tenantID, prefix)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*string), args.Error(1)
}

func (m *MockInvoiceRepository) ListInvoices(ctx context.Context, tenantID string, limit, offset int, status *domain.InvoiceStatus, startDate, endDate *time.Time) ([]domain.Invoice, int64, error) {
	args := m.Called(ctx, tenantID, limit, offset, status, startDate, endDate)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]domain.Invoice), args.Get(1).(int64), args.Error(2)
}

func (m *MockInvoiceRepository) UpdateInvoiceStatus(ctx context.Context, invoiceID string, status domain.InvoiceStatus) error {
	args := m.Called(ctx, invoiceID, status)
	return args.Error(0)
}

// --- Test Suite Setup ---

type InvoiceServiceTestSuite struct {
	suite.Suite
	mockInvoiceRepo *MockInvoiceRepository
	mockJournalRepo *MockJournalRepository
	mockAccountRepo *MockAccountRepository
	service         portssvc.InvoiceSvcFacade
	tenantID        string
	arAccount       *domain.Account
	revenueAccount  *domain.Account
}

func (suite *InvoiceServiceTestSuite) SetupTest() {
	suite.mockInvoiceRepo = new(MockInvoiceRepository)
	suite.mockJournalRepo = new(MockJournalRepository)
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.service = services.NewInvoiceService(suite.mockInvoiceRepo, suite.mockJournalRepo, suite.mockAccountRepo)
	suite.tenantID = uuid.NewString()
	suite.arAccount = &domain.Account{AccountID: uuid.NewString(), TenantID: suite.tenantID, Code: "1103", AccountType: domain.Asset}
	suite.revenueAccount = &domain.Account{AccountID: uuid.NewString(), TenantID: suite.tenantID, Code: "4001", AccountType: domain.Revenue}
}

func (suite *InvoiceServiceTestSuite) expectWellKnownAccounts() {
	suite.mockAccountRepo.On("FindAccountByCode", mock.Anything, suite.tenantID, "1103").Return(suite.arAccount, nil).Once()
	suite.mockAccountRepo.On("FindAccountByCode", mock.Anything, suite.tenantID, "4001").Return(suite.revenueAccount, nil).Once()
}

// --- Test Cases ---

func (suite *InvoiceServiceTestSuite) TestCreate_PostsMirroringEntry() {
	ctx := context.Background()
	req := dto.CreateInvoiceRequest{
		CustomerName: "Acme Corp",
		Date:         "2024-03-15",
		DueDate:      "2024-04-14",
		Lines: []dto.InvoiceLineRequest{
			{Description: "Consulting", Quantity: 3, UnitPrice: decimal.NewFromFloat(199.99)},
			{Description: "Support plan", Quantity: 1, UnitPrice: decimal.NewFromFloat(50.00)},
		},
	}

	suite.mockInvoiceRepo.On("FindLastInvoiceNumber", ctx, suite.tenantID, mock.AnythingOfType("string")).Return(nil, nil).Once()
	suite.expectWellKnownAccounts()
	suite.mockJournalRepo.On("FindLastEntryNumber", ctx, suite.tenantID, "JE-20240315-").Return(nil, nil).Once()

	var savedInvoice domain.Invoice
	var savedLines []domain.InvoiceLine
	var savedEntry *domain.JournalEntry
	var savedEntryLines []domain.JournalEntryLine
	suite.mockInvoiceRepo.On("CreateInvoice", ctx, mock.AnythingOfType("domain.Invoice"), mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			savedInvoice = args.Get(1).(domain.Invoice)
			savedLines = args.Get(2).([]domain.InvoiceLine)
			savedEntry = args.Get(3).(*domain.JournalEntry)
			savedEntryLines = args.Get(4).([]domain.JournalEntryLine)
		}).Return(nil).Once()
	suite.mockInvoiceRepo.On("FindInvoiceByID", ctx, suite.tenantID, mock.AnythingOfType("string")).
		Return(&domain.Invoice{}, nil).Once()

	invoice, err := suite.service.Create(ctx, suite.tenantID, req)

	suite.Require().NoError(err)
	suite.Require().NotNil(invoice)

	suite.Equal("649.97", savedInvoice.Subtotal.StringFixed(2))
	suite.Equal("0.00", savedInvoice.Tax.StringFixed(2))
	suite.Equal("649.97", savedInvoice.Total.StringFixed(2))
	suite.Equal(domain.InvoiceSent, savedInvoice.Status)
	suite.True(savedInvoice.PaidAmount.IsZero())
	suite.Require().Len(savedLines, 2)
	suite.Equal("599.97", savedLines[0].Total.StringFixed(2))

	suite.Require().NotNil(savedEntry)
	suite.Equal(savedEntry.EntryID, savedInvoice.JournalEntryID)
	suite.Equal("JE-20240315-001", savedEntry.EntryNumber)
	suite.Equal(fmt.Sprintf("Invoice #%s", savedInvoice.InvoiceNumber), savedEntry.Description)
	suite.Equal(savedInvoice.InvoiceNumber, savedEntry.Reference)
	suite.Equal(time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), savedEntry.EntryDate)
	suite.Require().Len(savedEntryLines, 2)
	suite.Equal(suite.arAccount.AccountID, savedEntryLines[0].AccountID)
	suite.Equal("649.97", savedEntryLines[0].Debit.StringFixed(2))
	suite.Equal(suite.revenueAccount.AccountID, savedEntryLines[1].AccountID)
	suite.Equal("649.97", savedEntryLines[1].Credit.StringFixed(2))
	suite.mockInvoiceRepo.AssertExpectations(suite.T())
}

func (suite *InvoiceServiceTestSuite) TestCreate_RoundsSummedSubtotalNotEachLine() {
	ctx := context.Background()
	req := dto.CreateInvoiceRequest{
		CustomerName: "Acme Corp",
		Date:         "2024-03-15",
		DueDate:      "2024-04-14",
		Lines: []dto.InvoiceLineRequest{
			{Description: "Widget A", Quantity: 1, UnitPrice: decimal.NewFromFloat(1.005)},
			{Description: "Widget B", Quantity: 1, UnitPrice: decimal.NewFromFloat(1.005)},
		},
	}

	suite.mockInvoiceRepo.On("FindLastInvoiceNumber", ctx, suite.tenantID, mock.AnythingOfType("string")).Return(nil, nil).Once()
	suite.expectWellKnownAccounts()
	suite.mockJournalRepo.On("FindLastEntryNumber", ctx, suite.tenantID, "JE-20240315-").Return(nil, nil).Once()

	var savedInvoice domain.Invoice
	var savedLines []domain.InvoiceLine
	var savedEntryLines []domain.JournalEntryLine
	suite.mockInvoiceRepo.On("CreateInvoice", ctx, mock.AnythingOfType("domain.Invoice"), mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			savedInvoice = args.Get(1).(domain.Invoice)
			savedLines = args.Get(2).([]domain.InvoiceLine)
			savedEntryLines = args.Get(4).([]domain.JournalEntryLine)
		}).Return(nil).Once()
	suite.mockInvoiceRepo.On("FindInvoiceByID", ctx, suite.tenantID, mock.AnythingOfType("string")).
		Return(&domain.Invoice{}, nil).Once()

	_, err := suite.service.Create(ctx, suite.tenantID, req)

	suite.Require().NoError(err)
	// Raw products sum to 2.01 after one rounding; rounding each line first
	// would inflate the total to 2.02.
	suite.Equal("2.01", savedInvoice.Subtotal.String())
	suite.Equal("2.01", savedInvoice.Total.String())
	suite.Require().Len(savedLines, 2)
	suite.Equal("1.005", savedLines[0].Total.String())
	suite.Equal("1.005", savedLines[1].Total.String())
	suite.Require().Len(savedEntryLines, 2)
	suite.Equal("2.01", savedEntryLines[0].Debit.String())
	suite.Equal("2.01", savedEntryLines[1].Credit.String())
}

func (suite *InvoiceServiceTestSuite) TestCreate_ZeroTotalSkipsLedger() {
	ctx := context.Background()
	req := dto.CreateInvoiceRequest{
		CustomerName: "Acme Corp",
		Date:         "2024-03-15",
		DueDate:      "2024-04-14",
		Lines: []dto.InvoiceLineRequest{
			{Description: "Goodwill credit", Quantity: 1, UnitPrice: decimal.Zero},
		},
	}

	suite.mockInvoiceRepo.On("FindLastInvoiceNumber", ctx, suite.tenantID, mock.AnythingOfType("string")).Return(nil, nil).Once()
	suite.mockInvoiceRepo.On("CreateInvoice", ctx, mock.AnythingOfType("domain.Invoice"), mock.Anything, (*domain.JournalEntry)(nil), []domain.JournalEntryLine(nil)).
		Return(nil).Once()
	suite.mockInvoiceRepo.On("FindInvoiceByID", ctx, suite.tenantID, mock.AnythingOfType("string")).
		Return(&domain.Invoice{}, nil).Once()

	_, err := suite.service.Create(ctx, suite.tenantID, req)

	suite.Require().NoError(err)
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "FindAccountByCode")
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "FindLastEntryNumber")
	suite.mockInvoiceRepo.AssertExpectations(suite.T())
}

func (suite *InvoiceServiceTestSuite) TestCreate_RejectsNegativeUnitPrice() {
	ctx := context.Background()
	req := dto.CreateInvoiceRequest{
		CustomerName: "Acme Corp",
		Date:         "2024-03-15",
		DueDate:      "2024-04-14",
		Lines: []dto.InvoiceLineRequest{
			{Description: "Refund line", Quantity: 1, UnitPrice: decimal.NewFromFloat(-10)},
		},
	}

	invoice, err := suite.service.Create(ctx, suite.tenantID, req)

	suite.Require().Error(err)
	suite.Nil(invoice)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockInvoiceRepo.AssertNotCalled(suite.T(), "CreateInvoice")
}

func (suite *InvoiceServiceTestSuite) TestCreate_MissingWellKnownAccount() {
	ctx := context.Background()
	req := dto.CreateInvoiceRequest{
		CustomerName: "Acme Corp",
		Date:         "2024-03-15",
		DueDate:      "2024-04-14",
		Lines: []dto.InvoiceLineRequest{
			{Description: "Consulting", Quantity: 1, UnitPrice: decimal.NewFromInt(100)},
		},
	}

	suite.mockInvoiceRepo.On("FindLastInvoiceNumber", ctx, suite.tenantID, mock.AnythingOfType("string")).Return(nil, nil).Once()
	suite.mockAccountRepo.On("FindAccountByCode", ctx, suite.tenantID, "1103").Return(nil, apperrors.ErrNotFound).Once()

	invoice, err := suite.service.Create(ctx, suite.tenantID, req)

	suite.Require().Error(err)
	suite.Nil(invoice)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Contains(err.Error(), "1103")
	suite.mockInvoiceRepo.AssertNotCalled(suite.T(), "CreateInvoice")
}

func (suite *InvoiceServiceTestSuite) TestFindAll_RejectsUnknownStatus() {
	ctx := context.Background()

	resp, err := suite.service.FindAll(ctx, suite.tenantID, dto.ListInvoicesParams{Status: "SHIPPED"})

	suite.Require().Error(err)
	suite.Nil(resp)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockInvoiceRepo.AssertNotCalled(suite.T(), "ListInvoices")
}

func (suite *InvoiceServiceTestSuite) TestFindAll_FiltersByStatus() {
	ctx := context.Background()
	paid := domain.InvoicePaid

	suite.mockInvoiceRepo.On("ListInvoices", ctx, suite.tenantID, 10, 0, &paid, (*time.Time)(nil), (*time.Time)(nil)).
		Return([]domain.Invoice{{InvoiceNumber: "INV-20240315-001"}}, int64(1), nil).Once()

	resp, err := suite.service.FindAll(ctx, suite.tenantID, dto.ListInvoicesParams{Status: "PAID"})

	suite.Require().NoError(err)
	suite.Require().Len(resp.Data, 1)
	suite.Equal(int64(1), resp.Total)
	suite.Equal(1, resp.Pages)
	suite.mockInvoiceRepo.AssertExpectations(suite.T())
}

func (suite *InvoiceServiceTestSuite) TestUpdateStatus_CancelWithPaymentsBlocked() {
	ctx := context.Background()
	invoiceID := uuid.NewString()
	invoice := &domain.Invoice{
		InvoiceID:  invoiceID,
		TenantID:   suite.tenantID,
		Status:     domain.InvoicePartiallyPaid,
		PaidAmount: decimal.NewFromInt(60),
	}

	suite.mockInvoiceRepo.On("FindInvoiceByID", ctx, suite.tenantID, invoiceID).Return(invoice, nil).Once()

	got, err := suite.service.UpdateStatus(ctx, suite.tenantID, invoiceID, domain.InvoiceCancelled)

	suite.Require().Error(err)
	suite.Nil(got)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockInvoiceRepo.AssertNotCalled(suite.T(), "UpdateInvoiceStatus")
}

func (suite *InvoiceServiceTestSuite) TestUpdateStatus_CancelUnpaidInvoice() {
	ctx := context.Background()
	invoiceID := uuid.NewString()
	invoice := &domain.Invoice{
		InvoiceID:  invoiceID,
		TenantID:   suite.tenantID,
		Status:     domain.InvoiceSent,
		PaidAmount: decimal.Zero,
	}

	suite.mockInvoiceRepo.On("FindInvoiceByID", ctx, suite.tenantID, invoiceID).Return(invoice, nil).Once()
	suite.mockInvoiceRepo.On("UpdateInvoiceStatus", ctx, invoiceID, domain.InvoiceCancelled).Return(nil).Once()

	got, err := suite.service.UpdateStatus(ctx, suite.tenantID, invoiceID, domain.InvoiceCancelled)

	suite.Require().NoError(err)
	suite.Equal(domain.InvoiceCancelled, got.Status)
	suite.mockInvoiceRepo.AssertExpectations(suite.T())
}

func (suite *InvoiceServiceTestSuite) TestUpdateStatus_UnknownStatus() {
	ctx := context.Background()

	got, err := suite.service.UpdateStatus(ctx, suite.tenantID, uuid.NewString(), domain.InvoiceStatus("VOID"))

	suite.Require().Error(err)
	suite.Nil(got)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockInvoiceRepo.AssertNotCalled(suite.T(), "FindInvoiceByID")
}

// --- Run Test Suite ---

func TestInvoiceService(t *testing.T) {
	suite.Run(t, new(InvoiceServiceTestSuite))
}

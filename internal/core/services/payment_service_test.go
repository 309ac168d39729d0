package services_test

import (
	"context"
	"testing"

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

// MockPaymentRepository is a mock type for the PaymentRepository interface
type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) CreatePayment(ctx context.Context, payment domain.Payment, entry domain.JournalEntry, entryLines []domain.JournalEntryLine, newPaidAmount decimal.Decimal, newStatus domain.InvoiceStatus) error {
	args := m.Called(ctx, payment, entry, entryLines, newPaidAmount, newStatus)
	return args.Error(0)
}

func (m *MockPaymentRepository) FindPaymentByID(ctx context.Context, tenantID, paymentID string) (*domain.Payment, error) {
	args := m.Called(ctx, tenantID, paymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}

func (m *MockPaymentRepository) ListPayments(ctx context.Context, tenantID string, invoiceID, method *string) ([]domain.Payment, error) {
	args := m.Called(ctx, tenantID, invoiceID, method)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Payment), args.Error(1)
}

// --- Test Suite Setup ---

type PaymentServiceTestSuite struct {
	suite.Suite
	mockPaymentRepo *MockPaymentRepository
	mockInvoiceRepo *MockInvoiceRepository
	mockJournalRepo *MockJournalRepository
	mockAccountRepo *MockAccountRepository
	service         portssvc.PaymentSvcFacade
	tenantID        string
	invoice         *domain.Invoice
	cashAccount     *domain.Account
	bankAccount     *domain.Account
	arAccount       *domain.Account
}

func (suite *PaymentServiceTestSuite) SetupTest() {
	suite.mockPaymentRepo = new(MockPaymentRepository)
	suite.mockInvoiceRepo = new(MockInvoiceRepository)
	suite.mockJournalRepo = new(MockJournalRepository)
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.service = services.NewPaymentService(suite.mockPaymentRepo, suite.mockInvoiceRepo, suite.mockJournalRepo, suite.mockAccountRepo)
	suite.tenantID = uuid.NewString()
	suite.invoice = &domain.Invoice{
		InvoiceID:     uuid.NewString(),
		TenantID:      suite.tenantID,
		InvoiceNumber: "INV-20240310-001",
		Total:         decimal.NewFromInt(100),
		PaidAmount:    decimal.Zero,
		Status:        domain.InvoiceSent,
	}
	suite.cashAccount = &domain.Account{AccountID: uuid.NewString(), TenantID: suite.tenantID, Code: "1101", AccountType: domain.Asset}
	suite.bankAccount = &domain.Account{AccountID: uuid.NewString(), TenantID: suite.tenantID, Code: "1102", AccountType: domain.Asset}
	suite.arAccount = &domain.Account{AccountID: uuid.NewString(), TenantID: suite.tenantID, Code: "1103", AccountType: domain.Asset}
}

func (suite *PaymentServiceTestSuite) expectLedgerWiring(cashCode string, cashAccount *domain.Account) {
	suite.mockAccountRepo.On("FindAccountByCode", mock.Anything, suite.tenantID, cashCode).Return(cashAccount, nil).Once()
	suite.mockAccountRepo.On("FindAccountByCode", mock.Anything, suite.tenantID, "1103").Return(suite.arAccount, nil).Once()
	suite.mockJournalRepo.On("FindLastEntryNumber", mock.Anything, suite.tenantID, "JE-20240315-").Return(nil, nil).Once()
}

func (suite *PaymentServiceTestSuite) request(amount decimal.Decimal, method domain.PaymentMethod) dto.CreatePaymentRequest {
	return dto.CreatePaymentRequest{
		InvoiceID:   suite.invoice.InvoiceID,
		Amount:      amount,
		PaymentDate: "2024-03-15",
		Method:      method,
	}
}

// --- Test Cases ---

func (suite *PaymentServiceTestSuite) TestCreate_PartialPayment() {
	ctx := context.Background()

	suite.mockInvoiceRepo.On("FindInvoiceByID", ctx, suite.tenantID, suite.invoice.InvoiceID).Return(suite.invoice, nil).Once()
	suite.expectLedgerWiring("1102", suite.bankAccount)

	var newPaid decimal.Decimal
	var newStatus domain.InvoiceStatus
	var savedEntry domain.JournalEntry
	var savedEntryLines []domain.JournalEntryLine
	suite.mockPaymentRepo.On("CreatePayment", ctx, mock.AnythingOfType("domain.Payment"), mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			savedEntry = args.Get(2).(domain.JournalEntry)
			savedEntryLines = args.Get(3).([]domain.JournalEntryLine)
			newPaid = args.Get(4).(decimal.Decimal)
			newStatus = args.Get(5).(domain.InvoiceStatus)
		}).Return(nil).Once()
	suite.mockPaymentRepo.On("FindPaymentByID", ctx, suite.tenantID, mock.AnythingOfType("string")).
		Return(&domain.Payment{}, nil).Once()

	payment, err := suite.service.Create(ctx, suite.tenantID, suite.request(decimal.NewFromInt(60), domain.MethodBank))

	suite.Require().NoError(err)
	suite.Require().NotNil(payment)
	suite.Equal("60", newPaid.String())
	suite.Equal(domain.InvoicePartiallyPaid, newStatus)
	suite.Equal("Payment for Invoice #INV-20240310-001", savedEntry.Description)
	suite.Equal("INV-20240310-001", savedEntry.Reference)
	suite.Require().Len(savedEntryLines, 2)
	suite.Equal(suite.bankAccount.AccountID, savedEntryLines[0].AccountID)
	suite.Equal("60", savedEntryLines[0].Debit.String())
	suite.Equal(suite.arAccount.AccountID, savedEntryLines[1].AccountID)
	suite.Equal("60", savedEntryLines[1].Credit.String())
	suite.mockPaymentRepo.AssertExpectations(suite.T())
}

func (suite *PaymentServiceTestSuite) TestCreate_CompletingPaymentMarksPaid() {
	ctx := context.Background()
	suite.invoice.PaidAmount = decimal.NewFromInt(60)
	suite.invoice.Status = domain.InvoicePartiallyPaid

	suite.mockInvoiceRepo.On("FindInvoiceByID", ctx, suite.tenantID, suite.invoice.InvoiceID).Return(suite.invoice, nil).Once()
	suite.expectLedgerWiring("1102", suite.bankAccount)

	var newStatus domain.InvoiceStatus
	suite.mockPaymentRepo.On("CreatePayment", ctx, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			newStatus = args.Get(5).(domain.InvoiceStatus)
		}).Return(nil).Once()
	suite.mockPaymentRepo.On("FindPaymentByID", ctx, suite.tenantID, mock.AnythingOfType("string")).
		Return(&domain.Payment{}, nil).Once()

	_, err := suite.service.Create(ctx, suite.tenantID, suite.request(decimal.NewFromInt(40), domain.MethodBank))

	suite.Require().NoError(err)
	suite.Equal(domain.InvoicePaid, newStatus)
}

func (suite *PaymentServiceTestSuite) TestCreate_WithinACentCountsAsPaid() {
	ctx := context.Background()

	suite.mockInvoiceRepo.On("FindInvoiceByID", ctx, suite.tenantID, suite.invoice.InvoiceID).Return(suite.invoice, nil).Once()
	suite.expectLedgerWiring("1102", suite.bankAccount)

	var newStatus domain.InvoiceStatus
	suite.mockPaymentRepo.On("CreatePayment", ctx, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			newStatus = args.Get(5).(domain.InvoiceStatus)
		}).Return(nil).Once()
	suite.mockPaymentRepo.On("FindPaymentByID", ctx, suite.tenantID, mock.AnythingOfType("string")).
		Return(&domain.Payment{}, nil).Once()

	_, err := suite.service.Create(ctx, suite.tenantID, suite.request(decimal.NewFromFloat(99.99), domain.MethodBank))

	suite.Require().NoError(err)
	suite.Equal(domain.InvoicePaid, newStatus)
}

func (suite *PaymentServiceTestSuite) TestCreate_CashMethodUsesCashAccount() {
	ctx := context.Background()

	suite.mockInvoiceRepo.On("FindInvoiceByID", ctx, suite.tenantID, suite.invoice.InvoiceID).Return(suite.invoice, nil).Once()
	suite.expectLedgerWiring("1101", suite.cashAccount)

	var savedEntryLines []domain.JournalEntryLine
	suite.mockPaymentRepo.On("CreatePayment", ctx, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			savedEntryLines = args.Get(3).([]domain.JournalEntryLine)
		}).Return(nil).Once()
	suite.mockPaymentRepo.On("FindPaymentByID", ctx, suite.tenantID, mock.AnythingOfType("string")).
		Return(&domain.Payment{}, nil).Once()

	_, err := suite.service.Create(ctx, suite.tenantID, suite.request(decimal.NewFromInt(100), domain.MethodCash))

	suite.Require().NoError(err)
	suite.Require().Len(savedEntryLines, 2)
	suite.Equal(suite.cashAccount.AccountID, savedEntryLines[0].AccountID)
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "FindAccountByCode", mock.Anything, suite.tenantID, "1102")
}

func (suite *PaymentServiceTestSuite) TestCreate_OverpaymentRejected() {
	ctx := context.Background()
	suite.invoice.PaidAmount = decimal.NewFromInt(80)

	suite.mockInvoiceRepo.On("FindInvoiceByID", ctx, suite.tenantID, suite.invoice.InvoiceID).Return(suite.invoice, nil).Once()

	payment, err := suite.service.Create(ctx, suite.tenantID, suite.request(decimal.NewFromInt(50), domain.MethodBank))

	suite.Require().Error(err)
	suite.Nil(payment)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Contains(err.Error(), "50")
	suite.Contains(err.Error(), "20")
	suite.mockPaymentRepo.AssertNotCalled(suite.T(), "CreatePayment")
}

func (suite *PaymentServiceTestSuite) TestCreate_CancelledInvoiceRejected() {
	ctx := context.Background()
	suite.invoice.Status = domain.InvoiceCancelled

	suite.mockInvoiceRepo.On("FindInvoiceByID", ctx, suite.tenantID, suite.invoice.InvoiceID).Return(suite.invoice, nil).Once()

	payment, err := suite.service.Create(ctx, suite.tenantID, suite.request(decimal.NewFromInt(10), domain.MethodBank))

	suite.Require().Error(err)
	suite.Nil(payment)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockPaymentRepo.AssertNotCalled(suite.T(), "CreatePayment")
}

func (suite *PaymentServiceTestSuite) TestCreate_NonPositiveAmountRejected() {
	ctx := context.Background()

	suite.mockInvoiceRepo.On("FindInvoiceByID", ctx, suite.tenantID, suite.invoice.InvoiceID).Return(suite.invoice, nil).Once()

	payment, err := suite.service.Create(ctx, suite.tenantID, suite.request(decimal.Zero, domain.MethodBank))

	suite.Require().Error(err)
	suite.Nil(payment)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *PaymentServiceTestSuite) TestCreate_UnknownInvoicePropagatesNotFound() {
	ctx := context.Background()
	missingID := uuid.NewString()

	suite.mockInvoiceRepo.On("FindInvoiceByID", ctx, suite.tenantID, missingID).Return(nil, apperrors.ErrNotFound).Once()

	req := suite.request(decimal.NewFromInt(10), domain.MethodBank)
	req.InvoiceID = missingID
	payment, err := suite.service.Create(ctx, suite.tenantID, req)

	suite.Require().Error(err)
	suite.Nil(payment)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *PaymentServiceTestSuite) TestFindAll_PassesFilters() {
	ctx := context.Background()
	invoiceID := suite.invoice.InvoiceID
	method := "CASH"

	suite.mockPaymentRepo.On("ListPayments", ctx, suite.tenantID, &invoiceID, &method).
		Return([]domain.Payment{{PaymentID: uuid.NewString()}}, nil).Once()

	payments, err := suite.service.FindAll(ctx, suite.tenantID, dto.ListPaymentsParams{InvoiceID: invoiceID, Method: method})

	suite.Require().NoError(err)
	suite.Len(payments, 1)
	suite.mockPaymentRepo.AssertExpectations(suite.T())
}

// --- Run Test Suite ---

func TestPaymentService(t *testing.T) {
	suite.Run(t, new(PaymentServiceTestSuite))
}

package services_test

import (
	"context"
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

// MockJournalRepository is a mock type for the JournalRepository interface
type MockJournalRepository struct {
	mock.Mock
}

func (m *MockJournalRepository) SaveEntry(ctx context.Context, entry domain.JournalEntry, lines []domain.JournalEntryLine) error {
	args := m.Called(ctx, entry, lines)
	return args.Error(0)
}

func (m *MockJournalRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalRepository) FindLastEntryNumber(ctx context.Context, tenantID, prefix string) (*string, error) {
	args := m.Called(ctx, tenantID, prefix)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*string), args.Error(1)
}

func (m *MockJournalRepository) ListEntries(ctx context.Context, tenantID string, limit, offset int, startDate, endDate *time.Time) ([]domain.JournalEntry, int64, error) {
	args := m.Called(ctx, tenantID, limit, offset, startDate, endDate)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]domain.JournalEntry), args.Get(1).(int64), args.Error(2)
}

func (m *MockJournalRepository) SumAccountActivity(ctx context.Context, accountID, tenantID string, startDate, endDate *time.Time) (decimal.Decimal, decimal.Decimal, error) {
	args := m.Called(ctx, accountID, tenantID, startDate, endDate)
	return args.Get(0).(decimal.Decimal), args.Get(1).(decimal.Decimal), args.Error(2)
}

// --- Test Suite Setup ---

type JournalServiceTestSuite struct {
	suite.Suite
	mockJournalRepo *MockJournalRepository
	mockAccountRepo *MockAccountRepository
	service         portssvc.JournalSvcFacade
	tenantID        string
}

func (suite *JournalServiceTestSuite) SetupTest() {
	suite.mockJournalRepo = new(MockJournalRepository)
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.service = services.NewJournalService(suite.mockJournalRepo, suite.mockAccountRepo)
	suite.tenantID = uuid.NewString()
}

func (suite *JournalServiceTestSuite) twoAccounts() (string, string, map[string]domain.Account) {
	cashID := uuid.NewString()
	revenueID := uuid.NewString()
	accounts := map[string]domain.Account{
		cashID:    {AccountID: cashID, TenantID: suite.tenantID, Code: "1101", AccountType: domain.Asset},
		revenueID: {AccountID: revenueID, TenantID: suite.tenantID, Code: "4001", AccountType: domain.Revenue},
	}
	return cashID, revenueID, accounts
}

// --- Test Cases ---

func (suite *JournalServiceTestSuite) TestCreate_Success() {
	ctx := context.Background()
	cashID, revenueID, accounts := suite.twoAccounts()

	req := dto.CreateJournalEntryRequest{
		Date:        "2024-03-15",
		Description: "Cash sale",
		Lines: []dto.JournalEntryLineRequest{
			{AccountID: cashID, Debit: decimal.NewFromInt(100)},
			{AccountID: revenueID, Credit: decimal.NewFromInt(100)},
		},
	}

	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, []string{cashID, revenueID}).Return(accounts, nil).Once()
	suite.mockJournalRepo.On("FindLastEntryNumber", ctx, suite.tenantID, "JE-20240315-").Return(nil, nil).Once()

	var savedEntry domain.JournalEntry
	var savedLines []domain.JournalEntryLine
	suite.mockJournalRepo.On("SaveEntry", ctx, mock.AnythingOfType("domain.JournalEntry"), mock.AnythingOfType("[]domain.JournalEntryLine")).
		Run(func(args mock.Arguments) {
			savedEntry = args.Get(1).(domain.JournalEntry)
			savedLines = args.Get(2).([]domain.JournalEntryLine)
		}).Return(nil).Once()
	suite.mockJournalRepo.On("FindEntryByID", ctx, mock.AnythingOfType("string")).
		Return(&domain.JournalEntry{EntryNumber: "JE-20240315-001"}, nil).Once()

	entry, err := suite.service.Create(ctx, suite.tenantID, req)

	suite.Require().NoError(err)
	suite.Require().NotNil(entry)
	suite.Equal("JE-20240315-001", savedEntry.EntryNumber)
	suite.Equal(suite.tenantID, savedEntry.TenantID)
	suite.Equal(time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), savedEntry.EntryDate)
	suite.Require().Len(savedLines, 2)
	suite.Equal(savedEntry.EntryID, savedLines[0].EntryID)
	// lines are persisted in request order
	suite.Equal(cashID, savedLines[0].AccountID)
	suite.Equal(revenueID, savedLines[1].AccountID)
	suite.mockJournalRepo.AssertExpectations(suite.T())
}

func (suite *JournalServiceTestSuite) TestCreate_IncrementsFromLastNumber() {
	ctx := context.Background()
	cashID, revenueID, accounts := suite.twoAccounts()

	req := dto.CreateJournalEntryRequest{
		Date: "2024-03-15",
		Lines: []dto.JournalEntryLineRequest{
			{AccountID: cashID, Debit: decimal.NewFromInt(50)},
			{AccountID: revenueID, Credit: decimal.NewFromInt(50)},
		},
	}

	last := "JE-20240315-007"
	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, mock.Anything).Return(accounts, nil).Once()
	suite.mockJournalRepo.On("FindLastEntryNumber", ctx, suite.tenantID, "JE-20240315-").Return(&last, nil).Once()

	var savedEntry domain.JournalEntry
	suite.mockJournalRepo.On("SaveEntry", ctx, mock.AnythingOfType("domain.JournalEntry"), mock.Anything).
		Run(func(args mock.Arguments) {
			savedEntry = args.Get(1).(domain.JournalEntry)
		}).Return(nil).Once()
	suite.mockJournalRepo.On("FindEntryByID", ctx, mock.AnythingOfType("string")).
		Return(&domain.JournalEntry{}, nil).Once()

	_, err := suite.service.Create(ctx, suite.tenantID, req)

	suite.Require().NoError(err)
	suite.Equal("JE-20240315-008", savedEntry.EntryNumber)
}

func (suite *JournalServiceTestSuite) TestCreate_RejectsSingleLine() {
	ctx := context.Background()
	req := dto.CreateJournalEntryRequest{
		Date: "2024-03-15",
		Lines: []dto.JournalEntryLineRequest{
			{AccountID: uuid.NewString(), Debit: decimal.NewFromInt(100)},
		},
	}

	entry, err := suite.service.Create(ctx, suite.tenantID, req)

	suite.Require().Error(err)
	suite.Nil(entry)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "SaveEntry")
}

func (suite *JournalServiceTestSuite) TestCreate_RejectsBothSidesOnOneLine() {
	ctx := context.Background()
	req := dto.CreateJournalEntryRequest{
		Date: "2024-03-15",
		Lines: []dto.JournalEntryLineRequest{
			{AccountID: uuid.NewString(), Debit: decimal.NewFromInt(100), Credit: decimal.NewFromInt(100)},
			{AccountID: uuid.NewString(), Credit: decimal.NewFromInt(100)},
		},
	}

	entry, err := suite.service.Create(ctx, suite.tenantID, req)

	suite.Require().Error(err)
	suite.Nil(entry)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *JournalServiceTestSuite) TestCreate_RejectsNegativeAmounts() {
	ctx := context.Background()
	req := dto.CreateJournalEntryRequest{
		Date: "2024-03-15",
		Lines: []dto.JournalEntryLineRequest{
			{AccountID: uuid.NewString(), Debit: decimal.NewFromInt(-50)},
			{AccountID: uuid.NewString(), Credit: decimal.NewFromInt(-50)},
		},
	}

	entry, err := suite.service.Create(ctx, suite.tenantID, req)

	suite.Require().Error(err)
	suite.Nil(entry)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Contains(err.Error(), "negative")
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "SaveEntry")
}

func (suite *JournalServiceTestSuite) TestCreate_RejectsEmptyLine() {
	ctx := context.Background()
	req := dto.CreateJournalEntryRequest{
		Date: "2024-03-15",
		Lines: []dto.JournalEntryLineRequest{
			{AccountID: uuid.NewString(), Debit: decimal.NewFromInt(100)},
			{AccountID: uuid.NewString()},
		},
	}

	entry, err := suite.service.Create(ctx, suite.tenantID, req)

	suite.Require().Error(err)
	suite.Nil(entry)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *JournalServiceTestSuite) TestCreate_RejectsUnbalancedEntry() {
	ctx := context.Background()
	req := dto.CreateJournalEntryRequest{
		Date: "2024-03-15",
		Lines: []dto.JournalEntryLineRequest{
			{AccountID: uuid.NewString(), Debit: decimal.NewFromFloat(100.00)},
			{AccountID: uuid.NewString(), Credit: decimal.NewFromFloat(99.50)},
		},
	}

	entry, err := suite.service.Create(ctx, suite.tenantID, req)

	suite.Require().Error(err)
	suite.Nil(entry)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *JournalServiceTestSuite) TestCreate_AcceptsSubCentImbalance() {
	ctx := context.Background()
	cashID, revenueID, accounts := suite.twoAccounts()

	req := dto.CreateJournalEntryRequest{
		Date: "2024-03-15",
		Lines: []dto.JournalEntryLineRequest{
			{AccountID: cashID, Debit: decimal.NewFromFloat(100.00)},
			{AccountID: revenueID, Credit: decimal.NewFromFloat(99.995)},
		},
	}

	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, mock.Anything).Return(accounts, nil).Once()
	suite.mockJournalRepo.On("FindLastEntryNumber", ctx, suite.tenantID, "JE-20240315-").Return(nil, nil).Once()
	suite.mockJournalRepo.On("SaveEntry", ctx, mock.Anything, mock.Anything).Return(nil).Once()
	suite.mockJournalRepo.On("FindEntryByID", ctx, mock.AnythingOfType("string")).Return(&domain.JournalEntry{}, nil).Once()

	_, err := suite.service.Create(ctx, suite.tenantID, req)

	suite.Require().NoError(err)
}

func (suite *JournalServiceTestSuite) TestCreate_RejectsUnknownAccounts() {
	ctx := context.Background()
	knownID := uuid.NewString()
	unknownID := uuid.NewString()
	accounts := map[string]domain.Account{
		knownID: {AccountID: knownID, TenantID: suite.tenantID},
	}

	req := dto.CreateJournalEntryRequest{
		Date: "2024-03-15",
		Lines: []dto.JournalEntryLineRequest{
			{AccountID: knownID, Debit: decimal.NewFromInt(100)},
			{AccountID: unknownID, Credit: decimal.NewFromInt(100)},
		},
	}

	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, mock.Anything).Return(accounts, nil).Once()

	entry, err := suite.service.Create(ctx, suite.tenantID, req)

	suite.Require().Error(err)
	suite.Nil(entry)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Contains(err.Error(), unknownID)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "SaveEntry")
}

func (suite *JournalServiceTestSuite) TestCreate_RejectsOtherTenantAccounts() {
	ctx := context.Background()
	cashID, revenueID, _ := suite.twoAccounts()
	accounts := map[string]domain.Account{
		cashID:    {AccountID: cashID, TenantID: suite.tenantID},
		revenueID: {AccountID: revenueID, TenantID: uuid.NewString()}, // other tenant
	}

	req := dto.CreateJournalEntryRequest{
		Date: "2024-03-15",
		Lines: []dto.JournalEntryLineRequest{
			{AccountID: cashID, Debit: decimal.NewFromInt(100)},
			{AccountID: revenueID, Credit: decimal.NewFromInt(100)},
		},
	}

	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, mock.Anything).Return(accounts, nil).Once()

	entry, err := suite.service.Create(ctx, suite.tenantID, req)

	suite.Require().Error(err)
	suite.Nil(entry)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *JournalServiceTestSuite) TestFindOne_OtherTenantHidden() {
	ctx := context.Background()
	entryID := uuid.NewString()
	entry := &domain.JournalEntry{EntryID: entryID, TenantID: uuid.NewString()}

	suite.mockJournalRepo.On("FindEntryByID", ctx, entryID).Return(entry, nil).Once()

	got, err := suite.service.FindOne(ctx, suite.tenantID, entryID)

	suite.Require().Error(err)
	suite.Nil(got)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *JournalServiceTestSuite) TestFindAll_NormalizesPaging() {
	ctx := context.Background()

	suite.mockJournalRepo.On("ListEntries", ctx, suite.tenantID, 10, 0, (*time.Time)(nil), (*time.Time)(nil)).
		Return([]domain.JournalEntry{}, int64(0), nil).Once()

	resp, err := suite.service.FindAll(ctx, suite.tenantID, dto.ListJournalEntriesParams{Page: 0, Limit: 0})

	suite.Require().NoError(err)
	suite.Equal(1, resp.Page)
	suite.Equal(10, resp.Limit)
	suite.Equal(0, resp.Pages)
	suite.mockJournalRepo.AssertExpectations(suite.T())
}

func (suite *JournalServiceTestSuite) TestGetAccountBalance_RoundsDebitMinusCredit() {
	ctx := context.Background()
	accountID := uuid.NewString()
	account := &domain.Account{AccountID: accountID, TenantID: suite.tenantID}

	suite.mockAccountRepo.On("FindAccountByID", ctx, accountID).Return(account, nil).Once()
	suite.mockJournalRepo.On("SumAccountActivity", ctx, accountID, suite.tenantID, (*time.Time)(nil), (*time.Time)(nil)).
		Return(decimal.NewFromFloat(150.555), decimal.NewFromFloat(50.00), nil).Once()

	balance, err := suite.service.GetAccountBalance(ctx, suite.tenantID, accountID, nil, nil)

	suite.Require().NoError(err)
	suite.Equal("100.56", balance.StringFixed(2))
}

func (suite *JournalServiceTestSuite) TestGetAccountBalance_OtherTenantAccountHidden() {
	ctx := context.Background()
	accountID := uuid.NewString()
	account := &domain.Account{AccountID: accountID, TenantID: uuid.NewString()}

	suite.mockAccountRepo.On("FindAccountByID", ctx, accountID).Return(account, nil).Once()

	_, err := suite.service.GetAccountBalance(ctx, suite.tenantID, accountID, nil, nil)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "SumAccountActivity")
}

// --- Run Test Suite ---

func TestJournalService(t *testing.T) {
	suite.Run(t, new(JournalServiceTestSuite))
}

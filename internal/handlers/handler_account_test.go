package handlers

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/tallybooks/tallybooks/internal/core/domain"
	"github.com/tallybooks/tallybooks/internal/dto"
	"github.com/tallybooks/tallybooks/internal/middleware"
	"github.com/tallybooks/tallybooks/internal/utils"
)

const testJWTSecret = "handler-test-secret"

// MockAccountService is a mock type for the AccountSvcFacade interface
type MockAccountService struct {
	mock.Mock
}

func (m *MockAccountService) ListTree(ctx context.Context, tenantID string, typeFilter *domain.AccountType) ([]domain.AccountTreeNode, error) {
	args := m.Called(ctx, tenantID, typeFilter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AccountTreeNode), args.Error(1)
}

func (m *MockAccountService) GetByID(ctx context.Context, tenantID, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, tenantID, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) Create(ctx context.Context, tenantID string, req dto.CreateAccountRequest) (*domain.Account, error) {
	args := m.Called(ctx, tenantID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) Update(ctx context.Context, tenantID, accountID string, req dto.UpdateAccountRequest) (*domain.Account, error) {
	args := m.Called(ctx, tenantID, accountID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) Remove(ctx context.Context, tenantID, accountID string) error {
	args := m.Called(ctx, tenantID, accountID)
	return args.Error(0)
}

func (m *MockAccountService) SeedDefaultChart(ctx context.Context, tenantID string) ([]domain.Account, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

// --- Test Suite Setup ---

type AccountHandlerTestSuite struct {
	suite.Suite
	mockService *MockAccountService
	router      *gin.Engine
	tenantID    string
}

func (suite *AccountHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.mockService = new(MockAccountService)
	suite.tenantID = uuid.NewString()

	quiet := slog.New(slog.NewTextHandler(io.Discard, nil))
	suite.router = gin.New()
	suite.router.Use(middleware.StructuredLoggingMiddleware(quiet))
	v1 := suite.router.Group("/api/v1", middleware.AuthMiddleware(testJWTSecret))
	registerAccountRoutes(v1, suite.mockService)
}

func (suite *AccountHandlerTestSuite) doRequest(method, path string, role domain.UserRole) *httptest.ResponseRecorder {
	token, err := utils.GenerateJWT(uuid.NewString(), suite.tenantID, string(role), testJWTSecret, time.Hour, "tallybooks")
	suite.Require().NoError(err)

	req := httptest.NewRequest(method, path, nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

// --- Test Cases ---

func (suite *AccountHandlerTestSuite) TestDeleteAccount_MemberForbidden() {
	w := suite.doRequest(http.MethodDelete, "/api/v1/accounts/"+uuid.NewString(), domain.RoleMember)

	suite.Equal(http.StatusForbidden, w.Code)
	suite.mockService.AssertNotCalled(suite.T(), "Remove")
}

func (suite *AccountHandlerTestSuite) TestDeleteAccount_AdminAllowed() {
	accountID := uuid.NewString()
	suite.mockService.On("Remove", mock.Anything, suite.tenantID, accountID).Return(nil).Once()

	w := suite.doRequest(http.MethodDelete, "/api/v1/accounts/"+accountID, domain.RoleAdmin)

	suite.Equal(http.StatusNoContent, w.Code)
	suite.mockService.AssertExpectations(suite.T())
}

func (suite *AccountHandlerTestSuite) TestSeedDefaultChart_MemberForbidden() {
	w := suite.doRequest(http.MethodPost, "/api/v1/accounts/seed", domain.RoleMember)

	suite.Equal(http.StatusForbidden, w.Code)
	suite.mockService.AssertNotCalled(suite.T(), "SeedDefaultChart")
}

func (suite *AccountHandlerTestSuite) TestSeedDefaultChart_AdminAllowed() {
	suite.mockService.On("SeedDefaultChart", mock.Anything, suite.tenantID).
		Return([]domain.Account{{AccountID: uuid.NewString(), TenantID: suite.tenantID, Code: "1000"}}, nil).Once()

	w := suite.doRequest(http.MethodPost, "/api/v1/accounts/seed", domain.RoleAdmin)

	suite.Equal(http.StatusCreated, w.Code)
	suite.mockService.AssertExpectations(suite.T())
}

func (suite *AccountHandlerTestSuite) TestMissingToken_Unauthorized() {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/accounts", nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.mockService.AssertNotCalled(suite.T(), "ListTree")
}

// --- Run Test Suite ---

func TestAccountHandler(t *testing.T) {
	suite.Run(t, new(AccountHandlerTestSuite))
}

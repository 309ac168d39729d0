package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tallybooks/tallybooks/internal/apperrors"
	"github.com/tallybooks/tallybooks/internal/core/domain"
	portsrepo "github.com/tallybooks/tallybooks/internal/core/ports/repositories"
	portssvc "github.com/tallybooks/tallybooks/internal/core/ports/services"
	"github.com/tallybooks/tallybooks/internal/dto"
	"github.com/tallybooks/tallybooks/internal/middleware"
	"github.com/tallybooks/tallybooks/internal/utils"
)

// authService handles company registration and login.
type authService struct {
	tenantRepo portsrepo.TenantRepository
	userRepo   portsrepo.UserRepository
	jwtSecret  string
	jwtExpiry  time.Duration
	jwtIssuer  string
}

// NewAuthService creates a new auth service.
func NewAuthService(tenantRepo portsrepo.TenantRepository, userRepo portsrepo.UserRepository, jwtSecret string, jwtExpiry time.Duration, jwtIssuer string) portssvc.AuthSvcFacade {
	return &authService{
		tenantRepo: tenantRepo,
		userRepo:   userRepo,
		jwtSecret:  jwtSecret,
		jwtExpiry:  jwtExpiry,
		jwtIssuer:  jwtIssuer,
	}
}

var _ portssvc.AuthSvcFacade = (*authService)(nil)

var nonSlugChars = regexp.MustCompile(`[^\w\s-]`)
var slugSeparators = regexp.MustCompile(`[\s_-]+`)

// slugify turns a company name into a URL-safe tenant slug.
func slugify(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = nonSlugChars.ReplaceAllString(s, "")
	s = slugSeparators.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// RegisterCompany creates a tenant, its admin user and the default chart of
// accounts in one transaction, then returns a signed access token.
func (s *authService) RegisterCompany(ctx context.Context, req dto.RegisterCompanyRequest) (*dto.AuthResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	slug := slugify(req.CompanyName)
	if slug == "" {
		return nil, fmt.Errorf("%w: company name must contain at least one letter or digit", apperrors.ErrValidation)
	}

	if existing, err := s.tenantRepo.FindTenantBySlug(ctx, slug); err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		logger.Error("Failed to check tenant slug", slog.String("slug", slug), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to check company name: %w", err)
	} else if existing != nil {
		return nil, fmt.Errorf("%w: a company with this name already exists", apperrors.ErrDuplicate)
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if existing, err := s.userRepo.FindUserByEmail(ctx, email); err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		logger.Error("Failed to check user email", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to check email: %w", err)
	} else if existing != nil {
		return nil, fmt.Errorf("%w: a user with this email already exists", apperrors.ErrDuplicate)
	}

	passwordHash, err := utils.HashPassword(req.Password)
	if err != nil {
		logger.Error("Failed to hash password", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now().UTC()
	tenant := domain.Tenant{
		TenantID:  uuid.NewString(),
		Name:      strings.TrimSpace(req.CompanyName),
		Slug:      slug,
		CreatedAt: now,
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = email
	}
	admin := domain.User{
		UserID:       uuid.NewString(),
		TenantID:     tenant.TenantID,
		Email:        email,
		PasswordHash: passwordHash,
		Name:         name,
		Role:         domain.RoleAdmin,
		CreatedAt:    now,
	}
	chart := DefaultChartAccounts(tenant.TenantID, now)

	if err := s.tenantRepo.CreateTenantWithAdmin(ctx, tenant, admin, chart); err != nil {
		logger.Error("Failed to register company", slog.String("slug", slug), slog.String("error", err.Error()))
		return nil, err
	}

	logger.Info("Company registered",
		slog.String("tenant_id", tenant.TenantID),
		slog.String("slug", slug),
		slog.Int("chart_accounts", len(chart)))

	return s.buildAuthResponse(&admin, &tenant)
}

// Login verifies credentials and returns a signed access token. Unknown email
// and wrong password are indistinguishable to the caller.
func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.AuthResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	email := strings.ToLower(strings.TrimSpace(req.Email))
	user, err := s.userRepo.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: invalid email or password", apperrors.ErrUnauthorized)
		}
		logger.Error("Failed to look up user", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if !utils.CheckPasswordHash(req.Password, user.PasswordHash) {
		return nil, fmt.Errorf("%w: invalid email or password", apperrors.ErrUnauthorized)
	}

	tenant, err := s.tenantRepo.FindTenantByID(ctx, user.TenantID)
	if err != nil {
		logger.Error("Failed to load tenant for user", slog.String("user_id", user.UserID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to load tenant: %w", err)
	}

	logger.Info("User logged in", slog.String("user_id", user.UserID), slog.String("tenant_id", tenant.TenantID))
	return s.buildAuthResponse(user, tenant)
}

func (s *authService) buildAuthResponse(user *domain.User, tenant *domain.Tenant) (*dto.AuthResponse, error) {
	token, err := utils.GenerateJWT(user.UserID, tenant.TenantID, string(user.Role), s.jwtSecret, s.jwtExpiry, s.jwtIssuer)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}
	return &dto.AuthResponse{
		AccessToken: token,
		User:        dto.ToUserResponse(user),
		Tenant:      dto.ToTenantResponse(tenant),
	}, nil
}

package repositories

import (
	"context"

	"github.com/tallybooks/tallybooks/internal/core/domain"
)

// TenantRepository defines persistence operations for tenants and registration.
type TenantRepository interface {
	// CreateTenantWithAdmin inserts the tenant, its admin user and the
	// default chart accounts (parents before children) in one transaction.
	// Returns apperrors.ErrDuplicate on slug or email collisions.
	CreateTenantWithAdmin(ctx context.Context, tenant domain.Tenant, admin domain.User, chart []domain.Account) error

	// FindTenantByID retrieves a tenant by id.
	FindTenantByID(ctx context.Context, tenantID string) (*domain.Tenant, error)

	// FindTenantBySlug retrieves a tenant by its unique slug.
	FindTenantBySlug(ctx context.Context, slug string) (*domain.Tenant, error)
}

// UserRepository defines persistence operations for users.
type UserRepository interface {
	// FindUserByEmail retrieves a user by email across all tenants
	// (emails are globally unique).
	FindUserByEmail(ctx context.Context, email string) (*domain.User, error)

	// FindUserByID retrieves a user by id.
	FindUserByID(ctx context.Context, userID string) (*domain.User, error)
}

package repositories

import (
	"context"

	"github.com/tallybooks/tallybooks/internal/core/domain"
)

// AccountRepository defines persistence operations for chart-of-accounts rows.
type AccountRepository interface {
	// SaveAccount inserts a single account. Returns apperrors.ErrDuplicate
	// when (tenant, code) is already taken.
	SaveAccount(ctx context.Context, account domain.Account) error

	// SaveAccounts inserts the given accounts in order within one transaction.
	// Used by the default-chart seed; parents precede children in the slice.
	SaveAccounts(ctx context.Context, accounts []domain.Account) error

	// FindAccountByID retrieves an account regardless of tenant; callers
	// enforce tenant scoping.
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// FindAccountByCode retrieves a tenant's account by its code.
	FindAccountByCode(ctx context.Context, tenantID, code string) (*domain.Account, error)

	// FindAccountsByIDs retrieves multiple accounts keyed by id. Missing ids
	// are simply absent from the map.
	FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error)

	// ListAccountsByTenant returns all of a tenant's accounts ordered by code
	// ascending, optionally filtered by type.
	ListAccountsByTenant(ctx context.Context, tenantID string, accountType *domain.AccountType) ([]domain.Account, error)

	// UpdateAccount persists name/isActive changes.
	UpdateAccount(ctx context.Context, account domain.Account) error

	// CountAccountsByTenant returns how many accounts a tenant has.
	CountAccountsByTenant(ctx context.Context, tenantID string) (int64, error)

	// HasChildAccounts reports whether any account references this one as parent.
	HasChildAccounts(ctx context.Context, accountID string) (bool, error)

	// HasJournalLines reports whether any journal entry line references this account.
	HasJournalLines(ctx context.Context, accountID string) (bool, error)
}

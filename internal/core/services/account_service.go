package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tallybooks/tallybooks/internal/apperrors"
	"github.com/tallybooks/tallybooks/internal/core/domain"
	portsrepo "github.com/tallybooks/tallybooks/internal/core/ports/repositories"
	portssvc "github.com/tallybooks/tallybooks/internal/core/ports/services"
	"github.com/tallybooks/tallybooks/internal/dto"
	"github.com/tallybooks/tallybooks/internal/middleware"
)

// accountService owns the hierarchical chart of accounts per tenant.
type accountService struct {
	accountRepo portsrepo.AccountRepository
}

// NewAccountService creates a new account service.
func NewAccountService(accountRepo portsrepo.AccountRepository) portssvc.AccountSvcFacade {
	return &accountService{accountRepo: accountRepo}
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

// ListTree returns the tenant's accounts assembled into a forest. The tree is
// built top-down from the flat, code-sorted list, so siblings keep code order
// and the result is independent of input ordering.
func (s *accountService) ListTree(ctx context.Context, tenantID string, typeFilter *domain.AccountType) ([]domain.AccountTreeNode, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	accounts, err := s.accountRepo.ListAccountsByTenant(ctx, tenantID, typeFilter)
	if err != nil {
		logger.Error("Failed to list accounts", slog.String("tenant_id", tenantID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}

	return buildAccountTree(accounts, ""), nil
}

// buildAccountTree assembles children whose parent id matches parentID,
// recursing over the flat account slice.
func buildAccountTree(accounts []domain.Account, parentID string) []domain.AccountTreeNode {
	nodes := []domain.AccountTreeNode{}
	for _, acc := range accounts {
		if acc.ParentAccountID != parentID {
			continue
		}
		nodes = append(nodes, domain.AccountTreeNode{
			Account:  acc,
			Children: buildAccountTree(accounts, acc.AccountID),
		})
	}
	return nodes
}

// GetByID retrieves a single account within the tenant's scope.
func (s *accountService) GetByID(ctx context.Context, tenantID, accountID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	// Obscure existence from other tenants
	if account.TenantID != tenantID {
		return nil, apperrors.ErrNotFound
	}

	return account, nil
}

// Create adds an account to the tenant's chart. The code must be unused within
// the tenant and, when a parent is given, the parent must exist in the same
// tenant and share the requested type.
func (s *accountService) Create(ctx context.Context, tenantID string, req dto.CreateAccountRequest) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	code := strings.TrimSpace(req.Code)
	existing, err := s.accountRepo.FindAccountByCode(ctx, tenantID, code)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		logger.Error("Failed to check account code uniqueness", slog.String("code", code), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to check account code: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: account with code '%s' already exists", apperrors.ErrDuplicate, code)
	}

	parentID := ""
	if req.ParentAccountID != nil && *req.ParentAccountID != "" {
		parent, err := s.accountRepo.FindAccountByID(ctx, *req.ParentAccountID)
		if err != nil || parent.TenantID != tenantID {
			return nil, fmt.Errorf("%w: parent account not found or does not belong to your organization", apperrors.ErrValidation)
		}
		if parent.AccountType != req.AccountType {
			return nil, fmt.Errorf("%w: child account type must match parent account type", apperrors.ErrValidation)
		}
		parentID = parent.AccountID
	}

	now := time.Now().UTC()
	account := domain.Account{
		AccountID:       uuid.NewString(),
		TenantID:        tenantID,
		Code:            code,
		Name:            strings.TrimSpace(req.Name),
		AccountType:     req.AccountType,
		ParentAccountID: parentID,
		IsActive:        true,
		AuditFields: domain.AuditFields{
			CreatedAt: now,
			UpdatedAt: now,
		},
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		logger.Error("Failed to save account", slog.String("code", code), slog.String("error", err.Error()))
		return nil, err
	}

	logger.Info("Account created", slog.String("account_id", account.AccountID), slog.String("code", code))
	return &account, nil
}

// Update changes an account's name and/or active flag. Code, type and parent
// are immutable after creation.
func (s *accountService) Update(ctx context.Context, tenantID, accountID string, req dto.UpdateAccountRequest) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	account, err := s.GetByID(ctx, tenantID, accountID)
	if err != nil {
		return nil, err
	}

	updated := false
	if req.Name != nil {
		account.Name = strings.TrimSpace(*req.Name)
		updated = true
	}
	if req.IsActive != nil {
		account.IsActive = *req.IsActive
		updated = true
	}
	if !updated {
		return account, nil
	}

	account.UpdatedAt = time.Now().UTC()
	if err := s.accountRepo.UpdateAccount(ctx, *account); err != nil {
		logger.Error("Failed to update account", slog.String("account_id", accountID), slog.String("error", err.Error()))
		return nil, err
	}

	return account, nil
}

// Remove soft-deletes an account. Accounts with child accounts or journal
// entry references are never hard-deleted; the row stays and only the active
// flag flips.
func (s *accountService) Remove(ctx context.Context, tenantID, accountID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	account, err := s.GetByID(ctx, tenantID, accountID)
	if err != nil {
		return err
	}

	hasChildren, err := s.accountRepo.HasChildAccounts(ctx, accountID)
	if err != nil {
		logger.Error("Failed to check child accounts", slog.String("account_id", accountID), slog.String("error", err.Error()))
		return fmt.Errorf("failed to check child accounts: %w", err)
	}
	if hasChildren {
		return fmt.Errorf("%w: cannot delete account that has child accounts, remove or reassign children first", apperrors.ErrValidation)
	}

	hasLines, err := s.accountRepo.HasJournalLines(ctx, accountID)
	if err != nil {
		logger.Error("Failed to check journal references", slog.String("account_id", accountID), slog.String("error", err.Error()))
		return fmt.Errorf("failed to check journal references: %w", err)
	}
	if hasLines {
		return fmt.Errorf("%w: cannot delete account that has been used in journal entries, deactivate it instead", apperrors.ErrValidation)
	}

	account.IsActive = false
	account.UpdatedAt = time.Now().UTC()
	if err := s.accountRepo.UpdateAccount(ctx, *account); err != nil {
		logger.Error("Failed to deactivate account", slog.String("account_id", accountID), slog.String("error", err.Error()))
		return err
	}

	logger.Info("Account deactivated", slog.String("account_id", accountID))
	return nil
}

// SeedDefaultChart inserts the fixed default chart for a tenant that has no
// accounts yet.
func (s *accountService) SeedDefaultChart(ctx context.Context, tenantID string) ([]domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	count, err := s.accountRepo.CountAccountsByTenant(ctx, tenantID)
	if err != nil {
		logger.Error("Failed to count tenant accounts", slog.String("tenant_id", tenantID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to count accounts: %w", err)
	}
	if count > 0 {
		return nil, fmt.Errorf("%w: chart of accounts already exists, delete existing accounts first to reseed", apperrors.ErrDuplicate)
	}

	accounts := DefaultChartAccounts(tenantID, time.Now().UTC())
	if err := s.accountRepo.SaveAccounts(ctx, accounts); err != nil {
		logger.Error("Failed to seed default chart", slog.String("tenant_id", tenantID), slog.String("error", err.Error()))
		return nil, err
	}

	logger.Info("Default chart seeded", slog.String("tenant_id", tenantID), slog.Int("accounts", len(accounts)))
	return accounts, nil
}

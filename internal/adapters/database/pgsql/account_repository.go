package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tallybooks/tallybooks/internal/apperrors"
	"github.com/tallybooks/tallybooks/internal/core/domain"
	portsrepo "github.com/tallybooks/tallybooks/internal/core/ports/repositories"
	"github.com/tallybooks/tallybooks/internal/models"
)

// uniqueViolation is the Postgres error code for unique constraint violations.
const uniqueViolation = "23505"

type PgxAccountRepository struct {
	pool *pgxpool.Pool
}

// NewPgxAccountRepository creates a new repository for chart-of-accounts data.
func NewPgxAccountRepository(pool *pgxpool.Pool) portsrepo.AccountRepository {
	return &PgxAccountRepository{pool: pool}
}

var _ portsrepo.AccountRepository = (*PgxAccountRepository)(nil)

const accountColumns = `account_id, tenant_id, code, name, account_type, parent_account_id, is_active, created_at, updated_at`

const insertAccountQuery = `
	INSERT INTO accounts (account_id, tenant_id, code, name, account_type, parent_account_id, is_active, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
`

func accountToModel(a domain.Account) models.Account {
	return models.Account{
		AccountID:       a.AccountID,
		TenantID:        a.TenantID,
		Code:            a.Code,
		Name:            a.Name,
		AccountType:     models.AccountType(a.AccountType),
		ParentAccountID: a.ParentAccountID,
		IsActive:        a.IsActive,
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
	}
}

func accountToDomain(m models.Account) domain.Account {
	return domain.Account{
		AccountID:       m.AccountID,
		TenantID:        m.TenantID,
		Code:            m.Code,
		Name:            m.Name,
		AccountType:     domain.AccountType(m.AccountType),
		ParentAccountID: m.ParentAccountID,
		IsActive:        m.IsActive,
		AuditFields: domain.AuditFields{
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
	}
}

// nullable maps the empty string to a NULL column value.
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func scanAccount(row pgx.Row) (*models.Account, error) {
	var acc models.Account
	var parentID *string
	err := row.Scan(
		&acc.AccountID,
		&acc.TenantID,
		&acc.Code,
		&acc.Name,
		&acc.AccountType,
		&parentID,
		&acc.IsActive,
		&acc.CreatedAt,
		&acc.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if parentID != nil {
		acc.ParentAccountID = *parentID
	}
	return &acc, nil
}

// SaveAccount inserts a single account.
func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	m := accountToModel(account)
	_, err := r.pool.Exec(ctx, insertAccountQuery,
		m.AccountID,
		m.TenantID,
		m.Code,
		m.Name,
		m.AccountType,
		nullable(m.ParentAccountID),
		m.IsActive,
		m.CreatedAt,
		m.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return fmt.Errorf("%w: account code %s already exists", apperrors.ErrDuplicate, m.Code)
		}
		return fmt.Errorf("failed to save account %s: %w", m.AccountID, err)
	}
	return nil
}

// SaveAccounts inserts the accounts in slice order within one transaction.
// Callers order parents before children so the FK is satisfied row by row.
func (r *PgxAccountRepository) SaveAccounts(ctx context.Context, accounts []domain.Account) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	batch := &pgx.Batch{}
	for _, account := range accounts {
		m := accountToModel(account)
		batch.Queue(insertAccountQuery,
			m.AccountID,
			m.TenantID,
			m.Code,
			m.Name,
			m.AccountType,
			nullable(m.ParentAccountID),
			m.IsActive,
			m.CreatedAt,
			m.UpdatedAt,
		)
	}

	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return fmt.Errorf("%w: account code collision while seeding chart", apperrors.ErrDuplicate)
		}
		return fmt.Errorf("failed to execute account batch: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit account batch: %w", err)
	}
	return nil
}

// FindAccountByID retrieves an account by its ID.
func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = $1;`
	m, err := scanAccount(r.pool.QueryRow(ctx, query, accountID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find account by ID %s: %w", accountID, err)
	}
	acc := accountToDomain(*m)
	return &acc, nil
}

// FindAccountByCode retrieves a tenant's account by its chart code.
func (r *PgxAccountRepository) FindAccountByCode(ctx context.Context, tenantID, code string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE tenant_id = $1 AND code = $2;`
	m, err := scanAccount(r.pool.QueryRow(ctx, query, tenantID, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find account by code %s: %w", code, err)
	}
	acc := accountToDomain(*m)
	return &acc, nil
}

// FindAccountsByIDs retrieves multiple accounts keyed by id.
func (r *PgxAccountRepository) FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	accounts := make(map[string]domain.Account, len(accountIDs))
	if len(accountIDs) == 0 {
		return accounts, nil
	}

	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = ANY($1);`
	rows, err := r.pool.Query(ctx, query, accountIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts by IDs: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		m, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account row: %w", err)
		}
		accounts[m.AccountID] = accountToDomain(*m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating account rows: %w", err)
	}
	return accounts, nil
}

// ListAccountsByTenant returns all of a tenant's accounts ordered by code.
func (r *PgxAccountRepository) ListAccountsByTenant(ctx context.Context, tenantID string, accountType *domain.AccountType) ([]domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE tenant_id = $1`
	args := []interface{}{tenantID}
	if accountType != nil {
		query += ` AND account_type = $2`
		args = append(args, string(*accountType))
	}
	query += ` ORDER BY code ASC;`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts for tenant %s: %w", tenantID, err)
	}
	defer rows.Close()

	accounts := []domain.Account{}
	for rows.Next() {
		m, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account row: %w", err)
		}
		accounts = append(accounts, accountToDomain(*m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating account rows: %w", err)
	}
	return accounts, nil
}

// UpdateAccount persists name/isActive changes.
func (r *PgxAccountRepository) UpdateAccount(ctx context.Context, account domain.Account) error {
	query := `
		UPDATE accounts
		SET name = $2, is_active = $3, updated_at = $4
		WHERE account_id = $1;
	`
	tag, err := r.pool.Exec(ctx, query, account.AccountID, account.Name, account.IsActive, account.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update account %s: %w", account.AccountID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// CountAccountsByTenant returns how many accounts a tenant has.
func (r *PgxAccountRepository) CountAccountsByTenant(ctx context.Context, tenantID string) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM accounts WHERE tenant_id = $1;`, tenantID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count accounts for tenant %s: %w", tenantID, err)
	}
	return count, nil
}

// HasChildAccounts reports whether any account references this one as parent.
func (r *PgxAccountRepository) HasChildAccounts(ctx context.Context, accountID string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM accounts WHERE parent_account_id = $1);`, accountID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check child accounts for %s: %w", accountID, err)
	}
	return exists, nil
}

// HasJournalLines reports whether any journal entry line references this account.
func (r *PgxAccountRepository) HasJournalLines(ctx context.Context, accountID string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM journal_entry_lines WHERE account_id = $1);`, accountID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check journal references for %s: %w", accountID, err)
	}
	return exists, nil
}

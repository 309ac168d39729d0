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

type PgxTenantRepository struct {
	pool *pgxpool.Pool
}

// NewPgxTenantRepository creates a new repository for tenant data.
func NewPgxTenantRepository(pool *pgxpool.Pool) portsrepo.TenantRepository {
	return &PgxTenantRepository{pool: pool}
}

var _ portsrepo.TenantRepository = (*PgxTenantRepository)(nil)

func tenantToDomain(m models.Tenant) domain.Tenant {
	return domain.Tenant{
		TenantID:  m.TenantID,
		Name:      m.Name,
		Slug:      m.Slug,
		CreatedAt: m.CreatedAt,
	}
}

// CreateTenantWithAdmin inserts the tenant, its admin user and the default
// chart accounts within one DB transaction. Chart accounts go in slice order,
// parents before children.
func (r *PgxTenantRepository) CreateTenantWithAdmin(ctx context.Context, tenant domain.Tenant, admin domain.User, chart []domain.Account) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	batch := &pgx.Batch{}
	batch.Queue(`
		INSERT INTO tenants (tenant_id, name, slug, created_at)
		VALUES ($1, $2, $3, $4);
	`,
		tenant.TenantID,
		tenant.Name,
		tenant.Slug,
		tenant.CreatedAt,
	)
	batch.Queue(`
		INSERT INTO users (user_id, tenant_id, email, password_hash, name, role, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`,
		admin.UserID,
		admin.TenantID,
		admin.Email,
		admin.PasswordHash,
		admin.Name,
		string(admin.Role),
		admin.CreatedAt,
	)
	for _, account := range chart {
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
			return fmt.Errorf("%w: company slug or email already registered", apperrors.ErrDuplicate)
		}
		return fmt.Errorf("failed to register tenant %s: %w", tenant.TenantID, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit tenant registration %s: %w", tenant.TenantID, err)
	}
	return nil
}

// FindTenantByID retrieves a tenant by id.
func (r *PgxTenantRepository) FindTenantByID(ctx context.Context, tenantID string) (*domain.Tenant, error) {
	query := `SELECT tenant_id, name, slug, created_at FROM tenants WHERE tenant_id = $1;`
	var m models.Tenant
	err := r.pool.QueryRow(ctx, query, tenantID).Scan(&m.TenantID, &m.Name, &m.Slug, &m.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find tenant by ID %s: %w", tenantID, err)
	}
	tenant := tenantToDomain(m)
	return &tenant, nil
}

// FindTenantBySlug retrieves a tenant by its unique slug.
func (r *PgxTenantRepository) FindTenantBySlug(ctx context.Context, slug string) (*domain.Tenant, error) {
	query := `SELECT tenant_id, name, slug, created_at FROM tenants WHERE slug = $1;`
	var m models.Tenant
	err := r.pool.QueryRow(ctx, query, slug).Scan(&m.TenantID, &m.Name, &m.Slug, &m.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find tenant by slug %s: %w", slug, err)
	}
	tenant := tenantToDomain(m)
	return &tenant, nil
}

package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tallybooks/tallybooks/internal/core/domain"
	portsrepo "github.com/tallybooks/tallybooks/internal/core/ports/repositories"
)

type PgxReportingRepository struct {
	pool *pgxpool.Pool
}

// NewPgxReportingRepository creates a new repository for reporting queries.
func NewPgxReportingRepository(pool *pgxpool.Pool) portsrepo.ReportingRepository {
	return &PgxReportingRepository{pool: pool}
}

var _ portsrepo.ReportingRepository = (*PgxReportingRepository)(nil)

// GetPostedLines returns every line of the tenant's entries within the window.
// Only account id and amounts are selected; the reporting service aggregates
// and resolves account detail separately.
func (r *PgxReportingRepository) GetPostedLines(ctx context.Context, tenantID string, startDate, endDate *time.Time) ([]domain.JournalEntryLine, error) {
	query := `
		SELECT l.account_id, l.debit, l.credit
		FROM journal_entry_lines l
		JOIN journal_entries e ON e.entry_id = l.entry_id
		WHERE e.tenant_id = $1
	`
	args := []interface{}{tenantID}
	if startDate != nil {
		args = append(args, *startDate)
		query += fmt.Sprintf(` AND e.entry_date >= $%d`, len(args))
	}
	if endDate != nil {
		args = append(args, *endDate)
		query += fmt.Sprintf(` AND e.entry_date <= $%d`, len(args))
	}
	query += `;`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query posted lines for tenant %s: %w", tenantID, err)
	}
	defer rows.Close()

	lines := []domain.JournalEntryLine{}
	for rows.Next() {
		var line domain.JournalEntryLine
		if err := rows.Scan(&line.AccountID, &line.Debit, &line.Credit); err != nil {
			return nil, fmt.Errorf("failed to scan posted line row: %w", err)
		}
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating posted line rows: %w", err)
	}
	return lines, nil
}

// FindAccountsForReport returns the given tenant accounts ordered by code.
func (r *PgxReportingRepository) FindAccountsForReport(ctx context.Context, tenantID string, accountIDs []string) ([]domain.Account, error) {
	accounts := []domain.Account{}
	if len(accountIDs) == 0 {
		return accounts, nil
	}

	query := `SELECT ` + accountColumns + ` FROM accounts WHERE tenant_id = $1 AND account_id = ANY($2) ORDER BY code ASC;`
	rows, err := r.pool.Query(ctx, query, tenantID, accountIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query report accounts for tenant %s: %w", tenantID, err)
	}
	defer rows.Close()

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

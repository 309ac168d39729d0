package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/tallybooks/tallybooks/internal/apperrors"
	"github.com/tallybooks/tallybooks/internal/core/domain"
	portsrepo "github.com/tallybooks/tallybooks/internal/core/ports/repositories"
	"github.com/tallybooks/tallybooks/internal/models"
)

type PgxJournalRepository struct {
	pool *pgxpool.Pool
}

// NewPgxJournalRepository creates a new repository for journal entry data.
func NewPgxJournalRepository(pool *pgxpool.Pool) portsrepo.JournalRepository {
	return &PgxJournalRepository{pool: pool}
}

var _ portsrepo.JournalRepository = (*PgxJournalRepository)(nil)

const insertEntryQuery = `
	INSERT INTO journal_entries (entry_id, tenant_id, entry_number, entry_date, description, reference, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7);
`

const insertEntryLineQuery = `
	INSERT INTO journal_entry_lines (line_id, entry_id, line_no, account_id, debit, credit, description)
	VALUES ($1, $2, $3, $4, $5, $6, $7);
`

func entryToDomain(m models.JournalEntry) domain.JournalEntry {
	return domain.JournalEntry{
		EntryID:     m.EntryID,
		TenantID:    m.TenantID,
		EntryNumber: m.EntryNumber,
		EntryDate:   m.EntryDate,
		Description: m.Description,
		Reference:   m.Reference,
		CreatedAt:   m.CreatedAt,
	}
}

func entryLineToDomain(m models.JournalEntryLine) domain.JournalEntryLine {
	return domain.JournalEntryLine{
		LineID:      m.LineID,
		EntryID:     m.EntryID,
		AccountID:   m.AccountID,
		Debit:       m.Debit,
		Credit:      m.Credit,
		Description: m.Description,
		AccountCode: m.AccountCode,
		AccountName: m.AccountName,
		AccountType: domain.AccountType(m.AccountType),
	}
}

// queueEntryInsert queues the entry header and line inserts onto the batch.
// Shared with the invoice and payment repositories, which post entries inside
// their own transactions.
func queueEntryInsert(batch *pgx.Batch, entry domain.JournalEntry, lines []domain.JournalEntryLine) {
	batch.Queue(insertEntryQuery,
		entry.EntryID,
		entry.TenantID,
		entry.EntryNumber,
		entry.EntryDate,
		entry.Description,
		nullable(entry.Reference),
		entry.CreatedAt,
	)
	// line_no preserves the caller's line order through rehydration
	for i, line := range lines {
		batch.Queue(insertEntryLineQuery,
			line.LineID,
			line.EntryID,
			i,
			line.AccountID,
			line.Debit,
			line.Credit,
			nullable(line.Description),
		)
	}
}

// SaveEntry inserts an entry and its lines within a DB transaction.
func (r *PgxJournalRepository) SaveEntry(ctx context.Context, entry domain.JournalEntry, lines []domain.JournalEntryLine) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	batch := &pgx.Batch{}
	queueEntryInsert(batch, entry, lines)

	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return fmt.Errorf("%w: entry number %s already taken", apperrors.ErrDuplicate, entry.EntryNumber)
		}
		return fmt.Errorf("failed to insert journal entry %s: %w", entry.EntryID, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit journal entry %s: %w", entry.EntryID, err)
	}
	return nil
}

// FindEntryByID retrieves an entry with its lines joined to account display data.
func (r *PgxJournalRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	query := `
		SELECT entry_id, tenant_id, entry_number, entry_date, description, COALESCE(reference, ''), created_at
		FROM journal_entries
		WHERE entry_id = $1;
	`
	var m models.JournalEntry
	err := r.pool.QueryRow(ctx, query, entryID).Scan(
		&m.EntryID,
		&m.TenantID,
		&m.EntryNumber,
		&m.EntryDate,
		&m.Description,
		&m.Reference,
		&m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find journal entry by ID %s: %w", entryID, err)
	}

	lines, err := r.findLinesByEntryIDs(ctx, []string{entryID})
	if err != nil {
		return nil, err
	}

	entry := entryToDomain(m)
	entry.Lines = lines[entryID]
	if entry.Lines == nil {
		entry.Lines = []domain.JournalEntryLine{}
	}
	return &entry, nil
}

// findLinesByEntryIDs loads all lines for the given entries, joined with their
// account's display data, grouped by entry id. Lines come back in the order
// they were posted.
func (r *PgxJournalRepository) findLinesByEntryIDs(ctx context.Context, entryIDs []string) (map[string][]domain.JournalEntryLine, error) {
	byEntry := make(map[string][]domain.JournalEntryLine, len(entryIDs))
	if len(entryIDs) == 0 {
		return byEntry, nil
	}

	query := `
		SELECT l.line_id, l.entry_id, l.account_id, l.debit, l.credit, COALESCE(l.description, ''),
		       a.code, a.name, a.account_type
		FROM journal_entry_lines l
		JOIN accounts a ON a.account_id = l.account_id
		WHERE l.entry_id = ANY($1)
		ORDER BY l.entry_id, l.line_no ASC;
	`
	rows, err := r.pool.Query(ctx, query, entryIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query journal entry lines: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var m models.JournalEntryLine
		if err := rows.Scan(
			&m.LineID,
			&m.EntryID,
			&m.AccountID,
			&m.Debit,
			&m.Credit,
			&m.Description,
			&m.AccountCode,
			&m.AccountName,
			&m.AccountType,
		); err != nil {
			return nil, fmt.Errorf("failed to scan journal entry line row: %w", err)
		}
		byEntry[m.EntryID] = append(byEntry[m.EntryID], entryLineToDomain(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating journal entry line rows: %w", err)
	}
	return byEntry, nil
}

// FindLastEntryNumber returns the greatest entry number sharing the day prefix.
func (r *PgxJournalRepository) FindLastEntryNumber(ctx context.Context, tenantID, prefix string) (*string, error) {
	query := `
		SELECT entry_number
		FROM journal_entries
		WHERE tenant_id = $1 AND entry_number LIKE $2 || '%'
		ORDER BY entry_number DESC
		LIMIT 1;
	`
	var number string
	err := r.pool.QueryRow(ctx, query, tenantID, prefix).Scan(&number)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find last entry number for prefix %s: %w", prefix, err)
	}
	return &number, nil
}

// ListEntries returns a page of a tenant's entries with their lines, plus the
// total match count.
func (r *PgxJournalRepository) ListEntries(ctx context.Context, tenantID string, limit, offset int, startDate, endDate *time.Time) ([]domain.JournalEntry, int64, error) {
	where := `WHERE tenant_id = $1`
	args := []interface{}{tenantID}
	if startDate != nil {
		args = append(args, *startDate)
		where += fmt.Sprintf(` AND entry_date >= $%d`, len(args))
	}
	if endDate != nil {
		args = append(args, *endDate)
		where += fmt.Sprintf(` AND entry_date <= $%d`, len(args))
	}

	var total int64
	countQuery := `SELECT COUNT(*) FROM journal_entries ` + where + `;`
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count journal entries: %w", err)
	}

	listArgs := append(args, limit, offset)
	listQuery := fmt.Sprintf(`
		SELECT entry_id, tenant_id, entry_number, entry_date, description, COALESCE(reference, ''), created_at
		FROM journal_entries
		%s
		ORDER BY entry_date DESC, created_at DESC
		LIMIT $%d OFFSET $%d;
	`, where, len(args)+1, len(args)+2)

	rows, err := r.pool.Query(ctx, listQuery, listArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query journal entries: %w", err)
	}
	defer rows.Close()

	entries := []domain.JournalEntry{}
	entryIDs := []string{}
	for rows.Next() {
		var m models.JournalEntry
		if err := rows.Scan(
			&m.EntryID,
			&m.TenantID,
			&m.EntryNumber,
			&m.EntryDate,
			&m.Description,
			&m.Reference,
			&m.CreatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan journal entry row: %w", err)
		}
		entries = append(entries, entryToDomain(m))
		entryIDs = append(entryIDs, m.EntryID)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating journal entry rows: %w", err)
	}

	lines, err := r.findLinesByEntryIDs(ctx, entryIDs)
	if err != nil {
		return nil, 0, err
	}
	for i := range entries {
		entries[i].Lines = lines[entries[i].EntryID]
		if entries[i].Lines == nil {
			entries[i].Lines = []domain.JournalEntryLine{}
		}
	}
	return entries, total, nil
}

// SumAccountActivity sums an account's debits and credits over the window.
func (r *PgxJournalRepository) SumAccountActivity(ctx context.Context, accountID, tenantID string, startDate, endDate *time.Time) (decimal.Decimal, decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(l.debit), 0), COALESCE(SUM(l.credit), 0)
		FROM journal_entry_lines l
		JOIN journal_entries e ON e.entry_id = l.entry_id
		WHERE l.account_id = $1 AND e.tenant_id = $2
	`
	args := []interface{}{accountID, tenantID}
	if startDate != nil {
		args = append(args, *startDate)
		query += fmt.Sprintf(` AND e.entry_date >= $%d`, len(args))
	}
	if endDate != nil {
		args = append(args, *endDate)
		query += fmt.Sprintf(` AND e.entry_date <= $%d`, len(args))
	}
	query += `;`

	var debit, credit decimal.Decimal
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&debit, &credit); err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("failed to sum activity for account %s: %w", accountID, err)
	}
	return debit, credit, nil
}

package repositories

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tallybooks/tallybooks/internal/core/domain"
)

// JournalRepository defines persistence operations for journal entries.
type JournalRepository interface {
	// SaveEntry inserts an entry and its lines as one transaction.
	// Returns apperrors.ErrDuplicate when the entry number is already taken
	// for the tenant (lost numbering race).
	SaveEntry(ctx context.Context, entry domain.JournalEntry, lines []domain.JournalEntryLine) error

	// FindEntryByID retrieves an entry with its lines joined to account
	// display data (code, name, type).
	FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error)

	// FindLastEntryNumber returns the lexicographically-greatest entry number
	// for the tenant sharing the given day prefix, or nil when none exists.
	FindLastEntryNumber(ctx context.Context, tenantID, prefix string) (*string, error)

	// ListEntries returns a page of a tenant's entries (lines included),
	// filtered by an optional inclusive date window, ordered by entry date
	// descending then creation time descending, plus the total match count.
	ListEntries(ctx context.Context, tenantID string, limit, offset int, startDate, endDate *time.Time) ([]domain.JournalEntry, int64, error)

	// SumAccountActivity returns the summed debit and credit over all of one
	// account's lines within the optional inclusive date window.
	SumAccountActivity(ctx context.Context, accountID, tenantID string, startDate, endDate *time.Time) (debit, credit decimal.Decimal, err error)
}

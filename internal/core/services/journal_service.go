package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tallybooks/tallybooks/internal/apperrors"
	"github.com/tallybooks/tallybooks/internal/core/domain"
	portsrepo "github.com/tallybooks/tallybooks/internal/core/ports/repositories"
	portssvc "github.com/tallybooks/tallybooks/internal/core/ports/services"
	"github.com/tallybooks/tallybooks/internal/dto"
	"github.com/tallybooks/tallybooks/internal/middleware"
	"github.com/tallybooks/tallybooks/internal/utils/pagelist"
	"github.com/tallybooks/tallybooks/internal/utils/sequence"
)

// balanceTolerance absorbs sub-cent rounding drift when checking that an
// entry's debits equal its credits.
var balanceTolerance = decimal.NewFromFloat(0.01)

// journalService is the double-entry ledger engine. Entries are immutable once
// posted; corrections happen via new reversing entries.
type journalService struct {
	journalRepo portsrepo.JournalRepository
	accountRepo portsrepo.AccountRepository
}

// NewJournalService creates a new journal service.
func NewJournalService(journalRepo portsrepo.JournalRepository, accountRepo portsrepo.AccountRepository) portssvc.JournalSvcFacade {
	return &journalService{journalRepo: journalRepo, accountRepo: accountRepo}
}

var _ portssvc.JournalSvcFacade = (*journalService)(nil)

// validateJournalLines enforces the double-entry shape: at least two lines,
// each line strictly one-sided, and total debits matching total credits within
// the tolerance.
func validateJournalLines(lines []dto.JournalEntryLineRequest) error {
	if len(lines) < 2 {
		return fmt.Errorf("%w: a journal entry requires at least 2 lines", apperrors.ErrValidation)
	}

	totalDebit := decimal.Zero
	totalCredit := decimal.Zero
	for i, line := range lines {
		debitPositive := line.Debit.IsPositive()
		creditPositive := line.Credit.IsPositive()
		if line.Debit.IsNegative() || line.Credit.IsNegative() {
			return fmt.Errorf("%w: line %d: amounts cannot be negative", apperrors.ErrValidation, i+1)
		}
		if debitPositive == creditPositive {
			return fmt.Errorf("%w: line %d: each line must have either a debit or a credit amount, not both or neither", apperrors.ErrValidation, i+1)
		}
		totalDebit = totalDebit.Add(line.Debit)
		totalCredit = totalCredit.Add(line.Credit)
	}

	if totalDebit.Sub(totalCredit).Abs().GreaterThan(balanceTolerance) {
		return fmt.Errorf("%w: entry is not balanced: debits (%s) do not equal credits (%s)",
			apperrors.ErrValidation, totalDebit.String(), totalCredit.String())
	}

	return nil
}

// Create posts a balanced journal entry. The entry number is derived from the
// entry date, not the wall clock, so backdated entries join that day's
// sequence.
func (s *journalService) Create(ctx context.Context, tenantID string, req dto.CreateJournalEntryRequest) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	entryDate, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid entry date, expected YYYY-MM-DD", apperrors.ErrValidation)
	}

	if err := validateJournalLines(req.Lines); err != nil {
		return nil, err
	}

	accountIDs := make([]string, 0, len(req.Lines))
	for _, line := range req.Lines {
		accountIDs = append(accountIDs, line.AccountID)
	}
	accounts, err := s.accountRepo.FindAccountsByIDs(ctx, accountIDs)
	if err != nil {
		logger.Error("Failed to resolve line accounts", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to resolve accounts: %w", err)
	}

	var missing []string
	for _, id := range accountIDs {
		acc, ok := accounts[id]
		if !ok || acc.TenantID != tenantID {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: accounts not found: %s", apperrors.ErrValidation, strings.Join(missing, ", "))
	}

	prefix := sequence.DatePrefix("JE", entryDate)
	lastNumber, err := s.journalRepo.FindLastEntryNumber(ctx, tenantID, prefix)
	if err != nil {
		logger.Error("Failed to look up last entry number", slog.String("prefix", prefix), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to determine entry number: %w", err)
	}
	entryNumber := sequence.Next(prefix, lastNumber)

	now := time.Now().UTC()
	entry := domain.JournalEntry{
		EntryID:     uuid.NewString(),
		TenantID:    tenantID,
		EntryNumber: entryNumber,
		EntryDate:   entryDate,
		Description: req.Description,
		Reference:   req.Reference,
		CreatedAt:   now,
	}
	lines := make([]domain.JournalEntryLine, 0, len(req.Lines))
	for _, line := range req.Lines {
		lines = append(lines, domain.JournalEntryLine{
			LineID:      uuid.NewString(),
			EntryID:     entry.EntryID,
			AccountID:   line.AccountID,
			Debit:       line.Debit,
			Credit:      line.Credit,
			Description: line.Description,
		})
	}

	if err := s.journalRepo.SaveEntry(ctx, entry, lines); err != nil {
		logger.Error("Failed to save journal entry", slog.String("entry_number", entryNumber), slog.String("error", err.Error()))
		return nil, err
	}

	logger.Info("Journal entry posted",
		slog.String("entry_id", entry.EntryID),
		slog.String("entry_number", entryNumber),
		slog.Int("lines", len(lines)))

	return s.journalRepo.FindEntryByID(ctx, entry.EntryID)
}

// FindAll returns a page of the tenant's entries, newest entry date first.
func (s *journalService) FindAll(ctx context.Context, tenantID string, params dto.ListJournalEntriesParams) (*dto.JournalEntryListResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	page, limit := pagelist.Normalize(params.Page, params.Limit)
	startDate, endDate, err := parseDateWindow(params.StartDate, params.EndDate)
	if err != nil {
		return nil, err
	}

	entries, total, err := s.journalRepo.ListEntries(ctx, tenantID, limit, pagelist.Offset(page, limit), startDate, endDate)
	if err != nil {
		logger.Error("Failed to list journal entries", slog.String("tenant_id", tenantID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list journal entries: %w", err)
	}

	return &dto.JournalEntryListResponse{
		Data:  entries,
		Total: total,
		Page:  page,
		Limit: limit,
		Pages: pagelist.Pages(total, limit),
	}, nil
}

// FindOne retrieves a single entry with its lines, tenant-scoped.
func (s *journalService) FindOne(ctx context.Context, tenantID, entryID string) (*domain.JournalEntry, error) {
	entry, err := s.journalRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if entry.TenantID != tenantID {
		return nil, apperrors.ErrNotFound
	}
	return entry, nil
}

// GetAccountBalance returns the account's raw debit-minus-credit balance over
// the optional date window, rounded to 2 decimal places.
func (s *journalService) GetAccountBalance(ctx context.Context, tenantID, accountID string, startDate, endDate *time.Time) (decimal.Decimal, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return decimal.Zero, err
	}
	if account.TenantID != tenantID {
		return decimal.Zero, apperrors.ErrNotFound
	}

	debit, credit, err := s.journalRepo.SumAccountActivity(ctx, accountID, tenantID, startDate, endDate)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum account activity: %w", err)
	}

	return debit.Sub(credit).Round(2), nil
}

// parseDateWindow converts optional YYYY-MM-DD query strings into time values.
// Binding already validated the format, but services can be called directly.
func parseDateWindow(start, end string) (*time.Time, *time.Time, error) {
	var startDate, endDate *time.Time
	if start != "" {
		t, err := time.Parse("2006-01-02", start)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: invalid start date, expected YYYY-MM-DD", apperrors.ErrValidation)
		}
		startDate = &t
	}
	if end != "" {
		t, err := time.Parse("2006-01-02", end)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: invalid end date, expected YYYY-MM-DD", apperrors.ErrValidation)
		}
		endDate = &t
	}
	return startDate, endDate, nil
}

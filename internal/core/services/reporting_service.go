package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tallybooks/tallybooks/internal/core/domain"
	portsrepo "github.com/tallybooks/tallybooks/internal/core/ports/repositories"
	portssvc "github.com/tallybooks/tallybooks/internal/core/ports/services"
	"github.com/tallybooks/tallybooks/internal/middleware"
)

// reportingService builds read-only reports over posted ledger data.
type reportingService struct {
	reportingRepo portsrepo.ReportingRepository
}

// NewReportingService creates a new reporting service.
func NewReportingService(reportingRepo portsrepo.ReportingRepository) portssvc.ReportingSvcFacade {
	return &reportingService{reportingRepo: reportingRepo}
}

var _ portssvc.ReportingSvcFacade = (*reportingService)(nil)

// TrialBalance aggregates every posted line in the window per account, rows
// ordered by account code. Only accounts with activity appear; indent levels
// count ancestors within that active set, so a child whose parents saw no
// activity renders at the top level.
func (s *reportingService) TrialBalance(ctx context.Context, tenantID string, startDate, endDate *time.Time) (*domain.TrialBalanceReport, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	lines, err := s.reportingRepo.GetPostedLines(ctx, tenantID, startDate, endDate)
	if err != nil {
		logger.Error("Failed to load posted lines", slog.String("tenant_id", tenantID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to load posted lines: %w", err)
	}

	report := &domain.TrialBalanceReport{
		StartDate: formatReportDate(startDate),
		EndDate:   formatReportDate(endDate),
		Accounts:  []domain.TrialBalanceRow{},
		Totals: domain.TrialBalanceTotals{
			Debit:    decimal.Zero,
			Credit:   decimal.Zero,
			Balanced: true,
		},
	}
	if len(lines) == 0 {
		return report, nil
	}

	type sums struct {
		debit  decimal.Decimal
		credit decimal.Decimal
	}
	byAccount := make(map[string]*sums)
	accountIDs := make([]string, 0)
	for _, line := range lines {
		agg, ok := byAccount[line.AccountID]
		if !ok {
			agg = &sums{debit: decimal.Zero, credit: decimal.Zero}
			byAccount[line.AccountID] = agg
			accountIDs = append(accountIDs, line.AccountID)
		}
		agg.debit = agg.debit.Add(line.Debit)
		agg.credit = agg.credit.Add(line.Credit)
	}

	accounts, err := s.reportingRepo.FindAccountsForReport(ctx, tenantID, accountIDs)
	if err != nil {
		logger.Error("Failed to load report accounts", slog.String("tenant_id", tenantID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to load report accounts: %w", err)
	}

	active := make(map[string]domain.Account, len(accounts))
	for _, acc := range accounts {
		active[acc.AccountID] = acc
	}

	totalDebit := decimal.Zero
	totalCredit := decimal.Zero
	for _, acc := range accounts {
		agg := byAccount[acc.AccountID]
		debit := agg.debit.Round(2)
		credit := agg.credit.Round(2)

		var balance decimal.Decimal
		switch acc.AccountType {
		case domain.Asset, domain.Expense:
			balance = debit.Sub(credit)
		default:
			balance = credit.Sub(debit)
		}

		report.Accounts = append(report.Accounts, domain.TrialBalanceRow{
			AccountCode: acc.Code,
			AccountName: acc.Name,
			AccountType: acc.AccountType,
			IndentLevel: indentWithin(active, acc),
			Debit:       debit,
			Credit:      credit,
			Balance:     balance,
		})
		totalDebit = totalDebit.Add(debit)
		totalCredit = totalCredit.Add(credit)
	}

	report.Totals = domain.TrialBalanceTotals{
		Debit:    totalDebit,
		Credit:   totalCredit,
		Balanced: totalDebit.Sub(totalCredit).Abs().LessThan(balanceTolerance),
	}
	return report, nil
}

// indentWithin counts the account's ancestors that are themselves part of the
// active set.
func indentWithin(active map[string]domain.Account, acc domain.Account) int {
	level := 0
	parentID := acc.ParentAccountID
	for parentID != "" {
		parent, ok := active[parentID]
		if !ok {
			break
		}
		level++
		parentID = parent.ParentAccountID
	}
	return level
}

// formatReportDate renders an optional window bound for the report envelope.
func formatReportDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}

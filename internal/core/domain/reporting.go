package domain

import "github.com/shopspring/decimal"

// TrialBalanceRow is one account's aggregated debit/credit activity over
// the reporting window. Balance carries the account's natural sign:
// debit-credit for ASSET/EXPENSE, credit-debit otherwise.
type TrialBalanceRow struct {
	AccountCode string          `json:"accountCode"`
	AccountName string          `json:"accountName"`
	AccountType AccountType     `json:"accountType"`
	IndentLevel int             `json:"indentLevel"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Balance     decimal.Decimal `json:"balance"`
}

// TrialBalanceTotals holds the grand totals across all report rows.
type TrialBalanceTotals struct {
	Debit    decimal.Decimal `json:"debit"`
	Credit   decimal.Decimal `json:"credit"`
	Balanced bool            `json:"balanced"`
}

// TrialBalanceReport is the full trial balance for a tenant and date window.
type TrialBalanceReport struct {
	StartDate string             `json:"startDate"`
	EndDate   string             `json:"endDate"`
	Accounts  []TrialBalanceRow  `json:"accounts"`
	Totals    TrialBalanceTotals `json:"totals"`
}

package dto

import (
	"github.com/shopspring/decimal"

	"github.com/tallybooks/tallybooks/internal/core/domain"
)

// JournalEntryLineRequest is one debit-or-credit leg of a new journal entry.
// Both amounts default to zero when omitted; the ledger engine enforces that
// exactly one of them is positive.
type JournalEntryLineRequest struct {
	AccountID   string          `json:"accountId" binding:"required"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Description string          `json:"description"`
}

// CreateJournalEntryRequest defines the data needed to post a journal entry.
// Date is the economic date of the entry ("2006-01-02"), not the creation time.
type CreateJournalEntryRequest struct {
	Date        string                    `json:"date" binding:"required,datetime=2006-01-02"`
	Description string                    `json:"description"`
	Reference   string                    `json:"reference"`
	Lines       []JournalEntryLineRequest `json:"lines" binding:"required"`
}

// ListJournalEntriesParams defines query parameters for listing journal entries.
type ListJournalEntriesParams struct {
	Page      int    `form:"page,default=1"`
	Limit     int    `form:"limit,default=10"`
	StartDate string `form:"startDate" binding:"omitempty,datetime=2006-01-02"`
	EndDate   string `form:"endDate" binding:"omitempty,datetime=2006-01-02"`
}

// JournalEntryListResponse is the paginated envelope for entry listings.
type JournalEntryListResponse struct {
	Data  []domain.JournalEntry `json:"data"`
	Total int64                 `json:"total"`
	Page  int                   `json:"page"`
	Limit int                   `json:"limit"`
	Pages int                   `json:"pages"`
}

// AccountBalanceResponse defines the data returned for an account balance query.
// Balance is raw debit minus credit; callers apply natural-balance polarity.
type AccountBalanceResponse struct {
	AccountID string          `json:"accountId"`
	Balance   decimal.Decimal `json:"balance"`
}

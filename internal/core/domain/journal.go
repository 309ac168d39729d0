package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// JournalEntry is an immutable, balanced double-entry posting.
// EntryNumber follows JE-YYYYMMDD-NNN, sequential per tenant per entry date.
type JournalEntry struct {
	EntryID     string    `json:"entryID"`
	TenantID    string    `json:"tenantID"`
	EntryNumber string    `json:"entryNumber"`
	EntryDate   time.Time `json:"date"`
	Description string    `json:"description,omitempty"`
	Reference   string    `json:"reference,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`

	Lines []JournalEntryLine `json:"lines,omitempty"`
}

// JournalEntryLine is one debit-or-credit leg of a journal entry.
// Exactly one of Debit/Credit is positive; the other is zero.
// AccountCode/Name/Type carry joined display data when the line is rehydrated.
type JournalEntryLine struct {
	LineID      string          `json:"lineID"`
	EntryID     string          `json:"entryID"`
	AccountID   string          `json:"accountID"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Description string          `json:"description,omitempty"`

	AccountCode string      `json:"accountCode,omitempty"`
	AccountName string      `json:"accountName,omitempty"`
	AccountType AccountType `json:"accountType,omitempty"`
}

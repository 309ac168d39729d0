package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// JournalEntry is the database representation of a journal entry header.
type JournalEntry struct {
	EntryID     string
	TenantID    string
	EntryNumber string
	EntryDate   time.Time
	Description string
	Reference   string
	CreatedAt   time.Time
}

// JournalEntryLine is the database representation of one entry leg.
// AccountCode/Name/Type are populated only by queries that join accounts.
type JournalEntryLine struct {
	LineID      string
	EntryID     string
	AccountID   string
	Debit       decimal.Decimal
	Credit      decimal.Decimal
	Description string

	AccountCode string
	AccountName string
	AccountType AccountType
}

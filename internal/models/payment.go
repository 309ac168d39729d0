package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment is the database representation of a payment row.
type Payment struct {
	PaymentID      string
	TenantID       string
	InvoiceID      string
	Amount         decimal.Decimal
	PaymentDate    time.Time
	Method         string
	Reference      string
	JournalEntryID string
	CreatedAt      time.Time
}

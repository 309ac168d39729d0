package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentMethod selects the cash-side ledger account for a payment.
type PaymentMethod string

const (
	MethodCash   PaymentMethod = "CASH"
	MethodBank   PaymentMethod = "BANK"
	MethodCheque PaymentMethod = "CHEQUE"
)

// IsValid reports whether m is a known payment method.
func (m PaymentMethod) IsValid() bool {
	switch m {
	case MethodCash, MethodBank, MethodCheque:
		return true
	}
	return false
}

// Payment settles part or all of an invoice's outstanding balance and
// always carries exactly one synthesized journal entry.
type Payment struct {
	PaymentID      string          `json:"paymentID"`
	TenantID       string          `json:"tenantID"`
	InvoiceID      string          `json:"invoiceID"`
	Amount         decimal.Decimal `json:"amount"`
	PaymentDate    time.Time       `json:"paymentDate"`
	Method         PaymentMethod   `json:"method"`
	Reference      string          `json:"reference,omitempty"`
	JournalEntryID string          `json:"journalEntryID,omitempty"`
	CreatedAt      time.Time       `json:"createdAt"`

	Invoice      *Invoice      `json:"invoice,omitempty"`
	JournalEntry *JournalEntry `json:"journalEntry,omitempty"`
}

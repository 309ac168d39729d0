package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceStatus indicates where an invoice sits in its payment lifecycle.
// DRAFT and OVERDUE exist for filtering/reporting; nothing assigns them automatically.
type InvoiceStatus string

const (
	InvoiceDraft         InvoiceStatus = "DRAFT"
	InvoiceSent          InvoiceStatus = "SENT"
	InvoicePartiallyPaid InvoiceStatus = "PARTIALLY_PAID"
	InvoicePaid          InvoiceStatus = "PAID"
	InvoiceOverdue       InvoiceStatus = "OVERDUE"
	InvoiceCancelled     InvoiceStatus = "CANCELLED"
)

// IsValid reports whether s is a known invoice status.
func (s InvoiceStatus) IsValid() bool {
	switch s {
	case InvoiceDraft, InvoiceSent, InvoicePartiallyPaid, InvoicePaid, InvoiceOverdue, InvoiceCancelled:
		return true
	}
	return false
}

// Invoice is a subledger document mirrored into the general ledger
// through a synthesized journal entry (AR debit / revenue credit).
type Invoice struct {
	InvoiceID      string          `json:"invoiceID"`
	TenantID       string          `json:"tenantID"`
	InvoiceNumber  string          `json:"invoiceNumber"`
	CustomerName   string          `json:"customerName"`
	CustomerID     string          `json:"customerID,omitempty"`
	InvoiceDate    time.Time       `json:"date"`
	DueDate        time.Time       `json:"dueDate"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	Tax            decimal.Decimal `json:"tax"`
	Total          decimal.Decimal `json:"total"`
	Status         InvoiceStatus   `json:"status"`
	PaidAmount     decimal.Decimal `json:"paidAmount"`
	JournalEntryID string          `json:"journalEntryID,omitempty"`
	CreatedAt      time.Time       `json:"createdAt"`

	Lines        []InvoiceLine `json:"lines,omitempty"`
	Payments     []Payment     `json:"payments,omitempty"`
	JournalEntry *JournalEntry `json:"journalEntry,omitempty"`
}

// InvoiceLine is a single billed item. Total is always Quantity*UnitPrice.
type InvoiceLine struct {
	LineID      string          `json:"lineID"`
	InvoiceID   string          `json:"invoiceID"`
	Description string          `json:"description"`
	Quantity    int64           `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Total       decimal.Decimal `json:"total"`
}

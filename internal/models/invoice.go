package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Invoice is the database representation of an invoice header.
type Invoice struct {
	InvoiceID      string
	TenantID       string
	InvoiceNumber  string
	CustomerName   string
	CustomerID     string
	InvoiceDate    time.Time
	DueDate        time.Time
	Subtotal       decimal.Decimal
	Tax            decimal.Decimal
	Total          decimal.Decimal
	Status         string
	PaidAmount     decimal.Decimal
	JournalEntryID string // empty when the column is NULL
	CreatedAt      time.Time
}

// InvoiceLine is the database representation of one billed item.
type InvoiceLine struct {
	LineID      string
	InvoiceID   string
	Description string
	Quantity    int64
	UnitPrice   decimal.Decimal
	Total       decimal.Decimal
}

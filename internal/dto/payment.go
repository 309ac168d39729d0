package dto

import (
	"github.com/shopspring/decimal"

	"github.com/tallybooks/tallybooks/internal/core/domain"
)

// CreatePaymentRequest defines the data needed to record a payment
// against an invoice.
type CreatePaymentRequest struct {
	InvoiceID   string               `json:"invoiceId" binding:"required"`
	Amount      decimal.Decimal      `json:"amount"`
	PaymentDate string               `json:"paymentDate" binding:"required,datetime=2006-01-02"`
	Method      domain.PaymentMethod `json:"method" binding:"required,oneof=CASH BANK CHEQUE"`
	Reference   string               `json:"reference"`
}

// ListPaymentsParams defines query parameters for listing payments.
type ListPaymentsParams struct {
	InvoiceID string `form:"invoiceId"`
	Method    string `form:"method" binding:"omitempty,oneof=CASH BANK CHEQUE"`
}

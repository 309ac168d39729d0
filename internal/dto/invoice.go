package dto

import (
	"github.com/shopspring/decimal"

	"github.com/tallybooks/tallybooks/internal/core/domain"
)

// InvoiceLineRequest is one billed item on a new invoice.
type InvoiceLineRequest struct {
	Description string          `json:"description" binding:"required"`
	Quantity    int64           `json:"quantity" binding:"required,gt=0"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
}

// CreateInvoiceRequest defines the data needed to issue an invoice.
type CreateInvoiceRequest struct {
	CustomerName string               `json:"customerName" binding:"required"`
	CustomerID   string               `json:"customerId"`
	Date         string               `json:"date" binding:"required,datetime=2006-01-02"`
	DueDate      string               `json:"dueDate" binding:"required,datetime=2006-01-02"`
	Lines        []InvoiceLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// UpdateInvoiceStatusRequest carries a caller-driven status change.
type UpdateInvoiceStatusRequest struct {
	Status domain.InvoiceStatus `json:"status" binding:"required,oneof=DRAFT SENT PARTIALLY_PAID PAID OVERDUE CANCELLED"`
}

// ListInvoicesParams defines query parameters for listing invoices.
type ListInvoicesParams struct {
	Page      int    `form:"page,default=1"`
	Limit     int    `form:"limit,default=10"`
	Status    string `form:"status" binding:"omitempty,oneof=DRAFT SENT PARTIALLY_PAID PAID OVERDUE CANCELLED"`
	StartDate string `form:"startDate" binding:"omitempty,datetime=2006-01-02"`
	EndDate   string `form:"endDate" binding:"omitempty,datetime=2006-01-02"`
}

// InvoiceListResponse is the paginated envelope for invoice listings.
type InvoiceListResponse struct {
	Data  []domain.Invoice `json:"data"`
	Total int64            `json:"total"`
	Page  int              `json:"page"`
	Limit int              `json:"limit"`
	Pages int              `json:"pages"`
}

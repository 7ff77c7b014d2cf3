package invoicing

import (
	"time"

	"github.com/google/uuid"
	"github.com/invo/backend/internal/domain/invoicing"
	"github.com/shopspring/decimal"
)

// CreateInvoiceRequest represents a request to create a new invoice. Two
// payload styles are accepted: supplying customer_id with precomputed
// amounts, or supplying customer_name/customer_phone/amount and letting the
// service derive everything.
type CreateInvoiceRequest struct {
	// backend style
	CustomerID  *uuid.UUID       `json:"customer_id"`
	Subtotal    *decimal.Decimal `json:"subtotal"`
	TaxAmount   *decimal.Decimal `json:"tax_amount"`
	TotalAmount *decimal.Decimal `json:"total_amount"`

	// derive style
	CustomerName       string           `json:"customer_name" binding:"omitempty,min=1,max=200"`
	CustomerPhone      string           `json:"customer_phone" binding:"omitempty,phone,max=50"`
	CustomerEmail      string           `json:"customer_email" binding:"omitempty,email,max=200"`
	Amount             *decimal.Decimal `json:"amount"`
	ServiceDescription string           `json:"service_description"`

	// common
	TaxRate        *decimal.Decimal `json:"tax_rate"`
	DiscountAmount *decimal.Decimal `json:"discount_amount"`
	ServiceType    string           `json:"service_type" binding:"max=100"`
	Notes          string           `json:"notes"`
	Terms          string           `json:"terms_and_conditions"`
	PlaceOfSupply  string           `json:"place_of_supply" binding:"max=50"`
	DueDate        *time.Time       `json:"due_date"`
}

// UpdateInvoiceRequest represents a partial, field-presence-driven update.
type UpdateInvoiceRequest struct {
	ServiceDescription *string          `json:"service_description"`
	Notes              *string          `json:"notes"`
	Terms              *string          `json:"terms_and_conditions"`
	ServiceType        *string          `json:"service_type" binding:"omitempty,max=100"`
	PlaceOfSupply      *string          `json:"place_of_supply" binding:"omitempty,max=50"`
	DueDate            *time.Time       `json:"due_date"`
	Amount             *decimal.Decimal `json:"amount"`
	TaxRate            *decimal.Decimal `json:"tax_rate"`
	DiscountAmount     *decimal.Decimal `json:"discount_amount"`
	PaidAmount         *decimal.Decimal `json:"paid_amount"`
	PaymentStatus      *string          `json:"payment_status" binding:"omitempty,oneof=pending partial paid"`
	Status             *string          `json:"status" binding:"omitempty,oneof=paid draft sent cancelled"`
}

// ListInvoicesFilter represents list filtering and pagination options
type ListInvoicesFilter struct {
	Page       int        `form:"page"`
	PageSize   int        `form:"page_size"`
	CustomerID *uuid.UUID `form:"customer_id"`
}

// InvoiceResponse represents an invoice in API responses
type InvoiceResponse struct {
	ID                 uuid.UUID       `json:"id"`
	InvoiceNumber      string          `json:"invoice_number"`
	CustomerID         uuid.UUID       `json:"customer_id"`
	CustomerName       string          `json:"customer_name,omitempty"`
	CustomerPhone      string          `json:"customer_phone,omitempty"`
	InvoiceDate        time.Time       `json:"invoice_date"`
	DueDate            *time.Time      `json:"due_date,omitempty"`
	Subtotal           decimal.Decimal `json:"subtotal"`
	DiscountAmount     decimal.Decimal `json:"discount_amount"`
	TaxRate            decimal.Decimal `json:"tax_rate"`
	TaxAmount          decimal.Decimal `json:"tax_amount"`
	TotalAmount        decimal.Decimal `json:"total_amount"`
	PaidAmount         decimal.Decimal `json:"paid_amount"`
	OutstandingAmount  decimal.Decimal `json:"outstanding_amount"`
	PaymentStatus      string          `json:"payment_status"`
	IsCancelled        bool            `json:"is_cancelled"`
	IsDeleted          bool            `json:"is_deleted"`
	ServiceType        string          `json:"service_type,omitempty"`
	Notes              string          `json:"notes,omitempty"`
	TermsAndConditions string          `json:"terms_and_conditions,omitempty"`
	PlaceOfSupply      string          `json:"place_of_supply,omitempty"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

// DeleteInvoiceResponse reports whether the soft delete changed anything
type DeleteInvoiceResponse struct {
	ID      uuid.UUID `json:"id"`
	Deleted bool      `json:"deleted"`
	Changed bool      `json:"changed"`
}

// ToInvoiceResponse converts a domain Invoice to its API representation
func ToInvoiceResponse(inv *invoicing.Invoice) InvoiceResponse {
	return InvoiceResponse{
		ID:                 inv.ID,
		InvoiceNumber:      inv.InvoiceNumber,
		CustomerID:         inv.CustomerID,
		InvoiceDate:        inv.InvoiceDate,
		DueDate:            inv.DueDate,
		Subtotal:           inv.Subtotal,
		DiscountAmount:     inv.DiscountAmount,
		TaxRate:            inv.TaxRate,
		TaxAmount:          inv.TaxAmount,
		TotalAmount:        inv.TotalAmount,
		PaidAmount:         inv.PaidAmount,
		OutstandingAmount:  inv.Outstanding(),
		PaymentStatus:      string(inv.PaymentStatus),
		IsCancelled:        inv.IsCancelled,
		IsDeleted:          inv.IsDeleted,
		ServiceType:        inv.ServiceType,
		Notes:              inv.Notes,
		TermsAndConditions: inv.TermsAndConditions,
		PlaceOfSupply:      inv.PlaceOfSupply,
		CreatedAt:          inv.CreatedAt,
		UpdatedAt:          inv.UpdatedAt,
	}
}

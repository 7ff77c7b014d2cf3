package invoicing

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/invo/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// PaymentStatus represents the derived payment state of an invoice
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPartial PaymentStatus = "partial"
	PaymentStatusPaid    PaymentStatus = "paid"
)

// paymentTolerance is the half-cent band within which a paid amount is
// considered equal to the total and snapped to it.
var paymentTolerance = decimal.New(5, -3) // 0.005

// DownloadAction is a recognized kind of download audit entry
type DownloadAction string

const (
	DownloadActionPrint DownloadAction = "print"
	DownloadActionPDF   DownloadAction = "pdf"
)

// Invoice is the aggregate root of the invoicing context. It owns the invoice
// number, the derived monetary fields, and the payment state machine.
// is_cancelled and payment_status are deliberately independent fields:
// cancelled-but-unpaid and cancelled-and-paid are both meaningful states.
type Invoice struct {
	shared.BaseAggregateRoot
	InvoiceNumber      string
	CustomerID         uuid.UUID
	InvoiceDate        time.Time
	DueDate            *time.Time
	Subtotal           decimal.Decimal
	DiscountAmount     decimal.Decimal
	TaxRate            decimal.Decimal
	TaxAmount          decimal.Decimal
	TotalAmount        decimal.Decimal
	PaidAmount         decimal.Decimal
	PaymentStatus      PaymentStatus
	IsCancelled        bool
	IsDeleted          bool
	ServiceType        string
	Notes              string
	TermsAndConditions string
	PlaceOfSupply      string
}

// TableName returns the table name for GORM
func (Invoice) TableName() string {
	return "invoices"
}

// NewInvoice creates an invoice deriving tax and total from the subtotal and
// rate. The invoice number is assigned later, by the persistence layer, inside
// the creation transaction.
func NewInvoice(customerID uuid.UUID, subtotal, taxRate decimal.Decimal, invoiceDate time.Time) (*Invoice, error) {
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer is required")
	}
	taxAmount, totalAmount, err := ComputeTax(subtotal, taxRate)
	if err != nil {
		return nil, err
	}

	inv := &Invoice{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		CustomerID:        customerID,
		InvoiceDate:       invoiceDate.UTC(),
		Subtotal:          subtotal,
		DiscountAmount:    decimal.Zero,
		TaxRate:           taxRate,
		TaxAmount:         taxAmount,
		TotalAmount:       totalAmount,
		PaidAmount:        decimal.Zero,
		PaymentStatus:     PaymentStatusPending,
	}
	return inv, nil
}

// NewInvoiceFromAmounts creates an invoice from precomputed amounts (the
// caller already holds subtotal, tax and total). Total defaults to
// subtotal + tax when zero.
func NewInvoiceFromAmounts(customerID uuid.UUID, subtotal, taxRate, taxAmount, totalAmount decimal.Decimal, invoiceDate time.Time) (*Invoice, error) {
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer is required")
	}
	if subtotal.IsNegative() || taxAmount.IsNegative() || totalAmount.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Amounts cannot be negative")
	}
	if err := ValidateTaxRate(taxRate); err != nil {
		return nil, err
	}
	if totalAmount.IsZero() {
		totalAmount = subtotal.Add(taxAmount).Round(2)
	}

	inv := &Invoice{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		CustomerID:        customerID,
		InvoiceDate:       invoiceDate.UTC(),
		Subtotal:          subtotal,
		DiscountAmount:    decimal.Zero,
		TaxRate:           taxRate,
		TaxAmount:         taxAmount,
		TotalAmount:       totalAmount,
		PaidAmount:        decimal.Zero,
		PaymentStatus:     PaymentStatusPending,
	}
	return inv, nil
}

// AssignNumber sets the invoice number once. The number is immutable after
// creation.
func (i *Invoice) AssignNumber(dateKey string, seq int64) error {
	if i.InvoiceNumber != "" {
		return shared.NewDomainError("NUMBER_ALREADY_ASSIGNED", "Invoice number is immutable once assigned")
	}
	i.InvoiceNumber = FormatInvoiceNumber(dateKey, seq)
	return nil
}

// Outstanding returns total_amount - paid_amount. It is always derived, never
// stored.
func (i *Invoice) Outstanding() decimal.Decimal {
	return i.TotalAmount.Sub(i.PaidAmount).Round(2)
}

// SetAmounts changes the subtotal and/or tax rate, recomputes the derived
// amounts, and reconciles the existing payment against the new total. When
// the previously paid amount exceeds the new total it is clamped down to the
// total rather than left violating the overpay invariant.
func (i *Invoice) SetAmounts(subtotal, taxRate decimal.Decimal) error {
	taxAmount, totalAmount, err := ComputeTax(subtotal, taxRate)
	if err != nil {
		return err
	}

	i.Subtotal = subtotal
	i.TaxRate = taxRate
	i.TaxAmount = taxAmount
	i.TotalAmount = totalAmount

	if i.PaidAmount.GreaterThan(i.TotalAmount) {
		i.PaidAmount = i.TotalAmount
	}
	i.PaymentStatus = derivePaymentStatus(i.PaidAmount, i.TotalAmount)
	if i.PaymentStatus == PaymentStatusPaid {
		i.PaidAmount = i.TotalAmount
	}
	i.touch()
	return nil
}

// SetPaidAmount records an absolute paid amount. Negative amounts and amounts
// above the total are rejected whole with OverpayNotAllowedError; a paid
// amount within half a cent of the total snaps to the total.
func (i *Invoice) SetPaidAmount(paid decimal.Decimal) error {
	if paid.IsNegative() || paid.GreaterThan(i.TotalAmount) {
		return NewOverpayNotAllowedError(paid, i.TotalAmount)
	}

	wasPaid := i.PaymentStatus == PaymentStatusPaid
	i.PaidAmount = paid
	i.PaymentStatus = derivePaymentStatus(paid, i.TotalAmount)
	if i.PaymentStatus == PaymentStatusPaid {
		i.PaidAmount = i.TotalAmount
		if !wasPaid {
			i.AddDomainEvent(NewInvoicePaidEvent(i))
		}
	}
	i.touch()
	return nil
}

// OverridePaymentStatus sets payment_status directly, bypassing derivation.
// Escape hatch for operator corrections; paid_amount is left untouched.
func (i *Invoice) OverridePaymentStatus(status PaymentStatus) error {
	switch status {
	case PaymentStatusPending, PaymentStatusPartial, PaymentStatusPaid:
	default:
		return shared.NewDomainError("INVALID_PAYMENT_STATUS", "Payment status must be pending, partial or paid")
	}
	i.PaymentStatus = status
	i.touch()
	return nil
}

// ApplyStatus maps a document-level status keyword onto the aggregate:
// paid marks the invoice fully paid, draft resets the payment status, sent
// resets it only while nothing is paid, cancelled flips the cancellation flag.
// Note that draft deliberately leaves paid_amount untouched, so after a
// draft reset payment_status can read pending while paid_amount is still
// positive; a later SetPaidAmount recomputes the status from the amount.
func (i *Invoice) ApplyStatus(status string) error {
	switch strings.ToLower(status) {
	case "paid":
		i.PaidAmount = i.TotalAmount
		i.PaymentStatus = PaymentStatusPaid
	case "draft":
		i.PaymentStatus = PaymentStatusPending
	case "sent":
		if i.PaidAmount.IsZero() {
			i.PaymentStatus = PaymentStatusPending
		}
	case "cancelled":
		i.Cancel()
	default:
		return shared.NewDomainError("INVALID_STATUS", "Status must be one of paid, draft, sent, cancelled")
	}
	i.touch()
	return nil
}

// Cancel marks the invoice cancelled. Cancellation is orthogonal to payment:
// a cancelled invoice remains payable and its outstanding amount stays
// accurate.
func (i *Invoice) Cancel() {
	if !i.IsCancelled {
		i.IsCancelled = true
		i.AddDomainEvent(NewInvoiceCancelledEvent(i))
	}
	i.touch()
}

// SoftDelete marks the invoice deleted. It reports whether the call changed
// anything; deleting an already-deleted invoice is a no-op.
func (i *Invoice) SoftDelete() bool {
	if i.IsDeleted {
		return false
	}
	i.IsDeleted = true
	i.touch()
	i.AddDomainEvent(NewInvoiceDeletedEvent(i))
	return true
}

// SetDetails updates the free-text and date fields.
func (i *Invoice) SetDetails(serviceType, notes, terms, placeOfSupply *string, dueDate *time.Time) {
	if serviceType != nil {
		i.ServiceType = *serviceType
	}
	if notes != nil {
		i.Notes = *notes
	}
	if terms != nil {
		i.TermsAndConditions = *terms
	}
	if placeOfSupply != nil {
		i.PlaceOfSupply = *placeOfSupply
	}
	if dueDate != nil {
		d := dueDate.UTC()
		i.DueDate = &d
	}
	i.touch()
}

// SetDiscount sets the informational discount amount.
func (i *Invoice) SetDiscount(discount decimal.Decimal) error {
	if discount.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Discount cannot be negative")
	}
	i.DiscountAmount = discount
	i.touch()
	return nil
}

// touch refreshes updated_at and bumps the version. Called on every mutation,
// even when derived fields end up numerically unchanged.
func (i *Invoice) touch() {
	i.UpdatedAt = time.Now().UTC()
	i.IncrementVersion()
}

// derivePaymentStatus derives the payment status from (paid, total) with the
// half-cent tolerance.
func derivePaymentStatus(paid, total decimal.Decimal) PaymentStatus {
	if paid.IsZero() {
		return PaymentStatusPending
	}
	if total.Sub(paid).Abs().LessThanOrEqual(paymentTolerance) {
		return PaymentStatusPaid
	}
	return PaymentStatusPartial
}

// ValidateDownloadAction checks that an audit action is one of the recognized
// kinds.
func ValidateDownloadAction(action string) (DownloadAction, error) {
	switch DownloadAction(action) {
	case DownloadActionPrint, DownloadActionPDF:
		return DownloadAction(action), nil
	default:
		return "", shared.NewDomainError("INVALID_ACTION", "Download action must be 'print' or 'pdf'")
	}
}

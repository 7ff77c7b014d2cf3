package invoicing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/invo/backend/internal/domain/invoicing"
	"github.com/invo/backend/internal/domain/partner"
	"github.com/invo/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// OperationRecorder records invoice operation metrics. Implemented by the
// telemetry layer; a nil recorder disables recording.
type OperationRecorder interface {
	RecordInvoiceOperation(ctx context.Context, operation string)
}

// InvoiceService orchestrates invoice creation, updates, soft deletion and
// download auditing. The default tax rate is read through a provider at the
// start of each operation rather than held as mutable state.
type InvoiceService struct {
	invoiceRepo    invoicing.InvoiceRepository
	customerRepo   partner.CustomerRepository
	auditRepo      invoicing.DownloadAuditRepository
	eventPublisher shared.EventPublisher
	clock          shared.Clock
	defaultTaxRate func() decimal.Decimal
	metrics        OperationRecorder
	logger         *zap.Logger
}

// InvoiceServiceConfig carries the dependencies of InvoiceService
type InvoiceServiceConfig struct {
	InvoiceRepo    invoicing.InvoiceRepository
	CustomerRepo   partner.CustomerRepository
	AuditRepo      invoicing.DownloadAuditRepository
	EventPublisher shared.EventPublisher
	Clock          shared.Clock
	DefaultTaxRate func() decimal.Decimal
	Metrics        OperationRecorder
	Logger         *zap.Logger
}

// NewInvoiceService creates a new InvoiceService
func NewInvoiceService(cfg InvoiceServiceConfig) *InvoiceService {
	clock := cfg.Clock
	if clock == nil {
		clock = shared.SystemClock{}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	rate := cfg.DefaultTaxRate
	if rate == nil {
		rate = func() decimal.Decimal { return decimal.Zero }
	}
	return &InvoiceService{
		invoiceRepo:    cfg.InvoiceRepo,
		customerRepo:   cfg.CustomerRepo,
		auditRepo:      cfg.AuditRepo,
		eventPublisher: cfg.EventPublisher,
		clock:          clock,
		defaultTaxRate: rate,
		metrics:        cfg.Metrics,
		logger:         logger,
	}
}

// Create creates an invoice from either payload style. Customer resolution,
// number allocation and the insert are one atomic unit inside the repository.
func (s *InvoiceService) Create(ctx context.Context, req CreateInvoiceRequest) (*InvoiceResponse, error) {
	now := s.clock.Now()

	var (
		invoice  *invoicing.Invoice
		customer *partner.Customer
		err      error
	)

	if req.CustomerID != nil {
		invoice, err = s.buildFromAmounts(ctx, req, now)
		if err != nil {
			return nil, err
		}
		if err := s.applyCreateDetails(invoice, req); err != nil {
			return nil, err
		}
		if err := s.invoiceRepo.Create(ctx, invoice); err != nil {
			return nil, err
		}
	} else {
		invoice, err = s.buildDerived(req, now)
		if err != nil {
			return nil, err
		}
		if err := s.applyCreateDetails(invoice, req); err != nil {
			return nil, err
		}
		customer, err = s.invoiceRepo.CreateResolvingCustomer(ctx, invoice, req.CustomerName, req.CustomerPhone, req.CustomerEmail)
		if err != nil {
			return nil, err
		}
	}

	s.record(ctx, "create")
	s.publish(ctx, invoicing.NewInvoiceCreatedEvent(invoice))
	s.logger.Info("Invoice created",
		zap.String("invoice_id", invoice.ID.String()),
		zap.String("invoice_number", invoice.InvoiceNumber),
		zap.String("total_amount", invoice.TotalAmount.StringFixed(2)))

	resp := ToInvoiceResponse(invoice)
	if customer != nil {
		resp.CustomerName = customer.Name
		resp.CustomerPhone = customer.Phone
	}
	return &resp, nil
}

// buildFromAmounts builds an invoice from the backend-style payload with a
// known customer id and precomputed amounts.
func (s *InvoiceService) buildFromAmounts(ctx context.Context, req CreateInvoiceRequest, now time.Time) (*invoicing.Invoice, error) {
	if _, err := s.customerRepo.FindByID(ctx, *req.CustomerID); err != nil {
		return nil, err
	}

	subtotal := decimal.Zero
	if req.Subtotal != nil {
		subtotal = *req.Subtotal
	}
	taxAmount := decimal.Zero
	if req.TaxAmount != nil {
		taxAmount = *req.TaxAmount
	}
	totalAmount := decimal.Zero
	if req.TotalAmount != nil {
		totalAmount = *req.TotalAmount
	}
	taxRate := decimal.Zero
	if req.TaxRate != nil {
		taxRate = *req.TaxRate
	}

	return invoicing.NewInvoiceFromAmounts(*req.CustomerID, subtotal, taxRate, taxAmount, totalAmount, now)
}

// buildDerived builds an invoice from the derive-style payload. Name, phone
// and amount are all mandatory; a missing tax rate substitutes the configured
// default. The customer id is filled in by the repository during resolution.
func (s *InvoiceService) buildDerived(req CreateInvoiceRequest, now time.Time) (*invoicing.Invoice, error) {
	if req.CustomerName == "" || req.CustomerPhone == "" || req.Amount == nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "customer_name, customer_phone and amount are required")
	}

	taxRate := s.defaultTaxRate()
	if req.TaxRate != nil {
		taxRate = *req.TaxRate
	}

	// placeholder id; overwritten with the resolved customer inside the
	// create transaction
	invoice, err := invoicing.NewInvoice(uuid.New(), *req.Amount, taxRate, now)
	if err != nil {
		return nil, err
	}
	if req.ServiceDescription != "" {
		invoice.Notes = req.ServiceDescription
	}
	return invoice, nil
}

func (s *InvoiceService) applyCreateDetails(invoice *invoicing.Invoice, req CreateInvoiceRequest) error {
	if req.DiscountAmount != nil {
		if err := invoice.SetDiscount(*req.DiscountAmount); err != nil {
			return err
		}
	}
	if req.ServiceType != "" {
		invoice.ServiceType = req.ServiceType
	}
	if req.Notes != "" {
		invoice.Notes = req.Notes
	}
	if req.Terms != "" {
		invoice.TermsAndConditions = req.Terms
	}
	invoice.PlaceOfSupply = req.PlaceOfSupply
	if invoice.PlaceOfSupply == "" {
		invoice.PlaceOfSupply = "KA"
	}
	if req.DueDate != nil {
		d := req.DueDate.UTC()
		invoice.DueDate = &d
	}
	return nil
}

// Get retrieves an invoice by id, including soft-deleted rows.
func (s *InvoiceService) Get(ctx context.Context, id uuid.UUID) (*InvoiceResponse, error) {
	invoice, err := s.invoiceRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	resp := ToInvoiceResponse(invoice)
	if customer, err := s.customerRepo.FindByID(ctx, invoice.CustomerID); err == nil {
		resp.CustomerName = customer.Name
		resp.CustomerPhone = customer.Phone
	}
	return &resp, nil
}

// List lists non-deleted invoices, newest first.
func (s *InvoiceService) List(ctx context.Context, filter ListInvoicesFilter) ([]InvoiceResponse, int64, error) {
	f := shared.DefaultFilter()
	if filter.Page > 0 {
		f.Page = filter.Page
	}
	if filter.PageSize > 0 && filter.PageSize <= 200 {
		f.PageSize = filter.PageSize
	}

	invoices, err := s.invoiceRepo.FindAll(ctx, f, filter.CustomerID)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.invoiceRepo.Count(ctx, filter.CustomerID)
	if err != nil {
		return nil, 0, err
	}

	items := make([]InvoiceResponse, 0, len(invoices))
	for i := range invoices {
		items = append(items, ToInvoiceResponse(&invoices[i]))
	}
	return items, total, nil
}

// Update applies a partial update. Application order matters: text and date
// fields first, then amount/rate recomputation with payment reconciliation,
// then the explicit paid amount with its overpay guard, then the raw payment
// status override, then the document status mapping.
func (s *InvoiceService) Update(ctx context.Context, id uuid.UUID, req UpdateInvoiceRequest) (*InvoiceResponse, error) {
	invoice, err := s.invoiceRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	notes := req.Notes
	if notes == nil {
		notes = req.ServiceDescription
	}
	invoice.SetDetails(req.ServiceType, notes, req.Terms, req.PlaceOfSupply, req.DueDate)

	if req.DiscountAmount != nil {
		if err := invoice.SetDiscount(*req.DiscountAmount); err != nil {
			return nil, err
		}
	}

	if req.Amount != nil || req.TaxRate != nil {
		subtotal := invoice.Subtotal
		if req.Amount != nil {
			subtotal = *req.Amount
		}
		taxRate := invoice.TaxRate
		if req.TaxRate != nil {
			taxRate = *req.TaxRate
		}
		if err := invoice.SetAmounts(subtotal, taxRate); err != nil {
			return nil, err
		}
	}

	if req.PaidAmount != nil {
		if err := invoice.SetPaidAmount(*req.PaidAmount); err != nil {
			return nil, err
		}
	}

	if req.PaymentStatus != nil {
		if err := invoice.OverridePaymentStatus(invoicing.PaymentStatus(*req.PaymentStatus)); err != nil {
			return nil, err
		}
	}

	if req.Status != nil {
		if err := invoice.ApplyStatus(*req.Status); err != nil {
			return nil, err
		}
	}

	if err := s.invoiceRepo.Save(ctx, invoice); err != nil {
		return nil, err
	}

	s.record(ctx, "update")
	s.publishAll(ctx, invoice)

	resp := ToInvoiceResponse(invoice)
	return &resp, nil
}

// Delete soft-deletes an invoice. Deleting an already-deleted invoice is a
// no-op reported as unchanged.
func (s *InvoiceService) Delete(ctx context.Context, id uuid.UUID) (*DeleteInvoiceResponse, error) {
	invoice, err := s.invoiceRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	changed := invoice.SoftDelete()
	if changed {
		if err := s.invoiceRepo.Save(ctx, invoice); err != nil {
			return nil, err
		}
		s.record(ctx, "delete")
		s.publishAll(ctx, invoice)
	}

	return &DeleteInvoiceResponse{ID: invoice.ID, Deleted: invoice.IsDeleted, Changed: changed}, nil
}

// RecordDownload appends a print or pdf audit entry for an invoice.
func (s *InvoiceService) RecordDownload(ctx context.Context, invoiceID uuid.UUID, userID *uuid.UUID, action string) error {
	exists, err := s.invoiceRepo.ExistsByID(ctx, invoiceID)
	if err != nil {
		return err
	}
	if !exists {
		return shared.ErrNotFound
	}

	entry, err := invoicing.NewDownloadAudit(invoiceID, userID, action)
	if err != nil {
		return err
	}
	if err := s.auditRepo.Save(ctx, entry); err != nil {
		return err
	}

	s.record(ctx, "download")
	return nil
}

func (s *InvoiceService) record(ctx context.Context, operation string) {
	if s.metrics != nil {
		s.metrics.RecordInvoiceOperation(ctx, operation)
	}
}

func (s *InvoiceService) publish(ctx context.Context, events ...shared.DomainEvent) {
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		s.logger.Warn("Failed to publish invoice events", zap.Error(err))
		// Don't fail the operation for event publishing errors
	}
}

func (s *InvoiceService) publishAll(ctx context.Context, invoice *invoicing.Invoice) {
	s.publish(ctx, invoice.GetDomainEvents()...)
	invoice.ClearDomainEvents()
}

package persistence

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/invo/backend/internal/domain/invoicing"
	"github.com/invo/backend/internal/domain/partner"
	"github.com/invo/backend/internal/domain/shared"
	"github.com/invo/backend/internal/infrastructure/persistence/models"
	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// allocationAttempts bounds the retry loop around number allocation. Retries
// cover transient contention (serialization failures, sqlite busy) and the
// rare duplicate-number race against rows predating the counter table.
const allocationAttempts = 40

// GormInvoiceRepository implements InvoiceRepository using GORM. Invoice
// creation allocates the daily sequence number and inserts the row in a
// single transaction; a rollback never leaks a committed number, keeping the
// per-day numbering gap-free.
type GormInvoiceRepository struct {
	db    *gorm.DB
	clock shared.Clock
}

// NewGormInvoiceRepository creates a new GormInvoiceRepository
func NewGormInvoiceRepository(db *gorm.DB, clock shared.Clock) *GormInvoiceRepository {
	if clock == nil {
		clock = shared.SystemClock{}
	}
	return &GormInvoiceRepository{db: db, clock: clock}
}

// Create allocates an invoice number and inserts the invoice atomically
func (r *GormInvoiceRepository) Create(ctx context.Context, invoice *invoicing.Invoice) error {
	return r.createWithRetry(ctx, invoice, nil)
}

// CreateResolvingCustomer resolves or creates the customer, then allocates a
// number and inserts the invoice, all inside one transaction
func (r *GormInvoiceRepository) CreateResolvingCustomer(ctx context.Context, invoice *invoicing.Invoice, name, phone, email string) (*partner.Customer, error) {
	var resolved *partner.Customer
	resolve := func(tx *gorm.DB) error {
		customer, err := r.resolveCustomer(ctx, tx, name, phone, email)
		if err != nil {
			return err
		}
		resolved = customer
		invoice.CustomerID = customer.ID
		return nil
	}
	if err := r.createWithRetry(ctx, invoice, resolve); err != nil {
		return nil, err
	}
	return resolved, nil
}

// createWithRetry runs the creation transaction with a bounded, jittered
// retry loop. The date key is recomputed every attempt so a retry that
// straddles midnight lands on the new day's counter.
func (r *GormInvoiceRepository) createWithRetry(ctx context.Context, invoice *invoicing.Invoice, before func(tx *gorm.DB) error) error {
	var (
		dateKey string
		seq     int64
	)

	attempt := func() error {
		return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if before != nil {
				if err := before(tx); err != nil {
					return err
				}
			}

			dateKey = invoicing.DateKey(r.clock.Now())
			var err error
			seq, err = allocateSequence(ctx, tx, dateKey)
			if err != nil {
				return err
			}

			model := models.InvoiceModelFromDomain(invoice)
			model.InvoiceNumber = invoicing.FormatInvoiceNumber(dateKey, seq)
			return tx.Create(model).Error
		})
	}

	var lastErr error
	for i := 0; i < allocationAttempts; i++ {
		lastErr = attempt()
		if lastErr == nil {
			return invoice.AssignNumber(dateKey, seq)
		}
		if !isRetryableAllocationError(lastErr) {
			return lastErr
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(1+rand.Intn(20)) * time.Millisecond):
		}
	}
	return invoicing.NewAllocationExhaustedError(dateKey, allocationAttempts)
}

// resolveCustomer reuses an exact active (name, phone) match or creates a new
// individual customer within the surrounding transaction
func (r *GormInvoiceRepository) resolveCustomer(ctx context.Context, tx *gorm.DB, name, phone, email string) (*partner.Customer, error) {
	var model models.CustomerModel
	err := tx.WithContext(ctx).
		Where("name = ? AND phone = ? AND status = ?", name, phone, partner.CustomerStatusActive).
		Order("created_at ASC").
		First(&model).Error
	if err == nil {
		return model.ToDomain(), nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	customer, err := partner.NewIndividualCustomer(name, phone)
	if err != nil {
		return nil, err
	}
	if email != "" {
		if err := customer.SetContact(phone, email); err != nil {
			return nil, err
		}
	}
	if err := tx.WithContext(ctx).Create(models.CustomerModelFromDomain(customer)).Error; err != nil {
		return nil, err
	}
	return customer, nil
}

// FindByID finds an invoice by id, including soft-deleted rows
func (r *GormInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*invoicing.Invoice, error) {
	var model models.InvoiceModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll lists non-deleted invoices, newest first, optionally filtered by
// customer
func (r *GormInvoiceRepository) FindAll(ctx context.Context, filter shared.Filter, customerID *uuid.UUID) ([]invoicing.Invoice, error) {
	var invoiceModels []models.InvoiceModel
	query := r.db.WithContext(ctx).Model(&models.InvoiceModel{}).Where("is_deleted = ?", false)
	if customerID != nil {
		query = query.Where("customer_id = ?", *customerID)
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	sortField := ValidateSortField(filter.OrderBy, InvoiceSortFields, "created_at")
	sortOrder := ValidateSortOrder(filter.OrderDir)
	query = query.Order(sortField + " " + sortOrder)

	if err := query.Find(&invoiceModels).Error; err != nil {
		return nil, err
	}

	invoices := make([]invoicing.Invoice, len(invoiceModels))
	for i, model := range invoiceModels {
		invoices[i] = *model.ToDomain()
	}
	return invoices, nil
}

// Save persists mutations to an existing invoice
func (r *GormInvoiceRepository) Save(ctx context.Context, invoice *invoicing.Invoice) error {
	model := models.InvoiceModelFromDomain(invoice)
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{UpdateAll: true}).Create(model).Error
}

// Count counts non-deleted invoices
func (r *GormInvoiceRepository) Count(ctx context.Context, customerID *uuid.UUID) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.InvoiceModel{}).Where("is_deleted = ?", false)
	if customerID != nil {
		query = query.Where("customer_id = ?", *customerID)
	}
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsByID checks invoice existence regardless of deletion flag
func (r *GormInvoiceRepository) ExistsByID(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.InvoiceModel{}).
		Where("id = ?", id).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// isRetryableAllocationError reports whether a failed creation attempt is
// worth retrying
func isRetryableAllocationError(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		// unique_violation, serialization_failure, deadlock_detected
		switch pqErr.Code {
		case "23505", "40001", "40P01":
			return true
		}
		return false
	}

	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "database is locked") ||
		strings.Contains(msg, "database table is locked")
}

// Ensure GormInvoiceRepository implements InvoiceRepository
var _ invoicing.InvoiceRepository = (*GormInvoiceRepository)(nil)

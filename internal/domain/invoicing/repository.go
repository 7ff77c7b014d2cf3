package invoicing

import (
	"context"

	"github.com/google/uuid"
	"github.com/invo/backend/internal/domain/partner"
	"github.com/invo/backend/internal/domain/shared"
)

// SequenceAllocator issues strictly increasing per-day sequence numbers. The
// first allocation of a new day returns 1. Allocate must run inside the same
// transaction as the invoice insert so an aborted transaction never leaks a
// committed number.
type SequenceAllocator interface {
	Allocate(ctx context.Context, dateKey string) (int64, error)
}

// InvoiceRepository defines the interface for invoice persistence. The create
// methods allocate the invoice number and insert the row in one atomic unit;
// either everything commits or nothing is visible.
type InvoiceRepository interface {
	// Create allocates an invoice number and inserts the invoice atomically.
	// The invoice's number is assigned as part of the call.
	Create(ctx context.Context, invoice *Invoice) error

	// CreateResolvingCustomer resolves or creates the customer by exact
	// (name, phone) active match, then allocates a number and inserts the
	// invoice, all inside one transaction. The resolved customer is returned.
	CreateResolvingCustomer(ctx context.Context, invoice *Invoice, name, phone, email string) (*partner.Customer, error)

	// FindByID finds an invoice by id, including soft-deleted rows
	FindByID(ctx context.Context, id uuid.UUID) (*Invoice, error)

	// FindAll lists non-deleted invoices, newest first, optionally filtered
	// by customer
	FindAll(ctx context.Context, filter shared.Filter, customerID *uuid.UUID) ([]Invoice, error)

	// Save persists mutations to an existing invoice
	Save(ctx context.Context, invoice *Invoice) error

	// Count counts non-deleted invoices
	Count(ctx context.Context, customerID *uuid.UUID) (int64, error)

	// ExistsByID checks invoice existence regardless of deletion flag
	ExistsByID(ctx context.Context, id uuid.UUID) (bool, error)
}

package partner

import (
	"context"

	"github.com/google/uuid"
	"github.com/invo/backend/internal/domain/shared"
)

// CustomerRepository defines the interface for customer persistence
type CustomerRepository interface {
	// FindByID finds a customer by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Customer, error)

	// FindActiveByNameAndPhone finds an active customer by exact name and raw
	// phone match. Returns nil without error when no row matches.
	FindActiveByNameAndPhone(ctx context.Context, name, phone string) (*Customer, error)

	// FindAll finds customers matching the filter, newest first
	FindAll(ctx context.Context, filter shared.Filter) ([]Customer, error)

	// ExistsActiveByMobile checks whether another active customer shares the
	// normalized mobile number. excludeID skips the customer being checked.
	ExistsActiveByMobile(ctx context.Context, mobileNormalized string, excludeID uuid.UUID) (bool, error)

	// Save creates or updates a customer
	Save(ctx context.Context, customer *Customer) error

	// Count counts customers matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}

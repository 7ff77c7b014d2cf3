package partner

import (
	"context"

	"github.com/google/uuid"
	"github.com/invo/backend/internal/domain/partner"
	"github.com/invo/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// CustomerService handles customer-related business operations
type CustomerService struct {
	customerRepo partner.CustomerRepository
	logger       *zap.Logger
}

// NewCustomerService creates a new CustomerService
func NewCustomerService(customerRepo partner.CustomerRepository, logger *zap.Logger) *CustomerService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CustomerService{
		customerRepo: customerRepo,
		logger:       logger,
	}
}

// Create creates a new customer. Duplicate phones are not rejected; a shared
// normalized mobile only raises the advisory duplicate warning.
func (s *CustomerService) Create(ctx context.Context, req CreateCustomerRequest) (*CustomerResponse, error) {
	customerType := partner.CustomerTypeIndividual
	if req.Type != "" {
		customerType = partner.CustomerType(req.Type)
	}

	customer, err := partner.NewCustomer(req.Name, req.Phone, customerType)
	if err != nil {
		return nil, err
	}
	if req.Email != "" {
		if err := customer.SetContact(req.Phone, req.Email); err != nil {
			return nil, err
		}
	}
	if req.Address != "" {
		if err := customer.SetAddress(req.Address); err != nil {
			return nil, err
		}
	}
	if req.Notes != "" {
		customer.SetNotes(req.Notes)
	}

	warning, err := s.duplicateWarning(ctx, customer)
	if err != nil {
		return nil, err
	}

	if err := s.customerRepo.Save(ctx, customer); err != nil {
		return nil, err
	}

	if warning {
		s.logger.Info("Customer created with duplicate mobile warning",
			zap.String("customer_id", customer.ID.String()),
			zap.String("mobile", customer.MobileNormalized))
	}

	response := ToCustomerResponse(customer, warning)
	return &response, nil
}

// GetByID retrieves a customer by ID
func (s *CustomerService) GetByID(ctx context.Context, customerID uuid.UUID) (*CustomerResponse, error) {
	customer, err := s.customerRepo.FindByID(ctx, customerID)
	if err != nil {
		return nil, err
	}

	response := ToCustomerResponse(customer, false)
	return &response, nil
}

// List retrieves customers, newest first
func (s *CustomerService) List(ctx context.Context, filter CustomerListFilter) ([]CustomerResponse, int64, error) {
	f := shared.DefaultFilter()
	if filter.Page > 0 {
		f.Page = filter.Page
	}
	if filter.PageSize > 0 && filter.PageSize <= 200 {
		f.PageSize = filter.PageSize
	}
	f.Search = filter.Search

	customers, err := s.customerRepo.FindAll(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.customerRepo.Count(ctx, f)
	if err != nil {
		return nil, 0, err
	}

	items := make([]CustomerResponse, 0, len(customers))
	for i := range customers {
		items = append(items, ToCustomerResponse(&customers[i], false))
	}
	return items, total, nil
}

// Update applies a partial update and re-evaluates the duplicate warning
func (s *CustomerService) Update(ctx context.Context, customerID uuid.UUID, req UpdateCustomerRequest) (*CustomerResponse, error) {
	customer, err := s.customerRepo.FindByID(ctx, customerID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if err := customer.Rename(*req.Name); err != nil {
			return nil, err
		}
	}
	if req.Phone != nil || req.Email != nil {
		phone := customer.Phone
		if req.Phone != nil {
			phone = *req.Phone
		}
		email := customer.Email
		if req.Email != nil {
			email = *req.Email
		}
		if err := customer.SetContact(phone, email); err != nil {
			return nil, err
		}
	}
	if req.Address != nil {
		if err := customer.SetAddress(*req.Address); err != nil {
			return nil, err
		}
	}
	if req.Notes != nil {
		customer.SetNotes(*req.Notes)
	}
	if req.IsActive != nil && *req.IsActive != customer.IsActive() {
		if *req.IsActive {
			err = customer.Activate()
		} else {
			err = customer.Deactivate()
		}
		if err != nil {
			return nil, err
		}
	}

	warning, err := s.duplicateWarning(ctx, customer)
	if err != nil {
		return nil, err
	}

	if err := s.customerRepo.Save(ctx, customer); err != nil {
		return nil, err
	}

	response := ToCustomerResponse(customer, warning)
	return &response, nil
}

// Resolve finds an active customer by exact (name, phone) match or creates a
// new individual one with an empty structured address. No uniqueness is
// enforced on (name, phone); concurrent callers may create duplicates.
func (s *CustomerService) Resolve(ctx context.Context, name, phone string) (*CustomerResponse, error) {
	existing, err := s.customerRepo.FindActiveByNameAndPhone(ctx, name, phone)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		response := ToCustomerResponse(existing, false)
		return &response, nil
	}

	customer, err := partner.NewIndividualCustomer(name, phone)
	if err != nil {
		return nil, err
	}
	if err := s.customerRepo.Save(ctx, customer); err != nil {
		return nil, err
	}

	response := ToCustomerResponse(customer, false)
	return &response, nil
}

// duplicateWarning reports whether another active customer shares the
// normalized mobile number.
func (s *CustomerService) duplicateWarning(ctx context.Context, customer *partner.Customer) (bool, error) {
	if customer.MobileNormalized == "" {
		return false, nil
	}
	return s.customerRepo.ExistsActiveByMobile(ctx, customer.MobileNormalized, customer.ID)
}

package partner

import (
	"regexp"
	"strings"
	"time"

	"github.com/invo/backend/internal/domain/shared"
)

// CustomerStatus represents the status of a customer
type CustomerStatus string

const (
	CustomerStatusActive   CustomerStatus = "active"
	CustomerStatusInactive CustomerStatus = "inactive"
)

// CustomerType represents the type of customer
type CustomerType string

const (
	CustomerTypeIndividual   CustomerType = "individual"   // Personal customer
	CustomerTypeOrganization CustomerType = "organization" // Business/company
)

// Customer represents a customer in the partner context
// It is the aggregate root for customer-related operations
type Customer struct {
	shared.BaseAggregateRoot
	Name             string
	Type             CustomerType
	Status           CustomerStatus
	Phone            string // raw phone as supplied by the caller
	MobileNormalized string // 10-digit normalized form, empty when not derivable
	Email            string
	Address          string // structured address as a JSON object
	Notes            string
}

// TableName returns the table name for GORM
func (Customer) TableName() string {
	return "customers"
}

// NewCustomer creates a new customer with required fields
func NewCustomer(name, phone string, customerType CustomerType) (*Customer, error) {
	if err := validateCustomerName(name); err != nil {
		return nil, err
	}
	if err := validateCustomerType(customerType); err != nil {
		return nil, err
	}
	if phone != "" {
		if err := validatePhone(phone); err != nil {
			return nil, err
		}
	}

	customer := &Customer{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Type:              customerType,
		Status:            CustomerStatusActive,
		Phone:             phone,
		MobileNormalized:  NormalizeMobile(phone),
		Address:           "{}",
	}

	customer.AddDomainEvent(NewCustomerCreatedEvent(customer))

	return customer, nil
}

// NewIndividualCustomer creates a new individual customer
func NewIndividualCustomer(name, phone string) (*Customer, error) {
	return NewCustomer(name, phone, CustomerTypeIndividual)
}

// NewOrganizationCustomer creates a new organization customer
func NewOrganizationCustomer(name, phone string) (*Customer, error) {
	return NewCustomer(name, phone, CustomerTypeOrganization)
}

// Rename updates the customer's name
func (c *Customer) Rename(name string) error {
	if err := validateCustomerName(name); err != nil {
		return err
	}

	c.Name = name
	c.UpdatedAt = time.Now().UTC()
	c.IncrementVersion()

	c.AddDomainEvent(NewCustomerUpdatedEvent(c))

	return nil
}

// SetContact sets the customer's contact information and re-derives the
// normalized mobile number
func (c *Customer) SetContact(phone, email string) error {
	if phone != "" {
		if err := validatePhone(phone); err != nil {
			return err
		}
	}
	if email != "" {
		if err := validateEmail(email); err != nil {
			return err
		}
	}

	c.Phone = phone
	c.MobileNormalized = NormalizeMobile(phone)
	c.Email = email
	c.UpdatedAt = time.Now().UTC()
	c.IncrementVersion()

	c.AddDomainEvent(NewCustomerUpdatedEvent(c))

	return nil
}

// SetAddress sets the customer's structured address as a JSON object
func (c *Customer) SetAddress(address string) error {
	if address == "" {
		address = "{}"
	}
	trimmed := strings.TrimSpace(address)
	if !strings.HasPrefix(trimmed, "{") || !strings.HasSuffix(trimmed, "}") {
		return shared.NewDomainError("INVALID_ADDRESS", "Address must be a valid JSON object")
	}

	c.Address = trimmed
	c.UpdatedAt = time.Now().UTC()
	c.IncrementVersion()

	return nil
}

// SetNotes sets the customer's notes
func (c *Customer) SetNotes(notes string) {
	c.Notes = notes
	c.UpdatedAt = time.Now().UTC()
	c.IncrementVersion()
}

// Activate activates the customer
func (c *Customer) Activate() error {
	if c.Status == CustomerStatusActive {
		return shared.NewDomainError("ALREADY_ACTIVE", "Customer is already active")
	}

	oldStatus := c.Status
	c.Status = CustomerStatusActive
	c.UpdatedAt = time.Now().UTC()
	c.IncrementVersion()

	c.AddDomainEvent(NewCustomerStatusChangedEvent(c, oldStatus, CustomerStatusActive))

	return nil
}

// Deactivate deactivates the customer
func (c *Customer) Deactivate() error {
	if c.Status == CustomerStatusInactive {
		return shared.NewDomainError("ALREADY_INACTIVE", "Customer is already inactive")
	}

	oldStatus := c.Status
	c.Status = CustomerStatusInactive
	c.UpdatedAt = time.Now().UTC()
	c.IncrementVersion()

	c.AddDomainEvent(NewCustomerStatusChangedEvent(c, oldStatus, CustomerStatusInactive))

	return nil
}

// IsActive returns true if the customer is active
func (c *Customer) IsActive() bool {
	return c.Status == CustomerStatusActive
}

// IsIndividual returns true if customer is an individual
func (c *Customer) IsIndividual() bool {
	return c.Type == CustomerTypeIndividual
}

// IsOrganization returns true if customer is an organization
func (c *Customer) IsOrganization() bool {
	return c.Type == CustomerTypeOrganization
}

var nonDigits = regexp.MustCompile(`[^0-9]`)

// NormalizeMobile derives the canonical 10-digit mobile number from a raw
// phone string. Non-digit characters are stripped and a leading country code
// 91 is dropped when it makes the number 12 digits long. Anything that does
// not end up exactly 10 digits normalizes to the empty string.
func NormalizeMobile(raw string) string {
	if raw == "" {
		return ""
	}
	digits := nonDigits.ReplaceAllString(raw, "")
	if len(digits) == 12 && strings.HasPrefix(digits, "91") {
		digits = digits[2:]
	}
	if len(digits) != 10 {
		return ""
	}
	return digits
}

// Validation functions

func validateCustomerName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Customer name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Customer name cannot exceed 200 characters")
	}
	return nil
}

func validateCustomerType(t CustomerType) error {
	switch t {
	case CustomerTypeIndividual, CustomerTypeOrganization:
		return nil
	default:
		return shared.NewDomainError("INVALID_TYPE", "Customer type must be 'individual' or 'organization'")
	}
}

var validPhone = regexp.MustCompile(`^[\d\s\-\(\)\+]+$`)

func validatePhone(phone string) error {
	if len(phone) > 50 {
		return shared.NewDomainError("INVALID_PHONE", "Phone number cannot exceed 50 characters")
	}
	if !validPhone.MatchString(phone) {
		return shared.NewDomainError("INVALID_PHONE", "Invalid phone number format")
	}
	return nil
}

var validEmail = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

func validateEmail(email string) error {
	if len(email) > 200 {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot exceed 200 characters")
	}
	if !validEmail.MatchString(email) {
		return shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}
	return nil
}

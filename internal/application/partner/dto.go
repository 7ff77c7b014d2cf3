package partner

import (
	"time"

	"github.com/google/uuid"
	"github.com/invo/backend/internal/domain/partner"
)

// CreateCustomerRequest represents a request to create a new customer
type CreateCustomerRequest struct {
	Name    string `json:"name" binding:"required,min=1,max=200"`
	Phone   string `json:"phone" binding:"omitempty,phone,max=50"`
	Email   string `json:"email" binding:"omitempty,email,max=200"`
	Type    string `json:"type" binding:"omitempty,oneof=individual organization"`
	Address string `json:"address"`
	Notes   string `json:"notes"`
}

// UpdateCustomerRequest represents a partial update to a customer
type UpdateCustomerRequest struct {
	Name     *string `json:"name" binding:"omitempty,min=1,max=200"`
	Phone    *string `json:"phone" binding:"omitempty,phone,max=50"`
	Email    *string `json:"email" binding:"omitempty,email,max=200"`
	Address  *string `json:"address"`
	Notes    *string `json:"notes"`
	IsActive *bool   `json:"is_active"`
}

// CustomerListFilter represents list filtering and pagination options
type CustomerListFilter struct {
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
	Search   string `form:"search"`
}

// CustomerResponse represents a customer in API responses. DuplicateWarning
// is advisory: another active customer shares the normalized mobile number.
type CustomerResponse struct {
	ID               uuid.UUID `json:"id"`
	Name             string    `json:"name"`
	Type             string    `json:"type"`
	Phone            string    `json:"phone,omitempty"`
	MobileNormalized string    `json:"mobile_normalized,omitempty"`
	Email            string    `json:"email,omitempty"`
	Address          string    `json:"address"`
	Notes            string    `json:"notes,omitempty"`
	IsActive         bool      `json:"is_active"`
	DuplicateWarning bool      `json:"duplicate_warning"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// ToCustomerResponse converts a domain Customer to its API representation
func ToCustomerResponse(c *partner.Customer, duplicateWarning bool) CustomerResponse {
	return CustomerResponse{
		ID:               c.ID,
		Name:             c.Name,
		Type:             string(c.Type),
		Phone:            c.Phone,
		MobileNormalized: c.MobileNormalized,
		Email:            c.Email,
		Address:          c.Address,
		Notes:            c.Notes,
		IsActive:         c.IsActive(),
		DuplicateWarning: duplicateWarning,
		CreatedAt:        c.CreatedAt,
		UpdatedAt:        c.UpdatedAt,
	}
}

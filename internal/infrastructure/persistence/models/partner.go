package models

import (
	"github.com/invo/backend/internal/domain/partner"
	"github.com/invo/backend/internal/domain/shared"
)

// CustomerModel is the persistence model for partner.Customer
type CustomerModel struct {
	AggregateModel
	Name             string `gorm:"type:varchar(200);not null;index"`
	Type             string `gorm:"type:varchar(20);not null;default:'individual'"`
	Status           string `gorm:"type:varchar(20);not null;default:'active';index"`
	Phone            string `gorm:"type:varchar(50)"`
	MobileNormalized string `gorm:"type:varchar(10);index"`
	Email            string `gorm:"type:varchar(200)"`
	Address          string `gorm:"type:jsonb;not null;default:'{}'"`
	Notes            string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (CustomerModel) TableName() string {
	return "customers"
}

// ToDomain converts the persistence model to a domain Customer
func (m *CustomerModel) ToDomain() *partner.Customer {
	customer := &partner.Customer{
		BaseAggregateRoot: shared.BaseAggregateRoot{
			BaseEntity: m.BaseModel.ToDomain(),
			Version:    m.Version,
		},
		Name:             m.Name,
		Type:             partner.CustomerType(m.Type),
		Status:           partner.CustomerStatus(m.Status),
		Phone:            m.Phone,
		MobileNormalized: m.MobileNormalized,
		Email:            m.Email,
		Address:          m.Address,
		Notes:            m.Notes,
	}
	if customer.Address == "" {
		customer.Address = "{}"
	}
	return customer
}

// CustomerModelFromDomain converts a domain Customer to its persistence model
func CustomerModelFromDomain(c *partner.Customer) *CustomerModel {
	model := &CustomerModel{
		Name:             c.Name,
		Type:             string(c.Type),
		Status:           string(c.Status),
		Phone:            c.Phone,
		MobileNormalized: c.MobileNormalized,
		Email:            c.Email,
		Address:          c.Address,
		Notes:            c.Notes,
	}
	model.FromDomainAggregateRoot(c.BaseAggregateRoot)
	return model
}

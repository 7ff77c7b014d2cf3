package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/invo/backend/internal/domain/invoicing"
	"github.com/invo/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// InvoiceModel is the persistence model for invoicing.Invoice
type InvoiceModel struct {
	AggregateModel
	InvoiceNumber      string          `gorm:"type:varchar(30);not null;uniqueIndex"`
	CustomerID         uuid.UUID       `gorm:"type:uuid;not null;index"`
	InvoiceDate        time.Time       `gorm:"not null;index"`
	DueDate            *time.Time      `gorm:""`
	Subtotal           decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	DiscountAmount     decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`
	TaxRate            decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	TaxAmount          decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`
	TotalAmount        decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	PaidAmount         decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`
	PaymentStatus      string          `gorm:"type:varchar(10);not null;default:'pending';index"`
	IsCancelled        bool            `gorm:"not null;default:false"`
	IsDeleted          bool            `gorm:"not null;default:false;index"`
	ServiceType        string          `gorm:"type:varchar(100)"`
	Notes              string          `gorm:"type:text"`
	TermsAndConditions string          `gorm:"type:text"`
	PlaceOfSupply      string          `gorm:"type:varchar(10);not null;default:'KA'"`
}

// TableName returns the table name for GORM
func (InvoiceModel) TableName() string {
	return "invoices"
}

// ToDomain converts the persistence model to a domain Invoice
func (m *InvoiceModel) ToDomain() *invoicing.Invoice {
	return &invoicing.Invoice{
		BaseAggregateRoot: shared.BaseAggregateRoot{
			BaseEntity: m.BaseModel.ToDomain(),
			Version:    m.Version,
		},
		InvoiceNumber:      m.InvoiceNumber,
		CustomerID:         m.CustomerID,
		InvoiceDate:        m.InvoiceDate,
		DueDate:            m.DueDate,
		Subtotal:           m.Subtotal,
		DiscountAmount:     m.DiscountAmount,
		TaxRate:            m.TaxRate,
		TaxAmount:          m.TaxAmount,
		TotalAmount:        m.TotalAmount,
		PaidAmount:         m.PaidAmount,
		PaymentStatus:      invoicing.PaymentStatus(m.PaymentStatus),
		IsCancelled:        m.IsCancelled,
		IsDeleted:          m.IsDeleted,
		ServiceType:        m.ServiceType,
		Notes:              m.Notes,
		TermsAndConditions: m.TermsAndConditions,
		PlaceOfSupply:      m.PlaceOfSupply,
	}
}

// InvoiceModelFromDomain converts a domain Invoice to its persistence model
func InvoiceModelFromDomain(i *invoicing.Invoice) *InvoiceModel {
	model := &InvoiceModel{
		InvoiceNumber:      i.InvoiceNumber,
		CustomerID:         i.CustomerID,
		InvoiceDate:        i.InvoiceDate,
		DueDate:            i.DueDate,
		Subtotal:           i.Subtotal,
		DiscountAmount:     i.DiscountAmount,
		TaxRate:            i.TaxRate,
		TaxAmount:          i.TaxAmount,
		TotalAmount:        i.TotalAmount,
		PaidAmount:         i.PaidAmount,
		PaymentStatus:      string(i.PaymentStatus),
		IsCancelled:        i.IsCancelled,
		IsDeleted:          i.IsDeleted,
		ServiceType:        i.ServiceType,
		Notes:              i.Notes,
		TermsAndConditions: i.TermsAndConditions,
		PlaceOfSupply:      i.PlaceOfSupply,
	}
	model.FromDomainAggregateRoot(i.BaseAggregateRoot)
	return model
}

// DaySequenceCounterModel backs the per-day invoice sequence. One row per
// date key; last_seq only ever moves forward.
type DaySequenceCounterModel struct {
	DateKey   string    `gorm:"type:char(8);primary_key"`
	LastSeq   int64     `gorm:"not null;default:0"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (DaySequenceCounterModel) TableName() string {
	return "day_sequence_counters"
}

// DownloadAuditModel is the persistence model for invoicing.DownloadAudit
type DownloadAuditModel struct {
	BaseModel
	InvoiceID uuid.UUID  `gorm:"type:uuid;not null;index"`
	UserID    *uuid.UUID `gorm:"type:uuid"`
	Action    string     `gorm:"type:varchar(10);not null"`
}

// TableName returns the table name for GORM
func (DownloadAuditModel) TableName() string {
	return "invoice_download_audit"
}

// ToDomain converts the persistence model to a domain DownloadAudit
func (m *DownloadAuditModel) ToDomain() *invoicing.DownloadAudit {
	return &invoicing.DownloadAudit{
		BaseEntity: m.BaseModel.ToDomain(),
		InvoiceID:  m.InvoiceID,
		UserID:     m.UserID,
		Action:     invoicing.DownloadAction(m.Action),
	}
}

// DownloadAuditModelFromDomain converts a domain DownloadAudit to its
// persistence model
func DownloadAuditModelFromDomain(a *invoicing.DownloadAudit) *DownloadAuditModel {
	model := &DownloadAuditModel{
		InvoiceID: a.InvoiceID,
		UserID:    a.UserID,
		Action:    string(a.Action),
	}
	model.FromDomainBaseEntity(a.BaseEntity)
	return model
}

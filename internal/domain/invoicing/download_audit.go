package invoicing

import (
	"context"

	"github.com/google/uuid"
	"github.com/invo/backend/internal/domain/shared"
)

// DownloadAudit is an append-only record of a print or pdf action against an
// invoice. The actor is optional; entries are never updated or deleted by the
// application.
type DownloadAudit struct {
	shared.BaseEntity
	InvoiceID uuid.UUID
	UserID    *uuid.UUID
	Action    DownloadAction
}

// TableName returns the table name for GORM
func (DownloadAudit) TableName() string {
	return "invoice_download_audit"
}

// NewDownloadAudit creates a download audit entry for an invoice.
func NewDownloadAudit(invoiceID uuid.UUID, userID *uuid.UUID, action string) (*DownloadAudit, error) {
	if invoiceID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INVOICE", "Invoice is required")
	}
	kind, err := ValidateDownloadAction(action)
	if err != nil {
		return nil, err
	}
	return &DownloadAudit{
		BaseEntity: shared.NewBaseEntity(),
		InvoiceID:  invoiceID,
		UserID:     userID,
		Action:     kind,
	}, nil
}

// DownloadAuditRepository defines the interface for audit persistence
type DownloadAuditRepository interface {
	// Save appends an audit entry
	Save(ctx context.Context, entry *DownloadAudit) error

	// FindByInvoice returns the audit entries for an invoice, newest first
	FindByInvoice(ctx context.Context, invoiceID uuid.UUID) ([]DownloadAudit, error)
}

package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/invo/backend/internal/domain/invoicing"
	"github.com/invo/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormDownloadAuditRepository implements DownloadAuditRepository using GORM.
// The table is append-only; there is no update or delete path.
type GormDownloadAuditRepository struct {
	db *gorm.DB
}

// NewGormDownloadAuditRepository creates a new GormDownloadAuditRepository
func NewGormDownloadAuditRepository(db *gorm.DB) *GormDownloadAuditRepository {
	return &GormDownloadAuditRepository{db: db}
}

// Save appends an audit entry
func (r *GormDownloadAuditRepository) Save(ctx context.Context, entry *invoicing.DownloadAudit) error {
	model := models.DownloadAuditModelFromDomain(entry)
	return r.db.WithContext(ctx).Create(model).Error
}

// FindByInvoice returns the audit entries for an invoice, newest first
func (r *GormDownloadAuditRepository) FindByInvoice(ctx context.Context, invoiceID uuid.UUID) ([]invoicing.DownloadAudit, error) {
	var auditModels []models.DownloadAuditModel
	if err := r.db.WithContext(ctx).
		Where("invoice_id = ?", invoiceID).
		Order("created_at DESC").
		Find(&auditModels).Error; err != nil {
		return nil, err
	}

	entries := make([]invoicing.DownloadAudit, len(auditModels))
	for i, model := range auditModels {
		entries[i] = *model.ToDomain()
	}
	return entries, nil
}

// Ensure GormDownloadAuditRepository implements DownloadAuditRepository
var _ invoicing.DownloadAuditRepository = (*GormDownloadAuditRepository)(nil)

package persistence

import (
	"context"
	"fmt"

	"github.com/invo/backend/internal/domain/invoicing"
	"gorm.io/gorm"
)

// allocateSequenceSQL atomically bumps the per-day counter and returns the new
// value. The upsert makes first-allocation and increment a single statement,
// so concurrent callers serialize on the row without an explicit lock.
const allocateSequenceSQL = `
INSERT INTO day_sequence_counters (date_key, last_seq, updated_at)
VALUES (?, 1, CURRENT_TIMESTAMP)
ON CONFLICT (date_key) DO UPDATE
SET last_seq = day_sequence_counters.last_seq + 1,
    updated_at = CURRENT_TIMESTAMP
RETURNING last_seq`

// allocateSequence issues the next sequence number for dateKey on the given
// connection. Run it inside the transaction that inserts the invoice so an
// abort rolls the counter bump back with everything else.
func allocateSequence(ctx context.Context, tx *gorm.DB, dateKey string) (int64, error) {
	var lastSeq int64
	if err := tx.WithContext(ctx).Raw(allocateSequenceSQL, dateKey).Scan(&lastSeq).Error; err != nil {
		return 0, fmt.Errorf("failed to allocate sequence for %s: %w", dateKey, err)
	}
	if lastSeq < 1 {
		return 0, fmt.Errorf("sequence allocation for %s returned %d", dateKey, lastSeq)
	}
	return lastSeq, nil
}

// GormSequenceAllocator implements invoicing.SequenceAllocator on a standalone
// connection. Each Allocate call is its own transaction.
type GormSequenceAllocator struct {
	db *gorm.DB
}

// NewGormSequenceAllocator creates a new GormSequenceAllocator
func NewGormSequenceAllocator(db *gorm.DB) *GormSequenceAllocator {
	return &GormSequenceAllocator{db: db}
}

// Allocate issues the next sequence number for dateKey
func (a *GormSequenceAllocator) Allocate(ctx context.Context, dateKey string) (int64, error) {
	var seq int64
	err := a.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var txErr error
		seq, txErr = allocateSequence(ctx, tx, dateKey)
		return txErr
	})
	if err != nil {
		return 0, err
	}
	return seq, nil
}

// Ensure GormSequenceAllocator implements SequenceAllocator
var _ invoicing.SequenceAllocator = (*GormSequenceAllocator)(nil)

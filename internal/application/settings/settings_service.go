// Package settings holds runtime-adjustable business settings.
package settings

import (
	"sync"

	"github.com/invo/backend/internal/domain/shared"
	"github.com/invo/backend/internal/infrastructure/config"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Settings is a snapshot of the runtime business settings.
type Settings struct {
	DefaultTaxRate decimal.Decimal `json:"default_tax_rate"`
	PlaceOfSupply  string          `json:"place_of_supply"`
}

// UpdateSettingsRequest carries a partial settings update. Nil fields are
// left unchanged.
type UpdateSettingsRequest struct {
	DefaultTaxRate *decimal.Decimal `json:"default_tax_rate"`
	PlaceOfSupply  *string          `json:"place_of_supply" binding:"omitempty,min=1,max=10"`
}

// Service holds the mutable settings behind a lock. Invoice creation reads
// the current default rate through DefaultTaxRate on every operation, so an
// update here takes effect on the next create without a restart.
type Service struct {
	mu             sync.RWMutex
	defaultTaxRate decimal.Decimal
	placeOfSupply  string
	logger         *zap.Logger
}

// NewService seeds the runtime settings from the static configuration.
func NewService(cfg config.InvoiceConfig, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		defaultTaxRate: decimal.NewFromFloat(cfg.DefaultTaxRate),
		placeOfSupply:  cfg.PlaceOfSupply,
		logger:         logger,
	}
}

// DefaultTaxRate returns the current default tax rate. Safe for concurrent
// use with Update.
func (s *Service) DefaultTaxRate() decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.defaultTaxRate
}

// PlaceOfSupply returns the current default place of supply.
func (s *Service) PlaceOfSupply() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.placeOfSupply
}

// Snapshot returns the current settings.
func (s *Service) Snapshot() Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Settings{
		DefaultTaxRate: s.defaultTaxRate,
		PlaceOfSupply:  s.placeOfSupply,
	}
}

// Update applies a partial update and returns the resulting settings. The
// whole update is rejected when any field is invalid.
func (s *Service) Update(req UpdateSettingsRequest) (Settings, error) {
	if req.DefaultTaxRate != nil {
		rate := *req.DefaultTaxRate
		if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(100)) {
			return Settings{}, shared.NewDomainError("INVALID_TAX_RATE", "Tax rate must be between 0 and 100")
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if req.DefaultTaxRate != nil {
		s.defaultTaxRate = *req.DefaultTaxRate
	}
	if req.PlaceOfSupply != nil {
		s.placeOfSupply = *req.PlaceOfSupply
	}

	s.logger.Info("Runtime settings updated",
		zap.String("default_tax_rate", s.defaultTaxRate.String()),
		zap.String("place_of_supply", s.placeOfSupply),
	)

	return Settings{
		DefaultTaxRate: s.defaultTaxRate,
		PlaceOfSupply:  s.placeOfSupply,
	}, nil
}

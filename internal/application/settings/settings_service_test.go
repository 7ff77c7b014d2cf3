package settings

import (
	"sync"
	"testing"

	"github.com/invo/backend/internal/infrastructure/config"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService() *Service {
	return NewService(config.InvoiceConfig{
		DefaultTaxRate: 18,
		PlaceOfSupply:  "KA",
	}, nil)
}

func TestService_SeededFromConfig(t *testing.T) {
	svc := newTestService()

	assert.True(t, svc.DefaultTaxRate().Equal(decimal.NewFromInt(18)))
	assert.Equal(t, "KA", svc.PlaceOfSupply())

	snap := svc.Snapshot()
	assert.True(t, snap.DefaultTaxRate.Equal(decimal.NewFromInt(18)))
	assert.Equal(t, "KA", snap.PlaceOfSupply)
}

func TestService_UpdateChangesNextRead(t *testing.T) {
	svc := newTestService()

	rate := decimal.NewFromInt(12)
	updated, err := svc.Update(UpdateSettingsRequest{DefaultTaxRate: &rate})
	require.NoError(t, err)

	assert.True(t, updated.DefaultTaxRate.Equal(rate))
	assert.True(t, svc.DefaultTaxRate().Equal(rate))
	// untouched field survives a partial update
	assert.Equal(t, "KA", svc.PlaceOfSupply())
}

func TestService_UpdatePlaceOfSupply(t *testing.T) {
	svc := newTestService()

	place := "MH"
	updated, err := svc.Update(UpdateSettingsRequest{PlaceOfSupply: &place})
	require.NoError(t, err)

	assert.Equal(t, "MH", updated.PlaceOfSupply)
	assert.True(t, svc.DefaultTaxRate().Equal(decimal.NewFromInt(18)))
}

func TestService_UpdateRejectsOutOfRangeRate(t *testing.T) {
	svc := newTestService()

	for _, rate := range []decimal.Decimal{
		decimal.NewFromInt(-1),
		decimal.NewFromInt(101),
	} {
		r := rate
		_, err := svc.Update(UpdateSettingsRequest{DefaultTaxRate: &r})
		require.Error(t, err)
	}

	// rejected updates leave the settings untouched
	assert.True(t, svc.DefaultTaxRate().Equal(decimal.NewFromInt(18)))
}

func TestService_UpdateRejectionIsAtomic(t *testing.T) {
	svc := newTestService()

	bad := decimal.NewFromInt(200)
	place := "MH"
	_, err := svc.Update(UpdateSettingsRequest{DefaultTaxRate: &bad, PlaceOfSupply: &place})
	require.Error(t, err)

	assert.Equal(t, "KA", svc.PlaceOfSupply())
}

func TestService_ConcurrentReadsDuringUpdate(t *testing.T) {
	svc := newTestService()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = svc.DefaultTaxRate()
		}()
		go func() {
			defer wg.Done()
			rate := decimal.NewFromInt(12)
			_, _ = svc.Update(UpdateSettingsRequest{DefaultTaxRate: &rate})
		}()
	}
	wg.Wait()

	assert.True(t, svc.DefaultTaxRate().Equal(decimal.NewFromInt(12)))
}

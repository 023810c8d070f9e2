package catalog

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stitchworks/backend/internal/domain/shared/valueobject"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProduct(t *testing.T) {
	t.Run("creates product with valid inputs", func(t *testing.T) {
		p, err := NewProduct("TS-001", "Crewneck T-Shirt", ItemTypeFinishedGood)

		require.NoError(t, err)
		assert.Equal(t, "TS-001", p.Code)
		assert.Equal(t, "Crewneck T-Shirt", p.Name)
		assert.Equal(t, ItemTypeFinishedGood, p.ItemType)
		assert.True(t, p.Active)
		assert.True(t, p.UnitCost.IsZero())
		assert.Len(t, p.GetDomainEvents(), 1)
		assert.Equal(t, EventTypeProductCreated, p.GetDomainEvents()[0].EventType())
	})

	t.Run("fails with empty code", func(t *testing.T) {
		_, err := NewProduct("", "Crewneck T-Shirt", ItemTypeFinishedGood)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "code cannot be empty")
	})

	t.Run("fails with empty name", func(t *testing.T) {
		_, err := NewProduct("TS-001", "", ItemTypeFinishedGood)
		require.Error(t, err)
	})

	t.Run("fails with unknown item type", func(t *testing.T) {
		_, err := NewProduct("TS-001", "Crewneck T-Shirt", ItemType("WIDGET"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Unknown item type")
	})
}

func TestItemType(t *testing.T) {
	t.Run("validity", func(t *testing.T) {
		assert.True(t, ItemTypeFinishedGood.IsValid())
		assert.True(t, ItemTypeRawMaterial.IsValid())
		assert.True(t, ItemTypePackaging.IsValid())
		assert.False(t, ItemType("").IsValid())
		assert.False(t, ItemType("SERVICE").IsValid())
	})

	t.Run("replenishable excludes packaging", func(t *testing.T) {
		assert.True(t, ItemTypeFinishedGood.IsReplenishable())
		assert.True(t, ItemTypeRawMaterial.IsReplenishable())
		assert.False(t, ItemTypePackaging.IsReplenishable())
	})
}

func TestProduct_SetReplenishmentParameters(t *testing.T) {
	p, err := NewProduct("FAB-001", "Jersey Fabric", ItemTypeRawMaterial)
	require.NoError(t, err)

	t.Run("sets parameters", func(t *testing.T) {
		err := p.SetReplenishmentParameters(7, decimal.NewFromInt(50), decimal.NewFromFloat(0.2), decimal.NewFromInt(10))

		require.NoError(t, err)
		assert.Equal(t, 7, p.LeadTimeDays)
		assert.True(t, p.OrderCost.Equal(decimal.NewFromInt(50)))
		assert.True(t, p.HoldingCostPct.Equal(decimal.NewFromFloat(0.2)))
		assert.True(t, p.LowThreshold.Equal(decimal.NewFromInt(10)))
	})

	t.Run("rejects negative lead time", func(t *testing.T) {
		err := p.SetReplenishmentParameters(-1, decimal.Zero, decimal.Zero, decimal.Zero)
		require.Error(t, err)
	})

	t.Run("rejects negative cost parameters", func(t *testing.T) {
		err := p.SetReplenishmentParameters(7, decimal.NewFromInt(-1), decimal.Zero, decimal.Zero)
		require.Error(t, err)
	})
}

func TestProduct_Pricing(t *testing.T) {
	p, err := NewProduct("TS-001", "Crewneck T-Shirt", ItemTypeFinishedGood)
	require.NoError(t, err)

	require.NoError(t, p.SetPrices(decimal.NewFromInt(25), decimal.NewFromInt(14)))

	assert.True(t, p.PriceFor(PriceTierRetail).Equal(decimal.NewFromInt(25)))
	assert.True(t, p.PriceFor(PriceTierWholesale).Equal(decimal.NewFromInt(14)))

	t.Run("rejects negative prices", func(t *testing.T) {
		err := p.SetPrices(decimal.NewFromInt(-1), decimal.Zero)
		require.Error(t, err)
	})
}

func TestProduct_UpdateUnitCost(t *testing.T) {
	p, err := NewProduct("FAB-001", "Jersey Fabric", ItemTypeRawMaterial)
	require.NoError(t, err)
	p.ClearDomainEvents()

	t.Run("updates cost and emits change event", func(t *testing.T) {
		err := p.UpdateUnitCost(valueobject.NewMoneyUSDFromFloat(4.25))

		require.NoError(t, err)
		assert.True(t, p.UnitCost.Equal(decimal.NewFromFloat(4.25)))
		require.Len(t, p.GetDomainEvents(), 1)
		assert.Equal(t, EventTypeProductCostChanged, p.GetDomainEvents()[0].EventType())
	})

	t.Run("no event when cost unchanged", func(t *testing.T) {
		p.ClearDomainEvents()
		err := p.UpdateUnitCost(valueobject.NewMoneyUSDFromFloat(4.25))

		require.NoError(t, err)
		assert.Empty(t, p.GetDomainEvents())
	})

	t.Run("rejects negative cost", func(t *testing.T) {
		err := p.UpdateUnitCost(valueobject.NewMoneyUSDFromFloat(-1))
		require.Error(t, err)
	})
}

package inventory

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStockMovement(t *testing.T) {
	productID := uuid.New()

	t.Run("creates consistent inbound movement", func(t *testing.T) {
		m, err := NewStockMovement(productID, "MAIN", "B-001", MovementTypeReceipt,
			decimal.NewFromInt(10), decimal.NewFromInt(5), decimal.NewFromInt(15),
			SourceTypePurchaseOrder, "PO-001")

		require.NoError(t, err)
		assert.True(t, m.IsInbound())
	})

	t.Run("creates consistent outbound movement", func(t *testing.T) {
		m, err := NewStockMovement(productID, "MAIN", "B-001", MovementTypeConsumption,
			decimal.NewFromInt(-4), decimal.NewFromInt(15), decimal.NewFromInt(11),
			SourceTypeSalesOrder, "SO-001")

		require.NoError(t, err)
		assert.False(t, m.IsInbound())
	})

	t.Run("rejects inconsistent before/after", func(t *testing.T) {
		_, err := NewStockMovement(productID, "MAIN", "B-001", MovementTypeReceipt,
			decimal.NewFromInt(10), decimal.NewFromInt(5), decimal.NewFromInt(20),
			SourceTypePurchaseOrder, "PO-001")
		require.Error(t, err)
	})

	t.Run("rejects zero quantity", func(t *testing.T) {
		_, err := NewStockMovement(productID, "MAIN", "B-001", MovementTypeReceipt,
			decimal.Zero, decimal.NewFromInt(5), decimal.NewFromInt(5),
			SourceTypePurchaseOrder, "PO-001")
		require.Error(t, err)
	})

	t.Run("rejects unknown type", func(t *testing.T) {
		_, err := NewStockMovement(productID, "MAIN", "B-001", MovementType("TELEPORT"),
			decimal.NewFromInt(1), decimal.Zero, decimal.NewFromInt(1),
			SourceTypeManual, "")
		require.Error(t, err)
	})
}

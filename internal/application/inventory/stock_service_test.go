package inventory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	appinventory "github.com/stitchworks/backend/internal/application/inventory"
	"github.com/stitchworks/backend/internal/application/inventory/inventorytest"
	"github.com/stitchworks/backend/internal/domain/inventory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedLot(t *testing.T, s *appinventory.StockService, productID uuid.UUID, location, batch string, qty int64, expiresAt *time.Time) {
	t.Helper()
	_, err := s.Produce(context.Background(), appinventory.ProduceInput{
		ProductID:   productID,
		Location:    location,
		Quantity:    decimal.NewFromInt(qty),
		BatchNumber: batch,
		UnitCost:    decimal.NewFromInt(10),
		ExpiresAt:   expiresAt,
		SourceType:  inventory.SourceTypeManual,
		SourceID:    "seed",
	})
	require.NoError(t, err)
}

func TestStockServiceProduce(t *testing.T) {
	ctx := context.Background()

	t.Run("new batch appends a record", func(t *testing.T) {
		s, records, movements, _ := inventorytest.NewStockService()
		productID := uuid.New()

		seedLot(t, s, productID, "MAIN", "B-1", 40, nil)

		total, err := records.TotalByProduct(ctx, productID)
		require.NoError(t, err)
		assert.True(t, total.Equal(decimal.NewFromInt(40)))

		net, err := movements.NetByProduct(ctx, productID)
		require.NoError(t, err)
		assert.True(t, net.Equal(decimal.NewFromInt(40)))
	})

	t.Run("existing lot merges quantities", func(t *testing.T) {
		s, records, _, _ := inventorytest.NewStockService()
		productID := uuid.New()

		seedLot(t, s, productID, "MAIN", "B-1", 40, nil)
		seedLot(t, s, productID, "MAIN", "B-1", 10, nil)

		lot, err := records.FindLot(ctx, productID, "MAIN", "B-1")
		require.NoError(t, err)
		assert.True(t, lot.Quantity.Equal(decimal.NewFromInt(50)))

		level, err := s.StockLevel(ctx, productID)
		require.NoError(t, err)
		require.Len(t, level.Records, 1)
	})
}

func TestStockServiceAllocate(t *testing.T) {
	ctx := context.Background()

	t.Run("fefo draws earliest expiry then fifo", func(t *testing.T) {
		s, _, _, _ := inventorytest.NewStockService()
		productID := uuid.New()
		soon := time.Now().Add(24 * time.Hour)
		later := time.Now().Add(96 * time.Hour)

		seedLot(t, s, productID, "MAIN", "LATER", 50, &later)
		seedLot(t, s, productID, "MAIN", "SOON", 50, &soon)

		plan, err := s.Allocate(ctx, appinventory.AllocateInput{ProductID: productID, Quantity: decimal.NewFromInt(60)})
		require.NoError(t, err)
		require.Len(t, plan, 2)
		assert.Equal(t, "SOON", plan[0].BatchNumber)
		assert.True(t, plan[0].Quantity.Equal(decimal.NewFromInt(50)))
		assert.Equal(t, "LATER", plan[1].BatchNumber)
		assert.True(t, plan[1].Quantity.Equal(decimal.NewFromInt(10)))
	})

	t.Run("batch walk per scenario one", func(t *testing.T) {
		s, records, _, _ := inventorytest.NewStockService()
		productID := uuid.New()

		seedLot(t, s, productID, "MAIN", "A", 40, nil)
		seedLot(t, s, productID, "MAIN", "B", 10, nil)

		plan, err := s.Allocate(ctx, appinventory.AllocateInput{ProductID: productID, Quantity: decimal.NewFromInt(45)})
		require.NoError(t, err)
		require.Len(t, plan, 2)
		assert.True(t, plan[0].Quantity.Equal(decimal.NewFromInt(40)))
		assert.True(t, plan[1].Quantity.Equal(decimal.NewFromInt(5)))

		lotA, err := records.FindLot(ctx, productID, "MAIN", "A")
		require.NoError(t, err)
		assert.True(t, lotA.Quantity.IsZero())

		lotB, err := records.FindLot(ctx, productID, "MAIN", "B")
		require.NoError(t, err)
		assert.True(t, lotB.Quantity.Equal(decimal.NewFromInt(5)))
	})

	t.Run("shortfall mutates nothing", func(t *testing.T) {
		s, records, movements, _ := inventorytest.NewStockService()
		productID := uuid.New()

		seedLot(t, s, productID, "MAIN", "B-1", 3, nil)

		_, err := s.Allocate(ctx, appinventory.AllocateInput{ProductID: productID, Quantity: decimal.NewFromInt(5)})
		require.Error(t, err)

		var short *inventory.InsufficientStockError
		require.True(t, errors.As(err, &short))
		assert.True(t, short.Required.Equal(decimal.NewFromInt(5)))
		assert.True(t, short.Available.Equal(decimal.NewFromInt(3)))

		total, err := records.TotalByProduct(ctx, productID)
		require.NoError(t, err)
		assert.True(t, total.Equal(decimal.NewFromInt(3)))

		net, err := movements.NetByProduct(ctx, productID)
		require.NoError(t, err)
		assert.True(t, net.Equal(decimal.NewFromInt(3)))
	})

	t.Run("allocate then produce restores total", func(t *testing.T) {
		s, records, _, _ := inventorytest.NewStockService()
		productID := uuid.New()

		seedLot(t, s, productID, "MAIN", "B-1", 40, nil)

		_, err := s.Allocate(ctx, appinventory.AllocateInput{ProductID: productID, Quantity: decimal.NewFromInt(15)})
		require.NoError(t, err)

		seedLot(t, s, productID, "MAIN", "B-1", 15, nil)

		total, err := records.TotalByProduct(ctx, productID)
		require.NoError(t, err)
		assert.True(t, total.Equal(decimal.NewFromInt(40)))
	})

	t.Run("reconciliation invariant holds through mutations", func(t *testing.T) {
		s, _, _, _ := inventorytest.NewStockService()
		productID := uuid.New()

		seedLot(t, s, productID, "MAIN", "B-1", 100, nil)
		_, err := s.Allocate(ctx, appinventory.AllocateInput{ProductID: productID, Quantity: decimal.NewFromInt(30)})
		require.NoError(t, err)
		seedLot(t, s, productID, "MAIN", "B-2", 20, nil)

		ok, err := s.VerifyReconciliation(ctx, productID)
		require.NoError(t, err)
		assert.True(t, ok)
	})
}

func TestStockServiceTransfer(t *testing.T) {
	ctx := context.Background()

	t.Run("moves quantity and preserves batch identity", func(t *testing.T) {
		s, records, _, _ := inventorytest.NewStockService()
		productID := uuid.New()
		expiry := time.Now().Add(48 * time.Hour)

		seedLot(t, s, productID, "MAIN", "B-1", 30, &expiry)
		seedLot(t, s, productID, "MAIN", "B-2", 30, nil)

		plan, err := s.Transfer(ctx, appinventory.TransferInput{ProductID: productID, From: "MAIN", To: "OUTLET", Quantity: decimal.NewFromInt(40)})
		require.NoError(t, err)
		require.Len(t, plan, 2)

		atMain, err := records.FindByProductAndLocation(ctx, productID, "MAIN")
		require.NoError(t, err)
		assert.True(t, inventory.TotalQuantity(atMain).Equal(decimal.NewFromInt(20)))

		atOutlet, err := records.FindByProductAndLocation(ctx, productID, "OUTLET")
		require.NoError(t, err)
		assert.True(t, inventory.TotalQuantity(atOutlet).Equal(decimal.NewFromInt(40)))

		// batch identity and expiry survive the move
		moved, err := records.FindLot(ctx, productID, "OUTLET", "B-1")
		require.NoError(t, err)
		require.NotNil(t, moved.ExpiresAt)
		assert.True(t, moved.ExpiresAt.Equal(expiry))

		total, err := records.TotalByProduct(ctx, productID)
		require.NoError(t, err)
		assert.True(t, total.Equal(decimal.NewFromInt(60)))
	})

	t.Run("rejects same source and destination", func(t *testing.T) {
		s, _, _, _ := inventorytest.NewStockService()

		_, err := s.Transfer(ctx, appinventory.TransferInput{ProductID: uuid.New(), From: "MAIN", To: "MAIN", Quantity: decimal.NewFromInt(1)})
		var invalid *inventory.InvalidTransferError
		require.True(t, errors.As(err, &invalid))
	})

	t.Run("fails at location scope without touching other locations", func(t *testing.T) {
		s, records, _, _ := inventorytest.NewStockService()
		productID := uuid.New()

		seedLot(t, s, productID, "MAIN", "B-1", 5, nil)
		seedLot(t, s, productID, "OUTLET", "B-2", 50, nil)

		_, err := s.Transfer(ctx, appinventory.TransferInput{ProductID: productID, From: "MAIN", To: "STORE", Quantity: decimal.NewFromInt(10)})
		var short *inventory.InsufficientStockError
		require.True(t, errors.As(err, &short))
		assert.Equal(t, "MAIN", short.Location)

		total, err := records.TotalByProduct(ctx, productID)
		require.NoError(t, err)
		assert.True(t, total.Equal(decimal.NewFromInt(55)))
	})
}

func TestStockServiceExpiringBatches(t *testing.T) {
	ctx := context.Background()
	s, _, _, _ := inventorytest.NewStockService()
	productID := uuid.New()

	nearExpiry := time.Now().Add(3 * 24 * time.Hour)
	farExpiry := time.Now().Add(60 * 24 * time.Hour)
	seedLot(t, s, productID, "MAIN", "NEAR", 10, &nearExpiry)
	seedLot(t, s, productID, "MAIN", "FAR", 10, &farExpiry)
	seedLot(t, s, productID, "MAIN", "NONE", 10, nil)

	expiring, err := s.ExpiringBatches(ctx, 7*24*time.Hour)
	require.NoError(t, err)
	require.Len(t, expiring, 1)
	assert.Equal(t, "NEAR", expiring[0].BatchNumber)
}

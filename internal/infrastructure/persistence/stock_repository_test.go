package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	appinventory "github.com/stitchworks/backend/internal/application/inventory"
	"github.com/stitchworks/backend/internal/domain/inventory"
	"github.com/stitchworks/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustRecord(t *testing.T, productID uuid.UUID, location, batch string, qty int64, expiresAt *time.Time) *inventory.StockRecord {
	t.Helper()
	record, err := inventory.NewStockRecord(productID, location, batch,
		decimal.NewFromInt(qty), decimal.NewFromInt(5), time.Now(), expiresAt)
	require.NoError(t, err)
	return record
}

func TestGormStockRecordRepository(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewGormStockRecordRepository(db)

	productID := uuid.New()
	otherProduct := uuid.New()

	expiry := time.Now().Add(10 * 24 * time.Hour)
	require.NoError(t, repo.Save(ctx, mustRecord(t, productID, "MAIN", "LOT-A", 100, &expiry)))
	require.NoError(t, repo.Save(ctx, mustRecord(t, productID, "MAIN", "LOT-B", 50, nil)))
	require.NoError(t, repo.Save(ctx, mustRecord(t, productID, "OUTLET", "LOT-C", 25, nil)))
	require.NoError(t, repo.Save(ctx, mustRecord(t, otherProduct, "MAIN", "LOT-D", 7, nil)))

	t.Run("find lot by exact key", func(t *testing.T) {
		lot, err := repo.FindLot(ctx, productID, "MAIN", "LOT-B")
		require.NoError(t, err)
		assert.True(t, lot.Quantity.Equal(decimal.NewFromInt(50)))

		_, err = repo.FindLot(ctx, productID, "MAIN", "LOT-MISSING")
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("find by product spans locations", func(t *testing.T) {
		records, err := repo.FindByProduct(ctx, productID)
		require.NoError(t, err)
		assert.Len(t, records, 3)
	})

	t.Run("find by product and location", func(t *testing.T) {
		records, err := repo.FindByProductAndLocation(ctx, productID, "MAIN")
		require.NoError(t, err)
		assert.Len(t, records, 2)
	})

	t.Run("total by product sums all lots", func(t *testing.T) {
		total, err := repo.TotalByProduct(ctx, productID)
		require.NoError(t, err)
		assert.True(t, total.Equal(decimal.NewFromInt(175)), "got %s", total)
	})

	t.Run("total of unknown product is zero", func(t *testing.T) {
		total, err := repo.TotalByProduct(ctx, uuid.New())
		require.NoError(t, err)
		assert.True(t, total.IsZero())
	})

	t.Run("find with stock skips zero lots", func(t *testing.T) {
		drained := mustRecord(t, productID, "MAIN", "LOT-E", 10, nil)
		require.NoError(t, drained.Deduct(decimal.NewFromInt(10)))
		require.NoError(t, repo.Save(ctx, drained))

		records, err := repo.FindWithStock(ctx, "MAIN")
		require.NoError(t, err)
		for _, r := range records {
			assert.True(t, r.Quantity.GreaterThan(decimal.Zero))
			assert.Equal(t, "MAIN", r.Location)
		}
		assert.Len(t, records, 3)
	})

	t.Run("expiring lots before the deadline", func(t *testing.T) {
		expiring, err := repo.FindExpiringWithin(ctx, time.Now().Add(30*24*time.Hour))
		require.NoError(t, err)
		require.Len(t, expiring, 1)
		assert.Equal(t, "LOT-A", expiring[0].BatchNumber)
	})
}

func TestGormStockMovementRepository(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewGormStockMovementRepository(db)

	productID := uuid.New()

	receipt, err := inventory.NewStockMovement(productID, "MAIN", "LOT-A",
		inventory.MovementTypeReceipt, decimal.NewFromInt(100), decimal.Zero, decimal.NewFromInt(100),
		inventory.SourceTypePurchaseOrder, "PO-1")
	require.NoError(t, err)

	consumption, err := inventory.NewStockMovement(productID, "MAIN", "LOT-A",
		inventory.MovementTypeConsumption, decimal.NewFromInt(-30), decimal.NewFromInt(100), decimal.NewFromInt(70),
		inventory.SourceTypeSalesOrder, "SO-1")
	require.NoError(t, err)

	require.NoError(t, repo.Append(ctx, receipt, consumption))

	t.Run("journal nets to current stock", func(t *testing.T) {
		net, err := repo.NetByProduct(ctx, productID)
		require.NoError(t, err)
		assert.True(t, net.Equal(decimal.NewFromInt(70)), "got %s", net)
	})

	t.Run("journal for a product pages newest first", func(t *testing.T) {
		movements, err := repo.FindByProduct(ctx, productID, shared.Filter{Page: 1, PageSize: 1})
		require.NoError(t, err)
		require.Len(t, movements, 1)
	})

	t.Run("unknown product nets to zero", func(t *testing.T) {
		net, err := repo.NetByProduct(ctx, uuid.New())
		require.NoError(t, err)
		assert.True(t, net.IsZero())
	})
}

func TestGormCycleCountRepository(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	records := NewGormStockRecordRepository(db)
	repo := NewGormCycleCountRepository(db)

	productID := uuid.New()
	lot := mustRecord(t, productID, "MAIN", "LOT-A", 40, nil)
	require.NoError(t, records.Save(ctx, lot))

	count, err := inventory.NewCycleCount("CC-2026-001", "MAIN", []inventory.StockRecord{*lot})
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, count))

	t.Run("round trip keeps the item snapshot", func(t *testing.T) {
		loaded, err := repo.FindByID(ctx, count.ID)
		require.NoError(t, err)
		assert.Equal(t, "CC-2026-001", loaded.CountNumber)
		require.Len(t, loaded.Items, 1)
		assert.Equal(t, lot.ID, loaded.Items[0].StockRecordID)
		assert.True(t, loaded.Items[0].SystemQuantity.Equal(decimal.NewFromInt(40)))
	})

	t.Run("recorded counts persist", func(t *testing.T) {
		loaded, err := repo.FindByID(ctx, count.ID)
		require.NoError(t, err)
		require.NoError(t, loaded.RecordCount(lot.ID, decimal.NewFromInt(38)))
		require.NoError(t, repo.Save(ctx, loaded))

		again, err := repo.FindByID(ctx, count.ID)
		require.NoError(t, err)
		require.Len(t, again.Items, 1)
		assert.True(t, again.Items[0].Counted)
		assert.True(t, again.Items[0].Variance.Equal(decimal.NewFromInt(-2)))
	})

	t.Run("listing omits items", func(t *testing.T) {
		counts, err := repo.FindAll(ctx, shared.DefaultFilter())
		require.NoError(t, err)
		require.Len(t, counts, 1)
		assert.Empty(t, counts[0].Items)
	})
}

func TestGormTransactionScope(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	scope := NewGormTransactionScope(db)
	records := NewGormStockRecordRepository(db)

	productID := uuid.New()
	require.NoError(t, records.Save(ctx, mustRecord(t, productID, "MAIN", "LOT-A", 100, nil)))

	t.Run("an error rolls back every mutation", func(t *testing.T) {
		err := scope.Execute(ctx, func(repos appinventory.TransactionalRepositories) error {
			lot, err := repos.StockRecords().FindLot(ctx, productID, "MAIN", "LOT-A")
			require.NoError(t, err)
			require.NoError(t, lot.Deduct(decimal.NewFromInt(60)))
			require.NoError(t, repos.StockRecords().Save(ctx, lot))
			return assert.AnError
		})
		require.ErrorIs(t, err, assert.AnError)

		lot, err := records.FindLot(ctx, productID, "MAIN", "LOT-A")
		require.NoError(t, err)
		assert.True(t, lot.Quantity.Equal(decimal.NewFromInt(100)), "rollback must restore the lot")
	})

	t.Run("success commits records and journal together", func(t *testing.T) {
		err := scope.Execute(ctx, func(repos appinventory.TransactionalRepositories) error {
			lot, err := repos.StockRecords().FindLot(ctx, productID, "MAIN", "LOT-A")
			if err != nil {
				return err
			}
			if err := lot.Deduct(decimal.NewFromInt(40)); err != nil {
				return err
			}
			if err := repos.StockRecords().Save(ctx, lot); err != nil {
				return err
			}
			movement, err := inventory.NewStockMovement(productID, "MAIN", "LOT-A",
				inventory.MovementTypeConsumption, decimal.NewFromInt(-40),
				decimal.NewFromInt(100), decimal.NewFromInt(60),
				inventory.SourceTypeSalesOrder, "SO-9")
			if err != nil {
				return err
			}
			return repos.Movements().Append(ctx, movement)
		})
		require.NoError(t, err)

		lot, err := records.FindLot(ctx, productID, "MAIN", "LOT-A")
		require.NoError(t, err)
		assert.True(t, lot.Quantity.Equal(decimal.NewFromInt(60)))

		net, err := NewGormStockMovementRepository(db).NetByProduct(ctx, productID)
		require.NoError(t, err)
		assert.True(t, net.Equal(decimal.NewFromInt(-40)))
	})
}

package inventory

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeRecord(t *testing.T, productID uuid.UUID, location, batch string, qty int64, receivedAt time.Time, expiresAt *time.Time) StockRecord {
	t.Helper()
	r, err := NewStockRecord(productID, location, batch, decimal.NewFromInt(qty), decimal.NewFromInt(5), receivedAt, expiresAt)
	require.NoError(t, err)
	return *r
}

func TestPlanAllocation_FEFOOrdering(t *testing.T) {
	productID := uuid.New()
	day1 := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	day2 := day1.AddDate(0, 0, 1)
	expSoon := day1.AddDate(0, 6, 0)
	expLater := day1.AddDate(1, 0, 0)

	t.Run("draws from soonest-expiry batch first", func(t *testing.T) {
		records := []StockRecord{
			makeRecord(t, productID, "MAIN", "B-LATER", 50, day1, &expLater),
			makeRecord(t, productID, "MAIN", "B-SOON", 50, day2, &expSoon),
		}

		allocations, err := PlanAllocation(productID, records, decimal.NewFromInt(30), PolicyFEFO)

		require.NoError(t, err)
		require.Len(t, allocations, 1)
		assert.Equal(t, "B-SOON", allocations[0].BatchNumber)
		assert.True(t, allocations[0].Quantity.Equal(decimal.NewFromInt(30)))
	})

	t.Run("nil expiry sorts after dated expiry", func(t *testing.T) {
		records := []StockRecord{
			makeRecord(t, productID, "MAIN", "B-NOEXP", 50, day1, nil),
			makeRecord(t, productID, "MAIN", "B-DATED", 50, day2, &expLater),
		}

		allocations, err := PlanAllocation(productID, records, decimal.NewFromInt(10), PolicyFEFO)

		require.NoError(t, err)
		require.Len(t, allocations, 1)
		assert.Equal(t, "B-DATED", allocations[0].BatchNumber)
	})

	t.Run("falls back to received order when neither expires", func(t *testing.T) {
		records := []StockRecord{
			makeRecord(t, productID, "MAIN", "B-NEW", 50, day2, nil),
			makeRecord(t, productID, "MAIN", "B-OLD", 50, day1, nil),
		}

		allocations, err := PlanAllocation(productID, records, decimal.NewFromInt(10), PolicyFEFO)

		require.NoError(t, err)
		require.Len(t, allocations, 1)
		assert.Equal(t, "B-OLD", allocations[0].BatchNumber)
	})
}

func TestPlanAllocation_SpansBatches(t *testing.T) {
	// Batch A qty=40 received day 1 (no expiry), batch B qty=10 received day 2.
	// Requesting 45 takes 40 from A and 5 from B.
	productID := uuid.New()
	day1 := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	day2 := day1.AddDate(0, 0, 1)

	records := []StockRecord{
		makeRecord(t, productID, "MAIN", "A", 40, day1, nil),
		makeRecord(t, productID, "MAIN", "B", 10, day2, nil),
	}

	allocations, err := PlanAllocation(productID, records, decimal.NewFromInt(45), PolicyFEFO)

	require.NoError(t, err)
	require.Len(t, allocations, 2)
	assert.Equal(t, "A", allocations[0].BatchNumber)
	assert.True(t, allocations[0].Quantity.Equal(decimal.NewFromInt(40)))
	assert.Equal(t, "B", allocations[1].BatchNumber)
	assert.True(t, allocations[1].Quantity.Equal(decimal.NewFromInt(5)))
	assert.True(t, AllocatedTotal(allocations).Equal(decimal.NewFromInt(45)))
}

func TestPlanAllocation_InsufficientStock(t *testing.T) {
	productID := uuid.New()
	day1 := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	records := []StockRecord{
		makeRecord(t, productID, "MAIN", "A", 3, day1, nil),
	}

	t.Run("fails without planning anything", func(t *testing.T) {
		_, err := PlanAllocation(productID, records, decimal.NewFromInt(5), PolicyFEFO)

		var short *InsufficientStockError
		require.ErrorAs(t, err, &short)
		assert.True(t, short.Required.Equal(decimal.NewFromInt(5)))
		assert.True(t, short.Available.Equal(decimal.NewFromInt(3)))
		// planning never mutates the records
		assert.True(t, records[0].Quantity.Equal(decimal.NewFromInt(3)))
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		_, err := PlanAllocation(productID, records, decimal.Zero, PolicyFEFO)
		require.Error(t, err)
	})

	t.Run("rejects unknown policy", func(t *testing.T) {
		_, err := PlanAllocation(productID, records, decimal.NewFromInt(1), OutboundPolicy("LIFO"))
		require.Error(t, err)
	})
}

func TestPlanAllocationAt(t *testing.T) {
	productID := uuid.New()
	day1 := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	records := []StockRecord{
		makeRecord(t, productID, "MAIN", "A", 10, day1, nil),
		makeRecord(t, productID, "OUTLET", "B", 100, day1, nil),
	}

	t.Run("only considers the requested location", func(t *testing.T) {
		_, err := PlanAllocationAt(productID, records, "MAIN", decimal.NewFromInt(20), PolicyFEFO)

		var short *InsufficientStockError
		require.ErrorAs(t, err, &short)
		assert.Equal(t, "MAIN", short.Location)
		assert.True(t, short.Available.Equal(decimal.NewFromInt(10)))
	})

	t.Run("satisfies within the location", func(t *testing.T) {
		allocations, err := PlanAllocationAt(productID, records, "OUTLET", decimal.NewFromInt(20), PolicyFEFO)

		require.NoError(t, err)
		require.Len(t, allocations, 1)
		assert.Equal(t, "OUTLET", allocations[0].Location)
	})

	t.Run("rejects empty location", func(t *testing.T) {
		_, err := PlanAllocationAt(productID, records, "", decimal.NewFromInt(1), PolicyFEFO)
		require.Error(t, err)
	})
}

func TestApplyAllocations(t *testing.T) {
	productID := uuid.New()
	day1 := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	day2 := day1.AddDate(0, 0, 1)

	t.Run("commits the plan and never drives quantity negative", func(t *testing.T) {
		a := makeRecord(t, productID, "MAIN", "A", 40, day1, nil)
		b := makeRecord(t, productID, "MAIN", "B", 10, day2, nil)
		records := []StockRecord{a, b}

		plan, err := PlanAllocation(productID, records, decimal.NewFromInt(45), PolicyFEFO)
		require.NoError(t, err)

		err = ApplyAllocations([]*StockRecord{&a, &b}, plan)

		require.NoError(t, err)
		assert.True(t, a.Quantity.IsZero())
		assert.True(t, b.Quantity.Equal(decimal.NewFromInt(5)))
	})

	t.Run("fails on stale snapshot", func(t *testing.T) {
		a := makeRecord(t, productID, "MAIN", "A", 40, day1, nil)
		plan, err := PlanAllocation(productID, []StockRecord{a}, decimal.NewFromInt(40), PolicyFEFO)
		require.NoError(t, err)

		// record drained between plan and commit
		require.NoError(t, a.Deduct(decimal.NewFromInt(35)))

		err = ApplyAllocations([]*StockRecord{&a}, plan)
		require.Error(t, err)
	})

	t.Run("fails when a planned record is missing", func(t *testing.T) {
		a := makeRecord(t, productID, "MAIN", "A", 40, day1, nil)
		plan, err := PlanAllocation(productID, []StockRecord{a}, decimal.NewFromInt(10), PolicyFEFO)
		require.NoError(t, err)

		err = ApplyAllocations([]*StockRecord{}, plan)
		require.Error(t, err)
	})
}

func TestWeightedUnitCost(t *testing.T) {
	allocations := []Allocation{
		{Quantity: decimal.NewFromInt(10), UnitCost: decimal.NewFromInt(2)},
		{Quantity: decimal.NewFromInt(30), UnitCost: decimal.NewFromInt(4)},
	}

	// (10*2 + 30*4) / 40 = 3.5
	assert.True(t, WeightedUnitCost(allocations).Equal(decimal.NewFromFloat(3.5)))
	assert.True(t, WeightedUnitCost(nil).IsZero())
}

func TestSortForOutbound_FIFOIgnoresExpiry(t *testing.T) {
	productID := uuid.New()
	day1 := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	day2 := day1.AddDate(0, 0, 1)
	expSoon := day1.AddDate(0, 1, 0)

	records := []StockRecord{
		makeRecord(t, productID, "MAIN", "B-EXPIRING", 10, day2, &expSoon),
		makeRecord(t, productID, "MAIN", "B-OLDEST", 10, day1, nil),
	}

	SortForOutbound(records, PolicyFIFO)

	assert.Equal(t, "B-OLDEST", records[0].BatchNumber)
}

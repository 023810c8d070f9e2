package inventory

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func snapshotRecords(t *testing.T) []StockRecord {
	t.Helper()
	productA := uuid.New()
	productB := uuid.New()
	now := time.Now()

	a, err := NewStockRecord(productA, "MAIN", "B-001", decimal.NewFromInt(100), decimal.NewFromInt(4), now, nil)
	require.NoError(t, err)
	b, err := NewStockRecord(productB, "MAIN", "B-002", decimal.NewFromInt(25), decimal.NewFromInt(2), now, nil)
	require.NoError(t, err)
	empty, err := NewStockRecord(productB, "MAIN", "B-EMPTY", decimal.Zero, decimal.Zero, now, nil)
	require.NoError(t, err)

	return []StockRecord{*a, *b, *empty}
}

func TestNewCycleCount(t *testing.T) {
	t.Run("snapshots only records with stock", func(t *testing.T) {
		cc, err := NewCycleCount("CC-20260301-001", "MAIN", snapshotRecords(t))

		require.NoError(t, err)
		assert.Equal(t, CycleCountStatusCounting, cc.Status)
		assert.Equal(t, 2, cc.TotalItems)
		assert.Len(t, cc.GetDomainEvents(), 1)
	})

	t.Run("fails on empty snapshot", func(t *testing.T) {
		_, err := NewCycleCount("CC-001", "MAIN", nil)
		require.Error(t, err)
	})

	t.Run("fails on missing identifiers", func(t *testing.T) {
		_, err := NewCycleCount("", "MAIN", snapshotRecords(t))
		require.Error(t, err)
		_, err = NewCycleCount("CC-001", "", snapshotRecords(t))
		require.Error(t, err)
	})
}

func TestCycleCount_RecordCount(t *testing.T) {
	records := snapshotRecords(t)
	cc, err := NewCycleCount("CC-001", "MAIN", records)
	require.NoError(t, err)

	t.Run("variance is physical minus system", func(t *testing.T) {
		// system=100, physical=92 => variance=-8
		require.NoError(t, cc.RecordCount(records[0].ID, decimal.NewFromInt(92)))

		item := cc.Items[0]
		assert.True(t, item.Counted)
		assert.True(t, item.Variance.Equal(decimal.NewFromInt(-8)))
		assert.Equal(t, 1, cc.CountedItems)
	})

	t.Run("recounting does not double count", func(t *testing.T) {
		require.NoError(t, cc.RecordCount(records[0].ID, decimal.NewFromInt(95)))
		assert.Equal(t, 1, cc.CountedItems)
		assert.True(t, cc.Items[0].Variance.Equal(decimal.NewFromInt(-5)))
	})

	t.Run("rejects negative physical count", func(t *testing.T) {
		require.Error(t, cc.RecordCount(records[1].ID, decimal.NewFromInt(-1)))
	})

	t.Run("rejects unknown record", func(t *testing.T) {
		require.Error(t, cc.RecordCount(uuid.New(), decimal.NewFromInt(1)))
	})
}

func TestCycleCount_Confirm(t *testing.T) {
	records := snapshotRecords(t)

	t.Run("requires all items counted", func(t *testing.T) {
		cc, err := NewCycleCount("CC-001", "MAIN", records)
		require.NoError(t, err)
		require.NoError(t, cc.RecordCount(records[0].ID, decimal.NewFromInt(92)))

		require.Error(t, cc.Confirm())
	})

	t.Run("confirms and reports variances", func(t *testing.T) {
		cc, err := NewCycleCount("CC-001", "MAIN", records)
		require.NoError(t, err)
		require.NoError(t, cc.RecordCount(records[0].ID, decimal.NewFromInt(92)))
		require.NoError(t, cc.RecordCount(records[1].ID, decimal.NewFromInt(25)))
		cc.ClearDomainEvents()

		require.NoError(t, cc.Confirm())

		assert.Equal(t, CycleCountStatusConfirmed, cc.Status)
		assert.NotNil(t, cc.ConfirmedAt)
		variances := cc.ItemsWithVariance()
		require.Len(t, variances, 1)
		assert.True(t, variances[0].Variance.Equal(decimal.NewFromInt(-8)))
		require.Len(t, cc.GetDomainEvents(), 1)
		assert.Equal(t, EventTypeCycleCountConfirmed, cc.GetDomainEvents()[0].EventType())
	})

	t.Run("cannot confirm twice", func(t *testing.T) {
		cc, err := NewCycleCount("CC-001", "MAIN", records)
		require.NoError(t, err)
		require.NoError(t, cc.RecordCount(records[0].ID, decimal.NewFromInt(100)))
		require.NoError(t, cc.RecordCount(records[1].ID, decimal.NewFromInt(25)))
		require.NoError(t, cc.Confirm())

		require.Error(t, cc.Confirm())
	})

	t.Run("cannot record counts after cancel", func(t *testing.T) {
		cc, err := NewCycleCount("CC-001", "MAIN", records)
		require.NoError(t, err)
		require.NoError(t, cc.Cancel())

		assert.Equal(t, CycleCountStatusCancelled, cc.Status)
		require.Error(t, cc.RecordCount(records[0].ID, decimal.NewFromInt(1)))
		require.Error(t, cc.Confirm())
	})
}

package manufacturing

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestOrder(t *testing.T) *ProductionOrder {
	t.Helper()
	po, err := NewProductionOrder("PO-2026-0001", uuid.New(), uuid.New(), decimal.NewFromInt(5), "MAIN")
	require.NoError(t, err)
	return po
}

func TestNewProductionOrder(t *testing.T) {
	t.Run("should create order in pending status", func(t *testing.T) {
		po := newTestOrder(t)

		assert.Equal(t, ProductionStatusPending, po.Status)
		assert.Empty(t, po.ProducedBatchID)
		assert.Nil(t, po.CompletionDate)

		events := po.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeProductionOrderCreated, events[0].EventType())
	})

	t.Run("should fail with invalid input", func(t *testing.T) {
		_, err := NewProductionOrder("", uuid.New(), uuid.New(), decimal.NewFromInt(5), "MAIN")
		assert.Error(t, err)

		_, err = NewProductionOrder("PO-1", uuid.Nil, uuid.New(), decimal.NewFromInt(5), "MAIN")
		assert.Error(t, err)

		_, err = NewProductionOrder("PO-1", uuid.New(), uuid.New(), decimal.Zero, "MAIN")
		assert.Error(t, err)

		_, err = NewProductionOrder("PO-1", uuid.New(), uuid.New(), decimal.NewFromInt(5), "")
		assert.Error(t, err)
	})
}

func TestProductionOrderLifecycle(t *testing.T) {
	t.Run("pending to wip to completed", func(t *testing.T) {
		po := newTestOrder(t)

		require.NoError(t, po.Start())
		assert.Equal(t, ProductionStatusWIP, po.Status)

		require.NoError(t, po.Complete("PO-2026-0001-202603"))
		assert.Equal(t, ProductionStatusCompleted, po.Status)
		assert.Equal(t, "PO-2026-0001-202603", po.ProducedBatchID)
		require.NotNil(t, po.CompletionDate)
	})

	t.Run("cannot complete before starting", func(t *testing.T) {
		po := newTestOrder(t)
		assert.Error(t, po.Complete("B-1"))
	})

	t.Run("cannot complete without batch id", func(t *testing.T) {
		po := newTestOrder(t)
		require.NoError(t, po.Start())
		assert.Error(t, po.Complete(""))
	})

	t.Run("cancel from pending and wip", func(t *testing.T) {
		po := newTestOrder(t)
		require.NoError(t, po.Cancel("customer cancelled"))
		assert.Equal(t, ProductionStatusCancelled, po.Status)
		assert.Equal(t, "customer cancelled", po.CancelReason)

		po2 := newTestOrder(t)
		require.NoError(t, po2.Start())
		require.NoError(t, po2.Cancel("machine down"))
	})

	t.Run("terminal statuses reject further transitions", func(t *testing.T) {
		po := newTestOrder(t)
		require.NoError(t, po.Start())
		require.NoError(t, po.Complete("B-1"))

		assert.Error(t, po.Start())
		assert.Error(t, po.Cancel("too late"))

		po2 := newTestOrder(t)
		require.NoError(t, po2.Cancel("dropped"))
		assert.Error(t, po2.Start())
	})
}

func TestProductionStatusTransitions(t *testing.T) {
	assert.True(t, ProductionStatusPending.CanTransitionTo(ProductionStatusWIP))
	assert.True(t, ProductionStatusPending.CanTransitionTo(ProductionStatusCancelled))
	assert.False(t, ProductionStatusPending.CanTransitionTo(ProductionStatusCompleted))

	assert.True(t, ProductionStatusWIP.CanTransitionTo(ProductionStatusCompleted))
	assert.True(t, ProductionStatusWIP.CanTransitionTo(ProductionStatusCancelled))
	assert.False(t, ProductionStatusWIP.CanTransitionTo(ProductionStatusPending))

	assert.True(t, ProductionStatusCompleted.IsTerminal())
	assert.True(t, ProductionStatusCancelled.IsTerminal())
	assert.False(t, ProductionStatusWIP.IsTerminal())
}

func TestMintBatchNumber(t *testing.T) {
	po := newTestOrder(t)
	at := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, "PO-2026-0001-202603", po.MintBatchNumber(at))
}

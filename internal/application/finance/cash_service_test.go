package finance

import (
	"context"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stitchworks/backend/internal/domain/shared/valueobject"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memLedger struct {
	mu      sync.Mutex
	balance decimal.Decimal
	reasons []string
}

func (m *memLedger) AdjustBalance(_ context.Context, delta valueobject.Money, reason string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.balance = m.balance.Add(delta.Amount())
	m.reasons = append(m.reasons, reason)
	return nil
}

func (m *memLedger) Balance(_ context.Context) (valueobject.Money, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return valueobject.NewMoneyUSD(m.balance), nil
}

func TestCashService(t *testing.T) {
	ctx := context.Background()

	t.Run("signed adjustments move the balance", func(t *testing.T) {
		ledger := &memLedger{}
		svc := NewCashService(ledger)

		resp, err := svc.Adjust(ctx, AdjustInput{Amount: decimal.NewFromInt(1000), Reason: "opening float"})
		require.NoError(t, err)
		assert.True(t, resp.Balance.Equal(decimal.NewFromInt(1000)))

		resp, err = svc.Adjust(ctx, AdjustInput{Amount: decimal.NewFromInt(-250), Reason: "petty cash"})
		require.NoError(t, err)
		assert.True(t, resp.Balance.Equal(decimal.NewFromInt(750)))
		assert.Equal(t, "USD", resp.Currency)

		require.Len(t, ledger.reasons, 2)
		assert.Equal(t, "manual: opening float", ledger.reasons[0])
	})

	t.Run("reason is mandatory", func(t *testing.T) {
		svc := NewCashService(&memLedger{})

		_, err := svc.Adjust(ctx, AdjustInput{Amount: decimal.NewFromInt(10)})
		require.Error(t, err)
	})

	t.Run("zero amount is rejected", func(t *testing.T) {
		svc := NewCashService(&memLedger{})

		_, err := svc.Adjust(ctx, AdjustInput{Amount: decimal.Zero, Reason: "noop"})
		require.Error(t, err)
	})
}

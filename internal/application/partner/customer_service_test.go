package partner

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stitchworks/backend/internal/domain/partner"
	"github.com/stitchworks/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memCustomers struct {
	mu        sync.Mutex
	customers map[uuid.UUID]*partner.Customer
}

func newMemCustomers() *memCustomers {
	return &memCustomers{customers: make(map[uuid.UUID]*partner.Customer)}
}

func (m *memCustomers) FindByID(_ context.Context, id uuid.UUID) (*partner.Customer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.customers[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return c, nil
}

func (m *memCustomers) FindByCode(_ context.Context, code string) (*partner.Customer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.customers {
		if c.Code == code {
			return c, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (m *memCustomers) FindActive(_ context.Context) ([]*partner.Customer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*partner.Customer
	for _, c := range m.customers {
		if c.IsActive() {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *memCustomers) Save(_ context.Context, customer *partner.Customer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.customers[customer.ID] = customer
	return nil
}

func (m *memCustomers) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.customers, id)
	return nil
}

func TestCustomerService(t *testing.T) {
	ctx := context.Background()

	t.Run("create uppercases the code", func(t *testing.T) {
		svc := NewCustomerService(newMemCustomers())

		created, err := svc.Create(ctx, CreateCustomerInput{
			Code:        "boutique-7",
			Name:        "Boutique Seven",
			Tier:        partner.CustomerTierWholesale,
			CreditLimit: decimal.NewFromInt(5000),
		})
		require.NoError(t, err)
		assert.Equal(t, "BOUTIQUE-7", created.Code)
		assert.True(t, created.CreditLimit.Equal(decimal.NewFromInt(5000)))
	})

	t.Run("duplicate code is rejected", func(t *testing.T) {
		svc := NewCustomerService(newMemCustomers())

		_, err := svc.Create(ctx, CreateCustomerInput{Code: "CUST-1", Name: "First", Tier: partner.CustomerTierRetail})
		require.NoError(t, err)
		_, err = svc.Create(ctx, CreateCustomerInput{Code: "CUST-1", Name: "Second", Tier: partner.CustomerTierRetail})
		require.Error(t, err)
	})

	t.Run("settle debt reduces the balance", func(t *testing.T) {
		repo := newMemCustomers()
		svc := NewCustomerService(repo)

		created, err := svc.Create(ctx, CreateCustomerInput{
			Code:        "CUST-2",
			Name:        "Credit buyer",
			Tier:        partner.CustomerTierWholesale,
			CreditLimit: decimal.NewFromInt(1000),
		})
		require.NoError(t, err)

		customer, err := repo.FindByID(ctx, created.ID)
		require.NoError(t, err)
		require.NoError(t, customer.IncurDebt(decimal.NewFromInt(400)))

		settled, err := svc.SettleDebt(ctx, created.ID, decimal.NewFromInt(150))
		require.NoError(t, err)
		assert.True(t, settled.OutstandingDebt.Equal(decimal.NewFromInt(250)))
	})

	t.Run("cannot settle more than owed", func(t *testing.T) {
		svc := NewCustomerService(newMemCustomers())

		created, err := svc.Create(ctx, CreateCustomerInput{Code: "CUST-3", Name: "Clean account", Tier: partner.CustomerTierRetail})
		require.NoError(t, err)

		_, err = svc.SettleDebt(ctx, created.ID, decimal.NewFromInt(10))
		require.Error(t, err)
	})
}

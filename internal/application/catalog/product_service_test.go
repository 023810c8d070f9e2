package catalog

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stitchworks/backend/internal/domain/catalog"
	"github.com/stitchworks/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memProducts struct {
	mu       sync.Mutex
	products map[uuid.UUID]*catalog.Product
}

func newMemProducts() *memProducts {
	return &memProducts{products: make(map[uuid.UUID]*catalog.Product)}
}

func (m *memProducts) FindByID(_ context.Context, id uuid.UUID) (*catalog.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return p, nil
}

func (m *memProducts) FindByCode(_ context.Context, code string) (*catalog.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.products {
		if p.Code == code {
			return p, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (m *memProducts) FindAll(_ context.Context, _ shared.Filter) ([]catalog.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]catalog.Product, 0, len(m.products))
	for _, p := range m.products {
		out = append(out, *p)
	}
	return out, nil
}

func (m *memProducts) FindByItemTypes(_ context.Context, itemTypes []catalog.ItemType) ([]catalog.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []catalog.Product
	for _, p := range m.products {
		for _, it := range itemTypes {
			if p.ItemType == it {
				out = append(out, *p)
				break
			}
		}
	}
	return out, nil
}

func (m *memProducts) FindByIDs(_ context.Context, ids []uuid.UUID) ([]catalog.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []catalog.Product
	for _, id := range ids {
		if p, ok := m.products[id]; ok {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (m *memProducts) Save(_ context.Context, product *catalog.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.products[product.ID] = product
	return nil
}

func (m *memProducts) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.products, id)
	return nil
}

func (m *memProducts) Count(_ context.Context, _ shared.Filter) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.products)), nil
}

func TestProductService(t *testing.T) {
	ctx := context.Background()

	t.Run("create and read back", func(t *testing.T) {
		svc := NewProductService(newMemProducts())

		created, err := svc.Create(ctx, CreateProductInput{Code: "TSHIRT-M", Name: "T-shirt medium", ItemType: catalog.ItemTypeFinishedGood})
		require.NoError(t, err)
		assert.True(t, created.Active)

		got, err := svc.ProductByCode(ctx, "TSHIRT-M")
		require.NoError(t, err)
		assert.Equal(t, created.ID, got.ID)
	})

	t.Run("duplicate code is rejected", func(t *testing.T) {
		svc := NewProductService(newMemProducts())

		_, err := svc.Create(ctx, CreateProductInput{Code: "FABRIC-01", Name: "Cotton", ItemType: catalog.ItemTypeRawMaterial})
		require.NoError(t, err)

		_, err = svc.Create(ctx, CreateProductInput{Code: "FABRIC-01", Name: "Cotton again", ItemType: catalog.ItemTypeRawMaterial})
		require.Error(t, err)
	})

	t.Run("price and replenishment updates round trip", func(t *testing.T) {
		svc := NewProductService(newMemProducts())

		created, err := svc.Create(ctx, CreateProductInput{Code: "DRESS-S", Name: "Dress small", ItemType: catalog.ItemTypeFinishedGood})
		require.NoError(t, err)

		priced, err := svc.SetPrices(ctx, SetPricesInput{ProductID: created.ID, Retail: decimal.NewFromInt(120), Wholesale: decimal.NewFromInt(85)})
		require.NoError(t, err)
		assert.True(t, priced.PriceRetail.Equal(decimal.NewFromInt(120)))
		assert.True(t, priced.PriceWholesale.Equal(decimal.NewFromInt(85)))

		planned, err := svc.SetReplenishment(ctx, SetReplenishmentInput{
			ProductID:      created.ID,
			LeadTimeDays:   14,
			OrderCost:      decimal.NewFromInt(50),
			HoldingCostPct: decimal.NewFromFloat(0.25),
			LowThreshold:   decimal.NewFromInt(5),
		})
		require.NoError(t, err)
		assert.Equal(t, 14, planned.LeadTimeDays)
	})

	t.Run("deactivate and reactivate", func(t *testing.T) {
		svc := NewProductService(newMemProducts())

		created, err := svc.Create(ctx, CreateProductInput{Code: "POLY-BAG", Name: "Polybag", ItemType: catalog.ItemTypePackaging})
		require.NoError(t, err)

		off, err := svc.Deactivate(ctx, created.ID)
		require.NoError(t, err)
		assert.False(t, off.Active)

		on, err := svc.Activate(ctx, created.ID)
		require.NoError(t, err)
		assert.True(t, on.Active)
	})
}

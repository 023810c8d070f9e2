package trade

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	appinventory "github.com/stitchworks/backend/internal/application/inventory"
	"github.com/stitchworks/backend/internal/application/inventory/inventorytest"
	appmanufacturing "github.com/stitchworks/backend/internal/application/manufacturing"
	"github.com/stitchworks/backend/internal/domain/catalog"
	"github.com/stitchworks/backend/internal/domain/inventory"
	"github.com/stitchworks/backend/internal/domain/partner"
	"github.com/stitchworks/backend/internal/domain/shared"
	"github.com/stitchworks/backend/internal/domain/trade"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type salesFixture struct {
	svc       *SalesOrderService
	orders    *memSalesOrders
	customers *memCustomers
	products  *memProducts
	stock     *appinventory.StockService
	records   *inventorytest.StockRecords
	cash      *memCash
	boms      *memBOMs
	prodRepo  *memProductionOrders
}

func newSalesFixture() *salesFixture {
	stock, records, _, _ := inventorytest.NewStockService()
	orders := newMemSalesOrders()
	customers := newMemCustomers()
	products := newMemProducts()
	cash := newMemCash()
	boms := newMemBOMs()
	prodRepo := newMemProductionOrders()
	production := appmanufacturing.NewProductionService(prodRepo, boms, stock)
	svc := NewSalesOrderService(orders, customers, products, stock, cash, production)
	return &salesFixture{
		svc:       svc,
		orders:    orders,
		customers: customers,
		products:  products,
		stock:     stock,
		records:   records,
		cash:      cash,
		boms:      boms,
		prodRepo:  prodRepo,
	}
}

func (f *salesFixture) addProduct(t *testing.T, itemType catalog.ItemType, retail, wholesale int64) *catalog.Product {
	t.Helper()
	p, err := catalog.NewProduct("SKU-"+uuid.NewString()[:8], "Test garment", itemType)
	require.NoError(t, err)
	require.NoError(t, p.SetPrices(decimal.NewFromInt(retail), decimal.NewFromInt(wholesale)))
	require.NoError(t, f.products.Save(context.Background(), p))
	return p
}

func (f *salesFixture) addCustomer(t *testing.T, tier partner.CustomerTier, creditLimit int64) *partner.Customer {
	t.Helper()
	c, err := partner.NewCustomer("CUST-"+uuid.NewString()[:8], "Boutique", tier)
	require.NoError(t, err)
	require.NoError(t, c.SetCreditLimit(decimal.NewFromInt(creditLimit)))
	require.NoError(t, f.customers.Save(context.Background(), c))
	return c
}

func (f *salesFixture) seedStock(t *testing.T, productID uuid.UUID, location, batch string, qty, unitCost int64) {
	t.Helper()
	_, err := f.stock.Produce(context.Background(), appinventory.ProduceInput{
		ProductID:   productID,
		Location:    location,
		Quantity:    decimal.NewFromInt(qty),
		BatchNumber: batch,
		UnitCost:    decimal.NewFromInt(unitCost),
		SourceType:  inventory.SourceTypeManual,
		SourceID:    "seed",
	})
	require.NoError(t, err)
}

func (f *salesFixture) quoteWithLine(t *testing.T, customer *partner.Customer, term trade.PaymentTerm, product *catalog.Product, qty int64) SalesOrderResponse {
	t.Helper()
	ctx := context.Background()
	in := CreateQuoteInput{OrderNumber: "SO-" + uuid.NewString()[:8], PaymentTerm: term}
	if customer != nil {
		in.CustomerID = &customer.ID
	}
	resp, err := f.svc.CreateQuote(ctx, in)
	require.NoError(t, err)
	resp, err = f.svc.AddLine(ctx, AddLineInput{OrderID: resp.ID, ProductID: product.ID, Quantity: decimal.NewFromInt(qty)})
	require.NoError(t, err)
	return resp
}

func TestSalesOrderPricing(t *testing.T) {
	ctx := context.Background()

	t.Run("wholesale customers pay the wholesale price", func(t *testing.T) {
		f := newSalesFixture()
		product := f.addProduct(t, catalog.ItemTypeFinishedGood, 100, 70)
		customer := f.addCustomer(t, partner.CustomerTierWholesale, 0)

		resp := f.quoteWithLine(t, customer, trade.PaymentTermImmediate, product, 2)
		require.Len(t, resp.Items, 1)
		assert.True(t, resp.Items[0].UnitPrice.Equal(decimal.NewFromInt(70)))
		assert.True(t, resp.Total.Equal(decimal.NewFromInt(140)))
	})

	t.Run("orders without a customer pay retail", func(t *testing.T) {
		f := newSalesFixture()
		product := f.addProduct(t, catalog.ItemTypeFinishedGood, 100, 70)

		resp := f.quoteWithLine(t, nil, trade.PaymentTermImmediate, product, 1)
		assert.True(t, resp.Items[0].UnitPrice.Equal(decimal.NewFromInt(100)))
	})

	t.Run("credit terms require a customer", func(t *testing.T) {
		f := newSalesFixture()
		_, err := f.svc.CreateQuote(ctx, CreateQuoteInput{OrderNumber: "SO-NOCUST", PaymentTerm: trade.PaymentTermCredit})
		require.Error(t, err)
	})
}

func TestSalesOrderCommit(t *testing.T) {
	ctx := context.Background()

	t.Run("dispatching commits stock with provenance and cash", func(t *testing.T) {
		f := newSalesFixture()
		product := f.addProduct(t, catalog.ItemTypeFinishedGood, 100, 70)
		f.seedStock(t, product.ID, "MAIN", "B-1", 3, 40)
		f.seedStock(t, product.ID, "MAIN", "B-2", 4, 50)

		resp := f.quoteWithLine(t, nil, trade.PaymentTermImmediate, product, 5)
		_, err := f.svc.Transition(ctx, TransitionInput{OrderID: resp.ID, Target: trade.SalesStatusPending})
		require.NoError(t, err)
		_, err = f.svc.AssignDelivery(ctx, resp.ID, "courier-7")
		require.NoError(t, err)

		result, err := f.svc.Transition(ctx, TransitionInput{OrderID: resp.ID, Target: trade.SalesStatusDispatching})
		require.NoError(t, err)

		order := result.Order
		assert.Equal(t, "DISPATCHING", order.Status)
		assert.True(t, order.StockCommitted)
		assert.True(t, order.CashApplied)

		require.Len(t, order.Items, 1)
		allocs := order.Items[0].Allocations
		require.Len(t, allocs, 2)
		assert.Equal(t, "B-1", allocs[0].BatchNumber)
		assert.True(t, allocs[0].Quantity.Equal(decimal.NewFromInt(3)))
		assert.Equal(t, "B-2", allocs[1].BatchNumber)
		assert.True(t, allocs[1].Quantity.Equal(decimal.NewFromInt(2)))

		// weighted cost: (3*40 + 2*50) / 5 = 44
		assert.True(t, order.Items[0].UnitCost.Equal(decimal.NewFromInt(44)))

		left, err := f.records.TotalByProduct(ctx, product.ID)
		require.NoError(t, err)
		assert.True(t, left.Equal(decimal.NewFromInt(2)))

		balance, err := f.cash.Balance(ctx)
		require.NoError(t, err)
		assert.True(t, balance.Amount().Equal(decimal.NewFromInt(500)))
	})

	t.Run("shortfall aborts the whole commit", func(t *testing.T) {
		f := newSalesFixture()
		product := f.addProduct(t, catalog.ItemTypeFinishedGood, 100, 70)
		f.seedStock(t, product.ID, "MAIN", "B-1", 3, 40)

		resp := f.quoteWithLine(t, nil, trade.PaymentTermImmediate, product, 5)
		_, err := f.svc.AssignDelivery(ctx, resp.ID, "courier-7")
		require.NoError(t, err)

		_, err = f.svc.Transition(ctx, TransitionInput{OrderID: resp.ID, Target: trade.SalesStatusDispatching})
		require.Error(t, err)

		var short *inventory.InsufficientStockError
		require.True(t, errors.As(err, &short))
		assert.True(t, short.Required.Equal(decimal.NewFromInt(5)))
		assert.True(t, short.Available.Equal(decimal.NewFromInt(3)))

		left, err := f.records.TotalByProduct(ctx, product.ID)
		require.NoError(t, err)
		assert.True(t, left.Equal(decimal.NewFromInt(3)))

		order, err := f.svc.Order(ctx, resp.ID)
		require.NoError(t, err)
		assert.False(t, order.StockCommitted)
		assert.Equal(t, "QUOTE", order.Status)

		balance, err := f.cash.Balance(ctx)
		require.NoError(t, err)
		assert.True(t, balance.Amount().IsZero())
	})

	t.Run("save failure after commit restores stock and cash", func(t *testing.T) {
		f := newSalesFixture()
		product := f.addProduct(t, catalog.ItemTypeFinishedGood, 100, 70)
		f.seedStock(t, product.ID, "MAIN", "B-1", 5, 40)

		resp := f.quoteWithLine(t, nil, trade.PaymentTermImmediate, product, 2)
		_, err := f.svc.AssignDelivery(ctx, resp.ID, "courier-7")
		require.NoError(t, err)

		f.orders.FailNextSave(errors.New("storage offline"))

		_, err = f.svc.Transition(ctx, TransitionInput{OrderID: resp.ID, Target: trade.SalesStatusDispatching})
		require.Error(t, err)

		left, err := f.records.TotalByProduct(ctx, product.ID)
		require.NoError(t, err)
		assert.True(t, left.Equal(decimal.NewFromInt(5)))

		returned, err := f.records.FindLot(ctx, product.ID, inventory.ReturnsLocation, "B-1")
		require.NoError(t, err)
		assert.True(t, returned.Quantity.Equal(decimal.NewFromInt(2)))

		balance, err := f.cash.Balance(ctx)
		require.NoError(t, err)
		assert.True(t, balance.Amount().IsZero())
	})

	t.Run("cash failure during commit leaves no stock drawn", func(t *testing.T) {
		f := newSalesFixture()
		product := f.addProduct(t, catalog.ItemTypeFinishedGood, 100, 70)
		f.seedStock(t, product.ID, "MAIN", "B-1", 5, 40)

		resp := f.quoteWithLine(t, nil, trade.PaymentTermImmediate, product, 2)
		_, err := f.svc.AssignDelivery(ctx, resp.ID, "courier-7")
		require.NoError(t, err)

		f.cash.FailNextAdjust(errors.New("ledger offline"))

		_, err = f.svc.Transition(ctx, TransitionInput{OrderID: resp.ID, Target: trade.SalesStatusDispatching})
		require.Error(t, err)

		left, err := f.records.TotalByProduct(ctx, product.ID)
		require.NoError(t, err)
		assert.True(t, left.Equal(decimal.NewFromInt(5)))

		order, err := f.svc.Order(ctx, resp.ID)
		require.NoError(t, err)
		assert.False(t, order.StockCommitted)
	})

	t.Run("dispatching requires a delivery assignee", func(t *testing.T) {
		f := newSalesFixture()
		product := f.addProduct(t, catalog.ItemTypeFinishedGood, 100, 70)
		f.seedStock(t, product.ID, "MAIN", "B-1", 10, 40)

		resp := f.quoteWithLine(t, nil, trade.PaymentTermImmediate, product, 1)
		_, err := f.svc.Transition(ctx, TransitionInput{OrderID: resp.ID, Target: trade.SalesStatusDispatching})
		require.Error(t, err)
		assert.Equal(t, shared.CodeLogisticsNotAssigned, shared.ErrorCode(err))

		left, err := f.records.TotalByProduct(ctx, product.ID)
		require.NoError(t, err)
		assert.True(t, left.Equal(decimal.NewFromInt(10)))
	})
}

func TestSalesOrderCredit(t *testing.T) {
	ctx := context.Background()

	t.Run("credit order incurs debt within the limit", func(t *testing.T) {
		f := newSalesFixture()
		product := f.addProduct(t, catalog.ItemTypeFinishedGood, 100, 70)
		customer := f.addCustomer(t, partner.CustomerTierWholesale, 1000)
		f.seedStock(t, product.ID, "MAIN", "B-1", 10, 40)

		resp := f.quoteWithLine(t, customer, trade.PaymentTermCredit, product, 2)
		_, err := f.svc.AssignDelivery(ctx, resp.ID, "courier-1")
		require.NoError(t, err)

		_, err = f.svc.Transition(ctx, TransitionInput{OrderID: resp.ID, Target: trade.SalesStatusDispatching})
		require.NoError(t, err)

		updated, err := f.customers.FindByID(ctx, customer.ID)
		require.NoError(t, err)
		assert.True(t, updated.OutstandingDebt.Equal(decimal.NewFromInt(140)))

		// credit sale moves no cash
		balance, err := f.cash.Balance(ctx)
		require.NoError(t, err)
		assert.True(t, balance.Amount().IsZero())
	})

	t.Run("zero credit limit never blocks a credit order", func(t *testing.T) {
		f := newSalesFixture()
		product := f.addProduct(t, catalog.ItemTypeFinishedGood, 100, 70)
		customer := f.addCustomer(t, partner.CustomerTierWholesale, 0)
		f.seedStock(t, product.ID, "MAIN", "B-1", 10, 40)

		resp := f.quoteWithLine(t, customer, trade.PaymentTermCredit, product, 2)
		_, err := f.svc.AssignDelivery(ctx, resp.ID, "courier-1")
		require.NoError(t, err)

		result, err := f.svc.Transition(ctx, TransitionInput{OrderID: resp.ID, Target: trade.SalesStatusDispatching})
		require.NoError(t, err)
		assert.True(t, result.Order.StockCommitted)

		updated, err := f.customers.FindByID(ctx, customer.ID)
		require.NoError(t, err)
		assert.True(t, updated.OutstandingDebt.Equal(decimal.NewFromInt(140)))
	})

	t.Run("over-limit credit order is rejected before stock moves", func(t *testing.T) {
		f := newSalesFixture()
		product := f.addProduct(t, catalog.ItemTypeFinishedGood, 100, 70)
		customer := f.addCustomer(t, partner.CustomerTierWholesale, 100)
		f.seedStock(t, product.ID, "MAIN", "B-1", 10, 40)

		resp := f.quoteWithLine(t, customer, trade.PaymentTermCredit, product, 2)
		_, err := f.svc.AssignDelivery(ctx, resp.ID, "courier-1")
		require.NoError(t, err)

		_, err = f.svc.Transition(ctx, TransitionInput{OrderID: resp.ID, Target: trade.SalesStatusDispatching})
		require.Error(t, err)
		assert.Equal(t, shared.CodeCreditLimitExceeded, shared.ErrorCode(err))

		left, err := f.records.TotalByProduct(ctx, product.ID)
		require.NoError(t, err)
		assert.True(t, left.Equal(decimal.NewFromInt(10)))

		updated, err := f.customers.FindByID(ctx, customer.ID)
		require.NoError(t, err)
		assert.True(t, updated.OutstandingDebt.IsZero())
	})
}

func TestSalesOrderCancel(t *testing.T) {
	ctx := context.Background()

	t.Run("cancelling a committed order returns stock and cash", func(t *testing.T) {
		f := newSalesFixture()
		product := f.addProduct(t, catalog.ItemTypeFinishedGood, 100, 70)
		f.seedStock(t, product.ID, "MAIN", "B-1", 5, 40)

		resp := f.quoteWithLine(t, nil, trade.PaymentTermImmediate, product, 5)
		_, err := f.svc.AssignDelivery(ctx, resp.ID, "courier-2")
		require.NoError(t, err)
		_, err = f.svc.Transition(ctx, TransitionInput{OrderID: resp.ID, Target: trade.SalesStatusDispatching})
		require.NoError(t, err)

		result, err := f.svc.Transition(ctx, TransitionInput{OrderID: resp.ID, Target: trade.SalesStatusCancelled, Note: "customer refused delivery"})
		require.NoError(t, err)
		assert.Equal(t, "CANCELLED", result.Order.Status)
		assert.False(t, result.Order.StockCommitted)
		assert.False(t, result.Order.CashApplied)

		returned, err := f.records.FindLot(ctx, product.ID, inventory.ReturnsLocation, "B-1")
		require.NoError(t, err)
		assert.True(t, returned.Quantity.Equal(decimal.NewFromInt(5)))
		assert.True(t, returned.UnitCost.Equal(decimal.NewFromInt(40)))

		balance, err := f.cash.Balance(ctx)
		require.NoError(t, err)
		assert.True(t, balance.Amount().IsZero())
	})

	t.Run("cancelled order can be restored to pending", func(t *testing.T) {
		f := newSalesFixture()
		product := f.addProduct(t, catalog.ItemTypeFinishedGood, 100, 70)

		resp := f.quoteWithLine(t, nil, trade.PaymentTermImmediate, product, 1)
		_, err := f.svc.Transition(ctx, TransitionInput{OrderID: resp.ID, Target: trade.SalesStatusCancelled, Note: "duplicate entry"})
		require.NoError(t, err)

		result, err := f.svc.Transition(ctx, TransitionInput{OrderID: resp.ID, Target: trade.SalesStatusPending})
		require.NoError(t, err)
		assert.Equal(t, "PENDING", result.Order.Status)
		assert.Empty(t, result.Order.CancelReason)
	})

	t.Run("cancel requires a reason", func(t *testing.T) {
		f := newSalesFixture()
		product := f.addProduct(t, catalog.ItemTypeFinishedGood, 100, 70)

		resp := f.quoteWithLine(t, nil, trade.PaymentTermImmediate, product, 1)
		_, err := f.svc.Transition(ctx, TransitionInput{OrderID: resp.ID, Target: trade.SalesStatusCancelled})
		require.Error(t, err)
	})
}

func TestSalesOrderProductionSpawn(t *testing.T) {
	ctx := context.Background()

	f := newSalesFixture()
	withBOM := f.addProduct(t, catalog.ItemTypeFinishedGood, 100, 70)
	withoutBOM := f.addProduct(t, catalog.ItemTypeFinishedGood, 100, 70)
	fabric := f.addProduct(t, catalog.ItemTypeRawMaterial, 0, 0)

	bom, err := f.svc.production.CreateBOM(ctx, appmanufacturing.CreateBOMInput{
		FinishedGoodID: withBOM.ID,
		Name:           "Standard recipe",
		Lines:          []appmanufacturing.BOMLineInput{{MaterialID: fabric.ID, QtyPerUnit: decimal.NewFromInt(2)}},
		Activate:       true,
	})
	require.NoError(t, err)
	require.True(t, bom.Active)

	resp, err := f.svc.CreateQuote(ctx, CreateQuoteInput{OrderNumber: "SO-PROD", PaymentTerm: trade.PaymentTermImmediate})
	require.NoError(t, err)
	_, err = f.svc.AddLine(ctx, AddLineInput{OrderID: resp.ID, ProductID: withBOM.ID, Quantity: decimal.NewFromInt(4)})
	require.NoError(t, err)
	_, err = f.svc.AddLine(ctx, AddLineInput{OrderID: resp.ID, ProductID: withoutBOM.ID, Quantity: decimal.NewFromInt(1)})
	require.NoError(t, err)

	result, err := f.svc.Transition(ctx, TransitionInput{OrderID: resp.ID, Target: trade.SalesStatusAwaitingProduction})
	require.NoError(t, err)

	require.Len(t, result.SpawnedProduction, 1)
	require.Len(t, result.SkippedLines, 1)
	assert.Equal(t, withoutBOM.ID, result.SkippedLines[0].ProductID)

	spawned, err := f.prodRepo.FindBySalesOrder(ctx, resp.ID)
	require.NoError(t, err)
	require.Len(t, spawned, 1)
	assert.Equal(t, withBOM.ID, spawned[0].FinishedGoodID)
	assert.True(t, spawned[0].Quantity.Equal(decimal.NewFromInt(4)))
	assert.Equal(t, bom.ID, spawned[0].BOMID)
}

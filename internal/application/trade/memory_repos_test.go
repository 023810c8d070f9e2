package trade

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stitchworks/backend/internal/domain/catalog"
	"github.com/stitchworks/backend/internal/domain/manufacturing"
	"github.com/stitchworks/backend/internal/domain/partner"
	"github.com/stitchworks/backend/internal/domain/shared"
	"github.com/stitchworks/backend/internal/domain/shared/valueobject"
	"github.com/stitchworks/backend/internal/domain/trade"
)

type memSalesOrders struct {
	mu      sync.Mutex
	orders  map[uuid.UUID]*trade.SalesOrder
	saveErr error
}

// FailNextSave makes the next Save call return err, then recovers
func (m *memSalesOrders) FailNextSave(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saveErr = err
}

func newMemSalesOrders() *memSalesOrders {
	return &memSalesOrders{orders: make(map[uuid.UUID]*trade.SalesOrder)}
}

func (m *memSalesOrders) FindByID(_ context.Context, id uuid.UUID) (*trade.SalesOrder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return o, nil
}

func (m *memSalesOrders) FindByOrderNumber(_ context.Context, orderNumber string) (*trade.SalesOrder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, o := range m.orders {
		if o.OrderNumber == orderNumber {
			return o, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (m *memSalesOrders) FindByStatus(_ context.Context, status trade.SalesOrderStatus) ([]*trade.SalesOrder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*trade.SalesOrder
	for _, o := range m.orders {
		if o.Status == status {
			out = append(out, o)
		}
	}
	return out, nil
}

func (m *memSalesOrders) FindByCustomer(_ context.Context, customerID uuid.UUID) ([]*trade.SalesOrder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*trade.SalesOrder
	for _, o := range m.orders {
		if o.CustomerID != nil && *o.CustomerID == customerID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (m *memSalesOrders) FindByDateRange(_ context.Context, from, to time.Time) ([]*trade.SalesOrder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*trade.SalesOrder
	for _, o := range m.orders {
		if !o.CreatedAt.Before(from) && !o.CreatedAt.After(to) {
			out = append(out, o)
		}
	}
	return out, nil
}

func (m *memSalesOrders) SoldQuantitySince(_ context.Context, since time.Time) (map[uuid.UUID]decimal.Decimal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sold := make(map[uuid.UUID]decimal.Decimal)
	for _, o := range m.orders {
		if !o.StockCommitted || o.UpdatedAt.Before(since) {
			continue
		}
		for _, item := range o.Items {
			sold[item.ProductID] = sold[item.ProductID].Add(item.Quantity)
		}
	}
	return sold, nil
}

func (m *memSalesOrders) Save(_ context.Context, order *trade.SalesOrder) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		err := m.saveErr
		m.saveErr = nil
		return err
	}
	m.orders[order.ID] = order
	return nil
}

type memPurchaseOrders struct {
	mu     sync.Mutex
	orders map[uuid.UUID]*trade.PurchaseOrder
}

func newMemPurchaseOrders() *memPurchaseOrders {
	return &memPurchaseOrders{orders: make(map[uuid.UUID]*trade.PurchaseOrder)}
}

func (m *memPurchaseOrders) FindByID(_ context.Context, id uuid.UUID) (*trade.PurchaseOrder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	po, ok := m.orders[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return po, nil
}

func (m *memPurchaseOrders) FindByOrderNumber(_ context.Context, orderNumber string) (*trade.PurchaseOrder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, po := range m.orders {
		if po.OrderNumber == orderNumber {
			return po, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (m *memPurchaseOrders) FindByStatus(_ context.Context, status trade.PurchaseOrderStatus) ([]*trade.PurchaseOrder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*trade.PurchaseOrder
	for _, po := range m.orders {
		if po.Status == status {
			out = append(out, po)
		}
	}
	return out, nil
}

func (m *memPurchaseOrders) FindBySupplier(_ context.Context, supplierID uuid.UUID) ([]*trade.PurchaseOrder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*trade.PurchaseOrder
	for _, po := range m.orders {
		if po.SupplierID == supplierID {
			out = append(out, po)
		}
	}
	return out, nil
}

func (m *memPurchaseOrders) Save(_ context.Context, order *trade.PurchaseOrder) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.orders[order.ID] = order
	return nil
}

type memReceipts struct {
	mu       sync.Mutex
	receipts []*trade.GoodsReceipt
}

func newMemReceipts() *memReceipts {
	return &memReceipts{}
}

func (m *memReceipts) Append(_ context.Context, receipt *trade.GoodsReceipt) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.receipts = append(m.receipts, receipt)
	return nil
}

func (m *memReceipts) FindByPurchaseOrder(_ context.Context, purchaseOrderID uuid.UUID) ([]*trade.GoodsReceipt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*trade.GoodsReceipt
	for _, r := range m.receipts {
		if r.PurchaseOrderID == purchaseOrderID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memReceipts) FindByProduct(_ context.Context, productID uuid.UUID) ([]*trade.GoodsReceipt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*trade.GoodsReceipt
	for _, r := range m.receipts {
		if r.ProductID == productID {
			out = append(out, r)
		}
	}
	return out, nil
}

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

type memSuppliers struct {
	mu        sync.Mutex
	suppliers map[uuid.UUID]*partner.Supplier
}

func newMemSuppliers() *memSuppliers {
	return &memSuppliers{suppliers: make(map[uuid.UUID]*partner.Supplier)}
}

func (m *memSuppliers) FindByID(_ context.Context, id uuid.UUID) (*partner.Supplier, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.suppliers[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return s, nil
}

func (m *memSuppliers) FindByCode(_ context.Context, code string) (*partner.Supplier, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.suppliers {
		if s.Code == code {
			return s, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (m *memSuppliers) FindActive(_ context.Context) ([]*partner.Supplier, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*partner.Supplier
	for _, s := range m.suppliers {
		out = append(out, s)
	}
	return out, nil
}

func (m *memSuppliers) Save(_ context.Context, supplier *partner.Supplier) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.suppliers[supplier.ID] = supplier
	return nil
}

func (m *memSuppliers) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.suppliers, id)
	return nil
}

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

type memCash struct {
	mu        sync.Mutex
	balance   decimal.Decimal
	adjustErr error
}

func newMemCash() *memCash {
	return &memCash{balance: decimal.Zero}
}

// FailNextAdjust makes the next AdjustBalance call return err, then recovers
func (m *memCash) FailNextAdjust(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.adjustErr = err
}

func (m *memCash) AdjustBalance(_ context.Context, delta valueobject.Money, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.adjustErr != nil {
		err := m.adjustErr
		m.adjustErr = nil
		return err
	}
	m.balance = m.balance.Add(delta.Amount())
	return nil
}

func (m *memCash) Balance(_ context.Context) (valueobject.Money, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return valueobject.NewMoneyUSD(m.balance), nil
}

type memBOMs struct {
	mu   sync.Mutex
	boms map[uuid.UUID]*manufacturing.BillOfMaterials
}

func newMemBOMs() *memBOMs {
	return &memBOMs{boms: make(map[uuid.UUID]*manufacturing.BillOfMaterials)}
}

func (m *memBOMs) FindByID(_ context.Context, id uuid.UUID) (*manufacturing.BillOfMaterials, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	bom, ok := m.boms[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return bom, nil
}

func (m *memBOMs) FindByFinishedGood(_ context.Context, finishedGoodID uuid.UUID) ([]*manufacturing.BillOfMaterials, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*manufacturing.BillOfMaterials
	for _, bom := range m.boms {
		if bom.FinishedGoodID == finishedGoodID {
			out = append(out, bom)
		}
	}
	return out, nil
}

func (m *memBOMs) FindActiveByFinishedGood(_ context.Context, finishedGoodID uuid.UUID) (*manufacturing.BillOfMaterials, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, bom := range m.boms {
		if bom.FinishedGoodID == finishedGoodID && bom.Active {
			return bom, nil
		}
	}
	return nil, shared.NewDomainError(shared.CodeBOMNotFound, "No active BOM for finished good")
}

func (m *memBOMs) Activate(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	target, ok := m.boms[id]
	if !ok {
		return shared.ErrNotFound
	}
	for _, bom := range m.boms {
		if bom.FinishedGoodID == target.FinishedGoodID {
			bom.Deactivate()
		}
	}
	target.Activate()
	return nil
}

func (m *memBOMs) Save(_ context.Context, bom *manufacturing.BillOfMaterials) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.boms[bom.ID] = bom
	return nil
}

func (m *memBOMs) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.boms, id)
	return nil
}

type memProductionOrders struct {
	mu     sync.Mutex
	orders map[uuid.UUID]*manufacturing.ProductionOrder
}

func newMemProductionOrders() *memProductionOrders {
	return &memProductionOrders{orders: make(map[uuid.UUID]*manufacturing.ProductionOrder)}
}

func (m *memProductionOrders) FindByID(_ context.Context, id uuid.UUID) (*manufacturing.ProductionOrder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	po, ok := m.orders[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return po, nil
}

func (m *memProductionOrders) FindByOrderNumber(_ context.Context, orderNumber string) (*manufacturing.ProductionOrder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, po := range m.orders {
		if po.OrderNumber == orderNumber {
			return po, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (m *memProductionOrders) FindByStatus(_ context.Context, status manufacturing.ProductionStatus) ([]*manufacturing.ProductionOrder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*manufacturing.ProductionOrder
	for _, po := range m.orders {
		if po.Status == status {
			out = append(out, po)
		}
	}
	return out, nil
}

func (m *memProductionOrders) FindBySalesOrder(_ context.Context, salesOrderID uuid.UUID) ([]*manufacturing.ProductionOrder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*manufacturing.ProductionOrder
	for _, po := range m.orders {
		if po.SalesOrderID != nil && *po.SalesOrderID == salesOrderID {
			out = append(out, po)
		}
	}
	return out, nil
}

func (m *memProductionOrders) Save(_ context.Context, po *manufacturing.ProductionOrder) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.orders[po.ID] = po
	return nil
}

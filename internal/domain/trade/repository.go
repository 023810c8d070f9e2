package trade

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SalesOrderRepository persists sales orders with their items and history
type SalesOrderRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*SalesOrder, error)
	FindByOrderNumber(ctx context.Context, orderNumber string) (*SalesOrder, error)
	FindByStatus(ctx context.Context, status SalesOrderStatus) ([]*SalesOrder, error)
	FindByCustomer(ctx context.Context, customerID uuid.UUID) ([]*SalesOrder, error)
	FindByDateRange(ctx context.Context, from, to time.Time) ([]*SalesOrder, error)
	// SoldQuantitySince sums committed line quantities per product since the
	// cutoff. Feeds the replenishment usage window.
	SoldQuantitySince(ctx context.Context, since time.Time) (map[uuid.UUID]decimal.Decimal, error)
	Save(ctx context.Context, order *SalesOrder) error
}

// PurchaseOrderRepository persists purchase orders
type PurchaseOrderRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*PurchaseOrder, error)
	FindByOrderNumber(ctx context.Context, orderNumber string) (*PurchaseOrder, error)
	FindByStatus(ctx context.Context, status PurchaseOrderStatus) ([]*PurchaseOrder, error)
	FindBySupplier(ctx context.Context, supplierID uuid.UUID) ([]*PurchaseOrder, error)
	Save(ctx context.Context, order *PurchaseOrder) error
}

// GoodsReceiptRepository appends and queries receipt records
type GoodsReceiptRepository interface {
	Append(ctx context.Context, receipt *GoodsReceipt) error
	FindByPurchaseOrder(ctx context.Context, purchaseOrderID uuid.UUID) ([]*GoodsReceipt, error)
	FindByProduct(ctx context.Context, productID uuid.UUID) ([]*GoodsReceipt, error)
}

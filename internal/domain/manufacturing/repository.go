package manufacturing

import (
	"context"

	"github.com/google/uuid"
)

// BOMRepository persists bills of materials. At most one BOM per finished
// good is active at a time; Activate enforces that by deactivating the
// previously active one in the same transaction.
type BOMRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*BillOfMaterials, error)
	FindByFinishedGood(ctx context.Context, finishedGoodID uuid.UUID) ([]*BillOfMaterials, error)
	// FindActiveByFinishedGood returns the single active BOM, or a
	// BOM_NOT_FOUND domain error when none is active.
	FindActiveByFinishedGood(ctx context.Context, finishedGoodID uuid.UUID) (*BillOfMaterials, error)
	Activate(ctx context.Context, id uuid.UUID) error
	Save(ctx context.Context, bom *BillOfMaterials) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ProductionOrderRepository persists production orders
type ProductionOrderRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*ProductionOrder, error)
	FindByOrderNumber(ctx context.Context, orderNumber string) (*ProductionOrder, error)
	FindByStatus(ctx context.Context, status ProductionStatus) ([]*ProductionOrder, error)
	FindBySalesOrder(ctx context.Context, salesOrderID uuid.UUID) ([]*ProductionOrder, error)
	Save(ctx context.Context, po *ProductionOrder) error
}

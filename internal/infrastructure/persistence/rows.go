package persistence

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stitchworks/backend/internal/domain/inventory"
	"github.com/stitchworks/backend/internal/domain/manufacturing"
	"github.com/stitchworks/backend/internal/domain/trade"
)

// Aggregates keep their child collections out of gorm's reach; the rows
// below are the persistence shape of those children. Each repository saves
// parent and rows in one transaction.

type bomLineRow struct {
	ID         uuid.UUID       `gorm:"type:uuid;primary_key"`
	BOMID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	MaterialID uuid.UUID       `gorm:"type:uuid;not null;index"`
	QtyPerUnit decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	CreatedAt  time.Time       `gorm:"not null"`
}

func (bomLineRow) TableName() string { return "bom_lines" }

func (r bomLineRow) toDomain() manufacturing.BOMLine {
	return manufacturing.BOMLine{
		ID:         r.ID,
		BOMID:      r.BOMID,
		MaterialID: r.MaterialID,
		QtyPerUnit: r.QtyPerUnit,
		CreatedAt:  r.CreatedAt,
	}
}

func newBOMLineRow(line manufacturing.BOMLine) bomLineRow {
	return bomLineRow{
		ID:         line.ID,
		BOMID:      line.BOMID,
		MaterialID: line.MaterialID,
		QtyPerUnit: line.QtyPerUnit,
		CreatedAt:  line.CreatedAt,
	}
}

type salesOrderItemRow struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key"`
	OrderID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductName string          `gorm:"size:200;not null"`
	Quantity    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitCost    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Allocations string          `gorm:"type:text"` // JSON batch provenance
	CreatedAt   time.Time       `gorm:"not null"`
	UpdatedAt   time.Time       `gorm:"not null"`
}

func (salesOrderItemRow) TableName() string { return "sales_order_items" }

func (r salesOrderItemRow) toDomain() (trade.SalesOrderItem, error) {
	item := trade.SalesOrderItem{
		ID:          r.ID,
		OrderID:     r.OrderID,
		ProductID:   r.ProductID,
		ProductName: r.ProductName,
		Quantity:    r.Quantity,
		UnitPrice:   r.UnitPrice,
		UnitCost:    r.UnitCost,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
	if r.Allocations != "" {
		if err := json.Unmarshal([]byte(r.Allocations), &item.Allocations); err != nil {
			return trade.SalesOrderItem{}, err
		}
	}
	return item, nil
}

func newSalesOrderItemRow(item trade.SalesOrderItem) (salesOrderItemRow, error) {
	row := salesOrderItemRow{
		ID:          item.ID,
		OrderID:     item.OrderID,
		ProductID:   item.ProductID,
		ProductName: item.ProductName,
		Quantity:    item.Quantity,
		UnitPrice:   item.UnitPrice,
		UnitCost:    item.UnitCost,
		CreatedAt:   item.CreatedAt,
		UpdatedAt:   item.UpdatedAt,
	}
	if len(item.Allocations) > 0 {
		raw, err := json.Marshal(item.Allocations)
		if err != nil {
			return salesOrderItemRow{}, err
		}
		row.Allocations = string(raw)
	}
	return row, nil
}

type salesStatusChangeRow struct {
	ID         uuid.UUID              `gorm:"type:uuid;primary_key"`
	OrderID    uuid.UUID              `gorm:"type:uuid;not null;index"`
	FromStatus trade.SalesOrderStatus `gorm:"size:30;not null"`
	ToStatus   trade.SalesOrderStatus `gorm:"size:30;not null"`
	Note       string                 `gorm:"size:500"`
	At         time.Time              `gorm:"not null;index"`
}

func (salesStatusChangeRow) TableName() string { return "sales_order_status_history" }

func (r salesStatusChangeRow) toDomain() trade.StatusChange {
	return trade.StatusChange{
		ID:      r.ID,
		OrderID: r.OrderID,
		From:    r.FromStatus,
		To:      r.ToStatus,
		Note:    r.Note,
		At:      r.At,
	}
}

func newSalesStatusChangeRow(change trade.StatusChange) salesStatusChangeRow {
	return salesStatusChangeRow{
		ID:         change.ID,
		OrderID:    change.OrderID,
		FromStatus: change.From,
		ToStatus:   change.To,
		Note:       change.Note,
		At:         change.At,
	}
}

type purchaseOrderItemRow struct {
	ID         uuid.UUID       `gorm:"type:uuid;primary_key"`
	OrderID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	MaterialID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Name       string          `gorm:"size:200;not null"`
	Quantity   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitCost   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	CreatedAt  time.Time       `gorm:"not null"`
}

func (purchaseOrderItemRow) TableName() string { return "purchase_order_items" }

func (r purchaseOrderItemRow) toDomain() trade.PurchaseOrderItem {
	return trade.PurchaseOrderItem{
		ID:         r.ID,
		OrderID:    r.OrderID,
		MaterialID: r.MaterialID,
		Name:       r.Name,
		Quantity:   r.Quantity,
		UnitCost:   r.UnitCost,
		CreatedAt:  r.CreatedAt,
	}
}

func newPurchaseOrderItemRow(item trade.PurchaseOrderItem) purchaseOrderItemRow {
	return purchaseOrderItemRow{
		ID:         item.ID,
		OrderID:    item.OrderID,
		MaterialID: item.MaterialID,
		Name:       item.Name,
		Quantity:   item.Quantity,
		UnitCost:   item.UnitCost,
		CreatedAt:  item.CreatedAt,
	}
}

type cycleCountItemRow struct {
	ID               uuid.UUID       `gorm:"type:uuid;primary_key"`
	CycleCountID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	StockRecordID    uuid.UUID       `gorm:"type:uuid;not null"`
	ProductID        uuid.UUID       `gorm:"type:uuid;not null"`
	Location         string          `gorm:"size:50;not null"`
	BatchNumber      string          `gorm:"size:50;not null"`
	SystemQuantity   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	PhysicalQuantity decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Variance         decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Counted          bool            `gorm:"not null;default:false"`
	CreatedAt        time.Time       `gorm:"not null"`
	UpdatedAt        time.Time       `gorm:"not null"`
}

func (cycleCountItemRow) TableName() string { return "cycle_count_items" }

func (r cycleCountItemRow) toDomain() inventory.CycleCountItem {
	return inventory.CycleCountItem{
		ID:               r.ID,
		CycleCountID:     r.CycleCountID,
		StockRecordID:    r.StockRecordID,
		ProductID:        r.ProductID,
		Location:         r.Location,
		BatchNumber:      r.BatchNumber,
		SystemQuantity:   r.SystemQuantity,
		PhysicalQuantity: r.PhysicalQuantity,
		Variance:         r.Variance,
		Counted:          r.Counted,
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
	}
}

func newCycleCountItemRow(item inventory.CycleCountItem) cycleCountItemRow {
	return cycleCountItemRow{
		ID:               item.ID,
		CycleCountID:     item.CycleCountID,
		StockRecordID:    item.StockRecordID,
		ProductID:        item.ProductID,
		Location:         item.Location,
		BatchNumber:      item.BatchNumber,
		SystemQuantity:   item.SystemQuantity,
		PhysicalQuantity: item.PhysicalQuantity,
		Variance:         item.Variance,
		Counted:          item.Counted,
		CreatedAt:        item.CreatedAt,
		UpdatedAt:        item.UpdatedAt,
	}
}

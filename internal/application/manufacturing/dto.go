package manufacturing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stitchworks/backend/internal/domain/manufacturing"
)

// CreateOrderInput describes a new production order. When BOMID is nil the
// active BOM for the finished good is resolved at creation time.
type CreateOrderInput struct {
	OrderNumber    string          `json:"order_number" validate:"required"`
	FinishedGoodID uuid.UUID       `json:"finished_good_id" validate:"required"`
	BOMID          *uuid.UUID      `json:"bom_id,omitempty"`
	Quantity       decimal.Decimal `json:"quantity" validate:"required"`
	TargetLocation string          `json:"target_location" validate:"required"`
	SalesOrderID   *uuid.UUID      `json:"sales_order_id,omitempty"`
}

// CreateBOMInput describes a new bill of materials
type CreateBOMInput struct {
	FinishedGoodID uuid.UUID      `json:"finished_good_id" validate:"required"`
	Name           string         `json:"name" validate:"required"`
	Lines          []BOMLineInput `json:"lines" validate:"required,min=1,dive"`
	Activate       bool           `json:"activate"`
}

// BOMLineInput is one material line of a new BOM
type BOMLineInput struct {
	MaterialID uuid.UUID       `json:"material_id" validate:"required"`
	QtyPerUnit decimal.Decimal `json:"qty_per_unit" validate:"required"`
}

// ProductionOrderResponse is the read projection of a production order
type ProductionOrderResponse struct {
	ID              uuid.UUID       `json:"id"`
	OrderNumber     string          `json:"order_number"`
	FinishedGoodID  uuid.UUID       `json:"finished_good_id"`
	BOMID           uuid.UUID       `json:"bom_id"`
	Quantity        decimal.Decimal `json:"quantity"`
	TargetLocation  string          `json:"target_location"`
	Status          string          `json:"status"`
	SalesOrderID    *uuid.UUID      `json:"sales_order_id,omitempty"`
	StartDate       time.Time       `json:"start_date"`
	CompletionDate  *time.Time      `json:"completion_date,omitempty"`
	ProducedBatchID string          `json:"produced_batch_id,omitempty"`
	CancelReason    string          `json:"cancel_reason,omitempty"`
}

func toProductionOrderResponse(po *manufacturing.ProductionOrder) ProductionOrderResponse {
	return ProductionOrderResponse{
		ID:              po.ID,
		OrderNumber:     po.OrderNumber,
		FinishedGoodID:  po.FinishedGoodID,
		BOMID:           po.BOMID,
		Quantity:        po.Quantity,
		TargetLocation:  po.TargetLocation,
		Status:          po.Status.String(),
		SalesOrderID:    po.SalesOrderID,
		StartDate:       po.StartDate,
		CompletionDate:  po.CompletionDate,
		ProducedBatchID: po.ProducedBatchID,
		CancelReason:    po.CancelReason,
	}
}

package manufacturing

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stitchworks/backend/internal/domain/shared"
)

// Event types for the manufacturing context
const (
	EventTypeProductionOrderCreated   = "manufacturing.production_order.created"
	EventTypeProductionOrderStarted   = "manufacturing.production_order.started"
	EventTypeProductionOrderCompleted = "manufacturing.production_order.completed"
	EventTypeProductionOrderCancelled = "manufacturing.production_order.cancelled"
)

// ProductionOrderCreatedEvent is emitted when a production order is created
type ProductionOrderCreatedEvent struct {
	shared.BaseDomainEvent
	OrderNumber    string          `json:"order_number"`
	FinishedGoodID uuid.UUID       `json:"finished_good_id"`
	Quantity       decimal.Decimal `json:"quantity"`
	TargetLocation string          `json:"target_location"`
}

// NewProductionOrderCreatedEvent creates a new ProductionOrderCreatedEvent
func NewProductionOrderCreatedEvent(po *ProductionOrder) *ProductionOrderCreatedEvent {
	return &ProductionOrderCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductionOrderCreated, "ProductionOrder", po.ID),
		OrderNumber:     po.OrderNumber,
		FinishedGoodID:  po.FinishedGoodID,
		Quantity:        po.Quantity,
		TargetLocation:  po.TargetLocation,
	}
}

// ProductionOrderStartedEvent is emitted when work begins
type ProductionOrderStartedEvent struct {
	shared.BaseDomainEvent
	OrderNumber string `json:"order_number"`
}

// NewProductionOrderStartedEvent creates a new ProductionOrderStartedEvent
func NewProductionOrderStartedEvent(po *ProductionOrder) *ProductionOrderStartedEvent {
	return &ProductionOrderStartedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductionOrderStarted, "ProductionOrder", po.ID),
		OrderNumber:     po.OrderNumber,
	}
}

// ProductionOrderCompletedEvent is emitted when materials were consumed and
// the finished-good batch was produced
type ProductionOrderCompletedEvent struct {
	shared.BaseDomainEvent
	OrderNumber     string          `json:"order_number"`
	FinishedGoodID  uuid.UUID       `json:"finished_good_id"`
	Quantity        decimal.Decimal `json:"quantity"`
	ProducedBatchID string          `json:"produced_batch_id"`
}

// NewProductionOrderCompletedEvent creates a new ProductionOrderCompletedEvent
func NewProductionOrderCompletedEvent(po *ProductionOrder) *ProductionOrderCompletedEvent {
	return &ProductionOrderCompletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductionOrderCompleted, "ProductionOrder", po.ID),
		OrderNumber:     po.OrderNumber,
		FinishedGoodID:  po.FinishedGoodID,
		Quantity:        po.Quantity,
		ProducedBatchID: po.ProducedBatchID,
	}
}

// ProductionOrderCancelledEvent is emitted when an order is abandoned
type ProductionOrderCancelledEvent struct {
	shared.BaseDomainEvent
	OrderNumber string `json:"order_number"`
	Reason      string `json:"reason"`
}

// NewProductionOrderCancelledEvent creates a new ProductionOrderCancelledEvent
func NewProductionOrderCancelledEvent(po *ProductionOrder) *ProductionOrderCancelledEvent {
	return &ProductionOrderCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductionOrderCancelled, "ProductionOrder", po.ID),
		OrderNumber:     po.OrderNumber,
		Reason:          po.CancelReason,
	}
}

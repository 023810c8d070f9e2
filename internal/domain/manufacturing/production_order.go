package manufacturing

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stitchworks/backend/internal/domain/shared"
)

// ProductionStatus represents the status of a production order
type ProductionStatus string

const (
	ProductionStatusPending   ProductionStatus = "PENDING"
	ProductionStatusWIP       ProductionStatus = "WIP"
	ProductionStatusCompleted ProductionStatus = "COMPLETED"
	ProductionStatusCancelled ProductionStatus = "CANCELLED"
)

// IsValid checks if the status is valid
func (s ProductionStatus) IsValid() bool {
	switch s {
	case ProductionStatusPending, ProductionStatusWIP, ProductionStatusCompleted, ProductionStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation
func (s ProductionStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s ProductionStatus) CanTransitionTo(target ProductionStatus) bool {
	switch s {
	case ProductionStatusPending:
		return target == ProductionStatusWIP || target == ProductionStatusCancelled
	case ProductionStatusWIP:
		return target == ProductionStatusCompleted || target == ProductionStatusCancelled
	case ProductionStatusCompleted, ProductionStatusCancelled:
		return false // terminal
	}
	return false
}

// IsTerminal returns true for completed and cancelled orders
func (s ProductionStatus) IsTerminal() bool {
	return s == ProductionStatusCompleted || s == ProductionStatusCancelled
}

// ProductionOrder is a work order to manufacture a quantity of a finished
// good at a target location, consuming materials per the referenced BOM.
type ProductionOrder struct {
	shared.BaseAggregateRoot
	OrderNumber     string           `gorm:"size:50;uniqueIndex;not null"`
	FinishedGoodID  uuid.UUID        `gorm:"type:uuid;not null;index"`
	BOMID           uuid.UUID        `gorm:"type:uuid;not null"`
	Quantity        decimal.Decimal  `gorm:"type:decimal(18,4);not null"`
	TargetLocation  string           `gorm:"size:50;not null"`
	Status          ProductionStatus `gorm:"size:20;not null;index"`
	SalesOrderID    *uuid.UUID       `gorm:"type:uuid;index"` // set when auto-spawned by a sales order
	StartDate       time.Time
	CompletionDate  *time.Time
	ProducedBatchID string `gorm:"size:50"`
	CancelReason    string `gorm:"size:500"`
}

// TableName returns the table name for GORM
func (ProductionOrder) TableName() string {
	return "production_orders"
}

// NewProductionOrder creates a production order in PENDING status
func NewProductionOrder(orderNumber string, finishedGoodID, bomID uuid.UUID, quantity decimal.Decimal, targetLocation string) (*ProductionOrder, error) {
	if orderNumber == "" {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot be empty")
	}
	if finishedGoodID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Finished good ID cannot be empty")
	}
	if bomID == uuid.Nil {
		return nil, shared.NewDomainError(shared.CodeBOMNotFound, "BOM ID cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if targetLocation == "" {
		return nil, shared.NewDomainError("INVALID_LOCATION", "Target location cannot be empty")
	}

	po := &ProductionOrder{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OrderNumber:       orderNumber,
		FinishedGoodID:    finishedGoodID,
		BOMID:             bomID,
		Quantity:          quantity,
		TargetLocation:    targetLocation,
		Status:            ProductionStatusPending,
		StartDate:         time.Now(),
	}

	po.AddDomainEvent(NewProductionOrderCreatedEvent(po))

	return po, nil
}

// LinkSalesOrder records the sales order that spawned this production order
func (po *ProductionOrder) LinkSalesOrder(salesOrderID uuid.UUID) {
	po.SalesOrderID = &salesOrderID
	po.Touch()
}

// Start moves the order onto the shop floor (PENDING -> WIP)
func (po *ProductionOrder) Start() error {
	if !po.Status.CanTransitionTo(ProductionStatusWIP) {
		return shared.NewDomainError(shared.CodeInvalidTransition, fmt.Sprintf("Cannot start production order in %s status", po.Status))
	}

	po.Status = ProductionStatusWIP
	po.Touch()
	po.IncrementVersion()

	po.AddDomainEvent(NewProductionOrderStartedEvent(po))

	return nil
}

// Complete finishes the order (WIP -> COMPLETED). Material consumption and
// finished-good output are the service layer's responsibility; the aggregate
// records the outcome.
func (po *ProductionOrder) Complete(producedBatchID string) error {
	if !po.Status.CanTransitionTo(ProductionStatusCompleted) {
		return shared.NewDomainError(shared.CodeInvalidTransition, fmt.Sprintf("Cannot complete production order in %s status", po.Status))
	}
	if producedBatchID == "" {
		return shared.NewDomainError("INVALID_BATCH", "Produced batch ID cannot be empty")
	}

	now := time.Now()
	po.Status = ProductionStatusCompleted
	po.CompletionDate = &now
	po.ProducedBatchID = producedBatchID
	po.Touch()
	po.IncrementVersion()

	po.AddDomainEvent(NewProductionOrderCompletedEvent(po))

	return nil
}

// Cancel abandons the order (PENDING|WIP -> CANCELLED)
func (po *ProductionOrder) Cancel(reason string) error {
	if !po.Status.CanTransitionTo(ProductionStatusCancelled) {
		return shared.NewDomainError(shared.CodeInvalidTransition, fmt.Sprintf("Cannot cancel production order in %s status", po.Status))
	}
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Cancel reason is required")
	}

	po.Status = ProductionStatusCancelled
	po.CancelReason = reason
	po.Touch()
	po.IncrementVersion()

	po.AddDomainEvent(NewProductionOrderCancelledEvent(po))

	return nil
}

// MintBatchNumber derives the finished-good batch id from the order number
// and completion period, e.g. "PO-2026-0001-202603".
func (po *ProductionOrder) MintBatchNumber(at time.Time) string {
	return fmt.Sprintf("%s-%s", po.OrderNumber, at.Format("200601"))
}

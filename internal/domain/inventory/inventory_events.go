package inventory

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stitchworks/backend/internal/domain/shared"
)

// Event types for the inventory context
const (
	EventTypeStockProduced       = "inventory.stock.produced"
	EventTypeStockAllocated      = "inventory.stock.allocated"
	EventTypeStockAdjusted       = "inventory.stock.adjusted"
	EventTypeStockTransferred    = "inventory.stock.transferred"
	EventTypeCycleCountStarted   = "inventory.cycle_count.started"
	EventTypeCycleCountConfirmed = "inventory.cycle_count.confirmed"
)

// StockProducedEvent is emitted for every inbound ledger mutation
// (receipt, production output, transfer-in, reversal)
type StockProducedEvent struct {
	shared.BaseDomainEvent
	ProductID      uuid.UUID       `json:"product_id"`
	Location       string          `json:"location"`
	BatchNumber    string          `json:"batch_number"`
	Quantity       decimal.Decimal `json:"quantity"`
	BeforeQuantity decimal.Decimal `json:"before_quantity"`
	AfterQuantity  decimal.Decimal `json:"after_quantity"`
	SourceType     SourceType      `json:"source_type"`
	SourceID       string          `json:"source_id"`
}

// NewStockProducedEvent creates a new StockProducedEvent
func NewStockProducedEvent(record *StockRecord, quantity, before, after decimal.Decimal, sourceType SourceType, sourceID string) *StockProducedEvent {
	return &StockProducedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockProduced, "StockRecord", record.ID),
		ProductID:       record.ProductID,
		Location:        record.Location,
		BatchNumber:     record.BatchNumber,
		Quantity:        quantity,
		BeforeQuantity:  before,
		AfterQuantity:   after,
		SourceType:      sourceType,
		SourceID:        sourceID,
	}
}

// StockAllocatedEvent is emitted when an allocation plan is committed
type StockAllocatedEvent struct {
	shared.BaseDomainEvent
	ProductID   uuid.UUID       `json:"product_id"`
	Requested   decimal.Decimal `json:"requested"`
	Allocations []Allocation    `json:"allocations"`
	SourceType  SourceType      `json:"source_type"`
	SourceID    string          `json:"source_id"`
}

// NewStockAllocatedEvent creates a new StockAllocatedEvent
func NewStockAllocatedEvent(productID uuid.UUID, requested decimal.Decimal, allocations []Allocation, sourceType SourceType, sourceID string) *StockAllocatedEvent {
	return &StockAllocatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockAllocated, "StockRecord", productID),
		ProductID:       productID,
		Requested:       requested,
		Allocations:     allocations,
		SourceType:      sourceType,
		SourceID:        sourceID,
	}
}

// StockAdjustedEvent is emitted once per record adjusted by a cycle count
type StockAdjustedEvent struct {
	shared.BaseDomainEvent
	ProductID   uuid.UUID       `json:"product_id"`
	Location    string          `json:"location"`
	BatchNumber string          `json:"batch_number"`
	OldQuantity decimal.Decimal `json:"old_quantity"`
	NewQuantity decimal.Decimal `json:"new_quantity"`
	Variance    decimal.Decimal `json:"variance"`
}

// NewStockAdjustedEvent creates a new StockAdjustedEvent
func NewStockAdjustedEvent(record *StockRecord, oldQty, newQty decimal.Decimal) *StockAdjustedEvent {
	return &StockAdjustedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockAdjusted, "StockRecord", record.ID),
		ProductID:       record.ProductID,
		Location:        record.Location,
		BatchNumber:     record.BatchNumber,
		OldQuantity:     oldQty,
		NewQuantity:     newQty,
		Variance:        newQty.Sub(oldQty),
	}
}

// StockTransferredEvent is emitted when a transfer completes
type StockTransferredEvent struct {
	shared.BaseDomainEvent
	ProductID    uuid.UUID       `json:"product_id"`
	FromLocation string          `json:"from_location"`
	ToLocation   string          `json:"to_location"`
	Quantity     decimal.Decimal `json:"quantity"`
	Batches      []string        `json:"batches"`
}

// NewStockTransferredEvent creates a new StockTransferredEvent
func NewStockTransferredEvent(productID uuid.UUID, from, to string, quantity decimal.Decimal, batches []string) *StockTransferredEvent {
	return &StockTransferredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockTransferred, "StockRecord", productID),
		ProductID:       productID,
		FromLocation:    from,
		ToLocation:      to,
		Quantity:        quantity,
		Batches:         batches,
	}
}

// CycleCountStartedEvent is emitted when a snapshot is taken
type CycleCountStartedEvent struct {
	shared.BaseDomainEvent
	CountNumber string `json:"count_number"`
	Location    string `json:"location"`
	TotalItems  int    `json:"total_items"`
}

// NewCycleCountStartedEvent creates a new CycleCountStartedEvent
func NewCycleCountStartedEvent(cc *CycleCount) *CycleCountStartedEvent {
	return &CycleCountStartedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCycleCountStarted, "CycleCount", cc.ID),
		CountNumber:     cc.CountNumber,
		Location:        cc.Location,
		TotalItems:      cc.TotalItems,
	}
}

// CycleCountConfirmedEvent is emitted when variances are confirmed
type CycleCountConfirmedEvent struct {
	shared.BaseDomainEvent
	CountNumber   string `json:"count_number"`
	Location      string `json:"location"`
	VarianceItems int    `json:"variance_items"`
}

// NewCycleCountConfirmedEvent creates a new CycleCountConfirmedEvent
func NewCycleCountConfirmedEvent(cc *CycleCount) *CycleCountConfirmedEvent {
	return &CycleCountConfirmedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCycleCountConfirmed, "CycleCount", cc.ID),
		CountNumber:     cc.CountNumber,
		Location:        cc.Location,
		VarianceItems:   len(cc.ItemsWithVariance()),
	}
}

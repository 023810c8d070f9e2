package trade

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stitchworks/backend/internal/domain/shared"
)

// Event types for purchase orders
const (
	EventTypePurchaseOrderCreated  = "trade.purchase_order.created"
	EventTypePurchaseOrderReceived = "trade.purchase_order.received"
	EventTypePurchaseOrderPaid     = "trade.purchase_order.paid"
)

// PurchaseOrderCreatedEvent is emitted when a purchase order is created
type PurchaseOrderCreatedEvent struct {
	shared.BaseDomainEvent
	OrderNumber string    `json:"order_number"`
	SupplierID  uuid.UUID `json:"supplier_id"`
}

// NewPurchaseOrderCreatedEvent creates a new PurchaseOrderCreatedEvent
func NewPurchaseOrderCreatedEvent(po *PurchaseOrder) *PurchaseOrderCreatedEvent {
	return &PurchaseOrderCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePurchaseOrderCreated, "PurchaseOrder", po.ID),
		OrderNumber:     po.OrderNumber,
		SupplierID:      po.SupplierID,
	}
}

// PurchaseOrderReceivedEvent is emitted when goods arrive
type PurchaseOrderReceivedEvent struct {
	shared.BaseDomainEvent
	OrderNumber string          `json:"order_number"`
	Total       decimal.Decimal `json:"total"`
}

// NewPurchaseOrderReceivedEvent creates a new PurchaseOrderReceivedEvent
func NewPurchaseOrderReceivedEvent(po *PurchaseOrder) *PurchaseOrderReceivedEvent {
	return &PurchaseOrderReceivedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePurchaseOrderReceived, "PurchaseOrder", po.ID),
		OrderNumber:     po.OrderNumber,
		Total:           po.Total(),
	}
}

// PurchaseOrderPaidEvent is emitted when the order is settled
type PurchaseOrderPaidEvent struct {
	shared.BaseDomainEvent
	OrderNumber string          `json:"order_number"`
	Total       decimal.Decimal `json:"total"`
}

// NewPurchaseOrderPaidEvent creates a new PurchaseOrderPaidEvent
func NewPurchaseOrderPaidEvent(po *PurchaseOrder) *PurchaseOrderPaidEvent {
	return &PurchaseOrderPaidEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePurchaseOrderPaid, "PurchaseOrder", po.ID),
		OrderNumber:     po.OrderNumber,
		Total:           po.Total(),
	}
}

package trade

import (
	"github.com/shopspring/decimal"
	"github.com/stitchworks/backend/internal/domain/shared"
)

// Event types for sales orders
const (
	EventTypeSalesOrderCreated        = "trade.sales_order.created"
	EventTypeSalesOrderStatusChanged  = "trade.sales_order.status_changed"
	EventTypeSalesOrderStockCommitted = "trade.sales_order.stock_committed"
)

// SalesOrderCreatedEvent is emitted when a sales order is created
type SalesOrderCreatedEvent struct {
	shared.BaseDomainEvent
	OrderNumber string      `json:"order_number"`
	PaymentTerm PaymentTerm `json:"payment_term"`
}

// NewSalesOrderCreatedEvent creates a new SalesOrderCreatedEvent
func NewSalesOrderCreatedEvent(o *SalesOrder) *SalesOrderCreatedEvent {
	return &SalesOrderCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSalesOrderCreated, "SalesOrder", o.ID),
		OrderNumber:     o.OrderNumber,
		PaymentTerm:     o.PaymentTerm,
	}
}

// SalesOrderStatusChangedEvent is emitted on every status transition
type SalesOrderStatusChangedEvent struct {
	shared.BaseDomainEvent
	OrderNumber string           `json:"order_number"`
	FromStatus  SalesOrderStatus `json:"from_status"`
	ToStatus    SalesOrderStatus `json:"to_status"`
}

// NewSalesOrderStatusChangedEvent creates a new SalesOrderStatusChangedEvent
func NewSalesOrderStatusChangedEvent(o *SalesOrder, from, to SalesOrderStatus) *SalesOrderStatusChangedEvent {
	return &SalesOrderStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSalesOrderStatusChanged, "SalesOrder", o.ID),
		OrderNumber:     o.OrderNumber,
		FromStatus:      from,
		ToStatus:        to,
	}
}

// SalesOrderStockCommittedEvent is emitted once stock is allocated to the order
type SalesOrderStockCommittedEvent struct {
	shared.BaseDomainEvent
	OrderNumber string          `json:"order_number"`
	Total       decimal.Decimal `json:"total"`
}

// NewSalesOrderStockCommittedEvent creates a new SalesOrderStockCommittedEvent
func NewSalesOrderStockCommittedEvent(o *SalesOrder) *SalesOrderStockCommittedEvent {
	return &SalesOrderStockCommittedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSalesOrderStockCommitted, "SalesOrder", o.ID),
		OrderNumber:     o.OrderNumber,
		Total:           o.Total(),
	}
}

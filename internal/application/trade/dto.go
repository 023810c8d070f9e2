package trade

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stitchworks/backend/internal/domain/trade"
)

// CreateQuoteInput opens a new sales order in QUOTE status
type CreateQuoteInput struct {
	OrderNumber string            `json:"order_number" validate:"required"`
	CustomerID  *uuid.UUID        `json:"customer_id,omitempty"`
	PaymentTerm trade.PaymentTerm `json:"payment_term" validate:"required"`
}

// AddLineInput adds one product line to a quote. The unit price is derived
// from the product's price list and the customer's tier.
type AddLineInput struct {
	OrderID   uuid.UUID       `json:"order_id" validate:"required"`
	ProductID uuid.UUID       `json:"product_id" validate:"required"`
	Quantity  decimal.Decimal `json:"quantity" validate:"required"`
}

// TransitionInput moves a sales order to a new status
type TransitionInput struct {
	OrderID uuid.UUID              `json:"order_id" validate:"required"`
	Target  trade.SalesOrderStatus `json:"target" validate:"required"`
	Note    string                 `json:"note"`
}

// SkippedLine reports a finished-good line that could not spawn a
// production order when the sale entered AWAITING_PRODUCTION
type SkippedLine struct {
	ProductID uuid.UUID `json:"product_id"`
	Reason    string    `json:"reason"`
}

// TransitionResult is the outcome of a sales order transition
type TransitionResult struct {
	Order             SalesOrderResponse `json:"order"`
	SpawnedProduction []uuid.UUID        `json:"spawned_production,omitempty"`
	SkippedLines      []SkippedLine      `json:"skipped_lines,omitempty"`
}

// SalesOrderItemResponse is the read projection of one order line
type SalesOrderItemResponse struct {
	ID          uuid.UUID              `json:"id"`
	ProductID   uuid.UUID              `json:"product_id"`
	ProductName string                 `json:"product_name"`
	Quantity    decimal.Decimal        `json:"quantity"`
	UnitPrice   decimal.Decimal        `json:"unit_price"`
	UnitCost    decimal.Decimal        `json:"unit_cost"`
	Amount      decimal.Decimal        `json:"amount"`
	Allocations []trade.LineAllocation `json:"allocations,omitempty"`
}

// SalesOrderResponse is the read projection of a sales order
type SalesOrderResponse struct {
	ID               uuid.UUID                `json:"id"`
	OrderNumber      string                   `json:"order_number"`
	CustomerID       *uuid.UUID               `json:"customer_id,omitempty"`
	CustomerName     string                   `json:"customer_name,omitempty"`
	Status           string                   `json:"status"`
	PaymentTerm      string                   `json:"payment_term"`
	DeliveryAssignee string                   `json:"delivery_assignee,omitempty"`
	StockCommitted   bool                     `json:"stock_committed"`
	CashApplied      bool                     `json:"cash_applied"`
	Total            decimal.Decimal          `json:"total"`
	Items            []SalesOrderItemResponse `json:"items"`
	CancelReason     string                   `json:"cancel_reason,omitempty"`
	CompletedAt      *time.Time               `json:"completed_at,omitempty"`
	CancelledAt      *time.Time               `json:"cancelled_at,omitempty"`
}

func toSalesOrderResponse(o *trade.SalesOrder) SalesOrderResponse {
	items := make([]SalesOrderItemResponse, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, SalesOrderItemResponse{
			ID:          item.ID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			UnitCost:    item.UnitCost,
			Amount:      item.Amount(),
			Allocations: item.Allocations,
		})
	}
	return SalesOrderResponse{
		ID:               o.ID,
		OrderNumber:      o.OrderNumber,
		CustomerID:       o.CustomerID,
		CustomerName:     o.CustomerName,
		Status:           o.Status.String(),
		PaymentTerm:      string(o.PaymentTerm),
		DeliveryAssignee: o.DeliveryAssignee,
		StockCommitted:   o.StockCommitted,
		CashApplied:      o.CashApplied,
		Total:            o.Total(),
		Items:            items,
		CancelReason:     o.CancelReason,
		CompletedAt:      o.CompletedAt,
		CancelledAt:      o.CancelledAt,
	}
}

// CreatePurchaseInput opens a purchase order with a supplier
type CreatePurchaseInput struct {
	OrderNumber string    `json:"order_number" validate:"required"`
	SupplierID  uuid.UUID `json:"supplier_id" validate:"required"`
}

// AddPurchaseLineInput adds one material line to a pending purchase order
type AddPurchaseLineInput struct {
	OrderID    uuid.UUID       `json:"order_id" validate:"required"`
	MaterialID uuid.UUID       `json:"material_id" validate:"required"`
	Quantity   decimal.Decimal `json:"quantity" validate:"required"`
	UnitCost   decimal.Decimal `json:"unit_cost" validate:"required"`
}

// ReceiveLineInput routes one purchase order line into a stock location
type ReceiveLineInput struct {
	MaterialID  uuid.UUID  `json:"material_id" validate:"required"`
	Location    string     `json:"location" validate:"required"`
	BatchNumber string     `json:"batch_number" validate:"required"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
}

// PurchaseOrderResponse is the read projection of a purchase order
type PurchaseOrderResponse struct {
	ID           uuid.UUID                   `json:"id"`
	OrderNumber  string                      `json:"order_number"`
	SupplierID   uuid.UUID                   `json:"supplier_id"`
	SupplierName string                      `json:"supplier_name"`
	Status       string                      `json:"status"`
	Total        decimal.Decimal             `json:"total"`
	Items        []PurchaseOrderItemResponse `json:"items"`
	ReceivedAt   *time.Time                  `json:"received_at,omitempty"`
	PaidAt       *time.Time                  `json:"paid_at,omitempty"`
}

// PurchaseOrderItemResponse is the read projection of one purchase line
type PurchaseOrderItemResponse struct {
	ID         uuid.UUID       `json:"id"`
	MaterialID uuid.UUID       `json:"material_id"`
	Name       string          `json:"name"`
	Quantity   decimal.Decimal `json:"quantity"`
	UnitCost   decimal.Decimal `json:"unit_cost"`
	Amount     decimal.Decimal `json:"amount"`
}

func toPurchaseOrderResponse(po *trade.PurchaseOrder) PurchaseOrderResponse {
	items := make([]PurchaseOrderItemResponse, 0, len(po.Items))
	for _, item := range po.Items {
		items = append(items, PurchaseOrderItemResponse{
			ID:         item.ID,
			MaterialID: item.MaterialID,
			Name:       item.Name,
			Quantity:   item.Quantity,
			UnitCost:   item.UnitCost,
			Amount:     item.Amount(),
		})
	}
	return PurchaseOrderResponse{
		ID:           po.ID,
		OrderNumber:  po.OrderNumber,
		SupplierID:   po.SupplierID,
		SupplierName: po.SupplierName,
		Status:       po.Status.String(),
		Total:        po.Total(),
		Items:        items,
		ReceivedAt:   po.ReceivedAt,
		PaidAt:       po.PaidAt,
	}
}

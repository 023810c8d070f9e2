package trade

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stitchworks/backend/internal/domain/shared"
	"github.com/stitchworks/backend/internal/domain/shared/valueobject"
)

// SalesOrderStatus represents the status of a sales order
type SalesOrderStatus string

const (
	SalesStatusQuote              SalesOrderStatus = "QUOTE"
	SalesStatusPending            SalesOrderStatus = "PENDING"
	SalesStatusAwaitingProduction SalesOrderStatus = "AWAITING_PRODUCTION"
	SalesStatusDispatching        SalesOrderStatus = "DISPATCHING"
	SalesStatusOutForDelivery     SalesOrderStatus = "OUT_FOR_DELIVERY"
	SalesStatusDelivered          SalesOrderStatus = "DELIVERED"
	SalesStatusCompleted          SalesOrderStatus = "COMPLETED"
	SalesStatusCancelled          SalesOrderStatus = "CANCELLED"
)

// salesStatusRank orders the fulfilment pipeline. Cancelled sits outside it.
var salesStatusRank = map[SalesOrderStatus]int{
	SalesStatusQuote:              0,
	SalesStatusPending:            1,
	SalesStatusAwaitingProduction: 2,
	SalesStatusDispatching:        3,
	SalesStatusOutForDelivery:     4,
	SalesStatusDelivered:          5,
	SalesStatusCompleted:          6,
}

// IsValid checks if the status is a valid SalesOrderStatus
func (s SalesOrderStatus) IsValid() bool {
	if s == SalesStatusCancelled {
		return true
	}
	_, ok := salesStatusRank[s]
	return ok
}

// String returns the string representation
func (s SalesOrderStatus) String() string {
	return string(s)
}

// IsTerminal returns true for completed orders. Cancelled is not terminal
// because a cancelled order can be restored to pending.
func (s SalesOrderStatus) IsTerminal() bool {
	return s == SalesStatusCompleted
}

// CommitsStock reports whether entering the status commits stock
func (s SalesOrderStatus) CommitsStock() bool {
	return s == SalesStatusDispatching || s == SalesStatusCompleted
}

// CanTransitionTo checks if the status can transition to the target status.
// Orders move forward along the pipeline (stages may be skipped), any
// non-completed active order can be cancelled, and a cancelled order can be
// restored to pending.
func (s SalesOrderStatus) CanTransitionTo(target SalesOrderStatus) bool {
	if s == target {
		return false
	}
	if s == SalesStatusCancelled {
		return target == SalesStatusPending
	}
	if target == SalesStatusCancelled {
		return !s.IsTerminal()
	}
	from, okFrom := salesStatusRank[s]
	to, okTo := salesStatusRank[target]
	return okFrom && okTo && to > from
}

// PaymentTerm determines when the cash effect of a sale applies
type PaymentTerm string

const (
	PaymentTermImmediate PaymentTerm = "IMMEDIATE"
	PaymentTermCredit    PaymentTerm = "CREDIT"
)

// IsValid checks if the payment term is valid
func (p PaymentTerm) IsValid() bool {
	return p == PaymentTermImmediate || p == PaymentTermCredit
}

// LineAllocation is the stored provenance of one batch drawn for a line,
// kept for pick lists and cancellation reversals
type LineAllocation struct {
	Location    string          `json:"location"`
	BatchNumber string          `json:"batch_number"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
}

// SalesOrderItem represents a line item in a sales order
type SalesOrderItem struct {
	ID          uuid.UUID
	OrderID     uuid.UUID
	ProductID   uuid.UUID
	ProductName string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	UnitCost    decimal.Decimal // weighted cost of the allocated batches
	Allocations []LineAllocation
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewSalesOrderItem creates a new sales order item
func NewSalesOrderItem(orderID, productID uuid.UUID, productName string, quantity decimal.Decimal, unitPrice valueobject.Money) (*SalesOrderItem, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if productName == "" {
		return nil, shared.NewDomainError("INVALID_PRODUCT_NAME", "Product name cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if unitPrice.Amount().IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}

	now := time.Now()
	return &SalesOrderItem{
		ID:          uuid.New(),
		OrderID:     orderID,
		ProductID:   productID,
		ProductName: productName,
		Quantity:    quantity,
		UnitPrice:   unitPrice.Amount(),
		UnitCost:    decimal.Zero,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// Amount returns quantity * unit price for the line
func (i *SalesOrderItem) Amount() decimal.Decimal {
	return i.Quantity.Mul(i.UnitPrice)
}

// AllocatedQuantity sums the stored provenance
func (i *SalesOrderItem) AllocatedQuantity() decimal.Decimal {
	total := decimal.Zero
	for _, a := range i.Allocations {
		total = total.Add(a.Quantity)
	}
	return total
}

// StatusChange is one entry in the order's status history
type StatusChange struct {
	ID      uuid.UUID        `json:"id"`
	OrderID uuid.UUID        `json:"order_id"`
	From    SalesOrderStatus `json:"from"`
	To      SalesOrderStatus `json:"to"`
	Note    string           `json:"note"`
	At      time.Time        `json:"at"`
}

// SalesOrder manages a customer order from quotation through fulfilment.
// Stock and cash side effects of transitions are orchestrated by the
// application service; the aggregate owns the state machine and provenance.
type SalesOrder struct {
	shared.BaseAggregateRoot
	OrderNumber      string `gorm:"size:50;uniqueIndex;not null"`
	CustomerID       *uuid.UUID
	CustomerName     string
	Items            []SalesOrderItem `gorm:"-"`
	Status           SalesOrderStatus `gorm:"size:30;not null;index"`
	StatusHistory    []StatusChange   `gorm:"-"`
	PaymentTerm      PaymentTerm      `gorm:"size:20;not null"`
	DeliveryAssignee string           `gorm:"size:100"`
	StockCommitted   bool             `gorm:"not null;default:false"`
	CashApplied      bool             `gorm:"not null;default:false"`
	CancelReason     string           `gorm:"size:500"`
	CompletedAt      *time.Time
	CancelledAt      *time.Time
}

// TableName returns the table name for GORM
func (SalesOrder) TableName() string {
	return "sales_orders"
}

// NewSalesOrder creates a new sales order in QUOTE status
func NewSalesOrder(orderNumber string, paymentTerm PaymentTerm) (*SalesOrder, error) {
	if orderNumber == "" {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot be empty")
	}
	if len(orderNumber) > 50 {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot exceed 50 characters")
	}
	if !paymentTerm.IsValid() {
		return nil, shared.NewDomainError("INVALID_PAYMENT_TERM", "Payment term must be IMMEDIATE or CREDIT")
	}

	order := &SalesOrder{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OrderNumber:       orderNumber,
		Items:             make([]SalesOrderItem, 0),
		Status:            SalesStatusQuote,
		StatusHistory:     make([]StatusChange, 0),
		PaymentTerm:       paymentTerm,
	}

	order.AddDomainEvent(NewSalesOrderCreatedEvent(order))

	return order, nil
}

// SetCustomer attaches the buying customer. Required for credit-term orders.
func (o *SalesOrder) SetCustomer(customerID uuid.UUID, name string) error {
	if customerID == uuid.Nil {
		return shared.NewDomainError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}

	o.CustomerID = &customerID
	o.CustomerName = name
	o.Touch()

	return nil
}

// AddItem adds a line item. Only allowed while the order is a quote.
func (o *SalesOrder) AddItem(productID uuid.UUID, productName string, quantity decimal.Decimal, unitPrice valueobject.Money) (*SalesOrderItem, error) {
	if o.Status != SalesStatusQuote {
		return nil, shared.NewDomainError(shared.CodeInvalidTransition, "Items can only be added to a quote")
	}

	for _, item := range o.Items {
		if item.ProductID == productID {
			return nil, shared.NewDomainError("DUPLICATE_PRODUCT", "Product already exists in order, update quantity instead")
		}
	}

	item, err := NewSalesOrderItem(o.ID, productID, productName, quantity, unitPrice)
	if err != nil {
		return nil, err
	}

	o.Items = append(o.Items, *item)
	o.Touch()

	return item, nil
}

// RemoveItem removes a line item. Only allowed while the order is a quote.
func (o *SalesOrder) RemoveItem(itemID uuid.UUID) error {
	if o.Status != SalesStatusQuote {
		return shared.NewDomainError(shared.CodeInvalidTransition, "Items can only be removed from a quote")
	}

	for idx, item := range o.Items {
		if item.ID == itemID {
			o.Items = append(o.Items[:idx], o.Items[idx+1:]...)
			o.Touch()
			return nil
		}
	}

	return shared.NewDomainError("ITEM_NOT_FOUND", "Order item not found")
}

// AssignDelivery sets the delivery resource required before dispatching
func (o *SalesOrder) AssignDelivery(assignee string) error {
	if assignee == "" {
		return shared.NewDomainError("INVALID_ASSIGNEE", "Delivery assignee cannot be empty")
	}

	o.DeliveryAssignee = assignee
	o.Touch()

	return nil
}

// Total returns the order total across all lines
func (o *SalesOrder) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.Amount())
	}
	return total
}

// TotalMoney returns the order total as Money
func (o *SalesOrder) TotalMoney() valueobject.Money {
	return valueobject.NewMoneyUSD(o.Total())
}

// RequiresStockCommit reports whether moving to target would commit stock
// for the first time
func (o *SalesOrder) RequiresStockCommit(target SalesOrderStatus) bool {
	return target.CommitsStock() && !o.StockCommitted
}

// TransitionTo moves the order to the target status, enforcing the state
// machine and the dispatching logistics guard. Stock and cash effects are
// the caller's responsibility and must be settled before calling.
func (o *SalesOrder) TransitionTo(target SalesOrderStatus, note string) error {
	if !target.IsValid() {
		return shared.NewDomainError(shared.CodeInvalidTransition, fmt.Sprintf("Unknown status %s", target))
	}
	if !o.Status.CanTransitionTo(target) {
		return shared.NewDomainError(shared.CodeInvalidTransition, fmt.Sprintf("Cannot move order from %s to %s", o.Status, target))
	}
	if target == SalesStatusDispatching && o.DeliveryAssignee == "" {
		return shared.NewDomainError(shared.CodeLogisticsNotAssigned, "A delivery resource must be assigned before dispatching")
	}
	if target == SalesStatusCancelled && note == "" {
		return shared.NewDomainError("INVALID_REASON", "Cancel reason is required")
	}

	from := o.Status
	now := time.Now()
	o.Status = target
	o.StatusHistory = append(o.StatusHistory, StatusChange{
		ID:      uuid.New(),
		OrderID: o.ID,
		From:    from,
		To:      target,
		Note:    note,
		At:      now,
	})

	switch target {
	case SalesStatusCompleted:
		o.CompletedAt = &now
	case SalesStatusCancelled:
		o.CancelledAt = &now
		o.CancelReason = note
	case SalesStatusPending:
		if from == SalesStatusCancelled {
			o.CancelledAt = nil
			o.CancelReason = ""
		}
	}

	o.Touch()
	o.IncrementVersion()

	o.AddDomainEvent(NewSalesOrderStatusChangedEvent(o, from, target))

	return nil
}

// RecordAllocations stores per-line allocation provenance after stock was
// committed. The caller supplies allocations keyed by line item ID.
func (o *SalesOrder) RecordAllocations(byItem map[uuid.UUID][]LineAllocation, unitCosts map[uuid.UUID]decimal.Decimal) error {
	if o.StockCommitted {
		return shared.NewDomainError("ALREADY_COMMITTED", "Stock was already committed for this order")
	}

	for idx := range o.Items {
		allocs, ok := byItem[o.Items[idx].ID]
		if !ok {
			return shared.NewDomainError("MISSING_ALLOCATION", "Every line must carry allocation provenance")
		}
		o.Items[idx].Allocations = allocs
		if cost, ok := unitCosts[o.Items[idx].ID]; ok {
			o.Items[idx].UnitCost = cost
		}
		o.Items[idx].UpdatedAt = time.Now()
	}

	o.StockCommitted = true
	o.Touch()

	o.AddDomainEvent(NewSalesOrderStockCommittedEvent(o))

	return nil
}

// ClearCommitment drops the committed flag after a cancellation reversal,
// keeping the provenance for audit
func (o *SalesOrder) ClearCommitment() {
	o.StockCommitted = false
	o.Touch()
}

// MarkCashApplied records that the immediate-payment cash effect ran
func (o *SalesOrder) MarkCashApplied() {
	o.CashApplied = true
	o.Touch()
}

// ClearCashApplied records that the cash effect was reversed
func (o *SalesOrder) ClearCashApplied() {
	o.CashApplied = false
	o.Touch()
}

// IsCancelled returns true if the order is cancelled
func (o *SalesOrder) IsCancelled() bool {
	return o.Status == SalesStatusCancelled
}

// ItemByID returns a line item by its ID
func (o *SalesOrder) ItemByID(itemID uuid.UUID) *SalesOrderItem {
	for idx := range o.Items {
		if o.Items[idx].ID == itemID {
			return &o.Items[idx]
		}
	}
	return nil
}

// ItemByProduct returns a line item by product ID
func (o *SalesOrder) ItemByProduct(productID uuid.UUID) *SalesOrderItem {
	for idx := range o.Items {
		if o.Items[idx].ProductID == productID {
			return &o.Items[idx]
		}
	}
	return nil
}

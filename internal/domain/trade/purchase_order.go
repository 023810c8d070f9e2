package trade

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stitchworks/backend/internal/domain/shared"
	"github.com/stitchworks/backend/internal/domain/shared/valueobject"
)

// PurchaseOrderStatus represents the status of a purchase order
type PurchaseOrderStatus string

const (
	PurchaseStatusPending   PurchaseOrderStatus = "PENDING"
	PurchaseStatusReceived  PurchaseOrderStatus = "RECEIVED"
	PurchaseStatusPaid      PurchaseOrderStatus = "PAID"
	PurchaseStatusCancelled PurchaseOrderStatus = "CANCELLED"
)

// IsValid checks if the status is valid
func (s PurchaseOrderStatus) IsValid() bool {
	switch s {
	case PurchaseStatusPending, PurchaseStatusReceived, PurchaseStatusPaid, PurchaseStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation
func (s PurchaseOrderStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s PurchaseOrderStatus) CanTransitionTo(target PurchaseOrderStatus) bool {
	switch s {
	case PurchaseStatusPending:
		return target == PurchaseStatusReceived || target == PurchaseStatusCancelled
	case PurchaseStatusReceived:
		return target == PurchaseStatusPaid
	case PurchaseStatusPaid, PurchaseStatusCancelled:
		return false // terminal
	}
	return false
}

// PurchaseOrderItem represents a line item in a purchase order
type PurchaseOrderItem struct {
	ID         uuid.UUID
	OrderID    uuid.UUID
	MaterialID uuid.UUID
	Name       string
	Quantity   decimal.Decimal
	UnitCost   decimal.Decimal
	CreatedAt  time.Time
}

// Amount returns quantity * unit cost for the line
func (i *PurchaseOrderItem) Amount() decimal.Decimal {
	return i.Quantity.Mul(i.UnitCost)
}

// PurchaseOrder is an order placed with a supplier for materials or goods
type PurchaseOrder struct {
	shared.BaseAggregateRoot
	OrderNumber  string    `gorm:"size:50;uniqueIndex;not null"`
	SupplierID   uuid.UUID `gorm:"type:uuid;not null;index"`
	SupplierName string
	Items        []PurchaseOrderItem `gorm:"-"`
	Status       PurchaseOrderStatus `gorm:"size:20;not null;index"`
	ReceivedAt   *time.Time
	PaidAt       *time.Time
	CancelReason string `gorm:"size:500"`
}

// TableName returns the table name for GORM
func (PurchaseOrder) TableName() string {
	return "purchase_orders"
}

// NewPurchaseOrder creates a purchase order in PENDING status
func NewPurchaseOrder(orderNumber string, supplierID uuid.UUID, supplierName string) (*PurchaseOrder, error) {
	if orderNumber == "" {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot be empty")
	}
	if supplierID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SUPPLIER", "Supplier ID cannot be empty")
	}

	po := &PurchaseOrder{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OrderNumber:       orderNumber,
		SupplierID:        supplierID,
		SupplierName:      supplierName,
		Items:             make([]PurchaseOrderItem, 0),
		Status:            PurchaseStatusPending,
	}

	po.AddDomainEvent(NewPurchaseOrderCreatedEvent(po))

	return po, nil
}

// AddItem adds a line item. Only allowed while pending.
func (po *PurchaseOrder) AddItem(materialID uuid.UUID, name string, quantity decimal.Decimal, unitCost valueobject.Money) (*PurchaseOrderItem, error) {
	if po.Status != PurchaseStatusPending {
		return nil, shared.NewDomainError(shared.CodeInvalidTransition, "Items can only be added to a pending purchase order")
	}
	if materialID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Material ID cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if unitCost.Amount().IsNegative() {
		return nil, shared.NewDomainError("INVALID_COST", "Unit cost cannot be negative")
	}

	for _, item := range po.Items {
		if item.MaterialID == materialID {
			return nil, shared.NewDomainError("DUPLICATE_PRODUCT", "Material already exists in order")
		}
	}

	item := PurchaseOrderItem{
		ID:         uuid.New(),
		OrderID:    po.ID,
		MaterialID: materialID,
		Name:       name,
		Quantity:   quantity,
		UnitCost:   unitCost.Amount(),
		CreatedAt:  time.Now(),
	}

	po.Items = append(po.Items, item)
	po.Touch()

	return &item, nil
}

// Total returns the order total across all lines
func (po *PurchaseOrder) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range po.Items {
		total = total.Add(item.Amount())
	}
	return total
}

// TotalMoney returns the order total as Money
func (po *PurchaseOrder) TotalMoney() valueobject.Money {
	return valueobject.NewMoneyUSD(po.Total())
}

// Receive marks the goods as received (PENDING -> RECEIVED). Stocking the
// goods and writing receipt records is the application service's job.
func (po *PurchaseOrder) Receive(at time.Time) error {
	if !po.Status.CanTransitionTo(PurchaseStatusReceived) {
		return shared.NewDomainError(shared.CodeInvalidTransition, fmt.Sprintf("Cannot receive purchase order in %s status", po.Status))
	}
	if len(po.Items) == 0 {
		return shared.NewDomainError("NO_ITEMS", "Cannot receive a purchase order without items")
	}

	po.Status = PurchaseStatusReceived
	po.ReceivedAt = &at
	po.Touch()
	po.IncrementVersion()

	po.AddDomainEvent(NewPurchaseOrderReceivedEvent(po))

	return nil
}

// MarkPaid settles the order (RECEIVED -> PAID). The guard makes a second
// payment attempt fail rather than double-deduct cash.
func (po *PurchaseOrder) MarkPaid() error {
	if po.Status == PurchaseStatusPaid {
		return shared.NewDomainError("ALREADY_PAID", "Purchase order was already paid")
	}
	if !po.Status.CanTransitionTo(PurchaseStatusPaid) {
		return shared.NewDomainError(shared.CodeInvalidTransition, fmt.Sprintf("Cannot pay purchase order in %s status", po.Status))
	}

	now := time.Now()
	po.Status = PurchaseStatusPaid
	po.PaidAt = &now
	po.Touch()
	po.IncrementVersion()

	po.AddDomainEvent(NewPurchaseOrderPaidEvent(po))

	return nil
}

// RevertPayment undoes MarkPaid (PAID -> RECEIVED) when the cash ledger
// could not be debited after the status change was persisted.
func (po *PurchaseOrder) RevertPayment() error {
	if po.Status != PurchaseStatusPaid {
		return shared.NewDomainError(shared.CodeInvalidTransition, fmt.Sprintf("Cannot revert payment on purchase order in %s status", po.Status))
	}

	po.Status = PurchaseStatusReceived
	po.PaidAt = nil
	po.Touch()
	po.IncrementVersion()

	return nil
}

// Cancel abandons a pending order
func (po *PurchaseOrder) Cancel(reason string) error {
	if !po.Status.CanTransitionTo(PurchaseStatusCancelled) {
		return shared.NewDomainError(shared.CodeInvalidTransition, fmt.Sprintf("Cannot cancel purchase order in %s status", po.Status))
	}
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Cancel reason is required")
	}

	po.Status = PurchaseStatusCancelled
	po.CancelReason = reason
	po.Touch()
	po.IncrementVersion()

	return nil
}

// GoodsReceipt records one received purchase line landing in stock
type GoodsReceipt struct {
	shared.BaseEntity
	PurchaseOrderID uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	Quantity        decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitCost        decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	TotalCost       decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Location        string          `gorm:"size:50;not null"`
	BatchNumber     string          `gorm:"size:50"`
	ReceivedAt      time.Time       `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (GoodsReceipt) TableName() string {
	return "goods_receipts"
}

// NewGoodsReceipt creates a receipt record for one received line
func NewGoodsReceipt(purchaseOrderID, productID uuid.UUID, quantity, unitCost decimal.Decimal, location, batchNumber string, receivedAt time.Time) (*GoodsReceipt, error) {
	if purchaseOrderID == uuid.Nil || productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_RECEIPT", "Receipt must reference a purchase order and product")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Receipt quantity must be positive")
	}
	if location == "" {
		return nil, shared.NewDomainError("INVALID_LOCATION", "Receipt location cannot be empty")
	}

	return &GoodsReceipt{
		BaseEntity:      shared.NewBaseEntity(),
		PurchaseOrderID: purchaseOrderID,
		ProductID:       productID,
		Quantity:        quantity,
		UnitCost:        unitCost,
		TotalCost:       quantity.Mul(unitCost),
		Location:        location,
		BatchNumber:     batchNumber,
		ReceivedAt:      receivedAt,
	}, nil
}

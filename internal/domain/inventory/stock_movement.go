package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stitchworks/backend/internal/domain/shared"
)

// MovementType classifies a ledger mutation
type MovementType string

const (
	// MovementTypeReceipt is stock coming in from a supplier receipt or production output
	MovementTypeReceipt MovementType = "RECEIPT"
	// MovementTypeConsumption is stock going out to a sale or material consumption
	MovementTypeConsumption MovementType = "CONSUMPTION"
	// MovementTypeAdjustment is a cycle-count correction (signed)
	MovementTypeAdjustment MovementType = "ADJUSTMENT"
	// MovementTypeTransferIn is stock arriving from another location
	MovementTypeTransferIn MovementType = "TRANSFER_IN"
	// MovementTypeTransferOut is stock leaving for another location
	MovementTypeTransferOut MovementType = "TRANSFER_OUT"
)

// String returns the string representation
func (t MovementType) String() string {
	return string(t)
}

// IsValid returns true if the movement type is valid
func (t MovementType) IsValid() bool {
	switch t {
	case MovementTypeReceipt, MovementTypeConsumption, MovementTypeAdjustment,
		MovementTypeTransferIn, MovementTypeTransferOut:
		return true
	}
	return false
}

// SourceType identifies the document that caused a movement
type SourceType string

const (
	SourceTypePurchaseOrder   SourceType = "PURCHASE_ORDER"
	SourceTypeSalesOrder      SourceType = "SALES_ORDER"
	SourceTypeProductionOrder SourceType = "PRODUCTION_ORDER"
	SourceTypeCycleCount      SourceType = "CYCLE_COUNT"
	SourceTypeTransfer        SourceType = "TRANSFER"
	SourceTypeManual          SourceType = "MANUAL"
)

// String returns the string representation
func (s SourceType) String() string {
	return string(s)
}

// StockMovement is one append-only journal entry per ledger mutation. The
// reconciliation invariant holds against this journal: for every product,
// sum(record.quantity) == receipts - consumptions + adjustments, where
// transfers net to zero.
type StockMovement struct {
	shared.BaseEntity
	ProductID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	Location       string          `gorm:"size:50;not null;index"`
	BatchNumber    string          `gorm:"size:50;not null"`
	Type           MovementType    `gorm:"size:20;not null;index"`
	Quantity       decimal.Decimal `gorm:"type:decimal(18,4);not null"` // signed: positive in, negative out
	BeforeQuantity decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	AfterQuantity  decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	SourceType     SourceType      `gorm:"size:30;not null"`
	SourceID       string          `gorm:"size:100"`
	OccurredAt     time.Time       `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (StockMovement) TableName() string {
	return "stock_movements"
}

// NewStockMovement creates a movement journal entry
func NewStockMovement(productID uuid.UUID, location, batchNumber string, movementType MovementType, quantity, before, after decimal.Decimal, sourceType SourceType, sourceID string) (*StockMovement, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if !movementType.IsValid() {
		return nil, shared.NewDomainError("INVALID_MOVEMENT_TYPE", "Unknown movement type: "+string(movementType))
	}
	if quantity.IsZero() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Movement quantity cannot be zero")
	}
	if !before.Add(quantity).Equal(after) {
		return nil, shared.NewDomainError("INCONSISTENT_MOVEMENT", "Before + quantity must equal after")
	}

	return &StockMovement{
		BaseEntity:     shared.NewBaseEntity(),
		ProductID:      productID,
		Location:       location,
		BatchNumber:    batchNumber,
		Type:           movementType,
		Quantity:       quantity,
		BeforeQuantity: before,
		AfterQuantity:  after,
		SourceType:     sourceType,
		SourceID:       sourceID,
		OccurredAt:     time.Now(),
	}, nil
}

// IsInbound returns true if the movement increased stock
func (m *StockMovement) IsInbound() bool {
	return m.Quantity.GreaterThan(decimal.Zero)
}

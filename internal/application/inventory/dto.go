package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stitchworks/backend/internal/domain/inventory"
)

// ProduceInput describes one inbound lot landing in the ledger
type ProduceInput struct {
	ProductID   uuid.UUID            `json:"product_id" validate:"required"`
	Location    string               `json:"location" validate:"required"`
	Quantity    decimal.Decimal      `json:"quantity" validate:"required"`
	BatchNumber string               `json:"batch_number" validate:"required"`
	UnitCost    decimal.Decimal      `json:"unit_cost"`
	ExpiresAt   *time.Time           `json:"expires_at,omitempty"`
	SourceType  inventory.SourceType `json:"source_type"`
	SourceID    string               `json:"source_id"`
}

// AllocateInput describes one outbound demand against the ledger
type AllocateInput struct {
	ProductID  uuid.UUID            `json:"product_id" validate:"required"`
	Location   string               `json:"location"` // empty means any location
	Quantity   decimal.Decimal      `json:"quantity" validate:"required"`
	SourceType inventory.SourceType `json:"source_type"`
	SourceID   string               `json:"source_id"`
}

// TransferInput moves stock between two locations
type TransferInput struct {
	ProductID uuid.UUID       `json:"product_id" validate:"required"`
	From      string          `json:"from" validate:"required"`
	To        string          `json:"to" validate:"required"`
	Quantity  decimal.Decimal `json:"quantity" validate:"required"`
}

// StockRecordResponse is the read projection of one ledger record
type StockRecordResponse struct {
	ID          uuid.UUID       `json:"id"`
	ProductID   uuid.UUID       `json:"product_id"`
	Location    string          `json:"location"`
	BatchNumber string          `json:"batch_number"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
	ReceivedAt  time.Time       `json:"received_at"`
	ExpiresAt   *time.Time      `json:"expires_at,omitempty"`
}

// ToStockRecordResponse maps a domain record to its response shape
func ToStockRecordResponse(r *inventory.StockRecord) StockRecordResponse {
	return StockRecordResponse{
		ID:          r.ID,
		ProductID:   r.ProductID,
		Location:    r.Location,
		BatchNumber: r.BatchNumber,
		Quantity:    r.Quantity,
		UnitCost:    r.UnitCost,
		ReceivedAt:  r.ReceivedAt,
		ExpiresAt:   r.ExpiresAt,
	}
}

// StockLevelResponse aggregates a product's stock across records
type StockLevelResponse struct {
	ProductID uuid.UUID             `json:"product_id"`
	Total     decimal.Decimal       `json:"total"`
	Records   []StockRecordResponse `json:"records"`
}

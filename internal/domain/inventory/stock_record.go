package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stitchworks/backend/internal/domain/shared"
)

// ReturnsLocation is the well-known location that receives stock reversed
// from cancelled sales orders.
const ReturnsLocation = "RETURNS"

// DefaultLocation receives stock when the caller does not name a location,
// such as production orders spawned from a sale.
const DefaultLocation = "MAIN"

// StockRecord is one lot of a product at one location. Stock is keyed by
// (ProductID, Location, BatchNumber): a receipt landing on an existing pair
// merges quantities, a new batch appends a record.
type StockRecord struct {
	shared.BaseEntity
	ProductID   uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_stock_product_location_batch,priority:1"`
	Location    string          `gorm:"size:50;not null;uniqueIndex:idx_stock_product_location_batch,priority:2"`
	BatchNumber string          `gorm:"size:50;not null;uniqueIndex:idx_stock_product_location_batch,priority:3"`
	Quantity    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	UnitCost    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	ReceivedAt  time.Time       `gorm:"not null;index"`
	ExpiresAt   *time.Time      `gorm:"index"`
}

// TableName returns the table name for GORM
func (StockRecord) TableName() string {
	return "stock_records"
}

// NewStockRecord creates a new stock record
func NewStockRecord(productID uuid.UUID, location, batchNumber string, quantity, unitCost decimal.Decimal, receivedAt time.Time, expiresAt *time.Time) (*StockRecord, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if location == "" {
		return nil, shared.NewDomainError("INVALID_LOCATION", "Location cannot be empty")
	}
	if batchNumber == "" {
		return nil, shared.NewDomainError("INVALID_BATCH", "Batch number cannot be empty")
	}
	if quantity.IsNegative() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity cannot be negative")
	}
	if unitCost.IsNegative() {
		return nil, shared.NewDomainError("INVALID_COST", "Unit cost cannot be negative")
	}

	return &StockRecord{
		BaseEntity:  shared.NewBaseEntity(),
		ProductID:   productID,
		Location:    location,
		BatchNumber: batchNumber,
		Quantity:    quantity,
		UnitCost:    unitCost,
		ReceivedAt:  receivedAt,
		ExpiresAt:   expiresAt,
	}, nil
}

// Deduct reduces the record quantity. The quantity can never go negative;
// callers must have verified availability before committing.
func (r *StockRecord) Deduct(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Deduction quantity must be positive")
	}
	if quantity.GreaterThan(r.Quantity) {
		return shared.NewDomainError(shared.CodeInsufficientStock, "Deduction exceeds record quantity")
	}

	r.Quantity = r.Quantity.Sub(quantity)
	r.Touch()
	return nil
}

// Add increases the record quantity (receipt merge, transfer-in, reversal)
func (r *StockRecord) Add(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Added quantity must be positive")
	}

	r.Quantity = r.Quantity.Add(quantity)
	r.Touch()
	return nil
}

// SetQuantity overwrites the quantity (cycle-count adjustment only)
func (r *StockRecord) SetQuantity(quantity decimal.Decimal) error {
	if quantity.IsNegative() {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity cannot be negative")
	}

	r.Quantity = quantity
	r.Touch()
	return nil
}

// HasStock returns true if the record has available quantity
func (r *StockRecord) HasStock() bool {
	return r.Quantity.GreaterThan(decimal.Zero)
}

// IsExpired returns true if the record's batch has passed its expiry
func (r *StockRecord) IsExpired() bool {
	if r.ExpiresAt == nil {
		return false
	}
	return r.ExpiresAt.Before(time.Now())
}

// ExpiresWithin returns true if the record expires within the given window
func (r *StockRecord) ExpiresWithin(window time.Duration) bool {
	if r.ExpiresAt == nil {
		return false
	}
	return r.ExpiresAt.Before(time.Now().Add(window))
}

// MatchesLot returns true if the record holds the given (location, batch) pair
func (r *StockRecord) MatchesLot(location, batchNumber string) bool {
	return r.Location == location && r.BatchNumber == batchNumber
}

// TotalQuantity sums the quantity across a set of records
func TotalQuantity(records []StockRecord) decimal.Decimal {
	total := decimal.Zero
	for _, r := range records {
		total = total.Add(r.Quantity)
	}
	return total
}

// RecordsAtLocation filters records down to a single location
func RecordsAtLocation(records []StockRecord, location string) []StockRecord {
	at := make([]StockRecord, 0, len(records))
	for _, r := range records {
		if r.Location == location {
			at = append(at, r)
		}
	}
	return at
}

// ExpiringRecords returns records whose batches expire within the window
func ExpiringRecords(records []StockRecord, window time.Duration) []StockRecord {
	expiring := make([]StockRecord, 0)
	for _, r := range records {
		if r.HasStock() && r.ExpiresWithin(window) {
			expiring = append(expiring, r)
		}
	}
	return expiring
}

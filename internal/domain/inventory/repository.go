package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stitchworks/backend/internal/domain/shared"
)

// StockRecordRepository provides access to the stock ledger
type StockRecordRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*StockRecord, error)
	// FindByProduct returns every record for a product across locations
	FindByProduct(ctx context.Context, productID uuid.UUID) ([]StockRecord, error)
	// FindByProductAndLocation returns records for a product at one location
	FindByProductAndLocation(ctx context.Context, productID uuid.UUID, location string) ([]StockRecord, error)
	// FindLot returns the record for an exact (product, location, batch) key,
	// or shared.ErrNotFound
	FindLot(ctx context.Context, productID uuid.UUID, location, batchNumber string) (*StockRecord, error)
	// FindWithStock returns all records with quantity > 0, optionally scoped
	// to a location (empty string means all locations)
	FindWithStock(ctx context.Context, location string) ([]StockRecord, error)
	// FindExpiringWithin returns records with stock whose expiry falls before
	// the deadline
	FindExpiringWithin(ctx context.Context, deadline time.Time) ([]StockRecord, error)
	// TotalByProduct sums quantity across all records of a product
	TotalByProduct(ctx context.Context, productID uuid.UUID) (decimal.Decimal, error)
	Save(ctx context.Context, record *StockRecord) error
	// SaveAll persists several records atomically
	SaveAll(ctx context.Context, records []*StockRecord) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// StockMovementRepository is the append-only journal store
type StockMovementRepository interface {
	Append(ctx context.Context, movements ...*StockMovement) error
	FindByProduct(ctx context.Context, productID uuid.UUID, filter shared.Filter) ([]StockMovement, error)
	// NetByProduct returns receipts - consumptions + adjustments for a
	// product; transfers net to zero by construction
	NetByProduct(ctx context.Context, productID uuid.UUID) (decimal.Decimal, error)
	// ConsumedSince sums consumption movement quantities per product since
	// the given time, returned as positive amounts
	ConsumedSince(ctx context.Context, since time.Time) (map[uuid.UUID]decimal.Decimal, error)
}

// CycleCountRepository provides access to cycle counts
type CycleCountRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*CycleCount, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]CycleCount, error)
	Save(ctx context.Context, count *CycleCount) error
}

package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stitchworks/backend/internal/domain/inventory"
	"github.com/stitchworks/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormStockRecordRepository implements inventory.StockRecordRepository using GORM
type GormStockRecordRepository struct {
	db *gorm.DB
}

// NewGormStockRecordRepository creates a new GormStockRecordRepository
func NewGormStockRecordRepository(db *gorm.DB) *GormStockRecordRepository {
	return &GormStockRecordRepository{db: db}
}

// FindByID finds a stock record by its ID
func (r *GormStockRecordRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.StockRecord, error) {
	var record inventory.StockRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

// FindByProduct returns every record for a product across locations
func (r *GormStockRecordRepository) FindByProduct(ctx context.Context, productID uuid.UUID) ([]inventory.StockRecord, error) {
	var records []inventory.StockRecord
	if err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("received_at asc").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// FindByProductAndLocation returns records for a product at one location
func (r *GormStockRecordRepository) FindByProductAndLocation(ctx context.Context, productID uuid.UUID, location string) ([]inventory.StockRecord, error) {
	var records []inventory.StockRecord
	if err := r.db.WithContext(ctx).
		Where("product_id = ? AND location = ?", productID, location).
		Order("received_at asc").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// FindLot returns the record for an exact (product, location, batch) key
func (r *GormStockRecordRepository) FindLot(ctx context.Context, productID uuid.UUID, location, batchNumber string) (*inventory.StockRecord, error) {
	var record inventory.StockRecord
	if err := r.db.WithContext(ctx).
		Where("product_id = ? AND location = ? AND batch_number = ?", productID, location, batchNumber).
		First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

// FindWithStock returns all records with quantity > 0, optionally scoped to a location
func (r *GormStockRecordRepository) FindWithStock(ctx context.Context, location string) ([]inventory.StockRecord, error) {
	query := r.db.WithContext(ctx).Where("quantity > 0")
	if location != "" {
		query = query.Where("location = ?", location)
	}
	var records []inventory.StockRecord
	if err := query.Order("product_id, location, batch_number").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// FindExpiringWithin returns records with stock whose expiry falls before the deadline
func (r *GormStockRecordRepository) FindExpiringWithin(ctx context.Context, deadline time.Time) ([]inventory.StockRecord, error) {
	var records []inventory.StockRecord
	if err := r.db.WithContext(ctx).
		Where("quantity > 0 AND expires_at IS NOT NULL AND expires_at <= ?", deadline).
		Order("expires_at asc").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// TotalByProduct sums quantity across all records of a product
func (r *GormStockRecordRepository) TotalByProduct(ctx context.Context, productID uuid.UUID) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	if err := r.db.WithContext(ctx).
		Model(&inventory.StockRecord{}).
		Select("SUM(quantity)").
		Where("product_id = ?", productID).
		Scan(&total).Error; err != nil {
		return decimal.Zero, err
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal, nil
}

// Save persists a stock record
func (r *GormStockRecordRepository) Save(ctx context.Context, record *inventory.StockRecord) error {
	return r.db.WithContext(ctx).Save(record).Error
}

// SaveAll persists several records atomically
func (r *GormStockRecordRepository) SaveAll(ctx context.Context, records []*inventory.StockRecord) error {
	if len(records) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, record := range records {
			if err := tx.Save(record).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Delete removes a stock record
func (r *GormStockRecordRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&inventory.StockRecord{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var _ inventory.StockRecordRepository = (*GormStockRecordRepository)(nil)

// GormStockMovementRepository implements the append-only movement journal using GORM
type GormStockMovementRepository struct {
	db *gorm.DB
}

// NewGormStockMovementRepository creates a new GormStockMovementRepository
func NewGormStockMovementRepository(db *gorm.DB) *GormStockMovementRepository {
	return &GormStockMovementRepository{db: db}
}

// Append persists the given movements. Movements are never updated.
func (r *GormStockMovementRepository) Append(ctx context.Context, movements ...*inventory.StockMovement) error {
	if len(movements) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(movements).Error
}

// FindByProduct returns the journal for a product, newest first
func (r *GormStockMovementRepository) FindByProduct(ctx context.Context, productID uuid.UUID, filter shared.Filter) ([]inventory.StockMovement, error) {
	var movements []inventory.StockMovement
	query := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("occurred_at desc")
	if filter.PageSize > 0 {
		page := filter.Page
		if page < 1 {
			page = 1
		}
		query = query.Offset((page - 1) * filter.PageSize).Limit(filter.PageSize)
	}
	if err := query.Find(&movements).Error; err != nil {
		return nil, err
	}
	return movements, nil
}

// NetByProduct returns the signed sum of the journal for a product
func (r *GormStockMovementRepository) NetByProduct(ctx context.Context, productID uuid.UUID) (decimal.Decimal, error) {
	var net decimal.NullDecimal
	if err := r.db.WithContext(ctx).
		Model(&inventory.StockMovement{}).
		Select("SUM(quantity)").
		Where("product_id = ?", productID).
		Scan(&net).Error; err != nil {
		return decimal.Zero, err
	}
	if !net.Valid {
		return decimal.Zero, nil
	}
	return net.Decimal, nil
}

// ConsumedSince sums consumption movements per product since the cutoff.
// Consumption quantities are stored negative, so the sum is flipped to a
// positive usage figure.
func (r *GormStockMovementRepository) ConsumedSince(ctx context.Context, since time.Time) (map[uuid.UUID]decimal.Decimal, error) {
	type productSum struct {
		ProductID uuid.UUID
		Total     decimal.Decimal
	}
	var sums []productSum
	if err := r.db.WithContext(ctx).
		Model(&inventory.StockMovement{}).
		Select("product_id AS product_id, SUM(quantity) AS total").
		Where("type = ? AND occurred_at >= ?", inventory.MovementTypeConsumption, since).
		Group("product_id").
		Scan(&sums).Error; err != nil {
		return nil, err
	}

	out := make(map[uuid.UUID]decimal.Decimal, len(sums))
	for _, s := range sums {
		out[s.ProductID] = s.Total.Neg()
	}
	return out, nil
}

var _ inventory.StockMovementRepository = (*GormStockMovementRepository)(nil)

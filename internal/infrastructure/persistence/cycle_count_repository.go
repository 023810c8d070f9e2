package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/stitchworks/backend/internal/domain/inventory"
	"github.com/stitchworks/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormCycleCountRepository implements inventory.CycleCountRepository using GORM
type GormCycleCountRepository struct {
	db *gorm.DB
}

// NewGormCycleCountRepository creates a new GormCycleCountRepository
func NewGormCycleCountRepository(db *gorm.DB) *GormCycleCountRepository {
	return &GormCycleCountRepository{db: db}
}

// FindByID loads a cycle count with its item snapshot
func (r *GormCycleCountRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.CycleCount, error) {
	var count inventory.CycleCount
	if err := r.db.WithContext(ctx).First(&count, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}

	items, err := r.loadItems(ctx, count.ID)
	if err != nil {
		return nil, err
	}
	count.Items = items
	return &count, nil
}

// FindAll lists cycle counts matching the filter, without item snapshots
func (r *GormCycleCountRepository) FindAll(ctx context.Context, filter shared.Filter) ([]inventory.CycleCount, error) {
	var counts []inventory.CycleCount
	query := applyFilter(r.db.WithContext(ctx).Model(&inventory.CycleCount{}), filter)
	if err := query.Find(&counts).Error; err != nil {
		return nil, err
	}
	return counts, nil
}

// Save persists the cycle count and its items in one transaction
func (r *GormCycleCountRepository) Save(ctx context.Context, count *inventory.CycleCount) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(count).Error; err != nil {
			return err
		}
		for i := range count.Items {
			row := newCycleCountItemRow(count.Items[i])
			if err := tx.Save(&row).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *GormCycleCountRepository) loadItems(ctx context.Context, countID uuid.UUID) ([]inventory.CycleCountItem, error) {
	var rows []cycleCountItemRow
	if err := r.db.WithContext(ctx).
		Where("cycle_count_id = ?", countID).
		Order("location, batch_number").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	items := make([]inventory.CycleCountItem, len(rows))
	for i, row := range rows {
		items[i] = row.toDomain()
	}
	return items, nil
}

var _ inventory.CycleCountRepository = (*GormCycleCountRepository)(nil)

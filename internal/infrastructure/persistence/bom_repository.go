package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/stitchworks/backend/internal/domain/manufacturing"
	"github.com/stitchworks/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormBOMRepository implements manufacturing.BOMRepository using GORM
type GormBOMRepository struct {
	db *gorm.DB
}

// NewGormBOMRepository creates a new GormBOMRepository
func NewGormBOMRepository(db *gorm.DB) *GormBOMRepository {
	return &GormBOMRepository{db: db}
}

// FindByID loads a BOM with its lines
func (r *GormBOMRepository) FindByID(ctx context.Context, id uuid.UUID) (*manufacturing.BillOfMaterials, error) {
	var bom manufacturing.BillOfMaterials
	if err := r.db.WithContext(ctx).First(&bom, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	lines, err := r.loadLines(ctx, bom.ID)
	if err != nil {
		return nil, err
	}
	bom.Lines = lines
	return &bom, nil
}

// FindByFinishedGood returns every BOM version for a finished good
func (r *GormBOMRepository) FindByFinishedGood(ctx context.Context, finishedGoodID uuid.UUID) ([]*manufacturing.BillOfMaterials, error) {
	var boms []manufacturing.BillOfMaterials
	if err := r.db.WithContext(ctx).
		Where("finished_good_id = ?", finishedGoodID).
		Order("created_at desc").
		Find(&boms).Error; err != nil {
		return nil, err
	}
	out := make([]*manufacturing.BillOfMaterials, len(boms))
	for i := range boms {
		lines, err := r.loadLines(ctx, boms[i].ID)
		if err != nil {
			return nil, err
		}
		boms[i].Lines = lines
		out[i] = &boms[i]
	}
	return out, nil
}

// FindActiveByFinishedGood returns the single active BOM for a finished good
func (r *GormBOMRepository) FindActiveByFinishedGood(ctx context.Context, finishedGoodID uuid.UUID) (*manufacturing.BillOfMaterials, error) {
	var bom manufacturing.BillOfMaterials
	if err := r.db.WithContext(ctx).
		Where("finished_good_id = ? AND active = ?", finishedGoodID, true).
		First(&bom).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewDomainError(shared.CodeBOMNotFound, "No active bill of materials for finished good "+finishedGoodID.String())
		}
		return nil, err
	}
	lines, err := r.loadLines(ctx, bom.ID)
	if err != nil {
		return nil, err
	}
	bom.Lines = lines
	return &bom, nil
}

// Activate marks the BOM active and deactivates any other BOM of the same
// finished good in the same transaction.
func (r *GormBOMRepository) Activate(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var bom manufacturing.BillOfMaterials
		if err := tx.First(&bom, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return shared.ErrNotFound
			}
			return err
		}

		if err := tx.Model(&manufacturing.BillOfMaterials{}).
			Where("finished_good_id = ? AND id <> ?", bom.FinishedGoodID, id).
			Update("active", false).Error; err != nil {
			return err
		}

		return tx.Model(&manufacturing.BillOfMaterials{}).
			Where("id = ?", id).
			Update("active", true).Error
	})
}

// Save persists the BOM and its lines in one transaction
func (r *GormBOMRepository) Save(ctx context.Context, bom *manufacturing.BillOfMaterials) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(bom).Error; err != nil {
			return err
		}

		lineIDs := make([]uuid.UUID, len(bom.Lines))
		for i, line := range bom.Lines {
			lineIDs[i] = line.ID
		}
		if len(lineIDs) > 0 {
			if err := tx.Where("bom_id = ? AND id NOT IN ?", bom.ID, lineIDs).
				Delete(&bomLineRow{}).Error; err != nil {
				return err
			}
		} else {
			if err := tx.Where("bom_id = ?", bom.ID).Delete(&bomLineRow{}).Error; err != nil {
				return err
			}
		}

		for _, line := range bom.Lines {
			row := newBOMLineRow(line)
			if err := tx.Save(&row).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Delete removes a BOM and its lines
func (r *GormBOMRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("bom_id = ?", id).Delete(&bomLineRow{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&manufacturing.BillOfMaterials{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

func (r *GormBOMRepository) loadLines(ctx context.Context, bomID uuid.UUID) ([]manufacturing.BOMLine, error) {
	var rows []bomLineRow
	if err := r.db.WithContext(ctx).
		Where("bom_id = ?", bomID).
		Order("created_at asc").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	lines := make([]manufacturing.BOMLine, len(rows))
	for i, row := range rows {
		lines[i] = row.toDomain()
	}
	return lines, nil
}

var _ manufacturing.BOMRepository = (*GormBOMRepository)(nil)

// GormProductionOrderRepository implements manufacturing.ProductionOrderRepository using GORM
type GormProductionOrderRepository struct {
	db *gorm.DB
}

// NewGormProductionOrderRepository creates a new GormProductionOrderRepository
func NewGormProductionOrderRepository(db *gorm.DB) *GormProductionOrderRepository {
	return &GormProductionOrderRepository{db: db}
}

// FindByID finds a production order by its ID
func (r *GormProductionOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*manufacturing.ProductionOrder, error) {
	var po manufacturing.ProductionOrder
	if err := r.db.WithContext(ctx).First(&po, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &po, nil
}

// FindByOrderNumber finds a production order by its number
func (r *GormProductionOrderRepository) FindByOrderNumber(ctx context.Context, orderNumber string) (*manufacturing.ProductionOrder, error) {
	var po manufacturing.ProductionOrder
	if err := r.db.WithContext(ctx).First(&po, "order_number = ?", orderNumber).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &po, nil
}

// FindByStatus lists production orders in a given status
func (r *GormProductionOrderRepository) FindByStatus(ctx context.Context, status manufacturing.ProductionStatus) ([]*manufacturing.ProductionOrder, error) {
	var orders []manufacturing.ProductionOrder
	if err := r.db.WithContext(ctx).
		Where("status = ?", status).
		Order("created_at desc").
		Find(&orders).Error; err != nil {
		return nil, err
	}
	out := make([]*manufacturing.ProductionOrder, len(orders))
	for i := range orders {
		out[i] = &orders[i]
	}
	return out, nil
}

// FindBySalesOrder lists production orders spawned from a sales order
func (r *GormProductionOrderRepository) FindBySalesOrder(ctx context.Context, salesOrderID uuid.UUID) ([]*manufacturing.ProductionOrder, error) {
	var orders []manufacturing.ProductionOrder
	if err := r.db.WithContext(ctx).
		Where("sales_order_id = ?", salesOrderID).
		Order("created_at asc").
		Find(&orders).Error; err != nil {
		return nil, err
	}
	out := make([]*manufacturing.ProductionOrder, len(orders))
	for i := range orders {
		out[i] = &orders[i]
	}
	return out, nil
}

// Save persists a production order
func (r *GormProductionOrderRepository) Save(ctx context.Context, po *manufacturing.ProductionOrder) error {
	return r.db.WithContext(ctx).Save(po).Error
}

var _ manufacturing.ProductionOrderRepository = (*GormProductionOrderRepository)(nil)

package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/stitchworks/backend/internal/domain/catalog"
	"github.com/stitchworks/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormProductRepository implements catalog.ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// FindByID finds a product by its ID
func (r *GormProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	var product catalog.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

// FindByCode finds a product by its code
func (r *GormProductRepository) FindByCode(ctx context.Context, code string) (*catalog.Product, error) {
	var product catalog.Product
	if err := r.db.WithContext(ctx).First(&product, "code = ?", code).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

// FindAll finds all products matching the filter
func (r *GormProductRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Product, error) {
	var products []catalog.Product
	query := applyFilter(r.db.WithContext(ctx).Model(&catalog.Product{}), filter)
	if err := query.Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// FindByItemTypes finds products of the given item types
func (r *GormProductRepository) FindByItemTypes(ctx context.Context, itemTypes []catalog.ItemType) ([]catalog.Product, error) {
	var products []catalog.Product
	if err := r.db.WithContext(ctx).
		Where("item_type IN ?", itemTypes).
		Order("code asc").
		Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// FindByIDs finds products by a set of IDs
func (r *GormProductRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var products []catalog.Product
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// Save persists a product
func (r *GormProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	return r.db.WithContext(ctx).Save(product).Error
}

// Delete removes a product
func (r *GormProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&catalog.Product{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts products matching the filter
func (r *GormProductRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := applyFilterConditions(r.db.WithContext(ctx).Model(&catalog.Product{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

var _ catalog.ProductRepository = (*GormProductRepository)(nil)

var allowedSortColumns = map[string]struct{}{
	"created_at":   {},
	"updated_at":   {},
	"code":         {},
	"name":         {},
	"order_number": {},
	"count_number": {},
	"received_at":  {},
	"occurred_at":  {},
}

// applyFilter applies pagination, ordering and equality conditions.
// Sort columns are validated against an allow list; unknown columns fall
// back to created_at.
func applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = applyFilterConditions(query, filter)

	orderBy := filter.OrderBy
	if _, ok := allowedSortColumns[orderBy]; !ok {
		orderBy = "created_at"
	}
	dir := "desc"
	if strings.EqualFold(filter.OrderDir, "asc") {
		dir = "asc"
	}
	query = query.Order(fmt.Sprintf("%s %s", orderBy, dir))

	if filter.PageSize > 0 {
		page := filter.Page
		if page < 1 {
			page = 1
		}
		query = query.Offset((page - 1) * filter.PageSize).Limit(filter.PageSize)
	}
	return query
}

func applyFilterConditions(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for field, value := range filter.Filters {
		if _, ok := allowedSortColumns[field]; ok || isFilterField(field) {
			query = query.Where(fmt.Sprintf("%s = ?", field), value)
		}
	}
	return query
}

func isFilterField(field string) bool {
	switch field {
	case "status", "item_type", "location", "active", "product_id", "type":
		return true
	}
	return false
}

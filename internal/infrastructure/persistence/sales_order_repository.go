package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stitchworks/backend/internal/domain/shared"
	"github.com/stitchworks/backend/internal/domain/trade"
	"gorm.io/gorm"
)

// GormSalesOrderRepository implements trade.SalesOrderRepository using GORM
type GormSalesOrderRepository struct {
	db *gorm.DB
}

// NewGormSalesOrderRepository creates a new GormSalesOrderRepository
func NewGormSalesOrderRepository(db *gorm.DB) *GormSalesOrderRepository {
	return &GormSalesOrderRepository{db: db}
}

// FindByID loads a sales order with its items and status history
func (r *GormSalesOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.SalesOrder, error) {
	var order trade.SalesOrder
	if err := r.db.WithContext(ctx).First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	if err := r.hydrate(ctx, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// FindByOrderNumber loads a sales order by its number
func (r *GormSalesOrderRepository) FindByOrderNumber(ctx context.Context, orderNumber string) (*trade.SalesOrder, error) {
	var order trade.SalesOrder
	if err := r.db.WithContext(ctx).First(&order, "order_number = ?", orderNumber).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	if err := r.hydrate(ctx, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// FindByStatus lists orders in a given status, items included
func (r *GormSalesOrderRepository) FindByStatus(ctx context.Context, status trade.SalesOrderStatus) ([]*trade.SalesOrder, error) {
	var orders []trade.SalesOrder
	if err := r.db.WithContext(ctx).
		Where("status = ?", status).
		Order("created_at desc").
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return r.hydrateAll(ctx, orders)
}

// FindByCustomer lists orders placed by a customer
func (r *GormSalesOrderRepository) FindByCustomer(ctx context.Context, customerID uuid.UUID) ([]*trade.SalesOrder, error) {
	var orders []trade.SalesOrder
	if err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("created_at desc").
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return r.hydrateAll(ctx, orders)
}

// FindByDateRange lists orders created within [from, to)
func (r *GormSalesOrderRepository) FindByDateRange(ctx context.Context, from, to time.Time) ([]*trade.SalesOrder, error) {
	var orders []trade.SalesOrder
	if err := r.db.WithContext(ctx).
		Where("created_at >= ? AND created_at < ?", from, to).
		Order("created_at asc").
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return r.hydrateAll(ctx, orders)
}

// SoldQuantitySince sums committed line quantities per product since the
// cutoff. Only orders whose stock was committed count as usage.
func (r *GormSalesOrderRepository) SoldQuantitySince(ctx context.Context, since time.Time) (map[uuid.UUID]decimal.Decimal, error) {
	type productSum struct {
		ProductID uuid.UUID
		Total     decimal.Decimal
	}
	var sums []productSum
	if err := r.db.WithContext(ctx).
		Table("sales_order_items").
		Select("sales_order_items.product_id AS product_id, SUM(sales_order_items.quantity) AS total").
		Joins("JOIN sales_orders ON sales_orders.id = sales_order_items.order_id").
		Where("sales_orders.stock_committed = ? AND sales_orders.updated_at >= ?", true, since).
		Group("sales_order_items.product_id").
		Scan(&sums).Error; err != nil {
		return nil, err
	}

	out := make(map[uuid.UUID]decimal.Decimal, len(sums))
	for _, s := range sums {
		out[s.ProductID] = s.Total
	}
	return out, nil
}

// Save persists the order, its items and its status history in one transaction
func (r *GormSalesOrderRepository) Save(ctx context.Context, order *trade.SalesOrder) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(order).Error; err != nil {
			return err
		}

		itemIDs := make([]uuid.UUID, len(order.Items))
		for i, item := range order.Items {
			itemIDs[i] = item.ID
		}
		if len(itemIDs) > 0 {
			if err := tx.Where("order_id = ? AND id NOT IN ?", order.ID, itemIDs).
				Delete(&salesOrderItemRow{}).Error; err != nil {
				return err
			}
		} else {
			if err := tx.Where("order_id = ?", order.ID).Delete(&salesOrderItemRow{}).Error; err != nil {
				return err
			}
		}

		for i := range order.Items {
			order.Items[i].OrderID = order.ID
			row, err := newSalesOrderItemRow(order.Items[i])
			if err != nil {
				return err
			}
			if err := tx.Save(&row).Error; err != nil {
				return err
			}
		}

		// History is append-only; existing entries are never rewritten
		for _, change := range order.StatusHistory {
			row := newSalesStatusChangeRow(change)
			if err := tx.Save(&row).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *GormSalesOrderRepository) hydrate(ctx context.Context, order *trade.SalesOrder) error {
	var itemRows []salesOrderItemRow
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", order.ID).
		Order("created_at asc").
		Find(&itemRows).Error; err != nil {
		return err
	}
	order.Items = make([]trade.SalesOrderItem, len(itemRows))
	for i, row := range itemRows {
		item, err := row.toDomain()
		if err != nil {
			return err
		}
		order.Items[i] = item
	}

	var historyRows []salesStatusChangeRow
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", order.ID).
		Order("at asc").
		Find(&historyRows).Error; err != nil {
		return err
	}
	order.StatusHistory = make([]trade.StatusChange, len(historyRows))
	for i, row := range historyRows {
		order.StatusHistory[i] = row.toDomain()
	}
	return nil
}

func (r *GormSalesOrderRepository) hydrateAll(ctx context.Context, orders []trade.SalesOrder) ([]*trade.SalesOrder, error) {
	out := make([]*trade.SalesOrder, len(orders))
	for i := range orders {
		if err := r.hydrate(ctx, &orders[i]); err != nil {
			return nil, err
		}
		out[i] = &orders[i]
	}
	return out, nil
}

var _ trade.SalesOrderRepository = (*GormSalesOrderRepository)(nil)

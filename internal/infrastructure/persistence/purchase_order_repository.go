package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/stitchworks/backend/internal/domain/shared"
	"github.com/stitchworks/backend/internal/domain/trade"
	"gorm.io/gorm"
)

// GormPurchaseOrderRepository implements trade.PurchaseOrderRepository using GORM
type GormPurchaseOrderRepository struct {
	db *gorm.DB
}

// NewGormPurchaseOrderRepository creates a new GormPurchaseOrderRepository
func NewGormPurchaseOrderRepository(db *gorm.DB) *GormPurchaseOrderRepository {
	return &GormPurchaseOrderRepository{db: db}
}

// FindByID loads a purchase order with its items
func (r *GormPurchaseOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.PurchaseOrder, error) {
	var order trade.PurchaseOrder
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

// FindByOrderNumber loads a purchase order by its number
func (r *GormPurchaseOrderRepository) FindByOrderNumber(ctx context.Context, orderNumber string) (*trade.PurchaseOrder, error) {
	var order trade.PurchaseOrder
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

// FindByStatus lists purchase orders in a given status
func (r *GormPurchaseOrderRepository) FindByStatus(ctx context.Context, status trade.PurchaseOrderStatus) ([]*trade.PurchaseOrder, error) {
	var orders []trade.PurchaseOrder
	if err := r.db.WithContext(ctx).
		Where("status = ?", status).
		Order("created_at desc").
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return r.hydrateAll(ctx, orders)
}

// FindBySupplier lists purchase orders placed with a supplier
func (r *GormPurchaseOrderRepository) FindBySupplier(ctx context.Context, supplierID uuid.UUID) ([]*trade.PurchaseOrder, error) {
	var orders []trade.PurchaseOrder
	if err := r.db.WithContext(ctx).
		Where("supplier_id = ?", supplierID).
		Order("created_at desc").
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return r.hydrateAll(ctx, orders)
}

// Save persists the order and its items in one transaction
func (r *GormPurchaseOrderRepository) Save(ctx context.Context, order *trade.PurchaseOrder) error {
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
				Delete(&purchaseOrderItemRow{}).Error; err != nil {
				return err
			}
		} else {
			if err := tx.Where("order_id = ?", order.ID).Delete(&purchaseOrderItemRow{}).Error; err != nil {
				return err
			}
		}

		for i := range order.Items {
			order.Items[i].OrderID = order.ID
			row := newPurchaseOrderItemRow(order.Items[i])
			if err := tx.Save(&row).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *GormPurchaseOrderRepository) hydrate(ctx context.Context, order *trade.PurchaseOrder) error {
	var rows []purchaseOrderItemRow
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", order.ID).
		Order("created_at asc").
		Find(&rows).Error; err != nil {
		return err
	}
	order.Items = make([]trade.PurchaseOrderItem, len(rows))
	for i, row := range rows {
		order.Items[i] = row.toDomain()
	}
	return nil
}

func (r *GormPurchaseOrderRepository) hydrateAll(ctx context.Context, orders []trade.PurchaseOrder) ([]*trade.PurchaseOrder, error) {
	out := make([]*trade.PurchaseOrder, len(orders))
	for i := range orders {
		if err := r.hydrate(ctx, &orders[i]); err != nil {
			return nil, err
		}
		out[i] = &orders[i]
	}
	return out, nil
}

var _ trade.PurchaseOrderRepository = (*GormPurchaseOrderRepository)(nil)

// GormGoodsReceiptRepository implements trade.GoodsReceiptRepository using GORM
type GormGoodsReceiptRepository struct {
	db *gorm.DB
}

// NewGormGoodsReceiptRepository creates a new GormGoodsReceiptRepository
func NewGormGoodsReceiptRepository(db *gorm.DB) *GormGoodsReceiptRepository {
	return &GormGoodsReceiptRepository{db: db}
}

// Append persists a receipt record. Receipts are never updated.
func (r *GormGoodsReceiptRepository) Append(ctx context.Context, receipt *trade.GoodsReceipt) error {
	return r.db.WithContext(ctx).Create(receipt).Error
}

// FindByPurchaseOrder lists receipts recorded against a purchase order
func (r *GormGoodsReceiptRepository) FindByPurchaseOrder(ctx context.Context, purchaseOrderID uuid.UUID) ([]*trade.GoodsReceipt, error) {
	var receipts []trade.GoodsReceipt
	if err := r.db.WithContext(ctx).
		Where("purchase_order_id = ?", purchaseOrderID).
		Order("received_at asc").
		Find(&receipts).Error; err != nil {
		return nil, err
	}
	out := make([]*trade.GoodsReceipt, len(receipts))
	for i := range receipts {
		out[i] = &receipts[i]
	}
	return out, nil
}

// FindByProduct lists receipts of a product across purchase orders
func (r *GormGoodsReceiptRepository) FindByProduct(ctx context.Context, productID uuid.UUID) ([]*trade.GoodsReceipt, error) {
	var receipts []trade.GoodsReceipt
	if err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("received_at desc").
		Find(&receipts).Error; err != nil {
		return nil, err
	}
	out := make([]*trade.GoodsReceipt, len(receipts))
	for i := range receipts {
		out[i] = &receipts[i]
	}
	return out, nil
}

var _ trade.GoodsReceiptRepository = (*GormGoodsReceiptRepository)(nil)

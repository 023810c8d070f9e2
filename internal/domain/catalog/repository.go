package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/stitchworks/backend/internal/domain/shared"
)

// ProductRepository provides access to catalog products
type ProductRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)
	FindByCode(ctx context.Context, code string) (*Product, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Product, error)
	FindByItemTypes(ctx context.Context, itemTypes []ItemType) ([]Product, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Product, error)
	Save(ctx context.Context, product *Product) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}

package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/stitchworks/backend/internal/domain/catalog"
	"github.com/stitchworks/backend/internal/domain/shared"
)

// ProductService manages the catalog
type ProductService struct {
	products  catalog.ProductRepository
	publisher shared.EventPublisher
}

// NewProductService creates a new ProductService
func NewProductService(products catalog.ProductRepository) *ProductService {
	return &ProductService{
		products:  products,
		publisher: shared.NopPublisher{},
	}
}

// SetEventPublisher sets the event publisher
func (s *ProductService) SetEventPublisher(publisher shared.EventPublisher) {
	s.publisher = publisher
}

// Create registers a product. Codes are unique across the catalog.
func (s *ProductService) Create(ctx context.Context, in CreateProductInput) (ProductResponse, error) {
	if existing, err := s.products.FindByCode(ctx, in.Code); err == nil && existing != nil {
		return ProductResponse{}, shared.NewDomainError("DUPLICATE_CODE", "Product code already exists: "+in.Code)
	}

	product, err := catalog.NewProduct(in.Code, in.Name, in.ItemType)
	if err != nil {
		return ProductResponse{}, err
	}
	if err := s.products.Save(ctx, product); err != nil {
		return ProductResponse{}, err
	}
	s.publish(ctx, product)

	return toProductResponse(product), nil
}

// SetPrices updates the retail and wholesale price list
func (s *ProductService) SetPrices(ctx context.Context, in SetPricesInput) (ProductResponse, error) {
	product, err := s.products.FindByID(ctx, in.ProductID)
	if err != nil {
		return ProductResponse{}, err
	}
	if err := product.SetPrices(in.Retail, in.Wholesale); err != nil {
		return ProductResponse{}, err
	}
	if err := s.products.Save(ctx, product); err != nil {
		return ProductResponse{}, err
	}
	return toProductResponse(product), nil
}

// SetReplenishment updates the planner parameters
func (s *ProductService) SetReplenishment(ctx context.Context, in SetReplenishmentInput) (ProductResponse, error) {
	product, err := s.products.FindByID(ctx, in.ProductID)
	if err != nil {
		return ProductResponse{}, err
	}
	if err := product.SetReplenishmentParameters(in.LeadTimeDays, in.OrderCost, in.HoldingCostPct, in.LowThreshold); err != nil {
		return ProductResponse{}, err
	}
	if err := s.products.Save(ctx, product); err != nil {
		return ProductResponse{}, err
	}
	return toProductResponse(product), nil
}

// Deactivate retires a product from sale without deleting its history
func (s *ProductService) Deactivate(ctx context.Context, productID uuid.UUID) (ProductResponse, error) {
	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return ProductResponse{}, err
	}
	product.Deactivate()
	if err := s.products.Save(ctx, product); err != nil {
		return ProductResponse{}, err
	}
	return toProductResponse(product), nil
}

// Activate restores a retired product
func (s *ProductService) Activate(ctx context.Context, productID uuid.UUID) (ProductResponse, error) {
	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return ProductResponse{}, err
	}
	product.Activate()
	if err := s.products.Save(ctx, product); err != nil {
		return ProductResponse{}, err
	}
	return toProductResponse(product), nil
}

// Product returns one product by ID
func (s *ProductService) Product(ctx context.Context, productID uuid.UUID) (ProductResponse, error) {
	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return ProductResponse{}, err
	}
	return toProductResponse(product), nil
}

// ProductByCode returns one product by its unique code
func (s *ProductService) ProductByCode(ctx context.Context, code string) (ProductResponse, error) {
	product, err := s.products.FindByCode(ctx, code)
	if err != nil {
		return ProductResponse{}, err
	}
	return toProductResponse(product), nil
}

// List pages through the catalog
func (s *ProductService) List(ctx context.Context, filter shared.Filter) ([]ProductResponse, int64, error) {
	products, err := s.products.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.products.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	out := make([]ProductResponse, 0, len(products))
	for i := range products {
		out = append(out, toProductResponse(&products[i]))
	}
	return out, total, nil
}

func (s *ProductService) publish(ctx context.Context, product *catalog.Product) {
	_ = s.publisher.Publish(ctx, product.GetDomainEvents()...)
	product.ClearDomainEvents()
}

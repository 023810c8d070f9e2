package partner

import (
	"context"

	"github.com/google/uuid"
	"github.com/stitchworks/backend/internal/domain/partner"
	"github.com/stitchworks/backend/internal/domain/shared"
)

// SupplierService manages material vendors
type SupplierService struct {
	suppliers partner.SupplierRepository
	publisher shared.EventPublisher
}

// NewSupplierService creates a new SupplierService
func NewSupplierService(suppliers partner.SupplierRepository) *SupplierService {
	return &SupplierService{
		suppliers: suppliers,
		publisher: shared.NopPublisher{},
	}
}

// SetEventPublisher sets the event publisher
func (s *SupplierService) SetEventPublisher(publisher shared.EventPublisher) {
	s.publisher = publisher
}

// Create registers a supplier
func (s *SupplierService) Create(ctx context.Context, in CreateSupplierInput) (SupplierResponse, error) {
	if existing, err := s.suppliers.FindByCode(ctx, in.Code); err == nil && existing != nil {
		return SupplierResponse{}, shared.NewDomainError("DUPLICATE_CODE", "Supplier code already exists: "+in.Code)
	}

	supplier, err := partner.NewSupplier(in.Code, in.Name)
	if err != nil {
		return SupplierResponse{}, err
	}
	if err := s.suppliers.Save(ctx, supplier); err != nil {
		return SupplierResponse{}, err
	}
	_ = s.publisher.Publish(ctx, supplier.GetDomainEvents()...)
	supplier.ClearDomainEvents()

	return toSupplierResponse(supplier), nil
}

// SetContact updates contact details
func (s *SupplierService) SetContact(ctx context.Context, supplierID uuid.UUID, in ContactInput) (SupplierResponse, error) {
	supplier, err := s.suppliers.FindByID(ctx, supplierID)
	if err != nil {
		return SupplierResponse{}, err
	}
	if err := supplier.SetContact(in.ContactName, in.Phone, in.Email, in.Address); err != nil {
		return SupplierResponse{}, err
	}
	if err := s.suppliers.Save(ctx, supplier); err != nil {
		return SupplierResponse{}, err
	}
	return toSupplierResponse(supplier), nil
}

// Supplier returns one supplier by ID
func (s *SupplierService) Supplier(ctx context.Context, supplierID uuid.UUID) (SupplierResponse, error) {
	supplier, err := s.suppliers.FindByID(ctx, supplierID)
	if err != nil {
		return SupplierResponse{}, err
	}
	return toSupplierResponse(supplier), nil
}

// ActiveSuppliers lists suppliers available for purchasing
func (s *SupplierService) ActiveSuppliers(ctx context.Context) ([]SupplierResponse, error) {
	suppliers, err := s.suppliers.FindActive(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]SupplierResponse, 0, len(suppliers))
	for _, sup := range suppliers {
		out = append(out, toSupplierResponse(sup))
	}
	return out, nil
}

package catalog

import (
	"github.com/shopspring/decimal"
	"github.com/stitchworks/backend/internal/domain/shared"
)

// Event types for the catalog context
const (
	EventTypeProductCreated     = "catalog.product.created"
	EventTypeProductCostChanged = "catalog.product.cost_changed"
)

// ProductCreatedEvent is emitted when a new product is created
type ProductCreatedEvent struct {
	shared.BaseDomainEvent
	Code     string   `json:"code"`
	Name     string   `json:"name"`
	ItemType ItemType `json:"item_type"`
}

// NewProductCreatedEvent creates a new ProductCreatedEvent
func NewProductCreatedEvent(p *Product) *ProductCreatedEvent {
	return &ProductCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductCreated, "Product", p.ID),
		Code:            p.Code,
		Name:            p.Name,
		ItemType:        p.ItemType,
	}
}

// ProductCostChangedEvent is emitted when the landed unit cost changes
type ProductCostChangedEvent struct {
	shared.BaseDomainEvent
	OldUnitCost decimal.Decimal `json:"old_unit_cost"`
	NewUnitCost decimal.Decimal `json:"new_unit_cost"`
}

// NewProductCostChangedEvent creates a new ProductCostChangedEvent
func NewProductCostChangedEvent(p *Product, oldCost, newCost decimal.Decimal) *ProductCostChangedEvent {
	return &ProductCostChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductCostChanged, "Product", p.ID),
		OldUnitCost:     oldCost,
		NewUnitCost:     newCost,
	}
}

package catalog

import (
	"github.com/shopspring/decimal"
	"github.com/stitchworks/backend/internal/domain/shared"
	"github.com/stitchworks/backend/internal/domain/shared/valueobject"
)

// ItemType classifies what a product is used for in the apparel business
type ItemType string

const (
	// ItemTypeFinishedGood is a sellable garment
	ItemTypeFinishedGood ItemType = "FINISHED_GOOD"
	// ItemTypeRawMaterial is fabric, thread, buttons and other production inputs
	ItemTypeRawMaterial ItemType = "RAW_MATERIAL"
	// ItemTypePackaging is boxes, polybags, hangtags
	ItemTypePackaging ItemType = "PACKAGING"
)

// IsValid checks if the item type is valid
func (t ItemType) IsValid() bool {
	switch t {
	case ItemTypeFinishedGood, ItemTypeRawMaterial, ItemTypePackaging:
		return true
	}
	return false
}

// String returns the string representation
func (t ItemType) String() string {
	return string(t)
}

// IsReplenishable returns true if the item type participates in
// replenishment planning (packaging is excluded)
func (t ItemType) IsReplenishable() bool {
	return t == ItemTypeFinishedGood || t == ItemTypeRawMaterial
}

// PriceTier selects which price applies to a sale
type PriceTier string

const (
	PriceTierRetail    PriceTier = "RETAIL"
	PriceTierWholesale PriceTier = "WHOLESALE"
)

// Product is the catalog aggregate root. Stock records, BOM lines and order
// lines reference a product by ID and never duplicate its attributes.
type Product struct {
	shared.BaseAggregateRoot
	Code           string          `gorm:"size:50;uniqueIndex;not null"`
	Name           string          `gorm:"size:200;not null"`
	ItemType       ItemType        `gorm:"size:20;not null;index"`
	LeadTimeDays   int             `gorm:"not null;default:0"`
	OrderCost      decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"` // fixed cost per replenishment order
	HoldingCostPct decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"` // annual holding cost as a fraction of unit cost
	LowThreshold   decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"` // alert threshold for slow movers
	UnitCost       decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"` // last landed cost per unit
	RetailPrice    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	WholesalePrice decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Active         bool            `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a new catalog product
func NewProduct(code, name string, itemType ItemType) (*Product, error) {
	if code == "" {
		return nil, shared.NewDomainError("INVALID_CODE", "Product code cannot be empty")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if !itemType.IsValid() {
		return nil, shared.NewDomainError("INVALID_ITEM_TYPE", "Unknown item type: "+string(itemType))
	}

	p := &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              code,
		Name:              name,
		ItemType:          itemType,
		OrderCost:         decimal.Zero,
		HoldingCostPct:    decimal.Zero,
		LowThreshold:      decimal.Zero,
		UnitCost:          decimal.Zero,
		RetailPrice:       decimal.Zero,
		WholesalePrice:    decimal.Zero,
		Active:            true,
	}

	p.AddDomainEvent(NewProductCreatedEvent(p))

	return p, nil
}

// SetReplenishmentParameters sets the planning inputs for the product
func (p *Product) SetReplenishmentParameters(leadTimeDays int, orderCost, holdingCostPct, lowThreshold decimal.Decimal) error {
	if leadTimeDays < 0 {
		return shared.NewDomainError("INVALID_LEAD_TIME", "Lead time cannot be negative")
	}
	if orderCost.IsNegative() || holdingCostPct.IsNegative() || lowThreshold.IsNegative() {
		return shared.NewDomainError("INVALID_PARAMETER", "Replenishment parameters cannot be negative")
	}

	p.LeadTimeDays = leadTimeDays
	p.OrderCost = orderCost
	p.HoldingCostPct = holdingCostPct
	p.LowThreshold = lowThreshold
	p.Touch()
	p.IncrementVersion()

	return nil
}

// SetPrices sets the retail and wholesale prices
func (p *Product) SetPrices(retail, wholesale decimal.Decimal) error {
	if retail.IsNegative() || wholesale.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Prices cannot be negative")
	}

	p.RetailPrice = retail
	p.WholesalePrice = wholesale
	p.Touch()
	p.IncrementVersion()

	return nil
}

// PriceFor returns the price for the given tier
func (p *Product) PriceFor(tier PriceTier) decimal.Decimal {
	if tier == PriceTierWholesale {
		return p.WholesalePrice
	}
	return p.RetailPrice
}

// UpdateUnitCost records the latest landed cost per unit, typically set by
// purchase receiving
func (p *Product) UpdateUnitCost(unitCost valueobject.Money) error {
	if unitCost.IsNegative() {
		return shared.NewDomainError("INVALID_COST", "Unit cost cannot be negative")
	}

	old := p.UnitCost
	p.UnitCost = unitCost.Amount()
	p.Touch()
	p.IncrementVersion()

	if !old.Equal(p.UnitCost) {
		p.AddDomainEvent(NewProductCostChangedEvent(p, old, p.UnitCost))
	}

	return nil
}

// Deactivate removes the product from active use without deleting it
func (p *Product) Deactivate() {
	if !p.Active {
		return
	}
	p.Active = false
	p.Touch()
	p.IncrementVersion()
}

// IsFinishedGood returns true for sellable garments
func (p *Product) IsFinishedGood() bool {
	return p.ItemType == ItemTypeFinishedGood
}

// Activate returns the product to active use
func (p *Product) Activate() {
	if p.Active {
		return
	}
	p.Active = true
	p.Touch()
	p.IncrementVersion()
}

package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stitchworks/backend/internal/domain/catalog"
)

// CreateProductInput registers a new catalog entry
type CreateProductInput struct {
	Code     string           `json:"code" validate:"required,max=50"`
	Name     string           `json:"name" validate:"required,max=200"`
	ItemType catalog.ItemType `json:"item_type" validate:"required"`
}

// SetPricesInput updates the two-tier price list
type SetPricesInput struct {
	ProductID uuid.UUID       `json:"product_id" validate:"required"`
	Retail    decimal.Decimal `json:"retail" validate:"required"`
	Wholesale decimal.Decimal `json:"wholesale" validate:"required"`
}

// SetReplenishmentInput updates the planner parameters of a product
type SetReplenishmentInput struct {
	ProductID      uuid.UUID       `json:"product_id" validate:"required"`
	LeadTimeDays   int             `json:"lead_time_days" validate:"min=0"`
	OrderCost      decimal.Decimal `json:"order_cost"`
	HoldingCostPct decimal.Decimal `json:"holding_cost_pct"`
	LowThreshold   decimal.Decimal `json:"low_threshold"`
}

// ProductResponse is the read projection of a product
type ProductResponse struct {
	ID             uuid.UUID       `json:"id"`
	Code           string          `json:"code"`
	Name           string          `json:"name"`
	ItemType       string          `json:"item_type"`
	PriceRetail    decimal.Decimal `json:"price_retail"`
	PriceWholesale decimal.Decimal `json:"price_wholesale"`
	UnitCost       decimal.Decimal `json:"unit_cost"`
	LeadTimeDays   int             `json:"lead_time_days"`
	Active         bool            `json:"active"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

func toProductResponse(p *catalog.Product) ProductResponse {
	return ProductResponse{
		ID:             p.ID,
		Code:           p.Code,
		Name:           p.Name,
		ItemType:       p.ItemType.String(),
		PriceRetail:    p.RetailPrice,
		PriceWholesale: p.WholesalePrice,
		UnitCost:       p.UnitCost,
		LeadTimeDays:   p.LeadTimeDays,
		Active:         p.Active,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	catalogapp "github.com/stitchworks/backend/internal/application/catalog"
)

// ProductHandler handles catalog API endpoints
type ProductHandler struct {
	BaseHandler
	products *catalogapp.ProductService
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(products *catalogapp.ProductService) *ProductHandler {
	return &ProductHandler{products: products}
}

// Create registers a new product
func (h *ProductHandler) Create(c *gin.Context) {
	var in catalogapp.CreateProductInput
	if !h.bindJSON(c, &in) {
		return
	}

	product, err := h.products.Create(c.Request.Context(), in)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, product)
}

// SetPricesRequest carries the two-tier price list for a product
type SetPricesRequest struct {
	Retail    decimal.Decimal `json:"retail" binding:"required"`
	Wholesale decimal.Decimal `json:"wholesale" binding:"required"`
}

// SetPrices updates a product's retail and wholesale prices
func (h *ProductHandler) SetPrices(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID format")
		return
	}

	var req SetPricesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	product, err := h.products.SetPrices(c.Request.Context(), catalogapp.SetPricesInput{
		ProductID: productID,
		Retail:    req.Retail,
		Wholesale: req.Wholesale,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, product)
}

// SetReplenishmentRequest carries the planner parameters of a product
type SetReplenishmentRequest struct {
	LeadTimeDays   int             `json:"lead_time_days" binding:"min=0"`
	OrderCost      decimal.Decimal `json:"order_cost"`
	HoldingCostPct decimal.Decimal `json:"holding_cost_pct"`
	LowThreshold   decimal.Decimal `json:"low_threshold"`
}

// SetReplenishment updates a product's replenishment parameters
func (h *ProductHandler) SetReplenishment(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID format")
		return
	}

	var req SetReplenishmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	product, err := h.products.SetReplenishment(c.Request.Context(), catalogapp.SetReplenishmentInput{
		ProductID:      productID,
		LeadTimeDays:   req.LeadTimeDays,
		OrderCost:      req.OrderCost,
		HoldingCostPct: req.HoldingCostPct,
		LowThreshold:   req.LowThreshold,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, product)
}

// Activate returns a product to the active catalog
func (h *ProductHandler) Activate(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID format")
		return
	}

	product, err := h.products.Activate(c.Request.Context(), productID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, product)
}

// Deactivate retires a product from the active catalog
func (h *ProductHandler) Deactivate(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID format")
		return
	}

	product, err := h.products.Deactivate(c.Request.Context(), productID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, product)
}

// GetByID retrieves a product by ID
func (h *ProductHandler) GetByID(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID format")
		return
	}

	product, err := h.products.Product(c.Request.Context(), productID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, product)
}

// GetByCode retrieves a product by its catalog code
func (h *ProductHandler) GetByCode(c *gin.Context) {
	code := c.Param("code")
	if code == "" {
		h.BadRequest(c, "Product code is required")
		return
	}

	product, err := h.products.ProductByCode(c.Request.Context(), code)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, product)
}

// List retrieves a paginated product listing with optional filters
func (h *ProductHandler) List(c *gin.Context) {
	filter, err := bindFilter(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	if itemType := c.Query("item_type"); itemType != "" {
		filter.Filters["item_type"] = itemType
	}
	if active := c.Query("active"); active != "" {
		filter.Filters["active"] = active == "true"
	}

	products, total, err := h.products.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.SuccessWithMeta(c, products, total, filter.Page, filter.PageSize)
}

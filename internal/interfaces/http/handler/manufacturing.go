package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	manufacturingapp "github.com/stitchworks/backend/internal/application/manufacturing"
)

// ProductionHandler handles BOM and production order API endpoints
type ProductionHandler struct {
	BaseHandler
	production *manufacturingapp.ProductionService
}

// NewProductionHandler creates a new ProductionHandler
func NewProductionHandler(production *manufacturingapp.ProductionService) *ProductionHandler {
	return &ProductionHandler{production: production}
}

// CreateBOM registers a new bill of materials
func (h *ProductionHandler) CreateBOM(c *gin.Context) {
	var in manufacturingapp.CreateBOMInput
	if !h.bindJSON(c, &in) {
		return
	}

	bom, err := h.production.CreateBOM(c.Request.Context(), in)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, bom)
}

// CreateOrder opens a new production order
func (h *ProductionHandler) CreateOrder(c *gin.Context) {
	var in manufacturingapp.CreateOrderInput
	if !h.bindJSON(c, &in) {
		return
	}

	order, err := h.production.CreateOrder(c.Request.Context(), in)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, order)
}

// Start moves a production order onto the shop floor
func (h *ProductionHandler) Start(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid production order ID format")
		return
	}

	order, err := h.production.Start(c.Request.Context(), orderID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, order)
}

// Complete consumes materials per the BOM and lands the finished goods
func (h *ProductionHandler) Complete(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid production order ID format")
		return
	}

	order, err := h.production.Complete(c.Request.Context(), orderID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, order)
}

// CancelRequest carries the mandatory reason for a cancellation
type CancelRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// Cancel abandons a pending or in-progress production order
func (h *ProductionHandler) Cancel(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid production order ID format")
		return
	}

	var req CancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	order, err := h.production.Cancel(c.Request.Context(), orderID, req.Reason)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, order)
}

// GetOrder retrieves a production order by ID
func (h *ProductionHandler) GetOrder(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid production order ID format")
		return
	}

	order, err := h.production.Order(c.Request.Context(), orderID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, order)
}

// OrdersForSalesOrder lists production orders spawned by a sales order
func (h *ProductionHandler) OrdersForSalesOrder(c *gin.Context) {
	salesOrderID, err := uuid.Parse(c.Param("sales_order_id"))
	if err != nil {
		h.BadRequest(c, "Invalid sales order ID format")
		return
	}

	orders, err := h.production.OrdersForSalesOrder(c.Request.Context(), salesOrderID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, orders)
}

package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	planningapp "github.com/stitchworks/backend/internal/application/planning"
)

// PlanningHandler handles replenishment planner API endpoints
type PlanningHandler struct {
	BaseHandler
	planner *planningapp.ReplenishmentService
}

// NewPlanningHandler creates a new PlanningHandler
func NewPlanningHandler(planner *planningapp.ReplenishmentService) *PlanningHandler {
	return &PlanningHandler{planner: planner}
}

// Report computes reorder advice across the replenishable catalog
func (h *PlanningHandler) Report(c *gin.Context) {
	report, err := h.planner.Report(c.Request.Context())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, report)
}

// AdviceFor computes reorder advice for a single product
func (h *PlanningHandler) AdviceFor(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("product_id"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID format")
		return
	}

	advice, err := h.planner.AdviceFor(c.Request.Context(), productID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, advice)
}

// DraftPurchaseOrderRequest names the supplier a draft order is built for
type DraftPurchaseOrderRequest struct {
	SupplierID   uuid.UUID `json:"supplier_id" binding:"required"`
	SupplierName string    `json:"supplier_name" binding:"required"`
}

// DraftPurchaseOrder turns the current advice into an unsaved purchase
// order draft for review
func (h *PlanningHandler) DraftPurchaseOrder(c *gin.Context) {
	var req DraftPurchaseOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	draft, err := h.planner.DraftPurchaseOrder(c.Request.Context(), req.SupplierID, req.SupplierName)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, draft)
}

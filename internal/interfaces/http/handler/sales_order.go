package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	tradeapp "github.com/stitchworks/backend/internal/application/trade"
	"github.com/stitchworks/backend/internal/domain/trade"
)

// SalesOrderHandler handles sales order API endpoints
type SalesOrderHandler struct {
	BaseHandler
	sales *tradeapp.SalesOrderService
}

// NewSalesOrderHandler creates a new SalesOrderHandler
func NewSalesOrderHandler(sales *tradeapp.SalesOrderService) *SalesOrderHandler {
	return &SalesOrderHandler{sales: sales}
}

// CreateQuote opens a new sales order in QUOTE status
func (h *SalesOrderHandler) CreateQuote(c *gin.Context) {
	var in tradeapp.CreateQuoteInput
	if !h.bindJSON(c, &in) {
		return
	}

	order, err := h.sales.CreateQuote(c.Request.Context(), in)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, order)
}

// AddLine adds a product line to a quote, pricing it from the customer tier
func (h *SalesOrderHandler) AddLine(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid sales order ID format")
		return
	}

	var in tradeapp.AddLineInput
	if err := c.ShouldBindJSON(&in); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	in.OrderID = orderID
	if err := validate.Struct(in); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	order, err := h.sales.AddLine(c.Request.Context(), in)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, order)
}

// RemoveLine removes a line from a quote
func (h *SalesOrderHandler) RemoveLine(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid sales order ID format")
		return
	}
	itemID, err := uuid.Parse(c.Param("item_id"))
	if err != nil {
		h.BadRequest(c, "Invalid line item ID format")
		return
	}

	order, err := h.sales.RemoveLine(c.Request.Context(), orderID, itemID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, order)
}

// AssignDeliveryRequest names the delivery resource for an order
type AssignDeliveryRequest struct {
	Assignee string `json:"assignee" binding:"required"`
}

// AssignDelivery assigns the delivery resource required before dispatch
func (h *SalesOrderHandler) AssignDelivery(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid sales order ID format")
		return
	}

	var req AssignDeliveryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	order, err := h.sales.AssignDelivery(c.Request.Context(), orderID, req.Assignee)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, order)
}

// TransitionRequest moves an order to a new status
type TransitionRequest struct {
	Target string `json:"target" binding:"required"`
	Note   string `json:"note"`
}

// Transition moves a sales order through its lifecycle. Entering PENDING
// runs the credit check and commits stock; COMPLETED settles payment;
// CANCELLED reverses any commitment.
func (h *SalesOrderHandler) Transition(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid sales order ID format")
		return
	}

	var req TransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.sales.Transition(c.Request.Context(), tradeapp.TransitionInput{
		OrderID: orderID,
		Target:  trade.SalesOrderStatus(req.Target),
		Note:    req.Note,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, result)
}

// GetByID retrieves a sales order by ID
func (h *SalesOrderHandler) GetByID(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid sales order ID format")
		return
	}

	order, err := h.sales.Order(c.Request.Context(), orderID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, order)
}

// ListByStatus lists sales orders in one lifecycle status
func (h *SalesOrderHandler) ListByStatus(c *gin.Context) {
	status := trade.SalesOrderStatus(c.Query("status"))
	if status == "" {
		h.BadRequest(c, "status query parameter is required")
		return
	}
	if !status.IsValid() {
		h.BadRequest(c, "Unknown sales order status")
		return
	}

	orders, err := h.sales.OrdersByStatus(c.Request.Context(), status)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, orders)
}

// PickList returns the allocation provenance for a committed order
func (h *SalesOrderHandler) PickList(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid sales order ID format")
		return
	}

	lines, err := h.sales.PickList(c.Request.Context(), orderID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, lines)
}

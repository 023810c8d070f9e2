package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	tradeapp "github.com/stitchworks/backend/internal/application/trade"
)

// PurchaseOrderHandler handles purchase order API endpoints
type PurchaseOrderHandler struct {
	BaseHandler
	purchases *tradeapp.PurchaseOrderService
}

// NewPurchaseOrderHandler creates a new PurchaseOrderHandler
func NewPurchaseOrderHandler(purchases *tradeapp.PurchaseOrderService) *PurchaseOrderHandler {
	return &PurchaseOrderHandler{purchases: purchases}
}

// Create opens a purchase order with a supplier
func (h *PurchaseOrderHandler) Create(c *gin.Context) {
	var in tradeapp.CreatePurchaseInput
	if !h.bindJSON(c, &in) {
		return
	}

	order, err := h.purchases.Create(c.Request.Context(), in)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, order)
}

// AddLine adds a material line to a pending purchase order
func (h *PurchaseOrderHandler) AddLine(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid purchase order ID format")
		return
	}

	var in tradeapp.AddPurchaseLineInput
	if err := c.ShouldBindJSON(&in); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	in.OrderID = orderID
	if err := validate.Struct(in); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	order, err := h.purchases.AddLine(c.Request.Context(), in)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, order)
}

// ReceiveRequest routes each purchase line into a stock location
type ReceiveRequest struct {
	Routing []tradeapp.ReceiveLineInput `json:"routing" binding:"required,min=1"`
}

// Receive books the ordered goods into stock and writes goods receipts
func (h *PurchaseOrderHandler) Receive(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid purchase order ID format")
		return
	}

	var req ReceiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	for _, line := range req.Routing {
		if err := validate.Struct(line); err != nil {
			h.BadRequest(c, err.Error())
			return
		}
	}

	order, err := h.purchases.Receive(c.Request.Context(), orderID, req.Routing)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, order)
}

// MarkPaid settles a received purchase order against the cash ledger
func (h *PurchaseOrderHandler) MarkPaid(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid purchase order ID format")
		return
	}

	order, err := h.purchases.MarkPaid(c.Request.Context(), orderID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, order)
}

// Cancel abandons a pending purchase order
func (h *PurchaseOrderHandler) Cancel(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid purchase order ID format")
		return
	}

	var req CancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	order, err := h.purchases.Cancel(c.Request.Context(), orderID, req.Reason)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, order)
}

// GetByID retrieves a purchase order by ID
func (h *PurchaseOrderHandler) GetByID(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid purchase order ID format")
		return
	}

	order, err := h.purchases.Order(c.Request.Context(), orderID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, order)
}

// Receipts lists the goods receipts written when an order was received
func (h *PurchaseOrderHandler) Receipts(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid purchase order ID format")
		return
	}

	receipts, err := h.purchases.Receipts(c.Request.Context(), orderID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, receipts)
}

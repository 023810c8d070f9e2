package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	inventoryapp "github.com/stitchworks/backend/internal/application/inventory"
)

// StockHandler handles stock ledger API endpoints
type StockHandler struct {
	BaseHandler
	stock         *inventoryapp.StockService
	expiryHorizon time.Duration
}

// NewStockHandler creates a new StockHandler
func NewStockHandler(stock *inventoryapp.StockService) *StockHandler {
	return &StockHandler{stock: stock, expiryHorizon: 30 * 24 * time.Hour}
}

// SetExpiryHorizon overrides the default window for the expiring-stock
// report when the request does not name one
func (h *StockHandler) SetExpiryHorizon(horizon time.Duration) {
	if horizon > 0 {
		h.expiryHorizon = horizon
	}
}

// Receive lands one inbound lot in the ledger
func (h *StockHandler) Receive(c *gin.Context) {
	var in inventoryapp.ProduceInput
	if !h.bindJSON(c, &in) {
		return
	}

	record, err := h.stock.Produce(c.Request.Context(), in)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, record)
}

// Allocate consumes stock against a demand, oldest expiry first
func (h *StockHandler) Allocate(c *gin.Context) {
	var in inventoryapp.AllocateInput
	if !h.bindJSON(c, &in) {
		return
	}

	allocations, err := h.stock.Allocate(c.Request.Context(), in)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, allocations)
}

// Transfer moves stock between two locations
func (h *StockHandler) Transfer(c *gin.Context) {
	var in inventoryapp.TransferInput
	if !h.bindJSON(c, &in) {
		return
	}

	allocations, err := h.stock.Transfer(c.Request.Context(), in)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, allocations)
}

// StockLevel returns a product's records and total across locations
func (h *StockHandler) StockLevel(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("product_id"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID format")
		return
	}

	level, err := h.stock.StockLevel(c.Request.Context(), productID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, level)
}

// ExpiringBatches lists stocked lots expiring within the requested window
func (h *StockHandler) ExpiringBatches(c *gin.Context) {
	horizon := h.expiryHorizon
	if _, ok := c.GetQuery("days"); ok {
		days := queryInt(c, "days", 0)
		if days <= 0 {
			h.BadRequest(c, "days must be positive")
			return
		}
		horizon = time.Duration(days) * 24 * time.Hour
	}

	batches, err := h.stock.ExpiringBatches(c.Request.Context(), horizon)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, batches)
}

// Movements pages through a product's journal, newest first
func (h *StockHandler) Movements(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("product_id"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID format")
		return
	}

	filter, err := bindFilter(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	movements, err := h.stock.Movements(c.Request.Context(), productID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, movements)
}

// ReconciliationResponse reports whether the ledger matches the journal
type ReconciliationResponse struct {
	ProductID  uuid.UUID `json:"product_id"`
	Reconciled bool      `json:"reconciled"`
}

// VerifyReconciliation checks a product's ledger against its journal
func (h *StockHandler) VerifyReconciliation(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("product_id"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID format")
		return
	}

	ok, err := h.stock.VerifyReconciliation(c.Request.Context(), productID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, ReconciliationResponse{ProductID: productID, Reconciled: ok})
}

// CycleCountHandler handles cycle count API endpoints
type CycleCountHandler struct {
	BaseHandler
	counts *inventoryapp.CycleCountService
}

// NewCycleCountHandler creates a new CycleCountHandler
func NewCycleCountHandler(counts *inventoryapp.CycleCountService) *CycleCountHandler {
	return &CycleCountHandler{counts: counts}
}

// StartCountRequest opens a new cycle count, optionally scoped to a location
type StartCountRequest struct {
	Location string `json:"location"`
}

// Start snapshots current stock into a new count
func (h *CycleCountHandler) Start(c *gin.Context) {
	var req StartCountRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.BadRequest(c, err.Error())
			return
		}
	}

	count, err := h.counts.Start(c.Request.Context(), req.Location)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, count)
}

// RecordCountRequest stores one physical count
type RecordCountRequest struct {
	StockRecordID uuid.UUID       `json:"stock_record_id" binding:"required"`
	Physical      decimal.Decimal `json:"physical"`
}

// RecordCount stores the physical quantity for one snapshot item
func (h *CycleCountHandler) RecordCount(c *gin.Context) {
	countID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid cycle count ID format")
		return
	}

	var req RecordCountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if err := h.counts.RecordCount(c.Request.Context(), countID, req.StockRecordID, req.Physical); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.NoContent(c)
}

// Confirm applies every non-zero variance as a ledger adjustment
func (h *CycleCountHandler) Confirm(c *gin.Context) {
	countID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid cycle count ID format")
		return
	}

	result, err := h.counts.Confirm(c.Request.Context(), countID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, result)
}

// GetByID retrieves one cycle count with its snapshot items
func (h *CycleCountHandler) GetByID(c *gin.Context) {
	countID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid cycle count ID format")
		return
	}

	count, err := h.counts.Count(c.Request.Context(), countID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, count)
}

// List pages through past counts without their items
func (h *CycleCountHandler) List(c *gin.Context) {
	filter, err := bindFilter(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	if status := c.Query("status"); status != "" {
		filter.Filters["status"] = status
	}

	counts, err := h.counts.Counts(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, counts)
}

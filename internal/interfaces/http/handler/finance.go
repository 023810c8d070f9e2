package handler

import (
	"github.com/gin-gonic/gin"
	financeapp "github.com/stitchworks/backend/internal/application/finance"
)

// CashHandler handles cash ledger API endpoints
type CashHandler struct {
	BaseHandler
	cash *financeapp.CashService
}

// NewCashHandler creates a new CashHandler
func NewCashHandler(cash *financeapp.CashService) *CashHandler {
	return &CashHandler{cash: cash}
}

// Adjust applies a signed manual correction to the cash balance
func (h *CashHandler) Adjust(c *gin.Context) {
	var in financeapp.AdjustInput
	if !h.bindJSON(c, &in) {
		return
	}

	balance, err := h.cash.Adjust(c.Request.Context(), in)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, balance)
}

// Balance returns the current cash position
func (h *CashHandler) Balance(c *gin.Context) {
	balance, err := h.cash.Balance(c.Request.Context())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, balance)
}

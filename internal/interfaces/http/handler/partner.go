package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	partnerapp "github.com/stitchworks/backend/internal/application/partner"
	"github.com/stitchworks/backend/internal/domain/partner"
)

// CustomerHandler handles customer API endpoints
type CustomerHandler struct {
	BaseHandler
	customers *partnerapp.CustomerService
}

// NewCustomerHandler creates a new CustomerHandler
func NewCustomerHandler(customers *partnerapp.CustomerService) *CustomerHandler {
	return &CustomerHandler{customers: customers}
}

// Create registers a new customer
func (h *CustomerHandler) Create(c *gin.Context) {
	var in partnerapp.CreateCustomerInput
	if !h.bindJSON(c, &in) {
		return
	}

	customer, err := h.customers.Create(c.Request.Context(), in)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, customer)
}

// SetContact updates a customer's contact details
func (h *CustomerHandler) SetContact(c *gin.Context) {
	customerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid customer ID format")
		return
	}

	var in partnerapp.ContactInput
	if err := c.ShouldBindJSON(&in); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	customer, err := h.customers.SetContact(c.Request.Context(), customerID, in)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, customer)
}

// SetTierRequest changes a customer's pricing tier
type SetTierRequest struct {
	Tier string `json:"tier" binding:"required"`
}

// SetTier changes the pricing tier applied to new quotes
func (h *CustomerHandler) SetTier(c *gin.Context) {
	customerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid customer ID format")
		return
	}

	var req SetTierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	customer, err := h.customers.SetTier(c.Request.Context(), customerID, partner.CustomerTier(req.Tier))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, customer)
}

// SetCreditLimitRequest changes a customer's credit ceiling
type SetCreditLimitRequest struct {
	Limit decimal.Decimal `json:"limit" binding:"required"`
}

// SetCreditLimit changes the ceiling applied during order credit checks
func (h *CustomerHandler) SetCreditLimit(c *gin.Context) {
	customerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid customer ID format")
		return
	}

	var req SetCreditLimitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	customer, err := h.customers.SetCreditLimit(c.Request.Context(), customerID, req.Limit)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, customer)
}

// SettleDebtRequest pays down outstanding customer debt
type SettleDebtRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
}

// SettleDebt records a payment against a customer's outstanding debt
func (h *CustomerHandler) SettleDebt(c *gin.Context) {
	customerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid customer ID format")
		return
	}

	var req SettleDebtRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	customer, err := h.customers.SettleDebt(c.Request.Context(), customerID, req.Amount)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, customer)
}

// GetByID retrieves a customer by ID
func (h *CustomerHandler) GetByID(c *gin.Context) {
	customerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid customer ID format")
		return
	}

	customer, err := h.customers.Customer(c.Request.Context(), customerID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, customer)
}

// ListActive lists active customers ordered by code
func (h *CustomerHandler) ListActive(c *gin.Context) {
	customers, err := h.customers.ActiveCustomers(c.Request.Context())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, customers)
}

// SupplierHandler handles supplier API endpoints
type SupplierHandler struct {
	BaseHandler
	suppliers *partnerapp.SupplierService
}

// NewSupplierHandler creates a new SupplierHandler
func NewSupplierHandler(suppliers *partnerapp.SupplierService) *SupplierHandler {
	return &SupplierHandler{suppliers: suppliers}
}

// Create registers a new supplier
func (h *SupplierHandler) Create(c *gin.Context) {
	var in partnerapp.CreateSupplierInput
	if !h.bindJSON(c, &in) {
		return
	}

	supplier, err := h.suppliers.Create(c.Request.Context(), in)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, supplier)
}

// SetContact updates a supplier's contact details
func (h *SupplierHandler) SetContact(c *gin.Context) {
	supplierID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid supplier ID format")
		return
	}

	var in partnerapp.ContactInput
	if err := c.ShouldBindJSON(&in); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	supplier, err := h.suppliers.SetContact(c.Request.Context(), supplierID, in)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, supplier)
}

// GetByID retrieves a supplier by ID
func (h *SupplierHandler) GetByID(c *gin.Context) {
	supplierID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid supplier ID format")
		return
	}

	supplier, err := h.suppliers.Supplier(c.Request.Context(), supplierID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, supplier)
}

// ListActive lists active suppliers ordered by code
func (h *SupplierHandler) ListActive(c *gin.Context) {
	suppliers, err := h.suppliers.ActiveSuppliers(c.Request.Context())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, suppliers)
}

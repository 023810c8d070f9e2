package partner

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stitchworks/backend/internal/domain/partner"
)

// CreateCustomerInput registers a new customer
type CreateCustomerInput struct {
	Code        string               `json:"code" validate:"required,max=50"`
	Name        string               `json:"name" validate:"required,max=200"`
	Tier        partner.CustomerTier `json:"tier" validate:"required"`
	CreditLimit decimal.Decimal      `json:"credit_limit"`
}

// ContactInput updates contact details for a customer or supplier
type ContactInput struct {
	ContactName string `json:"contact_name"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
	Address     string `json:"address"`
}

// CustomerResponse is the read projection of a customer
type CustomerResponse struct {
	ID              uuid.UUID       `json:"id"`
	Code            string          `json:"code"`
	Name            string          `json:"name"`
	Tier            string          `json:"tier"`
	CreditLimit     decimal.Decimal `json:"credit_limit"`
	OutstandingDebt decimal.Decimal `json:"outstanding_debt"`
	Active          bool            `json:"active"`
	CreatedAt       time.Time       `json:"created_at"`
}

func toCustomerResponse(c *partner.Customer) CustomerResponse {
	return CustomerResponse{
		ID:              c.ID,
		Code:            c.Code,
		Name:            c.Name,
		Tier:            string(c.Tier),
		CreditLimit:     c.CreditLimit,
		OutstandingDebt: c.OutstandingDebt,
		Active:          c.IsActive(),
		CreatedAt:       c.CreatedAt,
	}
}

// CreateSupplierInput registers a new supplier
type CreateSupplierInput struct {
	Code string `json:"code" validate:"required,max=50"`
	Name string `json:"name" validate:"required,max=200"`
}

// SupplierResponse is the read projection of a supplier
type SupplierResponse struct {
	ID        uuid.UUID `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

func toSupplierResponse(s *partner.Supplier) SupplierResponse {
	return SupplierResponse{
		ID:        s.ID,
		Code:      s.Code,
		Name:      s.Name,
		CreatedAt: s.CreatedAt,
	}
}

package partner

import (
	"github.com/shopspring/decimal"
	"github.com/stitchworks/backend/internal/domain/shared"
)

// Event types for the partner context
const (
	EventTypeCustomerCreated     = "partner.customer.created"
	EventTypeCustomerDebtChanged = "partner.customer.debt_changed"
	EventTypeSupplierCreated     = "partner.supplier.created"
)

// CustomerCreatedEvent is emitted when a customer is created
type CustomerCreatedEvent struct {
	shared.BaseDomainEvent
	Code string       `json:"code"`
	Name string       `json:"name"`
	Tier CustomerTier `json:"tier"`
}

// NewCustomerCreatedEvent creates a new CustomerCreatedEvent
func NewCustomerCreatedEvent(c *Customer) *CustomerCreatedEvent {
	return &CustomerCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCustomerCreated, "Customer", c.ID),
		Code:            c.Code,
		Name:            c.Name,
		Tier:            c.Tier,
	}
}

// CustomerDebtChangedEvent is emitted when outstanding debt moves
type CustomerDebtChangedEvent struct {
	shared.BaseDomainEvent
	OldDebt decimal.Decimal `json:"old_debt"`
	NewDebt decimal.Decimal `json:"new_debt"`
}

// NewCustomerDebtChangedEvent creates a new CustomerDebtChangedEvent
func NewCustomerDebtChangedEvent(c *Customer, oldDebt, newDebt decimal.Decimal) *CustomerDebtChangedEvent {
	return &CustomerDebtChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCustomerDebtChanged, "Customer", c.ID),
		OldDebt:         oldDebt,
		NewDebt:         newDebt,
	}
}

// SupplierCreatedEvent is emitted when a supplier is created
type SupplierCreatedEvent struct {
	shared.BaseDomainEvent
	Code string `json:"code"`
	Name string `json:"name"`
}

// NewSupplierCreatedEvent creates a new SupplierCreatedEvent
func NewSupplierCreatedEvent(s *Supplier) *SupplierCreatedEvent {
	return &SupplierCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSupplierCreated, "Supplier", s.ID),
		Code:            s.Code,
		Name:            s.Name,
	}
}

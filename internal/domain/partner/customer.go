package partner

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/stitchworks/backend/internal/domain/shared"
)

// CustomerStatus represents the status of a customer
type CustomerStatus string

const (
	CustomerStatusActive   CustomerStatus = "active"
	CustomerStatusInactive CustomerStatus = "inactive"
)

// CustomerTier decides which price list applies to the customer's orders
type CustomerTier string

const (
	CustomerTierRetail    CustomerTier = "RETAIL"
	CustomerTierWholesale CustomerTier = "WHOLESALE"
)

// IsValid checks if the tier is valid
func (t CustomerTier) IsValid() bool {
	return t == CustomerTierRetail || t == CustomerTierWholesale
}

// Customer is the aggregate root for buyers. OutstandingDebt tracks unpaid
// credit-term orders and is guarded by CreditLimit.
type Customer struct {
	shared.BaseAggregateRoot
	Code            string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name            string          `gorm:"type:varchar(200);not null"`
	Tier            CustomerTier    `gorm:"type:varchar(20);not null;default:'RETAIL'"`
	Status          CustomerStatus  `gorm:"type:varchar(20);not null;default:'active'"`
	ContactName     string          `gorm:"type:varchar(100)"`
	Phone           string          `gorm:"type:varchar(50);index"`
	Email           string          `gorm:"type:varchar(200);index"`
	Address         string          `gorm:"type:text"`
	CreditLimit     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	OutstandingDebt decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Notes           string          `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Customer) TableName() string {
	return "customers"
}

var customerCodePattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

func validateCustomerCode(code string) error {
	if code == "" {
		return shared.NewDomainError("INVALID_CODE", "Customer code cannot be empty")
	}
	if len(code) > 50 {
		return shared.NewDomainError("INVALID_CODE", "Customer code cannot exceed 50 characters")
	}
	if !customerCodePattern.MatchString(code) {
		return shared.NewDomainError("INVALID_CODE", "Customer code can only contain letters, numbers, hyphens and underscores")
	}
	return nil
}

func validateCustomerName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Customer name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Customer name cannot exceed 200 characters")
	}
	return nil
}

// NewCustomer creates a new active customer with no credit line
func NewCustomer(code, name string, tier CustomerTier) (*Customer, error) {
	if err := validateCustomerCode(code); err != nil {
		return nil, err
	}
	if err := validateCustomerName(name); err != nil {
		return nil, err
	}
	if !tier.IsValid() {
		return nil, shared.NewDomainError("INVALID_TIER", "Customer tier must be RETAIL or WHOLESALE")
	}

	customer := &Customer{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              strings.ToUpper(code),
		Name:              name,
		Tier:              tier,
		Status:            CustomerStatusActive,
		CreditLimit:       decimal.Zero,
		OutstandingDebt:   decimal.Zero,
	}

	customer.AddDomainEvent(NewCustomerCreatedEvent(customer))

	return customer, nil
}

// SetContact sets the customer's contact information
func (c *Customer) SetContact(contactName, phone, email, address string) error {
	if contactName != "" && len(contactName) > 100 {
		return shared.NewDomainError("INVALID_CONTACT_NAME", "Contact name cannot exceed 100 characters")
	}
	if email != "" && !strings.Contains(email, "@") {
		return shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}

	c.ContactName = contactName
	c.Phone = phone
	c.Email = email
	c.Address = address
	c.Touch()
	c.IncrementVersion()

	return nil
}

// SetTier changes the customer's price tier
func (c *Customer) SetTier(tier CustomerTier) error {
	if !tier.IsValid() {
		return shared.NewDomainError("INVALID_TIER", "Customer tier must be RETAIL or WHOLESALE")
	}

	c.Tier = tier
	c.Touch()
	c.IncrementVersion()

	return nil
}

// SetCreditLimit sets the maximum outstanding debt allowed on credit terms
func (c *Customer) SetCreditLimit(limit decimal.Decimal) error {
	if limit.IsNegative() {
		return shared.NewDomainError("INVALID_CREDIT_LIMIT", "Credit limit cannot be negative")
	}

	c.CreditLimit = limit
	c.Touch()
	c.IncrementVersion()

	return nil
}

// CanExtendCredit reports whether a further amount of debt would stay
// within the credit limit. A zero limit means no limit is set and credit
// is never refused on it.
func (c *Customer) CanExtendCredit(amount decimal.Decimal) bool {
	if c.CreditLimit.IsZero() {
		return true
	}
	return c.OutstandingDebt.Add(amount).LessThanOrEqual(c.CreditLimit)
}

// IncurDebt records an unpaid credit-term order against the customer.
// Fails when the resulting debt would exceed the credit limit.
func (c *Customer) IncurDebt(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_AMOUNT", "Debt amount must be positive")
	}
	if !c.CanExtendCredit(amount) {
		return shared.NewDomainError(shared.CodeCreditLimitExceeded, "Order would exceed the customer's credit limit")
	}

	oldDebt := c.OutstandingDebt
	c.OutstandingDebt = c.OutstandingDebt.Add(amount)
	c.Touch()
	c.IncrementVersion()

	c.AddDomainEvent(NewCustomerDebtChangedEvent(c, oldDebt, c.OutstandingDebt))

	return nil
}

// SettleDebt reduces the customer's outstanding debt after payment
func (c *Customer) SettleDebt(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_AMOUNT", "Settlement amount must be positive")
	}
	if c.OutstandingDebt.LessThan(amount) {
		return shared.NewDomainError("INVALID_AMOUNT", "Settlement exceeds outstanding debt")
	}

	oldDebt := c.OutstandingDebt
	c.OutstandingDebt = c.OutstandingDebt.Sub(amount)
	c.Touch()
	c.IncrementVersion()

	c.AddDomainEvent(NewCustomerDebtChangedEvent(c, oldDebt, c.OutstandingDebt))

	return nil
}

// Activate activates the customer
func (c *Customer) Activate() error {
	if c.Status == CustomerStatusActive {
		return shared.NewDomainError("ALREADY_ACTIVE", "Customer is already active")
	}

	c.Status = CustomerStatusActive
	c.Touch()
	c.IncrementVersion()

	return nil
}

// Deactivate deactivates the customer
func (c *Customer) Deactivate() error {
	if c.Status == CustomerStatusInactive {
		return shared.NewDomainError("ALREADY_INACTIVE", "Customer is already inactive")
	}

	c.Status = CustomerStatusInactive
	c.Touch()
	c.IncrementVersion()

	return nil
}

// IsActive returns whether the customer can place orders
func (c *Customer) IsActive() bool {
	return c.Status == CustomerStatusActive
}

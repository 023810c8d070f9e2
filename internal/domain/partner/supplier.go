package partner

import (
	"strings"

	"github.com/stitchworks/backend/internal/domain/shared"
)

// SupplierStatus represents the status of a supplier
type SupplierStatus string

const (
	SupplierStatusActive   SupplierStatus = "active"
	SupplierStatusInactive SupplierStatus = "inactive"
)

// Supplier is the aggregate root for material vendors
type Supplier struct {
	shared.BaseAggregateRoot
	Code        string         `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name        string         `gorm:"type:varchar(200);not null"`
	Status      SupplierStatus `gorm:"type:varchar(20);not null;default:'active'"`
	ContactName string         `gorm:"type:varchar(100)"`
	Phone       string         `gorm:"type:varchar(50)"`
	Email       string         `gorm:"type:varchar(200)"`
	Address     string         `gorm:"type:text"`
	Notes       string         `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Supplier) TableName() string {
	return "suppliers"
}

// NewSupplier creates a new active supplier
func NewSupplier(code, name string) (*Supplier, error) {
	if err := validateCustomerCode(code); err != nil {
		return nil, err
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Supplier name cannot be empty")
	}
	if len(name) > 200 {
		return nil, shared.NewDomainError("INVALID_NAME", "Supplier name cannot exceed 200 characters")
	}

	supplier := &Supplier{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              strings.ToUpper(code),
		Name:              name,
		Status:            SupplierStatusActive,
	}

	supplier.AddDomainEvent(NewSupplierCreatedEvent(supplier))

	return supplier, nil
}

// SetContact sets the supplier's contact information
func (s *Supplier) SetContact(contactName, phone, email, address string) error {
	if contactName != "" && len(contactName) > 100 {
		return shared.NewDomainError("INVALID_CONTACT_NAME", "Contact name cannot exceed 100 characters")
	}
	if email != "" && !strings.Contains(email, "@") {
		return shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}

	s.ContactName = contactName
	s.Phone = phone
	s.Email = email
	s.Address = address
	s.Touch()
	s.IncrementVersion()

	return nil
}

// Deactivate retires the supplier
func (s *Supplier) Deactivate() error {
	if s.Status == SupplierStatusInactive {
		return shared.NewDomainError("ALREADY_INACTIVE", "Supplier is already inactive")
	}

	s.Status = SupplierStatusInactive
	s.Touch()
	s.IncrementVersion()

	return nil
}

// Activate reinstates the supplier
func (s *Supplier) Activate() error {
	if s.Status == SupplierStatusActive {
		return shared.NewDomainError("ALREADY_ACTIVE", "Supplier is already active")
	}

	s.Status = SupplierStatusActive
	s.Touch()
	s.IncrementVersion()

	return nil
}

// IsActive returns whether purchase orders may be placed with the supplier
func (s *Supplier) IsActive() bool {
	return s.Status == SupplierStatusActive
}

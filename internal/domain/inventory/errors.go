package inventory

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stitchworks/backend/internal/domain/shared"
)

// InsufficientStockError is returned when an allocation cannot be satisfied.
// Location is empty when the shortfall is across all locations.
type InsufficientStockError struct {
	ProductID uuid.UUID
	Location  string
	Required  decimal.Decimal
	Available decimal.Decimal
}

// Error implements the error interface
func (e *InsufficientStockError) Error() string {
	if e.Location != "" {
		return fmt.Sprintf("insufficient stock for product %s at %s: required %s, available %s",
			e.ProductID, e.Location, e.Required, e.Available)
	}
	return fmt.Sprintf("insufficient stock for product %s: required %s, available %s",
		e.ProductID, e.Required, e.Available)
}

// Code returns the domain error code
func (e *InsufficientStockError) Code() string {
	return shared.CodeInsufficientStock
}

// NewInsufficientStockError creates an InsufficientStockError across all locations
func NewInsufficientStockError(productID uuid.UUID, required, available decimal.Decimal) *InsufficientStockError {
	return &InsufficientStockError{ProductID: productID, Required: required, Available: available}
}

// NewInsufficientStockAtLocationError creates an InsufficientStockError scoped to a location
func NewInsufficientStockAtLocationError(productID uuid.UUID, location string, required, available decimal.Decimal) *InsufficientStockError {
	return &InsufficientStockError{ProductID: productID, Location: location, Required: required, Available: available}
}

// InvalidTransferError is returned when a transfer request is malformed
type InvalidTransferError struct {
	From   string
	To     string
	Reason string
}

// Error implements the error interface
func (e *InvalidTransferError) Error() string {
	return fmt.Sprintf("invalid transfer %s -> %s: %s", e.From, e.To, e.Reason)
}

// Code returns the domain error code
func (e *InvalidTransferError) Code() string {
	return shared.CodeInvalidTransfer
}

package manufacturing

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stitchworks/backend/internal/domain/shared"
)

// InsufficientMaterialError is returned when a production order cannot be
// completed because a BOM material is short. It carries the first failing
// material with required and available quantities; nothing has been consumed
// when it is returned.
type InsufficientMaterialError struct {
	MaterialID uuid.UUID
	Required   decimal.Decimal
	Available  decimal.Decimal
}

// Error implements the error interface
func (e *InsufficientMaterialError) Error() string {
	return fmt.Sprintf("insufficient material %s: required %s, available %s",
		e.MaterialID, e.Required, e.Available)
}

// Code returns the domain error code
func (e *InsufficientMaterialError) Code() string {
	return shared.CodeInsufficientMaterial
}

// NewInsufficientMaterialError creates a new InsufficientMaterialError
func NewInsufficientMaterialError(materialID uuid.UUID, required, available decimal.Decimal) *InsufficientMaterialError {
	return &InsufficientMaterialError{MaterialID: materialID, Required: required, Available: available}
}

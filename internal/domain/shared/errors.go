package shared

import "errors"

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// ErrorCode extracts the domain error code from an error, or "" if the error
// is not a DomainError (directly or wrapped)
func ErrorCode(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

// Common domain errors
var (
	ErrNotFound            = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists       = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput        = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrConcurrencyConflict = NewDomainError("CONCURRENCY_CONFLICT", "Resource was modified by another process")
	ErrInvalidState        = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
)

// Domain error codes shared across bounded contexts. Context-specific errors
// that carry quantities (insufficient stock/material, credit limit) live in
// their own packages as structured types using these codes.
const (
	CodeInsufficientStock    = "INSUFFICIENT_STOCK"
	CodeInsufficientMaterial = "INSUFFICIENT_MATERIAL"
	CodeInvalidTransfer      = "INVALID_TRANSFER"
	CodeCreditLimitExceeded  = "CREDIT_LIMIT_EXCEEDED"
	CodeLogisticsNotAssigned = "LOGISTICS_NOT_ASSIGNED"
	CodeInvalidTransition    = "INVALID_TRANSITION"
	CodeProductNotFound      = "PRODUCT_NOT_FOUND"
	CodeBOMNotFound          = "BOM_NOT_FOUND"
)

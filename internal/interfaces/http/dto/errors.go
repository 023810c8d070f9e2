package dto

import (
	"net/http"

	"github.com/stitchworks/backend/internal/domain/shared"
)

// Error codes raised by the interface layer itself. Domain codes come
// through unchanged from shared and the bounded contexts.
const (
	ErrCodeBadRequest = "BAD_REQUEST"
	ErrCodeInternal   = "INTERNAL_ERROR"
	ErrCodeValidation = "VALIDATION_ERROR"
)

// errorCodeHTTPStatus maps error codes to HTTP status codes
var errorCodeHTTPStatus = map[string]int{
	// Input errors
	ErrCodeBadRequest: http.StatusBadRequest,
	ErrCodeValidation: http.StatusBadRequest,
	"INVALID_INPUT":   http.StatusBadRequest,
	"REASON_REQUIRED": http.StatusBadRequest,
	"INVALID_AMOUNT":  http.StatusBadRequest,

	// Resource errors
	"NOT_FOUND":                http.StatusNotFound,
	shared.CodeProductNotFound: http.StatusNotFound,
	shared.CodeBOMNotFound:     http.StatusNotFound,
	"ALREADY_EXISTS":           http.StatusConflict,
	"CONCURRENCY_CONFLICT":     http.StatusConflict,

	// Business rule violations
	"INVALID_STATE":                 http.StatusUnprocessableEntity,
	shared.CodeInvalidTransition:    http.StatusUnprocessableEntity,
	shared.CodeInsufficientStock:    http.StatusUnprocessableEntity,
	shared.CodeInsufficientMaterial: http.StatusUnprocessableEntity,
	shared.CodeInvalidTransfer:      http.StatusUnprocessableEntity,
	shared.CodeCreditLimitExceeded:  http.StatusUnprocessableEntity,
	shared.CodeLogisticsNotAssigned: http.StatusUnprocessableEntity,

	ErrCodeInternal: http.StatusInternalServerError,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Unknown codes map to 500 Internal Server Error.
func GetHTTPStatus(code string) int {
	if status, ok := errorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

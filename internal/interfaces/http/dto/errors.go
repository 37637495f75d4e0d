package dto

import (
	"net/http"
	"strings"
)

// General error codes
const (
	ErrCodeInternal   = "INTERNAL_ERROR"
	ErrCodeBadRequest = "BAD_REQUEST"
	ErrCodeValidation = "VALIDATION_ERROR"
)

// ErrorCodeHTTPStatus maps domain error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:   http.StatusInternalServerError,
	ErrCodeBadRequest: http.StatusBadRequest,
	ErrCodeValidation: http.StatusBadRequest,

	// Resource errors
	"NOT_FOUND":            http.StatusNotFound,
	"PERIOD_NOT_FOUND":     http.StatusNotFound,
	"ALREADY_EXISTS":       http.StatusConflict,
	"DUPLICATE_PERIOD":     http.StatusConflict,
	"CONCURRENCY_CONFLICT": http.StatusConflict,

	// Auth errors
	"UNAUTHORIZED":        http.StatusUnauthorized,
	"INVALID_CREDENTIALS": http.StatusUnauthorized,
	"FORBIDDEN":           http.StatusForbidden,

	// Business rule errors -> 422 Unprocessable Entity
	"INVALID_STATE":            http.StatusUnprocessableEntity,
	"PERIOD_HAS_INVOICES":      http.StatusUnprocessableEntity,
	"HAS_PAID_INSTALLMENTS":    http.StatusUnprocessableEntity,
	"INSTALLMENT_ALREADY_PAID": http.StatusUnprocessableEntity,
	"RESCHEDULE_NOT_SUPPORTED": http.StatusUnprocessableEntity,
	"SUBCATEGORY_IN_USE":       http.StatusUnprocessableEntity,
}

// GetHTTPStatus returns the HTTP status code for an error code. Validation
// codes follow the INVALID_<FIELD> convention and map to 400; everything
// unknown is treated as an internal error.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	if strings.HasPrefix(code, "INVALID_") {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

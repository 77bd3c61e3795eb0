package dto

import (
	"net/http"
	"strings"
)

// Error code constants organized by category
// Format: ERR_<CATEGORY>_<DESCRIPTION>

// General error codes
const (
	// ErrCodeUnknown is used when the error type is unknown
	ErrCodeUnknown = "ERR_UNKNOWN"
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "ERR_INTERNAL"
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "ERR_BAD_REQUEST"
)

// Validation error codes
const (
	// ErrCodeValidation is the base code for validation errors
	ErrCodeValidation = "ERR_VALIDATION"
)

// Resource error codes
const (
	// ErrCodeNotFound is used when a resource is not found
	ErrCodeNotFound = "ERR_NOT_FOUND"
	// ErrCodeConflict is used for general resource conflicts
	ErrCodeConflict = "ERR_CONFLICT"
	// ErrCodeDuplicateSubmission is used when an identical order
	// submission arrives within the double-submit horizon
	ErrCodeDuplicateSubmission = "ERR_DUPLICATE_SUBMISSION"
)

// Infrastructure error codes
const (
	// ErrCodeRateLimited is used when a client exceeds the read-API budget
	ErrCodeRateLimited = "ERR_RATE_LIMITED"
	// ErrCodeBackendUnavailable is used when the spreadsheet backend is
	// unreachable or was never initialized
	ErrCodeBackendUnavailable = "ERR_BACKEND_UNAVAILABLE"
)

// statusByCode maps error codes to HTTP status codes
var statusByCode = map[string]int{
	ErrCodeUnknown:             http.StatusInternalServerError,
	ErrCodeInternal:            http.StatusInternalServerError,
	ErrCodeBadRequest:          http.StatusBadRequest,
	ErrCodeValidation:          http.StatusBadRequest,
	ErrCodeNotFound:            http.StatusNotFound,
	ErrCodeConflict:            http.StatusConflict,
	ErrCodeDuplicateSubmission: http.StatusConflict,
	ErrCodeRateLimited:         http.StatusTooManyRequests,
	ErrCodeBackendUnavailable:  http.StatusServiceUnavailable,
}

// GetHTTPStatus returns the HTTP status code for an error code
func GetHTTPStatus(code string) int {
	if status, ok := statusByCode[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// domainCodeMap translates domain error codes to API error codes
var domainCodeMap = map[string]string{
	"INVALID_INPUT":        ErrCodeValidation,
	"NOT_FOUND":            ErrCodeNotFound,
	"BACKEND_UNAVAILABLE":  ErrCodeBackendUnavailable,
	"DUPLICATE_SUBMISSION": ErrCodeDuplicateSubmission,
}

// NormalizeErrorCode converts a domain error code to the API format.
// Codes already in the ERR_ format pass through unchanged.
func NormalizeErrorCode(code string) string {
	if mapped, ok := domainCodeMap[code]; ok {
		return mapped
	}
	if strings.HasPrefix(code, "ERR_") {
		return code
	}
	return ErrCodeUnknown
}

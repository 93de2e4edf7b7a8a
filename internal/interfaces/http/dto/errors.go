package dto

import "net/http"

// Error code constants organized by category
// Format: ERR_<CATEGORY>_<DESCRIPTION>

// General error codes
const (
	// ErrCodeUnknown is used when the error type is unknown
	ErrCodeUnknown = "ERR_UNKNOWN"
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "ERR_INTERNAL"
)

// Validation error codes
const (
	// ErrCodeValidation is the base code for validation errors
	ErrCodeValidation = "ERR_VALIDATION"
)

// Authentication error codes
const (
	// ErrCodeUnauthorized is used when authentication is required but missing/invalid
	ErrCodeUnauthorized = "ERR_UNAUTHORIZED"
	// ErrCodeForbidden is used when the user lacks permission
	ErrCodeForbidden = "ERR_FORBIDDEN"
	// ErrCodeTokenExpired is used when the auth token has expired
	ErrCodeTokenExpired = "ERR_TOKEN_EXPIRED"
	// ErrCodeTokenInvalid is used when the auth token is invalid
	ErrCodeTokenInvalid = "ERR_TOKEN_INVALID"
)

// Resource error codes
const (
	// ErrCodeNotFound is used when a resource is not found
	ErrCodeNotFound = "ERR_NOT_FOUND"
	// ErrCodeAlreadyExists is used when trying to create a duplicate resource
	ErrCodeAlreadyExists = "ERR_ALREADY_EXISTS"
	// ErrCodeConflict is used for general resource conflicts
	ErrCodeConflict = "ERR_CONFLICT"
	// ErrCodeConcurrencyConflict is used when optimistic locking fails
	ErrCodeConcurrencyConflict = "ERR_CONCURRENCY_CONFLICT"
)

// Business rule error codes
const (
	// ErrCodeInvalidState is used when an operation is invalid for current state
	ErrCodeInvalidState = "ERR_INVALID_STATE"
	// ErrCodeBusinessRule is used for generic business rule violations
	ErrCodeBusinessRule = "ERR_BUSINESS_RULE"
	// ErrCodeHasChildren is used when deleting a resource that still has children
	ErrCodeHasChildren = "ERR_HAS_CHILDREN"
	// ErrCodeHasProducts is used when deleting a category that still has products
	ErrCodeHasProducts = "ERR_HAS_PRODUCTS"
)

// Input error codes
const (
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "ERR_BAD_REQUEST"
	// ErrCodeInvalidInput is used for invalid input data
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
)

// Undo error codes
const (
	// ErrCodeInvalidUndoToken is used when an undo token is unknown or expired
	ErrCodeInvalidUndoToken = "ERR_INVALID_UNDO_TOKEN"
	// ErrCodeUndoTokenMismatch is used when a token is replayed against the
	// wrong undo operation (single vs bulk)
	ErrCodeUndoTokenMismatch = "ERR_UNDO_TOKEN_MISMATCH"
	// ErrCodeDeleteFailed is used when a delete write fails for a non-domain reason
	ErrCodeDeleteFailed = "ERR_DELETE_FAILED"
	// ErrCodeRestoreFailed is used when an undo's restoring write fails
	ErrCodeRestoreFailed = "ERR_RESTORE_FAILED"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	// General errors
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	// Validation errors -> 400 Bad Request
	ErrCodeValidation: http.StatusBadRequest,

	// Auth errors
	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeForbidden:    http.StatusForbidden,
	ErrCodeTokenExpired: http.StatusUnauthorized,
	ErrCodeTokenInvalid: http.StatusUnauthorized,

	// Resource errors
	ErrCodeNotFound:            http.StatusNotFound,
	ErrCodeAlreadyExists:       http.StatusConflict,
	ErrCodeConflict:            http.StatusConflict,
	ErrCodeConcurrencyConflict: http.StatusConflict,

	// Business rule errors -> 422 Unprocessable Entity
	ErrCodeInvalidState: http.StatusUnprocessableEntity,
	ErrCodeBusinessRule: http.StatusUnprocessableEntity,
	ErrCodeHasChildren:  http.StatusUnprocessableEntity,
	ErrCodeHasProducts:  http.StatusUnprocessableEntity,

	// Input errors -> 400 Bad Request
	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeInvalidInput: http.StatusBadRequest,

	// Undo errors. An unknown or expired token is a client fault, not a
	// missing resource.
	ErrCodeInvalidUndoToken:  http.StatusBadRequest,
	ErrCodeUndoTokenMismatch: http.StatusBadRequest,
	ErrCodeDeleteFailed:      http.StatusInternalServerError,
	ErrCodeRestoreFailed:     http.StatusInternalServerError,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// LegacyErrorCodeMapping maps domain error codes to the API's standardized codes
var LegacyErrorCodeMapping = map[string]string{
	"NOT_FOUND":            ErrCodeNotFound,
	"ALREADY_EXISTS":       ErrCodeAlreadyExists,
	"INVALID_INPUT":        ErrCodeInvalidInput,
	"INVALID_STATE":        ErrCodeInvalidState,
	"UNAUTHORIZED":         ErrCodeUnauthorized,
	"FORBIDDEN":            ErrCodeForbidden,
	"CONCURRENCY_CONFLICT": ErrCodeConcurrencyConflict,
	"BAD_REQUEST":          ErrCodeBadRequest,
	"INTERNAL_ERROR":       ErrCodeInternal,
	"INVALID_SKU":          ErrCodeValidation,
	"INVALID_CODE":         ErrCodeValidation,
	"INVALID_NAME":         ErrCodeValidation,
	"INVALID_PRICE":        ErrCodeValidation,
	"INVALID_RATING":       ErrCodeValidation,
	"INVALID_TITLE":        ErrCodeValidation,
	"INVALID_CATEGORY":     ErrCodeInvalidInput,
	"INVALID_PARENT":       ErrCodeInvalidInput,
	"INVALID_PRODUCT":      ErrCodeInvalidInput,
	"PRODUCT_INACTIVE":     ErrCodeInvalidState,
	"ALREADY_ACTIVE":       ErrCodeInvalidState,
	"ALREADY_INACTIVE":     ErrCodeInvalidState,
	"HAS_CHILDREN":         ErrCodeHasChildren,
	"HAS_PRODUCTS":         ErrCodeHasProducts,
	"INVALID_UNDO_TOKEN":   ErrCodeInvalidUndoToken,
	"UNDO_TOKEN_MISMATCH":  ErrCodeUndoTokenMismatch,
	"DELETE_FAILED":        ErrCodeDeleteFailed,
	"RESTORE_FAILED":       ErrCodeRestoreFailed,
}

// NormalizeErrorCode converts a domain error code to the standardized format
// If the code is already in the new format or unknown, returns it as-is
func NormalizeErrorCode(code string) string {
	if newCode, ok := LegacyErrorCodeMapping[code]; ok {
		return newCode
	}
	return code
}

// Package apperror provides structured error handling for the platform.
// All business errors must use AppError so callers can branch on the failure
// kind instead of parsing strings or collapsing everything into a boolean.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes grouped by failure kind
const (
	// Infrastructure errors (5xx)
	CodeInternal    = "INTERNAL_ERROR"
	CodePersistence = "PERSISTENCE_ERROR"
	CodeTimeout     = "TIMEOUT_ERROR"

	// Validation errors (400)
	CodeValidation = "VALIDATION_ERROR"

	// Business rule violations (422)
	CodeTrackingMode = "TRACKING_MODE_CONFLICT"

	// Not found (404)
	CodeNotFound = "NOT_FOUND"

	// Conflict (409)
	CodeConflict       = "CONFLICT"
	CodeAlreadySettled = "ALREADY_SETTLED"

	// Stale branch load discarded (never reaches a client)
	CodeStaleBranch = "STALE_BRANCH"
)

// AppError is the standard error type for the platform.
// It implements the error interface and carries structured details.
type AppError struct {
	// Code is a machine-readable error identifier
	Code string `json:"code"`

	// Message is a human-readable error description
	Message string `json:"message"`

	// Details contains additional context (field names, ids, quantities)
	Details map[string]any `json:"details,omitempty"`

	// HTTPStatus is the suggested HTTP status code
	HTTPStatus int `json:"-"`

	// Err is the underlying error (not exposed in JSON)
	Err error `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *AppError) Unwrap() error {
	return e.Err
}

// WithDetail adds a key-value pair to error details.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// WithCause sets the underlying error.
func (e *AppError) WithCause(err error) *AppError {
	e.Err = err
	return e
}

// --- Factory functions ---

// NewValidation creates a validation error (400).
func NewValidation(message string) *AppError {
	return &AppError{
		Code:       CodeValidation,
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
	}
}

// NewTrackingModeConflict is returned when an item would carry both
// purchase batches and bottle counts at the same time.
func NewTrackingModeConflict(itemID any) *AppError {
	return &AppError{
		Code:       CodeTrackingMode,
		Message:    "item cannot be both batch-tracked and liquid-tracked",
		HTTPStatus: http.StatusUnprocessableEntity,
		Details:    map[string]any{"item_id": itemID},
	}
}

// NewNotFound creates a not found error (404).
func NewNotFound(entity string, id any) *AppError {
	return &AppError{
		Code:       CodeNotFound,
		Message:    fmt.Sprintf("%s not found", entity),
		HTTPStatus: http.StatusNotFound,
		Details:    map[string]any{"entity": entity, "id": id},
	}
}

// NewPersistence wraps a failed repository call (502-ish, reported as 500).
func NewPersistence(operation string, err error) *AppError {
	return &AppError{
		Code:       CodePersistence,
		Message:    fmt.Sprintf("persistence operation %q failed", operation),
		HTTPStatus: http.StatusInternalServerError,
		Details:    map[string]any{"operation": operation},
		Err:        err,
	}
}

// NewStaleBranch marks a catalog load whose branch generation no longer
// matches the current one. Callers discard these silently.
func NewStaleBranch(branchID string, generation, current uint64) *AppError {
	return &AppError{
		Code:       CodeStaleBranch,
		Message:    "catalog load superseded by a newer branch switch",
		HTTPStatus: http.StatusConflict,
		Details: map[string]any{
			"branch_id":  branchID,
			"generation": generation,
			"current":    current,
		},
	}
}

// NewConflict creates a conflict error (409).
func NewConflict(message string) *AppError {
	return &AppError{
		Code:       CodeConflict,
		Message:    message,
		HTTPStatus: http.StatusConflict,
	}
}

// NewAlreadySettled is returned when a settlement already exists for the
// given original reference number.
func NewAlreadySettled(referenceNumber string) *AppError {
	return &AppError{
		Code:       CodeAlreadySettled,
		Message:    "transaction has already been settled",
		HTTPStatus: http.StatusConflict,
		Details:    map[string]any{"reference_number": referenceNumber},
	}
}

// NewInternal creates an internal server error (hides details from client).
func NewInternal(err error) *AppError {
	return &AppError{
		Code:       CodeInternal,
		Message:    "Internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// NewTimeout is returned when a repository call exceeded its deadline.
func NewTimeout(operation string) *AppError {
	return &AppError{
		Code:       CodeTimeout,
		Message:    fmt.Sprintf("operation %q timed out", operation),
		HTTPStatus: http.StatusGatewayTimeout,
		Details:    map[string]any{"operation": operation},
	}
}

// --- Helper functions ---

// IsAppError checks if error is AppError.
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// AsAppError extracts AppError from the error chain.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// GetHTTPStatus returns the appropriate HTTP status for any error.
func GetHTTPStatus(err error) int {
	if appErr, ok := AsAppError(err); ok {
		return appErr.HTTPStatus
	}
	return http.StatusInternalServerError
}

// IsNotFound checks if error is CodeNotFound.
func IsNotFound(err error) bool {
	return hasCode(err, CodeNotFound)
}

// IsValidation checks if error is CodeValidation or CodeTrackingMode.
func IsValidation(err error) bool {
	return hasCode(err, CodeValidation) || hasCode(err, CodeTrackingMode)
}

// IsStaleBranch checks if error is CodeStaleBranch.
func IsStaleBranch(err error) bool {
	return hasCode(err, CodeStaleBranch)
}

// IsAlreadySettled checks if error is CodeAlreadySettled.
func IsAlreadySettled(err error) bool {
	return hasCode(err, CodeAlreadySettled)
}

func hasCode(err error, code string) bool {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code == code
	}
	return false
}

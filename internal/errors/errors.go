package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode represents a padfav error code.
type ErrorCode string

const (
	ErrStorageUnavailable ErrorCode = "STORAGE_UNAVAILABLE" // 503
	ErrMalformedRecord    ErrorCode = "MALFORMED_RECORD"    // 422
	ErrNotFound           ErrorCode = "NOT_FOUND"           // 404
	ErrValidationFailure  ErrorCode = "VALIDATION_FAILURE"  // 422
	ErrParseFailure       ErrorCode = "PARSE_FAILURE"       // 400
	ErrInvalidRequest     ErrorCode = "INVALID_REQUEST"     // 400
	ErrInternal           ErrorCode = "INTERNAL"            // 500
)

// FavError represents a structured error with code, status, and details.
type FavError struct {
	Code    ErrorCode
	Status  int
	Message string
	Details map[string]any
}

// Error implements the error interface.
func (e *FavError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewStorageUnavailable creates a 503 error for an inaccessible backend.
// The underlying cause is kept in Details for logging, not in the message.
func NewStorageUnavailable(err error) *FavError {
	details := map[string]any{}
	if err != nil {
		details["internal_error"] = err.Error()
	}
	return &FavError{
		Code:    ErrStorageUnavailable,
		Status:  503,
		Message: "storage backend is unavailable",
		Details: details,
	}
}

// NewMalformedRecord creates a 422 error for a persisted entry that failed
// structural validation. These are repaired in place, never surfaced to users.
func NewMalformedRecord(index int, reason string) *FavError {
	return &FavError{
		Code:    ErrMalformedRecord,
		Status:  422,
		Message: fmt.Sprintf("malformed favorite at index %d: %s", index, reason),
		Details: map[string]any{"index": index, "reason": reason},
	}
}

// NewNotFound creates a 404 error for when a favorite cannot be found.
func NewNotFound(identifier string) *FavError {
	return &FavError{
		Code:    ErrNotFound,
		Status:  404,
		Message: fmt.Sprintf("favorite not found: %s", identifier),
		Details: map[string]any{"identifier": identifier},
	}
}

// NewValidationFailure creates a 422 error for a field that failed validation.
func NewValidationFailure(field, reason string) *FavError {
	return &FavError{
		Code:    ErrValidationFailure,
		Status:  422,
		Message: fmt.Sprintf("invalid %s: %s", field, reason),
		Details: map[string]any{"field": field, "reason": reason},
	}
}

// NewParseFailure creates a 400 error for import data that is not valid JSON.
func NewParseFailure(err error) *FavError {
	details := map[string]any{}
	if err != nil {
		details["parse_error"] = err.Error()
	}
	return &FavError{
		Code:    ErrParseFailure,
		Status:  400,
		Message: "import data is not parseable JSON",
		Details: details,
	}
}

// NewInvalidRequest creates a 400 error for invalid request parameters.
func NewInvalidRequest(msg string) *FavError {
	return &FavError{
		Code:    ErrInvalidRequest,
		Status:  400,
		Message: msg,
	}
}

// NewInternal creates a 500 error for unexpected internal errors.
// The message stays generic; the original error goes into Details for logging.
func NewInternal(err error) *FavError {
	details := map[string]any{}
	if err != nil {
		details["internal_error"] = err.Error()
	}
	return &FavError{
		Code:    ErrInternal,
		Status:  500,
		Message: "an internal error occurred",
		Details: details,
	}
}

// Is checks if an error is a FavError with the given code, unwrapping as needed.
func Is(err error, code ErrorCode) bool {
	var fErr *FavError
	if stderrors.As(err, &fErr) {
		return fErr.Code == code
	}
	return false
}

package errors

import (
	"errors"
	"fmt"
)

// NewNotFoundError creates a new not found error
func NewNotFoundError(resource string, identifier interface{}) *AppError {
	return &AppError{
		Type:    ErrorTypeNotFound,
		Message: fmt.Sprintf("%s not found: %v", resource, identifier),
		Code:    "NOT_FOUND",
		Context: map[string]interface{}{
			"resource":   resource,
			"identifier": identifier,
		},
	}
}

// NewValidationError creates a new validation error
func NewValidationError(field, reason string) *AppError {
	return &AppError{
		Type:    ErrorTypeValidation,
		Message: fmt.Sprintf("invalid %s: %s", field, reason),
		Code:    "VALIDATION_REJECTED",
		Context: map[string]interface{}{
			"field":  field,
			"reason": reason,
		},
	}
}

// NewStorageError creates a new storage error
func NewStorageError(operation string, cause error) *AppError {
	return &AppError{
		Type:    ErrorTypeStorage,
		Message: fmt.Sprintf("storage operation failed: %s", operation),
		Code:    "STORAGE_FAILURE",
		Cause:   cause,
		Context: map[string]interface{}{
			"operation": operation,
		},
	}
}

// AsAppError converts an error to an AppError if possible
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsErrorType checks if the error is of the specified type
func IsErrorType(err error, errorType ErrorType) bool {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Type == errorType
	}
	return false
}

func IsNotFound(err error) bool {
	return IsErrorType(err, ErrorTypeNotFound)
}

func IsValidation(err error) bool {
	return IsErrorType(err, ErrorTypeValidation)
}

func IsStorage(err error) bool {
	return IsErrorType(err, ErrorTypeStorage)
}

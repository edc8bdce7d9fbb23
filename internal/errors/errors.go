package errors

import (
	"errors"
	"fmt"
)

// NewValidationError creates a new validation error
func NewValidationError(message string, cause error) *AppError {
	return &AppError{
		Type:    ErrorTypeValidation,
		Message: message,
		Code:    "VALIDATION_FAILED",
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(resource string, identifier string) *AppError {
	return &AppError{
		Type:    ErrorTypeNotFound,
		Message: fmt.Sprintf("%s not found: %s", resource, identifier),
		Code:    "NOT_FOUND",
		Context: map[string]interface{}{
			"resource":   resource,
			"identifier": identifier,
		},
	}
}

// NewDatabaseError creates a new database error
func NewDatabaseError(operation string, cause error) *AppError {
	return &AppError{
		Type:    ErrorTypeDatabase,
		Message: fmt.Sprintf("database operation failed: %s", operation),
		Code:    "DATABASE_ERROR",
		Cause:   cause,
		Context: map[string]interface{}{
			"operation": operation,
		},
	}
}

// NewInvalidInputError creates a new invalid input error
func NewInvalidInputError(field string, value interface{}, reason string) *AppError {
	return &AppError{
		Type:    ErrorTypeInvalidInput,
		Message: fmt.Sprintf("invalid input for %s: %s", field, reason),
		Code:    "INVALID_INPUT",
		Context: map[string]interface{}{
			"field":  field,
			"value":  value,
			"reason": reason,
		},
	}
}

// NewTimeoutError creates a new timeout error
func NewTimeoutError(operation string, timeout interface{}) *AppError {
	return &AppError{
		Type:    ErrorTypeTimeout,
		Message: fmt.Sprintf("operation timed out: %s", operation),
		Code:    "TIMEOUT",
		Context: map[string]interface{}{
			"operation": operation,
			"timeout":   timeout,
		},
	}
}

// NewCardConflictError reports that the user already runs a whole-card timer.
func NewCardConflictError(cardID int64, entryID int64) *AppError {
	return &AppError{
		Type:    ErrorTypeConflict,
		Message: fmt.Sprintf("already tracking card %d; stop that timer first", cardID),
		Code:    "CONFLICT_ALREADY_TRACKING",
		Context: map[string]interface{}{
			"card_id":  cardID,
			"entry_id": entryID,
		},
	}
}

// NewSubtaskConflictError reports that the user already runs a timer on the subtask.
func NewSubtaskConflictError(subtaskID int64, entryID int64) *AppError {
	return &AppError{
		Type:    ErrorTypeConflict,
		Message: fmt.Sprintf("already tracking subtask %d; stop that timer first", subtaskID),
		Code:    "CONFLICT_ALREADY_TRACKING",
		Context: map[string]interface{}{
			"subtask_id": subtaskID,
			"entry_id":   entryID,
		},
	}
}

// NewPrerequisiteError reports a subtask start without card tracking on the same card.
func NewPrerequisiteError(cardID int64, subtaskID int64) *AppError {
	return &AppError{
		Type:    ErrorTypePrerequisite,
		Message: fmt.Sprintf("start card tracking first: no running timer on card %d", cardID),
		Code:    "PREREQUISITE_NOT_MET",
		Context: map[string]interface{}{
			"card_id":    cardID,
			"subtask_id": subtaskID,
		},
	}
}

// NewAlreadyClosedError reports a close attempt on an entry that already has an end time
func NewAlreadyClosedError(entryID int64) *AppError {
	return &AppError{
		Type:    ErrorTypeAlreadyClosed,
		Message: fmt.Sprintf("time entry %d is already stopped", entryID),
		Code:    "ALREADY_CLOSED",
		Context: map[string]interface{}{
			"entry_id": entryID,
		},
	}
}

// NewInvalidStateError reports an operation that requires a closed entry
func NewInvalidStateError(entryID int64, operation string) *AppError {
	return &AppError{
		Type:    ErrorTypeInvalidState,
		Message: fmt.Sprintf("cannot %s time entry %d while it is running", operation, entryID),
		Code:    "INVALID_STATE",
		Context: map[string]interface{}{
			"entry_id":  entryID,
			"operation": operation,
		},
	}
}

// WrapError wraps an existing error with additional context
func WrapError(err error, errorType ErrorType, message string) *AppError {
	return &AppError{
		Type:    errorType,
		Message: message,
		Code:    errorType.String(),
		Cause:   err,
		Context: make(map[string]interface{}),
	}
}

// IsAppError checks if the error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
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
		return appErr.IsType(errorType)
	}
	return false
}

// IsStaleView reports errors caused by a client acting on an outdated view,
// such as a double-submitted stop.
func IsStaleView(err error) bool {
	return IsErrorType(err, ErrorTypeNotFound) ||
		IsErrorType(err, ErrorTypeAlreadyClosed) ||
		IsErrorType(err, ErrorTypeInvalidState)
}

// GetUserMessage returns a user-friendly error message
func GetUserMessage(err error) string {
	if appErr, ok := AsAppError(err); ok {
		switch appErr.Type {
		case ErrorTypeValidation, ErrorTypeInvalidInput:
			return appErr.Message
		case ErrorTypeConflict, ErrorTypePrerequisite:
			return appErr.Message
		case ErrorTypeNotFound, ErrorTypeAlreadyClosed, ErrorTypeInvalidState:
			return "This timer has changed since you last loaded it. Please refresh and try again."
		case ErrorTypeDatabase:
			return "A database error occurred. Please try again."
		case ErrorTypeTimeout:
			return "The operation timed out. Please try again."
		default:
			return "An unexpected error occurred. Please try again."
		}
	}
	return err.Error()
}

// GetErrorCode returns the error code for the error
func GetErrorCode(err error) string {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code
	}
	return "UNKNOWN_ERROR"
}

// ShouldLogError determines if an error should be logged based on its type
func ShouldLogError(err error) bool {
	if appErr, ok := AsAppError(err); ok {
		switch appErr.Type {
		case ErrorTypeValidation, ErrorTypeInvalidInput, ErrorTypeConflict, ErrorTypePrerequisite:
			return false // user-correctable
		case ErrorTypeNotFound, ErrorTypeAlreadyClosed, ErrorTypeInvalidState:
			return true // stale client view, logged for diagnosis
		case ErrorTypeDatabase, ErrorTypeTimeout:
			return true
		default:
			return true
		}
	}
	return true // Unknown errors should be logged
}

package cli

import (
	stderrors "errors"
	"fmt"

	"github.com/Frzz-02/project-management-app-with-laravel-sub001/internal/errors"
	"github.com/Frzz-02/project-management-app-with-laravel-sub001/internal/validation"
)

// ErrorHandler provides centralized error handling for command handlers
type ErrorHandler struct{}

// NewErrorHandler creates a new error handler
func NewErrorHandler() *ErrorHandler {
	return &ErrorHandler{}
}

// Handle provides user-friendly error messages for validation and other errors
func (eh *ErrorHandler) Handle(operation string, err error) error {
	var validationErr *validation.ValidationError
	if stderrors.As(err, &validationErr) {
		return fmt.Errorf("failed to %s: %s", operation, validationErr.GetUserFriendlyMessage())
	}

	if errors.IsAppError(err) {
		return fmt.Errorf("failed to %s: %s", operation, errors.GetUserMessage(err))
	}

	return fmt.Errorf("failed to %s: %w", operation, err)
}

// HandleSimple provides user-friendly error messages without operation context
func (eh *ErrorHandler) HandleSimple(err error) error {
	var validationErr *validation.ValidationError
	if stderrors.As(err, &validationErr) {
		return fmt.Errorf("%s", validationErr.GetUserFriendlyMessage())
	}

	if errors.IsAppError(err) {
		return fmt.Errorf("%s", errors.GetUserMessage(err))
	}

	return err
}

// IsValidationError checks if an error is a validation error
func (eh *ErrorHandler) IsValidationError(err error) bool {
	if validation.IsValidationError(err) {
		return true
	}
	return errors.IsErrorType(err, errors.ErrorTypeValidation) || errors.IsErrorType(err, errors.ErrorTypeInvalidInput)
}

// IsConflictError checks if an error is a tracking conflict or unmet prerequisite
func (eh *ErrorHandler) IsConflictError(err error) bool {
	return errors.IsErrorType(err, errors.ErrorTypeConflict) || errors.IsErrorType(err, errors.ErrorTypePrerequisite)
}

// IsStaleError checks if an error came from acting on an outdated view
func (eh *ErrorHandler) IsStaleError(err error) bool {
	return errors.IsStaleView(err)
}

// GetErrorCode returns the error code for structured errors
func (eh *ErrorHandler) GetErrorCode(err error) string {
	return errors.GetErrorCode(err)
}

package web

import (
	stderrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Frzz-02/project-management-app-with-laravel-sub001/internal/errors"
	"github.com/Frzz-02/project-management-app-with-laravel-sub001/internal/logging"
	"github.com/Frzz-02/project-management-app-with-laravel-sub001/internal/validation"
)

// statusFor maps an error to its HTTP status
func statusFor(err error) int {
	if validation.IsValidationError(err) {
		return http.StatusBadRequest
	}

	appErr, ok := errors.AsAppError(err)
	if !ok {
		return http.StatusInternalServerError
	}
	switch appErr.Type {
	case errors.ErrorTypeValidation, errors.ErrorTypeInvalidInput:
		return http.StatusBadRequest
	case errors.ErrorTypeNotFound:
		return http.StatusNotFound
	case errors.ErrorTypeConflict, errors.ErrorTypeAlreadyClosed, errors.ErrorTypeInvalidState:
		return http.StatusConflict
	case errors.ErrorTypePrerequisite:
		return http.StatusUnprocessableEntity
	case errors.ErrorTypeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func errorBody(c *gin.Context, code, message string) gin.H {
	return gin.H{
		"error": gin.H{
			"code":    code,
			"message": message,
		},
		"request_id": logging.RequestIDFromContext(c.Request.Context()),
	}
}

// writeError renders err as a JSON error response
func writeError(c *gin.Context, err error) {
	var ve *validation.ValidationError
	if stderrors.As(err, &ve) {
		c.JSON(http.StatusBadRequest, errorBody(c, "VALIDATION_FAILED", ve.GetUserFriendlyMessage()))
		return
	}
	c.JSON(statusFor(err), errorBody(c, errors.GetErrorCode(err), errors.GetUserMessage(err)))
}

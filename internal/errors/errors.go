// Package errors shapes the JSON error responses of the API. Every body
// carries a stable machine code, a human message and the request ID so a
// failed call can be traced back through the logs.
package errors

import (
	"fmt"
	"net/http"

	"github.com/avergnaud/patrimonia/api/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// Machine-readable error codes.
const (
	ErrNotFound           = "NOT_FOUND"
	ErrBadRequest         = "BAD_REQUEST"
	ErrInternalServer     = "INTERNAL_SERVER_ERROR"
	ErrValidation         = "VALIDATION_ERROR"
	ErrDatabaseConnection = "DATABASE_CONNECTION_ERROR"
)

// ErrorResponse is the envelope every error body uses.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail is the payload inside the envelope.
type ErrorDetail struct {
	Code      string                 `json:"code"`
	Message   string                 `json:"message"`
	Details   map[string]interface{} `json:"details,omitempty"`
	RequestID string                 `json:"request_id,omitempty"`
}

// write stamps the detail with the request ID and sends the envelope.
func write(c *gin.Context, status int, detail ErrorDetail) {
	detail.RequestID = middleware.GetRequestID(c)
	c.JSON(status, ErrorResponse{Error: detail})
}

// warn logs the failure on the request-scoped logger, when one exists.
func warn(c *gin.Context, event string, fields map[string]interface{}) {
	log := middleware.GetLogger(c)
	if log == nil {
		return
	}
	fields["request_id"] = middleware.GetRequestID(c)
	fields["path"] = c.Request.URL.Path
	log.Warn(event, fields)
}

// NotFound sends a 404 with the given message.
func NotFound(c *gin.Context, message string) {
	warn(c, "Resource not found", map[string]interface{}{"message": message})
	write(c, http.StatusNotFound, ErrorDetail{
		Code:    ErrNotFound,
		Message: message,
	})
}

// BadRequest sends a 400 with the given message and optional details.
func BadRequest(c *gin.Context, message string, details map[string]interface{}) {
	fields := map[string]interface{}{"message": message}
	if details != nil {
		fields["details"] = details
	}
	warn(c, "Bad request", fields)

	write(c, http.StatusBadRequest, ErrorDetail{
		Code:    ErrBadRequest,
		Message: message,
		Details: details,
	})
}

// InternalServerError sends a 500. The underlying error goes to the log
// only; the client never sees it.
func InternalServerError(c *gin.Context, message string, err error) {
	if log := middleware.GetLogger(c); log != nil {
		log.Error("Internal server error", err, map[string]interface{}{
			"message":    message,
			"request_id": middleware.GetRequestID(c),
			"path":       c.Request.URL.Path,
			"method":     c.Request.Method,
		})
	}

	write(c, http.StatusInternalServerError, ErrorDetail{
		Code:    ErrInternalServer,
		Message: message,
	})
}

// ValidationError sends a 400 listing each failed field with a readable
// message derived from its validator tag.
func ValidationError(c *gin.Context, validationErrors validator.ValidationErrors) {
	details := make(map[string]interface{}, len(validationErrors))
	for _, fieldErr := range validationErrors {
		details[fieldErr.Field()] = fieldMessage(fieldErr)
	}

	warn(c, "Validation error", map[string]interface{}{"fields": details})

	write(c, http.StatusBadRequest, ErrorDetail{
		Code:    ErrValidation,
		Message: "Validation failed for one or more fields",
		Details: details,
	})
}

// fieldMessage translates a validator tag into a client-facing message.
func fieldMessage(fieldErr validator.FieldError) string {
	switch fieldErr.Tag() {
	case "required":
		return "This field is required"
	case "oneof":
		return fmt.Sprintf("Must be one of: %s", fieldErr.Param())
	case "gt":
		return fmt.Sprintf("Must be greater than %s", fieldErr.Param())
	case "gte":
		return fmt.Sprintf("Must be greater than or equal to %s", fieldErr.Param())
	case "lt":
		return fmt.Sprintf("Must be less than %s", fieldErr.Param())
	case "lte":
		return fmt.Sprintf("Must be less than or equal to %s", fieldErr.Param())
	case "min":
		return fmt.Sprintf("Value is too short or small (minimum: %s)", fieldErr.Param())
	case "max":
		return fmt.Sprintf("Value is too long or large (maximum: %s)", fieldErr.Param())
	case "len":
		return fmt.Sprintf("Must have length of %s", fieldErr.Param())
	case "email":
		return "Must be a valid email address"
	case "url":
		return "Must be a valid URL"
	case "uuid":
		return "Must be a valid UUID"
	default:
		return fmt.Sprintf("Validation failed for tag: %s", fieldErr.Tag())
	}
}

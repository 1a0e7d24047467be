// Package response defines consistent HTTP response structures.
// All admin API responses use these types for consistency.
package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"dbclient/src/core/domain"
)

// Success represents a successful response with data.
type Success struct {
	Data any `json:"data"`
}

// Error represents an error response.
type Error struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information.
type ErrorDetail struct {
	// Code is a machine-readable error code (e.g., "NOT_FOUND", "POOL_EXHAUSTED")
	Code string `json:"code"`

	// Message is a human-readable error description
	Message string `json:"message"`

	// Field is the field that caused the error (for validation errors)
	Field string `json:"field,omitempty"`

	// RequestID is the request ID for debugging
	RequestID string `json:"request_id,omitempty"`
}

// OK sends a 200 response with data.
func OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Success{Data: data})
}

func abort(c *gin.Context, status int, code, message, field, requestID string) {
	c.JSON(status, Error{
		Error: ErrorDetail{
			Code:      code,
			Message:   message,
			Field:     field,
			RequestID: requestID,
		},
	})
}

// BadRequest sends a 400 response.
func BadRequest(c *gin.Context, message string, requestID string) {
	abort(c, http.StatusBadRequest, "BAD_REQUEST", message, "", requestID)
}

// ValidationError sends a 400 response for validation failures.
func ValidationError(c *gin.Context, field, message, requestID string) {
	abort(c, http.StatusBadRequest, "VALIDATION_ERROR", message, field, requestID)
}

// NotFound sends a 404 response.
func NotFound(c *gin.Context, message, requestID string) {
	abort(c, http.StatusNotFound, "NOT_FOUND", message, "", requestID)
}

// Conflict sends a 409 response.
func Conflict(c *gin.Context, code, message, requestID string) {
	abort(c, http.StatusConflict, code, message, "", requestID)
}

// Unavailable sends a 503 response. Pool pressure and connect failures map here.
func Unavailable(c *gin.Context, code, message, requestID string) {
	abort(c, http.StatusServiceUnavailable, code, message, "", requestID)
}

// UnprocessableEntity sends a 422 response for statements the database rejected.
func UnprocessableEntity(c *gin.Context, message, requestID string) {
	abort(c, http.StatusUnprocessableEntity, "STATEMENT_FAILED", message, "", requestID)
}

// InternalError sends a 500 response.
func InternalError(c *gin.Context, requestID string) {
	abort(c, http.StatusInternalServerError, "INTERNAL_ERROR", "An unexpected error occurred", "", requestID)
}

// FromDomainError converts a domain error to an appropriate HTTP response.
// Errors that are not domain errors are treated as statement failures
// reported by the database.
func FromDomainError(c *gin.Context, err error, requestID string) {
	var de *domain.Error
	switch {
	case domain.IsNotFound(err):
		NotFound(c, err.Error(), requestID)
	case domain.IsValidationError(err):
		if errors.As(err, &de) {
			ValidationError(c, de.Field, de.Message, requestID)
		} else {
			BadRequest(c, err.Error(), requestID)
		}
	case domain.IsConflict(err):
		Conflict(c, "CONFLICT", err.Error(), requestID)
	case domain.IsTransactionState(err):
		Conflict(c, "TRANSACTION_STATE", err.Error(), requestID)
	case domain.IsPoolExhausted(err):
		Unavailable(c, "POOL_EXHAUSTED", err.Error(), requestID)
	case domain.IsPoolClosed(err):
		Unavailable(c, "POOL_CLOSED", err.Error(), requestID)
	case domain.IsConnectionCreate(err):
		Unavailable(c, "CONNECTION_FAILED", err.Error(), requestID)
	case domain.IsConfiguration(err):
		InternalError(c, requestID)
	case errors.As(err, &de):
		InternalError(c, requestID)
	default:
		UnprocessableEntity(c, err.Error(), requestID)
	}
}

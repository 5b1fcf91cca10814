package response

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"quantwp/pkg/logger"
)

// Error response field names
const (
	FieldError     = "error"
	FieldMessage   = "message"
	FieldCode      = "code"
	FieldDetails   = "details"
	FieldRequestID = "request_id"
)

// Common error type definitions
var (
	ErrInvalidParam       = errors.New("invalid parameter")
	ErrServiceUnavailable = errors.New("service unavailable")
	ErrTooManyRequests    = errors.New("too many requests")
)

// APIError represents a custom API error structure
type APIError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
	Err     error  `json:"-"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("API Error (Code: %d, Message: %s): %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("API Error (Code: %d, Message: %s)", e.Code, e.Message)
}

// Unwrap supports error wrapping
func (e *APIError) Unwrap() error {
	return e.Err
}

// NewAPIError creates a new API error
func NewAPIError(code int, message string, err error) *APIError {
	return &APIError{Code: code, Message: message, Err: err}
}

// NewBadRequestError creates a 400 Bad Request error
func NewBadRequestError(message string, err error) *APIError {
	return NewAPIError(http.StatusBadRequest, message, err)
}

// NewInternalServerError creates a 500 Internal Server Error
func NewInternalServerError(message string, err error) *APIError {
	return NewAPIError(http.StatusInternalServerError, message, err)
}

// NewServiceUnavailableError creates a 503 Service Unavailable error
func NewServiceUnavailableError(message string, err error) *APIError {
	return NewAPIError(http.StatusServiceUnavailable, message, err)
}

// NewTooManyRequestsError creates a 429 Too Many Requests error
func NewTooManyRequestsError(message string) *APIError {
	return NewAPIError(http.StatusTooManyRequests, message, ErrTooManyRequests)
}

// FromError maps any error to an APIError. Unknown errors become a generic 500.
func FromError(err error) *APIError {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	switch {
	case errors.Is(err, ErrInvalidParam):
		return NewBadRequestError("Invalid parameter", err)
	case errors.Is(err, ErrServiceUnavailable):
		return NewServiceUnavailableError("Service unavailable", err)
	case errors.Is(err, ErrTooManyRequests):
		return NewTooManyRequestsError("Too many requests")
	default:
		return NewInternalServerError("Internal Server Error", err)
	}
}

// WriteError writes err as a JSON error body and logs it
func WriteError(c *gin.Context, err error) {
	apiErr := FromError(err)
	requestID := c.GetString("RequestID")

	if apiErr.Code >= http.StatusInternalServerError {
		logger.Error("API error",
			zap.Int("code", apiErr.Code),
			zap.String("message", apiErr.Message),
			zap.String("request_id", requestID),
			zap.Error(apiErr.Err))
	} else {
		logger.Warn("API error",
			zap.Int("code", apiErr.Code),
			zap.String("message", apiErr.Message),
			zap.String("request_id", requestID))
	}

	body := gin.H{
		FieldError:     true,
		FieldMessage:   apiErr.Message,
		FieldCode:      apiErr.Code,
		FieldRequestID: requestID,
	}
	// internal details stay in the log
	if apiErr.Details != "" {
		body[FieldDetails] = apiErr.Details
	} else if apiErr.Code < http.StatusInternalServerError && apiErr.Err != nil {
		body[FieldDetails] = apiErr.Err.Error()
	}
	c.JSON(apiErr.Code, body)
}

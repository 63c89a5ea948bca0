package errors

import (
	"fmt"
	"net/http"

	"github.com/go-chi/render"
)

// APIError is an error the HTTP layer returns as-is. The handler renders it
// as a problem document using StatusCode and ErrorCode.
type APIError struct {
	StatusCode int         `json:"status_code"`
	ErrorCode  string      `json:"error_code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	return e.Message
}

// Render implements render.Renderer
func (e *APIError) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.StatusCode)
	return nil
}

// WithDetails returns a copy of e carrying details. Predefined errors are
// shared values, so they are never modified in place.
func (e *APIError) WithDetails(details interface{}) *APIError {
	cp := *e
	cp.Details = details
	return &cp
}

// ValidationError names one rejected field
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors is the details payload of a multi-field validation failure
type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

// New creates an APIError
func New(statusCode int, errorCode, message string) *APIError {
	return &APIError{
		StatusCode: statusCode,
		ErrorCode:  errorCode,
		Message:    message,
	}
}

// NewWithDetails creates an APIError with details
func NewWithDetails(statusCode int, errorCode, message string, details interface{}) *APIError {
	return New(statusCode, errorCode, message).WithDetails(details)
}

// Error codes shared with clients.
const (
	CodeInvalidRequest     = "INVALID_REQUEST"
	CodeValidationFailed   = "VALIDATION_FAILED"
	CodeDatasetNotFound    = "DATASET_NOT_FOUND"
	CodePayloadTooLarge    = "PAYLOAD_TOO_LARGE"
	CodeRateLimitExceeded  = "RATE_LIMIT_EXCEEDED"
	CodeServiceUnavailable = "SERVICE_UNAVAILABLE"
	CodeMissingContentType = "MISSING_CONTENT_TYPE"
	CodeUnsupportedMedia   = "UNSUPPORTED_MEDIA_TYPE"
)

var (
	ErrDatasetNotFound   = New(http.StatusNotFound, CodeDatasetNotFound, "Dataset not found")
	ErrPayloadTooLarge   = New(http.StatusRequestEntityTooLarge, CodePayloadTooLarge, "Uploaded file is too large")
	ErrRateLimitExceeded = New(http.StatusTooManyRequests, CodeRateLimitExceeded, "Rate limit exceeded")
	ErrGoogleUnavailable = New(http.StatusServiceUnavailable, CodeServiceUnavailable, "Google Sheets loading is not configured")
)

// InvalidRequestWithError reports a request body or query that could not be decoded.
func InvalidRequestWithError(err error) *APIError {
	return NewWithDetails(http.StatusBadRequest, CodeInvalidRequest, "Invalid request format", err.Error())
}

// ErrValidation reports one invalid field.
func ErrValidation(field, message string) *APIError {
	return NewWithDetails(http.StatusBadRequest, CodeValidationFailed, fmt.Sprintf("Invalid %s", field), ValidationError{
		Field:   field,
		Message: message,
	})
}

// NewValidationErrors reports several invalid fields at once.
func NewValidationErrors(errors []ValidationError) *APIError {
	return NewWithDetails(http.StatusBadRequest, CodeValidationFailed, "Request validation failed",
		ValidationErrors{Errors: errors})
}

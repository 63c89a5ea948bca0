package errors

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime"
	"runtime/debug"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
)

// Common error types following RFC 7807
const (
	TypeValidation      = "/errors/validation"
	TypeNotFound        = "/errors/not-found"
	TypeRateLimit       = "/errors/rate-limit"
	TypeInternal        = "/errors/internal"
	TypeServiceDown     = "/errors/service-unavailable"
	TypeTimeout         = "/errors/timeout"
	TypePayloadTooLarge = "/errors/payload-too-large"
	TypeBadGateway      = "/errors/bad-gateway"
)

// Sheet load problem types
const (
	TypeEmptySheet        = "/errors/sheet/empty"
	TypeHeaderNotFound    = "/errors/sheet/header-not-found"
	TypeMissingColumns    = "/errors/sheet/missing-columns"
	TypeNoDataRows        = "/errors/sheet/no-data-rows"
	TypeNoDataSheets      = "/errors/workbook/no-data-sheets"
	TypeSheetNotFound     = "/errors/workbook/sheet-not-found"
	TypeMalformedWorkbook = "/errors/workbook/malformed"
	TypeDatasetNotFound   = "/errors/dataset/not-found"
)

// ErrorHandler provides centralized error handling
type ErrorHandler struct {
	logger       *slog.Logger
	includeStack bool
}

// NewErrorHandler creates a new error handler
func NewErrorHandler(logger *slog.Logger, includeStack bool) *ErrorHandler {
	return &ErrorHandler{
		logger:       logger.With(slog.String("component", "error_handler")),
		includeStack: includeStack,
	}
}

// HandleError converts any error to RFC 7807 format and responds
func (h *ErrorHandler) HandleError(w http.ResponseWriter, r *http.Request, err error) {
	if err == nil {
		return
	}

	reqID := middleware.GetReqID(r.Context())
	problem := h.ErrorToProblem(err, r)
	problem.WithExtension("trace_id", reqID)

	// Sheet content problems are the caller's data, not ours.
	level := slog.LevelError
	if problem.Status < http.StatusInternalServerError {
		level = slog.LevelWarn
	}
	h.logger.Log(r.Context(), level, "request failed",
		slog.String("error", err.Error()),
		slog.Int("status", problem.Status),
		slog.String("request_id", reqID),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
	)

	if h.includeStack && problem.Status >= http.StatusInternalServerError {
		problem.WithExtension("stack", getStackTrace())
	}

	render.Render(w, r, problem)
}

// ErrorToProblem converts an error to RFC 7807 Problem Details
func (h *ErrorHandler) ErrorToProblem(err error, r *http.Request) *ProblemDetails {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return NewProblemDetails(
			http.StatusGatewayTimeout,
			TypeTimeout,
			"Request Timeout",
			"The request took too long to process and was cancelled",
			r.URL.Path,
		)
	}

	var maxBytes *http.MaxBytesError
	if errors.As(err, &maxBytes) {
		return NewProblemDetails(
			http.StatusRequestEntityTooLarge,
			TypePayloadTooLarge,
			"Payload Too Large",
			fmt.Sprintf("The upload exceeds the maximum allowed size of %d bytes", maxBytes.Limit),
			r.URL.Path,
		)
	}

	var valErrs validator.ValidationErrors
	if errors.As(err, &valErrs) {
		fields := make([]ValidationError, 0, len(valErrs))
		for _, fe := range valErrs {
			fields = append(fields, ValidationError{
				Field:   fe.Field(),
				Message: validationMessage(fe),
			})
		}
		return NewProblemDetails(
			http.StatusBadRequest,
			TypeValidation,
			"Validation Failed",
			"One or more parameters are invalid",
			r.URL.Path,
		).WithExtension("errors", fields)
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return h.apiErrorToProblem(apiErr, r)
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return h.appErrorToProblem(appErr, r)
	}

	return NewProblemDetails(
		http.StatusInternalServerError,
		TypeInternal,
		"Internal Server Error",
		"An unexpected error occurred while processing your request",
		r.URL.Path,
	)
}

// appErrorToProblem maps AppError types onto HTTP statuses.
func (h *ErrorHandler) appErrorToProblem(appErr *AppError, r *http.Request) *ProblemDetails {
	status, problemType, title := http.StatusInternalServerError, TypeInternal, "Internal Server Error"

	switch appErr.Type {
	case ErrTypeEmptySheet:
		status, problemType, title = http.StatusUnprocessableEntity, TypeEmptySheet, "Empty Sheet"
	case ErrTypeHeaderNotFound:
		status, problemType, title = http.StatusUnprocessableEntity, TypeHeaderNotFound, "Header Row Not Found"
	case ErrTypeMissingColumns:
		status, problemType, title = http.StatusUnprocessableEntity, TypeMissingColumns, "Missing Required Columns"
	case ErrTypeNoDataRows:
		status, problemType, title = http.StatusUnprocessableEntity, TypeNoDataRows, "No Data Rows"
	case ErrTypeNoDataSheets:
		status, problemType, title = http.StatusUnprocessableEntity, TypeNoDataSheets, "No Data Sheets"
	case ErrTypeMalformedWorkbook:
		status, problemType, title = http.StatusBadRequest, TypeMalformedWorkbook, "Malformed Workbook"
	case ErrTypeSheetNotFound:
		status, problemType, title = http.StatusNotFound, TypeSheetNotFound, "Sheet Not Found"
	case ErrTypeNotFound:
		status, problemType, title = http.StatusNotFound, TypeNotFound, "Resource Not Found"
	case ErrTypeNetwork:
		status, problemType, title = http.StatusBadGateway, TypeBadGateway, "Upstream Error"
	}

	detail := appErr.Message
	if status >= http.StatusInternalServerError && appErr.Type != ErrTypeNetwork {
		detail = "An unexpected error occurred while processing your request"
	}

	problem := NewProblemDetails(status, problemType, title, detail, r.URL.Path).
		WithExtension("error_code", string(appErr.Type))

	if appErr.Type == ErrTypeMissingColumns {
		missing, found, _ := MissingColumns(appErr)
		problem.WithExtension(ContextMissingColumns, missing).
			WithExtension(ContextFoundColumns, found)
	}
	if sheet, ok := appErr.Context[ContextSheet]; ok {
		problem.WithExtension(ContextSheet, sheet)
	}

	return problem
}

// apiErrorToProblem converts APIError to ProblemDetails
func (h *ErrorHandler) apiErrorToProblem(apiErr *APIError, r *http.Request) *ProblemDetails {
	problemType := TypeInternal
	switch apiErr.ErrorCode {
	case CodeValidationFailed, CodeInvalidRequest, CodeMissingContentType, CodeUnsupportedMedia:
		problemType = TypeValidation
	case CodeDatasetNotFound:
		problemType = TypeDatasetNotFound
	case CodePayloadTooLarge:
		problemType = TypePayloadTooLarge
	case CodeRateLimitExceeded:
		problemType = TypeRateLimit
	case CodeServiceUnavailable:
		problemType = TypeServiceDown
	}

	problem := NewProblemDetails(
		apiErr.StatusCode,
		problemType,
		http.StatusText(apiErr.StatusCode),
		apiErr.Message,
		r.URL.Path,
	).WithExtension("error_code", apiErr.ErrorCode)

	if apiErr.Details != nil {
		problem.WithExtension("details", apiErr.Details)
	}

	return problem
}

// HandlePanic recovers from panics and returns RFC 7807 error
func (h *ErrorHandler) HandlePanic(w http.ResponseWriter, r *http.Request, recovered interface{}) {
	reqID := middleware.GetReqID(r.Context())

	h.logger.ErrorContext(r.Context(), "panic recovered",
		slog.Any("panic", recovered),
		slog.String("request_id", reqID),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.String("stack", string(debug.Stack())),
	)

	problem := NewProblemDetails(
		http.StatusInternalServerError,
		TypeInternal,
		"Internal Server Error",
		"An unexpected error occurred",
		r.URL.Path,
	).WithExtension("trace_id", reqID)

	if h.includeStack {
		problem.WithExtension("panic", fmt.Sprintf("%v", recovered))
		problem.WithExtension("stack", getStackTrace())
	}

	render.Render(w, r, problem)
}

// NotFound returns a standard 404 error
func (h *ErrorHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	problem := NewProblemDetails(
		http.StatusNotFound,
		TypeNotFound,
		"Not Found",
		"The requested resource was not found",
		r.URL.Path,
	).WithExtension("trace_id", middleware.GetReqID(r.Context()))

	render.Render(w, r, problem)
}

// MethodNotAllowed returns a standard 405 error
func (h *ErrorHandler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	problem := NewProblemDetails(
		http.StatusMethodNotAllowed,
		TypeInternal,
		"Method Not Allowed",
		fmt.Sprintf("Method %s is not allowed for this endpoint", r.Method),
		r.URL.Path,
	).WithExtension("trace_id", middleware.GetReqID(r.Context()))

	render.Render(w, r, problem)
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "datetime":
		return fmt.Sprintf("must be a date in the form %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	default:
		return fmt.Sprintf("failed %q validation", fe.Tag())
	}
}

func getStackTrace() string {
	buf := make([]byte, 1024*8)
	n := runtime.Stack(buf, false)
	return string(buf[:n])
}

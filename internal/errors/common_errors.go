package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorType represents the type of error
type ErrorType string

const (
	ErrTypeNotFound ErrorType = "NOT_FOUND"
	ErrTypeConfig   ErrorType = "CONFIG"
	ErrTypeNetwork  ErrorType = "NETWORK"

	// Sheet load failures
	ErrTypeEmptySheet        ErrorType = "EMPTY_SHEET"
	ErrTypeHeaderNotFound    ErrorType = "HEADER_NOT_FOUND"
	ErrTypeMissingColumns    ErrorType = "MISSING_COLUMNS"
	ErrTypeNoDataRows        ErrorType = "NO_DATA_ROWS"
	ErrTypeMalformedWorkbook ErrorType = "MALFORMED_WORKBOOK"
	ErrTypeNoDataSheets      ErrorType = "NO_DATA_SHEETS"
	ErrTypeSheetNotFound     ErrorType = "SHEET_NOT_FOUND"
)

// Context keys carried by MissingColumns errors
const (
	ContextMissingColumns = "missing_columns"
	ContextFoundColumns   = "found_columns"
	ContextSheet          = "sheet"
)

// AppError represents an application-specific error
type AppError struct {
	Type    ErrorType
	Message string
	Cause   error
	Context map[string]interface{}
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap allows errors.Is and errors.As to work with AppError
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithContext adds context to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// NewAppError creates a new application error
func NewAppError(errType ErrorType, message string, cause error) *AppError {
	return &AppError{
		Type:    errType,
		Message: message,
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// IsType reports whether err is, or wraps, an AppError of the given type.
func IsType(err error, errType ErrorType) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type == errType
	}
	return false
}

// TypeOf returns the ErrorType of the first AppError in err's chain, or "".
func TypeOf(err error) ErrorType {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type
	}
	return ""
}

// IsSheetLoadError reports whether err is one of the sheet load failure kinds.
func IsSheetLoadError(err error) bool {
	switch TypeOf(err) {
	case ErrTypeEmptySheet, ErrTypeHeaderNotFound, ErrTypeMissingColumns,
		ErrTypeNoDataRows, ErrTypeMalformedWorkbook, ErrTypeNoDataSheets, ErrTypeSheetNotFound:
		return true
	}
	return false
}

// Helper functions for common error types

// NewNetworkError creates a network-related error
func NewNetworkError(message string, cause error) *AppError {
	return NewAppError(ErrTypeNetwork, message, cause)
}

// NewNotFoundError creates a not found error
func NewNotFoundError(resource string) *AppError {
	return NewAppError(ErrTypeNotFound, fmt.Sprintf("%s not found", resource), nil)
}

// NewConfigError creates a configuration error
func NewConfigError(message string, cause error) *AppError {
	return NewAppError(ErrTypeConfig, message, cause)
}

// Sheet load failures

// NewEmptySheetError reports a sheet without any rows.
func NewEmptySheetError() *AppError {
	return NewAppError(ErrTypeEmptySheet, "the sheet is empty", nil)
}

// NewHeaderNotFoundError reports that no row in the search window looks like a header.
func NewHeaderNotFoundError(window int) *AppError {
	return NewAppError(ErrTypeHeaderNotFound,
		fmt.Sprintf("could not find a header row in the first %d rows", window), nil).
		WithContext("window", window)
}

// NewNoDataRowsError reports a sheet with a header but no usable rows.
func NewNoDataRowsError() *AppError {
	return NewAppError(ErrTypeNoDataRows, "no valid data rows found in the sheet", nil)
}

// NewMissingColumnsError reports required columns absent from the header row.
func NewMissingColumnsError(missing, found []string) *AppError {
	return NewAppError(ErrTypeMissingColumns,
		fmt.Sprintf("missing required columns: %s. Found columns: %s",
			strings.Join(missing, ", "), strings.Join(found, ", ")), nil).
		WithContext(ContextMissingColumns, missing).
		WithContext(ContextFoundColumns, found)
}

// NewMalformedWorkbookError wraps a failure to read the workbook container itself.
func NewMalformedWorkbookError(cause error) *AppError {
	return NewAppError(ErrTypeMalformedWorkbook, "the workbook could not be read", cause)
}

// NewNoDataSheetsError reports a workbook where every sheet was filtered out.
func NewNoDataSheetsError() *AppError {
	return NewAppError(ErrTypeNoDataSheets, "no valid data sheets found in the workbook", nil)
}

// NewSheetNotFoundError reports a sheet name absent from the workbook.
func NewSheetNotFoundError(sheet string) *AppError {
	return NewAppError(ErrTypeSheetNotFound, fmt.Sprintf("sheet %q not found", sheet), nil).
		WithContext(ContextSheet, sheet)
}

// MissingColumns extracts the missing and found column lists from a MissingColumns error.
func MissingColumns(err error) (missing, found []string, ok bool) {
	var appErr *AppError
	if !errors.As(err, &appErr) || appErr.Type != ErrTypeMissingColumns {
		return nil, nil, false
	}
	missing, _ = appErr.Context[ContextMissingColumns].([]string)
	found, _ = appErr.Context[ContextFoundColumns].([]string)
	return missing, found, true
}

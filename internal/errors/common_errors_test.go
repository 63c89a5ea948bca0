package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		want string
	}{
		{
			name: "without cause",
			err:  NewEmptySheetError(),
			want: "[EMPTY_SHEET] the sheet is empty",
		},
		{
			name: "with cause",
			err:  NewMalformedWorkbookError(errors.New("zip: not a valid zip file")),
			want: "[MALFORMED_WORKBOOK] the workbook could not be read: zip: not a valid zip file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	cause := errors.New("boom")
	err := NewMalformedWorkbookError(cause)

	assert.ErrorIs(t, err, cause)
}

func TestAppError_WithContext_NilContext(t *testing.T) {
	err := &AppError{Type: ErrTypeNoDataRows, Message: "bad"}
	err.WithContext("row", 4)

	assert.Equal(t, 4, err.Context["row"])
}

func TestIsType(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		errType ErrorType
		want    bool
	}{
		{"direct match", NewNoDataRowsError(), ErrTypeNoDataRows, true},
		{"wrapped match", fmt.Errorf("load sheet: %w", NewHeaderNotFoundError(10)), ErrTypeHeaderNotFound, true},
		{"different type", NewNoDataRowsError(), ErrTypeEmptySheet, false},
		{"plain error", errors.New("nope"), ErrTypeEmptySheet, false},
		{"nil error", nil, ErrTypeEmptySheet, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsType(tt.err, tt.errType))
		})
	}
}

func TestIsSheetLoadError(t *testing.T) {
	assert.True(t, IsSheetLoadError(NewEmptySheetError()))
	assert.True(t, IsSheetLoadError(NewSheetNotFoundError("Week 3")))
	assert.True(t, IsSheetLoadError(NewNoDataSheetsError()))
	assert.False(t, IsSheetLoadError(NewConfigError("bad port", nil)))
	assert.False(t, IsSheetLoadError(errors.New("plain")))
}

func TestMissingColumns(t *testing.T) {
	missing := []string{"Developer"}
	found := []string{"Date", "Ticket", "Task", "Status", "Productive", "Time Spent"}

	err := fmt.Errorf("wrapped: %w", NewMissingColumnsError(missing, found))

	gotMissing, gotFound, ok := MissingColumns(err)
	require.True(t, ok)
	assert.Equal(t, missing, gotMissing)
	assert.Equal(t, found, gotFound)
	assert.Contains(t, err.Error(), "missing required columns: Developer")

	_, _, ok = MissingColumns(NewNoDataRowsError())
	assert.False(t, ok)
}

func TestNewHeaderNotFoundError(t *testing.T) {
	err := NewHeaderNotFoundError(10)

	assert.Equal(t, ErrTypeHeaderNotFound, err.Type)
	assert.Equal(t, 10, err.Context["window"])
	assert.Contains(t, err.Message, "first 10 rows")
}

func TestNewSheetNotFoundError(t *testing.T) {
	err := NewSheetNotFoundError("March")

	assert.Equal(t, ErrTypeSheetNotFound, TypeOf(err))
	assert.Equal(t, "March", err.Context[ContextSheet])
}

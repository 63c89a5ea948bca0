package errors

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProblemDetails_MarshalJSON(t *testing.T) {
	tests := []struct {
		name     string
		problem  *ProblemDetails
		wantKeys []string
		noKeys   []string
	}{
		{
			name:     "basic problem details",
			problem:  NewProblemDetails(http.StatusBadRequest, TypeValidation, "Validation Failed", "bad query", "/api/datasets"),
			wantKeys: []string{"type", "title", "status", "detail", "instance"},
		},
		{
			name: "problem with extensions",
			problem: NewProblemDetails(http.StatusUnprocessableEntity, TypeMissingColumns, "Missing Required Columns", "", "").
				WithExtension("missing_columns", []string{"Developer"}).
				WithExtension("trace_id", "abc"),
			wantKeys: []string{"type", "title", "status", "missing_columns", "trace_id"},
			noKeys:   []string{"detail", "instance"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.problem)
			require.NoError(t, err)

			var result map[string]interface{}
			require.NoError(t, json.Unmarshal(data, &result))

			for _, key := range tt.wantKeys {
				assert.Contains(t, result, key)
			}
			for _, key := range tt.noKeys {
				assert.NotContains(t, result, key)
			}
			assert.Equal(t, float64(tt.problem.Status), result["status"])
		})
	}
}

func TestProblemDetails_ExtensionCannotOverrideStatus(t *testing.T) {
	problem := NewProblemDetails(http.StatusNotFound, TypeNotFound, "Not Found", "", "").
		WithExtension("status", 200)

	data, err := json.Marshal(problem)
	require.NoError(t, err)

	var result map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &result))
	assert.Equal(t, float64(http.StatusNotFound), result["status"])
}

func TestProblemDetails_WithExtension_NilMap(t *testing.T) {
	problem := &ProblemDetails{Type: TypeInternal, Status: http.StatusInternalServerError}
	problem.WithExtension("trace_id", "x").WithExtension("error_code", "E")

	assert.Len(t, problem.Extensions, 2)
}

func TestProblemDetails_Render(t *testing.T) {
	problem := NewProblemDetails(http.StatusUnprocessableEntity, TypeNoDataRows, "No Data Rows", "nothing", "/x")

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/x", nil)
	require.NoError(t, render.Render(w, r, problem))

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "application/json")
}

func TestAPIError_Render(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)

	require.NoError(t, render.Render(w, r, ErrPayloadTooLarge))
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestAPIError_WithDetails(t *testing.T) {
	err := ErrDatasetNotFound.WithDetails("abc")

	assert.Equal(t, "abc", err.Details)
	assert.Nil(t, ErrDatasetNotFound.Details)
	assert.Equal(t, CodeDatasetNotFound, err.ErrorCode)
}

func TestNewValidationErrors(t *testing.T) {
	err := NewValidationErrors([]ValidationError{
		{Field: "start", Message: "must be a date"},
		{Field: "productivity", Message: "must be one of: ALL YES NO"},
	})

	assert.Equal(t, http.StatusBadRequest, err.StatusCode)
	details, ok := err.Details.(ValidationErrors)
	require.True(t, ok)
	assert.Len(t, details.Errors, 2)
}

package middleware

import (
	"mime"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "sheetcheck/internal/errors"
)

// Validator validates request structs by their validate tags.
// Field names in errors come from the json, then form, struct tag.
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a validator that reports json/form field names.
func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"json", "form"} {
			name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return fld.Name
	})
	return &Validator{validate: v}
}

// Struct returns validator.ValidationErrors when s fails validation.
// The error handler renders them as a VALIDATION_FAILED problem.
func (v *Validator) Struct(s any) error {
	return v.validate.Struct(s)
}

// ContentTypeValidator rejects bodies whose media type is not one of contentTypes.
// GET, HEAD, DELETE and OPTIONS requests pass untouched.
func ContentTypeValidator(errorHandler *apperrors.ErrorHandler, contentTypes ...string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet, http.MethodHead, http.MethodDelete, http.MethodOptions:
				next.ServeHTTP(w, r)
				return
			}

			mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
			if err != nil {
				errorHandler.HandleError(w, r, apperrors.New(
					http.StatusBadRequest,
					apperrors.CodeMissingContentType,
					"Content-Type header is required",
				))
				return
			}

			for _, allowed := range contentTypes {
				if strings.EqualFold(mediaType, allowed) {
					next.ServeHTTP(w, r)
					return
				}
			}

			errorHandler.HandleError(w, r, apperrors.NewWithDetails(
				http.StatusUnsupportedMediaType,
				apperrors.CodeUnsupportedMedia,
				"Unsupported content type",
				map[string]interface{}{
					"content_type": mediaType,
					"allowed":      contentTypes,
				},
			))
		})
	}
}

// MaxBodySize caps request bodies at limit bytes. Reading past the limit
// yields *http.MaxBytesError, which the error handler maps to 413.
func MaxBodySize(limit int64) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if limit > 0 && r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, limit)
			}
			next.ServeHTTP(w, r)
		})
	}
}

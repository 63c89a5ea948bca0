package http

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ajg/form"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	apperrors "sheetcheck/internal/errors"
	"sheetcheck/internal/middleware"
	"sheetcheck/internal/services"
	api "sheetcheck/pkg/contracts/api/v1"
	"sheetcheck/pkg/contracts/domain"
)

const (
	// multipartOverhead allows for form boundaries and fields around the file part.
	multipartOverhead = 1 << 20
	multipartMemory   = 8 << 20
)

var unsafeFileChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// DatasetHandler handles dataset HTTP requests with RFC 7807 errors
type DatasetHandler struct {
	service      DatasetServiceInterface
	validator    *middleware.Validator
	errorHandler *apperrors.ErrorHandler
	maxUpload    int64
	logger       *slog.Logger
}

// NewDatasetHandler creates a new dataset handler
func NewDatasetHandler(service DatasetServiceInterface, validator *middleware.Validator, errorHandler *apperrors.ErrorHandler, maxUpload int64, logger *slog.Logger) *DatasetHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &DatasetHandler{
		service:      service,
		validator:    validator,
		errorHandler: errorHandler,
		maxUpload:    maxUpload,
		logger:       logger.With(slog.String("component", "dataset_handler")),
	}
}

// Routes returns the dataset routes
func (h *DatasetHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	jsonOnly := middleware.ContentTypeValidator(h.errorHandler, "application/json")

	r.Get("/", h.List)
	r.With(middleware.MaxBodySize(h.maxUpload+multipartOverhead)).Post("/", h.Upload)
	r.With(jsonOnly, middleware.MaxBodySize(64<<10)).Post("/google", h.LoadGoogle)

	r.Route("/{id}", func(r chi.Router) {
		r.Use(h.DatasetCtx)
		r.Get("/", h.Get)
		r.Delete("/", h.Delete)
		r.With(jsonOnly, middleware.MaxBodySize(64<<10)).Put("/sheet", h.SelectSheet)
		r.Get("/records", h.Records)
		r.Get("/summary", h.Summary)
		r.Get("/developers", h.Developers)
		r.Get("/performance", h.Performance)
		r.Get("/performance/export.csv", h.ExportTaskGroups)
		r.Get("/export.csv", h.Export)
	})

	return r
}

// DatasetCtx validates the dataset id path parameter
func (h *DatasetHandler) DatasetCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := uuid.Parse(chi.URLParam(r, "id")); err != nil {
			h.errorHandler.HandleError(w, r, apperrors.ErrValidation("id", "Dataset id must be a UUID"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// List handles GET /api/datasets
func (h *DatasetHandler) List(w http.ResponseWriter, r *http.Request) {
	datasets := h.service.List()
	render.JSON(w, r, map[string]interface{}{
		"datasets": datasets,
		"count":    len(datasets),
	})
}

// Upload handles POST /api/datasets (multipart "file", optional "sheet" and "duration_mode")
func (h *DatasetHandler) Upload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var maxBytes *http.MaxBytesError
		if errors.As(err, &maxBytes) {
			h.errorHandler.HandleError(w, r, err)
			return
		}
		h.errorHandler.HandleError(w, r, apperrors.InvalidRequestWithError(err))
		return
	}
	defer r.MultipartForm.RemoveAll()

	var req api.UploadForm
	if err := h.bindValues(r.MultipartForm.Value, &req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		h.errorHandler.HandleError(w, r, apperrors.ErrValidation("file", "A workbook file is required"))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, h.maxUpload+1))
	if err != nil {
		h.errorHandler.HandleError(w, r, apperrors.InvalidRequestWithError(err))
		return
	}
	if int64(len(data)) > h.maxUpload {
		h.errorHandler.HandleError(w, r, apperrors.ErrPayloadTooLarge)
		return
	}

	h.logger.InfoContext(ctx, "workbook uploaded",
		slog.String("request_id", middleware.GetReqID(ctx)),
		slog.String("file_name", header.Filename),
		slog.Int("bytes", len(data)))

	info, err := h.service.LoadUpload(ctx, header.Filename, data, services.LoadOptions{
		Sheet:        req.Sheet,
		DurationMode: req.DurationMode,
	})
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	w.Header().Set("Location", "/api/datasets/"+info.ID)
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, info)
}

// LoadGoogle handles POST /api/datasets/google
func (h *DatasetHandler) LoadGoogle(w http.ResponseWriter, r *http.Request) {
	var req api.LoadGoogleRequest
	if err := render.Bind(r, &req); err != nil {
		h.errorHandler.HandleError(w, r, decodeError(err))
		return
	}
	if err := h.validator.Struct(&req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	info, err := h.service.LoadGoogle(r.Context(), req.SpreadsheetID, services.LoadOptions{
		Sheet:        req.Sheet,
		DurationMode: req.DurationMode,
	})
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	w.Header().Set("Location", "/api/datasets/"+info.ID)
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, info)
}

// Get handles GET /api/datasets/{id}
func (h *DatasetHandler) Get(w http.ResponseWriter, r *http.Request) {
	info, err := h.service.Info(chi.URLParam(r, "id"))
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	render.JSON(w, r, info)
}

// Delete handles DELETE /api/datasets/{id}
func (h *DatasetHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SelectSheet handles PUT /api/datasets/{id}/sheet
func (h *DatasetHandler) SelectSheet(w http.ResponseWriter, r *http.Request) {
	var req api.SelectSheetRequest
	if err := render.Bind(r, &req); err != nil {
		h.errorHandler.HandleError(w, r, decodeError(err))
		return
	}
	if err := h.validator.Struct(&req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	info, err := h.service.SelectSheet(r.Context(), chi.URLParam(r, "id"), services.LoadOptions{
		Sheet:        req.Sheet,
		DurationMode: req.DurationMode,
	})
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	render.JSON(w, r, info)
}

// Records handles GET /api/datasets/{id}/records
func (h *DatasetHandler) Records(w http.ResponseWriter, r *http.Request) {
	c, ok := h.criteria(w, r)
	if !ok {
		return
	}
	result, err := h.service.Records(chi.URLParam(r, "id"), c)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	render.JSON(w, r, result)
}

// Summary handles GET /api/datasets/{id}/summary
func (h *DatasetHandler) Summary(w http.ResponseWriter, r *http.Request) {
	c, ok := h.criteria(w, r)
	if !ok {
		return
	}
	result, err := h.service.Summary(chi.URLParam(r, "id"), c)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	render.JSON(w, r, result)
}

// Developers handles GET /api/datasets/{id}/developers
func (h *DatasetHandler) Developers(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.Filters(chi.URLParam(r, "id"))
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	render.JSON(w, r, result)
}

// Performance handles GET /api/datasets/{id}/performance
func (h *DatasetHandler) Performance(w http.ResponseWriter, r *http.Request) {
	q, c, ok := h.performanceQuery(w, r)
	if !ok {
		return
	}
	result, err := h.service.Performance(chi.URLParam(r, "id"), q.Developer, c, q.Grouped())
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	render.JSON(w, r, result)
}

// Export handles GET /api/datasets/{id}/export.csv
func (h *DatasetHandler) Export(w http.ResponseWriter, r *http.Request) {
	c, ok := h.criteria(w, r)
	if !ok {
		return
	}
	h.serveCSV(w, r, "records", func(ds *services.Dataset, out io.Writer) error {
		return h.service.Export(r.Context(), ds, c, out)
	})
}

// ExportTaskGroups handles GET /api/datasets/{id}/performance/export.csv
func (h *DatasetHandler) ExportTaskGroups(w http.ResponseWriter, r *http.Request) {
	q, c, ok := h.performanceQuery(w, r)
	if !ok {
		return
	}
	h.serveCSV(w, r, "tasks-"+q.Developer, func(ds *services.Dataset, out io.Writer) error {
		return h.service.ExportTaskGroups(r.Context(), ds, q.Developer, c, out)
	})
}

// serveCSV renders an export into memory first so failures still produce a problem response.
// The dataset is resolved once; the ETag, file name and body all come from that version.
func (h *DatasetHandler) serveCSV(w http.ResponseWriter, r *http.Request, suffix string, write func(*services.Dataset, io.Writer) error) {
	ds, err := h.service.Get(chi.URLParam(r, "id"))
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	etag := ds.ExportETag(r.URL.Path + "?" + r.URL.RawQuery)
	w.Header().Set("ETag", etag)
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	var buf bytes.Buffer
	if err := write(ds, &buf); err != nil {
		h.handleError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, exportFileName(ds.FileName, ds.Sheet, suffix)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func (h *DatasetHandler) criteria(w http.ResponseWriter, r *http.Request) (domain.FilterCriteria, bool) {
	var q api.RecordsQuery
	if err := h.bindValues(r.URL.Query(), &q); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return domain.FilterCriteria{}, false
	}
	c, err := q.Criteria()
	if err != nil {
		h.errorHandler.HandleError(w, r, apperrors.InvalidRequestWithError(err))
		return domain.FilterCriteria{}, false
	}
	return c, true
}

func (h *DatasetHandler) performanceQuery(w http.ResponseWriter, r *http.Request) (api.PerformanceQuery, domain.FilterCriteria, bool) {
	var q api.PerformanceQuery
	if err := h.bindValues(r.URL.Query(), &q); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return q, domain.FilterCriteria{}, false
	}
	if q.Developer == "" {
		h.errorHandler.HandleError(w, r, apperrors.ErrValidation("developer", "Developer is required"))
		return q, domain.FilterCriteria{}, false
	}
	c, err := q.RecordsQuery.Criteria()
	if err != nil {
		h.errorHandler.HandleError(w, r, apperrors.InvalidRequestWithError(err))
		return q, domain.FilterCriteria{}, false
	}
	return q, c, true
}

// bindValues decodes form or query values into dst and validates it.
// Unknown keys are ignored.
func (h *DatasetHandler) bindValues(values map[string][]string, dst interface{}) error {
	dec := form.NewDecoder(nil)
	dec.IgnoreUnknownKeys(true)
	if err := dec.DecodeValues(dst, values); err != nil {
		return apperrors.InvalidRequestWithError(err)
	}
	return h.validator.Struct(dst)
}

// handleError maps service errors onto API errors
func (h *DatasetHandler) handleError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, services.ErrDatasetNotFound):
		err = apperrors.ErrDatasetNotFound.WithDetails(chi.URLParam(r, "id"))
	case errors.Is(err, services.ErrUploadTooLarge):
		err = apperrors.ErrPayloadTooLarge
	case errors.Is(err, services.ErrGoogleDisabled):
		err = apperrors.ErrGoogleUnavailable
	}
	h.errorHandler.HandleError(w, r, err)
}

func decodeError(err error) error {
	var maxBytes *http.MaxBytesError
	if errors.As(err, &maxBytes) {
		return err
	}
	return apperrors.InvalidRequestWithError(err)
}

// exportFileName builds a download name like "march-Team_A.csv".
func exportFileName(fileName, sheet, suffix string) string {
	base := strings.TrimSuffix(filepath.Base(fileName), filepath.Ext(fileName))
	parts := []string{base, sheet}
	if suffix != "records" {
		parts = append(parts, suffix)
	}
	name := unsafeFileChars.ReplaceAllString(strings.Join(parts, "-"), "_")
	name = strings.Trim(name, "_-.")
	if name == "" {
		name = "export"
	}
	return name + ".csv"
}

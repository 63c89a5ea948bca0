package http

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sheetcheck/internal/config"
	apperrors "sheetcheck/internal/errors"
	"sheetcheck/internal/middleware"
	"sheetcheck/internal/services"
	"sheetcheck/internal/shared/testutil"
)

const handlerCSV = `Date,Ticket,Task,Status,Productive,Time Spent,Developer
2024-03-01,T-1,Build API,Done,2,2h 30m,Alice
2024-03-01,T-2,Code review,In Progress,0,1:00,Bob
2024-03-05,,Vacation,Leave,0,8,Alice
`

func newTestRouter(t *testing.T, maxUpload int64) (http.Handler, *services.DatasetService) {
	t.Helper()

	logger, _ := testutil.NewTestLogger(t)
	cfg := config.Default().Ingest
	if maxUpload == 0 {
		maxUpload = cfg.MaxUploadBytes
	}
	svc := services.NewDatasetService(
		services.NewDatasetStore(cfg.MaxDatasets),
		services.NewIngestor(cfg, nil, nil, logger),
		maxUpload, nil, nil, logger,
	)
	errorHandler := apperrors.NewErrorHandler(logger, false)
	h := NewDatasetHandler(svc, middleware.NewValidator(), errorHandler, maxUpload, logger)

	r := chi.NewRouter()
	r.Mount("/api/datasets", h.Routes())
	return r, svc
}

func multipartBody(t *testing.T, fileName, content string, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if fileName != "" {
		fw, err := mw.CreateFormFile("file", fileName)
		require.NoError(t, err)
		_, err = fw.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func upload(t *testing.T, router http.Handler, fileName, content string, fields map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	body, contentType := multipartBody(t, fileName, content, fields)
	req := httptest.NewRequest(http.MethodPost, "/api/datasets", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func uploadDataset(t *testing.T, router http.Handler) services.DatasetInfo {
	t.Helper()

	rec := upload(t, router, "march.csv", handlerCSV, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var info services.DatasetInfo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &info))
	return info
}

func get(router http.Handler, target string, headers ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeProblem(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var problem map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem), rec.Body.String())
	return problem
}

func TestDatasetHandler_Upload(t *testing.T) {
	router, svc := newTestRouter(t, 0)

	t.Run("csv upload creates dataset", func(t *testing.T) {
		rec := upload(t, router, "march.csv", handlerCSV, map[string]string{"duration_mode": "minutes"})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		var info services.DatasetInfo
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &info))
		assert.Equal(t, "/api/datasets/"+info.ID, rec.Header().Get("Location"))
		assert.Equal(t, "march", info.Sheet)
		assert.Equal(t, 3, info.RecordCount)
		assert.Equal(t, 150+60+8, info.Totals.Minutes)
	})

	t.Run("missing file", func(t *testing.T) {
		rec := upload(t, router, "", "", map[string]string{"sheet": "x"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "VALIDATION_FAILED", decodeProblem(t, rec)["error_code"])
	})

	t.Run("bad duration mode", func(t *testing.T) {
		rec := upload(t, router, "march.csv", handlerCSV, map[string]string{"duration_mode": "days"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, apperrors.TypeValidation, decodeProblem(t, rec)["type"])
	})

	t.Run("header only sheet", func(t *testing.T) {
		rec := upload(t, router, "empty.csv", "Date,Task,Developer\n", nil)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Equal(t, apperrors.TypeEmptySheet, decodeProblem(t, rec)["type"])
	})

	t.Run("missing columns are listed", func(t *testing.T) {
		content := "Date,Task,Status,Productive,Developer\n2024-03-01,Build,Done,1,Alice\n"
		rec := upload(t, router, "partial.csv", content, nil)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

		problem := decodeProblem(t, rec)
		assert.Equal(t, apperrors.TypeMissingColumns, problem["type"])
		assert.Contains(t, problem[apperrors.ContextMissingColumns], "Time Spent")
	})

	t.Run("not multipart", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/datasets", strings.NewReader("{}"))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	rec := get(router, "/api/datasets")
	require.Equal(t, http.StatusOK, rec.Code)
	var list struct {
		Count int `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Equal(t, svc.DatasetCount(), list.Count)
}

func TestDatasetHandler_UploadTooLarge(t *testing.T) {
	router, _ := newTestRouter(t, 64)

	rec := upload(t, router, "march.csv", handlerCSV, nil)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Equal(t, apperrors.TypePayloadTooLarge, decodeProblem(t, rec)["type"])
}

func TestDatasetHandler_Queries(t *testing.T) {
	router, _ := newTestRouter(t, 0)
	info := uploadDataset(t, router)
	base := "/api/datasets/" + info.ID

	t.Run("get", func(t *testing.T) {
		rec := get(router, base)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"file_name":"march.csv"`)
	})

	t.Run("records with filters", func(t *testing.T) {
		rec := get(router, base+"/records?developer=Alice&exclude_leave=true&unknown=1")
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var res services.RecordsResult
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
		assert.Equal(t, 1, res.Count)
		assert.Equal(t, 3, res.Total)
		assert.Equal(t, 150, res.Totals.Minutes)
	})

	t.Run("records date range", func(t *testing.T) {
		rec := get(router, base+"/records?start=2024-03-05&end=2024-03-05")
		require.Equal(t, http.StatusOK, rec.Code)

		var res services.RecordsResult
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
		assert.Equal(t, 1, res.Count)
	})

	t.Run("invalid filters", func(t *testing.T) {
		for _, q := range []string{"start=03/01/2024", "productivity=maybe", "exclude_leave=perhaps"} {
			rec := get(router, base+"/records?"+q)
			assert.Equal(t, http.StatusBadRequest, rec.Code, q)
		}
	})

	t.Run("summary", func(t *testing.T) {
		rec := get(router, base+"/summary?productivity=yes")
		require.Equal(t, http.StatusOK, rec.Code)

		var res services.SummaryResult
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
		assert.Equal(t, 1, res.Totals.Tasks)
	})

	t.Run("developers", func(t *testing.T) {
		rec := get(router, base+"/developers")
		require.Equal(t, http.StatusOK, rec.Code)

		var res services.FilterOptions
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
		assert.Equal(t, []string{"Alice", "Bob"}, res.Developers)
	})

	t.Run("performance", func(t *testing.T) {
		rec := get(router, base+"/performance?developer=Alice&group_by_task=true")
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Contains(t, rec.Body.String(), `"Build API"`)

		rec = get(router, base+"/performance")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestDatasetHandler_Export(t *testing.T) {
	router, svc := newTestRouter(t, 0)
	info := uploadDataset(t, router)
	target := "/api/datasets/" + info.ID + "/export.csv?developer=Bob"

	rec := get(router, target)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="march-march.csv"`, rec.Header().Get("Content-Disposition"))
	assert.Contains(t, rec.Body.String(), "Code review")
	assert.NotContains(t, rec.Body.String(), "Build API")

	etag := rec.Header().Get("ETag")
	require.NotEmpty(t, etag)
	ds, err := svc.Get(info.ID)
	require.NoError(t, err)
	assert.Equal(t, ds.ExportETag(target), etag)

	t.Run("if-none-match", func(t *testing.T) {
		rec := get(router, target, "If-None-Match", etag)
		assert.Equal(t, http.StatusNotModified, rec.Code)
		assert.Empty(t, rec.Body.String())
	})

	t.Run("different filters change etag", func(t *testing.T) {
		rec := get(router, "/api/datasets/"+info.ID+"/export.csv?developer=Alice", "If-None-Match", etag)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.NotEqual(t, etag, rec.Header().Get("ETag"))
	})

	t.Run("unknown dataset", func(t *testing.T) {
		rec := get(router, "/api/datasets/"+uuid.NewString()+"/export.csv")
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Empty(t, rec.Header().Get("ETag"))
	})

	t.Run("task groups", func(t *testing.T) {
		rec := get(router, "/api/datasets/"+info.ID+"/performance/export.csv?developer=Alice")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, `attachment; filename="march-march-tasks-Alice.csv"`, rec.Header().Get("Content-Disposition"))
		assert.Contains(t, rec.Body.String(), "Vacation")
	})
}

func TestDatasetHandler_Lifecycle(t *testing.T) {
	router, _ := newTestRouter(t, 0)
	info := uploadDataset(t, router)
	base := "/api/datasets/" + info.ID

	t.Run("select sheet needs json", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPut, base+"/sheet", strings.NewReader("sheet=x"))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
	})

	t.Run("select unknown sheet", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPut, base+"/sheet", strings.NewReader(`{"sheet":"Other"}`))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, apperrors.TypeSheetNotFound, decodeProblem(t, rec)["type"])
	})

	t.Run("select same sheet in minutes", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPut, base+"/sheet", strings.NewReader(`{"sheet":"march","duration_mode":"MINUTES"}`))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Contains(t, rec.Body.String(), `"duration_mode":"MINUTES"`)
	})

	t.Run("google disabled", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/datasets/google", strings.NewReader(`{"spreadsheet_id":"1AbCdEfGhIjKlMn"}`))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})

	t.Run("delete", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodDelete, base, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNoContent, rec.Code)

		rec = get(router, base)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, apperrors.TypeDatasetNotFound, decodeProblem(t, rec)["type"])
	})

	t.Run("invalid id", func(t *testing.T) {
		rec := get(router, "/api/datasets/not-a-uuid/records")
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		rec = get(router, "/api/datasets/"+uuid.NewString()+"/summary")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestExportFileName(t *testing.T) {
	assert.Equal(t, "march-Team_A.csv", exportFileName("uploads/march.xlsx", "Team A", "records"))
	assert.Equal(t, "a_b-S-tasks-Bob.csv", exportFileName(`a"b.csv`, "S", "tasks-Bob"))
	assert.Equal(t, "export.csv", exportFileName("", "", "records"))
}

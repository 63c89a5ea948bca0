package app

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sheetcheck/internal/config"
	"sheetcheck/internal/services"
	"sheetcheck/internal/shared/testutil"
)

const appCSV = `Date,Ticket,Task,Status,Productive,Time Spent,Developer
2024-03-01,T-1,Build API,Done,2,2h 30m,Alice
2024-03-02,T-2,Code review,Open,0,45m,Bob
`

func newTestApplication(t *testing.T, mutate func(*config.Config)) *Application {
	t.Helper()

	cfg := config.Default()
	cfg.Security.RateLimit.Enabled = false
	if mutate != nil {
		mutate(cfg)
	}
	logger, _ := testutil.NewTestLogger(t)

	a, err := New(cfg, logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Stop(context.Background()) })
	return a
}

func serve(a *Application, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	a.Router.ServeHTTP(rec, req)
	return rec
}

func uploadCSV(t *testing.T, a *Application) services.DatasetInfo {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", "march.csv")
	require.NoError(t, err)
	_, err = fw.Write([]byte(appCSV))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/datasets", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := serve(a, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var info services.DatasetInfo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &info))
	return info
}

func TestNew(t *testing.T) {
	a := newTestApplication(t, nil)

	assert.NotNil(t, a.Router)
	assert.NotNil(t, a.Server)
	assert.NotNil(t, a.DatasetService)
	assert.NotNil(t, a.HealthService)
	assert.NotNil(t, a.WebSocketHub)
	assert.Equal(t, ":8080", a.Server.Addr)
	assert.False(t, a.DatasetService.GoogleEnabled())
}

func TestNew_GoogleCredentialsMissing(t *testing.T) {
	cfg := config.Default()
	cfg.Google.Enabled = true
	cfg.Google.CredentialsFile = t.TempDir() + "/missing.json"
	logger, _ := testutil.NewTestLogger(t)

	_, err := New(cfg, logger)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "google sheets")
}

func TestRouter_Health(t *testing.T) {
	a := newTestApplication(t, nil)

	tests := []struct {
		path   string
		status int
		field  string
	}{
		{"/api/health", http.StatusOK, `"status":"ok"`},
		{"/api/health/ready", http.StatusOK, `"status":"ready"`},
		{"/api/health/live", http.StatusOK, `"status":"alive"`},
		{"/api/version", http.StatusOK, `"api_version":"v1"`},
		{"/api/stats", http.StatusOK, `"datasets":0`},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := serve(a, httptest.NewRequest(http.MethodGet, tt.path, nil))
			assert.Equal(t, tt.status, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.field)
			assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
		})
	}
}

func TestRouter_DatasetFlow(t *testing.T) {
	a := newTestApplication(t, nil)
	info := uploadCSV(t, a)

	assert.Equal(t, 1, a.DatasetService.DatasetCount())
	assert.Equal(t, 2, info.RecordCount)

	rec := serve(a, httptest.NewRequest(http.MethodGet, "/api/datasets/"+info.ID+"/summary?developer=Alice", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"minutes":150`)

	t.Run("metrics expose sheet loads", func(t *testing.T) {
		rec := serve(a, httptest.NewRequest(http.MethodGet, "/metrics", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "sheet_loads")
		assert.Contains(t, rec.Body.String(), "system_goroutines")
	})

	t.Run("stop releases datasets", func(t *testing.T) {
		require.NoError(t, a.Stop(context.Background()))
		assert.Equal(t, 0, a.DatasetService.DatasetCount())
	})
}

func TestRouter_Problems(t *testing.T) {
	a := newTestApplication(t, nil)

	t.Run("unknown route", func(t *testing.T) {
		rec := serve(a, httptest.NewRequest(http.MethodGet, "/api/nope", nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Contains(t, rec.Body.String(), "/errors/not-found")
	})

	t.Run("client log needs json", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/logs", bytes.NewBufferString("hello"))
		req.Header.Set("Content-Type", "text/plain")
		rec := serve(a, req)
		assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
	})

	t.Run("client log accepted", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/logs", bytes.NewBufferString(`{"level":"warn","message":"chart failed"}`))
		req.Header.Set("Content-Type", "application/json")
		rec := serve(a, req)
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})
}

func TestRouter_CORS(t *testing.T) {
	a := newTestApplication(t, func(cfg *config.Config) {
		cfg.Security.AllowedOrigins = []string{"https://sheets.example.com"}
	})

	req := httptest.NewRequest(http.MethodOptions, "/api/datasets", nil)
	req.Header.Set("Origin", "https://sheets.example.com")
	rec := serve(a, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://sheets.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Expose-Headers"), "ETag")

	req = httptest.NewRequest(http.MethodOptions, "/api/datasets", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	rec = serve(a, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRouter_RateLimit(t *testing.T) {
	a := newTestApplication(t, func(cfg *config.Config) {
		cfg.Security.RateLimit = config.RateLimitConfig{Enabled: true, RPS: 0.001, Burst: 1}
	})

	first := serve(a, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	second := serve(a, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.Equal(t, "1", second.Header().Get("Retry-After"))
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadFile(t *testing.T) {
	tests := []struct {
		name        string
		file        string
		env         map[string]string
		wantErr     bool
		validateCfg func(*testing.T, *Config)
	}{
		{
			name: "defaults without file or env",
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 8080, cfg.Server.Port)
				assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
				assert.Equal(t, "HOURS", cfg.Ingest.DurationMode)
				assert.Equal(t, 10, cfg.Ingest.HeaderWindow)
				assert.Equal(t, []string{"sheet15"}, cfg.Ingest.SummaryLabels)
				assert.Equal(t, "json", cfg.Logging.Format)
				assert.Equal(t, "stdout", cfg.Logging.Output)
				assert.True(t, cfg.Security.RateLimit.Enabled)
			},
		},
		{
			name: "file overrides defaults and keeps the rest",
			file: "server:\n  port: 9090\ningest:\n  duration_mode: minutes\n  summary_labels: [totals, rollup]\n",
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 9090, cfg.Server.Port)
				assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
				assert.Equal(t, "MINUTES", cfg.Ingest.DurationMode)
				assert.Equal(t, []string{"totals", "rollup"}, cfg.Ingest.SummaryLabels)
				assert.Equal(t, int64(DefaultMaxUploadBytes), cfg.Ingest.MaxUploadBytes)
			},
		},
		{
			name: "env overrides file",
			file: "server:\n  port: 9090\nlogging:\n  level: warn\n",
			env: map[string]string{
				"SHEETCHECK_SERVER_PORT":             "7070",
				"SHEETCHECK_SECURITY_ALLOWED_ORIGINS": "http://a.example,http://b.example",
				"SHEETCHECK_INGEST_MAX_DATASETS":      "5",
				"SHEETCHECK_SERVER_READ_TIMEOUT":      "3s",
			},
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 7070, cfg.Server.Port)
				assert.Equal(t, 3*time.Second, cfg.Server.ReadTimeout)
				assert.Equal(t, "warn", cfg.Logging.Level)
				assert.Equal(t, []string{"http://a.example", "http://b.example"}, cfg.Security.AllowedOrigins)
				assert.Equal(t, 5, cfg.Ingest.MaxDatasets)
			},
		},
		{
			name:    "invalid yaml",
			file:    "server: [unterminated",
			wantErr: true,
		},
		{
			name:    "invalid duration mode",
			env:     map[string]string{"SHEETCHECK_INGEST_DURATION_MODE": "DAYS"},
			wantErr: true,
		},
		{
			name:    "invalid port",
			env:     map[string]string{"SHEETCHECK_SERVER_PORT": "70000"},
			wantErr: true,
		},
		{
			name:    "non numeric port",
			env:     map[string]string{"SHEETCHECK_SERVER_PORT": "eighty"},
			wantErr: true,
		},
		{
			name:    "google enabled without credentials",
			env:     map[string]string{"SHEETCHECK_GOOGLE_ENABLED": "true"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			path := ""
			if tt.file != "" {
				path = writeConfigFile(t, tt.file)
			}

			cfg, err := LoadFile(path)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			if tt.validateCfg != nil {
				tt.validateCfg(t, cfg)
			}
		})
	}
}

func TestLoad_ConfigFileEnv(t *testing.T) {
	path := writeConfigFile(t, "ingest:\n  header_window: 20\n")
	t.Setenv(ConfigFileEnv, path)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 20, cfg.Ingest.HeaderWindow)
}

func TestLoadFile_MissingFile(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestValidate_Normalizes(t *testing.T) {
	cfg := Default()
	cfg.Logging.Format = "text"
	cfg.Logging.Output = "everywhere"
	cfg.Ingest.Concurrency = 0

	require.NoError(t, cfg.validate())
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "stdout", cfg.Logging.Output)
	assert.Equal(t, DefaultConcurrency, cfg.Ingest.Concurrency)
}

func TestValidate_FileOutputGetsPath(t *testing.T) {
	cfg := Default()
	cfg.Logging.Output = "both"

	require.NoError(t, cfg.validate())
	assert.Equal(t, DefaultLogFile, cfg.Logging.FilePath)
}

func TestDefault_IsValid(t *testing.T) {
	assert.NoError(t, Default().validate())
}

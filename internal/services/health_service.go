package services

import (
	"context"
	"log/slog"
	"runtime"
	"time"

	"sheetcheck/pkg/contracts"
)

// DatasetCounter reports how many datasets are loaded
type DatasetCounter interface {
	DatasetCount() int
}

// ClientCounter reports how many websocket clients are connected
type ClientCounter interface {
	ClientCount() int
}

// HealthService provides health check functionality
type HealthService struct {
	version       string
	datasets      DatasetCounter
	clients       ClientCounter
	googleEnabled bool
	startTime     time.Time
	logger        *slog.Logger
}

// HealthStatus represents the health status response
type HealthStatus struct {
	Status    string                   `json:"status"`
	Timestamp time.Time                `json:"timestamp"`
	Version   string                   `json:"version"`
	Runtime   map[string]interface{}   `json:"runtime,omitempty"`
	Services  map[string]ServiceHealth `json:"services,omitempty"`
}

// ServiceHealth represents individual service health
type ServiceHealth struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Uptime  string `json:"uptime,omitempty"`
}

// SystemStats represents system statistics
type SystemStats struct {
	UptimeSeconds    float64 `json:"uptime_seconds"`
	Datasets         int     `json:"datasets"`
	WebSocketClients int     `json:"websocket_clients"`
	Goroutines       int     `json:"goroutines"`
	GoVersion        string  `json:"go_version"`
	OS               string  `json:"os"`
	Arch             string  `json:"arch"`
}

// NewHealthService creates a health service. datasets and clients may be nil.
func NewHealthService(version string, datasets DatasetCounter, clients ClientCounter, googleEnabled bool, logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}

	logger.Info("HealthService initialized",
		slog.String("version", version),
		slog.Bool("google_enabled", googleEnabled))

	return &HealthService{
		version:       version,
		datasets:      datasets,
		clients:       clients,
		googleEnabled: googleEnabled,
		startTime:     time.Now(),
		logger:        logger,
	}
}

// HealthCheck returns overall health status
func (hs *HealthService) HealthCheck(ctx context.Context) HealthStatus {
	hs.logger.DebugContext(ctx, "HealthCheck: performing health check",
		slog.String("uptime", time.Since(hs.startTime).String()))

	return HealthStatus{
		Status:    "ok",
		Timestamp: time.Now(),
		Version:   hs.version,
	}
}

// ReadinessCheck returns readiness status
func (hs *HealthService) ReadinessCheck(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:    "ready",
		Timestamp: time.Now(),
		Version:   hs.version,
		Services: map[string]ServiceHealth{
			"datasets":  hs.checkDatasetHealth(),
			"websocket": hs.checkWebSocketHealth(),
			"google":    hs.checkGoogleHealth(),
		},
	}

	for name, service := range status.Services {
		if service.Status == "not_ready" {
			status.Status = "not_ready"
			hs.logger.WarnContext(ctx, "ReadinessCheck: service not ready",
				slog.String("service", name),
				slog.String("message", service.Message))
		}
	}

	return status
}

// LivenessCheck returns liveness status
func (hs *HealthService) LivenessCheck(ctx context.Context) HealthStatus {
	return HealthStatus{
		Status:    "alive",
		Timestamp: time.Now(),
		Version:   hs.version,
		Runtime: map[string]interface{}{
			"uptime":     time.Since(hs.startTime).Seconds(),
			"go_version": runtime.Version(),
			"goroutines": runtime.NumGoroutine(),
		},
	}
}

// Version returns version information
func (hs *HealthService) Version() map[string]interface{} {
	info := contracts.GetVersionInfo()
	return map[string]interface{}{
		"version":      hs.version,
		"api_version":  info.APIVersion,
		"build_time":   info.BuildTime,
		"git_commit":   info.GitCommit,
		"go_version":   info.GoVersion,
		"os":           info.OS,
		"arch":         info.Architecture,
		"uptime":       time.Since(hs.startTime).Seconds(),
		"start_time":   hs.startTime.Format(time.RFC3339),
		"current_time": time.Now().Format(time.RFC3339),
	}
}

// SystemStats returns system statistics
func (hs *HealthService) SystemStats(ctx context.Context) SystemStats {
	stats := SystemStats{
		UptimeSeconds: time.Since(hs.startTime).Seconds(),
		Goroutines:    runtime.NumGoroutine(),
		GoVersion:     runtime.Version(),
		OS:            runtime.GOOS,
		Arch:          runtime.GOARCH,
	}
	if hs.datasets != nil {
		stats.Datasets = hs.datasets.DatasetCount()
	}
	if hs.clients != nil {
		stats.WebSocketClients = hs.clients.ClientCount()
	}
	return stats
}

func (hs *HealthService) checkDatasetHealth() ServiceHealth {
	if hs.datasets == nil {
		return ServiceHealth{Status: "not_ready", Message: "dataset service not initialized"}
	}
	return ServiceHealth{Status: "ready", Message: "Dataset service is healthy"}
}

func (hs *HealthService) checkWebSocketHealth() ServiceHealth {
	if hs.clients == nil {
		return ServiceHealth{Status: "disabled"}
	}
	return ServiceHealth{
		Status:  "ready",
		Message: "WebSocket service is healthy",
		Uptime:  time.Since(hs.startTime).String(),
	}
}

func (hs *HealthService) checkGoogleHealth() ServiceHealth {
	if !hs.googleEnabled {
		return ServiceHealth{Status: "disabled", Message: "Google Sheets loading is not configured"}
	}
	return ServiceHealth{Status: "ready"}
}

// GetDetailedHealth returns comprehensive health information
func (hs *HealthService) GetDetailedHealth(ctx context.Context) map[string]interface{} {
	return map[string]interface{}{
		"health":    hs.HealthCheck(ctx),
		"readiness": hs.ReadinessCheck(ctx),
		"liveness":  hs.LivenessCheck(ctx),
		"stats":     hs.SystemStats(ctx),
	}
}

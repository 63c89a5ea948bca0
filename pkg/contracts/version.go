package contracts

import (
	"fmt"
	"runtime"
)

const (
	// Version of the service and the report CLI
	Version = "1.0.0"

	// APIVersion is the version of the HTTP API and websocket messages
	APIVersion = "v1"
)

// Set at build time with -ldflags "-X sheetcheck/pkg/contracts.GitCommit=...".
var (
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// VersionInfo describes the running build
type VersionInfo struct {
	Version      string `json:"version"`
	BuildTime    string `json:"build_time"`
	GitCommit    string `json:"git_commit"`
	GoVersion    string `json:"go_version"`
	OS           string `json:"os"`
	Architecture string `json:"architecture"`
	APIVersion   string `json:"api_version"`
}

func GetVersionInfo() VersionInfo {
	return VersionInfo{
		Version:      Version,
		BuildTime:    BuildTime,
		GitCommit:    GitCommit,
		GoVersion:    runtime.Version(),
		OS:           runtime.GOOS,
		Architecture: runtime.GOARCH,
		APIVersion:   APIVersion,
	}
}

// GetFullVersionString is the --version line of the CLI
func GetFullVersionString() string {
	info := GetVersionInfo()
	return fmt.Sprintf("sheetcheck v%s (built: %s, commit: %s, go: %s, %s/%s)",
		info.Version, info.BuildTime, info.GitCommit, info.GoVersion, info.OS, info.Architecture)
}

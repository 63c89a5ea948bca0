package config

import "time"

// Application constants
const (
	AppName    = "sheetcheck"
	AppTitle   = "Sheet Checker"
	AppVersion = "1.0.0"

	// Rate Limiting
	DefaultRateLimit = 100 // requests per second
	DefaultBurstSize = 50

	// Timeouts
	DefaultRequestTimeout = 60 * time.Second
	WebSocketPingPeriod   = 30 * time.Second
	WebSocketPongWait     = 60 * time.Second

	// Ingest limits
	DefaultHeaderWindow   = 10
	DefaultMaxUploadBytes = 20 << 20 // 20MB
	DefaultMaxDatasets    = 32
	DefaultConcurrency    = 4

	DefaultLogFile = "logs/sheetcheck.log"
)

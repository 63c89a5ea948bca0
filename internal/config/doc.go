// Package config provides configuration management for sheetcheck.
//
// # Configuration Sources
//
// Configuration is built from the following sources, later ones winning:
//
//	1. Default values (Default)
//	2. A YAML file: $SHEETCHECK_CONFIG, ./config.yaml or ./configs/config.yaml
//	3. Environment variables
//
// # Environment Variables
//
// Variables follow the pattern SHEETCHECK_<SECTION>_<FIELD>:
//
//	SHEETCHECK_SERVER_PORT=8080
//	SHEETCHECK_INGEST_DURATION_MODE=MINUTES
//	SHEETCHECK_INGEST_SUMMARY_LABELS=sheet15,totals
//	SHEETCHECK_GOOGLE_CREDENTIALS_FILE=/etc/sheetcheck/sa.json
//	SHEETCHECK_LOGGING_LEVEL=debug
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
package config

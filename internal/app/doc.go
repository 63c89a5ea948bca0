// Package app wires the sheet checker web service together: configuration,
// logging, OpenTelemetry, the websocket hub, the dataset and health services,
// and the chi router that exposes them.
//
// # Initialization Flow
//
//	1. Load configuration (defaults, YAML file, SHEETCHECK_* environment)
//	2. Initialize slog and OpenTelemetry (Prometheus metrics, optional stdout traces)
//	3. Start the websocket hub
//	4. Build the ingestor, dataset store and dataset service
//	5. Enable Google Sheets when configured
//	6. Mount handlers behind the middleware chain
//
// # Usage
//
//	a, err := app.NewApplication()
//	if err != nil {
//	    return err
//	}
//	return a.Run()
//
// Run blocks until SIGINT or SIGTERM, then drains the server, closes every
// dataset workbook, stops the hub and flushes telemetry. Errors are returned
// to the caller; the package never exits the process.
package app

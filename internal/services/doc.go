// Package services implements the business logic layer of Sheet Checker.
// It sits between the HTTP handlers and the sheet loading core, keeping
// dataset state and load orchestration out of the transport layer.
//
// # Available Services
//
//	- Ingestor: picks a sheet from a workbook and runs the sheet loader over it,
//	  tracing and counting each attempt
//	- DatasetService: loads uploads and Google spreadsheets into datasets and
//	  answers record, summary, performance and export queries over them
//	- HealthService: health, readiness and version reporting
//
// # Datasets
//
// Datasets live in an in-memory DatasetStore. A dataset value is never
// changed once stored: switching sheets builds a new value and swaps it in
// under the store's write lock, so readers see either the old record set or
// the new one. Every load, switch, failure and removal is published as a
// dataset event for live clients.
//
// # Error Handling
//
// Load failures are *errors.AppError values from the sheet loader and the
// workbook readers. Unknown datasets yield a NOT_FOUND AppError wrapping
// ErrDatasetNotFound.
package services

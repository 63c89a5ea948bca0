// Package http implements the HTTP handlers of the sheet checker web service.
// Handlers stay thin: they bind and validate input, call the dataset or
// health services, and render JSON with go-chi/render.
//
// # Routes
//
//	GET    /api/datasets                          list loaded datasets
//	POST   /api/datasets                          upload a workbook (multipart "file")
//	POST   /api/datasets/google                   load a Google spreadsheet
//	GET    /api/datasets/{id}                     dataset info
//	DELETE /api/datasets/{id}                     drop a dataset
//	PUT    /api/datasets/{id}/sheet               reload from another sheet
//	GET    /api/datasets/{id}/records             filtered records and totals
//	GET    /api/datasets/{id}/summary             totals and status breakdown
//	GET    /api/datasets/{id}/developers          filter options
//	GET    /api/datasets/{id}/performance         one developer's breakdown and charts
//	GET    /api/datasets/{id}/performance/export.csv
//	GET    /api/datasets/{id}/export.csv
//
// Record filters arrive on the query string: developer, status,
// productivity, q, ticket, start, end, exclude_leave.
//
// # Errors
//
// Failures are written as RFC 7807 problem details by the shared
// errors.ErrorHandler. Sheet load failures map to 422 with the error type
// as the problem type.
package http

// Package dataprocessing turns loosely structured timesheet exports into work
// records and answers questions about them.
//
// # Architecture
//
// The package is organized into four parts:
//
// 1. Parsing: header normalization and value parsers for dates, durations,
// tickets and productive hours
// 2. Loading: header detection, row classification and record building,
// driven by SheetLoader
// 3. Filtering: FilterCriteria turned into predicates
// 4. Aggregation: totals, status breakdowns, task groups and chart series
//
// # Usage
//
// Loading a sheet grid:
//
//	loader := dataprocessing.NewSheetLoader(logger, dataprocessing.LoaderOptions{})
//	result, err := loader.Load(ctx, "March", grid, domain.DurationHours)
//	if err != nil {
//	    // errors.IsType(err, errors.ErrTypeMissingColumns) etc.
//	}
//
// Filtering and summarising:
//
//	rows := dataprocessing.ApplyFilters(result.Records, criteria)
//	totals := dataprocessing.ComputeTotals(rows)
//	charts := dataprocessing.PrepareCharts(rows, totals, dataprocessing.StatusBreakdown(rows))
//
// # Data Flow
//
//	Grid → Header detection → Raw rows → Separator filter → WorkRecords → Filters → Aggregates
//
// # Header Detection
//
// Strategies are tried in order: object-keys (first row is the header),
// grid-text (a row mentioning every required column) and best-partial (the
// row with the most exact column names, so a header lacking a column is
// reported as missing columns rather than not found).
//
// Everything except SheetLoader is a pure function over its inputs.
package dataprocessing

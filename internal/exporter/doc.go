// Package exporter writes work records and task groups as CSV.
//
// Output starts with a UTF-8 BOM so Excel opens it with the right encoding.
// Durations are written twice: as "Xh Ym" for people and as whole minutes for
// further processing.
//
//	w := exporter.NewCSVWriter(logger)
//	err := w.ExportRecords(rw, records)
package exporter

// Package workbook reads spreadsheet sources into sheet grids.
//
// A grid is the row-major cell matrix of one sheet. Cells are whatever the
// source renders: formatted text for xlsx and Google Sheets, raw text for CSV.
package workbook

import (
	"bytes"
	"context"
	"io"
	"path/filepath"
	"strings"

	apperrors "sheetcheck/internal/errors"
)

// Workbook is an opened spreadsheet source.
type Workbook interface {
	// Name is the file name or spreadsheet title.
	Name() string
	// SheetNames lists sheets in workbook order.
	SheetNames() []string
	// Grid returns the cells of one sheet.
	Grid(ctx context.Context, sheet string) ([][]any, error)
	Close() error
}

// Format is a supported upload format.
type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatCSV  Format = "csv"
)

// DetectFormat picks the format from a file name. Unknown extensions are read as xlsx.
func DetectFormat(name string) Format {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv", ".txt":
		return FormatCSV
	default:
		return FormatXLSX
	}
}

// Open reads an uploaded file. The format follows the file name.
func Open(name string, data []byte) (Workbook, error) {
	if len(data) == 0 {
		return nil, apperrors.NewMalformedWorkbookError(io.ErrUnexpectedEOF)
	}
	switch DetectFormat(name) {
	case FormatCSV:
		return OpenCSV(name, bytes.NewReader(data))
	default:
		return OpenExcel(name, bytes.NewReader(data))
	}
}

// hasSheet reports whether names contains sheet.
func hasSheet(names []string, sheet string) bool {
	for _, n := range names {
		if n == sheet {
			return true
		}
	}
	return false
}

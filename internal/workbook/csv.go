package workbook

import (
	"bufio"
	"bytes"
	"context"
	"encoding/csv"
	"io"
	"path/filepath"
	"strings"

	apperrors "sheetcheck/internal/errors"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVWorkbook is a single-sheet workbook read from CSV.
// The sheet is named after the file without its extension.
type CSVWorkbook struct {
	name  string
	sheet string
	rows  [][]string
}

// OpenCSV reads every record from r. Rows may have different lengths.
func OpenCSV(name string, r io.Reader) (*CSVWorkbook, error) {
	br := bufio.NewReader(r)
	if head, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}

	reader := csv.NewReader(br)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, apperrors.NewMalformedWorkbookError(err).WithContext("file", name)
	}

	return &CSVWorkbook{name: name, sheet: sheetNameFromFile(name), rows: rows}, nil
}

func (w *CSVWorkbook) Name() string { return w.name }

func (w *CSVWorkbook) SheetNames() []string {
	return []string{w.sheet}
}

func (w *CSVWorkbook) Grid(ctx context.Context, sheet string) ([][]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if sheet != w.sheet {
		return nil, apperrors.NewSheetNotFoundError(sheet)
	}
	return toGrid(w.rows), nil
}

func (w *CSVWorkbook) Close() error { return nil }

func sheetNameFromFile(name string) string {
	base := filepath.Base(name)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if base == "" || base == "." {
		return "Data"
	}
	return base
}

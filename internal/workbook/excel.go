package workbook

import (
	"context"
	"io"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	apperrors "sheetcheck/internal/errors"
)

// ExcelWorkbook reads xlsx files with excelize.
type ExcelWorkbook struct {
	name string
	file *excelize.File
}

// OpenExcel opens an xlsx workbook from r.
func OpenExcel(name string, r io.Reader) (*ExcelWorkbook, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, apperrors.NewMalformedWorkbookError(err).WithContext("file", name)
	}
	return &ExcelWorkbook{name: name, file: f}, nil
}

// OpenExcelFile opens an xlsx workbook from disk. The workbook is named after the file's base name.
func OpenExcelFile(path string) (*ExcelWorkbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, apperrors.NewMalformedWorkbookError(err).WithContext("file", path)
	}
	return &ExcelWorkbook{name: filepath.Base(path), file: f}, nil
}

func (w *ExcelWorkbook) Name() string { return w.name }

func (w *ExcelWorkbook) SheetNames() []string {
	return w.file.GetSheetList()
}

// Grid returns the formatted cell text of sheet, as a spreadsheet shows it.
func (w *ExcelWorkbook) Grid(ctx context.Context, sheet string) ([][]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !hasSheet(w.SheetNames(), sheet) {
		return nil, apperrors.NewSheetNotFoundError(sheet)
	}

	rows, err := w.file.GetRows(sheet)
	if err != nil {
		return nil, apperrors.NewMalformedWorkbookError(err).WithContext(apperrors.ContextSheet, sheet)
	}
	return toGrid(rows), nil
}

func (w *ExcelWorkbook) Close() error {
	return w.file.Close()
}

// toGrid copies rows of any cell type into the loader's grid shape.
func toGrid[T any](rows [][]T) [][]any {
	grid := make([][]any, len(rows))
	for i, row := range rows {
		cells := make([]any, len(row))
		for j, c := range row {
			cells[j] = c
		}
		grid[i] = cells
	}
	return grid
}

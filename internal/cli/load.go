package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"sheetcheck/internal/dataprocessing"
	"sheetcheck/internal/services"
	"sheetcheck/internal/workbook"
)

// loadedFile is one input file read into records.
type loadedFile struct {
	Path   string                    `json:"file"`
	Sheets []string                  `json:"sheets"`
	Result *dataprocessing.LoadResult `json:"-"`
}

// openWorkbook reads a local xlsx or csv file. Workbooks are opened in place; csv files are read whole.
func openWorkbook(path string) (workbook.Workbook, error) {
	if workbook.DetectFormat(path) == workbook.FormatXLSX {
		return workbook.OpenExcelFile(path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return workbook.Open(filepath.Base(path), data)
}

// loadFiles expands directories and loads every file concurrently, at most app.Concurrency at a time.
// Results keep the order of paths. The first failure cancels the rest.
func (app *App) loadFiles(ctx context.Context, args []string, lf loadFlags) ([]loadedFile, error) {
	paths, err := app.Discovery.Expand(args)
	if err != nil {
		return nil, err
	}

	mode := app.Ingestor.Mode(lf.timeUnit)
	out := make([]loadedFile, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	limit := app.Concurrency
	if limit <= 0 {
		limit = 1
	}
	g.SetLimit(limit)

	for i, path := range paths {
		g.Go(func() error {
			wb, err := openWorkbook(path)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			defer wb.Close()

			result, err := app.Ingestor.Load(ctx, wb, services.SourceFile, lf.sheet, mode)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}

			app.Logger.DebugContext(ctx, "File loaded",
				slog.String("file", path),
				slog.String("sheet", result.Sheet),
				slog.Int("records", len(result.Records)))

			out[i] = loadedFile{Path: path, Sheets: app.Ingestor.Candidates(wb), Result: result}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

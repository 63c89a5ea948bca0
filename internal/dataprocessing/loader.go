package dataprocessing

import (
	"context"
	"log/slog"

	apperrors "sheetcheck/internal/errors"
	"sheetcheck/pkg/contracts/domain"
)

// DefaultHeaderWindow is how many leading rows are searched for the header.
const DefaultHeaderWindow = 10

// LoaderOptions configures a SheetLoader. Zero values select the defaults.
type LoaderOptions struct {
	HeaderWindow int
	DurationMode domain.DurationMode
	Strategies   []HeaderStrategy
}

// LoadStats describes how a sheet was read.
type LoadStats struct {
	HeaderRow         int    `json:"header_row"`
	Strategy          string `json:"strategy"`
	DataRows          int    `json:"data_rows"`
	SeparatorsSkipped int    `json:"separators_skipped"`
	RowsDropped       int    `json:"rows_dropped"`
	DurationFallbacks int    `json:"duration_fallbacks"`
}

// LoadResult is the outcome of a successful sheet load.
type LoadResult struct {
	Sheet   string              `json:"sheet"`
	Records []domain.WorkRecord `json:"records"`
	Stats   LoadStats           `json:"stats"`
}

// SheetLoader turns a sheet grid into work records.
type SheetLoader struct {
	logger     *slog.Logger
	window     int
	mode       domain.DurationMode
	strategies []HeaderStrategy
}

// NewSheetLoader creates a sheet loader
func NewSheetLoader(logger *slog.Logger, opts LoaderOptions) *SheetLoader {
	if logger == nil {
		logger = slog.Default()
	}
	l := &SheetLoader{
		logger:     logger.With(slog.String("component", "sheet_loader")),
		window:     opts.HeaderWindow,
		mode:       opts.DurationMode,
		strategies: opts.Strategies,
	}
	if l.window <= 0 {
		l.window = DefaultHeaderWindow
	}
	if l.mode == "" {
		l.mode = domain.DurationHours
	}
	if len(l.strategies) == 0 {
		l.strategies = DefaultHeaderStrategies()
	}
	return l
}

// Load reads the grid of one sheet. mode overrides the loader's duration mode
// when non-empty. Failures are *errors.AppError values carrying the sheet name.
func (l *SheetLoader) Load(ctx context.Context, sheet string, grid [][]any, mode domain.DurationMode) (*LoadResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if mode == "" {
		mode = l.mode
	}
	log := l.logger.With(slog.String("sheet", sheet))

	grid = padGrid(grid)
	if len(grid) == 0 || len(rowsAfter(grid, 0, headerKeys(grid[0]))) == 0 {
		return nil, apperrors.NewEmptySheetError().WithContext(apperrors.ContextSheet, sheet)
	}

	header, ok := l.detectHeader(grid)
	if !ok {
		log.Warn("Header row not found", slog.Int("window", l.window))
		return nil, apperrors.NewHeaderNotFoundError(l.window).WithContext(apperrors.ContextSheet, sheet)
	}
	log.Debug("Header row detected",
		slog.String("strategy", header.Strategy),
		slog.Int("header_row", header.HeaderRow))

	if len(header.Rows) == 0 {
		return nil, apperrors.NewNoDataRowsError().WithContext(apperrors.ContextSheet, sheet)
	}

	if missing := missingColumns(header.Keys); len(missing) > 0 {
		found := foundColumns(header.Keys)
		log.Warn("Required columns missing",
			slog.Any("missing", missing),
			slog.Any("found", found))
		return nil, apperrors.NewMissingColumnsError(missing, found).WithContext(apperrors.ContextSheet, sheet)
	}

	stats := LoadStats{
		HeaderRow: header.HeaderRow,
		Strategy:  header.Strategy,
		DataRows:  len(header.Rows),
	}
	records := make([]domain.WorkRecord, 0, len(header.Rows))
	for _, row := range header.Rows {
		if IsDateSeparatorRow(row) {
			stats.SeparatorsSkipped++
			continue
		}
		rec, source := buildRecord(row, mode)
		if rec.Developer == "" || rec.Task == "" {
			stats.RowsDropped++
			continue
		}
		if source == durationUnparsedFallback {
			stats.DurationFallbacks++
			log.Debug("Time Spent not understood, using productive hours",
				slog.Any("value", row[domain.ColumnTimeSpent]),
				slog.Float64("productive_hours", rec.ProductiveHours))
		}
		records = append(records, rec)
	}

	if len(records) == 0 {
		return nil, apperrors.NewNoDataRowsError().WithContext(apperrors.ContextSheet, sheet)
	}

	log.Info("Sheet loaded",
		slog.Int("records", len(records)),
		slog.Int("separators_skipped", stats.SeparatorsSkipped),
		slog.Int("rows_dropped", stats.RowsDropped),
		slog.Int("duration_fallbacks", stats.DurationFallbacks))

	return &LoadResult{Sheet: sheet, Records: records, Stats: stats}, nil
}

func (l *SheetLoader) detectHeader(grid [][]any) (DetectedHeader, bool) {
	for _, s := range l.strategies {
		if h, ok := s.Detect(grid, l.window); ok {
			return h, true
		}
	}
	return DetectedHeader{}, false
}

// padGrid returns a copy of grid with every row extended to the widest row.
// Trailing blank rows are dropped.
func padGrid(grid [][]any) [][]any {
	end := len(grid)
	for end > 0 && isBlankRow(grid[end-1]) {
		end--
	}
	width := 0
	for _, row := range grid[:end] {
		if len(row) > width {
			width = len(row)
		}
	}
	out := make([][]any, end)
	for i, row := range grid[:end] {
		padded := make([]any, width)
		for j := range padded {
			if j < len(row) {
				padded[j] = row[j]
			} else {
				padded[j] = ""
			}
		}
		out[i] = padded
	}
	return out
}

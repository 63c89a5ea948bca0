package services

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"sheetcheck/internal/config"
	"sheetcheck/internal/dataprocessing"
	apperrors "sheetcheck/internal/errors"
	"sheetcheck/internal/infrastructure"
	"sheetcheck/internal/workbook"
	"sheetcheck/pkg/contracts/domain"
)

// Workbook sources, used as the source label on load metrics.
const (
	SourceUpload = "upload"
	SourceGoogle = "google"
	SourceFile   = "file"
)

// Ingestor resolves which sheet of a workbook to read and runs the sheet
// loader over it, tracing and counting every attempt.
type Ingestor struct {
	loader  *dataprocessing.SheetLoader
	labels  []string
	mode    domain.DurationMode
	tracer  trace.Tracer
	metrics *infrastructure.BusinessMetrics
	logger  *slog.Logger
}

// NewIngestor creates an ingestor from the ingest settings. tracer and metrics may be nil.
func NewIngestor(cfg config.IngestConfig, tracer trace.Tracer, metrics *infrastructure.BusinessMetrics, logger *slog.Logger) *Ingestor {
	if logger == nil {
		logger = slog.Default()
	}
	if tracer == nil {
		tracer = otel.Tracer(infrastructure.MeterName)
	}

	mode := domain.ParseDurationMode(cfg.DurationMode)
	return &Ingestor{
		loader: dataprocessing.NewSheetLoader(logger, dataprocessing.LoaderOptions{
			HeaderWindow: cfg.HeaderWindow,
			DurationMode: mode,
		}),
		labels:  cfg.SummaryLabels,
		mode:    mode,
		tracer:  tracer,
		metrics: metrics,
		logger:  infrastructure.WithComponent(logger, "ingestor"),
	}
}

// Mode resolves a requested duration mode. Empty selects the configured default.
func (in *Ingestor) Mode(requested string) domain.DurationMode {
	if requested == "" {
		return in.mode
	}
	return domain.ParseDurationMode(requested)
}

// Candidates lists the sheets of wb that may hold timesheet data.
// A CSV file has a single sheet named after the file and is always a candidate.
func (in *Ingestor) Candidates(wb workbook.Workbook) []string {
	names := wb.SheetNames()
	candidates := dataprocessing.CandidateSheets(names, in.labels...)
	if len(candidates) == 0 && len(names) == 1 {
		if _, ok := wb.(*workbook.CSVWorkbook); ok {
			return names
		}
	}
	return candidates
}

// Resolve picks the sheet to load: the requested one, or the first candidate.
func (in *Ingestor) Resolve(wb workbook.Workbook, requested string) (string, error) {
	if requested != "" {
		return dataprocessing.SelectSheet(wb.SheetNames(), requested, in.labels...)
	}
	candidates := in.Candidates(wb)
	if len(candidates) == 0 {
		return "", apperrors.NewNoDataSheetsError()
	}
	return candidates[0], nil
}

// Load reads one sheet of wb into work records.
func (in *Ingestor) Load(ctx context.Context, wb workbook.Workbook, source, sheet string, mode domain.DurationMode) (*dataprocessing.LoadResult, error) {
	start := time.Now()
	ctx, span := in.tracer.Start(ctx, "sheet.load", trace.WithAttributes(
		attribute.String("workbook", wb.Name()),
		attribute.String("source", source),
		attribute.String("duration_mode", string(mode)),
	))
	defer span.End()

	result, err := in.load(ctx, wb, sheet, mode)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		infrastructure.RecordSheetLoad(ctx, in.metrics, source, infrastructure.OutcomeFailure, 0, time.Since(start))
		in.logger.WarnContext(ctx, "Sheet load failed",
			slog.String("workbook", wb.Name()),
			slog.String("sheet", sheet),
			slog.String("error_type", string(apperrors.TypeOf(err))),
			slog.String("error", err.Error()))
		return nil, err
	}

	span.SetAttributes(
		attribute.String("sheet", result.Sheet),
		attribute.Int("records", len(result.Records)),
		attribute.Int("header_row", result.Stats.HeaderRow),
	)
	infrastructure.RecordSheetLoad(ctx, in.metrics, source, infrastructure.OutcomeSuccess, len(result.Records), time.Since(start))
	return result, nil
}

func (in *Ingestor) load(ctx context.Context, wb workbook.Workbook, requested string, mode domain.DurationMode) (*dataprocessing.LoadResult, error) {
	sheet, err := in.Resolve(wb, requested)
	if err != nil {
		return nil, err
	}

	grid, err := wb.Grid(ctx, sheet)
	if err != nil {
		return nil, err
	}
	infrastructure.AddSpanEvent(ctx, "grid.read",
		attribute.String("sheet", sheet),
		attribute.Int("rows", len(grid)))

	return in.loader.Load(ctx, sheet, grid, mode)
}

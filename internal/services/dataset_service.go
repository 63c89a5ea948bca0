package services

import (
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"golang.org/x/crypto/blake2b"
	"google.golang.org/api/sheets/v4"

	"sheetcheck/internal/dataprocessing"
	apperrors "sheetcheck/internal/errors"
	"sheetcheck/internal/exporter"
	"sheetcheck/internal/infrastructure"
	"sheetcheck/internal/workbook"
	"sheetcheck/pkg/contracts/domain"
	"sheetcheck/pkg/contracts/events"
)

// EventPublisher receives dataset lifecycle events. The websocket hub implements it.
type EventPublisher interface {
	Publish(ctx context.Context, msgType events.MessageType, data interface{})
}

type discardPublisher struct{}

func (discardPublisher) Publish(context.Context, events.MessageType, interface{}) {}

// LoadOptions select the sheet and duration mode of a load. Empty values use the defaults.
type LoadOptions struct {
	Sheet        string
	DurationMode string
}

// RecordsResult is a filtered record set with its totals.
type RecordsResult struct {
	Records []domain.WorkRecord `json:"records"`
	Totals  domain.Totals       `json:"totals"`
	Count   int                 `json:"count"`
	Total   int                 `json:"total"`
}

// SummaryResult holds the totals and status breakdown of a filtered record set.
type SummaryResult struct {
	Totals   domain.Totals        `json:"totals"`
	Statuses []domain.StatusCount `json:"statuses"`
}

// FilterOptions lists the values a client can filter on.
type FilterOptions struct {
	Developers []string         `json:"developers"`
	Statuses   []string         `json:"statuses"`
	ThisMonth  domain.DateRange `json:"this_month"`
}

// PerformanceResult is one developer's breakdown and its chart series.
type PerformanceResult struct {
	Performance domain.DeveloperPerformance `json:"performance"`
	Charts      domain.ChartData            `json:"charts"`
}

// DatasetService loads workbooks into datasets and answers queries over them.
type DatasetService struct {
	store     *DatasetStore
	ingestor  *Ingestor
	exporter  *exporter.CSVWriter
	publisher EventPublisher
	metrics   *infrastructure.BusinessMetrics
	maxUpload int64
	logger    *slog.Logger

	googleMu sync.RWMutex
	google   *sheets.Service

	// reloadMu serializes sheet switches with each other and with workbook
	// release, so a workbook is never closed while a sheet is being read.
	reloadMu sync.Mutex
	now      func() time.Time
}

// NewDatasetService creates a dataset service. publisher and metrics may be nil.
func NewDatasetService(store *DatasetStore, ingestor *Ingestor, maxUpload int64, publisher EventPublisher, metrics *infrastructure.BusinessMetrics, logger *slog.Logger) *DatasetService {
	if logger == nil {
		logger = slog.Default()
	}
	if publisher == nil {
		publisher = discardPublisher{}
	}

	logger = infrastructure.WithComponent(logger, "dataset_service")
	logger.Info("DatasetService initialized",
		slog.Int64("max_upload_bytes", maxUpload),
		slog.Int("max_datasets", store.max))

	return &DatasetService{
		store:     store,
		ingestor:  ingestor,
		exporter:  exporter.NewCSVWriter(logger),
		publisher: publisher,
		metrics:   metrics,
		maxUpload: maxUpload,
		logger:    logger,
		now:       time.Now,
	}
}

// SetGoogleService enables loading from Google Sheets.
func (s *DatasetService) SetGoogleService(svc *sheets.Service) {
	s.googleMu.Lock()
	s.google = svc
	s.googleMu.Unlock()
}

// GoogleEnabled reports whether Google Sheets loading is available.
func (s *DatasetService) GoogleEnabled() bool {
	s.googleMu.RLock()
	defer s.googleMu.RUnlock()
	return s.google != nil
}

// Fingerprint returns the hex BLAKE2b-256 digest of data.
func Fingerprint(data []byte) string {
	sum := blake2b.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// LoadUpload opens an uploaded workbook and loads one of its sheets as a new dataset.
func (s *DatasetService) LoadUpload(ctx context.Context, fileName string, data []byte, opts LoadOptions) (*DatasetInfo, error) {
	if s.maxUpload > 0 && int64(len(data)) > s.maxUpload {
		return nil, fmt.Errorf("%w: %d bytes", ErrUploadTooLarge, len(data))
	}

	wb, err := workbook.Open(fileName, data)
	if err != nil {
		s.publishFailure(ctx, "", fileName, opts.Sheet, err)
		return nil, err
	}

	return s.create(ctx, wb, SourceUpload, fileName, Fingerprint(data), opts)
}

// LoadGoogle opens a Google Sheets spreadsheet and loads one of its sheets as a new dataset.
func (s *DatasetService) LoadGoogle(ctx context.Context, spreadsheetID string, opts LoadOptions) (*DatasetInfo, error) {
	s.googleMu.RLock()
	svc := s.google
	s.googleMu.RUnlock()
	if svc == nil {
		return nil, ErrGoogleDisabled
	}

	wb, err := workbook.OpenGoogle(ctx, svc, spreadsheetID)
	if err != nil {
		s.publishFailure(ctx, "", spreadsheetID, opts.Sheet, err)
		return nil, err
	}

	// Remote content has no stable bytes, so every load gets its own fingerprint.
	fingerprint := Fingerprint([]byte(spreadsheetID + ":" + strconv.FormatInt(s.now().UnixNano(), 10)))
	return s.create(ctx, wb, SourceGoogle, wb.Name(), fingerprint, opts)
}

func (s *DatasetService) create(ctx context.Context, wb workbook.Workbook, source, fileName, fingerprint string, opts LoadOptions) (*DatasetInfo, error) {
	mode := s.ingestor.Mode(opts.DurationMode)
	result, err := s.ingestor.Load(ctx, wb, source, opts.Sheet, mode)
	if err != nil {
		if cerr := wb.Close(); cerr != nil {
			s.logger.WarnContext(ctx, "Failed to close workbook",
				slog.String("file_name", fileName),
				slog.String("error", cerr.Error()))
		}
		s.publishFailure(ctx, "", fileName, opts.Sheet, err)
		return nil, err
	}

	ds := &Dataset{
		ID:          uuid.NewString(),
		FileName:    fileName,
		Source:      source,
		Fingerprint: fingerprint,
		Sheets:      s.ingestor.Candidates(wb),
		AllSheets:   wb.SheetNames(),
		workbook:    wb,
	}
	ds = ds.withLoad(result, mode, s.now())

	s.reloadMu.Lock()
	evicted := s.store.Put(ds)
	for _, old := range evicted {
		s.logger.InfoContext(ctx, "Dataset evicted",
			slog.String("dataset_id", old.ID),
			slog.String("file_name", old.FileName))
		s.release(ctx, old)
	}
	s.reloadMu.Unlock()
	if s.metrics != nil {
		s.metrics.DatasetsActive.Add(ctx, 1)
	}

	s.logger.InfoContext(ctx, "Dataset loaded",
		slog.String("dataset_id", ds.ID),
		slog.String("file_name", fileName),
		slog.String("source", source),
		slog.String("sheet", ds.Sheet),
		slog.Int("records", len(ds.Records)))
	s.publishLoaded(ctx, ds)

	info := ds.Info()
	return &info, nil
}

// SelectSheet reloads a dataset from another sheet of its workbook. On
// failure the current records stay in place.
func (s *DatasetService) SelectSheet(ctx context.Context, id string, opts LoadOptions) (*DatasetInfo, error) {
	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()

	ds, ok := s.store.Get(id)
	if !ok {
		return nil, datasetNotFound(id)
	}

	mode := ds.Mode
	if opts.DurationMode != "" {
		mode = s.ingestor.Mode(opts.DurationMode)
	}

	result, err := s.ingestor.Load(ctx, ds.workbook, ds.Source, opts.Sheet, mode)
	if err != nil {
		s.publishFailure(ctx, ds.ID, ds.FileName, opts.Sheet, err)
		return nil, err
	}

	next := ds.withLoad(result, mode, s.now())
	if !s.store.Replace(next) {
		return nil, datasetNotFound(id)
	}

	s.logger.InfoContext(ctx, "Dataset sheet switched",
		slog.String("dataset_id", id),
		slog.String("from", ds.Sheet),
		slog.String("to", next.Sheet),
		slog.Int("records", len(next.Records)))
	s.publishLoaded(ctx, next)

	info := next.Info()
	return &info, nil
}

// Delete removes a dataset and closes its workbook.
func (s *DatasetService) Delete(ctx context.Context, id string) error {
	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()

	ds, ok := s.store.Delete(id)
	if !ok {
		return datasetNotFound(id)
	}
	s.logger.InfoContext(ctx, "Dataset deleted", slog.String("dataset_id", id))
	s.release(ctx, ds)
	return nil
}

// Close releases every dataset. Used on shutdown.
func (s *DatasetService) Close(ctx context.Context) {
	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()

	for _, ds := range s.store.List() {
		if _, ok := s.store.Delete(ds.ID); ok {
			s.release(ctx, ds)
		}
	}
}

func (s *DatasetService) release(ctx context.Context, ds *Dataset) {
	if ds.workbook != nil {
		if err := ds.workbook.Close(); err != nil {
			s.logger.WarnContext(ctx, "Failed to close workbook",
				slog.String("dataset_id", ds.ID),
				slog.String("error", err.Error()))
		}
	}
	if s.metrics != nil {
		s.metrics.DatasetsActive.Add(ctx, -1)
	}
	s.publisher.Publish(ctx, events.MessageTypeDatasetDeleted, events.DatasetEvent{
		DatasetID: ds.ID,
		FileName:  ds.FileName,
		Sheet:     ds.Sheet,
	})
}

func (s *DatasetService) publishLoaded(ctx context.Context, ds *Dataset) {
	totals := ds.Totals
	s.publisher.Publish(ctx, events.MessageTypeDatasetLoaded, events.DatasetEvent{
		DatasetID: ds.ID,
		FileName:  ds.FileName,
		Sheet:     ds.Sheet,
		Records:   len(ds.Records),
		Totals:    &totals,
	})
}

func (s *DatasetService) publishFailure(ctx context.Context, id, fileName, sheet string, err error) {
	s.publisher.Publish(ctx, events.MessageTypeDatasetFailed, events.DatasetEvent{
		DatasetID: id,
		FileName:  fileName,
		Sheet:     sheet,
		ErrorCode: string(apperrors.TypeOf(err)),
		Error:     err.Error(),
	})
}

// Get returns the current version of a dataset.
func (s *DatasetService) Get(id string) (*Dataset, error) {
	ds, ok := s.store.Get(id)
	if !ok {
		return nil, datasetNotFound(id)
	}
	return ds, nil
}

// Info describes a dataset.
func (s *DatasetService) Info(id string) (*DatasetInfo, error) {
	ds, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	info := ds.Info()
	return &info, nil
}

// List describes every loaded dataset, oldest first.
func (s *DatasetService) List() []DatasetInfo {
	datasets := s.store.List()
	out := make([]DatasetInfo, 0, len(datasets))
	for _, ds := range datasets {
		out = append(out, ds.Info())
	}
	return out
}

// Records returns the records matching c with their totals.
func (s *DatasetService) Records(id string, c domain.FilterCriteria) (*RecordsResult, error) {
	ds, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	filtered := dataprocessing.ApplyFilters(ds.Records, c)
	return &RecordsResult{
		Records: filtered,
		Totals:  dataprocessing.ComputeTotals(filtered),
		Count:   len(filtered),
		Total:   len(ds.Records),
	}, nil
}

// Summary returns totals and the status breakdown of the records matching c.
func (s *DatasetService) Summary(id string, c domain.FilterCriteria) (*SummaryResult, error) {
	ds, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	filtered := dataprocessing.ApplyFilters(ds.Records, c)
	return &SummaryResult{
		Totals:   dataprocessing.ComputeTotals(filtered),
		Statuses: dataprocessing.StatusBreakdown(filtered),
	}, nil
}

// Filters lists the developers and statuses present in a dataset.
func (s *DatasetService) Filters(id string) (*FilterOptions, error) {
	ds, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	return &FilterOptions{
		Developers: dataprocessing.UniqueDevelopers(ds.Records),
		Statuses:   dataprocessing.UniqueStatuses(ds.Records),
		ThisMonth:  domain.MonthRange(s.now()),
	}, nil
}

// Performance returns one developer's breakdown and chart series.
func (s *DatasetService) Performance(id, developer string, c domain.FilterCriteria, groupByTask bool) (*PerformanceResult, error) {
	ds, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	perf := dataprocessing.DeveloperPerformance(ds.Records, developer, c, groupByTask)
	return &PerformanceResult{
		Performance: perf,
		Charts:      dataprocessing.PrepareCharts(perf.Records, perf.Totals, perf.Statuses),
	}, nil
}

// Export writes the records of ds matching c as CSV. Callers resolve ds once
// with Get so the export and its ExportETag describe the same version.
func (s *DatasetService) Export(ctx context.Context, ds *Dataset, c domain.FilterCriteria, out io.Writer) error {
	records := dataprocessing.ApplyFilters(ds.Records, c)
	if err := s.exporter.ExportRecords(out, records); err != nil {
		return fmt.Errorf("export records: %w", err)
	}
	s.countExport(ctx, "records")
	return nil
}

// ExportTaskGroups writes one developer's task groups from ds as CSV.
func (s *DatasetService) ExportTaskGroups(ctx context.Context, ds *Dataset, developer string, c domain.FilterCriteria, out io.Writer) error {
	perf := dataprocessing.DeveloperPerformance(ds.Records, developer, c, true)
	if err := s.exporter.ExportTaskGroups(out, perf.Groups); err != nil {
		return fmt.Errorf("export task groups: %w", err)
	}
	s.countExport(ctx, "task_groups")
	return nil
}

func (s *DatasetService) countExport(ctx context.Context, kind string) {
	if s.metrics != nil {
		s.metrics.ExportsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", kind)))
	}
}

// ExportETag derives a strong entity tag for an export of this dataset
// version. variant distinguishes exports of the same version, e.g. the raw
// query string.
func (ds *Dataset) ExportETag(variant string) string {
	sum := blake2b.Sum256([]byte(fmt.Sprintf("%s|%s|%s|%d|%s", ds.Fingerprint, ds.Sheet, ds.Mode, ds.LoadedAt.UnixNano(), variant)))
	return `"` + hex.EncodeToString(sum[:16]) + `"`
}

// DatasetCount returns the number of loaded datasets.
func (s *DatasetService) DatasetCount() int {
	return s.store.Len()
}

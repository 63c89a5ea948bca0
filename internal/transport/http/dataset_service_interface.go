package http

import (
	"context"
	"io"

	"sheetcheck/internal/services"
	"sheetcheck/pkg/contracts/domain"
)

// DatasetServiceInterface defines the dataset operations the HTTP layer needs
type DatasetServiceInterface interface {
	LoadUpload(ctx context.Context, fileName string, data []byte, opts services.LoadOptions) (*services.DatasetInfo, error)
	LoadGoogle(ctx context.Context, spreadsheetID string, opts services.LoadOptions) (*services.DatasetInfo, error)
	SelectSheet(ctx context.Context, id string, opts services.LoadOptions) (*services.DatasetInfo, error)
	Delete(ctx context.Context, id string) error

	Get(id string) (*services.Dataset, error)
	Info(id string) (*services.DatasetInfo, error)
	List() []services.DatasetInfo
	Records(id string, c domain.FilterCriteria) (*services.RecordsResult, error)
	Summary(id string, c domain.FilterCriteria) (*services.SummaryResult, error)
	Filters(id string) (*services.FilterOptions, error)
	Performance(id, developer string, c domain.FilterCriteria, groupByTask bool) (*services.PerformanceResult, error)

	Export(ctx context.Context, ds *services.Dataset, c domain.FilterCriteria, out io.Writer) error
	ExportTaskGroups(ctx context.Context, ds *services.Dataset, developer string, c domain.FilterCriteria, out io.Writer) error
}

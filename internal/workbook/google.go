package workbook

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	apperrors "sheetcheck/internal/errors"
)

// NewSheetsService creates a Sheets API client from a service account key file.
// Extra options are appended, so tests can point the client at a fake endpoint.
func NewSheetsService(ctx context.Context, credentialsFile string, opts ...option.ClientOption) (*sheets.Service, error) {
	var clientOpts []option.ClientOption
	if credentialsFile != "" {
		credentialsJSON, err := os.ReadFile(credentialsFile)
		if err != nil {
			return nil, apperrors.NewConfigError("failed to read Google credentials", err)
		}
		clientOpts = append(clientOpts,
			option.WithCredentialsJSON(credentialsJSON),
			option.WithScopes(sheets.SpreadsheetsReadonlyScope))
	}
	clientOpts = append(clientOpts, opts...)

	svc, err := sheets.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, apperrors.NewConfigError("failed to create sheets service", err)
	}
	return svc, nil
}

// GoogleWorkbook reads a Google Sheets spreadsheet. Sheet values are fetched on demand.
type GoogleWorkbook struct {
	svc    *sheets.Service
	id     string
	title  string
	sheets []string
}

// OpenGoogle fetches the spreadsheet metadata.
func OpenGoogle(ctx context.Context, svc *sheets.Service, spreadsheetID string) (*GoogleWorkbook, error) {
	resp, err := svc.Spreadsheets.Get(spreadsheetID).
		Fields("properties.title", "sheets.properties.title").
		Context(ctx).
		Do()
	if err != nil {
		return nil, googleError(err, fmt.Sprintf("spreadsheet %s", spreadsheetID))
	}

	wb := &GoogleWorkbook{svc: svc, id: spreadsheetID, title: spreadsheetID}
	if resp.Properties != nil && resp.Properties.Title != "" {
		wb.title = resp.Properties.Title
	}
	for _, s := range resp.Sheets {
		if s.Properties != nil {
			wb.sheets = append(wb.sheets, s.Properties.Title)
		}
	}
	return wb, nil
}

func (w *GoogleWorkbook) Name() string { return w.title }

func (w *GoogleWorkbook) SheetNames() []string {
	return append([]string(nil), w.sheets...)
}

// Grid reads the formatted values of the whole sheet.
func (w *GoogleWorkbook) Grid(ctx context.Context, sheet string) ([][]any, error) {
	if !hasSheet(w.sheets, sheet) {
		return nil, apperrors.NewSheetNotFoundError(sheet)
	}

	resp, err := w.svc.Spreadsheets.Values.Get(w.id, quoteSheetRange(sheet)).
		ValueRenderOption("FORMATTED_VALUE").
		MajorDimension("ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return nil, googleError(err, fmt.Sprintf("sheet %s", sheet))
	}

	return toGrid(resp.Values), nil
}

func (w *GoogleWorkbook) Close() error { return nil }

// quoteSheetRange turns a sheet title into an A1 range covering the whole sheet.
func quoteSheetRange(sheet string) string {
	return "'" + strings.ReplaceAll(sheet, "'", "''") + "'"
}

func googleError(err error, resource string) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) && gerr.Code == http.StatusNotFound {
		return apperrors.NewNotFoundError(resource)
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return apperrors.NewNetworkError("Google Sheets request failed", err)
}

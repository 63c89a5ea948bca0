package dataprocessing

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "sheetcheck/internal/errors"
	"sheetcheck/internal/shared/testutil"
	"sheetcheck/pkg/contracts/domain"
)

var fullHeader = []any{"Date", "Ticket", "Task", "Status", "Productive", "Time Spent", "Developer", "Comments"}

func newTestLoader(t *testing.T) (*SheetLoader, *testutil.BufferedSlogHandler) {
	logger, handler := testutil.NewTestLogger(t)
	return NewSheetLoader(logger, LoaderOptions{}), handler
}

func TestSheetLoader_HeaderOnThirdRow(t *testing.T) {
	grid := [][]any{
		{"Timesheet March 2024"},
		{},
		{"Date", "Ticket", "Task", "Status", "Productive", "Time  Spent", "Developer", "Comments"},
		{"3/14/2024", "https://tracker.example.com/app#!/881", "Fix login", "Done", "2", "2h 30m", "Ana", ""},
		{"3/14/2024", "ABC-2", "Review PR", "Done", "0", "1:45", "Bo", "quick"},
		{"", "", "3/15/2024", "", "", "", "", ""},
		{"3/15/2024", "ABC-3", "Write tests", "In Progress", "1.5", "", "Ana", ""},
		{"3/15/2024", "", "Annual Leave", "Leave", "0", "8", "Bo", ""},
		{"", "ABC-4", "Deploy", "Done", "1", "1", "Cy", "no date"},
	}
	loader, handler := newTestLoader(t)

	result, err := loader.Load(context.Background(), "March", grid, domain.DurationHours)
	require.NoError(t, err)

	require.Len(t, result.Records, 5)
	assert.Equal(t, "March", result.Sheet)
	assert.Equal(t, StrategyGridText, result.Stats.Strategy)
	assert.Equal(t, 2, result.Stats.HeaderRow)
	assert.Equal(t, 1, result.Stats.SeparatorsSkipped)
	assert.Equal(t, 0, result.Stats.RowsDropped)
	assert.Equal(t, 6, result.Stats.DataRows)

	first := result.Records[0]
	assert.Equal(t, "#881", first.TicketDisplay)
	assert.Equal(t, 150, first.TimeSpentMinutes)
	assert.Equal(t, 105, result.Records[1].TimeSpentMinutes)
	assert.Equal(t, 90, result.Records[2].TimeSpentMinutes)
	assert.Equal(t, 480, result.Records[3].TimeSpentMinutes)
	assert.False(t, result.Records[4].HasDate())

	testutil.AssertLogContains(t, handler, slog.LevelInfo, "Sheet loaded")
	testutil.AssertLogAttr(t, handler, "component", "sheet_loader")
	testutil.AssertNoErrors(t, handler)
}

func TestSheetLoader_HeaderOnFirstRow(t *testing.T) {
	grid := [][]any{
		fullHeader,
		{"2024-03-01", "T-1", "Task one", "Done", 1.0, 1.0, "Ana"},
		{"2024-03-02", "T-2", "Task two", "Done", 0.0, 0.5, "Ana"},
	}
	loader, _ := newTestLoader(t)

	result, err := loader.Load(context.Background(), "Ana", grid, "")
	require.NoError(t, err)

	assert.Equal(t, StrategyObjectKeys, result.Stats.Strategy)
	assert.Equal(t, 0, result.Stats.HeaderRow)
	require.Len(t, result.Records, 2)
	assert.Equal(t, 30, result.Records[1].TimeSpentMinutes)
}

func TestSheetLoader_MinutesMode(t *testing.T) {
	grid := [][]any{
		fullHeader,
		{"2024-03-01", "T-1", "Task one", "Done", 1.0, 45.0, "Ana"},
	}
	loader := NewSheetLoader(nil, LoaderOptions{DurationMode: domain.DurationMinutes})

	result, err := loader.Load(context.Background(), "Ana", grid, "")
	require.NoError(t, err)
	assert.Equal(t, 45, result.Records[0].TimeSpentMinutes)

	result, err = loader.Load(context.Background(), "Ana", grid, domain.DurationHours)
	require.NoError(t, err)
	assert.Equal(t, 2700, result.Records[0].TimeSpentMinutes)
}

func TestSheetLoader_MissingDeveloper(t *testing.T) {
	grid := [][]any{
		{"Date", "Ticket", "Task", "Status", "Productive", "Time Spent", "Comments"},
		{"2024-03-01", "T-1", "Task one", "Done", "1", "1", ""},
	}
	loader, handler := newTestLoader(t)

	_, err := loader.Load(context.Background(), "March", grid, domain.DurationHours)
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeMissingColumns))

	missing, found, ok := apperrors.MissingColumns(err)
	require.True(t, ok)
	assert.Equal(t, []string{"Developer"}, missing)
	assert.Equal(t, []string{"Date", "Ticket", "Task", "Status", "Productive", "Time Spent", "Comments"}, found)
	assert.Contains(t, err.Error(), "Developer")
	assert.Contains(t, err.Error(), "Found columns: Date, Ticket")

	testutil.AssertLogContains(t, handler, slog.LevelWarn, "Required columns missing")
}

func TestSheetLoader_NonBreakingSpaceHeader(t *testing.T) {
	grid := [][]any{
		{"\ufeffDate", "Ticket", "Task", "Status", "Productive", "Time\u00a0Spent", "Developer\u00a0"},
		{"2024-03-01", "T-1", "Task one", "Done", "1", "2h", "Ana"},
	}
	loader, _ := newTestLoader(t)

	result, err := loader.Load(context.Background(), "March", grid, domain.DurationHours)
	require.NoError(t, err)
	require.Len(t, result.Records, 1)
	assert.Equal(t, StrategyObjectKeys, result.Stats.Strategy)
	assert.Equal(t, 120, result.Records[0].TimeSpentMinutes)
	assert.Equal(t, "Ana", result.Records[0].Developer)
	assert.True(t, result.Records[0].HasDate())
}

func TestSheetLoader_Failures(t *testing.T) {
	tests := []struct {
		name     string
		grid     [][]any
		wantType apperrors.ErrorType
	}{
		{
			name:     "no rows",
			grid:     nil,
			wantType: apperrors.ErrTypeEmptySheet,
		},
		{
			name:     "only blank rows",
			grid:     [][]any{{"", ""}, {}},
			wantType: apperrors.ErrTypeEmptySheet,
		},
		{
			name:     "header only",
			grid:     [][]any{fullHeader},
			wantType: apperrors.ErrTypeEmptySheet,
		},
		{
			name: "no header in window",
			grid: [][]any{
				{"Name", "Hours"},
				{"Ana", "3"},
				{"Bo", "4"},
			},
			wantType: apperrors.ErrTypeHeaderNotFound,
		},
		{
			name: "header is last row",
			grid: [][]any{
				{"Weekly report"},
				fullHeader,
			},
			wantType: apperrors.ErrTypeNoDataRows,
		},
		{
			name: "only separators",
			grid: [][]any{
				fullHeader,
				{"", "", "3/15/2024", "", "", "", "", ""},
			},
			wantType: apperrors.ErrTypeNoDataRows,
		},
		{
			name: "rows without developer",
			grid: [][]any{
				fullHeader,
				{"3/15/2024", "T-1", "Task", "Done", "1", "1", "", ""},
			},
			wantType: apperrors.ErrTypeNoDataRows,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loader, _ := newTestLoader(t)

			result, err := loader.Load(context.Background(), "Data", tt.grid, domain.DurationHours)
			require.Error(t, err)
			assert.Nil(t, result)
			assert.Equal(t, tt.wantType, apperrors.TypeOf(err))
			assert.True(t, apperrors.IsSheetLoadError(err))
		})
	}
}

func TestSheetLoader_HeaderOutsideWindow(t *testing.T) {
	grid := [][]any{{"title"}, {"subtitle"}, fullHeader, {"2024-03-01", "T", "Task", "Done", "1", "1", "Ana"}}
	logger, _ := testutil.NewTestLogger(t)
	loader := NewSheetLoader(logger, LoaderOptions{HeaderWindow: 2})

	_, err := loader.Load(context.Background(), "Data", grid, "")
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeHeaderNotFound))
}

func TestSheetLoader_DroppedRowsAndFallbacks(t *testing.T) {
	grid := [][]any{
		fullHeader,
		{"2024-03-01", "T-1", "Task one", "Done", "2", "about two hours", "Ana"},
		{"2024-03-01", "T-2", "", "Done", "1", "1", "Ana"},
		{"2024-03-01", "T-3", "Task three", "Done", "1", "1", "  "},
	}
	loader, handler := newTestLoader(t)

	result, err := loader.Load(context.Background(), "Data", grid, "")
	require.NoError(t, err)

	require.Len(t, result.Records, 1)
	assert.Equal(t, 120, result.Records[0].TimeSpentMinutes)
	assert.Equal(t, 2, result.Stats.RowsDropped)
	assert.Equal(t, 1, result.Stats.DurationFallbacks)
	testutil.AssertLogContains(t, handler, slog.LevelDebug, "Time Spent not understood")
}

func TestSheetLoader_ErrorCarriesSheet(t *testing.T) {
	loader, _ := newTestLoader(t)

	_, err := loader.Load(context.Background(), "Empty One", nil, "")

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "Empty One", appErr.Context[apperrors.ContextSheet])
}

func TestSheetLoader_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	loader, _ := newTestLoader(t)

	_, err := loader.Load(ctx, "Data", [][]any{fullHeader}, "")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPadGrid(t *testing.T) {
	grid := padGrid([][]any{{"a"}, {"b", "c", "d"}, {}, {""}})

	require.Len(t, grid, 2)
	assert.Equal(t, []any{"a", "", ""}, grid[0])
	assert.Equal(t, []any{"b", "c", "d"}, grid[1])
}

package formatter

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sheetcheck/internal/dataprocessing"
	"sheetcheck/pkg/contracts/domain"
)

func TestRenderTable_AlignsStyledCells(t *testing.T) {
	out := RenderTable([]string{"Name", "N"}, [][]string{
		{StyleGreen.Render("Alice"), "1"},
		{"Bo", "22"},
	})

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, lipgloss.Width(lines[2]), lipgloss.Width(lines[3])-1)
	assert.Contains(t, lines[2], "Alice")
	assert.Empty(t, RenderTable(nil, nil))
}

func TestFormatTotals(t *testing.T) {
	out := FormatTotals(domain.Totals{Minutes: 150, ProductiveHours: 2.5, Tasks: 3, Developers: 2, ProductiveCount: 1, NonProductiveCount: 2})
	assert.Contains(t, out, "2h 30m")
	assert.Contains(t, out, "2.5")
}

func TestFormatSheets(t *testing.T) {
	out := FormatSheets([]string{"Team A", "Summary"}, []string{"Team A"})
	assert.Contains(t, out, "Team A")
	assert.Contains(t, out, "data")
	assert.Contains(t, out, "skipped")
}

func TestFormatDaily(t *testing.T) {
	out := FormatDaily(domain.TimeSeries{
		Labels: []string{"2024-03-01"},
		Series: map[string][]float64{
			domain.SeriesProductiveHours: {3.5},
			domain.SeriesTaskCount:       {2},
		},
	})
	assert.Contains(t, out, "2024-03-01")
	assert.Contains(t, out, "3.5")
	assert.Contains(t, FormatDaily(domain.TimeSeries{}), "No dated records")
}

func TestFormatLoad(t *testing.T) {
	line := FormatLoad("march.xlsx", "Team B", dataprocessing.LoadStats{HeaderRow: 1, Strategy: "grid-text", DataRows: 4, DurationFallbacks: 1})
	assert.Contains(t, line, "header row 2")
	assert.Contains(t, line, "1 time values estimated")
}

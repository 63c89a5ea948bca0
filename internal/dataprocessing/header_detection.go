package dataprocessing

import (
	"strings"

	"sheetcheck/pkg/contracts/domain"
)

// Header detection strategy names, reported in load statistics.
const (
	StrategyObjectKeys  = "object-keys"
	StrategyGridText    = "grid-text"
	StrategyBestPartial = "best-partial"
)

// minPartialMatches is how many exact required columns a row needs before
// best-partial treats it as a header with missing columns.
const minPartialMatches = 4

// gridTextKeywords must all appear in the concatenated text of a header row.
var gridTextKeywords = []string{"date", "ticket", "task", "status", "productive", "developer"}

// DetectedHeader is a successful header detection.
type DetectedHeader struct {
	Strategy  string
	HeaderRow int // zero-based grid row
	Keys      []string
	Rows      []domain.RawRow
}

// HeaderStrategy locates the header row of a sheet grid.
// Detect returns false when the strategy does not recognise any row.
type HeaderStrategy interface {
	Name() string
	Detect(grid [][]any, window int) (DetectedHeader, bool)
}

// DefaultHeaderStrategies returns the strategies in the order they are tried.
func DefaultHeaderStrategies() []HeaderStrategy {
	return []HeaderStrategy{
		objectKeysStrategy{},
		gridTextStrategy{},
		bestPartialStrategy{},
	}
}

// objectKeysStrategy reads the grid as objects keyed by the first row.
// Every object shares those keys, so the header is found only when the first
// row already carries all required columns.
type objectKeysStrategy struct{}

func (objectKeysStrategy) Name() string { return StrategyObjectKeys }

func (objectKeysStrategy) Detect(grid [][]any, window int) (DetectedHeader, bool) {
	if len(grid) == 0 || window <= 0 {
		return DetectedHeader{}, false
	}
	keys := headerKeys(grid[0])
	if len(missingColumns(keys)) > 0 {
		return DetectedHeader{}, false
	}
	return DetectedHeader{
		Strategy:  StrategyObjectKeys,
		HeaderRow: 0,
		Keys:      keys,
		Rows:      rowsAfter(grid, 0, keys),
	}, true
}

// gridTextStrategy looks for a wide row whose text mentions every required column.
type gridTextStrategy struct{}

func (gridTextStrategy) Name() string { return StrategyGridText }

func (gridTextStrategy) Detect(grid [][]any, window int) (DetectedHeader, bool) {
	for i := 0; i < len(grid) && i < window; i++ {
		row := grid[i]
		if len(row) < len(domain.RequiredColumns) {
			continue
		}
		var sb strings.Builder
		for _, cell := range row {
			sb.WriteString(cellText(cell))
		}
		text := strings.ToLower(sb.String())
		if !containsAll(text, gridTextKeywords) {
			continue
		}
		keys := headerKeys(row)
		return DetectedHeader{
			Strategy:  StrategyGridText,
			HeaderRow: i,
			Keys:      keys,
			Rows:      rowsAfter(grid, i, keys),
		}, true
	}
	return DetectedHeader{}, false
}

// bestPartialStrategy picks the row with the most exact required column names.
// The earliest row wins ties.
type bestPartialStrategy struct{}

func (bestPartialStrategy) Name() string { return StrategyBestPartial }

func (bestPartialStrategy) Detect(grid [][]any, window int) (DetectedHeader, bool) {
	best, bestMatches := -1, 0
	for i := 0; i < len(grid) && i < window; i++ {
		keys := headerKeys(grid[i])
		matches := len(domain.RequiredColumns) - len(missingColumns(keys))
		if matches > bestMatches {
			best, bestMatches = i, matches
		}
	}
	if best < 0 || bestMatches < minPartialMatches {
		return DetectedHeader{}, false
	}
	keys := headerKeys(grid[best])
	return DetectedHeader{
		Strategy:  StrategyBestPartial,
		HeaderRow: best,
		Keys:      keys,
		Rows:      rowsAfter(grid, best, keys),
	}, true
}

// rowsAfter builds objects for every non-blank row below the header.
// Each object carries every header key.
func rowsAfter(grid [][]any, header int, keys []string) []domain.RawRow {
	var rows []domain.RawRow
	for _, cells := range grid[header+1:] {
		if isBlankRow(cells) {
			continue
		}
		row := make(domain.RawRow, len(keys))
		for j, key := range keys {
			if j < len(cells) {
				row[key] = cells[j]
			} else {
				row[key] = ""
			}
		}
		rows = append(rows, row)
	}
	return rows
}

func isBlankRow(cells []any) bool {
	for _, c := range cells {
		if !isBlank(c) {
			return false
		}
	}
	return true
}

func containsAll(text string, words []string) bool {
	for _, w := range words {
		if !strings.Contains(text, w) {
			return false
		}
	}
	return true
}

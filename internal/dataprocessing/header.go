package dataprocessing

import (
	"fmt"
	"strings"
	"unicode"

	"sheetcheck/pkg/contracts/domain"
)

// Placeholder key given to blank header cells.
const emptyHeaderKey = "__EMPTY"

// NormalizeHeader collapses every whitespace run to a single space and trims.
// "Time  Spent", " Time\tSpent " and "Time\u00a0Spent" all become "Time Spent".
// Unicode spaces count, as does the byte order mark some CSV exports carry.
func NormalizeHeader(key string) string {
	return strings.Join(strings.FieldsFunc(key, isHeaderSpace), " ")
}

func isHeaderSpace(r rune) bool {
	return unicode.IsSpace(r) || r == '\uFEFF'
}

// NormalizeKey normalizes string header values and passes anything else through.
func NormalizeKey(key any) any {
	if s, ok := key.(string); ok {
		return NormalizeHeader(s)
	}
	return key
}

// NormalizeRow returns a copy of row with every key normalized.
// When two keys collapse to the same name the later column wins.
func NormalizeRow(row domain.RawRow) domain.RawRow {
	out := make(domain.RawRow, len(row))
	for k, v := range row {
		out[NormalizeHeader(k)] = v
	}
	return out
}

// headerKeys turns a header row into unique, normalized object keys.
// Blank cells become __EMPTY, __EMPTY_1, ... and repeated names get _1, _2 suffixes.
func headerKeys(cells []any) []string {
	keys := make([]string, len(cells))
	used := make(map[string]bool, len(cells))
	suffix := make(map[string]int)

	for i, cell := range cells {
		name := NormalizeHeader(cellText(cell))
		if name == "" {
			name = emptyHeaderKey
		}

		key := name
		for used[key] {
			suffix[name]++
			key = fmt.Sprintf("%s_%d", name, suffix[name])
		}
		used[key] = true
		keys[i] = key
	}
	return keys
}

// isSyntheticKey reports whether key was generated for a blank header cell.
func isSyntheticKey(key string) bool {
	return strings.HasPrefix(key, emptyHeaderKey)
}

// missingColumns returns the required columns absent from keys, in canonical order.
func missingColumns(keys []string) []string {
	present := make(map[string]bool, len(keys))
	for _, k := range keys {
		present[k] = true
	}

	var missing []string
	for _, col := range domain.RequiredColumns {
		if !present[col] {
			missing = append(missing, col)
		}
	}
	return missing
}

// foundColumns lists the real (non-placeholder) header names in header order.
func foundColumns(keys []string) []string {
	found := make([]string, 0, len(keys))
	for _, k := range keys {
		if !isSyntheticKey(k) {
			found = append(found, k)
		}
	}
	return found
}

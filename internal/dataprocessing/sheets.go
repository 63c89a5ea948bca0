package dataprocessing

import (
	"strings"

	apperrors "sheetcheck/internal/errors"
)

// DefaultSummaryLabels name sheets that hold roll-ups rather than raw entries.
var DefaultSummaryLabels = []string{"sheet15"}

// CandidateSheets returns the sheet names that may hold timesheet data, in
// workbook order. Templates, default "SheetN" names, "Summary" and any name
// containing a summary label are skipped. Matching ignores case.
func CandidateSheets(names []string, summaryLabels ...string) []string {
	if len(summaryLabels) == 0 {
		summaryLabels = DefaultSummaryLabels
	}
	candidates := make([]string, 0, len(names))
	for _, name := range names {
		if isCandidateSheet(name, summaryLabels) {
			candidates = append(candidates, name)
		}
	}
	return candidates
}

func isCandidateSheet(name string, summaryLabels []string) bool {
	lower := strings.ToLower(strings.TrimSpace(name))
	if lower == "" || lower == "summary" {
		return false
	}
	if strings.Contains(lower, "template") || strings.HasPrefix(lower, "sheet") {
		return false
	}
	for _, label := range summaryLabels {
		if label = strings.ToLower(strings.TrimSpace(label)); label != "" && strings.Contains(lower, label) {
			return false
		}
	}
	return true
}

// SelectSheet resolves which sheet to load. An empty request picks the first
// candidate. A named sheet must exist in the workbook but need not be a candidate.
func SelectSheet(names []string, requested string, summaryLabels ...string) (string, error) {
	if requested == "" {
		candidates := CandidateSheets(names, summaryLabels...)
		if len(candidates) == 0 {
			return "", apperrors.NewNoDataSheetsError()
		}
		return candidates[0], nil
	}
	for _, name := range names {
		if name == requested {
			return name, nil
		}
	}
	return "", apperrors.NewSheetNotFoundError(requested)
}

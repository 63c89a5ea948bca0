package dataprocessing

import (
	"regexp"
	"strings"

	"sheetcheck/pkg/contracts/domain"
)

var separatorDatePattern = regexp.MustCompile(`^\d{1,2}/\d{1,2}/\d{4}$`)

// leaveKeywords mark time off rather than work.
var leaveKeywords = []string{"leave", "vacation", "holiday", "sick", "time off", "pto"}

// IsDateSeparatorRow reports whether row is a visual separator inserted between
// days: only the Task cell is filled and it holds a date.
func IsDateSeparatorRow(row domain.RawRow) bool {
	task := strings.TrimSpace(cellText(row[domain.ColumnTask]))
	if task == "" {
		return false
	}
	for _, col := range []string{domain.ColumnDate, domain.ColumnTicket, domain.ColumnStatus, domain.ColumnDeveloper} {
		if !isBlank(row[col]) {
			return false
		}
	}
	if separatorDatePattern.MatchString(task) {
		return true
	}
	if numericTextRegex.MatchString(task) {
		return false
	}
	_, ok := parseDateText(task)
	return ok
}

// IsLeaveEntry reports whether the record logs leave, vacation or similar absence.
func IsLeaveEntry(rec domain.WorkRecord) bool {
	for _, field := range []string{rec.Task, rec.Ticket, rec.Status} {
		if containsLeaveKeyword(field) {
			return true
		}
	}
	return false
}

func containsLeaveKeyword(s string) bool {
	if s == "" {
		return false
	}
	s = strings.ToLower(s)
	for _, kw := range leaveKeywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

func isBlank(v any) bool {
	return strings.TrimSpace(cellText(v)) == ""
}

package dataprocessing

import (
	"strings"

	"sheetcheck/pkg/contracts/domain"
)

// BuildRecord maps a raw row onto a WorkRecord. Keys are normalized first, so
// callers may pass rows straight from a workbook.
func BuildRecord(row domain.RawRow, mode domain.DurationMode) domain.WorkRecord {
	rec, _ := buildRecord(NormalizeRow(row), mode)
	return rec
}

// buildRecord expects normalized keys and also reports how Time Spent was derived.
func buildRecord(row domain.RawRow, mode domain.DurationMode) (domain.WorkRecord, durationSource) {
	ticket := strings.TrimSpace(cellText(row[domain.ColumnTicket]))
	productive := ParseProductive(row[domain.ColumnProductive])
	minutes, source := parseTimeSpent(row[domain.ColumnTimeSpent], productive, mode)

	rec := domain.WorkRecord{
		Ticket:           ticket,
		TicketDisplay:    ExtractTicket(ticket),
		Task:             strings.TrimSpace(cellText(row[domain.ColumnTask])),
		Status:           strings.TrimSpace(cellText(row[domain.ColumnStatus])),
		ProductiveHours:  productive,
		TimeSpentMinutes: minutes,
		Developer:        strings.TrimSpace(cellText(row[domain.ColumnDeveloper])),
		Comments:         strings.TrimSpace(cellText(row[domain.ColumnComments])),
		Original:         row,
	}
	// Minutes that came from productive hours rather than the sheet.
	rec.TimeSpentEstimated = source != durationParsed && productive > 0
	if d, ok := ParseDate(row[domain.ColumnDate]); ok {
		day := calendarDay(d)
		rec.Date = &day
	}
	return rec, source
}

package formatter

import (
	"fmt"
	"strconv"
	"strings"

	"sheetcheck/internal/dataprocessing"
	"sheetcheck/internal/exporter"
	"sheetcheck/pkg/contracts/domain"
)

// Hours renders productive hours without trailing zeros, e.g. 2.5 or 3.
func Hours(h float64) string {
	return strconv.FormatFloat(h, 'f', -1, 64)
}

// FormatTotals renders the headline numbers of a record set.
func FormatTotals(t domain.Totals) string {
	rows := [][]string{
		{"Time spent", exporter.MinutesToHoursString(t.Minutes)},
		{"Productive hours", Hours(t.ProductiveHours)},
		{"Tasks", strconv.Itoa(t.Tasks)},
		{"Developers", strconv.Itoa(t.Developers)},
		{"Productive", StyleGreen.Render(strconv.Itoa(t.ProductiveCount))},
		{"Non-productive", StyleYellow.Render(strconv.Itoa(t.NonProductiveCount))},
	}
	return RenderTable([]string{"Metric", "Value"}, rows)
}

// FormatStatuses renders a status breakdown, most frequent first.
func FormatStatuses(statuses []domain.StatusCount) string {
	if len(statuses) == 0 {
		return Dim("No records match.") + "\n"
	}
	rows := make([][]string, 0, len(statuses))
	for _, s := range statuses {
		rows = append(rows, []string{s.Status, strconv.Itoa(s.Count)})
	}
	return RenderTable([]string{"Status", "Count"}, rows)
}

// FormatTaskGroups renders one row per task.
func FormatTaskGroups(groups []domain.TaskGroup) string {
	if len(groups) == 0 {
		return Dim("No tasks.") + "\n"
	}
	rows := make([][]string, 0, len(groups))
	for _, g := range groups {
		rows = append(rows, []string{
			g.Task,
			strconv.Itoa(g.Count),
			exporter.MinutesToHoursString(g.TotalMinutes),
			Hours(g.TotalProductiveHours),
			strings.Join(g.Statuses, ", "),
		})
	}
	return RenderTable([]string{"Task", "Entries", "Time", "Productive", "Statuses"}, rows)
}

// FormatDaily renders the daily bar series as a table.
func FormatDaily(series domain.TimeSeries) string {
	if len(series.Labels) == 0 {
		return Dim("No dated records.") + "\n"
	}
	hours := series.Series[domain.SeriesProductiveHours]
	counts := series.Series[domain.SeriesTaskCount]
	rows := make([][]string, 0, len(series.Labels))
	for i, label := range series.Labels {
		row := []string{label, "", ""}
		if i < len(hours) {
			row[1] = Hours(hours[i])
		}
		if i < len(counts) {
			row[2] = strconv.Itoa(int(counts[i]))
		}
		rows = append(rows, row)
	}
	return RenderTable([]string{"Day", "Productive", "Tasks"}, rows)
}

// FormatSheets lists a workbook's sheets and marks the ones holding timesheet data.
func FormatSheets(all, candidates []string) string {
	isCandidate := make(map[string]bool, len(candidates))
	for _, c := range candidates {
		isCandidate[c] = true
	}
	rows := make([][]string, 0, len(all))
	for i, name := range all {
		mark := Dim("skipped")
		if isCandidate[name] {
			mark = StyleGreen.Render("data")
		}
		rows = append(rows, []string{strconv.Itoa(i + 1), name, mark})
	}
	return RenderTable([]string{"#", "Sheet", "Kind"}, rows)
}

// FormatLoad summarizes how a sheet was read.
func FormatLoad(file, sheet string, stats dataprocessing.LoadStats) string {
	line := fmt.Sprintf("%s  %s  header row %d (%s), %d rows",
		Bold(file), sheet, stats.HeaderRow+1, stats.Strategy, stats.DataRows)
	if stats.RowsDropped > 0 || stats.SeparatorsSkipped > 0 {
		line += Dim(fmt.Sprintf(", %d separators, %d dropped", stats.SeparatorsSkipped, stats.RowsDropped))
	}
	if stats.DurationFallbacks > 0 {
		line += StyleYellow.Render(fmt.Sprintf(", %d time values estimated", stats.DurationFallbacks))
	}
	return line
}

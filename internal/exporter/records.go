package exporter

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"sheetcheck/pkg/contracts/domain"
)

// RecordHeaders is the header row of a work record export.
var RecordHeaders = []string{
	"Date",
	"Ticket",
	"Ticket Display",
	"Task",
	"Status",
	"Productive Hours",
	"Time Spent",
	"Time Spent (min)",
	"Time Spent Estimated",
	"Developer",
	"Comments",
}

// TaskGroupHeaders is the header row of a task group export.
var TaskGroupHeaders = []string{
	"Task",
	"Entries",
	"Total Productive Hours",
	"Avg Hours/Entry",
	"Total Time Spent",
	"Total Time Spent (min)",
	"Tickets",
	"Statuses",
	"First Date",
	"Last Date",
}

// RecordRow renders one work record in RecordHeaders order.
func RecordRow(r domain.WorkRecord) []string {
	return []string{
		formatDate(r.Date),
		r.Ticket,
		r.TicketDisplay,
		r.Task,
		r.Status,
		formatFloat(r.ProductiveHours),
		MinutesToHoursString(r.TimeSpentMinutes),
		formatInt(r.TimeSpentMinutes),
		formatBool(r.TimeSpentEstimated),
		r.Developer,
		r.Comments,
	}
}

// TaskGroupRow renders one task group in TaskGroupHeaders order.
func TaskGroupRow(g domain.TaskGroup) []string {
	return []string{
		g.Task,
		formatInt(g.Count),
		formatFloat(g.TotalProductiveHours),
		formatFloat(g.AvgProductiveHours),
		MinutesToHoursString(g.TotalMinutes),
		formatInt(g.TotalMinutes),
		strings.Join(g.Tickets, "; "),
		strings.Join(g.Statuses, "; "),
		formatDate(g.FirstDate),
		formatDate(g.LastDate),
	}
}

// ExportRecords streams records as a BOM-prefixed CSV document.
func (w *CSVWriter) ExportRecords(out io.Writer, records []domain.WorkRecord) error {
	stream, err := w.NewStreamWriter(out, RecordHeaders, true)
	if err != nil {
		return err
	}
	for i, r := range records {
		if err := stream.WriteRecord(RecordRow(r)); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}
	if err := stream.Close(); err != nil {
		return err
	}

	w.logger.Debug("Records exported", slog.Int("record_count", len(records)))
	return nil
}

// ExportTaskGroups streams task groups as a BOM-prefixed CSV document.
func (w *CSVWriter) ExportTaskGroups(out io.Writer, groups []domain.TaskGroup) error {
	stream, err := w.NewStreamWriter(out, TaskGroupHeaders, true)
	if err != nil {
		return err
	}
	for i, g := range groups {
		if err := stream.WriteRecord(TaskGroupRow(g)); err != nil {
			return fmt.Errorf("failed to write task group %d: %w", i, err)
		}
	}
	if err := stream.Close(); err != nil {
		return err
	}

	w.logger.Debug("Task groups exported", slog.Int("group_count", len(groups)))
	return nil
}

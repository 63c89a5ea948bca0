package domain

import (
	"strings"
	"time"
)

// Required timesheet column labels, exactly as they appear in the header row.
const (
	ColumnDate       = "Date"
	ColumnTicket     = "Ticket"
	ColumnTask       = "Task"
	ColumnStatus     = "Status"
	ColumnProductive = "Productive"
	ColumnTimeSpent  = "Time Spent"
	ColumnDeveloper  = "Developer"
	ColumnComments   = "Comments"
)

// RequiredColumns lists the columns every timesheet header row must carry.
var RequiredColumns = []string{
	ColumnDate,
	ColumnTicket,
	ColumnTask,
	ColumnStatus,
	ColumnProductive,
	ColumnTimeSpent,
	ColumnDeveloper,
}

// DurationMode controls how bare numeric "Time Spent" values are read.
type DurationMode string

const (
	DurationHours   DurationMode = "HOURS"
	DurationMinutes DurationMode = "MINUTES"
)

// ParseDurationMode maps a user supplied mode to a DurationMode.
// Anything other than MINUTES (case-insensitive) selects HOURS.
func ParseDurationMode(s string) DurationMode {
	if strings.EqualFold(strings.TrimSpace(s), string(DurationMinutes)) {
		return DurationMinutes
	}
	return DurationHours
}

// RawRow is one spreadsheet row keyed by normalized header name.
// Values are whatever the workbook source produced: string, float64, int,
// time.Time or nil.
type RawRow map[string]any

// WorkRecord is one canonical unit of logged work derived from a spreadsheet row.
// Records are built once by the sheet loader and only read afterwards.
type WorkRecord struct {
	Date             *time.Time `json:"date,omitempty"`
	Ticket           string     `json:"ticket"`
	TicketDisplay    string     `json:"ticket_display"`
	Task             string     `json:"task" validate:"required"`
	Status           string     `json:"status"`
	ProductiveHours  float64    `json:"productive_hours" validate:"min=0"`
	TimeSpentMinutes int        `json:"time_spent_minutes" validate:"min=0"`
	// TimeSpentEstimated marks minutes derived from productive hours.
	TimeSpentEstimated bool   `json:"time_spent_estimated,omitempty"`
	Developer          string `json:"developer" validate:"required"`
	Comments           string `json:"comments,omitempty"`
	Original           RawRow `json:"original,omitempty"`
}

// HasDate reports whether the record carries a parsed date.
func (r WorkRecord) HasDate() bool {
	return r.Date != nil && !r.Date.IsZero()
}

// IsProductive reports whether any productive hours were logged.
func (r WorkRecord) IsProductive() bool {
	return r.ProductiveHours > 0
}

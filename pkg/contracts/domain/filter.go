package domain

import (
	"time"
)

// Productivity is the tri-state productivity filter.
type Productivity string

const (
	ProductivityAny           Productivity = "ALL"
	ProductivityProductive    Productivity = "YES"
	ProductivityNonProductive Productivity = "NO"
)

// FilterCriteria holds the active record filters. The zero value matches everything.
// Empty strings and nil dates mean "no constraint".
type FilterCriteria struct {
	Developer    string       `json:"developer,omitempty"`
	Status       string       `json:"status,omitempty"`
	Productivity Productivity `json:"productivity,omitempty" validate:"omitempty,oneof=ALL YES NO"`
	// Query is matched against ticket, task and ticket display.
	Query string `json:"query,omitempty"`
	// TicketQuery is matched against ticket and ticket display only.
	TicketQuery  string     `json:"ticket_query,omitempty"`
	StartDate    *time.Time `json:"start_date,omitempty"`
	EndDate      *time.Time `json:"end_date,omitempty"`
	ExcludeLeave bool       `json:"exclude_leave,omitempty"`
}

// DateRange is an inclusive calendar range.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// MonthRange returns the first and last calendar day of the month containing now.
func MonthRange(now time.Time) DateRange {
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	end := start.AddDate(0, 1, -1)
	return DateRange{Start: start, End: end}
}

// Package api contains API contract definitions for the Sheet Checker service.
// Version v1 represents the current stable API version.
package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"sheetcheck/pkg/contracts/domain"
)

// DateLayout is the calendar date format accepted by query parameters.
const DateLayout = "2006-01-02"

// Dataset API Requests

// UploadForm carries the non-file fields of a workbook upload
type UploadForm struct {
	Sheet        string `json:"sheet" form:"sheet" validate:"max=255"`
	DurationMode string `json:"duration_mode" form:"duration_mode" validate:"omitempty,oneof=HOURS MINUTES hours minutes"`
}

// LoadGoogleRequest loads a spreadsheet straight from Google Sheets
type LoadGoogleRequest struct {
	SpreadsheetID string `json:"spreadsheet_id" validate:"required,min=10,max=128"`
	Sheet         string `json:"sheet,omitempty" validate:"max=255"`
	DurationMode  string `json:"duration_mode,omitempty" validate:"omitempty,oneof=HOURS MINUTES hours minutes"`
}

// Bind implements render.Binder
func (req *LoadGoogleRequest) Bind(r *http.Request) error {
	req.SpreadsheetID = strings.TrimSpace(req.SpreadsheetID)
	return nil
}

// SelectSheetRequest reloads a dataset from another sheet of the same workbook
type SelectSheetRequest struct {
	Sheet        string `json:"sheet" validate:"required,max=255"`
	DurationMode string `json:"duration_mode,omitempty" validate:"omitempty,oneof=HOURS MINUTES hours minutes"`
}

// Bind implements render.Binder. Sheet names are matched exactly, so
// surrounding spaces are kept.
func (req *SelectSheetRequest) Bind(r *http.Request) error {
	return nil
}

// RecordsQuery carries the record filters as they arrive on the query string.
// Empty values mean "no constraint".
type RecordsQuery struct {
	Developer    string `json:"developer" form:"developer" validate:"max=255"`
	Status       string `json:"status" form:"status" validate:"max=255"`
	Productivity string `json:"productivity" form:"productivity" validate:"omitempty,oneof=ALL YES NO all yes no"`
	Query        string `json:"q" form:"q" validate:"max=255"`
	Ticket       string `json:"ticket" form:"ticket" validate:"max=255"`
	Start        string `json:"start" form:"start" validate:"omitempty,datetime=2006-01-02"`
	End          string `json:"end" form:"end" validate:"omitempty,datetime=2006-01-02"`
	ExcludeLeave string `json:"exclude_leave" form:"exclude_leave" validate:"omitempty,boolean"`
}

// Criteria converts a validated query into filter criteria.
func (q RecordsQuery) Criteria() (domain.FilterCriteria, error) {
	c := domain.FilterCriteria{
		Developer:    q.Developer,
		Status:       q.Status,
		Productivity: domain.Productivity(strings.ToUpper(q.Productivity)),
		Query:        q.Query,
		TicketQuery:  q.Ticket,
	}

	var err error
	if c.StartDate, err = parseDate("start", q.Start); err != nil {
		return c, err
	}
	if c.EndDate, err = parseDate("end", q.End); err != nil {
		return c, err
	}
	if q.ExcludeLeave != "" {
		if c.ExcludeLeave, err = strconv.ParseBool(q.ExcludeLeave); err != nil {
			return c, fmt.Errorf("exclude_leave: %w", err)
		}
	}
	return c, nil
}

// PerformanceQuery selects one developer's breakdown. The record filters
// narrow it further; the developer filter is always the named developer.
type PerformanceQuery struct {
	RecordsQuery
	GroupByTask string `json:"group_by_task" form:"group_by_task" validate:"omitempty,boolean"`
}

// Grouped reports whether task groups were requested.
func (q PerformanceQuery) Grouped() bool {
	ok, _ := strconv.ParseBool(q.GroupByTask)
	return ok
}

func parseDate(field, value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(DateLayout, value, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", field, err)
	}
	return &t, nil
}

package dataprocessing

import (
	"strings"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"sheetcheck/pkg/contracts/domain"
)

// Predicate decides whether a record passes one filter criterion.
type Predicate func(domain.WorkRecord) bool

// Predicates returns one predicate per active criterion. Leave exclusion,
// when requested, comes first. An empty result matches every record.
func Predicates(c domain.FilterCriteria) []Predicate {
	var preds []Predicate

	if c.ExcludeLeave {
		preds = append(preds, func(r domain.WorkRecord) bool { return !IsLeaveEntry(r) })
	}
	if c.Developer != "" {
		dev := c.Developer
		preds = append(preds, func(r domain.WorkRecord) bool { return r.Developer == dev })
	}
	if c.Status != "" {
		status := c.Status
		preds = append(preds, func(r domain.WorkRecord) bool { return r.Status == status })
	}
	switch c.Productivity {
	case domain.ProductivityProductive:
		preds = append(preds, func(r domain.WorkRecord) bool { return r.ProductiveHours > 0 })
	case domain.ProductivityNonProductive:
		preds = append(preds, func(r domain.WorkRecord) bool { return r.ProductiveHours <= 0 })
	}
	// Text queries are lowercased, never trimmed.
	if c.Query != "" {
		q := strings.ToLower(c.Query)
		preds = append(preds, func(r domain.WorkRecord) bool {
			return strings.Contains(strings.ToLower(r.Ticket+" "+r.Task+" "+r.TicketDisplay), q)
		})
	}
	if c.TicketQuery != "" {
		q := strings.ToLower(c.TicketQuery)
		preds = append(preds, func(r domain.WorkRecord) bool {
			return strings.Contains(strings.ToLower(r.Ticket+" "+r.TicketDisplay), q)
		})
	}
	if c.StartDate != nil {
		from := calendarDay(*c.StartDate)
		preds = append(preds, func(r domain.WorkRecord) bool {
			return r.HasDate() && !r.Date.Before(from)
		})
	}
	if c.EndDate != nil {
		to := endOfDay(*c.EndDate)
		preds = append(preds, func(r domain.WorkRecord) bool {
			return r.HasDate() && !r.Date.After(to)
		})
	}
	return preds
}

// Matches reports whether rec passes every predicate.
func Matches(rec domain.WorkRecord, preds []Predicate) bool {
	for _, p := range preds {
		if !p(rec) {
			return false
		}
	}
	return true
}

// ApplyFilters returns the records matching all active criteria, in input order.
// The input slice is not modified.
func ApplyFilters(records []domain.WorkRecord, c domain.FilterCriteria) []domain.WorkRecord {
	preds := Predicates(c)
	out := make([]domain.WorkRecord, 0, len(records))
	for _, rec := range records {
		if Matches(rec, preds) {
			out = append(out, rec)
		}
	}
	return out
}

// endOfDay is the last millisecond of t's calendar day.
func endOfDay(t time.Time) time.Time {
	return calendarDay(t).Add(24*time.Hour - time.Millisecond)
}

// UniqueDevelopers lists distinct non-empty developers in collated order.
func UniqueDevelopers(records []domain.WorkRecord) []string {
	return uniqueSorted(records, func(r domain.WorkRecord) string { return r.Developer })
}

// UniqueStatuses lists distinct non-empty statuses in collated order.
func UniqueStatuses(records []domain.WorkRecord) []string {
	return uniqueSorted(records, func(r domain.WorkRecord) string { return r.Status })
}

func uniqueSorted(records []domain.WorkRecord, field func(domain.WorkRecord) string) []string {
	seen := make(map[string]bool)
	values := make([]string, 0)
	for _, r := range records {
		v := field(r)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		values = append(values, v)
	}
	// A collator keeps internal buffers, so each call gets its own.
	collate.New(language.English).SortStrings(values)
	return values
}

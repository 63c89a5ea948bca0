package dataprocessing

import (
	"sort"
	"strings"
	"time"

	"sheetcheck/pkg/contracts/domain"
)

// ComputeTotals summarises records. It never modifies them.
func ComputeTotals(records []domain.WorkRecord) domain.Totals {
	var t domain.Totals
	developers := make(map[string]struct{})

	for _, r := range records {
		t.Minutes += r.TimeSpentMinutes
		t.ProductiveHours += r.ProductiveHours
		if r.IsProductive() {
			t.ProductiveCount++
		} else {
			t.NonProductiveCount++
		}
		if r.Developer != "" {
			developers[r.Developer] = struct{}{}
		}
	}
	t.Tasks = len(records)
	t.Developers = len(developers)
	return t
}

// StatusBreakdown counts records per status, most frequent first.
// Ties keep first-appearance order. Blank statuses count as Unknown.
func StatusBreakdown(records []domain.WorkRecord) []domain.StatusCount {
	index := make(map[string]int)
	counts := make([]domain.StatusCount, 0)

	for _, r := range records {
		status := r.Status
		if status == "" {
			status = domain.UnknownStatus
		}
		i, ok := index[status]
		if !ok {
			i = len(counts)
			index[status] = i
			counts = append(counts, domain.StatusCount{Status: status})
		}
		counts[i].Count++
	}

	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].Count > counts[j].Count
	})
	return counts
}

// GroupByTask aggregates records sharing the same task text, highest summed
// productive hours first. Ties keep first-appearance order.
func GroupByTask(records []domain.WorkRecord) []domain.TaskGroup {
	index := make(map[string]int)
	groups := make([]domain.TaskGroup, 0)
	seenTickets := make([]map[string]bool, 0)
	seenStatuses := make([]map[string]bool, 0)

	for _, r := range records {
		key := strings.TrimSpace(r.Task)
		if key == "" {
			key = domain.UnnamedTask
		}
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, domain.TaskGroup{Task: key, Tickets: []string{}, Statuses: []string{}})
			seenTickets = append(seenTickets, make(map[string]bool))
			seenStatuses = append(seenStatuses, make(map[string]bool))
		}

		g := &groups[i]
		g.Count++
		g.TotalMinutes += r.TimeSpentMinutes
		g.TotalProductiveHours += r.ProductiveHours

		ticket := r.TicketDisplay
		if ticket == "" {
			ticket = r.Ticket
		}
		if ticket != "" && !seenTickets[i][ticket] {
			seenTickets[i][ticket] = true
			g.Tickets = append(g.Tickets, ticket)
		}
		if r.Status != "" && !seenStatuses[i][r.Status] {
			seenStatuses[i][r.Status] = true
			g.Statuses = append(g.Statuses, r.Status)
		}

		if r.HasDate() {
			if g.FirstDate == nil || r.Date.Before(*g.FirstDate) {
				g.FirstDate = copyTime(*r.Date)
			}
			if g.LastDate == nil || r.Date.After(*g.LastDate) {
				g.LastDate = copyTime(*r.Date)
			}
		}
	}

	for i := range groups {
		groups[i].AvgProductiveHours = groups[i].TotalProductiveHours / float64(groups[i].Count)
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].TotalProductiveHours > groups[j].TotalProductiveHours
	})
	return groups
}

// PerformanceCriteria narrows c to what the performance view honours:
// leave exclusion, the date range and the ticket search, for one developer.
func PerformanceCriteria(developer string, c domain.FilterCriteria) domain.FilterCriteria {
	return domain.FilterCriteria{
		Developer:    developer,
		TicketQuery:  c.TicketQuery,
		StartDate:    c.StartDate,
		EndDate:      c.EndDate,
		ExcludeLeave: c.ExcludeLeave,
	}
}

// DeveloperPerformance builds the per-developer breakdown. With no developer
// selected the result is empty. Task groups are only computed on request.
func DeveloperPerformance(records []domain.WorkRecord, developer string, c domain.FilterCriteria, groupByTask bool) domain.DeveloperPerformance {
	perf := domain.DeveloperPerformance{
		Developer: developer,
		Statuses:  []domain.StatusCount{},
		Records:   []domain.WorkRecord{},
	}
	if developer == "" {
		return perf
	}

	perf.Records = ApplyFilters(records, PerformanceCriteria(developer, c))
	perf.Totals = ComputeTotals(perf.Records)
	perf.Statuses = StatusBreakdown(perf.Records)
	if groupByTask {
		perf.Groups = GroupByTask(perf.Records)
	}
	return perf
}

func copyTime(t time.Time) *time.Time {
	return &t
}

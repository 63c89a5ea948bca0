package dataprocessing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"sheetcheck/pkg/contracts/domain"
)

func tasksOf(records []domain.WorkRecord) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.Task + "/" + r.Developer
	}
	return out
}

func TestApplyFilters(t *testing.T) {
	records := sampleRecords()

	tests := []struct {
		name     string
		criteria domain.FilterCriteria
		want     []int
	}{
		{name: "no criteria", criteria: domain.FilterCriteria{}, want: []int{0, 1, 2, 3, 4, 5}},
		{name: "all productivity", criteria: domain.FilterCriteria{Productivity: domain.ProductivityAny}, want: []int{0, 1, 2, 3, 4, 5}},
		{name: "exclude leave", criteria: domain.FilterCriteria{ExcludeLeave: true}, want: []int{0, 1, 3, 4, 5}},
		{name: "developer", criteria: domain.FilterCriteria{Developer: "Ana"}, want: []int{0, 1, 2, 5}},
		{name: "status", criteria: domain.FilterCriteria{Status: "Done"}, want: []int{0, 3, 5}},
		{name: "productive", criteria: domain.FilterCriteria{Productivity: domain.ProductivityProductive}, want: []int{0, 1, 4, 5}},
		{name: "non productive", criteria: domain.FilterCriteria{Productivity: domain.ProductivityNonProductive}, want: []int{2, 3}},
		{name: "query matches task", criteria: domain.FilterCriteria{Query: "EXPORT"}, want: []int{0, 1}},
		{name: "query matches ticket display", criteria: domain.FilterCriteria{Query: "#101"}, want: []int{0}},
		{name: "query matches ticket", criteria: domain.FilterCriteria{Query: "abc-1"}, want: []int{4, 5}},
		{name: "ticket query ignores task", criteria: domain.FilterCriteria{TicketQuery: "review"}, want: []int{}},
		{name: "ticket query", criteria: domain.FilterCriteria{TicketQuery: "abc"}, want: []int{1, 3, 4, 5}},
		{name: "start date inclusive", criteria: domain.FilterCriteria{StartDate: day(2024, time.March, 4)}, want: []int{1, 2, 3, 5}},
		{name: "end date covers whole day", criteria: domain.FilterCriteria{EndDate: day(2024, time.March, 4)}, want: []int{0, 1}},
		{name: "date range", criteria: domain.FilterCriteria{StartDate: day(2024, time.March, 4), EndDate: day(2024, time.March, 10)}, want: []int{1, 2, 3}},
		{
			name:     "combined",
			criteria: domain.FilterCriteria{Developer: "Ana", Productivity: domain.ProductivityProductive, ExcludeLeave: true},
			want:     []int{0, 1, 5},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			want := make([]domain.WorkRecord, 0, len(tt.want))
			for _, i := range tt.want {
				want = append(want, records[i])
			}

			got := ApplyFilters(records, tt.criteria)

			assert.Equal(t, tasksOf(want), tasksOf(got))
		})
	}
}

func TestApplyFilters_QueryKeepsWhitespace(t *testing.T) {
	records := []domain.WorkRecord{
		{Ticket: "T-1", TicketDisplay: "T-1", Task: "prelogin cleanup", Developer: "Ana"},
		{Ticket: "T-2", TicketDisplay: "T-2", Task: "fix login", Developer: "Ana"},
	}

	got := ApplyFilters(records, domain.FilterCriteria{Query: " login"})
	assert.Equal(t, []string{"fix login/Ana"}, tasksOf(got))

	got = ApplyFilters(records, domain.FilterCriteria{Query: "login"})
	assert.Len(t, got, 2)

	got = ApplyFilters(records, domain.FilterCriteria{Query: "  "})
	assert.Empty(t, got)
}

func TestApplyFilters_EndDateWithClock(t *testing.T) {
	records := []domain.WorkRecord{{Date: day(2024, time.March, 4), Task: "t", Developer: "d"}}
	end := time.Date(2024, time.March, 4, 9, 30, 0, 0, time.UTC)

	assert.Len(t, ApplyFilters(records, domain.FilterCriteria{EndDate: &end}), 1)
}

func TestApplyFilters_DoesNotModifyInput(t *testing.T) {
	records := sampleRecords()
	before := tasksOf(records)

	_ = ApplyFilters(records, domain.FilterCriteria{ExcludeLeave: true, Developer: "Bo"})

	assert.Equal(t, before, tasksOf(records))
}

func TestPredicates_OrderIndependent(t *testing.T) {
	records := sampleRecords()
	criteria := domain.FilterCriteria{
		Developer:    "Ana",
		Status:       "Done",
		Productivity: domain.ProductivityProductive,
		Query:        "b",
		StartDate:    day(2024, time.March, 1),
		EndDate:      day(2024, time.March, 31),
		ExcludeLeave: true,
	}
	preds := Predicates(criteria)
	assert.Len(t, preds, 7)

	reference := ApplyFilters(records, criteria)
	for shift := 0; shift < len(preds); shift++ {
		rotated := append(append([]Predicate{}, preds[shift:]...), preds[:shift]...)
		reversed := make([]Predicate, len(rotated))
		for i, p := range rotated {
			reversed[len(rotated)-1-i] = p
		}

		for _, order := range [][]Predicate{rotated, reversed} {
			var got []domain.WorkRecord
			for _, r := range records {
				if Matches(r, order) {
					got = append(got, r)
				}
			}
			assert.Equal(t, tasksOf(reference), tasksOf(got))
		}
	}
}

func TestUniqueDevelopersAndStatuses(t *testing.T) {
	records := append(sampleRecords(),
		domain.WorkRecord{Task: "x", Developer: "émile", Status: "blocked"},
		domain.WorkRecord{Task: "y", Developer: "Zed", Status: "Done"},
	)

	assert.Equal(t, []string{"Ana", "Bo", "émile", "Zed"}, UniqueDevelopers(records))
	assert.Equal(t, []string{"blocked", "Done", "In Progress", "Leave"}, UniqueStatuses(records))
}

func TestMonthRange(t *testing.T) {
	r := domain.MonthRange(time.Date(2024, time.February, 17, 15, 0, 0, 0, time.UTC))

	assert.Equal(t, time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC), r.Start)
	assert.Equal(t, time.Date(2024, time.February, 29, 0, 0, 0, 0, time.UTC), r.End)
}

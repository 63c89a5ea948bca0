package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	api "sheetcheck/pkg/contracts/api/v1"
	"sheetcheck/pkg/contracts/domain"
)

// loadFlags select the sheet and how bare Time Spent numbers are read.
type loadFlags struct {
	sheet    string
	timeUnit string
}

func (f *loadFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.sheet, "sheet", "", "sheet to read (default: first data sheet)")
	cmd.Flags().StringVar(&f.timeUnit, "time-unit", "", "unit of bare Time Spent numbers: HOURS or MINUTES")
}

// filterFlags mirror the record filters of the web API.
type filterFlags struct {
	developer    string
	status       string
	productivity string
	query        string
	ticket       string
	start        string
	end          string
	excludeLeave bool
}

func (f *filterFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&f.developer, "developer", "", "only this developer")
	fs.StringVar(&f.status, "status", "", "only this status")
	fs.StringVar(&f.productivity, "productivity", "", "ALL, YES or NO")
	fs.StringVarP(&f.query, "query", "q", "", "text search over ticket and task")
	fs.StringVar(&f.ticket, "ticket", "", "ticket substring")
	fs.StringVar(&f.start, "start", "", "first day, YYYY-MM-DD")
	fs.StringVar(&f.end, "end", "", "last day, YYYY-MM-DD (inclusive)")
	fs.BoolVar(&f.excludeLeave, "exclude-leave", false, "drop leave entries")
}

func (f *filterFlags) toQuery() api.RecordsQuery {
	q := api.RecordsQuery{
		Developer:    f.developer,
		Status:       f.status,
		Productivity: f.productivity,
		Query:        f.query,
		Ticket:       f.ticket,
		Start:        f.start,
		End:          f.end,
	}
	if f.excludeLeave {
		q.ExcludeLeave = strconv.FormatBool(true)
	}
	return q
}

// criteria validates the flags the same way the API validates its query string.
func (app *App) criteria(f *filterFlags) (domain.FilterCriteria, error) {
	q := f.toQuery()
	if app.Validator != nil {
		if err := app.Validator.Struct(&q); err != nil {
			return domain.FilterCriteria{}, fmt.Errorf("invalid filter: %w", err)
		}
	}
	return q.Criteria()
}

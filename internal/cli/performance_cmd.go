package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"sheetcheck/internal/cli/formatter"
	"sheetcheck/internal/dataprocessing"
	"sheetcheck/pkg/contracts/domain"
)

type performanceReport struct {
	File        string                      `json:"file"`
	Sheet       string                      `json:"sheet"`
	Performance domain.DeveloperPerformance `json:"performance"`
	Charts      domain.ChartData            `json:"charts"`
}

func newPerformanceCmd(app *App) *cobra.Command {
	var (
		lf     loadFlags
		ff     filterFlags
		daily  bool
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "performance <file> --developer <name>",
		Short: "One developer's totals, statuses and task groups",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if ff.developer == "" {
				return errors.New("--developer is required")
			}
			c, err := app.criteria(&ff)
			if err != nil {
				return err
			}

			files, err := app.loadFiles(cmd.Context(), args, lf)
			if err != nil {
				return err
			}
			if len(files) != 1 {
				return fmt.Errorf("%s reads one workbook, got %d", cmd.Name(), len(files))
			}
			f := files[0]

			perf := dataprocessing.DeveloperPerformance(f.Result.Records, ff.developer, c, true)
			report := performanceReport{
				File:        f.Path,
				Sheet:       f.Result.Sheet,
				Performance: perf,
				Charts:      dataprocessing.PrepareCharts(perf.Records, perf.Totals, perf.Statuses),
			}

			if asJSON {
				return writeJSON(cmd.OutOrStdout(), report)
			}
			printPerformance(cmd.OutOrStdout(), report, daily)
			return nil
		},
	}

	lf.register(cmd)
	ff.register(cmd)
	cmd.Flags().BoolVar(&daily, "daily", false, "also print the per-day breakdown")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

func printPerformance(out io.Writer, report performanceReport, daily bool) {
	perf := report.Performance
	fmt.Fprintln(out, formatter.Header(perf.Developer))
	fmt.Fprintln(out, formatter.Dim(fmt.Sprintf("%s / %s", report.File, report.Sheet)))
	fmt.Fprint(out, formatter.FormatTotals(perf.Totals))
	fmt.Fprintln(out)
	fmt.Fprintln(out, formatter.Header("Statuses"))
	fmt.Fprint(out, formatter.FormatStatuses(perf.Statuses))
	fmt.Fprintln(out)
	fmt.Fprintln(out, formatter.Header("Tasks"))
	fmt.Fprint(out, formatter.FormatTaskGroups(perf.Groups))
	if daily {
		fmt.Fprintln(out)
		fmt.Fprintln(out, formatter.Header("Daily"))
		fmt.Fprint(out, formatter.FormatDaily(report.Charts.DailyBar))
	}
}

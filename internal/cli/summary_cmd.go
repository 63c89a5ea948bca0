package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"sheetcheck/internal/cli/formatter"
	"sheetcheck/internal/dataprocessing"
	"sheetcheck/pkg/contracts/domain"
)

type fileSummary struct {
	File     string                   `json:"file"`
	Sheet    string                   `json:"sheet"`
	Stats    dataprocessing.LoadStats `json:"stats"`
	Totals   domain.Totals            `json:"totals"`
	Statuses []domain.StatusCount     `json:"statuses"`
}

type summaryReport struct {
	Files    []fileSummary        `json:"files"`
	Totals   domain.Totals        `json:"totals"`
	Statuses []domain.StatusCount `json:"statuses"`
}

func newSummaryCmd(app *App) *cobra.Command {
	var (
		lf     loadFlags
		ff     filterFlags
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "summary <file>...",
		Short: "Totals and status breakdown for one or more workbooks",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := app.criteria(&ff)
			if err != nil {
				return err
			}

			files, err := app.loadFiles(cmd.Context(), args, lf)
			if err != nil {
				return err
			}

			report := buildSummary(files, c)
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), report)
			}
			printSummary(cmd.OutOrStdout(), report)
			return nil
		},
	}

	lf.register(cmd)
	ff.register(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

func buildSummary(files []loadedFile, c domain.FilterCriteria) summaryReport {
	report := summaryReport{Files: make([]fileSummary, 0, len(files))}
	var all []domain.WorkRecord

	for _, f := range files {
		records := dataprocessing.ApplyFilters(f.Result.Records, c)
		all = append(all, records...)
		report.Files = append(report.Files, fileSummary{
			File:     f.Path,
			Sheet:    f.Result.Sheet,
			Stats:    f.Result.Stats,
			Totals:   dataprocessing.ComputeTotals(records),
			Statuses: dataprocessing.StatusBreakdown(records),
		})
	}

	report.Totals = dataprocessing.ComputeTotals(all)
	report.Statuses = dataprocessing.StatusBreakdown(all)
	return report
}

func printSummary(out io.Writer, report summaryReport) {
	for _, f := range report.Files {
		fmt.Fprintln(out, formatter.FormatLoad(f.File, f.Sheet, f.Stats))
	}
	fmt.Fprintln(out)

	if len(report.Files) > 1 {
		fmt.Fprintln(out, formatter.Header("All files"))
	} else {
		fmt.Fprintln(out, formatter.Header("Totals"))
	}
	fmt.Fprint(out, formatter.FormatTotals(report.Totals))
	fmt.Fprintln(out)
	fmt.Fprintln(out, formatter.Header("Statuses"))
	fmt.Fprint(out, formatter.FormatStatuses(report.Statuses))
}

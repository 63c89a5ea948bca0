package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"sheetcheck/internal/dataprocessing"
)

func newExportCmd(app *App) *cobra.Command {
	var (
		lf      loadFlags
		ff      filterFlags
		outPath string
		tasks   bool
	)

	cmd := &cobra.Command{
		Use:   "export <file>",
		Short: "Write the filtered records, or one developer's task groups, as CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if tasks && ff.developer == "" {
				return errors.New("--tasks needs --developer")
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
			records := files[0].Result.Records

			var out io.Writer = cmd.OutOrStdout()
			if outPath != "" && outPath != "-" {
				file, err := os.Create(outPath)
				if err != nil {
					return fmt.Errorf("create %s: %w", outPath, err)
				}
				defer file.Close()
				out = file
			}

			if tasks {
				perf := dataprocessing.DeveloperPerformance(records, ff.developer, c, true)
				err = app.Exporter.ExportTaskGroups(out, perf.Groups)
			} else {
				err = app.Exporter.ExportRecords(out, dataprocessing.ApplyFilters(records, c))
			}
			if err != nil {
				return err
			}

			if outPath != "" && outPath != "-" {
				app.Logger.InfoContext(cmd.Context(), "Export written", slog.String("path", outPath))
			}
			return nil
		},
	}

	lf.register(cmd)
	ff.register(cmd)
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")
	cmd.Flags().BoolVar(&tasks, "tasks", false, "export task groups of --developer instead of records")
	return cmd
}

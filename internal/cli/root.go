package cli

import (
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"sheetcheck/internal/exporter"
	"sheetcheck/internal/files"
	"sheetcheck/internal/infrastructure"
	"sheetcheck/internal/middleware"
	"sheetcheck/internal/services"
	"sheetcheck/pkg/contracts"
)

// App holds what the report commands share.
type App struct {
	Ingestor    *services.Ingestor
	Exporter    *exporter.CSVWriter
	Discovery   *files.Discovery
	Validator   *middleware.Validator
	Concurrency int
	Logger      *slog.Logger
	Out         io.Writer
}

// NewRootCmd creates the top-level "sheetcheck" command and registers all
// subcommands against app.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "sheetcheck",
		Short:         "Timesheet workbook reports",
		Long:          "Read timesheet workbooks (xlsx or csv) and report totals, statuses and per-developer performance.\nA directory argument stands for every workbook directly inside it.",
		Version:       contracts.GetFullVersionString(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cmd.SetContext(infrastructure.EnsureTraceID(cmd.Context()))
		},
	}
	if app.Discovery == nil {
		app.Discovery = files.NewDiscovery(app.Logger)
	}
	if app.Out != nil {
		root.SetOut(app.Out)
	}

	root.AddCommand(
		newSheetsCmd(app),
		newSummaryCmd(app),
		newPerformanceCmd(app),
		newExportCmd(app),
	)

	return root
}

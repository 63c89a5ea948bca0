package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"sheetcheck/internal/cli/formatter"
)

type sheetListing struct {
	File       string   `json:"file"`
	Sheets     []string `json:"sheets"`
	Candidates []string `json:"candidates"`
}

func newSheetsCmd(app *App) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "sheets <file>...",
		Short: "List the sheets of each workbook and which ones hold timesheet data",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			paths, err := app.Discovery.Expand(args)
			if err != nil {
				return err
			}

			listings := make([]sheetListing, 0, len(paths))
			for _, path := range paths {
				wb, err := openWorkbook(path)
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				listings = append(listings, sheetListing{
					File:       path,
					Sheets:     wb.SheetNames(),
					Candidates: app.Ingestor.Candidates(wb),
				})
				wb.Close()
			}

			out := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(out, listings)
			}
			for i, l := range listings {
				if i > 0 {
					fmt.Fprintln(out)
				}
				fmt.Fprintln(out, formatter.Header(l.File))
				fmt.Fprint(out, formatter.FormatSheets(l.Sheets, l.Candidates))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

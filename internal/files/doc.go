// Package files finds timesheet workbooks on disk.
//
// The command line accepts files and directories. Discovery expands each
// directory into the workbooks it holds (.xlsx, .xlsm, .csv), skipping the
// lock files spreadsheet editors leave behind ("~$name.xlsx") and hidden
// files. Explicit file arguments are passed through as given so that a
// typo surfaces as a read error naming the file.
//
// Example usage:
//
//	discovery := files.NewDiscovery(logger)
//	paths, err := discovery.Expand([]string{"march.xlsx", "reports/"})
package files

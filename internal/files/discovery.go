package files

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"sheetcheck/internal/infrastructure"
)

// FileInfo describes a discovered workbook
type FileInfo struct {
	Path    string
	Name    string
	Size    int64
	ModTime time.Time
}

// Extensions lists the workbook extensions discovery picks up.
var Extensions = []string{".xlsx", ".xlsm", ".csv"}

// Discovery finds workbooks in directories
type Discovery struct {
	logger *slog.Logger
}

// NewDiscovery creates a new discovery instance
func NewDiscovery(logger *slog.Logger) *Discovery {
	if logger == nil {
		logger = slog.Default()
	}
	return &Discovery{logger: infrastructure.WithComponent(logger, "discovery")}
}

// IsWorkbook reports whether name looks like a workbook discovery should read.
func IsWorkbook(name string) bool {
	base := filepath.Base(name)
	if strings.HasPrefix(base, "~$") || strings.HasPrefix(base, ".") {
		return false
	}
	ext := strings.ToLower(filepath.Ext(base))
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// FindWorkbooks lists the workbooks directly inside dir, sorted by name.
// Subdirectories are not descended into.
func (d *Discovery) FindWorkbooks(dir string) ([]FileInfo, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	var found []FileInfo
	for _, entry := range entries {
		if entry.IsDir() || !IsWorkbook(entry.Name()) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			d.logger.Warn("Skipping unreadable entry",
				slog.String("directory", dir),
				slog.String("name", entry.Name()),
				slog.String("error", err.Error()))
			continue
		}
		found = append(found, FileInfo{
			Path:    filepath.Join(dir, entry.Name()),
			Name:    entry.Name(),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	sort.Slice(found, func(i, j int) bool {
		return found[i].Name < found[j].Name
	})

	d.logger.Debug("Directory scanned",
		slog.String("directory", dir),
		slog.Int("workbooks", len(found)))
	return found, nil
}

// Expand replaces every directory in args with the workbooks inside it.
// Other arguments are kept in place. A directory without workbooks is an error.
func (d *Discovery) Expand(args []string) ([]string, error) {
	paths := make([]string, 0, len(args))
	seen := make(map[string]bool, len(args))

	add := func(p string) {
		clean := filepath.Clean(p)
		if seen[clean] {
			return
		}
		seen[clean] = true
		paths = append(paths, p)
	}

	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil || !info.IsDir() {
			add(arg)
			continue
		}

		found, err := d.FindWorkbooks(arg)
		if err != nil {
			return nil, err
		}
		if len(found) == 0 {
			return nil, fmt.Errorf("no workbooks in %s", arg)
		}
		for _, f := range found {
			add(f.Path)
		}
	}
	return paths, nil
}

package services

import (
	"sync"
	"time"

	"sheetcheck/internal/dataprocessing"
	"sheetcheck/internal/workbook"
	"sheetcheck/pkg/contracts/domain"
)

// Dataset is one loaded sheet of a workbook. A Dataset value is never
// modified after it is stored; reloading a sheet stores a new value.
type Dataset struct {
	ID          string
	FileName    string
	Source      string
	Fingerprint string
	Sheets      []string
	AllSheets   []string
	Sheet       string
	Mode        domain.DurationMode
	Stats       dataprocessing.LoadStats
	Records     []domain.WorkRecord
	Totals      domain.Totals
	LoadedAt    time.Time

	workbook workbook.Workbook
}

// DatasetInfo is the client-facing description of a dataset, without records.
type DatasetInfo struct {
	ID           string                   `json:"id"`
	FileName     string                   `json:"file_name"`
	Source       string                   `json:"source"`
	Fingerprint  string                   `json:"fingerprint"`
	Sheets       []string                 `json:"sheets"`
	AllSheets    []string                 `json:"all_sheets"`
	Sheet        string                   `json:"sheet"`
	DurationMode domain.DurationMode      `json:"duration_mode"`
	Stats        dataprocessing.LoadStats `json:"stats"`
	RecordCount  int                      `json:"record_count"`
	Totals       domain.Totals            `json:"totals"`
	LoadedAt     time.Time                `json:"loaded_at"`
}

// Info describes the dataset.
func (d *Dataset) Info() DatasetInfo {
	return DatasetInfo{
		ID:           d.ID,
		FileName:     d.FileName,
		Source:       d.Source,
		Fingerprint:  d.Fingerprint,
		Sheets:       d.Sheets,
		AllSheets:    d.AllSheets,
		Sheet:        d.Sheet,
		DurationMode: d.Mode,
		Stats:        d.Stats,
		RecordCount:  len(d.Records),
		Totals:       d.Totals,
		LoadedAt:     d.LoadedAt,
	}
}

// withLoad returns a copy of d carrying a fresh load of the same workbook.
func (d *Dataset) withLoad(result *dataprocessing.LoadResult, mode domain.DurationMode, at time.Time) *Dataset {
	next := *d
	next.Sheet = result.Sheet
	next.Mode = mode
	next.Stats = result.Stats
	next.Records = result.Records
	next.Totals = dataprocessing.ComputeTotals(result.Records)
	next.LoadedAt = at
	return &next
}

// DatasetStore holds the loaded datasets in memory.
// When full, storing a new dataset evicts the oldest one.
type DatasetStore struct {
	mu       sync.RWMutex
	datasets map[string]*Dataset
	order    []string
	max      int
}

// NewDatasetStore creates a store holding at most max datasets. max <= 0 means unbounded.
func NewDatasetStore(max int) *DatasetStore {
	return &DatasetStore{
		datasets: make(map[string]*Dataset),
		max:      max,
	}
}

// Get returns the current version of a dataset.
func (s *DatasetStore) Get(id string) (*Dataset, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ds, ok := s.datasets[id]
	return ds, ok
}

// Put stores a new dataset and returns the datasets evicted to make room.
func (s *DatasetStore) Put(ds *Dataset) []*Dataset {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.datasets[ds.ID]; exists {
		s.datasets[ds.ID] = ds
		return nil
	}

	var evicted []*Dataset
	for s.max > 0 && len(s.order) >= s.max {
		oldest := s.order[0]
		s.order = s.order[1:]
		evicted = append(evicted, s.datasets[oldest])
		delete(s.datasets, oldest)
	}

	s.datasets[ds.ID] = ds
	s.order = append(s.order, ds.ID)
	return evicted
}

// Replace swaps in a new version of an existing dataset. It reports false
// when the dataset is gone, e.g. deleted while the new version was loading.
func (s *DatasetStore) Replace(ds *Dataset) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.datasets[ds.ID]; !ok {
		return false
	}
	s.datasets[ds.ID] = ds
	return true
}

// Delete removes a dataset and returns it.
func (s *DatasetStore) Delete(id string) (*Dataset, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ds, ok := s.datasets[id]
	if !ok {
		return nil, false
	}
	delete(s.datasets, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return ds, true
}

// List returns the datasets oldest first.
func (s *DatasetStore) List() []*Dataset {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Dataset, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.datasets[id])
	}
	return out
}

// Len returns the number of stored datasets.
func (s *DatasetStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.datasets)
}

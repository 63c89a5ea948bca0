package dataprocessing

import (
	"sort"
	"time"

	"sheetcheck/pkg/contracts/domain"
)

// Productive pie labels.
const (
	LabelProductive    = "Productive Tasks"
	LabelNonProductive = "Non-Productive Tasks"
)

const dayLayout = "2006-01-02"

// PrepareCharts reshapes records and their aggregates into chart series.
// Undated records count towards the pies but not the time series.
func PrepareCharts(records []domain.WorkRecord, totals domain.Totals, statuses []domain.StatusCount) domain.ChartData {
	status := domain.CategorySeries{
		Labels: make([]string, 0, len(statuses)),
		Values: make([]float64, 0, len(statuses)),
	}
	for _, s := range statuses {
		status.Labels = append(status.Labels, s.Status)
		status.Values = append(status.Values, float64(s.Count))
	}

	return domain.ChartData{
		StatusPie: status,
		ProductivePie: domain.CategorySeries{
			Labels: []string{LabelProductive, LabelNonProductive},
			Values: []float64{float64(totals.ProductiveCount), float64(totals.NonProductiveCount)},
		},
		DailyBar: bucketSeries(records, calendarDay, func(t time.Time) string {
			return t.Format(dayLayout)
		}),
		WeeklyLine: bucketSeries(records, weekStart, func(t time.Time) string {
			return "Week of " + t.Format(dayLayout)
		}),
	}
}

// weekStart returns the Sunday on or before t.
func weekStart(t time.Time) time.Time {
	day := calendarDay(t)
	return day.AddDate(0, 0, -int(day.Weekday()))
}

type bucket struct {
	productive float64
	tasks      int
}

// bucketSeries sums productive hours and counts tasks per bucket, in ascending bucket order.
func bucketSeries(records []domain.WorkRecord, key func(time.Time) time.Time, label func(time.Time) string) domain.TimeSeries {
	buckets := make(map[time.Time]*bucket)
	for _, r := range records {
		if !r.HasDate() {
			continue
		}
		k := key(*r.Date)
		b, ok := buckets[k]
		if !ok {
			b = &bucket{}
			buckets[k] = b
		}
		b.productive += r.ProductiveHours
		b.tasks++
	}

	keys := make([]time.Time, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Before(keys[j]) })

	series := domain.TimeSeries{
		Labels: make([]string, 0, len(keys)),
		Series: map[string][]float64{
			domain.SeriesProductiveHours: make([]float64, 0, len(keys)),
			domain.SeriesTaskCount:       make([]float64, 0, len(keys)),
		},
	}
	for _, k := range keys {
		b := buckets[k]
		series.Labels = append(series.Labels, label(k))
		series.Series[domain.SeriesProductiveHours] = append(series.Series[domain.SeriesProductiveHours], b.productive)
		series.Series[domain.SeriesTaskCount] = append(series.Series[domain.SeriesTaskCount], float64(b.tasks))
	}
	return series
}

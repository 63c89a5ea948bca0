package domain

// CategorySeries is a labelled categorical series, e.g. for a pie chart.
type CategorySeries struct {
	Labels []string  `json:"labels"`
	Values []float64 `json:"values"`
}

// TimeSeries is a set of named series sharing the same ordered labels.
type TimeSeries struct {
	Labels []string            `json:"labels"`
	Series map[string][]float64 `json:"series"`
}

// Series names used by the time-bucketed charts.
const (
	SeriesProductiveHours = "productive_hours"
	SeriesTaskCount       = "task_count"
)

// ChartData is everything a front end needs to draw the performance charts.
type ChartData struct {
	StatusPie     CategorySeries `json:"status_pie"`
	ProductivePie CategorySeries `json:"productive_pie"`
	DailyBar      TimeSeries     `json:"daily_bar"`
	WeeklyLine    TimeSeries     `json:"weekly_line"`
}

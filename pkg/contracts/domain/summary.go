package domain

import (
	"time"
)

// UnknownStatus labels records whose status is blank.
const UnknownStatus = "Unknown"

// UnnamedTask labels task groups whose task text is blank.
const UnnamedTask = "Unnamed Task"

// Totals summarises a record set.
// ProductiveCount + NonProductiveCount always equals Tasks.
type Totals struct {
	Minutes            int     `json:"minutes" validate:"min=0"`
	ProductiveHours    float64 `json:"productive_hours" validate:"min=0"`
	Tasks              int     `json:"tasks" validate:"min=0"`
	Developers         int     `json:"developers" validate:"min=0"`
	ProductiveCount    int     `json:"productive_count" validate:"min=0"`
	NonProductiveCount int     `json:"non_productive_count" validate:"min=0"`
}

// StatusCount is one entry of a status breakdown.
type StatusCount struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

// TaskGroup aggregates all records sharing the same task text.
type TaskGroup struct {
	Task                 string     `json:"task"`
	Count                int        `json:"count"`
	TotalMinutes         int        `json:"total_minutes"`
	TotalProductiveHours float64    `json:"total_productive_hours"`
	AvgProductiveHours   float64    `json:"avg_productive_hours"`
	Tickets              []string   `json:"tickets"`
	Statuses             []string   `json:"statuses"`
	FirstDate            *time.Time `json:"first_date,omitempty"`
	LastDate             *time.Time `json:"last_date,omitempty"`
}

// DeveloperPerformance is the per-developer breakdown behind the performance view.
type DeveloperPerformance struct {
	Developer string        `json:"developer"`
	Totals    Totals        `json:"totals"`
	Statuses  []StatusCount `json:"statuses"`
	Groups    []TaskGroup   `json:"groups,omitempty"`
	Records   []WorkRecord  `json:"records"`
}

package heatmap

import "time"

// YearView is the response for a single-year heatmap request.
type YearView struct {
	ActiveYears      []int  `json:"activeYears"`
	Streak           Streak `json:"streak"`
	TotalActiveDays  int    `json:"totalActiveDays"`
	TotalSubmissions int    `json:"totalSubmissions"`
	Heatmap          Grid   `json:"heatmap"`
}

// YearAggregates is the per-year slice of a summary, without the grid.
type YearAggregates struct {
	ActiveDays       int `json:"activeDays"`
	TotalSubmissions int `json:"totalSubmissions"`
	MaxStreak        int `json:"maxStreak"`
}

// SummaryView is the cross-year response when no year is requested. It is
// built entirely from the store.
type SummaryView struct {
	ActiveYears      []int                     `json:"activeYears"`
	TotalActiveDays  int                       `json:"totalActiveDays"`
	TotalSubmissions int                       `json:"totalSubmissions"`
	MaxStreak        int                       `json:"maxStreak"`
	LastUpdated      *time.Time                `json:"lastUpdated"`
	PerYear          map[string]YearAggregates `json:"perYear"`
}

// YearsView is the years-only response.
type YearsView struct {
	Years []int `json:"years"`
}

package heatmap

import (
	"strconv"
	"time"

	"codeboard/internal/models"
)

const dayFormat = "2006-01-02"

var monthNames = [12]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

// DaySlot is one populated day cell of the grid.
type DaySlot struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// Week is a Sunday-to-Saturday row. Slots outside the month are nil.
type Week []*DaySlot

type Month struct {
	Name  string `json:"name"`
	Weeks []Week `json:"weeks"`
}

// Grid is the canonical day grid for one year: twelve months, each with an
// independent week grid. It is produced for response shaping only and never
// persisted.
type Grid struct {
	Months []Month `json:"months"`
}

type Streak struct {
	Max     int `json:"max"`
	Current int `json:"current"`
}

// Normalized is the full output of Normalize for one calendar and one year.
type Normalized struct {
	Grid             Grid
	TotalActiveDays  int
	TotalSubmissions int
	Streak           Streak
	SkippedKeys      int
}

// Normalize converts an upstream day→count calendar into the canonical grid
// for the given year and computes its aggregates.
//
// Keys are parsed as epoch seconds when numeric, otherwise as YYYY-MM-DD or
// RFC 3339 dates; each fetcher documents which convention it emits. Malformed
// keys are counted in SkippedKeys and otherwise ignored. Days outside the
// target year never affect the output.
//
// Each month gets its own week grid starting at the month's first day,
// rather than a continuous year-long grid, so week numbering is unambiguous
// and month output is independent of its neighbors.
//
// The current streak is the run of active days ending on today's date and is
// only reported when the target year is the current year of `now` (UTC).
func Normalize(cal models.RawCalendar, year int, now time.Time) *Normalized {
	byDate := make(map[string]int, len(cal))
	skipped := 0
	for key, count := range cal {
		date, ok := parseDayKey(key)
		if !ok {
			skipped++
			continue
		}
		byDate[date] += count
	}

	result := &Normalized{
		Grid:        Grid{Months: make([]Month, 0, 12)},
		SkippedKeys: skipped,
	}

	for m := time.January; m <= time.December; m++ {
		lastDay := daysInMonth(year, m)
		month := Month{Name: monthNames[m-1]}
		week := make(Week, 7)

		for d := 1; d <= lastDay; d++ {
			date := time.Date(year, m, d, 0, 0, 0, 0, time.UTC)
			dateStr := date.Format(dayFormat)
			dow := int(date.Weekday())

			week[dow] = &DaySlot{Date: dateStr, Count: byDate[dateStr]}

			if dow == 6 || d == lastDay {
				month.Weeks = append(month.Weeks, week)
				week = make(Week, 7)
			}
		}
		result.Grid.Months = append(result.Grid.Months, month)
	}

	nowUTC := now.UTC()
	today := nowUTC.Format(dayFormat)
	running := 0
	for d := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC); d.Year() == year; d = d.AddDate(0, 0, 1) {
		count := byDate[d.Format(dayFormat)]
		if count > 0 {
			running++
			result.TotalActiveDays++
			result.TotalSubmissions += count
			if running > result.Streak.Max {
				result.Streak.Max = running
			}
		} else {
			running = 0
		}
		if year == nowUTC.Year() && d.Format(dayFormat) == today {
			result.Streak.Current = running
		}
	}

	return result
}

// Aggregates packages the normalized values into a storable YearEntry.
func (n *Normalized) Aggregates(rawCalendar string) *models.YearEntry {
	return &models.YearEntry{
		SubmissionCalendar: rawCalendar,
		ActiveDays:         n.TotalActiveDays,
		TotalSubmissions:   n.TotalSubmissions,
		MaxStreak:          n.Streak.Max,
	}
}

func parseDayKey(key string) (string, bool) {
	if ts, err := strconv.ParseInt(key, 10, 64); err == nil {
		return time.Unix(ts, 0).UTC().Format(dayFormat), true
	}
	if t, err := time.Parse(dayFormat, key); err == nil {
		return t.Format(dayFormat), true
	}
	if t, err := time.Parse(time.RFC3339, key); err == nil {
		return t.UTC().Format(dayFormat), true
	}
	return "", false
}

func daysInMonth(year int, m time.Month) int {
	return time.Date(year, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

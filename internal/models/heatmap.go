package models

import (
	"sort"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
)

type Platform string

const (
	PlatformLeetCode Platform = "leetcode"
	PlatformGitHub   Platform = "github"
)

// RawCalendar maps a day key to a submission/contribution count.
// Key conventions differ per platform: LeetCode uses epoch seconds (UTC),
// GitHub uses YYYY-MM-DD dates. The normalizer accepts both.
type RawCalendar map[string]int

// ParseRawCalendar decodes the serialized day→count form stored in a
// YearEntry back into a RawCalendar.
func ParseRawCalendar(serialized string) (RawCalendar, error) {
	if serialized == "" {
		return RawCalendar{}, nil
	}
	var cal RawCalendar
	if err := json.Unmarshal([]byte(serialized), &cal); err != nil {
		return nil, err
	}
	return cal, nil
}

// Serialize renders the calendar as compact JSON. Map keys are emitted in
// sorted order, so identical calendars always serialize identically.
func (rc RawCalendar) Serialize() (string, error) {
	data, err := json.Marshal(rc)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// YearEntry is the cached unit for one user, one platform, one year:
// the raw calendar exactly as received plus the aggregates derived from it.
type YearEntry struct {
	SubmissionCalendar string `json:"submissionCalendar"`
	ActiveDays         int    `json:"activeDays"`
	TotalSubmissions   int    `json:"totalSubmissions"`
	MaxStreak          int    `json:"maxStreak"`
}

// HeatmapRecord holds all cached calendar years for one (user, platform)
// pair. Record-level totals are derived from the year entries and must be
// recomputed on every mutation.
type HeatmapRecord struct {
	UserID           uuid.UUID
	Platform         Platform
	Username         string
	ActiveYears      []int
	Years            map[int]*YearEntry
	TotalActiveDays  int
	TotalSubmissions int
	MaxStreak        int
	LastUpdated      time.Time
}

func NewHeatmapRecord(userID uuid.UUID, platform Platform, username string) *HeatmapRecord {
	return &HeatmapRecord{
		UserID:   userID,
		Platform: platform,
		Username: username,
		Years:    make(map[int]*YearEntry),
	}
}

// Year returns the cached entry for the given year, if present.
func (r *HeatmapRecord) Year(year int) (*YearEntry, bool) {
	entry, ok := r.Years[year]
	return entry, ok
}

// PutYear replaces the entry for one year wholesale and recomputes the
// record-level totals. ActiveYears is kept a superset of the stored years.
func (r *HeatmapRecord) PutYear(year int, entry *YearEntry) {
	if r.Years == nil {
		r.Years = make(map[int]*YearEntry)
	}
	r.Years[year] = entry
	r.MergeActiveYears([]int{year})
	r.RecomputeTotals()
}

// MergeActiveYears unions the given years into ActiveYears, kept in
// descending order (most recent first).
func (r *HeatmapRecord) MergeActiveYears(years []int) {
	seen := make(map[int]struct{}, len(r.ActiveYears)+len(years))
	merged := make([]int, 0, len(r.ActiveYears)+len(years))
	for _, y := range r.ActiveYears {
		if _, ok := seen[y]; !ok {
			seen[y] = struct{}{}
			merged = append(merged, y)
		}
	}
	for _, y := range years {
		if _, ok := seen[y]; !ok {
			seen[y] = struct{}{}
			merged = append(merged, y)
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(merged)))
	r.ActiveYears = merged
}

// RecomputeTotals rebuilds the record-level aggregates from the year map:
// totals are sums over all years, MaxStreak is the maximum per-year streak.
func (r *HeatmapRecord) RecomputeTotals() {
	r.TotalActiveDays = 0
	r.TotalSubmissions = 0
	r.MaxStreak = 0
	for _, entry := range r.Years {
		r.TotalActiveDays += entry.ActiveDays
		r.TotalSubmissions += entry.TotalSubmissions
		if entry.MaxStreak > r.MaxStreak {
			r.MaxStreak = entry.MaxStreak
		}
	}
}

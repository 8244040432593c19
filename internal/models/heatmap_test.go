package models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRawCalendar_RoundTrip(t *testing.T) {
	cal := RawCalendar{"1704067200": 3, "2024-01-03": 5}

	raw, err := cal.Serialize()
	require.NoError(t, err)

	parsed, err := ParseRawCalendar(raw)
	require.NoError(t, err)
	assert.Equal(t, cal, parsed)

	rawAgain, err := parsed.Serialize()
	require.NoError(t, err)
	assert.Equal(t, raw, rawAgain)
}

func TestParseRawCalendar_Empty(t *testing.T) {
	cal, err := ParseRawCalendar("")
	require.NoError(t, err)
	assert.Empty(t, cal)
}

func TestParseRawCalendar_Invalid(t *testing.T) {
	_, err := ParseRawCalendar("<html>")
	assert.Error(t, err)
}

func TestHeatmapRecord_PutYearRecomputesTotals(t *testing.T) {
	rec := NewHeatmapRecord(uuid.New(), PlatformLeetCode, "alice")

	rec.PutYear(2023, &YearEntry{ActiveDays: 10, TotalSubmissions: 40, MaxStreak: 4})
	rec.PutYear(2024, &YearEntry{ActiveDays: 5, TotalSubmissions: 12, MaxStreak: 7})

	assert.Equal(t, 15, rec.TotalActiveDays)
	assert.Equal(t, 52, rec.TotalSubmissions)
	assert.Equal(t, 7, rec.MaxStreak)
	assert.Equal(t, []int{2024, 2023}, rec.ActiveYears)
}

func TestHeatmapRecord_PutYearReplacesWholesale(t *testing.T) {
	rec := NewHeatmapRecord(uuid.New(), PlatformGitHub, "bob")

	rec.PutYear(2024, &YearEntry{ActiveDays: 100, TotalSubmissions: 500, MaxStreak: 30})
	rec.PutYear(2024, &YearEntry{ActiveDays: 2, TotalSubmissions: 3, MaxStreak: 2})

	entry, ok := rec.Year(2024)
	require.True(t, ok)
	assert.Equal(t, 2, entry.ActiveDays)
	assert.Equal(t, 3, rec.TotalSubmissions)
	assert.Equal(t, 2, rec.MaxStreak)
	assert.Equal(t, []int{2024}, rec.ActiveYears)
}

func TestHeatmapRecord_MergeActiveYears(t *testing.T) {
	rec := NewHeatmapRecord(uuid.New(), PlatformLeetCode, "alice")
	rec.ActiveYears = []int{2022, 2024}

	rec.MergeActiveYears([]int{2023, 2024, 2021})

	assert.Equal(t, []int{2024, 2023, 2022, 2021}, rec.ActiveYears)
}

func TestHeatmapRecord_YearMissing(t *testing.T) {
	rec := NewHeatmapRecord(uuid.New(), PlatformLeetCode, "alice")

	_, ok := rec.Year(2020)
	assert.False(t, ok)
}

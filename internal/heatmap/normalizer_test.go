package heatmap

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeboard/internal/models"
)

func slotCount(t *testing.T, g Grid, month int, date string) int {
	t.Helper()
	for _, week := range g.Months[month].Weeks {
		for _, slot := range week {
			if slot != nil && slot.Date == date {
				return slot.Count
			}
		}
	}
	t.Fatalf("date %s not found in month %d", date, month)
	return 0
}

func countSlots(g Grid) int {
	total := 0
	for _, month := range g.Months {
		for _, week := range month.Weeks {
			for _, slot := range week {
				if slot != nil {
					total++
				}
			}
		}
	}
	return total
}

func TestNormalize_EpochKeys(t *testing.T) {
	// 2024-01-01, 2024-01-02, 2024-01-03
	cal := models.RawCalendar{
		"1704067200": 3,
		"1704153600": 0,
		"1704240000": 5,
	}
	now := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)

	norm := Normalize(cal, 2024, now)

	require.Len(t, norm.Grid.Months, 12)
	assert.Equal(t, 3, slotCount(t, norm.Grid, 0, "2024-01-01"))
	assert.Equal(t, 0, slotCount(t, norm.Grid, 0, "2024-01-02"))
	assert.Equal(t, 5, slotCount(t, norm.Grid, 0, "2024-01-03"))

	assert.Equal(t, 2, norm.TotalActiveDays)
	assert.Equal(t, 8, norm.TotalSubmissions)
	assert.Equal(t, 1, norm.Streak.Max)
	assert.Equal(t, 0, norm.SkippedKeys)
}

func TestNormalize_DateKeys(t *testing.T) {
	cal := models.RawCalendar{
		"2023-03-01": 1,
		"2023-03-02": 1,
		"2023-03-03": 0,
		"2023-03-04": 1,
	}
	now := time.Date(2023, time.March, 4, 15, 0, 0, 0, time.UTC)

	norm := Normalize(cal, 2023, now)

	assert.Equal(t, 3, norm.TotalActiveDays)
	assert.Equal(t, 3, norm.TotalSubmissions)
	assert.Equal(t, 2, norm.Streak.Max)
	assert.Equal(t, 1, norm.Streak.Current)
}

func TestNormalize_CurrentStreakOnlyForCurrentYear(t *testing.T) {
	cal := models.RawCalendar{
		"2023-03-03": 2,
		"2023-03-04": 1,
	}
	now := time.Date(2024, time.March, 4, 0, 0, 0, 0, time.UTC)

	norm := Normalize(cal, 2023, now)

	assert.Equal(t, 2, norm.Streak.Max)
	assert.Equal(t, 0, norm.Streak.Current)
}

func TestNormalize_StreakSpansMonthBoundary(t *testing.T) {
	cal := models.RawCalendar{
		"2023-01-31": 1,
		"2023-02-01": 4,
	}
	now := time.Date(2023, time.December, 31, 0, 0, 0, 0, time.UTC)

	norm := Normalize(cal, 2023, now)

	assert.Equal(t, 2, norm.Streak.Max)
}

func TestNormalize_GridCoversWholeYear(t *testing.T) {
	now := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, 365, countSlots(Normalize(models.RawCalendar{}, 2023, now).Grid))
	assert.Equal(t, 366, countSlots(Normalize(models.RawCalendar{}, 2024, now).Grid))
}

func TestNormalize_WeekShape(t *testing.T) {
	now := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	norm := Normalize(models.RawCalendar{}, 2024, now)

	// Feb 2024 starts on a Thursday and has 29 days: 3 + 7 + 7 + 7 + 5.
	feb := norm.Grid.Months[1]
	assert.Equal(t, "Feb", feb.Name)
	require.Len(t, feb.Weeks, 5)
	for _, week := range feb.Weeks {
		assert.Len(t, week, 7)
	}
	// Sunday through Wednesday of the first week are outside the month.
	for dow := 0; dow < 4; dow++ {
		assert.Nil(t, feb.Weeks[0][dow])
	}
	require.NotNil(t, feb.Weeks[0][4])
	assert.Equal(t, "2024-02-01", feb.Weeks[0][4].Date)
}

func TestNormalize_MalformedKeysSkipped(t *testing.T) {
	cal := models.RawCalendar{
		"2023-05-10":   2,
		"not-a-date":   7,
		"2023-13-40":   1,
		"2023-05-10T!": 3,
	}
	now := time.Date(2023, time.June, 1, 0, 0, 0, 0, time.UTC)

	norm := Normalize(cal, 2023, now)

	assert.Equal(t, 3, norm.SkippedKeys)
	assert.Equal(t, 1, norm.TotalActiveDays)
	assert.Equal(t, 2, norm.TotalSubmissions)
}

func TestNormalize_DuplicateKeysMergeIntoOneDay(t *testing.T) {
	// 1715342400 is 2024-05-10T12:00:00Z, same day as the date key.
	cal := models.RawCalendar{
		"2024-05-10": 2,
		"1715342400": 3,
	}
	now := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)

	norm := Normalize(cal, 2024, now)

	assert.Equal(t, 1, norm.TotalActiveDays)
	assert.Equal(t, 5, norm.TotalSubmissions)
	assert.Equal(t, 5, slotCount(t, norm.Grid, 4, "2024-05-10"))
}

func TestNormalize_OtherYearsIgnored(t *testing.T) {
	cal := models.RawCalendar{
		"2022-12-31": 9,
		"2023-01-01": 1,
		"2024-01-01": 9,
	}
	now := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)

	norm := Normalize(cal, 2023, now)

	assert.Equal(t, 1, norm.TotalActiveDays)
	assert.Equal(t, 1, norm.TotalSubmissions)
}

func TestNormalize_RFC3339Keys(t *testing.T) {
	cal := models.RawCalendar{
		"2023-07-04T10:30:00Z": 4,
	}
	now := time.Date(2023, time.August, 1, 0, 0, 0, 0, time.UTC)

	norm := Normalize(cal, 2023, now)

	assert.Equal(t, 0, norm.SkippedKeys)
	assert.Equal(t, 4, slotCount(t, norm.Grid, 6, "2023-07-04"))
}

func TestNormalize_RoundTripProducesSameAggregates(t *testing.T) {
	cal := models.RawCalendar{
		"1704067200": 3,
		"1704240000": 5,
		"1705363200": 1,
	}
	now := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)

	first := Normalize(cal, 2024, now)
	raw, err := cal.Serialize()
	require.NoError(t, err)

	reparsed, err := models.ParseRawCalendar(raw)
	require.NoError(t, err)
	second := Normalize(reparsed, 2024, now)

	assert.Equal(t, first.TotalActiveDays, second.TotalActiveDays)
	assert.Equal(t, first.TotalSubmissions, second.TotalSubmissions)
	assert.Equal(t, first.Streak, second.Streak)

	rawAgain, err := reparsed.Serialize()
	require.NoError(t, err)
	assert.Equal(t, raw, rawAgain)
}

func TestAggregates(t *testing.T) {
	cal := models.RawCalendar{"2023-03-01": 2, "2023-03-02": 3}
	now := time.Date(2023, time.April, 1, 0, 0, 0, 0, time.UTC)

	entry := Normalize(cal, 2023, now).Aggregates(`{"2023-03-01":2,"2023-03-02":3}`)

	assert.Equal(t, 2, entry.ActiveDays)
	assert.Equal(t, 5, entry.TotalSubmissions)
	assert.Equal(t, 2, entry.MaxStreak)
	assert.Equal(t, `{"2023-03-01":2,"2023-03-02":3}`, entry.SubmissionCalendar)
}

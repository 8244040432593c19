package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"golang.org/x/sync/singleflight"

	"codeboard/internal/heatmap"
	"codeboard/internal/models"
	"codeboard/internal/providers"
	"codeboard/internal/repository"
	"codeboard/internal/structures"
	"codeboard/internal/upstream"
)

// ErrStoreUnavailable marks read paths that cannot be served without the
// store. Write-path store failures degrade to uncached responses instead.
var ErrStoreUnavailable = errors.New("heatmap store unavailable")

// CalendarFetcher is the per-platform upstream contract the orchestrator
// depends on. Fetchers never retry; retry policy lives with the caller.
type CalendarFetcher interface {
	ActiveYears(ctx context.Context, handle string) ([]int, error)
	YearCalendar(ctx context.Context, handle string, year int) (models.RawCalendar, error)
}

type HeatmapServiceInterface interface {
	// ResolveYear serves one year's grid, from the store when cached and
	// refresh is not requested, otherwise fetch→normalize→persist→return.
	ResolveYear(ctx context.Context, platform models.Platform, handle string, year int, refresh bool) (*heatmap.YearView, error)
	// ResolveSummary serves the cross-year aggregates, built from the store.
	ResolveSummary(ctx context.Context, platform models.Platform, handle string) (*heatmap.SummaryView, error)
	// ListYears serves the active-years projection.
	ListYears(ctx context.Context, platform models.Platform, handle string, refresh bool) (*heatmap.YearsView, error)
}

type HeatmapService struct {
	fetchers     map[models.Platform]CalendarFetcher
	records      repository.HeatmapRepositoryI
	users        repository.UsersRepositoryI
	logger       providers.Logger
	metrics      providers.MetricsProviderInterface
	group        singleflight.Group
	fetchTimeout time.Duration
	now          func() time.Time
}

func NewHeatmapService(
	conf *structures.Config,
	logger providers.Logger,
	metrics providers.MetricsProviderInterface,
	records repository.HeatmapRepositoryI,
	users repository.UsersRepositoryI,
	leetcode *upstream.LeetCodeClient,
	github *upstream.GitHubClient,
) HeatmapServiceInterface {
	return &HeatmapService{
		fetchers: map[models.Platform]CalendarFetcher{
			models.PlatformLeetCode: leetcode,
			models.PlatformGitHub:   github,
		},
		records:      records,
		users:        users,
		logger:       logger,
		metrics:      metrics,
		fetchTimeout: conf.Upstream.FetchTimeout,
		now:          time.Now,
	}
}

func (hs *HeatmapService) ResolveYear(ctx context.Context, platform models.Platform, handle string, year int, refresh bool) (*heatmap.YearView, error) {
	fetcher, err := hs.fetcher(platform)
	if err != nil {
		return nil, err
	}

	user, linked := hs.lookupUser(ctx, platform, handle)

	if linked && !refresh {
		rec, err := hs.records.Get(ctx, user.ID, platform)
		switch {
		case err == nil:
			if entry, ok := rec.Year(year); ok {
				return hs.yearViewFromEntry(rec, year, entry)
			}
		case errors.Is(err, repository.ErrNotFound):
			// fall through to fetch
		default:
			hs.logger.Warnf(providers.TypeStore, "Heatmap cache read failed for %s/%s: %s", platform, handle, err)
		}
	}

	key := hs.fetchKey(platform, user, linked, handle, strconv.Itoa(year))
	result, err, shared := hs.group.Do(key, func() (interface{}, error) {
		return hs.fetchYear(fetcher, platform, user, linked, handle, year)
	})
	if shared {
		hs.metrics.IncCoalescedFetches()
	}
	if err != nil {
		return nil, err
	}
	return result.(*heatmap.YearView), nil
}

// fetchYear pulls one year from the platform, normalizes it and, for linked
// users, persists the result. It runs on a fresh bounded context: coalesced
// callers must not fail because the request that started the fetch went away.
func (hs *HeatmapService) fetchYear(fetcher CalendarFetcher, platform models.Platform, user *models.User, linked bool, handle string, year int) (*heatmap.YearView, error) {
	ctx, cancel := context.WithTimeout(context.Background(), hs.fetchTimeout)
	defer cancel()

	activeYears, err := fetcher.ActiveYears(ctx, handle)
	if err != nil {
		return nil, err
	}

	cal, err := fetcher.YearCalendar(ctx, handle, year)
	if err != nil {
		return nil, err
	}

	norm := heatmap.Normalize(cal, year, hs.now())
	if norm.SkippedKeys > 0 {
		hs.logger.Warnf(providers.TypeUpstream, "Calendar for %s/%s/%d: skipped %d malformed entries", platform, handle, year, norm.SkippedKeys)
	}

	if !linked {
		hs.logger.Debugf(providers.TypeApp, "No linked account for %s handle %q, serving without caching", platform, handle)
		return hs.yearViewFromNormalized(activeYears, norm), nil
	}

	raw, err := cal.Serialize()
	if err != nil {
		return nil, fmt.Errorf("serializing calendar: %w", err)
	}

	start := time.Now()
	rec, err := hs.records.UpsertYear(ctx, user.ID, platform, handle, year, norm.Aggregates(raw), activeYears)
	hs.metrics.ObserveStoreWrite(time.Since(start))
	if err != nil {
		// Never block the response on a failed cache write.
		hs.logger.Warnf(providers.TypeStore, "Result for %s/%s/%d was not cached: %s", platform, handle, year, err)
		return hs.yearViewFromNormalized(activeYears, norm), nil
	}

	entry, ok := rec.Year(year)
	if !ok {
		return nil, fmt.Errorf("year %d missing after upsert for %s/%s", year, platform, handle)
	}
	return hs.yearViewFromEntry(rec, year, entry)
}

func (hs *HeatmapService) ResolveSummary(ctx context.Context, platform models.Platform, handle string) (*heatmap.SummaryView, error) {
	fetcher, err := hs.fetcher(platform)
	if err != nil {
		return nil, err
	}

	user, linked := hs.lookupUser(ctx, platform, handle)
	if !linked {
		years, err := hs.fetchActiveYears(fetcher, platform, user, linked, handle)
		if err != nil {
			return nil, err
		}
		return &heatmap.SummaryView{ActiveYears: years, PerYear: map[string]heatmap.YearAggregates{}}, nil
	}

	rec, err := hs.records.Get(ctx, user.ID, platform)
	if errors.Is(err, repository.ErrNotFound) {
		years, err := hs.fetchActiveYears(fetcher, platform, user, linked, handle)
		if err != nil {
			return nil, err
		}
		return &heatmap.SummaryView{ActiveYears: years, PerYear: map[string]heatmap.YearAggregates{}}, nil
	}
	if err != nil {
		hs.logger.Errorf(providers.TypeStore, "Summary read failed for %s/%s: %s", platform, handle, err)
		return nil, fmt.Errorf("reading heatmap record: %w", ErrStoreUnavailable)
	}
	return summaryFromRecord(rec), nil
}

func (hs *HeatmapService) ListYears(ctx context.Context, platform models.Platform, handle string, refresh bool) (*heatmap.YearsView, error) {
	fetcher, err := hs.fetcher(platform)
	if err != nil {
		return nil, err
	}

	user, linked := hs.lookupUser(ctx, platform, handle)

	if linked && !refresh {
		years, err := hs.records.ListYears(ctx, user.ID, platform)
		if err == nil && len(years) > 0 {
			return &heatmap.YearsView{Years: years}, nil
		}
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			hs.logger.Warnf(providers.TypeStore, "Active-years read failed for %s/%s: %s", platform, handle, err)
		}
	}

	years, err := hs.fetchActiveYears(fetcher, platform, user, linked, handle)
	if err != nil {
		return nil, err
	}
	return &heatmap.YearsView{Years: years}, nil
}

// fetchActiveYears discovers the active-years list upstream, persisting it
// for linked users. Coalesced like year fetches.
func (hs *HeatmapService) fetchActiveYears(fetcher CalendarFetcher, platform models.Platform, user *models.User, linked bool, handle string) ([]int, error) {
	key := hs.fetchKey(platform, user, linked, handle, "years")
	result, err, shared := hs.group.Do(key, func() (interface{}, error) {
		ctx, cancel := context.WithTimeout(context.Background(), hs.fetchTimeout)
		defer cancel()

		years, err := fetcher.ActiveYears(ctx, handle)
		if err != nil {
			return nil, err
		}
		if linked {
			if rec, err := hs.records.PutActiveYears(ctx, user.ID, platform, handle, years); err != nil {
				hs.logger.Warnf(providers.TypeStore, "Active years for %s/%s were not cached: %s", platform, handle, err)
			} else {
				years = rec.ActiveYears
			}
		}
		return years, nil
	})
	if shared {
		hs.metrics.IncCoalescedFetches()
	}
	if err != nil {
		return nil, err
	}
	return result.([]int), nil
}

func (hs *HeatmapService) fetcher(platform models.Platform) (CalendarFetcher, error) {
	fetcher, ok := hs.fetchers[platform]
	if !ok {
		return nil, fmt.Errorf("no calendar fetcher for platform %q", platform)
	}
	return fetcher, nil
}

// lookupUser resolves the handle to a local account. A missing account or a
// failing users lookup both degrade to cache-less passthrough mode.
func (hs *HeatmapService) lookupUser(ctx context.Context, platform models.Platform, handle string) (*models.User, bool) {
	user, err := hs.users.FindByHandle(ctx, platform, handle)
	if err == nil {
		return user, true
	}
	if !errors.Is(err, repository.ErrNotFound) {
		hs.logger.Warnf(providers.TypeStore, "User lookup failed for %s/%s: %s", platform, handle, err)
	}
	return nil, false
}

func (hs *HeatmapService) fetchKey(platform models.Platform, user *models.User, linked bool, handle, suffix string) string {
	identity := handle
	if linked {
		identity = user.ID.String()
	}
	return string(platform) + ":" + identity + ":" + suffix
}

// yearViewFromEntry rebuilds the grid from the persisted raw calendar, so
// the response always matches what is now cached.
func (hs *HeatmapService) yearViewFromEntry(rec *models.HeatmapRecord, year int, entry *models.YearEntry) (*heatmap.YearView, error) {
	cal, err := models.ParseRawCalendar(entry.SubmissionCalendar)
	if err != nil {
		return nil, fmt.Errorf("parsing cached calendar for year %d: %w", year, err)
	}
	norm := heatmap.Normalize(cal, year, hs.now())
	return &heatmap.YearView{
		ActiveYears:      rec.ActiveYears,
		Streak:           heatmap.Streak{Max: entry.MaxStreak, Current: norm.Streak.Current},
		TotalActiveDays:  entry.ActiveDays,
		TotalSubmissions: entry.TotalSubmissions,
		Heatmap:          norm.Grid,
	}, nil
}

func (hs *HeatmapService) yearViewFromNormalized(activeYears []int, norm *heatmap.Normalized) *heatmap.YearView {
	return &heatmap.YearView{
		ActiveYears:      activeYears,
		Streak:           norm.Streak,
		TotalActiveDays:  norm.TotalActiveDays,
		TotalSubmissions: norm.TotalSubmissions,
		Heatmap:          norm.Grid,
	}
}

func summaryFromRecord(rec *models.HeatmapRecord) *heatmap.SummaryView {
	perYear := make(map[string]heatmap.YearAggregates, len(rec.Years))
	for year, entry := range rec.Years {
		perYear[strconv.Itoa(year)] = heatmap.YearAggregates{
			ActiveDays:       entry.ActiveDays,
			TotalSubmissions: entry.TotalSubmissions,
			MaxStreak:        entry.MaxStreak,
		}
	}
	lastUpdated := rec.LastUpdated
	return &heatmap.SummaryView{
		ActiveYears:      rec.ActiveYears,
		TotalActiveDays:  rec.TotalActiveDays,
		TotalSubmissions: rec.TotalSubmissions,
		MaxStreak:        rec.MaxStreak,
		LastUpdated:      &lastUpdated,
		PerYear:          perYear,
	}
}

package services

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"codeboard/internal/models"
	"codeboard/internal/providers"
	"codeboard/internal/structures"
	"codeboard/internal/upstream"
)

type LeetCodeStatsFetcher interface {
	Stats(ctx context.Context, handle string) (*models.LeetCodeStats, error)
	ContestInfo(ctx context.Context, handle string) (*models.ContestInfo, error)
}

type GFGStatsFetcher interface {
	Stats(ctx context.Context, handle string) (*models.GFGStats, error)
}

type StatsServiceInterface interface {
	// Aggregate fans out to every platform with a configured handle and
	// collects what succeeded. One slow or broken platform never hides
	// the others; its failure lands in the Errors map instead.
	Aggregate(ctx context.Context, leetcodeHandle, gfgHandle string) *models.AggregatedStats
}

type StatsService struct {
	leetcode     LeetCodeStatsFetcher
	gfg          GFGStatsFetcher
	logger       providers.Logger
	fetchTimeout time.Duration
}

func NewStatsService(conf *structures.Config, logger providers.Logger, leetcode *upstream.LeetCodeClient, gfg *upstream.GFGClient) StatsServiceInterface {
	return &StatsService{
		leetcode:     leetcode,
		gfg:          gfg,
		logger:       logger,
		fetchTimeout: conf.Upstream.FetchTimeout,
	}
}

func (ss *StatsService) Aggregate(ctx context.Context, leetcodeHandle, gfgHandle string) *models.AggregatedStats {
	ctx, cancel := context.WithTimeout(ctx, ss.fetchTimeout)
	defer cancel()

	var mu sync.Mutex
	result := &models.AggregatedStats{Errors: map[string]string{}}
	fail := func(platform string, err error) {
		ss.logger.Warnf(providers.TypeUpstream, "Stats fetch for %s failed: %s", platform, err)
		mu.Lock()
		result.Errors[platform] = err.Error()
		mu.Unlock()
	}

	g, gctx := errgroup.WithContext(ctx)
	if leetcodeHandle != "" {
		g.Go(func() error {
			stats, err := ss.leetcode.Stats(gctx, leetcodeHandle)
			if err != nil {
				fail("leetcode", err)
				return nil
			}
			mu.Lock()
			result.LeetCode = stats
			mu.Unlock()
			return nil
		})
		g.Go(func() error {
			contest, err := ss.leetcode.ContestInfo(gctx, leetcodeHandle)
			if err != nil {
				fail("leetcodeContest", err)
				return nil
			}
			mu.Lock()
			result.LeetCodeContest = contest
			mu.Unlock()
			return nil
		})
	}
	if gfgHandle != "" {
		g.Go(func() error {
			stats, err := ss.gfg.Stats(gctx, gfgHandle)
			if err != nil {
				fail("gfg", err)
				return nil
			}
			mu.Lock()
			result.GFG = stats
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	if len(result.Errors) == 0 {
		result.Errors = nil
	}
	return result
}

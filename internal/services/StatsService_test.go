package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeboard/internal/models"
	"codeboard/internal/testutil"
)

type fakeLeetCodeStats struct {
	stats      *models.LeetCodeStats
	contest    *models.ContestInfo
	statsErr   error
	contestErr error
}

func (f *fakeLeetCodeStats) Stats(_ context.Context, _ string) (*models.LeetCodeStats, error) {
	return f.stats, f.statsErr
}

func (f *fakeLeetCodeStats) ContestInfo(_ context.Context, _ string) (*models.ContestInfo, error) {
	return f.contest, f.contestErr
}

type fakeGFGStats struct {
	stats *models.GFGStats
	err   error
}

func (f *fakeGFGStats) Stats(_ context.Context, _ string) (*models.GFGStats, error) {
	return f.stats, f.err
}

func newTestStatsService(lc LeetCodeStatsFetcher, gfg GFGStatsFetcher) (*StatsService, *testutil.MockLogger) {
	logger := &testutil.MockLogger{}
	return &StatsService{
		leetcode:     lc,
		gfg:          gfg,
		logger:       logger,
		fetchTimeout: 2 * time.Second,
	}, logger
}

func TestAggregate_AllPlatforms(t *testing.T) {
	lc := &fakeLeetCodeStats{
		stats:   &models.LeetCodeStats{TotalSolved: 120, EasySolved: 60, MediumSolved: 50, HardSolved: 10},
		contest: &models.ContestInfo{AttendedContestsCount: 4, Rating: 1650},
	}
	gfg := &fakeGFGStats{stats: &models.GFGStats{TotalSolved: 80, CodingScore: 250}}
	svc, _ := newTestStatsService(lc, gfg)

	result := svc.Aggregate(context.Background(), "alice", "alice_gfg")

	require.NotNil(t, result.LeetCode)
	assert.Equal(t, 120, result.LeetCode.TotalSolved)
	require.NotNil(t, result.LeetCodeContest)
	assert.Equal(t, 1650, result.LeetCodeContest.Rating)
	require.NotNil(t, result.GFG)
	assert.Equal(t, 80, result.GFG.TotalSolved)
	assert.Nil(t, result.Errors)
}

func TestAggregate_OneFailureDoesNotHideOthers(t *testing.T) {
	lc := &fakeLeetCodeStats{
		stats:      &models.LeetCodeStats{TotalSolved: 12},
		contestErr: errors.New("throttled"),
	}
	gfg := &fakeGFGStats{err: errors.New("profile unreachable")}
	svc, logger := newTestStatsService(lc, gfg)

	result := svc.Aggregate(context.Background(), "alice", "alice_gfg")

	require.NotNil(t, result.LeetCode)
	assert.Nil(t, result.LeetCodeContest)
	assert.Nil(t, result.GFG)
	require.NotNil(t, result.Errors)
	assert.Contains(t, result.Errors, "leetcodeContest")
	assert.Contains(t, result.Errors, "gfg")
	assert.NotContains(t, result.Errors, "leetcode")
	assert.True(t, logger.HasLevel("warn"))
}

func TestAggregate_SkipsPlatformsWithoutHandle(t *testing.T) {
	lc := &fakeLeetCodeStats{statsErr: errors.New("should not be called")}
	gfg := &fakeGFGStats{stats: &models.GFGStats{TotalSolved: 5}}
	svc, _ := newTestStatsService(lc, gfg)

	result := svc.Aggregate(context.Background(), "", "alice_gfg")

	assert.Nil(t, result.LeetCode)
	assert.Nil(t, result.LeetCodeContest)
	require.NotNil(t, result.GFG)
	assert.Nil(t, result.Errors)
}

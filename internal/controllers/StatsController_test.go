package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeboard/internal/models"
	"codeboard/internal/repository"
	"codeboard/internal/testutil"
)

type mockStatsService struct {
	result       *models.AggregatedStats
	calls        int
	lastLeetCode string
	lastGFG      string
}

func (m *mockStatsService) Aggregate(_ context.Context, leetcodeHandle, gfgHandle string) *models.AggregatedStats {
	m.calls++
	m.lastLeetCode = leetcodeHandle
	m.lastGFG = gfgHandle
	return m.result
}

type mockUsersRepo struct {
	user *models.User
	err  error
}

func (m *mockUsersRepo) FindByHandle(_ context.Context, _ models.Platform, _ string) (*models.User, error) {
	return m.user, m.err
}

func (m *mockUsersRepo) FindByID(_ context.Context, _ uuid.UUID) (*models.User, error) {
	return m.user, m.err
}

func newStatsTestController(svc *mockStatsService, users repository.UsersRepositoryI) (*StatsController, *testutil.MockCache) {
	cache := testutil.NewMockCache()
	return NewStatsController(&testutil.MockLogger{}, svc, users, cache), cache
}

func TestStatsController_ByHandles(t *testing.T) {
	svc := &mockStatsService{result: &models.AggregatedStats{
		LeetCode: &models.LeetCodeStats{TotalSolved: 120},
	}}
	sc, cache := newStatsTestController(svc, &mockUsersRepo{})

	req := httptest.NewRequest(http.MethodGet, "/stats?leetcode=alice&gfg=alice_gfg", nil)
	rec := httptest.NewRecorder()
	sc.GetStats(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "alice", svc.lastLeetCode)
	assert.Equal(t, "alice_gfg", svc.lastGFG)

	var result models.AggregatedStats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	require.NotNil(t, result.LeetCode)
	assert.Equal(t, 120, result.LeetCode.TotalSolved)
	assert.Contains(t, cache.SetKeys, "stats:alice:alice_gfg")
}

func TestStatsController_ByUserID(t *testing.T) {
	user := &models.User{
		ID:         uuid.New(),
		Name:       "Alice",
		LeetCodeID: "alice",
		GFGID:      "alice_gfg",
		CreatedAt:  time.Now(),
	}
	svc := &mockStatsService{result: &models.AggregatedStats{}}
	sc, _ := newStatsTestController(svc, &mockUsersRepo{user: user})

	req := httptest.NewRequest(http.MethodGet, "/stats?user="+user.ID.String(), nil)
	rec := httptest.NewRecorder()
	sc.GetStats(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "alice", svc.lastLeetCode)
	assert.Equal(t, "alice_gfg", svc.lastGFG)
}

func TestStatsController_UnknownUserID(t *testing.T) {
	svc := &mockStatsService{}
	sc, _ := newStatsTestController(svc, &mockUsersRepo{err: repository.ErrNotFound})

	req := httptest.NewRequest(http.MethodGet, "/stats?user="+uuid.NewString(), nil)
	rec := httptest.NewRecorder()
	sc.GetStats(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Zero(t, svc.calls)
}

func TestStatsController_MalformedUserID(t *testing.T) {
	svc := &mockStatsService{}
	sc, _ := newStatsTestController(svc, &mockUsersRepo{})

	req := httptest.NewRequest(http.MethodGet, "/stats?user=not-a-uuid", nil)
	rec := httptest.NewRecorder()
	sc.GetStats(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStatsController_NoHandles(t *testing.T) {
	svc := &mockStatsService{}
	sc, _ := newStatsTestController(svc, &mockUsersRepo{})

	req := httptest.NewRequest(http.MethodGet, "/stats", nil)
	rec := httptest.NewRecorder()
	sc.GetStats(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, svc.calls)
}

func TestStatsController_PartialFailureNotCached(t *testing.T) {
	svc := &mockStatsService{result: &models.AggregatedStats{
		LeetCode: &models.LeetCodeStats{TotalSolved: 12},
		Errors:   map[string]string{"gfg": "profile unreachable"},
	}}
	sc, cache := newStatsTestController(svc, &mockUsersRepo{})

	req := httptest.NewRequest(http.MethodGet, "/stats?leetcode=alice&gfg=alice_gfg", nil)
	rec := httptest.NewRecorder()
	sc.GetStats(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, cache.SetKeys)
}

func TestStatsController_CacheHitSkipsAggregation(t *testing.T) {
	svc := &mockStatsService{result: &models.AggregatedStats{}}
	sc, cache := newStatsTestController(svc, &mockUsersRepo{})
	cache.Data["stats:alice:"] = []byte(`{"leetcode":{"totalSolved":99}}`)

	req := httptest.NewRequest(http.MethodGet, "/stats?leetcode=alice", nil)
	rec := httptest.NewRecorder()
	sc.GetStats(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Zero(t, svc.calls)
	assert.Contains(t, rec.Body.String(), "99")
}

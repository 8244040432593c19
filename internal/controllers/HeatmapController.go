package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"

	"codeboard/internal/models"
	"codeboard/internal/providers"
	"codeboard/internal/services"
	"codeboard/internal/upstream"
)

const maxRequestBodySize = 1 << 20 // 1 MB

type heatmapRequest struct {
	Username   string `json:"username"`
	Year       int    `json:"year,omitempty"`
	Refresh    bool   `json:"refresh,omitempty"`
	FetchYears bool   `json:"fetchYears,omitempty"`
}

type HeatmapController struct {
	logger  providers.Logger
	service services.HeatmapServiceInterface
	cache   providers.CacheProviderInterface
}

func NewHeatmapController(logger providers.Logger, service services.HeatmapServiceInterface, cache providers.CacheProviderInterface) *HeatmapController {
	return &HeatmapController{
		logger:  logger,
		service: service,
		cache:   cache,
	}
}

func (hc *HeatmapController) LeetCode(w http.ResponseWriter, r *http.Request) {
	hc.handle(w, r, models.PlatformLeetCode)
}

func (hc *HeatmapController) GitHub(w http.ResponseWriter, r *http.Request) {
	hc.handle(w, r, models.PlatformGitHub)
}

func (hc *HeatmapController) handle(w http.ResponseWriter, r *http.Request, platform models.Platform) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	var payload heatmapRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	payload.Username = strings.TrimSpace(payload.Username)
	if payload.Username == "" || payload.Year < 0 || payload.Year > 9999 {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	switch {
	case payload.FetchYears:
		cacheKey := heatmapCacheKey(platform, payload.Username, "years")
		hc.serveFromCacheOrCompute(w, cacheKey, payload.Refresh, func() (any, error) {
			return hc.service.ListYears(ctx, platform, payload.Username, payload.Refresh)
		})
	case payload.Year > 0:
		cacheKey := heatmapCacheKey(platform, payload.Username, strconv.Itoa(payload.Year))
		hc.serveFromCacheOrCompute(w, cacheKey, payload.Refresh, func() (any, error) {
			return hc.service.ResolveYear(ctx, platform, payload.Username, payload.Year, payload.Refresh)
		})
	default:
		cacheKey := heatmapCacheKey(platform, payload.Username, "summary")
		hc.serveFromCacheOrCompute(w, cacheKey, payload.Refresh, func() (any, error) {
			return hc.service.ResolveSummary(ctx, platform, payload.Username)
		})
	}
}

// serveFromCacheOrCompute answers from the response cache when possible.
// refresh bypasses the cache read but still overwrites the entry, so the
// next plain request observes the refreshed data.
func (hc *HeatmapController) serveFromCacheOrCompute(w http.ResponseWriter, cacheKey string, refresh bool, compute func() (any, error)) {
	if !refresh {
		if data, ok := hc.cache.Get(cacheKey); ok {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write(data)
			return
		}
	}

	result, err := compute()
	if err != nil {
		hc.writeError(w, err)
		return
	}

	gson, err := json.Marshal(result)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	hc.cache.Set(cacheKey, gson)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(gson)
}

func (hc *HeatmapController) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, upstream.ErrUserNotFound):
		http.Error(w, "Not Found", http.StatusNotFound)
	case errors.Is(err, upstream.ErrUnavailable):
		http.Error(w, "Bad Gateway", http.StatusBadGateway)
	case errors.Is(err, services.ErrStoreUnavailable):
		http.Error(w, "Service Unavailable", http.StatusServiceUnavailable)
	default:
		hc.logger.Errorf(providers.TypeApp, "Heatmap request failed: %s", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

func heatmapCacheKey(platform models.Platform, handle, suffix string) string {
	return "hm:" + string(platform) + ":" + handle + ":" + suffix
}

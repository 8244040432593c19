package controllers

import (
	"errors"
	"net/http"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"

	"codeboard/internal/providers"
	"codeboard/internal/repository"
	"codeboard/internal/services"
)

type StatsController struct {
	logger  providers.Logger
	service services.StatsServiceInterface
	users   repository.UsersRepositoryI
	cache   providers.CacheProviderInterface
}

func NewStatsController(logger providers.Logger, service services.StatsServiceInterface, users repository.UsersRepositoryI, cache providers.CacheProviderInterface) *StatsController {
	return &StatsController{
		logger:  logger,
		service: service,
		users:   users,
		cache:   cache,
	}
}

// GetStats aggregates platform stats either for a registered user
// (?user=<uuid>) or for raw handles (?leetcode=...&gfg=...).
func (sc *StatsController) GetStats(w http.ResponseWriter, r *http.Request) {
	leetcodeHandle := strings.TrimSpace(r.URL.Query().Get("leetcode"))
	gfgHandle := strings.TrimSpace(r.URL.Query().Get("gfg"))

	if userParam := strings.TrimSpace(r.URL.Query().Get("user")); userParam != "" {
		userID, err := uuid.Parse(userParam)
		if err != nil {
			http.Error(w, "Bad Request", http.StatusBadRequest)
			return
		}
		user, err := sc.users.FindByID(r.Context(), userID)
		if errors.Is(err, repository.ErrNotFound) {
			http.Error(w, "Not Found", http.StatusNotFound)
			return
		}
		if err != nil {
			sc.logger.Errorf(providers.TypeStore, "User lookup for stats failed: %s", err)
			http.Error(w, "Service Unavailable", http.StatusServiceUnavailable)
			return
		}
		leetcodeHandle = user.LeetCodeID
		gfgHandle = user.GFGID
	}

	if leetcodeHandle == "" && gfgHandle == "" {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	cacheKey := "stats:" + leetcodeHandle + ":" + gfgHandle
	if data, ok := sc.cache.Get(cacheKey); ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
		return
	}

	result := sc.service.Aggregate(r.Context(), leetcodeHandle, gfgHandle)

	gson, err := json.Marshal(result)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	// Partial failures are not cached, so a recovered platform shows up on
	// the next request instead of after TTL expiry.
	if len(result.Errors) == 0 {
		sc.cache.Set(cacheKey, gson)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(gson)
}

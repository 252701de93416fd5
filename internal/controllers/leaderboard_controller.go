package controllers

import (
	"errors"
	"net/http"

	json "github.com/goccy/go-json"
	"github.com/spf13/cast"

	"dlb/internal/models"
	"dlb/internal/providers"
	"dlb/internal/services"
	"dlb/internal/structures"
	"dlb/internal/tracker"
	"dlb/internal/upstream"
)

type LeaderboardController struct {
	logger  providers.Logger
	conf    *structures.Config
	service services.LeaderboardServiceInterface
	cache   providers.CacheProviderInterface
}

func NewLeaderboardController(logger providers.Logger, conf *structures.Config, service services.LeaderboardServiceInterface, cache providers.CacheProviderInterface) *LeaderboardController {
	return &LeaderboardController{
		logger:  logger,
		conf:    conf,
		service: service,
		cache:   cache,
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

type leaderboardResponse struct {
	Data []models.LeaderboardEntry `json:"data"`
}

func getQueryType(r *http.Request) string {
	t := r.URL.Query().Get("type")
	if t == "" {
		return "monthly"
	}
	return t
}

func (lc *LeaderboardController) getResetHour(r *http.Request) int {
	raw := r.URL.Query().Get("resetHour")
	if raw == "" {
		return lc.conf.Leaderboard.ResetHour
	}
	hour, err := cast.ToIntE(raw)
	if err != nil {
		return lc.conf.Leaderboard.ResetHour
	}
	return tracker.ClampResetHour(hour)
}

// GetLeaderboard serves both windows. Requests for the configured reset
// hour flow through the response cache; a custom reset hour bypasses it
// because its payload is request-specific and freshly fetched.
func (lc *LeaderboardController) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	kind := getQueryType(r)
	if kind != "daily" && kind != "monthly" {
		lc.writeError(w, http.StatusBadRequest, "unknown leaderboard type")
		return
	}
	resetHour := lc.getResetHour(r)

	compute := func() ([]models.LeaderboardEntry, error) {
		if kind == "daily" {
			return lc.service.Daily(r.Context(), resetHour)
		}
		return lc.service.Monthly(r.Context(), resetHour)
	}

	if resetHour == lc.conf.Leaderboard.ResetHour {
		lc.serveFromCacheOrCompute(w, "lb:"+kind, compute)
		return
	}

	list, err := compute()
	if err != nil {
		lc.writeUpstreamError(w, err)
		return
	}
	lc.writeJSON(w, leaderboardResponse{Data: list})
}

func (lc *LeaderboardController) serveFromCacheOrCompute(w http.ResponseWriter, cacheKey string, compute func() ([]models.LeaderboardEntry, error)) {
	if data, ok := lc.cache.Get(cacheKey); ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
		return
	}

	result, err := compute()
	if err != nil {
		lc.writeUpstreamError(w, err)
		return
	}

	gson, err := json.Marshal(leaderboardResponse{Data: result})
	if err != nil {
		lc.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	lc.cache.Set(cacheKey, gson)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(gson)
}

// writeUpstreamError maps fetch failures onto the response: a non-2xx
// upstream answer keeps its status code, an empty payload and transport
// errors are internal, and an open breaker answers 503.
func (lc *LeaderboardController) writeUpstreamError(w http.ResponseWriter, err error) {
	var statusErr *upstream.StatusError
	switch {
	case errors.As(err, &statusErr):
		lc.writeError(w, statusErr.Status, "upstream request failed")
	case errors.Is(err, providers.ErrCircuitOpen):
		lc.writeError(w, http.StatusServiceUnavailable, "upstream temporarily unavailable")
	case errors.Is(err, upstream.ErrEmptyBody):
		lc.writeError(w, http.StatusInternalServerError, "upstream returned an empty body")
	default:
		lc.logger.Errorf(providers.TypeHttp, "leaderboard request failed: %v", err)
		lc.writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func (lc *LeaderboardController) writeJSON(w http.ResponseWriter, payload any) {
	gson, err := json.Marshal(payload)
	if err != nil {
		lc.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(gson)
}

func (lc *LeaderboardController) writeError(w http.ResponseWriter, status int, message string) {
	gson, err := json.Marshal(errorResponse{Error: message})
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(gson)
}

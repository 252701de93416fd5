package internal

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dlb/internal/controllers"
	"dlb/internal/structures"
	"dlb/internal/testutil"
)

func routeTestConfig() *structures.Config {
	return &structures.Config{
		Leaderboard: structures.LeaderboardConfig{ResetHour: 6},
	}
}

func TestInitRoutes_RegistersLeaderboardRoute(t *testing.T) {
	conf := routeTestConfig()
	lc := controllers.NewLeaderboardController(&testutil.MockLogger{}, conf, &testutil.MockLeaderboardService{}, testutil.NewMockCache())

	router := InitRoutes(lc, conf)
	routes := router.GetRoutes()

	require.Len(t, routes, 1)
	assert.Equal(t, "/api/leaderboard", routes[0].Url)
}

func TestInitRoutes_MethodEnforcement(t *testing.T) {
	conf := routeTestConfig()
	lc := controllers.NewLeaderboardController(&testutil.MockLogger{}, conf, &testutil.MockLeaderboardService{}, testutil.NewMockCache())

	router := InitRoutes(lc, conf)
	routes := router.GetRoutes()

	mux := http.NewServeMux()
	for _, r := range routes {
		mux.Handle(r.Url, r.Handler)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/leaderboard", nil)
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/leaderboard", nil)
	rr = httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
}

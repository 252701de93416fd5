package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dlb/internal/models"
	"dlb/internal/providers"
	"dlb/internal/structures"
	"dlb/internal/testutil"
	"dlb/internal/upstream"
)

func controllerConfig() *structures.Config {
	return &structures.Config{
		Leaderboard: structures.LeaderboardConfig{Timezone: "Asia/Ho_Chi_Minh", ResetHour: 6},
	}
}

func testBoard() []models.LeaderboardEntry {
	return []models.LeaderboardEntry{
		{ID: "1", Name: "Alpha", Username: "alpha.live", Avatar: "/avatars/alpha.jpeg", Score: 500, Trend: "flat"},
		{ID: "2", Name: "Bravo", Username: "bravo.live", Avatar: "/avatars/bravo.svg", Score: 300, Trend: "flat"},
	}
}

func newTestController(svc *testutil.MockLeaderboardService) (*LeaderboardController, *testutil.MockCache) {
	cache := testutil.NewMockCache()
	ctrl := NewLeaderboardController(&testutil.MockLogger{}, controllerConfig(), svc, cache)
	return ctrl, cache
}

func decodeBoard(t *testing.T, rec *httptest.ResponseRecorder) []models.LeaderboardEntry {
	t.Helper()
	var resp struct {
		Data []models.LeaderboardEntry `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Data
}

func TestGetLeaderboard_DefaultsToMonthly(t *testing.T) {
	svc := &testutil.MockLeaderboardService{MonthlyBoard: testBoard()}
	ctrl, _ := newTestController(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/leaderboard", nil)
	rec := httptest.NewRecorder()
	ctrl.GetLeaderboard(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	list := decodeBoard(t, rec)
	require.Len(t, list, 2)
	assert.Equal(t, "alpha.live", list[0].Username)
	assert.Equal(t, []int{6}, svc.MonthlyCalls)
}

func TestGetLeaderboard_WrapsListInDataEnvelope(t *testing.T) {
	svc := &testutil.MockLeaderboardService{MonthlyBoard: testBoard(), DailyBoard: testBoard()}
	ctrl, _ := newTestController(svc)

	for _, target := range []string{"/api/leaderboard", "/api/leaderboard?type=daily&resetHour=10"} {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		rec := httptest.NewRecorder()
		ctrl.GetLeaderboard(rec, req)

		require.Equal(t, http.StatusOK, rec.Code, target)
		var resp map[string]json.RawMessage
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp), target)
		require.Contains(t, resp, "data", target)

		var list []models.LeaderboardEntry
		require.NoError(t, json.Unmarshal(resp["data"], &list), target)
		assert.Len(t, list, 2, target)
	}
}

func TestGetLeaderboard_DailyType(t *testing.T) {
	svc := &testutil.MockLeaderboardService{DailyBoard: testBoard()}
	ctrl, _ := newTestController(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/leaderboard?type=daily", nil)
	rec := httptest.NewRecorder()
	ctrl.GetLeaderboard(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []int{6}, svc.DailyCalls)
	assert.Empty(t, svc.MonthlyCalls)
}

func TestGetLeaderboard_UnknownTypeIsBadRequest(t *testing.T) {
	svc := &testutil.MockLeaderboardService{}
	ctrl, _ := newTestController(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/leaderboard?type=weekly", nil)
	rec := httptest.NewRecorder()
	ctrl.GetLeaderboard(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp["error"])
}

func TestGetLeaderboard_SecondRequestServedFromCache(t *testing.T) {
	svc := &testutil.MockLeaderboardService{MonthlyBoard: testBoard()}
	ctrl, cache := newTestController(svc)

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/leaderboard", nil)
		rec := httptest.NewRecorder()
		ctrl.GetLeaderboard(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	}

	assert.Len(t, svc.MonthlyCalls, 1)
	assert.Equal(t, 1, cache.Hits)
	_, ok := cache.Data["lb:monthly"]
	assert.True(t, ok)
}

func TestGetLeaderboard_CustomResetHourBypassesCache(t *testing.T) {
	svc := &testutil.MockLeaderboardService{DailyBoard: testBoard()}
	ctrl, cache := newTestController(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/leaderboard?type=daily&resetHour=10", nil)
	rec := httptest.NewRecorder()
	ctrl.GetLeaderboard(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []int{10}, svc.DailyCalls)
	assert.Empty(t, cache.Data)
	assert.Zero(t, cache.Hits+cache.Misses)
}

func TestGetLeaderboard_ResetHourClampedAndNonNumericIgnored(t *testing.T) {
	svc := &testutil.MockLeaderboardService{MonthlyBoard: testBoard()}
	ctrl, _ := newTestController(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/leaderboard?resetHour=99", nil)
	rec := httptest.NewRecorder()
	ctrl.GetLeaderboard(rec, req)
	assert.Equal(t, []int{23}, svc.MonthlyCalls)

	svc.MonthlyCalls = nil
	req = httptest.NewRequest(http.MethodGet, "/api/leaderboard?resetHour=abc", nil)
	rec = httptest.NewRecorder()
	ctrl.GetLeaderboard(rec, req)
	assert.Equal(t, []int{6}, svc.MonthlyCalls)
}

func TestGetLeaderboard_UpstreamStatusPropagates(t *testing.T) {
	svc := &testutil.MockLeaderboardService{
		MonthlyErr: &upstream.StatusError{Status: http.StatusTooManyRequests},
	}
	ctrl, _ := newTestController(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/leaderboard?resetHour=10", nil)
	rec := httptest.NewRecorder()
	ctrl.GetLeaderboard(rec, req)

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestGetLeaderboard_EmptyBodyIsInternalError(t *testing.T) {
	svc := &testutil.MockLeaderboardService{MonthlyErr: upstream.ErrEmptyBody}
	ctrl, _ := newTestController(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/leaderboard?resetHour=10", nil)
	rec := httptest.NewRecorder()
	ctrl.GetLeaderboard(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestGetLeaderboard_OpenBreakerIsServiceUnavailable(t *testing.T) {
	svc := &testutil.MockLeaderboardService{DailyErr: providers.ErrCircuitOpen}
	ctrl, _ := newTestController(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/leaderboard?type=daily&resetHour=10", nil)
	rec := httptest.NewRecorder()
	ctrl.GetLeaderboard(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestGetLeaderboard_TransportErrorIsInternalError(t *testing.T) {
	svc := &testutil.MockLeaderboardService{MonthlyErr: errors.New("dial tcp: timeout")}
	ctrl, _ := newTestController(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/leaderboard?resetHour=10", nil)
	rec := httptest.NewRecorder()
	ctrl.GetLeaderboard(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

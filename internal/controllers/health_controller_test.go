package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dlb/internal/testutil"
)

func TestHealth_ReportsServiceState(t *testing.T) {
	refreshed := time.Date(2025, 3, 15, 7, 30, 0, 0, time.UTC)
	svc := &testutil.MockLeaderboardService{Roster: 4, LastRefreshAt: refreshed}
	hc := NewHealthController(svc)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	hc.Health(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp["status"])
	assert.Equal(t, float64(4), resp["creators"])
	assert.Equal(t, "2025-03-15T07:30:00Z", resp["last_refresh"])
	assert.NotEmpty(t, resp["uptime"])
}

func TestHealth_NoRefreshYet(t *testing.T) {
	hc := NewHealthController(&testutil.MockLeaderboardService{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	hc.Health(rec, req)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "", resp["last_refresh"])
}

func TestHealth_RejectsNonGet(t *testing.T) {
	hc := NewHealthController(&testutil.MockLeaderboardService{})

	req := httptest.NewRequest(http.MethodPost, "/health", nil)
	rec := httptest.NewRecorder()
	hc.Health(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

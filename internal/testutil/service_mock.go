package testutil

import (
	"context"
	"sync"
	"time"

	"dlb/internal/models"
)

// MockLeaderboardService implements services.LeaderboardServiceInterface
// with canned boards.
type MockLeaderboardService struct {
	mu            sync.Mutex
	MonthlyBoard  []models.LeaderboardEntry
	DailyBoard    []models.LeaderboardEntry
	MonthlyErr    error
	DailyErr      error
	MonthlyCalls  []int
	DailyCalls    []int
	ScoreCalls    int
	ProfileCalls  int
	Roster        int
	LastRefreshAt time.Time
	Snapshot      map[string]*models.CachedCreator
	Restored      map[string]*models.CachedCreator
}

func (m *MockLeaderboardService) RefreshScores(_ context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ScoreCalls++
}

func (m *MockLeaderboardService) RefreshProfiles(_ context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ProfileCalls++
}

// RefreshCounts reports how many times each refresh entrypoint ran.
func (m *MockLeaderboardService) RefreshCounts() (scores, profiles int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ScoreCalls, m.ProfileCalls
}

func (m *MockLeaderboardService) Monthly(_ context.Context, resetHour int) ([]models.LeaderboardEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.MonthlyCalls = append(m.MonthlyCalls, resetHour)
	if m.MonthlyErr != nil {
		return nil, m.MonthlyErr
	}
	return m.MonthlyBoard, nil
}

func (m *MockLeaderboardService) Daily(_ context.Context, resetHour int) ([]models.LeaderboardEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DailyCalls = append(m.DailyCalls, resetHour)
	if m.DailyErr != nil {
		return nil, m.DailyErr
	}
	return m.DailyBoard, nil
}

func (m *MockLeaderboardService) CacheSnapshot() map[string]*models.CachedCreator {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Snapshot
}

func (m *MockLeaderboardService) PutCacheSnapshot(data map[string]*models.CachedCreator) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Restored = data
}

func (m *MockLeaderboardService) RosterSize() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Roster
}

func (m *MockLeaderboardService) LastRefresh() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.LastRefreshAt
}

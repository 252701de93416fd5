package testutil

import (
	"context"
	"sync"
	"time"

	"dlb/internal/models"
	"dlb/internal/providers"
	"dlb/internal/upstream"
)

// MockLogger implements providers.Logger and records calls.
type MockLogger struct {
	mu   sync.Mutex
	Logs []LogEntry
}

type LogEntry struct {
	Level  string
	Type   providers.TypeEnum
	Format string
	Args   []interface{}
}

func (m *MockLogger) record(level string, t providers.TypeEnum, format string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Logs = append(m.Logs, LogEntry{Level: level, Type: t, Format: format, Args: args})
}

func (m *MockLogger) Errorf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("error", t, format, args...)
}
func (m *MockLogger) Warnf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("warn", t, format, args...)
}
func (m *MockLogger) Debugf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("debug", t, format, args...)
}
func (m *MockLogger) Infof(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("info", t, format, args...)
}
func (m *MockLogger) Fatalf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("fatal", t, format, args...)
}
func (m *MockLogger) Close() {}

// CountLevel returns how many entries were recorded at the given level.
func (m *MockLogger) CountLevel(level string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for _, e := range m.Logs {
		if e.Level == level {
			count++
		}
	}
	return count
}

// MockClient implements upstream.ClientInterface with canned responses.
type MockClient struct {
	mu            sync.Mutex
	Snapshots     map[string]*upstream.CreatorSnapshot // key: creator handle
	SnapshotErrs  map[string]error
	Live          *upstream.LiveSnapshot
	LiveErr       error
	CreatorCalls  []string
	LiveRoomCalls int
}

func (m *MockClient) CreatorRooms(_ context.Context, creator models.Creator) (*upstream.CreatorSnapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CreatorCalls = append(m.CreatorCalls, creator.Handle)
	if err, ok := m.SnapshotErrs[creator.Handle]; ok {
		return nil, err
	}
	if snap, ok := m.Snapshots[creator.Handle]; ok {
		return snap, nil
	}
	return &upstream.CreatorSnapshot{Profile: models.Profile{ID: creator.ID, Username: creator.Handle}}, nil
}

func (m *MockClient) LiveRooms(_ context.Context) (*upstream.LiveSnapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LiveRoomCalls++
	if m.LiveErr != nil {
		return nil, m.LiveErr
	}
	if m.Live != nil {
		return m.Live, nil
	}
	return &upstream.LiveSnapshot{}, nil
}

// MockScraper implements upstream.ScraperInterface.
type MockScraper struct {
	mu       sync.Mutex
	Profiles map[string]*upstream.ScrapedProfile
	Errs     map[string]error
	Calls    []string
}

func (m *MockScraper) Profile(_ context.Context, handle string) (*upstream.ScrapedProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, handle)
	if err, ok := m.Errs[handle]; ok {
		return nil, err
	}
	if p, ok := m.Profiles[handle]; ok {
		return p, nil
	}
	return nil, upstream.ErrProfileNotFound
}

// MockAvatarStore implements upstream.AvatarStoreInterface.
type MockAvatarStore struct {
	mu        sync.Mutex
	SaveErr   error
	SaveCalls []string
	Resolved  map[string]string
}

func (m *MockAvatarStore) Save(_ context.Context, handle, _ string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SaveCalls = append(m.SaveCalls, handle)
	if m.SaveErr != nil {
		return "", m.SaveErr
	}
	return "/avatars/" + handle + ".jpeg", nil
}

func (m *MockAvatarStore) Resolve(handle string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if path, ok := m.Resolved[handle]; ok {
		return path
	}
	return "/avatars/" + handle + ".svg"
}

// MockCompressor implements interfaces.CompressorInterface as a
// pass-through so persisted bytes stay inspectable in tests.
type MockCompressor struct {
	mu              sync.Mutex
	CompressCalls   int
	DecompressCalls int
	CompressErr     error
	DecompressErr   error
}

func (m *MockCompressor) Compress(val []byte) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CompressCalls++
	if m.CompressErr != nil {
		return nil, m.CompressErr
	}
	return val, nil
}

func (m *MockCompressor) Decompress(val []byte) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DecompressCalls++
	if m.DecompressErr != nil {
		return nil, m.DecompressErr
	}
	return val, nil
}

func (m *MockCompressor) Close() {}

// MockCache implements providers.CacheProviderInterface over a plain map.
type MockCache struct {
	mu     sync.Mutex
	Data   map[string][]byte
	Hits   int
	Misses int
}

func NewMockCache() *MockCache {
	return &MockCache{Data: make(map[string][]byte)}
}

func (m *MockCache) Get(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.Data[key]
	if ok {
		m.Hits++
	} else {
		m.Misses++
	}
	return data, ok
}

func (m *MockCache) Set(key string, value []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Data[key] = value
}

// MockMetrics implements providers.MetricsProviderInterface and counts
// what was reported.
type MockMetrics struct {
	mu            sync.Mutex
	Requests      int
	CacheHits     int
	CacheMisses   int
	FetchFailures map[string]int
	Rollovers     int
	Refreshes     map[string]int
	Scores        map[string]int64 // key: "window:handle"
}

func NewMockMetrics() *MockMetrics {
	return &MockMetrics{
		FetchFailures: make(map[string]int),
		Refreshes:     make(map[string]int),
		Scores:        make(map[string]int64),
	}
}

func (m *MockMetrics) IncRequestsTotal(_ string, _ int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Requests++
}

func (m *MockMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}

func (m *MockMetrics) IncCacheHits() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheHits++
}

func (m *MockMetrics) IncCacheMisses() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheMisses++
}

func (m *MockMetrics) IncFetchFailure(handle string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FetchFailures[handle]++
}

func (m *MockMetrics) IncRollover() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Rollovers++
}

func (m *MockMetrics) ObserveRefreshDuration(job string, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Refreshes[job]++
}

func (m *MockMetrics) SetCreatorScore(window, handle string, score int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Scores[window+":"+handle] = score
}

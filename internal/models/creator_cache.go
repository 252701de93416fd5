package models

import "sync"

// CachedCreator is the slow-refresh profile layer plus the last computed
// window scores for one creator. Scraped fields outrank everything the
// fast score cycle writes.
type CachedCreator struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Username     string `json:"username"`
	Avatar       string `json:"avatar"`
	MonthlyScore int64  `json:"monthly_score"`
	DailyScore   int64  `json:"daily_score"`
}

// CreatorCache is keyed by handle. It is written by both scheduled jobs
// and read by the leaderboard builder, so every access goes through the
// lock and reads hand out copies.
type CreatorCache struct {
	mu   sync.RWMutex
	data map[string]*CachedCreator
}

func NewCreatorCache() *CreatorCache {
	return &CreatorCache{data: make(map[string]*CachedCreator)}
}

func (c *CreatorCache) Get(handle string) (CachedCreator, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.data[handle]
	if !ok {
		return CachedCreator{}, false
	}
	return *v, true
}

// UpdateScores records fresh window totals, creating the entry from the
// hint on first sight. Identity fields are only filled when missing so a
// scraped name or avatar is never clobbered by the score cycle.
func (c *CreatorCache) UpdateScores(handle string, monthly, daily int64, hint Profile) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.data[handle]
	if !ok {
		entry = &CachedCreator{
			ID:       hint.ID,
			Name:     hint.Name,
			Username: handle,
		}
		c.data[handle] = entry
	}
	entry.MonthlyScore = monthly
	entry.DailyScore = daily
	if entry.ID == "" {
		entry.ID = hint.ID
	}
	if entry.Name == "" {
		entry.Name = hint.Name
	}
	if entry.Username == "" {
		entry.Username = hint.Username
	}
}

// UpdateProfile records scraped profile data. Empty fields leave the
// previous value in place, which keeps the last good avatar reference
// when a download fails.
func (c *CreatorCache) UpdateProfile(handle, name, username, avatar string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.data[handle]
	if !ok {
		entry = &CachedCreator{Username: handle}
		c.data[handle] = entry
	}
	if name != "" {
		entry.Name = name
	}
	if username != "" {
		entry.Username = username
	}
	if avatar != "" {
		entry.Avatar = avatar
	}
}

// SetID fills the creator id when the score cycle has not run yet.
func (c *CreatorCache) SetID(handle, id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if entry, ok := c.data[handle]; ok && entry.ID == "" {
		entry.ID = id
	}
}

// Snapshot returns a deep copy for persistence.
func (c *CreatorCache) Snapshot() map[string]*CachedCreator {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make(map[string]*CachedCreator, len(c.data))
	for k, v := range c.data {
		cp := *v
		out[k] = &cp
	}
	return out
}

// Restore replaces the cache content, used when loading the persisted
// snapshot at startup.
func (c *CreatorCache) Restore(data map[string]*CachedCreator) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.data = make(map[string]*CachedCreator, len(data))
	for k, v := range data {
		if k == "" || v == nil {
			continue
		}
		cp := *v
		c.data[k] = &cp
	}
}

func (c *CreatorCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.data)
}

package models

import "sync"

// DailyEntry is the per-creator accumulation state for the current
// logical day. Rooms maps room id to the latest income counter seen for
// that room, so merging is an overwrite and never an addition.
type DailyEntry struct {
	Profile Profile          `json:"profile"`
	Rooms   map[string]int64 `json:"rooms"`
}

// Total sums the room counters of the entry.
func (e *DailyEntry) Total() int64 {
	var sum int64
	for _, v := range e.Rooms {
		sum += v
	}
	return sum
}

// ProfileSeeder returns the best known profile for a creator at day
// initialization time.
type ProfileSeeder func(c Creator) Profile

// DailyHistoryStore owns the per-creator room totals of the current
// logical day. All mutation goes through the store's lock; readers get
// deep copies so a rollover can never be observed half-applied.
type DailyHistoryStore struct {
	mu      sync.RWMutex
	roster  Roster
	seed    ProfileSeeder
	entries map[string]*DailyEntry
	dateKey string
}

func NewDailyHistoryStore(roster Roster, seed ProfileSeeder) *DailyHistoryStore {
	return &DailyHistoryStore{
		roster:  roster,
		seed:    seed,
		entries: make(map[string]*DailyEntry),
	}
}

// EnsureDay rolls the store over to dateKey when the stored marker
// differs, and initializes an empty store on first use. Returns true when
// a rollover happened. Rollover is driven purely by the date key; fetch
// failures never trigger it.
func (s *DailyHistoryStore) EnsureDay(dateKey string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	rolled := false
	if s.dateKey != dateKey {
		rolled = s.dateKey != ""
		s.initializeDayLocked()
		s.dateKey = dateKey
	}
	if len(s.entries) == 0 {
		s.initializeDayLocked()
	}
	return rolled
}

// initializeDayLocked replaces the whole map with one zero entry per
// allow-listed creator. Callers hold the write lock.
func (s *DailyHistoryStore) initializeDayLocked() {
	s.entries = make(map[string]*DailyEntry, len(s.roster))
	for _, c := range s.roster {
		profile := Profile{
			ID:       c.ID,
			Username: c.Handle,
			Name:     c.DefaultName,
		}
		if s.seed != nil {
			profile = s.seed(c)
		}
		s.entries[c.ID] = &DailyEntry{
			Profile: profile,
			Rooms:   make(map[string]int64),
		}
	}
}

// MergeSnapshot overwrites the room counters of one creator with the
// values from rooms. Replaying the same snapshot is idempotent, and a
// later merge for room X replaces (never adds to) the stored value.
// Creators missing from the map are created from the hint.
func (s *DailyHistoryStore) MergeSnapshot(creatorID string, rooms []RoomSnapshot, hint Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[creatorID]
	if !ok {
		entry = &DailyEntry{
			Profile: Profile{ID: creatorID, Name: hint.Name, Username: hint.Username, Avatar: hint.Avatar},
			Rooms:   make(map[string]int64),
		}
		s.entries[creatorID] = entry
	}

	s.updateProfileLocked(entry, hint)

	for _, r := range rooms {
		if r.RoomID == "" {
			continue
		}
		entry.Rooms[r.RoomID] = r.Income
	}
}

// updateProfileLocked applies a payload-derived hint without regressing
// better-known data: empty fields are filled, and the name is replaced
// only while it still carries the deterministic default label.
func (s *DailyHistoryStore) updateProfileLocked(entry *DailyEntry, hint Profile) {
	if hint.Username != "" && entry.Profile.Username == "" {
		entry.Profile.Username = hint.Username
	}
	if hint.Name != "" {
		if entry.Profile.Name == "" || entry.Profile.Name == DefaultLabel(entry.Profile.Username) {
			entry.Profile.Name = hint.Name
		}
	}
	if hint.Avatar != "" && entry.Profile.Avatar == "" {
		entry.Profile.Avatar = hint.Avatar
	}
}

// SetProfile stores freshly scraped profile data, which outranks anything
// already present.
func (s *DailyHistoryStore) SetProfile(creatorID, name, avatar string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[creatorID]
	if !ok {
		return
	}
	if name != "" {
		entry.Profile.Name = name
	}
	if avatar != "" {
		entry.Profile.Avatar = avatar
	}
}

// Entries returns a deep copy of the current day's state.
func (s *DailyHistoryStore) Entries() map[string]DailyEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]DailyEntry, len(s.entries))
	for id, entry := range s.entries {
		rooms := make(map[string]int64, len(entry.Rooms))
		for k, v := range entry.Rooms {
			rooms[k] = v
		}
		out[id] = DailyEntry{Profile: entry.Profile, Rooms: rooms}
	}
	return out
}

func (s *DailyHistoryStore) DateKey() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dateKey
}

func (s *DailyHistoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

package models

import (
	"strings"

	"dlb/internal/structures"
)

// Creator is one allow-listed creator. The roster is fixed at load time;
// creators are never added or removed while the process runs.
type Creator struct {
	ID          string
	Handle      string
	DefaultName string
	PageURLs    []string
}

type Roster []Creator

func NewRoster(conf *structures.Config) Roster {
	roster := make(Roster, 0, len(conf.Creators))
	for _, c := range conf.Creators {
		name := c.Name
		if name == "" {
			name = DefaultLabel(c.Handle)
		}
		roster = append(roster, Creator{
			ID:          c.ID,
			Handle:      c.Handle,
			DefaultName: name,
			PageURLs:    c.PageURLs,
		})
	}
	return roster
}

func (r Roster) ByID(id string) (Creator, bool) {
	for _, c := range r {
		if c.ID == id {
			return c, true
		}
	}
	return Creator{}, false
}

func (r Roster) ByHandle(handle string) (Creator, bool) {
	for _, c := range r {
		if c.Handle == handle {
			return c, true
		}
	}
	return Creator{}, false
}

// DefaultLabel derives the fallback display name from a handle:
// the part before the first dot, uppercased.
func DefaultLabel(handle string) string {
	base := handle
	if i := strings.IndexByte(handle, '.'); i > 0 {
		base = handle[:i]
	}
	return strings.ToUpper(base)
}

// Profile is the display metadata attached to a daily history entry.
type Profile struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
	Avatar   string `json:"avatar"`
}

// RoomSnapshot is one poll's reading of a livestream room. Income is the
// room's cumulative diamond counter as of the snapshot, not a delta.
type RoomSnapshot struct {
	RoomID    string
	StartTime int64
	Income    int64
}

// LeaderboardEntry is one ranked row of the served leaderboard.
type LeaderboardEntry struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
	Avatar   string `json:"avatar"`
	Score    int64  `json:"score"`
	Trend    string `json:"trend"`
}

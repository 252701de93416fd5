package tracker

import (
	"sort"

	"dlb/internal/models"
)

// AvatarResolver probes local storage for a creator's avatar and returns
// a servable path. It is the last resolver before the deterministic
// default and must always return something non-empty.
type AvatarResolver interface {
	Resolve(handle string) string
}

// resolver is one step of an ordered fallback chain; it returns "" when
// it has nothing to offer.
type resolver func() string

func pick(resolvers ...resolver) string {
	for _, r := range resolvers {
		if v := r(); v != "" {
			return v
		}
	}
	return ""
}

func constant(v string) resolver { return func() string { return v } }

// BuildDaily projects the daily history into the ranked list. Scores come
// from the entries' room totals; names and avatars resolve scraped cache
// first, then the stored history profile, then the local avatar probe,
// then the deterministic default label. Roster order is the tie-break.
func BuildDaily(entries map[string]models.DailyEntry, cache *models.CreatorCache, roster models.Roster, avatars AvatarResolver) []models.LeaderboardEntry {
	list := make([]models.LeaderboardEntry, 0, len(roster))
	for _, c := range roster {
		entry, ok := entries[c.ID]
		if !ok {
			entry = models.DailyEntry{Profile: models.Profile{ID: c.ID, Username: c.Handle}}
		}
		username := entry.Profile.Username
		if username == "" {
			username = c.Handle
		}
		cached, _ := cache.Get(username)

		list = append(list, models.LeaderboardEntry{
			ID:       c.ID,
			Username: username,
			Name: pick(
				constant(cached.Name),
				constant(entry.Profile.Name),
				constant(c.DefaultName),
			),
			Avatar: pick(
				constant(cached.Avatar),
				constant(entry.Profile.Avatar),
				func() string { return avatars.Resolve(username) },
			),
			Score: entry.Total(),
			Trend: "flat",
		})
	}
	sortByScore(list)
	return list
}

// BuildMonthly projects the creator cache into the ranked monthly list.
func BuildMonthly(cache *models.CreatorCache, roster models.Roster, avatars AvatarResolver) []models.LeaderboardEntry {
	list := make([]models.LeaderboardEntry, 0, len(roster))
	for _, c := range roster {
		cached, _ := cache.Get(c.Handle)
		list = append(list, models.LeaderboardEntry{
			ID:       c.ID,
			Username: c.Handle,
			Name: pick(
				constant(cached.Name),
				constant(c.DefaultName),
			),
			Avatar: pick(
				constant(cached.Avatar),
				func() string { return avatars.Resolve(c.Handle) },
			),
			Score: cached.MonthlyScore,
			Trend: "flat",
		})
	}
	sortByScore(list)
	return list
}

// ScoreResult is one creator's freshly fetched window totals, used by the
// custom-reset-hour path that bypasses the caches.
type ScoreResult struct {
	Profile models.Profile
	Monthly int64
	Daily   int64
}

// BuildFresh ranks freshly fetched monthly totals, still consulting the
// scraped cache for display metadata.
func BuildFresh(results map[string]ScoreResult, cache *models.CreatorCache, roster models.Roster, avatars AvatarResolver) []models.LeaderboardEntry {
	list := make([]models.LeaderboardEntry, 0, len(roster))
	for _, c := range roster {
		res, ok := results[c.Handle]
		cached, _ := cache.Get(c.Handle)
		score := res.Monthly
		if !ok {
			// fetch failed for this creator: keep the last known total
			score = cached.MonthlyScore
		}
		id := res.Profile.ID
		if id == "" {
			id = c.ID
		}
		list = append(list, models.LeaderboardEntry{
			ID:       id,
			Username: c.Handle,
			Name: pick(
				constant(cached.Name),
				constant(res.Profile.Name),
				constant(c.DefaultName),
			),
			Avatar: pick(
				constant(cached.Avatar),
				constant(res.Profile.Avatar),
				func() string { return avatars.Resolve(c.Handle) },
			),
			Score: score,
			Trend: "flat",
		})
	}
	sortByScore(list)
	return list
}

// BuildFreshDaily ranks freshly fetched same-day totals, falling back to
// the last cached daily score when a creator's fetch failed.
func BuildFreshDaily(results map[string]ScoreResult, cache *models.CreatorCache, roster models.Roster, avatars AvatarResolver) []models.LeaderboardEntry {
	list := make([]models.LeaderboardEntry, 0, len(roster))
	for _, c := range roster {
		res, ok := results[c.Handle]
		cached, _ := cache.Get(c.Handle)
		score := res.Daily
		if !ok {
			score = cached.DailyScore
		}
		id := res.Profile.ID
		if id == "" {
			id = c.ID
		}
		list = append(list, models.LeaderboardEntry{
			ID:       id,
			Username: c.Handle,
			Name: pick(
				constant(cached.Name),
				constant(res.Profile.Name),
				constant(c.DefaultName),
			),
			Avatar: pick(
				constant(cached.Avatar),
				constant(res.Profile.Avatar),
				func() string { return avatars.Resolve(c.Handle) },
			),
			Score: score,
			Trend: "flat",
		})
	}
	sortByScore(list)
	return list
}

// sortByScore orders descending by score. The sort is stable so equal
// scores keep their allow-list order and the output stays deterministic.
func sortByScore(list []models.LeaderboardEntry) {
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].Score > list[j].Score
	})
}

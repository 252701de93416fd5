package services

import (
	"context"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"dlb/internal/models"
	"dlb/internal/providers"
	"dlb/internal/structures"
	"dlb/internal/tracker"
	"dlb/internal/upstream"
)

type LeaderboardServiceInterface interface {
	RefreshScores(ctx context.Context)
	RefreshProfiles(ctx context.Context)
	Monthly(ctx context.Context, resetHour int) ([]models.LeaderboardEntry, error)
	Daily(ctx context.Context, resetHour int) ([]models.LeaderboardEntry, error)
	CacheSnapshot() map[string]*models.CachedCreator
	PutCacheSnapshot(data map[string]*models.CachedCreator)
	RosterSize() int
	LastRefresh() time.Time
}

// LeaderboardService owns the polling loops and the read models they
// feed. The default-reset-hour endpoints are answered from memory; only
// a request with a non-default reset hour reaches upstream synchronously,
// and then only through the circuit breaker.
type LeaderboardService struct {
	conf    *structures.Config
	logger  providers.Logger
	metrics providers.MetricsProviderInterface
	client  upstream.ClientInterface
	scraper upstream.ScraperInterface
	avatars upstream.AvatarStoreInterface
	breaker *providers.CircuitBreaker

	roster  models.Roster
	cache   *models.CreatorCache
	history *models.DailyHistoryStore
	loc     *time.Location

	mu          sync.RWMutex
	lastRefresh time.Time
}

func NewLeaderboardService(
	conf *structures.Config,
	logger providers.Logger,
	metrics providers.MetricsProviderInterface,
	client upstream.ClientInterface,
	scraper upstream.ScraperInterface,
	avatars upstream.AvatarStoreInterface,
	breaker *providers.CircuitBreaker,
) LeaderboardServiceInterface {
	loc, err := time.LoadLocation(conf.Leaderboard.Timezone)
	if err != nil {
		logger.Warnf(providers.TypeApp, "timezone %s not loadable, falling back to UTC: %v", conf.Leaderboard.Timezone, err)
		loc = time.UTC
	}
	roster := models.NewRoster(conf)
	cache := models.NewCreatorCache()
	svc := &LeaderboardService{
		conf:    conf,
		logger:  logger,
		metrics: metrics,
		client:  client,
		scraper: scraper,
		avatars: avatars,
		breaker: breaker,
		roster:  roster,
		cache:   cache,
		loc:     loc,
	}
	svc.history = models.NewDailyHistoryStore(roster, svc.seedProfile)
	return svc
}

// seedProfile fills a fresh day's entry with the best profile already
// known: scraped cache first, then the local avatar mirror, then the
// deterministic default.
func (s *LeaderboardService) seedProfile(c models.Creator) models.Profile {
	profile := models.Profile{ID: c.ID, Username: c.Handle, Name: c.DefaultName}
	if cached, ok := s.cache.Get(c.Handle); ok {
		if cached.Name != "" {
			profile.Name = cached.Name
		}
		if cached.Avatar != "" {
			profile.Avatar = cached.Avatar
		}
	}
	if profile.Avatar == "" {
		profile.Avatar = s.avatars.Resolve(c.Handle)
	}
	return profile
}

func (s *LeaderboardService) windows(resetHour int) tracker.Windows {
	return tracker.ComputeWindows(time.Now().In(s.loc), tracker.ClampResetHour(resetHour), s.loc)
}

// RefreshScores is the periodic score poll. It rolls the daily store
// over when the logical day changed, fans the per-creator room pages out
// over a worker pool, merges the shared live feed into the daily store,
// and leaves failed creators on their last known totals.
func (s *LeaderboardService) RefreshScores(ctx context.Context) {
	started := time.Now()
	win := s.windows(s.conf.Leaderboard.ResetHour)
	if s.history.EnsureDay(win.DateKey) {
		s.metrics.IncRollover()
		s.logger.Infof(providers.TypeApp, "daily window rolled over to %s", win.DateKey)
	}

	pool, err := ants.NewPool(len(s.roster))
	if err != nil {
		s.logger.Errorf(providers.TypeFetch, "score refresh pool: %v", err)
		return
	}
	defer pool.Release()

	var wg sync.WaitGroup
	for _, creator := range s.roster {
		creator := creator
		wg.Add(1)
		if err := pool.Submit(func() {
			defer wg.Done()
			s.refreshCreator(ctx, creator, win)
		}); err != nil {
			wg.Done()
			s.logger.Errorf(providers.TypeFetch, "score refresh submit for %s: %v", creator.Handle, err)
		}
	}
	wg.Wait()

	s.mergeLiveRooms(ctx)

	s.mu.Lock()
	s.lastRefresh = time.Now()
	s.mu.Unlock()
	s.metrics.ObserveRefreshDuration("scores", time.Since(started))
}

func (s *LeaderboardService) refreshCreator(ctx context.Context, creator models.Creator, win tracker.Windows) {
	snap, err := s.client.CreatorRooms(ctx, creator)
	if err != nil {
		s.metrics.IncFetchFailure(creator.Handle)
		s.logger.Warnf(providers.TypeFetch, "score fetch for %s failed, keeping last totals: %v", creator.Handle, err)
		return
	}
	monthly := tracker.SumSince(snap.Rooms, win.MonthStart)
	daily := tracker.SumSince(snap.Rooms, win.DayStart)
	s.cache.UpdateScores(creator.Handle, monthly, daily, snap.Profile)
	s.metrics.SetCreatorScore("monthly", creator.Handle, monthly)
	s.metrics.SetCreatorScore("daily", creator.Handle, daily)

	var todays []models.RoomSnapshot
	for _, room := range snap.Rooms {
		if room.StartTime >= win.DayStart {
			todays = append(todays, room)
		}
	}
	if len(todays) > 0 {
		s.history.MergeSnapshot(creator.ID, todays, snap.Profile)
	}
}

// mergeLiveRooms folds the shared live feed into the daily store so a
// creator whose room pages lag still shows live movement.
func (s *LeaderboardService) mergeLiveRooms(ctx context.Context) {
	if s.conf.Upstream.LiveRoomURL == "" {
		return
	}
	live, err := s.client.LiveRooms(ctx)
	if err != nil {
		s.logger.Warnf(providers.TypeFetch, "live room feed failed: %v", err)
		return
	}
	for _, anchor := range live.Anchors {
		creator, ok := s.roster.ByID(anchor.CreatorID)
		if !ok {
			continue
		}
		hint := models.Profile{ID: anchor.CreatorID, Name: anchor.Nickname, Username: anchor.DisplayID}
		rooms := []models.RoomSnapshot{{RoomID: anchor.RoomID, Income: anchor.Income}}
		s.history.MergeSnapshot(creator.ID, rooms, hint)
	}
}

// RefreshProfiles walks the roster sequentially with a pause between
// page loads. A failed scrape keeps the creator's previous profile.
func (s *LeaderboardService) RefreshProfiles(ctx context.Context) {
	started := time.Now()
	for i, creator := range s.roster {
		if i > 0 && s.conf.Polling.ScrapePause > 0 {
			select {
			case <-ctx.Done():
				return
			case <-time.After(s.conf.Polling.ScrapePause):
			}
		}
		profile, err := s.scraper.Profile(ctx, creator.Handle)
		if err != nil {
			s.logger.Warnf(providers.TypeScrape, "profile scrape for %s failed, keeping previous: %v", creator.Handle, err)
			continue
		}
		avatar := ""
		if profile.AvatarURL != "" {
			avatar, err = s.avatars.Save(ctx, creator.Handle, profile.AvatarURL)
			if err != nil {
				s.logger.Warnf(providers.TypeScrape, "avatar mirror for %s failed: %v", creator.Handle, err)
				avatar = ""
			}
		}
		s.cache.UpdateProfile(creator.Handle, profile.Name, profile.Username, avatar)
		s.cache.SetID(creator.Handle, creator.ID)
		s.history.SetProfile(creator.ID, profile.Name, avatar)
	}
	s.metrics.ObserveRefreshDuration("profiles", time.Since(started))
}

// Monthly answers the month-to-date board. The configured reset hour is
// served from the in-memory cache; any other hour recomputes the windows
// and fetches fresh room history through the breaker.
func (s *LeaderboardService) Monthly(ctx context.Context, resetHour int) ([]models.LeaderboardEntry, error) {
	if tracker.ClampResetHour(resetHour) == s.conf.Leaderboard.ResetHour {
		return tracker.BuildMonthly(s.cache, s.roster, s.avatars), nil
	}
	results, err := s.fetchFresh(ctx, resetHour)
	if err != nil {
		return nil, err
	}
	return tracker.BuildFresh(results, s.cache, s.roster, s.avatars), nil
}

// Daily answers the current logical day. The configured reset hour reads
// the daily store; any other hour refetches with recomputed windows.
func (s *LeaderboardService) Daily(ctx context.Context, resetHour int) ([]models.LeaderboardEntry, error) {
	if tracker.ClampResetHour(resetHour) == s.conf.Leaderboard.ResetHour {
		win := s.windows(s.conf.Leaderboard.ResetHour)
		if s.history.EnsureDay(win.DateKey) {
			s.metrics.IncRollover()
			s.logger.Infof(providers.TypeApp, "daily window rolled over to %s", win.DateKey)
		}
		return tracker.BuildDaily(s.history.Entries(), s.cache, s.roster, s.avatars), nil
	}
	results, err := s.fetchFresh(ctx, resetHour)
	if err != nil {
		return nil, err
	}
	return tracker.BuildFreshDaily(results, s.cache, s.roster, s.avatars), nil
}

// fetchFresh is the synchronous path behind non-default reset hours. It
// fans out like the poller but under the breaker, times out with the
// configured request budget, and fails only when every creator failed
// and nothing cached can stand in.
func (s *LeaderboardService) fetchFresh(ctx context.Context, resetHour int) (map[string]tracker.ScoreResult, error) {
	if err := s.breaker.Allow(); err != nil {
		return nil, err
	}
	win := s.windows(resetHour)

	ctx, cancel := context.WithTimeout(ctx, s.conf.Polling.RequestTimeout)
	defer cancel()

	pool, err := ants.NewPool(len(s.roster))
	if err != nil {
		s.breaker.RecordFailure()
		return nil, err
	}
	defer pool.Release()

	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		results = make(map[string]tracker.ScoreResult, len(s.roster))
		lastErr error
	)
	for _, creator := range s.roster {
		creator := creator
		wg.Add(1)
		if err := pool.Submit(func() {
			defer wg.Done()
			snap, err := s.client.CreatorRooms(ctx, creator)
			if err != nil {
				s.metrics.IncFetchFailure(creator.Handle)
				mu.Lock()
				lastErr = err
				mu.Unlock()
				return
			}
			mu.Lock()
			results[creator.Handle] = tracker.ScoreResult{
				Profile: snap.Profile,
				Monthly: tracker.SumSince(snap.Rooms, win.MonthStart),
				Daily:   tracker.SumSince(snap.Rooms, win.DayStart),
			}
			mu.Unlock()
		}); err != nil {
			wg.Done()
			mu.Lock()
			lastErr = err
			mu.Unlock()
		}
	}
	wg.Wait()

	if len(results) == 0 {
		s.breaker.RecordFailure()
		if s.cache.Len() > 0 {
			s.logger.Warnf(providers.TypeFetch, "fresh fetch failed entirely, serving cached totals: %v", lastErr)
			return results, nil
		}
		return nil, lastErr
	}
	s.breaker.RecordSuccess()
	return results, nil
}

// CacheSnapshot exports the creator cache for persistence.
func (s *LeaderboardService) CacheSnapshot() map[string]*models.CachedCreator {
	return s.cache.Snapshot()
}

// PutCacheSnapshot restores a previously persisted creator cache.
func (s *LeaderboardService) PutCacheSnapshot(data map[string]*models.CachedCreator) {
	s.cache.Restore(data)
}

func (s *LeaderboardService) RosterSize() int {
	return len(s.roster)
}

func (s *LeaderboardService) LastRefresh() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastRefresh
}

package poller

import (
	"context"
	"sync"

	"github.com/go-co-op/gocron/v2"

	"dlb/internal/poller/interfaces"
	"dlb/internal/providers"
	"dlb/internal/services"
	"dlb/internal/structures"
)

type Scheduler struct {
	config      *structures.Config
	logger      providers.Logger
	service     services.LeaderboardServiceInterface
	fileManager *FileManager
	cron        gocron.Scheduler
	opsMu       sync.Mutex
}

func (s *Scheduler) Init() {
	cron, err := gocron.NewScheduler()
	if err != nil {
		s.logger.Fatalf(providers.TypeApp, "Failed to create scheduler: %s", err)
		return
	}
	s.cron = cron

	scoresJob, err := s.cron.NewJob(
		gocron.DurationJob(s.config.Polling.ScoresInterval),
		gocron.NewTask(func() {
			s.service.RefreshScores(context.Background())
		}),
	)
	if err != nil {
		s.logger.Fatalf(providers.TypeApp, "Failed to schedule score refresh: %s", err)
		return
	}

	profilesJob, err := s.cron.NewJob(
		gocron.DurationJob(s.config.Polling.ProfilesInterval),
		gocron.NewTask(func() {
			s.service.RefreshProfiles(context.Background())
		}),
	)
	if err != nil {
		s.logger.Fatalf(providers.TypeApp, "Failed to schedule profile refresh: %s", err)
		return
	}

	_, err = s.cron.NewJob(
		gocron.DurationJob(s.config.Persistence.SaveInterval),
		gocron.NewTask(func() {
			s.opsMu.Lock()
			defer s.opsMu.Unlock()

			if err := s.fileManager.SaveToFile(s.config.Persistence.FilePath); err != nil {
				s.logger.Errorf(providers.TypeApp, "Error while persisting data: %s", err)
				return
			}
			s.logger.Infof(providers.TypeApp, "Persisted data to file %s", s.config.Persistence.FilePath)
		}),
	)
	if err != nil {
		s.logger.Fatalf(providers.TypeApp, "Failed to schedule persistence: %s", err)
		return
	}

	s.cron.Start()

	// duration jobs do not fire at startup
	_ = scoresJob.RunNow()
	_ = profilesJob.RunNow()
}

func (s *Scheduler) Stop() {
	if s.cron != nil {
		if err := s.cron.Shutdown(); err != nil {
			s.logger.Errorf(providers.TypeApp, "Scheduler shutdown: %s", err)
		}
	}
}

func (s *Scheduler) Restore() error {
	err := s.fileManager.LoadFromFile(s.config.Persistence.FilePath)
	if err != nil {
		return err
	}
	return nil
}

func (s *Scheduler) Persist() error {
	s.opsMu.Lock()
	defer s.opsMu.Unlock()

	s.logger.Infof(providers.TypeApp, "Persisting creator cache to file...")
	err := s.fileManager.SaveToFile(s.config.Persistence.FilePath)
	if err != nil {
		s.logger.Errorf(providers.TypeApp, "Error while persisting data: %s", err)
		return err
	}
	return nil
}

func NewScheduler(config *structures.Config, logger providers.Logger, service services.LeaderboardServiceInterface, fileManager *FileManager) interfaces.SchedulerInterface {
	return &Scheduler{
		config:      config,
		logger:      logger,
		service:     service,
		fileManager: fileManager,
	}
}

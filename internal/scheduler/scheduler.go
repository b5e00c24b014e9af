package scheduler

import (
	"ecotrack/internal/providers"
	"ecotrack/internal/scheduler/interfaces"
	"ecotrack/internal/services"
	"ecotrack/internal/structures"
	"sync"
	"time"

	"github.com/roylee0704/gron"
)

type Scheduler struct {
	config  *structures.Config
	logger  providers.Logger
	tracker services.TrackerServiceInterface
	cron    *gron.Cron
	timer   *time.Timer
	mu      sync.Mutex
}

// Init runs the startup streak check, then repeats it every
// tracker.streakInterval. Pending writes are retried every
// tracker.flushInterval and the tab count is refreshed once shortly after
// start.
func (s *Scheduler) Init() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.refreshStreak()

	s.cron = gron.New()
	s.cron.AddFunc(gron.Every(s.config.Tracker.StreakInterval), s.refreshStreak)

	if interval := s.config.Tracker.FlushInterval; interval > 0 {
		s.cron.AddFunc(gron.Every(interval), func() {
			if err := s.tracker.Flush(); err != nil {
				s.logger.Debugf(providers.TypeApp, "Flush skipped: %s", err)
			}
		})
	}

	s.timer = time.AfterFunc(s.config.Tracker.TabRefreshDelay, func() {
		if err := s.tracker.RefreshTabCount(); err != nil {
			s.logger.Debugf(providers.TypeApp, "Tab refresh skipped: %s", err)
		}
	})

	s.cron.Start()
}

func (s *Scheduler) refreshStreak() {
	s.logger.Debugf(providers.TypeApp, "Checking daily streak...")
	if err := s.tracker.RefreshStreak(); err != nil {
		s.logger.Warnf(providers.TypeApp, "Streak check skipped: %s", err)
	}
}

func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.timer != nil {
		s.timer.Stop()
	}
	if s.cron != nil {
		s.cron.Stop()
	}
}

// Restore loads the stored record, installing defaults on first start.
func (s *Scheduler) Restore() error {
	s.logger.Infof(providers.TypeApp, "Restoring metrics from store...")
	return s.tracker.Install()
}

// Persist retries any write still pending.
func (s *Scheduler) Persist() error {
	s.logger.Infof(providers.TypeApp, "Persisting metrics...")
	err := s.tracker.Flush()
	if err != nil {
		s.logger.Errorf(providers.TypeApp, "Error while persisting metrics: %s", err)
		return err
	}
	return nil
}

func NewScheduler(config *structures.Config, logger providers.Logger, tracker services.TrackerServiceInterface) interfaces.SchedulerInterface {
	return &Scheduler{
		config:  config,
		logger:  logger,
		tracker: tracker,
	}
}

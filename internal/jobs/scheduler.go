// internal/jobs/scheduler.go
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/javajoker/modhub-backend/internal/config"
)

// UnverifiedCleaner removes accounts whose verification window has passed.
type UnverifiedCleaner interface {
	DeleteExpiredUnverified(ctx context.Context, now time.Time) (int64, error)
}

type Scheduler struct {
	cron    *cron.Cron
	cleaner UnverifiedCleaner
}

func NewScheduler(cfg config.JobsConfig, cleaner UnverifiedCleaner) (*Scheduler, error) {
	s := &Scheduler{
		cron:    cron.New(),
		cleaner: cleaner,
	}

	if cfg.CleanupEnabled {
		if _, err := s.cron.AddFunc(cfg.CleanupSchedule, s.CleanupUnverified); err != nil {
			return nil, fmt.Errorf("invalid cleanup schedule %q: %w", cfg.CleanupSchedule, err)
		}
	}

	return s, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	logrus.WithField("jobs", len(s.cron.Entries())).Info("Scheduler started")
}

// Stop waits for running jobs to finish or ctx to expire.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
		logrus.Warn("Scheduler stop timed out")
	}
}

func (s *Scheduler) CleanupUnverified() {
	logrus.Info("Running unverified account cleanup...")
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	count, err := s.cleaner.DeleteExpiredUnverified(ctx, time.Now())
	if err != nil {
		logrus.WithError(err).Error("Unverified account cleanup failed")
		return
	}
	logrus.WithField("removed", count).Info("Unverified account cleanup completed")
}

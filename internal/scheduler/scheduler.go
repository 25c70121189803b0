package scheduler

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"TickerLens/internal/recorder"
)

// Scheduler manages the maintenance cron tasks.
type Scheduler struct {
	Cron      *cron.Cron
	Recorder  recorder.Recorder
	Retention time.Duration

	log zerolog.Logger
	now func() time.Time
}

// NewScheduler creates a new Scheduler keeping retentionDays of request log.
func NewScheduler(rec recorder.Recorder, retentionDays int, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		Cron:      cron.New(cron.WithSeconds()),
		Recorder:  rec,
		Retention: time.Duration(retentionDays) * 24 * time.Hour,
		log:       log.With().Str("component", "scheduler").Logger(),
		now:       time.Now,
	}
}

// RegisterAll registers the request-log prune task.
func (s *Scheduler) RegisterAll(pruneCron string) error {
	if _, err := s.Cron.AddFunc(pruneCron, s.pruneTask); err != nil {
		return fmt.Errorf("register prune task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.log.Info().Msg("scheduler started")
}

// Stop stops the cron scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.log.Info().Msg("scheduler stopped")
}

// RunPruneNow executes the prune task immediately and returns the rows removed.
func (s *Scheduler) RunPruneNow() (int64, error) {
	cutoff := s.now().Add(-s.Retention)
	n, err := s.Recorder.Prune(cutoff)
	if err != nil {
		return 0, err
	}
	s.log.Info().Int64("removed", n).Time("cutoff", cutoff).Msg("request log pruned")
	return n, nil
}

func (s *Scheduler) pruneTask() {
	if _, err := s.RunPruneNow(); err != nil {
		s.log.Error().Err(err).Msg("prune request log")
	}
}

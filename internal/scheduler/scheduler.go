// Package scheduler runs the recurring library maintenance jobs on cron
// schedules: the overdue sweep, due-date reminders, reservation expiry and
// refresh token cleanup.
package scheduler

import (
	"context"
	"fmt"
	"sync"

	"github.com/robfig/cron/v3"
	"github.com/sculib/library/internal/app/services"
	"github.com/sculib/library/internal/config"
	"github.com/sculib/library/internal/pkg/logger"
)

// Scheduler manages the periodic maintenance jobs
type Scheduler struct {
	cfg                *config.Config
	overdueService     *services.OverdueService
	reservationService *services.ReservationService
	authService        *services.AuthService

	cron      *cron.Cron
	mu        sync.Mutex
	isRunning bool
}

// New creates a new scheduler instance
func New(
	cfg *config.Config,
	overdueService *services.OverdueService,
	reservationService *services.ReservationService,
	authService *services.AuthService,
) *Scheduler {
	return &Scheduler{
		cfg:                cfg,
		overdueService:     overdueService,
		reservationService: reservationService,
		authService:        authService,
		cron:               cron.New(cron.WithParser(cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow))),
	}
}

// Start registers the jobs and begins the cron loop. A disabled scheduler is
// a no-op so tests and one-off tools can run without background jobs.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}
	if !s.cfg.Scheduler.Enabled {
		logger.Info().Msg("Scheduler disabled")
		return nil
	}

	jobs := []struct {
		name     string
		schedule string
		run      func(context.Context)
	}{
		{"overdue-sweep", s.cfg.Scheduler.OverdueSchedule, s.runOverdueSweep},
		{"due-reminders", s.cfg.Scheduler.ReminderSchedule, s.runReminders},
		{"reservation-expiry", s.cfg.Scheduler.ExpirationSchedule, s.runReservationExpiry},
		// Token cleanup reuses the overdue schedule; both are nightly
		// housekeeping with no ordering dependency
		{"token-cleanup", s.cfg.Scheduler.OverdueSchedule, s.runTokenCleanup},
	}
	for _, job := range jobs {
		job := job
		if _, err := s.cron.AddFunc(job.schedule, func() { job.run(ctx) }); err != nil {
			return fmt.Errorf("failed to schedule %s job: %w", job.name, err)
		}
		logger.Info().Str("job", job.name).Str("schedule", job.schedule).Msg("Scheduled job")
	}

	s.cron.Start()
	s.isRunning = true
	logger.Info().Msg("Scheduler started")
	return nil
}

// Stop halts the cron loop and waits for any running job to finish
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	stopCtx := s.cron.Stop()
	<-stopCtx.Done()
	s.isRunning = false
	logger.Info().Msg("Scheduler stopped")
}

func (s *Scheduler) runOverdueSweep(ctx context.Context) {
	result, err := s.overdueService.ProcessOverdue(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Overdue sweep failed")
		return
	}
	logger.Info().
		Int("processed", result.Processed).
		Int("finesIssued", result.FinesIssued).
		Float64("totalFined", result.TotalFined).
		Msg("Scheduled overdue sweep completed")
}

func (s *Scheduler) runReminders(ctx context.Context) {
	result, err := s.overdueService.SendReminders(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Reminder run failed")
		return
	}
	logger.Info().
		Int("dueSoon", result.DueSoon).
		Int("overdue", result.Overdue).
		Msg("Scheduled reminder run completed")
}

func (s *Scheduler) runReservationExpiry(ctx context.Context) {
	expired, err := s.reservationService.ExpireOverdue(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Reservation expiry failed")
		return
	}
	if expired > 0 {
		logger.Info().Int("expired", expired).Msg("Scheduled reservation expiry completed")
	}
}

func (s *Scheduler) runTokenCleanup(ctx context.Context) {
	removed, err := s.authService.CleanupExpiredTokens(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Token cleanup failed")
		return
	}
	if removed > 0 {
		logger.Info().Int64("removed", removed).Msg("Expired refresh tokens removed")
	}
}

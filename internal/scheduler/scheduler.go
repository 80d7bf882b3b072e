package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/taskboard-api/internal/application/reminder"
)

// Scheduler drives the reminder engine: one delayed scan shortly after
// startup, then a fixed-cadence periodic scan. Cycles that land while a
// previous one is still running are skipped, not queued.
type Scheduler struct {
	svc          *reminder.Service
	interval     time.Duration
	initialDelay time.Duration

	cron  *cron.Cron
	timer *time.Timer
}

func New(svc *reminder.Service, interval, initialDelay time.Duration) *Scheduler {
	return &Scheduler{
		svc:          svc,
		interval:     interval,
		initialDelay: initialDelay,
		cron:         cron.New(),
	}
}

// Start registers the periodic job and arms the one-shot initial scan.
// The context bounds each scan cycle, not the scheduler lifetime.
func (s *Scheduler) Start(ctx context.Context) error {
	spec := fmt.Sprintf("@every %s", s.interval)
	if _, err := s.cron.AddFunc(spec, func() { s.run(ctx) }); err != nil {
		return fmt.Errorf("register scan job: %w", err)
	}
	s.timer = time.AfterFunc(s.initialDelay, func() { s.run(ctx) })
	s.cron.Start()
	log.Printf("scheduler started: scan every %s, first scan in %s", s.interval, s.initialDelay)
	return nil
}

// Stop cancels the initial timer and waits for any running cron job to finish.
func (s *Scheduler) Stop() {
	if s.timer != nil {
		s.timer.Stop()
	}
	<-s.cron.Stop().Done()
	log.Printf("scheduler stopped")
}

func (s *Scheduler) run(ctx context.Context) {
	err := s.svc.RunScanCycle(ctx, time.Now().UTC())
	if err == nil {
		return
	}
	if errors.Is(err, reminder.ErrScanInFlight) {
		log.Printf("scheduler: previous scan still running, skipping this tick")
		return
	}
	log.Printf("WARN: scheduled scan failed: %v", err)
}

// Package scheduler runs the periodic maintenance jobs of the service.
package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/zackdotcomputer/capital-gains/internal/service"
)

// Scheduler owns the cron runner for background maintenance. Currently it
// schedules one job: the daily purge of cached statements past their
// retention period.
type Scheduler struct {
	cron             *cron.Cron
	statementService *service.StatementService
	retention        time.Duration
}

// New creates a scheduler purging statements older than retentionDays.
// When retentionDays is zero or negative the purge job is not scheduled and
// Start is a no-op.
func New(statementService *service.StatementService, retentionDays int) *Scheduler {
	return &Scheduler{
		cron:             cron.New(),
		statementService: statementService,
		retention:        time.Duration(retentionDays) * 24 * time.Hour,
	}
}

// Start registers the jobs and starts the cron runner in its own goroutine.
func (s *Scheduler) Start() error {
	if s.retention <= 0 {
		log.Println("statement retention disabled, purge job not scheduled")
		return nil
	}

	_, err := s.cron.AddFunc("@daily", func() {
		if err := s.statementService.PurgeExpired(context.Background(), s.retention); err != nil {
			log.Printf("statement purge failed: %v", err)
		}
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	log.Printf("scheduled daily statement purge with %d-day retention", int(s.retention.Hours()/24))
	return nil
}

// Stop halts the cron runner and waits for any running job to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"github.com/itemforge/catalog-api/internal/metrics"
)

// Job is one schedulable unit of background work.
type Job func(ctx context.Context) error

// Scheduler triggers jobs immediately or on a cron cadence. Job logic never
// depends on the dispatch mechanism behind this interface.
type Scheduler interface {
	RunNow(ctx context.Context, name string, job Job) error
	RunOnSchedule(spec string, name string, job Job) error
}

// CronScheduler runs jobs on six-field cron specs (with seconds). A failing
// or panicking job is logged and counted; the next scheduled run proceeds
// independently.
type CronScheduler struct {
	cron    *cron.Cron
	ctx     context.Context
	timeout time.Duration
}

func NewCronScheduler(ctx context.Context, jobTimeout time.Duration) *CronScheduler {
	return &CronScheduler{
		cron:    cron.New(cron.WithSeconds()),
		ctx:     ctx,
		timeout: jobTimeout,
	}
}

// RunNow executes the job synchronously and reports its error.
func (s *CronScheduler) RunNow(ctx context.Context, name string, job Job) error {
	return s.execute(ctx, name, job)
}

// RunOnSchedule registers the job under a cron spec. Errors of scheduled
// runs are swallowed after logging; the serving path never sees them.
func (s *CronScheduler) RunOnSchedule(spec string, name string, job Job) error {
	_, err := s.cron.AddFunc(spec, func() {
		ctx := s.ctx
		if s.timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, s.timeout)
			defer cancel()
		}
		_ = s.execute(ctx, name, job)
	})
	if err != nil {
		return fmt.Errorf("failed to schedule job %s (%q): %w", name, spec, err)
	}

	log.Printf("Scheduler: registered job %s on %q", name, spec)
	return nil
}

func (s *CronScheduler) execute(ctx context.Context, name string, job Job) (err error) {
	runID := uuid.NewString()[:8]
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("job %s panicked: %v", name, r)
		}
		metrics.JobRunsTotal.WithLabelValues(name).Inc()
		if err != nil {
			metrics.JobFailuresTotal.WithLabelValues(name).Inc()
			log.Printf("Scheduler: job %s run %s failed after %v: %v", name, runID, time.Since(start).Round(time.Millisecond), err)
		} else {
			log.Printf("Scheduler: job %s run %s finished in %v", name, runID, time.Since(start).Round(time.Millisecond))
		}
	}()

	log.Printf("Scheduler: job %s run %s starting", name, runID)
	return job(ctx)
}

// Start begins dispatching scheduled jobs.
func (s *CronScheduler) Start() {
	s.cron.Start()
}

// Stop halts dispatch and waits for running jobs to finish.
func (s *CronScheduler) Stop() {
	<-s.cron.Stop().Done()
}

package workers

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/zerogal/zerogalbackend/config"
)

// Scheduler ticks the background workers on their configured intervals.
// A worker still running when its next tick fires is skipped, so slow
// batches never stack up.
type Scheduler struct {
	cron *cron.Cron
}

// NewScheduler wires the workers into a cron instance. Call Start to begin
// ticking.
func NewScheduler(cfg config.Config, preview *PreviewWorker, convert *ConvertWorker, scavenger *Scavenger) (*Scheduler, error) {
	c := cron.New(cron.WithChain(
		cron.SkipIfStillRunning(cron.DiscardLogger),
		cron.Recover(cron.DefaultLogger),
	))

	jobs := []struct {
		name     string
		interval time.Duration
		run      func(context.Context)
	}{
		{"preview", cfg.PreviewInterval, preview.Run},
		{"convert", cfg.ConvertInterval, convert.Run},
		{"scavenger", cfg.ScavengerInterval, scavenger.RunRemoval},
		{"consistency", cfg.ConsistencyInterval, scavenger.RunConsistency},
	}
	for _, job := range jobs {
		run := job.run
		spec := fmt.Sprintf("@every %s", job.interval)
		if _, err := c.AddFunc(spec, func() { run(context.Background()) }); err != nil {
			return nil, fmt.Errorf("failed to schedule %s worker: %w", job.name, err)
		}
	}

	return &Scheduler{cron: c}, nil
}

// Start begins ticking the workers in background goroutines.
func (s *Scheduler) Start() {
	s.cron.Start()
	log.Println("workers: scheduler started")
}

// Stop halts scheduling and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Println("workers: scheduler stopped")
}

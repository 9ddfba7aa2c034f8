package scheduler

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"

	"github.com/campusline/campusfeed/internal/logger"
)

// Scheduler triggers a full refresh on a cron schedule. The app this grew
// out of refreshed when it came to the foreground; a daemon refreshes on a
// timer instead. A failed run waits for the next tick, nothing more.
type Scheduler struct {
	cron *cron.Cron
	log  logger.Logger
}

// New builds a scheduler that runs refresh on the given cron spec.
func New(spec string, refresh func(context.Context), log logger.Logger) (*Scheduler, error) {
	log = logger.Ensure(log)
	c := cron.New()

	_, err := c.AddFunc(spec, func() {
		log.DebugObj("scheduled refresh starting", "scheduler_tick", nil)
		refresh(context.Background())
	})
	if err != nil {
		return nil, fmt.Errorf("invalid refresh cron spec %q: %w", spec, err)
	}

	return &Scheduler{cron: c, log: log}, nil
}

// Start begins firing scheduled refreshes.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.InfoObj("refresh scheduler started", "scheduler_start", nil)
}

// Stop halts the schedule and waits for a running refresh to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

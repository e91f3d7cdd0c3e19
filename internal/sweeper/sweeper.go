// Package sweeper reconciles deferred submissions back through assignment.
package sweeper

import (
	"context"
	"time"

	"github.com/niket-singh/Reviewers-Adzzat-sub000/internal/entities"

	"go.uber.org/zap"
)

// Engine is the assignment operation the sweeper drives.
type Engine interface {
	ReassignPending(ctx context.Context) (entities.ReassignReport, error)
}

// Sweeper periodically re-attempts assignment for the deferred queue.
type Sweeper struct {
	log      *zap.SugaredLogger
	engine   Engine
	interval time.Duration
}

// New constructs a sweeper with a fixed interval.
func New(log *zap.SugaredLogger, engine Engine, interval time.Duration) *Sweeper {
	return &Sweeper{
		log:      log.Named("sweeper"),
		engine:   engine,
		interval: interval,
	}
}

// Run executes sweeps until ctx is cancelled. A sweep that assigns nothing
// is a normal outcome; the queue simply has no eligible assignee yet, and
// the next interval retries without backoff.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.log.Infow("sweeper started", "interval", s.interval)
	for {
		select {
		case <-ctx.Done():
			s.log.Infow("sweeper stopped")
			return
		case <-ticker.C:
			s.Sweep(ctx)
		}
	}
}

// Sweep runs a single reconciliation pass.
func (s *Sweeper) Sweep(ctx context.Context) {
	report, err := s.engine.ReassignPending(ctx)
	if err != nil {
		s.log.Errorw("sweep failed", "error", err)
		return
	}
	if report.AssignedCount == 0 && report.DeferredCount == 0 {
		return
	}
	s.log.Infow("sweep finished",
		"assigned", report.AssignedCount,
		"still_deferred", report.DeferredCount,
	)
}

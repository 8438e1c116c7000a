package status_logger

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

type SchedulerState int32

const (
	StateInitializing SchedulerState = iota
	StateMigrating
	StatePolling
	StateFailed
	StateStopped
)

func (s SchedulerState) String() string {
	switch s {
	case StateInitializing:
		return "initializing"
	case StateMigrating:
		return "migrating"
	case StatePolling:
		return "polling"
	case StateFailed:
		return "failed"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Scheduler owns the polling timer. It runs migrations once, gates the first
// cycle on their success, then drives the ingest loop on a fixed start-to-start
// period regardless of how long any single cycle took.
type Scheduler struct {
	runner   *MigrationRunner
	loop     *IngestLoop
	interval time.Duration
	logger   logrus.FieldLogger

	state atomic.Int32
}

func NewScheduler(runner *MigrationRunner, loop *IngestLoop, interval time.Duration, logger logrus.FieldLogger) *Scheduler {
	return &Scheduler{
		runner:   runner,
		loop:     loop,
		interval: interval,
		logger:   logger,
	}
}

func (s *Scheduler) State() SchedulerState {
	return SchedulerState(s.state.Load())
}

func (s *Scheduler) setState(state SchedulerState) {
	s.state.Store(int32(state))
}

// Run blocks until ctx is cancelled or migrations fail. A migration failure is
// fatal and returned to the caller; per-cycle failures never are.
func (s *Scheduler) Run(ctx context.Context) error {
	s.setState(StateMigrating)
	if err := s.runner.Migrate(ctx); err != nil {
		s.setState(StateFailed)
		return errors.WithMessage(err, "schema migrations failed")
	}

	s.setState(StatePolling)
	s.logger.Infof("Polling every %s", s.interval)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	if ctx.Err() == nil {
		s.loop.RunOnce(ctx)
	}

	for {
		select {
		case <-ctx.Done():
			s.setState(StateStopped)
			s.logger.Info("Shutdown requested, poller stopped")
			return nil
		case <-ticker.C:
			s.loop.RunOnce(ctx)
		}
	}
}

package refresh

import (
	"context"
	"sync/atomic"
	"time"

	"pasargo/internal/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const DefaultInterval = 30 * time.Second

// Task is one view synchronization run on every poll cycle.
type Task struct {
	Name string
	Run  func(ctx context.Context) error
}

// Scheduler re-synchronizes each actor's view of the orders on a fixed
// interval, since the store offers no push channel. A task still in flight
// when the next tick fires is skipped for that cycle instead of being
// stacked; the interval bounds the staleness window, not the concurrency.
type Scheduler struct {
	interval time.Duration
	tasks    []*guardedTask
}

type guardedTask struct {
	Task
	inFlight atomic.Bool
}

func NewScheduler(interval time.Duration, tasks ...Task) *Scheduler {
	if interval <= 0 {
		interval = DefaultInterval
	}

	s := &Scheduler{interval: interval}
	for _, t := range tasks {
		s.tasks = append(s.tasks, &guardedTask{Task: t})
	}
	return s
}

// Run blocks until ctx is cancelled. The first cycle fires immediately so
// views are populated before the first interval elapses.
func (s *Scheduler) Run(ctx context.Context) {
	s.cycle(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.cycle(ctx)
		}
	}
}

func (s *Scheduler) cycle(ctx context.Context) {
	ctx = logger.WithRequestID(ctx, uuid.NewString())

	for _, t := range s.tasks {
		if !t.inFlight.CompareAndSwap(false, true) {
			logger.FromCtx(ctx).Debug("refresh task still in flight, skipping cycle",
				zap.String("task", t.Name))
			continue
		}

		go func(t *guardedTask) {
			defer t.inFlight.Store(false)

			if err := t.Run(ctx); err != nil {
				logger.FromCtx(ctx).Warn("refresh task failed",
					zap.String("task", t.Name),
					zap.Error(err),
				)
			}
		}(t)
	}
}

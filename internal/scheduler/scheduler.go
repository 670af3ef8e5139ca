// Package scheduler runs the daily order due sweep.
package scheduler

import (
	"context"
	"time"

	"github.com/fekuna/printfarm-inventory-service/pkg/logger"
	"go.uber.org/zap"
)

// DueChecker is the part of the order usecase the sweep needs.
type DueChecker interface {
	CheckDueOrders(ctx context.Context) (int, error)
}

type Scheduler struct {
	checker DueChecker
	hour    int
	minute  int
	logger  logger.ZapLogger
	now     func() time.Time
}

func New(checker DueChecker, hour, minute int, log logger.ZapLogger) *Scheduler {
	return &Scheduler{
		checker: checker,
		hour:    hour,
		minute:  minute,
		logger:  log,
		now:     time.Now,
	}
}

// NextRun returns the first hour:minute strictly after now, in now's zone.
func NextRun(now time.Time, hour, minute int) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

// Start blocks until ctx is cancelled, running the sweep once a day.
func (s *Scheduler) Start(ctx context.Context) {
	s.logger.Info("order due scheduler started", zap.Int("hour", s.hour), zap.Int("minute", s.minute))
	for {
		next := NextRun(s.now(), s.hour, s.minute)
		timer := time.NewTimer(time.Until(next))

		select {
		case <-ctx.Done():
			timer.Stop()
			s.logger.Info("order due scheduler stopped")
			return
		case <-timer.C:
			s.RunOnce(ctx)
		}
	}
}

// RunOnce performs a single sweep and logs the outcome.
func (s *Scheduler) RunOnce(ctx context.Context) {
	runCtx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()

	n, err := s.checker.CheckDueOrders(runCtx)
	if err != nil {
		s.logger.Error("order due check failed", zap.Error(err))
		return
	}
	s.logger.Debug("order due check ran", zap.Int("due_orders", n))
}

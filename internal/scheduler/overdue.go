// Package scheduler runs periodic maintenance jobs on cron schedules.
package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// ErrInvalidCronSpec is returned when the cron specification cannot be parsed.
var ErrInvalidCronSpec = errors.New("invalid cron spec")

// InvoiceSweeper flags issued invoices whose due date has passed.
type InvoiceSweeper interface {
	MarkOverdueInvoices(ctx context.Context) (int, error)
}

// OverdueSweep runs the overdue invoice sweep according to a cron schedule.
type OverdueSweep struct {
	spec     string
	schedule cron.Schedule
	sweeper  InvoiceSweeper
	logger   *slog.Logger
	timeout  time.Duration

	now   func() time.Time
	after func(time.Duration) <-chan time.Time

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewOverdueSweep parses spec (minute hour dom month dow) and binds it to sweeper.
func NewOverdueSweep(spec string, sweeper InvoiceSweeper, logger *slog.Logger) (*OverdueSweep, error) {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	schedule, err := parser.Parse(spec)
	if err != nil {
		return nil, errors.Join(ErrInvalidCronSpec, err)
	}

	return &OverdueSweep{
		spec:     spec,
		schedule: schedule,
		sweeper:  sweeper,
		logger:   logger,
		timeout:  time.Minute,
		now:      time.Now,
		after:    time.After,
	}, nil
}

// NextRun returns the next scheduled run time from now.
func (s *OverdueSweep) NextRun() time.Time {
	return s.schedule.Next(s.now())
}

// Start launches the scheduling goroutine. It returns immediately.
func (s *OverdueSweep) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return
	}

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s.cancel = cancel
	s.done = make(chan struct{})
	go s.loop(runCtx, s.done)

	s.logger.Info("overdue invoice sweep scheduled",
		slog.String("spec", s.spec),
		slog.Time("next_run", s.NextRun()),
	)
}

// Stop cancels the schedule and waits for a running sweep to return.
func (s *OverdueSweep) Stop() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel, s.done = nil, nil
	s.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

func (s *OverdueSweep) loop(ctx context.Context, done chan struct{}) {
	defer close(done)
	for {
		nextRun := s.schedule.Next(s.now())
		wait := nextRun.Sub(s.now())

		s.logger.Debug("waiting for next overdue sweep",
			slog.Time("next_run", nextRun),
			slog.Duration("wait", wait),
		)

		select {
		case <-ctx.Done():
			s.logger.Info("overdue invoice sweep stopped")
			return
		case <-s.after(wait):
			s.RunOnce(ctx)
		}
	}
}

// RunOnce performs a single sweep and logs the result.
func (s *OverdueSweep) RunOnce(ctx context.Context) {
	runCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	flagged, err := s.sweeper.MarkOverdueInvoices(runCtx)
	if err != nil {
		s.logger.Warn("overdue invoice sweep failed", slog.String("error", err.Error()))
		return
	}
	s.logger.Info("overdue invoice sweep completed", slog.Int("flagged", flagged))
}

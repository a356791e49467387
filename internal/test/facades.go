package test

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/polkiloo/letterdesk/internal/domain/model"
)

// NotificationFacadeStub mimics worker interactions with the notification outbox.
type NotificationFacadeStub struct {
	Batches    [][]model.OrderEvent
	ClaimFn    func(context.Context, int) ([]model.OrderEvent, error)
	DeliverFn  func(context.Context, model.OrderEvent) error
	Delivered  []model.OrderEvent
	mu         sync.Mutex
	claimCalls int32
}

// Lock exposes internal mutex for external synchronization.
func (s *NotificationFacadeStub) Lock() { s.mu.Lock() }

// Unlock releases previously acquired lock.
func (s *NotificationFacadeStub) Unlock() { s.mu.Unlock() }

// ClaimCalls reports how many times the outbox was polled.
func (s *NotificationFacadeStub) ClaimCalls() int {
	return int(atomic.LoadInt32(&s.claimCalls))
}

// ClaimNotifications returns batches from configured queue.
func (s *NotificationFacadeStub) ClaimNotifications(ctx context.Context, limit int) ([]model.OrderEvent, error) {
	call := atomic.AddInt32(&s.claimCalls, 1)
	if s.ClaimFn != nil {
		return s.ClaimFn(ctx, limit)
	}
	if int(call) <= len(s.Batches) {
		return s.Batches[call-1], nil
	}
	time.Sleep(5 * time.Millisecond)
	return nil, nil
}

// DeliverNotification records delivered events.
func (s *NotificationFacadeStub) DeliverNotification(ctx context.Context, event model.OrderEvent) error {
	if s.DeliverFn != nil {
		if err := s.DeliverFn(ctx, event); err != nil {
			return err
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Delivered = append(s.Delivered, event)
	return nil
}

// InvoiceSweeperStub counts overdue sweeps.
type InvoiceSweeperStub struct {
	SweepFn func(context.Context) (int, error)
	calls   int32
}

// MarkOverdueInvoices runs configured sweep or reports nothing overdue.
func (s *InvoiceSweeperStub) MarkOverdueInvoices(ctx context.Context) (int, error) {
	atomic.AddInt32(&s.calls, 1)
	if s.SweepFn != nil {
		return s.SweepFn(ctx)
	}
	return 0, nil
}

// Calls reports how many sweeps ran.
func (s *InvoiceSweeperStub) Calls() int {
	return int(atomic.LoadInt32(&s.calls))
}

package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/polkiloo/letterdesk/internal/domain/model"
)

// NotificationFacade exposes the subset of application functionality required by the worker.
type NotificationFacade interface {
	ClaimNotifications(ctx context.Context, limit int) ([]model.OrderEvent, error)
	DeliverNotification(ctx context.Context, event model.OrderEvent) error
}

// NotificationProcessor drains the order event outbox with a pool of workers.
type NotificationProcessor struct {
	facade       NotificationFacade
	pollInterval time.Duration
	batchSize    int
	workers      int
	logger       *slog.Logger

	wg     sync.WaitGroup
	cancel context.CancelFunc
	mu     sync.Mutex
}

// NewNotificationProcessor constructs notification worker pool.
func NewNotificationProcessor(facade NotificationFacade, pollInterval time.Duration, batchSize, workers int, logger *slog.Logger) *NotificationProcessor {
	if workers <= 0 {
		workers = 1
	}
	if batchSize <= 0 {
		batchSize = 1
	}
	if pollInterval <= 0 {
		pollInterval = time.Second
	}
	return &NotificationProcessor{
		facade:       facade,
		pollInterval: pollInterval,
		batchSize:    batchSize,
		workers:      workers,
		logger:       logger,
	}
}

// Start launches background processing. Values of ctx are kept, its cancellation is not.
// A stopped processor can be started again.
func (p *NotificationProcessor) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancel != nil {
		return
	}

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	p.cancel = cancel
	jobs := make(chan model.OrderEvent, p.batchSize*p.workers)

	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker(runCtx, jobs)
	}

	p.wg.Add(1)
	go p.dispatch(runCtx, jobs)
}

// Stop cancels polling and waits for in-flight deliveries to finish.
func (p *NotificationProcessor) Stop() {
	p.mu.Lock()
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
	p.mu.Unlock()

	p.wg.Wait()
}

func (p *NotificationProcessor) dispatch(ctx context.Context, jobs chan<- model.OrderEvent) {
	defer p.wg.Done()
	defer close(jobs)
	ticker := time.NewTicker(p.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.fetchAndDispatch(ctx, jobs)
		}
	}
}

func (p *NotificationProcessor) fetchAndDispatch(ctx context.Context, jobs chan<- model.OrderEvent) {
	events, err := p.facade.ClaimNotifications(ctx, p.batchSize)
	if err != nil {
		p.logger.Error("claim notifications failed", slog.String("error", err.Error()))
		return
	}
	for _, event := range events {
		select {
		case <-ctx.Done():
			return
		case jobs <- event:
		}
	}
}

func (p *NotificationProcessor) worker(ctx context.Context, jobs <-chan model.OrderEvent) {
	defer p.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-jobs:
			if !ok {
				return
			}
			p.handleEvent(ctx, event)
		}
	}
}

func (p *NotificationProcessor) handleEvent(ctx context.Context, event model.OrderEvent) {
	if err := p.facade.DeliverNotification(ctx, event); err != nil {
		p.logger.Warn("notification delivery failed",
			slog.Int64("event_id", event.ID),
			slog.Int64("order_id", event.OrderID),
			slog.Int("attempt", event.Attempts),
			slog.String("error", err.Error()),
		)
	}
}

package repository

import (
	"context"

	"github.com/polkiloo/letterdesk/internal/domain/model"
)

// EventRepository is the notification outbox.
type EventRepository interface {
	Enqueue(ctx context.Context, event *model.OrderEvent) error
	// ClaimBatch locks up to limit unsent events with fewer than maxAttempts attempts.
	ClaimBatch(ctx context.Context, limit, maxAttempts int) ([]model.OrderEvent, error)
	MarkSent(ctx context.Context, id int64) error
	MarkFailed(ctx context.Context, id int64, reason string) error
}

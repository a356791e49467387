package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/polkiloo/letterdesk/internal/domain/model"
	"github.com/polkiloo/letterdesk/internal/domain/repository"
)

// NotificationUseCase drains the outbox of order events.
type NotificationUseCase struct {
	events    repository.EventRepository
	practices repository.PracticeRepository
	orders    repository.OrderRepository
	sender    NotificationSender
	metrics   Metrics
	settings  Settings
	logger    *slog.Logger
}

// NewNotificationUseCase constructs NotificationUseCase.
func NewNotificationUseCase(
	events repository.EventRepository,
	practices repository.PracticeRepository,
	orders repository.OrderRepository,
	sender NotificationSender,
	metrics Metrics,
	settings Settings,
	logger *slog.Logger,
) *NotificationUseCase {
	return &NotificationUseCase{
		events:    events,
		practices: practices,
		orders:    orders,
		sender:    sender,
		metrics:   metrics,
		settings:  settings,
		logger:    logger,
	}
}

// Claim locks up to limit pending events for delivery.
func (u *NotificationUseCase) Claim(ctx context.Context, limit int) ([]model.OrderEvent, error) {
	return u.events.ClaimBatch(ctx, limit, u.settings.NotifyMaxAttempts)
}

// Deliver sends one event and records the result in the outbox.
// A delivery failure never affects the order the event belongs to.
func (u *NotificationUseCase) Deliver(ctx context.Context, event model.OrderEvent) error {
	err := u.deliver(ctx, event)
	u.metrics.ObserveNotification(event.EmailType, outcomeOf(err))
	if err != nil {
		if markErr := u.events.MarkFailed(ctx, event.ID, err.Error()); markErr != nil {
			u.logger.Error("failed to record notification failure", slog.Int64("event_id", event.ID), slog.Any("error", markErr))
		}
		return err
	}
	if err := u.events.MarkSent(ctx, event.ID); err != nil {
		return fmt.Errorf("mark notification sent: %w", err)
	}
	return nil
}

func (u *NotificationUseCase) deliver(ctx context.Context, event model.OrderEvent) error {
	practice, err := u.practices.GetByID(ctx, event.PracticeID)
	if err != nil {
		return fmt.Errorf("resolve recipient: %w", err)
	}
	if practice.Email == "" {
		return fmt.Errorf("practice %d has no email address", practice.ID)
	}

	n := model.Notification{
		EventID:       event.ID,
		Type:          event.EmailType,
		Recipient:     practice.Email,
		PracticeName:  practice.Name,
		OrderID:       event.OrderID,
		FromStatus:    event.FromStatus,
		ToStatus:      event.ToStatus,
		Revision:      event.Revision,
		InvoiceNumber: event.InvoiceNumber,
		Subject:       event.Subject,
		Message:       event.Message,
	}

	order, err := u.orders.GetByID(ctx, event.OrderID)
	if err != nil {
		return fmt.Errorf("load order: %w", err)
	}
	n.OrderTitle = order.Title
	if event.EmailType == model.EmailProofReady {
		if proof, ok := order.LatestProof(); ok {
			n.ProofURL = fileURL(u.settings.PublicBaseURL, order.ID, proof.ID)
		}
	}

	if err := u.sender.Send(ctx, n); err != nil {
		return fmt.Errorf("send %s email: %w", event.EmailType, err)
	}
	return nil
}

package usecase

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"time"

	domainErrors "github.com/polkiloo/letterdesk/internal/domain/errors"
	"github.com/polkiloo/letterdesk/internal/domain/model"
	"github.com/polkiloo/letterdesk/internal/domain/repository"
	"github.com/polkiloo/letterdesk/internal/workflow"
)

// InvoiceUseCase bills completed orders.
type InvoiceUseCase struct {
	orders    repository.OrderRepository
	invoices  repository.InvoiceRepository
	events    repository.EventRepository
	practices repository.PracticeRepository
	blobs     BlobStore
	renderer  InvoiceRenderer
	metrics   Metrics
	logger    *slog.Logger
	now       func() time.Time
}

// NewInvoiceUseCase constructs InvoiceUseCase.
func NewInvoiceUseCase(
	orders repository.OrderRepository,
	invoices repository.InvoiceRepository,
	events repository.EventRepository,
	practices repository.PracticeRepository,
	blobs BlobStore,
	renderer InvoiceRenderer,
	metrics Metrics,
	logger *slog.Logger,
) *InvoiceUseCase {
	return &InvoiceUseCase{
		orders:    orders,
		invoices:  invoices,
		events:    events,
		practices: practices,
		blobs:     blobs,
		renderer:  renderer,
		metrics:   metrics,
		logger:    logger,
		now:       time.Now,
	}
}

// Generate issues the invoice of a completed order.
func (u *InvoiceUseCase) Generate(ctx context.Context, actor model.Actor, orderID int64) (*model.Invoice, error) {
	if !actor.IsAdmin() {
		return nil, domainErrors.ErrForbidden
	}
	invoice, err := u.generate(ctx, orderID)
	u.metrics.ObserveInvoice(outcomeOf(err))
	if err != nil {
		return nil, err
	}

	u.logger.Info("invoice generated",
		slog.Int64("order_id", orderID),
		slog.String("number", invoice.Number),
		slog.String("amount", invoice.Amount.StringFixed(2)),
	)
	return invoice, nil
}

func (u *InvoiceUseCase) generate(ctx context.Context, orderID int64) (*model.Invoice, error) {
	order, err := u.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if reason := workflow.InvoiceReason(order.Status); reason != "" {
		return nil, domainErrors.NewStateError("%s: order is %q", reason, order.Status)
	}

	if _, err := u.invoices.GetByOrder(ctx, orderID); err == nil {
		return nil, domainErrors.ErrAlreadyExists
	} else if !errors.Is(err, domainErrors.ErrNotFound) {
		return nil, fmt.Errorf("lookup invoice: %w", err)
	}

	practice, err := u.practices.GetByID(ctx, order.PracticeID)
	if err != nil {
		return nil, fmt.Errorf("lookup practice: %w", err)
	}

	issued := u.now().UTC()
	seq, err := u.invoices.NextSequence(ctx, issued.Year())
	if err != nil {
		return nil, fmt.Errorf("next invoice number: %w", err)
	}

	invoice := &model.Invoice{
		OrderID:    order.ID,
		PracticeID: order.PracticeID,
		Number:     model.InvoiceNumber(issued.Year(), seq),
		Amount:     order.Cost,
		Status:     model.InvoiceStatusIssued,
		IssuedAt:   issued,
		DueAt:      issued.Add(model.InvoicePaymentTerm),
	}

	doc, err := u.renderer.Render(ctx, *invoice, *order, *practice)
	if err != nil {
		return nil, fmt.Errorf("render invoice: %w", err)
	}

	name := invoice.Number + ".pdf"
	key, size, err := u.blobs.Save(ctx, "invoices/"+strconv.Itoa(issued.Year()), name, bytes.NewReader(doc))
	if err != nil {
		return nil, fmt.Errorf("store invoice: %w", err)
	}
	invoice.DocumentKey = key

	if err := u.invoices.Create(ctx, invoice); err != nil {
		u.discard(ctx, key)
		if errors.Is(err, domainErrors.ErrAlreadyExists) {
			return nil, domainErrors.ErrAlreadyExists
		}
		return nil, fmt.Errorf("create invoice: %w", err)
	}

	// The invoice is committed; attachment and notification failures are only logged.
	file := &model.OrderFile{
		OrderID:     order.ID,
		Type:        model.FileTypeInvoice,
		Name:        name,
		ContentType: "application/pdf",
		Size:        size,
		StorageKey:  key,
	}
	if err := u.orders.AppendFile(ctx, file); err != nil {
		u.logger.Warn("failed to attach invoice to order", slog.Int64("order_id", order.ID), slog.Any("error", err))
	}

	event := &model.OrderEvent{
		OrderID:       order.ID,
		PracticeID:    order.PracticeID,
		EmailType:     model.EmailInvoiceGenerated,
		ToStatus:      order.Status,
		InvoiceNumber: invoice.Number,
	}
	if err := u.events.Enqueue(ctx, event); err != nil {
		u.logger.Warn("failed to queue invoice notification", slog.Int64("order_id", order.ID), slog.Any("error", err))
	}

	return invoice, nil
}

// Get returns the invoice of an order visible to the actor.
func (u *InvoiceUseCase) Get(ctx context.Context, actor model.Actor, orderID int64) (*model.Invoice, error) {
	invoice, err := u.invoices.GetByOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !actor.CanAccess(invoice.PracticeID) {
		return nil, domainErrors.ErrNotFound
	}
	return invoice, nil
}

// Document opens the rendered invoice. The caller closes the reader.
func (u *InvoiceUseCase) Document(ctx context.Context, actor model.Actor, orderID int64) (*model.Invoice, io.ReadCloser, error) {
	invoice, err := u.Get(ctx, actor, orderID)
	if err != nil {
		return nil, nil, err
	}
	rc, err := u.blobs.Open(ctx, invoice.DocumentKey)
	if err != nil {
		return nil, nil, fmt.Errorf("open invoice document: %w", err)
	}
	return invoice, rc, nil
}

// MarkOverdue flags unpaid invoices past their due date and notifies the practices.
func (u *InvoiceUseCase) MarkOverdue(ctx context.Context) (int, error) {
	overdue, err := u.invoices.MarkOverdue(ctx, u.now().UTC())
	if err != nil {
		return 0, fmt.Errorf("mark overdue invoices: %w", err)
	}
	for _, inv := range overdue {
		event := &model.OrderEvent{
			OrderID:       inv.OrderID,
			PracticeID:    inv.PracticeID,
			EmailType:     model.EmailInvoiceOverdue,
			InvoiceNumber: inv.Number,
		}
		if err := u.events.Enqueue(ctx, event); err != nil {
			u.logger.Warn("failed to queue overdue notification", slog.String("number", inv.Number), slog.Any("error", err))
		}
	}
	return len(overdue), nil
}

func (u *InvoiceUseCase) discard(ctx context.Context, key string) {
	if err := u.blobs.Delete(context.WithoutCancel(ctx), key); err != nil {
		u.logger.Warn("failed to remove orphaned invoice document", slog.String("key", key), slog.Any("error", err))
	}
}

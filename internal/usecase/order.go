package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/letterdesk/internal/domain/errors"
	"github.com/polkiloo/letterdesk/internal/domain/model"
	"github.com/polkiloo/letterdesk/internal/domain/repository"
	"github.com/polkiloo/letterdesk/internal/workflow"
)

// Statuses a practice may request on its own orders.
var practiceTargets = map[model.OrderStatus]struct{}{
	model.OrderStatusPending:          {},
	model.OrderStatusDraft:            {},
	model.OrderStatusApproved:         {},
	model.OrderStatusChangesRequested: {},
	model.OrderStatusCancelled:        {},
}

// OrderUseCase encapsulates order lifecycle logic.
type OrderUseCase struct {
	orders   repository.OrderRepository
	events   repository.EventRepository
	blobs    BlobStore
	metrics  Metrics
	settings Settings
	logger   *slog.Logger
}

// NewOrderUseCase constructs OrderUseCase.
func NewOrderUseCase(
	orders repository.OrderRepository,
	events repository.EventRepository,
	blobs BlobStore,
	metrics Metrics,
	settings Settings,
	logger *slog.Logger,
) *OrderUseCase {
	return &OrderUseCase{
		orders:   orders,
		events:   events,
		blobs:    blobs,
		metrics:  metrics,
		settings: settings,
		logger:   logger,
	}
}

// CreateOrderInput describes a new order.
type CreateOrderInput struct {
	PracticeID int64
	Title      string
	Quantity   int
	Cost       decimal.Decimal
	// Submit places the order as pending instead of draft.
	Submit bool
}

// Create registers a new order. Practices always create orders for themselves.
func (u *OrderUseCase) Create(ctx context.Context, actor model.Actor, in CreateOrderInput) (*model.Order, error) {
	if !actor.IsAdmin() {
		in.PracticeID = actor.PracticeID
	}
	in.Title = strings.TrimSpace(in.Title)

	switch {
	case in.PracticeID <= 0:
		return nil, invalidInput("practice is required")
	case in.Title == "":
		return nil, invalidInput("title is required")
	case in.Quantity <= 0:
		return nil, invalidInput("quantity must be positive")
	case in.Cost.IsNegative():
		return nil, invalidInput("cost must not be negative")
	}

	status := model.OrderStatusDraft
	if in.Submit {
		status = model.OrderStatusPending
	}

	order := &model.Order{
		PracticeID: in.PracticeID,
		Title:      in.Title,
		Quantity:   in.Quantity,
		Cost:       in.Cost,
		Status:     status,
	}
	if err := u.orders.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	return order, nil
}

// Get returns an order visible to the actor.
func (u *OrderUseCase) Get(ctx context.Context, actor model.Actor, id int64) (*model.Order, error) {
	order, err := u.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanAccess(order.PracticeID) {
		return nil, domainErrors.ErrNotFound
	}
	return order, nil
}

// List returns orders visible to the actor.
func (u *OrderUseCase) List(ctx context.Context, actor model.Actor, filter model.OrderFilter) ([]model.Order, error) {
	if !actor.IsAdmin() {
		practiceID := actor.PracticeID
		filter.PracticeID = &practiceID
	}
	if filter.Status != nil && !filter.Status.IsValid() {
		return nil, invalidInput(fmt.Sprintf("unknown status %q", *filter.Status))
	}
	return u.orders.List(ctx, filter)
}

// Actions returns the action menu of an order.
func (u *OrderUseCase) Actions(ctx context.Context, actor model.Actor, id int64) ([]workflow.Action, error) {
	order, err := u.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	return workflow.AvailableActions(*order), nil
}

// AllowedTransitions lists the statuses the actor may move the order to.
func (u *OrderUseCase) AllowedTransitions(ctx context.Context, actor model.Actor, id int64) (model.OrderStatus, []model.OrderStatus, error) {
	order, err := u.Get(ctx, actor, id)
	if err != nil {
		return "", nil, err
	}
	next := workflow.ValidTransitions(order.Status)
	if actor.IsAdmin() {
		return order.Status, next, nil
	}
	filtered := next[:0]
	for _, s := range next {
		if _, ok := practiceTargets[s]; ok {
			filtered = append(filtered, s)
		}
	}
	return order.Status, filtered, nil
}

// Transition moves an order to a new status.
func (u *OrderUseCase) Transition(ctx context.Context, actor model.Actor, id int64, to model.OrderStatus) (*model.Order, error) {
	order, err := u.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	updated, err := u.transition(ctx, actor, order, to)
	u.metrics.ObserveTransition(order.Status, to, outcomeOf(err))
	if err != nil {
		return nil, err
	}

	u.logger.Info("order status changed",
		slog.Int64("order_id", updated.ID),
		slog.String("from", string(order.Status)),
		slog.String("to", string(updated.Status)),
		slog.Int64("user_id", actor.UserID),
	)
	return updated, nil
}

func (u *OrderUseCase) transition(ctx context.Context, actor model.Actor, order *model.Order, to model.OrderStatus) (*model.Order, error) {
	if !actor.IsAdmin() {
		if _, ok := practiceTargets[to]; !ok {
			return nil, domainErrors.ErrForbidden
		}
	}
	if err := workflow.ValidateTransition(order.Status, to); err != nil {
		return nil, err
	}
	// A table-legal move into waiting-approval-revN still needs revision N uploaded.
	if rev, ok := to.Revision(); ok && rev != order.RevisionCount {
		return nil, domainErrors.NewStateError("proof revision %d has not been uploaded", rev)
	}

	emailType := model.EmailOrderStatusChange
	if to.IsAwaitingApproval() {
		emailType = model.EmailProofReady
	}

	change := model.StatusChange{
		OrderID:         order.ID,
		ExpectedVersion: order.Version,
		From:            order.Status,
		To:              to,
		RevisionCount:   order.RevisionCount,
		Event: &model.OrderEvent{
			OrderID:    order.ID,
			PracticeID: order.PracticeID,
			EmailType:  emailType,
			FromStatus: order.Status,
			ToStatus:   to,
			Revision:   order.RevisionCount,
		},
	}
	return u.apply(ctx, change)
}

func (u *OrderUseCase) apply(ctx context.Context, change model.StatusChange) (*model.Order, error) {
	updated, err := u.orders.ApplyChange(ctx, change)
	if err != nil {
		if errors.Is(err, domainErrors.ErrConflict) || errors.Is(err, domainErrors.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("apply status change: %w", err)
	}
	return updated, nil
}

// UploadProof stores a new proof revision and sends it out for approval.
func (u *OrderUseCase) UploadProof(ctx context.Context, actor model.Actor, id int64, upload Upload, notes string) (*model.Order, error) {
	if !actor.IsAdmin() {
		return nil, domainErrors.ErrForbidden
	}
	order, err := u.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	updated, err := u.uploadProof(ctx, order, upload, notes)
	u.metrics.ObserveProofUpload(outcomeOf(err))
	if err != nil {
		return nil, err
	}

	u.logger.Info("proof uploaded",
		slog.Int64("order_id", updated.ID),
		slog.Int("revision", updated.RevisionCount),
		slog.String("status", string(updated.Status)),
	)
	return updated, nil
}

func (u *OrderUseCase) uploadProof(ctx context.Context, order *model.Order, upload Upload, notes string) (*model.Order, error) {
	target, revision, err := workflow.ProofTransition(order.Status, order.RevisionCount)
	if err != nil {
		return nil, err
	}
	if err := upload.validate(); err != nil {
		return nil, err
	}

	dir := fmt.Sprintf("orders/%d/proofs/rev%d", order.ID, revision)
	key, size, err := u.blobs.Save(ctx, dir, upload.Name, upload.Content)
	if err != nil {
		return nil, fmt.Errorf("store proof: %w", err)
	}

	change := model.StatusChange{
		OrderID:         order.ID,
		ExpectedVersion: order.Version,
		From:            order.Status,
		To:              target,
		RevisionCount:   revision,
		File: &model.OrderFile{
			OrderID:     order.ID,
			Type:        model.FileTypeAdminProof,
			Revision:    revision,
			Name:        upload.Name,
			ContentType: upload.ContentType,
			Size:        size,
			StorageKey:  key,
			Notes:       notes,
		},
		Event: &model.OrderEvent{
			OrderID:    order.ID,
			PracticeID: order.PracticeID,
			EmailType:  model.EmailProofReady,
			FromStatus: order.Status,
			ToStatus:   target,
			Revision:   revision,
			Message:    notes,
		},
	}

	updated, err := u.apply(ctx, change)
	if err != nil {
		u.discard(ctx, key)
		return nil, err
	}
	return updated, nil
}

// AttachFile stores a customer upload on a non-terminal order.
func (u *OrderUseCase) AttachFile(ctx context.Context, actor model.Actor, id int64, upload Upload) (*model.OrderFile, error) {
	order, err := u.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if order.Status.IsTerminal() {
		return nil, domainErrors.NewStateError("files cannot be attached to a %s order", order.Status)
	}
	if err := upload.validate(); err != nil {
		return nil, err
	}

	key, size, err := u.blobs.Save(ctx, fmt.Sprintf("orders/%d/uploads", order.ID), upload.Name, upload.Content)
	if err != nil {
		return nil, fmt.Errorf("store upload: %w", err)
	}

	file := &model.OrderFile{
		OrderID:     order.ID,
		Type:        model.FileTypeCustomerUpload,
		Name:        upload.Name,
		ContentType: upload.ContentType,
		Size:        size,
		StorageKey:  key,
	}
	if err := u.orders.AppendFile(ctx, file); err != nil {
		u.discard(ctx, key)
		return nil, fmt.Errorf("append file: %w", err)
	}
	return file, nil
}

// OpenFile streams a stored order file. The caller closes the reader.
func (u *OrderUseCase) OpenFile(ctx context.Context, actor model.Actor, orderID, fileID int64) (*model.OrderFile, io.ReadCloser, error) {
	if _, err := u.Get(ctx, actor, orderID); err != nil {
		return nil, nil, err
	}
	file, err := u.orders.GetFile(ctx, orderID, fileID)
	if err != nil {
		return nil, nil, err
	}
	rc, err := u.blobs.Open(ctx, file.StorageKey)
	if err != nil {
		return nil, nil, fmt.Errorf("open file: %w", err)
	}
	return file, rc, nil
}

// ProofLink points at the proof currently awaiting approval.
type ProofLink struct {
	OrderID  int64
	Revision int
	FileID   int64
	URL      string
}

// ProofLink returns a shareable link to the proof awaiting approval.
func (u *OrderUseCase) ProofLink(ctx context.Context, actor model.Actor, id int64) (*ProofLink, error) {
	order, err := u.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if reason := workflow.ProofLinkReason(order.Status); reason != "" {
		return nil, domainErrors.NewStateError("%s: order is %q", reason, order.Status)
	}
	proof, ok := order.LatestProof()
	if !ok {
		return nil, domainErrors.NewStateError("order has no uploaded proof")
	}
	return &ProofLink{
		OrderID:  order.ID,
		Revision: proof.Revision,
		FileID:   proof.ID,
		URL:      fileURL(u.settings.PublicBaseURL, order.ID, proof.ID),
	}, nil
}

func fileURL(base string, orderID, fileID int64) string {
	return fmt.Sprintf("%s/api/orders/%d/files/%d", strings.TrimRight(base, "/"), orderID, fileID)
}

// SendEmail queues a free-form email to the practice owning the order.
func (u *OrderUseCase) SendEmail(ctx context.Context, actor model.Actor, id int64, subject, message string) error {
	if !actor.IsAdmin() {
		return domainErrors.ErrForbidden
	}
	subject, message = strings.TrimSpace(subject), strings.TrimSpace(message)
	if subject == "" || message == "" {
		return invalidInput("subject and message are required")
	}
	order, err := u.Get(ctx, actor, id)
	if err != nil {
		return err
	}
	event := &model.OrderEvent{
		OrderID:    order.ID,
		PracticeID: order.PracticeID,
		EmailType:  model.EmailCustom,
		ToStatus:   order.Status,
		Revision:   order.RevisionCount,
		Subject:    subject,
		Message:    message,
	}
	if err := u.events.Enqueue(ctx, event); err != nil {
		return fmt.Errorf("enqueue email: %w", err)
	}
	return nil
}

func (u *OrderUseCase) discard(ctx context.Context, key string) {
	if err := u.blobs.Delete(context.WithoutCancel(ctx), key); err != nil {
		u.logger.Warn("failed to remove orphaned file", slog.String("key", key), slog.Any("error", err))
	}
}

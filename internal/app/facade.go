package app

import (
	"context"
	"io"

	"github.com/polkiloo/letterdesk/internal/domain/model"
	"github.com/polkiloo/letterdesk/internal/usecase"
	"github.com/polkiloo/letterdesk/internal/workflow"
)

// DeskFacade bundles the use cases behind the HTTP API and background jobs.
type DeskFacade struct {
	auth          *usecase.AuthUseCase
	orders        *usecase.OrderUseCase
	invoices      *usecase.InvoiceUseCase
	bulk          *usecase.BulkUseCase
	quotes        *usecase.QuoteUseCase
	notifications *usecase.NotificationUseCase
}

// NewDeskFacade constructs DeskFacade.
func NewDeskFacade(
	auth *usecase.AuthUseCase,
	orders *usecase.OrderUseCase,
	invoices *usecase.InvoiceUseCase,
	bulk *usecase.BulkUseCase,
	quotes *usecase.QuoteUseCase,
	notifications *usecase.NotificationUseCase,
) *DeskFacade {
	return &DeskFacade{
		auth:          auth,
		orders:        orders,
		invoices:      invoices,
		bulk:          bulk,
		quotes:        quotes,
		notifications: notifications,
	}
}

func (f *DeskFacade) Register(ctx context.Context, in usecase.Registration) (string, error) {
	_, token, err := f.auth.Register(ctx, in)
	return token, err
}

func (f *DeskFacade) Authenticate(ctx context.Context, login, password string) (string, error) {
	_, token, err := f.auth.Authenticate(ctx, login, password)
	return token, err
}

func (f *DeskFacade) ParseToken(token string) (model.Actor, error) {
	return f.auth.ParseToken(token)
}

// EnsureAdmin bootstraps the configured back-office account.
func (f *DeskFacade) EnsureAdmin(ctx context.Context, login, password string) error {
	return f.auth.EnsureAdmin(ctx, login, password)
}

func (f *DeskFacade) CreateOrder(ctx context.Context, actor model.Actor, in usecase.CreateOrderInput) (*model.Order, error) {
	return f.orders.Create(ctx, actor, in)
}

func (f *DeskFacade) Order(ctx context.Context, actor model.Actor, id int64) (*model.Order, error) {
	return f.orders.Get(ctx, actor, id)
}

func (f *DeskFacade) Orders(ctx context.Context, actor model.Actor, filter model.OrderFilter) ([]model.Order, error) {
	return f.orders.List(ctx, actor, filter)
}

func (f *DeskFacade) OrderActions(ctx context.Context, actor model.Actor, id int64) ([]workflow.Action, error) {
	return f.orders.Actions(ctx, actor, id)
}

func (f *DeskFacade) AllowedTransitions(ctx context.Context, actor model.Actor, id int64) (model.OrderStatus, []model.OrderStatus, error) {
	return f.orders.AllowedTransitions(ctx, actor, id)
}

func (f *DeskFacade) Transition(ctx context.Context, actor model.Actor, id int64, to model.OrderStatus) (*model.Order, error) {
	return f.orders.Transition(ctx, actor, id, to)
}

func (f *DeskFacade) UploadProof(ctx context.Context, actor model.Actor, id int64, upload usecase.Upload, notes string) (*model.Order, error) {
	return f.orders.UploadProof(ctx, actor, id, upload, notes)
}

func (f *DeskFacade) AttachFile(ctx context.Context, actor model.Actor, id int64, upload usecase.Upload) (*model.OrderFile, error) {
	return f.orders.AttachFile(ctx, actor, id, upload)
}

func (f *DeskFacade) OpenFile(ctx context.Context, actor model.Actor, orderID, fileID int64) (*model.OrderFile, io.ReadCloser, error) {
	return f.orders.OpenFile(ctx, actor, orderID, fileID)
}

func (f *DeskFacade) ProofLink(ctx context.Context, actor model.Actor, id int64) (*usecase.ProofLink, error) {
	return f.orders.ProofLink(ctx, actor, id)
}

func (f *DeskFacade) SendEmail(ctx context.Context, actor model.Actor, id int64, subject, message string) error {
	return f.orders.SendEmail(ctx, actor, id, subject, message)
}

func (f *DeskFacade) GenerateInvoice(ctx context.Context, actor model.Actor, orderID int64) (*model.Invoice, error) {
	return f.invoices.Generate(ctx, actor, orderID)
}

func (f *DeskFacade) Invoice(ctx context.Context, actor model.Actor, orderID int64) (*model.Invoice, error) {
	return f.invoices.Get(ctx, actor, orderID)
}

func (f *DeskFacade) InvoiceDocument(ctx context.Context, actor model.Actor, orderID int64) (*model.Invoice, io.ReadCloser, error) {
	return f.invoices.Document(ctx, actor, orderID)
}

// MarkOverdueInvoices is run by the scheduler outside any request.
func (f *DeskFacade) MarkOverdueInvoices(ctx context.Context) (int, error) {
	return f.invoices.MarkOverdue(ctx)
}

func (f *DeskFacade) BulkAction(ctx context.Context, actor model.Actor, category workflow.AlertCategory, ids []int64) (*usecase.BulkResult, error) {
	return f.bulk.Apply(ctx, actor, category, ids)
}

func (f *DeskFacade) CreateQuote(ctx context.Context, actor model.Actor, in usecase.CreateQuoteInput) (*model.Quote, error) {
	return f.quotes.Create(ctx, actor, in)
}

func (f *DeskFacade) Quote(ctx context.Context, actor model.Actor, id int64) (*model.Quote, error) {
	return f.quotes.Get(ctx, actor, id)
}

func (f *DeskFacade) Quotes(ctx context.Context, actor model.Actor) ([]model.Quote, error) {
	return f.quotes.List(ctx, actor)
}

func (f *DeskFacade) ConvertQuote(ctx context.Context, actor model.Actor, id int64) (*model.Order, error) {
	return f.quotes.Convert(ctx, actor, id)
}

func (f *DeskFacade) ClaimNotifications(ctx context.Context, limit int) ([]model.OrderEvent, error) {
	return f.notifications.Claim(ctx, limit)
}

func (f *DeskFacade) DeliverNotification(ctx context.Context, event model.OrderEvent) error {
	return f.notifications.Deliver(ctx, event)
}

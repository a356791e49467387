package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/letterdesk/internal/domain/errors"
	"github.com/polkiloo/letterdesk/internal/domain/model"
	testhelpers "github.com/polkiloo/letterdesk/internal/test"
	"github.com/polkiloo/letterdesk/internal/usecase"
	"github.com/polkiloo/letterdesk/internal/workflow"
)

var discard = slog.New(slog.NewJSONHandler(io.Discard, nil))

type facadeDeps struct {
	repos  *testhelpers.RepositoryFactoryStub
	blobs  *testhelpers.BlobStoreStub
	sender *testhelpers.SenderStub
}

func newFacade() (*DeskFacade, facadeDeps) {
	deps := facadeDeps{
		repos:  testhelpers.NewRepositoryFactoryStub(),
		blobs:  testhelpers.NewBlobStoreStub(),
		sender: &testhelpers.SenderStub{},
	}
	r := deps.repos
	metrics := &testhelpers.MetricsRecorder{}
	settings := usecase.Settings{PublicBaseURL: "https://desk.example", NotifyMaxAttempts: 3}

	auth := usecase.NewAuthUseCase(r.Users(), r.Practices(), testhelpers.HasherStub{}, testhelpers.StrategyStub{}, discard)
	orders := usecase.NewOrderUseCase(r.Orders(), r.Events(), deps.blobs, metrics, settings, discard)
	invoices := usecase.NewInvoiceUseCase(r.Orders(), r.Invoices(), r.Events(), r.Practices(), deps.blobs, &testhelpers.RendererStub{}, metrics, discard)
	bulk := usecase.NewBulkUseCase(orders, metrics, discard)
	quotes := usecase.NewQuoteUseCase(r.Quotes())
	notifications := usecase.NewNotificationUseCase(r.Events(), r.Practices(), r.Orders(), deps.sender, metrics, settings, discard)

	return NewDeskFacade(auth, orders, invoices, bulk, quotes, notifications), deps
}

func TestDeskFacadeAuth(t *testing.T) {
	facade, deps := newFacade()
	ctx := context.Background()

	token, err := facade.Register(ctx, usecase.Registration{Login: "smile", Password: "secret", PracticeName: "Smile Dental", Email: "front@smile.example"})
	if err != nil {
		t.Fatalf("register returned error: %v", err)
	}
	if token != "token" {
		t.Fatalf("unexpected token %q", token)
	}

	if _, err := facade.Authenticate(ctx, "smile", "wrong"); !errors.Is(err, domainErrors.ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials, got %v", err)
	}
	if token, err = facade.Authenticate(ctx, "smile", "secret"); err != nil || token != "token" {
		t.Fatalf("unexpected authenticate result %q %v", token, err)
	}

	actor, err := facade.ParseToken("token")
	if err != nil || !actor.IsAdmin() {
		t.Fatalf("unexpected actor %+v err=%v", actor, err)
	}

	if err := facade.EnsureAdmin(ctx, "root", "toor"); err != nil {
		t.Fatalf("ensure admin returned error: %v", err)
	}
	admin, err := deps.repos.UsersRepo.GetByLogin(ctx, "root")
	if err != nil || admin.Role != model.RoleAdmin {
		t.Fatalf("expected admin account, got %+v err=%v", admin, err)
	}
}

func TestDeskFacadeOrderWorkflow(t *testing.T) {
	facade, deps := newFacade()
	ctx := context.Background()
	admin := testhelpers.AdminActor

	practice, _ := deps.repos.PracticesRepo.Create(ctx, "Smile Dental", "front@smile.example")
	owner := testhelpers.PracticeActor(practice.ID)

	order, err := facade.CreateOrder(ctx, owner, usecase.CreateOrderInput{Title: "Spring recall", Quantity: 500, Cost: decimal.RequireFromString("412.50")})
	if err != nil {
		t.Fatalf("create order returned error: %v", err)
	}

	listed, err := facade.Orders(ctx, owner, model.OrderFilter{})
	if err != nil || len(listed) != 1 {
		t.Fatalf("expected one order, got %v err=%v", listed, err)
	}

	current, next, err := facade.AllowedTransitions(ctx, owner, order.ID)
	if err != nil || current != model.OrderStatusDraft || len(next) == 0 {
		t.Fatalf("unexpected transitions %s %v err=%v", current, next, err)
	}

	order, err = facade.UploadProof(ctx, admin, order.ID, usecase.Upload{Name: "proof.pdf", ContentType: "application/pdf", Content: strings.NewReader("%PDF")}, "first pass")
	if err != nil {
		t.Fatalf("upload proof returned error: %v", err)
	}
	if order.Status != model.WaitingApproval(1) {
		t.Fatalf("expected waiting approval, got %s", order.Status)
	}

	link, err := facade.ProofLink(ctx, owner, order.ID)
	if err != nil || link.Revision != 1 || !strings.HasPrefix(link.URL, "https://desk.example/") {
		t.Fatalf("unexpected proof link %+v err=%v", link, err)
	}

	actions, err := facade.OrderActions(ctx, owner, order.ID)
	if err != nil {
		t.Fatalf("actions returned error: %v", err)
	}
	for _, a := range actions {
		if a.Name == workflow.ActionCopyProofLink && !a.Enabled {
			t.Fatalf("copy proof link must be enabled while awaiting approval")
		}
	}

	file, err := facade.AttachFile(ctx, owner, order.ID, usecase.Upload{Name: "logo.png", Content: strings.NewReader("png")})
	if err != nil {
		t.Fatalf("attach file returned error: %v", err)
	}
	opened, rc, err := facade.OpenFile(ctx, owner, order.ID, file.ID)
	if err != nil {
		t.Fatalf("open file returned error: %v", err)
	}
	rc.Close()
	if opened.Name != "logo.png" {
		t.Fatalf("unexpected file %+v", opened)
	}

	if err := facade.SendEmail(ctx, admin, order.ID, "Artwork", "Looks good"); err != nil {
		t.Fatalf("send email returned error: %v", err)
	}

	for _, to := range []model.OrderStatus{model.OrderStatusApproved, model.OrderStatusInProgress, model.OrderStatusCompleted} {
		if order, err = facade.Transition(ctx, admin, order.ID, to); err != nil {
			t.Fatalf("transition to %s returned error: %v", to, err)
		}
	}

	invoice, err := facade.GenerateInvoice(ctx, admin, order.ID)
	if err != nil {
		t.Fatalf("generate invoice returned error: %v", err)
	}
	if got, err := facade.Invoice(ctx, owner, order.ID); err != nil || got.Number != invoice.Number {
		t.Fatalf("unexpected invoice %+v err=%v", got, err)
	}
	_, doc, err := facade.InvoiceDocument(ctx, owner, order.ID)
	if err != nil {
		t.Fatalf("invoice document returned error: %v", err)
	}
	doc.Close()

	flagged, err := facade.MarkOverdueInvoices(ctx)
	if err != nil || flagged != 0 {
		t.Fatalf("unexpected overdue sweep result %d err=%v", flagged, err)
	}

	got, err := facade.Order(ctx, owner, order.ID)
	if err != nil || got.Status != model.OrderStatusCompleted {
		t.Fatalf("unexpected order %+v err=%v", got, err)
	}
}

func TestDeskFacadeBulkAndQuotes(t *testing.T) {
	facade, deps := newFacade()
	ctx := context.Background()
	admin := testhelpers.AdminActor

	practice, _ := deps.repos.PracticesRepo.Create(ctx, "Smile Dental", "front@smile.example")
	deps.repos.OrdersRepo.Put(model.Order{ID: 1, PracticeID: practice.ID, Title: "A", Quantity: 1, Status: model.OrderStatusCompleted, Version: 1})
	deps.repos.OrdersRepo.Put(model.Order{ID: 2, PracticeID: practice.ID, Title: "B", Quantity: 1, Status: model.OrderStatusDraft, Version: 1})

	result, err := facade.BulkAction(ctx, admin, workflow.AlertReadyForDelivery, []int64{1, 2})
	if err != nil {
		t.Fatalf("bulk action returned error: %v", err)
	}
	if result.Succeeded != 1 || result.Failed != 1 {
		t.Fatalf("unexpected bulk result %+v", result)
	}

	owner := testhelpers.PracticeActor(practice.ID)
	quote, err := facade.CreateQuote(ctx, owner, usecase.CreateQuoteInput{Title: "Newsletter", Quantity: 100, UnitPrice: decimal.RequireFromString("0.75")})
	if err != nil {
		t.Fatalf("create quote returned error: %v", err)
	}
	if got, err := facade.Quote(ctx, owner, quote.ID); err != nil || got.ID != quote.ID {
		t.Fatalf("unexpected quote %+v err=%v", got, err)
	}
	if quotes, err := facade.Quotes(ctx, owner); err != nil || len(quotes) != 1 {
		t.Fatalf("unexpected quotes %v err=%v", quotes, err)
	}
	order, err := facade.ConvertQuote(ctx, owner, quote.ID)
	if err != nil || order.Status != model.OrderStatusDraft {
		t.Fatalf("unexpected converted order %+v err=%v", order, err)
	}
}

func TestDeskFacadeNotifications(t *testing.T) {
	facade, deps := newFacade()
	ctx := context.Background()

	practice, _ := deps.repos.PracticesRepo.Create(ctx, "Smile Dental", "front@smile.example")
	deps.repos.OrdersRepo.Put(model.Order{ID: 5, PracticeID: practice.ID, Title: "Recall", Quantity: 1, Status: model.OrderStatusPending, Version: 1})
	if err := deps.repos.EventsRepo.Enqueue(ctx, &model.OrderEvent{OrderID: 5, PracticeID: practice.ID, EmailType: model.EmailOrderStatusChange, FromStatus: model.OrderStatusDraft, ToStatus: model.OrderStatusPending}); err != nil {
		t.Fatalf("enqueue returned error: %v", err)
	}

	events, err := facade.ClaimNotifications(ctx, 10)
	if err != nil || len(events) != 1 {
		t.Fatalf("unexpected claim result %v err=%v", events, err)
	}
	if err := facade.DeliverNotification(ctx, events[0]); err != nil {
		t.Fatalf("deliver returned error: %v", err)
	}
	if msgs := deps.sender.Messages(); len(msgs) != 1 || msgs[0].Recipient != "front@smile.example" {
		t.Fatalf("unexpected messages %v", msgs)
	}
}

package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/polkiloo/letterdesk/internal/domain/model"
	testhelpers "github.com/polkiloo/letterdesk/internal/test"
)

var discardLogger = slog.New(slog.DiscardHandler)

type fixture struct {
	repos    *testhelpers.RepositoryFactoryStub
	blobs    *testhelpers.BlobStoreStub
	renderer *testhelpers.RendererStub
	sender   *testhelpers.SenderStub
	metrics  *testhelpers.MetricsRecorder
	settings Settings

	orders        *OrderUseCase
	invoices      *InvoiceUseCase
	bulk          *BulkUseCase
	quotes        *QuoteUseCase
	notifications *NotificationUseCase
}

var fixedNow = time.Date(2026, time.March, 14, 9, 30, 0, 0, time.UTC)

func newFixture() *fixture {
	f := &fixture{
		repos:    testhelpers.NewRepositoryFactoryStub(),
		blobs:    testhelpers.NewBlobStoreStub(),
		renderer: &testhelpers.RendererStub{},
		sender:   &testhelpers.SenderStub{},
		metrics:  &testhelpers.MetricsRecorder{},
		settings: Settings{PublicBaseURL: "https://desk.example/", NotifyMaxAttempts: 3},
	}
	r := f.repos
	f.orders = NewOrderUseCase(r.Orders(), r.Events(), f.blobs, f.metrics, f.settings, discardLogger)
	f.invoices = NewInvoiceUseCase(r.Orders(), r.Invoices(), r.Events(), r.Practices(), f.blobs, f.renderer, f.metrics, discardLogger)
	f.invoices.now = func() time.Time { return fixedNow }
	f.bulk = NewBulkUseCase(f.orders, f.metrics, discardLogger)
	f.quotes = NewQuoteUseCase(r.Quotes())
	f.notifications = NewNotificationUseCase(r.Events(), r.Practices(), r.Orders(), f.sender, f.metrics, f.settings, discardLogger)
	return f
}

// seed stores a practice and an order in the given status.
func (f *fixture) seed(status model.OrderStatus, revisions int) model.Order {
	practice, _ := f.repos.PracticesRepo.Create(context.Background(), "Smile Dental", "front@smile.example")
	order := model.Order{
		ID:            int64(len(f.repos.PracticesRepo.Items)),
		PracticeID:    practice.ID,
		Title:         "Spring recall",
		Quantity:      500,
		Cost:          decimal.RequireFromString("412.50"),
		Status:        status,
		RevisionCount: revisions,
		Version:       1,
	}
	f.repos.OrdersRepo.Put(order)
	return order
}

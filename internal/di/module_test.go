package di

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"go.uber.org/fx"

	"github.com/polkiloo/letterdesk/internal/app"
	"github.com/polkiloo/letterdesk/internal/config"
	"github.com/polkiloo/letterdesk/internal/domain/repository"
	"github.com/polkiloo/letterdesk/internal/scheduler"
	"github.com/polkiloo/letterdesk/internal/server/http/router"
	"github.com/polkiloo/letterdesk/internal/storage/postgres"
	"github.com/polkiloo/letterdesk/internal/test"
	"github.com/polkiloo/letterdesk/internal/usecase"
	"github.com/polkiloo/letterdesk/internal/worker"
)

type healthStub struct{}

func (healthStub) HealthCheck(context.Context) error { return nil }

func TestModuleComposesGraphWithReplacements(t *testing.T) {
	cfg := &config.Config{
		RunAddress:           ":0",
		DatabaseURI:          "postgres://stub",
		JWTSecret:            "secret",
		AuthStrategy:         "jwt",
		TokenTTL:             time.Hour,
		NotifyPollInterval:   time.Millisecond,
		WorkerPoolSize:       1,
		NotifyBatchSize:      1,
		NotifyMaxAttempts:    3,
		ShutdownTimeout:      time.Millisecond,
		StorageDir:           t.TempDir(),
		PublicBaseURL:        "http://localhost",
		Mailer:               "log",
		InvoiceSweepSchedule: "0 6 * * *",
	}
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	repos := test.NewRepositoryFactoryStub()

	var (
		facade    *app.DeskFacade
		processor *worker.NotificationProcessor
		sweep     *scheduler.OverdueSweep
	)
	fxApp := fx.New(
		fx.NopLogger,
		fx.Supply(context.Background()),
		Module(
			fx.Replace(cfg),
			fx.Replace(logger),
			fx.Replace(&postgres.Storage{}),
			fx.Replace(fx.Annotate(healthStub{}, fx.As(new(router.HealthChecker)))),
			fx.Replace(fx.Annotate(repos, fx.As(new(repository.Factory)))),
			fx.Replace(fx.Annotate(repos.UsersRepo, fx.As(new(repository.UserRepository)))),
			fx.Replace(fx.Annotate(repos.PracticesRepo, fx.As(new(repository.PracticeRepository)))),
			fx.Replace(fx.Annotate(repos.OrdersRepo, fx.As(new(repository.OrderRepository)))),
			fx.Replace(fx.Annotate(repos.InvoicesRepo, fx.As(new(repository.InvoiceRepository)))),
			fx.Replace(fx.Annotate(repos.EventsRepo, fx.As(new(repository.EventRepository)))),
			fx.Replace(fx.Annotate(repos.QuotesRepo, fx.As(new(repository.QuoteRepository)))),
			fx.Replace(fx.Annotate(test.NewBlobStoreStub(), fx.As(new(usecase.BlobStore)))),
		),
		fx.Populate(&facade, &processor, &sweep),
	)

	if err := fxApp.Err(); err != nil {
		t.Fatalf("fx app returned error: %v", err)
	}
	if facade == nil || processor == nil || sweep == nil {
		t.Fatal("expected facade, notification processor and overdue sweep instances")
	}
	if next := sweep.NextRun(); next.Hour() != 6 || next.Minute() != 0 {
		t.Fatalf("expected sweep schedule from config, got %v", next)
	}
}

package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-chi/cors"
	"go.uber.org/fx"

	"github.com/polkiloo/letterdesk/internal/config"
	"github.com/polkiloo/letterdesk/internal/scheduler"
	"github.com/polkiloo/letterdesk/internal/server/http/handlers"
	"github.com/polkiloo/letterdesk/internal/worker"
)

// Module wires application services, runtime components, and lifecycle hooks.
var Module = fx.Options(
	fx.Provide(
		NewDeskFacade,
		func(f *DeskFacade) handlers.DeskFacade { return f },
		func(f *DeskFacade) worker.NotificationFacade { return f },
		func(f *DeskFacade) scheduler.InvoiceSweeper { return f },
		func(f *DeskFacade) AdminBootstrapper { return f },
		newHTTPServer,
		newNotificationProcessor,
	),
	fx.Invoke(registerLifecycle),
)

type serverParams struct {
	fx.In

	Config *config.Config
	Router *gin.Engine
}

func newHTTPServer(p serverParams) *http.Server {
	return &http.Server{
		Addr:    p.Config.RunAddress,
		Handler: withCORS(p.Router, p.Config.CORSOrigins),
	}
}

// withCORS lets the listed browser origins call the API. No origins means same-origin only.
func withCORS(h http.Handler, origins []string) http.Handler {
	if len(origins) == 0 {
		return h
	}
	return cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Content-Encoding", "X-Request-ID"},
		ExposedHeaders:   []string{"Authorization", "Content-Disposition", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}).Handler(h)
}

type workerParams struct {
	fx.In

	Facade worker.NotificationFacade
	Config *config.Config
	Logger *slog.Logger
}

func newNotificationProcessor(p workerParams) *worker.NotificationProcessor {
	return worker.NewNotificationProcessor(
		p.Facade,
		p.Config.NotifyPollInterval,
		p.Config.NotifyBatchSize,
		p.Config.WorkerPoolSize,
		p.Logger,
	)
}

// AdminBootstrapper creates the configured back-office account.
type AdminBootstrapper interface {
	EnsureAdmin(ctx context.Context, login, password string) error
}

type lifecycleParams struct {
	fx.In

	Lifecycle  fx.Lifecycle
	Shutdowner fx.Shutdowner
	Logger     *slog.Logger
	Server     *http.Server
	Worker     *worker.NotificationProcessor
	Sweep      *scheduler.OverdueSweep
	Admin      AdminBootstrapper
	Config     *config.Config
}

func registerLifecycle(p lifecycleParams) {
	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := p.Admin.EnsureAdmin(ctx, p.Config.AdminLogin, p.Config.AdminPassword); err != nil {
				return fmt.Errorf("bootstrap admin: %w", err)
			}

			p.Logger.Info("starting letterdesk", slog.String("addr", p.Server.Addr))
			p.Worker.Start(ctx)
			p.Sweep.Start(ctx)
			go func() {
				if err := p.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					p.Logger.Error("http server terminated", slog.String("error", err.Error()))
					_ = p.Shutdowner.Shutdown()
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			p.Worker.Stop()
			p.Sweep.Stop()

			shutdownCtx := ctx
			cancel := func() {}
			if _, ok := ctx.Deadline(); !ok {
				shutdownCtx, cancel = context.WithTimeout(ctx, p.Config.ShutdownTimeout)
			}
			defer cancel()

			if err := p.Server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			p.Logger.Info("letterdesk stopped")
			return nil
		},
	})
}

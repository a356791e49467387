package di

import (
	"go.uber.org/fx"

	"github.com/polkiloo/letterdesk/internal/adapter/filestore"
	"github.com/polkiloo/letterdesk/internal/adapter/invoicepdf"
	"github.com/polkiloo/letterdesk/internal/adapter/mailer"
	"github.com/polkiloo/letterdesk/internal/app"
	"github.com/polkiloo/letterdesk/internal/config"
	"github.com/polkiloo/letterdesk/internal/logger"
	"github.com/polkiloo/letterdesk/internal/metrics"
	"github.com/polkiloo/letterdesk/internal/pkg/auth"
	"github.com/polkiloo/letterdesk/internal/scheduler"
	"github.com/polkiloo/letterdesk/internal/server/http/router"
	"github.com/polkiloo/letterdesk/internal/storage/postgres"
	"github.com/polkiloo/letterdesk/internal/usecase"
)

// Module assembles the whole application graph. Extra options are appended last,
// which lets callers replace components.
func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		auth.Module,
		postgres.Module,
		fx.Provide(func(s *postgres.Storage) router.HealthChecker { return s }),
		mailer.Module,
		filestore.Module,
		invoicepdf.Module,
		metrics.Module,
		usecase.Module,
		scheduler.Module,
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}

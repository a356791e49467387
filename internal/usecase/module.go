package usecase

import (
	"go.uber.org/fx"

	"github.com/polkiloo/letterdesk/internal/config"
)

// Module provides core business use cases to the fx container.
var Module = fx.Provide(
	newSettings,
	NewAuthUseCase,
	NewOrderUseCase,
	NewInvoiceUseCase,
	NewBulkUseCase,
	NewQuoteUseCase,
	NewNotificationUseCase,
)

func newSettings(cfg *config.Config) Settings {
	return Settings{PublicBaseURL: cfg.PublicBaseURL, NotifyMaxAttempts: cfg.NotifyMaxAttempts}
}

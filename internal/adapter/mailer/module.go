package mailer

import (
	"log/slog"
	"strings"

	"go.uber.org/fx"

	"github.com/polkiloo/letterdesk/internal/config"
	"github.com/polkiloo/letterdesk/internal/usecase"
)

// Module exposes the notification sender to fx graph.
var Module = fx.Provide(newSender)

type senderParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newSender(p senderParams) (usecase.NotificationSender, error) {
	templates, err := DefaultTemplates()
	if err != nil {
		return nil, err
	}

	var transport Transport
	if strings.EqualFold(p.Config.Mailer, "smtp") {
		smtpCfg := p.Config.SMTP
		smtpTransport, err := NewSMTPTransport(smtpCfg)
		if err != nil {
			return nil, err
		}
		transport = smtpTransport
		p.Logger.Info("smtp mailer enabled", slog.String("host", smtpCfg.Host), slog.Int("port", smtpCfg.Port))
	} else {
		transport = NewLogTransport(p.Logger)
	}

	return New(templates, transport, p.Logger), nil
}

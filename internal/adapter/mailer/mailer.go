package mailer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/wneessen/go-mail"

	"github.com/polkiloo/letterdesk/internal/config"
	"github.com/polkiloo/letterdesk/internal/domain/model"
)

// Transport hands a rendered message to the outside world.
type Transport interface {
	Deliver(ctx context.Context, msg Message) error
}

// Mailer renders notifications and passes them to a transport.
type Mailer struct {
	templates *Templates
	transport Transport
	logger    *slog.Logger
}

// New creates a mailer.
func New(templates *Templates, transport Transport, logger *slog.Logger) *Mailer {
	return &Mailer{templates: templates, transport: transport, logger: logger}
}

// Send renders and delivers one notification.
func (m *Mailer) Send(ctx context.Context, n model.Notification) error {
	if n.Recipient == "" {
		return fmt.Errorf("event %d: recipient is empty", n.EventID)
	}
	msg, err := m.templates.Render(n)
	if err != nil {
		return err
	}
	if err := m.transport.Deliver(ctx, msg); err != nil {
		return fmt.Errorf("deliver %s to %s: %w", n.Type, n.Recipient, err)
	}
	m.logger.Debug("notification delivered",
		slog.Int64("event_id", n.EventID),
		slog.String("type", string(n.Type)),
		slog.Int64("order_id", n.OrderID),
	)
	return nil
}

// LogTransport writes messages to the log instead of sending them.
type LogTransport struct {
	logger *slog.Logger
}

// NewLogTransport creates a transport for development setups.
func NewLogTransport(logger *slog.Logger) *LogTransport {
	return &LogTransport{logger: logger}
}

func (t *LogTransport) Deliver(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	t.logger.Info("email",
		slog.String("to", msg.To),
		slog.String("subject", msg.Subject),
		slog.String("body", msg.Body),
	)
	return nil
}

type sendFunc func(ctx context.Context, msg *mail.Msg) error

// SMTPTransport relays messages through an SMTP server.
type SMTPTransport struct {
	from    string
	timeout time.Duration
	send    sendFunc
	now     func() time.Time
}

// NewSMTPTransport creates a relay transport. Auth is used only when a username is set.
func NewSMTPTransport(cfg config.SMTPConfig) (*SMTPTransport, error) {
	opts := []mail.Option{
		mail.WithPort(cfg.Port),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	}
	if cfg.Timeout > 0 {
		opts = append(opts, mail.WithTimeout(cfg.Timeout))
	}
	if cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
		)
	}
	client, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("smtp client: %w", err)
	}
	return &SMTPTransport{
		from:    cfg.From,
		timeout: cfg.Timeout,
		send: func(ctx context.Context, msg *mail.Msg) error {
			return client.DialAndSendWithContext(ctx, msg)
		},
		now: time.Now,
	}, nil
}

// Deliver returns once the relay accepted msg or ctx is done, whichever comes first.
func (t *SMTPTransport) Deliver(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m, err := t.compose(msg)
	if err != nil {
		return err
	}
	if t.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}

	done := make(chan error, 1)
	go func() { done <- t.send(ctx, m) }()
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (t *SMTPTransport) compose(msg Message) (*mail.Msg, error) {
	m := mail.NewMsg()
	if err := m.From(t.from); err != nil {
		return nil, fmt.Errorf("sender %q: %w", t.from, err)
	}
	if err := m.To(msg.To); err != nil {
		return nil, fmt.Errorf("recipient %q: %w", msg.To, err)
	}
	m.Subject(headerLine(msg.Subject))
	m.SetDateWithValue(t.now())
	m.SetBodyString(mail.TypeTextPlain, msg.Body)
	return m, nil
}

package mailer

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wneessen/go-mail"

	"github.com/polkiloo/letterdesk/internal/config"
	"github.com/polkiloo/letterdesk/internal/domain/model"
)

var discard = slog.New(slog.NewJSONHandler(io.Discard, nil))

func notification(typ model.EmailType) model.Notification {
	return model.Notification{
		EventID:       3,
		Type:          typ,
		Recipient:     "front@smile.example",
		PracticeName:  "Smile Dental",
		OrderID:       7,
		OrderTitle:    "Spring recall",
		FromStatus:    model.OrderStatusPending,
		ToStatus:      model.WaitingApproval(2),
		Revision:      2,
		InvoiceNumber: "INV-2026-0003",
		Subject:       "Artwork question",
		Message:       "Could you send a higher resolution logo?",
		ProofURL:      "https://desk.example/api/orders/7/files/11",
	}
}

func loadTemplates(t *testing.T) *Templates {
	t.Helper()
	templates, err := DefaultTemplates()
	require.NoError(t, err)
	return templates
}

func TestDefaultTemplatesRenderEveryType(t *testing.T) {
	templates := loadTemplates(t)

	cases := []struct {
		typ     model.EmailType
		subject string
		body    []string
	}{
		{model.EmailOrderStatusChange, "Order #7 Spring recall: awaiting your approval (revision 2)", []string{"moved from pending review to awaiting your approval (revision 2)"}},
		{model.EmailProofReady, "Proof revision 2 ready for order #7", []string{"Proof revision 2 of \"Spring recall\"", "https://desk.example/api/orders/7/files/11"}},
		{model.EmailInvoiceGenerated, "Invoice INV-2026-0003 for order #7", []string{"has been issued"}},
		{model.EmailInvoiceOverdue, "Invoice INV-2026-0003 is overdue", []string{"past its due date"}},
		{model.EmailCustom, "Artwork question", []string{"higher resolution logo"}},
	}

	for _, tc := range cases {
		t.Run(string(tc.typ), func(t *testing.T) {
			msg, err := templates.Render(notification(tc.typ))
			require.NoError(t, err)
			assert.Equal(t, "front@smile.example", msg.To)
			assert.Equal(t, tc.subject, msg.Subject)
			for _, fragment := range tc.body {
				assert.Contains(t, msg.Body, fragment)
			}
			assert.Contains(t, msg.Body, "Hello Smile Dental")
		})
	}
}

func TestStatusChangeMentionsRevisionForChangesRequested(t *testing.T) {
	templates := loadTemplates(t)
	n := notification(model.EmailOrderStatusChange)
	n.FromStatus = model.WaitingApproval(1)
	n.ToStatus = model.OrderStatusChangesRequested

	msg, err := templates.Render(n)
	require.NoError(t, err)
	assert.Contains(t, msg.Body, "revised proof")

	n.ToStatus = model.OrderStatusInProgress
	msg, err = templates.Render(n)
	require.NoError(t, err)
	assert.NotContains(t, msg.Body, "revised proof")
}

func TestProofReadyWithoutLink(t *testing.T) {
	n := notification(model.EmailProofReady)
	n.ProofURL = ""
	msg, err := loadTemplates(t).Render(n)
	require.NoError(t, err)
	assert.NotContains(t, msg.Body, "Download it here")
}

func TestRenderFlattensSubject(t *testing.T) {
	n := notification(model.EmailOrderStatusChange)
	n.OrderTitle = "Zahnärzte\rBcc: spy@evil.test\n  recall"
	msg, err := loadTemplates(t).Render(n)
	require.NoError(t, err)
	assert.NotContains(t, msg.Subject, "\r")
	assert.NotContains(t, msg.Subject, "\n")
	assert.Equal(t, "Order #7 Zahnärzte Bcc: spy@evil.test recall: awaiting your approval (revision 2)", msg.Subject)
}

func TestParseTemplates(t *testing.T) {
	_, err := ParseTemplates([]byte("::: not yaml"))
	assert.Error(t, err, "decode error")
	_, err = ParseTemplates([]byte("custom:\n  subject: \"{{.Subject\"\n  body: x\n"))
	assert.Error(t, err, "parse error")
	_, err = ParseTemplates([]byte("custom:\n  subject: s\n  body: b\n"))
	assert.ErrorContains(t, err, "missing")

	_, err = loadTemplates(t).Render(model.Notification{Type: "postcard"})
	assert.Error(t, err, "unknown type")
}

func TestStatusLabel(t *testing.T) {
	cases := map[model.OrderStatus]string{
		model.OrderStatusInProgress: "in production",
		model.WaitingApproval(3):    "awaiting your approval (revision 3)",
		model.OrderStatus("odd"):    "odd",
	}
	for status, want := range cases {
		assert.Equal(t, want, StatusLabel(status), "StatusLabel(%s)", status)
	}
}

type recordingTransport struct {
	messages []Message
	err      error
}

func (r *recordingTransport) Deliver(_ context.Context, msg Message) error {
	if r.err != nil {
		return r.err
	}
	r.messages = append(r.messages, msg)
	return nil
}

func TestMailerSend(t *testing.T) {
	transport := &recordingTransport{}
	m := New(loadTemplates(t), transport, discard)

	require.NoError(t, m.Send(context.Background(), notification(model.EmailInvoiceGenerated)))
	assert.Len(t, transport.messages, 1)

	n := notification(model.EmailCustom)
	n.Recipient = ""
	assert.Error(t, m.Send(context.Background(), n), "empty recipient")

	transport.err = errors.New("relay refused")
	assert.ErrorContains(t, m.Send(context.Background(), notification(model.EmailCustom)), "relay refused")
}

func TestLogTransport(t *testing.T) {
	tr := NewLogTransport(discard)
	require.NoError(t, tr.Deliver(context.Background(), Message{To: "a@b.c"}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, tr.Deliver(ctx, Message{To: "a@b.c"}), context.Canceled)
}

func smtpConfig() config.SMTPConfig {
	return config.SMTPConfig{Host: "smtp.example", Port: 587, Username: "mailer", Password: "secret", From: "orders@letterdesk.local"}
}

// capture replaces the relay with one that renders the message into *out.
func capture(t *testing.T, tr *SMTPTransport, out *string) {
	t.Helper()
	tr.send = func(_ context.Context, m *mail.Msg) error {
		var buf bytes.Buffer
		if _, err := m.WriteTo(&buf); err != nil {
			return err
		}
		*out = buf.String()
		return nil
	}
}

func TestSMTPTransport(t *testing.T) {
	tr, err := NewSMTPTransport(smtpConfig())
	require.NoError(t, err)
	tr.now = func() time.Time { return time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC) }

	var got string
	capture(t, tr, &got)

	err = tr.Deliver(context.Background(), Message{To: "front@smile.example", Subject: "Hi", Body: "line one\nline two"})
	require.NoError(t, err)
	for _, fragment := range []string{
		"orders@letterdesk.local",
		"front@smile.example",
		"Subject: Hi\r\n",
		"Date: Sat, 14 Mar 2026 09:30:00 +0000\r\n",
		"line one",
		"line two",
	} {
		assert.Contains(t, got, fragment)
	}

	assert.Error(t, tr.Deliver(context.Background(), Message{To: "not an address"}), "recipient must be an address")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, tr.Deliver(ctx, Message{To: "a@b.c"}), context.Canceled)

	_, err = NewSMTPTransport(config.SMTPConfig{Port: 25})
	assert.Error(t, err, "host is required")
}

func TestSMTPTransportEncodesSubject(t *testing.T) {
	tr, err := NewSMTPTransport(smtpConfig())
	require.NoError(t, err)
	var got string
	capture(t, tr, &got)

	msg := Message{To: "front@smile.example", Subject: "Order #7 Zahnärzte\rBcc: spy@evil.test: pending review", Body: "x"}
	require.NoError(t, tr.Deliver(context.Background(), msg))

	assert.NotContains(t, got, "\rBcc:")
	assert.NotContains(t, got, "\nBcc:")
	assert.Contains(t, got, "=?UTF-8?q?")
	assert.Contains(t, got, "Zahn=C3=A4rzte")
}

func TestSMTPTransportHonoursDeadline(t *testing.T) {
	cases := []struct {
		name    string
		timeout time.Duration
		ctx     func() (context.Context, context.CancelFunc)
	}{
		{
			name: "caller deadline",
			ctx: func() (context.Context, context.CancelFunc) {
				return context.WithTimeout(context.Background(), 10*time.Millisecond)
			},
		},
		{
			name:    "configured timeout",
			timeout: 10 * time.Millisecond,
			ctx: func() (context.Context, context.CancelFunc) {
				return context.WithCancel(context.Background())
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := smtpConfig()
			cfg.Timeout = tc.timeout
			tr, err := NewSMTPTransport(cfg)
			require.NoError(t, err)

			stalled := make(chan struct{})
			defer close(stalled)
			tr.send = func(context.Context, *mail.Msg) error {
				<-stalled
				return nil
			}

			ctx, cancel := tc.ctx()
			defer cancel()
			started := time.Now()
			err = tr.Deliver(ctx, Message{To: "front@smile.example", Subject: "Hi", Body: "x"})
			assert.ErrorIs(t, err, context.DeadlineExceeded)
			assert.Less(t, time.Since(started), time.Second)
		})
	}
}

func TestNewSenderSelectsTransport(t *testing.T) {
	sender, err := newSender(senderParams{Config: &config.Config{Mailer: "log"}, Logger: discard})
	require.NoError(t, err)
	assert.IsType(t, &LogTransport{}, sender.(*Mailer).transport)

	cfg := &config.Config{Mailer: "SMTP", SMTP: config.SMTPConfig{Host: "smtp.example", Port: 2525, From: "x@y.z"}}
	sender, err = newSender(senderParams{Config: cfg, Logger: discard})
	require.NoError(t, err)
	smtpTransport, ok := sender.(*Mailer).transport.(*SMTPTransport)
	require.True(t, ok, "expected smtp transport")
	assert.Equal(t, "x@y.z", smtpTransport.from)

	cfg.SMTP.Host = ""
	_, err = newSender(senderParams{Config: cfg, Logger: discard})
	assert.Error(t, err, "smtp mailer needs a host")
}

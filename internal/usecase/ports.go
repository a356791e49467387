package usecase

import (
	"context"
	"errors"
	"io"

	domainErrors "github.com/polkiloo/letterdesk/internal/domain/errors"
	"github.com/polkiloo/letterdesk/internal/domain/model"
)

// BlobStore keeps uploaded proofs, attachments and invoice documents.
type BlobStore interface {
	Save(ctx context.Context, dir, name string, r io.Reader) (key string, size int64, err error)
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}

// InvoiceRenderer produces the printable invoice document.
type InvoiceRenderer interface {
	Render(ctx context.Context, invoice model.Invoice, order model.Order, practice model.Practice) ([]byte, error)
}

// NotificationSender delivers one email.
type NotificationSender interface {
	Send(ctx context.Context, n model.Notification) error
}

// Metrics records workflow outcomes.
type Metrics interface {
	ObserveTransition(from, to model.OrderStatus, outcome string)
	ObserveProofUpload(outcome string)
	ObserveInvoice(outcome string)
	ObserveBulk(category string, succeeded, failed int)
	ObserveNotification(emailType model.EmailType, outcome string)
}

// Settings carries deployment values the use cases depend on.
type Settings struct {
	PublicBaseURL     string
	NotifyMaxAttempts int
}

const (
	OutcomeOK       = "ok"
	OutcomeRejected = "rejected"
	OutcomeConflict = "conflict"
	OutcomeError    = "error"
)

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, domainErrors.ErrConflict):
		return OutcomeConflict
	case errors.Is(err, domainErrors.ErrInvalidTransition),
		errors.Is(err, domainErrors.ErrInvalidState),
		errors.Is(err, domainErrors.ErrForbidden),
		errors.Is(err, domainErrors.ErrNotFound),
		errors.Is(err, domainErrors.ErrInvalidInput),
		errors.Is(err, domainErrors.ErrAlreadyExists):
		return OutcomeRejected
	default:
		return OutcomeError
	}
}

// Upload is a file received from a client.
type Upload struct {
	Name        string
	ContentType string
	Content     io.Reader
}

func (u Upload) validate() error {
	if u.Name == "" || u.Content == nil {
		return invalidInput("file is required")
	}
	return nil
}

func invalidInput(reason string) error {
	return &inputError{reason: reason}
}

type inputError struct {
	reason string
}

func (e *inputError) Error() string { return e.reason }

func (e *inputError) Unwrap() error { return domainErrors.ErrInvalidInput }

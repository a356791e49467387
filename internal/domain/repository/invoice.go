package repository

import (
	"context"
	"time"

	"github.com/polkiloo/letterdesk/internal/domain/model"
)

// InvoiceRepository stores invoices and their yearly numbering.
type InvoiceRepository interface {
	NextSequence(ctx context.Context, year int) (int, error)
	// Create returns ErrAlreadyExists when the order already has an invoice.
	Create(ctx context.Context, invoice *model.Invoice) error
	GetByOrder(ctx context.Context, orderID int64) (*model.Invoice, error)
	// MarkOverdue flags issued invoices due before now and returns them.
	MarkOverdue(ctx context.Context, now time.Time) ([]model.Invoice, error)
}

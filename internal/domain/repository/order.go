package repository

import (
	"context"

	"github.com/polkiloo/letterdesk/internal/domain/model"
)

// OrderRepository describes persistence operations with orders.
type OrderRepository interface {
	Create(ctx context.Context, order *model.Order) error
	GetByID(ctx context.Context, id int64) (*model.Order, error)
	List(ctx context.Context, filter model.OrderFilter) ([]model.Order, error)
	// ApplyChange writes status, revision count, optional file and optional event atomically.
	// It returns ErrConflict when the stored version differs from change.ExpectedVersion.
	ApplyChange(ctx context.Context, change model.StatusChange) (*model.Order, error)
	AppendFile(ctx context.Context, file *model.OrderFile) error
	GetFile(ctx context.Context, orderID, fileID int64) (*model.OrderFile, error)
}

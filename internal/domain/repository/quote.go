package repository

import (
	"context"

	"github.com/polkiloo/letterdesk/internal/domain/model"
)

// QuoteRepository manages quotes and their conversion into orders.
type QuoteRepository interface {
	Create(ctx context.Context, quote *model.Quote) error
	GetByID(ctx context.Context, id int64) (*model.Quote, error)
	List(ctx context.Context, practiceID *int64) ([]model.Quote, error)
	// Convert creates a draft order from an open quote and marks the quote converted in one transaction.
	Convert(ctx context.Context, quoteID int64) (*model.Order, error)
}

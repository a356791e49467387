package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateQuoteRequest prices a prospective order.
type CreateQuoteRequest struct {
	PracticeID int64           `json:"practice_id"`
	Title      string          `json:"title"`
	Quantity   int             `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
}

// QuoteResponse is the quote representation returned by the API.
type QuoteResponse struct {
	ID         int64     `json:"id"`
	PracticeID int64     `json:"practice_id"`
	Title      string    `json:"title"`
	Quantity   int       `json:"quantity"`
	UnitPrice  string    `json:"unit_price"`
	Total      string    `json:"total"`
	Status     string    `json:"status"`
	OrderID    *int64    `json:"order_id,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

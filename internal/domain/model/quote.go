package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// QuoteStatus tracks whether a quote was turned into an order.
type QuoteStatus string

const (
	QuoteStatusOpen      QuoteStatus = "open"
	QuoteStatusConverted QuoteStatus = "converted"
)

// Quote is a pre-order cost estimate.
type Quote struct {
	ID         int64
	PracticeID int64
	Title      string
	Quantity   int
	UnitPrice  decimal.Decimal
	Total      decimal.Decimal
	Status     QuoteStatus
	OrderID    *int64
	CreatedAt  time.Time
}

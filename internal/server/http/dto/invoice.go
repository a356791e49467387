package dto

import "time"

// InvoiceResponse is the invoice representation returned by the API.
type InvoiceResponse struct {
	ID         int64     `json:"id"`
	OrderID    int64     `json:"order_id"`
	PracticeID int64     `json:"practice_id"`
	Number     string    `json:"number"`
	Amount     string    `json:"amount"`
	Status     string    `json:"status"`
	IssuedAt   time.Time `json:"issued_at"`
	DueAt      time.Time `json:"due_at"`
}

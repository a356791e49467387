package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceStatus describes payment state of an invoice.
type InvoiceStatus string

const (
	InvoiceStatusIssued  InvoiceStatus = "issued"
	InvoiceStatusOverdue InvoiceStatus = "overdue"
)

// InvoicePaymentTerm is the period between issue and due date.
const InvoicePaymentTerm = 30 * 24 * time.Hour

// Invoice bills a practice for a completed order.
type Invoice struct {
	ID          int64
	OrderID     int64
	PracticeID  int64
	Number      string
	Amount      decimal.Decimal
	Status      InvoiceStatus
	IssuedAt    time.Time
	DueAt       time.Time
	DocumentKey string
}

// InvoiceNumber formats the yearly sequential invoice number.
func InvoiceNumber(year, seq int) string {
	return fmt.Sprintf("INV-%d-%04d", year, seq)
}

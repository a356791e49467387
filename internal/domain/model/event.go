package model

import "time"

// EmailType selects the notification template.
type EmailType string

const (
	EmailOrderStatusChange EmailType = "order_status_change"
	EmailProofReady        EmailType = "proof_ready"
	EmailInvoiceGenerated  EmailType = "invoice_generated"
	EmailInvoiceOverdue    EmailType = "invoice_overdue"
	EmailCustom            EmailType = "custom"
)

// OrderEvent is an outbox record consumed by the notification worker.
type OrderEvent struct {
	ID            int64
	OrderID       int64
	PracticeID    int64
	EmailType     EmailType
	FromStatus    OrderStatus
	ToStatus      OrderStatus
	Revision      int
	InvoiceNumber string
	Subject       string
	Message       string
	Attempts      int
	LastError     string
	CreatedAt     time.Time
	SentAt        *time.Time
}

// Notification is the rendered-template input for one outgoing email.
type Notification struct {
	EventID       int64
	Type          EmailType
	Recipient     string
	PracticeName  string
	OrderID       int64
	OrderTitle    string
	FromStatus    OrderStatus
	ToStatus      OrderStatus
	Revision      int
	InvoiceNumber string
	Subject       string
	Message       string
	ProofURL      string
}

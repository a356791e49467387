package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// FileType tags artifacts attached to an order.
type FileType string

const (
	FileTypeAdminProof     FileType = "admin-proof"
	FileTypeCustomerUpload FileType = "customer-upload"
	FileTypeInvoice        FileType = "invoice"
)

// Order describes a letter mailing ordered by a practice.
type Order struct {
	ID            int64
	PracticeID    int64
	Title         string
	Quantity      int
	Cost          decimal.Decimal
	Status        OrderStatus
	RevisionCount int
	Version       int64
	CreatedAt     time.Time
	UpdatedAt     time.Time
	Files         []OrderFile
}

// OrderFile is an uploaded artifact. Revision is set for proofs only.
type OrderFile struct {
	ID          int64
	OrderID     int64
	Type        FileType
	Revision    int
	Name        string
	ContentType string
	Size        int64
	StorageKey  string
	Notes       string
	UploadedAt  time.Time
}

// LatestProof returns the proof with the highest revision.
func (o *Order) LatestProof() (OrderFile, bool) {
	var (
		latest OrderFile
		found  bool
	)
	for _, f := range o.Files {
		if f.Type != FileTypeAdminProof {
			continue
		}
		if !found || f.Revision > latest.Revision {
			latest = f
			found = true
		}
	}
	return latest, found
}

// OrderFilter narrows order listings.
type OrderFilter struct {
	PracticeID *int64
	Status     *OrderStatus
	Limit      int
}

// StatusChange is a validated mutation applied atomically by the order repository.
// The write only succeeds while the stored version equals ExpectedVersion.
type StatusChange struct {
	OrderID         int64
	ExpectedVersion int64
	From            OrderStatus
	To              OrderStatus
	RevisionCount   int
	File            *OrderFile
	Event           *OrderEvent
}

package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateOrderRequest describes a new order. PracticeID is honoured for admins only.
type CreateOrderRequest struct {
	PracticeID int64           `json:"practice_id"`
	Title      string          `json:"title"`
	Quantity   int             `json:"quantity"`
	Cost       decimal.Decimal `json:"cost"`
	Submit     bool            `json:"submit"`
}

// OrderResponse is the order representation returned by the API.
type OrderResponse struct {
	ID            int64            `json:"id"`
	PracticeID    int64            `json:"practice_id"`
	Title         string           `json:"title"`
	Quantity      int              `json:"quantity"`
	Cost          string           `json:"cost"`
	Status        string           `json:"status"`
	RevisionCount int              `json:"revision_count"`
	Version       int64            `json:"version"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
	Files         []FileResponse   `json:"files"`
	Actions       []ActionResponse `json:"actions,omitempty"`
}

// ActionResponse is one entry of the order action menu.
type ActionResponse struct {
	Name           string `json:"name"`
	Enabled        bool   `json:"enabled"`
	DisabledReason string `json:"disabled_reason,omitempty"`
}

// TransitionRequest asks for a manual status change.
type TransitionRequest struct {
	Status string `json:"status"`
}

// TransitionsResponse lists the statuses reachable from the current one.
type TransitionsResponse struct {
	Current string   `json:"current"`
	Allowed []string `json:"allowed"`
}

// ProofLinkResponse points at the proof awaiting approval.
type ProofLinkResponse struct {
	OrderID  int64  `json:"order_id"`
	Revision int    `json:"revision"`
	FileID   int64  `json:"file_id"`
	URL      string `json:"url"`
}

// EmailRequest is a custom message to the practice owning an order.
type EmailRequest struct {
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// BulkRequest applies a quick action to several orders.
type BulkRequest struct {
	Category string  `json:"category"`
	OrderIDs []int64 `json:"order_ids"`
}

// BulkItemResponse is the outcome for a single order.
type BulkItemResponse struct {
	OrderID int64  `json:"order_id"`
	Status  string `json:"status,omitempty"`
	Error   string `json:"error,omitempty"`
}

// BulkResponse summarises a bulk request.
type BulkResponse struct {
	Category     string             `json:"category"`
	Target       string             `json:"target,omitempty"`
	Acknowledged bool               `json:"acknowledged"`
	Succeeded    int                `json:"succeeded"`
	Failed       int                `json:"failed"`
	Items        []BulkItemResponse `json:"items"`
}

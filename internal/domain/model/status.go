package model

import (
	"strconv"
	"strings"
)

// OrderStatus describes an order's position in the production lifecycle.
type OrderStatus string

const (
	OrderStatusDraft            OrderStatus = "draft"
	OrderStatusPending          OrderStatus = "pending"
	OrderStatusApproved         OrderStatus = "approved"
	OrderStatusChangesRequested OrderStatus = "changes-requested"
	OrderStatusInProgress       OrderStatus = "in-progress"
	OrderStatusCompleted        OrderStatus = "completed"
	OrderStatusDelivered        OrderStatus = "delivered"
	OrderStatusCancelled        OrderStatus = "cancelled"
)

const waitingApprovalPrefix = "waiting-approval-rev"

// WaitingApproval returns the status of an order whose proof revision n awaits customer approval.
func WaitingApproval(revision int) OrderStatus {
	return OrderStatus(waitingApprovalPrefix + strconv.Itoa(revision))
}

// Revision extracts N from waiting-approval-revN.
func (s OrderStatus) Revision() (int, bool) {
	raw, ok := strings.CutPrefix(string(s), waitingApprovalPrefix)
	if !ok || raw == "" || raw[0] == '0' {
		return 0, false
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

// IsAwaitingApproval reports whether a proof is out for customer review.
func (s OrderStatus) IsAwaitingApproval() bool {
	_, ok := s.Revision()
	return ok
}

// IsRevisionRequested reports whether the customer asked for a new proof revision.
func (s OrderStatus) IsRevisionRequested() bool {
	return s == OrderStatusChangesRequested
}

// IsTerminal reports whether no further transitions can leave the status.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

// IsValid reports whether s belongs to the closed status enumeration.
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusDraft, OrderStatusPending, OrderStatusApproved, OrderStatusChangesRequested,
		OrderStatusInProgress, OrderStatusCompleted, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return s.IsAwaitingApproval()
}

func (s OrderStatus) String() string {
	return string(s)
}

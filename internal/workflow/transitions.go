package workflow

import (
	domainErrors "github.com/polkiloo/letterdesk/internal/domain/errors"
	"github.com/polkiloo/letterdesk/internal/domain/model"
)

var table = map[model.OrderStatus][]model.OrderStatus{
	model.OrderStatusPending:          {model.OrderStatusDraft, model.OrderStatusCancelled},
	model.OrderStatusDraft:            {model.OrderStatusPending, model.WaitingApproval(1), model.OrderStatusCancelled},
	model.OrderStatusChangesRequested: {model.OrderStatusDraft, model.OrderStatusCancelled},
	model.OrderStatusApproved:         {model.OrderStatusInProgress, model.OrderStatusCancelled},
	model.OrderStatusInProgress:       {model.OrderStatusCompleted, model.OrderStatusCancelled},
	model.OrderStatusCompleted:        {model.OrderStatusDelivered},
	model.OrderStatusDelivered:        {},
	model.OrderStatusCancelled:        {},
}

// awaitingApproval applies to every waiting-approval-revN status.
var awaitingApproval = []model.OrderStatus{
	model.OrderStatusApproved,
	model.OrderStatusChangesRequested,
	model.OrderStatusCancelled,
}

// ValidTransitions returns the statuses reachable from current.
// Unknown statuses have no legal moves.
func ValidTransitions(current model.OrderStatus) []model.OrderStatus {
	next, ok := table[current]
	if !ok && current.IsAwaitingApproval() {
		next = awaitingApproval
	}
	out := make([]model.OrderStatus, len(next))
	copy(out, next)
	return out
}

// CanTransition reports whether from -> to is in the table.
func CanTransition(from, to model.OrderStatus) bool {
	for _, s := range ValidTransitions(from) {
		if s == to {
			return true
		}
	}
	return false
}

// ValidateTransition returns a TransitionError naming the legal alternatives when from -> to is not allowed.
func ValidateTransition(from, to model.OrderStatus) error {
	if CanTransition(from, to) {
		return nil
	}
	allowed := ValidTransitions(from)
	names := make([]string, 0, len(allowed))
	for _, s := range allowed {
		names = append(names, string(s))
	}
	return &domainErrors.TransitionError{From: string(from), To: string(to), Allowed: names}
}

// CanUploadProof reports whether a new proof may be attached in status s.
func CanUploadProof(s model.OrderStatus) bool {
	return s == model.OrderStatusDraft || s == model.OrderStatusInProgress || s.IsRevisionRequested()
}

// ProofTransition computes the status an order moves to when proof revision revisionCount+1 is uploaded.
func ProofTransition(current model.OrderStatus, revisionCount int) (model.OrderStatus, int, error) {
	if !CanUploadProof(current) {
		return "", 0, domainErrors.NewStateError("%s: order is %q", reasonUploadProof, current)
	}
	next := revisionCount + 1
	return model.WaitingApproval(next), next, nil
}

package workflow

import "github.com/polkiloo/letterdesk/internal/domain/model"

// AlertCategory groups orders on the admin dashboard.
type AlertCategory string

const (
	AlertApprovalPending      AlertCategory = "approval_pending"
	AlertFeedbackAvailable    AlertCategory = "feedback_available"
	AlertReadyForProof        AlertCategory = "ready_for_proof"
	AlertProductionInProgress AlertCategory = "production_in_progress"
	AlertReadyForDelivery     AlertCategory = "ready_for_delivery"
	AlertHighPriority         AlertCategory = "high_priority"
)

var quickTargets = map[AlertCategory]model.OrderStatus{
	AlertReadyForDelivery: model.OrderStatusDelivered,
	AlertHighPriority:     model.OrderStatusInProgress,
}

var acknowledgements = map[AlertCategory]struct{}{
	AlertApprovalPending:      {},
	AlertFeedbackAvailable:    {},
	AlertReadyForProof:        {},
	AlertProductionInProgress: {},
}

// QuickAction maps a category to the status it moves orders to.
// Acknowledgement categories return ok with an empty target; unknown categories return !ok.
func QuickAction(category AlertCategory) (target model.OrderStatus, ok bool) {
	if s, found := quickTargets[category]; found {
		return s, true
	}
	if _, found := acknowledgements[category]; found {
		return "", true
	}
	return "", false
}

package workflow

import "github.com/polkiloo/letterdesk/internal/domain/model"

// ActionName identifies a user-facing order action.
type ActionName string

const (
	ActionViewDetails     ActionName = "View Details"
	ActionManageStatus    ActionName = "Manage Status"
	ActionViewFiles       ActionName = "View Files"
	ActionUploadProof     ActionName = "Upload Proof"
	ActionCopyProofLink   ActionName = "Copy Proof Link"
	ActionSendEmail       ActionName = "Send Email"
	ActionGenerateInvoice ActionName = "Generate Invoice"
)

const (
	reasonUploadProof     = "proofs can only be uploaded while the order is draft, in progress or has changes requested"
	reasonCopyProofLink   = "no proof is waiting for approval"
	reasonGenerateInvoice = "invoices can only be generated for completed orders"
)

// Action is one entry of the action menu for an order.
type Action struct {
	Name           ActionName
	Enabled        bool
	DisabledReason string
}

// AvailableActions derives the action menu from the order status.
func AvailableActions(order model.Order) []Action {
	s := order.Status
	return []Action{
		enabled(ActionViewDetails),
		enabled(ActionManageStatus),
		enabled(ActionViewFiles),
		gated(ActionUploadProof, CanUploadProof(s), reasonUploadProof),
		gated(ActionCopyProofLink, s.IsAwaitingApproval(), reasonCopyProofLink),
		enabled(ActionSendEmail),
		gated(ActionGenerateInvoice, s == model.OrderStatusCompleted, reasonGenerateInvoice),
	}
}

// Lookup returns the named action from a menu.
func Lookup(actions []Action, name ActionName) (Action, bool) {
	for _, a := range actions {
		if a.Name == name {
			return a, true
		}
	}
	return Action{}, false
}

func enabled(name ActionName) Action {
	return Action{Name: name, Enabled: true}
}

func gated(name ActionName, ok bool, reason string) Action {
	if ok {
		return enabled(name)
	}
	return Action{Name: name, DisabledReason: reason}
}

// ProofLinkReason explains why a proof link is unavailable, or returns "" when it is.
func ProofLinkReason(s model.OrderStatus) string {
	if s.IsAwaitingApproval() {
		return ""
	}
	return reasonCopyProofLink
}

// InvoiceReason explains why an invoice cannot be generated, or returns "" when it can.
func InvoiceReason(s model.OrderStatus) string {
	if s == model.OrderStatusCompleted {
		return ""
	}
	return reasonGenerateInvoice
}

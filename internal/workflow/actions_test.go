package workflow

import (
	"slices"
	"testing"

	"github.com/polkiloo/letterdesk/internal/domain/model"
)

func actionState(t *testing.T, status model.OrderStatus, name ActionName) Action {
	t.Helper()
	action, ok := Lookup(AvailableActions(model.Order{Status: status}), name)
	if !ok {
		t.Fatalf("action %s missing for %s", name, status)
	}
	return action
}

func TestAvailableActionsFixedOrder(t *testing.T) {
	actions := AvailableActions(model.Order{Status: model.OrderStatusDraft})
	names := make([]ActionName, 0, len(actions))
	for _, a := range actions {
		names = append(names, a.Name)
	}
	want := []ActionName{
		ActionViewDetails, ActionManageStatus, ActionViewFiles, ActionUploadProof,
		ActionCopyProofLink, ActionSendEmail, ActionGenerateInvoice,
	}
	if !slices.Equal(names, want) {
		t.Fatalf("unexpected action order %v", names)
	}
}

func TestAlwaysEnabledActions(t *testing.T) {
	for _, status := range allStatuses {
		for _, name := range []ActionName{ActionViewDetails, ActionManageStatus, ActionViewFiles, ActionSendEmail} {
			if !actionState(t, status, name).Enabled {
				t.Fatalf("%s must be enabled on %s", name, status)
			}
		}
	}
}

func TestUploadProofAvailability(t *testing.T) {
	enabledFor := map[model.OrderStatus]bool{
		model.OrderStatusDraft:            true,
		model.OrderStatusInProgress:       true,
		model.OrderStatusChangesRequested: true,
	}
	for _, status := range allStatuses {
		action := actionState(t, status, ActionUploadProof)
		if action.Enabled != enabledFor[status] {
			t.Fatalf("upload proof on %s: enabled = %t", status, action.Enabled)
		}
		if !action.Enabled && action.DisabledReason == "" {
			t.Fatalf("upload proof on %s lacks a reason", status)
		}
	}
}

func TestWaitingApprovalRevisionTwoActions(t *testing.T) {
	status := model.WaitingApproval(2)
	if !actionState(t, status, ActionCopyProofLink).Enabled {
		t.Fatal("copy proof link must be enabled")
	}

	upload := actionState(t, status, ActionUploadProof)
	if upload.Enabled || upload.DisabledReason != reasonUploadProof {
		t.Fatalf("unexpected upload proof state %+v", upload)
	}
}

func TestCopyProofLinkAvailability(t *testing.T) {
	for _, status := range allStatuses {
		action := actionState(t, status, ActionCopyProofLink)
		if action.Enabled != status.IsAwaitingApproval() {
			t.Fatalf("copy link on %s: enabled = %t", status, action.Enabled)
		}
	}
	if reason := ProofLinkReason(model.WaitingApproval(1)); reason != "" {
		t.Fatalf("unexpected reason %q", reason)
	}
	if ProofLinkReason(model.OrderStatusApproved) == "" {
		t.Fatal("expected a reason for approved orders")
	}
}

func TestGenerateInvoiceAvailability(t *testing.T) {
	for _, status := range allStatuses {
		action := actionState(t, status, ActionGenerateInvoice)
		if action.Enabled != (status == model.OrderStatusCompleted) {
			t.Fatalf("invoice on %s: enabled = %t", status, action.Enabled)
		}
	}
	if reason := InvoiceReason(model.OrderStatusCompleted); reason != "" {
		t.Fatalf("unexpected reason %q", reason)
	}
	if reason := InvoiceReason(model.OrderStatusDelivered); reason != reasonGenerateInvoice {
		t.Fatalf("unexpected reason %q", reason)
	}
}

func TestQuickAction(t *testing.T) {
	cases := []struct {
		category AlertCategory
		target   model.OrderStatus
		ok       bool
	}{
		{AlertReadyForDelivery, model.OrderStatusDelivered, true},
		{AlertHighPriority, model.OrderStatusInProgress, true},
		{AlertApprovalPending, "", true},
		{AlertFeedbackAvailable, "", true},
		{AlertReadyForProof, "", true},
		{AlertProductionInProgress, "", true},
		{"archive_everything", "", false},
	}

	for _, tc := range cases {
		t.Run(string(tc.category), func(t *testing.T) {
			target, ok := QuickAction(tc.category)
			if ok != tc.ok || target != tc.target {
				t.Fatalf("QuickAction(%s) = (%q, %t), want (%q, %t)", tc.category, target, ok, tc.target, tc.ok)
			}
		})
	}
}

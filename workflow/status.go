// Package workflow holds the approval rules for change requests, purchase
// orders, asset disposals and labour requisitions. It does no I/O; callers
// load records, apply a transition and persist the result.
package workflow

import (
	"errors"
	"fmt"
)

type Kind string

const (
	KindChangeRequest Kind = "change_request"
	KindPurchaseOrder Kind = "purchase_order"
	KindAssetDisposal Kind = "asset_disposal"
)

// Kinds lists every approvable kind.
var Kinds = []Kind{KindChangeRequest, KindPurchaseOrder, KindAssetDisposal}

type Status string

const (
	StatusDraft           Status = "draft"
	StatusPendingReview   Status = "pending_review"
	StatusPendingApproval Status = "pending_approval"
	StatusApproved        Status = "approved"
	StatusRejected        Status = "rejected"
	StatusAssignedToBuyer Status = "assigned_to_buyer"
	StatusVendorApproved  Status = "vendor_approved"
)

// Statuses is every value a status field may hold.
var Statuses = []string{
	string(StatusDraft),
	string(StatusPendingReview),
	string(StatusPendingApproval),
	string(StatusApproved),
	string(StatusRejected),
	string(StatusAssignedToBuyer),
	string(StatusVendorApproved),
}

// VendorSelection tracks the buyer's vendor choice on a change request,
// separately from the request's own status. The buyer's quotation flow sets
// VendorPendingApproval on the record; approval actions only settle it.
type VendorSelection string

const (
	VendorNotSelected     VendorSelection = ""
	VendorPendingApproval VendorSelection = "pending_approval"
	VendorApproved        VendorSelection = "approved"
	VendorRejected        VendorSelection = "rejected"
)

var VendorSelections = []string{
	string(VendorPendingApproval),
	string(VendorApproved),
	string(VendorRejected),
}

type Action string

const (
	ActionApprove       Action = "approve"
	ActionReject        Action = "reject"
	ActionSendForReview Action = "send_for_review"
	ActionAssignToBuyer Action = "assign_to_buyer"
)

var (
	ErrUnknownKind       = errors.New("unknown workflow kind")
	ErrUnsupportedAction = errors.New("action not supported for this kind")
	ErrInvalidTransition = errors.New("invalid status transition")
)

// TransitionError describes a rejected action.
type TransitionError struct {
	Kind   Kind
	From   State
	Action Action
	Err    error
}

func (e *TransitionError) Error() string {
	from := string(e.From.Status)
	if e.From.VendorSelection != VendorNotSelected {
		from += "/vendor:" + string(e.From.VendorSelection)
	}
	return fmt.Sprintf("%s: cannot %s from %q: %v", e.Kind, e.Action, from, e.Err)
}

func (e *TransitionError) Unwrap() error {
	return e.Err
}

// ParseKind accepts both the stored name and the URL slug form.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "change_request", "change-requests":
		return KindChangeRequest, nil
	case "purchase_order", "purchase-orders":
		return KindPurchaseOrder, nil
	case "asset_disposal", "asset-disposals":
		return KindAssetDisposal, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

func ParseAction(s string) (Action, error) {
	switch Action(s) {
	case ActionApprove, ActionReject, ActionSendForReview, ActionAssignToBuyer:
		return Action(s), nil
	}
	switch s {
	case "send-for-review":
		return ActionSendForReview, nil
	case "assign-buyer", "assign-to-buyer":
		return ActionAssignToBuyer, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedAction, s)
}

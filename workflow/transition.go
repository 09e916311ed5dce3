package workflow

// State is the part of a record the approval rules read and write.
type State struct {
	Status          Status
	VendorSelection VendorSelection
}

type rule struct {
	from   Status
	action Action
	when   func(State) bool
	apply  func(State) State
}

func moveTo(to Status) func(State) State {
	return func(s State) State {
		s.Status = to
		return s
	}
}

func vendorIs(v VendorSelection) func(State) bool {
	return func(s State) bool { return s.VendorSelection == v }
}

func setVendor(v VendorSelection, to Status) func(State) State {
	return func(s State) State {
		s.VendorSelection = v
		s.Status = to
		return s
	}
}

var rules = map[Kind][]rule{
	KindChangeRequest: {
		{from: StatusDraft, action: ActionSendForReview, apply: moveTo(StatusPendingReview)},
		{from: StatusRejected, action: ActionSendForReview, apply: moveTo(StatusPendingReview)},
		{from: StatusPendingReview, action: ActionApprove, apply: moveTo(StatusApproved)},
		{from: StatusPendingReview, action: ActionReject, apply: moveTo(StatusRejected)},
		{from: StatusApproved, action: ActionAssignToBuyer, apply: moveTo(StatusAssignedToBuyer)},
		{
			from:   StatusAssignedToBuyer,
			action: ActionApprove,
			when:   vendorIs(VendorPendingApproval),
			apply:  setVendor(VendorApproved, StatusVendorApproved),
		},
		{
			from:   StatusAssignedToBuyer,
			action: ActionReject,
			when:   vendorIs(VendorPendingApproval),
			apply:  setVendor(VendorRejected, StatusAssignedToBuyer),
		},
	},
	KindPurchaseOrder: {
		{from: StatusDraft, action: ActionSendForReview, apply: moveTo(StatusPendingApproval)},
		{from: StatusRejected, action: ActionSendForReview, apply: moveTo(StatusPendingApproval)},
		{from: StatusPendingApproval, action: ActionApprove, apply: moveTo(StatusApproved)},
		{from: StatusPendingApproval, action: ActionReject, apply: moveTo(StatusRejected)},
	},
	KindAssetDisposal: {
		{from: StatusDraft, action: ActionSendForReview, apply: moveTo(StatusPendingReview)},
		{from: StatusPendingReview, action: ActionApprove, apply: moveTo(StatusApproved)},
		{from: StatusPendingReview, action: ActionReject, apply: moveTo(StatusRejected)},
	},
}

// Supports reports whether kind accepts action from any state.
func Supports(kind Kind, action Action) bool {
	for _, r := range rules[kind] {
		if r.action == action {
			return true
		}
	}
	return false
}

// Transition applies action to the current state of a record of the given kind.
func Transition(kind Kind, from State, action Action) (State, error) {
	table, ok := rules[kind]
	if !ok {
		return State{}, &TransitionError{Kind: kind, From: from, Action: action, Err: ErrUnknownKind}
	}
	if !Supports(kind, action) {
		return State{}, &TransitionError{Kind: kind, From: from, Action: action, Err: ErrUnsupportedAction}
	}
	for _, r := range table {
		if r.from != from.Status || r.action != action {
			continue
		}
		if r.when != nil && !r.when(from) {
			continue
		}
		return r.apply(from), nil
	}
	return State{}, &TransitionError{Kind: kind, From: from, Action: action, Err: ErrInvalidTransition}
}

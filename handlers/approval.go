package handlers

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/pocketbase/pocketbase/core"
	"go.uber.org/zap"

	"boqtracker/workflow"
)

// ErrInvalidRequest marks input that failed validation before any state was read.
var ErrInvalidRequest = errors.New("invalid request")

// ApprovalRequest is the body of an approval action.
type ApprovalRequest struct {
	Action  workflow.Action `json:"-"`
	Actor   string          `json:"actor" validate:"required,max=100"`
	Notes   string          `json:"notes" validate:"max=2000"`
	Reason  string          `json:"reason" validate:"required_if=Action reject,max=2000"`
	BuyerID string          `json:"buyer_id" validate:"required_if=Action assign_to_buyer,max=100"`
}

// ApprovalResult confirms a persisted action.
type ApprovalResult struct {
	Reference string          `json:"reference"`
	Kind      workflow.Kind   `json:"kind"`
	ID        string          `json:"id"`
	Action    workflow.Action `json:"action"`
	From      workflow.State  `json:"from"`
	To        workflow.State  `json:"to"`
	At        time.Time       `json:"at"`
}

// ApprovalService applies workflow actions to change requests, purchase
// orders and asset disposals. The status change and its audit entry are
// saved in one transaction; the caller only sees success once both exist.
type ApprovalService struct {
	app      core.App
	validate *validator.Validate
	logger   *zap.Logger
	now      func() time.Time
}

func NewApprovalService(app core.App, logger *zap.Logger) *ApprovalService {
	return &ApprovalService{
		app:      app,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   logger,
		now:      time.Now,
	}
}

var kindCollections = map[workflow.Kind]string{
	workflow.KindChangeRequest: "change_requests",
	workflow.KindPurchaseOrder: "purchase_orders",
	workflow.KindAssetDisposal: "asset_disposals",
}

func (s *ApprovalService) Approve(ctx context.Context, kind workflow.Kind, id string, req ApprovalRequest) (ApprovalResult, error) {
	return s.Apply(ctx, kind, id, workflow.ActionApprove, req)
}

func (s *ApprovalService) Reject(ctx context.Context, kind workflow.Kind, id string, req ApprovalRequest) (ApprovalResult, error) {
	return s.Apply(ctx, kind, id, workflow.ActionReject, req)
}

func (s *ApprovalService) SendForReview(ctx context.Context, kind workflow.Kind, id string, req ApprovalRequest) (ApprovalResult, error) {
	return s.Apply(ctx, kind, id, workflow.ActionSendForReview, req)
}

func (s *ApprovalService) AssignToBuyer(ctx context.Context, id string, req ApprovalRequest) (ApprovalResult, error) {
	return s.Apply(ctx, workflow.KindChangeRequest, id, workflow.ActionAssignToBuyer, req)
}

// Apply validates req, moves the record to its next state and records the
// action in approval_actions.
func (s *ApprovalService) Apply(ctx context.Context, kind workflow.Kind, id string, action workflow.Action, req ApprovalRequest) (ApprovalResult, error) {
	collection, ok := kindCollections[kind]
	if !ok {
		return ApprovalResult{}, fmt.Errorf("%w: %q", workflow.ErrUnknownKind, kind)
	}
	if !workflow.Supports(kind, action) {
		return ApprovalResult{}, fmt.Errorf("%s %s: %w", kind, action, workflow.ErrUnsupportedAction)
	}

	req.Action = action
	if err := s.validate.Struct(req); err != nil {
		return ApprovalResult{}, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	if err := ctx.Err(); err != nil {
		return ApprovalResult{}, err
	}

	result := ApprovalResult{
		Reference: uuid.NewString(),
		Kind:      kind,
		ID:        id,
		Action:    action,
		At:        s.now().UTC(),
	}

	err := s.app.RunInTransaction(func(txApp core.App) error {
		record, err := txApp.FindRecordById(collection, id)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("%s %q: %w", kind, id, ErrNotFound)
			}
			return fmt.Errorf("load %s %q: %w", kind, id, err)
		}

		result.From = workflow.State{
			Status:          workflow.Status(record.GetString("status")),
			VendorSelection: workflow.VendorSelection(record.GetString("vendor_selection_status")),
		}
		if kind != workflow.KindChangeRequest {
			result.From.VendorSelection = workflow.VendorNotSelected
		}

		result.To, err = workflow.Transition(kind, result.From, action)
		if err != nil {
			return err
		}

		record.Set("status", string(result.To.Status))
		if kind == workflow.KindChangeRequest {
			record.Set("vendor_selection_status", string(result.To.VendorSelection))
		}
		switch action {
		case workflow.ActionReject:
			record.Set("rejection_reason", req.Reason)
		case workflow.ActionAssignToBuyer:
			record.Set("buyer_id", req.BuyerID)
		}
		if req.Notes != "" {
			record.Set("notes", req.Notes)
		}
		if err := txApp.Save(record); err != nil {
			return fmt.Errorf("save %s %q: %w", kind, id, err)
		}

		audit, err := txApp.FindCollectionByNameOrId("approval_actions")
		if err != nil {
			return fmt.Errorf("approval_actions collection: %w", err)
		}
		entry := core.NewRecord(audit)
		entry.Set("reference", result.Reference)
		entry.Set("entity_kind", string(kind))
		entry.Set("entity_id", id)
		entry.Set("action", string(action))
		entry.Set("from_status", string(result.From.Status))
		entry.Set("to_status", string(result.To.Status))
		entry.Set("actor", req.Actor)
		notes := req.Notes
		if action == workflow.ActionReject {
			notes = req.Reason
		}
		entry.Set("notes", notes)
		if err := txApp.Save(entry); err != nil {
			return fmt.Errorf("save approval action: %w", err)
		}
		return nil
	})
	if err != nil {
		return ApprovalResult{}, err
	}

	s.logger.Info("approval action applied",
		zap.String("kind", string(kind)),
		zap.String("id", id),
		zap.String("action", string(action)),
		zap.String("from", string(result.From.Status)),
		zap.String("to", string(result.To.Status)),
		zap.String("reference", result.Reference),
	)
	return result, nil
}

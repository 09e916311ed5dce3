package handlers

import (
	"fmt"
	"net/http"

	"github.com/pocketbase/pocketbase/core"
	"go.uber.org/zap"

	"boqtracker/workflow"
)

// HandleApprovalAction applies approve, reject, send-for-review or
// assign-buyer to the record and responds with the persisted transition.
// POST /api/{change-requests|purchase-orders|asset-disposals}/{id}/{action}
func HandleApprovalAction(d *Deps, kind workflow.Kind) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		id := e.Request.PathValue("id")
		logFields := []zap.Field{zap.String("kind", string(kind)), zap.String("id", id)}

		action, err := workflow.ParseAction(e.Request.PathValue("action"))
		if err != nil {
			return respondError(e, d.Logger, err, logFields...)
		}

		var req ApprovalRequest
		if err := e.BindBody(&req); err != nil {
			return respondError(e, d.Logger, fmt.Errorf("%w: %v", ErrInvalidRequest, err), logFields...)
		}

		result, err := d.Approvals.Apply(e.Request.Context(), kind, id, action, req)
		if err != nil {
			return respondError(e, d.Logger, err, logFields...)
		}
		return e.JSON(http.StatusOK, result)
	}
}

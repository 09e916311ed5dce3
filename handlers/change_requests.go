package handlers

import (
	"fmt"
	"net/http"

	"github.com/pocketbase/pocketbase/core"
	"go.uber.org/zap"

	"boqtracker/workflow"
)

type ChangeRequestListResponse struct {
	Tab    workflow.Tab             `json:"tab"`
	Counts map[workflow.Tab]int     `json:"counts"`
	Items  []workflow.ChangeRequest `json:"items"`
}

// HandleChangeRequestList lists change requests under one tab. Requests
// waiting on vendor approval appear only under vendor_pending.
// GET /api/change-requests?tab=pending&boq={boqId}
func HandleChangeRequestList(d *Deps) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		query := e.Request.URL.Query()
		boqID := query.Get("boq")

		tab, err := workflow.ParseTab(query.Get("tab"))
		if err != nil {
			return respondError(e, d.Logger, fmt.Errorf("%w: %v", ErrInvalidRequest, err))
		}

		all, err := d.Snapshots.ListChangeRequests(e.Request.Context(), boqID)
		if err != nil {
			return respondError(e, d.Logger, err, zap.String("boq_id", boqID))
		}

		return e.JSON(http.StatusOK, ChangeRequestListResponse{
			Tab:    tab,
			Counts: workflow.CountByTab(all),
			Items:  workflow.FilterChangeRequests(all, tab),
		})
	}
}

package handlers

import (
	"net/http"

	"github.com/pocketbase/pocketbase/core"
	"go.uber.org/zap"

	"boqtracker/reconcile"
	"boqtracker/workflow"
)

// BOQInfo identifies the BOQ a response belongs to.
type BOQInfo struct {
	ID               string `json:"id"`
	Title            string `json:"title"`
	Reference        string `json:"reference_number"`
	ProjectID        string `json:"project_id"`
	ProjectName      string `json:"project_name"`
	ProjectReference string `json:"project_reference_number"`
}

type PlannedVsActualResponse struct {
	BOQ    BOQInfo                 `json:"boq"`
	Totals reconcile.ProjectTotals `json:"totals"`
	Labour reconcile.LabourSummary `json:"labour"`
}

type RequisitionDetail struct {
	workflow.Requisition
	Finalized   bool                        `json:"finalized"`
	Assignments []workflow.WorkerAssignment `json:"assignments"`
}

type LabourWorkflowResponse struct {
	BOQID              string                  `json:"boq_id"`
	Progress           workflow.LabourProgress `json:"progress"`
	Requisitions       []RequisitionDetail     `json:"requisitions"`
	ChangeRequestCount map[workflow.Tab]int    `json:"change_request_counts"`
	Labour             reconcile.LabourSummary `json:"labour"`
}

func boqInfo(s ProjectSnapshot) BOQInfo {
	return BOQInfo{
		ID:               s.BOQID,
		Title:            s.BOQTitle,
		Reference:        s.BOQReference,
		ProjectID:        s.ProjectID,
		ProjectName:      s.ProjectName,
		ProjectReference: s.ProjectReference,
	}
}

// reconcileBOQ loads a BOQ snapshot and runs the engine over it.
func reconcileBOQ(e *core.RequestEvent, d *Deps, boqID string) (ProjectSnapshot, reconcile.ProjectTotals, error) {
	snap, err := d.Snapshots.GetPlannedVsActual(e.Request.Context(), boqID)
	if err != nil {
		return ProjectSnapshot{}, reconcile.ProjectTotals{}, err
	}
	totals, err := d.Engine.Aggregate(snap.Items, snap.Terms)
	if err != nil {
		return ProjectSnapshot{}, reconcile.ProjectTotals{}, err
	}
	return snap, totals, nil
}

// HandlePlannedVsActual returns per-item breakdowns and project totals.
// GET /api/boqs/{id}/planned-vs-actual
func HandlePlannedVsActual(d *Deps) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		boqID := e.Request.PathValue("id")

		snap, totals, err := reconcileBOQ(e, d, boqID)
		if err != nil {
			return respondError(e, d.Logger, err, zap.String("boq_id", boqID))
		}
		labour, err := d.Engine.SummarizeLabour(snap.LabourEntries)
		if err != nil {
			return respondError(e, d.Logger, err, zap.String("boq_id", boqID))
		}

		return e.JSON(http.StatusOK, PlannedVsActualResponse{
			BOQ:    boqInfo(snap),
			Totals: totals,
			Labour: labour,
		})
	}
}

// HandleLabourWorkflow returns labour requisitions, their finalisation
// state and the work-log drill-down.
// GET /api/boqs/{id}/labour-workflow
func HandleLabourWorkflow(d *Deps) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		boqID := e.Request.PathValue("id")

		snap, err := d.Snapshots.GetLabourWorkflowDetails(e.Request.Context(), boqID)
		if err != nil {
			return respondError(e, d.Logger, err, zap.String("boq_id", boqID))
		}
		labour, err := d.Engine.SummarizeLabour(snap.LabourEntries)
		if err != nil {
			return respondError(e, d.Logger, err, zap.String("boq_id", boqID))
		}

		byRequisition := make(map[string][]workflow.WorkerAssignment)
		for _, a := range snap.Assignments {
			byRequisition[a.RequisitionID] = append(byRequisition[a.RequisitionID], a)
		}
		details := make([]RequisitionDetail, 0, len(snap.Requisitions))
		for _, r := range snap.Requisitions {
			assignments := byRequisition[r.ID]
			if assignments == nil {
				assignments = []workflow.WorkerAssignment{}
			}
			details = append(details, RequisitionDetail{
				Requisition: r,
				Finalized:   workflow.IsLabourFinalized(r),
				Assignments: assignments,
			})
		}

		return e.JSON(http.StatusOK, LabourWorkflowResponse{
			BOQID:              boqID,
			Progress:           workflow.SummarizeRequisitions(snap.Requisitions, snap.Assignments),
			Requisitions:       details,
			ChangeRequestCount: workflow.CountByTab(snap.ChangeRequests),
			Labour:             labour,
		})
	}
}

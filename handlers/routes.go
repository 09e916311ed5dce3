package handlers

import (
	"github.com/pocketbase/pocketbase/core"

	"boqtracker/workflow"
)

var kindSlugs = map[string]workflow.Kind{
	"change-requests": workflow.KindChangeRequest,
	"purchase-orders": workflow.KindPurchaseOrder,
	"asset-disposals": workflow.KindAssetDisposal,
}

// RegisterRoutes mounts the JSON and report endpoints on the PocketBase router.
func RegisterRoutes(se *core.ServeEvent, d *Deps) {
	se.Router.GET("/api/boqs/{id}/planned-vs-actual", HandlePlannedVsActual(d))
	se.Router.GET("/api/boqs/{id}/labour-workflow", HandleLabourWorkflow(d))
	se.Router.GET("/api/boqs/{id}/report/{format}", HandleReport(d))
	se.Router.POST("/api/boqs/{id}/actuals/import", HandleActualsImport(d))
	se.Router.GET("/api/actuals/template", HandleActualsTemplate(d))

	se.Router.GET("/api/change-requests", HandleChangeRequestList(d))

	for slug, kind := range kindSlugs {
		se.Router.POST("/api/"+slug+"/{id}/{action}", HandleApprovalAction(d, kind))
	}
}

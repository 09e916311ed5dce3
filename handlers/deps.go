package handlers

import (
	"time"

	"github.com/pocketbase/pocketbase/core"
	"go.uber.org/zap"

	"boqtracker/reconcile"
)

// Deps is shared by every handler.
type Deps struct {
	Engine    *reconcile.Engine
	Snapshots *SnapshotService
	Approvals *ApprovalService
	Actuals   *ActualsService
	Logger    *zap.Logger

	CurrencySymbol string
	CompanyName    string
	Now            func() time.Time
}

// NewDeps wires the default services around app.
func NewDeps(app core.App, engine *reconcile.Engine, logger *zap.Logger) *Deps {
	return &Deps{
		Engine:         engine,
		Snapshots:      NewSnapshotService(app),
		Approvals:      NewApprovalService(app, logger),
		Actuals:        NewActualsService(app, logger),
		Logger:         logger,
		CurrencySymbol: "₹",
		Now:            time.Now,
	}
}

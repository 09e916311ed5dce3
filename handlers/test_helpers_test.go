package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
	"go.uber.org/zap"

	"boqtracker/reconcile"
	"boqtracker/testhelpers"
)

// newTestRequestEvent creates a RequestEvent suitable for handler tests.
func newTestRequestEvent(app *pocketbase.PocketBase, req *http.Request, rec *httptest.ResponseRecorder) *core.RequestEvent {
	e := &core.RequestEvent{}
	e.App = app
	e.Request = req
	e.Response = rec
	return e
}

var fixedNow = time.Date(2026, time.October, 19, 10, 0, 0, 0, time.UTC)

func newTestDeps(app *pocketbase.PocketBase) *Deps {
	d := NewDeps(app, reconcile.New(reconcile.DefaultPrecision), zap.NewNop())
	d.Now = func() time.Time { return fixedNow }
	d.Approvals.now = d.Now
	return d
}

// plannedSample and actualSample reconcile to a planned total of 1000 and
// actual spending of 840.
var plannedSample = map[string]any{
	"materials_total": 500, "labour_total": 300,
	"miscellaneous_percentage": 10, "overhead_amount": 50, "profit_amount": 50,
	"transport_amount": 20,
}

var actualSample = map[string]any{
	"materials_total": 520, "labour_total": 280,
	"miscellaneous_amount": 30, "transport_amount": 10,
}

// seedBOQ creates a project with reference PRJ-1 and an empty BOQ.
func seedBOQ(t *testing.T, app *pocketbase.PocketBase, extra map[string]any) *core.Record {
	t.Helper()
	project := testhelpers.CreateTestProject(t, app, "Tower B", "PRJ-1")
	return testhelpers.CreateTestBOQ(t, app, project.Id, "Structure", extra)
}

// Package testhelpers provides utilities for testing PocketBase-based applications.
package testhelpers

import (
	"testing"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
	"go.uber.org/zap"

	"boqtracker/collections"
)

// NewTestApp creates a PocketBase instance backed by a temporary directory.
// It bootstraps the app and runs collections.Setup to create all tables.
// The temporary directory is cleaned up automatically when the test finishes.
func NewTestApp(t *testing.T) *pocketbase.PocketBase {
	t.Helper()

	app := pocketbase.NewWithConfig(pocketbase.Config{
		DefaultDataDir: t.TempDir(),
	})

	if err := app.Bootstrap(); err != nil {
		t.Fatalf("failed to bootstrap test app: %v", err)
	}
	t.Cleanup(func() {
		_ = app.ResetBootstrapState()
	})

	if err := collections.Setup(app, zap.NewNop()); err != nil {
		t.Fatalf("failed to set up collections: %v", err)
	}

	return app
}

// CreateRecord saves a record with the given fields and returns it.
func CreateRecord(t *testing.T, app core.App, collection string, fields map[string]any) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId(collection)
	if err != nil {
		t.Fatalf("failed to find %s collection: %v", collection, err)
	}

	record := core.NewRecord(col)
	for k, v := range fields {
		record.Set(k, v)
	}

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test %s record: %v", collection, err)
	}

	return record
}

// CreateTestProject creates an active project and returns it.
func CreateTestProject(t *testing.T, app core.App, name, referenceNumber string) *core.Record {
	t.Helper()
	return CreateRecord(t, app, "projects", map[string]any{
		"name":             name,
		"reference_number": referenceNumber,
		"status":           "active",
	})
}

// CreateTestBOQ creates a BOQ linked to a project. extra sets optional
// fields such as discount or overhead_profit_percentage.
func CreateTestBOQ(t *testing.T, app core.App, projectID, title string, extra map[string]any) *core.Record {
	t.Helper()
	fields := map[string]any{
		"project": projectID,
		"title":   title,
	}
	for k, v := range extra {
		fields[k] = v
	}
	return CreateRecord(t, app, "boqs", fields)
}

// CreateTestBOQItem creates a BOQ item with planned and actual cost components.
func CreateTestBOQItem(t *testing.T, app core.App, boqID, description string, planned, actual map[string]any) *core.Record {
	t.Helper()
	fields := map[string]any{
		"boq":         boqID,
		"description": description,
		"planned":     planned,
	}
	if actual != nil {
		fields["actual"] = actual
	}
	return CreateRecord(t, app, "boq_items", fields)
}

// CreateTestWorkEntry creates a labour work-log row.
func CreateTestWorkEntry(t *testing.T, app core.App, boqID, workerID string, hours, rate float64) *core.Record {
	t.Helper()
	return CreateRecord(t, app, "labour_work_entries", map[string]any{
		"boq":         boqID,
		"worker_id":   workerID,
		"worker_name": "Worker " + workerID,
		"work_date":   time.Date(2026, time.October, 1, 0, 0, 0, 0, time.UTC),
		"hours":       hours,
		"rate":        rate,
	})
}

// CreateTestChangeRequest creates a change request in the given status.
func CreateTestChangeRequest(t *testing.T, app core.App, boqID, title, status, vendorSelection string) *core.Record {
	t.Helper()
	return CreateRecord(t, app, "change_requests", map[string]any{
		"boq":                     boqID,
		"title":                   title,
		"category":                "materials",
		"status":                  status,
		"vendor_selection_status": vendorSelection,
	})
}

// CreateTestPurchaseOrder creates a purchase order in the given status.
func CreateTestPurchaseOrder(t *testing.T, app core.App, boqID, poNumber, status string) *core.Record {
	t.Helper()
	return CreateRecord(t, app, "purchase_orders", map[string]any{
		"boq":       boqID,
		"po_number": poNumber,
		"status":    status,
	})
}

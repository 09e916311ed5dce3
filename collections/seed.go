package collections

import (
	"fmt"
	"time"

	"github.com/pocketbase/pocketbase/core"
	"go.uber.org/zap"
)

type itemDef struct {
	description string
	planned     map[string]any
	actual      map[string]any
}

type workEntryDef struct {
	item       int
	workerID   string
	workerName string
	daysAgo    int
	hours      float64
	rate       float64
}

type changeRequestDef struct {
	title           string
	category        string
	status          string
	vendorSelection string
	subRequests     []map[string]any
}

var seedItems = []itemDef{
	{
		description: "Excavation and PCC for footings",
		planned: map[string]any{
			"materials_total": 42000, "labour_total": 18000,
			"miscellaneous_percentage": 5, "overhead_percentage": 8, "profit_percentage": 10,
			"transport_amount": 2500,
		},
		actual: map[string]any{
			"materials_total": 45250, "labour_total": 16400,
			"miscellaneous_amount": 2100, "transport_amount": 3100,
		},
	},
	{
		description: "RCC columns and beams, M25",
		planned: map[string]any{
			"materials_total": 185000, "labour_total": 62000,
			"miscellaneous_percentage": 4, "overhead_percentage": 8, "profit_percentage": 10,
			"transport_percentage": 2,
		},
		actual: map[string]any{
			"materials_total": 179800, "labour_total": 66750,
			"miscellaneous_amount": 8900, "transport_amount": 4600,
		},
	},
	{
		description: "Brick masonry, 230mm",
		planned: map[string]any{
			"materials_total": 76000, "labour_total": 38000,
			"overhead_amount": 9000, "profit_amount": 11000,
		},
		actual: map[string]any{
			"materials_total": 0, "labour_total": 0,
		},
	},
}

var seedWorkEntries = []workEntryDef{
	{item: 0, workerID: "W-101", workerName: "Ramesh Kumar", daysAgo: 12, hours: 8, rate: 450},
	{item: 0, workerID: "W-102", workerName: "Suresh Patil", daysAgo: 12, hours: 8, rate: 400},
	{item: 1, workerID: "W-101", workerName: "Ramesh Kumar", daysAgo: 5, hours: 9.5, rate: 450},
	{item: 1, workerID: "W-103", workerName: "Anil Yadav", daysAgo: 4, hours: 7, rate: 520},
}

var seedChangeRequests = []changeRequestDef{
	{title: "Additional TMT bars for lift core", category: "materials", status: "pending_review"},
	{title: "Switch to AAC blocks", category: "materials", status: "approved"},
	{
		title: "Scaffolding rental extension", category: "equipment", status: "assigned_to_buyer",
		vendorSelection: "pending_approval",
	},
	{
		title: "Waterproofing chemicals", category: "materials", status: "assigned_to_buyer",
		subRequests: []map[string]any{
			{"id": "sr-1", "description": "Membrane", "vendor_selection_status": "approved"},
			{"id": "sr-2", "description": "Primer", "vendor_selection_status": "pending_approval"},
		},
	},
	{title: "Extra night shift labour", category: "labour", status: "rejected"},
}

// Seed populates the database with one demo project when the projects
// collection is empty. It is a no-op otherwise.
func Seed(app core.App, logger *zap.Logger) error {
	existing, err := app.CountRecords("projects")
	if err != nil {
		return fmt.Errorf("seed: count projects: %w", err)
	}
	if existing > 0 {
		logger.Debug("seed: projects exist, skipping")
		return nil
	}

	logger.Info("seed: projects collection is empty, inserting seed data")

	return app.RunInTransaction(func(txApp core.App) error {
		save := func(collection string, fields map[string]any) (*core.Record, error) {
			col, err := txApp.FindCollectionByNameOrId(collection)
			if err != nil {
				return nil, fmt.Errorf("seed: %s collection: %w", collection, err)
			}
			r := core.NewRecord(col)
			for k, v := range fields {
				r.Set(k, v)
			}
			if err := txApp.Save(r); err != nil {
				return nil, fmt.Errorf("seed: save %s: %w", collection, err)
			}
			return r, nil
		}

		project, err := save("projects", map[string]any{
			"name":             "Residential Tower B",
			"client_name":      "Skyline Developers",
			"reference_number": "SKY-B",
			"status":           "active",
		})
		if err != nil {
			return err
		}

		boq, err := save("boqs", map[string]any{
			"project":                    project.Id,
			"title":                      "Structure and Masonry",
			"reference_number":           "SKY-B-STR",
			"discount":                   map[string]any{"discount_percentage": 2.5},
			"overhead_profit_percentage": 12,
		})
		if err != nil {
			return err
		}

		items := make([]*core.Record, len(seedItems))
		for i, def := range seedItems {
			items[i], err = save("boq_items", map[string]any{
				"boq":         boq.Id,
				"sort_order":  i + 1,
				"description": def.description,
				"planned":     def.planned,
				"actual":      def.actual,
			})
			if err != nil {
				return err
			}
		}

		req, err := save("labour_requisitions", map[string]any{
			"boq":               boq.Id,
			"boq_item":          items[1].Id,
			"description":       "Shuttering carpenters for level 3",
			"status":            "approved",
			"locked":            true,
			"workers_requested": 3,
		})
		if err != nil {
			return err
		}
		if _, err := save("labour_requisitions", map[string]any{
			"boq":               boq.Id,
			"boq_item":          items[2].Id,
			"description":       "Masons for ground floor walls",
			"status":            "pending_review",
			"workers_requested": 4,
		}); err != nil {
			return err
		}

		for _, w := range []struct{ id, name, role string }{
			{"W-101", "Ramesh Kumar", "carpenter"},
			{"W-103", "Anil Yadav", "helper"},
		} {
			if _, err := save("worker_assignments", map[string]any{
				"requisition": req.Id,
				"worker_id":   w.id,
				"worker_name": w.name,
				"role":        w.role,
			}); err != nil {
				return err
			}
		}

		now := time.Now().UTC()
		for _, e := range seedWorkEntries {
			if _, err := save("labour_work_entries", map[string]any{
				"boq":         boq.Id,
				"boq_item":    items[e.item].Id,
				"worker_id":   e.workerID,
				"worker_name": e.workerName,
				"work_date":   now.AddDate(0, 0, -e.daysAgo),
				"hours":       e.hours,
				"rate":        e.rate,
			}); err != nil {
				return err
			}
		}

		vendor, err := save("vendors", map[string]any{
			"name":  "Shree Steel Traders",
			"gstin": "27AABCS1234F1Z5",
			"email": "sales@shreesteel.example",
		})
		if err != nil {
			return err
		}

		for _, cr := range seedChangeRequests {
			fields := map[string]any{
				"boq":                     boq.Id,
				"title":                   cr.title,
				"category":                cr.category,
				"status":                  cr.status,
				"vendor_selection_status": cr.vendorSelection,
			}
			if cr.subRequests != nil {
				fields["sub_requests"] = cr.subRequests
			}
			if cr.status == "assigned_to_buyer" {
				fields["buyer_id"] = "buyer-1"
				fields["vendor"] = vendor.Id
			}
			if _, err := save("change_requests", fields); err != nil {
				return err
			}
		}

		if _, err := save("purchase_orders", map[string]any{
			"boq":          boq.Id,
			"vendor":       vendor.Id,
			"po_number":    "SKY-B-PO-001",
			"status":       "pending_approval",
			"total_amount": 184500,
		}); err != nil {
			return err
		}

		if _, err := save("asset_disposals", map[string]any{
			"boq":        boq.Id,
			"asset_name": "Damaged concrete mixer",
			"reason":     "Gearbox beyond repair",
			"status":     "draft",
		}); err != nil {
			return err
		}

		logger.Info("seed: complete", zap.String("project_id", project.Id), zap.String("boq_id", boq.Id))
		return nil
	})
}

package collections

import (
	"fmt"

	"github.com/pocketbase/pocketbase/core"
	"go.uber.org/zap"

	"boqtracker/workflow"
)

// Setup programmatically creates/ensures every collection the reconciliation
// and approval endpoints read from exists. Existing collections are left as-is.
func Setup(app core.App, logger *zap.Logger) error {
	e := &ensurer{app: app, logger: logger}

	projects := e.ensure("projects", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "name", Required: true})
		c.Fields.Add(&core.TextField{Name: "client_name"})
		c.Fields.Add(&core.TextField{Name: "reference_number"})
		c.Fields.Add(&core.SelectField{
			Name:      "status",
			Required:  true,
			Values:    []string{"active", "on_hold", "completed"},
			MaxSelect: 1,
		})
		addTimestamps(c)
	})

	boqs := e.ensure("boqs", func(c *core.Collection) {
		c.Fields.Add(&core.RelationField{
			Name:          "project",
			Required:      true,
			CollectionId:  projects.Id,
			CascadeDelete: true,
			MaxSelect:     1,
		})
		c.Fields.Add(&core.TextField{Name: "title", Required: true})
		c.Fields.Add(&core.TextField{Name: "reference_number"})
		// {"discount_percentage": .., "discount_amount": ..}, applied once to the BOQ total.
		c.Fields.Add(&core.JSONField{Name: "discount"})
		// Number or null; null means no O&P reservation.
		c.Fields.Add(&core.JSONField{Name: "overhead_profit_percentage"})
		addTimestamps(c)
	})

	boqItems := e.ensure("boq_items", func(c *core.Collection) {
		c.Fields.Add(boqRelation(boqs))
		c.Fields.Add(&core.NumberField{Name: "sort_order"})
		c.Fields.Add(&core.TextField{Name: "description", Required: true})
		// Cost component objects, see reconcile.CostComponents.
		c.Fields.Add(&core.JSONField{Name: "planned", Required: true})
		c.Fields.Add(&core.JSONField{Name: "actual"})
		c.Fields.Add(&core.JSONField{Name: "discount"})
		c.Fields.Add(&core.JSONField{Name: "overhead_profit_percentage"})
		addTimestamps(c)
	})

	requisitions := e.ensure("labour_requisitions", func(c *core.Collection) {
		c.Fields.Add(boqRelation(boqs))
		c.Fields.Add(&core.RelationField{
			Name:          "boq_item",
			CollectionId:  boqItems.Id,
			CascadeDelete: true,
			MaxSelect:     1,
		})
		c.Fields.Add(&core.TextField{Name: "description", Required: true})
		c.Fields.Add(&core.SelectField{
			Name:      "status",
			Required:  true,
			Values:    workflow.Statuses,
			MaxSelect: 1,
		})
		c.Fields.Add(&core.BoolField{Name: "locked"})
		c.Fields.Add(&core.NumberField{Name: "workers_requested", OnlyInt: true})
		addTimestamps(c)
	})

	e.ensure("worker_assignments", func(c *core.Collection) {
		c.Fields.Add(&core.RelationField{
			Name:          "requisition",
			Required:      true,
			CollectionId:  requisitions.Id,
			CascadeDelete: true,
			MaxSelect:     1,
		})
		c.Fields.Add(&core.TextField{Name: "worker_id", Required: true})
		c.Fields.Add(&core.TextField{Name: "worker_name"})
		c.Fields.Add(&core.TextField{Name: "role"})
		addTimestamps(c)
	})

	e.ensure("labour_work_entries", func(c *core.Collection) {
		c.Fields.Add(boqRelation(boqs))
		c.Fields.Add(&core.RelationField{
			Name:          "boq_item",
			CollectionId:  boqItems.Id,
			CascadeDelete: true,
			MaxSelect:     1,
		})
		c.Fields.Add(&core.TextField{Name: "worker_id", Required: true})
		c.Fields.Add(&core.TextField{Name: "worker_name"})
		c.Fields.Add(&core.DateField{Name: "work_date", Required: true})
		c.Fields.Add(&core.NumberField{Name: "hours"})
		c.Fields.Add(&core.NumberField{Name: "rate"})
		// Recorded cost; null means hours * rate.
		c.Fields.Add(&core.JSONField{Name: "cost"})
		addTimestamps(c)
	})

	vendors := e.ensure("vendors", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "name", Required: true})
		c.Fields.Add(&core.TextField{Name: "gstin"})
		c.Fields.Add(&core.EmailField{Name: "email"})
		addTimestamps(c)
	})

	e.ensure("change_requests", func(c *core.Collection) {
		c.Fields.Add(boqRelation(boqs))
		c.Fields.Add(&core.TextField{Name: "title", Required: true})
		c.Fields.Add(&core.SelectField{
			Name:      "category",
			Values:    []string{"materials", "labour", "equipment", "other"},
			MaxSelect: 1,
		})
		c.Fields.Add(statusField())
		c.Fields.Add(&core.SelectField{
			Name:      "vendor_selection_status",
			Values:    workflow.VendorSelections,
			MaxSelect: 1,
		})
		c.Fields.Add(&core.RelationField{Name: "vendor", CollectionId: vendors.Id, MaxSelect: 1})
		c.Fields.Add(&core.TextField{Name: "buyer_id"})
		c.Fields.Add(&core.JSONField{Name: "sub_requests"})
		c.Fields.Add(&core.TextField{Name: "notes"})
		c.Fields.Add(&core.TextField{Name: "rejection_reason"})
		addTimestamps(c)
	})

	e.ensure("purchase_orders", func(c *core.Collection) {
		c.Fields.Add(boqRelation(boqs))
		c.Fields.Add(&core.RelationField{Name: "vendor", CollectionId: vendors.Id, MaxSelect: 1})
		c.Fields.Add(&core.TextField{Name: "po_number", Required: true})
		c.Fields.Add(statusField())
		c.Fields.Add(&core.JSONField{Name: "total_amount"})
		c.Fields.Add(&core.TextField{Name: "notes"})
		c.Fields.Add(&core.TextField{Name: "rejection_reason"})
		addTimestamps(c)
	})

	e.ensure("asset_disposals", func(c *core.Collection) {
		c.Fields.Add(boqRelation(boqs))
		c.Fields.Add(&core.TextField{Name: "asset_name", Required: true})
		c.Fields.Add(&core.TextField{Name: "reason"})
		c.Fields.Add(statusField())
		c.Fields.Add(&core.TextField{Name: "notes"})
		c.Fields.Add(&core.TextField{Name: "rejection_reason"})
		addTimestamps(c)
	})

	kinds := make([]string, len(workflow.Kinds))
	for i, k := range workflow.Kinds {
		kinds[i] = string(k)
	}
	e.ensure("approval_actions", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "reference", Required: true})
		c.Fields.Add(&core.SelectField{Name: "entity_kind", Required: true, Values: kinds, MaxSelect: 1})
		c.Fields.Add(&core.TextField{Name: "entity_id", Required: true})
		c.Fields.Add(&core.TextField{Name: "action", Required: true})
		c.Fields.Add(&core.TextField{Name: "from_status"})
		c.Fields.Add(&core.TextField{Name: "to_status"})
		c.Fields.Add(&core.TextField{Name: "actor"})
		c.Fields.Add(&core.TextField{Name: "notes"})
		c.AddIndex("idx_approval_actions_entity", false, "entity_kind, entity_id", "")
		addTimestamps(c)
	})

	return e.err
}

// ensurer stops creating collections after the first failure so that
// relations never point at an unsaved collection.
type ensurer struct {
	app    core.App
	logger *zap.Logger
	err    error
}

// ensure checks if a collection already exists by name. If it does, the
// existing collection is returned. Otherwise a new base collection is
// created, addFields is invoked to populate its fields, and the collection
// is saved.
func (e *ensurer) ensure(name string, addFields func(*core.Collection)) *core.Collection {
	if e.err != nil {
		return core.NewBaseCollection(name)
	}

	existing, err := e.app.FindCollectionByNameOrId(name)
	if err == nil && existing != nil {
		e.logger.Debug("collection already exists", zap.String("collection", name))
		return existing
	}

	collection := core.NewBaseCollection(name)
	addFields(collection)

	if err := e.app.Save(collection); err != nil {
		e.err = fmt.Errorf("create collection %q: %w", name, err)
		return collection
	}

	e.logger.Info("created collection", zap.String("collection", name), zap.String("id", collection.Id))
	return collection
}

func boqRelation(boqs *core.Collection) *core.RelationField {
	return &core.RelationField{
		Name:          "boq",
		Required:      true,
		CollectionId:  boqs.Id,
		CascadeDelete: true,
		MaxSelect:     1,
	}
}

func statusField() *core.SelectField {
	return &core.SelectField{
		Name:      "status",
		Required:  true,
		Values:    workflow.Statuses,
		MaxSelect: 1,
	}
}

func addTimestamps(c *core.Collection) {
	c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
	c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
}

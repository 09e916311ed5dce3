package handlers

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pocketbase/pocketbase/core"
	"github.com/pocketbase/pocketbase/tools/types"
	"github.com/shopspring/decimal"
	"github.com/spf13/cast"

	"boqtracker/reconcile"
	"boqtracker/workflow"
)

// rawJSONField returns the trimmed JSON text of a field, or "" when the
// field is empty or null.
func rawJSONField(r *core.Record, key string) string {
	var raw string
	switch v := r.Get(key).(type) {
	case types.JSONRaw:
		raw = string(v)
	default:
		raw = cast.ToString(v)
	}

	raw = strings.TrimSpace(raw)
	if raw == "null" {
		return ""
	}
	return raw
}

// decodeJSONField unmarshals a JSON field into dst. Empty and null fields
// leave dst untouched.
func decodeJSONField(r *core.Record, key string, dst any) error {
	raw := rawJSONField(r, key)
	if raw == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		return fmt.Errorf("decode %s.%s of %s: %w", r.Collection().Name, key, r.Id, err)
	}
	return nil
}

func decimalField(r *core.Record, key string) decimal.Decimal {
	return decimal.NewFromFloat(cast.ToFloat64(r.Get(key)))
}

// discountFromRecord returns nil when the record carries no discount.
func discountFromRecord(r *core.Record) (*reconcile.DiscountTerms, error) {
	var terms reconcile.DiscountTerms
	if err := decodeJSONField(r, "discount", &terms); err != nil {
		return nil, err
	}
	if !terms.Applies() {
		return nil, nil
	}
	return &terms, nil
}

func termsFromBOQ(r *core.Record) (reconcile.ProjectTerms, error) {
	var terms reconcile.ProjectTerms
	var err error
	if terms.Discount, err = discountFromRecord(r); err != nil {
		return terms, err
	}
	if err := decodeJSONField(r, "overhead_profit_percentage", &terms.OverheadProfitPercentage); err != nil {
		return terms, err
	}
	return terms, nil
}

// lineItemFromRecord decodes a boq_items record. An item with no actual
// costs recorded yet reconciles against zero materials and labour; a
// recorded actual is taken as-is, so a missing total stays missing.
func lineItemFromRecord(r *core.Record) (reconcile.LineItem, error) {
	item := reconcile.LineItem{
		ID:          r.Id,
		Description: r.GetString("description"),
	}
	if err := decodeJSONField(r, "planned", &item.Planned); err != nil {
		return item, err
	}

	if rawJSONField(r, "actual") == "" {
		item.Actual = reconcile.CostComponents{
			MaterialsTotal: reconcile.Amount(decimal.Zero),
			LabourTotal:    reconcile.Amount(decimal.Zero),
		}
	} else if err := decodeJSONField(r, "actual", &item.Actual); err != nil {
		return item, err
	}

	var err error
	if item.Discount, err = discountFromRecord(r); err != nil {
		return item, err
	}
	if err := decodeJSONField(r, "overhead_profit_percentage", &item.OverheadProfitPercentage); err != nil {
		return item, err
	}
	return item, nil
}

func workEntryFromRecord(r *core.Record) (reconcile.LabourWorkEntry, error) {
	entry := reconcile.LabourWorkEntry{
		WorkerID:   r.GetString("worker_id"),
		WorkerName: r.GetString("worker_name"),
		Date:       r.GetDateTime("work_date").Time(),
		Hours:      decimalField(r, "hours"),
		Rate:       decimalField(r, "rate"),
	}
	if err := decodeJSONField(r, "cost", &entry.Cost); err != nil {
		return entry, err
	}
	return entry, nil
}

func changeRequestFromRecord(r *core.Record) (workflow.ChangeRequest, error) {
	cr := workflow.ChangeRequest{
		ID:                    r.Id,
		BOQID:                 r.GetString("boq"),
		Title:                 r.GetString("title"),
		Category:              r.GetString("category"),
		Status:                workflow.Status(r.GetString("status")),
		VendorSelectionStatus: workflow.VendorSelection(r.GetString("vendor_selection_status")),
		BuyerID:               r.GetString("buyer_id"),
	}
	if err := decodeJSONField(r, "sub_requests", &cr.SubRequests); err != nil {
		return cr, err
	}
	return cr, nil
}

func requisitionFromRecord(r *core.Record) workflow.Requisition {
	return workflow.Requisition{
		ID:          r.Id,
		BOQItemID:   r.GetString("boq_item"),
		Description: r.GetString("description"),
		Status:      workflow.Status(r.GetString("status")),
		Locked:      r.GetBool("locked"),
		Workers:     cast.ToInt(r.Get("workers_requested")),
	}
}

func assignmentFromRecord(r *core.Record) workflow.WorkerAssignment {
	return workflow.WorkerAssignment{
		ID:            r.Id,
		RequisitionID: r.GetString("requisition"),
		WorkerID:      r.GetString("worker_id"),
		WorkerName:    r.GetString("worker_name"),
		Role:          r.GetString("role"),
	}
}

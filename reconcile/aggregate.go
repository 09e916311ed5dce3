package reconcile

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ComponentTotals is a cost side summed across items.
type ComponentTotals struct {
	MaterialsTotal decimal.Decimal `json:"materials_total"`
	LabourTotal    decimal.Decimal `json:"labour_total"`
	BaseCost       decimal.Decimal `json:"base_cost"`
	Miscellaneous  decimal.Decimal `json:"miscellaneous"`
	Overhead       decimal.Decimal `json:"overhead"`
	Profit         decimal.Decimal `json:"profit"`
	Transport      decimal.Decimal `json:"transport"`
}

func totalsOf(s CostSide) ComponentTotals {
	return ComponentTotals{
		MaterialsTotal: s.MaterialsTotal,
		LabourTotal:    s.LabourTotal,
		BaseCost:       s.BaseCost,
		Miscellaneous:  s.Allocations.Misc.Amount,
		Overhead:       s.Allocations.Overhead.Amount,
		Profit:         s.Allocations.Profit.Amount,
		Transport:      s.Allocations.Transport.Amount,
	}
}

// add sums component inputs only; BaseCost is recomputed by the caller.
func (t ComponentTotals) add(s CostSide) ComponentTotals {
	return ComponentTotals{
		MaterialsTotal: t.MaterialsTotal.Add(s.MaterialsTotal),
		LabourTotal:    t.LabourTotal.Add(s.LabourTotal),
		Miscellaneous:  t.Miscellaneous.Add(s.Allocations.Misc.Amount),
		Overhead:       t.Overhead.Add(s.Allocations.Overhead.Amount),
		Profit:         t.Profit.Add(s.Allocations.Profit.Amount),
		Transport:      t.Transport.Add(s.Allocations.Transport.Amount),
	}
}

func (t ComponentTotals) allocations() AllocatedCost {
	fixed := func(d decimal.Decimal) AllocatedAmount {
		return AllocatedAmount{Amount: d, Source: SourceAmount}
	}
	return AllocatedCost{
		Misc:      fixed(t.Miscellaneous),
		Overhead:  fixed(t.Overhead),
		Profit:    fixed(t.Profit),
		Transport: fixed(t.Transport),
	}
}

func (t ComponentTotals) rounded(places int32) ComponentTotals {
	return ComponentTotals{
		MaterialsTotal: t.MaterialsTotal.Round(places),
		LabourTotal:    t.LabourTotal.Round(places),
		BaseCost:       t.BaseCost.Round(places),
		Miscellaneous:  t.Miscellaneous.Round(places),
		Overhead:       t.Overhead.Round(places),
		Profit:         t.Profit.Round(places),
		Transport:      t.Transport.Round(places),
	}
}

// ProjectTerms are commercial terms applied once to the combined subtotal.
type ProjectTerms struct {
	Discount                 *DiscountTerms      `json:"discount,omitempty"`
	OverheadProfitPercentage decimal.NullDecimal `json:"overhead_profit_percentage"`
}

// ProjectTotals is the project-level reconciliation plus each item's breakdown.
type ProjectTotals struct {
	ItemCount int             `json:"item_count"`
	Items     []ItemBreakdown `json:"items"`

	Planned ComponentTotals `json:"planned"`
	Actual  ComponentTotals `json:"actual"`

	PlannedTotal   decimal.Decimal `json:"planned_total"`
	ActualSpending decimal.Decimal `json:"actual_spending"`

	Discount   *DiscountDetails `json:"discount"`
	ClientPays decimal.Decimal  `json:"client_pays"`

	NegotiableMargin         decimal.Decimal     `json:"negotiable_margin"`
	OverheadProfitPercentage decimal.NullDecimal `json:"overhead_profit_percentage"`
	OverheadProfitAllocation decimal.Decimal     `json:"overhead_profit_allocation"`
	ActualMargin             decimal.Decimal     `json:"actual_margin"`
	MarginPercentage         Percentage          `json:"margin_percentage"`

	Variance Variance `json:"variance"`
}

// Aggregate sums the items' cost components and re-applies the formulas to
// the project totals. The project discount is applied once to the combined
// subtotal; per-item margins are reported but never summed. Items without
// their own O&P percentage inherit the project's.
func (e *Engine) Aggregate(items []LineItem, terms ProjectTerms) (ProjectTotals, error) {
	var planned, actual ComponentTotals
	breakdowns := make([]ItemBreakdown, 0, len(items))

	for i, item := range items {
		opPct := item.OverheadProfitPercentage
		if !opPct.Valid {
			opPct = terms.OverheadProfitPercentage
		}
		b, p, a, err := e.reconcile(item, opPct)
		if err != nil {
			return ProjectTotals{}, prefixed(fmt.Sprintf("items[%d]", i), err)
		}
		breakdowns = append(breakdowns, b)
		planned = planned.add(p)
		actual = actual.add(a)
	}

	var err error
	if planned.BaseCost, err = ComputeBaseCost(planned.MaterialsTotal, planned.LabourTotal); err != nil {
		return ProjectTotals{}, prefixed("planned", err)
	}
	if actual.BaseCost, err = ComputeBaseCost(actual.MaterialsTotal, actual.LabourTotal); err != nil {
		return ProjectTotals{}, prefixed("actual", err)
	}

	plannedTotal, err := ComputePlannedTotal(planned.BaseCost, planned.allocations())
	if err != nil {
		return ProjectTotals{}, prefixed("planned", err)
	}
	actualSpending, err := ComputeActualSpending(actual.BaseCost, actual.Miscellaneous, actual.Transport)
	if err != nil {
		return ProjectTotals{}, prefixed("actual", err)
	}

	s, err := settle(plannedTotal, actualSpending, terms.Discount, terms.OverheadProfitPercentage)
	if err != nil {
		return ProjectTotals{}, prefixed("project", err)
	}

	totals := ProjectTotals{
		ItemCount:                len(items),
		Items:                    breakdowns,
		Planned:                  planned.rounded(e.precision),
		Actual:                   actual.rounded(e.precision),
		PlannedTotal:             e.round(plannedTotal),
		ActualSpending:           e.round(actualSpending),
		ClientPays:               e.round(s.clientPays),
		NegotiableMargin:         e.round(s.negotiableMargin),
		OverheadProfitPercentage: terms.OverheadProfitPercentage,
		OverheadProfitAllocation: e.round(s.overheadProfitAllocation),
		ActualMargin:             e.round(s.actualMargin),
		MarginPercentage:         s.marginPercentage.rounded(e.precision),
		Variance:                 varianceOf(planned, actual, e.precision),
	}
	if s.discount != nil {
		d := s.discount.rounded(e.precision)
		totals.Discount = &d
	}
	return totals, nil
}

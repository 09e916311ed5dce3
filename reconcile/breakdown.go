package reconcile

import "github.com/shopspring/decimal"

// ItemBreakdown is the normalized planned-vs-actual view of one line item.
type ItemBreakdown struct {
	ID          string `json:"id"`
	Description string `json:"description"`

	Planned CostSide `json:"planned"`
	Actual  CostSide `json:"actual"`

	PlannedTotal   decimal.Decimal `json:"planned_total"`
	ActualSpending decimal.Decimal `json:"actual_spending"`

	// Discount is nil when no discount applies to the item.
	Discount   *DiscountDetails `json:"discount"`
	ClientPays decimal.Decimal  `json:"client_pays"`

	NegotiableMargin         decimal.Decimal     `json:"negotiable_margin"`
	OverheadProfitPercentage decimal.NullDecimal `json:"overhead_profit_percentage"`
	OverheadProfitAllocation decimal.Decimal     `json:"overhead_profit_allocation"`
	ActualMargin             decimal.Decimal     `json:"actual_margin"`
	MarginPercentage         Percentage          `json:"margin_percentage"`

	Variance Variance `json:"variance"`
}

// ReconcileItem computes the breakdown of a single item using its own
// discount and O&P percentage.
func (e *Engine) ReconcileItem(item LineItem) (ItemBreakdown, error) {
	b, _, _, err := e.reconcile(item, item.OverheadProfitPercentage)
	return b, err
}

func (e *Engine) reconcile(item LineItem, opPct decimal.NullDecimal) (ItemBreakdown, CostSide, CostSide, error) {
	planned, err := evaluateSide(item.Planned)
	if err != nil {
		return ItemBreakdown{}, CostSide{}, CostSide{}, prefixed("planned", err)
	}
	actual, err := evaluateSide(item.Actual)
	if err != nil {
		return ItemBreakdown{}, CostSide{}, CostSide{}, prefixed("actual", err)
	}

	plannedTotal, err := ComputePlannedTotal(planned.BaseCost, planned.Allocations)
	if err != nil {
		return ItemBreakdown{}, CostSide{}, CostSide{}, prefixed("planned", err)
	}
	actualSpending, err := ComputeActualSpending(actual.BaseCost, actual.Allocations.Misc.Amount, actual.Allocations.Transport.Amount)
	if err != nil {
		return ItemBreakdown{}, CostSide{}, CostSide{}, prefixed("actual", err)
	}

	s, err := settle(plannedTotal, actualSpending, item.Discount, opPct)
	if err != nil {
		return ItemBreakdown{}, CostSide{}, CostSide{}, err
	}

	b := ItemBreakdown{
		ID:                       item.ID,
		Description:              item.Description,
		Planned:                  planned.rounded(e.precision),
		Actual:                   actual.rounded(e.precision),
		PlannedTotal:             e.round(plannedTotal),
		ActualSpending:           e.round(actualSpending),
		ClientPays:               e.round(s.clientPays),
		NegotiableMargin:         e.round(s.negotiableMargin),
		OverheadProfitPercentage: opPct,
		OverheadProfitAllocation: e.round(s.overheadProfitAllocation),
		ActualMargin:             e.round(s.actualMargin),
		MarginPercentage:         s.marginPercentage.rounded(e.precision),
		Variance:                 varianceOf(totalsOf(planned), totalsOf(actual), e.precision),
	}
	if s.discount != nil {
		d := s.discount.rounded(e.precision)
		b.Discount = &d
	}
	return b, planned, actual, nil
}

package reconcile

import "github.com/shopspring/decimal"

// DefaultPrecision is the number of decimal places monetary outputs are
// rounded to.
const DefaultPrecision int32 = 2

// Engine turns line items into rounded breakdowns. It holds no mutable state
// and is safe for concurrent use.
type Engine struct {
	precision int32
}

// New returns an Engine rounding to the given number of decimal places.
// A negative precision falls back to DefaultPrecision.
func New(precision int32) *Engine {
	if precision < 0 {
		precision = DefaultPrecision
	}
	return &Engine{precision: precision}
}

func (e *Engine) Precision() int32 {
	return e.precision
}

func (e *Engine) round(d decimal.Decimal) decimal.Decimal {
	return d.Round(e.precision)
}

// LineItem is a BOQ item's planned and actual cost components with its
// optional commercial terms.
type LineItem struct {
	ID                       string              `json:"id"`
	Description              string              `json:"description"`
	Planned                  CostComponents      `json:"planned"`
	Actual                   CostComponents      `json:"actual"`
	Discount                 *DiscountTerms      `json:"discount,omitempty"`
	OverheadProfitPercentage decimal.NullDecimal `json:"overhead_profit_percentage"`
}

// CostSide is a resolved planned or actual side of a line item.
type CostSide struct {
	MaterialsTotal decimal.Decimal `json:"materials_total"`
	LabourTotal    decimal.Decimal `json:"labour_total"`
	BaseCost       decimal.Decimal `json:"base_cost"`
	Allocations    AllocatedCost   `json:"allocations"`
}

func (s CostSide) rounded(places int32) CostSide {
	return CostSide{
		MaterialsTotal: s.MaterialsTotal.Round(places),
		LabourTotal:    s.LabourTotal.Round(places),
		BaseCost:       s.BaseCost.Round(places),
		Allocations:    s.Allocations.rounded(places),
	}
}

func evaluateSide(c CostComponents) (CostSide, error) {
	if err := c.Validate(); err != nil {
		return CostSide{}, err
	}
	base, err := c.BaseCost()
	if err != nil {
		return CostSide{}, err
	}
	allocations, err := ComputeAllocatedCost(base, c.Allocations())
	if err != nil {
		return CostSide{}, err
	}
	return CostSide{
		MaterialsTotal: c.MaterialsTotal.Decimal,
		LabourTotal:    c.LabourTotal.Decimal,
		BaseCost:       base,
		Allocations:    allocations,
	}, nil
}

// Variance is planned minus actual; positive values are under budget.
type Variance struct {
	Materials     decimal.Decimal `json:"materials"`
	Labour        decimal.Decimal `json:"labour"`
	BaseCost      decimal.Decimal `json:"base_cost"`
	Miscellaneous decimal.Decimal `json:"miscellaneous"`
	Transport     decimal.Decimal `json:"transport"`
}

func varianceOf(planned, actual ComponentTotals, places int32) Variance {
	return Variance{
		Materials:     planned.MaterialsTotal.Sub(actual.MaterialsTotal).Round(places),
		Labour:        planned.LabourTotal.Sub(actual.LabourTotal).Round(places),
		BaseCost:      planned.BaseCost.Sub(actual.BaseCost).Round(places),
		Miscellaneous: planned.Miscellaneous.Sub(actual.Miscellaneous).Round(places),
		Transport:     planned.Transport.Sub(actual.Transport).Round(places),
	}
}

// settlement is everything derived from what the client is billed.
type settlement struct {
	discount                 *DiscountDetails
	clientPays               decimal.Decimal
	negotiableMargin         decimal.Decimal
	overheadProfitAllocation decimal.Decimal
	actualMargin             decimal.Decimal
	marginPercentage         Percentage
}

func settle(plannedTotal, actualSpending decimal.Decimal, terms *DiscountTerms, opPct decimal.NullDecimal) (settlement, error) {
	var s settlement
	discountAmount := Absent()
	if terms.Applies() {
		details, err := ComputeDiscount(plannedTotal, *terms)
		if err != nil {
			return settlement{}, prefixed("discount", err)
		}
		s.discount = &details
		discountAmount = Amount(details.DiscountAmount)
	}

	clientPays, err := ComputeClientPays(plannedTotal, discountAmount)
	if err != nil {
		return settlement{}, err
	}
	s.clientPays = clientPays
	if s.negotiableMargin, err = ComputeNegotiableMargin(clientPays, actualSpending); err != nil {
		return settlement{}, err
	}

	pct := decimal.Zero
	if opPct.Valid {
		pct = opPct.Decimal
	}
	if s.overheadProfitAllocation, err = ComputeOverheadProfitAllocation(clientPays, pct); err != nil {
		return settlement{}, err
	}
	if s.actualMargin, err = ComputeActualMargin(clientPays, pct, s.negotiableMargin); err != nil {
		return settlement{}, err
	}
	s.marginPercentage = MarginPercentage(s.negotiableMargin, clientPays)
	return s, nil
}

package reconcile

import "github.com/shopspring/decimal"

// CostComponents is one side (planned or actual) of a BOQ line item.
// Materials and labour are required; every allocation is optional and may be
// given as an explicit amount, a percentage of base cost, or both.
type CostComponents struct {
	MaterialsTotal decimal.NullDecimal `json:"materials_total"`
	LabourTotal    decimal.NullDecimal `json:"labour_total"`

	MiscellaneousAmount     decimal.NullDecimal `json:"miscellaneous_amount"`
	MiscellaneousPercentage decimal.NullDecimal `json:"miscellaneous_percentage"`
	OverheadAmount          decimal.NullDecimal `json:"overhead_amount"`
	OverheadPercentage      decimal.NullDecimal `json:"overhead_percentage"`
	ProfitAmount            decimal.NullDecimal `json:"profit_amount"`
	ProfitPercentage        decimal.NullDecimal `json:"profit_percentage"`
	TransportAmount         decimal.NullDecimal `json:"transport_amount"`
	TransportPercentage     decimal.NullDecimal `json:"transport_percentage"`
}

// Validate checks required fields and rejects negative amounts or percentages.
func (c CostComponents) Validate() error {
	if _, err := required("materials_total", c.MaterialsTotal); err != nil {
		return err
	}
	if _, err := required("labour_total", c.LabourTotal); err != nil {
		return err
	}
	return c.Allocations().validate()
}

// BaseCost recomputes materials + labour.
func (c CostComponents) BaseCost() (decimal.Decimal, error) {
	materials, err := required("materials_total", c.MaterialsTotal)
	if err != nil {
		return decimal.Zero, err
	}
	labour, err := required("labour_total", c.LabourTotal)
	if err != nil {
		return decimal.Zero, err
	}
	return ComputeBaseCost(materials, labour)
}

func (c CostComponents) Allocations() AllocationInputs {
	return AllocationInputs{
		Misc:      Allocation{Amount: c.MiscellaneousAmount, Percentage: c.MiscellaneousPercentage},
		Overhead:  Allocation{Amount: c.OverheadAmount, Percentage: c.OverheadPercentage},
		Profit:    Allocation{Amount: c.ProfitAmount, Percentage: c.ProfitPercentage},
		Transport: Allocation{Amount: c.TransportAmount, Percentage: c.TransportPercentage},
	}
}

// Allocation is a cost line expressed as an amount and/or a percentage of base cost.
type Allocation struct {
	Amount     decimal.NullDecimal `json:"amount"`
	Percentage decimal.NullDecimal `json:"percentage"`
}

// Percent builds an allocation from a percentage only.
func Percent(pct decimal.Decimal) Allocation {
	return Allocation{Percentage: Amount(pct)}
}

// Fixed builds an allocation from an explicit amount only.
func Fixed(amount decimal.Decimal) Allocation {
	return Allocation{Amount: Amount(amount)}
}

type AllocationInputs struct {
	Misc      Allocation
	Overhead  Allocation
	Profit    Allocation
	Transport Allocation
}

func (in AllocationInputs) validate() error {
	checks := []struct {
		name string
		a    Allocation
	}{
		{"miscellaneous", in.Misc},
		{"overhead", in.Overhead},
		{"profit", in.Profit},
		{"transport", in.Transport},
	}
	for _, c := range checks {
		if err := optionalAmount(c.name+"_amount", c.a.Amount); err != nil {
			return err
		}
		if err := optionalPercentage(c.name+"_percentage", c.a.Percentage, false); err != nil {
			return err
		}
	}
	return nil
}

type AllocationSource string

const (
	SourceAmount     AllocationSource = "amount"
	SourcePercentage AllocationSource = "percentage"
	SourceAbsent     AllocationSource = "absent"
)

// AllocatedAmount is a resolved allocation and where its value came from.
type AllocatedAmount struct {
	Amount decimal.Decimal  `json:"amount"`
	Source AllocationSource `json:"source"`
}

// AllocatedCost holds the four resolved allocations of one cost side.
type AllocatedCost struct {
	Misc      AllocatedAmount `json:"miscellaneous"`
	Overhead  AllocatedAmount `json:"overhead"`
	Profit    AllocatedAmount `json:"profit"`
	Transport AllocatedAmount `json:"transport"`
}

// Total is misc + overhead + profit + transport.
func (a AllocatedCost) Total() decimal.Decimal {
	return a.Misc.Amount.Add(a.Overhead.Amount).Add(a.Profit.Amount).Add(a.Transport.Amount)
}

func (a AllocatedCost) rounded(places int32) AllocatedCost {
	r := func(x AllocatedAmount) AllocatedAmount {
		return AllocatedAmount{Amount: x.Amount.Round(places), Source: x.Source}
	}
	return AllocatedCost{
		Misc:      r(a.Misc),
		Overhead:  r(a.Overhead),
		Profit:    r(a.Profit),
		Transport: r(a.Transport),
	}
}

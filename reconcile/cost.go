// Package reconcile computes planned-vs-actual cost breakdowns for BOQ line
// items and projects. Every function is pure: no I/O, no shared state, and
// inputs are never mutated.
package reconcile

import "github.com/shopspring/decimal"

// ComputeBaseCost returns materials + labour. Negative inputs are rejected.
func ComputeBaseCost(materialsTotal, labourTotal decimal.Decimal) (decimal.Decimal, error) {
	if err := nonNegative("materials_total", materialsTotal); err != nil {
		return decimal.Zero, err
	}
	if err := nonNegative("labour_total", labourTotal); err != nil {
		return decimal.Zero, err
	}
	return materialsTotal.Add(labourTotal), nil
}

// ComputeAllocatedCost resolves each allocation against the base cost.
// An explicit amount takes precedence over the percentage; a percentage
// yields base * pct / 100; an allocation with neither contributes zero and
// is reported as SourceAbsent.
func ComputeAllocatedCost(baseCost decimal.Decimal, in AllocationInputs) (AllocatedCost, error) {
	if err := nonNegative("base_cost", baseCost); err != nil {
		return AllocatedCost{}, err
	}
	if err := in.validate(); err != nil {
		return AllocatedCost{}, err
	}
	return AllocatedCost{
		Misc:      allocate(baseCost, in.Misc),
		Overhead:  allocate(baseCost, in.Overhead),
		Profit:    allocate(baseCost, in.Profit),
		Transport: allocate(baseCost, in.Transport),
	}, nil
}

func allocate(baseCost decimal.Decimal, a Allocation) AllocatedAmount {
	switch {
	case a.Amount.Valid:
		return AllocatedAmount{Amount: a.Amount.Decimal, Source: SourceAmount}
	case a.Percentage.Valid:
		return AllocatedAmount{Amount: percentOf(baseCost, a.Percentage.Decimal), Source: SourcePercentage}
	}
	return AllocatedAmount{Amount: decimal.Zero, Source: SourceAbsent}
}

// ComputePlannedTotal is the amount quoted to the client before discount:
// base + misc + overhead + profit + transport.
func ComputePlannedTotal(baseCost decimal.Decimal, allocations AllocatedCost) (decimal.Decimal, error) {
	if err := nonNegative("base_cost", baseCost); err != nil {
		return decimal.Zero, err
	}
	for _, a := range []struct {
		field  string
		amount decimal.Decimal
	}{
		{"miscellaneous_amount", allocations.Misc.Amount},
		{"overhead_amount", allocations.Overhead.Amount},
		{"profit_amount", allocations.Profit.Amount},
		{"transport_amount", allocations.Transport.Amount},
	} {
		if err := nonNegative(a.field, a.amount); err != nil {
			return decimal.Zero, err
		}
	}
	return baseCost.Add(allocations.Total()), nil
}

// ComputeActualSpending is base + misc + transport. Overhead and profit are
// not spending; they are accounted for in the margin.
func ComputeActualSpending(baseCost, misc, transport decimal.Decimal) (decimal.Decimal, error) {
	if err := nonNegative("base_cost", baseCost); err != nil {
		return decimal.Zero, err
	}
	if err := nonNegative("miscellaneous_amount", misc); err != nil {
		return decimal.Zero, err
	}
	if err := nonNegative("transport_amount", transport); err != nil {
		return decimal.Zero, err
	}
	return baseCost.Add(misc).Add(transport), nil
}

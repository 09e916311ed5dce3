package reconcile

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeBaseCost(t *testing.T) {
	tests := []struct {
		name      string
		materials string
		labour    string
		expect    string
	}{
		{"basic", "500", "300", "800"},
		{"zero labour", "1250.50", "0", "1250.50"},
		{"both zero", "0", "0", "0"},
		{"cents do not drift", "0.10", "0.20", "0.30"},
		{"large values", "98765432.19", "12345678.91", "111111111.10"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ComputeBaseCost(d(tt.materials), d(tt.labour))
			require.NoError(t, err)
			assertMoney(t, tt.expect, got)

			swapped, err := ComputeBaseCost(d(tt.labour), d(tt.materials))
			require.NoError(t, err)
			assert.True(t, got.Equal(swapped), "base cost must be commutative")
		})
	}
}

func TestComputeBaseCost_RejectsNegative(t *testing.T) {
	tests := []struct {
		name      string
		materials string
		labour    string
		field     string
	}{
		{"negative materials", "-1", "10", "materials_total"},
		{"negative labour", "10", "-0.01", "labour_total"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ComputeBaseCost(d(tt.materials), d(tt.labour))
			require.Error(t, err)

			var ve *ValidationError
			require.True(t, errors.As(err, &ve))
			assert.Equal(t, tt.field, ve.Field)
			assert.ErrorIs(t, err, ErrNegativeAmount)
		})
	}
}

func TestComputeAllocatedCost_PercentageOfBase(t *testing.T) {
	bases := []string{"0", "1", "800", "1234.56", "99999.99"}
	for _, base := range bases {
		for pct := decimal.Zero; pct.LessThanOrEqual(hundred); pct = pct.Add(d("7.5")) {
			got, err := ComputeAllocatedCost(d(base), AllocationInputs{Misc: Percent(pct)})
			require.NoError(t, err)

			want := d(base).Mul(pct).Div(hundred)
			assert.Truef(t, want.Equal(got.Misc.Amount), "base %s pct %s: got %s want %s", base, pct, got.Misc.Amount, want)
			assert.Equal(t, SourcePercentage, got.Misc.Source)
		}
	}
}

func TestComputeAllocatedCost_Sources(t *testing.T) {
	in := AllocationInputs{
		Misc:      Percent(d("10")),
		Overhead:  Allocation{Amount: nd("150"), Percentage: nd("50")},
		Profit:    Fixed(d("0")),
		Transport: Allocation{},
	}

	got, err := ComputeAllocatedCost(d("800"), in)
	require.NoError(t, err)

	assertMoney(t, "80", got.Misc.Amount)
	assert.Equal(t, SourcePercentage, got.Misc.Source)

	// Explicit amount wins over the percentage.
	assertMoney(t, "150", got.Overhead.Amount)
	assert.Equal(t, SourceAmount, got.Overhead.Source)

	assertMoney(t, "0", got.Profit.Amount)
	assert.Equal(t, SourceAmount, got.Profit.Source)

	assertMoney(t, "0", got.Transport.Amount)
	assert.Equal(t, SourceAbsent, got.Transport.Source)

	assertMoney(t, "230", got.Total())
}

func TestComputeAllocatedCost_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		base  string
		in    AllocationInputs
		field string
		err   error
	}{
		{"negative base", "-5", AllocationInputs{}, "base_cost", ErrNegativeAmount},
		{"negative amount", "100", AllocationInputs{Profit: Fixed(d("-1"))}, "profit_amount", ErrNegativeAmount},
		{"negative percentage", "100", AllocationInputs{Transport: Percent(d("-3"))}, "transport_percentage", ErrNegativePercentage},
		{
			"negative percentage alongside amount",
			"100",
			AllocationInputs{Overhead: Allocation{Amount: nd("10"), Percentage: nd("-1")}},
			"overhead_percentage",
			ErrNegativePercentage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ComputeAllocatedCost(d(tt.base), tt.in)
			var ve *ValidationError
			require.True(t, errors.As(err, &ve), "expected ValidationError, got %v", err)
			assert.Equal(t, tt.field, ve.Field)
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestComputePlannedTotal(t *testing.T) {
	alloc, err := ComputeAllocatedCost(d("800"), sampleItem().Planned.Allocations())
	require.NoError(t, err)

	total, err := ComputePlannedTotal(d("800"), alloc)
	require.NoError(t, err)
	assertMoney(t, "1120", total)
}

func TestComputePlannedTotal_RejectsNegative(t *testing.T) {
	tests := []struct {
		name  string
		base  string
		alloc AllocatedCost
		field string
	}{
		{"negative base", "-800", AllocatedCost{}, "base_cost"},
		{"negative misc", "800", AllocatedCost{Misc: AllocatedAmount{Amount: d("-1"), Source: SourceAmount}}, "miscellaneous_amount"},
		{"negative overhead", "800", AllocatedCost{Overhead: AllocatedAmount{Amount: d("-1"), Source: SourceAmount}}, "overhead_amount"},
		{"negative profit", "800", AllocatedCost{Profit: AllocatedAmount{Amount: d("-1"), Source: SourceAmount}}, "profit_amount"},
		{"negative transport", "800", AllocatedCost{Transport: AllocatedAmount{Amount: d("-1"), Source: SourceAmount}}, "transport_amount"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ComputePlannedTotal(d(tt.base), tt.alloc)
			var ve *ValidationError
			require.True(t, errors.As(err, &ve), "expected ValidationError, got %v", err)
			assert.Equal(t, tt.field, ve.Field)
			assert.ErrorIs(t, err, ErrNegativeAmount)
		})
	}
}

func TestComputeActualSpending_ExcludesOverheadAndProfit(t *testing.T) {
	alloc, err := ComputeAllocatedCost(d("800"), sampleItem().Actual.Allocations())
	require.NoError(t, err)
	require.True(t, alloc.Overhead.Amount.IsPositive())
	require.True(t, alloc.Profit.Amount.IsPositive())

	got, err := ComputeActualSpending(d("800"), alloc.Misc.Amount, alloc.Transport.Amount)
	require.NoError(t, err)
	assertMoney(t, "920", got)
}

func TestComputeActualSpending_RejectsNegative(t *testing.T) {
	tests := []struct {
		name      string
		base      string
		misc      string
		transport string
		field     string
	}{
		{"negative base", "-800", "0", "0", "base_cost"},
		{"negative misc", "800", "-80", "40", "miscellaneous_amount"},
		{"negative transport", "800", "80", "-40", "transport_amount"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ComputeActualSpending(d(tt.base), d(tt.misc), d(tt.transport))
			var ve *ValidationError
			require.True(t, errors.As(err, &ve), "expected ValidationError, got %v", err)
			assert.Equal(t, tt.field, ve.Field)
			assert.ErrorIs(t, err, ErrNegativeAmount)
		})
	}
}

func TestCostComponents_Validate(t *testing.T) {
	tests := []struct {
		name  string
		c     CostComponents
		field string
		err   error
	}{
		{"missing materials", CostComponents{LabourTotal: nd("1")}, "materials_total", ErrMissingField},
		{"missing labour", CostComponents{MaterialsTotal: nd("1")}, "labour_total", ErrMissingField},
		{"negative labour", CostComponents{MaterialsTotal: nd("1"), LabourTotal: nd("-1")}, "labour_total", ErrNegativeAmount},
		{
			"negative misc",
			CostComponents{MaterialsTotal: nd("1"), LabourTotal: nd("1"), MiscellaneousAmount: nd("-2")},
			"miscellaneous_amount",
			ErrNegativeAmount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.c.Validate()
			var ve *ValidationError
			require.True(t, errors.As(err, &ve), "expected ValidationError, got %v", err)
			assert.Equal(t, tt.field, ve.Field)
			assert.ErrorIs(t, err, tt.err)
		})
	}

	assert.NoError(t, sampleItem().Planned.Validate())
}

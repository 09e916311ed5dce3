package reconcile

import (
	"testing"

	"github.com/shopspring/decimal"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func nd(s string) decimal.NullDecimal {
	return Amount(d(s))
}

func assertMoney(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...any) {
	t.Helper()
	if !got.Equal(d(want)) {
		t.Errorf("got %s, want %s %v", got.String(), want, msgAndArgs)
	}
}

// sampleItem is the worked example: materials 500, labour 300, misc 10%,
// transport 5%, planned overhead and profit of 100 each.
func sampleItem() LineItem {
	return LineItem{
		ID:          "item-1",
		Description: "RCC footing",
		Planned: CostComponents{
			MaterialsTotal:          nd("500"),
			LabourTotal:             nd("300"),
			MiscellaneousPercentage: nd("10"),
			OverheadAmount:          nd("100"),
			ProfitAmount:            nd("100"),
			TransportPercentage:     nd("5"),
		},
		Actual: CostComponents{
			MaterialsTotal:          nd("500"),
			LabourTotal:             nd("300"),
			MiscellaneousPercentage: nd("10"),
			OverheadAmount:          nd("100"),
			ProfitAmount:            nd("100"),
			TransportPercentage:     nd("5"),
		},
	}
}

package reconcile

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// ComputeClientPays returns cost - discount. An absent discount contributes
// nothing.
func ComputeClientPays(clientCostBeforeDiscount decimal.Decimal, discountAmount decimal.NullDecimal) (decimal.Decimal, error) {
	if err := nonNegative("client_cost_before_discount", clientCostBeforeDiscount); err != nil {
		return decimal.Zero, err
	}
	if !discountAmount.Valid {
		return clientCostBeforeDiscount, nil
	}
	if err := nonNegative("discount_amount", discountAmount.Decimal); err != nil {
		return decimal.Zero, err
	}
	if discountAmount.Decimal.GreaterThan(clientCostBeforeDiscount) {
		return decimal.Zero, invalid("discount_amount", ErrDiscountExceedsCost)
	}
	return clientCostBeforeDiscount.Sub(discountAmount.Decimal), nil
}

// ComputeNegotiableMargin is clientPays - actualSpending. A negative result is
// a loss and is returned as-is; negative inputs are rejected.
func ComputeNegotiableMargin(clientPays, actualSpending decimal.Decimal) (decimal.Decimal, error) {
	if err := nonNegative("client_pays", clientPays); err != nil {
		return decimal.Zero, err
	}
	if err := nonNegative("actual_spending", actualSpending); err != nil {
		return decimal.Zero, err
	}
	return clientPays.Sub(actualSpending), nil
}

// ComputeOverheadProfitAllocation is the O&P share of what the client pays.
func ComputeOverheadProfitAllocation(clientPays, overheadProfitPercentage decimal.Decimal) (decimal.Decimal, error) {
	if err := optionalPercentage("overhead_profit_percentage", Amount(overheadProfitPercentage), true); err != nil {
		return decimal.Zero, err
	}
	return percentOf(clientPays, overheadProfitPercentage), nil
}

// ComputeActualMargin is the O&P allocation plus the negotiable margin.
func ComputeActualMargin(clientPays, overheadProfitPercentage, negotiableMargin decimal.Decimal) (decimal.Decimal, error) {
	op, err := ComputeOverheadProfitAllocation(clientPays, overheadProfitPercentage)
	if err != nil {
		return decimal.Zero, err
	}
	return op.Add(negotiableMargin), nil
}

// Percentage is a ratio that may be undefined (zero denominator).
type Percentage struct {
	Value   decimal.Decimal
	Defined bool
}

func Undefined() Percentage {
	return Percentage{}
}

// MarginPercentage is margin / grandTotal * 100, undefined when grandTotal is zero.
func MarginPercentage(margin, grandTotal decimal.Decimal) Percentage {
	if grandTotal.IsZero() {
		return Undefined()
	}
	return Percentage{Value: margin.Mul(hundred).Div(grandTotal), Defined: true}
}

func (p Percentage) String() string {
	if !p.Defined {
		return "N/A"
	}
	return p.Value.StringFixed(2) + "%"
}

// MarshalJSON encodes an undefined percentage as null.
func (p Percentage) MarshalJSON() ([]byte, error) {
	if !p.Defined {
		return []byte("null"), nil
	}
	return json.Marshal(p.Value)
}

func (p *Percentage) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*p = Undefined()
		return nil
	}
	if err := json.Unmarshal(data, &p.Value); err != nil {
		return err
	}
	p.Defined = true
	return nil
}

func (p Percentage) rounded(places int32) Percentage {
	if !p.Defined {
		return p
	}
	return Percentage{Value: p.Value.Round(places), Defined: true}
}

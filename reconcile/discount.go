package reconcile

import "github.com/shopspring/decimal"

// DiscountTerms is the discount as entered: a percentage, an amount, or both.
type DiscountTerms struct {
	Percentage decimal.NullDecimal `json:"discount_percentage"`
	Amount     decimal.NullDecimal `json:"discount_amount"`
}

// Applies reports whether any discount was supplied. A nil receiver means
// no discount, which is different from a discount that computes to zero.
func (t *DiscountTerms) Applies() bool {
	return t != nil && (t.Percentage.Valid || t.Amount.Valid)
}

// DiscountDetails is a fully resolved discount.
type DiscountDetails struct {
	ClientCostBeforeDiscount decimal.Decimal `json:"client_cost_before_discount"`
	DiscountPercentage       decimal.Decimal `json:"discount_percentage"`
	DiscountAmount           decimal.Decimal `json:"discount_amount"`
	GrandTotalAfterDiscount  decimal.Decimal `json:"grand_total_after_discount"`
}

// Validate checks grand_total = cost - amount and amount = cost * pct / 100,
// both within a one-cent tolerance.
func (d DiscountDetails) Validate() error {
	if err := nonNegative("client_cost_before_discount", d.ClientCostBeforeDiscount); err != nil {
		return err
	}
	if err := nonNegative("discount_amount", d.DiscountAmount); err != nil {
		return err
	}
	if err := optionalPercentage("discount_percentage", Amount(d.DiscountPercentage), true); err != nil {
		return err
	}
	want := d.ClientCostBeforeDiscount.Sub(d.DiscountAmount)
	if want.Sub(d.GrandTotalAfterDiscount).Abs().GreaterThan(discountTolerance) {
		return invalid("grand_total_after_discount", ErrDiscountMismatch)
	}
	wantAmount := percentOf(d.ClientCostBeforeDiscount, d.DiscountPercentage)
	if wantAmount.Sub(d.DiscountAmount).Abs().GreaterThan(discountTolerance) {
		return invalid("discount_amount", ErrDiscountMismatch)
	}
	return nil
}

func (d DiscountDetails) rounded(places int32) DiscountDetails {
	return DiscountDetails{
		ClientCostBeforeDiscount: d.ClientCostBeforeDiscount.Round(places),
		DiscountPercentage:       d.DiscountPercentage.Round(places),
		DiscountAmount:           d.DiscountAmount.Round(places),
		GrandTotalAfterDiscount:  d.GrandTotalAfterDiscount.Round(places),
	}
}

// ComputeDiscount resolves terms against the undiscounted client cost.
// An explicit amount wins and back-fills the percentage; otherwise the amount
// is derived from the percentage.
func ComputeDiscount(clientCostBeforeDiscount decimal.Decimal, terms DiscountTerms) (DiscountDetails, error) {
	if err := nonNegative("client_cost_before_discount", clientCostBeforeDiscount); err != nil {
		return DiscountDetails{}, err
	}
	if err := optionalAmount("discount_amount", terms.Amount); err != nil {
		return DiscountDetails{}, err
	}
	if err := optionalPercentage("discount_percentage", terms.Percentage, true); err != nil {
		return DiscountDetails{}, err
	}

	var amount, pct decimal.Decimal
	switch {
	case terms.Amount.Valid:
		amount = terms.Amount.Decimal
		if amount.GreaterThan(clientCostBeforeDiscount) {
			return DiscountDetails{}, invalid("discount_amount", ErrDiscountExceedsCost)
		}
		if !clientCostBeforeDiscount.IsZero() {
			pct = amount.Mul(hundred).Div(clientCostBeforeDiscount)
		}
	case terms.Percentage.Valid:
		pct = terms.Percentage.Decimal
		amount = percentOf(clientCostBeforeDiscount, pct)
	}

	return DiscountDetails{
		ClientCostBeforeDiscount: clientCostBeforeDiscount,
		DiscountPercentage:       pct,
		DiscountAmount:           amount,
		GrandTotalAfterDiscount:  clientCostBeforeDiscount.Sub(amount),
	}, nil
}

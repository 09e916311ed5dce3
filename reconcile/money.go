package reconcile

import "github.com/shopspring/decimal"

var (
	hundred           = decimal.NewFromInt(100)
	discountTolerance = decimal.New(1, -2)
)

// percentOf returns base * pct / 100 without intermediate rounding.
func percentOf(base, pct decimal.Decimal) decimal.Decimal {
	return base.Mul(pct).Div(hundred)
}

func nonNegative(field string, v decimal.Decimal) error {
	if v.IsNegative() {
		return invalid(field, ErrNegativeAmount)
	}
	return nil
}

func required(field string, v decimal.NullDecimal) (decimal.Decimal, error) {
	if !v.Valid {
		return decimal.Zero, invalid(field, ErrMissingField)
	}
	if err := nonNegative(field, v.Decimal); err != nil {
		return decimal.Zero, err
	}
	return v.Decimal, nil
}

func optionalAmount(field string, v decimal.NullDecimal) error {
	if v.Valid {
		return nonNegative(field, v.Decimal)
	}
	return nil
}

func optionalPercentage(field string, v decimal.NullDecimal, capped bool) error {
	if !v.Valid {
		return nil
	}
	if v.Decimal.IsNegative() {
		if capped {
			return invalid(field, ErrPercentageRange)
		}
		return invalid(field, ErrNegativePercentage)
	}
	if capped && v.Decimal.GreaterThan(hundred) {
		return invalid(field, ErrPercentageRange)
	}
	return nil
}

// Amount wraps a known value as a present optional.
func Amount(v decimal.Decimal) decimal.NullDecimal {
	return decimal.NewNullDecimal(v)
}

// Absent is the explicit "no value supplied" optional.
func Absent() decimal.NullDecimal {
	return decimal.NullDecimal{}
}

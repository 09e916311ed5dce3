package services

import (
	"strings"

	"github.com/shopspring/decimal"

	"boqtracker/reconcile"
)

// FormatMoney formats an amount with the given currency symbol using the
// Indian numbering system: after the rightmost 3 digits, digits are grouped
// in pairs (e.g., ₹1,23,45,678.90). The result always has 2 decimal places.
func FormatMoney(amount decimal.Decimal, symbol string) string {
	negative := amount.IsNegative()
	raw := amount.Abs().StringFixed(2)

	parts := strings.SplitN(raw, ".", 2)
	result := symbol + applyIndianGrouping(parts[0]) + "." + parts[1]
	if negative {
		result = "-" + result
	}
	return result
}

// FormatPercentage renders a margin percentage, "N/A" when it is undefined.
func FormatPercentage(p reconcile.Percentage) string {
	return p.String()
}

// applyIndianGrouping inserts commas into an integer string using the
// Indian numbering system: the rightmost 3 digits form the first group,
// then every 2 digits form subsequent groups.
func applyIndianGrouping(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}

	result := s[n-3:]
	remaining := s[:n-3]

	for len(remaining) > 2 {
		result = remaining[len(remaining)-2:] + "," + result
		remaining = remaining[:len(remaining)-2]
	}
	if len(remaining) > 0 {
		result = remaining + "," + result
	}

	return result
}

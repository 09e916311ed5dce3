package services

import (
	"strconv"

	"github.com/shopspring/decimal"

	"boqtracker/reconcile"
)

// ReportRow is one BOQ item in a reconciliation report.
type ReportRow struct {
	Index            string
	Description      string
	PlannedTotal     decimal.Decimal
	ActualSpending   decimal.Decimal
	Variance         decimal.Decimal // planned minus actual base cost
	ClientPays       decimal.Decimal
	NegotiableMargin decimal.Decimal
	MarginPercentage reconcile.Percentage
}

// ReportMeta is the header information printed on every report format.
type ReportMeta struct {
	Title           string
	ReferenceNumber string
	CreatedDate     string
	CompanyName     string
	CurrencySymbol  string
}

// ReportData holds all data needed for a reconciliation report.
type ReportData struct {
	ReportMeta
	Rows []ReportRow

	PlannedTotal             decimal.Decimal
	ActualSpending           decimal.Decimal
	ClientCostBeforeDiscount decimal.Decimal
	DiscountPercentage       decimal.NullDecimal
	DiscountAmount           decimal.NullDecimal
	ClientPays               decimal.Decimal
	NegotiableMargin         decimal.Decimal
	OverheadProfitAllocation decimal.Decimal
	ActualMargin             decimal.Decimal
	MarginPercentage         reconcile.Percentage
}

// SummaryLine is a formatted label/value pair of the report summary.
type SummaryLine struct {
	Label string
	Value string
}

// BuildReportData maps engine output onto the report layout. It performs no
// arithmetic; every figure comes from totals.
func BuildReportData(meta ReportMeta, totals reconcile.ProjectTotals) ReportData {
	if meta.CurrencySymbol == "" {
		meta.CurrencySymbol = "₹"
	}

	data := ReportData{
		ReportMeta:               meta,
		Rows:                     make([]ReportRow, 0, len(totals.Items)),
		PlannedTotal:             totals.PlannedTotal,
		ActualSpending:           totals.ActualSpending,
		ClientCostBeforeDiscount: totals.PlannedTotal,
		ClientPays:               totals.ClientPays,
		NegotiableMargin:         totals.NegotiableMargin,
		OverheadProfitAllocation: totals.OverheadProfitAllocation,
		ActualMargin:             totals.ActualMargin,
		MarginPercentage:         totals.MarginPercentage,
	}
	if totals.Discount != nil {
		data.ClientCostBeforeDiscount = totals.Discount.ClientCostBeforeDiscount
		data.DiscountPercentage = decimal.NewNullDecimal(totals.Discount.DiscountPercentage)
		data.DiscountAmount = decimal.NewNullDecimal(totals.Discount.DiscountAmount)
	}

	for i, item := range totals.Items {
		data.Rows = append(data.Rows, ReportRow{
			Index:            strconv.Itoa(i + 1),
			Description:      item.Description,
			PlannedTotal:     item.PlannedTotal,
			ActualSpending:   item.ActualSpending,
			Variance:         item.Variance.BaseCost,
			ClientPays:       item.ClientPays,
			NegotiableMargin: item.NegotiableMargin,
			MarginPercentage: item.MarginPercentage,
		})
	}
	return data
}

// Money formats an amount with the report's currency symbol.
func (d ReportData) Money(amount decimal.Decimal) string {
	return FormatMoney(amount, d.CurrencySymbol)
}

// Summary returns the project-level lines shared by every report format.
func (d ReportData) Summary() []SummaryLine {
	lines := []SummaryLine{
		{"Planned Total", d.Money(d.PlannedTotal)},
		{"Actual Spending", d.Money(d.ActualSpending)},
	}
	if d.DiscountAmount.Valid {
		lines = append(lines,
			SummaryLine{"Client Cost Before Discount", d.Money(d.ClientCostBeforeDiscount)},
			SummaryLine{
				"Discount (" + d.DiscountPercentage.Decimal.StringFixed(2) + "%)",
				d.Money(d.DiscountAmount.Decimal),
			},
		)
	}
	lines = append(lines,
		SummaryLine{"Client Pays", d.Money(d.ClientPays)},
		SummaryLine{"Negotiable Margin", d.Money(d.NegotiableMargin)},
		SummaryLine{"O&P Allocation", d.Money(d.OverheadProfitAllocation)},
		SummaryLine{"Actual Margin", d.Money(d.ActualMargin)},
		SummaryLine{"Margin %", FormatPercentage(d.MarginPercentage)},
	)
	return lines
}

// ClientPaysInWords spells out the amount the client is billed.
func (d ReportData) ClientPaysInWords() string {
	return AmountToWords(d.ClientPays)
}

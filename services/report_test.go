package services

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"boqtracker/reconcile"
)

func amount(s string) decimal.NullDecimal {
	return reconcile.Amount(decimal.RequireFromString(s))
}

// sampleTotals reconciles one item (planned 1000, actual spending 840) with a
// 10% project discount: client pays 900, margin 60.
func sampleTotals(t *testing.T, description string) reconcile.ProjectTotals {
	t.Helper()
	items := []reconcile.LineItem{{
		ID:          "item-1",
		Description: description,
		Planned: reconcile.CostComponents{
			MaterialsTotal:          amount("500"),
			LabourTotal:             amount("300"),
			MiscellaneousPercentage: amount("10"),
			OverheadAmount:          amount("50"),
			ProfitAmount:            amount("50"),
			TransportAmount:         amount("20"),
		},
		Actual: reconcile.CostComponents{
			MaterialsTotal:      amount("520"),
			LabourTotal:         amount("280"),
			MiscellaneousAmount: amount("30"),
			TransportAmount:     amount("10"),
		},
	}}
	terms := reconcile.ProjectTerms{
		Discount: &reconcile.DiscountTerms{Percentage: amount("10")},
	}

	totals, err := reconcile.New(2).Aggregate(items, terms)
	require.NoError(t, err)
	return totals
}

func sampleReport(t *testing.T, title, description string) ReportData {
	return BuildReportData(ReportMeta{
		Title:           title,
		ReferenceNumber: "REC-PRJ-1-26-27",
		CreatedDate:     "19 Oct 2026",
		CompanyName:     "Acme Builders",
	}, sampleTotals(t, description))
}

func TestBuildReportData(t *testing.T) {
	data := sampleReport(t, "Site A", "RCC footing")

	assert.Equal(t, "₹", data.CurrencySymbol, "default currency symbol")
	require.Len(t, data.Rows, 1)
	assert.Equal(t, "1", data.Rows[0].Index)
	assert.Equal(t, "RCC footing", data.Rows[0].Description)
	assert.True(t, data.Rows[0].PlannedTotal.Equal(decimal.NewFromInt(1000)))
	assert.True(t, data.Rows[0].ActualSpending.Equal(decimal.NewFromInt(840)))

	assert.True(t, data.ClientCostBeforeDiscount.Equal(decimal.NewFromInt(1000)))
	assert.True(t, data.DiscountAmount.Valid)
	assert.True(t, data.ClientPays.Equal(decimal.NewFromInt(900)))
	assert.True(t, data.NegotiableMargin.Equal(decimal.NewFromInt(60)))

	summary := map[string]string{}
	for _, line := range data.Summary() {
		summary[line.Label] = line.Value
	}
	assert.Equal(t, "₹1,000.00", summary["Planned Total"])
	assert.Equal(t, "₹100.00", summary["Discount (10.00%)"])
	assert.Equal(t, "₹900.00", summary["Client Pays"])
	assert.Equal(t, "₹60.00", summary["Negotiable Margin"])
	assert.Equal(t, "6.67%", summary["Margin %"])
	assert.Equal(t, "Nine Hundred Rupees Only/-", data.ClientPaysInWords())
}

func TestBuildReportData_NoDiscountNoItems(t *testing.T) {
	totals, err := reconcile.New(2).Aggregate(nil, reconcile.ProjectTerms{})
	require.NoError(t, err)

	data := BuildReportData(ReportMeta{Title: "Empty", CurrencySymbol: "Rs."}, totals)

	assert.Empty(t, data.Rows)
	assert.False(t, data.DiscountAmount.Valid)
	for _, line := range data.Summary() {
		assert.NotContains(t, line.Label, "Discount")
		if line.Label == "Margin %" {
			assert.Equal(t, "N/A", line.Value)
		}
	}
}

func TestGenerateReconciliationPDF(t *testing.T) {
	result, err := GenerateReconciliationPDF(sampleReport(t, "Site A", "RCC footing"))
	require.NoError(t, err)
	require.NotEmpty(t, result)
	assert.Equal(t, "%PDF-", string(result[:5]))
}

func TestGenerateReconciliationPDF_EmptyItems(t *testing.T) {
	totals, err := reconcile.New(2).Aggregate(nil, reconcile.ProjectTerms{})
	require.NoError(t, err)

	result, err := GenerateReconciliationPDF(BuildReportData(ReportMeta{Title: "Empty"}, totals))
	require.NoError(t, err)
	assert.NotEmpty(t, result)
}

func TestGenerateReconciliationExcel(t *testing.T) {
	result, err := GenerateReconciliationExcel(sampleReport(t, "Site A: Reconciliation", "=HYPERLINK(\"x\")"))
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(result))
	require.NoError(t, err)
	defer f.Close()

	sheet := f.GetSheetList()[0]
	assert.Equal(t, "Site A Reconciliation", sheet)

	title, _ := f.GetCellValue(sheet, "A1")
	assert.Equal(t, "Site A: Reconciliation", title)

	desc, _ := f.GetCellValue(sheet, "B6")
	assert.Equal(t, "'=HYPERLINK(\"x\")", desc)

	planned, _ := f.GetCellValue(sheet, "C6", excelize.Options{RawCellValue: true})
	assert.Equal(t, "1000", planned)
	actual, _ := f.GetCellValue(sheet, "D6", excelize.Options{RawCellValue: true})
	assert.Equal(t, "840", actual)
	pct, _ := f.GetCellValue(sheet, "G6")
	assert.Equal(t, "16.00%", pct)
}

func TestExcelSheetName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "Site A", "Site A"},
		{"invalid chars", "A/B: [C]?*", "AB C"},
		{"empty", "  ", "Reconciliation"},
		{"long", strings.Repeat("x", 40), strings.Repeat("x", 31)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, excelSheetName(tt.input))
		})
	}
}

func TestSanitizeExcelCell(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", ""},
		{"Hello", "Hello"},
		{"=SUM(A1:A10)", "'=SUM(A1:A10)"},
		{"+1234", "'+1234"},
		{"-100", "'-100"},
		{"@import", "'@import"},
		{"|command", "'|command"},
	}

	for _, tt := range tests {
		if got := sanitizeExcelCell(tt.input); got != tt.want {
			t.Errorf("sanitizeExcelCell(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestReconciliationHTML(t *testing.T) {
	var buf bytes.Buffer
	err := ReconciliationHTML(sampleReport(t, "Site <A>", "Beams & columns")).Render(context.Background(), &buf)
	require.NoError(t, err)

	html := buf.String()
	assert.Contains(t, html, "<h1>Site &lt;A&gt;</h1>")
	assert.Contains(t, html, "Beams &amp; columns")
	assert.Contains(t, html, "₹1,000.00")
	assert.Contains(t, html, "₹900.00")
	assert.Contains(t, html, "6.67%")
	assert.NotContains(t, html, "<A>")
}

package services

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
	"github.com/shopspring/decimal"
)

// ReconciliationHTML renders the report as a standalone HTML page.
func ReconciliationHTML(data ReportData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		p := &htmlWriter{w: w}

		p.raw(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8"><title>`)
		p.text(data.Title)
		p.raw(`</title></head><body><main class="reconciliation">`)

		if data.CompanyName != "" {
			p.raw(`<p class="company">`)
			p.text(data.CompanyName)
			p.raw(`</p>`)
		}
		p.raw(`<h1>`)
		p.text(data.Title)
		p.raw(`</h1><p class="meta">Reference: `)
		p.text(data.ReferenceNumber)
		p.raw(` &middot; Date: `)
		p.text(data.CreatedDate)
		p.raw(`</p>`)

		p.raw(`<table class="items"><thead><tr><th>#</th><th>Description</th><th>Planned Total</th>` +
			`<th>Actual Spending</th><th>Variance</th><th>Margin</th><th>Margin %</th></tr></thead><tbody>`)
		for _, r := range data.Rows {
			p.raw(`<tr><td>`)
			p.text(r.Index)
			p.raw(`</td><td>`)
			p.text(r.Description)
			p.raw(`</td>`)
			p.amountCell(data, r.PlannedTotal)
			p.amountCell(data, r.ActualSpending)
			p.amountCell(data, r.Variance)
			p.amountCell(data, r.NegotiableMargin)
			p.raw(`<td class="pct">`)
			p.text(FormatPercentage(r.MarginPercentage))
			p.raw(`</td></tr>`)
		}
		if len(data.Rows) == 0 {
			p.raw(`<tr><td colspan="7">No items</td></tr>`)
		}
		p.raw(`</tbody></table>`)

		p.raw(`<table class="summary"><tbody>`)
		for _, line := range data.Summary() {
			p.raw(`<tr><th>`)
			p.text(line.Label)
			p.raw(`</th><td>`)
			p.text(line.Value)
			p.raw(`</td></tr>`)
		}
		p.raw(`</tbody></table><p class="words">Client pays: `)
		p.text(data.ClientPaysInWords())
		p.raw(`</p></main></body></html>`)

		return p.err
	})
}

// htmlWriter keeps the first write error so rendering reads top to bottom.
type htmlWriter struct {
	w   io.Writer
	err error
}

func (p *htmlWriter) raw(s string) {
	if p.err != nil {
		return
	}
	_, p.err = io.WriteString(p.w, s)
}

func (p *htmlWriter) text(s string) {
	p.raw(templ.EscapeString(s))
}

func (p *htmlWriter) amountCell(data ReportData, d decimal.Decimal) {
	class := "amount"
	if d.IsNegative() {
		class = "amount negative"
	}
	p.raw(fmt.Sprintf(`<td class="%s">`, class))
	p.text(data.Money(d))
	p.raw(`</td>`)
}

package services

import (
	"fmt"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"
)

var (
	mutedColor    = &props.Color{Red: 80, Green: 80, Blue: 80}
	negativeColor = &props.Color{Red: 185, Green: 28, Blue: 28}
)

// GenerateReconciliationPDF renders a planned-vs-actual report using maroto/v2.
// It returns the raw PDF bytes or an error.
func GenerateReconciliationPDF(data ReportData) ([]byte, error) {
	cfg := config.NewBuilder().
		WithOrientation(orientation.Horizontal).
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).
		WithTopMargin(10).
		WithRightMargin(10).
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
			Size:    7,
			Color:   &props.Color{Red: 120, Green: 120, Blue: 120},
		}).
		Build()

	m := maroto.New(cfg)

	addHeader(m, data)
	addTableHeader(m)
	for i, r := range data.Rows {
		addTableRow(m, data, r, i%2 == 1)
	}
	addSummary(m, data)
	addFooter(m, data)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}

	return doc.GetBytes(), nil
}

func addHeader(m core.Maroto, data ReportData) {
	if data.CompanyName != "" {
		m.AddRows(
			row.New(8).Add(
				col.New(12).Add(
					text.New(data.CompanyName, props.Text{Size: 10, Align: align.Center, Color: mutedColor}),
				),
			),
		)
	}

	m.AddRows(
		row.New(12).Add(
			col.New(12).Add(
				text.New(data.Title, props.Text{
					Size:  16,
					Style: fontstyle.Bold,
					Align: align.Center,
				}),
			),
		),
	)

	m.AddRows(
		row.New(8).Add(
			col.New(6).Add(
				text.New(fmt.Sprintf("Reference: %s", data.ReferenceNumber), props.Text{
					Size:  9,
					Align: align.Left,
					Color: mutedColor,
				}),
			),
			col.New(6).Add(
				text.New(fmt.Sprintf("Date: %s", data.CreatedDate), props.Text{
					Size:  9,
					Align: align.Right,
					Color: mutedColor,
				}),
			),
		),
	)

	m.AddRows(row.New(4))
}

func addTableHeader(m core.Maroto) {
	headerText := props.Text{
		Size:  8,
		Style: fontstyle.Bold,
		Align: align.Center,
		Color: &props.Color{Red: 255, Green: 255, Blue: 255},
	}
	headerTextLeft := headerText
	headerTextLeft.Align = align.Left

	headerCell := &props.Cell{BackgroundColor: &props.Color{Red: 33, Green: 37, Blue: 41}}

	m.AddRows(
		row.New(8).Add(
			col.New(1).Add(text.New("#", headerText)).WithStyle(headerCell),
			col.New(3).Add(text.New("Description", headerTextLeft)).WithStyle(headerCell),
			col.New(2).Add(text.New("Planned Total", headerText)).WithStyle(headerCell),
			col.New(2).Add(text.New("Actual Spending", headerText)).WithStyle(headerCell),
			col.New(2).Add(text.New("Variance", headerText)).WithStyle(headerCell),
			col.New(1).Add(text.New("Margin", headerText)).WithStyle(headerCell),
			col.New(1).Add(text.New("Margin %", headerText)).WithStyle(headerCell),
		),
	)
}

// addTableRow adds one item row; alternate rows get a light gray background
// and negative figures are printed in red.
func addTableRow(m core.Maroto, data ReportData, r ReportRow, shaded bool) {
	baseText := props.Text{Size: 7, Align: align.Center}
	leftText := baseText
	leftText.Align = align.Left
	rightText := baseText
	rightText.Align = align.Right

	amount := func(size int, v decimal.Decimal) core.Col {
		style := rightText
		if v.IsNegative() {
			style.Color = negativeColor
		}
		return col.New(size).Add(text.New(data.Money(v), style))
	}

	cols := []core.Col{
		col.New(1).Add(text.New(r.Index, baseText)),
		col.New(3).Add(text.New(r.Description, leftText)),
		amount(2, r.PlannedTotal),
		amount(2, r.ActualSpending),
		amount(2, r.Variance),
		amount(1, r.NegotiableMargin),
		col.New(1).Add(text.New(FormatPercentage(r.MarginPercentage), rightText)),
	}

	if shaded {
		cellStyle := &props.Cell{BackgroundColor: &props.Color{Red: 245, Green: 245, Blue: 245}}
		for i := range cols {
			cols[i] = cols[i].WithStyle(cellStyle)
		}
	}

	m.AddRows(row.New(7).Add(cols...))
}

func addSummary(m core.Maroto, data ReportData) {
	m.AddRows(row.New(6))

	summaryCell := &props.Cell{BackgroundColor: &props.Color{Red: 240, Green: 240, Blue: 240}}
	style := props.Text{
		Size:  9,
		Style: fontstyle.Bold,
		Align: align.Right,
	}

	for _, line := range data.Summary() {
		m.AddRows(
			row.New(8).Add(
				col.New(8).Add(text.New(line.Label, style)).WithStyle(summaryCell),
				col.New(4).Add(text.New(line.Value, style)).WithStyle(summaryCell),
			),
		)
	}

	m.AddRows(
		row.New(7).Add(
			col.New(12).Add(
				text.New("Client pays: "+data.ClientPaysInWords(), props.Text{
					Size:  8,
					Style: fontstyle.Italic,
					Align: align.Right,
					Color: mutedColor,
				}),
			),
		),
	)
}

func addFooter(m core.Maroto, data ReportData) {
	m.AddRows(row.New(6))
	m.AddRows(
		row.New(6).Add(
			col.New(12).Add(
				text.New(
					fmt.Sprintf("Generated on %s", data.CreatedDate),
					props.Text{
						Size:  7,
						Align: align.Left,
						Color: &props.Color{Red: 140, Green: 140, Blue: 140},
					},
				),
			),
		),
	)
}

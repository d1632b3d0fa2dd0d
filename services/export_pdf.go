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
)

// pdfColumn is one column of a quotation table.
type pdfColumn struct {
	title string
	size  int
	align align.Type
}

var infraPDFColumns = []pdfColumn{
	{"#", 1, align.Center},
	{"Server", 3, align.Left},
	{"Resources", 3, align.Left},
	{"Qty", 1, align.Right},
	{"Unit Price", 2, align.Right},
	{"Total", 2, align.Right},
}

var laborPDFColumns = []pdfColumn{
	{"#", 1, align.Center},
	{"Task", 4, align.Left},
	{"Role", 2, align.Left},
	{"Mandays", 1, align.Right},
	{"Daily Rate", 2, align.Right},
	{"Cost", 2, align.Right},
}

// GeneratePDF renders a printable quotation using maroto/v2 and returns the
// raw PDF bytes.
func GeneratePDF(data ExportData) ([]byte, error) {
	cfg := config.NewBuilder().
		WithOrientation(orientation.Vertical).
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

	addSectionTitle(m, "Infrastructure (monthly)")
	addTableHeader(m, infraPDFColumns)
	for _, r := range data.InfraRows {
		addTableRow(m, infraPDFColumns, []string{
			r.Index,
			r.Name + " / " + r.OperatingSystem,
			FormatResources(r.Resources) + " " + r.StorageTier,
			fmt.Sprintf("%d", r.Quantity),
			FormatVNDCode(r.UnitPrice),
			FormatVNDCode(r.TotalPrice),
		}, nil)
	}

	addSectionTitle(m, "Labor")
	addTableHeader(m, laborPDFColumns)
	autoBg := &props.Cell{BackgroundColor: &props.Color{Red: 242, Green: 242, Blue: 242}}
	for _, r := range data.LaborRows {
		var style *props.Cell
		if r.Auto {
			style = autoBg
		}
		addTableRow(m, laborPDFColumns, []string{
			r.Index,
			r.TaskName,
			r.Role,
			FormatMandays(r.Mandays),
			FormatVNDCode(r.Rate),
			FormatVNDCode(r.Cost),
		}, style)
	}

	addSummary(m, data)
	addFooter(m, data)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}

	return doc.GetBytes(), nil
}

// addHeader adds the title, client, reference number and date to the PDF.
func addHeader(m core.Maroto, data ExportData) {
	m.AddRows(
		row.New(12).Add(
			col.New(12).Add(
				text.New("QUOTATION: "+data.Title, props.Text{
					Size:  16,
					Style: fontstyle.Bold,
					Align: align.Center,
				}),
			),
		),
	)

	grey := &props.Color{Red: 80, Green: 80, Blue: 80}
	m.AddRows(
		row.New(8).Add(
			col.New(4).Add(
				text.New(fmt.Sprintf("Client: %s", data.ClientName), props.Text{Size: 9, Align: align.Left, Color: grey}),
			),
			col.New(4).Add(
				text.New(fmt.Sprintf("Reference: %s", data.ReferenceNumber), props.Text{Size: 9, Align: align.Center, Color: grey}),
			),
			col.New(4).Add(
				text.New(fmt.Sprintf("Date: %s", data.CreatedDate), props.Text{Size: 9, Align: align.Right, Color: grey}),
			),
		),
	)

	m.AddRows(row.New(4))
}

func addSectionTitle(m core.Maroto, title string) {
	m.AddRows(row.New(4))
	m.AddRows(
		row.New(8).Add(
			col.New(12).Add(
				text.New(title, props.Text{Size: 11, Style: fontstyle.Bold, Align: align.Left}),
			),
		),
	)
}

// addTableHeader adds a dark header row for the given columns.
func addTableHeader(m core.Maroto, cols []pdfColumn) {
	headerCell := props.Cell{BackgroundColor: &props.Color{Red: 33, Green: 37, Blue: 41}}

	r := row.New(8)
	for _, c := range cols {
		r.Add(col.New(c.size).Add(
			text.New(c.title, props.Text{
				Size:  8,
				Style: fontstyle.Bold,
				Align: c.align,
				Color: &props.Color{Red: 255, Green: 255, Blue: 255},
			}),
		).WithStyle(&headerCell))
	}
	m.AddRows(r)
}

// addTableRow adds one data row; style, when set, is applied to every cell.
func addTableRow(m core.Maroto, cols []pdfColumn, values []string, style *props.Cell) {
	r := row.New(10)
	for i, c := range cols {
		v := ""
		if i < len(values) {
			v = values[i]
		}
		cc := col.New(c.size).Add(text.New(v, props.Text{Size: 7, Align: c.align}))
		if style != nil {
			cc = cc.WithStyle(style)
		}
		r.Add(cc)
	}
	m.AddRows(r)
}

// addSummary adds the totals section at the bottom of the PDF.
func addSummary(m core.Maroto, data ExportData) {
	m.AddRows(row.New(6))

	summaryCell := &props.Cell{BackgroundColor: &props.Color{Red: 240, Green: 240, Blue: 240}}
	labelStyle := props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right}
	valueStyle := props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right}

	lines := []struct {
		label string
		value float64
	}{
		{"Infrastructure (monthly)", data.InfraMonthly},
		{"Labor (manual)", data.ManualLabor},
		{"Auto staffing (PM/BA/QA)", data.AutoStaffingCost},
		{"Grand Total", data.GrandTotal},
	}
	for _, l := range lines {
		m.AddRows(
			row.New(8).Add(
				col.New(8).Add(text.New(l.label, labelStyle)).WithStyle(summaryCell),
				col.New(4).Add(text.New(FormatVNDCode(l.value), valueStyle)).WithStyle(summaryCell),
			),
		)
	}
}

// addFooter adds the generated-date line at the bottom.
func addFooter(m core.Maroto, data ExportData) {
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

package receipt

import (
	"fmt"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/border"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

// Brand orange, #E16A03.
var (
	accent = &props.Color{Red: 225, Green: 106, Blue: 3}
	white  = &props.Color{Red: 255, Green: 255, Blue: 255}
	muted  = &props.Color{Red: 150, Green: 150, Blue: 150}
)

// RenderPDF lays the receipt out on one A4 page and returns the PDF bytes.
func RenderPDF(r Receipt) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(20).
		WithTopMargin(15).
		WithRightMargin(20).
		Build()

	m := maroto.New(cfg)

	addPDFHeader(m, r)
	addPDFTable(m, r.Rows)
	addPDFSummary(m, r)
	addPDFFooter(m)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("generate receipt pdf: %w", err)
	}
	return doc.GetBytes(), nil
}

func addPDFHeader(m core.Maroto, r Receipt) {
	m.AddRows(
		row.New(12).Add(
			col.New(12).Add(
				text.New(Title, props.Text{
					Size:  20,
					Style: fontstyle.Bold,
					Align: align.Center,
					Color: accent,
				}),
			),
		),
	)

	meta := props.Text{Size: 12, Align: align.Left}
	m.AddRows(row.New(4))
	m.AddRows(row.New(7).Add(col.New(12).Add(text.New("Dato: "+FormatDate(r.Issued), meta))))
	m.AddRows(row.New(7).Add(col.New(12).Add(text.New("Destinasjon: "+r.Destination, meta))))
	if r.Reference != "" {
		ref := meta
		ref.Size = 9
		ref.Color = muted
		m.AddRows(row.New(6).Add(col.New(12).Add(text.New("Referanse: "+r.Reference, ref))))
	}
	m.AddRows(row.New(6))
}

func addPDFTable(m core.Maroto, rows []Row) {
	headCell := &props.Cell{BackgroundColor: accent, BorderType: border.Full, BorderColor: accent}
	head := props.Text{Size: 10, Style: fontstyle.Bold, Color: white, Align: align.Left, Left: 2}
	headRight := head
	headRight.Align = align.Right
	headRight.Right = 2

	m.AddRows(
		row.New(8).Add(
			col.New(6).Add(text.New(headerCategory, head)).WithStyle(headCell),
			col.New(3).Add(text.New(headerQuantity, headRight)).WithStyle(headCell),
			col.New(3).Add(text.New(headerLoadingMeters, headRight)).WithStyle(headCell),
		),
	)

	gridCell := &props.Cell{BorderType: border.Full, BorderColor: &props.Color{Red: 200, Green: 200, Blue: 200}}
	body := props.Text{Size: 10, Align: align.Left, Left: 2}
	bodyRight := body
	bodyRight.Align = align.Right
	bodyRight.Right = 2

	for _, r := range rows {
		m.AddRows(
			row.New(7).Add(
				col.New(6).Add(text.New(r.Category, body)).WithStyle(gridCell),
				col.New(3).Add(text.New(FormatQuantity(r.Quantity), bodyRight)).WithStyle(gridCell),
				col.New(3).Add(text.New(FormatLoadingMeters(r.LoadingMeters), bodyRight)).WithStyle(gridCell),
			),
		)
	}
}

func addPDFSummary(m core.Maroto, r Receipt) {
	m.AddRows(row.New(8))
	m.AddRows(
		row.New(9).Add(
			col.New(12).Add(text.New(SummaryHeading, props.Text{
				Size:  14,
				Style: fontstyle.Bold,
				Color: accent,
			})),
		),
	)

	lines := r.SummaryLines()
	total := lines[len(lines)-1]

	for _, line := range lines[:len(lines)-1] {
		m.AddRows(
			row.New(7).Add(
				col.New(8).Add(text.New(line.Label, props.Text{Size: 12})),
				col.New(4).Add(text.New(line.Value, props.Text{Size: 12, Align: align.Right})),
			),
		)
	}

	// Divider above the total.
	m.AddRows(row.New(0.5).Add(col.New(12).WithStyle(&props.Cell{BackgroundColor: accent})))
	m.AddRows(row.New(3))

	emph := props.Text{Size: 16, Style: fontstyle.Bold, Color: accent}
	emphRight := emph
	emphRight.Align = align.Right
	m.AddRows(
		row.New(9).Add(
			col.New(8).Add(text.New(total.Label, emph)),
			col.New(4).Add(text.New(total.Value, emphRight)),
		),
	)
}

func addPDFFooter(m core.Maroto) {
	m.AddRows(row.New(12))
	m.AddRows(
		row.New(6).Add(
			col.New(12).Add(text.New(Disclaimer, props.Text{
				Size:  9,
				Style: fontstyle.Italic,
				Align: align.Center,
				Color: muted,
			})),
		),
	)
}

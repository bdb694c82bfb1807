// Package receipt turns a shipping estimate into the customer-facing
// receipt and serializes it as text, PDF or XLSX.
package receipt

import (
	"fmt"
	"strings"
	"time"

	"github.com/Simplici0/fraktkalkulator/internal/pricing"
)

const (
	Title          = "Kvittering for Fraktberegning"
	SummaryHeading = "Oppsummering"
	Disclaimer     = "*Dette er en ca. utregning basert på varekategorier. Den faktiske fraktkostnaden kan endre seg ved bestilling."

	headerCategory      = "Varekategori"
	headerQuantity      = "Antall"
	headerLoadingMeters = "Lastemeter"

	basename = "Kvittering - Beregnet Frakt"
)

// Row is the per-category total on the receipt.
type Row struct {
	Category      string  `json:"category"`
	Quantity      float64 `json:"quantity"`
	LoadingMeters float64 `json:"loading_meters"`
}

// Line is one label/value pair of the summary block.
type Line struct {
	Label    string
	Value    string
	Emphasis bool
}

// Receipt is everything printed on an exported receipt.
type Receipt struct {
	Reference      string
	Issued         time.Time
	Destination    string
	HasLoadingRamp bool
	RampTracking   bool
	Rows           []Row
	Breakdown      pricing.Breakdown
}

// Aggregate groups line items by category in first-seen order. Lines with
// the placeholder or an unknown category, and lines whose quantity is not
// positive, are left out.
func Aggregate(items []pricing.LineItem) []Row {
	rows := make([]Row, 0, len(items))
	index := make(map[string]int, len(items))

	for _, item := range items {
		qty := pricing.ParseQuantity(item.Quantity)
		if qty <= 0 || !pricing.IsBillableCategory(item.Category) {
			continue
		}

		i, seen := index[item.Category]
		if !seen {
			i = len(rows)
			index[item.Category] = i
			rows = append(rows, Row{Category: item.Category})
		}
		rows[i].Quantity += qty
		rows[i].LoadingMeters += pricing.LineLoadingMeters(item)
	}

	return rows
}

// Build assembles the receipt for an already computed breakdown. Reference
// is left for the caller to fill in.
func Build(in pricing.Input, b pricing.Breakdown, opts pricing.Options, issued time.Time) Receipt {
	return Receipt{
		Issued:         issued,
		Destination:    in.Destination,
		HasLoadingRamp: in.HasLoadingRamp,
		RampTracking:   opts.RampTracking,
		Rows:           Aggregate(in.Items),
		Breakdown:      b,
	}
}

// SummaryLines lists the summary block in print order. Subtotal and
// surcharge only appear when a surcharge applies.
func (r Receipt) SummaryLines() []Line {
	b := r.Breakdown
	lines := []Line{
		{Label: "Total lastemeter (før avrunding):", Value: FormatLoadingMeters(b.RawLoadingMeters)},
		{Label: "Fakturerbare lastemeter:", Value: FormatLoadingMeters(b.BillableLoadingMeters)},
	}
	if r.RampTracking {
		lines = append(lines, Line{Label: "Lasterampe tilgjengelig:", Value: yesNo(r.HasLoadingRamp)})
	}
	if b.Surcharge > 0 {
		lines = append(lines,
			Line{Label: "Fraktpris (subtotal):", Value: FormatAmount(b.Subtotal)},
			Line{Label: "Påslag uten lasterampe:", Value: FormatAmount(b.Surcharge)},
		)
	}
	return append(lines, Line{Label: "Total fraktpris:", Value: FormatKroner(b.TotalCost), Emphasis: true})
}

// DocType is an export format.
type DocType string

const (
	DocPDF   DocType = "pdf"
	DocExcel DocType = "xlsx"
	DocText  DocType = "txt"
)

// ParseDocType accepts the file extension of a supported format.
func ParseDocType(s string) (DocType, error) {
	switch t := DocType(strings.ToLower(strings.TrimSpace(s))); t {
	case DocPDF, DocExcel, DocText:
		return t, nil
	case "":
		return DocPDF, nil
	}
	return "", fmt.Errorf("unsupported receipt format %q", s)
}

// ContentType is the MIME type of the format.
func (t DocType) ContentType() string {
	switch t {
	case DocExcel:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case DocText:
		return "text/plain; charset=utf-8"
	default:
		return "application/pdf"
	}
}

// Filename is the download name of the exported receipt.
func (t DocType) Filename() string {
	return basename + "." + string(t)
}

// Render serializes r in the given format.
func Render(r Receipt, t DocType) ([]byte, error) {
	switch t {
	case DocPDF:
		return RenderPDF(r)
	case DocExcel:
		return RenderExcel(r)
	case DocText:
		var sb strings.Builder
		if err := RenderText(&sb, r); err != nil {
			return nil, err
		}
		return []byte(sb.String()), nil
	}
	return nil, fmt.Errorf("unsupported receipt format %q", t)
}

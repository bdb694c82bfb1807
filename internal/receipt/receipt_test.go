package receipt

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/Simplici0/fraktkalkulator/internal/pricing"
)

var issued = time.Date(2026, time.October, 14, 9, 30, 0, 0, time.UTC)

func sampleInput(ramp bool) pricing.Input {
	return pricing.Input{
		Items: []pricing.LineItem{
			{Quantity: "3", Category: "Hev/senk-skrivebord"},
			{Quantity: "2", Category: "Kontorstol"},
			{Quantity: "", Category: "Sofa"},
			{Quantity: "5", Category: pricing.PlaceholderCategory},
			{Quantity: "1,5", Category: "Hev/senk-skrivebord"},
			{Quantity: "4", Category: "Flygel"},
		},
		Destination:    "Tønsberg",
		HasLoadingRamp: ramp,
	}
}

func sampleReceipt(t *testing.T, ramp bool) Receipt {
	t.Helper()
	in := sampleInput(ramp)
	opts := pricing.DefaultOptions()
	r := Build(in, pricing.Calculate(in, opts), opts, issued)
	r.Reference = "6f1c2a9e-0000-4000-8000-000000000001"
	return r
}

func TestAggregate_GroupsInFirstSeenOrder(t *testing.T) {
	rows := Aggregate(sampleInput(true).Items)

	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %+v", rows)
	}
	if rows[0].Category != "Hev/senk-skrivebord" || rows[1].Category != "Kontorstol" {
		t.Fatalf("unexpected order: %+v", rows)
	}
	if rows[0].Quantity != 4.5 || rows[0].LoadingMeters != 2.25 {
		t.Fatalf("unexpected desk totals: %+v", rows[0])
	}
	if rows[1].Quantity != 2 {
		t.Fatalf("unexpected chair totals: %+v", rows[1])
	}
}

func TestAggregate_Empty(t *testing.T) {
	rows := Aggregate([]pricing.LineItem{{Quantity: "0", Category: "Sofa"}, {Quantity: "-2", Category: "Sofa"}})
	if len(rows) != 0 {
		t.Fatalf("expected no rows, got %+v", rows)
	}
}

func TestFormatters(t *testing.T) {
	const nbsp = "\u00a0"
	tests := []struct {
		name string
		got  string
		want string
	}{
		{"kroner zero", FormatKroner(0), "0 kr"},
		{"kroner grouped", FormatKroner(3250), "3" + nbsp + "250 kr"},
		{"kroner rounds half up", FormatKroner(812.5), "813 kr"},
		{"kroner millions", FormatKroner(1234567), "1" + nbsp + "234" + nbsp + "567 kr"},
		{"amount whole", FormatAmount(2500), "2" + nbsp + "500 kr"},
		{"amount fraction", FormatAmount(812.5), "812,5 kr"},
		{"amount cents", FormatAmount(812.25), "812,25 kr"},
		{"meters", FormatLoadingMeters(1.5), "1,50"},
		{"meters zero", FormatLoadingMeters(0), "0,00"},
		{"quantity whole", FormatQuantity(3), "3"},
		{"quantity fraction", FormatQuantity(2.5), "2,5"},
		{"date", FormatDate(issued), "14.10.2026"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %q, want %q", tt.got, tt.want)
			}
		})
	}
}

func TestSummaryLines_HugeQuantityStaysPositive(t *testing.T) {
	in := pricing.Input{
		Items:       []pricing.LineItem{{Quantity: "1e20", Category: "Sofa"}},
		Destination: "Oslo",
	}
	opts := pricing.DefaultOptions()
	r := Build(in, pricing.Calculate(in, opts), opts, issued)

	lines := r.SummaryLines()
	for _, line := range lines {
		if strings.HasPrefix(line.Value, "-") {
			t.Fatalf("%s printed as %q", line.Label, line.Value)
		}
	}
	// 1 000 000 sofas x 650 plus the ramp surcharge.
	want := "650\u00a0002\u00a0500 kr"
	if got := lines[len(lines)-1].Value; got != want {
		t.Fatalf("total = %q, want %q", got, want)
	}
	if len(r.Rows) != 1 || r.Rows[0].Quantity != pricing.MaxQuantity {
		t.Fatalf("unexpected rows: %+v", r.Rows)
	}
}

func TestSummaryLines_RampSurchargeAddsSubtotalLines(t *testing.T) {
	with := sampleReceipt(t, false).SummaryLines()
	without := sampleReceipt(t, true).SummaryLines()

	if len(with) != 6 || len(without) != 4 {
		t.Fatalf("unexpected line counts: %d with surcharge, %d without", len(with), len(without))
	}
	if with[3].Label != "Fraktpris (subtotal):" || with[4].Label != "Påslag uten lasterampe:" {
		t.Fatalf("unexpected surcharge lines: %+v", with[3:5])
	}
	last := with[len(with)-1]
	if !last.Emphasis || last.Label != "Total fraktpris:" {
		t.Fatalf("total must be the emphasised last line: %+v", last)
	}
	if without[2].Value != "Ja" || with[2].Value != "Nei" {
		t.Fatalf("unexpected ramp values: %q / %q", without[2].Value, with[2].Value)
	}
}

func TestSummaryLines_NoRampLineWhenTrackingDisabled(t *testing.T) {
	in := sampleInput(false)
	opts := pricing.Options{Rounding: pricing.RoundCeiling}
	r := Build(in, pricing.Calculate(in, opts), opts, issued)

	for _, l := range r.SummaryLines() {
		if strings.HasPrefix(l.Label, "Lasterampe") || strings.HasPrefix(l.Label, "Påslag") {
			t.Fatalf("unexpected ramp line %+v", l)
		}
	}
}

func TestRenderText(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderText(&buf, sampleReceipt(t, false)); err != nil {
		t.Fatalf("RenderText: %v", err)
	}

	body := buf.String()
	for _, expected := range []string{
		Title,
		"Dato: 14.10.2026",
		"Destinasjon: Tønsberg",
		"Referanse: 6f1c2a9e",
		"Varekategori",
		"Hev/senk-skrivebord",
		"Total lastemeter (før avrunding): 2,45",
		"Fakturerbare lastemeter: 2,45",
		"Påslag uten lasterampe: 2\u00a0500 kr",
		"Total fraktpris: 3\u00a0725 kr",
		Disclaimer,
	} {
		if !strings.Contains(body, expected) {
			t.Fatalf("expected body to contain %q, got:\n%s", expected, body)
		}
	}
	if strings.Contains(body, "Flygel") || strings.Contains(body, pricing.PlaceholderCategory) {
		t.Fatalf("excluded categories leaked into receipt:\n%s", body)
	}
}

func TestRenderPDF(t *testing.T) {
	result, err := RenderPDF(sampleReceipt(t, false))
	if err != nil {
		t.Fatalf("RenderPDF() error = %v", err)
	}
	if len(result) < 5 || string(result[:5]) != "%PDF-" {
		t.Fatalf("result does not start with PDF header")
	}
}

func TestRenderPDF_NoRows(t *testing.T) {
	result, err := RenderPDF(Receipt{Issued: issued, Destination: "Oslo"})
	if err != nil {
		t.Fatalf("RenderPDF() error = %v", err)
	}
	if len(result) == 0 {
		t.Fatal("RenderPDF() returned empty bytes")
	}
}

func TestRenderExcel(t *testing.T) {
	result, err := RenderExcel(sampleReceipt(t, false))
	if err != nil {
		t.Fatalf("RenderExcel() error = %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(result))
	if err != nil {
		t.Fatalf("result is not valid Excel: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) != 1 || sheets[0] != sheetName {
		t.Fatalf("unexpected sheets %v", sheets)
	}

	cells := map[string]string{
		"A1": Title,
		"A2": "Dato: 14.10.2026",
		"A6": "Varekategori",
		"A7": "Hev/senk-skrivebord",
		"B7": "4.5",
		"A8": "Kontorstol",
	}
	for cell, want := range cells {
		got, err := f.GetCellValue(sheetName, cell)
		if err != nil {
			t.Fatalf("read %s: %v", cell, err)
		}
		if got != want {
			t.Errorf("%s = %q, want %q", cell, got, want)
		}
	}
}

func TestParseDocType(t *testing.T) {
	for input, want := range map[string]DocType{"pdf": DocPDF, "XLSX": DocExcel, " txt ": DocText, "": DocPDF} {
		got, err := ParseDocType(input)
		if err != nil || got != want {
			t.Fatalf("ParseDocType(%q) = %q, %v", input, got, err)
		}
	}
	if _, err := ParseDocType("docx"); err == nil {
		t.Fatalf("expected error for docx")
	}
	if DocPDF.Filename() != "Kvittering - Beregnet Frakt.pdf" {
		t.Fatalf("unexpected filename %q", DocPDF.Filename())
	}
}

func TestRender_DispatchesByType(t *testing.T) {
	r := sampleReceipt(t, true)
	for _, dt := range []DocType{DocPDF, DocExcel, DocText} {
		out, err := Render(r, dt)
		if err != nil {
			t.Fatalf("Render(%s): %v", dt, err)
		}
		if len(out) == 0 {
			t.Fatalf("Render(%s) returned no bytes", dt)
		}
	}
}

func TestSanitizeExcelCell(t *testing.T) {
	if got := sanitizeExcelCell("=SUM(A1)"); got != "'=SUM(A1)" {
		t.Fatalf("unexpected %q", got)
	}
	if got := sanitizeExcelCell("Sofa"); got != "Sofa" {
		t.Fatalf("unexpected %q", got)
	}
}

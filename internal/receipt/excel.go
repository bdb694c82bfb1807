package receipt

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/xuri/excelize/v2"
)

const sheetName = "Kvittering"

// RenderExcel writes the receipt to a single-sheet workbook. Quantities and
// loading meters are numeric cells; summary values are the formatted strings
// from the printed receipt.
func RenderExcel(r Receipt) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
		return nil, fmt.Errorf("set sheet name: %w", err)
	}

	for col, width := range map[string]float64{"A": 38, "B": 14, "C": 18} {
		if err := f.SetColWidth(sheetName, col, col, width); err != nil {
			return nil, fmt.Errorf("set col width %s: %w", col, err)
		}
	}

	styles, err := newExcelStyles(f)
	if err != nil {
		return nil, err
	}

	// Title and metadata.
	if err := f.MergeCell(sheetName, "A1", "C1"); err != nil {
		return nil, fmt.Errorf("merge title: %w", err)
	}
	f.SetCellValue(sheetName, "A1", Title)
	f.SetCellStyle(sheetName, "A1", "C1", styles.title)
	f.SetCellValue(sheetName, "A2", "Dato: "+FormatDate(r.Issued))
	f.SetCellValue(sheetName, "A3", "Destinasjon: "+sanitizeExcelCell(r.Destination))
	if r.Reference != "" {
		f.SetCellValue(sheetName, "A4", "Referanse: "+r.Reference)
	}

	// Category table from row 6.
	f.SetCellValue(sheetName, "A6", headerCategory)
	f.SetCellValue(sheetName, "B6", headerQuantity)
	f.SetCellValue(sheetName, "C6", headerLoadingMeters)
	f.SetCellStyle(sheetName, "A6", "C6", styles.header)

	line := 7
	for _, row := range r.Rows {
		n := strconv.Itoa(line)
		f.SetCellValue(sheetName, "A"+n, sanitizeExcelCell(row.Category))
		f.SetCellValue(sheetName, "B"+n, row.Quantity)
		f.SetCellValue(sheetName, "C"+n, row.LoadingMeters)
		f.SetCellStyle(sheetName, "A"+n, "B"+n, styles.cell)
		f.SetCellStyle(sheetName, "C"+n, "C"+n, styles.meters)
		line++
	}

	// Summary after a blank row.
	line++
	f.SetCellValue(sheetName, "A"+strconv.Itoa(line), SummaryHeading)
	f.SetCellStyle(sheetName, "A"+strconv.Itoa(line), "A"+strconv.Itoa(line), styles.heading)
	line++

	for _, l := range r.SummaryLines() {
		n := strconv.Itoa(line)
		f.SetCellValue(sheetName, "A"+n, l.Label)
		f.SetCellValue(sheetName, "C"+n, l.Value)
		if l.Emphasis {
			f.SetCellStyle(sheetName, "A"+n, "C"+n, styles.total)
		} else {
			f.SetCellStyle(sheetName, "C"+n, "C"+n, styles.value)
		}
		line++
	}

	line++
	f.SetCellValue(sheetName, "A"+strconv.Itoa(line), Disclaimer)
	f.SetCellStyle(sheetName, "A"+strconv.Itoa(line), "A"+strconv.Itoa(line), styles.disclaimer)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write receipt workbook: %w", err)
	}
	return buf.Bytes(), nil
}

type excelStyles struct {
	title, header, cell, meters, heading, value, total, disclaimer int
}

func newExcelStyles(f *excelize.File) (excelStyles, error) {
	var s excelStyles
	metersFmt := "0.00"

	defs := []struct {
		name  string
		dst   *int
		style *excelize.Style
	}{
		{"title", &s.title, &excelize.Style{
			Font: &excelize.Font{Bold: true, Size: 16, Color: "#E16A03"},
		}},
		{"header", &s.header, &excelize.Style{
			Font:   &excelize.Font{Bold: true, Color: "#FFFFFF"},
			Fill:   excelize.Fill{Type: "pattern", Color: []string{"#E16A03"}, Pattern: 1},
			Border: thinBorders(),
		}},
		{"cell", &s.cell, &excelize.Style{Border: thinBorders()}},
		{"meters", &s.meters, &excelize.Style{Border: thinBorders(), CustomNumFmt: &metersFmt}},
		{"heading", &s.heading, &excelize.Style{
			Font: &excelize.Font{Bold: true, Size: 14, Color: "#E16A03"},
		}},
		{"value", &s.value, &excelize.Style{
			Alignment: &excelize.Alignment{Horizontal: "right"},
		}},
		{"total", &s.total, &excelize.Style{
			Font:      &excelize.Font{Bold: true, Size: 14, Color: "#E16A03"},
			Alignment: &excelize.Alignment{Horizontal: "right"},
		}},
		{"disclaimer", &s.disclaimer, &excelize.Style{
			Font: &excelize.Font{Italic: true, Size: 9, Color: "#969696"},
		}},
	}

	for _, d := range defs {
		id, err := f.NewStyle(d.style)
		if err != nil {
			return s, fmt.Errorf("create %s style: %w", d.name, err)
		}
		*d.dst = id
	}
	return s, nil
}

// sanitizeExcelCell keeps user-influenced text from being read as a formula.
func sanitizeExcelCell(s string) string {
	if len(s) == 0 {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r', '|':
		return "'" + s
	}
	return s
}

func thinBorders() []excelize.Border {
	sides := []string{"left", "top", "bottom", "right"}
	borders := make([]excelize.Border, len(sides))
	for i, side := range sides {
		borders[i] = excelize.Border{Type: side, Color: "#000000", Style: 1}
	}
	return borders
}

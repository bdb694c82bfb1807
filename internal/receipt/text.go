package receipt

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
)

// RenderText writes the receipt as plain text.
func RenderText(w io.Writer, r Receipt) error {
	var b strings.Builder

	fmt.Fprintln(&b, Title)
	if r.Reference != "" {
		fmt.Fprintf(&b, "Referanse: %s\n", r.Reference)
	}
	fmt.Fprintf(&b, "Dato: %s\n", FormatDate(r.Issued))
	fmt.Fprintf(&b, "Destinasjon: %s\n\n", r.Destination)

	tw := tabwriter.NewWriter(&b, 0, 0, 3, ' ', 0)
	fmt.Fprintf(tw, "%s\t%s\t%s\t\n", headerCategory, headerQuantity, headerLoadingMeters)
	for _, row := range r.Rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\t\n", row.Category, FormatQuantity(row.Quantity), FormatLoadingMeters(row.LoadingMeters))
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("flush receipt table: %w", err)
	}

	fmt.Fprintf(&b, "\n%s\n", SummaryHeading)
	for _, line := range r.SummaryLines() {
		fmt.Fprintf(&b, "%s %s\n", line.Label, line.Value)
	}
	fmt.Fprintf(&b, "\n%s\n", Disclaimer)

	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("write text receipt: %w", err)
	}
	return nil
}

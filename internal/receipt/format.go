package receipt

import (
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// Norwegian (nb-NO) number layout: no-break space between thousands and a
// decimal comma.
const (
	wholeLayout   = "#\u00a0###,"
	twoDecLayout  = "#\u00a0###,##"
	currencyLabel = " kr"
)

// FormatKroner renders a total in whole kroner, e.g. "3 250 kr".
func FormatKroner(amount float64) string {
	return humanize.FormatFloat(wholeLayout, amount) + currencyLabel
}

// FormatAmount renders an amount with up to two decimals and no trailing
// zeros, e.g. "812,5 kr" or "2 500 kr".
func FormatAmount(amount float64) string {
	s := humanize.FormatFloat(twoDecLayout, amount)
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ",")
	return s + currencyLabel
}

// FormatLoadingMeters renders loading meters with exactly two decimals.
func FormatLoadingMeters(v float64) string {
	return humanize.FormatFloat(twoDecLayout, v)
}

// FormatQuantity renders a quantity without padding: "3", "2,5".
func FormatQuantity(v float64) string {
	return strings.Replace(strconv.FormatFloat(v, 'f', -1, 64), ".", ",", 1)
}

// FormatDate renders a date the way nb-NO does: "14.10.2026".
func FormatDate(t time.Time) string {
	return t.Format("02.01.2006")
}

func yesNo(v bool) string {
	if v {
		return "Ja"
	}
	return "Nei"
}

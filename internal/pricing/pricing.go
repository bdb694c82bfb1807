package pricing

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// LineItem is one product line as entered by the user. Quantity is kept as
// the raw text of the input field.
type LineItem struct {
	Quantity string `json:"quantity"`
	Category string `json:"category"`
}

// Input groups everything the shipping cost depends on.
type Input struct {
	Items          []LineItem
	Destination    string
	HasLoadingRamp bool
}

// Rounding selects how raw loading meters become billable loading meters.
type Rounding int

const (
	// RoundMinimumUnit keeps fractional meters but bills at least one full
	// loading meter for any non-empty shipment.
	RoundMinimumUnit Rounding = iota
	// RoundCeiling bills the next whole loading meter.
	RoundCeiling
)

func (r Rounding) String() string {
	switch r {
	case RoundCeiling:
		return "ceiling"
	default:
		return "minimum"
	}
}

// ParseRounding maps a configuration value to a Rounding.
func ParseRounding(s string) (Rounding, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "minimum", "minimum-unit":
		return RoundMinimumUnit, nil
	case "ceiling", "ceil":
		return RoundCeiling, nil
	}
	return RoundMinimumUnit, fmt.Errorf("unknown rounding policy %q", s)
}

// Options are the tool-wide pricing switches.
type Options struct {
	Rounding     Rounding
	RampTracking bool
}

// DefaultOptions bills a minimum of one loading meter and charges the ramp
// surcharge.
func DefaultOptions() Options {
	return Options{Rounding: RoundMinimumUnit, RampTracking: true}
}

// Breakdown contains every derived value of a shipping estimate.
type Breakdown struct {
	RawLoadingMeters      float64 `json:"raw_loading_meters"`
	BillableLoadingMeters float64 `json:"billable_loading_meters"`
	Subtotal              float64 `json:"subtotal"`
	Surcharge             float64 `json:"surcharge"`
	TotalCost             float64 `json:"total_cost"`
}

// MaxQuantity is the largest quantity a single line can carry. Larger
// entries are clamped so every derived amount stays printable.
const MaxQuantity = 1_000_000

var quantityPrefix = regexp.MustCompile(`^[+-]?(?:\d+(?:[.,]\d*)?|[.,]\d+)(?:[eE][+-]?\d+)?`)

// ParseQuantity reads a quantity from free text. Like a browser number field
// it takes the leading number and ignores trailing text; a decimal comma is
// accepted. Anything unusable, and any negative value, reads as 0; values
// above MaxQuantity read as MaxQuantity.
func ParseQuantity(raw string) float64 {
	match := quantityPrefix.FindString(strings.TrimSpace(raw))
	if match == "" {
		return 0
	}
	v, err := strconv.ParseFloat(strings.Replace(match, ",", ".", 1), 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0
	}
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > MaxQuantity {
		return MaxQuantity
	}
	return v
}

// LineLoadingMeters is the loading meters a single line occupies.
func LineLoadingMeters(item LineItem) float64 {
	return lineMeters(item).InexactFloat64()
}

func lineMeters(item LineItem) decimal.Decimal {
	c, ok := LookupCategory(item.Category)
	if !ok {
		return decimal.Zero
	}
	return decimal.NewFromFloat(ParseQuantity(item.Quantity)).Mul(decimal.NewFromFloat(c.LoadingMeters))
}

// Calculate computes the cost breakdown from scratch. It never fails: bad
// quantities, unknown categories and unknown destinations contribute zero.
// Sums are kept in decimal so that the ceiling of a whole-meter shipment is
// not pushed up by float error.
func Calculate(in Input, opts Options) Breakdown {
	raw := decimal.Zero
	for _, item := range in.Items {
		raw = raw.Add(lineMeters(item))
	}

	billable := billableMeters(raw, opts.Rounding)

	rate := decimal.Zero
	if d, ok := LookupDestination(in.Destination); ok {
		rate = decimal.NewFromFloat(d.RatePerLoadingMeter)
	}
	subtotal := billable.Mul(rate)

	// An empty shipment has nothing to unload, so it never carries the
	// ramp surcharge.
	surcharge := decimal.Zero
	if opts.RampTracking && !in.HasLoadingRamp && billable.IsPositive() {
		surcharge = decimal.NewFromFloat(RampSurcharge)
	}

	return Breakdown{
		RawLoadingMeters:      raw.InexactFloat64(),
		BillableLoadingMeters: billable.InexactFloat64(),
		Subtotal:              subtotal.InexactFloat64(),
		Surcharge:             surcharge.InexactFloat64(),
		TotalCost:             subtotal.Add(surcharge).InexactFloat64(),
	}
}

func billableMeters(raw decimal.Decimal, policy Rounding) decimal.Decimal {
	if !raw.IsPositive() {
		return decimal.Zero
	}
	if policy == RoundCeiling {
		return raw.Ceil()
	}
	one := decimal.NewFromInt(1)
	if raw.LessThan(one) {
		return one
	}
	return raw
}

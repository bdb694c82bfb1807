package pricing

import (
	"math"
	"testing"
)

func nearlyEqual(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("%s = %v, want %v", name, got, want)
	}
}

func oneLine(qty, category, destination string, ramp bool) Input {
	return Input{
		Items:          []LineItem{{Quantity: qty, Category: category}},
		Destination:    destination,
		HasLoadingRamp: ramp,
	}
}

func TestCalculate_MinimumUnitKeepsFraction(t *testing.T) {
	result := Calculate(oneLine("3", "Hev/senk-skrivebord", "Tønsberg", true), DefaultOptions())

	nearlyEqual(t, "raw", result.RawLoadingMeters, 1.5)
	nearlyEqual(t, "billable", result.BillableLoadingMeters, 1.5)
	nearlyEqual(t, "subtotal", result.Subtotal, 750)
	nearlyEqual(t, "surcharge", result.Surcharge, 0)
	nearlyEqual(t, "total", result.TotalCost, 750)
}

func TestCalculate_RampSurcharge(t *testing.T) {
	result := Calculate(oneLine("3", "Hev/senk-skrivebord", "Tønsberg", false), DefaultOptions())

	nearlyEqual(t, "subtotal", result.Subtotal, 750)
	nearlyEqual(t, "surcharge", result.Surcharge, RampSurcharge)
	nearlyEqual(t, "total", result.TotalCost, 3250)
}

func TestCalculate_RampTrackingDisabledIgnoresFlag(t *testing.T) {
	opts := Options{Rounding: RoundMinimumUnit, RampTracking: false}
	result := Calculate(oneLine("3", "Hev/senk-skrivebord", "Tønsberg", false), opts)

	nearlyEqual(t, "surcharge", result.Surcharge, 0)
	nearlyEqual(t, "total", result.TotalCost, 750)
}

func TestCalculate_CeilingRoundsUp(t *testing.T) {
	opts := Options{Rounding: RoundCeiling}
	result := Calculate(oneLine("3", "Hev/senk-skrivebord", "Tønsberg", true), opts)

	nearlyEqual(t, "raw", result.RawLoadingMeters, 1.5)
	nearlyEqual(t, "billable", result.BillableLoadingMeters, 2)
	nearlyEqual(t, "total", result.TotalCost, 1000)
}

func TestCalculate_CeilingOfWholeSumIsExact(t *testing.T) {
	// 3 x 0.1 + 7 x 0.1 is 1.0000000000000002 in float64.
	in := Input{
		Items: []LineItem{
			{Quantity: "3", Category: "Kontorstol"},
			{Quantity: "7", Category: "Kontorstol"},
		},
		Destination:    "Oslo",
		HasLoadingRamp: true,
	}
	result := Calculate(in, Options{Rounding: RoundCeiling})

	nearlyEqual(t, "billable", result.BillableLoadingMeters, 1)
	nearlyEqual(t, "total", result.TotalCost, 650)
}

func TestCalculate_MinimumBillableUnit(t *testing.T) {
	for _, qty := range []string{"1", "2", "0.5", "9"} {
		t.Run(qty, func(t *testing.T) {
			result := Calculate(oneLine(qty, "Kontorstol", "Oslo", true), DefaultOptions())
			if result.RawLoadingMeters <= 0 || result.RawLoadingMeters >= 1 {
				t.Fatalf("raw = %v, want within (0,1)", result.RawLoadingMeters)
			}
			nearlyEqual(t, "billable", result.BillableLoadingMeters, 1)
			nearlyEqual(t, "total", result.TotalCost, 650)
		})
	}
}

func TestCalculate_ZeroInput(t *testing.T) {
	inputs := map[string]Input{
		"no items":      {Destination: "Oslo", HasLoadingRamp: false},
		"zero quantity": oneLine("0", "Sofa", "Oslo", false),
		"empty text":    oneLine("", "Sofa", "Oslo", false),
		"placeholder":   oneLine("12", PlaceholderCategory, "Oslo", false),
	}

	for name, in := range inputs {
		for _, opts := range []Options{DefaultOptions(), {Rounding: RoundCeiling, RampTracking: true}} {
			result := Calculate(in, opts)
			if result != (Breakdown{}) {
				t.Fatalf("%s (%s): got %+v, want zero breakdown", name, opts.Rounding, result)
			}
		}
	}
}

func TestCalculate_UnknownCategoryAndDestination(t *testing.T) {
	in := Input{
		Items: []LineItem{
			{Quantity: "4", Category: "Flygel"},
			{Quantity: "2", Category: "Sofa"},
		},
		Destination:    "Reykjavik",
		HasLoadingRamp: true,
	}

	result := Calculate(in, DefaultOptions())

	nearlyEqual(t, "raw", result.RawLoadingMeters, 2)
	nearlyEqual(t, "subtotal", result.Subtotal, 0)
	nearlyEqual(t, "total", result.TotalCost, 0)
}

func TestCalculate_IsIdempotent(t *testing.T) {
	in := Input{
		Items: []LineItem{
			{Quantity: "2,5", Category: "Pall (EUR)"},
			{Quantity: "abc", Category: "Reol"},
			{Quantity: "6", Category: "Skillevegg"},
		},
		Destination:    "Bergen",
		HasLoadingRamp: false,
	}

	first := Calculate(in, DefaultOptions())
	second := Calculate(in, DefaultOptions())
	if first != second {
		t.Fatalf("expected identical results, got %+v and %+v", first, second)
	}
	nearlyEqual(t, "raw", first.RawLoadingMeters, 2.2)
	nearlyEqual(t, "total", first.TotalCost, 2.2*1100+RampSurcharge)
}

func TestCalculate_TotalNeverNegative(t *testing.T) {
	for _, c := range Categories() {
		for _, d := range Destinations() {
			for _, ramp := range []bool{true, false} {
				for _, qty := range []string{"-5", "0", "0.3", "17"} {
					result := Calculate(oneLine(qty, c.Name, d.Name, ramp), DefaultOptions())
					if result.TotalCost < 0 {
						t.Fatalf("negative total for %s/%s/%s: %+v", qty, c.Name, d.Name, result)
					}
				}
			}
		}
	}
}

func TestParseQuantity(t *testing.T) {
	tests := []struct {
		input string
		want  float64
	}{
		{"", 0},
		{"   ", 0},
		{"3", 3},
		{" 4 ", 4},
		{"2.5", 2.5},
		{"2,5", 2.5},
		{".5", 0.5},
		{"1e2", 100},
		{"7 stk", 7},
		{"abc", 0},
		{"-3", 0},
		{"NaN", 0},
		{"1e20", MaxQuantity},
		{"1e400", MaxQuantity},
		{"1e-400", 0},
		{"1000000,5", MaxQuantity},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseQuantity(tt.input); got != tt.want {
				t.Errorf("ParseQuantity(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestLineLoadingMeters(t *testing.T) {
	nearlyEqual(t, "sofa", LineLoadingMeters(LineItem{Quantity: "3", Category: "Sofa"}), 3)
	nearlyEqual(t, "placeholder", LineLoadingMeters(LineItem{Quantity: "3", Category: PlaceholderCategory}), 0)
	nearlyEqual(t, "unknown", LineLoadingMeters(LineItem{Quantity: "3", Category: "Flygel"}), 0)
}

func TestParseRounding(t *testing.T) {
	for input, want := range map[string]Rounding{
		"":        RoundMinimumUnit,
		"minimum": RoundMinimumUnit,
		"CEILING": RoundCeiling,
		" ceil ":  RoundCeiling,
	} {
		got, err := ParseRounding(input)
		if err != nil {
			t.Fatalf("ParseRounding(%q) returned error: %v", input, err)
		}
		if got != want {
			t.Fatalf("ParseRounding(%q) = %v, want %v", input, got, want)
		}
	}

	if _, err := ParseRounding("banker"); err == nil {
		t.Fatalf("expected error for unknown policy")
	}
}

func TestCatalog(t *testing.T) {
	cats := Categories()
	if cats[0].Name != PlaceholderCategory || cats[0].LoadingMeters != 0 {
		t.Fatalf("expected placeholder first with zero factor, got %+v", cats[0])
	}
	if IsBillableCategory(PlaceholderCategory) {
		t.Fatalf("placeholder must not be billable")
	}
	if !IsBillableCategory("Sofa") || IsBillableCategory("Flygel") {
		t.Fatalf("unexpected billable classification")
	}

	cats[1].LoadingMeters = 99
	if c, _ := LookupCategory(cats[1].Name); c.LoadingMeters == 99 {
		t.Fatalf("Categories must return a copy")
	}

	if DefaultDestination().Name != "Oslo" {
		t.Fatalf("unexpected default destination %q", DefaultDestination().Name)
	}
	if d, ok := LookupDestination("Tromsø"); !ok || d.RatePerLoadingMeter != 2200 {
		t.Fatalf("unexpected Tromsø lookup: %+v %v", d, ok)
	}
}

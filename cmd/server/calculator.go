package main

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/Simplici0/fraktkalkulator/internal/form"
	"github.com/Simplici0/fraktkalkulator/internal/metrics"
	"github.com/Simplici0/fraktkalkulator/internal/pricing"
	"github.com/Simplici0/fraktkalkulator/internal/receipt"
)

// Bounds on posted row data. Row ids grow by one per add, so maxRowID is
// far beyond anything a real session reaches.
const (
	maxRows  = 500
	maxRowID = 1 << 20
)

const (
	actionCalculate    = "calculate"
	actionAdd          = "add"
	actionReset        = "reset"
	actionRemovePrefix = "remove:"
)

type baseViewData struct {
	ErrorMessage   string
	SuccessMessage string
}

type calculatorLine struct {
	Row           form.Row
	LoadingMeters float64
}

type calculatorViewData struct {
	baseViewData
	Form           *form.Form
	Lines          []calculatorLine
	Categories     []pricing.Category
	Destinations   []pricing.Destination
	RampTracking   bool
	CanRemoveRows  bool
	Breakdown      pricing.Breakdown
	Summary        []receipt.Line
	SummaryHeading string
	Disclaimer     string
	CanExport      bool
}

func (s *server) handleCalculatorForm(w http.ResponseWriter, r *http.Request) {
	s.renderCalculator(w, http.StatusOK, form.New(), "")
}

func (s *server) handleCalculatorSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	f, err := parseCalculatorForm(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	message, err := applyAction(f, r.PostFormValue("action"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.renderCalculator(w, http.StatusOK, f, message)
}

// applyAction mutates f according to the submit button that was pressed.
// Refusals the user can fix come back as a message; malformed actions are
// errors.
func applyAction(f *form.Form, action string) (string, error) {
	switch {
	case action == "" || action == actionCalculate:
		return "", nil
	case action == actionAdd:
		f.AddRow()
		return "", nil
	case action == actionReset:
		f.Reset()
		return "", nil
	case strings.HasPrefix(action, actionRemovePrefix):
		id, err := strconv.Atoi(strings.TrimPrefix(action, actionRemovePrefix))
		if err != nil {
			return "", fmt.Errorf("invalid row id in action %q", action)
		}
		err = f.RemoveRow(id)
		switch {
		case errors.Is(err, form.ErrLastRow):
			return "Minst én varelinje må stå igjen.", nil
		case errors.Is(err, form.ErrRowNotFound):
			return "Varelinjen finnes ikke lenger.", nil
		case err != nil:
			return "", err
		}
		return "", nil
	}
	return "", fmt.Errorf("unknown action %q", action)
}

func (s *server) renderCalculator(w http.ResponseWriter, status int, f *form.Form, message string) {
	b := f.Estimate(s.pricing)
	metrics.RecordEstimate(f.Destination, "form")

	lines := make([]calculatorLine, 0, len(f.Rows))
	for _, row := range f.Rows {
		lines = append(lines, calculatorLine{
			Row:           row,
			LoadingMeters: pricing.LineLoadingMeters(pricing.LineItem{Quantity: row.Quantity, Category: row.Category}),
		})
	}

	rc := receipt.Build(f.Input(), b, s.pricing, s.now())

	s.renderTemplate(w, status, "calculator.html", calculatorViewData{
		baseViewData:   baseViewData{ErrorMessage: message},
		Form:           f,
		Lines:          lines,
		Categories:     pricing.Categories(),
		Destinations:   pricing.Destinations(),
		RampTracking:   s.pricing.RampTracking,
		CanRemoveRows:  f.CanRemoveRows(),
		Breakdown:      b,
		Summary:        rc.SummaryLines(),
		SummaryHeading: receipt.SummaryHeading,
		Disclaimer:     receipt.Disclaimer,
		CanExport:      form.CanExport(b),
	})
}

// parseCalculatorForm rebuilds the calculator state from a posted form. Rows
// arrive as parallel row_id, quantity and category fields.
func parseCalculatorForm(r *http.Request) (*form.Form, error) {
	f := form.New()

	ids := r.PostForm["row_id"]
	quantities := r.PostForm["quantity"]
	categories := r.PostForm["category"]
	if len(quantities) != len(ids) || len(categories) != len(ids) {
		return nil, fmt.Errorf("row_id, quantity and category must have the same number of values")
	}

	if len(ids) > maxRows {
		return nil, fmt.Errorf("at most %d product rows are allowed", maxRows)
	}

	if len(ids) > 0 {
		f.Rows = make([]form.Row, 0, len(ids))
		seen := make(map[int]bool, len(ids))
		maxID := -1
		for i, raw := range ids {
			id, err := strconv.Atoi(raw)
			if err != nil || id < 0 || id > maxRowID {
				return nil, fmt.Errorf("row_id must be an integer between 0 and %d", maxRowID)
			}
			if seen[id] {
				return nil, fmt.Errorf("duplicate row_id %d", id)
			}
			seen[id] = true
			if id > maxID {
				maxID = id
			}
			f.Rows = append(f.Rows, form.Row{
				ID:       id,
				Quantity: strings.TrimSpace(quantities[i]),
				Category: categories[i],
			})
		}
		f.NextID = maxID + 1
	}

	if raw := r.PostFormValue("next_id"); raw != "" {
		next, err := strconv.Atoi(raw)
		if err != nil || next < 0 || next > maxRowID {
			return nil, fmt.Errorf("next_id must be an integer between 0 and %d", maxRowID)
		}
		// Ids of removed rows are never reused.
		if next > f.NextID {
			f.NextID = next
		}
	}

	if dest := r.PostFormValue("destination"); dest != "" {
		if err := f.SetDestination(dest); err != nil {
			return nil, err
		}
	}

	switch r.PostFormValue("has_loading_ramp") {
	case "", "yes":
		f.SetLoadingRamp(true)
	case "no":
		f.SetLoadingRamp(false)
	default:
		return nil, fmt.Errorf("has_loading_ramp must be yes or no")
	}

	return f, nil
}

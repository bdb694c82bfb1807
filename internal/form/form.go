// Package form holds the calculator's editable state: the product rows, the
// chosen destination and the loading-ramp answer.
package form

import (
	"errors"
	"fmt"

	"github.com/Simplici0/fraktkalkulator/internal/pricing"
)

var (
	// ErrLastRow is returned when removing the only remaining row.
	ErrLastRow = errors.New("the last product row cannot be removed")
	// ErrRowNotFound is returned for a row id that is not in the form.
	ErrRowNotFound = errors.New("product row not found")
	// ErrUnknownDestination is returned for a destination outside the catalog.
	ErrUnknownDestination = errors.New("unknown destination")
	// ErrUnknownField is returned by UpdateRow for an unsupported field.
	ErrUnknownField = errors.New("unknown row field")
)

// Field names a row attribute that UpdateRow can change.
type Field string

const (
	FieldQuantity Field = "quantity"
	FieldCategory Field = "category"
)

// Row is one product line. ID is stable across edits and removals of other
// rows.
type Row struct {
	ID       int
	Quantity string
	Category string
}

// Form is the full calculator state. It always has at least one row.
type Form struct {
	Destination    string
	HasLoadingRamp bool
	Rows           []Row
	NextID         int
}

// New returns a fresh calculator: one empty row, the default destination and
// a loading ramp available.
func New() *Form {
	return &Form{
		Destination:    pricing.DefaultDestination().Name,
		HasLoadingRamp: true,
		Rows:           []Row{emptyRow(0)},
		NextID:         1,
	}
}

func emptyRow(id int) Row {
	return Row{ID: id, Category: pricing.PlaceholderCategory}
}

// Reset restores the state returned by New.
func (f *Form) Reset() {
	*f = *New()
}

// AddRow appends an empty row and returns its id.
func (f *Form) AddRow() int {
	id := f.NextID
	f.Rows = append(f.Rows, emptyRow(id))
	f.NextID++
	return id
}

// RemoveRow deletes the row with the given id.
func (f *Form) RemoveRow(id int) error {
	idx := f.indexOf(id)
	if idx < 0 {
		return fmt.Errorf("remove row %d: %w", id, ErrRowNotFound)
	}
	if !f.CanRemoveRows() {
		return ErrLastRow
	}
	f.Rows = append(f.Rows[:idx], f.Rows[idx+1:]...)
	return nil
}

// CanRemoveRows reports whether a remove action is allowed at all.
func (f *Form) CanRemoveRows() bool {
	return len(f.Rows) > 1
}

// UpdateRow sets one field of a row. Values are stored as given; the pricing
// engine decides what they are worth.
func (f *Form) UpdateRow(id int, field Field, value string) error {
	idx := f.indexOf(id)
	if idx < 0 {
		return fmt.Errorf("update row %d: %w", id, ErrRowNotFound)
	}
	switch field {
	case FieldQuantity:
		f.Rows[idx].Quantity = value
	case FieldCategory:
		f.Rows[idx].Category = value
	default:
		return fmt.Errorf("update row %d field %q: %w", id, field, ErrUnknownField)
	}
	return nil
}

// SetDestination selects a destination from the catalog.
func (f *Form) SetDestination(name string) error {
	if _, ok := pricing.LookupDestination(name); !ok {
		return fmt.Errorf("%w: %q", ErrUnknownDestination, name)
	}
	f.Destination = name
	return nil
}

// SetLoadingRamp records whether the destination has a loading ramp.
func (f *Form) SetLoadingRamp(available bool) {
	f.HasLoadingRamp = available
}

// Input converts the state to pricing input, preserving row order.
func (f *Form) Input() pricing.Input {
	items := make([]pricing.LineItem, 0, len(f.Rows))
	for _, r := range f.Rows {
		items = append(items, pricing.LineItem{Quantity: r.Quantity, Category: r.Category})
	}
	return pricing.Input{
		Items:          items,
		Destination:    f.Destination,
		HasLoadingRamp: f.HasLoadingRamp,
	}
}

// Estimate recomputes the breakdown for the current state.
func (f *Form) Estimate(opts pricing.Options) pricing.Breakdown {
	return pricing.Calculate(f.Input(), opts)
}

// CanExport reports whether a receipt may be exported for b.
func CanExport(b pricing.Breakdown) bool {
	return b.TotalCost != 0
}

func (f *Form) indexOf(id int) int {
	for i, r := range f.Rows {
		if r.ID == id {
			return i
		}
	}
	return -1
}

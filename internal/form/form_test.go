package form

import (
	"errors"
	"testing"

	"github.com/Simplici0/fraktkalkulator/internal/pricing"
)

func TestNew_StartsWithOneEmptyRow(t *testing.T) {
	f := New()

	if len(f.Rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(f.Rows))
	}
	if f.Rows[0].ID != 0 || f.Rows[0].Quantity != "" || f.Rows[0].Category != pricing.PlaceholderCategory {
		t.Fatalf("unexpected initial row: %+v", f.Rows[0])
	}
	if f.Destination != pricing.DefaultDestination().Name || !f.HasLoadingRamp || f.NextID != 1 {
		t.Fatalf("unexpected initial form: %+v", f)
	}
	if f.CanRemoveRows() {
		t.Fatalf("single row must not be removable")
	}
}

func TestRemoveRow_RefusesLastRow(t *testing.T) {
	f := New()

	err := f.RemoveRow(0)
	if !errors.Is(err, ErrLastRow) {
		t.Fatalf("expected ErrLastRow, got %v", err)
	}
	if len(f.Rows) != 1 {
		t.Fatalf("row count dropped to %d", len(f.Rows))
	}
}

func TestAddAndRemoveRows_KeepIDsStable(t *testing.T) {
	f := New()
	first := f.AddRow()
	second := f.AddRow()
	if first != 1 || second != 2 || f.NextID != 3 {
		t.Fatalf("unexpected ids %d, %d (next %d)", first, second, f.NextID)
	}

	if err := f.RemoveRow(first); err != nil {
		t.Fatalf("remove row: %v", err)
	}
	if len(f.Rows) != 2 || f.Rows[0].ID != 0 || f.Rows[1].ID != second {
		t.Fatalf("unexpected rows after removal: %+v", f.Rows)
	}

	if id := f.AddRow(); id != 3 {
		t.Fatalf("ids must not be reused, got %d", id)
	}

	if err := f.RemoveRow(42); !errors.Is(err, ErrRowNotFound) {
		t.Fatalf("expected ErrRowNotFound, got %v", err)
	}
}

func TestUpdateRow(t *testing.T) {
	f := New()
	id := f.AddRow()

	if err := f.UpdateRow(id, FieldQuantity, "4"); err != nil {
		t.Fatalf("update quantity: %v", err)
	}
	if err := f.UpdateRow(id, FieldCategory, "Sofa"); err != nil {
		t.Fatalf("update category: %v", err)
	}
	if f.Rows[1].Quantity != "4" || f.Rows[1].Category != "Sofa" {
		t.Fatalf("unexpected row: %+v", f.Rows[1])
	}
	if f.Rows[0].Quantity != "" {
		t.Fatalf("other rows must not change: %+v", f.Rows[0])
	}

	if err := f.UpdateRow(id, Field("colour"), "red"); !errors.Is(err, ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField, got %v", err)
	}
	if err := f.UpdateRow(99, FieldQuantity, "1"); !errors.Is(err, ErrRowNotFound) {
		t.Fatalf("expected ErrRowNotFound, got %v", err)
	}
}

func TestSetDestination(t *testing.T) {
	f := New()

	if err := f.SetDestination("Bergen"); err != nil {
		t.Fatalf("set destination: %v", err)
	}
	if err := f.SetDestination("Atlantis"); !errors.Is(err, ErrUnknownDestination) {
		t.Fatalf("expected ErrUnknownDestination, got %v", err)
	}
	if f.Destination != "Bergen" {
		t.Fatalf("destination changed on error: %q", f.Destination)
	}
}

func TestEstimate_RecomputesOnEveryEdit(t *testing.T) {
	f := New()
	if err := f.SetDestination("Tønsberg"); err != nil {
		t.Fatalf("set destination: %v", err)
	}
	_ = f.UpdateRow(0, FieldQuantity, "3")
	_ = f.UpdateRow(0, FieldCategory, "Hev/senk-skrivebord")

	if got := f.Estimate(pricing.DefaultOptions()).TotalCost; got != 750 {
		t.Fatalf("total = %v, want 750", got)
	}

	f.SetLoadingRamp(false)
	if got := f.Estimate(pricing.DefaultOptions()).TotalCost; got != 3250 {
		t.Fatalf("total = %v, want 3250", got)
	}

	_ = f.UpdateRow(0, FieldQuantity, "")
	b := f.Estimate(pricing.DefaultOptions())
	if b.TotalCost != 0 || CanExport(b) {
		t.Fatalf("empty form must not be exportable: %+v", b)
	}
}

func TestReset(t *testing.T) {
	f := New()
	f.AddRow()
	f.SetLoadingRamp(false)
	_ = f.SetDestination("Tromsø")

	f.Reset()

	fresh := New()
	if f.Destination != fresh.Destination || f.HasLoadingRamp != fresh.HasLoadingRamp || f.NextID != fresh.NextID || len(f.Rows) != 1 {
		t.Fatalf("reset did not restore initial state: %+v", f)
	}
}

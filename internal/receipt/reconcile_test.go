package receipt

import (
	"testing"

	"paisa/internal/core"
)

func TestReconcileEmptyExtraction(t *testing.T) {
	in := Reconcile(RawExtraction{})

	if in.Amount.Paise != 0 {
		t.Errorf("amount = %d, want 0", in.Amount.Paise)
	}
	if in.Category != core.Miscellaneous {
		t.Errorf("category = %s, want miscellaneous", in.Category)
	}
	if in.Description != DefaultDescription {
		t.Errorf("description = %q, want %q", in.Description, DefaultDescription)
	}
	if got, want := in.Date.ISO(), core.Today().ISO(); got != want {
		t.Errorf("date = %s, want today (%s)", got, want)
	}
}

func TestReconcileFullExtraction(t *testing.T) {
	amount := 250.0
	category := "food"
	description := "Canteen"
	date := "2024-02-01"
	in := Reconcile(RawExtraction{
		Amount:      &amount,
		Category:    &category,
		Description: &description,
		Date:        &date,
	})

	if in.Amount.Paise != 25000 {
		t.Errorf("amount = %d paise, want 25000", in.Amount.Paise)
	}
	if in.Category != core.Food {
		t.Errorf("category = %s, want food", in.Category)
	}
	if in.Description != "Canteen" {
		t.Errorf("description = %q, want Canteen", in.Description)
	}
	if in.Date.ISO() != "2024-02-01" {
		t.Errorf("date = %s, want 2024-02-01", in.Date.ISO())
	}
}

func TestReconcileFoldsUnknownCategory(t *testing.T) {
	category := "groceries"
	in := Reconcile(RawExtraction{Category: &category})
	if in.Category != core.Miscellaneous {
		t.Errorf("category = %s, want miscellaneous", in.Category)
	}
}

func TestReconcileUnparseableDateDefaultsToToday(t *testing.T) {
	date := "yesterday maybe"
	in := Reconcile(RawExtraction{Date: &date})
	if got, want := in.Date.ISO(), core.Today().ISO(); got != want {
		t.Errorf("date = %s, want today (%s)", got, want)
	}
}

func TestReconcileRoundsFractionalPaise(t *testing.T) {
	amount := 249.99
	in := Reconcile(RawExtraction{Amount: &amount})
	if in.Amount.Paise != 24999 {
		t.Errorf("amount = %d paise, want 24999", in.Amount.Paise)
	}
}

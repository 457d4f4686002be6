package core

import (
	"testing"
	"time"
)

func TestNormalizeCategory(t *testing.T) {
	cases := []struct {
		in   string
		want Category
	}{
		{"food", Food},
		{"Transport", Transport},
		{" EDUCATION ", Education},
		{"entertainment", Entertainment},
		{"miscellaneous", Miscellaneous},
		{"groceries", Miscellaneous},
		{"", Miscellaneous},
		{"Food & Drink", Miscellaneous},
	}
	for _, tc := range cases {
		if got := NormalizeCategory(tc.in); got != tc.want {
			t.Errorf("NormalizeCategory(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-02-01")
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if d.Year() != 2024 || d.Month() != time.February || d.Day() != 1 {
		t.Fatalf("unexpected date: %v", d)
	}

	// RFC 3339 timestamps are accepted, time-of-day dropped.
	d, err = ParseDate("2024-02-01T15:04:05Z")
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if d.ISO() != "2024-02-01" {
		t.Fatalf("ISO() = %q, want 2024-02-01", d.ISO())
	}

	if _, err := ParseDate("yesterday"); err == nil {
		t.Fatal("expected error for non-date input")
	}
}

func TestExpenseRecordValidate(t *testing.T) {
	good := ExpenseRecord{
		Amount:      Money{Paise: 12000},
		Category:    Food,
		Description: "Lunch at college canteen",
		Date:        NewDate(2024, 1, 15),
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []ExpenseRecord{
		{Amount: Money{Paise: 0}, Description: "a", Date: NewDate(2024, 1, 1)},
		{Amount: Money{Paise: -100}, Description: "a", Date: NewDate(2024, 1, 1)},
		{Amount: Money{Paise: 100}, Description: "   ", Date: NewDate(2024, 1, 1)},
		{Amount: Money{Paise: 100}, Description: "a", Date: Date{}},
	}
	for i, e := range bads {
		if err := e.Validate(); err == nil {
			t.Errorf("case %d expected error", i)
		}
	}
}

func TestMoneyValidate(t *testing.T) {
	if err := (Money{Paise: 1}).Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := (Money{Paise: 0}).Validate(); err == nil {
		t.Fatal("expected error for zero")
	}
}

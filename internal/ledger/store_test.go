package ledger

import (
	"errors"
	"math"
	"testing"

	"paisa/internal/core"
)

func input(amount int64, cat core.Category, desc string) Input {
	return Input{
		Amount:      core.Money{Paise: amount},
		Category:    cat,
		Description: desc,
		Date:        core.NewDate(2024, 1, 15),
	}
}

func TestAppendPrependsNewestFirst(t *testing.T) {
	s := NewStore()
	first := s.Append(input(100, core.Food, "first"))
	second := s.Append(input(200, core.Transport, "second"))

	snap := s.Snapshot()
	if len(snap) != 2 {
		t.Fatalf("len = %d, want 2", len(snap))
	}
	if snap[0].ID != second.ID || snap[1].ID != first.ID {
		t.Fatal("snapshot is not newest-first")
	}
}

func TestAppendAssignsUniqueIDs(t *testing.T) {
	s := NewStore()
	seen := make(map[string]struct{}, 10000)
	for i := 0; i < 10000; i++ {
		rec := s.Append(input(1, core.Miscellaneous, "x"))
		if rec.ID == "" {
			t.Fatal("empty id")
		}
		if _, dup := seen[rec.ID]; dup {
			t.Fatalf("duplicate id after %d appends: %s", i+1, rec.ID)
		}
		seen[rec.ID] = struct{}{}
	}
}

func TestAppendIDsSortInAppendOrder(t *testing.T) {
	s := NewStore()
	var prev string
	for i := 0; i < 1000; i++ {
		rec := s.Append(input(1, core.Miscellaneous, "x"))
		if rec.ID <= prev {
			t.Fatalf("id %q not greater than predecessor %q", rec.ID, prev)
		}
		prev = rec.ID
	}
}

func TestTotalEmptyLedger(t *testing.T) {
	s := NewStore()
	if got := s.Total(); got.Paise != 0 {
		t.Fatalf("Total() = %d, want 0", got.Paise)
	}
}

func TestTotalsByCategorySumToTotal(t *testing.T) {
	s := NewStore()
	s.Append(input(12000, core.Food, "lunch"))
	s.Append(input(8000, core.Transport, "auto"))
	s.Append(input(250000, core.Education, "books"))
	s.Append(input(5000, core.Food, "chai"))

	var sum int64
	for _, amount := range s.TotalsByCategory() {
		sum += amount.Paise
	}
	if total := s.Total().Paise; sum != total {
		t.Fatalf("category sum %d != total %d", sum, total)
	}
}

func TestTotalsByCategoryOmitsEmptyCategories(t *testing.T) {
	s := NewStore()
	s.Append(input(100, core.Food, "x"))

	byCat := s.TotalsByCategory()
	if len(byCat) != 1 {
		t.Fatalf("len = %d, want 1", len(byCat))
	}
	if _, present := byCat[core.Transport]; present {
		t.Fatal("empty category should be absent, not zero-valued")
	}
}

func TestBudgetProgressScenario(t *testing.T) {
	s := NewStore()
	s.Append(input(12000, core.Food, "lunch"))
	s.Append(input(8000, core.Transport, "auto"))
	s.Append(input(250000, core.Education, "books"))

	if total := s.Total().Paise; total != 270000 {
		t.Fatalf("Total() = %d paise, want 270000", total)
	}

	progress, err := s.BudgetProgress(core.Money{Paise: 1500000})
	if err != nil {
		t.Fatalf("BudgetProgress: %v", err)
	}
	if math.Round(progress) != 18 {
		t.Fatalf("BudgetProgress = %v, want 18 (rounded)", progress)
	}

	byCat := s.TotalsByCategory()
	want := map[core.Category]int64{core.Food: 12000, core.Transport: 8000, core.Education: 250000}
	for cat, paise := range want {
		if byCat[cat].Paise != paise {
			t.Errorf("TotalsByCategory()[%s] = %d, want %d", cat, byCat[cat].Paise, paise)
		}
	}
}

func TestBudgetProgressZeroBudget(t *testing.T) {
	s := NewStore()
	s.Append(input(100, core.Food, "x"))

	if _, err := s.BudgetProgress(core.Money{}); !errors.Is(err, ErrZeroBudget) {
		t.Fatalf("expected ErrZeroBudget, got %v", err)
	}
}

func TestAveragePerDayUsesFixedWindow(t *testing.T) {
	s := NewStore()
	s.Append(input(270000, core.Education, "books"))

	// The window is a constant supplied by the caller, not derived from
	// the record dates.
	if got := s.AveragePerDay(15); got.Paise != 18000 {
		t.Fatalf("AveragePerDay(15) = %d, want 18000", got.Paise)
	}
	if got := s.AveragePerDay(0); got.Paise != 0 {
		t.Fatalf("AveragePerDay(0) = %d, want 0", got.Paise)
	}
}

func TestRecentBounds(t *testing.T) {
	s := NewStore()
	for i := 0; i < 5; i++ {
		s.Append(input(100, core.Food, "x"))
	}
	if got := len(s.Recent(3)); got != 3 {
		t.Fatalf("Recent(3) len = %d, want 3", got)
	}
	if got := len(s.Recent(50)); got != 5 {
		t.Fatalf("Recent(50) len = %d, want 5", got)
	}
	if got := len(s.Recent(-1)); got != 0 {
		t.Fatalf("Recent(-1) len = %d, want 0", got)
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	s := NewStore()
	s.Append(input(100, core.Food, "x"))

	snap := s.Snapshot()
	snap[0].Description = "mutated"
	if s.Snapshot()[0].Description == "mutated" {
		t.Fatal("snapshot mutation leaked into the store")
	}
}

// Package ledger holds the in-memory expense ledger for one session and
// the derived aggregates computed over it.
package ledger

import (
	"errors"
	"sync"

	"github.com/oklog/ulid/v2"

	"paisa/internal/core"
)

// ErrZeroBudget is returned by BudgetProgress when the budget ceiling is
// zero. Progress against a zero budget is undefined; an explicit sentinel
// was chosen over returning +Inf.
var ErrZeroBudget = errors.New("budget is zero")

// Input is an expense record before the store has assigned its ID.
type Input struct {
	Amount      core.Money
	Category    core.Category
	Description string
	Date        core.Date
}

// Store is the session ledger: an insertion-ordered sequence of records,
// newest first. Appends come from a single request path but the mutex
// keeps snapshots safe for the advice and summary readers.
type Store struct {
	mu      sync.Mutex
	records []core.ExpenseRecord
}

func NewStore() *Store {
	return &Store{}
}

// Append assigns a fresh ULID, prepends the record and returns it. The
// store performs no validation; callers reject bad input before calling.
func (s *Store) Append(in Input) core.ExpenseRecord {
	rec := core.ExpenseRecord{
		ID:          newID(),
		Amount:      in.Amount,
		Category:    in.Category,
		Description: in.Description,
		Date:        in.Date,
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append([]core.ExpenseRecord{rec}, s.records...)
	return rec
}

// Len returns the number of records in the ledger.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

// Snapshot returns a copy of the ledger, newest first.
func (s *Store) Snapshot() []core.ExpenseRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.ExpenseRecord, len(s.records))
	copy(out, s.records)
	return out
}

// Recent returns a copy of the newest n records (all of them when the
// ledger is shorter).
func (s *Store) Recent(n int) []core.ExpenseRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n > len(s.records) {
		n = len(s.records)
	}
	if n < 0 {
		n = 0
	}
	out := make([]core.ExpenseRecord, n)
	copy(out, s.records[:n])
	return out
}

// Total sums all amounts. Zero for an empty ledger.
func (s *Store) Total() core.Money {
	s.mu.Lock()
	defer s.mu.Unlock()
	return total(s.records)
}

// TotalsByCategory groups and sums amounts. Categories with no records
// are absent from the result, not zero-valued.
func (s *Store) TotalsByCategory() map[core.Category]core.Money {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[core.Category]core.Money)
	for _, r := range s.records {
		out[r.Category] = out[r.Category].Add(r.Amount)
	}
	return out
}

// BudgetProgress returns total/budget as a percentage.
func (s *Store) BudgetProgress(budget core.Money) (float64, error) {
	if budget.Paise == 0 {
		return 0, ErrZeroBudget
	}
	return float64(s.Total().Paise) / float64(budget.Paise) * 100, nil
}

// AveragePerDay divides the total over a fixed caller-supplied window.
// The window is a constant, not the elapsed span of the records; the
// summary endpoint keeps the original 15-day window for compatibility.
func (s *Store) AveragePerDay(windowDays int) core.Money {
	if windowDays <= 0 {
		return core.Money{}
	}
	return core.Money{Paise: s.Total().Paise / int64(windowDays)}
}

func total(records []core.ExpenseRecord) core.Money {
	var sum core.Money
	for _, r := range records {
		sum = sum.Add(r.Amount)
	}
	return sum
}

// newID draws from the package-wide monotonic entropy source so ids
// minted in the same millisecond still sort in append order.
func newID() string {
	return ulid.Make().String()
}

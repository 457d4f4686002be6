package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Food          Category = "food"
	Transport     Category = "transport"
	Education     Category = "education"
	Entertainment Category = "entertainment"
	Miscellaneous Category = "miscellaneous"
)

type (
	// Category is the closed expense taxonomy. Anything outside the
	// enumeration folds to Miscellaneous at the boundary.
	Category string

	Date struct {
		time.Time
	}

	// Money is an amount in paise.
	Money struct {
		Paise int64
	}

	// ExpenseRecord is one immutable ledger entry. ID is assigned by the
	// ledger store at append time and never changes afterwards.
	ExpenseRecord struct {
		ID          string
		Amount      Money
		Category    Category
		Description string
		Date        Date
	}
)

var (
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrEmptyDescription = errors.New("empty description")
	ErrInvalidDate      = errors.New("invalid date")
)

// Categories lists the closed enumeration in display order.
func Categories() []Category {
	return []Category{Food, Transport, Education, Entertainment, Miscellaneous}
}

// NormalizeCategory maps free-form input onto the closed enumeration.
// Unrecognized or empty values fold to Miscellaneous.
func NormalizeCategory(s string) Category {
	switch Category(strings.ToLower(strings.TrimSpace(s))) {
	case Food:
		return Food
	case Transport:
		return Transport
	case Education:
		return Education
	case Entertainment:
		return Entertainment
	default:
		return Miscellaneous
	}
}

// NewDate creates a Date from year, month, day at UTC midnight.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// Today returns the current calendar date (UTC, no time-of-day).
func Today() Date {
	y, m, d := time.Now().UTC().Date()
	return NewDate(y, int(m), d)
}

// ParseDate parses an ISO calendar date (YYYY-MM-DD). Full RFC 3339
// timestamps are accepted too since the extractor sometimes emits them;
// the time-of-day part is dropped.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return Date{Time: t}, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		y, m, d := t.UTC().Date()
		return NewDate(y, int(m), d), nil
	}
	return Date{}, ErrInvalidDate
}

// ISO returns the date formatted as YYYY-MM-DD.
func (d Date) ISO() string {
	return d.Format("2006-01-02")
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

func (m Money) Validate() error {
	if m.Paise <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

// Validate enforces the invariants for user-submitted records: positive
// amount, non-empty description, valid date. Category is already folded
// by NormalizeCategory, so it is not re-checked here.
func (e ExpenseRecord) Validate() error {
	if err := e.Amount.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(e.Description) == "" {
		return ErrEmptyDescription
	}
	if len(e.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	return e.Date.Validate()
}

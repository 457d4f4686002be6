// Package core holds the expense domain: records, categories, dates and
// money. Money is kept in integer paise so ledger aggregates stay exact.
package core

import (
	"math"
	"strconv"
	"strings"
	"unicode"
)

// ParseDecimalToPaise converts a decimal rupee string to paise with
// half-up rounding on the third decimal place. Both dot and comma
// separators are accepted. Only strictly positive amounts are valid.
//
// Examples:
//
//	ParseDecimalToPaise("120")    -> 12000, nil
//	ParseDecimalToPaise("12,34")  -> 1234, nil
//	ParseDecimalToPaise("12.346") -> 1235, nil (rounds up)
func ParseDecimalToPaise(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return 0, ErrInvalidAmount
	}
	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return 0, ErrInvalidAmount
	}
	intPart := parts[0]
	fracPart := ""
	if len(parts) == 2 {
		fracPart = parts[1]
	}
	if intPart == "" {
		intPart = "0"
	}
	for _, r := range intPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}
	for _, r := range fracPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}
	iv, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	const maxSafeInt64 = (1<<63 - 1) / 100
	if iv > maxSafeInt64 {
		return 0, ErrInvalidAmount
	}
	var frac int64
	if len(fracPart) > 0 {
		frac = int64(fracPart[0]-'0') * 10
		if len(fracPart) > 1 {
			frac += int64(fracPart[1] - '0')
			if len(fracPart) > 2 && fracPart[2] >= '5' {
				frac++
			}
		}
	}
	paise := iv*100 + frac
	if paise <= 0 {
		return 0, ErrInvalidAmount
	}
	return paise, nil
}

// MoneyFromRupees converts a rupee value from a JSON number to Money with
// half-up rounding. Negative and non-finite inputs yield zero Money; the
// caller's validation rejects those records.
func MoneyFromRupees(v float64) Money {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return Money{}
	}
	return Money{Paise: int64(math.Round(v * 100))}
}

// Rupees returns the rupee value as a float64 for JSON responses and
// display. Use paise for arithmetic.
func (m Money) Rupees() float64 {
	return float64(m.Paise) / 100.0
}

// Add returns the sum of two amounts.
func (m Money) Add(o Money) Money {
	return Money{Paise: m.Paise + o.Paise}
}

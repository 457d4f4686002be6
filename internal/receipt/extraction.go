// Package receipt turns gateway OCR output into ledger records: it
// parses the loosely-typed extraction the model returns and reconciles
// it into a well-formed record with defaults for anything missing.
package receipt

import (
	"encoding/json"
	"strings"
	"time"
)

// RawExtraction is the optional-field result of a receipt extraction.
// Any field may be absent or malformed; nil means "not usable". It is
// decoded field by field so one bad field does not poison the rest.
type RawExtraction struct {
	Amount      *float64
	Category    *string
	Description *string
	Date        *string
	Items       []Item
}

// Item is one line item from the receipt, when the model found any.
type Item struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// MarshalJSON keeps the wire shape of the original extraction object:
// present fields appear with their values, absent ones are omitted,
// items always serialize (empty as []).
func (e RawExtraction) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, 5)
	if e.Amount != nil {
		out["amount"] = *e.Amount
	}
	if e.Category != nil {
		out["category"] = *e.Category
	}
	if e.Description != nil {
		out["description"] = *e.Description
	}
	if e.Date != nil {
		out["date"] = *e.Date
	}
	items := e.Items
	if items == nil {
		items = []Item{}
	}
	out["items"] = items
	return json.Marshal(out)
}

// ParseExtraction decodes the model's completion text into a
// RawExtraction. Markdown code fences around the JSON are tolerated.
// If the text is not valid JSON at all, the permissive fallback
// extraction is returned and ok is false; parse failure is absorbed
// here, never surfaced.
func ParseExtraction(text string) (ex RawExtraction, ok bool) {
	payload := stripCodeFences(text)

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(payload), &fields); err != nil {
		return FallbackExtraction(), false
	}

	var amount float64
	if raw, present := fields["amount"]; present && json.Unmarshal(raw, &amount) == nil {
		ex.Amount = &amount
	}
	var category string
	if raw, present := fields["category"]; present && json.Unmarshal(raw, &category) == nil {
		ex.Category = &category
	}
	var description string
	if raw, present := fields["description"]; present && json.Unmarshal(raw, &description) == nil {
		ex.Description = &description
	}
	var date string
	if raw, present := fields["date"]; present && json.Unmarshal(raw, &date) == nil {
		ex.Date = &date
	}
	var items []Item
	if raw, present := fields["items"]; present && json.Unmarshal(raw, &items) == nil {
		ex.Items = items
	}
	return ex, true
}

// FallbackExtraction is the substitute record used when the extraction
// text cannot be parsed as JSON.
func FallbackExtraction() RawExtraction {
	amount := 0.0
	description := "Receipt scan - please verify details"
	category := "miscellaneous"
	date := time.Now().UTC().Format(time.RFC3339)
	return RawExtraction{
		Amount:      &amount,
		Description: &description,
		Category:    &category,
		Date:        &date,
		Items:       []Item{},
	}
}

// stripCodeFences removes a surrounding markdown code fence, with or
// without a language tag, returning the inner payload.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if idx := strings.Index(s, "\n"); idx >= 0 {
		// drop the language tag line (e.g. "json")
		s = s[idx+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"paisa/internal/core"
)

// expenseJSON is the wire shape of a ledger record.
type expenseJSON struct {
	ID          string  `json:"id"`
	Amount      float64 `json:"amount"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
	Date        string  `json:"date"`
}

func toExpenseJSON(rec core.ExpenseRecord) expenseJSON {
	return expenseJSON{
		ID:          rec.ID,
		Amount:      rec.Amount.Rupees(),
		Category:    string(rec.Category),
		Description: rec.Description,
		Date:        rec.Date.ISO(),
	}
}

func toExpenseJSONList(records []core.ExpenseRecord) []expenseJSON {
	out := make([]expenseJSON, len(records))
	for i, r := range records {
		out[i] = toExpenseJSON(r)
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// writeError emits the plain error shape used by the ledger endpoints.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeFailure emits the {success:false, error} envelope the advice and
// receipt endpoints use, always with HTTP 500.
func writeFailure(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusInternalServerError, map[string]any{
		"success": false,
		"error":   message,
	})
}

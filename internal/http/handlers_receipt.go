package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"paisa/internal/receipt"
)

type receiptRequest struct {
	ImageBase64 string `json:"imageBase64"`
}

func (s *Server) handleReceipt(w http.ResponseWriter, r *http.Request) {
	var req receiptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFailure(w, "invalid request body")
		return
	}
	if req.ImageBase64 == "" {
		writeFailure(w, "No image data provided")
		return
	}

	extraction, rawText, err := s.receipts.Process(r.Context(), req.ImageBase64)
	if err != nil {
		slog.ErrorContext(r.Context(), "receipt processing failed", "error", err)
		writeFailure(w, err.Error())
		return
	}

	// A partial or even empty extraction still yields a usable record;
	// the user corrects it afterwards.
	rec := s.expenses.CreateExpense(r.Context(), receipt.Reconcile(extraction))
	slog.InfoContext(r.Context(), "receipt reconciled into ledger",
		"id", rec.ID,
		"amount_paise", rec.Amount.Paise,
		"category", rec.Category)

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data":    extraction,
		"rawText": rawText,
		"record":  toExpenseJSON(rec),
	})
}

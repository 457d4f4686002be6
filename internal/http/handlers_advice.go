package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"paisa/internal/advisor"
	"paisa/internal/core"
)

type adviceRequest struct {
	Transactions []expenseJSON `json:"transactions"`
	AnalysisType string        `json:"analysisType"`
	Budget       float64       `json:"budget"`
}

func (s *Server) handleAdvice(w http.ResponseWriter, r *http.Request) {
	var req adviceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFailure(w, "invalid request body")
		return
	}

	kind, err := advisor.ParseKind(req.AnalysisType)
	if err != nil {
		writeFailure(w, "Invalid analysis type")
		return
	}

	// The browser ships its own transaction list; with none supplied the
	// server's ledger snapshot is analyzed instead.
	snapshot := fromAdviceTransactions(req.Transactions)
	if len(snapshot) == 0 {
		snapshot = s.expenses.Ledger().Snapshot()
	}

	budget := core.MoneyFromRupees(req.Budget)
	if budget.Paise == 0 {
		budget = s.defaultBudget
	}

	userID := ""
	if s.verifier != nil {
		userID = s.verifier.UserIDFromRequest(r)
	}

	slog.InfoContext(r.Context(), "advice requested",
		"analysis_type", kind,
		"transactions", len(snapshot),
		"authenticated", userID != "")

	analysis, err := s.advisor.RequestAdvice(r.Context(), kind, snapshot, budget, userID)
	if err != nil {
		if errors.Is(err, advisor.ErrNoData) {
			writeFailure(w, "No transaction data available. Add some expenses first.")
			return
		}
		slog.ErrorContext(r.Context(), "advice generation failed", "analysis_type", kind, "error", err)
		writeFailure(w, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"analysis": analysis,
		"type":     string(kind),
	})
}

// fromAdviceTransactions converts client-supplied transactions for
// prompt embedding. They never enter the ledger, so conversion is
// lenient: categories fold, bad dates become today.
func fromAdviceTransactions(txns []expenseJSON) []core.ExpenseRecord {
	out := make([]core.ExpenseRecord, 0, len(txns))
	for _, t := range txns {
		date, err := core.ParseDate(t.Date)
		if err != nil {
			date = core.Today()
		}
		out = append(out, core.ExpenseRecord{
			ID:          t.ID,
			Amount:      core.MoneyFromRupees(t.Amount),
			Category:    core.NormalizeCategory(t.Category),
			Description: t.Description,
			Date:        date,
		})
	}
	return out
}

package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"paisa/internal/core"
	"paisa/internal/ledger"
)

type createExpenseRequest struct {
	Amount      json.Number `json:"amount"`
	Category    string      `json:"category"`
	Description string      `json:"description"`
	Date        string      `json:"date"`
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	var req createExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	paise, err := core.ParseDecimalToPaise(req.Amount.String())
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "amount must be a positive number")
		return
	}

	date := core.Today()
	if strings.TrimSpace(req.Date) != "" {
		date, err = core.ParseDate(req.Date)
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, "date must be an ISO calendar date (YYYY-MM-DD)")
			return
		}
	}

	in := ledger.Input{
		Amount:      core.Money{Paise: paise},
		Category:    core.NormalizeCategory(req.Category),
		Description: sanitizeInput(req.Description),
		Date:        date,
	}
	if err := (core.ExpenseRecord{Amount: in.Amount, Category: in.Category, Description: in.Description, Date: in.Date}).Validate(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	rec := s.expenses.CreateExpense(r.Context(), in)
	slog.InfoContext(r.Context(), "expense created",
		"id", rec.ID,
		"amount_paise", rec.Amount.Paise,
		"category", rec.Category)

	writeJSON(w, http.StatusCreated, toExpenseJSON(rec))
}

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	store := s.expenses.Ledger()

	records := store.Snapshot()
	if v := strings.TrimSpace(r.URL.Query().Get("limit")); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 0 {
			writeError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		records = store.Recent(limit)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"expenses": toExpenseJSONList(records),
		"count":    len(records),
	})
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	store := s.expenses.Ledger()

	budget := s.defaultBudget
	if v := strings.TrimSpace(r.URL.Query().Get("budget")); v != "" {
		paise, err := core.ParseDecimalToPaise(v)
		if err != nil {
			if f, ferr := strconv.ParseFloat(v, 64); ferr == nil && f == 0 {
				writeError(w, http.StatusUnprocessableEntity, ledger.ErrZeroBudget.Error())
			} else {
				writeError(w, http.StatusBadRequest, "budget must be a positive number")
			}
			return
		}
		budget = core.Money{Paise: paise}
	}

	progress, err := store.BudgetProgress(budget)
	if err != nil {
		if errors.Is(err, ledger.ErrZeroBudget) {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	byCategory := make(map[string]float64)
	for cat, amount := range store.TotalsByCategory() {
		byCategory[string(cat)] = amount.Rupees()
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"total":            store.Total().Rupees(),
		"totalsByCategory": byCategory,
		"budget":           budget.Rupees(),
		"budgetProgress":   progress,
		"averagePerDay":    store.AveragePerDay(s.windowDays).Rupees(),
		"count":            store.Len(),
	})
}

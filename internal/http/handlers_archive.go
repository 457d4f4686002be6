package http

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"paisa/internal/advisor"
	"paisa/internal/core"
	"paisa/internal/storage"
)

// ArchiveReader reads the durable side of the pipeline: expenses landed
// by the worker and analyses stored for authenticated users.
type ArchiveReader interface {
	ListArchivedExpenses(ctx context.Context, limit int) ([]core.ExpenseRecord, error)
	ListAnalyses(ctx context.Context, userID string, limit int) ([]storage.StoredAnalysis, error)
}

// handleLatestAdvice returns the most recent generated analysis for a
// kind without touching the gateway.
func (s *Server) handleLatestAdvice(w http.ResponseWriter, r *http.Request) {
	kind, err := advisor.ParseKind(r.URL.Query().Get("analysisType"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid analysis type")
		return
	}

	res, ok := s.advisor.Latest(kind)
	if !ok {
		writeError(w, http.StatusNotFound, "no analysis generated yet")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":     true,
		"analysis":    res.Analysis,
		"type":        string(res.Kind),
		"generatedAt": res.GeneratedAt.UTC().Format(time.RFC3339),
	})
}

// analysisJSON is the wire shape of one stored analysis.
type analysisJSON struct {
	ID               string  `json:"id"`
	AnalysisType     string  `json:"analysisType"`
	Analysis         string  `json:"analysis"`
	TransactionCount int     `json:"transactionCount"`
	Budget           float64 `json:"budget"`
}

// handleListAnalyses returns the authenticated user's stored analyses,
// newest first.
func (s *Server) handleListAnalyses(w http.ResponseWriter, r *http.Request) {
	if s.archive == nil {
		writeError(w, http.StatusServiceUnavailable, "persistence not configured")
		return
	}
	userID := ""
	if s.verifier != nil {
		userID = s.verifier.UserIDFromRequest(r)
	}
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	limit, ok := limitParam(w, r, 20)
	if !ok {
		return
	}

	stored, err := s.archive.ListAnalyses(r.Context(), userID, limit)
	if err != nil {
		slog.ErrorContext(r.Context(), "listing analyses failed", "user_id", userID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list analyses")
		return
	}

	out := make([]analysisJSON, len(stored))
	for i, a := range stored {
		out[i] = analysisJSON{
			ID:               a.ID,
			AnalysisType:     a.AnalysisType,
			Analysis:         a.Content.Analysis,
			TransactionCount: a.Content.Metadata.TransactionCount,
			Budget:           a.Content.Metadata.Budget,
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"analyses": out, "count": len(out)})
}

// handleListArchive returns the durable expense archive, newest first.
// Unlike /api/expenses this survives restarts; it is what the worker has
// landed so far.
func (s *Server) handleListArchive(w http.ResponseWriter, r *http.Request) {
	if s.archive == nil {
		writeError(w, http.StatusServiceUnavailable, "archive not configured")
		return
	}

	limit, ok := limitParam(w, r, 50)
	if !ok {
		return
	}

	records, err := s.archive.ListArchivedExpenses(r.Context(), limit)
	if err != nil {
		slog.ErrorContext(r.Context(), "listing archive failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list archive")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"expenses": toExpenseJSONList(records),
		"count":    len(records),
	})
}

// limitParam reads an optional positive limit query parameter. On a bad
// value it writes the error response and reports false.
func limitParam(w http.ResponseWriter, r *http.Request, def int) (int, bool) {
	v := strings.TrimSpace(r.URL.Query().Get("limit"))
	if v == "" {
		return def, true
	}
	limit, err := strconv.Atoi(v)
	if err != nil || limit < 1 {
		writeError(w, http.StatusBadRequest, "limit must be a positive integer")
		return 0, false
	}
	return limit, true
}

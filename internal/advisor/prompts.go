package advisor

import (
	"encoding/json"
	"errors"
	"fmt"

	"paisa/internal/core"
)

// Kind selects one of the three fixed analyses.
type Kind string

const (
	SpendingAdvice       Kind = "spending_advice"
	BudgetRecommendation Kind = "budget_recommendation"
	PatternAnalysis      Kind = "pattern_analysis"
)

// ErrInvalidKind rejects analysis types outside the fixed set.
var ErrInvalidKind = errors.New("invalid analysis type")

// ParseKind validates an externally supplied analysis type.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case SpendingAdvice, BudgetRecommendation, PatternAnalysis:
		return Kind(s), nil
	default:
		return "", ErrInvalidKind
	}
}

// promptTxn is the transaction shape embedded in outbound prompts,
// mirroring the ledger records the browser ships.
type promptTxn struct {
	ID          string  `json:"id"`
	Amount      float64 `json:"amount"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
	Date        string  `json:"date"`
}

func promptTxns(records []core.ExpenseRecord) []promptTxn {
	out := make([]promptTxn, len(records))
	for i, r := range records {
		out[i] = promptTxn{
			ID:          r.ID,
			Amount:      r.Amount.Rupees(),
			Category:    string(r.Category),
			Description: r.Description,
			Date:        r.Date.ISO(),
		}
	}
	return out
}

// buildPrompts returns the fixed system/user instruction pair for a kind.
// The transaction list is already truncated by the caller.
func buildPrompts(kind Kind, records []core.ExpenseRecord, budget core.Money) (system, user string, err error) {
	txns, err := json.Marshal(promptTxns(records))
	if err != nil {
		return "", "", fmt.Errorf("marshal transactions: %w", err)
	}

	switch kind {
	case SpendingAdvice:
		system = "You are a personal finance advisor for Indian students. Provide practical, culturally relevant advice for managing student expenses. Focus on local context like college canteens, auto-rickshaws, and typical student budgets in INR."
		user = fmt.Sprintf(`Based on these spending patterns, provide personalized advice (max 150 words):
        Transactions: %s
        Budget: ₹%g

        Give specific, actionable advice for this student.`, txns, budget.Rupees())

	case BudgetRecommendation:
		system = "You are a financial planning expert for Indian students. Suggest realistic budget allocations based on spending patterns."
		user = fmt.Sprintf(`Analyze these transactions and suggest an optimal monthly budget breakdown:
        Transactions: %s
        Current Budget: ₹%g

        Provide category-wise budget recommendations in a structured format.`, txns, budget.Rupees())

	case PatternAnalysis:
		system = "You are a data analyst specializing in spending behavior. Identify trends and patterns in financial data."
		user = fmt.Sprintf(`Analyze spending patterns and identify insights:
        Transactions: %s

        Identify trends, peak spending days, category insights, and potential areas for improvement.`, txns)

	default:
		return "", "", ErrInvalidKind
	}
	return system, user, nil
}

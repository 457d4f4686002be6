// Package storage is the SQLite persistence layer: the durable expense
// archive written by the worker and the ai_analysis table holding
// generated advice for authenticated users.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"paisa/internal/advisor"
	"paisa/internal/core"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(dbPath string) (*Repository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// ArchiveExpense writes one ledger record to the archive. Inserts are
// idempotent on record id so requeued messages do not duplicate rows.
func (r *Repository) ArchiveExpense(ctx context.Context, rec core.ExpenseRecord) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO expenses (id, amount_paise, category, description, expense_date)
		 VALUES (?, ?, ?, ?, ?)`,
		rec.ID, rec.Amount.Paise, string(rec.Category), rec.Description, rec.Date.ISO())
	if err != nil {
		return fmt.Errorf("archive expense: %w", err)
	}

	slog.InfoContext(ctx, "expense archived",
		"id", rec.ID,
		"amount_paise", rec.Amount.Paise,
		"category", rec.Category)
	return nil
}

// ListArchivedExpenses returns the newest archived records up to limit.
func (r *Repository) ListArchivedExpenses(ctx context.Context, limit int) ([]core.ExpenseRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, amount_paise, category, description, expense_date
		 FROM expenses ORDER BY expense_date DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list archived expenses: %w", err)
	}
	defer rows.Close()

	var out []core.ExpenseRecord
	for rows.Next() {
		var (
			rec      core.ExpenseRecord
			category string
			date     string
		)
		if err := rows.Scan(&rec.ID, &rec.Amount.Paise, &category, &rec.Description, &date); err != nil {
			return nil, fmt.Errorf("scan expense row: %w", err)
		}
		rec.Category = core.Category(category)
		if d, perr := core.ParseDate(date); perr == nil {
			rec.Date = d
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// SaveAnalysis implements advisor.AnalysisSaver.
func (r *Repository) SaveAnalysis(ctx context.Context, userID string, kind string, content advisor.AnalysisContent) error {
	payload, err := json.Marshal(content)
	if err != nil {
		return fmt.Errorf("marshal analysis content: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO ai_analysis (id, user_id, analysis_type, content) VALUES (?, ?, ?, ?)`,
		uuid.New().String(), userID, kind, string(payload))
	if err != nil {
		return fmt.Errorf("save analysis: %w", err)
	}

	slog.InfoContext(ctx, "analysis saved", "user_id", userID, "analysis_type", kind)
	return nil
}

// StoredAnalysis is one persisted advice result.
type StoredAnalysis struct {
	ID           string
	UserID       string
	AnalysisType string
	Content      advisor.AnalysisContent
}

// ListAnalyses returns the newest stored analyses for a user.
func (r *Repository) ListAnalyses(ctx context.Context, userID string, limit int) ([]StoredAnalysis, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, analysis_type, content
		 FROM ai_analysis WHERE user_id = ? ORDER BY created_at DESC LIMIT ?`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list analyses: %w", err)
	}
	defer rows.Close()

	var out []StoredAnalysis
	for rows.Next() {
		var (
			a       StoredAnalysis
			content string
		)
		if err := rows.Scan(&a.ID, &a.UserID, &a.AnalysisType, &content); err != nil {
			return nil, fmt.Errorf("scan analysis row: %w", err)
		}
		if err := json.Unmarshal([]byte(content), &a.Content); err != nil {
			return nil, fmt.Errorf("decode analysis content: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

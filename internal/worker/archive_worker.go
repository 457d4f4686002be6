// Package worker consumes expense archive messages and lands them in
// durable storage, optionally mirroring rows to a Google Sheet.
package worker

import (
	"context"
	"fmt"
	"log/slog"

	"paisa/internal/amqp"
	"paisa/internal/core"
	"paisa/internal/storage"
)

// SheetAppender mirrors an archived record to an external sheet.
type SheetAppender interface {
	AppendExpense(ctx context.Context, rec core.ExpenseRecord) error
}

type ArchiveWorker struct {
	repo   *storage.Repository
	sheets SheetAppender
}

// NewArchiveWorker wires the worker. sheets may be nil when no mirror is
// configured.
func NewArchiveWorker(repo *storage.Repository, sheets SheetAppender) *ArchiveWorker {
	return &ArchiveWorker{repo: repo, sheets: sheets}
}

// HandleArchiveMessage lands one record in SQLite and mirrors it to the
// sheet. A database failure requeues the message; a mirror failure is
// logged and dropped since the durable archive already has the row.
func (w *ArchiveWorker) HandleArchiveMessage(msg *amqp.ExpenseArchiveMessage) error {
	ctx := context.Background()
	rec := msg.Record()

	if err := w.repo.ArchiveExpense(ctx, rec); err != nil {
		return fmt.Errorf("archive expense %s: %w", rec.ID, err)
	}

	if w.sheets != nil {
		if err := w.sheets.AppendExpense(ctx, rec); err != nil {
			slog.WarnContext(ctx, "sheet mirror failed", "id", rec.ID, "error", err)
		}
	}
	return nil
}

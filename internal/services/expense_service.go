// Package services orchestrates expense operations across the in-memory
// ledger and the async archive pipeline.
package services

import (
	"context"
	"log/slog"

	"paisa/internal/amqp"
	"paisa/internal/core"
	"paisa/internal/ledger"
)

// ArchivePublisher publishes appended records toward the archive worker.
type ArchivePublisher interface {
	PublishExpenseArchive(ctx context.Context, msg *amqp.ExpenseArchiveMessage) error
}

// ExpenseService appends to the ledger and fans the record out to the
// archive queue. The ledger append is the source of truth; archival is
// best-effort and never fails the request.
type ExpenseService struct {
	ledger    *ledger.Store
	publisher ArchivePublisher
}

// NewExpenseService wires the service. publisher may be nil when AMQP is
// not configured.
func NewExpenseService(store *ledger.Store, publisher ArchivePublisher) *ExpenseService {
	return &ExpenseService{ledger: store, publisher: publisher}
}

// CreateExpense stores the record and publishes it for archival.
func (s *ExpenseService) CreateExpense(ctx context.Context, in ledger.Input) core.ExpenseRecord {
	rec := s.ledger.Append(in)

	if s.publisher == nil {
		slog.DebugContext(ctx, "archive publisher not configured, skipping publish", "id", rec.ID)
		return rec
	}
	if err := s.publisher.PublishExpenseArchive(ctx, amqp.NewExpenseArchiveMessage(rec)); err != nil {
		// Don't fail the request, the record is in the ledger.
		slog.ErrorContext(ctx, "failed to publish archive message", "id", rec.ID, "error", err)
	}
	return rec
}

// Ledger exposes the underlying store for readers.
func (s *ExpenseService) Ledger() *ledger.Store {
	return s.ledger
}

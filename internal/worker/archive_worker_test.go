package worker

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"paisa/internal/amqp"
	"paisa/internal/core"
	"paisa/internal/storage"
)

type fakeSheets struct {
	appended []core.ExpenseRecord
	err      error
}

func (f *fakeSheets) AppendExpense(_ context.Context, rec core.ExpenseRecord) error {
	f.appended = append(f.appended, rec)
	return f.err
}

func newTestWorker(t *testing.T, sheets SheetAppender) (*ArchiveWorker, *storage.Repository) {
	t.Helper()
	repo, err := storage.NewRepository(filepath.Join(t.TempDir(), "paisa.db"))
	if err != nil {
		t.Fatalf("NewRepository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return NewArchiveWorker(repo, sheets), repo
}

func archiveMessage() *amqp.ExpenseArchiveMessage {
	return amqp.NewExpenseArchiveMessage(core.ExpenseRecord{
		ID:          "01ARZ3NDEKTSV4RRFFQ69G5FAV",
		Amount:      core.Money{Paise: 12000},
		Category:    core.Food,
		Description: "Canteen lunch",
		Date:        core.NewDate(2024, 1, 15),
	})
}

func TestHandleArchiveMessage(t *testing.T) {
	sheets := &fakeSheets{}
	w, repo := newTestWorker(t, sheets)

	if err := w.HandleArchiveMessage(archiveMessage()); err != nil {
		t.Fatal(err)
	}

	got, err := repo.ListArchivedExpenses(context.Background(), 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Amount.Paise != 12000 {
		t.Fatalf("archived = %+v", got)
	}
	if len(sheets.appended) != 1 || sheets.appended[0].ID != got[0].ID {
		t.Fatalf("mirrored = %+v", sheets.appended)
	}
}

func TestHandleArchiveMessageWithoutSheets(t *testing.T) {
	w, _ := newTestWorker(t, nil)
	if err := w.HandleArchiveMessage(archiveMessage()); err != nil {
		t.Fatal(err)
	}
}

func TestHandleArchiveMessageSheetFailureIsDropped(t *testing.T) {
	w, repo := newTestWorker(t, &fakeSheets{err: errors.New("quota exceeded")})

	// The durable archive has the row; a mirror failure must not requeue.
	if err := w.HandleArchiveMessage(archiveMessage()); err != nil {
		t.Fatal(err)
	}
	got, err := repo.ListArchivedExpenses(context.Background(), 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Fatalf("archived = %d, want 1", len(got))
	}
}

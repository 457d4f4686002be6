package amqp

import (
	"encoding/json"
	"time"

	"paisa/internal/core"
)

// ExpenseArchiveMessage carries one appended ledger record toward the
// archive worker. The ledger is in-memory only, so the message holds the
// full record rather than an id for the consumer to look up.
type ExpenseArchiveMessage struct {
	ID          string    `json:"id"`
	AmountPaise int64     `json:"amount_paise"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	Date        string    `json:"date"`
	Timestamp   time.Time `json:"timestamp"`
}

// NewExpenseArchiveMessage builds a message from a stored record.
func NewExpenseArchiveMessage(rec core.ExpenseRecord) *ExpenseArchiveMessage {
	return &ExpenseArchiveMessage{
		ID:          rec.ID,
		AmountPaise: rec.Amount.Paise,
		Category:    string(rec.Category),
		Description: rec.Description,
		Date:        rec.Date.ISO(),
		Timestamp:   time.Now(),
	}
}

// Record converts the message back into a ledger record.
func (m *ExpenseArchiveMessage) Record() core.ExpenseRecord {
	rec := core.ExpenseRecord{
		ID:          m.ID,
		Amount:      core.Money{Paise: m.AmountPaise},
		Category:    core.NormalizeCategory(m.Category),
		Description: m.Description,
	}
	if d, err := core.ParseDate(m.Date); err == nil {
		rec.Date = d
	}
	return rec
}

func (m *ExpenseArchiveMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func ExpenseArchiveMessageFromJSON(data []byte) (*ExpenseArchiveMessage, error) {
	var msg ExpenseArchiveMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

package amqp

import (
	"encoding/json"
	"errors"
	"time"

	"pennywise/internal/core"
)

// EventExpenseCreated is both the event type and the routing key.
const EventExpenseCreated = "expense.created"

// ExpenseEvent is published after an expense is stored. It carries enough
// of the record for consumers to aggregate without reading the store.
type ExpenseEvent struct {
	Type        string    `json:"type"`
	ExpenseID   string    `json:"expense_id"`
	UserID      string    `json:"user_id"`
	Category    string    `json:"category"`
	PaymentType string    `json:"payment_type"`
	AmountCents int64     `json:"amount_cents"`
	Date        string    `json:"date"`
	Timestamp   time.Time `json:"timestamp"`
}

func NewExpenseCreated(e core.Expense) *ExpenseEvent {
	return &ExpenseEvent{
		Type:        EventExpenseCreated,
		ExpenseID:   e.ID,
		UserID:      e.UserID,
		Category:    string(e.Category),
		PaymentType: string(e.PaymentType),
		AmountCents: e.Amount.Cents,
		Date:        e.Date.String(),
		Timestamp:   time.Now().UTC(),
	}
}

func (m *ExpenseEvent) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ExpenseEventFromJSON decodes an event and rejects payloads without a type or id.
func ExpenseEventFromJSON(data []byte) (*ExpenseEvent, error) {
	var msg ExpenseEvent
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if msg.Type == "" || msg.ExpenseID == "" {
		return nil, errors.New("event missing type or expense_id")
	}
	return &msg, nil
}

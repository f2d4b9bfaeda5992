package worker

import (
	"context"
	"testing"

	"pennywise/internal/amqp"
)

func TestHandleExpenseEventDeduplicates(t *testing.T) {
	w := NewEventWorker()
	ev := &amqp.ExpenseEvent{Type: amqp.EventExpenseCreated, ExpenseID: "e1", Category: "Food", PaymentType: "Cash", AmountCents: 500}

	for i := 0; i < 3; i++ {
		if err := w.HandleExpenseEvent(context.Background(), ev); err != nil {
			t.Fatalf("HandleExpenseEvent: %v", err)
		}
	}
	if n := w.seen.Size(); n != 1 {
		t.Fatalf("expected one remembered event, got %d", n)
	}
}

func TestHandleExpenseEventIgnoresUnknownTypes(t *testing.T) {
	w := NewEventWorker()
	if err := w.HandleExpenseEvent(context.Background(), &amqp.ExpenseEvent{Type: "expense.deleted", ExpenseID: "e1"}); err != nil {
		t.Fatalf("unknown events must be acked, got %v", err)
	}
	if w.seen.Size() != 0 {
		t.Fatal("unknown events must not be remembered")
	}
}

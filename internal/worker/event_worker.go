package worker

import (
	"context"
	"log/slog"
	"time"

	"pennywise/internal/amqp"
	"pennywise/internal/cache"
	"pennywise/internal/metrics"
)

const (
	seenSize = 10000
	seenTTL  = 24 * time.Hour
)

// EventWorker turns expense events into spend metrics. Redelivered events
// are recognised by expense id and counted once.
type EventWorker struct {
	seen *cache.LRUCache[struct{}]
}

func NewEventWorker() *EventWorker {
	return &EventWorker{seen: cache.NewLRUCache[struct{}](seenSize, seenTTL)}
}

// Seen exposes the dedup cache for periodic cleanup.
func (w *EventWorker) Seen() cache.Cleaner { return w.seen }

// HandleExpenseEvent is an amqp.Handler.
func (w *EventWorker) HandleExpenseEvent(ctx context.Context, ev *amqp.ExpenseEvent) error {
	if ev.Type != amqp.EventExpenseCreated {
		slog.WarnContext(ctx, "Ignoring unknown event", "type", ev.Type, "expense_id", ev.ExpenseID)
		metrics.EventConsumed(metrics.OutcomeIgnored)
		return nil
	}
	if _, dup := w.seen.Get(ev.ExpenseID); dup {
		slog.DebugContext(ctx, "Skipping duplicate event", "expense_id", ev.ExpenseID)
		metrics.EventConsumed(metrics.OutcomeDuplicate)
		return nil
	}

	metrics.RecordSpend(ev.Category, ev.PaymentType, ev.AmountCents)
	metrics.EventConsumed(metrics.OutcomeProcessed)
	w.seen.Set(ev.ExpenseID, struct{}{})

	slog.InfoContext(ctx, "Processed expense event",
		"expense_id", ev.ExpenseID,
		"user_id", ev.UserID,
		"category", ev.Category,
		"amount_cents", ev.AmountCents)
	return nil
}

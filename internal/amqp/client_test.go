package amqp

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"pennywise/internal/core"
)

func TestExponentialBackoff(t *testing.T) {
	tests := []struct {
		attempt  int
		expected time.Duration
	}{
		{0, 1 * time.Second},
		{1, 2 * time.Second},
		{2, 4 * time.Second},
		{3, 8 * time.Second},
		{4, 16 * time.Second},
		{5, 30 * time.Second},
		{6, 30 * time.Second},
		{40, 30 * time.Second},
	}

	for _, tt := range tests {
		if got := exponentialBackoff(tt.attempt); got != tt.expected {
			t.Errorf("exponentialBackoff(%d) = %v, want %v", tt.attempt, got, tt.expected)
		}
	}
}

func TestIsConnectionError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"closed sentinel", amqp091.ErrClosed, true},
		{"connection refused", errors.New("dial tcp: connection refused"), true},
		{"eof", errors.New("unexpected EOF"), true},
		{"broken pipe", errors.New("write: broken pipe"), true},
		{"closed network", errors.New("use of closed network connection"), true},
		{"other", errors.New("invalid routing key"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isConnectionError(tt.err); got != tt.want {
				t.Errorf("isConnectionError(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestPublishWithoutChannelReportsClosed(t *testing.T) {
	c := &Client{url: "amqp://invalid:1/", exchangeName: "pennywise", queueName: "q"}
	if err := c.publish(context.Background(), []byte("{}")); !errors.Is(err, amqp091.ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
}

func TestConnectSkipsDialWhenChannelAlreadyReplaced(t *testing.T) {
	// An open channel means a concurrent caller already reconnected; the
	// unreachable URL proves no second connection is dialed.
	healthy := &amqp091.Channel{}
	c := &Client{url: "amqp://127.0.0.1:1/", exchangeName: "pennywise", queueName: "q", channel: healthy}

	var wg sync.WaitGroup
	errs := make([]error, 8)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = c.connect()
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Fatalf("connect %d: %v", i, err)
		}
	}
	if c.currentChannel() != healthy {
		t.Fatalf("channel was replaced")
	}
}

func TestConnectFailureKeepsPreviousState(t *testing.T) {
	c := &Client{url: "amqp://127.0.0.1:1/", exchangeName: "pennywise", queueName: "q"}
	if err := c.connect(); err == nil {
		t.Fatalf("expected dial error")
	}
	if c.currentChannel() != nil {
		t.Fatalf("expected no channel after failed dial")
	}
	closeQuietly(nil, nil)
}

type fakeAcker struct {
	acked, nacked, requeued bool
}

func (f *fakeAcker) Ack(uint64, bool) error { f.acked = true; return nil }
func (f *fakeAcker) Nack(_ uint64, _ bool, requeue bool) error {
	f.nacked, f.requeued = true, requeue
	return nil
}
func (f *fakeAcker) Reject(_ uint64, requeue bool) error {
	f.nacked, f.requeued = true, requeue
	return nil
}

func TestProcessDelivery(t *testing.T) {
	body, err := NewExpenseCreated(core.Expense{ID: "e1", UserID: "u1", Category: core.CategoryFood}).ToJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	t.Run("acks on success", func(t *testing.T) {
		ack := &fakeAcker{}
		var got *ExpenseEvent
		processDelivery(context.Background(), amqp091.Delivery{Acknowledger: ack, Body: body},
			func(_ context.Context, ev *ExpenseEvent) error { got = ev; return nil })
		if !ack.acked || got == nil || got.ExpenseID != "e1" {
			t.Fatalf("expected ack with decoded event, got ack=%v ev=%+v", ack.acked, got)
		}
	})

	t.Run("drops malformed payload", func(t *testing.T) {
		ack := &fakeAcker{}
		processDelivery(context.Background(), amqp091.Delivery{Acknowledger: ack, Body: []byte("nope")},
			func(context.Context, *ExpenseEvent) error { t.Fatal("handler must not run"); return nil })
		if !ack.nacked || ack.requeued {
			t.Fatalf("expected nack without requeue, got %+v", ack)
		}
	})

	t.Run("requeues first failure only", func(t *testing.T) {
		fail := func(context.Context, *ExpenseEvent) error { return errors.New("boom") }

		first := &fakeAcker{}
		processDelivery(context.Background(), amqp091.Delivery{Acknowledger: first, Body: body}, fail)
		if !first.nacked || !first.requeued {
			t.Fatalf("expected requeue on first failure, got %+v", first)
		}

		again := &fakeAcker{}
		processDelivery(context.Background(), amqp091.Delivery{Acknowledger: again, Body: body, Redelivered: true}, fail)
		if !again.nacked || again.requeued {
			t.Fatalf("expected drop on redelivered failure, got %+v", again)
		}
	})
}

func TestExpenseEventJSON(t *testing.T) {
	e := core.Expense{
		ID:          "e1",
		UserID:      "u1",
		Amount:      core.Money{Cents: 12550},
		Date:        core.NewDate(2024, 3, 9),
		Category:    core.CategoryTransport,
		PaymentType: core.Credit,
	}
	data, err := NewExpenseCreated(e).ToJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	ev, err := ExpenseEventFromJSON(data)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if ev.Type != EventExpenseCreated || ev.AmountCents != 12550 || ev.Date != "2024-03-09" || ev.Category != string(core.CategoryTransport) {
		t.Fatalf("unexpected event %+v", ev)
	}

	if _, err := ExpenseEventFromJSON([]byte(`{"type":"expense.created"}`)); err == nil {
		t.Fatal("expected error for event without expense id")
	}
}

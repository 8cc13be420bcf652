package audit

import (
	"context"
	"sync"
	"time"

	"github.com/modaworks/clothestore/internal/domain/order"
	"github.com/modaworks/clothestore/internal/domain/outbox"
	"github.com/modaworks/clothestore/internal/observability"
)

// Entry is one recorded lifecycle event of an order.
type Entry struct {
	Event      string
	OrderID    string
	Detail     string
	RecordedAt time.Time
}

// Trail subscribes to order lifecycle events and keeps an append-only
// in-memory audit log of them.
type Trail struct {
	mu      sync.RWMutex
	entries []Entry
	log     observability.Logger
}

func NewTrail(logger observability.Logger) *Trail {
	if logger == nil {
		logger = observability.NopLogger()
	}
	return &Trail{
		log: logger.With(observability.F("component", "audit_trail")),
	}
}

// Register subscribes the trail to every order lifecycle event.
func (t *Trail) Register(sub outbox.Subscriber) {
	sub.Subscribe(order.OrderPlacedEvent{}.EventName(), t.handle)
	sub.Subscribe(order.OrderConfirmedEvent{}.EventName(), t.handle)
	sub.Subscribe(order.OrderCancelledEvent{}.EventName(), t.handle)
}

func (t *Trail) handle(ctx context.Context, e outbox.Event) error {
	_ = ctx

	entry := Entry{Event: e.EventName(), RecordedAt: time.Now().UTC()}
	switch evt := e.(type) {
	case order.OrderPlacedEvent:
		entry.OrderID = evt.OrderID
		entry.Detail = evt.Total.StringFixed(2)
	case order.OrderConfirmedEvent:
		entry.OrderID = evt.OrderID
		entry.Detail = evt.Amount.StringFixed(2)
	case order.OrderCancelledEvent:
		entry.OrderID = evt.OrderID
		entry.Detail = evt.Reason
	default:
		return nil
	}

	t.mu.Lock()
	t.entries = append(t.entries, entry)
	t.mu.Unlock()

	t.log.Info("order_event_recorded",
		observability.F("event", entry.Event),
		observability.F("order_id", entry.OrderID),
	)
	return nil
}

// Entries returns a copy of the recorded trail in arrival order.
func (t *Trail) Entries() []Entry {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

// ForOrder filters the trail down to a single order.
func (t *Trail) ForOrder(orderID string) []Entry {
	t.mu.RLock()
	defer t.mu.RUnlock()
	var out []Entry
	for _, e := range t.entries {
		if e.OrderID == orderID {
			out = append(out, e)
		}
	}
	return out
}

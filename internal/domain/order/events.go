package order

import (
	"time"

	"github.com/shopspring/decimal"
)

// EventLine mirrors an order item in event payloads without exposing prices
// to subscribers that only track stock movement.
type EventLine struct {
	ProductID string
	Quantity  int
}

// OrderPlacedEvent is emitted when checkout builds an order and its stock is
// provisionally reserved.
type OrderPlacedEvent struct {
	OrderID    string
	CustomerID string
	Lines      []EventLine
	Total      decimal.Decimal
	OccurredAt time.Time
}

func (OrderPlacedEvent) EventName() string { return "order.placed" }

func NewOrderPlacedEvent(o *Order) OrderPlacedEvent {
	lines := make([]EventLine, len(o.Items))
	for i, it := range o.Items {
		lines[i] = EventLine{ProductID: it.ProductID, Quantity: it.Quantity}
	}
	return OrderPlacedEvent{
		OrderID:    o.ID,
		CustomerID: o.CustomerID,
		Lines:      lines,
		Total:      o.Total(),
		OccurredAt: time.Now().UTC(),
	}
}

// OrderConfirmedEvent is emitted once payment is captured and the stock
// reservation committed.
type OrderConfirmedEvent struct {
	OrderID    string
	Amount     decimal.Decimal
	OccurredAt time.Time
}

func (OrderConfirmedEvent) EventName() string { return "order.confirmed" }

func NewOrderConfirmedEvent(o *Order) OrderConfirmedEvent {
	return OrderConfirmedEvent{
		OrderID:    o.ID,
		Amount:     o.Total(),
		OccurredAt: time.Now().UTC(),
	}
}

// OrderCancelledEvent is emitted when an order is cancelled and its
// reservation released, whether by the customer or by a failed charge.
type OrderCancelledEvent struct {
	OrderID    string
	Reason     string
	OccurredAt time.Time
}

func (OrderCancelledEvent) EventName() string { return "order.cancelled" }

func NewOrderCancelledEvent(o *Order) OrderCancelledEvent {
	return OrderCancelledEvent{
		OrderID:    o.ID,
		Reason:     o.FailureReason,
		OccurredAt: time.Now().UTC(),
	}
}

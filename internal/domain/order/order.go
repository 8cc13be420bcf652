package order

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/modaworks/clothestore/internal/domain/payment"
)

var (
	ErrNotFound               = errors.New("order: not found")
	ErrConflict               = errors.New("order: conflicting update")
	ErrNoItems                = errors.New("order: at least one item is required")
	ErrInvalidQuantity        = errors.New("order: quantity must be greater than zero")
	ErrInvalidUnitPrice       = errors.New("order: unit price must be zero or greater")
	ErrInvalidStateTransition = errors.New("order: invalid state transition")
)

type Status string

const (
	// StatusStockReserved: checkout succeeded, stock provisionally decremented.
	StatusStockReserved Status = "stock_reserved"
	// StatusPaymentPending: a payment attempt claimed the order. The claim is
	// what serializes pay against cancel; it is never a resting state.
	StatusPaymentPending Status = "payment_pending"
	// StatusConfirmed: charged and committed. Terminal.
	StatusConfirmed Status = "confirmed"
	// StatusCancelled: reservation released, nothing charged. Terminal.
	StatusCancelled Status = "cancelled"
)

// Item is an immutable line snapshot taken at checkout time. UnitPrice is
// never re-read from the catalog afterwards.
type Item struct {
	ProductID string
	Quantity  int
	UnitPrice decimal.Decimal
}

func (i Item) Subtotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Order is created by checkout and immutable afterwards except for status,
// payment record and failure reason. Version backs optimistic concurrency in
// the repository.
type Order struct {
	ID                string
	CustomerID        string
	ShippingAddressID string
	Items             []Item
	ReservationToken  string
	Payment           *payment.Record
	Status            Status
	FailureReason     string
	Version           uint64
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func New(id, customerID, shippingAddressID, reservationToken string, items []Item) (*Order, error) {
	if len(items) == 0 {
		return nil, ErrNoItems
	}
	for _, it := range items {
		if it.Quantity <= 0 {
			return nil, ErrInvalidQuantity
		}
		if it.UnitPrice.IsNegative() {
			return nil, ErrInvalidUnitPrice
		}
	}

	now := time.Now().UTC()
	return &Order{
		ID:                id,
		CustomerID:        customerID,
		ShippingAddressID: shippingAddressID,
		Items:             append([]Item(nil), items...),
		ReservationToken:  reservationToken,
		Status:            StatusStockReserved,
		Version:           1,
		CreatedAt:         now,
		UpdatedAt:         now,
	}, nil
}

// Total derives the order total from the item snapshots; it is never stored.
func (o *Order) Total() decimal.Decimal {
	total := decimal.Zero
	for _, it := range o.Items {
		total = total.Add(it.Subtotal())
	}
	return total
}

// BeginPayment claims the order for a payment attempt.
func (o *Order) BeginPayment() error {
	return o.apply(func(s orderState) (orderState, error) {
		return s.onPaymentStarted(o)
	})
}

// PaymentSucceeded records the charge and confirms the order. Reaching
// confirmed from the payment claim is one logical step; no intermediate state
// is observable outside.
func (o *Order) PaymentSucceeded(rec *payment.Record) error {
	return o.apply(func(s orderState) (orderState, error) {
		next, err := s.onPaymentSucceeded(o)
		if err != nil {
			return nil, err
		}
		o.Payment = rec
		return next, nil
	})
}

// PaymentFailed records the failed attempt and cancels the order.
func (o *Order) PaymentFailed(rec *payment.Record, reason string) error {
	return o.apply(func(s orderState) (orderState, error) {
		next, err := s.onPaymentFailed(o, reason)
		if err != nil {
			return nil, err
		}
		o.Payment = rec
		return next, nil
	})
}

// Cancel aborts an order that has not entered payment.
func (o *Order) Cancel() error {
	return o.apply(func(s orderState) (orderState, error) {
		return s.onCancelled(o)
	})
}

func (o *Order) apply(transition func(orderState) (orderState, error)) error {
	next, err := transition(stateFor(o.Status))
	if err != nil {
		return err
	}
	o.Status = next.status()
	o.touch()
	return nil
}

func (o *Order) Clone() *Order {
	if o == nil {
		return nil
	}
	clone := *o
	clone.Items = append([]Item(nil), o.Items...)
	if o.Payment != nil {
		rec := *o.Payment
		clone.Payment = &rec
	}
	return &clone
}

func (o *Order) touch() {
	o.UpdatedAt = time.Now().UTC()
}

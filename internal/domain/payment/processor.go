package payment

import (
	"context"

	"github.com/shopspring/decimal"
)

// ChargeRequest asks a processor to capture Amount against Method. Key is the
// idempotency key; submitting the same key twice must not charge twice.
type ChargeRequest struct {
	Key    string
	Amount decimal.Decimal
	Method Method
}

// Processor is the single capability the order flow depends on. Callers never
// see the method variant behind it. Charge is the only operation expected to
// block on the network, so it takes the caller's context and deadline.
//
// Refund is part of the contract for the (out of scope) refund workflow; the
// checkout path never calls it.
type Processor interface {
	Charge(ctx context.Context, req ChargeRequest) (*Record, error)
	Refund(ctx context.Context, key string, amount decimal.Decimal) (*Record, error)
}

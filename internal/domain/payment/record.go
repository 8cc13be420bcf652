package payment

import (
	"time"

	"github.com/shopspring/decimal"
)

type Outcome string

const (
	OutcomeSucceeded Outcome = "succeeded"
	OutcomeFailed    Outcome = "failed"
)

// Failure reasons reported by processors.
const (
	ReasonDeclined    = "declined"
	ReasonTimeout     = "timeout"
	ReasonUnavailable = "gateway_unavailable"
)

// Record is the durable trace of one charge or refund attempt. Key is the
// idempotency key (the order ID for checkout charges): a processor must charge
// a given key at most once regardless of retries.
type Record struct {
	Key       string
	Kind      MethodKind
	Amount    decimal.Decimal
	Outcome   Outcome
	Reason    string
	CreatedAt time.Time
}

func NewRecord(key string, kind MethodKind, amount decimal.Decimal, outcome Outcome, reason string) *Record {
	return &Record{
		Key:       key,
		Kind:      kind,
		Amount:    amount,
		Outcome:   outcome,
		Reason:    reason,
		CreatedAt: time.Now().UTC(),
	}
}

func (r *Record) Succeeded() bool {
	return r != nil && r.Outcome == OutcomeSucceeded
}

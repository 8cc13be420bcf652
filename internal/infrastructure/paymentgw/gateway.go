package paymentgw

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/modaworks/clothestore/internal/domain/payment"
	"github.com/modaworks/clothestore/internal/observability"
)

var (
	ErrMissingKey    = errors.New("paymentgw: idempotency key is required")
	ErrUnknownCharge = errors.New("paymentgw: no charge recorded for key")
)

// Decider resolves a charge attempt to an outcome and, on failure, a reason.
type Decider func(req payment.ChargeRequest) (payment.Outcome, string)

// ApproveAll approves every charge. The default.
func ApproveAll(payment.ChargeRequest) (payment.Outcome, string) {
	return payment.OutcomeSucceeded, ""
}

// DeclineAll declines every charge with the given reason.
func DeclineAll(reason string) Decider {
	return func(payment.ChargeRequest) (payment.Outcome, string) {
		return payment.OutcomeFailed, reason
	}
}

// RateDecider approves with the given probability, declining otherwise.
func RateDecider(successRate float64, seed int64) Decider {
	var mu sync.Mutex
	random := rand.New(rand.NewSource(seed))
	return func(payment.ChargeRequest) (payment.Outcome, string) {
		mu.Lock()
		defer mu.Unlock()
		if random.Float64() <= successRate {
			return payment.OutcomeSucceeded, ""
		}
		return payment.OutcomeFailed, payment.ReasonDeclined
	}
}

// Gateway simulates an external payment processor. It honors the caller's
// context deadline (an expired deadline is a failed attempt with reason
// "timeout": the simulated remote side is not told to stop, mirroring a
// compensating-action model) and deduplicates successful charges by
// idempotency key, so the same key is captured at most once.
type Gateway struct {
	mu      sync.Mutex
	charged map[string]*payment.Record
	decide  Decider
	latency time.Duration
	log     observability.Logger
}

type Option func(*Gateway)

// WithDecider overrides the outcome decision, used to simulate declines.
func WithDecider(d Decider) Option {
	return func(g *Gateway) {
		if d != nil {
			g.decide = d
		}
	}
}

// WithLatency sets the simulated round-trip time.
func WithLatency(d time.Duration) Option {
	return func(g *Gateway) { g.latency = d }
}

func New(logger observability.Logger, opts ...Option) *Gateway {
	if logger == nil {
		logger = observability.NopLogger()
	}
	g := &Gateway{
		charged: make(map[string]*payment.Record),
		decide:  ApproveAll,
		log:     logger.With(observability.F("component", "payment_gateway")),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *Gateway) Charge(ctx context.Context, req payment.ChargeRequest) (*payment.Record, error) {
	if req.Key == "" {
		return nil, ErrMissingKey
	}

	g.mu.Lock()
	if rec, ok := g.charged[req.Key]; ok {
		g.mu.Unlock()
		g.log.Info("charge_replayed",
			observability.F("key", req.Key),
			observability.F("method", req.Method.Masked()),
		)
		replay := *rec
		return &replay, nil
	}
	g.mu.Unlock()

	if err := g.wait(ctx); err != nil {
		// The attempt is failed from the caller's point of view; whether the
		// remote side captured it is for out-of-band reconciliation.
		g.log.Warn("charge_timeout",
			observability.F("key", req.Key),
			observability.F("method", req.Method.Masked()),
		)
		return payment.NewRecord(req.Key, req.Method.Kind(), req.Amount, payment.OutcomeFailed, payment.ReasonTimeout), nil
	}

	outcome, reason := g.decide(req)
	rec := payment.NewRecord(req.Key, req.Method.Kind(), req.Amount, outcome, reason)

	if rec.Succeeded() {
		g.mu.Lock()
		if prior, ok := g.charged[req.Key]; ok {
			// A concurrent retry won; return its record, charge nothing.
			g.mu.Unlock()
			replay := *prior
			return &replay, nil
		}
		g.charged[req.Key] = rec
		g.mu.Unlock()
	}

	g.log.Info("charge_processed",
		observability.F("key", req.Key),
		observability.F("method", req.Method.Masked()),
		observability.F("amount", req.Amount.StringFixed(2)),
		observability.F("outcome", string(outcome)),
	)

	result := *rec
	return &result, nil
}

// Refund reverses a previously captured charge. Exercised only by the refund
// workflow outside the checkout core.
func (g *Gateway) Refund(ctx context.Context, key string, amount decimal.Decimal) (*payment.Record, error) {
	if key == "" {
		return nil, ErrMissingKey
	}

	g.mu.Lock()
	rec, ok := g.charged[key]
	g.mu.Unlock()
	if !ok {
		return nil, ErrUnknownCharge
	}

	if err := g.wait(ctx); err != nil {
		return payment.NewRecord(key, rec.Kind, amount, payment.OutcomeFailed, payment.ReasonTimeout), nil
	}

	g.log.Info("refund_processed",
		observability.F("key", key),
		observability.F("amount", amount.StringFixed(2)),
	)
	return payment.NewRecord(key, rec.Kind, amount, payment.OutcomeSucceeded, ""), nil
}

func (g *Gateway) wait(ctx context.Context) error {
	if g.latency <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(g.latency)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

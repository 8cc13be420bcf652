package paymentgw

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"github.com/sony/gobreaker/v2"

	"github.com/modaworks/clothestore/internal/domain/payment"
	"github.com/modaworks/clothestore/internal/observability"
)

// ErrGatewayUnavailable is returned while the breaker refuses calls.
var ErrGatewayUnavailable = errors.New("paymentgw: gateway unavailable")

// Breaker wraps a payment.Processor in a circuit breaker. Only transport
// errors count as failures; a decline is a valid answer from a healthy
// gateway and must not trip the circuit.
type Breaker struct {
	next payment.Processor
	cb   *gobreaker.CircuitBreaker[*payment.Record]
}

func NewBreaker(next payment.Processor, logger observability.Logger) *Breaker {
	if logger == nil {
		logger = observability.NopLogger()
	}
	log := logger.With(observability.F("component", "payment_breaker"))

	settings := gobreaker.Settings{
		Name: "payment-gateway",
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("breaker_state_changed",
				observability.F("breaker", name),
				observability.F("from", from.String()),
				observability.F("to", to.String()),
			)
		},
	}

	return &Breaker{
		next: next,
		cb:   gobreaker.NewCircuitBreaker[*payment.Record](settings),
	}
}

func (b *Breaker) Charge(ctx context.Context, req payment.ChargeRequest) (*payment.Record, error) {
	rec, err := b.cb.Execute(func() (*payment.Record, error) {
		return b.next.Charge(ctx, req)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, errors.Wrap(ErrGatewayUnavailable, err.Error())
		}
		return nil, err
	}
	return rec, nil
}

func (b *Breaker) Refund(ctx context.Context, key string, amount decimal.Decimal) (*payment.Record, error) {
	rec, err := b.cb.Execute(func() (*payment.Record, error) {
		return b.next.Refund(ctx, key, amount)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, errors.Wrap(ErrGatewayUnavailable, err.Error())
		}
		return nil, err
	}
	return rec, nil
}

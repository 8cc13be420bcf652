package paymentgw

import (
	"context"
	"testing"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modaworks/clothestore/internal/domain/payment"
)

type flakyProcessor struct {
	err error
}

func (f *flakyProcessor) Charge(context.Context, payment.ChargeRequest) (*payment.Record, error) {
	if f.err != nil {
		return nil, f.err
	}
	return payment.NewRecord("ord-1", payment.MethodCreditCard, decimal.NewFromInt(40), payment.OutcomeSucceeded, ""), nil
}

func (f *flakyProcessor) Refund(context.Context, string, decimal.Decimal) (*payment.Record, error) {
	if f.err != nil {
		return nil, f.err
	}
	return payment.NewRecord("ord-1", payment.MethodCreditCard, decimal.NewFromInt(40), payment.OutcomeSucceeded, ""), nil
}

func TestBreaker_PassesThroughHealthyCalls(t *testing.T) {
	b := NewBreaker(&flakyProcessor{}, nil)

	rec, err := b.Charge(context.Background(), testRequest(t, "ord-1"))
	require.NoError(t, err)
	assert.True(t, rec.Succeeded())
}

func TestBreaker_OpensAfterConsecutiveFailures(t *testing.T) {
	gatewayDown := errors.New("connection refused")
	proc := &flakyProcessor{err: gatewayDown}
	b := NewBreaker(proc, nil)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := b.Charge(ctx, testRequest(t, "ord-1"))
		require.ErrorIs(t, err, gatewayDown)
	}

	// Circuit is open now; calls fail fast without reaching the processor.
	_, err := b.Charge(ctx, testRequest(t, "ord-1"))
	require.ErrorIs(t, err, ErrGatewayUnavailable)
}

func TestBreaker_DeclinesDoNotTrip(t *testing.T) {
	g := New(nil, WithDecider(DeclineAll(payment.ReasonDeclined)))
	b := NewBreaker(g, nil)
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		rec, err := b.Charge(ctx, testRequest(t, "ord-1"))
		require.NoError(t, err)
		assert.False(t, rec.Succeeded())
	}
}

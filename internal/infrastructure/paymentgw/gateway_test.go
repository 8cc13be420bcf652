package paymentgw

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modaworks/clothestore/internal/domain/payment"
)

func testMethod(t *testing.T) payment.Method {
	t.Helper()
	m, err := payment.NewCreditCard("Ada Lovelace", "4111111111111111", "12/27")
	require.NoError(t, err)
	return m
}

func testRequest(t *testing.T, key string) payment.ChargeRequest {
	t.Helper()
	return payment.ChargeRequest{
		Key:    key,
		Amount: decimal.RequireFromString("40.00"),
		Method: testMethod(t),
	}
}

func TestCharge_RequiresKey(t *testing.T) {
	g := New(nil)
	req := testRequest(t, "")

	_, err := g.Charge(context.Background(), req)
	require.ErrorIs(t, err, ErrMissingKey)
}

func TestCharge_Approves(t *testing.T) {
	g := New(nil)

	rec, err := g.Charge(context.Background(), testRequest(t, "ord-1"))
	require.NoError(t, err)
	assert.True(t, rec.Succeeded())
	assert.Equal(t, "ord-1", rec.Key)
	assert.Equal(t, payment.MethodCreditCard, rec.Kind)
}

func TestCharge_IdempotentByKey(t *testing.T) {
	g := New(nil)
	ctx := context.Background()

	first, err := g.Charge(ctx, testRequest(t, "ord-1"))
	require.NoError(t, err)

	// Retrying the same key replays the stored record instead of charging again.
	second, err := g.Charge(ctx, testRequest(t, "ord-1"))
	require.NoError(t, err)
	assert.Equal(t, first.CreatedAt, second.CreatedAt)
	assert.True(t, second.Succeeded())
}

func TestCharge_DeclineIsNotStored(t *testing.T) {
	g := New(nil, WithDecider(DeclineAll(payment.ReasonDeclined)))
	ctx := context.Background()

	rec, err := g.Charge(ctx, testRequest(t, "ord-1"))
	require.NoError(t, err)
	assert.False(t, rec.Succeeded())
	assert.Equal(t, payment.ReasonDeclined, rec.Reason)

	// A declined key is retryable; only captures are deduplicated.
	_, err = g.Refund(ctx, "ord-1", decimal.NewFromInt(40))
	require.ErrorIs(t, err, ErrUnknownCharge)
}

func TestCharge_ContextDeadlineFailsWithTimeout(t *testing.T) {
	g := New(nil, WithLatency(time.Second))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	rec, err := g.Charge(ctx, testRequest(t, "ord-1"))
	require.NoError(t, err)
	assert.False(t, rec.Succeeded())
	assert.Equal(t, payment.ReasonTimeout, rec.Reason)
}

func TestRefund_RequiresPriorCharge(t *testing.T) {
	g := New(nil)
	ctx := context.Background()

	_, err := g.Refund(ctx, "ord-1", decimal.NewFromInt(40))
	require.ErrorIs(t, err, ErrUnknownCharge)

	_, err = g.Charge(ctx, testRequest(t, "ord-1"))
	require.NoError(t, err)

	rec, err := g.Refund(ctx, "ord-1", decimal.NewFromInt(40))
	require.NoError(t, err)
	assert.True(t, rec.Succeeded())
}

func TestRateDecider_Extremes(t *testing.T) {
	always := RateDecider(1.0, 42)
	outcome, _ := always(testRequest(t, "ord-1"))
	assert.Equal(t, payment.OutcomeSucceeded, outcome)

	never := RateDecider(0, 42)
	outcome, reason := never(testRequest(t, "ord-1"))
	assert.Equal(t, payment.OutcomeFailed, outcome)
	assert.Equal(t, payment.ReasonDeclined, reason)
}

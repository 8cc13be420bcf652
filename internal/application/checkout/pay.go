package checkout

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/go-faster/errors"

	"github.com/modaworks/clothestore/internal/domain/catalog"
	"github.com/modaworks/clothestore/internal/domain/order"
	"github.com/modaworks/clothestore/internal/domain/payment"
	"github.com/modaworks/clothestore/internal/observability"
)

// Pay attempts to charge a reserved order.
//
// The order is first claimed stock_reserved -> payment_pending through the
// repository's versioned update; losing that race (a concurrent pay or
// cancel) is ErrInvalidStateTransition. The gateway call then runs with no
// lock held. Success commits the reservation and confirms the order in one
// observable step; failure (including a context deadline, reported as reason
// "timeout") releases the reservation and cancels the order. The idempotency
// key is the order ID, so a duplicated call can never double-charge.
func (s *Service) Pay(ctx context.Context, orderID string, method payment.Method) (_ *order.Order, err error) {
	ctx, t := s.begin(ctx, useCasePay,
		attribute.String("order.id", orderID),
		attribute.String("payment.method", string(method.Kind())),
	)
	defer t.end(ctx, &err)

	o, err := s.orders.Get(ctx, orderID)
	if err != nil {
		t.fail("ORDER_NOT_FOUND")
		return nil, err
	}

	// Claim the order before going anywhere near the gateway.
	if err = o.BeginPayment(); err != nil {
		t.fail("INVALID_STATE")
		return nil, err
	}
	if err = s.orders.Update(ctx, o); err != nil {
		if errors.Is(err, order.ErrConflict) {
			// A concurrent pay or cancel won the status CAS.
			t.fail("CLAIM_LOST")
			return nil, order.ErrInvalidStateTransition
		}
		t.fail("REPO_UPDATE_FAILED")
		return nil, errors.Wrap(err, "claim order")
	}

	amount := o.Total()
	rec, chargeErr := s.charge(ctx, t, payment.ChargeRequest{
		Key:    o.ID,
		Amount: amount,
		Method: method,
	})

	if chargeErr != nil || !rec.Succeeded() {
		reason := payment.ReasonUnavailable
		switch {
		case rec != nil && rec.Reason != "":
			reason = rec.Reason
		case chargeErr != nil && errors.Is(chargeErr, context.DeadlineExceeded):
			reason = payment.ReasonTimeout
		}
		if rec == nil {
			rec = payment.NewRecord(o.ID, method.Kind(), amount, payment.OutcomeFailed, reason)
		}

		s.releaseQuietly(ctx, t, o.ReservationToken)
		if ferr := o.PaymentFailed(rec, reason); ferr != nil {
			t.fail("INVALID_STATE")
			return nil, ferr
		}
		if uerr := s.orders.Update(ctx, o); uerr != nil {
			t.field(observability.F("order_update_error", uerr.Error()))
		}
		s.publish(ctx, t, order.NewOrderCancelledEvent(o))

		t.fail("PAYMENT_FAILED")
		return nil, errors.Wrap(ErrPaymentFailed, reason)
	}

	if err = s.catalog.Commit(ctx, o.ReservationToken); err != nil && !errors.Is(err, catalog.ErrAlreadyFinalized) {
		// The charge went through but the ledger refused the commit; stock
		// accounting is broken and silently continuing would hide it.
		t.fail("COMMIT_FAILED")
		return nil, errors.Wrap(err, "commit reservation")
	}

	if err = o.PaymentSucceeded(rec); err != nil {
		t.fail("INVALID_STATE")
		return nil, err
	}
	if err = s.orders.Update(ctx, o); err != nil {
		t.fail("REPO_UPDATE_FAILED")
		return nil, errors.Wrap(err, "confirm order")
	}

	t.field(observability.F("order_id", o.ID))
	t.field(observability.F("amount", amount.StringFixed(2)))
	s.publish(ctx, t, order.NewOrderConfirmedEvent(o))

	return o, nil
}

// charge wraps the gateway call with the configured deadline and
// external-peer metrics.
func (s *Service) charge(ctx context.Context, t *opTrace, req payment.ChargeRequest) (*payment.Record, error) {
	if s.chargeTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.chargeTimeout)
		defer cancel()
	}

	start := time.Now()
	rec, err := s.processor.Charge(ctx, req)

	outcome := "success"
	if err != nil || !rec.Succeeded() {
		outcome = "error"
	}
	s.extCounter.Add(1,
		observability.L("peer", "payment-gateway"),
		observability.L("endpoint", "charge"),
		observability.L("outcome", outcome),
	)
	s.extHistogram.Observe(time.Since(start).Seconds(),
		observability.L("peer", "payment-gateway"),
		observability.L("endpoint", "charge"),
	)
	if rec != nil {
		t.field(observability.F("payment_outcome", string(rec.Outcome)))
	}
	return rec, err
}

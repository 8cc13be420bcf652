package checkout

import (
	"context"

	"go.opentelemetry.io/otel/attribute"

	"github.com/go-faster/errors"

	"github.com/modaworks/clothestore/internal/domain/order"
	"github.com/modaworks/clothestore/internal/observability"
)

// Cancel aborts an order that has not entered payment and releases its stock
// reservation. Only stock_reserved orders can be cancelled; a confirmed order
// needs the refund workflow, which lives outside this core.
func (s *Service) Cancel(ctx context.Context, orderID string) (_ *order.Order, err error) {
	ctx, t := s.begin(ctx, useCaseCancel,
		attribute.String("order.id", orderID),
	)
	defer t.end(ctx, &err)

	o, err := s.orders.Get(ctx, orderID)
	if err != nil {
		t.fail("ORDER_NOT_FOUND")
		return nil, err
	}

	if err = o.Cancel(); err != nil {
		t.fail("INVALID_STATE")
		return nil, err
	}
	if err = s.orders.Update(ctx, o); err != nil {
		if errors.Is(err, order.ErrConflict) {
			// A concurrent pay claimed the order first.
			t.fail("CLAIM_LOST")
			return nil, order.ErrInvalidStateTransition
		}
		t.fail("REPO_UPDATE_FAILED")
		return nil, errors.Wrap(err, "cancel order")
	}

	// The status CAS above is the point of no return; releasing afterwards
	// is safe because no pay can claim a cancelled order.
	s.releaseQuietly(ctx, t, o.ReservationToken)

	t.field(observability.F("order_id", o.ID))
	s.publish(ctx, t, order.NewOrderCancelledEvent(o))

	return o, nil
}

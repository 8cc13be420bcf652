package checkout

import (
	"context"

	"go.opentelemetry.io/otel/attribute"

	"github.com/go-faster/errors"

	"github.com/modaworks/clothestore/internal/domain/cart"
	"github.com/modaworks/clothestore/internal/domain/catalog"
	"github.com/modaworks/clothestore/internal/domain/order"
	"github.com/modaworks/clothestore/internal/observability"
)

// Checkout converts the cart into an order in state stock_reserved.
//
// Duplicate product lines are coalesced first, then every line's product is
// re-checked for availability (not price: the cart's snapshot price is what
// the customer saw and stays authoritative). Stock for all lines is reserved
// in a single all-or-nothing step; any failure leaves the catalog untouched.
func (s *Service) Checkout(ctx context.Context, c *cart.Cart, shippingAddressID string) (_ *order.Order, err error) {
	ctx, t := s.begin(ctx, useCaseCheckout,
		attribute.String("order.shipping_address_id", shippingAddressID),
	)
	defer t.end(ctx, &err)

	if c == nil || c.Empty() {
		t.fail("EMPTY_CART")
		return nil, ErrEmptyCart
	}

	customer, err := s.directory.CurrentCustomer(ctx)
	if err != nil {
		t.fail("NO_CUSTOMER")
		return nil, err
	}
	if c.CustomerID != "" && c.CustomerID != customer.Identity.ID {
		t.fail("CART_OWNERSHIP")
		return nil, ErrNotCartOwner
	}
	t.field(observability.F("customer_id", customer.Identity.ID))

	addr, err := s.addresses.Get(ctx, shippingAddressID)
	if err != nil {
		t.fail("ADDRESS_NOT_FOUND")
		return nil, err
	}

	lines := c.Coalesced()
	for _, l := range lines {
		if l.Quantity <= 0 {
			t.fail("QUANTITY_INVALID")
			return nil, cart.ErrInvalidQuantity
		}
	}

	// Availability re-check before touching stock.
	for _, l := range lines {
		p, perr := s.catalog.Product(ctx, l.ProductID)
		if perr != nil {
			if errors.Is(perr, catalog.ErrNotFound) {
				t.fail("PRODUCT_UNAVAILABLE")
				return nil, errors.Wrap(ErrProductUnavailable, l.ProductID)
			}
			t.fail("CATALOG_LOOKUP_FAILED")
			return nil, perr
		}
		if !p.Available() {
			t.fail("PRODUCT_UNAVAILABLE")
			return nil, errors.Wrap(ErrProductUnavailable, l.ProductID)
		}
	}

	resLines := make([]catalog.ReservationLine, len(lines))
	for i, l := range lines {
		resLines[i] = catalog.ReservationLine{ProductID: l.ProductID, Quantity: l.Quantity}
	}
	res, err := s.catalog.Reserve(ctx, resLines)
	if err != nil {
		t.fail("RESERVATION_FAILED")
		return nil, err
	}

	items := make([]order.Item, len(lines))
	for i, l := range lines {
		items[i] = order.Item{ProductID: l.ProductID, Quantity: l.Quantity, UnitPrice: l.UnitPrice}
	}

	o, err := order.New(s.idGen.NewID(), customer.Identity.ID, addr.ID, res.Token, items)
	if err != nil {
		s.releaseQuietly(ctx, t, res.Token)
		t.fail("ORDER_CONSTRUCTION_FAILED")
		return nil, err
	}

	if err = s.orders.Insert(ctx, o); err != nil {
		s.releaseQuietly(ctx, t, res.Token)
		t.fail("REPO_INSERT_FAILED")
		return nil, errors.Wrap(err, "insert order")
	}

	c.Clear()
	t.field(observability.F("order_id", o.ID))
	t.field(observability.F("order_total", o.Total().StringFixed(2)))
	s.publish(ctx, t, order.NewOrderPlacedEvent(o))

	return o, nil
}

// releaseQuietly undoes a reservation on a failure path. ErrAlreadyFinalized
// means a retry already cleaned up; anything else is logged, not returned,
// because the primary error is what the caller needs.
func (s *Service) releaseQuietly(ctx context.Context, t *opTrace, token string) {
	err := s.catalog.Release(ctx, token)
	if err != nil && !errors.Is(err, catalog.ErrAlreadyFinalized) {
		t.field(observability.F("release_error", err.Error()))
		s.log.Error("reservation_release_failed",
			observability.F("token", token),
			observability.F("error", err.Error()),
		)
	}
}

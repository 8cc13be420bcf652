package checkout

import (
	"errors"

	"github.com/modaworks/clothestore/internal/domain/catalog"
	"github.com/modaworks/clothestore/internal/domain/order"
)

var (
	ErrEmptyCart          = errors.New("checkout: cart is empty")
	ErrNotCartOwner       = errors.New("checkout: cart belongs to another customer")
	ErrProductUnavailable = errors.New("checkout: product unavailable")
	ErrPaymentFailed      = errors.New("checkout: payment failed")

	// Re-exported so callers can match the whole taxonomy from one package.
	ErrInsufficientStock      = catalog.ErrInsufficientStock
	ErrAlreadyFinalized       = catalog.ErrAlreadyFinalized
	ErrInvalidStateTransition = order.ErrInvalidStateTransition
	ErrOrderNotFound          = order.ErrNotFound
)

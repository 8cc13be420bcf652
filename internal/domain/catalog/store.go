package catalog

import "context"

// Store owns product records and the reservation ledger. Reserve must be
// atomic with respect to concurrent reservations: two callers may never both
// observe stock >= quantity for the same product and both succeed when only
// one could.
type Store interface {
	// Product returns a copy of the product or ErrNotFound.
	Product(ctx context.Context, id string) (*Product, error)

	// Reserve checks and decrements stock for every line, all-or-nothing.
	// On any failure no stock is mutated and ErrNotFound or
	// ErrInsufficientStock is returned.
	Reserve(ctx context.Context, lines []ReservationLine) (*Reservation, error)

	// Release reverses a reservation's decrement. Releasing a released or
	// committed token is a no-op reported as ErrAlreadyFinalized.
	Release(ctx context.Context, token string) error

	// Commit makes a reservation's decrement permanent. Committing a
	// finalized token is reported as ErrAlreadyFinalized.
	Commit(ctx context.Context, token string) error

	// Put inserts or replaces a product record.
	Put(ctx context.Context, p *Product) error

	// Restock adds quantity to a product's stock (supplier side).
	Restock(ctx context.Context, id string, quantity int) error
}

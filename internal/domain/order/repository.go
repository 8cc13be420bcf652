package order

import "context"

// Repository persists orders. Update is a compare-and-swap on Version: a
// stale caller gets ErrConflict. That CAS is what makes the status field an
// atomic guard between concurrent pay and cancel.
type Repository interface {
	Insert(ctx context.Context, o *Order) error
	Get(ctx context.Context, id string) (*Order, error)
	Update(ctx context.Context, o *Order) error
}

package memory

import (
	"context"
	"sync"

	domain "github.com/modaworks/clothestore/internal/domain/order"
)

// OrderRepository keeps orders in memory behind clone-on-read/write
// semantics. Update is a compare-and-swap on Order.Version, which is what
// serializes concurrent pay and cancel on the same order.
type OrderRepository struct {
	mu     sync.RWMutex
	orders map[string]*domain.Order
}

func NewOrderRepository() *OrderRepository {
	return &OrderRepository{
		orders: make(map[string]*domain.Order),
	}
}

func (r *OrderRepository) Insert(ctx context.Context, o *domain.Order) error {
	_ = ctx
	if o == nil || o.ID == "" {
		return domain.ErrNotFound
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.orders[o.ID]; exists {
		return domain.ErrConflict
	}

	r.orders[o.ID] = o.Clone()
	return nil
}

func (r *OrderRepository) Get(ctx context.Context, id string) (*domain.Order, error) {
	_ = ctx

	r.mu.RLock()
	defer r.mu.RUnlock()

	o, ok := r.orders[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return o.Clone(), nil
}

// Update stores the order if the caller's version matches the stored one,
// then bumps both. A mismatch means another writer got there first.
func (r *OrderRepository) Update(ctx context.Context, o *domain.Order) error {
	_ = ctx
	if o == nil || o.ID == "" {
		return domain.ErrNotFound
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.orders[o.ID]
	if !ok {
		return domain.ErrNotFound
	}
	if existing.Version != o.Version {
		return domain.ErrConflict
	}

	o.Version++
	r.orders[o.ID] = o.Clone()
	return nil
}

package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/modaworks/clothestore/internal/domain/catalog"
)

// CatalogStore is the in-memory catalog and reservation ledger. A single
// mutex serializes reservations, so two concurrent checkouts can never both
// pass the stock check for the same product. Reserve, Release and Commit are
// fast in-process operations; nothing slow ever runs under the lock.
type CatalogStore struct {
	mu           sync.Mutex
	products     map[string]*catalog.Product
	reservations map[string]*catalog.Reservation
}

func NewCatalogStore() *CatalogStore {
	return &CatalogStore{
		products:     make(map[string]*catalog.Product),
		reservations: make(map[string]*catalog.Reservation),
	}
}

func (s *CatalogStore) Put(ctx context.Context, p *catalog.Product) error {
	_ = ctx
	if p == nil || p.ID == "" {
		return catalog.ErrNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.products[p.ID] = cloneProduct(p)
	return nil
}

func (s *CatalogStore) Product(ctx context.Context, id string) (*catalog.Product, error) {
	_ = ctx

	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[id]
	if !ok {
		return nil, catalog.ErrNotFound
	}
	return cloneProduct(p), nil
}

// Reserve validates every line first and mutates only when all of them fit.
// Two passes under one lock make the whole reservation atomic.
func (s *CatalogStore) Reserve(ctx context.Context, lines []catalog.ReservationLine) (*catalog.Reservation, error) {
	_ = ctx
	if len(lines) == 0 {
		return nil, catalog.ErrInvalidQuantity
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, l := range lines {
		if l.Quantity <= 0 {
			return nil, catalog.ErrInvalidQuantity
		}
		p, ok := s.products[l.ProductID]
		if !ok {
			return nil, catalog.ErrNotFound
		}
		if p.Stock < l.Quantity {
			return nil, catalog.ErrInsufficientStock
		}
	}

	for _, l := range lines {
		if err := s.products[l.ProductID].Deduct(l.Quantity); err != nil {
			// The first pass vouched for every line.
			panic("catalog: reservation deduct failed after validation: " + err.Error())
		}
	}

	res := &catalog.Reservation{
		Token:     uuid.New().String(),
		Lines:     append([]catalog.ReservationLine(nil), lines...),
		State:     catalog.ReservationReserved,
		CreatedAt: time.Now().UTC(),
	}
	s.reservations[res.Token] = res
	return cloneReservation(res), nil
}

// Release restores the reserved stock. Idempotent in the sense required by
// the checkout flow: finalized tokens report ErrAlreadyFinalized and change
// nothing.
func (s *CatalogStore) Release(ctx context.Context, token string) error {
	_ = ctx

	s.mu.Lock()
	defer s.mu.Unlock()

	res, ok := s.reservations[token]
	if !ok {
		return catalog.ErrUnknownReservation
	}
	if res.Finalized() {
		return catalog.ErrAlreadyFinalized
	}

	for _, l := range res.Lines {
		p, ok := s.products[l.ProductID]
		if !ok {
			panic("catalog: reservation references unknown product " + l.ProductID)
		}
		if err := p.Restore(l.Quantity); err != nil {
			panic("catalog: reservation restore failed: " + err.Error())
		}
	}

	res.State = catalog.ReservationReleased
	return nil
}

// Commit marks the reservation's decrement permanent. Stock itself does not
// move; it was already decremented at Reserve time.
func (s *CatalogStore) Commit(ctx context.Context, token string) error {
	_ = ctx

	s.mu.Lock()
	defer s.mu.Unlock()

	res, ok := s.reservations[token]
	if !ok {
		return catalog.ErrUnknownReservation
	}
	if res.Finalized() {
		return catalog.ErrAlreadyFinalized
	}

	res.State = catalog.ReservationCommitted
	return nil
}

func (s *CatalogStore) Restock(ctx context.Context, id string, quantity int) error {
	_ = ctx
	if quantity <= 0 {
		return catalog.ErrInvalidQuantity
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[id]
	if !ok {
		return catalog.ErrNotFound
	}
	return p.Restore(quantity)
}

func cloneProduct(p *catalog.Product) *catalog.Product {
	if p == nil {
		return nil
	}
	clone := *p
	return &clone
}

func cloneReservation(r *catalog.Reservation) *catalog.Reservation {
	if r == nil {
		return nil
	}
	clone := *r
	clone.Lines = append([]catalog.ReservationLine(nil), r.Lines...)
	return &clone
}

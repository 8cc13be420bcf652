package memory

import (
	"context"
	"sync"

	"github.com/modaworks/clothestore/internal/domain/identity"
)

// UserDirectory is a static single-customer directory. Real session handling
// is outside the order core; this satisfies the read port with whoever the
// process was wired for.
type UserDirectory struct {
	customer identity.Customer
}

func NewUserDirectory(c identity.Customer) *UserDirectory {
	return &UserDirectory{customer: c}
}

func (d *UserDirectory) CurrentCustomer(ctx context.Context) (*identity.Customer, error) {
	_ = ctx
	if d.customer.Identity.ID == "" {
		return nil, identity.ErrNoCustomer
	}
	c := d.customer
	return &c, nil
}

// AddressBook is an in-memory shipping address lookup.
type AddressBook struct {
	mu    sync.RWMutex
	addrs map[string]identity.Address
}

func NewAddressBook() *AddressBook {
	return &AddressBook{addrs: make(map[string]identity.Address)}
}

func (b *AddressBook) Put(a identity.Address) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.addrs[a.ID] = a
}

func (b *AddressBook) Get(ctx context.Context, addressID string) (*identity.Address, error) {
	_ = ctx

	b.mu.RLock()
	defer b.mu.RUnlock()

	a, ok := b.addrs[addressID]
	if !ok {
		return nil, identity.ErrAddressNotFound
	}
	return &a, nil
}

package identity

import (
	"context"
	"errors"
)

var (
	ErrNoCustomer      = errors.New("identity: no current customer")
	ErrAddressNotFound = errors.New("identity: address not found")
)

// UserIdentity is the shared identity record; roles are capability interfaces
// layered on top, not subtypes.
type UserIdentity struct {
	ID    string
	Name  string
	Email string
}

// Customer is a shopper identity. Registration, login and profile editing
// happen elsewhere; the order core only ever reads it.
type Customer struct {
	Identity UserIdentity
}

// Address is a validated shipping destination supplied by the address book.
type Address struct {
	ID         string
	Line1      string
	Line2      string
	City       string
	PostalCode string
	Country    string
}

// UserDirectory resolves the customer behind the current session. Identity
// only; authentication is out of scope.
type UserDirectory interface {
	CurrentCustomer(ctx context.Context) (*Customer, error)
}

// AddressBook resolves stored shipping addresses by ID.
type AddressBook interface {
	Get(ctx context.Context, addressID string) (*Address, error)
}

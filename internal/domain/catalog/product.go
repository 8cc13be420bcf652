package catalog

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrNotFound          = errors.New("catalog: product not found")
	ErrInvalidPrice      = errors.New("catalog: price must be zero or greater")
	ErrInvalidQuantity   = errors.New("catalog: quantity must be greater than zero")
	ErrInvalidStock      = errors.New("catalog: stock must be zero or greater")
	ErrInsufficientStock = errors.New("catalog: insufficient stock")
)

// Product is a catalog item. Stock is mutated only through the reservation
// protocol on Store; callers outside the catalog never assign it directly.
type Product struct {
	ID          string
	Name        string
	Description string
	Price       decimal.Decimal
	Stock       int
	UpdatedAt   time.Time
}

func NewProduct(id, name, description string, price decimal.Decimal, stock int) (*Product, error) {
	if price.IsNegative() {
		return nil, ErrInvalidPrice
	}
	if stock < 0 {
		return nil, ErrInvalidStock
	}
	return &Product{
		ID:          id,
		Name:        name,
		Description: description,
		Price:       price,
		Stock:       stock,
		UpdatedAt:   time.Now().UTC(),
	}, nil
}

// Available reports whether the product can currently be sold at all.
func (p *Product) Available() bool {
	return p.Stock > 0
}

// Deduct removes quantity from stock. The stock >= quantity check and the
// decrement are one step; Store serializes calls so the check cannot go stale.
func (p *Product) Deduct(quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	if quantity > p.Stock {
		return ErrInsufficientStock
	}
	p.Stock -= quantity
	p.touch()
	return nil
}

// Restore returns previously deducted stock, used when a reservation is
// released. A negative stock level afterwards means the reservation ledger is
// corrupt, which is fatal rather than correctable.
func (p *Product) Restore(quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	p.Stock += quantity
	if p.Stock < 0 {
		panic("catalog: stock went negative on restore")
	}
	p.touch()
	return nil
}

func (p *Product) touch() {
	p.UpdatedAt = time.Now().UTC()
}

package cart

import (
	"errors"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidQuantity = errors.New("cart: quantity must be greater than zero")
	ErrInvalidPrice    = errors.New("cart: unit price must be zero or greater")
)

// Line is one cart position. UnitPrice is the price snapshot taken when the
// line was added; checkout honors it even if the catalog price moved since.
type Line struct {
	ProductID string
	Quantity  int
	UnitPrice decimal.Decimal
}

func (l Line) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart is the mutable working set of a single customer session. It is not
// safe for concurrent use; each session owns exactly one cart.
type Cart struct {
	CustomerID string
	lines      []Line
}

func New(customerID string) *Cart {
	return &Cart{CustomerID: customerID}
}

// Add appends a line with the given price snapshot. Duplicate product lines
// are kept as-is here and coalesced at checkout time.
func (c *Cart) Add(productID string, quantity int, unitPrice decimal.Decimal) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	if unitPrice.IsNegative() {
		return ErrInvalidPrice
	}
	c.lines = append(c.lines, Line{
		ProductID: productID,
		Quantity:  quantity,
		UnitPrice: unitPrice,
	})
	return nil
}

// Remove drops every line for the given product.
func (c *Cart) Remove(productID string) {
	kept := c.lines[:0]
	for _, l := range c.lines {
		if l.ProductID != productID {
			kept = append(kept, l)
		}
	}
	c.lines = kept
}

func (c *Cart) Empty() bool {
	return len(c.lines) == 0
}

// Lines returns a copy of the raw, uncoalesced lines.
func (c *Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

// Coalesced merges duplicate product lines by summing quantities, keeping the
// first snapshot price and the first-seen ordering. Reserving one merged line
// per product avoids reserving the same product twice within one checkout.
func (c *Cart) Coalesced() []Line {
	index := make(map[string]int, len(c.lines))
	out := make([]Line, 0, len(c.lines))
	for _, l := range c.lines {
		if i, ok := index[l.ProductID]; ok {
			out[i].Quantity += l.Quantity
			continue
		}
		index[l.ProductID] = len(out)
		out = append(out, l)
	}
	return out
}

// Subtotal sums line totals over the snapshot prices.
func (c *Cart) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, l := range c.lines {
		total = total.Add(l.Subtotal())
	}
	return total
}

// Clear empties the cart, called after a successful checkout.
func (c *Cart) Clear() {
	c.lines = nil
}

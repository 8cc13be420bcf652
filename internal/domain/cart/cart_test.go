package cart

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdd_RejectsInvalidLines(t *testing.T) {
	c := New("cust-1")

	require.ErrorIs(t, c.Add("p1", 0, decimal.NewFromInt(10)), ErrInvalidQuantity)
	require.ErrorIs(t, c.Add("p1", -2, decimal.NewFromInt(10)), ErrInvalidQuantity)
	require.ErrorIs(t, c.Add("p1", 1, decimal.NewFromInt(-1)), ErrInvalidPrice)
	assert.True(t, c.Empty())
}

func TestCoalesced_MergesDuplicateProducts(t *testing.T) {
	c := New("cust-1")
	require.NoError(t, c.Add("p1", 2, decimal.RequireFromString("10.00")))
	require.NoError(t, c.Add("p2", 1, decimal.RequireFromString("5.00")))
	// Same product added again at a newer price; the first snapshot wins.
	require.NoError(t, c.Add("p1", 3, decimal.RequireFromString("12.00")))

	lines := c.Coalesced()
	require.Len(t, lines, 2)
	assert.Equal(t, "p1", lines[0].ProductID)
	assert.Equal(t, 5, lines[0].Quantity)
	assert.True(t, decimal.RequireFromString("10.00").Equal(lines[0].UnitPrice))
	assert.Equal(t, "p2", lines[1].ProductID)
	assert.Equal(t, 1, lines[1].Quantity)
}

func TestSubtotal_SumsSnapshotPrices(t *testing.T) {
	c := New("cust-1")
	require.NoError(t, c.Add("p1", 2, decimal.RequireFromString("19.90")))
	require.NoError(t, c.Add("p2", 1, decimal.RequireFromString("34.50")))

	assert.True(t, decimal.RequireFromString("74.30").Equal(c.Subtotal()))
}

func TestRemove_DropsEveryLineForProduct(t *testing.T) {
	c := New("cust-1")
	require.NoError(t, c.Add("p1", 1, decimal.NewFromInt(10)))
	require.NoError(t, c.Add("p2", 1, decimal.NewFromInt(20)))
	require.NoError(t, c.Add("p1", 2, decimal.NewFromInt(10)))

	c.Remove("p1")

	lines := c.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, "p2", lines[0].ProductID)
}

func TestClear_EmptiesTheCart(t *testing.T) {
	c := New("cust-1")
	require.NoError(t, c.Add("p1", 1, decimal.NewFromInt(10)))

	c.Clear()

	assert.True(t, c.Empty())
	assert.True(t, decimal.Zero.Equal(c.Subtotal()))
}

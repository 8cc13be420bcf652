package catalog

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProduct_Validation(t *testing.T) {
	_, err := NewProduct("p1", "Tee", "", decimal.NewFromInt(-1), 5)
	require.ErrorIs(t, err, ErrInvalidPrice)

	_, err = NewProduct("p1", "Tee", "", decimal.NewFromInt(10), -1)
	require.ErrorIs(t, err, ErrInvalidStock)

	p, err := NewProduct("p1", "Tee", "", decimal.NewFromInt(10), 0)
	require.NoError(t, err)
	assert.False(t, p.Available())
}

func TestDeduct(t *testing.T) {
	p, err := NewProduct("p1", "Tee", "", decimal.NewFromInt(10), 5)
	require.NoError(t, err)

	require.ErrorIs(t, p.Deduct(0), ErrInvalidQuantity)
	require.ErrorIs(t, p.Deduct(6), ErrInsufficientStock)
	assert.Equal(t, 5, p.Stock)

	require.NoError(t, p.Deduct(5))
	assert.Equal(t, 0, p.Stock)
	assert.False(t, p.Available())
}

func TestRestore(t *testing.T) {
	p, err := NewProduct("p1", "Tee", "", decimal.NewFromInt(10), 5)
	require.NoError(t, err)
	require.NoError(t, p.Deduct(3))

	require.ErrorIs(t, p.Restore(0), ErrInvalidQuantity)
	require.NoError(t, p.Restore(3))
	assert.Equal(t, 5, p.Stock)
}

package memory

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modaworks/clothestore/internal/domain/order"
)

func newStoredOrder(t *testing.T, repo *OrderRepository) *order.Order {
	t.Helper()
	o, err := order.New("ord-1", "cust-1", "addr-1", "res-1", []order.Item{
		{ProductID: "p1", Quantity: 2, UnitPrice: decimal.NewFromInt(20)},
	})
	require.NoError(t, err)
	require.NoError(t, repo.Insert(context.Background(), o))
	return o
}

func TestInsert_RejectsDuplicateID(t *testing.T) {
	repo := NewOrderRepository()
	o := newStoredOrder(t, repo)

	require.ErrorIs(t, repo.Insert(context.Background(), o), order.ErrConflict)
}

func TestGet_ReturnsClone(t *testing.T) {
	repo := NewOrderRepository()
	newStoredOrder(t, repo)

	got, err := repo.Get(context.Background(), "ord-1")
	require.NoError(t, err)

	got.Status = order.StatusConfirmed
	got.Items[0].Quantity = 99

	fresh, err := repo.Get(context.Background(), "ord-1")
	require.NoError(t, err)
	assert.Equal(t, order.StatusStockReserved, fresh.Status)
	assert.Equal(t, 2, fresh.Items[0].Quantity)
}

func TestGet_NotFound(t *testing.T) {
	repo := NewOrderRepository()
	_, err := repo.Get(context.Background(), "missing")
	require.ErrorIs(t, err, order.ErrNotFound)
}

func TestUpdate_VersionedCAS(t *testing.T) {
	repo := NewOrderRepository()
	newStoredOrder(t, repo)
	ctx := context.Background()

	first, err := repo.Get(ctx, "ord-1")
	require.NoError(t, err)
	second, err := repo.Get(ctx, "ord-1")
	require.NoError(t, err)

	require.NoError(t, first.BeginPayment())
	require.NoError(t, repo.Update(ctx, first))
	assert.Equal(t, uint64(2), first.Version)

	// The second reader still holds version 1 and must lose.
	require.NoError(t, second.Cancel())
	require.ErrorIs(t, repo.Update(ctx, second), order.ErrConflict)

	stored, err := repo.Get(ctx, "ord-1")
	require.NoError(t, err)
	assert.Equal(t, order.StatusPaymentPending, stored.Status)
}

func TestUpdate_UnknownOrder(t *testing.T) {
	repo := NewOrderRepository()
	o, err := order.New("ord-x", "cust-1", "addr-1", "res-1", []order.Item{
		{ProductID: "p1", Quantity: 1, UnitPrice: decimal.NewFromInt(5)},
	})
	require.NoError(t, err)

	require.ErrorIs(t, repo.Update(context.Background(), o), order.ErrNotFound)
}

package memory

import (
	"context"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modaworks/clothestore/internal/domain/catalog"
)

func newSeededStore(t *testing.T, stock ...int) *CatalogStore {
	t.Helper()
	store := NewCatalogStore()
	ctx := context.Background()
	for i, s := range stock {
		p, err := catalog.NewProduct(productID(i), "Product", "", decimal.NewFromInt(20), s)
		require.NoError(t, err)
		require.NoError(t, store.Put(ctx, p))
	}
	return store
}

func productID(i int) string {
	return string(rune('a'+i)) + "-product"
}

func stockOf(t *testing.T, store *CatalogStore, id string) int {
	t.Helper()
	p, err := store.Product(context.Background(), id)
	require.NoError(t, err)
	return p.Stock
}

func TestReserve_DecrementsStock(t *testing.T) {
	store := newSeededStore(t, 10)
	ctx := context.Background()

	res, err := store.Reserve(ctx, []catalog.ReservationLine{
		{ProductID: productID(0), Quantity: 2},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, catalog.ReservationReserved, res.State)
	assert.Equal(t, 8, stockOf(t, store, productID(0)))
}

func TestReserve_AllOrNothing(t *testing.T) {
	store := newSeededStore(t, 10, 1)
	ctx := context.Background()

	// Second line exceeds stock, so the first line must not be touched either.
	_, err := store.Reserve(ctx, []catalog.ReservationLine{
		{ProductID: productID(0), Quantity: 2},
		{ProductID: productID(1), Quantity: 5},
	})
	require.ErrorIs(t, err, catalog.ErrInsufficientStock)
	assert.Equal(t, 10, stockOf(t, store, productID(0)))
	assert.Equal(t, 1, stockOf(t, store, productID(1)))
}

func TestReserve_UnknownProduct(t *testing.T) {
	store := newSeededStore(t, 10)
	ctx := context.Background()

	_, err := store.Reserve(ctx, []catalog.ReservationLine{
		{ProductID: productID(0), Quantity: 1},
		{ProductID: "missing", Quantity: 1},
	})
	require.ErrorIs(t, err, catalog.ErrNotFound)
	assert.Equal(t, 10, stockOf(t, store, productID(0)))
}

func TestReserve_RejectsInvalidQuantity(t *testing.T) {
	store := newSeededStore(t, 10)
	ctx := context.Background()

	_, err := store.Reserve(ctx, nil)
	require.ErrorIs(t, err, catalog.ErrInvalidQuantity)

	_, err = store.Reserve(ctx, []catalog.ReservationLine{
		{ProductID: productID(0), Quantity: 0},
	})
	require.ErrorIs(t, err, catalog.ErrInvalidQuantity)
}

func TestRelease_RestoresStockOnce(t *testing.T) {
	store := newSeededStore(t, 10)
	ctx := context.Background()

	res, err := store.Reserve(ctx, []catalog.ReservationLine{
		{ProductID: productID(0), Quantity: 4},
	})
	require.NoError(t, err)
	require.Equal(t, 6, stockOf(t, store, productID(0)))

	require.NoError(t, store.Release(ctx, res.Token))
	assert.Equal(t, 10, stockOf(t, store, productID(0)))

	// A second release finds the token finalized and restores nothing.
	require.ErrorIs(t, store.Release(ctx, res.Token), catalog.ErrAlreadyFinalized)
	assert.Equal(t, 10, stockOf(t, store, productID(0)))
}

func TestRelease_UnknownToken(t *testing.T) {
	store := newSeededStore(t, 10)
	require.ErrorIs(t, store.Release(context.Background(), "nope"), catalog.ErrUnknownReservation)
}

func TestCommit_FinalizesWithoutMovingStock(t *testing.T) {
	store := newSeededStore(t, 10)
	ctx := context.Background()

	res, err := store.Reserve(ctx, []catalog.ReservationLine{
		{ProductID: productID(0), Quantity: 3},
	})
	require.NoError(t, err)

	require.NoError(t, store.Commit(ctx, res.Token))
	assert.Equal(t, 7, stockOf(t, store, productID(0)))

	// Committed tokens can no longer be released or committed again.
	require.ErrorIs(t, store.Release(ctx, res.Token), catalog.ErrAlreadyFinalized)
	require.ErrorIs(t, store.Commit(ctx, res.Token), catalog.ErrAlreadyFinalized)
	assert.Equal(t, 7, stockOf(t, store, productID(0)))
}

func TestRestock(t *testing.T) {
	store := newSeededStore(t, 2)
	ctx := context.Background()

	require.ErrorIs(t, store.Restock(ctx, productID(0), 0), catalog.ErrInvalidQuantity)
	require.ErrorIs(t, store.Restock(ctx, "missing", 5), catalog.ErrNotFound)

	require.NoError(t, store.Restock(ctx, productID(0), 8))
	assert.Equal(t, 10, stockOf(t, store, productID(0)))
}

func TestReserve_ConcurrentNeverOversells(t *testing.T) {
	const (
		stock   = 50
		workers = 100
	)
	store := newSeededStore(t, stock)
	ctx := context.Background()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		granted int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.Reserve(ctx, []catalog.ReservationLine{
				{ProductID: productID(0), Quantity: 1},
			})
			if err == nil {
				mu.Lock()
				granted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, stock, granted)
	assert.Equal(t, 0, stockOf(t, store, productID(0)))
}

package integrity

import (
	"context"
	"errors"
	"testing"

	"github.com/storeops/storeconsole/internal/domain"
	"github.com/stretchr/testify/require"
)

type fakeOrderSource struct {
	orders []domain.Order
	err    error
	calls  int
}

func (f *fakeOrderSource) List(ctx context.Context) ([]domain.Order, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.orders, nil
}

func ref(id int64) *int64 { return &id }

func TestCheckConflicts_NoOrders(t *testing.T) {
	g := NewGuard(&fakeOrderSource{})

	res, err := g.CheckConflicts(context.Background(), 1)
	require.NoError(t, err)
	require.False(t, res.Blocked)
	require.Empty(t, res.Conflicting)
}

func TestCheckConflicts_ReferencingOrderBlocks(t *testing.T) {
	g := NewGuard(&fakeOrderSource{orders: []domain.Order{
		{ID: 10, Description: "laptop order", ProductID: ref(1)},
	}})

	res, err := g.CheckConflicts(context.Background(), 1)
	require.NoError(t, err)
	require.True(t, res.Blocked)
	require.Len(t, res.Conflicting, 1)
	require.Equal(t, int64(10), res.Conflicting[0].ID)
}

func TestCheckConflicts_OtherReferencesDoNotBlock(t *testing.T) {
	g := NewGuard(&fakeOrderSource{orders: []domain.Order{
		{ID: 10, ProductID: ref(2)},
		{ID: 11, ProductID: nil},
	}})

	res, err := g.CheckConflicts(context.Background(), 1)
	require.NoError(t, err)
	require.False(t, res.Blocked)
	require.Empty(t, res.Conflicting)
}

func TestCheckConflicts_MultipleConflicts(t *testing.T) {
	g := NewGuard(&fakeOrderSource{orders: []domain.Order{
		{ID: 10, ProductID: ref(1)},
		{ID: 11, ProductID: ref(2)},
		{ID: 12, ProductID: ref(1)},
	}})

	res, err := g.CheckConflicts(context.Background(), 1)
	require.NoError(t, err)
	require.True(t, res.Blocked)
	require.Len(t, res.Conflicting, 2)
}

// A failed order fetch must fail closed: the guard reports an error
// distinct from "no conflicts", never an empty conflict set.
func TestCheckConflicts_FetchFailureFailsClosed(t *testing.T) {
	g := NewGuard(&fakeOrderSource{err: errors.New("connection refused")})

	res, err := g.CheckConflicts(context.Background(), 1)
	require.Error(t, err)
	require.Nil(t, res)
	require.ErrorIs(t, err, domain.ErrGuardUnavailable)
}

// Every check fetches anew; no check decides on a cached order list.
func TestCheckConflicts_FreshFetchPerCheck(t *testing.T) {
	src := &fakeOrderSource{}
	g := NewGuard(src)

	_, err := g.CheckConflicts(context.Background(), 1)
	require.NoError(t, err)
	_, err = g.CheckConflicts(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, 2, src.calls)
}

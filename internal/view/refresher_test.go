package view

import (
	"context"
	"errors"
	"testing"

	"github.com/storeops/storeconsole/internal/domain"
	"github.com/stretchr/testify/require"
)

type fakeProducts struct {
	list []domain.Product
	err  error
}

func (f *fakeProducts) List(ctx context.Context) ([]domain.Product, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.list, nil
}

type fakeOrders struct {
	list []domain.Order
	err  error
}

func (f *fakeOrders) List(ctx context.Context) ([]domain.Order, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.list, nil
}

func ref(id int64) *int64 { return &id }

func TestCurrent_NilBeforeFirstRefresh(t *testing.T) {
	r := NewRefresher(&fakeProducts{}, &fakeOrders{})
	require.Nil(t, r.Current())
}

func TestRefreshAll_JoinResolutions(t *testing.T) {
	products := &fakeProducts{list: []domain.Product{{ID: 1, Name: "Laptop", Price: 999.99}}}
	orders := &fakeOrders{list: []domain.Order{
		{ID: 10, ProductID: ref(1)},
		{ID: 11, ProductID: ref(999)},
		{ID: 12, ProductID: nil},
	}}
	r := NewRefresher(products, orders)

	snap, err := r.RefreshAll(context.Background())
	require.NoError(t, err)
	require.Len(t, snap.Orders, 3)

	resolved := snap.Orders[0]
	require.Equal(t, ResolutionResolved, resolved.Resolution)
	require.NotNil(t, resolved.Product)
	require.Equal(t, "Laptop", resolved.Product.Name)

	// Order 11 references product 999 which does not exist: tagged
	// unavailable, never rendered as a zero-valued product.
	dangling := snap.Orders[1]
	require.Equal(t, ResolutionUnavailable, dangling.Resolution)
	require.Nil(t, dangling.Product)

	unreferenced := snap.Orders[2]
	require.Equal(t, ResolutionUnreferenced, unreferenced.Resolution)
	require.Nil(t, unreferenced.Product)
}

func TestRefreshAll_VersionIncrements(t *testing.T) {
	r := NewRefresher(&fakeProducts{}, &fakeOrders{})

	s1, err := r.RefreshAll(context.Background())
	require.NoError(t, err)
	s2, err := r.RefreshAll(context.Background())
	require.NoError(t, err)
	require.Equal(t, s1.Version+1, s2.Version)
	require.Same(t, s2, r.Current())
}

// A failed fetch on either side discards the whole refresh; the previous
// snapshot stays installed and no mixed-version join is ever built.
func TestRefreshAll_FailureKeepsPreviousSnapshot(t *testing.T) {
	products := &fakeProducts{list: []domain.Product{{ID: 1, Name: "Laptop"}}}
	orders := &fakeOrders{}
	r := NewRefresher(products, orders)

	first, err := r.RefreshAll(context.Background())
	require.NoError(t, err)

	orders.err = errors.New("connection refused")
	snap, err := r.RefreshAll(context.Background())
	require.Error(t, err)
	require.ErrorIs(t, err, domain.ErrRefreshFailed)
	require.Nil(t, snap)
	require.Same(t, first, r.Current())
}

// After a refresh every resolved product belongs to the products of that
// same refresh, never to an earlier snapshot.
func TestRefreshAll_JoinUsesOwnSnapshotOnly(t *testing.T) {
	products := &fakeProducts{list: []domain.Product{{ID: 1, Name: "Old name", Price: 1}}}
	orders := &fakeOrders{list: []domain.Order{{ID: 10, ProductID: ref(1)}}}
	r := NewRefresher(products, orders)

	_, err := r.RefreshAll(context.Background())
	require.NoError(t, err)

	products.list = []domain.Product{{ID: 1, Name: "New name", Price: 2}}
	snap, err := r.RefreshAll(context.Background())
	require.NoError(t, err)

	require.Equal(t, "New name", snap.Orders[0].Product.Name)
	require.Same(t, &snap.Products[0], snap.Orders[0].Product)
}

func TestRefreshAll_EmptyCollections(t *testing.T) {
	r := NewRefresher(&fakeProducts{}, &fakeOrders{})

	snap, err := r.RefreshAll(context.Background())
	require.NoError(t, err)
	require.Empty(t, snap.Products)
	require.Empty(t, snap.Orders)
}

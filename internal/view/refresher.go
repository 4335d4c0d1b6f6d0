// Package view maintains the console's in-memory picture of both
// collections and the order→product join derived from them. The picture is
// an immutable snapshot value replaced wholesale on refresh; nothing ever
// patches it in place, so a reader can never observe a mixed-version join.
package view

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"github.com/storeops/storeconsole/internal/domain"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ProductSource supplies a fresh product collection.
type ProductSource interface {
	List(ctx context.Context) ([]domain.Product, error)
}

// OrderSource supplies a fresh order collection.
type OrderSource interface {
	List(ctx context.Context) ([]domain.Order, error)
}

// Resolution states how an order's product reference resolved against the
// product snapshot of the same refresh.
type Resolution string

const (
	// ResolutionResolved: the reference names a product in the snapshot.
	ResolutionResolved Resolution = "resolved"
	// ResolutionUnreferenced: the order carries no product reference.
	ResolutionUnreferenced Resolution = "unreferenced"
	// ResolutionUnavailable: the reference is dangling. The order is kept
	// and tagged; it is never dropped or rendered with zero values.
	ResolutionUnavailable Resolution = "unavailable"
)

// JoinedOrder pairs an order with its resolved product, if any.
type JoinedOrder struct {
	Order      domain.Order    `json:"commande"`
	Resolution Resolution      `json:"resolution"`
	Product    *domain.Product `json:"produit,omitempty"`
}

// Snapshot is one consistent picture of both collections. Products and
// Orders were fetched within the same refresh; the join in Orders resolves
// only against the Products of this snapshot, never an earlier one.
type Snapshot struct {
	Version  int64            `json:"version"`
	TakenAt  time.Time        `json:"taken_at"`
	Products []domain.Product `json:"produits"`
	Orders   []JoinedOrder    `json:"commandes"`
}

// Refresher rebuilds the snapshot from fresh fetches of both services. It
// is the only writer of the current snapshot.
type Refresher struct {
	products ProductSource
	orders   OrderSource

	version atomic.Int64
	current atomic.Pointer[Snapshot]
}

func NewRefresher(products ProductSource, orders OrderSource) *Refresher {
	return &Refresher{products: products, orders: orders}
}

// Current returns the last successfully built snapshot, or nil before the
// first refresh completes.
func (r *Refresher) Current() *Snapshot {
	return r.current.Load()
}

// RefreshAll refetches both collections, rebuilds the join and installs the
// new snapshot. The two fetches run concurrently with no ordering between
// them. If either fails, both results are discarded, the previous snapshot
// stays installed and the error wraps domain.ErrRefreshFailed: a join built
// from one fresh and one stale list would be worse than a stale-but-matched
// pair.
func (r *Refresher) RefreshAll(ctx context.Context) (*Snapshot, error) {
	var (
		products []domain.Product
		orders   []domain.Order
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		products, err = r.products.List(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		orders, err = r.orders.List(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		zap.L().Warn("view refresh failed, keeping previous snapshot", zap.Error(err))
		return nil, errors.Wrap(domain.ErrRefreshFailed, err.Error())
	}

	snap := &Snapshot{
		Version:  r.version.Add(1),
		TakenAt:  time.Now(),
		Products: products,
		Orders:   join(orders, products),
	}
	r.current.Store(snap)

	zap.L().Debug("view refreshed",
		zap.Int64("version", snap.Version),
		zap.Int("products", len(products)),
		zap.Int("orders", len(orders)),
	)
	return snap, nil
}

// join resolves each order's product reference against the given product
// list only.
func join(orders []domain.Order, products []domain.Product) []JoinedOrder {
	byID := make(map[int64]*domain.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}

	joined := make([]JoinedOrder, 0, len(orders))
	for _, o := range orders {
		jo := JoinedOrder{Order: o, Resolution: ResolutionUnreferenced}
		if o.ProductID != nil {
			if p, found := byID[*o.ProductID]; found {
				jo.Resolution = ResolutionResolved
				jo.Product = p
			} else {
				jo.Resolution = ResolutionUnavailable
			}
		}
		joined = append(joined, jo)
	}
	return joined
}

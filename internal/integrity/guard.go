// Package integrity enforces the cross-service invariant the backends
// cannot: a product must not be deleted while any order still references
// it. The two services share no transaction and no foreign key, so the
// console orchestrates the check itself.
package integrity

import (
	"context"

	"github.com/pkg/errors"
	"github.com/storeops/storeconsole/internal/domain"
	"go.uber.org/zap"
)

// OrderSource supplies a fresh order collection. Every guard check performs
// a new fetch: a cached list must never gate a destructive decision.
type OrderSource interface {
	List(ctx context.Context) ([]domain.Order, error)
}

// ConflictResult is the guard's verdict for one product identifier.
// Blocked is true iff Conflicting is non-empty.
type ConflictResult struct {
	Blocked     bool           `json:"blocked"`
	Conflicting []domain.Order `json:"conflicting"`
}

// Guard answers "does any order currently reference this product".
type Guard struct {
	orders OrderSource
}

func NewGuard(orders OrderSource) *Guard {
	return &Guard{orders: orders}
}

// CheckConflicts fetches the current order collection and filters it down
// to the orders referencing productID. A fetch failure fails closed: the
// returned error wraps domain.ErrGuardUnavailable and is never conflated
// with an empty conflict set.
func (g *Guard) CheckConflicts(ctx context.Context, productID int64) (*ConflictResult, error) {
	orders, err := g.orders.List(ctx)
	if err != nil {
		zap.L().Warn("conflict check failed, refusing to clear deletion",
			zap.Int64("product_id", productID),
			zap.Error(err),
		)
		return nil, errors.Wrap(domain.ErrGuardUnavailable, err.Error())
	}

	var conflicting []domain.Order
	for _, o := range orders {
		if o.References(productID) {
			conflicting = append(conflicting, o)
		}
	}

	return &ConflictResult{
		Blocked:     len(conflicting) > 0,
		Conflicting: conflicting,
	}, nil
}

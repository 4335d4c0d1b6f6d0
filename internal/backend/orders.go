package backend

import (
	"context"
	"fmt"
	"time"

	"github.com/guonaihong/gout"
	"github.com/pkg/errors"
	"github.com/storeops/storeconsole/internal/domain"
)

// OrderClient wraps the order service endpoints. The service exposes each
// order's product reference verbatim; nothing is joined server-side.
type OrderClient struct {
	baseURL string
	timeout time.Duration
}

func NewOrderClient(baseURL string, timeout time.Duration) *OrderClient {
	return &OrderClient{baseURL: baseURL, timeout: timeout}
}

func (c *OrderClient) url(path string) string {
	return c.baseURL + path
}

// List fetches the full order collection.
func (c *OrderClient) List(ctx context.Context) ([]domain.Order, error) {
	ctx, cancel := callTimeout(ctx, c.timeout)
	defer cancel()

	var (
		code   int
		orders []domain.Order
	)
	err := gout.GET(c.url("/commandes")).WithContext(ctx).Code(&code).BindJSON(&orders).Do()
	if err != nil {
		return nil, errors.Wrap(err, "order service: list")
	}
	if !is2xx(code) {
		return nil, statusError("order", "list", code)
	}
	return orders, nil
}

// ListRecent fetches the orders of the service's configured trailing window
// (the /commandes/last endpoint).
func (c *OrderClient) ListRecent(ctx context.Context) ([]domain.Order, error) {
	ctx, cancel := callTimeout(ctx, c.timeout)
	defer cancel()

	var (
		code   int
		orders []domain.Order
	)
	err := gout.GET(c.url("/commandes/last")).WithContext(ctx).Code(&code).BindJSON(&orders).Do()
	if err != nil {
		return nil, errors.Wrap(err, "order service: list recent")
	}
	if !is2xx(code) {
		return nil, statusError("order", "list recent", code)
	}
	return orders, nil
}

// Get fetches a single order. Same null-body convention as the product
// service for missing identifiers.
func (c *OrderClient) Get(ctx context.Context, id int64) (*domain.Order, error) {
	ctx, cancel := callTimeout(ctx, c.timeout)
	defer cancel()

	var (
		code  int
		order domain.Order
	)
	err := gout.GET(c.url(fmt.Sprintf("/commandes/%d", id))).WithContext(ctx).Code(&code).BindJSON(&order).Do()
	if err != nil {
		return nil, errors.Wrapf(err, "order service: get %d", id)
	}
	if code == 404 || (is2xx(code) && order.ID == 0) {
		return nil, domain.ErrNotFound
	}
	if !is2xx(code) {
		return nil, statusError("order", "get", code)
	}
	return &order, nil
}

// Create submits a new order and returns it with the assigned identifier.
func (c *OrderClient) Create(ctx context.Context, o domain.Order) (*domain.Order, error) {
	ctx, cancel := callTimeout(ctx, c.timeout)
	defer cancel()

	var (
		code    int
		created domain.Order
	)
	err := gout.POST(c.url("/commandes")).WithContext(ctx).SetJSON(o).Code(&code).BindJSON(&created).Do()
	if err != nil {
		return nil, errors.Wrap(err, "order service: create")
	}
	if !is2xx(code) {
		return nil, statusError("order", "create", code)
	}
	return &created, nil
}

// Update replaces the order stored under id.
func (c *OrderClient) Update(ctx context.Context, id int64, o domain.Order) (*domain.Order, error) {
	ctx, cancel := callTimeout(ctx, c.timeout)
	defer cancel()

	var (
		code    int
		updated domain.Order
	)
	err := gout.PUT(c.url(fmt.Sprintf("/commandes/%d", id))).WithContext(ctx).SetJSON(o).Code(&code).BindJSON(&updated).Do()
	if err != nil {
		return nil, errors.Wrapf(err, "order service: update %d", id)
	}
	if !is2xx(code) {
		return nil, statusError("order", "update", code)
	}
	return &updated, nil
}

// Delete removes the order stored under id.
func (c *OrderClient) Delete(ctx context.Context, id int64) error {
	ctx, cancel := callTimeout(ctx, c.timeout)
	defer cancel()

	var code int
	err := gout.DELETE(c.url(fmt.Sprintf("/commandes/%d", id))).WithContext(ctx).Code(&code).Do()
	if err != nil {
		return errors.Wrapf(err, "order service: delete %d", id)
	}
	if !is2xx(code) {
		return statusError("order", "delete", code)
	}
	return nil
}

// Ping probes the list endpoint and reports the round-trip latency.
func (c *OrderClient) Ping(ctx context.Context) (time.Duration, error) {
	ctx, cancel := callTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	var code int
	err := gout.GET(c.url("/commandes")).WithContext(ctx).Code(&code).Do()
	elapsed := time.Since(start)
	if err != nil {
		return elapsed, errors.Wrap(err, "order service: ping")
	}
	if !is2xx(code) {
		return elapsed, statusError("order", "ping", code)
	}
	return elapsed, nil
}

package backend

import (
	"context"
	"fmt"
	"time"

	"github.com/guonaihong/gout"
	"github.com/pkg/errors"
	"github.com/storeops/storeconsole/internal/domain"
)

// ProductClient wraps the product service endpoints. The service owns the
// records and assigns identifiers; the client never invents them.
type ProductClient struct {
	baseURL string
	timeout time.Duration
}

func NewProductClient(baseURL string, timeout time.Duration) *ProductClient {
	return &ProductClient{baseURL: baseURL, timeout: timeout}
}

func (c *ProductClient) url(path string) string {
	return c.baseURL + path
}

// List fetches the full product collection.
func (c *ProductClient) List(ctx context.Context) ([]domain.Product, error) {
	ctx, cancel := callTimeout(ctx, c.timeout)
	defer cancel()

	var (
		code     int
		products []domain.Product
	)
	err := gout.GET(c.url("/produits")).WithContext(ctx).Code(&code).BindJSON(&products).Do()
	if err != nil {
		return nil, errors.Wrap(err, "product service: list")
	}
	if !is2xx(code) {
		return nil, statusError("product", "list", code)
	}
	return products, nil
}

// Get fetches a single product. The service answers a missing id with a
// null body rather than a 404, so a zero identifier also means not found.
func (c *ProductClient) Get(ctx context.Context, id int64) (*domain.Product, error) {
	ctx, cancel := callTimeout(ctx, c.timeout)
	defer cancel()

	var (
		code    int
		product domain.Product
	)
	err := gout.GET(c.url(fmt.Sprintf("/produits/%d", id))).WithContext(ctx).Code(&code).BindJSON(&product).Do()
	if err != nil {
		return nil, errors.Wrapf(err, "product service: get %d", id)
	}
	if code == 404 || (is2xx(code) && product.ID == 0) {
		return nil, domain.ErrNotFound
	}
	if !is2xx(code) {
		return nil, statusError("product", "get", code)
	}
	return &product, nil
}

// Create submits a new product and returns it with the assigned identifier.
func (c *ProductClient) Create(ctx context.Context, p domain.Product) (*domain.Product, error) {
	ctx, cancel := callTimeout(ctx, c.timeout)
	defer cancel()

	var (
		code    int
		created domain.Product
	)
	err := gout.POST(c.url("/produits")).WithContext(ctx).SetJSON(p).Code(&code).BindJSON(&created).Do()
	if err != nil {
		return nil, errors.Wrap(err, "product service: create")
	}
	if !is2xx(code) {
		return nil, statusError("product", "create", code)
	}
	return &created, nil
}

// Update replaces the product stored under id.
func (c *ProductClient) Update(ctx context.Context, id int64, p domain.Product) (*domain.Product, error) {
	ctx, cancel := callTimeout(ctx, c.timeout)
	defer cancel()

	var (
		code    int
		updated domain.Product
	)
	err := gout.PUT(c.url(fmt.Sprintf("/produits/%d", id))).WithContext(ctx).SetJSON(p).Code(&code).BindJSON(&updated).Do()
	if err != nil {
		return nil, errors.Wrapf(err, "product service: update %d", id)
	}
	if !is2xx(code) {
		return nil, statusError("product", "update", code)
	}
	return &updated, nil
}

// Delete removes the product stored under id.
func (c *ProductClient) Delete(ctx context.Context, id int64) error {
	ctx, cancel := callTimeout(ctx, c.timeout)
	defer cancel()

	var code int
	err := gout.DELETE(c.url(fmt.Sprintf("/produits/%d", id))).WithContext(ctx).Code(&code).Do()
	if err != nil {
		return errors.Wrapf(err, "product service: delete %d", id)
	}
	if !is2xx(code) {
		return statusError("product", "delete", code)
	}
	return nil
}

// Ping probes the list endpoint and reports the round-trip latency.
func (c *ProductClient) Ping(ctx context.Context) (time.Duration, error) {
	ctx, cancel := callTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	var code int
	err := gout.GET(c.url("/produits")).WithContext(ctx).Code(&code).Do()
	elapsed := time.Since(start)
	if err != nil {
		return elapsed, errors.Wrap(err, "product service: ping")
	}
	if !is2xx(code) {
		return elapsed, statusError("product", "ping", code)
	}
	return elapsed, nil
}

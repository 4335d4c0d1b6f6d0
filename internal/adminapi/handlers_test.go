package adminapi

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/storeops/storeconsole/internal/app"
	"github.com/storeops/storeconsole/internal/domain"
	"github.com/storeops/storeconsole/internal/integrity"
	"github.com/storeops/storeconsole/internal/view"
)

type fakeProductBackend struct {
	products []domain.Product
	err      error
	created  *domain.Product
	updated  *domain.Product
}

func (f *fakeProductBackend) List(context.Context) ([]domain.Product, error) {
	return f.products, f.err
}

func (f *fakeProductBackend) Get(_ context.Context, id int64) (*domain.Product, error) {
	if f.err != nil {
		return nil, f.err
	}
	for i := range f.products {
		if f.products[i].ID == id {
			return &f.products[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeProductBackend) Create(_ context.Context, p domain.Product) (*domain.Product, error) {
	if f.err != nil {
		return nil, f.err
	}
	p.ID = 100
	f.created = &p
	return &p, nil
}

func (f *fakeProductBackend) Update(_ context.Context, id int64, p domain.Product) (*domain.Product, error) {
	if f.err != nil {
		return nil, f.err
	}
	p.ID = id
	f.updated = &p
	return &p, nil
}

type fakeOrderBackend struct {
	orders  []domain.Order
	recent  []domain.Order
	err     error
	deleted []int64
}

func (f *fakeOrderBackend) List(context.Context) ([]domain.Order, error)       { return f.orders, f.err }
func (f *fakeOrderBackend) ListRecent(context.Context) ([]domain.Order, error) { return f.recent, f.err }

func (f *fakeOrderBackend) Get(_ context.Context, id int64) (*domain.Order, error) {
	if f.err != nil {
		return nil, f.err
	}
	for i := range f.orders {
		if f.orders[i].ID == id {
			return &f.orders[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeOrderBackend) Create(_ context.Context, o domain.Order) (*domain.Order, error) {
	if f.err != nil {
		return nil, f.err
	}
	o.ID = 200
	return &o, nil
}

func (f *fakeOrderBackend) Update(_ context.Context, id int64, o domain.Order) (*domain.Order, error) {
	if f.err != nil {
		return nil, f.err
	}
	o.ID = id
	return &o, nil
}

func (f *fakeOrderBackend) Delete(_ context.Context, id int64) error {
	if f.err != nil {
		return f.err
	}
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeDeleter struct {
	outcome integrity.Outcome
	lastID  int64
}

func (f *fakeDeleter) DeleteProductSafely(_ context.Context, productID int64, _ string) integrity.Outcome {
	f.lastID = productID
	return f.outcome
}

type fakeConflictChecker struct {
	res *integrity.ConflictResult
	err error
}

func (f *fakeConflictChecker) CheckConflicts(context.Context, int64) (*integrity.ConflictResult, error) {
	return f.res, f.err
}

type fakeViewAccess struct {
	snap       *view.Snapshot
	refreshErr error
	refreshed  int
}

func (f *fakeViewAccess) Current() *view.Snapshot { return f.snap }

func (f *fakeViewAccess) RefreshAll(context.Context) (*view.Snapshot, error) {
	f.refreshed++
	if f.refreshErr != nil {
		return nil, f.refreshErr
	}
	return f.snap, nil
}

type fakeNotifier struct {
	events []string
}

func (f *fakeNotifier) NotifyMutation(resource, action string) {
	f.events = append(f.events, resource+":"+action)
}

type fakeHealthSource struct {
	probes map[string]app.ProbeStatus
}

func (f *fakeHealthSource) BackendHealth() map[string]app.ProbeStatus { return f.probes }

func newTestHandlers() (*Handlers, *fakeProductBackend, *fakeOrderBackend, *fakeDeleter, *fakeNotifier) {
	products := &fakeProductBackend{}
	orders := &fakeOrderBackend{}
	deleter := &fakeDeleter{}
	notifier := &fakeNotifier{}
	h := &Handlers{
		products: products,
		orders:   orders,
		deleter:  deleter,
		checker:  &fakeConflictChecker{},
		view:     &fakeViewAccess{},
		notify:   notifier,
		health:   &fakeHealthSource{},
	}
	return h, products, orders, deleter, notifier
}

// newContext builds an echo context around a recorder, optionally with a
// JSON body and path params.
func newContext(t *testing.T, method, target, body string, params ...string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)
	var names, values []string
	for i := 0; i+1 < len(params); i += 2 {
		names = append(names, params[i])
		values = append(values, params[i+1])
	}
	if len(names) > 0 {
		c.SetParamNames(names...)
		c.SetParamValues(values...)
	}
	return c, rec
}

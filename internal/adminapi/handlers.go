// Package adminapi implements the console's JSON API: CRUD proxies to the
// two resource services, the guarded product deletion, and the view,
// stats, health and metrics surfaces consumed by the browser frontend.
package adminapi

import (
	"context"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/storeops/storeconsole/internal/app"
	"github.com/storeops/storeconsole/internal/domain"
	"github.com/storeops/storeconsole/internal/integrity"
	"github.com/storeops/storeconsole/internal/view"
	"github.com/storeops/storeconsole/internal/webserver"
)

// ProductBackend is the product service surface the handlers consume.
type ProductBackend interface {
	List(ctx context.Context) ([]domain.Product, error)
	Get(ctx context.Context, id int64) (*domain.Product, error)
	Create(ctx context.Context, p domain.Product) (*domain.Product, error)
	Update(ctx context.Context, id int64, p domain.Product) (*domain.Product, error)
}

// OrderBackend is the order service surface the handlers consume.
type OrderBackend interface {
	List(ctx context.Context) ([]domain.Order, error)
	ListRecent(ctx context.Context) ([]domain.Order, error)
	Get(ctx context.Context, id int64) (*domain.Order, error)
	Create(ctx context.Context, o domain.Order) (*domain.Order, error)
	Update(ctx context.Context, id int64, o domain.Order) (*domain.Order, error)
	Delete(ctx context.Context, id int64) error
}

// SafeDeleter runs the guarded product deletion.
type SafeDeleter interface {
	DeleteProductSafely(ctx context.Context, productID int64, label string) integrity.Outcome
}

// ConflictChecker exposes the referential guard on its own.
type ConflictChecker interface {
	CheckConflicts(ctx context.Context, productID int64) (*integrity.ConflictResult, error)
}

// ViewAccess reads and rebuilds the consistency view.
type ViewAccess interface {
	Current() *view.Snapshot
	RefreshAll(ctx context.Context) (*view.Snapshot, error)
}

// MutationNotifier is told about every successful mutation.
type MutationNotifier interface {
	NotifyMutation(resource, action string)
}

// HealthSource provides the latest backend probe results.
type HealthSource interface {
	BackendHealth() map[string]app.ProbeStatus
}

type Handlers struct {
	products ProductBackend
	orders   OrderBackend
	deleter  SafeDeleter
	checker  ConflictChecker
	view     ViewAccess
	notify   MutationNotifier
	health   HealthSource
}

// NewHandlers wires the handlers against the application context.
func NewHandlers(a app.AppContext) *Handlers {
	return &Handlers{
		products: a.Products(),
		orders:   a.Orders(),
		deleter:  a.Coordinator(),
		checker:  a.Guard(),
		view:     a.Refresher(),
		notify:   a,
		health:   a,
	}
}

// Register registers every console API route.
func Register(h *Handlers) {
	h.registerProductRoutes()
	h.registerOrderRoutes()
	h.registerViewRoutes()
	h.registerSystemRoutes()
}

func (h *Handlers) registerViewRoutes() {
	webserver.ApiGET("/view", h.getView)
	webserver.ApiPOST("/view/refresh", h.refreshView)
}

func (h *Handlers) registerSystemRoutes() {
	webserver.ApiGET("/stats", h.getStats)
	webserver.ApiGET("/health", h.getHealth)
	webserver.ApiGET("/metrics/:name", h.getMetric)
}

type apiResponse struct {
	Code    string      `json:"code"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Detail  interface{} `json:"detail,omitempty"`
}

func ok(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, apiResponse{Code: "OK", Data: data})
}

func fail(c echo.Context, status int, code, message string, detail interface{}) error {
	return c.JSON(status, apiResponse{Code: code, Message: message, Detail: detail})
}

func parseID(c echo.Context) (int64, error) {
	return strconv.ParseInt(c.Param("id"), 10, 64)
}

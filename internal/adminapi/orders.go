package adminapi

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/storeops/storeconsole/internal/domain"
	"github.com/storeops/storeconsole/internal/webserver"
)

type orderPayload struct {
	Description string      `json:"description"`
	Quantity    int         `json:"quantite"`
	Date        domain.Date `json:"date"`
	Amount      float64     `json:"montant"`
	ProductID   *int64      `json:"idProduit"`
}

func (o orderPayload) validate() error {
	if o.Quantity <= 0 {
		return domain.ErrInvalidQuantity
	}
	if o.Amount < 0 {
		return domain.ErrInvalidAmount
	}
	return nil
}

func (o orderPayload) toOrder(id int64) domain.Order {
	return domain.Order{
		ID:          id,
		Description: strings.TrimSpace(o.Description),
		Quantity:    o.Quantity,
		Date:        o.Date,
		Amount:      o.Amount,
		ProductID:   o.ProductID,
	}
}

// registerOrderRoutes registers order CRUD endpoints. Orders have no
// guarded delete: nothing references them.
func (h *Handlers) registerOrderRoutes() {
	webserver.ApiGET("/orders", h.listOrders)
	webserver.ApiGET("/orders/recent", h.listRecentOrders)
	webserver.ApiGET("/orders/:id", h.getOrder)
	webserver.ApiPOST("/orders", h.createOrder)
	webserver.ApiPUT("/orders/:id", h.updateOrder)
	webserver.ApiDELETE("/orders/:id", h.deleteOrder)
}

func (h *Handlers) listOrders(c echo.Context) error {
	orders, err := h.orders.List(c.Request().Context())
	if err != nil {
		return fail(c, http.StatusBadGateway, "BACKEND_ERROR", "Failed to fetch orders", err.Error())
	}
	return ok(c, orders)
}

// listRecentOrders proxies the order service's trailing-window endpoint
// (orders of the last N days, N configured service-side).
func (h *Handlers) listRecentOrders(c echo.Context) error {
	orders, err := h.orders.ListRecent(c.Request().Context())
	if err != nil {
		return fail(c, http.StatusBadGateway, "BACKEND_ERROR", "Failed to fetch recent orders", err.Error())
	}
	return ok(c, orders)
}

func (h *Handlers) getOrder(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid order ID", nil)
	}
	o, err := h.orders.Get(c.Request().Context(), id)
	if err != nil {
		if err == domain.ErrNotFound {
			return fail(c, http.StatusNotFound, "NOT_FOUND", "Order not found", nil)
		}
		return fail(c, http.StatusBadGateway, "BACKEND_ERROR", "Failed to fetch order", err.Error())
	}
	return ok(c, o)
}

func (h *Handlers) createOrder(c echo.Context) error {
	var payload orderPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse order", err.Error())
	}
	if err := payload.validate(); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), nil)
	}

	created, err := h.orders.Create(c.Request().Context(), payload.toOrder(0))
	if err != nil {
		return fail(c, http.StatusBadGateway, "BACKEND_ERROR", "Failed to create order", err.Error())
	}

	h.notify.NotifyMutation("commandes", "create")
	return ok(c, created)
}

func (h *Handlers) updateOrder(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid order ID", nil)
	}
	var payload orderPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse order", err.Error())
	}
	if err := payload.validate(); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), nil)
	}

	updated, err := h.orders.Update(c.Request().Context(), id, payload.toOrder(id))
	if err != nil {
		return fail(c, http.StatusBadGateway, "BACKEND_ERROR", "Failed to update order", err.Error())
	}

	h.notify.NotifyMutation("commandes", "update")
	return ok(c, updated)
}

func (h *Handlers) deleteOrder(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid order ID", nil)
	}
	if err := h.orders.Delete(c.Request().Context(), id); err != nil {
		return fail(c, http.StatusBadGateway, "BACKEND_ERROR", "Failed to delete order", err.Error())
	}

	h.notify.NotifyMutation("commandes", "delete")
	return ok(c, map[string]interface{}{"id": id})
}

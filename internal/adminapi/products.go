package adminapi

import (
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/storeops/storeconsole/internal/domain"
	"github.com/storeops/storeconsole/internal/integrity"
	"github.com/storeops/storeconsole/internal/webserver"
)

type productPayload struct {
	Name  string  `json:"nom"`
	Price float64 `json:"prix"`
}

func (p productPayload) validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return domain.ErrNameRequired
	}
	if p.Price < 0 {
		return domain.ErrInvalidPrice
	}
	return nil
}

// registerProductRoutes registers product CRUD endpoints plus the guarded
// delete and the standalone conflict check
func (h *Handlers) registerProductRoutes() {
	webserver.ApiGET("/products", h.listProducts)
	webserver.ApiGET("/products/:id", h.getProduct)
	webserver.ApiGET("/products/:id/conflicts", h.getProductConflicts)
	webserver.ApiPOST("/products", h.createProduct)
	webserver.ApiPUT("/products/:id", h.updateProduct)
	webserver.ApiDELETE("/products/:id", h.deleteProduct)
}

func (h *Handlers) listProducts(c echo.Context) error {
	products, err := h.products.List(c.Request().Context())
	if err != nil {
		return fail(c, http.StatusBadGateway, "BACKEND_ERROR", "Failed to fetch products", err.Error())
	}

	// Filters: q substring on name, applied console-side (the backend
	// exposes no query params)
	if q := strings.TrimSpace(c.QueryParam("q")); q != "" {
		filtered := products[:0]
		for _, p := range products {
			if strings.Contains(strings.ToLower(p.Name), strings.ToLower(q)) {
				filtered = append(filtered, p)
			}
		}
		products = filtered
	}

	// Sorting: field and order, whitelist of known fields
	sortField := strings.TrimSpace(c.QueryParam("sort"))
	desc := strings.EqualFold(strings.TrimSpace(c.QueryParam("order")), "DESC")
	switch sortField {
	case "nom":
		sort.SliceStable(products, func(i, j int) bool { return products[i].Name < products[j].Name })
	case "prix":
		sort.SliceStable(products, func(i, j int) bool { return products[i].Price < products[j].Price })
	case "", "id":
		sort.SliceStable(products, func(i, j int) bool { return products[i].ID < products[j].ID })
	default:
		sort.SliceStable(products, func(i, j int) bool { return products[i].ID < products[j].ID })
	}
	if desc {
		for i, j := 0, len(products)-1; i < j; i, j = i+1, j-1 {
			products[i], products[j] = products[j], products[i]
		}
	}

	return ok(c, products)
}

func (h *Handlers) getProduct(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	p, err := h.products.Get(c.Request().Context(), id)
	if err != nil {
		if err == domain.ErrNotFound {
			return fail(c, http.StatusNotFound, "NOT_FOUND", "Product not found", nil)
		}
		return fail(c, http.StatusBadGateway, "BACKEND_ERROR", "Failed to fetch product", err.Error())
	}
	return ok(c, p)
}

func (h *Handlers) createProduct(c echo.Context) error {
	var payload productPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse product", err.Error())
	}
	if err := payload.validate(); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), nil)
	}

	created, err := h.products.Create(c.Request().Context(), domain.Product{
		Name:  strings.TrimSpace(payload.Name),
		Price: payload.Price,
	})
	if err != nil {
		return fail(c, http.StatusBadGateway, "BACKEND_ERROR", "Failed to create product", err.Error())
	}

	h.notify.NotifyMutation("produits", "create")
	return ok(c, created)
}

func (h *Handlers) updateProduct(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	var payload productPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse product", err.Error())
	}
	if err := payload.validate(); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), nil)
	}

	updated, err := h.products.Update(c.Request().Context(), id, domain.Product{
		ID:    id,
		Name:  strings.TrimSpace(payload.Name),
		Price: payload.Price,
	})
	if err != nil {
		return fail(c, http.StatusBadGateway, "BACKEND_ERROR", "Failed to update product", err.Error())
	}

	h.notify.NotifyMutation("produits", "update")
	return ok(c, updated)
}

// deleteProduct runs the guarded deletion. The optional nom query param is
// the display label the frontend knows for the product; it only feeds
// messages, never the decision.
func (h *Handlers) deleteProduct(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	label := strings.TrimSpace(c.QueryParam("nom"))

	outcome := h.deleter.DeleteProductSafely(c.Request().Context(), id, label)
	switch outcome.Kind {
	case integrity.OutcomeDeleted:
		h.notify.NotifyMutation("produits", "delete")
		return ok(c, outcome)
	case integrity.OutcomeBlocked:
		msg := fmt.Sprintf("Product is referenced by %d order(s); delete or update those orders first", len(outcome.Conflicting))
		return fail(c, http.StatusConflict, "BLOCKED", msg, outcome.Conflicting)
	case integrity.OutcomeGuardUnavailable:
		return fail(c, http.StatusBadGateway, "GUARD_UNAVAILABLE", "Could not verify order references; try again", outcome.Reason)
	default:
		return fail(c, http.StatusBadGateway, "DELETE_FAILED", "Delete call failed; refresh and retry", outcome.Reason)
	}
}

func (h *Handlers) getProductConflicts(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	res, err := h.checker.CheckConflicts(c.Request().Context(), id)
	if err != nil {
		return fail(c, http.StatusBadGateway, "GUARD_UNAVAILABLE", "Could not verify order references; try again", err.Error())
	}
	return ok(c, res)
}

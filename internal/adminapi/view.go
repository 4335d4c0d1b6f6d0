package adminapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// getView returns the current snapshot: both collections plus the join,
// every order tagged resolved/unreferenced/unavailable.
func (h *Handlers) getView(c echo.Context) error {
	snap := h.view.Current()
	if snap == nil {
		return fail(c, http.StatusServiceUnavailable, "VIEW_EMPTY", "No snapshot loaded yet; trigger a refresh", nil)
	}
	return ok(c, snap)
}

// refreshView forces a full rebuild of the snapshot. A failed refresh
// leaves the previous snapshot installed and is reported as such.
func (h *Handlers) refreshView(c echo.Context) error {
	snap, err := h.view.RefreshAll(c.Request().Context())
	if err != nil {
		return fail(c, http.StatusBadGateway, "REFRESH_FAILED", "Could not refresh from the backend services", err.Error())
	}
	return ok(c, snap)
}

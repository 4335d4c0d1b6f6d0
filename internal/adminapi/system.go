package adminapi

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/montanaflynn/stats"
	"github.com/spf13/cast"
	"github.com/storeops/storeconsole/internal/view"
	"github.com/storeops/storeconsole/pkg/metrics"
)

type storeStats struct {
	ProductCount   int     `json:"product_count"`
	MeanPrice      float64 `json:"mean_price"`
	CatalogValue   float64 `json:"catalog_value"`
	OrderCount     int     `json:"order_count"`
	OrdersTotal    float64 `json:"orders_total"`
	DanglingOrders int     `json:"dangling_orders"`
	ViewVersion    int64   `json:"view_version"`
}

// getStats computes the dashboard aggregates from the current snapshot.
func (h *Handlers) getStats(c echo.Context) error {
	snap := h.view.Current()
	if snap == nil {
		var err error
		snap, err = h.view.RefreshAll(c.Request().Context())
		if err != nil {
			return fail(c, http.StatusBadGateway, "REFRESH_FAILED", "No snapshot available and refresh failed", err.Error())
		}
	}

	prices := make([]float64, 0, len(snap.Products))
	for _, p := range snap.Products {
		prices = append(prices, p.Price)
	}

	s := storeStats{
		ProductCount: len(snap.Products),
		OrderCount:   len(snap.Orders),
		ViewVersion:  snap.Version,
	}
	if len(prices) > 0 {
		if mean, err := stats.Mean(prices); err == nil {
			s.MeanPrice = mean
		}
		if sum, err := stats.Sum(prices); err == nil {
			s.CatalogValue = sum
		}
	}
	for _, jo := range snap.Orders {
		s.OrdersTotal += jo.Order.Amount
		if jo.Resolution == view.ResolutionUnavailable {
			s.DanglingOrders++
		}
	}

	return ok(c, s)
}

type healthReport struct {
	Status   string                 `json:"status"`
	Backends map[string]interface{} `json:"backends"`
	View     map[string]interface{} `json:"view"`
}

// getHealth reports the console's own state and the last probe result per
// backend. Probe state is informational; it never gates or fakes data.
func (h *Handlers) getHealth(c echo.Context) error {
	probes := h.health.BackendHealth()

	status := "ok"
	backends := make(map[string]interface{}, len(probes))
	for name, p := range probes {
		backends[name] = p
		if !p.Healthy {
			status = "degraded"
		}
	}

	viewState := map[string]interface{}{"loaded": false}
	if snap := h.view.Current(); snap != nil {
		viewState["loaded"] = true
		viewState["version"] = snap.Version
		viewState["taken_at"] = snap.TakenAt
	}

	return ok(c, healthReport{Status: status, Backends: backends, View: viewState})
}

// getMetric returns the recorded points of one gauge over a trailing
// window (minutes query param, default 60).
func (h *Handlers) getMetric(c echo.Context) error {
	name := c.Param("name")
	minutes := cast.ToInt(c.QueryParam("minutes"))
	if minutes <= 0 {
		minutes = 60
	}

	end := time.Now().Unix()
	start := end - int64(minutes)*60
	points, err := metrics.GetRange(name, start, end)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "METRICS_ERROR", "Failed to query metric", err.Error())
	}
	return ok(c, map[string]interface{}{"name": name, "points": points})
}

package httpapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// MetricsHandler serves a Prometheus scrape endpoint at /metrics.
type MetricsHandler struct {
	handler http.Handler
}

func NewMetricsHandler(h http.Handler) *MetricsHandler {
	return &MetricsHandler{handler: h}
}

func (h *MetricsHandler) Register(e *echo.Echo) {
	e.GET("/metrics", echo.WrapHandler(h.handler))
}

package router

import (
	"github.com/labstack/echo/v4"

	"github.com/deppfellow/rowboard/internal/handler"
	"github.com/deppfellow/rowboard/static"
)

// registerSystemRoutes registers the endpoints that are not part of the
// API itself: health, docs UI and the embedded doc assets.
func registerSystemRoutes(r *echo.Echo, h *handler.Handlers) {
	r.GET("/status", h.Health.CheckHealth)

	r.StaticFS("/static", static.FS)

	r.GET("/docs", h.OpenAPI.ServeOpenAPIUI)
}

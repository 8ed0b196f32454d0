package api

import (
	"time"

	"github.com/labstack/echo/v4"
)

// RegisterRoutes mounts the viewer API on e.
func RegisterRoutes(e *echo.Echo, h *Handler, liveInterval time.Duration) {
	wsh := NewWebSocketHandler(h, liveInterval)

	apiGroup := e.Group("/api")
	apiGroup.GET("/health", h.HandleHealth)
	apiGroup.GET("/series", h.HandleSeries)
	apiGroup.GET("/segments", h.HandleSegments)
	apiGroup.GET("/segments/msgpack", h.HandleSegmentsMsgpack)
	apiGroup.GET("/targets", h.HandleTargets)
	apiGroup.GET("/keys", h.HandleKeys)

	e.GET("/ws/live", wsh.HandleLive)
}

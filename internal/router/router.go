package router // package router defines how HTTP routes are registered

import (
    "github.com/labstack/echo/v4"

    "github.com/iliyamo/cinema-seat-picker/internal/handler"
    "github.com/iliyamo/cinema-seat-picker/internal/middleware"
)

// RegisterRoutes registers routes that need no session: the health check.
func RegisterRoutes(e *echo.Echo) {
    e.GET("/healthz", handler.Health)
}

// RegisterPage registers the HTML page, the catalog and session creation.
// cache wraps the catalog route; limit wraps session creation.
func RegisterPage(e *echo.Echo, h *handler.PageHandler, cache, limit echo.MiddlewareFunc) {
    e.GET("/", h.Index)
    e.GET("/v1/screening", h.Screening, cache)
    e.POST("/v1/sessions", h.CreateSession, limit)
}

// RegisterSession registers the routes of a mounted page.  SessionAuth runs
// before the rate limiter so buckets can be keyed by session.
func RegisterSession(e *echo.Echo, h *handler.PageHandler, limit echo.MiddlewareFunc) {
    auth := middleware.SessionAuth(middleware.SessionAuthConfig{
        Secret:       h.Secret,
        TTL:          h.TTL,
        CookieSecure: h.CookieSecure,
    })
    g := e.Group("/v1/session", auth, limit)
    g.GET("", h.GetSession)
    g.DELETE("", h.DeleteSession)
    g.POST("/seats/:seat/toggle", h.ToggleSeat)
    g.PUT("/appearance", h.SetAppearance)
    g.POST("/theme/toggle", h.ToggleTheme)
    g.POST("/purchase", h.Purchase)
}

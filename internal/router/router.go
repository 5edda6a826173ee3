// Package router wires HTTP routes to their handlers and middleware.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/parkease/parking-slot-reservation/internal/handler"
	"github.com/parkease/parking-slot-reservation/internal/middleware"
)

// RegisterRoutes registers the operational endpoints: the health
// check used by load balancers and the Prometheus scrape target.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
}

// RegisterAuth registers authentication routes. Token-issuing
// operations live under /v1/auth without middleware; identity
// endpoints live under /v1 behind JWT validation.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	g.POST("/refresh-access", a.RefreshAccess)
	// Logout accepts either a refresh token in the body or a Bearer
	// token, so it stays outside the JWT middleware.
	g.POST("/logout", a.Logout)
	e.POST("/v1/logout", a.Logout)

	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.GET("/me", a.Me)
	auth.PUT("/me/profile", a.UpdateProfile)
}

// RegisterPublic registers the unauthenticated catalog and
// availability endpoints. Catalog routes go through the response
// cache; availability never does, because slot status must be read
// fresh on every request.
func RegisterPublic(e *echo.Echo, p *handler.PublicHandler, av *handler.AvailabilityHandler, cache echo.MiddlewareFunc) {
	e.GET("/v1/cities", p.ListCities, cache)
	e.GET("/v1/cities/:id/facilities", p.FacilitiesByCity, cache)
	e.GET("/v1/facilities/search", p.SearchFacilities, cache)
	e.GET("/v1/facilities/:id", p.FacilityDetail, cache)

	e.GET("/v1/facilities/:id/availability", av.Availability)
}

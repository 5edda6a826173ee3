package router

import (
	"github.com/labstack/echo/v4"

	"github.com/parkease/parking-slot-reservation/internal/handler"
	"github.com/parkease/parking-slot-reservation/internal/middleware"
	"github.com/parkease/parking-slot-reservation/internal/model"
)

// RegisterRenter registers booking and reward endpoints. Every route
// requires a valid token with the RENTER role.
func RegisterRenter(e *echo.Echo, b *handler.BookingHandler, rw *handler.RewardHandler, jwtSecret string) {
	g := e.Group("/v1")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole(model.RoleRenter))

	g.POST("/bookings", b.CreateBooking)
	g.GET("/bookings", b.MyBookings)
	g.GET("/bookings/:id", b.GetBooking)

	g.GET("/rewards", rw.Balance)
	g.POST("/rewards/convert", rw.Convert)
	g.POST("/rewards/redeem", rw.Redeem)
	g.GET("/rewards/history", rw.History)
}

package router

import (
	"github.com/labstack/echo/v4"

	"github.com/parkease/parking-slot-reservation/internal/handler"
	"github.com/parkease/parking-slot-reservation/internal/middleware"
	"github.com/parkease/parking-slot-reservation/internal/model"
)

// RegisterOwner registers facility management, the slot dashboard
// and reporting. Every route requires a valid token with the OWNER
// role.
func RegisterOwner(e *echo.Echo, o *handler.OwnerHandler, r *handler.ReportHandler, jwtSecret string) {
	g := e.Group("/v1/owner")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole(model.RoleOwner))

	g.POST("/facilities", o.CreateFacility)
	g.GET("/facilities", o.ListFacilities)
	g.PUT("/facilities/:id", o.UpdateFacility)

	g.GET("/slots", o.SlotDashboard)
	g.PATCH("/slots/:id", o.ToggleSlot)

	g.GET("/reports/bookings", r.History)
	g.GET("/reports/bookings/export", r.ExportXLSX)
	g.GET("/reports/statistics", r.Statistics)
}
